package postgres

import (
	"database/sql"
	"time"
)

type chefTableModel struct {
	ID              string        `db:"id"`
	Name            string        `db:"name"`
	Bio             string        `db:"bio"`
	Hometown        string        `db:"hometown"`
	Specialty       string        `db:"specialty"`
	Status          string        `db:"status"`
	EliminationWeek sql.NullInt64 `db:"elimination_week"`
	Wins            int           `db:"wins"`
	Eliminations    int           `db:"eliminations"`
	QuickfireWins   int           `db:"quickfire_wins"`
	ChallengeWins   int           `db:"challenge_wins"`
	LCKWins         int           `db:"lck_wins"`
	TotalPoints     int           `db:"total_points"`
	CreatedAt       time.Time     `db:"created_at"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

type chefWeekTableModel struct {
	ChefID     string        `db:"chef_id"`
	Week       int           `db:"week"`
	Points     int           `db:"points"`
	Highlights []byte        `db:"highlights"`
	Rank       sql.NullInt64 `db:"rank"`
	Notes      string        `db:"notes"`
	RecordedAt time.Time     `db:"recorded_at"`
}
