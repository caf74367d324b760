package postgres

import "time"

type leagueTableModel struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Season        int       `db:"season"`
	Status        string    `db:"status"`
	CurrentWeek   int       `db:"current_week"`
	MaxMembers    int       `db:"max_members"`
	MaxRosterSize int       `db:"max_roster_size"`
	InviteCode    string    `db:"invite_code"`
	Scoring       []byte    `db:"scoring"`
	DraftOrder    []byte    `db:"draft_order"`
	Version       int64     `db:"version"`
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}

type leagueMemberTableModel struct {
	LeagueID string    `db:"league_id"`
	UserID   string    `db:"user_id"`
	Role     string    `db:"role"`
	Score    int       `db:"score"`
	Position int       `db:"position"`
	JoinedAt time.Time `db:"joined_at"`
}

type rosterSlotTableModel struct {
	LeagueID  string    `db:"league_id"`
	UserID    string    `db:"user_id"`
	ChefID    string    `db:"chef_id"`
	DraftedAt time.Time `db:"drafted_at"`
	Active    bool      `db:"active"`
	Position  int       `db:"position"`
}
