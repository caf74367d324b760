package chef

import (
	"fmt"
	"time"

	"github.com/plated-dev/chef-league/internal/domain/scoring"
)

// Status tracks a contestant's fate on the show.
type Status string

const (
	StatusActive     Status = "active"
	StatusEliminated Status = "eliminated"
	StatusWinner     Status = "winner"
)

// Chef is a contestant. Chefs are global entities: elimination state and
// canonical performance history are shared by every league that drafted them.
type Chef struct {
	ID              string
	Name            string
	Bio             string
	Hometown        string
	Specialty       string
	Status          Status
	EliminationWeek *int
	Stats           Stats
	Weekly          []WeeklyPerformance
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Stats are cumulative counters maintained by the weekly scoring action.
// Wins mirrors ChallengeWins; it is kept as its own column because older
// season exports carried it separately.
type Stats struct {
	Wins          int
	Eliminations  int
	QuickfireWins int
	ChallengeWins int
	LCKWins       int
	TotalPoints   int
}

// WeeklyPerformance is one immutable scoring record. Entries are append-only
// and unique per week; a correction is a new administrative action, not an
// edit.
type WeeklyPerformance struct {
	Week       int
	Points     int
	Highlights []string
	Rank       *int
	Notes      string
	RecordedAt time.Time
}

func (c Chef) Validate() error {
	if c.ID == "" {
		return fmt.Errorf("chef id is required")
	}
	if c.Name == "" {
		return fmt.Errorf("chef name is required")
	}
	switch c.Status {
	case StatusActive, StatusEliminated, StatusWinner:
	default:
		return fmt.Errorf("unknown chef status: %s", c.Status)
	}

	return nil
}

// HasWeek reports whether a weekly entry already exists for the week.
func (c Chef) HasWeek(week int) bool {
	for _, entry := range c.Weekly {
		if entry.Week == week {
			return true
		}
	}
	return false
}

// ApplyWeek appends the weekly entry and folds the scoring result into the
// cumulative stats. The caller owns uniqueness and persistence.
func (c *Chef) ApplyWeek(entry WeeklyPerformance, result scoring.Result) {
	c.Weekly = append(c.Weekly, entry)
	c.Stats.TotalPoints += result.Points
	c.Stats.QuickfireWins += result.Increments.QuickfireWins
	c.Stats.ChallengeWins += result.Increments.ChallengeWins
	c.Stats.Wins += result.Increments.ChallengeWins
	c.Stats.LCKWins += result.Increments.LCKWins
	c.Stats.Eliminations += result.Increments.Eliminations
	if result.Eliminated {
		week := entry.Week
		c.Status = StatusEliminated
		c.EliminationWeek = &week
	}
}
