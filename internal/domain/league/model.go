package league

import (
	"fmt"
	"time"

	"github.com/plated-dev/chef-league/internal/domain/scoring"
)

// Status is the lifecycle phase of a league.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Role is a member's permission level inside one league.
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// League is a private season-long competition among a bounded set of users.
// The aggregate embeds its members and their rosters; Version is the
// optimistic-concurrency token repositories check on update.
type League struct {
	ID            string
	Name          string
	Season        int
	Status        Status
	CurrentWeek   int
	MaxMembers    int
	MaxRosterSize int
	InviteCode    string
	Scoring       scoring.Settings
	DraftOrder    []string
	Members       []Member
	Version       int64
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Member is a user's participation record within one league.
type Member struct {
	UserID   string
	Role     Role
	Score    int
	Roster   []RosterSlot
	JoinedAt time.Time
}

// RosterSlot binds one chef to one member. Slots are append-only; a benched
// chef keeps its slot with Active set to false.
type RosterSlot struct {
	ChefID    string
	DraftedAt time.Time
	Active    bool
}

func (l League) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("league id is required")
	}
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}
	if l.Season <= 0 {
		return fmt.Errorf("league season must be greater than zero")
	}
	if l.MaxMembers <= 0 {
		return fmt.Errorf("league max members must be greater than zero")
	}
	if l.MaxRosterSize <= 0 {
		return fmt.Errorf("league max roster size must be greater than zero")
	}
	if l.CurrentWeek < 1 {
		return fmt.Errorf("league current week must be at least 1")
	}
	if len(l.Members) == 0 || len(l.Members) > l.MaxMembers {
		return fmt.Errorf("league member count must be between 1 and %d", l.MaxMembers)
	}

	return nil
}

// MemberByUser returns a pointer into l.Members so callers can mutate the
// member in place before persisting the aggregate.
func (l *League) MemberByUser(userID string) (*Member, bool) {
	for i := range l.Members {
		if l.Members[i].UserID == userID {
			return &l.Members[i], true
		}
	}
	return nil, false
}

// HasMember reports whether the user already participates in the league.
func (l League) HasMember(userID string) bool {
	for _, m := range l.Members {
		if m.UserID == userID {
			return true
		}
	}
	return false
}

// RosterHolder returns the user id of the member whose roster contains the
// chef. The check spans all slots regardless of the Active flag: a benched
// chef still blocks a re-draft.
func (l League) RosterHolder(chefID string) (string, bool) {
	for _, m := range l.Members {
		for _, slot := range m.Roster {
			if slot.ChefID == chefID {
				return m.UserID, true
			}
		}
	}
	return "", false
}

// CanManage reports whether the member may mutate league-level fields.
func (m Member) CanManage() bool {
	return m.Role == RoleOwner || m.Role == RoleAdmin
}
