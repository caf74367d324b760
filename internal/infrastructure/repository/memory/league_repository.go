package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/plated-dev/chef-league/internal/domain/league"
)

// LeagueRepository keeps whole league aggregates in process memory. Reads
// and writes exchange deep clones so callers never share slices with the
// store, and Update enforces the same version check the postgres store does.
type LeagueRepository struct {
	mu    sync.RWMutex
	items map[string]league.League
}

func NewLeagueRepository(leagues []league.League) *LeagueRepository {
	items := make(map[string]league.League, len(leagues))
	for _, l := range leagues {
		items[l.ID] = cloneLeague(l)
	}
	return &LeagueRepository{items: items}
}

func (r *LeagueRepository) Create(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[l.ID]; exists {
		return fmt.Errorf("league %s already exists", l.ID)
	}
	for _, existing := range r.items {
		if existing.InviteCode == l.InviteCode {
			return fmt.Errorf("invite code %s already in use", l.InviteCode)
		}
	}
	r.items[l.ID] = cloneLeague(l)

	return nil
}

func (r *LeagueRepository) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	l, ok := r.items[leagueID]
	if !ok {
		return league.League{}, false, nil
	}

	return cloneLeague(l), true, nil
}

func (r *LeagueRepository) GetByInviteCode(_ context.Context, inviteCode string) (league.League, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, l := range r.items {
		if l.InviteCode == inviteCode {
			return cloneLeague(l), true, nil
		}
	}

	return league.League{}, false, nil
}

func (r *LeagueRepository) ListByUser(_ context.Context, userID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, l := range r.items {
		if l.HasMember(userID) {
			out = append(out, cloneLeague(l))
		}
	}
	// Map iteration order is random; match the postgres ordering.
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *LeagueRepository) ListByRosterChef(_ context.Context, chefID string) ([]league.League, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]league.League, 0)
	for _, l := range r.items {
		if _, ok := l.RosterHolder(chefID); ok {
			out = append(out, cloneLeague(l))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	return out, nil
}

func (r *LeagueRepository) Update(_ context.Context, l league.League, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.items[l.ID]
	if !ok {
		return fmt.Errorf("league %s not found", l.ID)
	}
	if current.Version != expectedVersion {
		return league.ErrVersionConflict
	}
	r.items[l.ID] = cloneLeague(l)

	return nil
}

func cloneLeague(l league.League) league.League {
	out := l
	out.DraftOrder = append([]string(nil), l.DraftOrder...)
	out.Members = make([]league.Member, len(l.Members))
	for i, m := range l.Members {
		cm := m
		cm.Roster = append([]league.RosterSlot(nil), m.Roster...)
		out.Members[i] = cm
	}
	return out
}
