package usecase

import (
	"context"
	"fmt"
	"sync"

	"github.com/plated-dev/chef-league/internal/domain/chef"
	"github.com/plated-dev/chef-league/internal/domain/event"
	"github.com/plated-dev/chef-league/internal/domain/league"
)

// stubLeagueRepo is a mutex-guarded in-memory league store with the same
// version-check semantics the real repositories implement.
type stubLeagueRepo struct {
	mu      sync.Mutex
	leagues map[string]league.League

	failUpdates int
	updateCalls int
}

func newStubLeagueRepo(leagues ...league.League) *stubLeagueRepo {
	r := &stubLeagueRepo{leagues: make(map[string]league.League)}
	for _, l := range leagues {
		r.leagues[l.ID] = cloneLeague(l)
	}
	return r
}

func (r *stubLeagueRepo) Create(_ context.Context, l league.League) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.leagues[l.ID]; exists {
		return fmt.Errorf("league %s already exists", l.ID)
	}
	r.leagues[l.ID] = cloneLeague(l)
	return nil
}

func (r *stubLeagueRepo) GetByID(_ context.Context, leagueID string) (league.League, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	l, ok := r.leagues[leagueID]
	if !ok {
		return league.League{}, false, nil
	}
	return cloneLeague(l), true, nil
}

func (r *stubLeagueRepo) GetByInviteCode(_ context.Context, inviteCode string) (league.League, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, l := range r.leagues {
		if l.InviteCode == inviteCode {
			return cloneLeague(l), true, nil
		}
	}
	return league.League{}, false, nil
}

func (r *stubLeagueRepo) ListByUser(_ context.Context, userID string) ([]league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []league.League
	for _, l := range r.leagues {
		if l.HasMember(userID) {
			out = append(out, cloneLeague(l))
		}
	}
	return out, nil
}

func (r *stubLeagueRepo) ListByRosterChef(_ context.Context, chefID string) ([]league.League, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []league.League
	for _, l := range r.leagues {
		if _, ok := l.RosterHolder(chefID); ok {
			out = append(out, cloneLeague(l))
		}
	}
	return out, nil
}

func (r *stubLeagueRepo) Update(_ context.Context, l league.League, expectedVersion int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.updateCalls++
	if r.failUpdates > 0 {
		r.failUpdates--
		return league.ErrVersionConflict
	}
	current, ok := r.leagues[l.ID]
	if !ok {
		return fmt.Errorf("league %s not found", l.ID)
	}
	if current.Version != expectedVersion {
		return league.ErrVersionConflict
	}
	r.leagues[l.ID] = cloneLeague(l)
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

type stubChefRepo struct {
	mu    sync.Mutex
	chefs map[string]chef.Chef
}

func newStubChefRepo(chefs ...chef.Chef) *stubChefRepo {
	r := &stubChefRepo{chefs: make(map[string]chef.Chef)}
	for _, c := range chefs {
		r.chefs[c.ID] = cloneChef(c)
	}
	return r
}

func (r *stubChefRepo) List(_ context.Context) ([]chef.Chef, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]chef.Chef, 0, len(r.chefs))
	for _, c := range r.chefs {
		out = append(out, cloneChef(c))
	}
	return out, nil
}

func (r *stubChefRepo) GetByID(_ context.Context, chefID string) (chef.Chef, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.chefs[chefID]
	if !ok {
		return chef.Chef{}, false, nil
	}
	return cloneChef(c), true, nil
}

func (r *stubChefRepo) Update(_ context.Context, c chef.Chef) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.chefs[c.ID]; !ok {
		return fmt.Errorf("chef %s not found", c.ID)
	}
	r.chefs[c.ID] = cloneChef(c)
	return nil
}

func cloneChef(c chef.Chef) chef.Chef {
	out := c
	out.Weekly = append([]chef.WeeklyPerformance(nil), c.Weekly...)
	if c.EliminationWeek != nil {
		week := *c.EliminationWeek
		out.EliminationWeek = &week
	}
	return out
}

type announcedEvent struct {
	topic   event.Topic
	payload event.Payload
}

type recordingAnnouncer struct {
	mu     sync.Mutex
	events []announcedEvent
}

func (a *recordingAnnouncer) Announce(_ context.Context, topic event.Topic, payload event.Payload) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, announcedEvent{topic: topic, payload: payload})
}

func (a *recordingAnnouncer) topics() []event.Topic {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]event.Topic, 0, len(a.events))
	for _, e := range a.events {
		out = append(out, e.topic)
	}
	return out
}

type sequenceIDGen struct {
	mu   sync.Mutex
	next int
}

func (g *sequenceIDGen) NewID() (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.next++
	return fmt.Sprintf("id-%04d", g.next), nil
}
