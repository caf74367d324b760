package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/plated-dev/chef-league/internal/domain/event"
	"github.com/plated-dev/chef-league/internal/domain/league"
	"github.com/plated-dev/chef-league/internal/domain/scoring"
)

func seedLeague() league.League {
	now := time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)
	return league.League{
		ID:            "lg-1",
		Name:          "Brunch Bracket",
		Season:        22,
		Status:        league.StatusDraft,
		CurrentWeek:   1,
		MaxMembers:    3,
		MaxRosterSize: 2,
		InviteCode:    "WXYZ2345",
		Scoring:       scoring.DefaultSettings(),
		DraftOrder:    []string{"user-owner", "user-member"},
		Members: []league.Member{
			{UserID: "user-owner", Role: league.RoleOwner, JoinedAt: now},
			{UserID: "user-member", Role: league.RoleMember, JoinedAt: now},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newLeagueService(repo *stubLeagueRepo, announcer *recordingAnnouncer) *LeagueService {
	var a event.Announcer
	if announcer != nil {
		a = announcer
	}
	s := NewLeagueService(repo, a, &sequenceIDGen{})
	s.now = func() time.Time { return time.Date(2026, time.February, 2, 9, 0, 0, 0, time.UTC) }
	return s
}

func TestCreateLeague(t *testing.T) {
	repo := newStubLeagueRepo()
	s := newLeagueService(repo, nil)

	created, err := s.CreateLeague(context.Background(), CreateLeagueInput{
		UserID: "user-owner",
		Name:   "  Brunch Bracket  ",
		Season: 22,
	})
	if err != nil {
		t.Fatalf("create league: %v", err)
	}
	if created.Name != "Brunch Bracket" {
		t.Fatalf("unexpected name: %q", created.Name)
	}
	if created.Status != league.StatusDraft {
		t.Fatalf("expected draft status, got %s", created.Status)
	}
	if created.MaxMembers != defaultMaxMembers || created.MaxRosterSize != defaultMaxRosterSize {
		t.Fatalf("expected defaults applied, got members=%d roster=%d", created.MaxMembers, created.MaxRosterSize)
	}
	if len(created.Members) != 1 || created.Members[0].Role != league.RoleOwner {
		t.Fatalf("expected creator as owner, got %+v", created.Members)
	}
	if len(created.InviteCode) != 8 {
		t.Fatalf("unexpected invite code length: %q", created.InviteCode)
	}
	for _, r := range created.InviteCode {
		if !strings.ContainsRune(inviteCodeAlphabet, r) {
			t.Fatalf("invite code %q uses rune outside alphabet", created.InviteCode)
		}
	}
	if created.Scoring != scoring.DefaultSettings() {
		t.Fatalf("expected default scoring settings")
	}

	stored, exists, _ := repo.GetByID(context.Background(), created.ID)
	if !exists || stored.Version != 1 {
		t.Fatalf("expected persisted league at version 1, got exists=%t version=%d", exists, stored.Version)
	}
}

func TestCreateLeagueValidation(t *testing.T) {
	s := newLeagueService(newStubLeagueRepo(), nil)

	tests := []struct {
		name  string
		input CreateLeagueInput
	}{
		{name: "missing user", input: CreateLeagueInput{Name: "x", Season: 1}},
		{name: "missing name", input: CreateLeagueInput{UserID: "u", Season: 1}},
		{name: "zero season", input: CreateLeagueInput{UserID: "u", Name: "x"}},
		{name: "one member cap", input: CreateLeagueInput{UserID: "u", Name: "x", Season: 1, MaxMembers: 1}},
		{name: "negative roster size", input: CreateLeagueInput{UserID: "u", Name: "x", Season: 1, MaxRosterSize: -1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := s.CreateLeague(context.Background(), tt.input); !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestJoinByInviteCode(t *testing.T) {
	repo := newStubLeagueRepo(seedLeague())
	announcer := &recordingAnnouncer{}
	s := newLeagueService(repo, announcer)

	joined, err := s.JoinByInviteCode(context.Background(), JoinLeagueInput{
		UserID:     "user-new",
		InviteCode: "wxyz2345",
	})
	if err != nil {
		t.Fatalf("join league: %v", err)
	}
	if !joined.HasMember("user-new") {
		t.Fatal("expected new member on league")
	}
	if joined.DraftOrder[len(joined.DraftOrder)-1] != "user-new" {
		t.Fatal("expected new member appended to draft order")
	}
	if joined.Version != 2 {
		t.Fatalf("expected version bump to 2, got %d", joined.Version)
	}
	if got := announcer.topics(); len(got) != 1 || got[0] != "league.members_changed" {
		t.Fatalf("unexpected announcements: %v", got)
	}
}

func TestJoinByInviteCodeErrors(t *testing.T) {
	t.Run("unknown code", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		_, err := s.JoinByInviteCode(context.Background(), JoinLeagueInput{UserID: "u", InviteCode: "NOPE1234"})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("duplicate member", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		_, err := s.JoinByInviteCode(context.Background(), JoinLeagueInput{UserID: "user-owner", InviteCode: "WXYZ2345"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("full league", func(t *testing.T) {
		l := seedLeague()
		l.MaxMembers = 2
		s := newLeagueService(newStubLeagueRepo(l), nil)
		_, err := s.JoinByInviteCode(context.Background(), JoinLeagueInput{UserID: "user-new", InviteCode: "WXYZ2345"})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("completed league", func(t *testing.T) {
		l := seedLeague()
		l.Status = league.StatusCompleted
		s := newLeagueService(newStubLeagueRepo(l), nil)
		_, err := s.JoinByInviteCode(context.Background(), JoinLeagueInput{UserID: "user-new", InviteCode: "WXYZ2345"})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("retries version conflicts then succeeds", func(t *testing.T) {
		repo := newStubLeagueRepo(seedLeague())
		repo.failUpdates = 2
		s := newLeagueService(repo, nil)
		if _, err := s.JoinByInviteCode(context.Background(), JoinLeagueInput{UserID: "user-new", InviteCode: "WXYZ2345"}); err != nil {
			t.Fatalf("expected join to survive two conflicts, got %v", err)
		}
	})

	t.Run("retry budget exhausted", func(t *testing.T) {
		repo := newStubLeagueRepo(seedLeague())
		repo.failUpdates = casMaxRetries
		s := newLeagueService(repo, nil)
		_, err := s.JoinByInviteCode(context.Background(), JoinLeagueInput{UserID: "user-new", InviteCode: "WXYZ2345"})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict after retry exhaustion, got %v", err)
		}
	})
}

func TestGetLeagueMembershipGate(t *testing.T) {
	s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)

	if _, err := s.GetLeague(context.Background(), "user-owner", "lg-1"); err != nil {
		t.Fatalf("expected member to read league, got %v", err)
	}
	if _, err := s.GetLeague(context.Background(), "user-stranger", "lg-1"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized, got %v", err)
	}
	if _, err := s.GetLeague(context.Background(), "user-owner", "lg-missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdateSettings(t *testing.T) {
	t.Run("owner updates name and sizes in draft", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		name := "Renamed"
		members := 6
		roster := 4
		updated, err := s.UpdateSettings(context.Background(), UpdateLeagueSettingsInput{
			UserID:        "user-owner",
			LeagueID:      "lg-1",
			Name:          &name,
			MaxMembers:    &members,
			MaxRosterSize: &roster,
		})
		if err != nil {
			t.Fatalf("update settings: %v", err)
		}
		if updated.Name != "Renamed" || updated.MaxMembers != 6 || updated.MaxRosterSize != 4 {
			t.Fatalf("unexpected updated league: %+v", updated)
		}
	})

	t.Run("member cannot manage", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		name := "Renamed"
		_, err := s.UpdateSettings(context.Background(), UpdateLeagueSettingsInput{
			UserID: "user-member", LeagueID: "lg-1", Name: &name,
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})

	t.Run("roster size frozen after draft", func(t *testing.T) {
		l := seedLeague()
		l.Status = league.StatusActive
		s := newLeagueService(newStubLeagueRepo(l), nil)
		roster := 4
		_, err := s.UpdateSettings(context.Background(), UpdateLeagueSettingsInput{
			UserID: "user-owner", LeagueID: "lg-1", MaxRosterSize: &roster,
		})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("max members floor is current membership", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		members := 1
		_, err := s.UpdateSettings(context.Background(), UpdateLeagueSettingsInput{
			UserID: "user-owner", LeagueID: "lg-1", MaxMembers: &members,
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("owner advances current week", func(t *testing.T) {
		l := seedLeague()
		l.Status = league.StatusActive
		s := newLeagueService(newStubLeagueRepo(l), nil)
		week := 4
		updated, err := s.UpdateSettings(context.Background(), UpdateLeagueSettingsInput{
			UserID: "user-owner", LeagueID: "lg-1", CurrentWeek: &week,
		})
		if err != nil {
			t.Fatalf("update settings: %v", err)
		}
		if updated.CurrentWeek != 4 {
			t.Fatalf("expected current week 4, got %d", updated.CurrentWeek)
		}
	})

	t.Run("current week below one rejected", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		week := 0
		_, err := s.UpdateSettings(context.Background(), UpdateLeagueSettingsInput{
			UserID: "user-owner", LeagueID: "lg-1", CurrentWeek: &week,
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("empty patch rejected", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		_, err := s.UpdateSettings(context.Background(), UpdateLeagueSettingsInput{UserID: "user-owner", LeagueID: "lg-1"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})
}

func TestTransitionStatus(t *testing.T) {
	t.Run("draft to active", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		updated, err := s.TransitionStatus(context.Background(), TransitionLeagueInput{
			UserID: "user-owner", LeagueID: "lg-1", To: league.StatusActive,
		})
		if err != nil {
			t.Fatalf("transition: %v", err)
		}
		if updated.Status != league.StatusActive {
			t.Fatalf("expected active, got %s", updated.Status)
		}
	})

	t.Run("skipping active is rejected", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		_, err := s.TransitionStatus(context.Background(), TransitionLeagueInput{
			UserID: "user-owner", LeagueID: "lg-1", To: league.StatusCompleted,
		})
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
	})

	t.Run("unknown status", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		_, err := s.TransitionStatus(context.Background(), TransitionLeagueInput{
			UserID: "user-owner", LeagueID: "lg-1", To: "archived",
		})
		if !errors.Is(err, ErrInvalidInput) {
			t.Fatalf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("member cannot transition", func(t *testing.T) {
		s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
		_, err := s.TransitionStatus(context.Background(), TransitionLeagueInput{
			UserID: "user-member", LeagueID: "lg-1", To: league.StatusActive,
		})
		if !errors.Is(err, ErrUnauthorized) {
			t.Fatalf("expected ErrUnauthorized, got %v", err)
		}
	})
}

func TestUpdateDraftOrder(t *testing.T) {
	t.Run("valid reorder announces", func(t *testing.T) {
		announcer := &recordingAnnouncer{}
		s := newLeagueService(newStubLeagueRepo(seedLeague()), announcer)
		updated, err := s.UpdateDraftOrder(context.Background(), UpdateDraftOrderInput{
			UserID: "user-owner", LeagueID: "lg-1", Order: []string{"user-member", "user-owner"},
		})
		if err != nil {
			t.Fatalf("update draft order: %v", err)
		}
		if updated.DraftOrder[0] != "user-member" {
			t.Fatalf("unexpected order: %v", updated.DraftOrder)
		}
		if got := announcer.topics(); len(got) != 1 || got[0] != "league.draft_order_changed" {
			t.Fatalf("unexpected announcements: %v", got)
		}
	})

	tests := []struct {
		name  string
		order []string
	}{
		{name: "missing member", order: []string{"user-owner"}},
		{name: "duplicate entry", order: []string{"user-owner", "user-owner"}},
		{name: "non member", order: []string{"user-owner", "user-stranger"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newLeagueService(newStubLeagueRepo(seedLeague()), nil)
			_, err := s.UpdateDraftOrder(context.Background(), UpdateDraftOrderInput{
				UserID: "user-owner", LeagueID: "lg-1", Order: tt.order,
			})
			if !errors.Is(err, ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}
