package league

import (
	"errors"
	"testing"
	"time"
)

func draftLeague() League {
	return League{
		ID:            "lg-1",
		Name:          "Test Kitchen",
		Season:        22,
		Status:        StatusDraft,
		CurrentWeek:   1,
		MaxMembers:    4,
		MaxRosterSize: 2,
		InviteCode:    "BRNZRQWK",
		Members: []Member{
			{UserID: "user-a", Role: RoleOwner, JoinedAt: time.Now()},
			{UserID: "user-b", Role: RoleMember, JoinedAt: time.Now()},
		},
	}
}

func TestValidateTransition(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		from    Status
		to      Status
		wantErr bool
	}{
		{name: "draft to active", from: StatusDraft, to: StatusActive},
		{name: "active to completed", from: StatusActive, to: StatusCompleted},
		{name: "draft to completed", from: StatusDraft, to: StatusCompleted, wantErr: true},
		{name: "active to draft", from: StatusActive, to: StatusDraft, wantErr: true},
		{name: "completed is terminal", from: StatusCompleted, to: StatusActive, wantErr: true},
		{name: "completed to draft", from: StatusCompleted, to: StatusDraft, wantErr: true},
		{name: "self transition", from: StatusActive, to: StatusActive, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateTransition(tt.from, tt.to)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("expected ErrInvalidTransition, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestCheckDraftPick(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		mutate    func(*League)
		userID    string
		chefID    string
		targetErr error
	}{
		{
			name:   "valid pick",
			mutate: func(_ *League) {},
			userID: "user-a",
			chefID: "chef-1",
		},
		{
			name:      "league not in draft",
			mutate:    func(l *League) { l.Status = StatusActive },
			userID:    "user-a",
			chefID:    "chef-1",
			targetErr: ErrNotInDraft,
		},
		{
			name:      "not a member",
			mutate:    func(_ *League) {},
			userID:    "user-z",
			chefID:    "chef-1",
			targetErr: ErrNotAMember,
		},
		{
			name: "roster full",
			mutate: func(l *League) {
				l.Members[0].Roster = []RosterSlot{
					{ChefID: "chef-2", Active: true},
					{ChefID: "chef-3", Active: true},
				}
			},
			userID:    "user-a",
			chefID:    "chef-1",
			targetErr: ErrRosterFull,
		},
		{
			name: "chef drafted by another member",
			mutate: func(l *League) {
				l.Members[1].Roster = []RosterSlot{{ChefID: "chef-1", Active: true}}
			},
			userID:    "user-a",
			chefID:    "chef-1",
			targetErr: ErrChefAlreadyTaken,
		},
		{
			name: "benched chef still blocks re-draft",
			mutate: func(l *League) {
				l.Members[1].Roster = []RosterSlot{{ChefID: "chef-1", Active: false}}
			},
			userID:    "user-a",
			chefID:    "chef-1",
			targetErr: ErrChefAlreadyTaken,
		},
		{
			name: "phase check outranks roster full",
			mutate: func(l *League) {
				l.Status = StatusActive
				l.Members[0].Roster = []RosterSlot{
					{ChefID: "chef-2", Active: true},
					{ChefID: "chef-3", Active: true},
				}
			},
			userID:    "user-a",
			chefID:    "chef-1",
			targetErr: ErrNotInDraft,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			l := draftLeague()
			tt.mutate(&l)

			err := CheckDraftPick(l, tt.userID, tt.chefID)
			if tt.targetErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.targetErr) {
				t.Fatalf("expected %v, got %v", tt.targetErr, err)
			}
		})
	}
}

func TestCheckJoin(t *testing.T) {
	t.Parallel()

	l := draftLeague()
	if err := CheckJoin(l, "user-c"); err != nil {
		t.Fatalf("expected join to pass, got %v", err)
	}

	if err := CheckJoin(l, "user-a"); err == nil {
		t.Fatal("expected duplicate member join to fail")
	}

	l.Status = StatusActive
	if err := CheckJoin(l, "user-c"); err != nil {
		t.Fatalf("expected join during active phase to pass, got %v", err)
	}

	l.Status = StatusCompleted
	if err := CheckJoin(l, "user-c"); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition for completed league, got %v", err)
	}

	l = draftLeague()
	l.MaxMembers = 2
	if err := CheckJoin(l, "user-c"); !errors.Is(err, ErrLeagueFull) {
		t.Fatalf("expected ErrLeagueFull, got %v", err)
	}
}

func TestRosterHolderIgnoresActiveFlag(t *testing.T) {
	t.Parallel()

	l := draftLeague()
	l.Members[1].Roster = []RosterSlot{{ChefID: "chef-9", Active: false}}

	holder, ok := l.RosterHolder("chef-9")
	if !ok || holder != "user-b" {
		t.Fatalf("expected holder user-b, got %q ok=%t", holder, ok)
	}
	if _, ok := l.RosterHolder("chef-1"); ok {
		t.Fatal("expected chef-1 to be unclaimed")
	}
}
