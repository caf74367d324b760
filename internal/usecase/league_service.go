package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/plated-dev/chef-league/internal/domain/event"
	"github.com/plated-dev/chef-league/internal/domain/league"
	"github.com/plated-dev/chef-league/internal/domain/scoring"
	idgen "github.com/plated-dev/chef-league/internal/platform/id"
)

const inviteCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// casMaxRetries bounds optimistic-concurrency retries on league updates that
// are expected to contend rarely. Draft picks carry their own configurable
// budget in DraftService.
const casMaxRetries = 3

const (
	defaultMaxMembers    = 12
	defaultMaxRosterSize = 5
)

type CreateLeagueInput struct {
	UserID        string
	Name          string
	Season        int
	MaxMembers    int
	MaxRosterSize int
	Scoring       *scoring.Settings
}

type JoinLeagueInput struct {
	UserID     string
	InviteCode string
}

type UpdateLeagueSettingsInput struct {
	UserID        string
	LeagueID      string
	Name          *string
	MaxMembers    *int
	MaxRosterSize *int
	CurrentWeek   *int
	Scoring       *scoring.Settings
}

type TransitionLeagueInput struct {
	UserID   string
	LeagueID string
	To       league.Status
}

type UpdateDraftOrderInput struct {
	UserID   string
	LeagueID string
	Order    []string
}

type LeagueService struct {
	leagueRepo league.Repository
	announcer  event.Announcer
	idGen      idgen.Generator
	now        func() time.Time
}

func NewLeagueService(leagueRepo league.Repository, announcer event.Announcer, idGen idgen.Generator) *LeagueService {
	return &LeagueService{
		leagueRepo: leagueRepo,
		announcer:  announcer,
		idGen:      idGen,
		now:        time.Now,
	}
}

func (s *LeagueService) CreateLeague(ctx context.Context, input CreateLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.CreateLeague")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.Name = strings.TrimSpace(input.Name)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Name == "" {
		return league.League{}, fmt.Errorf("%w: league name is required", ErrInvalidInput)
	}
	if input.Season <= 0 {
		return league.League{}, fmt.Errorf("%w: season must be greater than zero", ErrInvalidInput)
	}
	if input.MaxMembers == 0 {
		input.MaxMembers = defaultMaxMembers
	}
	if input.MaxRosterSize == 0 {
		input.MaxRosterSize = defaultMaxRosterSize
	}
	if input.MaxMembers < 2 {
		return league.League{}, fmt.Errorf("%w: max members must be at least 2", ErrInvalidInput)
	}
	if input.MaxRosterSize < 1 {
		return league.League{}, fmt.Errorf("%w: max roster size must be at least 1", ErrInvalidInput)
	}

	settings := scoring.DefaultSettings()
	if input.Scoring != nil {
		settings = *input.Scoring
	}

	leagueID, err := s.idGen.NewID()
	if err != nil {
		return league.League{}, fmt.Errorf("generate league id: %w", err)
	}
	inviteCode, err := generateInviteCode(8)
	if err != nil {
		return league.League{}, fmt.Errorf("generate invite code: %w", err)
	}

	now := s.now().UTC()
	l := league.League{
		ID:            leagueID,
		Name:          input.Name,
		Season:        input.Season,
		Status:        league.StatusDraft,
		CurrentWeek:   1,
		MaxMembers:    input.MaxMembers,
		MaxRosterSize: input.MaxRosterSize,
		InviteCode:    inviteCode,
		Scoring:       settings,
		DraftOrder:    []string{input.UserID},
		Members: []league.Member{
			{UserID: input.UserID, Role: league.RoleOwner, JoinedAt: now},
		},
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := l.Validate(); err != nil {
		return league.League{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.leagueRepo.Create(ctx, l); err != nil {
		return league.League{}, fmt.Errorf("create league: %w", err)
	}

	return l, nil
}

func (s *LeagueService) JoinByInviteCode(ctx context.Context, input JoinLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.JoinByInviteCode")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.InviteCode = strings.ToUpper(strings.TrimSpace(input.InviteCode))
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.InviteCode == "" {
		return league.League{}, fmt.Errorf("%w: invite code is required", ErrInvalidInput)
	}

	var joined league.League
	err := s.retryOnVersionConflict(func() error {
		l, exists, err := s.leagueRepo.GetByInviteCode(ctx, input.InviteCode)
		if err != nil {
			return fmt.Errorf("get league by invite code: %w", err)
		}
		if !exists {
			return fmt.Errorf("%w: invite code not found", ErrNotFound)
		}

		if err := league.CheckJoin(l, input.UserID); err != nil {
			switch {
			case errors.Is(err, league.ErrLeagueFull):
				return fmt.Errorf("%w: league is full", ErrConflict)
			case errors.Is(err, league.ErrInvalidTransition):
				return fmt.Errorf("%w: league season is over", ErrConflict)
			default:
				return fmt.Errorf("%w: %v", ErrInvalidInput, err)
			}
		}

		expected := l.Version
		now := s.now().UTC()
		l.Members = append(l.Members, league.Member{
			UserID:   input.UserID,
			Role:     league.RoleMember,
			JoinedAt: now,
		})
		l.DraftOrder = append(l.DraftOrder, input.UserID)
		l.Version++
		l.UpdatedAt = now

		if err := s.leagueRepo.Update(ctx, l, expected); err != nil {
			return fmt.Errorf("join league: %w", err)
		}
		joined = l
		return nil
	})
	if err != nil {
		return league.League{}, err
	}

	s.announce(ctx, event.TopicLeagueMembersChanged, event.Payload{
		LeagueID:      joined.ID,
		ChangedFields: []string{"members", "draft_order"},
	})

	return joined, nil
}

func (s *LeagueService) GetLeague(ctx context.Context, userID, leagueID string) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.GetLeague")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, err := s.memberLeague(ctx, userID, leagueID)
	if err != nil {
		return league.League{}, err
	}

	return l, nil
}

func (s *LeagueService) ListMyLeagues(ctx context.Context, userID string) ([]league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.ListMyLeagues")
	defer span.End()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	leagues, err := s.leagueRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list leagues by user: %w", err)
	}

	return leagues, nil
}

func (s *LeagueService) UpdateSettings(ctx context.Context, input UpdateLeagueSettingsInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.UpdateSettings")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.Name == nil && input.MaxMembers == nil && input.MaxRosterSize == nil && input.CurrentWeek == nil && input.Scoring == nil {
		return league.League{}, fmt.Errorf("%w: nothing to update", ErrInvalidInput)
	}

	var updated league.League
	err := s.retryOnVersionConflict(func() error {
		l, err := s.manageableLeague(ctx, input.UserID, input.LeagueID)
		if err != nil {
			return err
		}

		expected := l.Version
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return fmt.Errorf("%w: league name cannot be empty", ErrInvalidInput)
			}
			l.Name = name
		}
		if input.MaxMembers != nil {
			if *input.MaxMembers < len(l.Members) {
				return fmt.Errorf("%w: max members cannot drop below current member count", ErrInvalidInput)
			}
			l.MaxMembers = *input.MaxMembers
		}
		if input.MaxRosterSize != nil {
			if l.Status != league.StatusDraft {
				return fmt.Errorf("%w: roster size can only change while drafting", ErrConflict)
			}
			if *input.MaxRosterSize < 1 {
				return fmt.Errorf("%w: max roster size must be at least 1", ErrInvalidInput)
			}
			l.MaxRosterSize = *input.MaxRosterSize
		}
		if input.CurrentWeek != nil {
			if *input.CurrentWeek < 1 {
				return fmt.Errorf("%w: current week must be at least 1", ErrInvalidInput)
			}
			l.CurrentWeek = *input.CurrentWeek
		}
		if input.Scoring != nil {
			if l.Status != league.StatusDraft {
				return fmt.Errorf("%w: scoring settings can only change while drafting", ErrConflict)
			}
			l.Scoring = *input.Scoring
		}

		l.Version++
		l.UpdatedAt = s.now().UTC()
		if err := l.Validate(); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		if err := s.leagueRepo.Update(ctx, l, expected); err != nil {
			return fmt.Errorf("update league settings: %w", err)
		}
		updated = l
		return nil
	})
	if err != nil {
		return league.League{}, err
	}

	return updated, nil
}

func (s *LeagueService) TransitionStatus(ctx context.Context, input TransitionLeagueInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.TransitionStatus")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	switch input.To {
	case league.StatusDraft, league.StatusActive, league.StatusCompleted:
	default:
		return league.League{}, fmt.Errorf("%w: unknown league status %q", ErrInvalidInput, input.To)
	}

	var updated league.League
	err := s.retryOnVersionConflict(func() error {
		l, err := s.manageableLeague(ctx, input.UserID, input.LeagueID)
		if err != nil {
			return err
		}

		if err := league.ValidateTransition(l.Status, input.To); err != nil {
			return fmt.Errorf("%w: cannot move league from %s to %s", ErrConflict, l.Status, input.To)
		}

		expected := l.Version
		l.Status = input.To
		l.Version++
		l.UpdatedAt = s.now().UTC()
		if err := s.leagueRepo.Update(ctx, l, expected); err != nil {
			return fmt.Errorf("transition league status: %w", err)
		}
		updated = l
		return nil
	})
	if err != nil {
		return league.League{}, err
	}

	return updated, nil
}

func (s *LeagueService) UpdateDraftOrder(ctx context.Context, input UpdateDraftOrderInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "LeagueService.UpdateDraftOrder")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if len(input.Order) == 0 {
		return league.League{}, fmt.Errorf("%w: draft order is required", ErrInvalidInput)
	}

	var updated league.League
	err := s.retryOnVersionConflict(func() error {
		l, err := s.manageableLeague(ctx, input.UserID, input.LeagueID)
		if err != nil {
			return err
		}

		if err := validateDraftOrder(l, input.Order); err != nil {
			return err
		}

		expected := l.Version
		l.DraftOrder = append([]string(nil), input.Order...)
		l.Version++
		l.UpdatedAt = s.now().UTC()
		if err := s.leagueRepo.Update(ctx, l, expected); err != nil {
			return fmt.Errorf("update draft order: %w", err)
		}
		updated = l
		return nil
	})
	if err != nil {
		return league.League{}, err
	}

	s.announce(ctx, event.TopicLeagueDraftOrderChanged, event.Payload{
		LeagueID:      updated.ID,
		ChangedFields: []string{"draft_order"},
	})

	return updated, nil
}

// memberLeague loads the league and requires the caller to be a member.
func (s *LeagueService) memberLeague(ctx context.Context, userID, leagueID string) (league.League, error) {
	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return league.League{}, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if !l.HasMember(userID) {
		return league.League{}, fmt.Errorf("%w: you are not a member of this league", ErrUnauthorized)
	}
	return l, nil
}

// manageableLeague loads the league and requires an owner or admin caller.
func (s *LeagueService) manageableLeague(ctx context.Context, userID, leagueID string) (league.League, error) {
	l, err := s.memberLeague(ctx, userID, leagueID)
	if err != nil {
		return league.League{}, err
	}
	m, _ := l.MemberByUser(userID)
	if !m.CanManage() {
		return league.League{}, fmt.Errorf("%w: only the league owner or an admin can do this", ErrUnauthorized)
	}
	return l, nil
}

func (s *LeagueService) retryOnVersionConflict(attempt func() error) error {
	var err error
	for i := 0; i < casMaxRetries; i++ {
		err = attempt()
		if err == nil || !errors.Is(err, league.ErrVersionConflict) {
			return err
		}
	}
	return fmt.Errorf("%w: league was updated concurrently, try again", ErrConflict)
}

func (s *LeagueService) announce(ctx context.Context, topic event.Topic, payload event.Payload) {
	if s.announcer == nil {
		return
	}
	s.announcer.Announce(ctx, topic, payload)
}

func validateDraftOrder(l league.League, order []string) error {
	if len(order) != len(l.Members) {
		return fmt.Errorf("%w: draft order must list every member exactly once", ErrInvalidInput)
	}
	seen := make(map[string]struct{}, len(order))
	for _, userID := range order {
		if _, dup := seen[userID]; dup {
			return fmt.Errorf("%w: draft order repeats user %s", ErrInvalidInput, userID)
		}
		seen[userID] = struct{}{}
		if !l.HasMember(userID) {
			return fmt.Errorf("%w: draft order lists non-member %s", ErrInvalidInput, userID)
		}
	}
	return nil
}

func generateInviteCode(length int) (string, error) {
	if length < 6 {
		length = 6
	}

	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes for invite code: %w", err)
	}

	out := make([]byte, length)
	for i, b := range buf {
		out[i] = inviteCodeAlphabet[int(b)%len(inviteCodeAlphabet)]
	}
	return string(out), nil
}
