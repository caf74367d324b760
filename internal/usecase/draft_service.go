package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/plated-dev/chef-league/internal/domain/chef"
	"github.com/plated-dev/chef-league/internal/domain/event"
	"github.com/plated-dev/chef-league/internal/domain/league"
)

type DraftChefInput struct {
	UserID   string
	LeagueID string
	ChefID   string
}

type SetRosterSlotActiveInput struct {
	UserID   string
	LeagueID string
	ChefID   string
	Active   bool
}

// DraftService handles roster mutations. Draft picks race against each other
// inside one league, so every pick re-runs the full rule check and commits
// with the league's version token; losers of the race retry on a fresh read.
type DraftService struct {
	leagueRepo league.Repository
	chefRepo   chef.Repository
	announcer  event.Announcer
	maxRetries int
	now        func() time.Time
}

func NewDraftService(leagueRepo league.Repository, chefRepo chef.Repository, announcer event.Announcer, maxRetries int) *DraftService {
	if maxRetries < 1 {
		maxRetries = casMaxRetries
	}
	return &DraftService{
		leagueRepo: leagueRepo,
		chefRepo:   chefRepo,
		announcer:  announcer,
		maxRetries: maxRetries,
		now:        time.Now,
	}
}

func (s *DraftService) DraftChef(ctx context.Context, input DraftChefInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.DraftChef")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.ChefID = strings.TrimSpace(input.ChefID)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.ChefID == "" {
		return league.League{}, fmt.Errorf("%w: chef id is required", ErrInvalidInput)
	}

	_, exists, err := s.chefRepo.GetByID(ctx, input.ChefID)
	if err != nil {
		return league.League{}, fmt.Errorf("get chef by id: %w", err)
	}
	if !exists {
		return league.League{}, fmt.Errorf("%w: chef=%s", ErrNotFound, input.ChefID)
	}

	var picked league.League
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		l, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
		if err != nil {
			return league.League{}, fmt.Errorf("get league by id: %w", err)
		}
		if !exists {
			return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
		}

		if err := league.CheckDraftPick(l, input.UserID, input.ChefID); err != nil {
			return league.League{}, mapDraftRuleError(err)
		}

		expected := l.Version
		now := s.now().UTC()
		m, _ := l.MemberByUser(input.UserID)
		m.Roster = append(m.Roster, league.RosterSlot{
			ChefID:    input.ChefID,
			DraftedAt: now,
			Active:    true,
		})
		l.Version++
		l.UpdatedAt = now

		err = s.leagueRepo.Update(ctx, l, expected)
		if err == nil {
			picked = l
			break
		}
		if errors.Is(err, league.ErrVersionConflict) {
			continue
		}
		return league.League{}, fmt.Errorf("commit draft pick: %w", err)
	}
	if picked.ID == "" {
		return league.League{}, fmt.Errorf("%w: draft pick lost too many races, try again", ErrConflict)
	}

	if s.announcer != nil {
		s.announcer.Announce(ctx, event.TopicLeagueMembersChanged, event.Payload{
			LeagueID:      picked.ID,
			ChefID:        input.ChefID,
			ChangedFields: []string{"roster"},
		})
	}

	return picked, nil
}

func (s *DraftService) SetRosterSlotActive(ctx context.Context, input SetRosterSlotActiveInput) (league.League, error) {
	ctx, span := startUsecaseSpan(ctx, "DraftService.SetRosterSlotActive")
	defer span.End()

	input.UserID = strings.TrimSpace(input.UserID)
	input.LeagueID = strings.TrimSpace(input.LeagueID)
	input.ChefID = strings.TrimSpace(input.ChefID)
	if input.UserID == "" {
		return league.League{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.LeagueID == "" {
		return league.League{}, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}
	if input.ChefID == "" {
		return league.League{}, fmt.Errorf("%w: chef id is required", ErrInvalidInput)
	}

	var updated league.League
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		l, exists, err := s.leagueRepo.GetByID(ctx, input.LeagueID)
		if err != nil {
			return league.League{}, fmt.Errorf("get league by id: %w", err)
		}
		if !exists {
			return league.League{}, fmt.Errorf("%w: league=%s", ErrNotFound, input.LeagueID)
		}

		m, ok := l.MemberByUser(input.UserID)
		if !ok {
			return league.League{}, fmt.Errorf("%w: you are not a member of this league", ErrUnauthorized)
		}

		slotIdx := -1
		for i := range m.Roster {
			if m.Roster[i].ChefID == input.ChefID {
				slotIdx = i
				break
			}
		}
		if slotIdx < 0 {
			return league.League{}, fmt.Errorf("%w: chef=%s is not on your roster", ErrNotFound, input.ChefID)
		}
		if m.Roster[slotIdx].Active == input.Active {
			return l, nil
		}

		expected := l.Version
		m.Roster[slotIdx].Active = input.Active
		l.Version++
		l.UpdatedAt = s.now().UTC()

		err = s.leagueRepo.Update(ctx, l, expected)
		if err == nil {
			updated = l
			break
		}
		if errors.Is(err, league.ErrVersionConflict) {
			continue
		}
		return league.League{}, fmt.Errorf("update roster slot: %w", err)
	}
	if updated.ID == "" {
		return league.League{}, fmt.Errorf("%w: league was updated concurrently, try again", ErrConflict)
	}

	if s.announcer != nil {
		s.announcer.Announce(ctx, event.TopicLeagueMembersChanged, event.Payload{
			LeagueID:      updated.ID,
			ChefID:        input.ChefID,
			ChangedFields: []string{"roster"},
		})
	}

	return updated, nil
}

// mapDraftRuleError classifies a rejected pick while keeping the domain
// sentinel in the wrap chain, so the transport layer can name the exact
// precondition that failed rather than a blanket conflict.
func mapDraftRuleError(err error) error {
	switch {
	case errors.Is(err, league.ErrNotInDraft),
		errors.Is(err, league.ErrRosterFull),
		errors.Is(err, league.ErrChefAlreadyTaken):
		return fmt.Errorf("%w: %w", ErrConflict, err)
	case errors.Is(err, league.ErrNotAMember):
		return fmt.Errorf("%w: you are not a member of this league", ErrUnauthorized)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
}
