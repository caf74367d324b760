package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/sourcegraph/conc/pool"

	"github.com/plated-dev/chef-league/internal/domain/chef"
	"github.com/plated-dev/chef-league/internal/domain/event"
	"github.com/plated-dev/chef-league/internal/domain/league"
	"github.com/plated-dev/chef-league/internal/domain/scoring"
	"github.com/plated-dev/chef-league/internal/platform/logging"
	"github.com/plated-dev/chef-league/internal/platform/resilience"
)

const scoringMaxParallelChefs = 8

type WeekEntryInput struct {
	ChefID     string
	Tags       []string
	Highlights []string
	Rank       *int
	Notes      string
}

type RecordWeekInput struct {
	Week    int
	Entries []WeekEntryInput
}

type ChefWeekOutcome struct {
	ChefID     string
	Points     int
	Eliminated bool
}

type WeekSummary struct {
	Week           int
	Chefs          []ChefWeekOutcome
	LeaguesUpdated int
}

// ScoringService applies a week of show outcomes. Chefs are scored in
// parallel but serialized per chef id, then member scores fan out across
// every league whose active roster holds an affected chef. The chef's
// canonical history always uses the default point table; each league folds
// the same tags through its own Scoring settings.
type ScoringService struct {
	leagueRepo league.Repository
	chefRepo   chef.Repository
	announcer  event.Announcer
	logger     *logging.Logger
	fanout     *ants.Pool
	chefLocks  resilience.KeyedMutex
	settings   scoring.Settings
	maxRetries int
	now        func() time.Time
}

func NewScoringService(
	leagueRepo league.Repository,
	chefRepo chef.Repository,
	announcer event.Announcer,
	logger *logging.Logger,
	fanout *ants.Pool,
) *ScoringService {
	return &ScoringService{
		leagueRepo: leagueRepo,
		chefRepo:   chefRepo,
		announcer:  announcer,
		logger:     logger,
		fanout:     fanout,
		settings:   scoring.DefaultSettings(),
		maxRetries: casMaxRetries,
		now:        time.Now,
	}
}

func (s *ScoringService) RecordWeek(ctx context.Context, input RecordWeekInput) (WeekSummary, error) {
	ctx, span := startUsecaseSpan(ctx, "ScoringService.RecordWeek")
	defer span.End()

	if input.Week < 1 {
		return WeekSummary{}, fmt.Errorf("%w: week must be at least 1", ErrInvalidInput)
	}
	if len(input.Entries) == 0 {
		return WeekSummary{}, fmt.Errorf("%w: at least one chef entry is required", ErrInvalidInput)
	}
	tagsByChef := make(map[string][]scoring.Tag, len(input.Entries))
	for i := range input.Entries {
		input.Entries[i].ChefID = strings.TrimSpace(input.Entries[i].ChefID)
		chefID := input.Entries[i].ChefID
		if chefID == "" {
			return WeekSummary{}, fmt.Errorf("%w: chef id is required on every entry", ErrInvalidInput)
		}
		if _, dup := tagsByChef[chefID]; dup {
			return WeekSummary{}, fmt.Errorf("%w: chef=%s appears twice in the week", ErrInvalidInput, chefID)
		}
		tagsByChef[chefID] = scoring.ParseTags(input.Entries[i].Tags)
	}

	outcomes, err := s.scoreChefs(ctx, input.Week, input.Entries)
	if err != nil {
		return WeekSummary{}, err
	}

	leaguesUpdated, err := s.applyToLeagues(ctx, input.Week, tagsByChef)
	if err != nil {
		return WeekSummary{}, err
	}

	sort.Slice(outcomes, func(i, j int) bool { return outcomes[i].ChefID < outcomes[j].ChefID })
	return WeekSummary{
		Week:           input.Week,
		Chefs:          outcomes,
		LeaguesUpdated: leaguesUpdated,
	}, nil
}

func (s *ScoringService) scoreChefs(ctx context.Context, week int, entries []WeekEntryInput) ([]ChefWeekOutcome, error) {
	p := pool.NewWithResults[ChefWeekOutcome]().
		WithContext(ctx).
		WithMaxGoroutines(scoringMaxParallelChefs)

	for _, entry := range entries {
		entry := entry
		p.Go(func(ctx context.Context) (ChefWeekOutcome, error) {
			return s.scoreOneChef(ctx, week, entry)
		})
	}

	outcomes, err := p.Wait()
	if err != nil {
		return nil, err
	}
	return outcomes, nil
}

func (s *ScoringService) scoreOneChef(ctx context.Context, week int, entry WeekEntryInput) (ChefWeekOutcome, error) {
	unlock := s.chefLocks.Lock(entry.ChefID)
	defer unlock()

	c, exists, err := s.chefRepo.GetByID(ctx, entry.ChefID)
	if err != nil {
		return ChefWeekOutcome{}, fmt.Errorf("get chef by id: %w", err)
	}
	if !exists {
		return ChefWeekOutcome{}, fmt.Errorf("%w: chef=%s", ErrNotFound, entry.ChefID)
	}
	if c.HasWeek(week) {
		return ChefWeekOutcome{}, fmt.Errorf("%w: chef=%s already scored for week %d", ErrConflict, entry.ChefID, week)
	}

	tags := scoring.ParseTags(entry.Tags)
	result, err := scoring.ScoreWeek(week, tags, s.settings)
	if err != nil {
		return ChefWeekOutcome{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	c.ApplyWeek(chef.WeeklyPerformance{
		Week:       week,
		Points:     result.Points,
		Highlights: append([]string(nil), entry.Highlights...),
		Rank:       entry.Rank,
		Notes:      entry.Notes,
		RecordedAt: s.now().UTC(),
	}, result)
	for _, tag := range tags {
		if tag == scoring.TagTopChef {
			c.Status = chef.StatusWinner
			break
		}
	}
	c.UpdatedAt = s.now().UTC()

	if err := s.chefRepo.Update(ctx, c); err != nil {
		return ChefWeekOutcome{}, fmt.Errorf("update chef after scoring: %w", err)
	}

	if s.announcer != nil {
		s.announcer.Announce(ctx, event.TopicChefUpdated, event.Payload{
			ChefID:        c.ID,
			ChangedFields: []string{"stats", "weekly", "status"},
		})
	}

	return ChefWeekOutcome{
		ChefID:     c.ID,
		Points:     result.Points,
		Eliminated: result.Eliminated,
	}, nil
}

// applyToLeagues credits the member whose active roster slot holds a scored
// chef. Each league re-scores the week's tags with its own Scoring settings,
// so two leagues can award different points for the same outcome. Every
// affected league is updated exactly once regardless of how many of its
// chefs scored.
func (s *ScoringService) applyToLeagues(ctx context.Context, week int, tagsByChef map[string][]scoring.Tag) (int, error) {
	if len(tagsByChef) == 0 {
		return 0, nil
	}

	leagueIDs := make(map[string]struct{})
	for chefID := range tagsByChef {
		leagues, err := s.leagueRepo.ListByRosterChef(ctx, chefID)
		if err != nil {
			return 0, fmt.Errorf("list leagues by roster chef: %w", err)
		}
		for _, l := range leagues {
			leagueIDs[l.ID] = struct{}{}
		}
	}
	if len(leagueIDs) == 0 {
		return 0, nil
	}

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
		updated  int
	)
	for leagueID := range leagueIDs {
		leagueID := leagueID
		wg.Add(1)
		task := func() {
			defer wg.Done()
			changed, err := s.applyToOneLeague(ctx, leagueID, week, tagsByChef)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				return
			}
			if changed {
				updated++
			}
		}
		if s.fanout == nil || s.fanout.Submit(task) != nil {
			task()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return updated, firstErr
	}
	return updated, nil
}

func (s *ScoringService) applyToOneLeague(ctx context.Context, leagueID string, week int, tagsByChef map[string][]scoring.Tag) (bool, error) {
	for attempt := 0; attempt < s.maxRetries; attempt++ {
		l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
		if err != nil {
			return false, fmt.Errorf("get league by id: %w", err)
		}
		if !exists {
			// The league disappeared between listing and update; nothing to score.
			return false, nil
		}

		changed := false
		for i := range l.Members {
			for _, slot := range l.Members[i].Roster {
				if !slot.Active {
					continue
				}
				tags, ok := tagsByChef[slot.ChefID]
				if !ok {
					continue
				}
				result, err := scoring.ScoreWeek(week, tags, l.Scoring)
				if err != nil {
					return false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
				}
				if result.Points != 0 {
					l.Members[i].Score += result.Points
					changed = true
				}
			}
		}
		if !changed {
			return false, nil
		}

		expected := l.Version
		l.Version++
		l.UpdatedAt = s.now().UTC()

		err = s.leagueRepo.Update(ctx, l, expected)
		if err == nil {
			if s.logger != nil {
				s.logger.DebugContext(ctx, "league scores updated", "league_id", leagueID)
			}
			if s.announcer != nil {
				s.announcer.Announce(ctx, event.TopicLeagueScoreChanged, event.Payload{
					LeagueID:      leagueID,
					ChangedFields: []string{"members.score"},
				})
			}
			return true, nil
		}
		if errors.Is(err, league.ErrVersionConflict) {
			continue
		}
		return false, fmt.Errorf("update league scores: %w", err)
	}
	return false, fmt.Errorf("%w: league=%s was updated concurrently during scoring", ErrConflict, leagueID)
}
