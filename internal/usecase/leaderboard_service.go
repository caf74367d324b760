package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/plated-dev/chef-league/internal/domain/league"
)

// Standing is one leaderboard row. Rank is dense: members with equal scores
// share a rank and the next distinct score takes rank+1.
type Standing struct {
	Rank        int
	UserID      string
	Role        league.Role
	Score       int
	RosterSize  int
	ActiveChefs int
}

type LeaderboardService struct {
	leagueRepo league.Repository
}

func NewLeaderboardService(leagueRepo league.Repository) *LeaderboardService {
	return &LeaderboardService{leagueRepo: leagueRepo}
}

func (s *LeaderboardService) GetLeaderboard(ctx context.Context, userID, leagueID string) ([]Standing, error) {
	ctx, span := startUsecaseSpan(ctx, "LeaderboardService.GetLeaderboard")
	defer span.End()

	userID = strings.TrimSpace(userID)
	leagueID = strings.TrimSpace(leagueID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if leagueID == "" {
		return nil, fmt.Errorf("%w: league id is required", ErrInvalidInput)
	}

	l, exists, err := s.leagueRepo.GetByID(ctx, leagueID)
	if err != nil {
		return nil, fmt.Errorf("get league by id: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: league=%s", ErrNotFound, leagueID)
	}
	if !l.HasMember(userID) {
		return nil, fmt.Errorf("%w: you are not a member of this league", ErrUnauthorized)
	}

	return BuildStandings(l), nil
}

// BuildStandings orders members by score descending. The sort is stable, so
// members with equal scores keep their join order.
func BuildStandings(l league.League) []Standing {
	rows := make([]Standing, 0, len(l.Members))
	for _, m := range l.Members {
		active := 0
		for _, slot := range m.Roster {
			if slot.Active {
				active++
			}
		}
		rows = append(rows, Standing{
			UserID:      m.UserID,
			Role:        m.Role,
			Score:       m.Score,
			RosterSize:  len(m.Roster),
			ActiveChefs: active,
		})
	}

	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Score > rows[j].Score })

	lastScore := 0
	currentRank := 0
	for i := range rows {
		if i == 0 || rows[i].Score != lastScore {
			currentRank++
			lastScore = rows[i].Score
		}
		rows[i].Rank = currentRank
	}

	return rows
}
