package httpapi

import (
	"time"

	"github.com/plated-dev/chef-league/internal/domain/chef"
	"github.com/plated-dev/chef-league/internal/domain/league"
	"github.com/plated-dev/chef-league/internal/domain/scoring"
	"github.com/plated-dev/chef-league/internal/usecase"
)

type scoringSettingsDTO struct {
	QuickfireWin      int `json:"quickfire_win"`
	QuickfireFavorite int `json:"quickfire_favorite"`
	QuickfireLeast    int `json:"quickfire_least"`
	ChallengeWin      int `json:"challenge_win"`
	SweepBonus        int `json:"sweep_bonus"`
	TopPlacement      int `json:"top_placement"`
	BottomPenalty     int `json:"bottom_penalty"`
	LCKWin            int `json:"lck_win"`
	Finale            int `json:"finale"`
	TopChefOverride   int `json:"top_chef_override"`
}

type rosterSlotDTO struct {
	ChefID    string `json:"chef_id"`
	DraftedAt string `json:"drafted_at_utc"`
	Active    bool   `json:"active"`
}

type leagueMemberDTO struct {
	UserID   string          `json:"user_id"`
	Role     string          `json:"role"`
	Score    int             `json:"score"`
	Roster   []rosterSlotDTO `json:"roster"`
	JoinedAt string          `json:"joined_at_utc"`
}

type leagueDTO struct {
	ID            string             `json:"id"`
	Name          string             `json:"name"`
	Season        int                `json:"season"`
	Status        string             `json:"status"`
	CurrentWeek   int                `json:"current_week"`
	MaxMembers    int                `json:"max_members"`
	MaxRosterSize int                `json:"max_roster_size"`
	InviteCode    string             `json:"invite_code"`
	Scoring       scoringSettingsDTO `json:"scoring"`
	DraftOrder    []string           `json:"draft_order"`
	Members       []leagueMemberDTO  `json:"members"`
	Version       int64              `json:"version"`
	CreatedAtUTC  string             `json:"created_at_utc"`
	UpdatedAtUTC  string             `json:"updated_at_utc"`
}

type standingDTO struct {
	Rank        int    `json:"rank"`
	UserID      string `json:"user_id"`
	Role        string `json:"role"`
	Score       int    `json:"score"`
	RosterSize  int    `json:"roster_size"`
	ActiveChefs int    `json:"active_chefs"`
}

type chefWeekDTO struct {
	Week       int      `json:"week"`
	Points     int      `json:"points"`
	Highlights []string `json:"highlights"`
	Rank       *int     `json:"rank,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	RecordedAt string   `json:"recorded_at_utc"`
}

type chefStatsDTO struct {
	Wins          int `json:"wins"`
	Eliminations  int `json:"eliminations"`
	QuickfireWins int `json:"quickfire_wins"`
	ChallengeWins int `json:"challenge_wins"`
	LCKWins       int `json:"lck_wins"`
	TotalPoints   int `json:"total_points"`
}

type chefDTO struct {
	ID              string        `json:"id"`
	Name            string        `json:"name"`
	Bio             string        `json:"bio,omitempty"`
	Hometown        string        `json:"hometown,omitempty"`
	Specialty       string        `json:"specialty,omitempty"`
	Status          string        `json:"status"`
	EliminationWeek *int          `json:"elimination_week,omitempty"`
	Stats           chefStatsDTO  `json:"stats"`
	Weekly          []chefWeekDTO `json:"weekly"`
}

type chefWeekOutcomeDTO struct {
	ChefID     string `json:"chef_id"`
	Points     int    `json:"points"`
	Eliminated bool   `json:"eliminated"`
}

type weekSummaryDTO struct {
	Week           int                  `json:"week"`
	Chefs          []chefWeekOutcomeDTO `json:"chefs"`
	LeaguesUpdated int                  `json:"leagues_updated"`
}

func scoringSettingsToDTO(s scoring.Settings) scoringSettingsDTO {
	return scoringSettingsDTO{
		QuickfireWin:      s.QuickfireWin,
		QuickfireFavorite: s.QuickfireFavorite,
		QuickfireLeast:    s.QuickfireLeast,
		ChallengeWin:      s.ChallengeWin,
		SweepBonus:        s.SweepBonus,
		TopPlacement:      s.TopPlacement,
		BottomPenalty:     s.BottomPenalty,
		LCKWin:            s.LCKWin,
		Finale:            s.Finale,
		TopChefOverride:   s.TopChefOverride,
	}
}

func scoringSettingsFromDTO(d scoringSettingsDTO) scoring.Settings {
	return scoring.Settings{
		QuickfireWin:      d.QuickfireWin,
		QuickfireFavorite: d.QuickfireFavorite,
		QuickfireLeast:    d.QuickfireLeast,
		ChallengeWin:      d.ChallengeWin,
		SweepBonus:        d.SweepBonus,
		TopPlacement:      d.TopPlacement,
		BottomPenalty:     d.BottomPenalty,
		LCKWin:            d.LCKWin,
		Finale:            d.Finale,
		TopChefOverride:   d.TopChefOverride,
	}
}

func leagueToDTO(l league.League) leagueDTO {
	members := make([]leagueMemberDTO, 0, len(l.Members))
	for _, m := range l.Members {
		roster := make([]rosterSlotDTO, 0, len(m.Roster))
		for _, slot := range m.Roster {
			roster = append(roster, rosterSlotDTO{
				ChefID:    slot.ChefID,
				DraftedAt: slot.DraftedAt.UTC().Format(time.RFC3339),
				Active:    slot.Active,
			})
		}
		members = append(members, leagueMemberDTO{
			UserID:   m.UserID,
			Role:     string(m.Role),
			Score:    m.Score,
			Roster:   roster,
			JoinedAt: m.JoinedAt.UTC().Format(time.RFC3339),
		})
	}

	return leagueDTO{
		ID:            l.ID,
		Name:          l.Name,
		Season:        l.Season,
		Status:        string(l.Status),
		CurrentWeek:   l.CurrentWeek,
		MaxMembers:    l.MaxMembers,
		MaxRosterSize: l.MaxRosterSize,
		InviteCode:    l.InviteCode,
		Scoring:       scoringSettingsToDTO(l.Scoring),
		DraftOrder:    append([]string(nil), l.DraftOrder...),
		Members:       members,
		Version:       l.Version,
		CreatedAtUTC:  l.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAtUTC:  l.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func standingToDTO(s usecase.Standing) standingDTO {
	return standingDTO{
		Rank:        s.Rank,
		UserID:      s.UserID,
		Role:        string(s.Role),
		Score:       s.Score,
		RosterSize:  s.RosterSize,
		ActiveChefs: s.ActiveChefs,
	}
}

func chefToDTO(c chef.Chef) chefDTO {
	weekly := make([]chefWeekDTO, 0, len(c.Weekly))
	for _, entry := range c.Weekly {
		weekly = append(weekly, chefWeekDTO{
			Week:       entry.Week,
			Points:     entry.Points,
			Highlights: append([]string(nil), entry.Highlights...),
			Rank:       entry.Rank,
			Notes:      entry.Notes,
			RecordedAt: entry.RecordedAt.UTC().Format(time.RFC3339),
		})
	}

	return chefDTO{
		ID:              c.ID,
		Name:            c.Name,
		Bio:             c.Bio,
		Hometown:        c.Hometown,
		Specialty:       c.Specialty,
		Status:          string(c.Status),
		EliminationWeek: c.EliminationWeek,
		Stats: chefStatsDTO{
			Wins:          c.Stats.Wins,
			Eliminations:  c.Stats.Eliminations,
			QuickfireWins: c.Stats.QuickfireWins,
			ChallengeWins: c.Stats.ChallengeWins,
			LCKWins:       c.Stats.LCKWins,
			TotalPoints:   c.Stats.TotalPoints,
		},
		Weekly: weekly,
	}
}

func weekSummaryToDTO(s usecase.WeekSummary) weekSummaryDTO {
	chefs := make([]chefWeekOutcomeDTO, 0, len(s.Chefs))
	for _, outcome := range s.Chefs {
		chefs = append(chefs, chefWeekOutcomeDTO{
			ChefID:     outcome.ChefID,
			Points:     outcome.Points,
			Eliminated: outcome.Eliminated,
		})
	}
	return weekSummaryDTO{
		Week:           s.Week,
		Chefs:          chefs,
		LeaguesUpdated: s.LeaguesUpdated,
	}
}
