package memory

import (
	"time"

	"github.com/plated-dev/chef-league/internal/domain/chef"
	"github.com/plated-dev/chef-league/internal/domain/league"
	"github.com/plated-dev/chef-league/internal/domain/scoring"
)

// SeedChefs returns the season 22 cast used by the dev storage driver.
func SeedChefs() []chef.Chef {
	now := time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC)
	cast := []struct {
		id        string
		name      string
		hometown  string
		specialty string
	}{
		{"chef-ayu-lestari", "Ayu Lestari", "Bandung", "Sundanese fine dining"},
		{"chef-marco-reyes", "Marco Reyes", "Austin", "Live-fire barbecue"},
		{"chef-nina-kowalski", "Nina Kowalski", "Chicago", "Modern Polish"},
		{"chef-devon-clarke", "Devon Clarke", "Kingston", "Caribbean seafood"},
		{"chef-harper-lane", "Harper Lane", "Portland", "Fermentation"},
		{"chef-sofia-bruni", "Sofia Bruni", "Bologna", "Handmade pasta"},
		{"chef-jun-takeda", "Jun Takeda", "Osaka", "Kappo"},
		{"chef-amara-diallo", "Amara Diallo", "Dakar", "West African grains"},
	}

	out := make([]chef.Chef, 0, len(cast))
	for _, c := range cast {
		out = append(out, chef.Chef{
			ID:        c.id,
			Name:      c.name,
			Hometown:  c.hometown,
			Specialty: c.specialty,
			Status:    chef.StatusActive,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return out
}

// SeedLeagues returns one joinable demo league so a fresh dev instance has
// something to poke at without running the create flow first.
func SeedLeagues() []league.League {
	now := time.Date(2026, time.January, 6, 0, 0, 0, 0, time.UTC)
	return []league.League{
		{
			ID:            "league-demo-s22",
			Name:          "Season 22 Watch Party",
			Season:        22,
			Status:        league.StatusDraft,
			CurrentWeek:   1,
			MaxMembers:    8,
			MaxRosterSize: 3,
			InviteCode:    "DEMO2345",
			Scoring:       scoring.DefaultSettings(),
			DraftOrder:    []string{"user-demo"},
			Members: []league.Member{
				{UserID: "user-demo", Role: league.RoleOwner, JoinedAt: now},
			},
			Version:   1,
			CreatedAt: now,
			UpdatedAt: now,
		},
	}
}
