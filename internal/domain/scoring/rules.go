package scoring

import (
	"errors"
	"fmt"
)

// Tag is a categorical outcome label attached to a chef for one week.
type Tag string

const (
	TagQuickfireWin      Tag = "quickfire_win"
	TagQuickfireFavorite Tag = "quickfire_favorite"
	TagQuickfireLeast    Tag = "quickfire_least"
	TagChallengeWin      Tag = "challenge_win"
	TagTop               Tag = "top"
	TagBottom            Tag = "bottom"
	TagLCKWin            Tag = "lck_win"
	TagFinale            Tag = "finale"
	TagTopChef           Tag = "top_chef"
	TagEliminated        Tag = "eliminated"
)

var ErrInvalidWeek = errors.New("invalid scoring week")

// Settings stores the named point values a week is scored with.
type Settings struct {
	QuickfireWin      int
	QuickfireFavorite int
	QuickfireLeast    int
	ChallengeWin      int
	SweepBonus        int
	TopPlacement      int
	BottomPenalty     int
	LCKWin            int
	Finale            int
	TopChefOverride   int
}

func DefaultSettings() Settings {
	return Settings{
		QuickfireWin:      5,
		QuickfireFavorite: 1,
		QuickfireLeast:    -1,
		ChallengeWin:      7,
		SweepBonus:        3,
		TopPlacement:      3,
		BottomPenalty:     -2,
		LCKWin:            2,
		Finale:            15,
		TopChefOverride:   30,
	}
}

// Increments are the stat counters a weekly result bumps on the chef.
type Increments struct {
	QuickfireWins int
	ChallengeWins int
	LCKWins       int
	Eliminations  int
}

// Result is the outcome of scoring one chef for one week.
type Result struct {
	Points     int
	Increments Increments
	Eliminated bool
}

// ScoreWeek converts a week's outcome tags into a point delta and stat
// increments. It is a pure function: same input, same output, regardless of
// tag order. Unknown tags are ignored so new show outcomes can ship before
// the scoring rules learn about them.
//
// The top_chef override is applied after everything else and replaces the
// week's running total outright. It is not a max() and not additive.
func ScoreWeek(week int, tags []Tag, settings Settings) (Result, error) {
	if week < 1 {
		return Result{}, fmt.Errorf("%w: week=%d", ErrInvalidWeek, week)
	}

	present := make(map[Tag]struct{}, len(tags))
	for _, tag := range tags {
		present[tag] = struct{}{}
	}
	has := func(tag Tag) bool {
		_, ok := present[tag]
		return ok
	}

	var out Result

	if has(TagQuickfireWin) {
		out.Points += settings.QuickfireWin
		out.Increments.QuickfireWins++
	}
	if has(TagQuickfireFavorite) {
		out.Points += settings.QuickfireFavorite
	}
	if has(TagQuickfireLeast) {
		out.Points += settings.QuickfireLeast
	}
	if has(TagChallengeWin) {
		out.Points += settings.ChallengeWin
		out.Increments.ChallengeWins++
		if has(TagQuickfireWin) {
			out.Points += settings.SweepBonus
		}
	} else if has(TagTop) {
		// Top-three placement does not stack with a challenge win.
		out.Points += settings.TopPlacement
	}
	if has(TagBottom) {
		out.Points += settings.BottomPenalty
	}
	if has(TagLCKWin) {
		out.Points += settings.LCKWin
		out.Increments.LCKWins++
	}
	if has(TagFinale) {
		out.Points += settings.Finale
	}
	if has(TagTopChef) {
		out.Points = settings.TopChefOverride
	}
	if has(TagEliminated) {
		out.Eliminated = true
		out.Increments.Eliminations++
	}

	return out, nil
}

// ParseTags maps raw highlight strings onto Tags. Every input string comes
// back as a Tag; filtering of unknown values is ScoreWeek's job, keeping the
// raw highlight list intact for the immutable weekly entry.
func ParseTags(raw []string) []Tag {
	out := make([]Tag, 0, len(raw))
	for _, v := range raw {
		out = append(out, Tag(v))
	}
	return out
}
