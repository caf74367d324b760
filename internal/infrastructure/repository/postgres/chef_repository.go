package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/plated-dev/chef-league/internal/domain/chef"
	qb "github.com/plated-dev/chef-league/internal/platform/querybuilder"
)

// ChefRepository persists chefs and their weekly scoring history. Weekly
// rows are append-only; the (chef_id, week) unique index backs the
// one-entry-per-week rule at the storage layer as well.
type ChefRepository struct {
	db *sqlx.DB
}

func NewChefRepository(db *sqlx.DB) *ChefRepository {
	return &ChefRepository{db: db}
}

func (r *ChefRepository) List(ctx context.Context) ([]chef.Chef, error) {
	query, args, err := qb.Select("*").From("chefs").OrderBy("name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select chefs query: %w", err)
	}

	var rows []chefTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select chefs: %w", err)
	}

	out := make([]chef.Chef, 0, len(rows))
	for _, row := range rows {
		c, err := r.hydrate(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, nil
}

func (r *ChefRepository) GetByID(ctx context.Context, chefID string) (chef.Chef, bool, error) {
	query, args, err := qb.Select("*").From("chefs").Where(qb.Eq("id", chefID)).ToSQL()
	if err != nil {
		return chef.Chef{}, false, fmt.Errorf("build get chef query: %w", err)
	}

	var row chefTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return chef.Chef{}, false, nil
		}
		return chef.Chef{}, false, fmt.Errorf("get chef: %w", err)
	}

	c, err := r.hydrate(ctx, row)
	if err != nil {
		return chef.Chef{}, false, err
	}
	return c, true, nil
}

func (r *ChefRepository) Update(ctx context.Context, c chef.Chef) error {
	row := toChefRow(c)

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update chef tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.Update("chefs").
		Set("name", row.Name).
		Set("bio", row.Bio).
		Set("hometown", row.Hometown).
		Set("specialty", row.Specialty).
		Set("status", row.Status).
		Set("elimination_week", row.EliminationWeek).
		Set("wins", row.Wins).
		Set("eliminations", row.Eliminations).
		Set("quickfire_wins", row.QuickfireWins).
		Set("challenge_wins", row.ChallengeWins).
		Set("lck_wins", row.LCKWins).
		Set("total_points", row.TotalPoints).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("id", row.ID)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update chef query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update chef: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update chef rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("chef %s not found", c.ID)
	}

	for _, entry := range c.Weekly {
		weekRow, err := toChefWeekRow(c.ID, entry)
		if err != nil {
			return err
		}
		query, args, err := qb.InsertModel("chef_weeks", weekRow, "ON CONFLICT (chef_id, week) DO NOTHING")
		if err != nil {
			return fmt.Errorf("build insert chef week query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert chef week: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update chef tx: %w", err)
	}
	return nil
}

func (r *ChefRepository) hydrate(ctx context.Context, row chefTableModel) (chef.Chef, error) {
	query, args, err := qb.Select("*").From("chef_weeks").
		Where(qb.Eq("chef_id", row.ID)).
		OrderBy("week").
		ToSQL()
	if err != nil {
		return chef.Chef{}, fmt.Errorf("build select chef weeks query: %w", err)
	}

	var weekRows []chefWeekTableModel
	if err := r.db.SelectContext(ctx, &weekRows, query, args...); err != nil {
		return chef.Chef{}, fmt.Errorf("select chef weeks: %w", err)
	}

	return fromChefRows(row, weekRows)
}

func toChefRow(c chef.Chef) chefTableModel {
	row := chefTableModel{
		ID:            c.ID,
		Name:          c.Name,
		Bio:           c.Bio,
		Hometown:      c.Hometown,
		Specialty:     c.Specialty,
		Status:        string(c.Status),
		Wins:          c.Stats.Wins,
		Eliminations:  c.Stats.Eliminations,
		QuickfireWins: c.Stats.QuickfireWins,
		ChallengeWins: c.Stats.ChallengeWins,
		LCKWins:       c.Stats.LCKWins,
		TotalPoints:   c.Stats.TotalPoints,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.EliminationWeek != nil {
		row.EliminationWeek.Valid = true
		row.EliminationWeek.Int64 = int64(*c.EliminationWeek)
	}
	return row
}

func toChefWeekRow(chefID string, entry chef.WeeklyPerformance) (chefWeekTableModel, error) {
	highlights, err := sonic.Marshal(entry.Highlights)
	if err != nil {
		return chefWeekTableModel{}, fmt.Errorf("marshal chef week highlights: %w", err)
	}

	row := chefWeekTableModel{
		ChefID:     chefID,
		Week:       entry.Week,
		Points:     entry.Points,
		Highlights: highlights,
		Notes:      entry.Notes,
		RecordedAt: entry.RecordedAt,
	}
	if entry.Rank != nil {
		row.Rank.Valid = true
		row.Rank.Int64 = int64(*entry.Rank)
	}
	return row, nil
}

func fromChefRows(row chefTableModel, weekRows []chefWeekTableModel) (chef.Chef, error) {
	weekly := make([]chef.WeeklyPerformance, 0, len(weekRows))
	for _, w := range weekRows {
		var highlights []string
		if len(w.Highlights) > 0 {
			if err := sonic.Unmarshal(w.Highlights, &highlights); err != nil {
				return chef.Chef{}, fmt.Errorf("unmarshal chef week highlights: %w", err)
			}
		}
		entry := chef.WeeklyPerformance{
			Week:       w.Week,
			Points:     w.Points,
			Highlights: highlights,
			Notes:      w.Notes,
			RecordedAt: w.RecordedAt,
		}
		if w.Rank.Valid {
			rank := int(w.Rank.Int64)
			entry.Rank = &rank
		}
		weekly = append(weekly, entry)
	}

	c := chef.Chef{
		ID:        row.ID,
		Name:      row.Name,
		Bio:       row.Bio,
		Hometown:  row.Hometown,
		Specialty: row.Specialty,
		Status:    chef.Status(row.Status),
		Stats: chef.Stats{
			Wins:          row.Wins,
			Eliminations:  row.Eliminations,
			QuickfireWins: row.QuickfireWins,
			ChallengeWins: row.ChallengeWins,
			LCKWins:       row.LCKWins,
			TotalPoints:   row.TotalPoints,
		},
		Weekly:    weekly,
		CreatedAt: row.CreatedAt,
		UpdatedAt: row.UpdatedAt,
	}
	if row.EliminationWeek.Valid {
		week := int(row.EliminationWeek.Int64)
		c.EliminationWeek = &week
	}
	return c, nil
}
