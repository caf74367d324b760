package postgres

import (
	"context"
	"fmt"
	"sort"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"

	"github.com/plated-dev/chef-league/internal/domain/league"
	"github.com/plated-dev/chef-league/internal/domain/scoring"
	qb "github.com/plated-dev/chef-league/internal/platform/querybuilder"
)

// LeagueRepository persists league aggregates across three tables: leagues,
// league_members and roster_slots. Writes replace the member and slot rows
// inside one transaction guarded by the leagues.version check.
type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

func (r *LeagueRepository) Create(ctx context.Context, l league.League) error {
	row, err := toLeagueRow(l)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin create league tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.InsertModel("leagues", row, "")
	if err != nil {
		return fmt.Errorf("build insert league query: %w", err)
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("league %s already exists: %w", l.ID, err)
		}
		return fmt.Errorf("insert league: %w", err)
	}

	if err := insertMembersAndSlots(ctx, tx, l); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit create league tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, leagueID string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("id", leagueID))
}

func (r *LeagueRepository) GetByInviteCode(ctx context.Context, inviteCode string) (league.League, bool, error) {
	return r.getOne(ctx, qb.Eq("invite_code", inviteCode))
}

func (r *LeagueRepository) ListByUser(ctx context.Context, userID string) ([]league.League, error) {
	query, args, err := qb.Select("league_id").From("league_members").
		Where(qb.Eq("user_id", userID)).
		OrderBy("league_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues by user query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select league ids by user: %w", err)
	}

	return r.loadMany(ctx, ids)
}

func (r *LeagueRepository) ListByRosterChef(ctx context.Context, chefID string) ([]league.League, error) {
	query, args, err := qb.Select("DISTINCT league_id").From("roster_slots").
		Where(qb.Eq("chef_id", chefID)).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues by roster chef query: %w", err)
	}

	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, args...); err != nil {
		return nil, fmt.Errorf("select league ids by roster chef: %w", err)
	}
	sort.Strings(ids)

	return r.loadMany(ctx, ids)
}

// Update commits the aggregate only if the stored version still matches
// expectedVersion, then replaces the member and slot rows wholesale.
func (r *LeagueRepository) Update(ctx context.Context, l league.League, expectedVersion int64) error {
	row, err := toLeagueRow(l)
	if err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin update league tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	query, args, err := qb.Update("leagues").
		Set("name", row.Name).
		Set("season", row.Season).
		Set("status", row.Status).
		Set("current_week", row.CurrentWeek).
		Set("max_members", row.MaxMembers).
		Set("max_roster_size", row.MaxRosterSize).
		Set("invite_code", row.InviteCode).
		Set("scoring", row.Scoring).
		Set("draft_order", row.DraftOrder).
		Set("version", row.Version).
		Set("updated_at", row.UpdatedAt).
		Where(qb.Eq("id", row.ID), qb.Eq("version", expectedVersion)).
		ToSQL()
	if err != nil {
		return fmt.Errorf("build update league query: %w", err)
	}

	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update league: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update league rows affected: %w", err)
	}
	if affected == 0 {
		return league.ErrVersionConflict
	}

	for _, table := range []string{"roster_slots", "league_members"} {
		delQuery, delArgs, err := qb.DeleteFrom(table).Where(qb.Eq("league_id", l.ID)).ToSQL()
		if err != nil {
			return fmt.Errorf("build delete %s query: %w", table, err)
		}
		if _, err := tx.ExecContext(ctx, delQuery, delArgs...); err != nil {
			return fmt.Errorf("delete %s: %w", table, err)
		}
	}

	if err := insertMembersAndSlots(ctx, tx, l); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit update league tx: %w", err)
	}
	return nil
}

func (r *LeagueRepository) getOne(ctx context.Context, cond qb.Condition) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").Where(cond).ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league: %w", err)
	}

	l, err := r.hydrate(ctx, row)
	if err != nil {
		return league.League{}, false, err
	}
	return l, true, nil
}

func (r *LeagueRepository) loadMany(ctx context.Context, ids []string) ([]league.League, error) {
	out := make([]league.League, 0, len(ids))
	for _, id := range ids {
		l, exists, err := r.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if exists {
			out = append(out, l)
		}
	}
	return out, nil
}

func (r *LeagueRepository) hydrate(ctx context.Context, row leagueTableModel) (league.League, error) {
	memberQuery, memberArgs, err := qb.Select("*").From("league_members").
		Where(qb.Eq("league_id", row.ID)).
		OrderBy("position").
		ToSQL()
	if err != nil {
		return league.League{}, fmt.Errorf("build select league members query: %w", err)
	}
	var memberRows []leagueMemberTableModel
	if err := r.db.SelectContext(ctx, &memberRows, memberQuery, memberArgs...); err != nil {
		return league.League{}, fmt.Errorf("select league members: %w", err)
	}

	slotQuery, slotArgs, err := qb.Select("*").From("roster_slots").
		Where(qb.Eq("league_id", row.ID)).
		OrderBy("user_id", "position").
		ToSQL()
	if err != nil {
		return league.League{}, fmt.Errorf("build select roster slots query: %w", err)
	}
	var slotRows []rosterSlotTableModel
	if err := r.db.SelectContext(ctx, &slotRows, slotQuery, slotArgs...); err != nil {
		return league.League{}, fmt.Errorf("select roster slots: %w", err)
	}

	return fromLeagueRows(row, memberRows, slotRows)
}

func insertMembersAndSlots(ctx context.Context, tx *sqlx.Tx, l league.League) error {
	for position, m := range l.Members {
		memberRow := leagueMemberTableModel{
			LeagueID: l.ID,
			UserID:   m.UserID,
			Role:     string(m.Role),
			Score:    m.Score,
			Position: position,
			JoinedAt: m.JoinedAt,
		}
		query, args, err := qb.InsertModel("league_members", memberRow, "")
		if err != nil {
			return fmt.Errorf("build insert league member query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert league member: %w", err)
		}

		for slotPos, slot := range m.Roster {
			slotRow := rosterSlotTableModel{
				LeagueID:  l.ID,
				UserID:    m.UserID,
				ChefID:    slot.ChefID,
				DraftedAt: slot.DraftedAt,
				Active:    slot.Active,
				Position:  slotPos,
			}
			query, args, err := qb.InsertModel("roster_slots", slotRow, "")
			if err != nil {
				return fmt.Errorf("build insert roster slot query: %w", err)
			}
			if _, err := tx.ExecContext(ctx, query, args...); err != nil {
				return fmt.Errorf("insert roster slot: %w", err)
			}
		}
	}
	return nil
}

func toLeagueRow(l league.League) (leagueTableModel, error) {
	scoringJSON, err := sonic.Marshal(l.Scoring)
	if err != nil {
		return leagueTableModel{}, fmt.Errorf("marshal league scoring settings: %w", err)
	}
	orderJSON, err := sonic.Marshal(l.DraftOrder)
	if err != nil {
		return leagueTableModel{}, fmt.Errorf("marshal league draft order: %w", err)
	}

	return leagueTableModel{
		ID:            l.ID,
		Name:          l.Name,
		Season:        l.Season,
		Status:        string(l.Status),
		CurrentWeek:   l.CurrentWeek,
		MaxMembers:    l.MaxMembers,
		MaxRosterSize: l.MaxRosterSize,
		InviteCode:    l.InviteCode,
		Scoring:       scoringJSON,
		DraftOrder:    orderJSON,
		Version:       l.Version,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}, nil
}

func fromLeagueRows(row leagueTableModel, memberRows []leagueMemberTableModel, slotRows []rosterSlotTableModel) (league.League, error) {
	var settings scoring.Settings
	if len(row.Scoring) > 0 {
		if err := sonic.Unmarshal(row.Scoring, &settings); err != nil {
			return league.League{}, fmt.Errorf("unmarshal league scoring settings: %w", err)
		}
	}
	var draftOrder []string
	if len(row.DraftOrder) > 0 {
		if err := sonic.Unmarshal(row.DraftOrder, &draftOrder); err != nil {
			return league.League{}, fmt.Errorf("unmarshal league draft order: %w", err)
		}
	}

	slotsByUser := make(map[string][]league.RosterSlot, len(memberRows))
	for _, slot := range slotRows {
		slotsByUser[slot.UserID] = append(slotsByUser[slot.UserID], league.RosterSlot{
			ChefID:    slot.ChefID,
			DraftedAt: slot.DraftedAt,
			Active:    slot.Active,
		})
	}

	members := make([]league.Member, 0, len(memberRows))
	for _, m := range memberRows {
		members = append(members, league.Member{
			UserID:   m.UserID,
			Role:     league.Role(m.Role),
			Score:    m.Score,
			Roster:   slotsByUser[m.UserID],
			JoinedAt: m.JoinedAt,
		})
	}

	return league.League{
		ID:            row.ID,
		Name:          row.Name,
		Season:        row.Season,
		Status:        league.Status(row.Status),
		CurrentWeek:   row.CurrentWeek,
		MaxMembers:    row.MaxMembers,
		MaxRosterSize: row.MaxRosterSize,
		InviteCode:    row.InviteCode,
		Scoring:       settings,
		DraftOrder:    draftOrder,
		Members:       members,
		Version:       row.Version,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}
