package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type BetRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewBetRepository(db *sqlx.DB, ids id.Generator) *BetRepository {
	return &BetRepository{db: db, ids: ids}
}

func (r *BetRepository) ListByMatchIDs(ctx context.Context, matchIDs []int64) ([]bet.Bet, error) {
	return r.listByMatchIDs(ctx, matchIDs, false)
}

func (r *BetRepository) ListUnfixedByMatchIDs(ctx context.Context, matchIDs []int64) ([]bet.Bet, error) {
	return r.listByMatchIDs(ctx, matchIDs, true)
}

func (r *BetRepository) listByMatchIDs(ctx context.Context, matchIDs []int64, unfixedOnly bool) ([]bet.Bet, error) {
	if len(matchIDs) == 0 {
		return []bet.Bet{}, nil
	}

	conditions := []qb.Condition{qb.Expr("match_id = ANY(?)", pq.Array(matchIDs))}
	if unfixedOnly {
		conditions = append(conditions, qb.Eq("is_fixed", false))
	}
	query, args, err := qb.Select("*").From("bets").
		Where(conditions...).
		OrderBy("match_id", "user_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select bets query: %w", err)
	}

	var rows []betTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select bets: %w", err)
	}

	out := make([]bet.Bet, 0, len(rows))
	for _, row := range rows {
		out = append(out, bet.Bet{
			ID:        row.PublicID,
			MatchID:   row.MatchID,
			UserID:    row.UserID,
			GoalsHome: row.GoalsHome,
			GoalsAway: row.GoalsAway,
			IsFixed:   row.IsFixed,
		})
	}
	return out, nil
}

// Upsert never clears is_fixed once it is set.
func (r *BetRepository) Upsert(ctx context.Context, item bet.Bet) (bet.Bet, error) {
	publicID, err := ensurePublicID(r.ids, item.ID)
	if err != nil {
		return bet.Bet{}, err
	}

	insertModel := betInsertModel{
		PublicID:  publicID,
		MatchID:   item.MatchID,
		UserID:    item.UserID,
		GoalsHome: item.GoalsHome,
		GoalsAway: item.GoalsAway,
		IsFixed:   item.IsFixed,
	}

	query, args, err := qb.InsertModel("bets", insertModel, `ON CONFLICT (match_id, user_id)
DO UPDATE SET
    goals_home = CASE WHEN bets.is_fixed THEN bets.goals_home ELSE EXCLUDED.goals_home END,
    goals_away = CASE WHEN bets.is_fixed THEN bets.goals_away ELSE EXCLUDED.goals_away END,
    is_fixed = bets.is_fixed OR EXCLUDED.is_fixed,
    updated_at = NOW()
RETURNING public_id, goals_home, goals_away, is_fixed`)
	if err != nil {
		return bet.Bet{}, fmt.Errorf("build bet upsert query: %w", err)
	}

	var row betTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return bet.Bet{}, fmt.Errorf("upsert bet match_id=%d user_id=%s: %w", item.MatchID, item.UserID, err)
	}
	item.ID = row.PublicID
	item.GoalsHome = row.GoalsHome
	item.GoalsAway = row.GoalsAway
	item.IsFixed = row.IsFixed
	return item, nil
}

type SeasonBetRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewSeasonBetRepository(db *sqlx.DB, ids id.Generator) *SeasonBetRepository {
	return &SeasonBetRepository{db: db, ids: ids}
}

func (r *SeasonBetRepository) ListBySeason(ctx context.Context, season int) ([]bet.SeasonBet, error) {
	return r.listBySeason(ctx, season, false)
}

func (r *SeasonBetRepository) ListUnfixedBySeason(ctx context.Context, season int) ([]bet.SeasonBet, error) {
	return r.listBySeason(ctx, season, true)
}

func (r *SeasonBetRepository) listBySeason(ctx context.Context, season int, unfixedOnly bool) ([]bet.SeasonBet, error) {
	conditions := []qb.Condition{qb.Eq("season", season)}
	if unfixedOnly {
		conditions = append(conditions, qb.Eq("is_fixed", false))
	}
	query, args, err := qb.Select("*").From("season_bets").
		Where(conditions...).
		OrderBy("user_id", "place").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season bets query: %w", err)
	}

	var rows []seasonBetTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select season bets: %w", err)
	}

	out := make([]bet.SeasonBet, 0, len(rows))
	for _, row := range rows {
		out = append(out, bet.SeasonBet{
			ID:      row.PublicID,
			Season:  row.Season,
			UserID:  row.UserID,
			Place:   row.Place,
			TeamID:  row.TeamID,
			IsFixed: row.IsFixed,
		})
	}
	return out, nil
}

func (r *SeasonBetRepository) Upsert(ctx context.Context, item bet.SeasonBet) (bet.SeasonBet, error) {
	publicID, err := ensurePublicID(r.ids, item.ID)
	if err != nil {
		return bet.SeasonBet{}, err
	}

	insertModel := seasonBetInsertModel{
		PublicID: publicID,
		Season:   item.Season,
		UserID:   item.UserID,
		Place:    item.Place,
		TeamID:   item.TeamID,
		IsFixed:  item.IsFixed,
	}

	query, args, err := qb.InsertModel("season_bets", insertModel, `ON CONFLICT (season, user_id, place)
DO UPDATE SET
    team_id = CASE WHEN season_bets.is_fixed THEN season_bets.team_id ELSE EXCLUDED.team_id END,
    is_fixed = season_bets.is_fixed OR EXCLUDED.is_fixed,
    updated_at = NOW()
RETURNING public_id`)
	if err != nil {
		return bet.SeasonBet{}, fmt.Errorf("build season bet upsert query: %w", err)
	}

	var savedID string
	if err := r.db.GetContext(ctx, &savedID, query, args...); err != nil {
		return bet.SeasonBet{}, fmt.Errorf("upsert season bet user_id=%s place=%d: %w", item.UserID, item.Place, err)
	}
	item.ID = savedID
	return item, nil
}

type SeasonResultRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewSeasonResultRepository(db *sqlx.DB, ids id.Generator) *SeasonResultRepository {
	return &SeasonResultRepository{db: db, ids: ids}
}

func (r *SeasonResultRepository) ListBySeason(ctx context.Context, season int) ([]bet.SeasonResult, error) {
	query, args, err := qb.Select("*").From("season_results").
		Where(qb.Eq("season", season)).
		OrderBy("place").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select season results query: %w", err)
	}

	var rows []seasonResultTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select season results: %w", err)
	}

	out := make([]bet.SeasonResult, 0, len(rows))
	for _, row := range rows {
		out = append(out, bet.SeasonResult{
			ID:     row.PublicID,
			Season: row.Season,
			Place:  row.Place,
			TeamID: row.TeamID,
		})
	}
	return out, nil
}

func (r *SeasonResultRepository) Upsert(ctx context.Context, item bet.SeasonResult) (bet.SeasonResult, error) {
	publicID, err := ensurePublicID(r.ids, item.ID)
	if err != nil {
		return bet.SeasonResult{}, err
	}

	query, args, err := qb.InsertModel("season_results", seasonResultInsertModel{
		PublicID: publicID,
		Season:   item.Season,
		Place:    item.Place,
		TeamID:   item.TeamID,
	}, `ON CONFLICT (season, place)
DO UPDATE SET
    team_id = EXCLUDED.team_id,
    updated_at = NOW()
RETURNING public_id`)
	if err != nil {
		return bet.SeasonResult{}, fmt.Errorf("build season result upsert query: %w", err)
	}

	var savedID string
	if err := r.db.GetContext(ctx, &savedID, query, args...); err != nil {
		return bet.SeasonResult{}, fmt.Errorf("upsert season result place=%d: %w", item.Place, err)
	}
	item.ID = savedID
	return item, nil
}
