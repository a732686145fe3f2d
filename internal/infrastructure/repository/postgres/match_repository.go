package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type MatchRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewMatchRepository(db *sqlx.DB, ids id.Generator) *MatchRepository {
	return &MatchRepository{db: db, ids: ids}
}

func (r *MatchRepository) ListBySeason(ctx context.Context, season int) ([]match.Match, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(qb.Eq("season", season)).
		OrderBy("matchday", "kickoff_at", "match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by season query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListBySeasonMatchday(ctx context.Context, season, matchday int) ([]match.Match, error) {
	query, args, err := matchBaseSelectBuilder().
		Where(
			qb.Eq("season", season),
			qb.Eq("matchday", matchday),
		).
		OrderBy("kickoff_at", "match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by matchday query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListByMatchIDs(ctx context.Context, matchIDs []int64) ([]match.Match, error) {
	if len(matchIDs) == 0 {
		return []match.Match{}, nil
	}
	query, args, err := matchBaseSelectBuilder().
		Where(qb.Expr("match_id = ANY(?)", pq.Array(matchIDs))).
		OrderBy("matchday", "kickoff_at", "match_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select matches by ids query: %w", err)
	}
	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) Upsert(ctx context.Context, item match.Match) (match.Match, error) {
	publicID, err := ensurePublicID(r.ids, item.ID)
	if err != nil {
		return match.Match{}, err
	}

	insertModel := matchInsertModel{
		PublicID:   publicID,
		Season:     item.Season,
		Matchday:   item.Matchday,
		MatchID:    item.MatchID,
		KickoffAt:  item.KickoffAt.UTC(),
		IsFinished: item.IsFinished,
		TeamIDHome: item.TeamIDHome,
		TeamIDAway: item.TeamIDAway,
		GoalsHome:  item.GoalsHome,
		GoalsAway:  item.GoalsAway,
		IsTopMatch: item.IsTopMatch,
	}

	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (match_id)
DO UPDATE SET
    season = EXCLUDED.season,
    matchday = EXCLUDED.matchday,
    kickoff_at = EXCLUDED.kickoff_at,
    is_finished = EXCLUDED.is_finished,
    team_id_home = EXCLUDED.team_id_home,
    team_id_away = EXCLUDED.team_id_away,
    goals_home = EXCLUDED.goals_home,
    goals_away = EXCLUDED.goals_away,
    is_top_match = EXCLUDED.is_top_match,
    updated_at = NOW()
RETURNING public_id`)
	if err != nil {
		return match.Match{}, fmt.Errorf("build match upsert query: %w", err)
	}

	var savedID string
	if err := r.db.GetContext(ctx, &savedID, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("upsert match id=%d: %w", item.MatchID, err)
	}
	item.ID = savedID
	return item, nil
}

const updateMatchResultQuery = `UPDATE matches
SET is_finished = $1, goals_home = $2, goals_away = $3, updated_at = NOW()
WHERE match_id = $4`

func (r *MatchRepository) UpdateResult(ctx context.Context, result match.Result) (bool, error) {
	res, err := r.db.ExecContext(ctx, updateMatchResultQuery,
		result.IsFinished, result.GoalsHome, result.GoalsAway, result.MatchID)
	if err != nil {
		return false, fmt.Errorf("update match result id=%d: %w", result.MatchID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update match result id=%d rows affected: %w", result.MatchID, err)
	}
	return affected > 0, nil
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func matchFromRow(row matchTableModel) match.Match {
	return match.Match{
		ID:         row.PublicID,
		Season:     row.Season,
		Matchday:   row.Matchday,
		MatchID:    row.MatchID,
		KickoffAt:  row.KickoffAt.UTC(),
		IsFinished: row.IsFinished,
		TeamIDHome: row.TeamIDHome,
		TeamIDAway: row.TeamIDAway,
		GoalsHome:  row.GoalsHome,
		GoalsAway:  row.GoalsAway,
		IsTopMatch: row.IsTopMatch,
	}
}

func matchBaseSelectBuilder() *qb.SelectBuilder {
	return qb.Select("*").From("matches")
}
