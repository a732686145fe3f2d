package postgres

import (
	"context"
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/prediction-league/internal/domain/score"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

// ScoreSnapshotRepository stores each matchday's scores as one JSONB array.
type ScoreSnapshotRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewScoreSnapshotRepository(db *sqlx.DB, ids id.Generator) *ScoreSnapshotRepository {
	return &ScoreSnapshotRepository{db: db, ids: ids}
}

func (r *ScoreSnapshotRepository) ListBySeason(ctx context.Context, season int) ([]score.MatchdaySnapshot, error) {
	query, args, err := qb.Select("*").From("score_snapshots").
		Where(qb.Eq("season", season)).
		OrderBy("matchday").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select score snapshots query: %w", err)
	}

	var rows []scoreSnapshotTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select score snapshots: %w", err)
	}

	out := make([]score.MatchdaySnapshot, 0, len(rows))
	for _, row := range rows {
		snap, err := snapshotFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, snap)
	}
	return out, nil
}

func (r *ScoreSnapshotRepository) Get(ctx context.Context, season, matchday int) (score.MatchdaySnapshot, bool, error) {
	query, args, err := qb.Select("*").From("score_snapshots").
		Where(
			qb.Eq("season", season),
			qb.Eq("matchday", matchday),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return score.MatchdaySnapshot{}, false, fmt.Errorf("build get score snapshot query: %w", err)
	}

	var row scoreSnapshotTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return score.MatchdaySnapshot{}, false, nil
		}
		return score.MatchdaySnapshot{}, false, fmt.Errorf("get score snapshot: %w", err)
	}
	snap, err := snapshotFromRow(row)
	if err != nil {
		return score.MatchdaySnapshot{}, false, err
	}
	return snap, true, nil
}

func (r *ScoreSnapshotRepository) Upsert(ctx context.Context, item score.MatchdaySnapshot) (score.MatchdaySnapshot, error) {
	publicID, err := ensurePublicID(r.ids, item.ID)
	if err != nil {
		return score.MatchdaySnapshot{}, err
	}

	scores := item.Scores
	if scores == nil {
		scores = []score.Score{}
	}
	payload, err := sonic.MarshalString(scores)
	if err != nil {
		return score.MatchdaySnapshot{}, fmt.Errorf("encode snapshot scores: %w", err)
	}

	query, args, err := qb.InsertModel("score_snapshots", scoreSnapshotInsertModel{
		PublicID:     publicID,
		Season:       item.Season,
		Matchday:     item.Matchday,
		Scores:       payload,
		CalculatedAt: item.CalculatedAt.UTC(),
	}, `ON CONFLICT (season, matchday)
DO UPDATE SET
    scores = EXCLUDED.scores,
    calculated_at = EXCLUDED.calculated_at,
    updated_at = NOW()
RETURNING public_id`)
	if err != nil {
		return score.MatchdaySnapshot{}, fmt.Errorf("build score snapshot upsert query: %w", err)
	}

	var savedID string
	if err := r.db.GetContext(ctx, &savedID, query, args...); err != nil {
		return score.MatchdaySnapshot{}, fmt.Errorf("upsert score snapshot season=%d matchday=%d: %w", item.Season, item.Matchday, err)
	}
	item.ID = savedID
	return item, nil
}

func snapshotFromRow(row scoreSnapshotTableModel) (score.MatchdaySnapshot, error) {
	var scores []score.Score
	if len(row.Scores) > 0 {
		if err := sonic.Unmarshal(row.Scores, &scores); err != nil {
			return score.MatchdaySnapshot{}, fmt.Errorf("decode snapshot scores season=%d matchday=%d: %w", row.Season, row.Matchday, err)
		}
	}
	return score.MatchdaySnapshot{
		ID:           row.PublicID,
		Season:       row.Season,
		Matchday:     row.Matchday,
		Scores:       scores,
		CalculatedAt: row.CalculatedAt.UTC(),
	}, nil
}
