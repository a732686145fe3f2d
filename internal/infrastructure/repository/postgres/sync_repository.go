package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/prediction-league/internal/domain/syncphase"
	"github.com/riskibarqy/prediction-league/internal/domain/synctime"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	qb "github.com/riskibarqy/prediction-league/internal/platform/querybuilder"
)

type SyncPhaseRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewSyncPhaseRepository(db *sqlx.DB, ids id.Generator) *SyncPhaseRepository {
	return &SyncPhaseRepository{db: db, ids: ids}
}

func (r *SyncPhaseRepository) List(ctx context.Context) ([]syncphase.Phase, error) {
	query, args, err := qb.Select("*").From("sync_phases").OrderBy("start_at").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select sync phases query: %w", err)
	}
	return r.selectPhases(ctx, query, args)
}

func (r *SyncPhaseRepository) ListStartingUntil(ctx context.Context, until time.Time) ([]syncphase.Phase, error) {
	query, args, err := qb.Select("*").From("sync_phases").
		Where(qb.Lte("start_at", until.UTC())).
		OrderBy("start_at").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build select started sync phases query: %w", err)
	}
	return r.selectPhases(ctx, query, args)
}

func (r *SyncPhaseRepository) GetByStart(ctx context.Context, start time.Time) (syncphase.Phase, bool, error) {
	query, args, err := qb.Select("*").From("sync_phases").
		Where(qb.Eq("start_at", start.UTC())).
		Limit(1).
		ToSQL()
	if err != nil {
		return syncphase.Phase{}, false, fmt.Errorf("build get sync phase query: %w", err)
	}

	var row syncPhaseTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return syncphase.Phase{}, false, nil
		}
		return syncphase.Phase{}, false, fmt.Errorf("get sync phase: %w", err)
	}
	return phaseFromRow(row), true, nil
}

// Upsert replaces the match set of an existing phase.
func (r *SyncPhaseRepository) Upsert(ctx context.Context, item syncphase.Phase) (syncphase.Phase, error) {
	publicID, err := ensurePublicID(r.ids, item.ID)
	if err != nil {
		return syncphase.Phase{}, err
	}

	query, args, err := qb.InsertModel("sync_phases", syncPhaseInsertModel{
		PublicID: publicID,
		StartAt:  item.Start.UTC(),
		MatchIDs: pq.Int64Array(item.MatchIDs),
	}, `ON CONFLICT (start_at)
DO UPDATE SET
    match_ids = EXCLUDED.match_ids,
    updated_at = NOW()
RETURNING public_id`)
	if err != nil {
		return syncphase.Phase{}, fmt.Errorf("build sync phase upsert query: %w", err)
	}

	var savedID string
	if err := r.db.GetContext(ctx, &savedID, query, args...); err != nil {
		return syncphase.Phase{}, fmt.Errorf("upsert sync phase: %w", err)
	}
	item.ID = savedID
	return item, nil
}

func (r *SyncPhaseRepository) Delete(ctx context.Context, phaseID string) error {
	query, args, err := qb.DeleteFrom("sync_phases").Where(qb.Eq("public_id", phaseID)).ToSQL()
	if err != nil {
		return fmt.Errorf("build delete sync phase query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("delete sync phase: %w", err)
	}
	return nil
}

func (r *SyncPhaseRepository) selectPhases(ctx context.Context, query string, args []any) ([]syncphase.Phase, error) {
	var rows []syncPhaseTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select sync phases: %w", err)
	}

	out := make([]syncphase.Phase, 0, len(rows))
	for _, row := range rows {
		out = append(out, phaseFromRow(row))
	}
	return out, nil
}

func phaseFromRow(row syncPhaseTableModel) syncphase.Phase {
	return syncphase.Phase{
		ID:       row.PublicID,
		Start:    row.StartAt.UTC(),
		MatchIDs: append([]int64(nil), row.MatchIDs...),
	}
}

type SyncTimeRepository struct {
	db  *sqlx.DB
	ids id.Generator
}

func NewSyncTimeRepository(db *sqlx.DB, ids id.Generator) *SyncTimeRepository {
	return &SyncTimeRepository{db: db, ids: ids}
}

func (r *SyncTimeRepository) Get(ctx context.Context, season, matchday int) (synctime.UpdateTime, bool, error) {
	query, args, err := qb.Select("*").From("sync_times").
		Where(
			qb.Eq("season", season),
			qb.Eq("matchday", matchday),
		).
		Limit(1).
		ToSQL()
	if err != nil {
		return synctime.UpdateTime{}, false, fmt.Errorf("build get sync time query: %w", err)
	}

	var row syncTimeTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return synctime.UpdateTime{}, false, nil
		}
		return synctime.UpdateTime{}, false, fmt.Errorf("get sync time: %w", err)
	}

	return synctime.UpdateTime{
		ID:        row.PublicID,
		Season:    row.Season,
		Matchday:  row.Matchday,
		UpdatedAt: row.SyncedAt.UTC(),
	}, true, nil
}

func (r *SyncTimeRepository) Upsert(ctx context.Context, item synctime.UpdateTime) (synctime.UpdateTime, error) {
	publicID, err := ensurePublicID(r.ids, item.ID)
	if err != nil {
		return synctime.UpdateTime{}, err
	}

	query, args, err := qb.InsertModel("sync_times", syncTimeInsertModel{
		PublicID: publicID,
		Season:   item.Season,
		Matchday: item.Matchday,
		SyncedAt: item.UpdatedAt.UTC(),
	}, `ON CONFLICT (season, matchday)
DO UPDATE SET
    synced_at = EXCLUDED.synced_at,
    updated_at = NOW()
RETURNING public_id`)
	if err != nil {
		return synctime.UpdateTime{}, fmt.Errorf("build sync time upsert query: %w", err)
	}

	var savedID string
	if err := r.db.GetContext(ctx, &savedID, query, args...); err != nil {
		return synctime.UpdateTime{}, fmt.Errorf("upsert sync time season=%d matchday=%d: %w", item.Season, item.Matchday, err)
	}
	item.ID = savedID
	return item, nil
}
