package postgres

import (
	"time"

	"github.com/lib/pq"
)

type syncPhaseTableModel struct {
	ID        int64         `db:"id"`
	PublicID  string        `db:"public_id"`
	StartAt   time.Time     `db:"start_at"`
	MatchIDs  pq.Int64Array `db:"match_ids"`
	CreatedAt time.Time     `db:"created_at"`
	UpdatedAt time.Time     `db:"updated_at"`
}

type syncPhaseInsertModel struct {
	PublicID string        `db:"public_id"`
	StartAt  time.Time     `db:"start_at"`
	MatchIDs pq.Int64Array `db:"match_ids"`
}

type syncTimeTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Season    int       `db:"season"`
	Matchday  int       `db:"matchday"`
	SyncedAt  time.Time `db:"synced_at"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type syncTimeInsertModel struct {
	PublicID string    `db:"public_id"`
	Season   int       `db:"season"`
	Matchday int       `db:"matchday"`
	SyncedAt time.Time `db:"synced_at"`
}
