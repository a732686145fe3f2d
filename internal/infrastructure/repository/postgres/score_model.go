package postgres

import "time"

type scoreSnapshotTableModel struct {
	ID           int64     `db:"id"`
	PublicID     string    `db:"public_id"`
	Season       int       `db:"season"`
	Matchday     int       `db:"matchday"`
	Scores       []byte    `db:"scores"`
	CalculatedAt time.Time `db:"calculated_at"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

type scoreSnapshotInsertModel struct {
	PublicID     string    `db:"public_id"`
	Season       int       `db:"season"`
	Matchday     int       `db:"matchday"`
	Scores       string    `db:"scores"`
	CalculatedAt time.Time `db:"calculated_at"`
}
