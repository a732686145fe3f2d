package postgres

import "time"

type matchTableModel struct {
	ID         int64     `db:"id"`
	PublicID   string    `db:"public_id"`
	Season     int       `db:"season"`
	Matchday   int       `db:"matchday"`
	MatchID    int64     `db:"match_id"`
	KickoffAt  time.Time `db:"kickoff_at"`
	IsFinished bool      `db:"is_finished"`
	TeamIDHome int64     `db:"team_id_home"`
	TeamIDAway int64     `db:"team_id_away"`
	GoalsHome  int       `db:"goals_home"`
	GoalsAway  int       `db:"goals_away"`
	IsTopMatch bool      `db:"is_top_match"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

type matchInsertModel struct {
	PublicID   string    `db:"public_id"`
	Season     int       `db:"season"`
	Matchday   int       `db:"matchday"`
	MatchID    int64     `db:"match_id"`
	KickoffAt  time.Time `db:"kickoff_at"`
	IsFinished bool      `db:"is_finished"`
	TeamIDHome int64     `db:"team_id_home"`
	TeamIDAway int64     `db:"team_id_away"`
	GoalsHome  int       `db:"goals_home"`
	GoalsAway  int       `db:"goals_away"`
	IsTopMatch bool      `db:"is_top_match"`
}
