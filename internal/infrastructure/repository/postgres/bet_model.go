package postgres

import "time"

type betTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	MatchID   int64     `db:"match_id"`
	UserID    string    `db:"user_id"`
	GoalsHome int       `db:"goals_home"`
	GoalsAway int       `db:"goals_away"`
	IsFixed   bool      `db:"is_fixed"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type betInsertModel struct {
	PublicID  string `db:"public_id"`
	MatchID   int64  `db:"match_id"`
	UserID    string `db:"user_id"`
	GoalsHome int    `db:"goals_home"`
	GoalsAway int    `db:"goals_away"`
	IsFixed   bool   `db:"is_fixed"`
}

type seasonBetTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Season    int       `db:"season"`
	UserID    string    `db:"user_id"`
	Place     int       `db:"place"`
	TeamID    int64     `db:"team_id"`
	IsFixed   bool      `db:"is_fixed"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type seasonBetInsertModel struct {
	PublicID string `db:"public_id"`
	Season   int    `db:"season"`
	UserID   string `db:"user_id"`
	Place    int    `db:"place"`
	TeamID   int64  `db:"team_id"`
	IsFixed  bool   `db:"is_fixed"`
}

type seasonResultTableModel struct {
	ID        int64     `db:"id"`
	PublicID  string    `db:"public_id"`
	Season    int       `db:"season"`
	Place     int       `db:"place"`
	TeamID    int64     `db:"team_id"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

type seasonResultInsertModel struct {
	PublicID string `db:"public_id"`
	Season   int    `db:"season"`
	Place    int    `db:"place"`
	TeamID   int64  `db:"team_id"`
}
