package synctime

import "time"

// UpdateTime is the per-matchday watermark of the last feed refresh.
type UpdateTime struct {
	ID        string
	Season    int
	Matchday  int
	UpdatedAt time.Time
}
