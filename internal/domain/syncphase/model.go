package syncphase

import "time"

// Phase groups the matches sharing one kickoff instant. Start is the key.
type Phase struct {
	ID       string
	Start    time.Time
	MatchIDs []int64
}

func (p Phase) IsDue(now time.Time) bool {
	return !p.Start.After(now)
}
