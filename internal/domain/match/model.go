package match

import "time"

// UnknownGoals marks a score that is not known yet, either because the match
// has not kicked off or because no result was reported.
const UnknownGoals = -1

// Match is one league fixture as stored locally.
type Match struct {
	ID         string
	Season     int
	Matchday   int
	MatchID    int64
	KickoffAt  time.Time
	IsFinished bool
	TeamIDHome int64
	TeamIDAway int64
	GoalsHome  int
	GoalsAway  int
	IsTopMatch bool
}

func (m Match) Goals() (int, int) {
	return m.GoalsHome, m.GoalsAway
}

// HasResult reports whether both goal counts are known.
func (m Match) HasResult() bool {
	return m.GoalsHome >= 0 && m.GoalsAway >= 0
}

func (m Match) HasKickedOff(now time.Time) bool {
	return !m.KickoffAt.IsZero() && !now.Before(m.KickoffAt)
}

// SameState compares every payload field and ignores the storage identity.
func (m Match) SameState(other Match) bool {
	return m.Season == other.Season &&
		m.Matchday == other.Matchday &&
		m.MatchID == other.MatchID &&
		m.KickoffAt.Equal(other.KickoffAt) &&
		m.IsFinished == other.IsFinished &&
		m.TeamIDHome == other.TeamIDHome &&
		m.TeamIDAway == other.TeamIDAway &&
		m.GoalsHome == other.GoalsHome &&
		m.GoalsAway == other.GoalsAway &&
		m.IsTopMatch == other.IsTopMatch
}

// Result is the part of a match that changes while it is being played.
type Result struct {
	MatchID    int64
	IsFinished bool
	GoalsHome  int
	GoalsAway  int
}

// Result returns the live part of m.
func (m Match) Result() Result {
	return Result{MatchID: m.MatchID, IsFinished: m.IsFinished, GoalsHome: m.GoalsHome, GoalsAway: m.GoalsAway}
}
