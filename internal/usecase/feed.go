package usecase

import (
	"context"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

// ReferenceFeed is the authoritative source of fixtures and standings.
// Payloads of an unexpected shape come back as empty results, not errors.
type ReferenceFeed interface {
	FetchFixtures(ctx context.Context, season, matchday int) ([]ExternalFixture, error)
	// FetchLastChanged reports false when the feed has no change timestamp.
	FetchLastChanged(ctx context.Context, season, matchday int) (time.Time, bool, error)
	FetchStandings(ctx context.Context, season int) ([]ExternalTeamRanking, error)
}

// ResultTypeFinal identifies the canonical end-of-match result entry.
const ResultTypeFinal = 2

type ExternalFixture struct {
	MatchID       int64
	Matchday      int
	KickoffAt     time.Time
	TeamIDHome    int64
	TeamIDAway    int64
	IsFinished    bool
	Results       []ExternalResult
	Goals         []ExternalGoal
	LastUpdatedAt time.Time
}

type ExternalResult struct {
	TypeID    int
	Order     int
	GoalsHome int
	GoalsAway int
}

func (r ExternalResult) Goals() (int, int) {
	return r.GoalsHome, r.GoalsAway
}

// ExternalGoal is the running score after one goal, in feed order.
type ExternalGoal struct {
	GoalsHome int
	GoalsAway int
	Minute    int
}

type ExternalTeamRanking struct {
	Place    int
	TeamID   int64
	TeamName string
	Points   int
}

// ExtractResult derives the goals to store for a fixture at now.
func ExtractResult(f ExternalFixture, now time.Time) (int, int) {
	if f.KickoffAt.IsZero() || now.Before(f.KickoffAt) {
		return match.UnknownGoals, match.UnknownGoals
	}

	for _, r := range f.Results {
		if r.TypeID == ResultTypeFinal {
			return r.GoalsHome, r.GoalsAway
		}
	}

	if len(f.Goals) > 0 {
		last := f.Goals[len(f.Goals)-1]
		return last.GoalsHome, last.GoalsAway
	}

	// intermediate results such as half time, latest by order
	found := false
	var latest ExternalResult
	for _, r := range f.Results {
		if !found || r.Order > latest.Order {
			latest = r
			found = true
		}
	}
	if found {
		return latest.GoalsHome, latest.GoalsAway
	}

	return 0, 0
}

// canonicalMatch maps a feed fixture onto the stored match shape.
func canonicalMatch(season, matchday int, f ExternalFixture, now time.Time) match.Match {
	if f.Matchday > 0 {
		matchday = f.Matchday
	}
	home, away := ExtractResult(f, now)
	return match.Match{
		Season:     season,
		Matchday:   matchday,
		MatchID:    f.MatchID,
		KickoffAt:  f.KickoffAt.UTC(),
		IsFinished: f.IsFinished,
		TeamIDHome: f.TeamIDHome,
		TeamIDAway: f.TeamIDAway,
		GoalsHome:  home,
		GoalsAway:  away,
	}
}
