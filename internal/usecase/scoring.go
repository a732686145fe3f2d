package usecase

import (
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
)

// Scoreline is anything carrying a home/away goal pair: bets, stored
// matches and feed results alike.
type Scoreline interface {
	Goals() (home, away int)
}

type Tendency int

const (
	TendencyDraw Tendency = 0
	TendencyHome Tendency = 1
	TendencyAway Tendency = 2
)

// TendencyOf classifies a scoreline. It is unavailable when a goal count is
// negative.
func TendencyOf(x Scoreline) (Tendency, bool) {
	if x == nil {
		return 0, false
	}
	home, away := x.Goals()
	if home < 0 || away < 0 {
		return 0, false
	}
	switch {
	case home > away:
		return TendencyHome, true
	case away > home:
		return TendencyAway, true
	default:
		return TendencyDraw, true
	}
}

func isSet(x Scoreline) bool {
	_, ok := TendencyOf(x)
	return ok
}

type ScoringRules struct {
	TendencyPoints int
	ResultBonus    int
	TopMatchFactor int
	OutsiderPair   int
	OutsiderSolo   int

	SeasonChampion      int
	SeasonRunnerUp      int
	SeasonRelegation    int
	SeasonRelegationAny int
}

func DefaultScoringRules() ScoringRules {
	return ScoringRules{
		TendencyPoints:      1,
		ResultBonus:         1,
		TopMatchFactor:      2,
		OutsiderPair:        1,
		OutsiderSolo:        2,
		SeasonChampion:      3,
		SeasonRunnerUp:      2,
		SeasonRelegation:    2,
		SeasonRelegationAny: 1,
	}
}

// MatchPoints is the breakdown of the points a user earns on one match.
// TopExtra is the part of Total contributed by the top-match factor.
type MatchPoints struct {
	Total       int
	Tendency    int
	Result      int
	TopExtra    int
	Outsider    int
	TendencyHit bool
	ResultHit   bool
}

// FindBet returns the user's bet or the unset sentinel.
func FindBet(userID string, bets []bet.Bet) bet.Bet {
	for _, b := range bets {
		if b.UserID == userID {
			return b
		}
	}
	var matchID int64
	if len(bets) > 0 {
		matchID = bets[0].MatchID
	}
	return bet.Unset(matchID, userID)
}

func (r ScoringRules) MatchPoints(userID string, bets []bet.Bet, result Scoreline, isTopMatch bool) MatchPoints {
	userBet := FindBet(userID, bets)

	betTendency, betOK := TendencyOf(userBet)
	resultTendency, resultOK := TendencyOf(result)
	if !betOK || !resultOK {
		return MatchPoints{}
	}

	var out MatchPoints
	if betTendency == resultTendency {
		out.Tendency = r.TendencyPoints
		out.TendencyHit = true
	}
	betHome, betAway := userBet.Goals()
	resultHome, resultAway := result.Goals()
	if betHome == resultHome && betAway == resultAway {
		out.Result = r.ResultBonus
		out.ResultHit = true
	}

	raw := out.Tendency + out.Result
	if isTopMatch && r.TopMatchFactor > 1 {
		out.TopExtra = raw * (r.TopMatchFactor - 1)
		raw += out.TopExtra
	}

	if raw > 0 {
		switch countTendency(bets, betTendency) {
		case 1:
			out.Outsider = r.OutsiderSolo
		case 2:
			out.Outsider = r.OutsiderPair
		}
	}

	out.Total = raw + out.Outsider
	return out
}

func (r ScoringRules) GetMatchPoints(userID string, bets []bet.Bet, result Scoreline, isTopMatch bool) int {
	return r.MatchPoints(userID, bets, result, isTopMatch).Total
}

func countTendency(bets []bet.Bet, want Tendency) int {
	count := 0
	for _, b := range bets {
		if t, ok := TendencyOf(b); ok && t == want {
			count++
		}
	}
	return count
}

// SeasonPoints scores one user's season bets against the final table.
func (r ScoringRules) SeasonPoints(bets []bet.SeasonBet, results []bet.SeasonResult) int {
	resultByPlace := make(map[int]int64, len(results))
	relegated := make(map[int64]struct{})
	for _, res := range results {
		resultByPlace[res.Place] = res.TeamID
		if bet.IsRelegationPlace(res.Place) && res.TeamID != bet.UnsetTeam {
			relegated[res.TeamID] = struct{}{}
		}
	}

	total := 0
	for _, b := range bets {
		if !b.IsSet() {
			continue
		}
		actual, ok := resultByPlace[b.Place]
		if ok && actual != bet.UnsetTeam && actual == b.TeamID {
			switch {
			case b.Place == 1:
				total += r.SeasonChampion
			case b.Place == 2:
				total += r.SeasonRunnerUp
			case bet.IsRelegationPlace(b.Place):
				total += r.SeasonRelegation
			}
			continue
		}
		if bet.IsRelegationPlace(b.Place) {
			if _, hit := relegated[b.TeamID]; hit {
				total += r.SeasonRelegationAny
			}
		}
	}
	return total
}
