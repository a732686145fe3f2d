package usecase

import (
	"reflect"
	"testing"

	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
)

func TestTendencyOf(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name   string
		in     Scoreline
		want   Tendency
		wantOK bool
	}{
		{name: "home win", in: ExternalResult{GoalsHome: 2, GoalsAway: 1}, want: TendencyHome, wantOK: true},
		{name: "away win", in: ExternalResult{GoalsHome: 0, GoalsAway: 3}, want: TendencyAway, wantOK: true},
		{name: "draw", in: ExternalResult{GoalsHome: 1, GoalsAway: 1}, want: TendencyDraw, wantOK: true},
		{name: "goalless draw", in: ExternalResult{}, want: TendencyDraw, wantOK: true},
		{name: "unset bet", in: bet.Unset(1, "u1"), wantOK: false},
		{name: "half unknown", in: match.Match{GoalsHome: 1, GoalsAway: match.UnknownGoals}, wantOK: false},
		{name: "nil", in: nil, wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := TendencyOf(tc.in)
			if ok != tc.wantOK {
				t.Fatalf("unexpected availability: got=%v want=%v", ok, tc.wantOK)
			}
			if ok && got != tc.want {
				t.Fatalf("unexpected tendency: got=%d want=%d", got, tc.want)
			}
		})
	}
}

func TestScoringRules_ExactResultWithoutOutsider(t *testing.T) {
	t.Parallel()

	bets := []bet.Bet{
		{MatchID: 1, UserID: "u1", GoalsHome: 2, GoalsAway: 1},
		{MatchID: 1, UserID: "u2", GoalsHome: 1, GoalsAway: 0},
		{MatchID: 1, UserID: "u3", GoalsHome: 3, GoalsAway: 0},
	}
	result := match.Match{GoalsHome: 2, GoalsAway: 1}

	got := DefaultScoringRules().MatchPoints("u1", bets, result, false)
	if got.Total != 2 {
		t.Fatalf("unexpected points: got=%d want=2", got.Total)
	}
	if !got.TendencyHit || !got.ResultHit || got.Outsider != 0 || got.TopExtra != 0 {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

func TestScoringRules_TopMatchSoleBacker(t *testing.T) {
	t.Parallel()

	bets := []bet.Bet{
		{MatchID: 1, UserID: "u1", GoalsHome: 2, GoalsAway: 1},
		{MatchID: 1, UserID: "u2", GoalsHome: 1, GoalsAway: 1},
		{MatchID: 1, UserID: "u3", GoalsHome: 0, GoalsAway: 2},
	}
	result := match.Match{GoalsHome: 3, GoalsAway: 1}

	got := DefaultScoringRules().MatchPoints("u1", bets, result, true)
	if got.Total != 4 {
		t.Fatalf("unexpected points: got=%d want=4", got.Total)
	}
	if got.TopExtra != 1 || got.Outsider != 2 || got.ResultHit {
		t.Fatalf("unexpected breakdown: %+v", got)
	}
}

func TestScoringRules_OutsiderPairAndMisses(t *testing.T) {
	t.Parallel()

	rules := DefaultScoringRules()
	bets := []bet.Bet{
		{MatchID: 1, UserID: "u1", GoalsHome: 0, GoalsAway: 1},
		{MatchID: 1, UserID: "u2", GoalsHome: 1, GoalsAway: 3},
		{MatchID: 1, UserID: "u3", GoalsHome: 2, GoalsAway: 0},
		{MatchID: 1, UserID: "u4", GoalsHome: 1, GoalsAway: 0},
		{MatchID: 1, UserID: "u5", GoalsHome: 4, GoalsAway: 0},
	}
	result := match.Match{GoalsHome: 0, GoalsAway: 1}

	if got := rules.GetMatchPoints("u1", bets, result, false); got != 3 {
		t.Fatalf("exact pair bet: got=%d want=3", got)
	}
	if got := rules.GetMatchPoints("u2", bets, result, false); got != 2 {
		t.Fatalf("tendency pair bet: got=%d want=2", got)
	}
	if got := rules.GetMatchPoints("u3", bets, result, false); got != 0 {
		t.Fatalf("wrong tendency: got=%d want=0", got)
	}
	if got := rules.GetMatchPoints("missing", bets, result, false); got != 0 {
		t.Fatalf("user without bet: got=%d want=0", got)
	}
	if got := rules.GetMatchPoints("u1", bets, match.Match{GoalsHome: -1, GoalsAway: -1}, false); got != 0 {
		t.Fatalf("unknown result: got=%d want=0", got)
	}
}

func TestScoringRules_MatchPointsIgnoreBetOrder(t *testing.T) {
	t.Parallel()

	bets := []bet.Bet{
		{MatchID: 1, UserID: "u1", GoalsHome: 2, GoalsAway: 1},
		{MatchID: 1, UserID: "u2", GoalsHome: 1, GoalsAway: 0},
		{MatchID: 1, UserID: "u3", GoalsHome: 1, GoalsAway: 1},
		bet.Unset(1, "u4"),
		{MatchID: 1, UserID: "u5", GoalsHome: 0, GoalsAway: 2},
		{MatchID: 1, UserID: "u6", GoalsHome: 3, GoalsAway: 0},
		bet.Unset(1, "u7"),
		{MatchID: 1, UserID: "u8", GoalsHome: 0, GoalsAway: 0},
	}
	users := []string{"u1", "u2", "u3", "u4", "u5", "u6", "u7", "u8", "missing"}
	permutations := [][]int{
		{0, 1, 2, 3, 4, 5, 6, 7},
		{7, 6, 5, 4, 3, 2, 1, 0},
		{3, 0, 6, 1, 4, 7, 2, 5},
		{4, 5, 6, 7, 0, 1, 2, 3},
		{2, 7, 0, 5, 3, 6, 1, 4},
	}

	cases := []struct {
		name     string
		result   Scoreline
		topMatch bool
		totals   map[string]int
	}{
		{name: "home win top match", result: match.Match{GoalsHome: 2, GoalsAway: 1}, topMatch: true,
			totals: map[string]int{"u1": 4, "u2": 2, "u3": 0, "u4": 0}},
		{name: "draw top match", result: match.Match{GoalsHome: 1, GoalsAway: 1}, topMatch: true,
			totals: map[string]int{"u3": 5, "u8": 3, "u7": 0}},
		{name: "away win top match", result: match.Match{GoalsHome: 0, GoalsAway: 2}, topMatch: true,
			totals: map[string]int{"u5": 6, "u1": 0}},
		{name: "away win", result: match.Match{GoalsHome: 1, GoalsAway: 3},
			totals: map[string]int{"u5": 3, "missing": 0}},
	}

	rules := DefaultScoringRules()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			want := make(map[string]MatchPoints, len(users))
			for _, u := range users {
				want[u] = rules.MatchPoints(u, bets, tc.result, tc.topMatch)
			}
			for u, total := range tc.totals {
				if want[u].Total != total {
					t.Fatalf("user %s: total got=%d want=%d", u, want[u].Total, total)
				}
			}

			for _, perm := range permutations {
				shuffled := make([]bet.Bet, 0, len(bets))
				for _, idx := range perm {
					shuffled = append(shuffled, bets[idx])
				}
				for _, u := range users {
					got := rules.MatchPoints(u, shuffled, tc.result, tc.topMatch)
					if !reflect.DeepEqual(got, want[u]) {
						t.Fatalf("perm %v user %s: got=%+v want=%+v", perm, u, got, want[u])
					}
					if total := rules.GetMatchPoints(u, shuffled, tc.result, tc.topMatch); total != want[u].Total {
						t.Fatalf("perm %v user %s: total got=%d want=%d", perm, u, total, want[u].Total)
					}
				}
			}
		})
	}
}

func TestScoringRules_SeasonPoints(t *testing.T) {
	t.Parallel()

	rules := DefaultScoringRules()
	results := []bet.SeasonResult{
		{Place: 1, TeamID: 45},
		{Place: 2, TeamID: 7},
		{Place: -1, TeamID: 201},
		{Place: -2, TeamID: 202},
		{Place: -3, TeamID: 203},
	}

	cases := []struct {
		name string
		bets []bet.SeasonBet
		want int
	}{
		{name: "champion", bets: []bet.SeasonBet{{Place: 1, TeamID: 45}}, want: 3},
		{name: "runner up", bets: []bet.SeasonBet{{Place: 2, TeamID: 7}}, want: 2},
		{name: "exact relegation", bets: []bet.SeasonBet{{Place: -2, TeamID: 202}}, want: 2},
		{name: "relegated elsewhere", bets: []bet.SeasonBet{{Place: -1, TeamID: 203}}, want: 1},
		{name: "relegation miss", bets: []bet.SeasonBet{{Place: -2, TeamID: 70}}, want: 0},
		{name: "unset", bets: []bet.SeasonBet{{Place: 1, TeamID: bet.UnsetTeam}}, want: 0},
		{name: "champion in relegation", bets: []bet.SeasonBet{{Place: 1, TeamID: 201}}, want: 0},
		{
			name: "summed",
			bets: []bet.SeasonBet{
				{Place: 1, TeamID: 45},
				{Place: 2, TeamID: 45},
				{Place: -1, TeamID: 201},
				{Place: -3, TeamID: 202},
			},
			want: 3 + 0 + 2 + 1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := rules.SeasonPoints(tc.bets, results); got != tc.want {
				t.Fatalf("unexpected season points: got=%d want=%d", got, tc.want)
			}
		})
	}
}
