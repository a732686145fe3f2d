package usecase

import (
	"cmp"
	"slices"

	"github.com/riskibarqy/prediction-league/internal/domain/score"
)

// RankedScore is a score with its competition-ranking position.
type RankedScore struct {
	Position int `json:"position"`
	score.Score
}

// AddScoreArrays sums score records per user across all arrays. The output
// is ordered by user ID, which keeps the operation associative and
// commutative.
func AddScoreArrays(arrays ...[]score.Score) []score.Score {
	byUser := make(map[string]score.Score)
	for _, arr := range arrays {
		for _, s := range arr {
			current, ok := byUser[s.UserID]
			if !ok {
				current = score.Score{UserID: s.UserID}
			}
			byUser[s.UserID] = current.Add(s)
		}
	}

	out := make([]score.Score, 0, len(byUser))
	for _, s := range byUser {
		out = append(out, s)
	}
	slices.SortFunc(out, func(a, b score.Score) int {
		return cmp.Compare(a.UserID, b.UserID)
	})
	return out
}

// CompareScores orders by points, then matches, then exact results, all
// descending. A negative result means a ranks before b.
func CompareScores(a, b score.Score) int {
	if c := cmp.Compare(b.Points, a.Points); c != 0 {
		return c
	}
	if c := cmp.Compare(b.Matches, a.Matches); c != 0 {
		return c
	}
	return cmp.Compare(b.Results, a.Results)
}

// MakePositions sorts scores with compare and assigns competition ranking:
// equal entries share a position and the next group resumes at its index
// plus one (1, 1, 3).
func MakePositions(scores []score.Score, compare func(a, b score.Score) int) []RankedScore {
	if compare == nil {
		compare = CompareScores
	}

	sorted := slices.Clone(scores)
	slices.SortStableFunc(sorted, compare)

	out := make([]RankedScore, 0, len(sorted))
	for i, s := range sorted {
		position := i + 1
		if i > 0 && compare(sorted[i-1], s) == 0 {
			position = out[i-1].Position
		}
		out = append(out, RankedScore{Position: position, Score: s})
	}
	return out
}
