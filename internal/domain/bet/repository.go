package bet

import "context"

type Repository interface {
	ListByMatchIDs(ctx context.Context, matchIDs []int64) ([]Bet, error)
	ListUnfixedByMatchIDs(ctx context.Context, matchIDs []int64) ([]Bet, error)
	Upsert(ctx context.Context, item Bet) (Bet, error)
}

type SeasonBetRepository interface {
	ListBySeason(ctx context.Context, season int) ([]SeasonBet, error)
	ListUnfixedBySeason(ctx context.Context, season int) ([]SeasonBet, error)
	Upsert(ctx context.Context, item SeasonBet) (SeasonBet, error)
}

type SeasonResultRepository interface {
	ListBySeason(ctx context.Context, season int) ([]SeasonResult, error)
	Upsert(ctx context.Context, item SeasonResult) (SeasonResult, error)
}
