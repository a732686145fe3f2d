package bet

// UnsetGoals marks a prediction the user has not entered.
const UnsetGoals = -1

// UnsetTeam marks a season prediction without a team.
const UnsetTeam int64 = -1

// Bet is a user's score prediction for one match.
type Bet struct {
	ID        string
	MatchID   int64
	UserID    string
	GoalsHome int
	GoalsAway int
	IsFixed   bool
}

func (b Bet) Goals() (int, int) {
	return b.GoalsHome, b.GoalsAway
}

func (b Bet) IsSet() bool {
	return b.GoalsHome >= 0 && b.GoalsAway >= 0
}

// Unset returns the sentinel used when a user has no bet on a match.
func Unset(matchID int64, userID string) Bet {
	return Bet{
		MatchID:   matchID,
		UserID:    userID,
		GoalsHome: UnsetGoals,
		GoalsAway: UnsetGoals,
	}
}

// SeasonBet predicts the final league place of a team. Positive places count
// from the top of the table, negative places from the bottom (-1 is last).
type SeasonBet struct {
	ID      string
	Season  int
	UserID  string
	Place   int
	TeamID  int64
	IsFixed bool
}

func (b SeasonBet) IsSet() bool {
	return b.TeamID != UnsetTeam
}

// SeasonResult is the team that actually finished at Place.
type SeasonResult struct {
	ID     string
	Season int
	Place  int
	TeamID int64
}

func IsRelegationPlace(place int) bool {
	return place < 0
}
