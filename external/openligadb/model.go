package openligadb

type matchPayload struct {
	MatchID            int64           `json:"matchID"`
	MatchDateTime      string          `json:"matchDateTime"`
	MatchDateTimeUTC   string          `json:"matchDateTimeUTC"`
	LeagueShortcut     string          `json:"leagueShortcut"`
	LeagueSeason       int             `json:"leagueSeason"`
	Group              groupPayload    `json:"group"`
	Team1              teamPayload     `json:"team1"`
	Team2              teamPayload     `json:"team2"`
	LastUpdateDateTime string          `json:"lastUpdateDateTime"`
	MatchIsFinished    bool            `json:"matchIsFinished"`
	MatchResults       []resultPayload `json:"matchResults"`
	Goals              []goalPayload   `json:"goals"`
}

type groupPayload struct {
	GroupName    string `json:"groupName"`
	GroupOrderID int    `json:"groupOrderID"`
	GroupID      int64  `json:"groupID"`
}

type teamPayload struct {
	TeamID    int64  `json:"teamId"`
	TeamName  string `json:"teamName"`
	ShortName string `json:"shortName"`
}

type resultPayload struct {
	ResultID          int64  `json:"resultID"`
	ResultName        string `json:"resultName"`
	PointsTeam1       int    `json:"pointsTeam1"`
	PointsTeam2       int    `json:"pointsTeam2"`
	ResultOrderID     int    `json:"resultOrderID"`
	ResultTypeID      int    `json:"resultTypeID"`
	ResultDescription string `json:"resultDescription"`
}

type goalPayload struct {
	GoalID      int64  `json:"goalID"`
	ScoreTeam1  int    `json:"scoreTeam1"`
	ScoreTeam2  int    `json:"scoreTeam2"`
	MatchMinute *int   `json:"matchMinute"`
	GoalGetter  string `json:"goalGetterName"`
}

type tableTeamPayload struct {
	TeamInfoID    int64  `json:"teamInfoId"`
	TeamName      string `json:"teamName"`
	ShortName     string `json:"shortName"`
	Points        int    `json:"points"`
	Matches       int    `json:"matches"`
	Won           int    `json:"won"`
	Lost          int    `json:"lost"`
	Draw          int    `json:"draw"`
	Goals         int    `json:"goals"`
	OpponentGoals int    `json:"opponentGoals"`
	GoalDiff      int    `json:"goalDiff"`
}
