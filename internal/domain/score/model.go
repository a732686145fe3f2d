package score

import "time"

// Score is one user's point record. Records are summable field by field.
type Score struct {
	UserID        string `json:"userId"`
	Points        int    `json:"points"`
	Matches       int    `json:"matches"`
	Results       int    `json:"results"`
	ExtraTop      int    `json:"extraTop"`
	ExtraOutsider int    `json:"extraOutsider"`
	ExtraSeason   int    `json:"extraSeason"`
}

func (s Score) Add(other Score) Score {
	s.Points += other.Points
	s.Matches += other.Matches
	s.Results += other.Results
	s.ExtraTop += other.ExtraTop
	s.ExtraOutsider += other.ExtraOutsider
	s.ExtraSeason += other.ExtraSeason
	return s
}

// MatchdaySnapshot holds the scores earned on one matchday.
type MatchdaySnapshot struct {
	ID           string
	Season       int
	Matchday     int
	Scores       []Score
	CalculatedAt time.Time
}
