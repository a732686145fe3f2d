package usecase

import (
	"bytes"
	"context"
	"fmt"
	"text/template"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/domain/bet"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/user"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/seq"
)

// Notifier delivers reminder messages to users.
type Notifier interface {
	Notify(ctx context.Context, reminder Reminder) error
}

type Reminder struct {
	UserID   string  `json:"userId"`
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Subject  string  `json:"subject"`
	Body     string  `json:"body"`
	MatchIDs []int64 `json:"matchIds"`
}

// ReminderTemplate holds text/template sources for the reminder message.
// Templates see Name, Matchday and Matches (MatchID, TeamIDHome, TeamIDAway,
// Kickoff).
type ReminderTemplate struct {
	Subject       string
	Body          string
	KickoffFormat string
}

func DefaultReminderTemplate() ReminderTemplate {
	return ReminderTemplate{
		Subject:       "{{len .Matches}} open prediction(s) for matchday {{.Matchday}}",
		Body:          "Hi {{.Name}},\n\nthese matches kick off soon and still have no prediction:\n{{range .Matches}}- {{.TeamIDHome}} vs {{.TeamIDAway}} at {{.Kickoff}}\n{{end}}",
		KickoffFormat: "Mon 02.01. 15:04",
	}
}

type ReminderConfig struct {
	Season   int
	Window   time.Duration
	Location *time.Location
	Template ReminderTemplate
}

// MissingBets lists the upcoming matches a user has not predicted.
type MissingBets struct {
	User    user.User
	Matches []match.Match
}

type ReminderResult struct {
	Users  int `json:"users"`
	Sent   int `json:"sent"`
	Failed int `json:"failed"`
}

type ReminderService struct {
	matchRepo match.Repository
	betRepo   bet.Repository
	userRepo  user.Repository
	notifier  Notifier
	cfg       ReminderConfig
	subject   *template.Template
	body      *template.Template
	logger    *logging.Logger
}

func NewReminderService(
	matchRepo match.Repository,
	betRepo bet.Repository,
	userRepo user.Repository,
	notifier Notifier,
	cfg ReminderConfig,
	logger *logging.Logger,
) (*ReminderService, error) {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	defaults := DefaultReminderTemplate()
	if cfg.Template.Subject == "" {
		cfg.Template.Subject = defaults.Subject
	}
	if cfg.Template.Body == "" {
		cfg.Template.Body = defaults.Body
	}
	if cfg.Template.KickoffFormat == "" {
		cfg.Template.KickoffFormat = defaults.KickoffFormat
	}

	subject, err := template.New("subject").Parse(cfg.Template.Subject)
	if err != nil {
		return nil, fmt.Errorf("parse reminder subject template: %w", err)
	}
	body, err := template.New("body").Parse(cfg.Template.Body)
	if err != nil {
		return nil, fmt.Errorf("parse reminder body template: %w", err)
	}

	return &ReminderService{
		matchRepo: matchRepo,
		betRepo:   betRepo,
		userRepo:  userRepo,
		notifier:  notifier,
		cfg:       cfg,
		subject:   subject,
		body:      body,
		logger:    logger,
	}, nil
}

// UsersMissingBets returns one entry per user lacking a set bet on a match
// kicking off in (now, now+window].
func (s *ReminderService) UsersMissingBets(ctx context.Context, season int, now time.Time, window time.Duration) ([]MissingBets, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReminderService.UsersMissingBets")
	defer span.End()

	matches, err := s.matchRepo.ListBySeason(ctx, season)
	if err != nil {
		return nil, fmt.Errorf("list matches for season %d: %w", season, err)
	}
	until := now.Add(window)
	upcoming := make([]match.Match, 0)
	matchIDs := make([]int64, 0)
	for _, m := range matches {
		if !m.KickoffAt.After(now) || m.KickoffAt.After(until) {
			continue
		}
		upcoming = append(upcoming, m)
		matchIDs = append(matchIDs, m.MatchID)
	}
	if len(upcoming) == 0 {
		return nil, nil
	}

	bets, err := s.betRepo.ListByMatchIDs(ctx, matchIDs)
	if err != nil {
		return nil, fmt.Errorf("list bets for upcoming matches: %w", err)
	}
	placed := make(map[string]map[int64]struct{})
	for _, b := range bets {
		if !b.IsSet() {
			continue
		}
		if placed[b.UserID] == nil {
			placed[b.UserID] = make(map[int64]struct{})
		}
		placed[b.UserID][b.MatchID] = struct{}{}
	}

	users, err := s.userRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	out := make([]MissingBets, 0)
	for _, u := range seq.UniqueBy(users, func(u user.User) string { return u.ID }) {
		var missing []match.Match
		for _, m := range upcoming {
			if _, ok := placed[u.ID][m.MatchID]; !ok {
				missing = append(missing, m)
			}
		}
		if len(missing) > 0 {
			out = append(out, MissingBets{User: u, Matches: missing})
		}
	}
	return out, nil
}

// SendReminders notifies every user with missing bets. Delivery failures are
// counted and returned together after all users were tried.
func (s *ReminderService) SendReminders(ctx context.Context, now time.Time) (ReminderResult, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReminderService.SendReminders")
	defer span.End()

	var result ReminderResult
	if s.notifier == nil {
		return result, fmt.Errorf("%w: notifier is not configured", ErrDependencyUnavailable)
	}

	missing, err := s.UsersMissingBets(ctx, s.cfg.Season, now, s.cfg.Window)
	if err != nil {
		return result, err
	}
	result.Users = len(missing)

	var sendErr error
	for _, item := range missing {
		reminder, err := s.Render(item)
		if err != nil {
			return result, err
		}
		if err := s.notifier.Notify(ctx, reminder); err != nil {
			result.Failed++
			sendErr = crerr.CombineErrors(sendErr, fmt.Errorf("notify user %s: %w", item.User.ID, err))
			s.logger.WarnContext(ctx, "send reminder failed", "user_id", item.User.ID, "error", err)
			continue
		}
		result.Sent++
	}

	return result, sendErr
}

type reminderView struct {
	Name     string
	Matchday int
	Matches  []reminderMatchView
}

type reminderMatchView struct {
	MatchID    int64
	TeamIDHome int64
	TeamIDAway int64
	Kickoff    string
}

// Render fills the configured templates for one user.
func (s *ReminderService) Render(item MissingBets) (Reminder, error) {
	view := reminderView{Name: item.User.Name}
	ids := make([]int64, 0, len(item.Matches))
	for i, m := range item.Matches {
		if i == 0 {
			view.Matchday = m.Matchday
		}
		view.Matches = append(view.Matches, reminderMatchView{
			MatchID:    m.MatchID,
			TeamIDHome: m.TeamIDHome,
			TeamIDAway: m.TeamIDAway,
			Kickoff:    m.KickoffAt.In(s.cfg.Location).Format(s.cfg.Template.KickoffFormat),
		})
		ids = append(ids, m.MatchID)
	}

	var subject, body bytes.Buffer
	if err := s.subject.Execute(&subject, view); err != nil {
		return Reminder{}, fmt.Errorf("render reminder subject: %w", err)
	}
	if err := s.body.Execute(&body, view); err != nil {
		return Reminder{}, fmt.Errorf("render reminder body: %w", err)
	}

	return Reminder{
		UserID:   item.User.ID,
		Name:     item.User.Name,
		Email:    item.User.Email,
		Subject:  subject.String(),
		Body:     body.String(),
		MatchIDs: ids,
	}, nil
}
