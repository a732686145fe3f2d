package httpapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/prediction-league/internal/domain/match"
	"github.com/riskibarqy/prediction-league/internal/domain/score"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

const testJobToken = "job-secret"

type recordingNotifier struct {
	mu   sync.Mutex
	sent []usecase.Reminder
}

func (n *recordingNotifier) Notify(_ context.Context, reminder usecase.Reminder) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.sent = append(n.sent, reminder)
	return nil
}

type routerFixture struct {
	router    http.Handler
	snapshots *memory.ScoreSnapshotRepository
	notifier  *recordingNotifier
}

func newRouterFixture(t *testing.T, services func(f *routerFixture) Services) *routerFixture {
	t.Helper()

	f := &routerFixture{
		snapshots: memory.NewScoreSnapshotRepository(id.NewSequence("snap")),
		notifier:  &recordingNotifier{},
	}
	handler := NewHandler(services(f), 2022, logging.NewNop())
	f.router = NewRouter(handler, logging.NewNop(), []string{"*"}, testJobToken)
	return f
}

func tableServices(f *routerFixture) Services {
	users := memory.NewUserRepository(memory.SeedUsers())
	seasonBets := memory.NewSeasonBetRepository(id.NewSequence("sb"), nil)
	seasonResults := memory.NewSeasonResultRepository(id.NewSequence("sr"))
	return Services{
		Table: usecase.NewTableService(f.snapshots, users, seasonBets, seasonResults, usecase.DefaultScoringRules(), nil),
	}
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()

	var body map[string]any
	if err := sonic.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response body: %v body=%s", err, rec.Body.String())
	}
	return body
}

func TestRouter_Healthz(t *testing.T) {
	f := newRouterFixture(t, func(*routerFixture) Services { return Services{} })

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
}

func TestRouter_SeasonTableRanksAllUsers(t *testing.T) {
	f := newRouterFixture(t, tableServices)

	_, err := f.snapshots.Upsert(context.Background(), score.MatchdaySnapshot{
		Season:   2022,
		Matchday: 1,
		Scores: []score.Score{
			{UserID: "user-ben", Points: 4, Matches: 2, Results: 1},
			{UserID: "user-anna", Points: 2, Matches: 1, Results: 1},
		},
	})
	if err != nil {
		t.Fatalf("seed snapshot: %v", err)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/seasons/2022/table", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data, ok := decodeEnvelope(t, rec)["data"].(map[string]any)
	if !ok {
		t.Fatalf("expected data object")
	}
	rows, ok := data["rows"].([]any)
	if !ok || len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %v", data["rows"])
	}

	first := rows[0].(map[string]any)
	if first["userId"] != "user-ben" || first["position"].(float64) != 1 {
		t.Fatalf("unexpected leader: %v", first)
	}
	last := rows[2].(map[string]any)
	if last["userId"] != "user-carla" || last["points"].(float64) != 0 {
		t.Fatalf("expected zero row for user without snapshot, got %v", last)
	}
}

func TestRouter_MatchdayTableWithoutSnapshot(t *testing.T) {
	f := newRouterFixture(t, tableServices)

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/seasons/2022/matchdays/5/table", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rec.Code)
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	rows := data["rows"].([]any)
	for _, raw := range rows {
		row := raw.(map[string]any)
		if row["position"].(float64) != 1 {
			t.Fatalf("expected all users tied at position 1, got %v", row)
		}
	}
}

func TestRouter_TableRejectsInvalidPath(t *testing.T) {
	f := newRouterFixture(t, tableServices)

	tests := []string{
		"/v1/seasons/abc/table",
		"/v1/seasons/2022/table?upto=x",
		"/v1/seasons/2022/matchdays/0/table",
	}
	for _, path := range tests {
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400 for %s, got %d", path, rec.Code)
		}
	}
}

func TestRouter_InternalJobsRequireToken(t *testing.T) {
	f := newRouterFixture(t, func(*routerFixture) Services { return Services{} })

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", nil)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}

	req = httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/sync", nil)
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec = httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 for unconfigured pipeline, got %d", rec.Code)
	}
}

func TestRouter_InternalJobRejectsUnknownFields(t *testing.T) {
	f := newRouterFixture(t, func(f *routerFixture) Services {
		svc, err := usecase.NewReminderService(nil, nil, nil, f.notifier, usecase.ReminderConfig{Season: 2022}, logging.NewNop())
		if err != nil {
			t.Fatalf("new reminder service: %v", err)
		}
		return Services{Reminders: svc}
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/reminders", strings.NewReader(`{"league":"bl1"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestRouter_RemindersJobNotifiesUsersWithoutBets(t *testing.T) {
	at := time.Date(2022, 9, 23, 10, 0, 0, 0, time.UTC)

	f := newRouterFixture(t, func(f *routerFixture) Services {
		matches := memory.NewMatchRepository(id.NewSequence("m"), []match.Match{
			{Season: 2022, Matchday: 8, MatchID: 64116, KickoffAt: at.Add(3 * time.Hour), TeamIDHome: 40, TeamIDAway: 7, GoalsHome: match.UnknownGoals, GoalsAway: match.UnknownGoals},
		})
		bets := memory.NewBetRepository(id.NewSequence("b"), nil)
		users := memory.NewUserRepository(memory.SeedUsers())

		svc, err := usecase.NewReminderService(matches, bets, users, f.notifier, usecase.ReminderConfig{
			Season: 2022,
			Window: 24 * time.Hour,
		}, logging.NewNop())
		if err != nil {
			t.Fatalf("new reminder service: %v", err)
		}
		return Services{Reminders: svc}
	})

	req := httptest.NewRequest(http.MethodPost, "/v1/internal/jobs/reminders", strings.NewReader(`{"at":"2022-09-23T10:00:00Z"}`))
	req.Header.Set("X-Internal-Job-Token", testJobToken)
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	data := decodeEnvelope(t, rec)["data"].(map[string]any)
	if data["sent"].(float64) != 3 {
		t.Fatalf("expected 3 reminders sent, got %v", data)
	}
	if len(f.notifier.sent) != 3 {
		t.Fatalf("expected notifier to receive 3 reminders, got %d", len(f.notifier.sent))
	}
}
