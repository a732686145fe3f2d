package webhook

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
	"github.com/riskibarqy/prediction-league/internal/usecase"
	"github.com/valyala/bytebufferpool"
	"github.com/valyala/fasthttp"
)

const eventBetReminder = "bet_reminder"

var errWebhookTransient = crerr.New("webhook transient failure")

type NotifierConfig struct {
	URL            string
	Token          string
	Timeout        time.Duration
	CircuitBreaker resilience.CircuitBreakerConfig
}

// Notifier posts reminders as JSON to a single webhook endpoint.
type Notifier struct {
	client  *fasthttp.Client
	url     string
	token   string
	timeout time.Duration
	logger  *logging.Logger
	breaker *resilience.CircuitBreaker
	now     func() time.Time
}

var _ usecase.Notifier = (*Notifier)(nil)

type envelope struct {
	Event    string           `json:"event"`
	SentAt   time.Time        `json:"sentAt"`
	Reminder usecase.Reminder `json:"reminder"`
}

func NewNotifier(cfg NotifierConfig, logger *logging.Logger) (*Notifier, error) {
	target, err := validateHTTPURL(cfg.URL)
	if err != nil {
		return nil, crerr.Wrap(err, "invalid REMINDER_WEBHOOK_URL")
	}
	if logger == nil {
		logger = logging.Default()
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Notifier{
		client: &fasthttp.Client{
			Name:                "prediction-league-notifier",
			ReadTimeout:         timeout,
			WriteTimeout:        timeout,
			MaxIdleConnDuration: time.Minute,
		},
		url:     target,
		token:   strings.TrimSpace(cfg.Token),
		timeout: timeout,
		logger:  logger,
		breaker: resilience.NewCircuitBreaker("reminder-webhook", cfg.CircuitBreaker, func(name string, from, to resilience.CircuitState) {
			logger.Warn("circuit breaker state changed", "breaker", name, "from", from, "to", to)
		}),
		now: time.Now,
	}, nil
}

func (n *Notifier) Notify(ctx context.Context, reminder usecase.Reminder) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := n.breaker.Allow(); err != nil {
		n.logger.WarnContext(ctx, "webhook circuit breaker rejected request", "state", n.breaker.State())
		return fmt.Errorf("%w: reminder webhook is temporarily unavailable", usecase.ErrDependencyUnavailable)
	}

	err := n.post(ctx, reminder)
	n.breaker.Record(err, func(err error) bool { return stderrors.Is(err, errWebhookTransient) })
	if err != nil {
		return err
	}
	n.logger.DebugContext(ctx, "reminder delivered", "user_id", reminder.UserID, "matches", len(reminder.MatchIDs))
	return nil
}

func (n *Notifier) post(ctx context.Context, reminder usecase.Reminder) error {
	body := bytebufferpool.Get()
	defer bytebufferpool.Put(body)

	payload := envelope{Event: eventBetReminder, SentAt: n.now().UTC(), Reminder: reminder}
	if err := sonic.ConfigDefault.NewEncoder(body).Encode(payload); err != nil {
		return crerr.Wrap(err, "marshal reminder payload")
	}

	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(n.url)
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	if n.token != "" {
		req.Header.Set("Authorization", "Bearer "+n.token)
	}
	req.SetBody(body.B)

	deadline := time.Now().Add(n.timeout)
	if ctxDeadline, ok := ctx.Deadline(); ok && ctxDeadline.Before(deadline) {
		deadline = ctxDeadline
	}
	if err := n.client.DoDeadline(req, resp, deadline); err != nil {
		return fmt.Errorf("%w: post reminder user_id=%s: %v", errWebhookTransient, reminder.UserID, err)
	}

	status := resp.StatusCode()
	if status/100 == 2 {
		return nil
	}
	raw := strings.TrimSpace(string(resp.Body()))
	if len(raw) > 240 {
		raw = raw[:240] + "..."
	}
	if isRetryableStatus(status) {
		return fmt.Errorf("%w: post reminder status=%d body=%s", errWebhookTransient, status, raw)
	}
	return fmt.Errorf("post reminder status=%d body=%s", status, raw)
}

func validateHTTPURL(raw string) (string, error) {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return "", crerr.New("value is empty")
	}
	parsed, err := url.Parse(candidate)
	if err != nil {
		return "", crerr.Wrapf(err, "parse %q", candidate)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", crerr.Newf("%q uses unsupported scheme=%q; expected http or https", candidate, parsed.Scheme)
	}
	if strings.TrimSpace(parsed.Host) == "" {
		return "", crerr.Newf("%q has empty host", candidate)
	}
	return candidate, nil
}

func isRetryableStatus(statusCode int) bool {
	return statusCode == fasthttp.StatusRequestTimeout ||
		statusCode == fasthttp.StatusTooManyRequests ||
		statusCode >= fasthttp.StatusInternalServerError
}
