package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

// Services bundles the use cases exposed over HTTP. Nil job services
// answer with 503.
type Services struct {
	Table         *usecase.TableService
	Pipeline      *usecase.SyncPipelineService
	Importer      *usecase.MatchplanImportService
	Reminders     *usecase.ReminderService
	SeasonResults *usecase.SeasonResultService
}

type Handler struct {
	table         *usecase.TableService
	pipeline      *usecase.SyncPipelineService
	importer      *usecase.MatchplanImportService
	reminders     *usecase.ReminderService
	seasonResults *usecase.SeasonResultService
	defaultSeason int
	logger        *logging.Logger
	validator     *validator.Validate
	now           func() time.Time
}

func NewHandler(services Services, defaultSeason int, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		table:         services.Table,
		pipeline:      services.Pipeline,
		importer:      services.Importer,
		reminders:     services.Reminders,
		seasonResults: services.SeasonResults,
		defaultSeason: defaultSeason,
		logger:        logger,
		validator:     validator.New(),
		now:           time.Now,
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]any{"status": "ok", "season": h.defaultSeason})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

func pathInt(r *http.Request, name string) (int, error) {
	raw := strings.TrimSpace(r.PathValue(name))
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be a number, got %q", usecase.ErrInvalidInput, name, raw)
	}
	return value, nil
}
