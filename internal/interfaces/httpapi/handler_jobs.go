package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type internalJobRequest struct {
	Season int        `json:"season" validate:"omitempty,gte=1900"`
	At     *time.Time `json:"at"`
}

func (h *Handler) RunSyncJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSyncJob")
	defer span.End()

	if h.pipeline == nil {
		writeError(ctx, w, fmt.Errorf("%w: sync pipeline is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if req.Season != 0 && req.Season != h.pipeline.Season() {
		writeError(ctx, w, fmt.Errorf("%w: sync runs for season %d only", usecase.ErrInvalidInput, h.pipeline.Season()))
		return
	}

	result, err := h.pipeline.Run(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "run sync job failed", "season", h.pipeline.Season(), "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunImportSeasonJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunImportSeasonJob")
	defer span.End()

	if h.importer == nil {
		writeError(ctx, w, fmt.Errorf("%w: matchplan import is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	season := h.seasonOrDefault(req.Season)
	result, err := h.importer.ImportSeason(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "run import season job failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunRemindersJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunRemindersJob")
	defer span.End()

	if h.reminders == nil {
		writeError(ctx, w, fmt.Errorf("%w: reminders are not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	at := h.now()
	if req.At != nil {
		at = *req.At
	}
	result, err := h.reminders.SendReminders(ctx, at)
	if err != nil {
		h.logger.WarnContext(ctx, "run reminders job failed", "at", at, "sent", result.Sent, "failed", result.Failed, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) RunSeasonResultsJob(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunSeasonResultsJob")
	defer span.End()

	if h.seasonResults == nil {
		writeError(ctx, w, fmt.Errorf("%w: season result sync is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := h.decodeInternalJobRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	season := h.seasonOrDefault(req.Season)
	result, err := h.seasonResults.Sync(ctx, season)
	if err != nil {
		h.logger.WarnContext(ctx, "run season results job failed", "season", season, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, result)
}

func (h *Handler) seasonOrDefault(season int) int {
	if season > 0 {
		return season
	}
	return h.defaultSeason
}

// decodeInternalJobRequest accepts an empty body as the zero request.
func (h *Handler) decodeInternalJobRequest(r *http.Request) (internalJobRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req internalJobRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return internalJobRequest{}, nil
		}
		return internalJobRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}
	if err := h.validateRequest(r.Context(), req); err != nil {
		return internalJobRequest{}, err
	}

	return req, nil
}
