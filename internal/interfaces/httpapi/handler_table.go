package httpapi

import (
	"fmt"
	"net/http"

	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type tableRowDTO struct {
	Position      int    `json:"position"`
	UserID        string `json:"userId"`
	Points        int    `json:"points"`
	Matches       int    `json:"matches"`
	Results       int    `json:"results"`
	ExtraTop      int    `json:"extraTop"`
	ExtraOutsider int    `json:"extraOutsider"`
	ExtraSeason   int    `json:"extraSeason"`
}

type tableDTO struct {
	Season   int           `json:"season"`
	Matchday int           `json:"matchday,omitempty"`
	UpTo     int           `json:"upTo,omitempty"`
	Rows     []tableRowDTO `json:"rows"`
}

func (h *Handler) GetSeasonTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetSeasonTable")
	defer span.End()

	if h.table == nil {
		writeError(ctx, w, fmt.Errorf("%w: table service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	season, err := pathInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	upTo, err := queryInt(r, "upto", 0)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.table.SeasonTable(ctx, season, upTo)
	if err != nil {
		h.logger.WarnContext(ctx, "get season table failed", "season", season, "upto", upTo, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tableDTO{Season: season, UpTo: upTo, Rows: tableRowsToDTO(rows)})
}

func (h *Handler) GetMatchdayTable(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatchdayTable")
	defer span.End()

	if h.table == nil {
		writeError(ctx, w, fmt.Errorf("%w: table service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	season, err := pathInt(r, "season")
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	matchday, err := pathInt(r, "matchday")
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	rows, err := h.table.MatchdayTable(ctx, season, matchday)
	if err != nil {
		h.logger.WarnContext(ctx, "get matchday table failed", "season", season, "matchday", matchday, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, tableDTO{Season: season, Matchday: matchday, Rows: tableRowsToDTO(rows)})
}

func tableRowsToDTO(rows []usecase.RankedScore) []tableRowDTO {
	out := make([]tableRowDTO, 0, len(rows))
	for _, row := range rows {
		out = append(out, tableRowDTO{
			Position:      row.Position,
			UserID:        row.UserID,
			Points:        row.Points,
			Matches:       row.Matches,
			Results:       row.Results,
			ExtraTop:      row.ExtraTop,
			ExtraOutsider: row.ExtraOutsider,
			ExtraSeason:   row.ExtraSeason,
		})
	}
	return out
}
