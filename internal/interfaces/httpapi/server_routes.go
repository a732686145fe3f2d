package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/seasons/{season}/table", handler.GetSeasonTable)
	mux.HandleFunc("GET /v1/seasons/{season}/matchdays/{matchday}/table", handler.GetMatchdayTable)
}

func registerInternalJobRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
	mux.Handle("POST /v1/internal/jobs/import-season", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunImportSeasonJob)))
	mux.Handle("POST /v1/internal/jobs/reminders", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRemindersJob)))
	mux.Handle("POST /v1/internal/jobs/season-results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSeasonResultsJob)))
}
