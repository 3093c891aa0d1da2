package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("GET /v1/competitions/{competition}/current", RequireAuth(verifier, http.HandlerFunc(handler.GetCurrentCompetition)))
	mux.Handle("GET /v1/competitions/{competition}/teams", RequireAuth(verifier, http.HandlerFunc(handler.ListCompetitionTeams)))
	mux.Handle("GET /v1/gameweeks/{gameweekID}", RequireAuth(verifier, http.HandlerFunc(handler.GetGameweek)))
	mux.Handle("POST /v1/leagues/{leagueID}/gameweeks/{gameweekID}/predictions", RequireAuth(verifier, http.HandlerFunc(handler.SubmitPredictions)))
	mux.Handle("GET /v1/leagues/{leagueID}/gameweeks/{gameweekID}/predictions/me", RequireAuth(verifier, http.HandlerFunc(handler.ListMyPredictions)))
	mux.Handle("GET /v1/leagues/{leagueID}/gameweeks/{gameweekID}/predictions/{userID}", RequireAuth(verifier, http.HandlerFunc(handler.ListMemberPredictions)))
	mux.Handle("GET /v1/leagues/{leagueID}/standings", RequireAuth(verifier, http.HandlerFunc(handler.ListLeagueStandings)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/jobs/sync", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunSyncJob)))
	mux.Handle("POST /v1/internal/jobs/results", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunResultsJob)))
	mux.Handle("POST /v1/internal/jobs/rescore", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RunRescoreJob)))
	mux.Handle("POST /v1/internal/matches/{matchID}/score", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.ScoreMatchManually)))
}
