package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/chefs", handler.ListChefs)
	mux.HandleFunc("GET /v1/chefs/{chefID}", handler.GetChef)
}

func registerAuthorizedRoutes(mux *http.ServeMux, handler *Handler, verifier TokenVerifier) {
	mux.Handle("POST /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.CreateLeague)))
	mux.Handle("GET /v1/leagues", RequireAuth(verifier, http.HandlerFunc(handler.ListMyLeagues)))
	mux.Handle("POST /v1/leagues/join", RequireAuth(verifier, http.HandlerFunc(handler.JoinLeague)))
	mux.Handle("GET /v1/leagues/{leagueID}", RequireAuth(verifier, http.HandlerFunc(handler.GetLeague)))
	mux.Handle("PATCH /v1/leagues/{leagueID}/settings", RequireAuth(verifier, http.HandlerFunc(handler.UpdateLeagueSettings)))
	mux.Handle("POST /v1/leagues/{leagueID}/transition", RequireAuth(verifier, http.HandlerFunc(handler.TransitionLeagueStatus)))
	mux.Handle("PUT /v1/leagues/{leagueID}/draft-order", RequireAuth(verifier, http.HandlerFunc(handler.UpdateDraftOrder)))
	mux.Handle("POST /v1/leagues/{leagueID}/draft", RequireAuth(verifier, http.HandlerFunc(handler.DraftChef)))
	mux.Handle("PUT /v1/leagues/{leagueID}/roster/{chefID}", RequireAuth(verifier, http.HandlerFunc(handler.SetRosterSlotActive)))
	mux.Handle("GET /v1/leagues/{leagueID}/leaderboard", RequireAuth(verifier, http.HandlerFunc(handler.GetLeaderboard)))
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	mux.Handle("POST /v1/internal/scoring/weeks", RequireInternalJobToken(internalJobToken, http.HandlerFunc(handler.RecordWeek)))
}
