package httpapi

import "net/http"

func registerSystemRoutes(mux *http.ServeMux, handler *Handler, swaggerEnabled bool) {
	mux.HandleFunc("GET /healthz", handler.Healthz)
	if !swaggerEnabled {
		return
	}

	mux.HandleFunc("GET /openapi.yaml", handler.OpenAPI)
	mux.HandleFunc("GET /docs", handler.SwaggerUI)
	mux.HandleFunc("GET /docs/", handler.SwaggerUI)
}

func registerPublicRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("GET /v1/standings", handler.ListStandings)
	mux.HandleFunc("GET /v1/weeks/current", handler.GetCurrentWeek)
	mux.HandleFunc("GET /v1/weeks/{week}/games", handler.ListWeekGames)
	mux.HandleFunc("GET /v1/weeks/{week}/lines/{teamID}", handler.GetLine)
	mux.HandleFunc("GET /v1/players/{playerID}/weeks/{week}/pick", handler.GetCurrentPick)
}

// registerTokenRoutes holds endpoints authorized by an emailed token, carried
// in the request body or, for email links, the query string.
func registerTokenRoutes(mux *http.ServeMux, handler *Handler) {
	mux.HandleFunc("POST /v1/picks", handler.SubmitPick)
	mux.HandleFunc("GET /v1/picks", handler.SubmitPickLink)
	mux.HandleFunc("GET /v1/registration", handler.RespondRegistration)
}

func registerInternalRoutes(mux *http.ServeMux, handler *Handler, internalJobToken string) {
	internal := func(pattern string, fn http.HandlerFunc) {
		mux.Handle(pattern, RequireInternalJobToken(internalJobToken, fn))
	}

	internal("POST /v1/internal/jobs/score-week", handler.RunScoreWeekJob)
	internal("POST /v1/internal/jobs/recompute-standings", handler.RunRecomputeStandingsJob)
	internal("POST /v1/internal/jobs/weekly", handler.RunWeeklyJob)
	internal("POST /v1/internal/jobs/lines-email", handler.RunLinesEmailJob)
	internal("POST /v1/internal/jobs/kickoff-picks-email", handler.RunKickoffPicksEmailJob)
	internal("POST /v1/internal/jobs/registration-email", handler.RunRegistrationEmailJob)
	internal("POST /v1/internal/jobs/commissioner-email", handler.RunCommissionerEmailJob)
	internal("POST /v1/internal/jobs/analytics-email", handler.RunAnalyticsEmailJob)

	internal("GET /v1/internal/jobs/dispatches", handler.ListJobDispatches)

	internal("GET /v1/internal/players", handler.ListPlayers)
	internal("POST /v1/internal/players", handler.AddPlayer)
	internal("PUT /v1/internal/players/{playerID}/registration", handler.SetPlayerRegistration)
	internal("PUT /v1/internal/players/{playerID}/payment", handler.SetPlayerPayment)
}
