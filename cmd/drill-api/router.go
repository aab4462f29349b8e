package main

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/phrazzld/drill-api/internal/api"
	apiMiddleware "github.com/phrazzld/drill-api/internal/api/middleware"
	"github.com/phrazzld/drill-api/internal/api/shared"
)

const healthTimeout = 2 * time.Second

// setupRouter registers the middleware chain and all routes.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	deckHandler := api.NewDeckHandler(app.service, app.logger)
	r.Route("/api", deckHandler.Routes)

	r.Get("/health", app.health)

	return r
}

// health reports 200 when the database answers a ping.
func (app *application) health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
	defer cancel()

	if err := app.db.PingContext(ctx); err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusServiceUnavailable, "Database unavailable", err)
		return
	}
	shared.RespondWithJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}
