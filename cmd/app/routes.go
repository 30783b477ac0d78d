package main

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"fxdesk/internal/api"
	"fxdesk/internal/api/middleware"
)

func (app *App) initHTTP() {
	r := chi.NewRouter()
	r.Use(middleware.RequestIDMiddleware)
	r.Use(middleware.RequestLoggingMiddleware(app.logger))
	r.Use(chimiddleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/rates/{base}", api.HandleGetRates(app.rates))
		r.Get("/currencies", api.HandleListCurrencies(app.convert))
		r.Get("/convert", api.HandleConvert(app.convert))
		r.Get("/news", api.HandleNews(app.market))
		r.Get("/chart", api.HandleChart(app.market))
		r.Post("/cache/refresh", api.HandleRefresh(app.enqueuer))
	})
	r.Get("/data/currency_meta.json", api.HandleCurrencyMeta(app.cfg.Static.MetaPath))
	r.Get("/healthz", api.HandleHealthz())
	r.Get("/readyz", api.HandleReadyz(app.readinessChecks()...))

	if app.cfg.Server.ServeSwagger {
		r.Get("/swagger/*", api.SwaggerUIHandler())
		r.Get("/openapi.json", api.OpenAPISpecHandler())
	}
	if app.monitor != nil {
		r.Handle(app.monitor.RootPath()+"/*", app.monitor)
	}

	app.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", app.cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// readinessChecks covers only the backends this instance connected to.
func (app *App) readinessChecks() []api.ReadinessCheck {
	var checks []api.ReadinessCheck
	if app.db != nil {
		checks = append(checks, api.DBCheck("store-db", app.db))
	}
	if app.rdbCache != nil {
		checks = append(checks, api.RedisCheck("cache", app.rdbCache))
	}
	if app.rdbAsynq != nil {
		checks = append(checks, api.RedisCheck("asynq", app.rdbAsynq))
	}
	return checks
}
