package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/incrementum/incrementum-api/internal/api"
	apiMiddleware "github.com/incrementum/incrementum-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	itemHandler := api.NewItemHandler(app.reviewService, app.logger)
	reviewHandler := api.NewReviewHandler(app.reviewService, app.logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/queue", reviewHandler.GetQueue)
		r.Get("/streak", reviewHandler.GetStreak)

		r.Post("/items", itemHandler.CreateItem)
		r.Get("/items/{id}", itemHandler.GetItem)
		r.Delete("/items/{id}", itemHandler.DeleteItem)
		r.Get("/items/{id}/history", itemHandler.GetItemHistory)
		r.Get("/items/{id}/preview", itemHandler.PreviewItem)
		r.Post("/items/{id}/review", itemHandler.SubmitReview)
		r.Post("/items/{id}/postpone", itemHandler.PostponeItem)
		r.Post("/items/{id}/suspend", itemHandler.SuspendItem)
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
