package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	apperrors "github.com/matzehuels/stackorder/pkg/errors"
)

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/order", s.handleOrder)
		r.Post("/check", s.handleCheck)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handlePutSettings)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Code:      apperrors.ErrCodeNotFound,
			Message:   "no route for " + r.Method + " " + r.URL.Path,
			RequestID: RequestIDFromContext(r.Context()),
		})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{
			Code:      apperrors.ErrCodeUnsupported,
			Message:   r.Method + " not allowed on " + r.URL.Path,
			RequestID: RequestIDFromContext(r.Context()),
		})
	})

	return r
}
