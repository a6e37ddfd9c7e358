// Package handler implements the HTTP API of the trip tracker.
// All handlers are methods on Server. Methods are split into resource files
// (trip.go, dashboard.go, session.go, ...) but share the same Server struct
// so they can access its dependencies.
package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/pkordes/truck-tracker/internal/domain"
	"github.com/pkordes/truck-tracker/openapi"
)

// TripServicer defines the Trip Store operations the handlers depend on.
type TripServicer interface {
	List(ctx context.Context, owner string) []domain.Trip
	Create(ctx context.Context, trip domain.Trip) (domain.Trip, error)
	GetByID(ctx context.Context, id string) (domain.Trip, error)
	Update(ctx context.Context, id string, patch domain.TripPatch) error
	Delete(ctx context.Context, id string) error
}

// DashboardServicer builds the dashboard view.
type DashboardServicer interface {
	Dashboard(ctx context.Context, user domain.User, recent int) domain.Dashboard
}

// SessionManager signs the caller out.
type SessionManager interface {
	SignOut(ctx context.Context) error
}

// Server holds the dependencies of every handler.
type Server struct {
	trips        TripServicer
	dashboard    DashboardServicer
	sessions     SessionManager
	authenticate func(http.Handler) http.Handler
}

// NewServer constructs the Server. authenticate guards every route except
// the health check and the API description; it must put the caller into the
// request context (see auth.Middleware).
func NewServer(trips TripServicer, dashboard DashboardServicer, sessions SessionManager, authenticate func(http.Handler) http.Handler) *Server {
	return &Server{trips: trips, dashboard: dashboard, sessions: sessions, authenticate: authenticate}
}

// Routes returns the API router. main.go mounts it behind the request-level
// middleware (request ID, logging, CORS, body limit, panic recovery).
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/healthz", s.GetHealth)
	r.Get("/openapi.yaml", serveOpenAPI)

	r.Group(func(r chi.Router) {
		r.Use(s.authenticate)

		r.Route("/trips", func(r chi.Router) {
			r.Get("/", s.ListTrips)
			r.Post("/", s.CreateTrip)
			r.Get("/export", s.ExportTrips)
			r.Get("/{id}", s.GetTrip)
			r.Patch("/{id}", s.UpdateTrip)
			r.Delete("/{id}", s.DeleteTrip)
		})
		r.Get("/dashboard", s.GetDashboard)
		r.Get("/session", s.GetSession)
		r.Post("/session/logout", s.Logout)
	})

	return r
}

func serveOpenAPI(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	_, _ = w.Write(openapi.Spec)
}
