package handler

import (
	"net/http"

	"github.com/pkordes/truck-tracker/internal/auth"
	"github.com/pkordes/truck-tracker/internal/service"
)

// GetDashboard handles GET /dashboard.
// ?recent= sets how many recent trips to include (default 5, max 50).
func (s *Server) GetDashboard(w http.ResponseWriter, r *http.Request) {
	recent, err := queryInt(r, "recent")
	if err != nil {
		requestError(w, err)
		return
	}
	n := service.DefaultRecentTrips
	if recent != nil {
		if *recent < 0 {
			writeError(w, http.StatusUnprocessableEntity, "validation_error", "recent must not be negative")
			return
		}
		n = min(*recent, service.MaxRecentTrips)
	}

	writeJSON(w, http.StatusOK, s.dashboard.Dashboard(r.Context(), auth.UserFromContext(r.Context()), n))
}
