package handler

import (
	"net/http"

	"github.com/pkordes/truck-tracker/internal/auth"
)

type sessionResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// GetSession handles GET /session and reports who the token belongs to.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	u := auth.UserFromContext(r.Context())
	writeJSON(w, http.StatusOK, sessionResponse{ID: u.ID, Email: u.Email})
}

// Logout handles POST /session/logout. The presented token stops being
// accepted immediately.
func (s *Server) Logout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.SignOut(r.Context()); err != nil {
		serviceError(w, r, err, "session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
