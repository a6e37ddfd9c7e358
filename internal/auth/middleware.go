package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"
)

// Middleware rejects requests without a valid bearer token with 401 and
// otherwise injects the token claims into the request context.
func Middleware(v *Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, err := bearerToken(r)
			if err != nil {
				unauthorized(w, err.Error())
				return
			}
			claims, err := v.Verify(raw)
			if err != nil {
				slog.DebugContext(r.Context(), "token rejected", "error", err)
				unauthorized(w, "invalid or expired token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithClaims(r.Context(), claims)))
		})
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="truck-tracker"`)
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error": map[string]string{"code": "unauthorized", "message": message},
	})
}
