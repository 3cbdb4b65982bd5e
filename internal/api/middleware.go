package api

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"

	"github.com/rushilkag/academic-qa-backend/internal/auth"
)

// EnableCORS adds CORS headers so frontend can talk to the API
func (s *Server) EnableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// allow all origins for now - should probably restrict this later
		w.Header().Set("Access-Control-Allow-Origin", "*")

		// allow the HTTP methods we use
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")

		// need these for JSON requests with bearer tokens
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		// handle preflight requests from browser
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		// pass request along to actual handler
		next.ServeHTTP(w, r)
	})
}

// withAuth parses the Authorization header into an Actor and attaches it to
// the request context. Who issued the token is not our problem; we only
// verify and decode it.
func (s *Server) withAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		if !found || token == "" {
			unauthorized(w, "missing bearer token")
			return
		}

		actor, err := auth.ParseToken(s.JWTSecret, token)
		if err != nil {
			log.Printf("Rejected token: %v", err)
			unauthorized(w, "invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.WithActor(r.Context(), actor)))
	}
}

func unauthorized(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]any{"message": message, "success": false})
}
