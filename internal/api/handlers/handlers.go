package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rushilkag/academic-qa-backend/internal/auth"
	"github.com/rushilkag/academic-qa-backend/internal/models"
)

// requireActor pulls the actor the auth middleware attached. Routes are all
// behind that middleware, so a miss means a wiring bug - still answer 401
// rather than panic.
func requireActor(w http.ResponseWriter, r *http.Request) (auth.Actor, bool) {
	actor, ok := auth.ActorFrom(r.Context())
	if !ok {
		writeJSON(w, http.StatusUnauthorized, ErrorResponse{Message: "authentication required", Success: false})
	}
	return actor, ok
}

// pathID parses the {id} path segment as a UUID
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := r.PathValue("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, &models.ValidationError{Field: "id", Message: "must be a valid UUID"}
	}
	return id, nil
}
