package handlers

import (
	"net/http"

	"github.com/rushilkag/academic-qa-backend/internal/auth"
	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/services"
)

// AdminHandler processes administrative requests
type AdminHandler struct {
	Service *services.AdminService
}

// NewAdminHandler creates handler with injected service
func NewAdminHandler(service *services.AdminService) *AdminHandler {
	return &AdminHandler{Service: service}
}

// FactoryReset handles POST /api/admin/factory-reset - wipes all data.
// Professors only; there is no separate admin role.
func (h *AdminHandler) FactoryReset(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}
	if actor.Role != auth.RoleProfessor {
		SendError(w, &models.AuthorizationError{Message: "only professors can reset the system"})
		return
	}

	if err := h.Service.FactoryReset(r.Context()); err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Factory reset completed", nil)
}

// GetStats handles GET /api/admin/stats - entity counts
func (h *AdminHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireActor(w, r); !ok {
		return
	}

	stats, err := h.Service.GetStats(r.Context())
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Stats retrieved", stats)
}
