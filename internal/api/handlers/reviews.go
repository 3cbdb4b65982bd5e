package handlers

import (
	"net/http"

	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/services"
)

// ReviewHandler processes the approve/reject/edit-approve transitions
type ReviewHandler struct {
	Service *services.ReviewService
}

// NewReviewHandler creates handler with injected service
func NewReviewHandler(service *services.ReviewService) *ReviewHandler {
	return &ReviewHandler{Service: service}
}

// Approve handles POST /api/responses/{id}/approve
func (h *ReviewHandler) Approve(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	responseID, err := pathID(r)
	if err != nil {
		SendError(w, err)
		return
	}

	result, err := h.Service.Approve(r.Context(), actor, responseID)
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Response approved", result)
}

// Reject handles POST /api/responses/{id}/reject
func (h *ReviewHandler) Reject(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	responseID, err := pathID(r)
	if err != nil {
		SendError(w, err)
		return
	}

	result, err := h.Service.Reject(r.Context(), actor, responseID)
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Response rejected", result)
}

// EditApprove handles POST /api/responses/{id}/edit-approve - replaces the
// body and approves in one step
func (h *ReviewHandler) EditApprove(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	responseID, err := pathID(r)
	if err != nil {
		SendError(w, err)
		return
	}

	var input models.EditApproveInput
	if err := DecodeJSONBody(r, &input); err != nil {
		SendError(w, err)
		return
	}

	result, err := h.Service.EditAndApprove(r.Context(), actor, responseID, input.Body)
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Response edited and approved", result)
}
