package handlers

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/services"
)

// QuestionHandler processes question-related HTTP requests
type QuestionHandler struct {
	Service *services.QuestionService
	Drafts  *services.DraftService
}

// NewQuestionHandler creates handler with injected services
func NewQuestionHandler(service *services.QuestionService, drafts *services.DraftService) *QuestionHandler {
	return &QuestionHandler{Service: service, Drafts: drafts}
}

// Create handles POST /api/questions - student asks a question
func (h *QuestionHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var input models.CreateQuestionInput
	if err := DecodeJSONBody(r, &input); err != nil {
		SendError(w, err)
		return
	}

	question, err := h.Service.CreateQuestion(r.Context(), actor, input)
	if err != nil {
		SendError(w, err)
		return
	}

	SendCreated(w, "Question created", question)
}

// List handles GET /api/questions?course_id=&q=&status=&sort= - the browse
// view with search, status filter and sort
func (h *QuestionHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	courseID, err := uuid.Parse(query.Get("course_id"))
	if err != nil {
		SendError(w, &models.ValidationError{Field: "course_id", Message: "must be a valid UUID"})
		return
	}

	questions, err := h.Service.Browse(r.Context(), actor, courseID, services.BrowseOptions{
		Search: query.Get("q"),
		Status: query.Get("status"),
		Sort:   query.Get("sort"),
	})
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Questions retrieved", questions)
}

// Get handles GET /api/questions/{id} - one question with derived status
func (h *QuestionHandler) Get(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	questionID, err := pathID(r)
	if err != nil {
		SendError(w, err)
		return
	}

	question, err := h.Service.GetQuestion(r.Context(), actor, questionID)
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Question retrieved", question)
}

// CreateResponse handles POST /api/questions/{id}/responses - submits a
// response candidate (professor or the generation service)
func (h *QuestionHandler) CreateResponse(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	questionID, err := pathID(r)
	if err != nil {
		SendError(w, err)
		return
	}

	var input models.CreateResponseInput
	if err := DecodeJSONBody(r, &input); err != nil {
		SendError(w, err)
		return
	}

	response, err := h.Service.CreateResponse(r.Context(), actor, questionID, input)
	if err != nil {
		SendError(w, err)
		return
	}

	SendCreated(w, "Response submitted for review", response)
}

// Vote handles POST /api/questions/{id}/vote - upvotes a question
func (h *QuestionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	questionID, err := pathID(r)
	if err != nil {
		SendError(w, err)
		return
	}

	question, err := h.Service.Vote(r.Context(), actor, questionID)
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Vote recorded", question)
}

// Generate handles POST /api/questions/{id}/generate - starts an async AI
// draft and returns a task ID to poll
func (h *QuestionHandler) Generate(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	questionID, err := pathID(r)
	if err != nil {
		SendError(w, err)
		return
	}

	taskID, err := h.Drafts.StartDraft(r.Context(), actor, questionID)
	if err != nil {
		SendError(w, err)
		return
	}

	SendAccepted(w, "Generation started", map[string]string{"task_id": taskID})
}
