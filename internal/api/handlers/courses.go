package handlers

import (
	"net/http"

	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/services"
)

// CourseHandler processes course-related HTTP requests
type CourseHandler struct {
	Service *services.CourseService
	Reviews *services.ReviewService
}

// NewCourseHandler creates handler with injected services
func NewCourseHandler(service *services.CourseService, reviews *services.ReviewService) *CourseHandler {
	return &CourseHandler{Service: service, Reviews: reviews}
}

// Create handles POST /api/courses - professor creates a course and gets a
// join code back
func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var input models.CreateCourseInput
	if err := DecodeJSONBody(r, &input); err != nil {
		SendError(w, err)
		return
	}

	course, err := h.Service.CreateCourse(r.Context(), actor, input)
	if err != nil {
		SendError(w, err)
		return
	}

	SendCreated(w, "Course created", course)
}

// Join handles POST /api/courses/join - student enrolls by join code
func (h *CourseHandler) Join(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	var input models.JoinCourseInput
	if err := DecodeJSONBody(r, &input); err != nil {
		SendError(w, err)
		return
	}

	course, err := h.Service.JoinCourse(r.Context(), actor, input)
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Joined course", course)
}

// List handles GET /api/courses - courses visible to the actor
func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	courses, err := h.Service.ListCourses(r.Context(), actor)
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Courses retrieved", courses)
}

// ReviewQueue handles GET /api/courses/{id}/review-queue?tab=&q= - the
// professor's moderation view
func (h *CourseHandler) ReviewQueue(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireActor(w, r)
	if !ok {
		return
	}

	courseID, err := pathID(r)
	if err != nil {
		SendError(w, err)
		return
	}

	tab := r.URL.Query().Get("tab")
	search := r.URL.Query().Get("q")

	items, err := h.Reviews.Queue(r.Context(), actor, courseID, tab, search)
	if err != nil {
		SendError(w, err)
		return
	}

	SendSuccess(w, "Review queue retrieved", items)
}
