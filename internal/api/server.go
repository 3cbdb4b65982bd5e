package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/rushilkag/academic-qa-backend/internal/api/handlers"
	"github.com/rushilkag/academic-qa-backend/internal/services"
	"github.com/rushilkag/academic-qa-backend/internal/store"
	"github.com/rushilkag/academic-qa-backend/pkg/task"
)

// Server holds all the app components together
type Server struct {
	Router *http.ServeMux // handles routing requests

	JWTSecret []byte // verifies bearer tokens

	// handlers for different parts of the API
	CourseHandler   *handlers.CourseHandler
	QuestionHandler *handlers.QuestionHandler
	ReviewHandler   *handlers.ReviewHandler
	TaskHandler     *handlers.TaskHandler
	AdminHandler    *handlers.AdminHandler
}

// Config is what NewServer needs beyond the store
type Config struct {
	JWTSecret []byte
	Generator services.Generator
	// GenerationTimeout caps how long one AI draft may take
	GenerationTimeout time.Duration
}

// NewServer wires up all the dependencies and returns a ready-to-use server
func NewServer(st store.Store, cfg Config) *Server {
	tasks := task.NewManager()
	// clean finished generation jobs in the background
	go tasks.CleanupRoutine(1*time.Hour, 24*time.Hour)

	if cfg.GenerationTimeout == 0 {
		cfg.GenerationTimeout = 2 * time.Minute
	}

	// create service layer instances
	courseSvc := services.NewCourseService(st)
	questionSvc := services.NewQuestionService(st)
	reviewSvc := services.NewReviewService(st)
	draftSvc := services.NewDraftService(st, tasks, cfg.Generator, cfg.GenerationTimeout)
	adminSvc := services.NewAdminService(st, tasks)

	// wire everything together
	server := &Server{
		Router:          http.NewServeMux(),
		JWTSecret:       cfg.JWTSecret,
		CourseHandler:   handlers.NewCourseHandler(courseSvc, reviewSvc),
		QuestionHandler: handlers.NewQuestionHandler(questionSvc, draftSvc),
		ReviewHandler:   handlers.NewReviewHandler(reviewSvc),
		TaskHandler:     handlers.NewTaskHandler(tasks, draftSvc),
		AdminHandler:    handlers.NewAdminHandler(adminSvc),
	}

	server.setupRoutes()
	return server
}

// setupRoutes maps all the endpoints to handler functions
func (s *Server) setupRoutes() {
	s.Router.HandleFunc("/api", s.HelloHandler)

	// courses and enrollment
	s.Router.HandleFunc("GET /api/courses", s.withAuth(s.CourseHandler.List))
	s.Router.HandleFunc("POST /api/courses", s.withAuth(s.CourseHandler.Create))
	s.Router.HandleFunc("POST /api/courses/join", s.withAuth(s.CourseHandler.Join))

	// the professor review queue
	s.Router.HandleFunc("GET /api/courses/{id}/review-queue", s.withAuth(s.CourseHandler.ReviewQueue))

	// questions and responses
	s.Router.HandleFunc("GET /api/questions", s.withAuth(s.QuestionHandler.List))
	s.Router.HandleFunc("POST /api/questions", s.withAuth(s.QuestionHandler.Create))
	s.Router.HandleFunc("GET /api/questions/{id}", s.withAuth(s.QuestionHandler.Get))
	s.Router.HandleFunc("POST /api/questions/{id}/responses", s.withAuth(s.QuestionHandler.CreateResponse))
	s.Router.HandleFunc("POST /api/questions/{id}/vote", s.withAuth(s.QuestionHandler.Vote))
	s.Router.HandleFunc("POST /api/questions/{id}/generate", s.withAuth(s.QuestionHandler.Generate))

	// review transitions
	s.Router.HandleFunc("POST /api/responses/{id}/approve", s.withAuth(s.ReviewHandler.Approve))
	s.Router.HandleFunc("POST /api/responses/{id}/reject", s.withAuth(s.ReviewHandler.Reject))
	s.Router.HandleFunc("POST /api/responses/{id}/edit-approve", s.withAuth(s.ReviewHandler.EditApprove))

	// generation task tracking
	s.Router.HandleFunc("GET /api/tasks", s.withAuth(s.TaskHandler.Get))
	s.Router.HandleFunc("POST /api/tasks/cancel", s.withAuth(s.TaskHandler.Cancel))

	// admin endpoints
	s.Router.HandleFunc("POST /api/admin/factory-reset", s.withAuth(s.AdminHandler.FactoryReset))
	s.Router.HandleFunc("GET /api/admin/stats", s.withAuth(s.AdminHandler.GetStats))
}

// ServeHTTP implements the http.Handler interface
// This allows the server to be used directly with http.ListenAndServe
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Delegate to the router
	s.Router.ServeHTTP(w, r)
}

// HelloHandler is a simple handler for the base API endpoint
func (s *Server) HelloHandler(w http.ResponseWriter, r *http.Request) {
	type responseData struct {
		Message string `json:"message"`
	}

	response := responseData{Message: "Academic Q&A backend is up"}
	jsonResponse, _ := json.Marshal(response)
	w.Header().Set("Content-Type", "application/json")
	w.Write(jsonResponse)
}
