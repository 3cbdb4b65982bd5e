package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/rushilkag/academic-qa-backend/internal/auth"
	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/store"
	"github.com/rushilkag/academic-qa-backend/pkg/task"
)

// Generator produces an answer draft for a question. How it does that is its
// own business - the workflow only cares that it returns text or an error.
type Generator interface {
	Generate(ctx context.Context, question *models.Question) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface
type GeneratorFunc func(ctx context.Context, question *models.Question) (string, error)

// Generate calls the wrapped function
func (f GeneratorFunc) Generate(ctx context.Context, question *models.Question) (string, error) {
	return f(ctx, question)
}

// DraftService runs AI generation in the background and feeds successful
// drafts into the review queue as pending responses. A cancelled or failed
// generation creates nothing.
type DraftService struct {
	Store     store.Store
	Tasks     *task.Manager
	Generator Generator
	Timeout   time.Duration // per-generation deadline
}

// NewDraftService creates service with its dependencies
func NewDraftService(s store.Store, tasks *task.Manager, gen Generator, timeout time.Duration) *DraftService {
	return &DraftService{
		Store:     s,
		Tasks:     tasks,
		Generator: gen,
		Timeout:   timeout,
	}
}

// StartDraft kicks off generation for a question and returns a task ID to
// poll. Any course member can request a draft.
func (s *DraftService) StartDraft(ctx context.Context, actor auth.Actor, questionID uuid.UUID) (string, error) {
	question, err := s.Store.GetQuestion(ctx, questionID)
	if err != nil {
		return "", err
	}
	course, err := s.Store.GetCourse(ctx, question.CourseID)
	if err != nil {
		return "", err
	}
	if err := auth.Allow(actor, auth.ActionBrowse, course); err != nil {
		return "", err
	}

	taskID := s.Tasks.Create(question.ID)

	// detach from the request context - the job outlives the HTTP call
	genCtx, cancel := context.WithTimeout(context.Background(), s.Timeout)
	s.Tasks.Start(taskID, cancel)

	go s.runDraft(genCtx, cancel, taskID, question)

	log.Printf("Generation task %s started for question %s", taskID, question.ID)
	return taskID, nil
}

// CancelDraft aborts a running generation job
func (s *DraftService) CancelDraft(taskID string) error {
	if !s.Tasks.Cancel(taskID) {
		return &models.NotFoundError{Resource: "task", ID: taskID}
	}
	return nil
}

func (s *DraftService) runDraft(ctx context.Context, cancel context.CancelFunc, taskID string, question *models.Question) {
	defer cancel()

	body, err := s.Generator.Generate(ctx, question)
	if err != nil {
		// no partial entity: a failed or cancelled generation leaves no
		// response behind
		log.Printf("Generation task %s failed: %v", taskID, err)
		s.Tasks.Fail(taskID, err.Error())
		return
	}
	if body == "" {
		s.Tasks.Fail(taskID, "generator produced no candidate")
		return
	}

	response := &models.Response{
		ID:            uuid.New(),
		QuestionID:    question.ID,
		AuthorKind:    models.AuthorAI,
		Body:          body,
		GeneratedBody: body,
		ReviewStatus:  models.ReviewPending,
		CreatedAt:     time.Now(),
	}

	// storing is quick; don't let an expired generation deadline fail it
	if err := s.Store.CreateResponse(context.Background(), response); err != nil {
		log.Printf("Generation task %s could not store its response: %v", taskID, err)
		s.Tasks.Fail(taskID, fmt.Sprintf("storing response: %v", err))
		return
	}

	log.Printf("Generation task %s produced response %s", taskID, response.ID)
	s.Tasks.Complete(taskID, response.ID)
}
