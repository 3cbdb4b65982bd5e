// Package store defines the entity store boundary. The store is the single
// source of truth: services never keep their own mutable copies of entities.
package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rushilkag/academic-qa-backend/internal/models"
)

// Transition carries one review-state-machine commit. The store applies it
// atomically: the commit point is a compare-and-swap on the stored review
// status, so two concurrent transitions against the same response cannot
// both succeed.
type Transition struct {
	ResponseID uuid.UUID
	To         models.ReviewStatus // approved or rejected
	ReviewerID uuid.UUID
	ReviewedAt time.Time

	// NewBody, when non-empty, replaces the published body in the same
	// commit (the edit-and-approve path). The generated body is never
	// touched.
	NewBody string
}

// Store is the persistence boundary for courses, questions and responses.
// Every write enforces the referential invariants; reads never mutate.
type Store interface {
	CreateCourse(ctx context.Context, course *models.Course) error
	GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error)
	GetCourseByJoinCode(ctx context.Context, code string) (*models.Course, error)
	ListCourses(ctx context.Context) ([]*models.Course, error)
	AddStudent(ctx context.Context, courseID, studentID uuid.UUID) error

	CreateQuestion(ctx context.Context, question *models.Question) error
	GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error)
	ListQuestionsByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Question, error)
	AddVote(ctx context.Context, questionID uuid.UUID) error

	CreateResponse(ctx context.Context, response *models.Response) error
	GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error)
	ListResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]*models.Response, error)
	ListResponsesByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Response, error)

	// UpdateResponseContent rewrites the published body of a still-pending
	// response. It fails with ConflictError once the response is terminal.
	UpdateResponseContent(ctx context.Context, responseID uuid.UUID, body string) error

	// ApplyTransition commits a review transition. It fails with
	// NotFoundError if the response does not exist and ConflictError if the
	// response is no longer pending.
	ApplyTransition(ctx context.Context, t Transition) (*models.Response, error)

	// Stats returns entity counts for the admin surface
	Stats(ctx context.Context) (map[string]int, error)

	// Reset clears everything. Admin factory reset only.
	Reset(ctx context.Context) error
}
