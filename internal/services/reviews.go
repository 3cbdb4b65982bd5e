package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rushilkag/academic-qa-backend/internal/auth"
	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/store"
)

// ReviewService is the approval workflow: it moves responses through the
// review state machine. pending -> approved | rejected, with edit-and-approve
// committing a content change and the approval in one step. approved and
// rejected are terminal; there is no reopen.
type ReviewService struct {
	Store store.Store
}

// NewReviewService creates service with its store dependency
func NewReviewService(s store.Store) *ReviewService {
	return &ReviewService{Store: s}
}

// ReviewResult is what a successful transition returns: the updated response
// plus the parent question's freshly derived status
type ReviewResult struct {
	Response       *models.Response      `json:"response"`
	QuestionStatus models.QuestionStatus `json:"question_status"`
}

// Approve publishes a pending response as-is
func (s *ReviewService) Approve(ctx context.Context, actor auth.Actor, responseID uuid.UUID) (*ReviewResult, error) {
	return s.transition(ctx, actor, responseID, models.ReviewApproved, "")
}

// Reject declines a pending response. It stays stored for audit but no
// longer counts toward the question's status.
func (s *ReviewService) Reject(ctx context.Context, actor auth.Actor, responseID uuid.UUID) (*ReviewResult, error) {
	return s.transition(ctx, actor, responseID, models.ReviewRejected, "")
}

// EditAndApprove replaces the response body and approves it atomically, so a
// concurrent reviewer can't approve or reject the pre-edit content. The
// original generated text stays in the audit trail.
func (s *ReviewService) EditAndApprove(ctx context.Context, actor auth.Actor, responseID uuid.UUID, newBody string) (*ReviewResult, error) {
	if strings.TrimSpace(newBody) == "" {
		return nil, &models.ValidationError{Field: "body", Message: "cannot be empty"}
	}
	return s.transition(ctx, actor, responseID, models.ReviewApproved, newBody)
}

func (s *ReviewService) transition(ctx context.Context, actor auth.Actor, responseID uuid.UUID, to models.ReviewStatus, newBody string) (*ReviewResult, error) {
	response, err := s.Store.GetResponse(ctx, responseID)
	if err != nil {
		return nil, err
	}
	question, err := s.Store.GetQuestion(ctx, response.QuestionID)
	if err != nil {
		return nil, err
	}
	course, err := s.Store.GetCourse(ctx, question.CourseID)
	if err != nil {
		return nil, err
	}
	if err := auth.Allow(actor, auth.ActionReview, course); err != nil {
		return nil, err
	}

	// the store's compare-and-swap on the stored status is the commit
	// point; the pre-read above is only for authorization
	updated, err := s.Store.ApplyTransition(ctx, store.Transition{
		ResponseID: responseID,
		To:         to,
		ReviewerID: actor.ID,
		ReviewedAt: time.Now(),
		NewBody:    newBody,
	})
	if err != nil {
		return nil, err
	}

	// re-derive the parent's status from the post-write response set so the
	// caller never sees a stale value
	responses, err := s.Store.ListResponsesByQuestion(ctx, question.ID)
	if err != nil {
		return nil, fmt.Errorf("reloading responses: %w", err)
	}

	log.Printf("Response %s %s by %s (question %s)", responseID, updated.ReviewStatus, actor.Name, question.ID)
	return &ReviewResult{
		Response:       updated,
		QuestionStatus: models.DeriveStatus(responses),
	}, nil
}

// Queue is the professor-facing review listing: responses in the course
// filtered by status tab ("pending", "approved", "all") ANDed with an
// optional substring match on the parent question's title. Order is stable
// insertion order.
func (s *ReviewService) Queue(ctx context.Context, actor auth.Actor, courseID uuid.UUID, tab, search string) ([]*models.QueueItem, error) {
	course, err := s.Store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := auth.Allow(actor, auth.ActionReview, course); err != nil {
		return nil, err
	}

	switch tab {
	case "", "all", "pending", "approved", "rejected":
	default:
		return nil, &models.ValidationError{Field: "tab", Message: fmt.Sprintf("unknown tab %q", tab)}
	}

	responses, err := s.Store.ListResponsesByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}

	search = strings.ToLower(strings.TrimSpace(search))
	questions := make(map[uuid.UUID]*models.Question)

	var items []*models.QueueItem
	for _, r := range responses {
		if tab != "" && tab != "all" && string(r.ReviewStatus) != tab {
			continue
		}

		question, ok := questions[r.QuestionID]
		if !ok {
			question, err = s.Store.GetQuestion(ctx, r.QuestionID)
			if err != nil {
				return nil, err
			}
			questions[r.QuestionID] = question
		}

		if search != "" && !strings.Contains(strings.ToLower(question.Title), search) {
			continue
		}

		items = append(items, &models.QueueItem{
			Response:          r,
			QuestionTitle:     question.Title,
			QuestionBody:      question.Body,
			QuestionAuthor:    question.AuthorName,
			QuestionTags:      question.Tags,
			QuestionCreatedAt: question.CreatedAt,
		})
	}

	return items, nil
}
