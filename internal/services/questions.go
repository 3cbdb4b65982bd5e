package services

import (
	"context"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rushilkag/academic-qa-backend/internal/auth"
	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/store"
)

// QuestionService handles asking, answering and browsing questions
type QuestionService struct {
	Store store.Store
}

// NewQuestionService creates service with its store dependency
func NewQuestionService(s store.Store) *QuestionService {
	return &QuestionService{Store: s}
}

// BrowseOptions are the filter/sort knobs on the question listing
type BrowseOptions struct {
	Search string // case-insensitive substring over title, body and tags
	Status string // "all" (or empty), "unanswered", "pending", "answered"
	Sort   string // "newest" (default), "oldest", "popular"
}

// CreateQuestion validates and stores a new question
func (s *QuestionService) CreateQuestion(ctx context.Context, actor auth.Actor, input models.CreateQuestionInput) (*models.Question, error) {
	course, err := s.Store.GetCourse(ctx, input.CourseID)
	if err != nil {
		return nil, err
	}
	if err := auth.Allow(actor, auth.ActionAskQuestion, course); err != nil {
		return nil, err
	}

	if strings.TrimSpace(input.Title) == "" {
		return nil, &models.ValidationError{Field: "title", Message: "cannot be empty"}
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, &models.ValidationError{Field: "body", Message: "cannot be empty"}
	}
	if input.Format == "" {
		input.Format = models.FormatText
	}
	if !models.ValidFormat(input.Format) {
		return nil, &models.ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q", input.Format)}
	}
	if course.State != models.CourseActive {
		return nil, &models.ValidationError{Field: "course_id", Message: fmt.Sprintf("course is %s, not accepting questions", course.State)}
	}

	question := &models.Question{
		ID:         uuid.New(),
		CourseID:   course.ID,
		AuthorID:   actor.ID,
		AuthorName: actor.Name,
		Title:      strings.TrimSpace(input.Title),
		Body:       input.Body,
		Format:     input.Format,
		Tags:       input.Tags,
		CreatedAt:  time.Now(),
	}

	if err := s.Store.CreateQuestion(ctx, question); err != nil {
		return nil, fmt.Errorf("creating question: %w", err)
	}

	log.Printf("Question %s asked in course %s by %s", question.ID, course.ID, actor.Name)
	return question, nil
}

// CreateResponse submits a response candidate against a question. Initial
// review status is always pending - nothing is published without review.
func (s *QuestionService) CreateResponse(ctx context.Context, actor auth.Actor, questionID uuid.UUID, input models.CreateResponseInput) (*models.Response, error) {
	question, err := s.Store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	course, err := s.Store.GetCourse(ctx, question.CourseID)
	if err != nil {
		return nil, err
	}
	if err := auth.Allow(actor, auth.ActionRespond, course); err != nil {
		return nil, err
	}

	if !models.ValidAuthorKind(input.AuthorKind) {
		return nil, &models.ValidationError{Field: "author_kind", Message: fmt.Sprintf("unknown author kind %q", input.AuthorKind)}
	}
	if strings.TrimSpace(input.Body) == "" {
		return nil, &models.ValidationError{Field: "body", Message: "cannot be empty"}
	}

	response := &models.Response{
		ID:           uuid.New(),
		QuestionID:   question.ID,
		AuthorKind:   input.AuthorKind,
		Body:         input.Body,
		ReviewStatus: models.ReviewPending,
		CreatedAt:    time.Now(),
	}
	if input.AuthorKind == models.AuthorAI {
		// keep the original text so an edited approval stays auditable
		response.GeneratedBody = input.Body
	}

	if err := s.Store.CreateResponse(ctx, response); err != nil {
		return nil, fmt.Errorf("creating response: %w", err)
	}

	log.Printf("Response %s (%s) submitted for question %s", response.ID, response.AuthorKind, question.ID)
	return response, nil
}

// Vote bumps a question's vote count by one
func (s *QuestionService) Vote(ctx context.Context, actor auth.Actor, questionID uuid.UUID) (*models.Question, error) {
	question, err := s.Store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	course, err := s.Store.GetCourse(ctx, question.CourseID)
	if err != nil {
		return nil, err
	}
	if err := auth.Allow(actor, auth.ActionVote, course); err != nil {
		return nil, err
	}

	if err := s.Store.AddVote(ctx, questionID); err != nil {
		return nil, fmt.Errorf("adding vote: %w", err)
	}
	return s.Store.GetQuestion(ctx, questionID)
}

// GetQuestion returns one question with its derived status and responses
func (s *QuestionService) GetQuestion(ctx context.Context, actor auth.Actor, questionID uuid.UUID) (*models.QuestionWithStatus, error) {
	question, err := s.Store.GetQuestion(ctx, questionID)
	if err != nil {
		return nil, err
	}
	course, err := s.Store.GetCourse(ctx, question.CourseID)
	if err != nil {
		return nil, err
	}
	if err := auth.Allow(actor, auth.ActionBrowse, course); err != nil {
		return nil, err
	}
	return s.withStatus(ctx, question)
}

// Browse is the student-facing question listing: search and status filters
// ANDed together, then sorted. Status is derived fresh from each question's
// response set on every call.
func (s *QuestionService) Browse(ctx context.Context, actor auth.Actor, courseID uuid.UUID, opts BrowseOptions) ([]*models.QuestionWithStatus, error) {
	course, err := s.Store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	if err := auth.Allow(actor, auth.ActionBrowse, course); err != nil {
		return nil, err
	}
	if !models.ValidStatusFilter(opts.Status) {
		return nil, &models.ValidationError{Field: "status", Message: fmt.Sprintf("unknown status %q", opts.Status)}
	}
	switch opts.Sort {
	case "", "newest", "oldest", "popular":
	default:
		return nil, &models.ValidationError{Field: "sort", Message: fmt.Sprintf("unknown sort %q", opts.Sort)}
	}

	questions, err := s.Store.ListQuestionsByCourse(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}

	var results []*models.QuestionWithStatus
	for _, q := range questions {
		if !matchesSearch(q, opts.Search) {
			continue
		}
		qs, err := s.withStatus(ctx, q)
		if err != nil {
			return nil, err
		}
		if opts.Status != "" && opts.Status != "all" && string(qs.Status) != opts.Status {
			continue
		}
		results = append(results, qs)
	}

	sortQuestions(results, opts.Sort)
	return results, nil
}

// withStatus derives the question's status from its live response set
func (s *QuestionService) withStatus(ctx context.Context, q *models.Question) (*models.QuestionWithStatus, error) {
	responses, err := s.Store.ListResponsesByQuestion(ctx, q.ID)
	if err != nil {
		return nil, fmt.Errorf("loading responses for %s: %w", q.ID, err)
	}
	return &models.QuestionWithStatus{
		Question:      q,
		Status:        models.DeriveStatus(responses),
		ResponseCount: len(responses),
		Responses:     responses,
	}, nil
}

// matchesSearch checks the case-insensitive substring filter over title,
// body and tags (any matching tag counts)
func matchesSearch(q *models.Question, search string) bool {
	search = strings.ToLower(strings.TrimSpace(search))
	if search == "" {
		return true
	}
	if strings.Contains(strings.ToLower(q.Title), search) ||
		strings.Contains(strings.ToLower(q.Body), search) {
		return true
	}
	for _, tag := range q.Tags {
		if strings.Contains(strings.ToLower(tag), search) {
			return true
		}
	}
	return false
}

// sortQuestions orders the result set. newest/oldest compare real
// timestamps; popular is votes descending with earlier questions first on
// ties.
func sortQuestions(questions []*models.QuestionWithStatus, order string) {
	switch order {
	case "oldest":
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].CreatedAt.Before(questions[j].CreatedAt)
		})
	case "popular":
		sort.SliceStable(questions, func(i, j int) bool {
			if questions[i].Votes != questions[j].Votes {
				return questions[i].Votes > questions[j].Votes
			}
			return questions[i].CreatedAt.Before(questions[j].CreatedAt)
		})
	default: // newest
		sort.SliceStable(questions, func(i, j int) bool {
			return questions[i].CreatedAt.After(questions[j].CreatedAt)
		})
	}
}
