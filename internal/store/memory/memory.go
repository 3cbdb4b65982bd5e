// Package memory is the in-process store implementation. It backs tests and
// single-node deployments that don't configure a database.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/store"
)

// Store keeps everything in maps behind one RWMutex. Listing order is
// insertion order, which the ID slices preserve (map iteration would not).
type Store struct {
	mu sync.RWMutex

	courses   map[uuid.UUID]*models.Course
	questions map[uuid.UUID]*models.Question
	responses map[uuid.UUID]*models.Response

	questionsByCourse map[uuid.UUID][]uuid.UUID
	responsesByQ      map[uuid.UUID][]uuid.UUID
}

// New creates an empty in-memory store
func New() *Store {
	return &Store{
		courses:           make(map[uuid.UUID]*models.Course),
		questions:         make(map[uuid.UUID]*models.Question),
		responses:         make(map[uuid.UUID]*models.Response),
		questionsByCourse: make(map[uuid.UUID][]uuid.UUID),
		responsesByQ:      make(map[uuid.UUID][]uuid.UUID),
	}
}

var _ store.Store = (*Store)(nil)

// CreateCourse stores a new course. The join code must be unique among live
// courses.
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, c := range s.courses {
		if c.JoinCode == course.JoinCode {
			return &models.ConflictError{Message: fmt.Sprintf("join code %s already in use", course.JoinCode)}
		}
	}

	s.courses[course.ID] = cloneCourse(course)
	return nil
}

// GetCourse retrieves a course by ID
func (s *Store) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	course, ok := s.courses[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "course", ID: id.String()}
	}
	return cloneCourse(course), nil
}

// GetCourseByJoinCode looks a course up by its join code (case-insensitive,
// codes are issued uppercase)
func (s *Store) GetCourseByJoinCode(ctx context.Context, code string) (*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	code = strings.ToUpper(strings.TrimSpace(code))
	for _, c := range s.courses {
		if c.JoinCode == code {
			return cloneCourse(c), nil
		}
	}
	return nil, &models.NotFoundError{Resource: "course", ID: code}
}

// ListCourses returns every course in creation order
func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]*models.Course, 0, len(s.courses))
	for _, c := range s.courses {
		courses = append(courses, cloneCourse(c))
	}
	// map order is random; put them back in creation order
	sortCoursesByCreation(courses)
	return courses, nil
}

// AddStudent enrolls a student. Enrolling twice is a no-op.
func (s *Store) AddStudent(ctx context.Context, courseID, studentID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	course, ok := s.courses[courseID]
	if !ok {
		return &models.NotFoundError{Resource: "course", ID: courseID.String()}
	}
	for _, id := range course.StudentIDs {
		if id == studentID {
			return nil
		}
	}
	course.StudentIDs = append(course.StudentIDs, studentID)
	return nil
}

// CreateQuestion stores a new question. The course must exist.
func (s *Store) CreateQuestion(ctx context.Context, question *models.Question) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.courses[question.CourseID]; !ok {
		return &models.NotFoundError{Resource: "course", ID: question.CourseID.String()}
	}

	s.questions[question.ID] = cloneQuestion(question)
	s.questionsByCourse[question.CourseID] = append(s.questionsByCourse[question.CourseID], question.ID)
	return nil
}

// GetQuestion retrieves a question by ID
func (s *Store) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	question, ok := s.questions[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "question", ID: id.String()}
	}
	return cloneQuestion(question), nil
}

// ListQuestionsByCourse returns a course's questions in insertion order
func (s *Store) ListQuestionsByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Question, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.courses[courseID]; !ok {
		return nil, &models.NotFoundError{Resource: "course", ID: courseID.String()}
	}

	ids := s.questionsByCourse[courseID]
	questions := make([]*models.Question, 0, len(ids))
	for _, id := range ids {
		questions = append(questions, cloneQuestion(s.questions[id]))
	}
	return questions, nil
}

// AddVote bumps a question's vote count by one
func (s *Store) AddVote(ctx context.Context, questionID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	question, ok := s.questions[questionID]
	if !ok {
		return &models.NotFoundError{Resource: "question", ID: questionID.String()}
	}
	question.Votes++
	return nil
}

// CreateResponse stores a new response candidate. The question must exist.
func (s *Store) CreateResponse(ctx context.Context, response *models.Response) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.questions[response.QuestionID]; !ok {
		return &models.NotFoundError{Resource: "question", ID: response.QuestionID.String()}
	}

	s.responses[response.ID] = cloneResponse(response)
	s.responsesByQ[response.QuestionID] = append(s.responsesByQ[response.QuestionID], response.ID)
	return nil
}

// GetResponse retrieves a response by ID
func (s *Store) GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	response, ok := s.responses[id]
	if !ok {
		return nil, &models.NotFoundError{Resource: "response", ID: id.String()}
	}
	return cloneResponse(response), nil
}

// ListResponsesByQuestion returns a question's responses in insertion order
func (s *Store) ListResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]*models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.questions[questionID]; !ok {
		return nil, &models.NotFoundError{Resource: "question", ID: questionID.String()}
	}

	ids := s.responsesByQ[questionID]
	responses := make([]*models.Response, 0, len(ids))
	for _, id := range ids {
		responses = append(responses, cloneResponse(s.responses[id]))
	}
	return responses, nil
}

// ListResponsesByCourse returns every response in the course, question by
// question in insertion order. This feeds the review queue.
func (s *Store) ListResponsesByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Response, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.courses[courseID]; !ok {
		return nil, &models.NotFoundError{Resource: "course", ID: courseID.String()}
	}

	var responses []*models.Response
	for _, qID := range s.questionsByCourse[courseID] {
		for _, rID := range s.responsesByQ[qID] {
			responses = append(responses, cloneResponse(s.responses[rID]))
		}
	}
	return responses, nil
}

// UpdateResponseContent rewrites the published body while still pending
func (s *Store) UpdateResponseContent(ctx context.Context, responseID uuid.UUID, body string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	response, ok := s.responses[responseID]
	if !ok {
		return &models.NotFoundError{Resource: "response", ID: responseID.String()}
	}
	if response.ReviewStatus.Terminal() {
		return &models.ConflictError{Message: fmt.Sprintf("response is already %s", response.ReviewStatus)}
	}

	response.Body = body
	response.Edited = response.GeneratedBody != "" && response.Body != response.GeneratedBody
	return nil
}

// ApplyTransition commits a review transition. The pending check and the
// write happen under the same lock, so of two concurrent transitions exactly
// one sees pending and wins.
func (s *Store) ApplyTransition(ctx context.Context, t store.Transition) (*models.Response, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	response, ok := s.responses[t.ResponseID]
	if !ok {
		return nil, &models.NotFoundError{Resource: "response", ID: t.ResponseID.String()}
	}
	if response.ReviewStatus != models.ReviewPending {
		return nil, &models.ConflictError{Message: fmt.Sprintf("response is already %s", response.ReviewStatus)}
	}

	if t.NewBody != "" {
		response.Body = t.NewBody
		response.Edited = response.Body != response.GeneratedBody
	}
	response.ReviewStatus = t.To
	response.ReviewerID = t.ReviewerID
	response.ReviewedAt = t.ReviewedAt

	return cloneResponse(response), nil
}

// Stats returns entity counts for the admin endpoint
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	pending := 0
	for _, r := range s.responses {
		if r.ReviewStatus == models.ReviewPending {
			pending++
		}
	}
	return map[string]int{
		"courses":           len(s.courses),
		"questions":         len(s.questions),
		"responses":         len(s.responses),
		"pending_responses": pending,
	}, nil
}

// Reset drops everything
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.courses = make(map[uuid.UUID]*models.Course)
	s.questions = make(map[uuid.UUID]*models.Question)
	s.responses = make(map[uuid.UUID]*models.Response)
	s.questionsByCourse = make(map[uuid.UUID][]uuid.UUID)
	s.responsesByQ = make(map[uuid.UUID][]uuid.UUID)
	return nil
}

// clone helpers - callers get copies, never the stored structs, so nothing
// outside the lock can race a later write

func cloneCourse(c *models.Course) *models.Course {
	out := *c
	out.StudentIDs = append([]uuid.UUID(nil), c.StudentIDs...)
	return &out
}

func cloneQuestion(q *models.Question) *models.Question {
	out := *q
	out.Tags = append([]string(nil), q.Tags...)
	return &out
}

func cloneResponse(r *models.Response) *models.Response {
	out := *r
	return &out
}

func sortCoursesByCreation(courses []*models.Course) {
	sort.Slice(courses, func(i, j int) bool {
		return courses[i].CreatedAt.Before(courses[j].CreatedAt)
	})
}
