// Package postgres is the durable store implementation over database/sql
// with the lib/pq driver.
package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/store"
)

// Store wraps a sql.DB. All review transitions commit through a conditional
// UPDATE (status must still be pending), which makes the row update the
// linearization point - no app-level locking needed.
type Store struct {
	db *sql.DB
}

// New creates a store over an open connection
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

var _ store.Store = (*Store)(nil)

const schema = `
CREATE TABLE IF NOT EXISTS courses (
	id UUID PRIMARY KEY,
	title TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	professor_id UUID NOT NULL,
	join_code TEXT NOT NULL UNIQUE,
	state TEXT NOT NULL,
	student_ids UUID[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	id UUID PRIMARY KEY,
	course_id UUID NOT NULL REFERENCES courses(id),
	author_id UUID NOT NULL,
	author_name TEXT NOT NULL,
	title TEXT NOT NULL,
	body TEXT NOT NULL,
	format TEXT NOT NULL,
	tags TEXT[] NOT NULL DEFAULT '{}',
	votes INT NOT NULL DEFAULT 0 CHECK (votes >= 0),
	created_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS responses (
	id UUID PRIMARY KEY,
	question_id UUID NOT NULL REFERENCES questions(id),
	author_kind TEXT NOT NULL,
	body TEXT NOT NULL,
	generated_body TEXT NOT NULL DEFAULT '',
	review_status TEXT NOT NULL,
	edited BOOLEAN NOT NULL DEFAULT FALSE,
	reviewer_id UUID,
	reviewed_at TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_questions_course ON questions(course_id);
CREATE INDEX IF NOT EXISTS idx_responses_question ON responses(question_id);
`

// Migrate creates the tables if they don't exist yet
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("running schema migration: %w", err)
	}
	return nil
}

// CreateCourse inserts a new course. The unique index on join_code backs the
// code-uniqueness invariant.
func (s *Store) CreateCourse(ctx context.Context, course *models.Course) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO courses (id, title, description, professor_id, join_code, state, student_ids, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		course.ID, course.Title, course.Description, course.ProfessorID,
		course.JoinCode, course.State, pq.Array(uuidStrings(course.StudentIDs)), course.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
			return &models.ConflictError{Message: fmt.Sprintf("join code %s already in use", course.JoinCode)}
		}
		return fmt.Errorf("inserting course: %w", err)
	}
	return nil
}

// GetCourse retrieves a course by ID
func (s *Store) GetCourse(ctx context.Context, id uuid.UUID) (*models.Course, error) {
	return s.scanCourse(s.db.QueryRowContext(ctx,
		`SELECT id, title, description, professor_id, join_code, state, student_ids, created_at
		 FROM courses WHERE id = $1`, id), id.String())
}

// GetCourseByJoinCode looks a course up by its join code
func (s *Store) GetCourseByJoinCode(ctx context.Context, code string) (*models.Course, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	return s.scanCourse(s.db.QueryRowContext(ctx,
		`SELECT id, title, description, professor_id, join_code, state, student_ids, created_at
		 FROM courses WHERE join_code = $1`, code), code)
}

// ListCourses returns every course, oldest first
func (s *Store) ListCourses(ctx context.Context) ([]*models.Course, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, title, description, professor_id, join_code, state, student_ids, created_at
		 FROM courses ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer rows.Close()

	var courses []*models.Course
	for rows.Next() {
		course, err := scanCourseRow(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

// AddStudent enrolls a student; enrolling twice is a no-op
func (s *Store) AddStudent(ctx context.Context, courseID, studentID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE courses
		 SET student_ids = array_append(student_ids, $2)
		 WHERE id = $1 AND NOT ($2 = ANY(student_ids))`,
		courseID, studentID)
	if err != nil {
		return fmt.Errorf("enrolling student: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		// either missing course or already enrolled - tell them apart
		if _, err := s.GetCourse(ctx, courseID); err != nil {
			return err
		}
	}
	return nil
}

// CreateQuestion inserts a new question
func (s *Store) CreateQuestion(ctx context.Context, question *models.Question) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO questions (id, course_id, author_id, author_name, title, body, format, tags, votes, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		question.ID, question.CourseID, question.AuthorID, question.AuthorName,
		question.Title, question.Body, question.Format, pq.Array(question.Tags),
		question.Votes, question.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return &models.NotFoundError{Resource: "course", ID: question.CourseID.String()}
		}
		return fmt.Errorf("inserting question: %w", err)
	}
	return nil
}

// GetQuestion retrieves a question by ID
func (s *Store) GetQuestion(ctx context.Context, id uuid.UUID) (*models.Question, error) {
	question, err := scanQuestionRow(s.db.QueryRowContext(ctx,
		`SELECT id, course_id, author_id, author_name, title, body, format, tags, votes, created_at
		 FROM questions WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "question", ID: id.String()}
	}
	return question, err
}

// ListQuestionsByCourse returns a course's questions, oldest first
func (s *Store) ListQuestionsByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Question, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, course_id, author_id, author_name, title, body, format, tags, votes, created_at
		 FROM questions WHERE course_id = $1 ORDER BY created_at`, courseID)
	if err != nil {
		return nil, fmt.Errorf("listing questions: %w", err)
	}
	defer rows.Close()

	var questions []*models.Question
	for rows.Next() {
		question, err := scanQuestionRow(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

// AddVote bumps a question's vote count
func (s *Store) AddVote(ctx context.Context, questionID uuid.UUID) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE questions SET votes = votes + 1 WHERE id = $1`, questionID)
	if err != nil {
		return fmt.Errorf("adding vote: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return &models.NotFoundError{Resource: "question", ID: questionID.String()}
	}
	return nil
}

// CreateResponse inserts a new response candidate
func (s *Store) CreateResponse(ctx context.Context, response *models.Response) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO responses (id, question_id, author_kind, body, generated_body, review_status, edited, reviewer_id, reviewed_at, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, NULL, NULL, $8)`,
		response.ID, response.QuestionID, response.AuthorKind, response.Body,
		response.GeneratedBody, response.ReviewStatus, response.Edited, response.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code.Name() == "foreign_key_violation" {
			return &models.NotFoundError{Resource: "question", ID: response.QuestionID.String()}
		}
		return fmt.Errorf("inserting response: %w", err)
	}
	return nil
}

// GetResponse retrieves a response by ID
func (s *Store) GetResponse(ctx context.Context, id uuid.UUID) (*models.Response, error) {
	response, err := scanResponseRow(s.db.QueryRowContext(ctx,
		`SELECT id, question_id, author_kind, body, generated_body, review_status, edited, reviewer_id, reviewed_at, created_at
		 FROM responses WHERE id = $1`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "response", ID: id.String()}
	}
	return response, err
}

// ListResponsesByQuestion returns a question's responses, oldest first
func (s *Store) ListResponsesByQuestion(ctx context.Context, questionID uuid.UUID) ([]*models.Response, error) {
	if _, err := s.GetQuestion(ctx, questionID); err != nil {
		return nil, err
	}
	return s.listResponses(ctx,
		`SELECT id, question_id, author_kind, body, generated_body, review_status, edited, reviewer_id, reviewed_at, created_at
		 FROM responses WHERE question_id = $1 ORDER BY created_at`, questionID)
}

// ListResponsesByCourse returns every response in the course for the review
// queue, grouped by question in question-creation order
func (s *Store) ListResponsesByCourse(ctx context.Context, courseID uuid.UUID) ([]*models.Response, error) {
	if _, err := s.GetCourse(ctx, courseID); err != nil {
		return nil, err
	}
	return s.listResponses(ctx,
		`SELECT r.id, r.question_id, r.author_kind, r.body, r.generated_body, r.review_status, r.edited, r.reviewer_id, r.reviewed_at, r.created_at
		 FROM responses r
		 JOIN questions q ON q.id = r.question_id
		 WHERE q.course_id = $1
		 ORDER BY q.created_at, r.created_at`, courseID)
}

func (s *Store) listResponses(ctx context.Context, query string, arg any) ([]*models.Response, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("listing responses: %w", err)
	}
	defer rows.Close()

	var responses []*models.Response
	for rows.Next() {
		response, err := scanResponseRow(rows)
		if err != nil {
			return nil, err
		}
		responses = append(responses, response)
	}
	return responses, rows.Err()
}

// UpdateResponseContent rewrites the published body while still pending
func (s *Store) UpdateResponseContent(ctx context.Context, responseID uuid.UUID, body string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE responses
		 SET body = $2, edited = (generated_body <> '' AND generated_body <> $2)
		 WHERE id = $1 AND review_status NOT IN ('approved', 'rejected')`,
		responseID, body)
	if err != nil {
		return fmt.Errorf("updating response content: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		response, err := s.GetResponse(ctx, responseID)
		if err != nil {
			return err
		}
		return &models.ConflictError{Message: fmt.Sprintf("response is already %s", response.ReviewStatus)}
	}
	return nil
}

// ApplyTransition commits a review transition. The WHERE review_status =
// 'pending' clause is the compare-and-swap: of two concurrent transitions
// only one updates a row, the other falls through to ConflictError.
func (s *Store) ApplyTransition(ctx context.Context, t store.Transition) (*models.Response, error) {
	var row *sql.Row
	if t.NewBody != "" {
		row = s.db.QueryRowContext(ctx,
			`UPDATE responses
			 SET review_status = $2, reviewer_id = $3, reviewed_at = $4,
			     body = $5, edited = ($5 IS DISTINCT FROM generated_body)
			 WHERE id = $1 AND review_status = 'pending'
			 RETURNING id, question_id, author_kind, body, generated_body, review_status, edited, reviewer_id, reviewed_at, created_at`,
			t.ResponseID, t.To, t.ReviewerID, t.ReviewedAt, t.NewBody)
	} else {
		row = s.db.QueryRowContext(ctx,
			`UPDATE responses
			 SET review_status = $2, reviewer_id = $3, reviewed_at = $4
			 WHERE id = $1 AND review_status = 'pending'
			 RETURNING id, question_id, author_kind, body, generated_body, review_status, edited, reviewer_id, reviewed_at, created_at`,
			t.ResponseID, t.To, t.ReviewerID, t.ReviewedAt)
	}

	response, err := scanResponseRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		// lost the race or bad ID - look again to report which
		current, getErr := s.GetResponse(ctx, t.ResponseID)
		if getErr != nil {
			return nil, getErr
		}
		return nil, &models.ConflictError{Message: fmt.Sprintf("response is already %s", current.ReviewStatus)}
	}
	return response, err
}

// Stats returns entity counts for the admin endpoint
func (s *Store) Stats(ctx context.Context) (map[string]int, error) {
	stats := make(map[string]int)
	row := s.db.QueryRowContext(ctx,
		`SELECT
		   (SELECT COUNT(*) FROM courses),
		   (SELECT COUNT(*) FROM questions),
		   (SELECT COUNT(*) FROM responses),
		   (SELECT COUNT(*) FROM responses WHERE review_status = 'pending')`)

	var courses, questions, responses, pending int
	if err := row.Scan(&courses, &questions, &responses, &pending); err != nil {
		return nil, fmt.Errorf("counting entities: %w", err)
	}
	stats["courses"] = courses
	stats["questions"] = questions
	stats["responses"] = responses
	stats["pending_responses"] = pending
	return stats, nil
}

// Reset truncates everything. Admin factory reset only.
func (s *Store) Reset(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `TRUNCATE responses, questions, courses`); err != nil {
		return fmt.Errorf("truncating tables: %w", err)
	}
	return nil
}

// row scanning helpers

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanCourse(row *sql.Row, ref string) (*models.Course, error) {
	course, err := scanCourseRow(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &models.NotFoundError{Resource: "course", ID: ref}
	}
	return course, err
}

func scanCourseRow(row rowScanner) (*models.Course, error) {
	var course models.Course
	var studentIDs []string
	err := row.Scan(&course.ID, &course.Title, &course.Description, &course.ProfessorID,
		&course.JoinCode, &course.State, pq.Array(&studentIDs), &course.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning course: %w", err)
	}
	for _, raw := range studentIDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("parsing student id %q: %w", raw, err)
		}
		course.StudentIDs = append(course.StudentIDs, id)
	}
	return &course, nil
}

func scanQuestionRow(row rowScanner) (*models.Question, error) {
	var question models.Question
	err := row.Scan(&question.ID, &question.CourseID, &question.AuthorID, &question.AuthorName,
		&question.Title, &question.Body, &question.Format, pq.Array(&question.Tags),
		&question.Votes, &question.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning question: %w", err)
	}
	return &question, nil
}

func scanResponseRow(row rowScanner) (*models.Response, error) {
	var response models.Response
	var reviewerID uuid.NullUUID
	var reviewedAt sql.NullTime
	err := row.Scan(&response.ID, &response.QuestionID, &response.AuthorKind, &response.Body,
		&response.GeneratedBody, &response.ReviewStatus, &response.Edited,
		&reviewerID, &reviewedAt, &response.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scanning response: %w", err)
	}
	if reviewerID.Valid {
		response.ReviewerID = reviewerID.UUID
	}
	if reviewedAt.Valid {
		response.ReviewedAt = reviewedAt.Time
	}
	return &response, nil
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}
