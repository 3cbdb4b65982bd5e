package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/store"
)

func seedCourse(t *testing.T, s *Store, code string) *models.Course {
	t.Helper()
	course := &models.Course{
		ID:          uuid.New(),
		Title:       "Course " + code,
		ProfessorID: uuid.New(),
		JoinCode:    code,
		State:       models.CourseActive,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, s.CreateCourse(context.Background(), course))
	return course
}

func seedQuestion(t *testing.T, s *Store, courseID uuid.UUID) *models.Question {
	t.Helper()
	question := &models.Question{
		ID:        uuid.New(),
		CourseID:  courseID,
		AuthorID:  uuid.New(),
		Title:     "a question",
		Body:      "a body",
		Format:    models.FormatText,
		CreatedAt: time.Now(),
	}
	require.NoError(t, s.CreateQuestion(context.Background(), question))
	return question
}

func seedResponse(t *testing.T, s *Store, questionID uuid.UUID, generated string) *models.Response {
	t.Helper()
	response := &models.Response{
		ID:            uuid.New(),
		QuestionID:    questionID,
		AuthorKind:    models.AuthorAI,
		Body:          generated,
		GeneratedBody: generated,
		ReviewStatus:  models.ReviewPending,
		CreatedAt:     time.Now(),
	}
	require.NoError(t, s.CreateResponse(context.Background(), response))
	return response
}

func TestCreateCourse_DuplicateJoinCode(t *testing.T) {
	s := New()
	seedCourse(t, s, "ABC123")

	err := s.CreateCourse(context.Background(), &models.Course{
		ID: uuid.New(), Title: "other", ProfessorID: uuid.New(),
		JoinCode: "ABC123", State: models.CourseActive, CreatedAt: time.Now(),
	})
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestGetCourseByJoinCode_CaseInsensitive(t *testing.T) {
	s := New()
	course := seedCourse(t, s, "ABC123")

	got, err := s.GetCourseByJoinCode(context.Background(), " abc123 ")
	require.NoError(t, err)
	require.Equal(t, course.ID, got.ID)
}

func TestCreateQuestion_RequiresCourse(t *testing.T) {
	s := New()

	err := s.CreateQuestion(context.Background(), &models.Question{
		ID: uuid.New(), CourseID: uuid.New(), Title: "t", Body: "b", CreatedAt: time.Now(),
	})
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestCreateResponse_RequiresQuestion(t *testing.T) {
	s := New()

	err := s.CreateResponse(context.Background(), &models.Response{
		ID: uuid.New(), QuestionID: uuid.New(), ReviewStatus: models.ReviewPending, CreatedAt: time.Now(),
	})
	var notFound *models.NotFoundError
	require.ErrorAs(t, err, &notFound)
}

func TestApplyTransition_CASRejectsSecondWriter(t *testing.T) {
	s := New()
	ctx := context.Background()
	course := seedCourse(t, s, "ABC123")
	question := seedQuestion(t, s, course.ID)
	response := seedResponse(t, s, question.ID, "draft")

	reviewer := uuid.New()
	_, err := s.ApplyTransition(ctx, store.Transition{
		ResponseID: response.ID, To: models.ReviewApproved,
		ReviewerID: reviewer, ReviewedAt: time.Now(),
	})
	require.NoError(t, err)

	_, err = s.ApplyTransition(ctx, store.Transition{
		ResponseID: response.ID, To: models.ReviewRejected,
		ReviewerID: reviewer, ReviewedAt: time.Now(),
	})
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)

	got, err := s.GetResponse(ctx, response.ID)
	require.NoError(t, err)
	require.Equal(t, models.ReviewApproved, got.ReviewStatus)
}

func TestApplyTransition_ConcurrentWritersOneWins(t *testing.T) {
	s := New()
	ctx := context.Background()
	course := seedCourse(t, s, "ABC123")
	question := seedQuestion(t, s, course.ID)
	response := seedResponse(t, s, question.ID, "draft")

	const writers = 16
	var wg sync.WaitGroup
	errs := make([]error, writers)

	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			to := models.ReviewApproved
			if i%2 == 1 {
				to = models.ReviewRejected
			}
			_, errs[i] = s.ApplyTransition(ctx, store.Transition{
				ResponseID: response.ID, To: to,
				ReviewerID: uuid.New(), ReviewedAt: time.Now(),
			})
		}(i)
	}
	wg.Wait()

	wins := 0
	for _, err := range errs {
		if err == nil {
			wins++
		}
	}
	require.Equal(t, 1, wins)
}

func TestApplyTransition_EditSetsAuditFields(t *testing.T) {
	s := New()
	ctx := context.Background()
	course := seedCourse(t, s, "ABC123")
	question := seedQuestion(t, s, course.ID)
	response := seedResponse(t, s, question.ID, "original")

	updated, err := s.ApplyTransition(ctx, store.Transition{
		ResponseID: response.ID, To: models.ReviewApproved,
		ReviewerID: uuid.New(), ReviewedAt: time.Now(),
		NewBody: "edited",
	})
	require.NoError(t, err)
	require.Equal(t, "edited", updated.Body)
	require.Equal(t, "original", updated.GeneratedBody)
	require.True(t, updated.Edited)
}

func TestUpdateResponseContent_OnlyWhilePending(t *testing.T) {
	s := New()
	ctx := context.Background()
	course := seedCourse(t, s, "ABC123")
	question := seedQuestion(t, s, course.ID)
	response := seedResponse(t, s, question.ID, "original")

	require.NoError(t, s.UpdateResponseContent(ctx, response.ID, "tweaked"))
	got, err := s.GetResponse(ctx, response.ID)
	require.NoError(t, err)
	require.Equal(t, "tweaked", got.Body)
	require.True(t, got.Edited)
	// content update alone never changes review status
	require.Equal(t, models.ReviewPending, got.ReviewStatus)

	_, err = s.ApplyTransition(ctx, store.Transition{
		ResponseID: response.ID, To: models.ReviewRejected,
		ReviewerID: uuid.New(), ReviewedAt: time.Now(),
	})
	require.NoError(t, err)

	err = s.UpdateResponseContent(ctx, response.ID, "too late")
	var conflict *models.ConflictError
	require.ErrorAs(t, err, &conflict)
}

func TestReadsReturnCopies(t *testing.T) {
	s := New()
	ctx := context.Background()
	course := seedCourse(t, s, "ABC123")
	question := seedQuestion(t, s, course.ID)

	got, err := s.GetQuestion(ctx, question.ID)
	require.NoError(t, err)
	got.Title = "mutated by caller"

	again, err := s.GetQuestion(ctx, question.ID)
	require.NoError(t, err)
	require.Equal(t, "a question", again.Title)
}

func TestStatsAndReset(t *testing.T) {
	s := New()
	ctx := context.Background()
	course := seedCourse(t, s, "ABC123")
	question := seedQuestion(t, s, course.ID)
	seedResponse(t, s, question.ID, "draft")

	stats, err := s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, stats["courses"])
	require.Equal(t, 1, stats["questions"])
	require.Equal(t, 1, stats["responses"])
	require.Equal(t, 1, stats["pending_responses"])

	require.NoError(t, s.Reset(ctx))
	stats, err = s.Stats(ctx)
	require.NoError(t, err)
	require.Equal(t, 0, stats["courses"])
	require.Equal(t, 0, stats["responses"])
}
