package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/pkg/task"
)

// waitForTask polls until the job leaves the running states
func waitForTask(t *testing.T, tasks *task.Manager, taskID string) *task.Task {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		job, ok := tasks.Get(taskID)
		require.True(t, ok)
		if job.Status == task.StatusCompleted || job.Status == task.StatusFailed {
			return job
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("generation task never finished")
	return nil
}

func TestStartDraft_CreatesPendingResponse(t *testing.T) {
	f := newFixture(t)
	tasks := task.NewManager()

	gen := GeneratorFunc(func(ctx context.Context, q *models.Question) (string, error) {
		return "generated draft for " + q.Title, nil
	})
	drafts := NewDraftService(f.reviews.Store, tasks, gen, time.Second)

	taskID, err := drafts.StartDraft(context.Background(), f.student, f.question.ID)
	require.NoError(t, err)

	job := waitForTask(t, tasks, taskID)
	require.Equal(t, task.StatusCompleted, job.Status)
	require.NotEqual(t, uuid.Nil, job.ResponseID)

	response, err := f.reviews.Store.GetResponse(context.Background(), job.ResponseID)
	require.NoError(t, err)
	require.Equal(t, models.ReviewPending, response.ReviewStatus)
	require.Equal(t, models.AuthorAI, response.AuthorKind)
	require.Equal(t, response.Body, response.GeneratedBody)

	// the question now reads pending
	qs, err := f.questions.GetQuestion(context.Background(), f.student, f.question.ID)
	require.NoError(t, err)
	require.Equal(t, models.StatusPending, qs.Status)
}

func TestStartDraft_FailureCreatesNothing(t *testing.T) {
	f := newFixture(t)
	tasks := task.NewManager()

	gen := GeneratorFunc(func(ctx context.Context, q *models.Question) (string, error) {
		return "", errors.New("model unavailable")
	})
	drafts := NewDraftService(f.reviews.Store, tasks, gen, time.Second)

	taskID, err := drafts.StartDraft(context.Background(), f.student, f.question.ID)
	require.NoError(t, err)

	job := waitForTask(t, tasks, taskID)
	require.Equal(t, task.StatusFailed, job.Status)
	require.Contains(t, job.ErrorMessage, "model unavailable")

	// no partial entity: the question still has zero responses
	qs, err := f.questions.GetQuestion(context.Background(), f.student, f.question.ID)
	require.NoError(t, err)
	require.Equal(t, 0, qs.ResponseCount)
	require.Equal(t, models.StatusUnanswered, qs.Status)
}

func TestCancelDraft_AbortsWithoutResponse(t *testing.T) {
	f := newFixture(t)
	tasks := task.NewManager()

	started := make(chan struct{})
	gen := GeneratorFunc(func(ctx context.Context, q *models.Question) (string, error) {
		close(started)
		<-ctx.Done() // block until cancelled
		return "", ctx.Err()
	})
	drafts := NewDraftService(f.reviews.Store, tasks, gen, 10*time.Second)

	taskID, err := drafts.StartDraft(context.Background(), f.student, f.question.ID)
	require.NoError(t, err)

	<-started
	require.NoError(t, drafts.CancelDraft(taskID))

	job := waitForTask(t, tasks, taskID)
	require.Equal(t, task.StatusFailed, job.Status)

	qs, err := f.questions.GetQuestion(context.Background(), f.student, f.question.ID)
	require.NoError(t, err)
	require.Equal(t, 0, qs.ResponseCount)
}

func TestCancelDraft_UnknownTask(t *testing.T) {
	f := newFixture(t)
	drafts := NewDraftService(f.reviews.Store, task.NewManager(), GeneratorFunc(nil), time.Second)

	var notFound *models.NotFoundError
	require.ErrorAs(t, drafts.CancelDraft("nope"), &notFound)
}
