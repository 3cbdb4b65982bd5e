package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rushilkag/academic-qa-backend/internal/models"
)

func TestCreateQuestion_Validation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	var validation *models.ValidationError

	_, err := f.questions.CreateQuestion(ctx, f.student, models.CreateQuestionInput{
		CourseID: f.course.ID, Title: "  ", Body: "body",
	})
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "title", validation.Field)

	_, err = f.questions.CreateQuestion(ctx, f.student, models.CreateQuestionInput{
		CourseID: f.course.ID, Title: "title", Body: "",
	})
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "body", validation.Field)

	_, err = f.questions.CreateQuestion(ctx, f.student, models.CreateQuestionInput{
		CourseID: f.course.ID, Title: "title", Body: "body", Format: "markdown",
	})
	require.ErrorAs(t, err, &validation)
	require.Equal(t, "format", validation.Field)

	var notFound *models.NotFoundError
	_, err = f.questions.CreateQuestion(ctx, f.student, models.CreateQuestionInput{
		CourseID: uuid.New(), Title: "title", Body: "body",
	})
	require.ErrorAs(t, err, &notFound)
}

func TestCreateResponse_AlwaysStartsPending(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	response, err := f.questions.CreateResponse(ctx, f.professor, f.question.ID, models.CreateResponseInput{
		AuthorKind: models.AuthorProfessor,
		Body:       "a professor answer",
	})
	require.NoError(t, err)
	require.Equal(t, models.ReviewPending, response.ReviewStatus)
	// the audit copy only exists for AI output
	require.Empty(t, response.GeneratedBody)

	aiResponse, err := f.questions.CreateResponse(ctx, f.ai, f.question.ID, models.CreateResponseInput{
		AuthorKind: models.AuthorAI,
		Body:       "an ai answer",
	})
	require.NoError(t, err)
	require.Equal(t, "an ai answer", aiResponse.GeneratedBody)
}

func TestCreateResponse_UnknownQuestion(t *testing.T) {
	f := newFixture(t)

	var notFound *models.NotFoundError
	_, err := f.questions.CreateResponse(context.Background(), f.ai, uuid.New(), models.CreateResponseInput{
		AuthorKind: models.AuthorAI,
		Body:       "draft",
	})
	require.ErrorAs(t, err, &notFound)
}

func TestCreateResponse_StudentForbidden(t *testing.T) {
	f := newFixture(t)

	var authz *models.AuthorizationError
	_, err := f.questions.CreateResponse(context.Background(), f.student, f.question.ID, models.CreateResponseInput{
		AuthorKind: models.AuthorProfessor,
		Body:       "not allowed",
	})
	require.ErrorAs(t, err, &authz)
}

// seedBrowseFixture adds questions with known votes, ages and tags. The
// fixture question from newFixture is left out of the assertions by using a
// second course.
func seedBrowseFixture(t *testing.T, f *fixture) (courseID uuid.UUID, byTitle map[string]*models.Question) {
	t.Helper()
	ctx := context.Background()

	course, err := f.courses.CreateCourse(ctx, f.professor, models.CreateCourseInput{Title: "Statistics"})
	require.NoError(t, err)
	_, err = f.courses.JoinCourse(ctx, f.student, models.JoinCourseInput{Code: course.JoinCode})
	require.NoError(t, err)

	byTitle = make(map[string]*models.Question)
	specs := []struct {
		title string
		votes int
		tags  []string
	}{
		{"Central limit theorem intuition", 5, []string{"Probability"}},
		{"Bayes rule walkthrough", 3, []string{"Inference"}},
		{"PID controllers in software", 7, []string{"PID Controller", "Python"}},
		{"Variance vs standard deviation", 5, []string{"Probability"}},
	}
	for _, spec := range specs {
		q, err := f.questions.CreateQuestion(ctx, f.student, models.CreateQuestionInput{
			CourseID: course.ID,
			Title:    spec.title,
			Body:     "details omitted",
			Tags:     spec.tags,
		})
		require.NoError(t, err)
		for i := 0; i < spec.votes; i++ {
			_, err = f.questions.Vote(ctx, f.student, q.ID)
			require.NoError(t, err)
		}
		byTitle[spec.title] = q
		time.Sleep(2 * time.Millisecond) // keep creation timestamps distinct
	}
	return course.ID, byTitle
}

func TestBrowse_PopularSortWithVoteTies(t *testing.T) {
	f := newFixture(t)
	courseID, _ := seedBrowseFixture(t, f)

	results, err := f.questions.Browse(context.Background(), f.student, courseID, BrowseOptions{Sort: "popular"})
	require.NoError(t, err)
	require.Len(t, results, 4)

	titles := make([]string, len(results))
	for i, q := range results {
		titles[i] = q.Title
	}
	// votes descending; the two 5-vote questions tie and the earlier one
	// comes first
	require.Equal(t, []string{
		"PID controllers in software",
		"Central limit theorem intuition",
		"Variance vs standard deviation",
		"Bayes rule walkthrough",
	}, titles)
}

func TestBrowse_ChronologicalSorts(t *testing.T) {
	f := newFixture(t)
	courseID, byTitle := seedBrowseFixture(t, f)
	ctx := context.Background()

	newest, err := f.questions.Browse(ctx, f.student, courseID, BrowseOptions{Sort: "newest"})
	require.NoError(t, err)
	require.Equal(t, byTitle["Variance vs standard deviation"].ID, newest[0].ID)
	require.Equal(t, byTitle["Central limit theorem intuition"].ID, newest[3].ID)

	oldest, err := f.questions.Browse(ctx, f.student, courseID, BrowseOptions{Sort: "oldest"})
	require.NoError(t, err)
	require.Equal(t, byTitle["Central limit theorem intuition"].ID, oldest[0].ID)
	require.Equal(t, byTitle["Variance vs standard deviation"].ID, oldest[3].ID)
}

func TestBrowse_TagOnlySearchMatches(t *testing.T) {
	f := newFixture(t)
	courseID, byTitle := seedBrowseFixture(t, f)

	// "python" appears only in the tag set, not in any title or body
	results, err := f.questions.Browse(context.Background(), f.student, courseID, BrowseOptions{Search: "python"})
	require.NoError(t, err)
	require.Len(t, results, 1)
	require.Equal(t, byTitle["PID controllers in software"].ID, results[0].ID)
}

func TestBrowse_StatusFilter(t *testing.T) {
	f := newFixture(t)
	courseID, byTitle := seedBrowseFixture(t, f)
	ctx := context.Background()

	// answer one question, leave one pending, one untouched
	answered := byTitle["Central limit theorem intuition"]
	pending := byTitle["Bayes rule walkthrough"]

	r1, err := f.questions.CreateResponse(ctx, f.ai, answered.ID, models.CreateResponseInput{
		AuthorKind: models.AuthorAI, Body: "draft one",
	})
	require.NoError(t, err)
	_, err = f.reviews.Approve(ctx, f.professor, r1.ID)
	require.NoError(t, err)

	_, err = f.questions.CreateResponse(ctx, f.ai, pending.ID, models.CreateResponseInput{
		AuthorKind: models.AuthorAI, Body: "draft two",
	})
	require.NoError(t, err)

	unanswered, err := f.questions.Browse(ctx, f.student, courseID, BrowseOptions{Status: "unanswered"})
	require.NoError(t, err)
	require.Len(t, unanswered, 2) // the two untouched questions

	answeredOnly, err := f.questions.Browse(ctx, f.student, courseID, BrowseOptions{Status: "answered"})
	require.NoError(t, err)
	require.Len(t, answeredOnly, 1)
	require.Equal(t, answered.ID, answeredOnly[0].ID)

	pendingOnly, err := f.questions.Browse(ctx, f.student, courseID, BrowseOptions{Status: "pending"})
	require.NoError(t, err)
	require.Len(t, pendingOnly, 1)
	require.Equal(t, pending.ID, pendingOnly[0].ID)
}

func TestBrowse_SearchAndStatusAreANDed(t *testing.T) {
	f := newFixture(t)
	courseID, byTitle := seedBrowseFixture(t, f)
	ctx := context.Background()

	r, err := f.questions.CreateResponse(ctx, f.ai, byTitle["Bayes rule walkthrough"].ID, models.CreateResponseInput{
		AuthorKind: models.AuthorAI, Body: "draft",
	})
	require.NoError(t, err)
	_, err = f.reviews.Approve(ctx, f.professor, r.ID)
	require.NoError(t, err)

	// "bayes" matches but the status filter excludes it
	results, err := f.questions.Browse(ctx, f.student, courseID, BrowseOptions{
		Search: "bayes", Status: "unanswered",
	})
	require.NoError(t, err)
	require.Empty(t, results)
}

func TestBrowse_NonMemberForbidden(t *testing.T) {
	f := newFixture(t)
	courseID, _ := seedBrowseFixture(t, f)

	outsider := f.student
	outsider.ID = uuid.New()

	var authz *models.AuthorizationError
	_, err := f.questions.Browse(context.Background(), outsider, courseID, BrowseOptions{})
	require.ErrorAs(t, err, &authz)
}

func TestVote_IncrementsCount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	q, err := f.questions.Vote(ctx, f.student, f.question.ID)
	require.NoError(t, err)
	require.Equal(t, 1, q.Votes)

	q, err = f.questions.Vote(ctx, f.professor, f.question.ID)
	require.NoError(t, err)
	require.Equal(t, 2, q.Votes)
}
