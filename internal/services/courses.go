package services

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/rushilkag/academic-qa-backend/internal/auth"
	"github.com/rushilkag/academic-qa-backend/internal/models"
	"github.com/rushilkag/academic-qa-backend/internal/store"
)

// CourseService handles course creation and enrollment
type CourseService struct {
	Store store.Store
}

// NewCourseService creates service with its store dependency
func NewCourseService(s store.Store) *CourseService {
	return &CourseService{Store: s}
}

// joinCodeAlphabet matches the codes the frontend has always shown: six
// uppercase base-36 characters
const joinCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const joinCodeLength = 6

// CreateCourse makes a new active course owned by the acting professor.
// The join code is issued here, exactly once.
func (s *CourseService) CreateCourse(ctx context.Context, actor auth.Actor, input models.CreateCourseInput) (*models.Course, error) {
	if err := auth.Allow(actor, auth.ActionCreateCourse, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Title) == "" {
		return nil, &models.ValidationError{Field: "title", Message: "cannot be empty"}
	}

	// codes collide rarely; retry a few times before giving up
	for attempt := 0; attempt < 5; attempt++ {
		course := &models.Course{
			ID:          uuid.New(),
			Title:       strings.TrimSpace(input.Title),
			Description: strings.TrimSpace(input.Description),
			ProfessorID: actor.ID,
			JoinCode:    newJoinCode(),
			State:       models.CourseActive,
			CreatedAt:   time.Now(),
		}

		err := s.Store.CreateCourse(ctx, course)
		if err == nil {
			log.Printf("Course %s created by %s with join code %s", course.ID, actor.Name, course.JoinCode)
			return course, nil
		}

		var conflict *models.ConflictError
		if errors.As(err, &conflict) {
			continue // code already taken, roll again
		}
		return nil, fmt.Errorf("creating course: %w", err)
	}

	return nil, errors.New("could not issue a unique join code")
}

// JoinCourse enrolls the acting student in the course matching the code
func (s *CourseService) JoinCourse(ctx context.Context, actor auth.Actor, input models.JoinCourseInput) (*models.Course, error) {
	if err := auth.Allow(actor, auth.ActionJoinCourse, nil); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Code) == "" {
		return nil, &models.ValidationError{Field: "code", Message: "cannot be empty"}
	}

	course, err := s.Store.GetCourseByJoinCode(ctx, input.Code)
	if err != nil {
		return nil, err
	}
	if course.State != models.CourseActive {
		return nil, &models.ConflictError{Message: fmt.Sprintf("course is %s", course.State)}
	}

	if err := s.Store.AddStudent(ctx, course.ID, actor.ID); err != nil {
		return nil, fmt.Errorf("enrolling in course: %w", err)
	}

	log.Printf("Student %s joined course %s", actor.Name, course.ID)
	return s.Store.GetCourse(ctx, course.ID)
}

// ListCourses returns the courses the actor can see: owned ones for
// professors, enrolled ones for students, everything for the generation
// service
func (s *CourseService) ListCourses(ctx context.Context, actor auth.Actor) ([]*models.Course, error) {
	courses, err := s.Store.ListCourses(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}

	if actor.Role == auth.RoleAI {
		return courses, nil
	}

	visible := make([]*models.Course, 0, len(courses))
	for _, c := range courses {
		if c.IsMember(actor.ID) {
			visible = append(visible, c)
		}
	}
	return visible, nil
}

// newJoinCode generates a random 6-character uppercase code
func newJoinCode() string {
	buf := make([]byte, joinCodeLength)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the system is in real trouble
		panic(fmt.Sprintf("reading random bytes: %v", err))
	}
	for i, b := range buf {
		buf[i] = joinCodeAlphabet[int(b)%len(joinCodeAlphabet)]
	}
	return string(buf)
}
