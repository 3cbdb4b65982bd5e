package models

import (
	"time"

	"github.com/google/uuid"
)

// CourseState is the lifecycle state of a course
type CourseState string

const (
	CourseDraft    CourseState = "draft"    // being set up, not visible to students
	CourseActive   CourseState = "active"   // open for questions
	CourseArchived CourseState = "archived" // read-only, term is over
)

// Course represents a single course offering
type Course struct {
	ID uuid.UUID `json:"id"` // unique identifier

	Title       string `json:"title"`                 // course name
	Description string `json:"description,omitempty"` // what the course is about

	ProfessorID uuid.UUID `json:"professor_id"` // who owns and moderates it

	// JoinCode is issued once at creation and never changes. Students use it
	// to enroll; no two live courses share a code.
	JoinCode string `json:"join_code"`

	State CourseState `json:"state"` // draft, active or archived

	StudentIDs []uuid.UUID `json:"student_ids,omitempty"` // enrolled students

	CreatedAt time.Time `json:"created_at"`
}

// IsMember reports whether the given user is enrolled in or owns the course
func (c *Course) IsMember(userID uuid.UUID) bool {
	if c.ProfessorID == userID {
		return true
	}
	for _, id := range c.StudentIDs {
		if id == userID {
			return true
		}
	}
	return false
}

// CreateCourseInput is what we expect when creating a new course
type CreateCourseInput struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// JoinCourseInput is what we expect when a student joins by code
type JoinCourseInput struct {
	Code string `json:"code"`
}
