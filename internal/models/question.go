package models

import (
	"time"

	"github.com/google/uuid"
)

// QuestionFormat tells the frontend how to render the question body
type QuestionFormat string

const (
	FormatText  QuestionFormat = "text"  // plain text
	FormatLatex QuestionFormat = "latex" // math markup
	FormatCode  QuestionFormat = "code"  // code snippet
)

// ValidFormat checks a caller-supplied format string
func ValidFormat(f QuestionFormat) bool {
	switch f {
	case FormatText, FormatLatex, FormatCode:
		return true
	}
	return false
}

// Question represents a student question in a course forum
type Question struct {
	ID       uuid.UUID `json:"id"`        // unique identifier
	CourseID uuid.UUID `json:"course_id"` // which course it was asked in

	AuthorID   uuid.UUID `json:"author_id"`   // who asked it
	AuthorName string    `json:"author_name"` // display name, denormalized for listings

	Title  string         `json:"title"`
	Body   string         `json:"body"`
	Format QuestionFormat `json:"format"`

	Tags []string `json:"tags,omitempty"` // ordered, as entered by the author

	Votes int `json:"votes"` // upvote count, never negative

	CreatedAt time.Time `json:"created_at"`

	// Status is NOT stored here. It is derived from the response set on
	// every read - see DeriveStatus.
}

// QuestionWithStatus is a question plus everything derived from its responses.
// This is what listings return.
type QuestionWithStatus struct {
	*Question
	Status        QuestionStatus `json:"status"`         // derived, see status.go
	ResponseCount int            `json:"response_count"` // includes rejected ones
	Responses     []*Response    `json:"responses,omitempty"`
}

// CreateQuestionInput is what we expect when a student asks a question
type CreateQuestionInput struct {
	CourseID uuid.UUID      `json:"course_id"`
	Title    string         `json:"title"`
	Body     string         `json:"body"`
	Format   QuestionFormat `json:"format"`
	Tags     []string       `json:"tags,omitempty"`
}
