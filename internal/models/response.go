package models

import (
	"time"

	"github.com/google/uuid"
)

// AuthorKind says who produced a response
type AuthorKind string

const (
	AuthorProfessor AuthorKind = "professor" // written directly by the professor
	AuthorAI        AuthorKind = "ai"        // generated by the AI collaborator
)

// ValidAuthorKind checks a caller-supplied author kind
func ValidAuthorKind(k AuthorKind) bool {
	return k == AuthorProfessor || k == AuthorAI
}

// ReviewStatus is the moderation state of a single response
type ReviewStatus string

const (
	ReviewPending  ReviewStatus = "pending"  // waiting for professor review
	ReviewApproved ReviewStatus = "approved" // published, visible to students
	ReviewRejected ReviewStatus = "rejected" // kept for audit, never shown
	ReviewEdited   ReviewStatus = "edited"   // mid-edit; still counts as awaiting review
)

// Terminal reports whether no further review transition is allowed
func (s ReviewStatus) Terminal() bool {
	return s == ReviewApproved || s == ReviewRejected
}

// Response is a candidate (or published) answer to a question
type Response struct {
	ID         uuid.UUID `json:"id"`          // unique identifier
	QuestionID uuid.UUID `json:"question_id"` // which question it answers

	AuthorKind AuthorKind `json:"author_kind"` // professor or ai

	// Body is the content that gets published. GeneratedBody keeps the
	// original AI output so an edited approval can be told apart from a
	// verbatim one. For professor-written responses the two are equal.
	Body          string `json:"body"`
	GeneratedBody string `json:"generated_body,omitempty"`

	ReviewStatus ReviewStatus `json:"review_status"`
	Edited       bool         `json:"edited"` // published body differs from the generated one

	ReviewerID uuid.UUID `json:"reviewer_id,omitempty"` // professor who decided
	ReviewedAt time.Time `json:"reviewed_at,omitempty"` // when they decided

	CreatedAt time.Time `json:"created_at"`
}

// CreateResponseInput is what we expect when submitting a response candidate
type CreateResponseInput struct {
	AuthorKind AuthorKind `json:"author_kind"`
	Body       string     `json:"body"`
}

// EditApproveInput carries the replacement body for an edit-and-approve
type EditApproveInput struct {
	Body string `json:"body"`
}

// QueueItem is a response plus a summary of its parent question, shaped for
// the professor review queue.
type QueueItem struct {
	*Response
	QuestionTitle     string    `json:"question_title"`
	QuestionBody      string    `json:"question_body"`
	QuestionAuthor    string    `json:"question_author"`
	QuestionTags      []string  `json:"question_tags,omitempty"`
	QuestionCreatedAt time.Time `json:"question_created_at"`
}
