package models

// QuestionStatus is derived from a question's response set, never stored
type QuestionStatus string

const (
	StatusUnanswered QuestionStatus = "unanswered" // no live responses
	StatusPending    QuestionStatus = "pending"    // candidates exist, none approved
	StatusAnswered   QuestionStatus = "answered"   // at least one approved response
)

// ValidStatusFilter checks a caller-supplied status filter ("all" included)
func ValidStatusFilter(s string) bool {
	switch QuestionStatus(s) {
	case StatusUnanswered, StatusPending, StatusAnswered:
		return true
	}
	return s == "all" || s == ""
}

// DeriveStatus computes a question's status from its current response set.
// Approved wins over pending; rejected responses contribute nothing, so a
// question with only rejected responses derives unanswered (callers can still
// tell it apart from a never-answered question via the response count).
func DeriveStatus(responses []*Response) QuestionStatus {
	hasCandidate := false
	for _, r := range responses {
		switch r.ReviewStatus {
		case ReviewApproved:
			return StatusAnswered
		case ReviewPending, ReviewEdited:
			hasCandidate = true
		}
	}
	if hasCandidate {
		return StatusPending
	}
	return StatusUnanswered
}
