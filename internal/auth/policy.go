package auth

import (
	"github.com/rushilkag/academic-qa-backend/internal/models"
)

// Action is something an actor can try to do to a course's content
type Action string

const (
	ActionCreateCourse Action = "course.create"
	ActionJoinCourse   Action = "course.join"
	ActionBrowse       Action = "course.browse"
	ActionAskQuestion  Action = "question.ask"
	ActionVote         Action = "question.vote"
	ActionRespond      Action = "response.create"
	ActionReview       Action = "response.review" // queue view + all transitions
)

// Allow is the one place role and membership checks live. It returns nil when
// the actor may perform the action on the course, an AuthorizationError
// otherwise. ActionCreateCourse takes a nil course.
func Allow(actor Actor, action Action, course *models.Course) error {
	switch action {
	case ActionCreateCourse:
		if actor.Role != RoleProfessor {
			return &models.AuthorizationError{Message: "only professors can create courses"}
		}
		return nil

	case ActionJoinCourse:
		if actor.Role != RoleStudent {
			return &models.AuthorizationError{Message: "only students join by code"}
		}
		return nil

	case ActionBrowse:
		if !course.IsMember(actor.ID) {
			return &models.AuthorizationError{Message: "not a member of this course"}
		}
		return nil

	case ActionAskQuestion, ActionVote:
		if actor.Role == RoleAI {
			return &models.AuthorizationError{Message: "the generation service cannot ask or vote"}
		}
		if !course.IsMember(actor.ID) {
			return &models.AuthorizationError{Message: "not a member of this course"}
		}
		return nil

	case ActionRespond:
		// the AI collaborator submits candidates anywhere; humans must be
		// the owning professor
		if actor.Role == RoleAI {
			return nil
		}
		if actor.Role == RoleProfessor && course.ProfessorID == actor.ID {
			return nil
		}
		return &models.AuthorizationError{Message: "only the course professor or the generation service can respond"}

	case ActionReview:
		if actor.Role != RoleProfessor || course.ProfessorID != actor.ID {
			return &models.AuthorizationError{Message: "only the course professor can review responses"}
		}
		return nil
	}

	return &models.AuthorizationError{Message: "unknown action"}
}
