package auth

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/rushilkag/academic-qa-backend/internal/models"
)

func TestAllow(t *testing.T) {
	professor := Actor{ID: uuid.New(), Role: RoleProfessor}
	enrolled := Actor{ID: uuid.New(), Role: RoleStudent}
	outsider := Actor{ID: uuid.New(), Role: RoleStudent}
	otherProf := Actor{ID: uuid.New(), Role: RoleProfessor}
	generator := Actor{ID: uuid.New(), Role: RoleAI}

	course := &models.Course{
		ID:          uuid.New(),
		ProfessorID: professor.ID,
		StudentIDs:  []uuid.UUID{enrolled.ID},
	}

	cases := []struct {
		name    string
		actor   Actor
		action  Action
		allowed bool
	}{
		{"professor creates course", professor, ActionCreateCourse, true},
		{"student cannot create course", enrolled, ActionCreateCourse, false},
		{"student joins by code", outsider, ActionJoinCourse, true},
		{"professor does not join by code", professor, ActionJoinCourse, false},
		{"member browses", enrolled, ActionBrowse, true},
		{"owner browses", professor, ActionBrowse, true},
		{"outsider cannot browse", outsider, ActionBrowse, false},
		{"member asks", enrolled, ActionAskQuestion, true},
		{"generator cannot ask", generator, ActionAskQuestion, false},
		{"member votes", enrolled, ActionVote, true},
		{"outsider cannot vote", outsider, ActionVote, false},
		{"generator responds", generator, ActionRespond, true},
		{"owning professor responds", professor, ActionRespond, true},
		{"other professor cannot respond", otherProf, ActionRespond, false},
		{"student cannot respond", enrolled, ActionRespond, false},
		{"owning professor reviews", professor, ActionReview, true},
		{"other professor cannot review", otherProf, ActionReview, false},
		{"student cannot review", enrolled, ActionReview, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Allow(tc.actor, tc.action, course)
			if tc.allowed {
				require.NoError(t, err)
				return
			}
			var authz *models.AuthorizationError
			require.ErrorAs(t, err, &authz)
		})
	}
}
