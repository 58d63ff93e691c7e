// AngelaMos | 2026
// dto_test.go

package application

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validSubmitRequest() SubmitApplicationRequest {
	return SubmitApplicationRequest{
		Name:         "Jordan Builder",
		Email:        "jordan@example.com",
		Experience:   "6 years shipping SaaS",
		CurrentFocus: "B2B analytics",
		Goals:        "find a cofounder",
		Skills:       []string{"go"},
	}
}

func TestSubmitApplicationRequestValidation(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRequiredStructEnabled())

	require.NoError(t, v.Struct(validSubmitRequest()))

	noSkills := validSubmitRequest()
	noSkills.Skills = nil
	assert.Error(t, v.Struct(noSkills), "skills are mandatory")

	emptySkills := validSubmitRequest()
	emptySkills.Skills = []string{}
	assert.Error(t, v.Struct(emptySkills))

	blankSkill := validSubmitRequest()
	blankSkill.Skills = []string{"go", ""}
	assert.Error(t, v.Struct(blankSkill))

	badEmail := validSubmitRequest()
	badEmail.Email = "not-an-email"
	assert.Error(t, v.Struct(badEmail))

	noGoals := validSubmitRequest()
	noGoals.Goals = ""
	assert.Error(t, v.Struct(noGoals))
}

func TestReviewApplicationRequestValidation(t *testing.T) {
	t.Parallel()

	v := validator.New(validator.WithRequiredStructEnabled())

	assert.NoError(t, v.Struct(ReviewApplicationRequest{Decision: "approved"}))
	assert.NoError(t, v.Struct(ReviewApplicationRequest{Decision: "rejected"}))
	assert.Error(t, v.Struct(ReviewApplicationRequest{Decision: "maybe"}))
	assert.Error(t, v.Struct(ReviewApplicationRequest{}))
}
