package project_test

import (
	"testing"

	"github.com/rpggio/projectboard/internal/domain/project"
	"github.com/stretchr/testify/require"
)

func intp(v int) *int           { return &v }
func floatp(v float64) *float64 { return &v }

func TestValidate_Required(t *testing.T) {
	require.True(t, project.Validate(project.Validatable{Value: "x", Required: true}))
	require.False(t, project.Validate(project.Validatable{Value: "", Required: true}))
	require.False(t, project.Validate(project.Validatable{Value: "   \t", Required: true}))
	require.True(t, project.Validate(project.Validatable{Value: "  a ", Required: true}))
	require.True(t, project.Validate(project.Validatable{Value: 0, Required: true}))
}

func TestValidate_LengthBoundsAreStrict(t *testing.T) {
	require.False(t, project.Validate(project.Validatable{Value: "abcde", MinLength: intp(5)}))
	require.True(t, project.Validate(project.Validatable{Value: "abcdef", MinLength: intp(5)}))

	require.False(t, project.Validate(project.Validatable{Value: "abcde", MaxLength: intp(5)}))
	require.True(t, project.Validate(project.Validatable{Value: "abcd", MaxLength: intp(5)}))

	// Surrounding whitespace does not count.
	require.False(t, project.Validate(project.Validatable{Value: "  abcde  ", MinLength: intp(5)}))
}

func TestValidate_NumericBoundsAreStrict(t *testing.T) {
	require.False(t, project.Validate(project.Validatable{Value: 5, Max: floatp(5)}))
	require.True(t, project.Validate(project.Validatable{Value: 4, Max: floatp(5)}))

	require.False(t, project.Validate(project.Validatable{Value: 1, Min: floatp(1)}))
	require.True(t, project.Validate(project.Validatable{Value: 2.5, Min: floatp(1)}))
}

func TestValidate_MismatchedConstraintsAreSkipped(t *testing.T) {
	require.True(t, project.Validate(project.Validatable{Value: "abc", Min: floatp(10), Max: floatp(1)}))
	require.True(t, project.Validate(project.Validatable{Value: 3, MinLength: intp(10), MaxLength: intp(1)}))
}

func TestValidate_AllConstraintsMustHold(t *testing.T) {
	v := project.Validatable{Value: "hello world", Required: true, MinLength: intp(5), MaxLength: intp(8)}
	require.False(t, project.Validate(v))
	v.MaxLength = intp(20)
	require.True(t, project.Validate(v))
}

func TestRules_ValidateCreateInput(t *testing.T) {
	rules := project.DefaultRules()

	tests := []struct {
		name string
		req  project.CreateRequest
		ok   bool
	}{
		{name: "valid", req: project.CreateRequest{Title: "Build API", Description: "backend work", People: 3}, ok: true},
		{name: "title at bound", req: project.CreateRequest{Title: "Build", Description: "backend work", People: 3}},
		{name: "empty description", req: project.CreateRequest{Title: "Build API", Description: " ", People: 3}},
		{name: "people at min", req: project.CreateRequest{Title: "Build API", Description: "backend work", People: 1}},
		{name: "people at max", req: project.CreateRequest{Title: "Build API", Description: "backend work", People: 5}},
		{name: "people below max", req: project.CreateRequest{Title: "Build API", Description: "backend work", People: 4}, ok: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := rules.ValidateCreateInput(tt.req)
			if tt.ok {
				require.NoError(t, err)
			} else {
				require.ErrorIs(t, err, project.ErrInvalidInput)
			}
		})
	}
}

func TestParsePeople(t *testing.T) {
	n, err := project.ParsePeople(" 3 ")
	require.NoError(t, err)
	require.Equal(t, 3, n)

	_, err = project.ParsePeople("three")
	require.ErrorIs(t, err, project.ErrInvalidInput)
}
