package schema

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func suggestionShape() *Schema {
	item := Object(map[string]*Schema{
		"law":         RequiredString("name of the act"),
		"section":     String("section, if any"),
		"explanation": RequiredString("why it applies"),
	}, "law", "explanation")
	list := ArrayOf(item, "suggestions")
	list.MinItems = 1
	return Object(map[string]*Schema{
		"suggestions":        list,
		"concludingSolution": RequiredString("next steps"),
		"kind":               {Type: TypeString, Enum: []string{"civil", "criminal"}},
		"count":              {Type: TypeInteger},
	}, "suggestions", "concludingSolution")
}

func TestValidateJSON(t *testing.T) {
	s := suggestionShape()

	tests := []struct {
		name      string
		input     string
		wantPaths []string
	}{
		{
			name:  "valid",
			input: `{"suggestions":[{"law":"The Indian Contract Act, 1872","explanation":"contract"}],"concludingSolution":"talk to a lawyer"}`,
		},
		{
			name:      "missing required",
			input:     `{"suggestions":[{"law":"A","explanation":"B"}]}`,
			wantPaths: []string{"concludingSolution"},
		},
		{
			name:      "blank nested string",
			input:     `{"suggestions":[{"law":"  ","explanation":"B"}],"concludingSolution":"x"}`,
			wantPaths: []string{"suggestions[0].law"},
		},
		{
			name:      "empty array",
			input:     `{"suggestions":[],"concludingSolution":"x"}`,
			wantPaths: []string{"suggestions"},
		},
		{
			name:      "wrong types",
			input:     `{"suggestions":"none","concludingSolution":5,"count":1.5}`,
			wantPaths: []string{"concludingSolution", "count", "suggestions"},
		},
		{
			name:      "enum",
			input:     `{"suggestions":[{"law":"A","explanation":"B"}],"concludingSolution":"x","kind":"tax"}`,
			wantPaths: []string{"kind"},
		},
		{
			name:      "not an object",
			input:     `[1,2]`,
			wantPaths: []string{""},
		},
		{
			name:      "null required",
			input:     `{"suggestions":null,"concludingSolution":"x"}`,
			wantPaths: []string{"suggestions"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := s.ValidateJSON([]byte(tt.input))
			if len(tt.wantPaths) == 0 {
				require.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "got %v", err)
			var paths []string
			for _, issue := range verr.Issues {
				paths = append(paths, issue.Path)
			}
			assert.ElementsMatch(t, tt.wantPaths, paths)
		})
	}
}

func TestValidateJSONRejectsGarbage(t *testing.T) {
	err := suggestionShape().ValidateJSON([]byte("not json"))
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Error(), "invalid JSON")
}

func TestPropertyNamesRequiredFirst(t *testing.T) {
	s := Object(map[string]*Schema{
		"b": String(""),
		"a": String(""),
		"z": String(""),
	}, "z")
	assert.Equal(t, []string{"z", "a", "b"}, s.PropertyNames())
}

func TestDescribeOmitsNotBlank(t *testing.T) {
	out := RequiredString("x").Describe()
	assert.Contains(t, out, `"type": "string"`)
	assert.NotContains(t, out, "NotBlank")
}

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"notblank"`
	Password string `json:"password" validate:"min=6"`
	Kind     string `json:"userType" validate:"oneof=business lawyer"`
}

func TestStruct(t *testing.T) {
	require.NoError(t, Struct(signup{Email: "a@b.co", Name: "A", Password: "secret", Kind: "lawyer"}))

	err := Struct(signup{Email: "nope", Name: "   ", Password: "123", Kind: "judge"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)

	byPath := map[string]string{}
	for _, issue := range verr.Issues {
		byPath[issue.Path] = issue.Message
	}
	assert.Equal(t, "must be a valid email address", byPath["email"])
	assert.Equal(t, "must not be empty", byPath["name"])
	assert.Equal(t, "must be at least 6 characters", byPath["password"])
	assert.Equal(t, "must be one of [business, lawyer]", byPath["userType"])
}
