package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"legallyai-backend/models"
	"legallyai-backend/schema"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFindLegalExpert(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  models.ExpertMatch
	}{
		{
			name:  "exact match",
			query: "Corporate Law",
			want: models.ExpertMatch{
				LawyerName:         "Jane Doe",
				LawFirm:            "Doe & Associates",
				Expertise:          "Corporate Law",
				ContactInformation: models.ExpertContactPlaceholder,
			},
		},
		{
			name:  "second tag matches",
			query: "Intellectual Property",
			want: models.ExpertMatch{
				LawyerName:         "Jane Doe",
				LawFirm:            "Doe & Associates",
				Expertise:          "Intellectual Property",
				ContactInformation: models.ExpertContactPlaceholder,
			},
		},
		{
			name:  "no match",
			query: "Maritime Law",
			want:  models.NoExpertMatch(),
		},
		{
			name:  "case-sensitive",
			query: "corporate law",
			want:  models.NoExpertMatch(),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := sampleDirectory()
			got, err := FindLegalExpert(context.Background(), dir, tt.query)
			require.NoError(t, err)
			got.LawyerID = ""
			assert.Equal(t, tt.want, got)
			assert.Equal(t, 1, dir.reads, "exactly one directory read")
		})
	}
}

func TestFindLegalExpertSentinelFields(t *testing.T) {
	got, err := FindLegalExpert(context.Background(), sampleDirectory(), "Maritime Law")
	require.NoError(t, err)
	assert.Equal(t, "No Specific Expert Found", got.LawyerName)
	assert.Equal(t, "N/A", got.LawFirm)
	assert.Equal(t, "N/A", got.Expertise)
	assert.Equal(t, "N/A", got.ContactInformation)
	assert.Empty(t, got.LawyerID)
	assert.False(t, got.Found())
}

func TestFindLegalExpertStoreFailure(t *testing.T) {
	dir := sampleDirectory()
	dir.err = errors.New("connection refused")

	_, err := FindLegalExpert(context.Background(), dir, "Corporate Law")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")
}

func TestFindLegalExpertExecutor(t *testing.T) {
	exec := newFindLegalExpertExecutor(sampleDirectory(), time.Second, zap.NewNop())

	out, err := exec(context.Background(), json.RawMessage(`{"expertiseQuery":"Labor Law"}`))
	require.NoError(t, err)
	var match models.ExpertMatch
	require.NoError(t, json.Unmarshal(out, &match))
	assert.Equal(t, "Sarah Green", match.LawyerName)
	assert.NotEmpty(t, match.LawyerID)

	_, err = exec(context.Background(), json.RawMessage(`{"expertiseQuery":"  "}`))
	var ve *schema.ValidationError
	assert.ErrorAs(t, err, &ve)

	_, err = exec(context.Background(), json.RawMessage(`{}`))
	assert.ErrorAs(t, err, &ve)
}

func TestToolRegistry(t *testing.T) {
	reg := NewToolRegistry()
	echo := func(ctx context.Context, args json.RawMessage) (json.RawMessage, error) { return args, nil }

	require.NoError(t, reg.Register(FindLegalExpertDeclaration, echo))
	assert.Error(t, reg.Register(FindLegalExpertDeclaration, echo), "duplicate name")
	assert.Error(t, reg.Register(FindLegalExpertDeclaration, nil))

	decls := reg.Declarations()
	require.Len(t, decls, 1)
	assert.Equal(t, FindLegalExpertTool, decls[0].Name)

	out, err := reg.Execute(context.Background(), FindLegalExpertTool, json.RawMessage(`{"a":1}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(out))

	_, err = reg.Execute(context.Background(), "unknown", nil)
	assert.Error(t, err)
}
