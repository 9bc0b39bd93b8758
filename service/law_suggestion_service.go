package service

import (
	"context"
	"fmt"

	"legallyai-backend/llm"
	"legallyai-backend/models"
	"legallyai-backend/schema"

	"go.uber.org/zap"
)

const flowSuggestLaw = "suggestLaw"

var lawSuggestionShape = schema.Object(map[string]*schema.Schema{
	"suggestions": {
		Type:        schema.TypeArray,
		Description: "Relevant Indian laws, most relevant first.",
		MinItems:    1,
		Items: schema.Object(map[string]*schema.Schema{
			"law":         schema.RequiredString("The name of the Indian law or act, e.g. 'The Indian Contract Act, 1872'."),
			"section":     schema.String("The specific section of the law, if applicable."),
			"explanation": schema.RequiredString("Why this law is relevant to the dispute."),
		}, "law", "explanation"),
	},
	"concludingSolution": schema.RequiredString("Practical next steps for the user."),
	"disclaimer":         schema.String("A clear disclaimer that this is not legal advice."),
}, "suggestions", "concludingSolution")

// LawSuggestionService suggests Indian laws relevant to a dispute
type LawSuggestionService struct {
	cfg flowConfig
}

// NewLawSuggestionService creates a new law suggestion service
func NewLawSuggestionService(opts ...FlowOption) *LawSuggestionService {
	return &LawSuggestionService{cfg: newFlowConfig(opts)}
}

// SuggestLaw runs the suggestLaw flow. The disclaimer is always the fixed
// LegalDisclaimer regardless of what the model wrote
func (s *LawSuggestionService) SuggestLaw(ctx context.Context, req models.LawSuggestionRequest) (*models.LawSuggestionResult, error) {
	if err := schema.Struct(req); err != nil {
		return nil, invalid(flowSuggestLaw, err)
	}

	prompt, err := render(suggestLawTemplate, map[string]any{
		"DisputeDescription": req.DisputeDescription,
		"Disclaimer":         models.LegalDisclaimer,
	})
	if err != nil {
		return nil, flowErr(flowSuggestLaw, KindGeneration, fmt.Errorf("render prompt: %w", err))
	}

	s.cfg.logger.Info("Flow started", zap.String("flow", flowSuggestLaw))

	ex, err := s.cfg.converse(ctx, flowSuggestLaw, &llm.Request{
		Messages:       []llm.Message{llm.UserText(prompt)},
		ResponseSchema: lawSuggestionShape,
	}, nil)
	if err != nil {
		s.cfg.logger.Error("Flow failed", zap.String("flow", flowSuggestLaw), zap.Error(err))
		return nil, err
	}

	var result models.LawSuggestionResult
	if err := decodeOutput(ex.Text, lawSuggestionShape, &result); err != nil {
		return nil, invalid(flowSuggestLaw, err)
	}
	result.Disclaimer = models.LegalDisclaimer
	if err := schema.Struct(result); err != nil {
		return nil, invalid(flowSuggestLaw, err)
	}

	s.cfg.logger.Info("Flow finished",
		zap.String("flow", flowSuggestLaw),
		zap.Int("suggestions", len(result.Suggestions)),
	)
	return &result, nil
}
