package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"legallyai-backend/llm"
	"legallyai-backend/models"
	"legallyai-backend/schema"

	"go.uber.org/zap"
)

const flowRecommendLawyer = "recommendLawyer"

var recommendationShape = schema.Object(map[string]*schema.Schema{
	"lawyerName":         schema.RequiredString(`The name of the recommended lawyer, or "No Specific Expert Found".`),
	"lawFirm":            schema.RequiredString("The law firm the lawyer belongs to."),
	"expertise":          schema.RequiredString("The lawyer's area of expertise relevant to the user."),
	"contactInformation": schema.RequiredString("The lawyer's contact information as returned by the tool."),
	"summary":            schema.RequiredString("One paragraph on why this lawyer fits, or why no specific expert could be found."),
}, "lawyerName", "lawFirm", "expertise", "contactInformation", "summary")

// RecommendationService recommends a lawyer from the directory using the
// findLegalExpert tool
type RecommendationService struct {
	cfg   flowConfig
	tools *ToolRegistry
}

// NewRecommendationService creates a new recommendation service
func NewRecommendationService(opts ...FlowOption) *RecommendationService {
	s := &RecommendationService{cfg: newFlowConfig(opts)}
	if s.cfg.finder != nil {
		s.tools = NewToolRegistry()
		s.tools.MustRegister(FindLegalExpertDeclaration,
			newFindLegalExpertExecutor(s.cfg.finder, s.cfg.callTimeout, s.cfg.logger))
	}
	return s
}

// RecommendLawyer runs the recommendLawyer flow
func (s *RecommendationService) RecommendLawyer(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResult, error) {
	if err := schema.Struct(req); err != nil {
		return nil, invalid(flowRecommendLawyer, err)
	}
	if s.tools == nil {
		return nil, &FlowError{Flow: flowRecommendLawyer, Kind: KindToolExecution, Err: errors.New("expert finder not set")}
	}

	prompt, err := render(recommendLawyerTemplate, map[string]any{
		"LegalNeeds":           req.LegalNeeds,
		"Industry":             req.Industry,
		"OtherRelevantFactors": req.OtherRelevantFactors,
		"Expertises":           models.Expertises,
		"Tool":                 FindLegalExpertTool,
		"NoExpert":             models.NoExpertFound,
		"NA":                   models.NotAvailable,
		"OutputSchema":         recommendationShape.Describe(),
	})
	if err != nil {
		return nil, flowErr(flowRecommendLawyer, KindGeneration, fmt.Errorf("render prompt: %w", err))
	}

	s.cfg.logger.Info("Flow started", zap.String("flow", flowRecommendLawyer), zap.String("industry", req.Industry))

	ex, err := s.cfg.converse(ctx, flowRecommendLawyer, &llm.Request{
		Messages: []llm.Message{llm.UserText(prompt)},
		Tools:    s.tools.Declarations(),
	}, s.tools)
	if err != nil {
		s.cfg.logger.Error("Flow failed", zap.String("flow", flowRecommendLawyer), zap.Error(err))
		return nil, err
	}

	var result models.RecommendationResult
	if err := decodeOutput(ex.Text, recommendationShape, &result); err != nil {
		return nil, invalid(flowRecommendLawyer, err)
	}

	matches, err := expertMatches(ex.ToolResults)
	if err != nil {
		return nil, flowErr(flowRecommendLawyer, KindToolExecution, err)
	}
	if err := groundRecommendation(&result, matches); err != nil {
		return nil, invalid(flowRecommendLawyer, err)
	}
	if err := schema.Struct(result); err != nil {
		return nil, invalid(flowRecommendLawyer, err)
	}

	s.cfg.logger.Info("Flow finished",
		zap.String("flow", flowRecommendLawyer),
		zap.Int("tool_rounds", ex.Rounds),
		zap.Bool("matched", result.Matched()),
	)
	return &result, nil
}

func expertMatches(results []llm.ToolResult) ([]models.ExpertMatch, error) {
	var matches []models.ExpertMatch
	for _, r := range results {
		if r.Name != FindLegalExpertTool {
			continue
		}
		var m models.ExpertMatch
		if err := json.Unmarshal(r.Output, &m); err != nil {
			return nil, fmt.Errorf("decode %s result: %w", FindLegalExpertTool, err)
		}
		matches = append(matches, m)
	}
	return matches, nil
}

// groundRecommendation replaces the directory fields of result with what the
// tool actually returned. A sentinel answer needs at least one lookup and no
// lookup that found someone; a named lawyer must be one the tool returned
func groundRecommendation(result *models.RecommendationResult, matches []models.ExpertMatch) error {
	if result.LawyerName == models.NoExpertFound {
		if len(matches) == 0 {
			return fmt.Errorf("%w: %s was never called", ErrUngroundedNoMatch, FindLegalExpertTool)
		}
		for _, m := range matches {
			if m.Found() {
				return fmt.Errorf("%w: directory returned %q", ErrUngroundedNoMatch, m.LawyerName)
			}
		}
		result.LawyerID = ""
		result.LawFirm = models.NotAvailable
		result.Expertise = models.NotAvailable
		result.ContactInformation = models.NotAvailable
		return nil
	}

	for _, m := range matches {
		if m.Found() && m.LawyerName == result.LawyerName {
			result.LawyerID = m.LawyerID
			result.LawFirm = m.LawFirm
			result.Expertise = m.Expertise
			result.ContactInformation = m.ContactInformation
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUngroundedLawyer, result.LawyerName)
}
