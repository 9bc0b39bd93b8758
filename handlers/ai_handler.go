package handlers

import (
	"context"
	"net/http"

	"legallyai-backend/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LawyerRecommender runs the recommendLawyer flow
type LawyerRecommender interface {
	RecommendLawyer(ctx context.Context, req models.RecommendationRequest) (*models.RecommendationResult, error)
}

// LawSuggester runs the suggestLaw flow
type LawSuggester interface {
	SuggestLaw(ctx context.Context, req models.LawSuggestionRequest) (*models.LawSuggestionResult, error)
}

// LegalAssistant runs the legalAssistant flow
type LegalAssistant interface {
	Ask(ctx context.Context, req models.AssistantRequest) (*models.AssistantResponse, error)
}

// AIHandler exposes the AI flows over HTTP
type AIHandler struct {
	recommender LawyerRecommender
	suggester   LawSuggester
	assistant   LegalAssistant
	logger      *zap.Logger
}

// NewAIHandler creates a new AI handler
func NewAIHandler(recommender LawyerRecommender, suggester LawSuggester, assistant LegalAssistant, logger *zap.Logger) *AIHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AIHandler{
		recommender: recommender,
		suggester:   suggester,
		assistant:   assistant,
		logger:      logger,
	}
}

// recommendBody mirrors the recommendation form
type recommendBody struct {
	LegalNeeds           string `json:"legalNeeds" binding:"notblank,min=10"`
	Industry             string `json:"industry" binding:"notblank"`
	OtherRelevantFactors string `json:"otherRelevantFactors"`
}

// suggestBody mirrors the dispute form
type suggestBody struct {
	DisputeDescription string `json:"disputeDescription" binding:"notblank,min=20"`
}

type assistantBody struct {
	Query    string `json:"query" binding:"notblank"`
	TextOnly bool   `json:"textOnly"`
}

// RecommendLawyer handles POST /api/ai/recommend-lawyer
func (h *AIHandler) RecommendLawyer(c *gin.Context) {
	var body recommendBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.recommender.RecommendLawyer(c.Request.Context(), models.RecommendationRequest{
		LegalNeeds:           body.LegalNeeds,
		Industry:             body.Industry,
		OtherRelevantFactors: body.OtherRelevantFactors,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

// SuggestLaw handles POST /api/ai/suggest-law
func (h *AIHandler) SuggestLaw(c *gin.Context) {
	var body suggestBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.suggester.SuggestLaw(c.Request.Context(), models.LawSuggestionRequest{
		DisputeDescription: body.DisputeDescription,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}

// Assistant handles POST /api/ai/assistant
func (h *AIHandler) Assistant(c *gin.Context) {
	var body assistantBody
	if err := c.ShouldBindJSON(&body); err != nil {
		respondBindError(c, err)
		return
	}

	res, err := h.assistant.Ask(c.Request.Context(), models.AssistantRequest{
		Query:    body.Query,
		TextOnly: body.TextOnly,
	})
	if err != nil {
		respondServiceError(c, h.logger, err)
		return
	}
	respondOK(c, http.StatusOK, res)
}
