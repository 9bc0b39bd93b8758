package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"legallyai-backend/llm"
	"legallyai-backend/models"
	"legallyai-backend/repository"
	"legallyai-backend/schema"

	"go.uber.org/zap"
)

// FindLegalExpertTool is the name the model uses to call the directory lookup
const FindLegalExpertTool = "findLegalExpert"

// ExpertFinder looks up the first lawyer, in directory order, holding an
// expertise tag. It returns repository.ErrNotFound when nobody does
type ExpertFinder interface {
	FindByExpertise(ctx context.Context, tag string) (*models.Lawyer, error)
}

type findExpertArgs struct {
	ExpertiseQuery string `json:"expertiseQuery"`
}

var findExpertParams = schema.Object(map[string]*schema.Schema{
	"expertiseQuery": schema.RequiredString(`The area of legal expertise to search for (e.g., "Corporate Law", "Intellectual Property").`),
}, "expertiseQuery")

// FindLegalExpertDeclaration describes the directory lookup to the model
var FindLegalExpertDeclaration = llm.ToolDeclaration{
	Name: FindLegalExpertTool,
	Description: "Finds a lawyer in the LegallyAI directory whose expertise exactly matches the query. " +
		`Returns lawyerName "No Specific Expert Found" with every other field "N/A" when nobody matches.`,
	Parameters: findExpertParams,
}

// FindLegalExpert issues one directory read for query. The match is exact and
// case-sensitive; no match yields the sentinel, never another lawyer
func FindLegalExpert(ctx context.Context, finder ExpertFinder, query string) (models.ExpertMatch, error) {
	lawyer, err := finder.FindByExpertise(ctx, query)
	if errors.Is(err, repository.ErrNotFound) {
		return models.NoExpertMatch(), nil
	}
	if err != nil {
		return models.ExpertMatch{}, fmt.Errorf("directory lookup failed: %w", err)
	}
	if !lawyer.HasExpertise(query) {
		return models.NoExpertMatch(), nil
	}

	firm := lawyer.Firm
	if firm == "" {
		firm = models.NotAvailable
	}
	return models.ExpertMatch{
		LawyerID:           lawyer.ID.String(),
		LawyerName:         lawyer.Name,
		LawFirm:            firm,
		Expertise:          query,
		ContactInformation: models.ExpertContactPlaceholder,
	}, nil
}

// newFindLegalExpertExecutor adapts FindLegalExpert to the tool registry. Each
// call runs under its own timeout
func newFindLegalExpertExecutor(finder ExpertFinder, timeout time.Duration, logger *zap.Logger) ToolExecutor {
	return func(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
		if err := findExpertParams.ValidateJSON(raw); err != nil {
			return nil, err
		}
		var args findExpertArgs
		if err := json.Unmarshal(raw, &args); err != nil {
			return nil, err
		}

		callCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		match, err := FindLegalExpert(callCtx, finder, args.ExpertiseQuery)
		if err != nil {
			logger.Error("findLegalExpert failed",
				zap.String("expertise_query", args.ExpertiseQuery),
				zap.Error(err),
			)
			return nil, err
		}
		logger.Info("findLegalExpert",
			zap.String("expertise_query", args.ExpertiseQuery),
			zap.Bool("found", match.Found()),
		)
		return json.Marshal(match)
	}
}
