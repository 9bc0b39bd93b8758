package models

// Placeholder values used when the directory has no lawyer for a request
const (
	NoExpertFound = "No Specific Expert Found"
	NotAvailable  = "N/A"

	// ExpertContactPlaceholder stands in for contact details, which stay private
	// until the client reaches the lawyer through the platform
	ExpertContactPlaceholder = "Contact through the LegallyAI platform"
)

// LegalDisclaimer is attached verbatim to every law suggestion
const LegalDisclaimer = "This information is for educational purposes only and does not constitute legal advice. " +
	"Please consult with a qualified legal professional for advice on your specific situation."

// ExpertMatch is the result of a directory lookup by expertise. When nothing
// matches it holds the NoExpertFound sentinel
type ExpertMatch struct {
	LawyerID           string `json:"lawyerId,omitempty"`
	LawyerName         string `json:"lawyerName"`
	LawFirm            string `json:"lawFirm"`
	Expertise          string `json:"expertise"`
	ContactInformation string `json:"contactInformation"`
}

// NoExpertMatch returns the sentinel match
func NoExpertMatch() ExpertMatch {
	return ExpertMatch{
		LawyerName:         NoExpertFound,
		LawFirm:            NotAvailable,
		Expertise:          NotAvailable,
		ContactInformation: NotAvailable,
	}
}

// Found reports whether the match names a real lawyer
func (m ExpertMatch) Found() bool {
	return m.LawyerName != NoExpertFound
}

// RecommendationRequest describes what a client needs from a lawyer
type RecommendationRequest struct {
	LegalNeeds           string `json:"legalNeeds" validate:"notblank"`
	Industry             string `json:"industry" validate:"notblank"`
	OtherRelevantFactors string `json:"otherRelevantFactors,omitempty"`
}

// RecommendationResult is the recommended lawyer, or the sentinel values with
// an explanation when no specialist was found
type RecommendationResult struct {
	LawyerID           string `json:"lawyerId,omitempty"`
	LawyerName         string `json:"lawyerName" validate:"notblank"`
	LawFirm            string `json:"lawFirm" validate:"notblank"`
	Expertise          string `json:"expertise" validate:"notblank"`
	ContactInformation string `json:"contactInformation" validate:"notblank"`
	Summary            string `json:"summary" validate:"notblank"`
}

// Matched reports whether a real lawyer was recommended
func (r RecommendationResult) Matched() bool {
	return r.LawyerName != NoExpertFound
}

// LawSuggestionRequest describes a dispute
type LawSuggestionRequest struct {
	DisputeDescription string `json:"disputeDescription" validate:"notblank"`
}

// LawSuggestion is one applicable law
type LawSuggestion struct {
	Law         string `json:"law" validate:"notblank"`
	Section     string `json:"section,omitempty"`
	Explanation string `json:"explanation" validate:"notblank"`
}

// LawSuggestionResult lists applicable laws in order of relevance
type LawSuggestionResult struct {
	Suggestions        []LawSuggestion `json:"suggestions" validate:"min=1,dive"`
	ConcludingSolution string          `json:"concludingSolution" validate:"notblank"`
	Disclaimer         string          `json:"disclaimer" validate:"notblank"`
}

// AssistantRequest is a question for the legal assistant
type AssistantRequest struct {
	Query    string `json:"query" validate:"notblank"`
	TextOnly bool   `json:"textOnly,omitempty"` // skip speech synthesis
}

// AssistantResponse is the assistant's answer; AudioResponse is a
// data:audio/wav;base64 URI unless text-only was requested
type AssistantResponse struct {
	TextResponse  string `json:"textResponse" validate:"notblank"`
	AudioResponse string `json:"audioResponse,omitempty"`
}
