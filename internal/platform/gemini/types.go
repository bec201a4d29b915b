package gemini

import "google.golang.org/genai"

// triageResponse mirrors the JSON the model is asked to produce for a
// triage analysis. Key names are part of the prompt contract.
type triageResponse struct {
	Summary          string   `json:"summary"`
	PotentialIssues  []string `json:"potentialIssues"`
	SuggestedActions []string `json:"suggestedActions"`
}

// validationResponse mirrors the JSON produced for a description
// sufficiency check.
type validationResponse struct {
	IsSufficient       bool   `json:"isSufficient"`
	ClarifyingQuestion string `json:"clarifyingQuestion"`
	Summary            string `json:"summary"`
}

// triageResponseSchema constrains the model output for Analyze calls.
var triageResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"summary": {Type: genai.TypeString},
		"potentialIssues": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"suggestedActions": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
	},
	Required: []string{"summary", "potentialIssues", "suggestedActions"},
}

// validationResponseSchema constrains the model output for
// ValidateDescription calls.
var validationResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"isSufficient":       {Type: genai.TypeBoolean},
		"clarifyingQuestion": {Type: genai.TypeString},
		"summary":            {Type: genai.TypeString},
	},
	Required: []string{"isSufficient", "clarifyingQuestion", "summary"},
}
