package rankniches

import (
	"niche-finder/internal/common/validation"
	"niche-finder/internal/models"
)

type Input struct {
	SessionID string              `json:"sessionId,omitempty"`
	Profile   *models.UserProfile `json:"profile,omitempty"`
	Limit     int                 `json:"limit,omitempty"`
}

type Output struct {
	Recommendations []models.ScoredRecommendation `json:"recommendations"`
	TopNiche        string                        `json:"topNiche"`
	TopScore        float64                       `json:"topScore"`
	TotalNiches     int                           `json:"totalNiches"`
}

func GetInputSchema() validation.JSONSchema {
	list := &validation.Property{Type: "string"}
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {Type: "string", MinLength: validation.IntPtr(1)},
			"profile": {
				Type: "object",
				Properties: map[string]validation.Property{
					"skills":             {Type: "array", Items: list},
					"interests":          {Type: "array", Items: list},
					"timeAvailability":   {Type: "string"},
					"investmentCapacity": {Type: "string"},
				},
			},
			"limit": {
				Type:        "integer",
				Description: "number of recommendations to return, 0 for all",
				Minimum:     validation.FloatPtr(0),
			},
		},
		AdditionalProperties: true,
	}
}
