package comparetopniches

import (
	"niche-finder/internal/common/validation"
	"niche-finder/internal/models"
)

type Input struct {
	SessionID string              `json:"sessionId,omitempty"`
	Profile   *models.UserProfile `json:"profile,omitempty"`
	// Size overrides the configured comparison size.
	Size      int                 `json:"size,omitempty"`
}

type Output struct {
	Comparisons   []models.Comparison `json:"comparisons"`
	// MissingSkills lists required skills of the compared niches the user lacks, first-seen order.
	MissingSkills []string            `json:"missingSkills"`
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
			"size": {Type: "integer", Minimum: validation.FloatPtr(1), Maximum: validation.FloatPtr(10)},
		},
		AdditionalProperties: true,
	}
}
