package calculatecompatibilityscore

import (
	"niche-finder/internal/common/validation"
	"niche-finder/internal/models"
)

type Input struct {
	SessionID string              `json:"sessionId,omitempty"`
	Profile   *models.UserProfile `json:"profile,omitempty"`
	NicheName string              `json:"nicheName"`
}

type Output struct {
	NicheName string                `json:"nicheName"`
	Score     float64               `json:"score"`
	Breakdown models.ScoreBreakdown `json:"breakdown"`
	Advice    models.Advice         `json:"advice"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {Type: "string", MinLength: validation.IntPtr(1)},
			"profile":   profileProperty(),
			"nicheName": {
				Type:        "string",
				Description: "catalog record to score",
				MinLength:   validation.IntPtr(1),
			},
		},
		Required:             []string{"nicheName"},
		AdditionalProperties: true,
	}
}

func profileProperty() validation.Property {
	list := &validation.Property{Type: "string"}
	return validation.Property{
		Type:        "object",
		Description: "inline profile, used instead of the session profile",
		Properties: map[string]validation.Property{
			"skills":             {Type: "array", Items: list},
			"interests":          {Type: "array", Items: list},
			"timeAvailability":   {Type: "string"},
			"investmentCapacity": {Type: "string"},
		},
	}
}
