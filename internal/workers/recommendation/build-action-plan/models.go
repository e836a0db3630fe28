package buildactionplan

import (
	"niche-finder/internal/actionplan"
	"niche-finder/internal/common/validation"
	"niche-finder/internal/models"
)

type Input struct {
	SessionID string              `json:"sessionId,omitempty"`
	Profile   *models.UserProfile `json:"profile,omitempty"`
	// NicheName plans for a chosen niche instead of the best-ranked one.
	NicheName string              `json:"nicheName,omitempty"`
	// Progress is the self-reported completion per week, in week order.
	Progress  []int               `json:"progress,omitempty"`
}

type Output struct {
	ActionPlan   *models.ActionPlan   `json:"actionPlan"`
	Alternatives []models.ActionPlan  `json:"alternatives"`
	Progress     *models.PlanProgress `json:"progress,omitempty"`
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
			"nicheName": {Type: "string", MinLength: validation.IntPtr(1)},
			"progress": {
				Type:        "array",
				Description: "percent complete per week",
				Items: &validation.Property{
					Type:    "integer",
					Minimum: validation.FloatPtr(0),
					Maximum: validation.FloatPtr(100),
				},
				MaxItems: validation.IntPtr(actionplan.Weeks),
			},
		},
		AdditionalProperties: true,
	}
}
