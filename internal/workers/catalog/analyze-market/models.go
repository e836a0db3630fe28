package analyzemarket

import (
	"niche-finder/internal/common/validation"
	"niche-finder/internal/models"
)

// Input optionally narrows the analysis to a set of niches.
type Input struct {
	Niches []string `json:"niches,omitempty"`
}

type Output struct {
	CatalogVersion    string               `json:"catalogVersion"`
	Months            []string             `json:"months"`
	OpportunityMatrix []models.MatrixPoint `json:"opportunityMatrix"`
	Trends            []models.TrendGrowth `json:"trends"`
	FastGrowing       []string             `json:"fastGrowing"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"niches": {
				Type:        "array",
				Description: "niche names to include, all when absent",
				Items:       &validation.Property{Type: "string", MinLength: validation.IntPtr(1)},
			},
		},
		AdditionalProperties: true,
	}
}
