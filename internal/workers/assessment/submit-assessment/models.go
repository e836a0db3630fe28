package submitassessment

import (
	"niche-finder/internal/common/validation"
	"niche-finder/internal/models"
)

// Input carries one questionnaire submission. A sessionId replaces the
// profile of that session instead of opening a new one.
type Input struct {
	SessionID  string            `json:"sessionId,omitempty"`
	Assessment models.Assessment `json:"assessment"`
}

type Output struct {
	SessionID        string              `json:"sessionId"`
	Profile          *models.UserProfile `json:"profile"`
	Replaced         bool                `json:"replaced"`
	ExpiresInSeconds int                 `json:"expiresInSeconds"`
}

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"sessionId": {
				Type:        "string",
				Description: "existing session to replace",
				MinLength:   validation.IntPtr(1),
			},
			"assessment": {
				Type:        "object",
				Description: "questionnaire answers",
			},
		},
		Required:             []string{"assessment"},
		AdditionalProperties: true,
	}
}
