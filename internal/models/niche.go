// internal/models/niche.go
package models

// Tier is an ordinal category used by catalog records and profiles.
type Tier string

const (
	TierExtremelyLow Tier = "极低"
	TierLow          Tier = "低"
	TierMedium       Tier = "中等"
	TierHigh         Tier = "高"
)

// OrdinalTiers is the closed set accepted by catalog validation and the scorer.
var OrdinalTiers = []Tier{TierLow, TierMedium, TierHigh}

// IsOrdinal reports whether t belongs to the three-level scale.
func (t Tier) IsOrdinal() bool {
	for _, o := range OrdinalTiers {
		if t == o {
			return true
		}
	}
	return false
}

// Niche is one catalog record. Records are treated as immutable once loaded.
type Niche struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	RequiredSkills    []string `json:"required_skills"`
	TimeInvestment    Tier     `json:"time_investment"`
	InvestmentCost    Tier     `json:"investment_cost"`
	SuitedAudiences   []string `json:"suited_audiences"`
	Demand            Tier     `json:"demand,omitempty"`
	Competition       Tier     `json:"competition,omitempty"`
	IncomePotential   Tier     `json:"income_potential,omitempty"`
	Tools             []string `json:"tools,omitempty"`
	LearningResources []string `json:"learning_resources,omitempty"`
	LaunchSteps       []string `json:"launch_steps,omitempty"`
	// ExtendedFields names tier fields allowed to hold a value outside OrdinalTiers.
	ExtendedFields []string `json:"extended_fields,omitempty"`
}

// TrendSeries holds the sample demand index for one niche.
type TrendSeries struct {
	Niche  string `json:"niche"`
	Values []int  `json:"values"`
}

// TrendSample is the hardcoded market trend table shipped with the catalog.
type TrendSample struct {
	Months []string      `json:"months"`
	Series []TrendSeries `json:"series"`
}
