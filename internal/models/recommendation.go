// internal/models/recommendation.go
package models

// ScoreBreakdown holds the four weighted components and their rounded sum.
type ScoreBreakdown struct {
	SkillFit      float64 `json:"skillFit"`
	TimeFit       float64 `json:"timeFit"`
	InvestmentFit float64 `json:"investmentFit"`
	InterestFit   float64 `json:"interestFit"`
	Total         float64 `json:"total"`
}

// ScoredRecommendation is a niche projection with its compatibility score.
type ScoredRecommendation struct {
	NicheName       string         `json:"nicheName"`
	Score           float64        `json:"score"`
	Breakdown       ScoreBreakdown `json:"breakdown"`
	Description     string         `json:"description"`
	RequiredSkills  []string       `json:"requiredSkills"`
	IncomePotential Tier           `json:"incomePotential"`
	InvestmentCost  Tier           `json:"investmentCost"`
}

// SkillCoverage marks whether the user already has a required skill.
type SkillCoverage struct {
	Skill string `json:"skill"`
	Has   bool   `json:"has"`
}

// Advice is the coarse verdict shown next to a recommendation.
type Advice string

const (
	AdviceStrong  Advice = "strong"
	AdviceGood    Advice = "good"
	AdvicePrepare Advice = "prepare"
)

// Comparison is one entry of the top-N comparison view.
type Comparison struct {
	Rank           int                  `json:"rank"`
	Recommendation ScoredRecommendation `json:"recommendation"`
	Skills         []SkillCoverage      `json:"skills"`
	Advice         Advice               `json:"advice"`
}
