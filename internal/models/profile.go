// internal/models/profile.go
package models

// UserProfile is the assessment result for one session. Only Skills, Interests,
// TimeAvailability and InvestmentCapacity take part in scoring.
type UserProfile struct {
	Skills             []string `json:"skills"`
	Interests          []string `json:"interests"`
	TimeAvailability   Tier     `json:"timeAvailability"`
	InvestmentCapacity Tier     `json:"investmentCapacity"`

	Name            string `json:"name,omitempty"`
	AgeBand         string `json:"age,omitempty"`
	Education       string `json:"education,omitempty"`
	Occupation      string `json:"occupation,omitempty"`
	ExperienceYears string `json:"experienceYears,omitempty"`
	IncomeGoal      string `json:"incomeGoal,omitempty"`
	RiskTolerance   string `json:"riskTolerance,omitempty"`
	AssessedAt      string `json:"assessmentDate,omitempty"`
}

// HasSkill reports whether the profile declares skill.
func (p *UserProfile) HasSkill(skill string) bool {
	for _, s := range p.Skills {
		if s == skill {
			return true
		}
	}
	return false
}

// Assessment is a raw questionnaire submission before normalization.
type Assessment struct {
	Name            string   `json:"name,omitempty"`
	AgeBand         string   `json:"age,omitempty"`
	Education       string   `json:"education,omitempty"`
	Occupation      string   `json:"occupation,omitempty"`
	ExperienceYears string   `json:"experienceYears,omitempty"`
	AvailableTime   string   `json:"availableTime,omitempty"`
	Skills          []string `json:"skills,omitempty"`
	Interests       []string `json:"interests,omitempty"`
	Investment      string   `json:"investment,omitempty"`
	IncomeGoal      string   `json:"incomeGoal,omitempty"`
	RiskTolerance   string   `json:"riskTolerance,omitempty"`
}
