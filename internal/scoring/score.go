// Package scoring computes profile/niche compatibility and ranks the catalog.
//
// Score and Rank are pure: every input is a parameter, nothing is cached and
// no error is ever returned. Missing or unknown categorical values degrade to
// the medium tier.
package scoring

import (
	"math"
	"strings"

	"niche-finder/internal/models"
)

// Scorer applies a fixed set of weights.
type Scorer struct {
	weights Weights
}

var defaultScorer = &Scorer{weights: DefaultWeights()}

// NewScorer returns a scorer for w. Zero weights select DefaultWeights.
func NewScorer(w Weights) (*Scorer, error) {
	if w.IsZero() {
		return &Scorer{weights: DefaultWeights()}, nil
	}
	if err := w.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: w}, nil
}

// Default returns the scorer with DefaultWeights.
func Default() *Scorer {
	return defaultScorer
}

// Weights returns the weights in use.
func (s *Scorer) Weights() Weights {
	return s.weights
}

// Level maps a tier onto the 1..3 scale. Anything outside the scale is medium.
func Level(t models.Tier) int {
	switch t {
	case models.TierLow:
		return 1
	case models.TierMedium:
		return 2
	case models.TierHigh:
		return 3
	default:
		return 2
	}
}

// Score returns the rounded total for profile against niche using DefaultWeights.
func Score(profile *models.UserProfile, niche *models.Niche) float64 {
	return defaultScorer.Breakdown(profile, niche).Total
}

// Score returns the rounded total for profile against niche.
func (s *Scorer) Score(profile *models.UserProfile, niche *models.Niche) float64 {
	return s.Breakdown(profile, niche).Total
}

// Breakdown returns every component. Components are rounded for display;
// Total is the rounded sum of the unrounded components.
func (s *Scorer) Breakdown(profile *models.UserProfile, niche *models.Niche) models.ScoreBreakdown {
	if profile == nil {
		profile = &models.UserProfile{}
	}
	if niche == nil {
		niche = &models.Niche{}
	}

	skill := s.skillFit(profile.Skills, niche.RequiredSkills)
	timeFit := tierFit(niche.TimeInvestment, profile.TimeAvailability, s.weights.Time)
	investment := tierFit(niche.InvestmentCost, profile.InvestmentCapacity, s.weights.Investment)
	interest := s.interestFit(profile.Interests, niche)

	return models.ScoreBreakdown{
		SkillFit:      round1(skill),
		TimeFit:       round1(timeFit),
		InvestmentFit: round1(investment),
		InterestFit:   round1(interest),
		Total:         round1(skill + timeFit + investment + interest),
	}
}

// skillFit is the matched share of required skills. An empty requirement
// list contributes nothing.
func (s *Scorer) skillFit(have, required []string) float64 {
	if len(required) == 0 {
		return 0
	}
	set := make(map[string]struct{}, len(have))
	for _, sk := range have {
		set[sk] = struct{}{}
	}
	matched := 0
	for _, req := range required {
		if _, ok := set[req]; ok {
			matched++
		}
	}
	return float64(matched) / float64(len(required)) * s.weights.Skill
}

// tierFit yields the full weight on an exact match, half on a one-step
// mismatch and zero for low against high.
func tierFit(nicheTier, userTier models.Tier, weight float64) float64 {
	diff := math.Abs(float64(Level(nicheTier) - Level(userTier)))
	return (1 - diff/2) * weight
}

// interestFit counts interests found in the description (substring) or in
// the audience list (exact), capped at the interest weight.
func (s *Scorer) interestFit(interests []string, niche *models.Niche) float64 {
	hits := 0
	seen := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		if _, dup := seen[interest]; dup {
			continue
		}
		seen[interest] = struct{}{}
		if strings.Contains(niche.Description, interest) || contains(niche.SuitedAudiences, interest) {
			hits++
		}
	}
	return math.Min(float64(hits)*s.weights.InterestPerHit, s.weights.Interest)
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
