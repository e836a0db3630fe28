package scoring

import (
	"sort"

	"niche-finder/internal/models"
)

// Rank scores every niche with DefaultWeights and orders the results by
// score, highest first.
func Rank(profile *models.UserProfile, niches []models.Niche) []models.ScoredRecommendation {
	return defaultScorer.Rank(profile, niches)
}

// Rank scores every niche and orders the results by score, highest first.
// Equal scores keep catalog order.
func (s *Scorer) Rank(profile *models.UserProfile, niches []models.Niche) []models.ScoredRecommendation {
	ranked := make([]models.ScoredRecommendation, 0, len(niches))
	for i := range niches {
		n := &niches[i]
		b := s.Breakdown(profile, n)
		ranked = append(ranked, models.ScoredRecommendation{
			NicheName:       n.Name,
			Score:           b.Total,
			Breakdown:       b,
			Description:     n.Description,
			RequiredSkills:  append([]string(nil), n.RequiredSkills...),
			IncomePotential: n.IncomePotential,
			InvestmentCost:  n.InvestmentCost,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})

	return ranked
}

// Top returns at most n leading entries. n <= 0 returns everything.
func Top(ranked []models.ScoredRecommendation, n int) []models.ScoredRecommendation {
	if n <= 0 || n >= len(ranked) {
		return ranked
	}
	return ranked[:n]
}
