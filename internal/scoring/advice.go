package scoring

import "niche-finder/internal/models"

const (
	strongThreshold = 80.0
	goodThreshold   = 60.0
)

// AdviceFor maps a score onto the recommendation verdict.
func AdviceFor(score float64) models.Advice {
	switch {
	case score >= strongThreshold:
		return models.AdviceStrong
	case score >= goodThreshold:
		return models.AdviceGood
	default:
		return models.AdvicePrepare
	}
}

// Compare builds the comparison view for the first n ranked entries.
func Compare(profile *models.UserProfile, ranked []models.ScoredRecommendation, n int) []models.Comparison {
	if profile == nil {
		profile = &models.UserProfile{}
	}
	top := Top(ranked, n)
	out := make([]models.Comparison, 0, len(top))
	for i, rec := range top {
		skills := make([]models.SkillCoverage, 0, len(rec.RequiredSkills))
		for _, sk := range rec.RequiredSkills {
			skills = append(skills, models.SkillCoverage{Skill: sk, Has: profile.HasSkill(sk)})
		}
		out = append(out, models.Comparison{
			Rank:           i + 1,
			Recommendation: rec,
			Skills:         skills,
			Advice:         AdviceFor(rec.Score),
		})
	}
	return out
}
