// Package assessment turns a questionnaire submission into a UserProfile.
package assessment

import (
	"strings"
	"time"

	apperrors "niche-finder/internal/common/errors"
	"niche-finder/internal/common/validation"
	"niche-finder/internal/models"
)

// TimestampLayout is the format of UserProfile.AssessedAt.
const TimestampLayout = "2006-01-02 15:04:05"

// Questionnaire option lists. Choice answers must come from these.
var (
	AgeBands        = []string{"18-25岁", "26-35岁", "36-45岁", "46岁以上"}
	EducationLevels = []string{"高中", "大专", "本科", "硕士", "博士"}
	ExperienceBands = []string{"无经验", "1-3年", "4-6年", "7-10年", "10年以上"}
	TimeBands       = []string{"5小时以下", "5-10小时", "10-20小时", "20小时以上"}
	InvestmentBands = []string{"1000元以下", "1000-5000元", "5000-20000元", "20000元以上"}
	IncomeGoals     = []string{"每月1000元以下", "每月1000-3000元", "每月3000-8000元", "每月8000元以上"}
	RiskTolerances  = []string{"保守型", "稳健型", "积极型", "激进型"}

	SkillOptions = []string{
		"编程基础", "写作能力", "设计能力", "营销能力", "项目管理", "数据分析",
		"沟通能力", "创意思维", "学习能力", "时间管理", "客户服务", "销售能力",
	}
	InterestOptions = []string{
		"技术开发", "内容创作", "教育培训", "咨询服务", "销售推广", "数据分析",
		"创意设计", "写作编辑", "视频制作", "音频制作", "游戏开发", "电商运营",
	}
)

var timeTiers = map[string]models.Tier{
	"5小时以下":   models.TierLow,
	"5-10小时":  models.TierMedium,
	"10-20小时": models.TierHigh,
	"20小时以上":  models.TierHigh,
}

var investmentTiers = map[string]models.Tier{
	"1000元以下":     models.TierLow,
	"1000-5000元":  models.TierMedium,
	"5000-20000元": models.TierHigh,
	"20000元以上":    models.TierHigh,
}

// TimeTier maps a weekly-hours answer onto the tier scale. Tier values pass
// through; anything else is returned verbatim and scores as medium.
func TimeTier(answer string) models.Tier {
	return toTier(answer, timeTiers)
}

// InvestmentTier maps a budget answer onto the tier scale, like TimeTier.
func InvestmentTier(answer string) models.Tier {
	return toTier(answer, investmentTiers)
}

func toTier(answer string, bands map[string]models.Tier) models.Tier {
	answer = strings.TrimSpace(answer)
	if t, ok := bands[answer]; ok {
		return t
	}
	return models.Tier(answer)
}

// Normalize builds the profile for a submission. It never fails; call
// Validate first to reject answers outside the questionnaire.
func Normalize(a models.Assessment, now time.Time) *models.UserProfile {
	return &models.UserProfile{
		Skills:             dedupe(a.Skills),
		Interests:          dedupe(a.Interests),
		TimeAvailability:   TimeTier(a.AvailableTime),
		InvestmentCapacity: InvestmentTier(a.Investment),
		Name:               strings.TrimSpace(a.Name),
		AgeBand:            a.AgeBand,
		Education:          a.Education,
		Occupation:         strings.TrimSpace(a.Occupation),
		ExperienceYears:    a.ExperienceYears,
		IncomeGoal:         a.IncomeGoal,
		RiskTolerance:      a.RiskTolerance,
		AssessedAt:         now.Format(TimestampLayout),
	}
}

// dedupe drops blanks and repeats, keeping first-seen order.
func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	return out
}

func tierNames(tiers ...models.Tier) []string {
	out := make([]string, len(tiers))
	for i, t := range tiers {
		out[i] = string(t)
	}
	return out
}

func withTiers(bands []string) []string {
	out := append([]string{}, bands...)
	return append(out, tierNames(models.OrdinalTiers...)...)
}

// InputSchema describes a questionnaire submission. Every answer is
// optional; answers that are given must come from the option lists. The
// time and budget answers also accept a tier directly.
func InputSchema() validation.JSONSchema {
	choice := func(desc string, options []string) validation.Property {
		return validation.Property{Type: "string", Description: desc, Enum: options}
	}
	multi := func(desc string, options []string) validation.Property {
		return validation.Property{
			Type:        "array",
			Description: desc,
			Items:       &validation.Property{Type: "string", Enum: options},
		}
	}

	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"name":            {Type: "string", MaxLength: validation.IntPtr(100)},
			"occupation":      {Type: "string", MaxLength: validation.IntPtr(100)},
			"age":             choice("age band", AgeBands),
			"education":       choice("education level", EducationLevels),
			"experienceYears": choice("work experience", ExperienceBands),
			"availableTime":   choice("weekly hours for the side business", withTiers(TimeBands)),
			"investment":      choice("budget for the side business", withTiers(InvestmentBands)),
			"incomeGoal":      choice("monthly income goal", IncomeGoals),
			"riskTolerance":   choice("risk tolerance", RiskTolerances),
			"skills":          multi("skills the user has", SkillOptions),
			"interests":       multi("areas of interest", InterestOptions),
		},
		AdditionalProperties: true,
	}
}

// Validate rejects answers outside the questionnaire.
func Validate(a models.Assessment) error {
	input, err := validation.ToMap(a)
	if err != nil {
		return apperrors.NewAssessmentValidationFailedError(err.Error())
	}

	result := validation.ValidateInput(input, InputSchema())
	if result.Valid {
		return nil
	}
	return apperrors.NewAssessmentValidationFailedError(strings.Join(result.GetErrorMessages(), "; ")).
		WithMetadata("invalidFields", fieldNames(result.Errors))
}

func fieldNames(errs []validation.ValidationError) []string {
	out := make([]string, 0, len(errs))
	seen := map[string]bool{}
	for _, e := range errs {
		name := e.Field
		if i := strings.Index(name, "."); i >= 0 {
			name = name[:i]
		}
		if !seen[name] {
			seen[name] = true
			out = append(out, name)
		}
	}
	return out
}
