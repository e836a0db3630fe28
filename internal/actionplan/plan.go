// Package actionplan builds the four-week launch plan for the best-scoring
// niche and tracks self-reported progress against it.
package actionplan

import (
	"fmt"
	"math"

	"niche-finder/internal/models"
)

const (
	Weeks = 4

	// WeekCompletePercent marks a week as done.
	WeekCompletePercent = 80

	completedOverall = 80.0
	onTrackOverall   = 60.0
)

var validationTasks = []string{
	"发布作品到相关平台",
	"收集用户反馈",
	"优化产品/服务",
	"制定下一步计划",
}

// Build lays out the plan for niche. The first three weeks are derived from
// the niche's learning resources, tools and launch steps; the fourth week is
// the same market validation for every niche.
func Build(niche *models.Niche, score float64) *models.ActionPlan {
	if niche == nil {
		return nil
	}

	learning := make([]string, 0, len(niche.LearningResources))
	for _, r := range niche.LearningResources {
		learning = append(learning, "学习"+r)
	}

	tools := make([]string, 0, len(niche.Tools))
	for _, tool := range niche.Tools {
		tools = append(tools, "注册并试用"+tool)
	}

	launch := append([]string{}, niche.LaunchSteps...)
	validation := append([]string{}, validationTasks...)

	return &models.ActionPlan{
		NicheName: niche.Name,
		Score:     score,
		Weeks: []models.WeekPlan{
			{
				Week:     1,
				Title:    "学习准备",
				Goal:     "掌握基础知识和技能",
				Tasks:    learning,
				Weekdays: "1-2小时学习",
				Weekend:  "3-4小时实践",
			},
			{
				Week:     2,
				Title:    "工具熟悉",
				Goal:     "熟悉相关工具和平台",
				Tasks:    tools,
				Weekdays: "1小时工具学习",
				Weekend:  "2-3小时深度体验",
			},
			{
				Week:     3,
				Title:    "项目实践",
				Goal:     "完成第一个小项目",
				Tasks:    launch,
				Weekdays: "2小时项目开发",
				Weekend:  "4-5小时集中攻关",
			},
			{
				Week:     4,
				Title:    "市场验证",
				Goal:     "验证市场需求，获得反馈",
				Tasks:    validation,
				Weekdays: "1小时反馈收集",
				Weekend:  "3小时优化改进",
			},
		},
	}
}

// Progress scores self-reported completion. percents holds one value per
// week in order; missing weeks count as 0 and values are clamped to 0..100.
func Progress(percents []int) (*models.PlanProgress, error) {
	if len(percents) > Weeks {
		return nil, fmt.Errorf("got progress for %d weeks, plan has %d", len(percents), Weeks)
	}

	out := &models.PlanProgress{Weeks: make([]models.WeekProgress, Weeks)}
	total := 0
	for i := 0; i < Weeks; i++ {
		p := 0
		if i < len(percents) {
			p = clamp(percents[i])
		}
		out.Weeks[i] = models.WeekProgress{
			Week:     i + 1,
			Percent:  p,
			Complete: p >= WeekCompletePercent,
		}
		total += p
	}

	out.Overall = math.Round(float64(total)/Weeks*10) / 10
	out.Status = StatusFor(out.Overall)
	return out, nil
}

func StatusFor(overall float64) models.ProgressStatus {
	switch {
	case overall >= completedOverall:
		return models.ProgressCompleted
	case overall >= onTrackOverall:
		return models.ProgressOnTrack
	default:
		return models.ProgressBehind
	}
}

func clamp(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
