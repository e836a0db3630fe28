package catalog

import (
	"math"

	"niche-finder/internal/models"
)

// FastGrowthPercent is the growth over the sample window at which a niche
// counts as fast growing.
const FastGrowthPercent = 200

const (
	GrowthFast   = "fast"
	GrowthSteady = "steady"
)

// displayLevel places tiers on the chart axis. Unlike the scorer it gives
// the extremely-low tier its own point below low.
func displayLevel(t models.Tier) float64 {
	switch t {
	case models.TierExtremelyLow:
		return 0.5
	case models.TierLow:
		return 1
	case models.TierHigh:
		return 3
	default:
		return 2
	}
}

// OpportunityMatrix positions every niche on demand, competition, income,
// cost and time axes. Display data only.
func OpportunityMatrix(c *Catalog) []models.MatrixPoint {
	points := make([]models.MatrixPoint, 0, c.Len())
	for _, n := range c.niches {
		points = append(points, models.MatrixPoint{
			Niche:           n.Name,
			Demand:          displayLevel(n.Demand),
			Competition:     displayLevel(n.Competition),
			IncomePotential: displayLevel(n.IncomePotential),
			InvestmentCost:  displayLevel(n.InvestmentCost),
			TimeInvestment:  displayLevel(n.TimeInvestment),
			CostLabel:       n.InvestmentCost,
		})
	}
	return points
}

// TrendGrowth summarizes each trend series by its growth from the first to
// the last sample. Series with fewer than two points or a zero baseline
// report zero growth.
func TrendGrowth(c *Catalog) []models.TrendGrowth {
	out := make([]models.TrendGrowth, 0, len(c.trends.Series))
	for _, s := range c.trends.Series {
		g := models.TrendGrowth{Niche: s.Niche, Class: GrowthSteady}
		if len(s.Values) > 0 {
			g.First = s.Values[0]
			g.Last = s.Values[len(s.Values)-1]
		}
		if len(s.Values) >= 2 && g.First > 0 {
			g.GrowthPercent = int(math.Round(float64(g.Last-g.First) / float64(g.First) * 100))
		}
		if g.GrowthPercent >= FastGrowthPercent {
			g.Class = GrowthFast
		}
		out = append(out, g)
	}
	return out
}
