// internal/models/plan.go
package models

// WeekPlan is one week of the launch plan.
type WeekPlan struct {
	Week     int      `json:"week"`
	Title    string   `json:"title"`
	Goal     string   `json:"goal"`
	Tasks    []string `json:"tasks"`
	Weekdays string   `json:"weekdays"`
	Weekend  string   `json:"weekend"`
}

// ActionPlan is the multi-week plan built for the best-scoring niche.
type ActionPlan struct {
	NicheName string     `json:"nicheName"`
	Score     float64    `json:"score"`
	Weeks     []WeekPlan `json:"weeks"`
}

// ProgressStatus summarizes overall plan progress.
type ProgressStatus string

const (
	ProgressCompleted ProgressStatus = "completed"
	ProgressOnTrack   ProgressStatus = "on_track"
	ProgressBehind    ProgressStatus = "behind"
)

// WeekProgress is the self-reported completion of one week.
type WeekProgress struct {
	Week     int  `json:"week"`
	Percent  int  `json:"percent"`
	Complete bool `json:"complete"`
}

// PlanProgress aggregates week progress.
type PlanProgress struct {
	Weeks   []WeekProgress `json:"weeks"`
	Overall float64        `json:"overall"`
	Status  ProgressStatus `json:"status"`
}

// MatrixPoint is one niche on the opportunity matrix.
type MatrixPoint struct {
	Niche           string  `json:"niche"`
	Demand          float64 `json:"demand"`
	Competition     float64 `json:"competition"`
	IncomePotential float64 `json:"incomePotential"`
	InvestmentCost  float64 `json:"investmentCost"`
	TimeInvestment  float64 `json:"timeInvestment"`
	CostLabel       Tier    `json:"costLabel"`
}

// TrendGrowth is the growth over the sample window for one niche.
type TrendGrowth struct {
	Niche         string `json:"niche"`
	First         int    `json:"first"`
	Last          int    `json:"last"`
	GrowthPercent int    `json:"growthPercent"`
	Class         string `json:"class"`
}
