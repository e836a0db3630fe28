// test/e2e/journey_test.go
package e2e

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"niche-finder/internal/catalog"
	"niche-finder/internal/common/config"
	"niche-finder/internal/common/errors"
	"niche-finder/internal/common/logger"
	"niche-finder/internal/models"
	"niche-finder/internal/scoring"
	"niche-finder/internal/session"
	"niche-finder/pkg/registry"

	sa "niche-finder/internal/workers/assessment/submit-assessment"
	am "niche-finder/internal/workers/catalog/analyze-market"
	bap "niche-finder/internal/workers/recommendation/build-action-plan"
	ccs "niche-finder/internal/workers/recommendation/calculate-compatibility-score"
	ctn "niche-finder/internal/workers/recommendation/compare-top-niches"
	rn "niche-finder/internal/workers/recommendation/rank-niches"
)

var configDir = filepath.Join("..", "..", "configs")

type workers struct {
	submit  *sa.Handler
	score   *ccs.Handler
	rank    *rn.Handler
	compare *ctn.Handler
	plan    *bap.Handler
	market  *am.Handler
	mr      *miniredis.Miniredis
}

func loadConfig(t *testing.T) *config.Config {
	t.Helper()
	t.Setenv("ZEEBE_ADDRESS", "localhost:26500")
	t.Setenv("REDIS_ADDRESS", "localhost:6379")

	cfg, err := config.LoadFromFile(filepath.Join(configDir, "config.yaml"))
	require.NoError(t, err)
	return cfg
}

func setupWorkers(t *testing.T, cfg *config.Config) *workers {
	t.Helper()
	log := logger.NewTestLogger(t)

	cat, err := catalog.Load(context.Background(), cfg.Catalog, nil)
	require.NoError(t, err)

	w := cfg.Scoring.Weights
	scorer, err := scoring.NewScorer(scoring.Weights{
		Skill:          w.Skill,
		Time:           w.Time,
		Investment:     w.Investment,
		Interest:       w.Interest,
		InterestPerHit: w.InterestPerHit,
	})
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	sessions := session.NewStore(client, cfg.Session, log)

	out := &workers{mr: mr}

	out.submit, err = sa.NewHandler(sa.HandlerOptions{AppConfig: cfg, Logger: log, Sessions: sessions})
	require.NoError(t, err)
	out.score, err = ccs.NewHandler(ccs.HandlerOptions{AppConfig: cfg, Logger: log, Catalog: cat, Scorer: scorer, Sessions: sessions})
	require.NoError(t, err)
	out.rank, err = rn.NewHandler(rn.HandlerOptions{AppConfig: cfg, Logger: log, Catalog: cat, Scorer: scorer, Sessions: sessions})
	require.NoError(t, err)
	out.compare, err = ctn.NewHandler(ctn.HandlerOptions{AppConfig: cfg, Logger: log, Catalog: cat, Scorer: scorer, Sessions: sessions})
	require.NoError(t, err)
	out.plan, err = bap.NewHandler(bap.HandlerOptions{AppConfig: cfg, Logger: log, Catalog: cat, Scorer: scorer, Sessions: sessions})
	require.NoError(t, err)
	out.market, err = am.NewHandler(am.HandlerOptions{AppConfig: cfg, Logger: log, Catalog: cat})
	require.NoError(t, err)

	return out
}

// ==========================
// Configuration
// ==========================

func TestShippedConfig(t *testing.T) {
	cfg := loadConfig(t)

	assert.Equal(t, "niche-finder", cfg.App.Name)
	assert.Equal(t, catalog.SourceEmbedded, cfg.Catalog.Source)
	assert.Equal(t, 86400, cfg.Session.TTL)

	for _, taskType := range []string{sa.TaskType, ccs.TaskType, rn.TaskType, ctn.TaskType, bap.TaskType, am.TaskType} {
		wc, ok := cfg.Workers[taskType]
		require.True(t, ok, "no worker config for %s", taskType)
		assert.True(t, wc.Enabled, taskType)
	}
}

func TestShippedActivityRegistry(t *testing.T) {
	reg, err := registry.LoadRegistry(filepath.Join(configDir, "activity-registry.json"))
	require.NoError(t, err)

	taskTypes := map[string]bool{
		sa.TaskType: true, ccs.TaskType: true, rn.TaskType: true,
		ctn.TaskType: true, bap.TaskType: true, am.TaskType: true,
	}
	codes := map[string]bool{}
	for code := range errors.BPMNErrorMapping {
		codes[string(code)] = true
	}

	require.NoError(t, reg.Validate(taskTypes, codes))
	assert.Empty(t, reg.Missing(taskTypes))
}

// ==========================
// User Journey
// ==========================

func TestUserJourney(t *testing.T) {
	w := setupWorkers(t, loadConfig(t))
	ctx := context.Background()

	submitted, err := w.submit.Execute(ctx, &sa.Input{Assessment: models.Assessment{
		Name:          "王五",
		AvailableTime: "10-20小时",
		Investment:    "1000-5000元",
		Skills:        []string{"编程基础", "数据分析"},
		Interests:     []string{"技术开发"},
	}})
	require.NoError(t, err)
	require.NotEmpty(t, submitted.SessionID)
	assert.Equal(t, models.TierHigh, submitted.Profile.TimeAvailability)
	assert.Equal(t, models.TierMedium, submitted.Profile.InvestmentCapacity)
	sessionID := submitted.SessionID

	ranked, err := w.rank.Execute(ctx, &rn.Input{SessionID: sessionID})
	require.NoError(t, err)
	assert.Equal(t, "AI应用开发", ranked.TopNiche)
	assert.Equal(t, 53.3, ranked.TopScore)
	assert.Equal(t, 6, ranked.TotalNiches)

	score, err := w.score.Execute(ctx, &ccs.Input{SessionID: sessionID, NicheName: ranked.TopNiche})
	require.NoError(t, err)
	assert.Equal(t, ranked.TopScore, score.Score)

	compared, err := w.compare.Execute(ctx, &ctn.Input{SessionID: sessionID})
	require.NoError(t, err)
	require.Len(t, compared.Comparisons, 3)
	assert.Equal(t, ranked.Recommendations[0].NicheName, compared.Comparisons[0].Recommendation.NicheName)
	assert.Equal(t, ranked.Recommendations[2].NicheName, compared.Comparisons[2].Recommendation.NicheName)

	plan, err := w.plan.Execute(ctx, &bap.Input{SessionID: sessionID})
	require.NoError(t, err)
	assert.Equal(t, ranked.TopNiche, plan.ActionPlan.NicheName)
	assert.Len(t, plan.ActionPlan.Weeks, 4)

	market, err := w.market.Execute(ctx, &am.Input{Niches: []string{ranked.TopNiche}})
	require.NoError(t, err)
	assert.Equal(t, []string{"AI应用开发"}, market.FastGrowing)
}

func TestUserJourney_ReassessmentChangesRanking(t *testing.T) {
	w := setupWorkers(t, loadConfig(t))
	ctx := context.Background()

	first, err := w.submit.Execute(ctx, &sa.Input{Assessment: models.Assessment{
		AvailableTime: "10-20小时",
		Investment:    "1000-5000元",
		Skills:        []string{"编程基础", "数据分析"},
	}})
	require.NoError(t, err)

	second, err := w.submit.Execute(ctx, &sa.Input{
		SessionID: first.SessionID,
		Assessment: models.Assessment{
			AvailableTime: "5-10小时",
			Investment:    "1000元以下",
			Skills:        []string{"写作能力", "创意思维"},
		},
	})
	require.NoError(t, err)
	assert.True(t, second.Replaced)
	assert.Equal(t, first.SessionID, second.SessionID)

	ranked, err := w.rank.Execute(ctx, &rn.Input{SessionID: first.SessionID, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, "内容创作", ranked.TopNiche)
}

func TestUserJourney_SessionLost(t *testing.T) {
	w := setupWorkers(t, loadConfig(t))
	ctx := context.Background()

	submitted, err := w.submit.Execute(ctx, &sa.Input{Assessment: models.Assessment{
		AvailableTime: "10-20小时",
		Investment:    "1000-5000元",
		Skills:        []string{"编程基础"},
	}})
	require.NoError(t, err)

	w.mr.FlushAll()

	_, err = w.rank.Execute(ctx, &rn.Input{SessionID: submitted.SessionID})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeProfileNotFound, errors.AsStandardError(err).Code)
}
