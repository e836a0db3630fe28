package rankniches

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"niche-finder/internal/catalog"
	"niche-finder/internal/common/config"
	"niche-finder/internal/common/errors"
	"niche-finder/internal/common/logger"
	"niche-finder/internal/models"
	"niche-finder/internal/session"

	"github.com/alicebob/miniredis/v2"
	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/pb"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==========================
// Test Helper Functions
// ==========================

func createMockJob(key int64, variables map[string]interface{}) entities.Job {
	variablesJSON, _ := json.Marshal(variables)

	return entities.Job{ActivatedJob: &pb.ActivatedJob{
		Key:                key,
		Type:               TaskType,
		ProcessInstanceKey: key * 10,
		BpmnProcessId:      "niche-finder",
		ElementId:          "Activity_RankNiches",
		CustomHeaders:      "{}",
		Worker:             "test-worker",
		Retries:            3,
		Variables:          string(variablesJSON),
	}}
}

func setupHandler(t *testing.T, cfg *Config) (*Handler, *session.Store) {
	t.Helper()
	cat, err := catalog.LoadEmbedded()
	require.NoError(t, err)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	store := session.NewStore(client, config.SessionConfig{TTL: 600}, logger.NewNoOpLogger())

	h, err := NewHandler(HandlerOptions{
		CustomConfig: cfg,
		Logger:       logger.NewTestLogger(t),
		Catalog:      cat,
		Sessions:     store,
	})
	require.NoError(t, err)
	return h, store
}

func referenceProfile() *models.UserProfile {
	return &models.UserProfile{
		Skills:             []string{"编程基础", "数据分析"},
		Interests:          []string{},
		TimeAvailability:   models.TierHigh,
		InvestmentCapacity: models.TierMedium,
	}
}

func names(recs []models.ScoredRecommendation) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, r.NicheName)
	}
	return out
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h, _ := setupHandler(t, nil)

	input, err := h.parseInput(createMockJob(1, map[string]interface{}{"sessionId": "abc", "limit": 3}))
	require.NoError(t, err)
	assert.Equal(t, 3, input.Limit)
	assert.Equal(t, "abc", input.SessionID)

	_, err = h.parseInput(createMockJob(2, map[string]interface{}{"sessionId": "abc", "limit": -1}))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeProfileInvalid, errors.AsStandardError(err).Code)

	_, err = h.parseInput(createMockJob(3, map[string]interface{}{"limit": 1.5}))
	require.Error(t, err)
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_FullRanking(t *testing.T) {
	h, _ := setupHandler(t, nil)

	out, err := h.Execute(context.Background(), &Input{Profile: referenceProfile()})
	require.NoError(t, err)

	assert.Equal(t, 6, out.TotalNiches)
	require.Len(t, out.Recommendations, 6)
	assert.Equal(t, []string{"AI应用开发", "AI数据标注", "AI产品代理", "内容创作", "AI咨询服务", "AI教育培训"},
		names(out.Recommendations))
	assert.Equal(t, "AI应用开发", out.TopNiche)
	assert.Equal(t, 53.3, out.TopScore)

	for i := 1; i < len(out.Recommendations); i++ {
		assert.GreaterOrEqual(t, out.Recommendations[i-1].Score, out.Recommendations[i].Score)
	}
	for _, r := range out.Recommendations {
		assert.GreaterOrEqual(t, r.Score, 0.0)
		assert.LessOrEqual(t, r.Score, 100.0)
	}
}

func TestHandler_Execute_Limit(t *testing.T) {
	tests := []struct {
		name   string
		cfg    *Config
		limit  int
		expect int
	}{
		{name: "job limit", limit: 3, expect: 3},
		{name: "limit above catalog size", limit: 50, expect: 6},
		{name: "config default", cfg: &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Second, DefaultLimit: 1}, expect: 1},
		{name: "job limit wins over default", cfg: &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Second, DefaultLimit: 1}, limit: 2, expect: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, _ := setupHandler(t, tt.cfg)
			out, err := h.Execute(context.Background(), &Input{Profile: referenceProfile(), Limit: tt.limit})
			require.NoError(t, err)
			assert.Len(t, out.Recommendations, tt.expect)
			assert.Equal(t, 6, out.TotalNiches)
			assert.Equal(t, "AI应用开发", out.Recommendations[0].NicheName)
		})
	}
}

func TestHandler_Execute_FromSession(t *testing.T) {
	h, store := setupHandler(t, nil)
	ctx := context.Background()

	id, err := store.Save(ctx, referenceProfile())
	require.NoError(t, err)

	out, err := h.Execute(ctx, &Input{SessionID: id, Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"AI应用开发"}, names(out.Recommendations))
}

func TestHandler_Execute_MissingProfile(t *testing.T) {
	h, _ := setupHandler(t, nil)
	_, err := h.Execute(context.Background(), &Input{})
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeProfileInvalid, errors.AsStandardError(err).Code)
}

// ==========================
// Config Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())

	cfg := DefaultConfig()
	cfg.DefaultLimit = -1
	assert.EqualError(t, cfg.Validate(), "default_limit must not be negative")
}
