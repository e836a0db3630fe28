package submitassessment

import (
	"context"
	"encoding/json"
	"testing"
	"time"

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

	activatedJob := &pb.ActivatedJob{
		Key:                      key,
		Type:                     TaskType,
		ProcessInstanceKey:       key * 10,
		BpmnProcessId:            "niche-finder",
		ProcessDefinitionVersion: 1,
		ProcessDefinitionKey:     1,
		ElementId:                "Activity_SubmitAssessment",
		ElementInstanceKey:       1,
		CustomHeaders:            "{}",
		Worker:                   "test-worker",
		Retries:                  3,
		Deadline:                 0,
		Variables:                string(variablesJSON),
	}

	return entities.Job{ActivatedJob: activatedJob}
}

func setupHandler(t *testing.T) (*Handler, *session.Store, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := session.NewStore(client, config.SessionConfig{TTL: 600, KeyPrefix: "test:"}, logger.NewTestLogger(t))

	h, err := NewHandler(HandlerOptions{
		Logger:   logger.NewTestLogger(t),
		Sessions: store,
	})
	require.NoError(t, err)
	h.now = func() time.Time { return time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC) }
	return h, store, mr
}

func validAssessment() models.Assessment {
	return models.Assessment{
		Name:          "李四",
		AgeBand:       "26-35岁",
		Education:     "本科",
		AvailableTime: "10-20小时",
		Investment:    "1000-5000元",
		Skills:        []string{"编程基础", "数据分析", "编程基础"},
		Interests:     []string{"技术开发"},
		RiskTolerance: "稳健型",
	}
}

func requireCode(t *testing.T, err error, code errors.ErrorCode) {
	t.Helper()
	require.Error(t, err)
	assert.Equal(t, code, errors.AsStandardError(err).Code)
}

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	store := session.NewStore(redis.NewClient(&redis.Options{}), config.SessionConfig{}, nil)

	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr string
	}{
		{
			name: "defaults",
			opts: HandlerOptions{Sessions: store, Logger: logger.NewNoOpLogger()},
		},
		{
			name:    "missing session store",
			opts:    HandlerOptions{Logger: logger.NewNoOpLogger()},
			wantErr: "requires a session store",
		},
		{
			name: "invalid custom config",
			opts: HandlerOptions{
				Sessions:     store,
				CustomConfig: &Config{Enabled: true, MaxJobsActive: 0, Timeout: time.Second},
			},
			wantErr: "max_jobs_active must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, h.GetTaskType())
			assert.True(t, h.IsEnabled())
		})
	}
}

// ==========================
// Input Parsing Tests
// ==========================

func TestHandler_ParseInput(t *testing.T) {
	h, _, _ := setupHandler(t)

	t.Run("valid submission", func(t *testing.T) {
		job := createMockJob(1, map[string]interface{}{
			"assessment": map[string]interface{}{
				"availableTime": "5小时以下",
				"skills":        []string{"写作能力"},
			},
		})
		input, err := h.parseInput(job)
		require.NoError(t, err)
		assert.Equal(t, "5小时以下", input.Assessment.AvailableTime)
		assert.Equal(t, []string{"写作能力"}, input.Assessment.Skills)
		assert.Empty(t, input.SessionID)
	})

	t.Run("missing assessment", func(t *testing.T) {
		_, err := h.parseInput(createMockJob(2, map[string]interface{}{"sessionId": "abc"}))
		requireCode(t, err, errors.ErrCodeAssessmentValidationFailed)
	})

	t.Run("assessment of wrong type", func(t *testing.T) {
		_, err := h.parseInput(createMockJob(3, map[string]interface{}{"assessment": "yes"}))
		requireCode(t, err, errors.ErrCodeAssessmentValidationFailed)
	})
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_NewSession(t *testing.T) {
	h, store, mr := setupHandler(t)
	ctx := context.Background()

	out, err := h.Execute(ctx, &Input{Assessment: validAssessment()})
	require.NoError(t, err)

	assert.NotEmpty(t, out.SessionID)
	assert.False(t, out.Replaced)
	assert.Equal(t, 600, out.ExpiresInSeconds)
	assert.True(t, mr.Exists("test:"+out.SessionID))

	assert.Equal(t, []string{"编程基础", "数据分析"}, out.Profile.Skills)
	assert.Equal(t, models.TierHigh, out.Profile.TimeAvailability)
	assert.Equal(t, models.TierMedium, out.Profile.InvestmentCapacity)
	assert.Equal(t, "2024-06-01 09:30:00", out.Profile.AssessedAt)

	stored, err := store.Load(ctx, out.SessionID)
	require.NoError(t, err)
	assert.Equal(t, out.Profile, stored)
}

func TestHandler_Execute_ReplaceSession(t *testing.T) {
	h, store, _ := setupHandler(t)
	ctx := context.Background()

	first, err := h.Execute(ctx, &Input{Assessment: validAssessment()})
	require.NoError(t, err)

	retake := models.Assessment{AvailableTime: "5小时以下", Skills: []string{"写作能力"}}
	second, err := h.Execute(ctx, &Input{SessionID: first.SessionID, Assessment: retake})
	require.NoError(t, err)

	assert.True(t, second.Replaced)
	assert.Equal(t, first.SessionID, second.SessionID)

	stored, err := store.Load(ctx, first.SessionID)
	require.NoError(t, err)
	assert.Equal(t, []string{"写作能力"}, stored.Skills)
	assert.Equal(t, models.TierLow, stored.TimeAvailability)
	assert.Empty(t, stored.Name)
}

func TestHandler_Execute_Errors(t *testing.T) {
	h, _, mr := setupHandler(t)
	ctx := context.Background()

	t.Run("answer outside the questionnaire", func(t *testing.T) {
		a := validAssessment()
		a.Skills = []string{"飞行驾驶"}
		_, err := h.Execute(ctx, &Input{Assessment: a})
		requireCode(t, err, errors.ErrCodeAssessmentValidationFailed)
	})

	t.Run("replacing an expired session", func(t *testing.T) {
		out, err := h.Execute(ctx, &Input{Assessment: validAssessment()})
		require.NoError(t, err)
		mr.FastForward(11 * time.Minute)

		_, err = h.Execute(ctx, &Input{SessionID: out.SessionID, Assessment: validAssessment()})
		requireCode(t, err, errors.ErrCodeSessionExpired)
	})

	t.Run("redis down", func(t *testing.T) {
		mr.Close()
		_, err := h.Execute(ctx, &Input{Assessment: validAssessment()})
		requireCode(t, err, errors.ErrCodeSessionStoreFailed)
	})
}

// ==========================
// Config Tests
// ==========================

func TestConfig_Validate(t *testing.T) {
	assert.NoError(t, DefaultConfig().Validate())
	assert.EqualError(t, (&Config{MaxJobsActive: 1}).Validate(), "timeout must be positive")
	assert.EqualError(t, (&Config{Timeout: time.Second}).Validate(), "max_jobs_active must be positive")
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appConfig := &config.Config{
		Workers: map[string]config.WorkerConfig{
			TaskType: {Enabled: false, MaxJobsActive: 12, Timeout: 2500},
		},
	}

	cfg := createConfigFromAppConfig(appConfig, nil)
	assert.False(t, cfg.Enabled)
	assert.Equal(t, 12, cfg.MaxJobsActive)
	assert.Equal(t, 2500*time.Millisecond, cfg.Timeout)

	custom := &Config{Enabled: true, MaxJobsActive: 1, Timeout: time.Second}
	assert.Same(t, custom, createConfigFromAppConfig(appConfig, custom))

	assert.Equal(t, DefaultConfig(), createConfigFromAppConfig(nil, nil))
}
