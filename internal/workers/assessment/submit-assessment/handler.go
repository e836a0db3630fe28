package submitassessment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"niche-finder/internal/assessment"
	"niche-finder/internal/common/camunda"
	"niche-finder/internal/common/config"
	"niche-finder/internal/common/errors"
	"niche-finder/internal/common/logger"
	"niche-finder/internal/common/metrics"
	"niche-finder/internal/common/observability"
	"niche-finder/internal/common/validation"
	"niche-finder/internal/session"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "submit-assessment"

type Handler struct {
	config        *Config
	logger        logger.Logger
	camunda       *camunda.Client
	sessions      *session.Store
	observability *observability.Observability
	errorHandler  *errors.ErrorHandler
	worker        *camunda.CamundaWorker
	now           func() time.Time
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Camunda       *camunda.Client
	CustomConfig  *Config
	Logger        logger.Logger
	Sessions      *session.Store
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Sessions == nil {
		return nil, fmt.Errorf("%s requires a session store", TaskType)
	}

	loggerInstance := opts.Logger
	if loggerInstance == nil {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.WithFields(map[string]interface{}{"worker": TaskType})

	return &Handler{
		config:        workerConfig,
		logger:        loggerInstance,
		camunda:       opts.Camunda,
		sessions:      opts.Sessions,
		observability: opts.Observability,
		errorHandler:  errors.NewErrorHandler(loggerInstance),
		now:           time.Now,
	}, nil
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	startTime := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":             job.GetKey(),
		"processInstanceKey": job.GetProcessInstanceKey(),
	})

	output, err := h.process(ctx, job)
	h.observability.Track(ctx, TaskType, startTime, err)
	if err != nil {
		code := h.errorHandler.HandleJobError(ctx, client, job, err)
		metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(code)).Inc()
		return
	}

	h.completeJob(ctx, client, job, output)
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(startTime).Seconds())
}

func (h *Handler) process(ctx context.Context, job entities.Job) (*Output, error) {
	input, err := h.parseInput(job)
	if err != nil {
		return nil, err
	}
	return h.Execute(ctx, input)
}

func (h *Handler) parseInput(job entities.Job) (*Input, error) {
	variables, err := job.GetVariablesAsMap()
	if err != nil {
		return nil, errors.NewParseError(err)
	}

	result := validation.ValidateInput(variables, GetInputSchema())
	if !result.Valid {
		return nil, errors.NewAssessmentValidationFailedError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

// Execute validates the answers, normalizes them into a profile and stores
// it for the session.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	if err := assessment.Validate(input.Assessment); err != nil {
		return nil, err
	}

	profile := assessment.Normalize(input.Assessment, h.now())

	output := &Output{
		Profile:          profile,
		ExpiresInSeconds: int(h.sessions.TTL().Seconds()),
	}

	if input.SessionID != "" {
		if err := h.sessions.Replace(ctx, input.SessionID, profile); err != nil {
			return nil, err
		}
		output.SessionID = input.SessionID
		output.Replaced = true
	} else {
		id, err := h.sessions.Save(ctx, profile)
		if err != nil {
			return nil, err
		}
		output.SessionID = id
	}

	h.logger.Info("assessment stored", map[string]interface{}{
		"sessionId":          output.SessionID,
		"replaced":           output.Replaced,
		"skills":             len(profile.Skills),
		"interests":          len(profile.Interests),
		"timeAvailability":   string(profile.TimeAvailability),
		"investmentCapacity": string(profile.InvestmentCapacity),
	})

	return output, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, output *Output) {
	request, err := client.NewCompleteJobCommand().JobKey(job.GetKey()).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("Failed to create complete job command", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	if _, err := request.Send(ctx); err != nil {
		h.logger.Error("Failed to complete job", map[string]interface{}{
			"jobKey": job.GetKey(),
			"error":  err.Error(),
		})
		return
	}

	h.logger.Info("Successfully completed job", map[string]interface{}{
		"jobKey":    job.GetKey(),
		"sessionId": output.SessionID,
	})
}

func (h *Handler) Register() error {
	if !h.config.Enabled {
		h.logger.Info("Worker is disabled, skipping registration", nil)
		return nil
	}
	if h.camunda == nil {
		return fmt.Errorf("%s: camunda client is required for registration", TaskType)
	}

	h.worker = camunda.NewWorker(h.camunda.GetClient(), camunda.WorkerOptions{
		TaskType:      TaskType,
		MaxJobsActive: h.config.MaxJobsActive,
		Timeout:       h.config.Timeout,
	}, h, h.logger)
	return nil
}

func (h *Handler) Close() {
	h.worker.Stop()
	h.worker = nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) IsEnabled() bool {
	return h.config.Enabled
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		if workerCfg, exists := appConfig.Workers[TaskType]; exists {
			cfg.Enabled = workerCfg.Enabled
			if workerCfg.MaxJobsActive > 0 {
				cfg.MaxJobsActive = workerCfg.MaxJobsActive
			}
			if workerCfg.Timeout > 0 {
				cfg.Timeout = config.GetDuration(workerCfg.Timeout)
			}
		}
	}

	return cfg
}
