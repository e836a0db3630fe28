package buildactionplan

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"niche-finder/internal/actionplan"
	"niche-finder/internal/catalog"
	"niche-finder/internal/common/camunda"
	"niche-finder/internal/common/config"
	"niche-finder/internal/common/errors"
	"niche-finder/internal/common/logger"
	"niche-finder/internal/common/metrics"
	"niche-finder/internal/common/observability"
	"niche-finder/internal/common/validation"
	"niche-finder/internal/models"
	"niche-finder/internal/scoring"
	"niche-finder/internal/session"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "build-action-plan"

type Handler struct {
	config        *Config
	logger        logger.Logger
	camunda       *camunda.Client
	catalog       *catalog.Catalog
	scorer        *scoring.Scorer
	sessions      *session.Store
	observability *observability.Observability
	errorHandler  *errors.ErrorHandler
	worker        *camunda.CamundaWorker
}

type HandlerOptions struct {
	AppConfig     *config.Config
	Camunda       *camunda.Client
	CustomConfig  *Config
	Logger        logger.Logger
	Catalog       *catalog.Catalog
	Scorer        *scoring.Scorer
	Sessions      *session.Store
	Observability *observability.Observability
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for %s: %w", TaskType, err)
	}
	if opts.Catalog == nil {
		return nil, fmt.Errorf("%s requires a catalog", TaskType)
	}

	scorer := opts.Scorer
	if scorer == nil {
		scorer = scoring.Default()
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
		catalog:       opts.Catalog,
		scorer:        scorer,
		sessions:      opts.Sessions,
		observability: opts.Observability,
		errorHandler:  errors.NewErrorHandler(loggerInstance),
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
		return nil, errors.NewProfileInvalidError(strings.Join(result.GetErrorMessages(), "; "))
	}

	var input Input
	if err := json.Unmarshal([]byte(job.GetVariables()), &input); err != nil {
		return nil, errors.NewParseError(err)
	}
	return &input, nil
}

// Execute builds the four-week plan for the best-ranked niche, or for the
// niche named in the input, and scores reported progress against it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	profile, err := h.sessions.Resolve(ctx, input.SessionID, input.Profile)
	if err != nil {
		return nil, err
	}

	output := &Output{Alternatives: []models.ActionPlan{}}

	if input.NicheName != "" {
		niche, ok := h.catalog.Get(input.NicheName)
		if !ok {
			return nil, errors.NewNicheNotFoundError(input.NicheName)
		}
		output.ActionPlan = actionplan.Build(niche, h.scorer.Score(profile, niche))
	} else {
		ranked := h.scorer.Rank(profile, h.catalog.Niches())
		if len(ranked) == 0 {
			return nil, errors.NewRankingFailedError("catalog is empty")
		}
		h.observability.RecordScores(ctx, TaskType, len(ranked))

		for i, rec := range scoring.Top(ranked, h.config.TopN) {
			niche, ok := h.catalog.Get(rec.NicheName)
			if !ok {
				return nil, errors.NewNicheNotFoundError(rec.NicheName)
			}
			plan := actionplan.Build(niche, rec.Score)
			if i == 0 {
				output.ActionPlan = plan
				continue
			}
			output.Alternatives = append(output.Alternatives, *plan)
		}
	}

	if input.Progress != nil {
		progress, err := actionplan.Progress(input.Progress)
		if err != nil {
			return nil, errors.NewProfileInvalidError(err.Error())
		}
		output.Progress = progress
	}

	fields := map[string]interface{}{
		"niche":        output.ActionPlan.NicheName,
		"score":        output.ActionPlan.Score,
		"alternatives": len(output.Alternatives),
	}
	if output.Progress != nil {
		fields["overallProgress"] = output.Progress.Overall
		fields["progressStatus"] = string(output.Progress.Status)
	}
	h.logger.Info("action plan built", fields)

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
	}
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
		if appConfig.Scoring.TopN > 0 {
			cfg.TopN = appConfig.Scoring.TopN
		}
	}

	return cfg
}
