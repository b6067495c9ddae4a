package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"talentscout-bot/internal/api"
	"talentscout-bot/internal/artifacts"
	"talentscout-bot/internal/config"
	"talentscout-bot/internal/intake"
	"talentscout-bot/internal/interviewer"
	"talentscout-bot/internal/metrics"
	"talentscout-bot/internal/notify"
	"talentscout-bot/internal/storage"
)

// app is the wired object graph shared by every command.
type app struct {
	cfg      *config.Config
	env      *config.AppConfig
	registry *prometheus.Registry
	metrics  *metrics.Metrics
	workflow *intake.Workflow
	dialog   *intake.Dialog
	sessions *intake.Registry

	closers []func() error
}

func loadEnv() (*config.AppConfig, error) {
	return config.LoadAppConfig()
}

func newApp(ctx context.Context) (*app, error) {
	log := zap.S().Named("main")

	env, err := loadEnv()
	if err != nil {
		return nil, fmt.Errorf("reading environment: %w", err)
	}
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, fmt.Errorf("reading configuration: %w", err)
	}
	if err := cfg.ApplyEnv(env); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}

	a := &app{cfg: cfg, env: env, registry: prometheus.NewRegistry()}
	a.registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	a.metrics = metrics.NewMetrics(a.registry)

	client, err := api.New(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("creating model client: %w", err)
	}
	if cfg.LLM.Offline() {
		log.Warn("no model API key configured, running with the simulated model")
	}
	log.Infof("model: %v", cfg.LLM.GetModelInfo())

	candidateLog, err := storage.OpenLog(cfg.Storage.Driver, cfg.Storage.Path, cfg.Storage.DSN)
	if err != nil {
		return nil, fmt.Errorf("opening candidate log: %w", err)
	}
	a.closers = append(a.closers, candidateLog.Close)

	opts := []intake.Option{}
	if env.AMQP.URL != "" {
		publisher, err := notify.DialAMQP(env.AMQP.URL, env.AMQP.Exchange)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connecting to message broker: %w", err)
		}
		a.closers = append(a.closers, publisher.Close)
		opts = append(opts, intake.WithPublisher(publisher))
		log.Infof("publishing session events to exchange %s", env.AMQP.Exchange)
	}
	if env.R2.Enabled() {
		uploader, err := artifacts.NewS3Uploader(ctx, env.R2)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("creating export uploader: %w", err)
		}
		opts = append(opts, intake.WithUploader(uploader))
		log.Infof("uploading exports to bucket %s", env.R2.Bucket)
	}

	a.workflow = intake.NewWorkflow(interviewer.New(client, cfg, a.metrics), candidateLog, a.metrics, opts...)
	a.dialog = intake.NewDialog(a.workflow, cfg.IntakeConfig.EndKeywords)
	a.sessions = intake.NewRegistry(a.workflow, cfg.Sessions.IdleTTL)

	log.Infof("questions per technology: %d, storage: %s", cfg.GetQuestionCount(), cfg.Storage.Driver)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			zap.S().Named("main").Warnf("close failed: %v", err)
		}
	}
	a.closers = nil
}
