// Command lisan runs the Arabic speech-to-text HTTP service.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/skillsenselab/lisan/api"
	"github.com/skillsenselab/lisan/component"
	"github.com/skillsenselab/lisan/config"
	"github.com/skillsenselab/lisan/dialect"
	"github.com/skillsenselab/lisan/logger"
	"github.com/skillsenselab/lisan/observability"
	"github.com/skillsenselab/lisan/server"
	"github.com/skillsenselab/lisan/service"
	"github.com/skillsenselab/lisan/transcription"
	"github.com/skillsenselab/lisan/transcription/mock"
	"github.com/skillsenselab/lisan/transcription/whisper"
	"github.com/skillsenselab/lisan/version"
)

const serviceName = "lisan"

const gracefulTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", serviceName, err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(serviceName)
	if err != nil {
		return err
	}

	logger.Init(&cfg.Logging)
	log := logger.WithComponent("main")
	log.Info("starting", logger.Fields(
		"version", version.GetVersionInfo().Version,
		"environment", cfg.Environment,
		"engine", cfg.Engine.Provider,
		"model", cfg.Engine.Model,
	))

	metrics, shutdownMeter, err := setupMetrics(ctx, cfg)
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if shutdownMeter != nil {
		defer shutdownMeter()
	}

	shutdownTracer, err := setupTracing(ctx, cfg)
	if err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	if shutdownTracer != nil {
		defer shutdownTracer()
	}

	engines := transcription.NewRegistry()
	engines.RegisterFactory(whisper.EngineName, whisper.Factory())
	engines.RegisterFactory(mock.EngineName, mock.Factory())
	log.Debug("engine factories registered", logger.Fields("engines", engines.List()))

	engine, err := engines.Create(cfg.Engine.Provider, cfg.Engine.FactoryConfig())
	if err != nil {
		return fmt.Errorf("engine: %w", err)
	}

	svc := service.New(engine, dialect.New(cfg.Dialect.Mappings), metrics)

	components := component.NewRegistry()

	srv := server.New(cfg.Server, logger.GetGlobalLogger())
	srv.ApplyDefaults(serviceName, components.HealthAll)

	if err := components.Register(transcription.NewComponent(engine)); err != nil {
		return err
	}
	if err := components.Register(server.NewComponent(srv)); err != nil {
		return err
	}

	transcribeAPI := api.New(svc, api.ModelInfo{
		ModelSize:             engine.ModelSize(),
		SupportedLanguages:    cfg.Model.SupportedLanguages,
		ArabicDialectsSupport: cfg.Model.ArabicDialectsSupport,
		Status:                cfg.Model.Status,
	})
	transcribeAPI.Register(srv.GinEngine())

	if err := components.StartAll(ctx); err != nil {
		return fmt.Errorf("startup: %w", err)
	}
	log.Info("ready", logger.Fields("addr", srv.Addr()))

	<-ctx.Done()
	log.Info("shutting down")

	stopCtx, cancel := context.WithTimeout(context.Background(), gracefulTimeout)
	defer cancel()
	if err := components.StopAll(stopCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	log.Info("stopped")
	return nil
}

// setupMetrics initializes the OTLP meter provider when metrics are
// enabled. Returns nil metrics otherwise; all recording paths tolerate
// a nil Metrics.
func setupMetrics(ctx context.Context, cfg *config.Config) (*observability.Metrics, func(), error) {
	if !cfg.Metrics.Enabled {
		return nil, nil, nil
	}

	meterCfg := observability.DefaultMeterConfig(cfg.Name)
	meterCfg.ServiceVersion = version.GetVersionInfo().Version
	meterCfg.Environment = cfg.Environment
	meterCfg.Endpoint = cfg.Metrics.Endpoint
	meterCfg.Insecure = cfg.Metrics.Insecure
	meterCfg.Interval = time.Duration(cfg.Metrics.IntervalSeconds) * time.Second

	provider, err := observability.InitMeter(ctx, &meterCfg)
	if err != nil {
		return nil, nil, err
	}

	metrics, err := observability.NewMetrics(observability.Meter(cfg.Name))
	if err != nil {
		return nil, nil, err
	}

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.WithComponent("observability").WithError(err).Warn("meter shutdown failed")
		}
	}
	return metrics, shutdown, nil
}

// setupTracing initializes the OTLP tracer provider when tracing is
// enabled. With tracing disabled the global provider stays noop and
// operation spans cost nothing.
func setupTracing(ctx context.Context, cfg *config.Config) (func(), error) {
	if !cfg.Tracing.Enabled {
		return nil, nil
	}

	tracerCfg := observability.DefaultTracerConfig(cfg.Name)
	tracerCfg.ServiceVersion = version.GetVersionInfo().Version
	tracerCfg.Environment = cfg.Environment
	tracerCfg.Endpoint = cfg.Tracing.Endpoint
	tracerCfg.Insecure = cfg.Tracing.Insecure
	tracerCfg.SampleRate = cfg.Tracing.SampleRate

	provider, err := observability.InitTracer(ctx, &tracerCfg)
	if err != nil {
		return nil, err
	}

	shutdown := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.WithComponent("observability").WithError(err).Warn("tracer shutdown failed")
		}
	}
	return shutdown, nil
}
