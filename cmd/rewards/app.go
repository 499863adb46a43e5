package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/fd1az/campus-rewards/business/feedback"
	"github.com/fd1az/campus-rewards/business/wallet"
	walletDI "github.com/fd1az/campus-rewards/business/wallet/di"
	"github.com/fd1az/campus-rewards/internal/apm"
	"github.com/fd1az/campus-rewards/internal/config"
	"github.com/fd1az/campus-rewards/internal/health"
	"github.com/fd1az/campus-rewards/internal/logger"
	"github.com/fd1az/campus-rewards/internal/metrics"
	"github.com/fd1az/campus-rewards/internal/monolith"
)

type mode int

const (
	modeTUI mode = iota
	modeService
	modeCommand // one-shot subcommand: no servers, warnings only
)

// container is the part of the monolith main drives directly.
type container interface {
	monolith.Monolith
	RegisterModules(modules ...monolith.Module) error
	StartModules(ctx context.Context, modules ...monolith.Module) error
	Close() error
}

// application owns everything main starts and must stop.
type application struct {
	cfg     *config.Config
	log     *logger.Logger
	mono    container
	modules []monolith.Module
	wallet  *wallet.Module

	traceProvider  apm.TraceProvider
	metricProvider metrics.MetricProvider
	metricsServer  *metrics.Server
	healthServer   *health.Server
}

func bootstrap(ctx context.Context, m mode) (*application, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	cfg.App.TUIMode = m == modeTUI

	level := logger.ParseLevel(cfg.App.LogLevel)
	var out io.Writer = os.Stderr
	switch m {
	case modeTUI:
		// the dashboard owns the terminal
		out = io.Discard
	case modeCommand:
		if level < logger.LevelWarn {
			level = logger.LevelWarn
		}
	}
	log := logger.New(out, level, cfg.App.Name, apm.TraceID)

	a := &application{cfg: cfg, log: log}

	if m != modeCommand {
		if err := a.startTelemetry(ctx); err != nil {
			return nil, err
		}
	}

	mono, err := monolith.New(cfg, log)
	if err != nil {
		a.stopTelemetry(ctx)
		return nil, fmt.Errorf("failed to create monolith: %w", err)
	}
	a.mono = mono

	a.wallet = &wallet.Module{}
	a.modules = []monolith.Module{
		a.wallet,
		&feedback.Module{}, // provides the contribution count the wallet balance uses
	}
	if err := a.mono.RegisterModules(a.modules...); err != nil {
		a.close(ctx)
		return nil, fmt.Errorf("failed to register modules: %w", err)
	}

	if m == modeService || m == modeTUI {
		a.startHealth(ctx)
	}
	return a, nil
}

func (a *application) startTelemetry(ctx context.Context) error {
	tp, err := apm.NewTraceProvider(ctx, a.cfg.Telemetry, a.log)
	if err != nil {
		return fmt.Errorf("failed to start tracing: %w", err)
	}
	a.traceProvider = tp

	if !a.cfg.Telemetry.Enabled {
		return nil
	}

	reg := prometheus.NewRegistry()
	opts := []metrics.OptionFn{
		metrics.WithServiceName(a.cfg.Telemetry.ServiceName),
		metrics.WithPrometheus(reg),
	}
	if a.cfg.Telemetry.MetricsURL != "" {
		opts = append(opts, metrics.WithOtelCollector(a.cfg.Telemetry.MetricsURL, nil, true))
	}
	mp, err := metrics.NewMetricProvider(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to start metrics: %w", err)
	}
	a.metricProvider = mp

	a.metricsServer = metrics.NewServer(a.cfg.Telemetry.PrometheusPort, reg, a.log)
	a.metricsServer.Start()
	return nil
}

func (a *application) startHealth(ctx context.Context) {
	if a.cfg.App.HealthPort == 0 {
		return
	}
	a.healthServer = health.NewServer(a.cfg.App.HealthPort, version, a.log)
	a.healthServer.RegisterCheck("store", health.StoreCheck(a.mono.Store()))
	a.healthServer.RegisterCheck("wallet", func(context.Context) (bool, string) {
		st := walletDI.GetSession(a.mono.Services()).Stats()
		if !st.Initialized {
			return false, "wallet not initialized"
		}
		return true, fmt.Sprintf("%s/%s", st.Mode, st.State)
	})
	a.healthServer.Start()
	a.log.Info(ctx, "health server started", "port", a.cfg.App.HealthPort)
}

// start runs module startup and, with --connect, the first connection.
func (a *application) start(ctx context.Context) error {
	if err := a.mono.StartModules(ctx, a.modules...); err != nil {
		return fmt.Errorf("failed to start modules: %w", err)
	}
	if autoConnect {
		// failures are notified by the session; demo fallback still applies
		_, _ = walletDI.GetSession(a.mono.Services()).Connect(ctx)
	}
	return nil
}

// close stops everything in reverse order of startup.
func (a *application) close(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if a.healthServer != nil {
		_ = a.healthServer.Stop(ctx)
	}
	if a.mono != nil {
		if err := a.wallet.Shutdown(ctx, a.mono); err != nil {
			a.log.Warn(ctx, "wallet shutdown", "error", err)
		}
		if err := a.mono.Close(); err != nil {
			a.log.Warn(ctx, "closing store", "error", err)
		}
	}
	a.stopTelemetry(ctx)
	_ = a.log.Sync()
}

func (a *application) stopTelemetry(ctx context.Context) {
	if a.metricsServer != nil {
		_ = a.metricsServer.Stop(ctx)
	}
	if a.metricProvider != nil {
		_ = a.metricProvider.Shutdown(ctx)
	}
	if a.traceProvider != nil {
		_ = a.traceProvider.Stop()
	}
}
