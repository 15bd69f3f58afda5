package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/finrisk/internal/health"
	"github.com/yourusername/finrisk/internal/metrics"
	"github.com/yourusername/finrisk/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run health, metrics and the scheduled reassessment sweep",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	svc, db, err := openPersistentService(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	metrics.InitRegistry()

	healthCfg := health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		Logger:      log,
		DB:          db,
	}
	sharedPort := cfg.Metrics.Enabled && cfg.Metrics.Port == cfg.Health.Port
	if sharedPort {
		healthCfg.MetricsPath = cfg.Metrics.Path
		healthCfg.MetricsHandler = metrics.Handler()
	}
	healthServer := health.NewServer(healthCfg)

	var sched *scheduler.Scheduler
	if cfg.Scheduler.Enabled {
		sched = scheduler.NewScheduler(svc, log)
		if err := sched.ScheduleReassessment(cfg.Scheduler.ReassessCron); err != nil {
			return err
		}
		healthServer.AddCheck("scheduler", func(context.Context) error {
			if !sched.IsRunning() {
				return errors.New("scheduler is not running")
			}
			return nil
		})
	}

	if err := healthServer.Start(ctx); err != nil {
		return fmt.Errorf("failed to start health server: %w", err)
	}
	if cfg.Metrics.Enabled && !sharedPort {
		startMetricsServer(ctx, cfg.Metrics.Port, cfg.Metrics.Path)
	}
	if sched != nil {
		if err := sched.Start(); err != nil {
			return err
		}
		defer func() {
			if err := sched.Stop(); err != nil {
				log.WithError(err).Warn("Scheduler shutdown failed")
			}
		}()
	}

	healthServer.SetReady(true)
	log.WithFields(logrus.Fields{
		"health_port": cfg.Health.Port,
		"metrics":     cfg.Metrics.Enabled,
		"scheduler":   cfg.Scheduler.Enabled,
		"version":     Version,
	}).Info("riskctl serving")

	<-ctx.Done()
	healthServer.SetReady(false)
	log.Info("Shutdown signal received")
	return nil
}

func startMetricsServer(ctx context.Context, port int, path string) {
	mux := http.NewServeMux()
	mux.Handle(path, metrics.Handler())
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("port", port).Info("Metrics server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("Metrics server error")
		}
	}()
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
