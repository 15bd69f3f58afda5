// Package main provides riskctl, the command-line entry point of the risk engine.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/finrisk/internal/config"
	"github.com/yourusername/finrisk/internal/database"
	"github.com/yourusername/finrisk/internal/logger"
	"github.com/yourusername/finrisk/internal/repository"
	"github.com/yourusername/finrisk/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	logLevel   string
	cfg        *config.Config
	log        *logrus.Logger
)

var rootCmd = &cobra.Command{
	Use:   "riskctl",
	Short: "Score financial risk and run portfolio simulations",
	Long: `riskctl scores a financial snapshot across five risk factors, recommends an
asset allocation and runs Monte Carlo portfolio simulations.

Stateless commands read JSON from --input (or stdin) and print JSON. The user
and serve commands work against Postgres.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		if cmd.Name() == "version" {
			return nil
		}
		return loadConfig(cmd.ErrOrStderr())
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level (debug, info, warn, error)")

	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, _ []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "riskctl %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

// loadConfig reads the config file, falling back to defaults for anything it
// omits, and builds the logger. Logs go to stderr so stdout stays JSON.
func loadConfig(logOut io.Writer) error {
	loaded, err := config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if logLevel != "" {
		loaded.App.LogLevel = logLevel
	}
	if err := config.Validate(loaded); err != nil {
		return err
	}

	cfg = loaded
	log = logger.NewLoggerWithOutput(cfg.App.LogLevel, cfg.App.Environment, logOut)
	return nil
}

// newStatelessService builds a service without persistence
func newStatelessService() (*service.RiskService, error) {
	return service.NewRiskService(cfg, nil, log)
}

// openPersistentService connects to Postgres, migrates it and builds a
// service backed by the repositories. The caller closes the returned DB.
func openPersistentService(ctx context.Context) (*service.RiskService, *database.DB, error) {
	if err := config.LoadSecretsFromAWS(ctx, cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to load secrets: %w", err)
	}

	db, err := database.Initialize(ctx, cfg, log)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	repos, err := repository.NewRepositories(db)
	if err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("failed to initialize repositories: %w", err)
	}

	svc, err := service.NewRiskService(cfg, repos, log)
	if err != nil {
		db.Close()
		return nil, nil, err
	}
	return svc, db, nil
}

// readInput decodes JSON from path, or from the command's stdin when path
// is empty or "-".
func readInput(cmd *cobra.Command, path string, v any) error {
	var r io.Reader = cmd.InOrStdin()
	if path != "" && path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}
	if err := json.NewDecoder(r).Decode(v); err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}
	return nil
}

func writeOutput(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
