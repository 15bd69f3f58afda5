package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/finrisk/internal/models"
	"github.com/yourusername/finrisk/internal/repository"
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Work with stored snapshots, assessments and simulations",
}

var userSaveCmd = &cobra.Command{
	Use:   "save",
	Short: "Store a user's financial snapshot and risk profile",
	RunE:  runUserSave,
}

var userAssessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Assess a user's latest snapshot and append it to their history",
	RunE:  runUserAssess,
}

var userSimulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a simulation and store it for a user",
	RunE:  runUserSimulate,
}

var userHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List a user's assessments, newest first",
	RunE:  runUserHistory,
}

var userDashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show a user's risk dashboard",
	RunE:  runUserDashboard,
}

var reassessCmd = &cobra.Command{
	Use:   "reassess",
	Short: "Reassess every user whose latest assessment is stale",
	RunE:  runReassess,
}

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending database migrations",
	RunE:  runMigrate,
}

func init() {
	userCmd.PersistentFlags().Int64P("user", "u", 0, "user ID")
	_ = userCmd.MarkPersistentFlagRequired("user")

	userSaveCmd.Flags().StringP("input", "i", "", "input JSON file (default: stdin)")
	userSimulateCmd.Flags().StringP("input", "i", "", "input JSON file (default: stdin)")
	userHistoryCmd.Flags().Int("limit", repository.DefaultHistoryLimit, "maximum number of assessments")

	userCmd.AddCommand(userSaveCmd, userAssessCmd, userSimulateCmd, userHistoryCmd, userDashboardCmd)
	rootCmd.AddCommand(userCmd, reassessCmd, migrateCmd)
}

func userID(cmd *cobra.Command) (int64, error) {
	id, _ := cmd.Flags().GetInt64("user")
	if id <= 0 {
		return 0, fmt.Errorf("--user must be a positive ID")
	}
	return id, nil
}

func runUserSave(cmd *cobra.Command, _ []string) error {
	id, err := userID(cmd)
	if err != nil {
		return err
	}
	input, _ := cmd.Flags().GetString("input")

	var in models.AssessmentInput
	if err := readInput(cmd, input, &in); err != nil {
		return err
	}

	svc, db, err := openPersistentService(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	record, err := svc.SaveInput(cmd.Context(), id, in)
	if err != nil {
		return err
	}
	return writeOutput(cmd, record)
}

func runUserAssess(cmd *cobra.Command, _ []string) error {
	id, err := userID(cmd)
	if err != nil {
		return err
	}

	svc, db, err := openPersistentService(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	assessment, err := svc.AssessUser(cmd.Context(), id)
	if err != nil {
		return err
	}
	return writeOutput(cmd, assessment)
}

func runUserSimulate(cmd *cobra.Command, _ []string) error {
	id, err := userID(cmd)
	if err != nil {
		return err
	}
	input, _ := cmd.Flags().GetString("input")

	var params models.SimulationParameters
	if err := readInput(cmd, input, &params); err != nil {
		return err
	}

	svc, db, err := openPersistentService(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := svc.SimulateForUser(cmd.Context(), id, params)
	if err != nil {
		return err
	}
	return writeOutput(cmd, result)
}

func runUserHistory(cmd *cobra.Command, _ []string) error {
	id, err := userID(cmd)
	if err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")

	svc, db, err := openPersistentService(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	history, err := svc.History(cmd.Context(), id, limit)
	if err != nil {
		return err
	}
	return writeOutput(cmd, history)
}

func runUserDashboard(cmd *cobra.Command, _ []string) error {
	id, err := userID(cmd)
	if err != nil {
		return err
	}

	svc, db, err := openPersistentService(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	dashboard, err := svc.Dashboard(cmd.Context(), id)
	if err != nil {
		return err
	}
	return writeOutput(cmd, dashboard)
}

func runReassess(cmd *cobra.Command, _ []string) error {
	svc, db, err := openPersistentService(cmd.Context())
	if err != nil {
		return err
	}
	defer db.Close()

	result, err := svc.ReassessStale(cmd.Context())
	if err != nil {
		return err
	}
	return writeOutput(cmd, map[string]any{
		"candidates":  result.Candidates,
		"reassessed":  result.Reassessed,
		"failed":      result.Failed,
		"duration_ms": result.Duration.Milliseconds(),
		"outcome":     result.Outcome(),
	})
}

// runMigrate relies on Initialize applying migrations on connect
func runMigrate(cmd *cobra.Command, _ []string) error {
	_, db, err := openPersistentService(cmd.Context())
	if err != nil {
		return err
	}
	db.Close()
	log.Info("Database schema is up to date")
	return nil
}
