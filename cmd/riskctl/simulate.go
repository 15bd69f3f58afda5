package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/finrisk/internal/models"
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run a Monte Carlo portfolio simulation",
	Long: `Run a Monte Carlo portfolio simulation.

Input example:
  {"initial_value": 10000, "expected_return": 0.07, "volatility": 0.15,
   "time_horizon": 10, "monthly_contribution": 200, "iterations": 10000,
   "seed": 42, "target_value": 50000}

iterations defaults to 10000 when absent. A seed makes the run reproducible.`,
	RunE: runSimulate,
}

var goalCmd = &cobra.Command{
	Use:   "goal",
	Short: "Simulate progress towards a savings goal",
	Long: `Simulate progress towards a savings goal.

Input is a simulate object plus "goal_value". The result adds shortfall
statistics, the required annual return and contribution sensitivity.`,
	RunE: runGoal,
}

var retirementCmd = &cobra.Command{
	Use:   "retirement",
	Short: "Project savings to retirement in today's money",
	Long: `Project savings to retirement in today's money.

Input example:
  {"current_age": 35, "retirement_age": 65, "current_savings": 50000,
   "monthly_contribution": 800, "expected_return": 0.06, "volatility": 0.12,
   "inflation_rate": 0.03}`,
	RunE: runRetirement,
}

func init() {
	for _, c := range []*cobra.Command{simulateCmd, goalCmd, retirementCmd} {
		c.Flags().StringP("input", "i", "", "input JSON file (default: stdin)")
	}
	rootCmd.AddCommand(simulateCmd, goalCmd, retirementCmd)
}

func runSimulate(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")

	var params models.SimulationParameters
	if err := readInput(cmd, input, &params); err != nil {
		return err
	}

	svc, err := newStatelessService()
	if err != nil {
		return err
	}
	result, err := svc.Simulate(cmd.Context(), params)
	if err != nil {
		return err
	}
	return writeOutput(cmd, result)
}

func runGoal(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")

	var params models.GoalParameters
	if err := readInput(cmd, input, &params); err != nil {
		return err
	}

	svc, err := newStatelessService()
	if err != nil {
		return err
	}
	result, err := svc.Goal(cmd.Context(), params)
	if err != nil {
		return err
	}
	return writeOutput(cmd, result)
}

func runRetirement(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")

	var params models.RetirementParameters
	if err := readInput(cmd, input, &params); err != nil {
		return err
	}

	svc, err := newStatelessService()
	if err != nil {
		return err
	}
	result, err := svc.Retirement(cmd.Context(), params)
	if err != nil {
		return err
	}
	return writeOutput(cmd, result)
}
