package main

import (
	"github.com/spf13/cobra"

	"github.com/yourusername/finrisk/internal/models"
	"github.com/yourusername/finrisk/internal/risk"
)

var assessCmd = &cobra.Command{
	Use:   "assess",
	Short: "Score a financial snapshot",
	Long: `Score a financial snapshot and optional risk profile.

Input is one flat JSON object, for example:
  {"monthly_income": 5000, "monthly_expenses": 3500, "total_assets": 40000,
   "total_debt": 12000, "emergency_fund": 9000, "insurance_coverage": 250000,
   "risk_tolerance": "moderate", "age": 35}`,
	RunE: runAssess,
}

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "Recommend an asset allocation",
	Long: `Recommend an asset allocation.

With --level and --score the baseline allocation for that risk level is
returned; the score must lie in the level's band. Otherwise the input is scored as in assess and the allocation is tailored
to the factor scores and profile, together with mitigation strategies.`,
	RunE: runRecommend,
}

type recommendOutput struct {
	Recommendation *models.AllocationRecommendation `json:"recommendation"`
	Mitigation     map[string][]string              `json:"mitigation_strategies,omitempty"`
}

func init() {
	assessCmd.Flags().StringP("input", "i", "", "input JSON file (default: stdin)")

	f := recommendCmd.Flags()
	f.StringP("input", "i", "", "input JSON file (default: stdin)")
	f.String("level", "", "risk level for a baseline allocation: low, moderate, high")
	f.Float64("score", 0, "total risk score in [0,10], required with --level")
	recommendCmd.MarkFlagsRequiredTogether("level", "score")

	rootCmd.AddCommand(assessCmd, recommendCmd)
}

func runAssess(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")

	var in models.AssessmentInput
	if err := readInput(cmd, input, &in); err != nil {
		return err
	}

	svc, err := newStatelessService()
	if err != nil {
		return err
	}
	assessment, err := svc.Assess(cmd.Context(), in)
	if err != nil {
		return err
	}
	return writeOutput(cmd, assessment)
}

func runRecommend(cmd *cobra.Command, _ []string) error {
	input, _ := cmd.Flags().GetString("input")
	level, _ := cmd.Flags().GetString("level")
	score, _ := cmd.Flags().GetFloat64("score")

	svc, err := newStatelessService()
	if err != nil {
		return err
	}

	if level != "" {
		rec, err := svc.RecommendForLevel(models.RiskLevel(level), score)
		if err != nil {
			return err
		}
		return writeOutput(cmd, recommendOutput{Recommendation: rec})
	}

	var in models.AssessmentInput
	if err := readInput(cmd, input, &in); err != nil {
		return err
	}
	assessment, err := svc.Assess(cmd.Context(), in)
	if err != nil {
		return err
	}
	rec, err := svc.Recommend(cmd.Context(), assessment, in.Profile())
	if err != nil {
		return err
	}
	return writeOutput(cmd, recommendOutput{
		Recommendation: rec,
		Mitigation:     risk.MitigationStrategies(assessment.Scores()),
	})
}
