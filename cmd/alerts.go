package main

import (
	"context"
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/greenledger/esg-compass/internal/model"
)

var (
	alertsUser     string
	alertsIndustry string
)

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Generate and inspect predictive compliance alerts",
}

var alertsGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Analyze the latest recorded score and regenerate alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		current, history, err := latestScore(ctx, env)
		if err != nil {
			return err
		}

		alerts, err := env.Alerts.GenerateAlerts(ctx, alertsUser, current, history, alertsIndustry)
		if err != nil {
			return err
		}
		return printJSON(alerts)
	},
}

var alertsPenaltyCmd = &cobra.Command{
	Use:   "penalty",
	Short: "Generate penalty-risk warnings for upcoming deadlines",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		current, _, err := latestScore(ctx, env)
		if err != nil {
			return err
		}

		warnings, err := env.Alerts.GeneratePenaltyWarnings(ctx, alertsUser, current, alertsIndustry)
		if err != nil {
			return err
		}
		return printJSON(warnings)
	},
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List active alerts",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		alerts, err := env.Alerts.ActiveAlerts(ctx, alertsUser)
		if err != nil {
			return err
		}
		return printJSON(alerts)
	},
}

// latestScore returns the newest snapshot and the rest of the history.
func latestScore(ctx context.Context, env *appEnv) (model.Score, []model.Score, error) {
	history, err := env.Alerts.History(ctx, alertsUser, 0)
	if err != nil {
		return model.Score{}, nil, eris.Wrap(err, "list score history")
	}
	if len(history) == 0 {
		return model.Score{}, nil, eris.Errorf("no score recorded for user %s, run `esg-compass score` first", alertsUser)
	}
	return history[0], history[1:], nil
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	alertsCmd.PersistentFlags().StringVar(&alertsUser, "user", "", "user ID")
	alertsCmd.PersistentFlags().StringVar(&alertsIndustry, "industry", "retail", "industry cohort")
	_ = alertsCmd.MarkPersistentFlagRequired("user")

	alertsCmd.AddCommand(alertsGenerateCmd, alertsPenaltyCmd, alertsListCmd)
	rootCmd.AddCommand(alertsCmd)
}
