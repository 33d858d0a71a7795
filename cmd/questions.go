package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/greenledger/esg-compass/internal/model"
)

var questionsCmd = &cobra.Command{
	Use:   "questions",
	Short: "Print the questionnaire registry",
	RunE: func(cmd *cobra.Command, args []string) error {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(model.DefaultQuestions); err != nil {
			return eris.Wrap(err, "encode questions")
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(questionsCmd)
}
