package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/ingest"
)

var (
	scoreFile     string
	scoreIndustry string
	scoreSize     string
	scoreUser     string
	scoreSuggest  bool
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Score a questionnaire answers file and record the snapshot",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		env, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		parser := ingest.NewParser(env.Questions)

		var result *ingest.Result
		switch strings.ToLower(filepath.Ext(scoreFile)) {
		case ".xlsx":
			result, err = parser.ParseXLSX(ctx, scoreFile)
		case ".json":
			f, openErr := os.Open(scoreFile)
			if openErr != nil {
				return eris.Wrapf(openErr, "open answers file %s", scoreFile)
			}
			defer f.Close()
			result, err = parser.ParseJSON(ctx, f)
		default:
			f, openErr := os.Open(scoreFile)
			if openErr != nil {
				return eris.Wrapf(openErr, "open answers file %s", scoreFile)
			}
			defer f.Close()
			result, err = parser.ParseCSV(ctx, f)
		}
		if err != nil {
			return err
		}

		for _, ve := range result.Errors {
			zap.L().Warn("answer skipped", zap.Int("row", ve.Row),
				zap.String("column", ve.Column), zap.String("reason", ve.Message))
		}
		if len(result.Answers) == 0 {
			return eris.New("no usable answers in file")
		}

		answers := result.Answers
		if scoreSuggest {
			suggested := ingest.SuggestMissing(ctx, env.Chain, answers, env.Questions, scoreIndustry)
			answers = append(answers, suggested...)
		}

		score := env.Scorer.Score(scoreUser, answers, scoreIndustry, scoreSize)
		if err := env.Alerts.RecordScore(ctx, scoreUser, score); err != nil {
			return eris.Wrap(err, "record score")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(score)
	},
}

func init() {
	scoreCmd.Flags().StringVar(&scoreFile, "file", "", "answers file (csv, xlsx, or json)")
	scoreCmd.Flags().StringVar(&scoreIndustry, "industry", "retail", "industry cohort")
	scoreCmd.Flags().StringVar(&scoreSize, "size", "small", "company size band")
	scoreCmd.Flags().StringVar(&scoreUser, "user", "", "user ID")
	scoreCmd.Flags().BoolVar(&scoreSuggest, "suggest", false, "fill missing required answers via LLM")
	_ = scoreCmd.MarkFlagRequired("file")
	_ = scoreCmd.MarkFlagRequired("user")
	rootCmd.AddCommand(scoreCmd)
}
