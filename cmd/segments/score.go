package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/drakos74/free-segments/internal/artifact"
	"github.com/drakos74/free-segments/internal/segment"
	"github.com/drakos74/free-segments/internal/storage/file/json"
	"github.com/drakos74/free-segments/internal/table"
	"github.com/drakos74/free-segments/internal/web"
)

func newScoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Label the customers of a csv file and write the labeled csv",
		RunE:  runScore,
	}
	cmd.Flags().String("in", "", "input csv file (required)")
	cmd.Flags().String("out", "", "output csv file, stdout if empty")
	cmd.Flags().String("summary", "", "json file for the per-segment summary")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runScore(cmd *cobra.Command, _ []string) error {
	cfg := loadConfig(cmd)
	in, _ := cmd.Flags().GetString("in")
	out, _ := cmd.Flags().GetString("out")
	summary, _ := cmd.Flags().GetString("summary")

	set, err := artifact.Load(cfg.Artifacts.Scaler, cfg.Artifacts.Model)
	if err != nil {
		return err
	}

	f, err := os.Open(in)
	if err != nil {
		return fmt.Errorf("could not open input: %w", err)
	}
	defer f.Close()

	res := web.Process(segment.NewScorer(set), uuid.New().String(), f)
	if res.Err != nil {
		return res.Err
	}

	if out == "" {
		if err := table.WriteCSV(cmd.OutOrStdout(), res.Output); err != nil {
			return err
		}
	} else if err := writeFile(out, res.Output); err != nil {
		return err
	}

	if summary != "" {
		dir, file := filepath.Split(summary)
		if dir == "" {
			dir = "."
		}
		if err := json.Save(dir, file, res.Summary); err != nil {
			return fmt.Errorf("could not write summary: %w", err)
		}
	}

	for _, s := range res.Summary {
		log.Info().
			Int("segment", s.Label).
			Int("customers", s.Count).
			Float64("income", s.Income.Avg).
			Float64("income-min", s.Income.Min).
			Float64("income-max", s.Income.Max).
			Float64("income-stdev", s.Income.StDev).
			Float64("spending", s.Spending.Avg).
			Float64("spending-min", s.Spending.Min).
			Float64("spending-max", s.Spending.Max).
			Float64("spending-stdev", s.Spending.StDev).
			Msg("segment")
	}
	return nil
}

func writeFile(path string, t *table.Table) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create output: %w", err)
	}
	if err := table.WriteCSV(file, t); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("could not close output '%s': %w", path, err)
	}
	return nil
}
