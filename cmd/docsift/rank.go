package main

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dgallion1/docsift/internal/pipeline"
	"github.com/dgallion1/docsift/internal/rank"
)

func rankCmd(a *app) *cobra.Command {
	var dir string
	var out string
	var topN int
	var lambda float64

	cmd := &cobra.Command{
		Use:   "rank <input.json>",
		Short: "Rank the sections of a document collection for a persona and task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("lambda") && (math.IsNaN(lambda) || lambda < 0 || lambda > 1) {
				return fmt.Errorf("lambda must be in [0,1], got %v", lambda)
			}
			in, err := readRankInput(args[0])
			if err != nil {
				return err
			}
			if dir == "" {
				dir = filepath.Dir(args[0])
			}
			if err := a.cfg.ValidateProvider(); err != nil {
				return err
			}

			ctx := cmd.Context()
			backend, err := pipeline.OpenBackend(ctx, a.cfg, a.log)
			if err != nil {
				return err
			}
			defer backend.Close()

			paths := make([]string, len(in.Documents))
			for i, d := range in.Documents {
				paths[i] = filepath.Join(dir, d.Filename)
			}
			files := readFiles(paths, func(path string, err error) {
				a.log.Warn("read failed", "path", path, "error", err)
			})

			w := pipeline.NewWorker(backend.Models, a.cfg, a.log)
			docs, failed := w.ParseAll(ctx, files, nil, nil)
			if len(docs) == 0 {
				return fmt.Errorf("no documents could be parsed")
			}
			sections := w.Segment(docs)
			a.log.Info("collection segmented", "documents", len(docs), "failed", failed+len(paths)-len(files), "sections", len(sections))

			params := pipeline.RankParams{
				Persona: in.Persona.Role,
				Task:    in.JobToBeDone.Task,
				TopN:    topN,
			}
			if cmd.Flags().Changed("lambda") {
				params.Lambda = &lambda
			}
			result, err := w.Rank(ctx, params, in.Filenames(), sections)
			if err != nil {
				return fmt.Errorf("rank: %w", err)
			}
			return writeRankOutput(cmd, out, result)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "", "directory holding the documents (default: the input file's directory)")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output file, - for stdout")
	cmd.Flags().IntVar(&topN, "top-n", 0, "number of sections to select (default from config)")
	cmd.Flags().Float64Var(&lambda, "lambda", 0, "MMR relevance/diversity trade-off in [0,1] (default from config)")
	return cmd
}

func readRankInput(path string) (*rank.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	var in rank.Input
	if err := json.Unmarshal(data, &in); err != nil {
		return nil, fmt.Errorf("decode input: %w", err)
	}
	if err := in.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input: %w", err)
	}
	return &in, nil
}

func writeRankOutput(cmd *cobra.Command, path string, result *rank.Output) error {
	data, err := json.MarshalIndent(result, "", "    ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	data = append(data, '\n')
	if path == "-" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
