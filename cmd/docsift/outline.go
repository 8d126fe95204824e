package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/dgallion1/docsift/internal/doctree"
	"github.com/dgallion1/docsift/internal/pipeline"
)

const (
	formatJSON = "json"
	formatYAML = "yaml"
)

func outlineCmd(a *app) *cobra.Command {
	var out string
	var format string

	cmd := &cobra.Command{
		Use:   "outline <file-or-dir>...",
		Short: "Write the title and heading outline of each document",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != formatJSON && format != formatYAML {
				return fmt.Errorf("unsupported format %q (json|yaml)", format)
			}
			paths, err := collectInputs(args)
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no supported documents found")
			}
			if err := os.MkdirAll(out, 0o755); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}

			files := readFiles(paths, func(path string, err error) {
				a.log.Warn("read failed", "path", path, "error", err)
			})
			w := pipeline.NewWorker(pipeline.Models{}, a.cfg, a.log)
			docs, failed := w.ParseAll(cmd.Context(), files, nil, nil)

			written := 0
			for _, r := range w.Outlines(docs) {
				dst := filepath.Join(out, outputName(r.Document, format))
				if err := writeOutline(dst, format, r.Outline); err != nil {
					a.log.Warn("write failed", "document", r.Document, "error", err)
					failed++
					continue
				}
				a.log.Info("outline written", "document", r.Document, "headings", len(r.Outline.Outline), "path", dst)
				written++
			}
			failed += len(paths) - len(files)
			a.log.Info("outline batch finished", "written", written, "failed", failed)
			if written == 0 {
				return fmt.Errorf("no outlines written (%d failed)", failed)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "output", "output directory")
	cmd.Flags().StringVarP(&format, "format", "f", formatJSON, "output format: json|yaml")
	return cmd
}

func writeOutline(path, format string, o doctree.Outline) error {
	if o.Outline == nil {
		o.Outline = []doctree.OutlineEntry{}
	}
	var data []byte
	var err error
	switch format {
	case formatYAML:
		data, err = yaml.Marshal(o)
	default:
		data, err = json.MarshalIndent(o, "", "  ")
		data = append(data, '\n')
	}
	if err != nil {
		return fmt.Errorf("encode outline: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
