package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/specialistvlad/rawgridgo/internal/engine"
	"github.com/specialistvlad/rawgridgo/internal/node"
	"github.com/specialistvlad/rawgridgo/internal/workflow"
	"github.com/specialistvlad/rawgridgo/modules/save"
)

// RunOptions describes a batch run over one workflow file or a directory of
// them.
type RunOptions struct {
	Workflow string
	// Process runs a cascade from every block without inputs.
	Process bool
	// OutDir receives the image of every save block. Empty disables export.
	OutDir string
	// Format is the export extension, ".png" by default.
	Format string
}

// RunReport summarizes a batch run.
type RunReport struct {
	Files     int
	Blocks    int
	Processed int
	Skipped   int
	Saved     []string
}

// counter tallies cascade outcomes.
type counter struct {
	processed, skipped int
}

func (c *counter) BlockProcessed(context.Context, *node.Block, time.Duration) { c.processed++ }
func (c *counter) BlockSkipped(context.Context, *node.Block, error)           { c.skipped++ }

// Run executes every workflow found at opts.Workflow.
func (a *App) Run(ctx context.Context, opts RunOptions) (*RunReport, error) {
	ctx = a.Context(ctx)
	a.logger.Debug("App.Run method started.", "workflow", opts.Workflow)

	files, err := workflow.Resolve(ctx, opts.Workflow)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		a.logger.Warn("No workflow files found, nothing to run.", "path", opts.Workflow)
		return &RunReport{}, nil
	}
	if opts.OutDir != "" {
		if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	report := &RunReport{}
	for _, file := range files {
		if err := a.runFile(ctx, file, opts, report); err != nil {
			return report, err
		}
		report.Files++
	}

	a.logger.Info("🏁 Run finished.",
		"files", report.Files,
		"blocks", report.Blocks,
		"processed", report.Processed,
		"skipped", report.Skipped,
		"saved", len(report.Saved))
	return report, nil
}

func (a *App) runFile(ctx context.Context, file string, opts RunOptions, report *RunReport) error {
	tally := &counter{}
	e := a.NewEngine(engine.WithObserver(tally))

	skipped, err := workflow.Load(ctx, e, file)
	if err != nil {
		return fmt.Errorf("failed to load workflow %s: %w", file, err)
	}
	blocks := e.Graph().Blocks()
	a.logger.Info("🚀 Workflow loaded.", "path", file, "blocks", len(blocks), "skipped_entries", len(skipped))
	report.Blocks += len(blocks)

	if opts.Process {
		for _, b := range blocks {
			if len(b.Inputs()) > 0 {
				continue
			}
			if err := e.Process(ctx, b.ID()); err != nil {
				return err
			}
		}
	}
	report.Processed += tally.processed
	report.Skipped += tally.skipped

	if opts.OutDir == "" {
		return nil
	}
	format := opts.Format
	if format == "" {
		format = ".png"
	}
	if !strings.HasPrefix(format, ".") {
		format = "." + format
	}
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	n := 0
	for _, b := range blocks {
		if b.Kind != save.Kind || !b.Ready() {
			continue
		}
		n++
		path := filepath.Join(opts.OutDir, fmt.Sprintf("%s_%d%s", stem, n, format))
		if err := e.SaveImage(ctx, b.ID(), path); err != nil {
			return err
		}
		report.Saved = append(report.Saved, path)
	}
	return nil
}
