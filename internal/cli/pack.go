package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/DenisPitsul/PackingBlocks/internal/engine"
	"github.com/DenisPitsul/PackingBlocks/internal/export"
	"github.com/DenisPitsul/PackingBlocks/internal/importer"
	"github.com/DenisPitsul/PackingBlocks/internal/model"
	"github.com/DenisPitsul/PackingBlocks/internal/project"
)

type packOptions struct {
	blocks   []string
	sample   bool
	width    float64
	height   float64
	tagStyle string
	seed     int64
	outputs  []string
	labels   string
	saveJob  string
	offcut   float64
}

func newPackCommand(g *globals) *cobra.Command {
	opts := &packOptions{}

	cmd := &cobra.Command{
		Use:   "pack [job-or-block-file]",
		Short: "Pack blocks into a container and report the layout",
		Long: `Pack blocks into a container.

Blocks come from exactly one source:
  - a job file (.json, .jsonc, .yaml, .yml) holding a container and blocks,
  - a block list (.csv, .tsv, .txt, .xlsx, .dxf), packed into the container
    given by --width/--height or the configured default,
  - repeated --block WxH[xQTY] flags,
  - --sample, the built-in demo data set.`,
		Example: `  packblocks pack --sample
  packblocks pack job.yaml -o report.xlsx -o report.pdf
  packblocks pack parts.csv --width 1200 --height 800 --json
  packblocks pack --block 250x250 --block 250x50x8 --width 500 --height 500`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return NewCLIError(ExitUsage, fmt.Sprintf("expected at most one file, got %d", len(args)))
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPack(cmd, g, opts, args)
		},
	}

	f := cmd.Flags()
	f.StringArrayVarP(&opts.blocks, "block", "b", nil, "Block as WxH or WxHxQTY (repeatable)")
	f.BoolVar(&opts.sample, "sample", false, "Pack the built-in sample data set")
	f.Float64Var(&opts.width, "width", 0, "Container width (overrides the job or config)")
	f.Float64Var(&opts.height, "height", 0, "Container height (overrides the job or config)")
	f.StringVar(&opts.tagStyle, "tag-style", "", "Group tag style: hex, uuid or sequence")
	f.Int64Var(&opts.seed, "seed", 0, "Seed for group tags (0 uses the configured seed or the clock)")
	f.StringArrayVarP(&opts.outputs, "output", "o", nil, "Write a report; format from extension: .json, .xlsx, .pdf (repeatable)")
	f.StringVar(&opts.labels, "labels", "", "Write QR-coded block labels to this PDF")
	f.StringVar(&opts.saveJob, "save-job", "", "Save the resolved job to this .json or .yaml file")
	f.Float64Var(&opts.offcut, "min-offcut", 0, "Smallest width and height of a free region reported as a reusable offcut")

	return cmd
}

func runPack(cmd *cobra.Command, g *globals, opts *packOptions, args []string) error {
	job, source, err := resolveJob(cmd, g, opts, args)
	if err != nil {
		return err
	}

	settings, err := resolveSettings(cmd, g.config, opts)
	if err != nil {
		return err
	}

	blocks, err := job.Expand()
	if err != nil {
		return WrapCLIError(ExitInvalidInput, "invalid blocks", err)
	}

	log := g.logger.With(zap.String("job", job.Name))
	log.Info("Packing",
		zap.String("source", source),
		zap.Stringer("container", model.Size{Width: job.Container.Width, Height: job.Container.Height}),
		zap.Int("blocks", len(blocks)),
		zap.String("tag_style", string(settings.TagStyle)),
		zap.Int64("seed", settings.Seed),
	)

	packer := engine.New(settings, engine.WithLogger(log))
	result, err := packer.Pack(job.Container, blocks)
	if err != nil {
		if errors.Is(err, model.ErrInvalidDimensions) {
			return WrapCLIError(ExitInvalidInput, "invalid dimensions", err)
		}
		return WrapCLIError(ExitGeneralError, "packing failed", err)
	}

	if err := writeReports(log, opts, result, settings); err != nil {
		return err
	}
	if opts.saveJob != "" {
		if err := project.SaveJob(opts.saveJob, job); err != nil {
			return WrapCLIError(ExitOutputFailed, "failed to save job", err)
		}
		log.Info("Job saved", zap.String("path", opts.saveJob), zap.Int("blocks", job.BlockCount()))
	}
	if project.IsJobFile(source) {
		rememberJob(g, source)
	}

	out := cmd.OutOrStdout()
	if g.jsonOutput {
		if err := export.WriteJSON(out, result); err != nil {
			return WrapCLIError(ExitOutputFailed, "failed to write result", err)
		}
		return nil
	}
	offcuts := model.DetectOffcuts(result.FreeSpaces, model.OffcutLimits{MinDimension: opts.offcut})
	printSummary(out, job.Name, result, settings, offcuts)
	return nil
}

// resolveJob builds the job from the single block source the user gave.
func resolveJob(cmd *cobra.Command, g *globals, opts *packOptions, args []string) (project.Job, string, error) {
	sources := 0
	if len(args) == 1 {
		sources++
	}
	if len(opts.blocks) > 0 {
		sources++
	}
	if opts.sample {
		sources++
	}
	switch {
	case sources == 0:
		return project.Job{}, "", NewCLIError(ExitUsage, "no blocks given: pass a file, --block or --sample")
	case sources > 1:
		return project.Job{}, "", NewCLIError(ExitUsage, "give exactly one of a file, --block or --sample")
	}

	var (
		job    project.Job
		source string
	)
	switch {
	case opts.sample:
		job, source = project.SampleJob(), "sample"

	case len(opts.blocks) > 0:
		specs := make([]model.BlockSpec, 0, len(opts.blocks))
		for _, raw := range opts.blocks {
			spec, err := parseBlockFlag(raw)
			if err != nil {
				return project.Job{}, "", WrapCLIError(ExitUsage, "invalid --block", err)
			}
			specs = append(specs, spec)
		}
		job, source = project.Job{Name: "blocks", Blocks: specs}, "flags"
		if err := defaultContainer(g, &job); err != nil {
			return project.Job{}, "", err
		}

	case project.IsJobFile(args[0]):
		loaded, err := project.LoadJob(args[0])
		if err != nil {
			return project.Job{}, "", WrapCLIError(ExitInvalidInput, "failed to load job", err)
		}
		job, source = loaded, args[0]

	default:
		res := importer.Import(args[0])
		for _, w := range res.Warnings {
			g.logger.Warn("Import warning", zap.String("file", args[0]), zap.String("detail", w))
		}
		if len(res.Errors) > 0 {
			return project.Job{}, "", WrapCLIError(ExitInvalidInput,
				fmt.Sprintf("failed to import %s", args[0]), errors.New(strings.Join(res.Errors, "; ")))
		}
		if len(res.Blocks) == 0 {
			return project.Job{}, "", NewCLIError(ExitInvalidInput, fmt.Sprintf("no blocks found in %s", args[0]))
		}
		job = project.Job{Name: strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0])), Blocks: res.Blocks}
		source = args[0]
		if err := defaultContainer(g, &job); err != nil {
			return project.Job{}, "", err
		}
	}

	// Explicit container flags win over the job and the config
	if cmd.Flags().Changed("width") {
		job.Container.Width = opts.width
	}
	if cmd.Flags().Changed("height") {
		job.Container.Height = opts.height
	}
	if err := job.Container.Validate(); err != nil {
		return project.Job{}, "", WrapCLIError(ExitUsage, "invalid container", err)
	}
	return job, source, nil
}

func defaultContainer(g *globals, job *project.Job) error {
	c, err := g.config.DefaultContainer()
	if err != nil {
		return WrapCLIError(ExitInvalidInput, "invalid default container in config", err)
	}
	job.Container = c
	return nil
}

// resolveSettings applies the config, then flags. A seed of zero after both
// is replaced by the clock so every run still reports a reproducible seed.
func resolveSettings(cmd *cobra.Command, cfg model.AppConfig, opts *packOptions) (model.PackSettings, error) {
	settings := model.DefaultSettings()
	settings.Seed = 0
	cfg.ApplyToSettings(&settings)

	if _, err := model.ParseTagStyle(string(settings.TagStyle)); err != nil {
		return model.PackSettings{}, WrapCLIError(ExitInvalidInput, "invalid tag style in config", err)
	}
	if cmd.Flags().Changed("tag-style") {
		style, err := model.ParseTagStyle(opts.tagStyle)
		if err != nil {
			return model.PackSettings{}, WrapCLIError(ExitUsage, "invalid --tag-style", err)
		}
		settings.TagStyle = style
	}
	if opts.seed != 0 {
		settings.Seed = opts.seed
	}
	if settings.Seed == 0 {
		settings.Seed = time.Now().UnixNano()
	}
	return settings, nil
}

// parseBlockFlag parses "WxH" or "WxHxQTY".
func parseBlockFlag(raw string) (model.BlockSpec, error) {
	parts := strings.Split(strings.ToLower(strings.TrimSpace(raw)), "x")
	if len(parts) != 2 && len(parts) != 3 {
		return model.BlockSpec{}, fmt.Errorf("%q: want WxH or WxHxQTY", raw)
	}
	w, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return model.BlockSpec{}, fmt.Errorf("%q: invalid width: %w", raw, err)
	}
	h, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return model.BlockSpec{}, fmt.Errorf("%q: invalid height: %w", raw, err)
	}
	qty := 1
	if len(parts) == 3 {
		if qty, err = strconv.Atoi(parts[2]); err != nil || qty <= 0 {
			return model.BlockSpec{}, fmt.Errorf("%q: quantity must be a positive integer", raw)
		}
	}
	if !(model.Size{Width: w, Height: h}).Valid() {
		return model.BlockSpec{}, fmt.Errorf("%q: %w", raw, model.ErrInvalidDimensions)
	}
	return model.NewBlockSpec("", w, h, qty), nil
}

func writeReports(log *zap.Logger, opts *packOptions, result model.PackResult, settings model.PackSettings) error {
	for _, path := range opts.outputs {
		format, err := export.FormatForPath(path)
		if err != nil {
			return WrapCLIError(ExitUsage, "invalid --output", err)
		}
		if err := export.Export(path, format, result, settings); err != nil {
			return WrapCLIError(ExitOutputFailed, fmt.Sprintf("failed to write %s", path), err)
		}
		log.Info("Report written", zap.String("path", path), zap.String("format", string(format)))
	}

	if opts.labels != "" {
		err := export.ExportLabels(opts.labels, result)
		switch {
		case errors.Is(err, export.ErrNoPlacements):
			log.Warn("No labels written: nothing was placed", zap.String("path", opts.labels))
		case err != nil:
			return WrapCLIError(ExitOutputFailed, "failed to write labels", err)
		default:
			log.Info("Labels written", zap.String("path", opts.labels), zap.Int("labels", len(result.Placed)))
		}
	}
	return nil
}

// rememberJob records a packed job file in the recent list, but only when a
// config file already exists.
func rememberJob(g *globals, path string) {
	if _, err := os.Stat(g.configPath); err != nil {
		return
	}
	cfg, err := project.LoadAppConfig(g.configPath)
	if err != nil {
		g.logger.Warn("Recent jobs not updated", zap.Error(err))
		return
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	cfg.AddRecentJob(path)
	if err := project.SaveAppConfig(g.configPath, cfg); err != nil {
		g.logger.Warn("Recent jobs not updated", zap.Error(err))
	}
}
