package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"atlaspack/atlas"
)

// packFlags 保存命令行参数，只有显式给出的参数才会覆盖配置文件
type packFlags struct {
	config string
	opts   atlas.Options
}

func newPackCmd() *cobra.Command {
	f := packFlags{opts: atlas.DefaultOptions()}

	cmd := &cobra.Command{
		Use:   "pack",
		Short: "Pack the images of a directory into atlases",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := f.resolve(cmd.Flags())
			if err != nil {
				return err
			}
			return runPack(cmd, opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&f.config, "config", "", "TOML config file (flags override it)")
	flags.StringVarP(&f.opts.InputDir, "input", "i", f.opts.InputDir, "input directory")
	flags.StringVarP(&f.opts.OutputDir, "output", "o", f.opts.OutputDir, "output directory")
	flags.IntVar(&f.opts.MaxWidth, "width", f.opts.MaxWidth, "maximum atlas width")
	flags.IntVar(&f.opts.MaxHeight, "height", f.opts.MaxHeight, "maximum atlas height")
	flags.IntVar(&f.opts.Padding, "padding", f.opts.Padding, "pixels between sprites and around the edge")
	flags.BoolVar(&f.opts.Rotate, "rotate", f.opts.Rotate, "allow 90 degree rotation")
	flags.BoolVar(&f.opts.Trim, "trim", f.opts.Trim, "trim transparent borders")
	flags.Uint8Var(&f.opts.Threshold, "threshold", f.opts.Threshold, "alpha at or below this value counts as transparent")
	flags.BoolVar(&f.opts.NaturalSort, "sort", f.opts.NaturalSort, "order input files naturally by name")
	flags.BoolVar(&f.opts.AutoSize, "auto-size", f.opts.AutoSize, "shrink each atlas to the smallest size that still fits")
	flags.BoolVar(&f.opts.PowerOfTwo, "pow2", f.opts.PowerOfTwo, "round atlas sizes up to powers of two")
	flags.StringVar(&f.opts.Heuristic, "heuristic", f.opts.Heuristic, "placement heuristic (see 'atlaspack heuristics')")
	flags.StringVar(&f.opts.Order, "order", f.opts.Order, "input order before packing: area, perimeter, diff, minside, maxside, ratio, none")
	return cmd
}

// resolve loads the config file, when given, and applies the flags that were
// set explicitly.
func (f *packFlags) resolve(flags *pflag.FlagSet) (atlas.Options, error) {
	if f.config == "" {
		return f.opts, f.opts.Validate()
	}
	opts, err := atlas.LoadOptions(f.config)
	if err != nil {
		return atlas.Options{}, err
	}
	set := map[string]func(){
		"input":     func() { opts.InputDir = f.opts.InputDir },
		"output":    func() { opts.OutputDir = f.opts.OutputDir },
		"width":     func() { opts.MaxWidth = f.opts.MaxWidth },
		"height":    func() { opts.MaxHeight = f.opts.MaxHeight },
		"padding":   func() { opts.Padding = f.opts.Padding },
		"rotate":    func() { opts.Rotate = f.opts.Rotate },
		"trim":      func() { opts.Trim = f.opts.Trim },
		"threshold": func() { opts.Threshold = f.opts.Threshold },
		"sort":      func() { opts.NaturalSort = f.opts.NaturalSort },
		"auto-size": func() { opts.AutoSize = f.opts.AutoSize },
		"pow2":      func() { opts.PowerOfTwo = f.opts.PowerOfTwo },
		"heuristic": func() { opts.Heuristic = f.opts.Heuristic },
		"order":     func() { opts.Order = f.opts.Order },
	}
	flags.Visit(func(fl *pflag.Flag) {
		if apply, ok := set[fl.Name]; ok {
			apply()
		}
	})
	return opts, opts.Validate()
}

func runPack(cmd *cobra.Command, opts atlas.Options) error {
	ctx := cmd.Context()
	logger := loggerFromContext(ctx)

	builder, err := atlas.NewBuilder(opts, logger)
	if err != nil {
		return err
	}

	prog := newProgress(logger)
	paths, err := atlas.ScanDir(opts.InputDir, opts.NaturalSort)
	if err != nil {
		return err
	}
	sprites, err := atlas.LoadSprites(ctx, paths, opts.Trim, opts.Threshold)
	if err != nil {
		return err
	}
	prog.done("loaded sprites", "count", len(sprites), "trim", opts.Trim)

	prog = newProgress(logger)
	atlases, err := builder.Build(ctx, sprites)
	if err != nil {
		return err
	}
	prog.done("packed", "atlases", len(atlases), "heuristic", opts.Heuristic)

	prog = newProgress(logger)
	metadata, err := atlas.WriteAtlases(opts.OutputDir, atlases)
	if err != nil {
		return err
	}
	prog.done("wrote atlases", "metadata", metadata)
	return nil
}
