package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strconv"
	"strings"
	"sync/atomic"
	"text/tabwriter"
	"time"

	"sketchassist/internal/buildinfo"
	"sketchassist/internal/classify"
	"sketchassist/internal/config"
	"sketchassist/internal/logging"
	"sketchassist/internal/preprocess"

	"github.com/disintegration/imaging"
	"github.com/dustin/go-humanize"
	"github.com/klauspost/cpuid/v2"
	"github.com/neurlang/classifier/parallel"
	"github.com/spf13/cobra"
)

type options struct {
	configPath string
	modelPath  string
	labelsPath string
	inputSize  int
	logLevel   string
	jobs       int
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	root := &cobra.Command{
		Use:           "sketchctl",
		Short:         "Classify sketches offline",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	f := root.PersistentFlags()
	f.StringVar(&opts.configPath, "config", config.DefaultPath(), "JSON config file")
	f.StringVar(&opts.modelPath, "model", "", "model file (.onnx or .json.lzw), overrides the config")
	f.StringVar(&opts.labelsPath, "labels", "", "label file, one class name per line")
	f.IntVar(&opts.inputSize, "input-size", 0, "model input size in pixels")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level")

	root.AddCommand(newClassifyCmd(opts), newEvalCmd(opts), newVersionCmd())
	return root
}

func (o *options) logger(w io.Writer) *slog.Logger {
	return logging.NewWriter(w, logging.ParseLevel(o.logLevel), logging.FormatAuto)
}

func (o *options) open() (classify.Classifier, *config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, nil, err
	}
	if o.modelPath != "" {
		cfg.ModelPath = o.modelPath
	}
	if o.labelsPath != "" {
		cfg.LabelsPath = o.labelsPath
	}
	if o.inputSize > 0 {
		cfg.InputSize = o.inputSize
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	c, err := classify.Open(classify.Options{
		ModelPath:  cfg.ModelPath,
		LabelsPath: cfg.LabelsPath,
		InputSize:  cfg.InputSize,
		Stats:      preprocess.Stats{Mean: cfg.Mean, Std: cfg.Std},
	})
	if err != nil {
		return nil, nil, err
	}
	return c, cfg, nil
}

func newClassifyCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <png>...",
		Short: "Print the predicted class of each image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd.ErrOrStderr())
			c, _, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "FILE\tCLASS\tLABEL\tSCORE\tTIME")
			for _, path := range args {
				img, err := imaging.Open(path)
				if err != nil {
					log.Error("open image", "path", path, "err", err)
					continue
				}
				p, err := c.Classify(cmd.Context(), img)
				if err != nil {
					return fmt.Errorf("classify %s: %w", path, err)
				}
				fmt.Fprintf(tw, "%s\t%d\t%s\t%.4f\t%s\n", path, p.Class, p.Label, p.Score, p.Elapsed.Round(time.Microsecond))
			}
			return tw.Flush()
		},
	}
}

// sample is one labelled image found by collectSamples.
type sample struct {
	path  string
	class int
}

// collectSamples walks dir/<class-or-label>/*.png. Directory names are class
// numbers or entries of labels.
func collectSamples(dir string, labels classify.Labels) ([]sample, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []sample
	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		class, ok := expectedClass(e.Name(), labels)
		if !ok {
			continue
		}
		files, err := filepath.Glob(filepath.Join(dir, e.Name(), "*.png"))
		if err != nil {
			return nil, err
		}
		sort.Strings(files)
		for _, f := range files {
			out = append(out, sample{path: f, class: class})
		}
	}
	return out, nil
}

func expectedClass(name string, labels classify.Labels) (int, bool) {
	if n, err := strconv.Atoi(name); err == nil && n >= 0 {
		return n, true
	}
	for i, l := range labels {
		if l != "" && strings.EqualFold(l, name) {
			return i, true
		}
	}
	return 0, false
}

func newEvalCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eval <dir>",
		Short: "Measure accuracy over <dir>/<class>/*.png",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := opts.logger(cmd.ErrOrStderr())
			c, cfg, err := opts.open()
			if err != nil {
				return err
			}
			defer c.Close()

			var labels classify.Labels
			if cfg.LabelsPath != "" {
				if labels, err = classify.LoadLabels(cfg.LabelsPath); err != nil {
					return err
				}
			}
			samples, err := collectSamples(args[0], labels)
			if err != nil {
				return err
			}
			if len(samples) == 0 {
				return fmt.Errorf("eval: no labelled images under %s", args[0])
			}

			jobs := opts.jobs
			if jobs <= 0 {
				jobs = runtime.NumCPU()
			}
			log.Info("eval", "samples", len(samples), "jobs", jobs, "cpu", cpuid.CPU.BrandName)

			res := evaluate(cmd.Context(), c, samples, jobs, log)
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "samples:  %s\n", humanize.Comma(int64(len(samples))))
			fmt.Fprintf(out, "correct:  %s\n", humanize.Comma(int64(res.correct)))
			fmt.Fprintf(out, "failed:   %s\n", humanize.Comma(int64(res.failed)))
			fmt.Fprintf(out, "accuracy: %.2f%%\n", res.accuracy(len(samples)))
			fmt.Fprintf(out, "elapsed:  %s\n", res.elapsed.Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().IntVarP(&opts.jobs, "jobs", "j", 0, "parallel classifications (default: number of CPUs)")
	return cmd
}

type evalResult struct {
	correct uint64
	failed  uint64
	elapsed time.Duration
}

func (r evalResult) accuracy(n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(r.correct) * 100 / float64(n)
}

func evaluate(ctx context.Context, c classify.Classifier, samples []sample, jobs int, log *slog.Logger) evalResult {
	start := time.Now()
	var correct, failed atomic.Uint64
	parallel.ForEach(len(samples), jobs, func(i int) {
		s := samples[i]
		img, err := imaging.Open(s.path)
		if err != nil {
			log.Warn("open image", "path", s.path, "err", err)
			failed.Add(1)
			return
		}
		p, err := c.Classify(ctx, img)
		if err != nil {
			log.Warn("classify", "path", s.path, "err", err)
			failed.Add(1)
			return
		}
		if p.Class == s.class {
			correct.Add(1)
		}
	})
	return evalResult{correct: correct.Load(), failed: failed.Load(), elapsed: time.Since(start)}
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build and CPU information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, buildinfo.Long())
			fmt.Fprintf(out, "cpu: %s (%d cores, avx2=%v)\n", cpuid.CPU.BrandName, cpuid.CPU.PhysicalCores, cpuid.CPU.Supports(cpuid.AVX2))
		},
	}
}
