package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"sketchassist/app"
	"sketchassist/hal"
	"sketchassist/internal/buildinfo"
	"sketchassist/internal/config"
	"sketchassist/internal/logging"
)

func main() {
	var (
		headless   hal.HeadlessConfig
		configPath string
		saveConfig bool
		showVer    bool
		logFormat  string
		modelPath  string
		labelsPath string
		assetsDir  string
		trigger    string
		interval   time.Duration
		logLevel   string
		snapshot   bool
	)
	flag.StringVar(&configPath, "config", config.DefaultPath(), "Path to the JSON config file.")
	flag.BoolVar(&saveConfig, "save-config", false, "Write the effective config to -config and exit.")
	flag.BoolVar(&showVer, "version", false, "Print version and exit.")
	flag.BoolVar(&headless.Enabled, "headless", false, "Run without a window.")
	flag.IntVar(&headless.Hz, "hz", 60, "Tick rate in headless mode.")
	flag.Uint64Var(&headless.Ticks, "ticks", 0, "Stop after N ticks in headless mode (0 = run forever).")
	flag.StringVar(&headless.Script, "script", "", "Scripted input for headless mode, e.g. \"down 100 100; move 300 200; up; key b\".")
	flag.StringVar(&modelPath, "model", "", "Model file (.onnx or .json.lzw); overrides the config.")
	flag.StringVar(&labelsPath, "labels", "", "Label file, one class name per line.")
	flag.StringVar(&assetsDir, "assets", "", "Assets directory holding results/<class>/*.png.")
	flag.StringVar(&trigger, "trigger", "", "Inference trigger: timer or key.")
	flag.DurationVar(&interval, "interval", 0, "Inference timer interval.")
	flag.StringVar(&logLevel, "log-level", "", "Log level: debug, info, warn, error.")
	flag.StringVar(&logFormat, "log-format", string(logging.FormatAuto), "Log format: auto, text, json.")
	flag.BoolVar(&snapshot, "snapshot", false, "Save the canvas on every inference.")
	flag.Parse()

	if showVer {
		fmt.Println(buildinfo.Long())
		return
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if modelPath != "" {
		cfg.ModelPath = modelPath
	}
	if labelsPath != "" {
		cfg.LabelsPath = labelsPath
	}
	if assetsDir != "" {
		cfg.AssetsDir = assetsDir
	}
	if trigger != "" {
		cfg.Trigger = trigger
	}
	if interval > 0 {
		cfg.InferInterval = config.Duration(interval)
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if snapshot {
		cfg.SnapshotOnInfer = true
	}
	if cfg.Debug && logLevel == "" {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if saveConfig {
		if err := cfg.Save(configPath); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		fmt.Println(configPath)
		return
	}

	newApp := func(h hal.HAL) (func() error, error) {
		log := logging.New(h.Logger(), logging.ParseLevel(cfg.LogLevel), logging.Format(logFormat))
		return app.New(h, cfg, log)
	}

	if headless.Enabled {
		headless.Width, headless.Height = cfg.WindowWidth, cfg.WindowHeight
		cfg.Async = false
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()
		if err := hal.RunHeadless(ctx, headless, newApp); err != nil {
			if errors.Is(err, context.Canceled) {
				return
			}
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	if err := hal.RunWindow(hal.WindowConfig{
		Title:  "Sketch Assist",
		Width:  cfg.WindowWidth,
		Height: cfg.WindowHeight,
		Scale:  cfg.WindowScale,
		TPS:    cfg.TPS,
	}, newApp); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
