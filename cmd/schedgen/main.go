package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"gopkg.in/yaml.v3"

	"schedgen/internal/capture"
	"schedgen/internal/config"
	"schedgen/internal/ics"
	appLog "schedgen/internal/log"
	"schedgen/internal/model"
	"schedgen/internal/render"
	"schedgen/internal/schedule"
	"schedgen/internal/web"
)

// flagConfig holds the CLI flag values.
type flagConfig struct {
	configPath  string
	eventsPath  string
	icsPath     string
	name        string
	output      string
	endHour     string
	svg         bool
	serve       bool
	listen      string
	previewPath string
	debug       bool
}

func main() {
	flags := parseFlags()
	if flags.debug {
		appLog.SetLevel(appLog.LevelDebug)
	}
	defer appLog.Sync()

	conf, err := config.Load(flags.configPath)
	if err != nil {
		appLog.Error("failed to load config", err, "config_path", flags.configPath)
		os.Exit(1)
	}

	// Flag overrides.
	if flags.name != "" {
		conf.DisplayName = flags.name
	}
	if flags.output != "" {
		conf.Output = flags.output
	}
	if flags.listen != "" {
		conf.Listen = flags.listen
	}
	if flags.endHour != "" {
		h, err := model.ParseEndHour(flags.endHour)
		if err != nil {
			appLog.Error("invalid -end value", err)
			os.Exit(1)
		}
		conf.EndHour = h
	}

	schedCfg, err := conf.ScheduleConfig()
	if err != nil {
		appLog.Error("invalid day selection", err, "days", strings.Join(conf.Days, ","))
		os.Exit(1)
	}
	palette := conf.Palette()
	style := render.Style{Title: conf.Title, Footer: conf.Footer}

	appLog.Info("schedgen starting",
		"config_path", flags.configPath,
		"days", strings.Join(conf.Days, ","),
		"end_hour", conf.EndHour,
		"serve", flags.serve,
	)

	sched := &schedule.Schedule{}
	if err := loadEvents(sched, palette, conf, flags); err != nil {
		appLog.Error("failed to load events", err)
		os.Exit(1)
	}

	// Root context with cancellation on SIGINT/SIGTERM.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		appLog.Info("signal received, shutting down", "signal", sig.String())
		cancel()
	}()

	switch {
	case flags.serve:
		err = runServe(ctx, conf, sched)
	case flags.previewPath != "":
		err = runPreview(ctx, conf, sched, flags.previewPath)
	default:
		err = runExport(conf, sched, schedCfg, style, flags.svg)
	}
	if err != nil {
		appLog.Error("schedgen failed", err)
		os.Exit(1)
	}
}

func parseFlags() flagConfig {
	var cfg flagConfig

	flag.StringVar(&cfg.configPath, "config", "schedule.yaml", "Path to config file (created on first run)")
	flag.StringVar(&cfg.eventsPath, "events", "", "YAML file of events to load")
	flag.StringVar(&cfg.icsPath, "ics", "", "iCalendar file to import events from")
	flag.StringVar(&cfg.name, "name", "", "Display name appended to the page title")
	flag.StringVar(&cfg.output, "o", "", "Output path (overrides config)")
	flag.StringVar(&cfg.endHour, "end", "", `Last grid hour, e.g. "6 PM" or "18" (overrides config)`)
	flag.BoolVar(&cfg.svg, "svg", false, "Export SVG instead of PDF")
	flag.BoolVar(&cfg.serve, "serve", false, "Run the schedule builder web UI")
	flag.StringVar(&cfg.listen, "listen", "", "HTTP listen address (overrides config)")
	flag.StringVar(&cfg.previewPath, "preview", "", "Capture a PNG preview of the builder page to this path")
	flag.BoolVar(&cfg.debug, "debug", false, "Enable debug logging")

	flag.Parse()

	return cfg
}

// loadEvents fills the schedule from the events file and the ICS import, in
// that order. The first invalid entry aborts with its position, so a broken
// file never produces a half-filled page silently.
func loadEvents(sched *schedule.Schedule, palette schedule.Palette, conf *config.Config, flags flagConfig) error {
	if flags.eventsPath != "" {
		data, err := os.ReadFile(flags.eventsPath)
		if err != nil {
			return err
		}
		var inputs []schedule.EventInput
		if err := yaml.Unmarshal(data, &inputs); err != nil {
			return fmt.Errorf("%s: %w", flags.eventsPath, err)
		}
		for i, in := range inputs {
			if _, err := sched.AddEvent(in, palette); err != nil {
				return fmt.Errorf("%s: event %d: %w", flags.eventsPath, i+1, err)
			}
		}
		appLog.Info("events file loaded", "path", flags.eventsPath, "event_count", len(inputs))
	}

	if flags.icsPath != "" {
		inputs, err := ics.ReadFile(flags.icsPath, conf.DefaultColor)
		if err != nil {
			return err
		}
		for i, in := range inputs {
			if _, err := sched.AddEvent(in, palette); err != nil {
				return fmt.Errorf("%s: imported event %d (%s): %w", flags.icsPath, i+1, in.Title, err)
			}
		}
	}

	return nil
}

func runServe(ctx context.Context, conf *config.Config, sched *schedule.Schedule) error {
	server, err := web.NewServer(conf, sched)
	if err != nil {
		return err
	}
	return server.Run(ctx)
}

// runPreview spins the builder up on the configured address just long
// enough to screenshot it.
func runPreview(ctx context.Context, conf *config.Config, sched *schedule.Schedule, outputPath string) error {
	if conf.BasicAuth != nil {
		appLog.Info("basic auth is enabled; the preview capture will not authenticate")
	}

	server, err := web.NewServer(conf, sched)
	if err != nil {
		return err
	}

	serveCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	srvErr := make(chan error, 1)
	go func() { srvErr <- server.Run(serveCtx) }()

	baseURL := "http://" + conf.Listen
	if err := waitReady(ctx, baseURL, srvErr); err != nil {
		return err
	}

	if err := capture.PreviewPNG(ctx, capture.Options{
		URL:        baseURL + "/",
		OutputPath: outputPath,
	}); err != nil {
		return err
	}

	cancel()
	if err := <-srvErr; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	appLog.Info("preview captured", "path", outputPath)
	return nil
}

// waitReady polls /health until the server answers, the server dies or the
// deadline passes. A failed startup (say, the listen address already bound)
// surfaces right away instead of timing out.
func waitReady(ctx context.Context, baseURL string, srvErr <-chan error) error {
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-srvErr:
			if err == nil {
				err = errors.New("server exited")
			}
			return fmt.Errorf("server stopped before becoming ready: %w", err)
		case <-time.After(100 * time.Millisecond):
		}
		resp, err := http.Get(baseURL + "/health")
		if err != nil {
			continue
		}
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			return nil
		}
	}
	return fmt.Errorf("server at %s did not become ready", baseURL)
}

func runExport(conf *config.Config, sched *schedule.Schedule, schedCfg model.ScheduleConfig, style render.Style, asSVG bool) error {
	events := sched.Events()

	var (
		data    []byte
		err     error
		outPath = conf.Output
	)
	if asSVG {
		data, err = render.DocumentSVG(events, schedCfg, style)
		if filepath.Ext(outPath) == ".pdf" {
			outPath = strings.TrimSuffix(outPath, ".pdf") + ".svg"
		}
	} else {
		data, err = render.Document(events, schedCfg, style)
	}
	if err != nil {
		return err
	}

	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		return err
	}

	appLog.Info("schedule exported", "path", outPath, "event_count", len(events), "bytes", len(data))
	return nil
}
