package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"log/slog"

	"github.com/lmittmann/tint"

	"github.com/bdougie/posturewatch/internal/api"
	"github.com/bdougie/posturewatch/internal/capture"
	"github.com/bdougie/posturewatch/internal/config"
	"github.com/bdougie/posturewatch/internal/display"
	"github.com/bdougie/posturewatch/internal/models"
	"github.com/bdougie/posturewatch/internal/monitor"
	"github.com/bdougie/posturewatch/internal/video"
)

func usage() {
	fmt.Println("Usage:")
	fmt.Println("  posturewatch live [--server URL] [--device DEVICE]")
	fmt.Println("  posturewatch video --file path/to/video.mp4 [--server URL]")
	os.Exit(1)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	if len(os.Args) < 2 {
		usage()
	}
	command := os.Args[1]

	// Parse command line arguments
	videoPath := ""
	for i := 2; i < len(os.Args); i++ {
		switch os.Args[i] {
		case "--file":
			if i+1 < len(os.Args) {
				videoPath = os.Args[i+1]
				i++
			}
		case "--server":
			if i+1 < len(os.Args) {
				cfg.Server.URL = os.Args[i+1]
				i++
			}
		case "--device":
			if i+1 < len(os.Args) {
				cfg.Capture.Device = os.Args[i+1]
				i++
			}
		default:
			usage()
		}
	}

	logger := newLogger(cfg.Log)

	client, err := api.NewClient(cfg.Server.URL, cfg.Server.FrameTimeout, cfg.Server.VideoTimeout)
	if err != nil {
		logger.Error("failed to initialize analysis client", "error", err)
		os.Exit(1)
	}

	switch command {
	case "live":
		if err := runLive(cfg, client, logger); err != nil {
			logger.Error("live monitoring failed", "error", err)
			os.Exit(1)
		}
	case "video":
		if videoPath == "" {
			fmt.Println("Please select a video file first: posturewatch video --file path/to/video.mp4")
			os.Exit(1)
		}
		if err := runVideo(videoPath, client, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Analysis failed: %v\n", err)
			os.Exit(1)
		}
	default:
		usage()
	}
}

// newLogger configures slog the project standard way: tinted console output
// for interactive use, JSON when configured for log collection.
func newLogger(cfg config.LogConfig) *slog.Logger {
	level := slog.LevelInfo
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	if cfg.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	}
	return slog.New(
		tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: "15:04:05",
		}),
	)
}

func runLive(cfg *config.Config, client *api.Client, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	source := capture.NewFFmpegSource(cfg.Capture.FFmpegPath, cfg.Capture.InputFormat, cfg.Capture.Device)
	renderer := display.NewRenderer(os.Stdout)

	mon := monitor.New(source, client, cfg.Capture.Interval, logger)
	mon.SetOnUpdate(func(state models.MonitorState) {
		renderer.RenderLive(state)
	})

	fmt.Printf("Watching posture via %s, press Ctrl-C to stop...\n", cfg.Capture.Device)
	mon.Start(ctx)

	<-ctx.Done()
	mon.Stop()
	fmt.Println("\nMonitoring stopped.")
	return nil
}

func runVideo(path string, client *api.Client, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	session := video.NewSession(client, logger)
	if err := session.SelectPath(path); err != nil {
		return err
	}

	selected, _ := session.Selected()
	fmt.Printf("Analyzing '%s' (%d bytes), this may take up to a minute...\n", selected.Name, selected.Size)

	result, err := session.Analyze(ctx)
	if err != nil {
		return err
	}

	display.NewRenderer(os.Stdout).RenderReport(result)
	return nil
}
