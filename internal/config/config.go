// Package config loads posturewatch configuration from defaults, an optional
// YAML file, and POSTUREWATCH_-prefixed environment variables, in that order
// of increasing priority.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths are searched in order; the first file found is used.
var DefaultConfigPaths = []string{
	"posturewatch.yaml",
	"posturewatch.yml",
	"/etc/posturewatch/config.yaml",
}

// ConfigPathEnvVar overrides the config file path when set.
const ConfigPathEnvVar = "POSTUREWATCH_CONFIG"

// envPrefix namespaces environment overrides, e.g. POSTUREWATCH_SERVER_URL.
const envPrefix = "POSTUREWATCH_"

// ServerConfig locates the remote analysis service.
type ServerConfig struct {
	// URL is the base origin serving /analyze/frame and /analyze/video.
	URL string `koanf:"url"`
	// FrameTimeout bounds one frame submission.
	FrameTimeout time.Duration `koanf:"frame_timeout"`
	// VideoTimeout bounds one whole-video submission.
	VideoTimeout time.Duration `koanf:"video_timeout"`
}

// CaptureConfig controls the live webcam grab.
type CaptureConfig struct {
	// Device is the camera device handed to ffmpeg.
	Device string `koanf:"device"`
	// InputFormat is the ffmpeg input demuxer (v4l2, avfoundation, ...).
	InputFormat string `koanf:"input_format"`
	// FFmpegPath is the ffmpeg binary to exec.
	FFmpegPath string `koanf:"ffmpeg_path"`
	// Interval is the polling cadence of the live loop.
	Interval time.Duration `koanf:"interval"`
}

// LogConfig controls logger verbosity and rendering.
type LogConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// Config is the root configuration tree.
type Config struct {
	Server  ServerConfig  `koanf:"server"`
	Capture CaptureConfig `koanf:"capture"`
	Log     LogConfig     `koanf:"log"`
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			URL:          "http://localhost:8000",
			FrameTimeout: 5 * time.Second,
			VideoTimeout: 60 * time.Second,
		},
		Capture: CaptureConfig{
			Device:      "/dev/video0",
			InputFormat: "v4l2",
			FFmpegPath:  "ffmpeg",
			Interval:    time.Second,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load builds the configuration: defaults, then the config file (if any),
// then environment overrides.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file '%s': %w", path, err)
		}
	}

	// POSTUREWATCH_SERVER_URL -> server.url
	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.Replace(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)), "_", ".", 1)
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// Validate rejects configurations the client cannot run with.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.URL) == "" {
		return fmt.Errorf("server.url is required")
	}
	if c.Server.FrameTimeout <= 0 {
		return fmt.Errorf("server.frame_timeout must be positive, got %s", c.Server.FrameTimeout)
	}
	if c.Server.VideoTimeout <= 0 {
		return fmt.Errorf("server.video_timeout must be positive, got %s", c.Server.VideoTimeout)
	}
	if c.Capture.Interval <= 0 {
		return fmt.Errorf("capture.interval must be positive, got %s", c.Capture.Interval)
	}
	return nil
}
