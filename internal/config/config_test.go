package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// chdir changes into dir for the duration of the test. (testing.T.Chdir
// requires Go 1.24; this toolchain is older.)
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(old); err != nil {
			t.Fatal(err)
		}
	})
}

func TestLoadDefaults(t *testing.T) {
	// Run from an empty directory so no posturewatch.yaml is picked up.
	chdir(t, t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.URL != "http://localhost:8000" {
		t.Errorf("server.url = %q", cfg.Server.URL)
	}
	if cfg.Server.FrameTimeout != 5*time.Second {
		t.Errorf("frame_timeout = %s, want 5s", cfg.Server.FrameTimeout)
	}
	if cfg.Server.VideoTimeout != 60*time.Second {
		t.Errorf("video_timeout = %s, want 60s", cfg.Server.VideoTimeout)
	}
	if cfg.Capture.Interval != time.Second {
		t.Errorf("capture.interval = %s, want 1s", cfg.Capture.Interval)
	}
	if cfg.Capture.Device != "/dev/video0" {
		t.Errorf("capture.device = %q", cfg.Capture.Device)
	}
}

func TestLoadConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "posturewatch.yaml")
	yaml := `
server:
  url: https://posture.example.com
  frame_timeout: 2s
capture:
  device: /dev/video2
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(ConfigPathEnvVar, path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.URL != "https://posture.example.com" {
		t.Errorf("server.url = %q", cfg.Server.URL)
	}
	if cfg.Server.FrameTimeout != 2*time.Second {
		t.Errorf("frame_timeout = %s, want 2s", cfg.Server.FrameTimeout)
	}
	if cfg.Capture.Device != "/dev/video2" {
		t.Errorf("capture.device = %q", cfg.Capture.Device)
	}
	// Untouched keys keep their defaults.
	if cfg.Server.VideoTimeout != 60*time.Second {
		t.Errorf("video_timeout = %s, want default 60s", cfg.Server.VideoTimeout)
	}
}

func TestEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("POSTUREWATCH_SERVER_URL", "http://10.0.0.5:9000")
	t.Setenv("POSTUREWATCH_CAPTURE_INTERVAL", "3s")
	t.Setenv("POSTUREWATCH_LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Server.URL != "http://10.0.0.5:9000" {
		t.Errorf("server.url = %q", cfg.Server.URL)
	}
	if cfg.Capture.Interval != 3*time.Second {
		t.Errorf("capture.interval = %s, want 3s", cfg.Capture.Interval)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want debug", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty server url", func(c *Config) { c.Server.URL = "" }},
		{"zero frame timeout", func(c *Config) { c.Server.FrameTimeout = 0 }},
		{"negative video timeout", func(c *Config) { c.Server.VideoTimeout = -time.Second }},
		{"zero interval", func(c *Config) { c.Capture.Interval = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := defaultConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
