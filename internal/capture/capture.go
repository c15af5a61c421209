// Package capture acquires still frames from the live camera.
package capture

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoFrame signals that the camera produced nothing. The polling loop
// treats it as "camera not ready" and skips the cycle silently.
var ErrNoFrame = errors.New("no frame available")

// FrameSource produces one JPEG-encoded still frame per call.
type FrameSource interface {
	// Grab returns a single JPEG frame, or ErrNoFrame when the camera is
	// not ready.
	Grab(ctx context.Context) ([]byte, error)
}

// FFmpegSource grabs frames from a camera device by running ffmpeg once per
// grab and reading a single MJPEG frame off its stdout.
type FFmpegSource struct {
	// FFmpegPath is the binary to exec, "ffmpeg" by default.
	FFmpegPath string
	// InputFormat is the ffmpeg demuxer: v4l2 on linux, avfoundation on darwin.
	InputFormat string
	// Device is the camera device, e.g. /dev/video0.
	Device string
}

// NewFFmpegSource builds a source for the given device.
func NewFFmpegSource(ffmpegPath, inputFormat, device string) *FFmpegSource {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &FFmpegSource{
		FFmpegPath:  ffmpegPath,
		InputFormat: inputFormat,
		Device:      device,
	}
}

// Grab captures one frame from the device.
func (s *FFmpegSource) Grab(ctx context.Context) ([]byte, error) {
	cmd := exec.CommandContext(
		ctx,
		s.FFmpegPath,
		"-f", s.InputFormat,
		"-i", s.Device,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		// A busy or absent device is a skipped cycle, not a fault.
		return nil, fmt.Errorf("%w: ffmpeg: %s", ErrNoFrame, lastLine(stderr.String()))
	}
	if stdout.Len() == 0 {
		return nil, ErrNoFrame
	}
	return stdout.Bytes(), nil
}

// lastLine extracts the final non-empty line of ffmpeg's stderr, where it
// reports the actual failure after its banner output.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if trimmed := strings.TrimSpace(lines[i]); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
