// Package video implements the upload flow: validate a user-chosen video
// file, then submit it to the analysis service exactly once.
package video

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"github.com/bdougie/posturewatch/internal/models"
)

var (
	// ErrNoFileSelected is returned by Analyze when nothing was selected.
	ErrNoFileSelected = errors.New("no video file selected")
	// ErrAnalysisBusy is returned when an analysis request is already in flight.
	ErrAnalysisBusy = errors.New("video analysis already in progress")
	// ErrUnsupportedType rejects files outside the accepted video types.
	ErrUnsupportedType = errors.New("unsupported video type")
	// ErrFileTooLarge rejects files over the 50 MiB upload cap.
	ErrFileTooLarge = errors.New("video file exceeds 50 MB limit")
)

// Analyzer is the slice of the API client the upload flow needs.
type Analyzer interface {
	AnalyzeVideo(ctx context.Context, f models.SelectedVideoFile, r io.Reader) (*models.VideoAnalysisResult, error)
}

// Session holds the upload flow's state: the current selection, the latest
// report, and the analyzing flag that keeps submissions mutually exclusive.
type Session struct {
	analyzer Analyzer
	log      *slog.Logger

	mu        sync.Mutex
	selected  *models.SelectedVideoFile
	result    *models.VideoAnalysisResult
	analyzing bool
}

// NewSession builds an empty upload session.
func NewSession(analyzer Analyzer, log *slog.Logger) *Session {
	return &Session{
		analyzer: analyzer,
		log:      log,
	}
}

// SelectFile validates f and, if accepted, replaces the current selection.
// A rejected file leaves the prior selection untouched.
func (s *Session) SelectFile(f models.SelectedVideoFile) error {
	if !models.IsAcceptedVideoType(f.MIMEType) {
		return fmt.Errorf("%w: '%s' (accepted: mp4, avi, mov)", ErrUnsupportedType, f.MIMEType)
	}
	if f.Size > models.MaxUploadBytes {
		return fmt.Errorf("%w: %d bytes", ErrFileTooLarge, f.Size)
	}

	s.mu.Lock()
	s.selected = &f
	s.mu.Unlock()

	s.log.Debug("video file selected", "name", f.Name, "size", f.Size, "type", f.MIMEType)
	return nil
}

// SelectPath stats path, infers its MIME type from the extension, and runs
// the same validation as SelectFile.
func (s *Session) SelectPath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("cannot read video file '%s': %w", path, err)
	}

	mime, ok := models.VideoTypeForExt(filepath.Ext(path))
	if !ok {
		return fmt.Errorf("%w: '%s' (accepted: mp4, avi, mov)", ErrUnsupportedType, filepath.Ext(path))
	}

	return s.SelectFile(models.SelectedVideoFile{
		Path:     path,
		Name:     filepath.Base(path),
		Size:     info.Size(),
		MIMEType: mime,
	})
}

// Selected returns the current selection, if any.
func (s *Session) Selected() (models.SelectedVideoFile, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selected == nil {
		return models.SelectedVideoFile{}, false
	}
	return *s.selected, true
}

// Result returns the latest analysis report, if any.
func (s *Session) Result() (*models.VideoAnalysisResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.result == nil {
		return nil, false
	}
	res := *s.result
	return &res, true
}

// Analyzing reports whether a request is currently in flight.
func (s *Session) Analyzing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.analyzing
}

// Analyze submits the selected file and, on success, replaces the result
// slot. A failed request leaves any prior report untouched. At most one
// request is in flight at a time.
func (s *Session) Analyze(ctx context.Context) (*models.VideoAnalysisResult, error) {
	s.mu.Lock()
	if s.selected == nil {
		s.mu.Unlock()
		return nil, ErrNoFileSelected
	}
	if s.analyzing {
		s.mu.Unlock()
		return nil, ErrAnalysisBusy
	}
	s.analyzing = true
	selected := *s.selected
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.analyzing = false
		s.mu.Unlock()
	}()

	file, err := os.Open(selected.Path)
	if err != nil {
		return nil, fmt.Errorf("cannot open video file '%s': %w", selected.Path, err)
	}
	defer file.Close()

	s.log.Info("submitting video for analysis", "name", selected.Name, "size", selected.Size)

	result, err := s.analyzer.AnalyzeVideo(ctx, selected, file)
	if err != nil {
		return nil, fmt.Errorf("video analysis failed: %w", err)
	}

	s.mu.Lock()
	s.result = result
	s.mu.Unlock()

	s.log.Info("video analysis complete",
		"activity", result.ActivityDetected,
		"score", result.OverallPostureScore,
		"frames", result.AnalyzedFrames,
	)
	return result, nil
}
