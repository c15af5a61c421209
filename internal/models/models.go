package models

import (
	"strings"
	"time"

	"github.com/goccy/go-json"
)

// PostureStatus is the categorical quality label assigned by the backend.
type PostureStatus string

const (
	StatusExcellent   PostureStatus = "excellent"
	StatusGood        PostureStatus = "good"
	StatusFair        PostureStatus = "fair"
	StatusPoor        PostureStatus = "poor"
	StatusBad         PostureStatus = "bad"
	StatusVeryBad     PostureStatus = "very_bad"
	StatusNoDetection PostureStatus = "no_detection"
	StatusError       PostureStatus = "error"
)

// ViewType is the camera perspective the backend detected.
type ViewType string

const (
	ViewFront ViewType = "front"
	ViewSide  ViewType = "side"
)

// ConnectionStatus tracks the health of the live polling flow. It is
// mutated by request outcomes only.
type ConnectionStatus string

const (
	Connected    ConnectionStatus = "connected"
	Disconnected ConnectionStatus = "disconnected"
	ConnError    ConnectionStatus = "error"
)

// LiveAnalysisResult is the backend's verdict for a single submitted frame.
type LiveAnalysisResult struct {
	BadPosture     bool          `json:"bad_posture"`
	Reason         string        `json:"reason,omitempty"`
	BackAngle      *float64      `json:"back_angle,omitempty"`
	ViewType       ViewType      `json:"view_type,omitempty"`
	AnalysisMethod string        `json:"analysis_method,omitempty"`
	PostureStatus  PostureStatus `json:"posture_status,omitempty"`
}

// UnmarshalJSON accepts both "back_angle" and the older "angle" field name
// emitted by previous backend versions. back_angle wins when both are present.
func (r *LiveAnalysisResult) UnmarshalJSON(data []byte) error {
	// The alias must be exported: goccy/go-json refuses to decode through an
	// embedded pointer to an unexported struct type.
	type Alias LiveAnalysisResult
	aux := struct {
		*Alias
		Angle *float64 `json:"angle,omitempty"`
	}{Alias: (*Alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.BackAngle == nil && aux.Angle != nil {
		r.BackAngle = aux.Angle
	}
	return nil
}

// FrameAnalysis is one per-frame record inside a video analysis report.
type FrameAnalysis struct {
	FrameNumber            int           `json:"frame_number"`
	Timestamp              float64       `json:"timestamp"`
	BadPosture             bool          `json:"bad_posture"`
	BackAngle              *float64      `json:"back_angle,omitempty"`
	PostureStatus          PostureStatus `json:"posture_status,omitempty"`
	ActivitySpecificIssues []string      `json:"activity_specific_issues,omitempty"`
	Suggestions            []string      `json:"suggestions,omitempty"`
}

// ActivityFeedback aggregates guidance for the detected activity.
type ActivityFeedback struct {
	TotalFrames            int                `json:"total_frames"`
	PoorPostureFrames      int                `json:"poor_posture_frames"`
	CommonIssues           []string           `json:"common_issues,omitempty"`
	ImprovementSuggestions []string           `json:"improvement_suggestions,omitempty"`
	SpecificMetrics        map[string]float64 `json:"specific_metrics,omitempty"`
}

// VideoAnalysisResult is the full report for one uploaded video. It is
// immutable after receipt.
type VideoAnalysisResult struct {
	ActivityDetected         string           `json:"activity_detected"`
	OverallPostureScore      float64          `json:"overall_posture_score"`
	FrameAnalyses            []FrameAnalysis  `json:"frame_analyses,omitempty"`
	ActivitySpecificFeedback ActivityFeedback `json:"activity_specific_feedback"`
	Summary                  map[string]any   `json:"summary,omitempty"`
	ProcessingTime           float64          `json:"processing_time,omitempty"`
	TotalFrames              int              `json:"total_frames,omitempty"`
	AnalyzedFrames           int              `json:"analyzed_frames,omitempty"`
}

// OverallRating returns the summary's overall_rating as text, if present.
func (r *VideoAnalysisResult) OverallRating() (string, bool) {
	v, ok := r.Summary["overall_rating"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Recommendation returns the summary's recommendation as text, if present.
func (r *VideoAnalysisResult) Recommendation() (string, bool) {
	v, ok := r.Summary["recommendation"]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// MaxUploadBytes is the client-side upload cap: 50 MiB.
const MaxUploadBytes int64 = 52428800

// acceptedVideoTypes are the MIME types the upload flow lets through.
var acceptedVideoTypes = map[string]struct{}{
	"video/mp4":       {},
	"video/avi":       {},
	"video/mov":       {},
	"video/quicktime": {},
}

// IsAcceptedVideoType reports whether mime is an accepted upload type.
func IsAcceptedVideoType(mime string) bool {
	_, ok := acceptedVideoTypes[strings.ToLower(strings.TrimSpace(mime))]
	return ok
}

// VideoTypeForExt maps a file extension (with or without the leading dot)
// to its upload MIME type.
func VideoTypeForExt(ext string) (string, bool) {
	switch strings.ToLower(strings.TrimPrefix(ext, ".")) {
	case "mp4":
		return "video/mp4", true
	case "avi":
		return "video/avi", true
	case "mov":
		return "video/quicktime", true
	default:
		return "", false
	}
}

// SelectedVideoFile is a user-chosen video pending upload.
type SelectedVideoFile struct {
	Path     string
	Name     string
	Size     int64
	MIMEType string
}

// MonitorState is the observable state of the live polling flow, snapshotted
// for rendering.
type MonitorState struct {
	Running     bool
	Busy        bool
	Status      ConnectionStatus
	Latest      *LiveAnalysisResult
	LastUpdated time.Time
}
