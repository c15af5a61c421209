// Package display maps analysis results to display attributes. The mapping
// functions are pure: they read state and return view data, leaving all
// output to the Renderer.
package display

import (
	"github.com/bdougie/posturewatch/internal/models"
)

// Color names a presentation tier; the renderer decides how to paint it.
type Color string

const (
	Green  Color = "green"
	Yellow Color = "yellow"
	Orange Color = "orange"
	Red    Color = "red"
	Gray   Color = "gray"
	Blue   Color = "blue"
)

// PanelView is the display triple-plus-one for a posture panel.
type PanelView struct {
	Icon       string
	Color      Color
	Background Color
	Message    string
}

// statusViews maps each backend posture status to its panel attributes.
var statusViews = map[models.PostureStatus]PanelView{
	models.StatusExcellent:   {Icon: "★", Color: Green, Background: Green, Message: "Excellent posture! Keep it up."},
	models.StatusGood:        {Icon: "✓", Color: Green, Background: Green, Message: "Good posture."},
	models.StatusFair:        {Icon: "~", Color: Yellow, Background: Yellow, Message: "Fair posture. Small adjustments needed."},
	models.StatusPoor:        {Icon: "!", Color: Orange, Background: Orange, Message: "Poor posture. Straighten your back."},
	models.StatusBad:         {Icon: "✗", Color: Red, Background: Red, Message: "Bad posture detected."},
	models.StatusVeryBad:     {Icon: "‼", Color: Red, Background: Red, Message: "Very bad posture. Please adjust now."},
	models.StatusNoDetection: {Icon: "?", Color: Gray, Background: Gray, Message: "No person detected."},
	models.StatusError:       {Icon: "⚠", Color: Gray, Background: Gray, Message: "Analysis error."},
}

// statusOrder fixes the precedence in which posture statuses are checked.
// Later entries are only reached when earlier ones do not match; the boolean
// bad_posture flag is a fallback, not a peer, because status categories
// refine the legacy boolean signal.
var statusOrder = []models.PostureStatus{
	models.StatusExcellent,
	models.StatusGood,
	models.StatusFair,
	models.StatusPoor,
	models.StatusBad,
	models.StatusVeryBad,
	models.StatusNoDetection,
	models.StatusError,
}

// LiveView maps the live flow's state to panel attributes. Precedence:
// loading, then absence of any result, then posture_status in fixed order,
// finally the bad_posture boolean when the status is absent or unrecognized.
func LiveView(loading bool, r *models.LiveAnalysisResult) PanelView {
	if loading {
		return PanelView{Icon: "…", Color: Blue, Background: Blue, Message: "Analyzing posture..."}
	}
	if r == nil {
		return PanelView{Icon: "·", Color: Gray, Background: Gray, Message: "Waiting for analysis..."}
	}
	for _, status := range statusOrder {
		if r.PostureStatus == status {
			return statusViews[status]
		}
	}
	if r.BadPosture {
		return PanelView{Icon: "✗", Color: Red, Background: Red, Message: "Bad posture detected."}
	}
	return PanelView{Icon: "✓", Color: Green, Background: Green, Message: "Posture looks good."}
}

// ScoreTier maps an overall posture score (0-100) to its color tier:
// green at 80 and above, yellow at 60 and above, red below that.
func ScoreTier(score float64) Color {
	switch {
	case score >= 80:
		return Green
	case score >= 60:
		return Yellow
	default:
		return Red
	}
}

// ConnectionView maps a connection status to its indicator attributes.
func ConnectionView(status models.ConnectionStatus) PanelView {
	switch status {
	case models.Connected:
		return PanelView{Icon: "●", Color: Green, Message: "Connected"}
	case models.ConnError:
		return PanelView{Icon: "●", Color: Red, Message: "Connection error"}
	default:
		return PanelView{Icon: "○", Color: Gray, Message: "Disconnected"}
	}
}
