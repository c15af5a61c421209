package display

import (
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/fatih/color"

	"github.com/bdougie/posturewatch/internal/models"
)

// painters maps view color names to terminal colors.
var painters = map[Color]*color.Color{
	Green:  color.New(color.FgGreen),
	Yellow: color.New(color.FgYellow),
	Orange: color.New(color.FgHiYellow),
	Red:    color.New(color.FgRed),
	Gray:   color.New(color.FgHiBlack),
	Blue:   color.New(color.FgBlue),
}

func paint(c Color, format string, a ...any) string {
	p, ok := painters[c]
	if !ok {
		return fmt.Sprintf(format, a...)
	}
	return p.Sprintf(format, a...)
}

// Renderer writes posture panels to a terminal.
type Renderer struct {
	w io.Writer
}

// NewRenderer builds a renderer writing to w.
func NewRenderer(w io.Writer) *Renderer {
	return &Renderer{w: w}
}

// RenderLive writes the live panel for one monitor snapshot.
func (r *Renderer) RenderLive(state models.MonitorState) {
	conn := ConnectionView(state.Status)
	view := LiveView(state.Busy && state.Latest == nil, state.Latest)

	fmt.Fprintf(r.w, "%s  %s\n",
		paint(conn.Color, "%s %s", conn.Icon, conn.Message),
		paint(view.Color, "%s %s", view.Icon, view.Message),
	)

	if state.Latest != nil {
		if state.Latest.BackAngle != nil {
			fmt.Fprintf(r.w, "    back angle: %.1f°", *state.Latest.BackAngle)
			if state.Latest.ViewType != "" {
				fmt.Fprintf(r.w, " (%s view)", state.Latest.ViewType)
			}
			fmt.Fprintln(r.w)
		}
		if state.Latest.Reason != "" {
			fmt.Fprintf(r.w, "    %s\n", state.Latest.Reason)
		}
	}
	if !state.LastUpdated.IsZero() {
		fmt.Fprintf(r.w, "    updated %s\n", state.LastUpdated.Format(time.TimeOnly))
	}
}

// RenderReport writes the full video analysis report.
func (r *Renderer) RenderReport(result *models.VideoAnalysisResult) {
	tier := ScoreTier(result.OverallPostureScore)

	fmt.Fprintln(r.w, "Posture Analysis Report")
	fmt.Fprintln(r.w, "-----------------------")
	fmt.Fprintf(r.w, "Activity:  %s\n", result.ActivityDetected)
	fmt.Fprintf(r.w, "Score:     %s\n", paint(tier, "%.0f%%", result.OverallPostureScore))
	if result.TotalFrames > 0 {
		fmt.Fprintf(r.w, "Frames:    %d analyzed of %d\n", result.AnalyzedFrames, result.TotalFrames)
	}
	if result.ProcessingTime > 0 {
		fmt.Fprintf(r.w, "Time:      %.1fs\n", result.ProcessingTime)
	}

	fb := result.ActivitySpecificFeedback
	if fb.TotalFrames > 0 {
		fmt.Fprintf(r.w, "\nPosture held poorly in %d of %d frames\n", fb.PoorPostureFrames, fb.TotalFrames)
	}
	if len(fb.CommonIssues) > 0 {
		fmt.Fprintln(r.w, "\nCommon issues:")
		for _, issue := range fb.CommonIssues {
			fmt.Fprintf(r.w, "  - %s\n", issue)
		}
	}
	if len(fb.ImprovementSuggestions) > 0 {
		fmt.Fprintln(r.w, "\nSuggestions:")
		for _, s := range fb.ImprovementSuggestions {
			fmt.Fprintf(r.w, "  - %s\n", s)
		}
	}
	if len(fb.SpecificMetrics) > 0 {
		fmt.Fprintln(r.w, "\nMetrics:")
		keys := make([]string, 0, len(fb.SpecificMetrics))
		for k := range fb.SpecificMetrics {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(r.w, "  %s: %.2f\n", k, fb.SpecificMetrics[k])
		}
	}

	if rating, ok := result.OverallRating(); ok {
		fmt.Fprintf(r.w, "\nOverall rating: %s\n", rating)
	}
	if rec, ok := result.Recommendation(); ok {
		fmt.Fprintf(r.w, "Recommendation: %s\n", rec)
	}

	if len(result.FrameAnalyses) > 0 {
		fmt.Fprintln(r.w, "\nPer-frame breakdown:")
		for _, fa := range result.FrameAnalyses {
			r.renderFrame(fa)
		}
	}
}

func (r *Renderer) renderFrame(fa models.FrameAnalysis) {
	view := LiveView(false, &models.LiveAnalysisResult{
		BadPosture:    fa.BadPosture,
		PostureStatus: fa.PostureStatus,
	})
	line := fmt.Sprintf("  [%6.1fs] frame %d: %s %s", fa.Timestamp, fa.FrameNumber, view.Icon, view.Message)
	if fa.BackAngle != nil {
		line += fmt.Sprintf(" (%.1f°)", *fa.BackAngle)
	}
	fmt.Fprintln(r.w, paint(view.Color, "%s", line))
	for _, issue := range fa.ActivitySpecificIssues {
		fmt.Fprintf(r.w, "      issue: %s\n", issue)
	}
	for _, s := range fa.Suggestions {
		fmt.Fprintf(r.w, "      tip: %s\n", s)
	}
}
