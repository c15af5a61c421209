package models

import (
	"testing"

	"github.com/goccy/go-json"
)

func TestLiveResultAngleAlias(t *testing.T) {
	tests := []struct {
		name string
		body string
		want *float64
	}{
		{
			name: "back_angle only",
			body: `{"bad_posture": true, "back_angle": 30}`,
			want: ptr(30.0),
		},
		{
			name: "legacy angle only",
			body: `{"bad_posture": true, "angle": 25.5}`,
			want: ptr(25.5),
		},
		{
			name: "back_angle wins over angle",
			body: `{"bad_posture": true, "back_angle": 30, "angle": 25.5}`,
			want: ptr(30.0),
		},
		{
			name: "neither present",
			body: `{"bad_posture": false}`,
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var r LiveAnalysisResult
			if err := json.Unmarshal([]byte(tt.body), &r); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}
			switch {
			case tt.want == nil && r.BackAngle != nil:
				t.Errorf("back_angle = %v, want nil", *r.BackAngle)
			case tt.want != nil && (r.BackAngle == nil || *r.BackAngle != *tt.want):
				t.Errorf("back_angle = %v, want %v", r.BackAngle, *tt.want)
			}
		})
	}
}

func TestIsAcceptedVideoType(t *testing.T) {
	accepted := []string{"video/mp4", "video/avi", "video/mov", "video/quicktime", " VIDEO/MP4 "}
	for _, mime := range accepted {
		if !IsAcceptedVideoType(mime) {
			t.Errorf("IsAcceptedVideoType(%q) = false, want true", mime)
		}
	}
	rejected := []string{"video/webm", "video/x-matroska", "image/jpeg", "application/pdf", ""}
	for _, mime := range rejected {
		if IsAcceptedVideoType(mime) {
			t.Errorf("IsAcceptedVideoType(%q) = true, want false", mime)
		}
	}
}

func TestVideoTypeForExt(t *testing.T) {
	tests := []struct {
		ext  string
		want string
		ok   bool
	}{
		{".mp4", "video/mp4", true},
		{"mp4", "video/mp4", true},
		{".MP4", "video/mp4", true},
		{".avi", "video/avi", true},
		{".mov", "video/quicktime", true},
		{".webm", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := VideoTypeForExt(tt.ext)
		if got != tt.want || ok != tt.ok {
			t.Errorf("VideoTypeForExt(%q) = %q, %v; want %q, %v", tt.ext, got, ok, tt.want, tt.ok)
		}
	}
}

func ptr(f float64) *float64 { return &f }
