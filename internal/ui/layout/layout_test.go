package layout

import (
	"strings"
	"testing"

	"charm.land/lipgloss/v2"
)

func TestIsTooSmall(t *testing.T) {
	tests := []struct {
		w, h int
		want bool
	}{
		{80, 24, false},
		{MinWidth, MinHeight, false},
		{MinWidth - 1, MinHeight, true},
		{MinWidth, MinHeight - 1, true},
	}
	for _, tt := range tests {
		if got := IsTooSmall(tt.w, tt.h); got != tt.want {
			t.Errorf("IsTooSmall(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
	}
}

func TestRenderFrameFillsHeight(t *testing.T) {
	header := RenderHeader("Quiz", "θ 0.25", 80)
	footer := RenderFooter([]KeyHint{{Key: "Enter", Description: "Submit"}}, 80)
	frame := RenderFrame(header, "body", footer, 80, 30)

	if got := lipgloss.Height(frame); got != 30 {
		t.Errorf("frame height = %d, want 30", got)
	}
	if !strings.Contains(frame, "thetaquiz") || !strings.Contains(frame, "θ 0.25") {
		t.Error("header is missing the app name or status")
	}
	if !strings.Contains(frame, "Submit") {
		t.Error("footer is missing its hint")
	}
}

func TestContentHeightNeverNegative(t *testing.T) {
	if got := ContentHeight("a\nb\nc", "d\ne\nf", 4); got != 0 {
		t.Errorf("ContentHeight = %d, want 0", got)
	}
}
