package welcome

import (
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/thetaquiz/internal/ui/theme"
)

var bannerLines = []string{
	"▀█▀ █ █ █▀▀ ▀█▀ ▄▀█   █▀█ █ █ █ ▀█",
	" █  █▀█ ██▄  █  █▀█   ▀▀█ █▄█ █ █▄",
}

const bannerCompact = "T H E T A Q U I Z"

// RenderBanner returns the first n lines of the banner in the primary
// color. Terminals narrower than 40 columns get the compact form.
func RenderBanner(width, n int) string {
	style := lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	if width < 40 {
		return style.Render(bannerCompact)
	}
	n = max(0, min(n, len(bannerLines)))
	return style.Render(strings.Join(bannerLines[:n], "\n"))
}
