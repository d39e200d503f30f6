// ABOUTME: Badge widgets for toasts, status icons and product ratings
// ABOUTME: Maps toast severities onto colored inline badges

package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/product-manager/internal/notify"
	"github.com/markalston/product-manager/internal/tui/icons"
	"github.com/shopspring/decimal"
)

// Badge colors
var (
	BadgeOKBg      = lipgloss.Color("#10B981")
	BadgeOKFg      = lipgloss.Color("#FFFFFF")
	BadgeWarnBg    = lipgloss.Color("#F59E0B")
	BadgeWarnFg    = lipgloss.Color("#000000")
	BadgeCritBg    = lipgloss.Color("#EF4444")
	BadgeCritFg    = lipgloss.Color("#FFFFFF")
	BadgeInfoBg    = lipgloss.Color("#3B82F6")
	BadgeInfoFg    = lipgloss.Color("#FFFFFF")
	BadgeNeutralBg = lipgloss.Color("#6B7280")
)

func colors(sev notify.Severity) (bg, fg lipgloss.Color) {
	switch sev {
	case notify.SeveritySuccess:
		return BadgeOKBg, BadgeOKFg
	case notify.SeverityWarning:
		return BadgeWarnBg, BadgeWarnFg
	case notify.SeverityError:
		return BadgeCritBg, BadgeCritFg
	default:
		return BadgeInfoBg, BadgeInfoFg
	}
}

// Badge renders a colored badge for a severity
func Badge(text string, sev notify.Severity) string {
	bg, fg := colors(sev)
	return lipgloss.NewStyle().
		Background(bg).
		Foreground(fg).
		Padding(0, 1).
		Bold(true).
		Render(text)
}

// StatusIcon returns the icon for a severity in its color
func StatusIcon(sev notify.Severity) string {
	bg, _ := colors(sev)
	var icon icons.Icon
	switch sev {
	case notify.SeveritySuccess:
		icon = icons.CheckOK
	case notify.SeverityWarning:
		icon = icons.Warning
	case notify.SeverityError:
		icon = icons.Critical
	default:
		icon = icons.Info
	}
	return lipgloss.NewStyle().Foreground(bg).Render(icon.String())
}

// Toast renders a visible toast as a badge line, or "" when hidden
func Toast(t *notify.Toast) string {
	if t == nil || !t.Visible() {
		return ""
	}
	bg, _ := colors(t.Severity())
	label := strings.ToUpper(t.Severity().String())
	text := lipgloss.NewStyle().Foreground(bg).Render(t.Message())
	return fmt.Sprintf("%s %s %s", StatusIcon(t.Severity()), Badge(label, t.Severity()), text)
}

// Rating renders a 0-5 rating as stars followed by the number
func Rating(r decimal.Decimal) string {
	full := int(r.Round(0).IntPart())
	if full < 0 {
		full = 0
	}
	if full > 5 {
		full = 5
	}
	stars := strings.Repeat(icons.Star.String(), full) + strings.Repeat(icons.StarOff.String(), 5-full)
	return stars + " " + r.StringFixed(1)
}

// Muted renders text in the neutral badge color
func Muted(text string) string {
	return lipgloss.NewStyle().Foreground(BadgeNeutralBg).Render(text)
}
