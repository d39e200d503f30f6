// ABOUTME: Header and footer chrome drawn around every screen
// ABOUTME: Header shows the app and signed-in user; footer shows key hints

package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/markalston/product-manager/internal/productlist"
	"github.com/markalston/product-manager/internal/tui/icons"
	"github.com/markalston/product-manager/internal/tui/styles"
)

// Layout constants
const (
	minTerminalWidth = 80 // Narrowest frame we draw
	frameOverhead    = 6  // header, footer, toast line and spacing
)

// frameWidth leaves one column free so terminals do not wrap the border
func (a *App) frameWidth() int {
	width := a.width - 1
	if width < minTerminalWidth {
		width = minTerminalWidth
	}
	return width
}

// contentHeight is the room left for a screen body
func (a *App) contentHeight() int {
	h := a.height - frameOverhead
	if h < 5 {
		h = 5
	}
	return h
}

// renderHeader creates the header bar with app branding and the user
func (a *App) renderHeader() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	titleStyle := lipgloss.NewStyle().Foreground(styles.Primary).Bold(true)
	userStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	leftText := fmt.Sprintf(" %s %s ", icons.App.String(), titleStyle.Render("Product Manager"))

	rightText := ""
	if a.email != "" && a.screen.gated() {
		rightText = " " + userStyle.Render(icons.User.String()+" "+a.email) + " "
	}

	fill := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if fill < 0 {
		fill = 0
	}

	return borderStyle.Render("╭─") + leftText + borderStyle.Render(strings.Repeat("─", fill)) + rightText + borderStyle.Render("─╮")
}

// shortcuts returns the key hints for the current screen
func (a *App) shortcuts() []string {
	hints := a.screenShortcuts()
	if a.ctrl.Toast().Visible() {
		hints = append([]string{dismissKey + " Dismiss"}, hints...)
	}
	return hints
}

func (a *App) screenShortcuts() []string {
	if a.ctrl.Confirm().Open() {
		return []string{"y Confirm", "n Cancel"}
	}
	switch a.screen {
	case ScreenLogin:
		return []string{"tab Next", "enter Log in", "ctrl+n Sign up", "ctrl+c Quit"}
	case ScreenSignup:
		return []string{"tab Next", "enter Register", "esc Log in", "ctrl+c Quit"}
	case ScreenCreate, ScreenUpdate:
		return []string{"tab Next", "ctrl+s Save", "esc Cancel"}
	case ScreenProducts:
		if a.filter != nil {
			return []string{"tab Next", "enter Apply", "esc Close"}
		}
		if a.searching {
			return []string{"enter Keep", "esc Clear"}
		}
		return []string{"n New", "e Edit", "d Delete", "/ Search", "f Filter", "x Clear", "r Refresh", "l Logout", "q Quit"}
	}
	return nil
}

// renderFooter creates the footer with keyboard shortcuts and status
func (a *App) renderFooter() string {
	width := a.frameWidth()

	borderStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	keyStyle := lipgloss.NewStyle().Foreground(styles.Primary)
	labelStyle := lipgloss.NewStyle().Foreground(styles.Muted)
	statusStyle := lipgloss.NewStyle().Foreground(styles.Secondary)

	shortcuts := a.shortcuts()
	var styled []string
	for _, s := range shortcuts {
		parts := strings.SplitN(s, " ", 2)
		styled = append(styled, keyStyle.Render(parts[0])+" "+labelStyle.Render(parts[1]))
	}
	leftText := " " + strings.Join(styled, "  ")

	rightText := ""
	if status := a.status(); status != "" {
		rightText = " " + statusStyle.Render(status) + " "
	}

	// Drop hints from the end until the footer fits
	for len(styled) > 0 && lipgloss.Width(leftText)+lipgloss.Width(rightText)+4 > width {
		styled = styled[:len(styled)-1]
		leftText = " " + strings.Join(styled, "  ")
	}

	fill := width - 4 - lipgloss.Width(leftText) - lipgloss.Width(rightText)
	if fill < 0 {
		fill = 0
	}

	return borderStyle.Render("╰─") + leftText + borderStyle.Render(strings.Repeat("─", fill)) + rightText + borderStyle.Render("─╯")
}

// status is the footer's right-hand text
func (a *App) status() string {
	if a.screen != ScreenProducts {
		return ""
	}
	switch a.ctrl.State() {
	case productlist.StateLoading:
		return "loading"
	case productlist.StateSubmitting:
		return "saving"
	}
	return fmt.Sprintf("%d of %d", len(a.ctrl.Visible()), len(a.ctrl.Products()))
}

// wrapWithFrame wraps content with header and footer
func (a *App) wrapWithFrame(content string) string {
	var sb strings.Builder

	sb.WriteString(a.renderHeader())
	sb.WriteString("\n")
	sb.WriteString(content)
	sb.WriteString("\n")
	sb.WriteString(a.renderFooter())

	return sb.String()
}
