// Package status renders the bottom status bar.
package status

import (
	"strings"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/styles"
)

// Bar is the one-line status bar at the bottom of every view: account,
// selected class, sync state and contextual key hints.
type Bar struct {
	styles *styles.Styles

	email   string
	class   string
	syncing bool
	hints   string
	width   int
}

// NewBar creates a status bar.
func NewBar(s *styles.Styles) *Bar {
	return &Bar{styles: s}
}

// SetAccount sets the displayed account email ("" when logged out).
func (b *Bar) SetAccount(email string) {
	b.email = email
}

// SetClass sets the displayed class name ("" when none selected).
func (b *Bar) SetClass(name string) {
	b.class = name
}

// SetSyncing toggles the processing indicator.
func (b *Bar) SetSyncing(on bool) {
	b.syncing = on
}

// SetHints sets the contextual keybinding hints.
func (b *Bar) SetHints(hints string) {
	b.hints = hints
}

// SetWidth sets the render width.
func (b *Bar) SetWidth(width int) {
	b.width = width
}

// View renders the bar.
func (b *Bar) View() string {
	var parts []string
	if b.email != "" {
		parts = append(parts, b.email)
	} else {
		parts = append(parts, "not logged in")
	}
	if b.class != "" {
		parts = append(parts, b.class)
	}
	if b.syncing {
		parts = append(parts, "processing…")
	}
	if b.hints != "" {
		parts = append(parts, b.hints)
	}

	line := strings.Join(parts, "  │  ")
	style := b.styles.StatusBar
	if b.width > 0 {
		style = style.Width(b.width)
	}
	return style.Render(line)
}
