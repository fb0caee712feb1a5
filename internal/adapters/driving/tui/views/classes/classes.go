// Package classes implements the class picker view.
package classes

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/keymap"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/messages"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/styles"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
)

// View lists the user's classes and lets them pick, create or delete one.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	class  driving.ClassService

	classes  []domain.Class
	cursor   int
	creating bool
	input    textinput.Model
	err      error

	width  int
	height int
}

// refreshDone carries the outcome of an async class refresh.
type refreshDone struct {
	classes []domain.Class
	err     error
}

// mutationDone carries the outcome of a create or delete.
type mutationDone struct {
	err error
}

// NewView creates the classes view.
func NewView(s *styles.Styles, class driving.ClassService) *View {
	input := textinput.New()
	input.Placeholder = "class name"
	input.CharLimit = 120

	return &View{
		styles: s,
		keys:   keymap.DefaultKeyMap(),
		class:  class,
		input:  input,
	}
}

// SetDimensions updates the render size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Init triggers the initial class load.
func (v *View) Init() tea.Cmd {
	return v.refresh()
}

// refresh re-fetches the class set off the Update loop.
func (v *View) refresh() tea.Cmd {
	class := v.class
	return func() tea.Msg {
		err := class.Refresh(context.Background())
		return refreshDone{classes: class.Classes(), err: err}
	}
}

// Update handles messages for the class picker.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case refreshDone:
		v.classes = msg.classes
		v.err = msg.err
		if v.cursor >= len(v.classes) {
			v.cursor = max(0, len(v.classes)-1)
		}
		return v, nil

	case mutationDone:
		v.err = msg.err
		return v, v.refresh()

	case tea.KeyMsg:
		if v.creating {
			return v.updateCreating(msg)
		}
		return v.updateBrowsing(msg)
	}
	return v, nil
}

// updateBrowsing handles keys while navigating the list.
func (v *View) updateBrowsing(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(v.classes)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Select):
		if v.cursor < len(v.classes) {
			chosen := v.classes[v.cursor]
			v.class.Select(chosen.ID)
			return v, func() tea.Msg { return messages.ClassChosen{Class: chosen} }
		}
	case key.Matches(msg, v.keys.NewClass):
		v.creating = true
		v.input.SetValue("")
		v.input.Focus()
	case key.Matches(msg, v.keys.Delete):
		if v.cursor < len(v.classes) {
			id := v.classes[v.cursor].ID
			class := v.class
			return v, func() tea.Msg {
				return mutationDone{err: class.Delete(context.Background(), id)}
			}
		}
	}
	return v, nil
}

// updateCreating handles keys while the new-class input is open.
func (v *View) updateCreating(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.creating = false
		return v, nil
	case "enter":
		name := v.input.Value()
		v.creating = false
		class := v.class
		return v, func() tea.Msg {
			return mutationDone{err: class.Create(context.Background(), name)}
		}
	}
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// View renders the class picker.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Classes"))
	b.WriteString("\n\n")

	if len(v.classes) == 0 {
		b.WriteString(v.styles.Muted.Render("No classes yet. Press n to create one."))
		b.WriteString("\n")
	}
	for i, c := range v.classes {
		line := fmt.Sprintf("  %s", c.Name)
		if i == v.cursor {
			line = v.styles.Selected.Render("> " + c.Name)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if v.creating {
		b.WriteString("\n")
		b.WriteString(v.styles.InputField.Render(v.input.View()))
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("enter create · esc cancel"))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter open · n new · d delete · ctrl+c quit"))
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
