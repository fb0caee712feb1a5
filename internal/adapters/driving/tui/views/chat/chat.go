// Package chat implements the question/answer transcript view.
package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/messages"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/styles"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
)

// View renders the transcript and the question input.
type View struct {
	styles *styles.Styles
	chat   driving.ChatService

	viewport viewport.Model
	input    textinput.Model
	spinner  spinner.Model
	waiting  bool
	ready    bool

	width  int
	height int
}

// NewView creates the chat view.
func NewView(s *styles.Styles, chat driving.ChatService) *View {
	input := textinput.New()
	input.Placeholder = "ask a question…"
	input.CharLimit = 2000
	input.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Muted

	return &View{
		styles:  s,
		chat:    chat,
		input:   input,
		spinner: sp,
	}
}

// SetDimensions updates the render size. The viewport takes everything
// above the input line and status bar.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	vpHeight := max(height-6, 3)
	if !v.ready {
		v.viewport = viewport.New(width, vpHeight)
		v.ready = true
	} else {
		v.viewport.Width = width
		v.viewport.Height = vpHeight
	}
	v.refreshTranscript()
}

// Refresh re-renders the transcript from the service, scrolled to the
// latest message.
func (v *View) Refresh() {
	v.refreshTranscript()
}

// Update handles messages for the chat view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "enter" && !v.waiting {
			return v.submit()
		}
		var inputCmd, vpCmd tea.Cmd
		v.input, inputCmd = v.input.Update(msg)
		v.viewport, vpCmd = v.viewport.Update(msg)
		return v, tea.Batch(inputCmd, vpCmd)

	case messages.AnswerArrived:
		v.waiting = false
		v.refreshTranscript()
		return v, nil

	case spinner.TickMsg:
		if !v.waiting {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd
	}

	var cmd tea.Cmd
	v.viewport, cmd = v.viewport.Update(msg)
	return v, cmd
}

// submit sends the current input to the chat service.
func (v *View) submit() (*View, tea.Cmd) {
	text := strings.TrimSpace(v.input.Value())
	if text == "" {
		return v, nil
	}
	v.input.SetValue("")
	v.waiting = true

	// The user message appears immediately; the answer arrives async.
	chat := v.chat
	ask := func() tea.Msg {
		err := chat.Submit(context.Background(), text)
		return messages.AnswerArrived{Err: err}
	}
	v.refreshPending(text)
	return v, tea.Batch(ask, v.spinner.Tick)
}

// refreshPending shows the just-typed question before Submit returns.
func (v *View) refreshPending(text string) {
	if !v.ready {
		return
	}
	var b strings.Builder
	b.WriteString(v.renderMessages())
	b.WriteString(v.styles.UserMessage.Render("you: "))
	b.WriteString(text)
	b.WriteString("\n")
	v.viewport.SetContent(b.String())
	v.viewport.GotoBottom()
}

// refreshTranscript rebuilds the viewport content from the transcript.
func (v *View) refreshTranscript() {
	if !v.ready {
		return
	}
	v.viewport.SetContent(v.renderMessages())
	v.viewport.GotoBottom()
}

// renderMessages formats the transcript with citations under answers.
func (v *View) renderMessages() string {
	var b strings.Builder
	for _, msg := range v.chat.Messages() {
		b.WriteString(v.renderMessage(msg))
	}
	return b.String()
}

// renderMessage formats one transcript entry.
func (v *View) renderMessage(msg domain.ChatMessage) string {
	var b strings.Builder
	if msg.IsUser {
		b.WriteString(v.styles.UserMessage.Render("you: "))
		b.WriteString(msg.Text)
	} else {
		b.WriteString(v.styles.AssistantMessage.Render(msg.Text))
		for _, c := range msg.Citations {
			b.WriteString("\n")
			if c.PageNumber > 0 {
				b.WriteString(v.styles.Citation.Render(
					fmt.Sprintf("  ↳ %s, p. %d", c.Filename, c.PageNumber)))
			} else {
				b.WriteString(v.styles.Citation.Render("  ↳ " + c.Filename))
			}
		}
	}
	b.WriteString("\n\n")
	return b.String()
}

// View renders the chat view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.viewport.View())
	b.WriteString("\n")
	if v.waiting {
		b.WriteString(v.spinner.View())
		b.WriteString(v.styles.Muted.Render(" thinking…"))
		b.WriteString("\n")
	}
	b.WriteString(v.styles.InputField.Render(v.input.View()))
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter ask · tab documents · esc classes · ctrl+c quit"))
	return b.String()
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
