// Package login implements the email/password form view.
package login

import (
	"context"
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/messages"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/styles"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
)

// field indexes into the form inputs.
const (
	fieldEmail = iota
	fieldPassword
)

// View is the login/register form.
type View struct {
	styles *styles.Styles
	auth   driving.AuthService

	inputs     []textinput.Model
	focused    int
	registering bool
	submitting  bool
	err        error

	width  int
	height int
}

// submitResult carries the outcome of a login/register attempt.
type submitResult struct {
	email string
	err   error
}

// NewView creates the login view.
func NewView(s *styles.Styles, auth driving.AuthService) *View {
	email := textinput.New()
	email.Placeholder = "email"
	email.Focus()
	email.CharLimit = 254

	password := textinput.New()
	password.Placeholder = "password"
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'

	return &View{
		styles: s,
		auth:   auth,
		inputs: []textinput.Model{email, password},
	}
}

// SetDimensions updates the render size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Update handles messages for the form.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if v.submitting {
			return v, nil
		}
		switch msg.String() {
		case "tab", "shift+tab", "down", "up":
			v.cycleFocus()
			return v, nil
		case "ctrl+r":
			v.registering = !v.registering
			v.err = nil
			return v, nil
		case "enter":
			if v.focused == fieldEmail {
				v.cycleFocus()
				return v, nil
			}
			return v.submit()
		}

	case submitResult:
		v.submitting = false
		if msg.err != nil {
			v.err = msg.err
			return v, nil
		}
		return v, func() tea.Msg { return messages.LoggedIn{Email: msg.email} }
	}

	var cmd tea.Cmd
	v.inputs[v.focused], cmd = v.inputs[v.focused].Update(msg)
	return v, cmd
}

// cycleFocus moves focus between the two fields.
func (v *View) cycleFocus() {
	v.inputs[v.focused].Blur()
	v.focused = (v.focused + 1) % len(v.inputs)
	v.inputs[v.focused].Focus()
}

// submit validates and runs the login or register call.
func (v *View) submit() (*View, tea.Cmd) {
	email := strings.TrimSpace(v.inputs[fieldEmail].Value())
	password := v.inputs[fieldPassword].Value()
	if email == "" || password == "" {
		v.err = errors.New("email and password are required")
		return v, nil
	}

	v.submitting = true
	v.err = nil
	auth := v.auth
	registering := v.registering
	return v, func() tea.Msg {
		var err error
		if registering {
			err = auth.Register(context.Background(), email, password)
		} else {
			err = auth.Login(context.Background(), email, password)
		}
		if err != nil {
			if errors.Is(err, domain.ErrInvalidCredentials) {
				err = errors.New("invalid email or password")
			} else if apiErr, ok := domain.IsAPIError(err); ok && apiErr.Detail != "" {
				err = errors.New(apiErr.Detail)
			}
			return submitResult{err: err}
		}
		return submitResult{email: email}
	}
}

// View renders the form.
func (v *View) View() string {
	var b strings.Builder

	title := "Log in"
	if v.registering {
		title = "Create an account"
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n\n")

	for i := range v.inputs {
		b.WriteString(v.styles.InputField.Render(v.inputs[i].View()))
		b.WriteString("\n")
	}

	if v.submitting {
		b.WriteString(v.styles.Muted.Render("signing in…"))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("enter submit · tab next field · ctrl+r switch login/register · ctrl+c quit"))
	return b.String()
}
