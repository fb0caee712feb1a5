package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/components/status"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/messages"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/styles"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/views/chat"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/views/classes"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/views/documents"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/views/login"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	ports *Ports
	ctx   context.Context

	styles    *styles.Styles
	statusBar *status.Bar

	loginView     *login.View
	classesView   *classes.View
	chatView      *chat.View
	documentsView *documents.View

	currentView messages.ViewType

	width  int
	height int
	ready  bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates the TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	app := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		statusBar:     status.NewBar(s),
		loginView:     login.NewView(s, ports.Auth),
		classesView:   classes.NewView(s, ports.Class),
		chatView:      chat.NewView(s, ports.Chat),
		documentsView: documents.NewView(s, ports.Document, ports.Upload),
	}

	if ports.Auth.IsAuthenticated() {
		app.currentView = messages.ViewClasses
	} else {
		app.currentView = messages.ViewLogin
	}
	return app, nil
}

// WithContext sets the context for the app.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnterAltScreen,
		tea.SetWindowTitle("study"),
	}
	if a.currentView == messages.ViewClasses {
		cmds = append(cmds, a.classesView.Init())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.ready = true
		a.loginView.SetDimensions(msg.Width, msg.Height)
		a.classesView.SetDimensions(msg.Width, msg.Height)
		a.chatView.SetDimensions(msg.Width, msg.Height)
		a.documentsView.SetDimensions(msg.Width, msg.Height)
		a.statusBar.SetWidth(msg.Width)
		return a, nil

	case messages.LoggedIn:
		a.statusBar.SetAccount(msg.Email)
		a.currentView = messages.ViewClasses
		return a, a.classesView.Init()

	case messages.ClassChosen:
		// Binding the class re-points the document view and resets the
		// transcript before the chat view appears.
		a.ports.Document.SetClass(a.ctx, msg.Class.ID)
		a.ports.Chat.Reset(msg.Class.ID)
		a.documentsView.SetClass(msg.Class.ID)
		a.chatView.Refresh()
		a.statusBar.SetClass(msg.Class.Name)
		a.currentView = messages.ViewChat
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		return a.routeKey(msg)
	}

	// Non-key messages go to every view that might own them.
	switch a.currentView {
	case messages.ViewLogin:
		a.loginView, cmd = a.loginView.Update(msg)
	case messages.ViewClasses:
		a.classesView, cmd = a.classesView.Update(msg)
	case messages.ViewChat:
		a.chatView, cmd = a.chatView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	}
	return a, cmd
}

// routeKey forwards key presses to the active view, handling the
// view-switching keys here so views stay independent.
func (a *App) routeKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch a.currentView {
	case messages.ViewLogin:
		a.loginView, cmd = a.loginView.Update(msg)
		return a, cmd

	case messages.ViewClasses:
		a.classesView, cmd = a.classesView.Update(msg)
		return a, cmd

	case messages.ViewChat:
		switch msg.String() {
		case "esc":
			a.currentView = messages.ViewClasses
			return a, a.classesView.Init()
		case "tab":
			a.currentView = messages.ViewDocuments
			return a, a.documentsView.Init()
		}
		a.chatView, cmd = a.chatView.Update(msg)
		return a, cmd

	case messages.ViewDocuments:
		if !a.documentsView.Prompting() {
			switch msg.String() {
			case "esc":
				a.currentView = messages.ViewClasses
				return a, a.classesView.Init()
			case "tab":
				a.chatView.Refresh()
				a.currentView = messages.ViewChat
				return a, nil
			}
		}
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd
	}
	return a, nil
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "loading…"
	}

	var body string
	switch a.currentView {
	case messages.ViewLogin:
		body = a.loginView.View()
	case messages.ViewClasses:
		body = a.classesView.View()
	case messages.ViewChat:
		body = a.chatView.View()
	case messages.ViewDocuments:
		body = a.documentsView.View()
	}

	a.statusBar.SetSyncing(a.ports.Document.Polling())
	return body + "\n" + a.statusBar.View()
}

// CurrentView exposes the active view for tests.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}
