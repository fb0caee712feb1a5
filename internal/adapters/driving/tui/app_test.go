package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	backendmem "github.com/judelwin/smart-study-assistant/internal/adapters/driven/backend/memory"
	storagemem "github.com/judelwin/smart-study-assistant/internal/adapters/driven/storage/memory"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/messages"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/services"
)

// newTestPorts wires real services over the in-memory backend.
func newTestPorts(t *testing.T, backend *backendmem.Backend) *Ports {
	t.Helper()
	bus := services.NewRefreshBus()
	docs := services.NewDocumentService(backend, bus, services.DocumentConfig{
		PollInterval: time.Hour,
	})
	t.Cleanup(docs.Close)
	return &Ports{
		Auth:     services.NewAuthService(context.Background(), backend, storagemem.NewCredentialStore()),
		Class:    services.NewClassService(backend, bus),
		Document: docs,
		Chat:     services.NewChatService(backend, docs, 3),
		Upload:   services.NewUploadService(backend, bus),
	}
}

func TestNewApp_RequiresPorts(t *testing.T) {
	_, err := NewApp(&Ports{})
	require.Error(t, err)
}

func TestNewApp_StartsAtLoginWhenLoggedOut(t *testing.T) {
	app, err := NewApp(newTestPorts(t, backendmem.NewBackend()))
	require.NoError(t, err)
	assert.Equal(t, messages.ViewLogin, app.CurrentView())
}

func TestNewApp_StartsAtClassesWhenLoggedIn(t *testing.T) {
	backend := backendmem.NewBackend()
	ports := newTestPorts(t, backend)
	backend.AddAccount("ada@example.com", "pw")
	require.NoError(t, ports.Auth.Login(context.Background(), "ada@example.com", "pw"))

	app, err := NewApp(ports)
	require.NoError(t, err)
	assert.Equal(t, messages.ViewClasses, app.CurrentView())
}

func TestApp_LoginMovesToClasses(t *testing.T) {
	app, err := NewApp(newTestPorts(t, backendmem.NewBackend()))
	require.NoError(t, err)

	model, _ := app.Update(messages.LoggedIn{Email: "ada@example.com"})
	app = model.(*App)

	assert.Equal(t, messages.ViewClasses, app.CurrentView())
}

func TestApp_ChoosingClassOpensChat(t *testing.T) {
	backend := backendmem.NewBackend()
	backend.SetClasses([]domain.Class{{ID: "c1", Name: "Biology"}})
	ports := newTestPorts(t, backend)
	app, err := NewApp(ports)
	require.NoError(t, err)

	model, _ := app.Update(messages.ClassChosen{Class: domain.Class{ID: "c1", Name: "Biology"}})
	app = model.(*App)

	assert.Equal(t, messages.ViewChat, app.CurrentView())
	assert.Equal(t, "c1", ports.Chat.ClassID(), "transcript bound to the chosen class")
}

func TestApp_TabTogglesChatAndDocuments(t *testing.T) {
	backend := backendmem.NewBackend()
	ports := newTestPorts(t, backend)
	app, err := NewApp(ports)
	require.NoError(t, err)
	model, _ := app.Update(messages.ClassChosen{Class: domain.Class{ID: "c1", Name: "Biology"}})
	app = model.(*App)

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(*App)
	assert.Equal(t, messages.ViewDocuments, app.CurrentView())

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(*App)
	assert.Equal(t, messages.ViewChat, app.CurrentView())
}

func TestApp_UploadPromptCapturesEsc(t *testing.T) {
	ports := newTestPorts(t, backendmem.NewBackend())
	app, err := NewApp(ports)
	require.NoError(t, err)
	model, _ := app.Update(messages.ClassChosen{Class: domain.Class{ID: "c1", Name: "Biology"}})
	app = model.(*App)
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyTab})
	app = model.(*App)
	require.Equal(t, messages.ViewDocuments, app.CurrentView())

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'u'}})
	app = model.(*App)

	// Esc closes the prompt without leaving the documents view.
	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	assert.Equal(t, messages.ViewDocuments, app.CurrentView())

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	assert.Equal(t, messages.ViewClasses, app.CurrentView())
}

func TestApp_EscReturnsToClasses(t *testing.T) {
	ports := newTestPorts(t, backendmem.NewBackend())
	app, err := NewApp(ports)
	require.NoError(t, err)
	model, _ := app.Update(messages.ClassChosen{Class: domain.Class{ID: "c1", Name: "Biology"}})
	app = model.(*App)

	model, _ = app.Update(tea.KeyMsg{Type: tea.KeyEsc})
	app = model.(*App)
	assert.Equal(t, messages.ViewClasses, app.CurrentView())
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, err := NewApp(newTestPorts(t, backendmem.NewBackend()))
	require.NoError(t, err)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestApp_ViewRendersAfterResize(t *testing.T) {
	app, err := NewApp(newTestPorts(t, backendmem.NewBackend()))
	require.NoError(t, err)

	assert.Equal(t, "loading…", app.View())

	model, _ := app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	app = model.(*App)
	assert.NotEmpty(t, app.View())
}
