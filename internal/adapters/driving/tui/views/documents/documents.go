// Package documents implements the document list view for one class.
package documents

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/keymap"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/messages"
	"github.com/judelwin/smart-study-assistant/internal/adapters/driving/tui/styles"
	"github.com/judelwin/smart-study-assistant/internal/core/domain"
	"github.com/judelwin/smart-study-assistant/internal/core/ports/driving"
)

// tickInterval is how often the list re-renders while ingestion runs,
// so status changes picked up by the background poll become visible.
const tickInterval = time.Second

// View shows the selected class's documents with their ingestion status.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	docs   driving.DocumentService
	upload driving.UploadService

	classID   string
	cursor    int
	notice    string
	err       error
	prompting bool
	uploading bool
	pathInput textinput.Model

	width  int
	height int
}

// deleteDone carries the outcome of an async delete.
type deleteDone struct {
	err error
}

// linkDone carries a fetched download link.
type linkDone struct {
	url string
	err error
}

// uploadDone carries the outcome of an async upload.
type uploadDone struct {
	names []string
	err   error
}

// NewView creates the documents view.
func NewView(s *styles.Styles, docs driving.DocumentService, upload driving.UploadService) *View {
	path := textinput.New()
	path.Placeholder = "path to file"
	path.CharLimit = 1024
	return &View{
		styles:    s,
		keys:      keymap.DefaultKeyMap(),
		docs:      docs,
		upload:    upload,
		pathInput: path,
	}
}

// SetClass binds the view (and its uploads) to a class.
func (v *View) SetClass(classID string) {
	v.classID = classID
	v.cursor = 0
	v.notice = ""
	v.err = nil
}

// Prompting reports whether the upload path prompt is open, so the app
// routes esc to the prompt instead of leaving the view.
func (v *View) Prompting() bool {
	return v.prompting
}

// SetDimensions updates the render size.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Init starts the render tick.
func (v *View) Init() tea.Cmd {
	return tick()
}

// tick schedules the next periodic re-render.
func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(time.Time) tea.Msg {
		return messages.DocumentsTick{}
	})
}

// Update handles messages for the document list.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case messages.DocumentsTick:
		// The background poll refreshes the data; the tick only redraws.
		if v.cursor >= len(v.docs.Documents()) {
			v.cursor = max(0, len(v.docs.Documents())-1)
		}
		return v, tick()

	case deleteDone:
		v.err = msg.err
		if msg.err == nil {
			v.notice = "document deleted"
		}
		return v, nil

	case linkDone:
		v.err = msg.err
		if msg.err == nil {
			v.notice = msg.url
		}
		return v, nil

	case uploadDone:
		v.uploading = false
		v.err = msg.err
		if msg.err == nil {
			v.notice = fmt.Sprintf("uploaded %s", strings.Join(msg.names, ", "))
		}
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)
	}

	if v.prompting {
		var cmd tea.Cmd
		v.pathInput, cmd = v.pathInput.Update(msg)
		return v, cmd
	}
	return v, nil
}

// handleKey processes navigation and document actions.
func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	if v.prompting {
		return v.handlePromptKey(msg)
	}
	docs := v.docs.Documents()
	switch {
	case key.Matches(msg, v.keys.Up):
		if v.cursor > 0 {
			v.cursor--
		}
	case key.Matches(msg, v.keys.Down):
		if v.cursor < len(docs)-1 {
			v.cursor++
		}
	case key.Matches(msg, v.keys.Delete):
		if v.cursor < len(docs) {
			id := docs[v.cursor].ID
			service := v.docs
			v.notice = ""
			return v, func() tea.Msg {
				err := service.Delete(context.Background(), id)
				if errors.Is(err, domain.ErrDeleteInFlight) {
					err = errors.New("another delete is still running")
				}
				return deleteDone{err: err}
			}
		}
	case key.Matches(msg, v.keys.Link):
		if v.cursor < len(docs) {
			id := docs[v.cursor].ID
			service := v.docs
			v.notice = ""
			return v, func() tea.Msg {
				url, err := service.DownloadURL(context.Background(), id)
				return linkDone{url: url, err: err}
			}
		}
	case key.Matches(msg, v.keys.Upload):
		if v.upload != nil && v.classID != "" {
			v.prompting = true
			v.notice = ""
			v.err = nil
			v.pathInput.SetValue("")
			return v, v.pathInput.Focus()
		}
	}
	return v, nil
}

// handlePromptKey drives the upload path prompt.
func (v *View) handlePromptKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "esc":
		v.prompting = false
		v.pathInput.Blur()
		return v, nil
	case "enter":
		path := strings.TrimSpace(v.pathInput.Value())
		if path == "" {
			return v, nil
		}
		v.prompting = false
		v.uploading = true
		v.pathInput.Blur()
		upload := v.upload
		classID := v.classID
		return v, func() tea.Msg {
			names, err := upload.Upload(context.Background(), classID, []string{path})
			switch {
			case errors.Is(err, domain.ErrPayloadTooLarge):
				err = errors.New("file is too large")
			case errors.Is(err, domain.ErrRateLimited):
				err = errors.New("rate limited, try again shortly")
			}
			return uploadDone{names: names, err: err}
		}
	}
	var cmd tea.Cmd
	v.pathInput, cmd = v.pathInput.Update(msg)
	return v, cmd
}

// View renders the document table.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Documents"))
	b.WriteString("\n\n")

	docs := v.docs.Documents()
	if len(docs) == 0 {
		b.WriteString(v.styles.Muted.Render("No documents yet. Press u to upload."))
		b.WriteString("\n")
	}
	for i, d := range docs {
		line := fmt.Sprintf("%-36s %s", truncate(d.Filename, 36), v.renderStatus(d.Status))
		if i == v.cursor {
			b.WriteString(v.styles.Selected.Render("> "))
		} else {
			b.WriteString("  ")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	if v.prompting {
		b.WriteString("\n")
		b.WriteString(v.styles.InputField.Render(v.pathInput.View()))
		b.WriteString("\n")
	}
	if v.uploading {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render("uploading…"))
		b.WriteString("\n")
	}
	if v.docs.Polling() {
		b.WriteString("\n")
		b.WriteString(v.styles.Warning.Render("processing…"))
		b.WriteString("\n")
	}
	if v.notice != "" {
		b.WriteString("\n")
		b.WriteString(v.styles.Muted.Render(v.notice))
		b.WriteString("\n")
	}
	if v.err != nil {
		b.WriteString("\n")
		b.WriteString(v.styles.Error.Render(v.err.Error()))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	if v.prompting {
		b.WriteString(v.styles.Help.Render("enter upload · esc cancel"))
	} else {
		b.WriteString(v.styles.Help.Render("u upload · o link · d delete · tab chat · esc classes · ctrl+c quit"))
	}
	return b.String()
}

// renderStatus colours a status by ingestion phase.
func (v *View) renderStatus(status domain.DocumentStatus) string {
	switch status {
	case domain.StatusProcessed:
		return v.styles.Success.Render(string(status))
	case domain.StatusFailed:
		return v.styles.Error.Render(string(status))
	default:
		return v.styles.Warning.Render(string(status))
	}
}

// truncate shortens a name to fit the column.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n-1] + "…"
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
