package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/avolkov/notehub/internal/client"
	"github.com/avolkov/notehub/internal/models"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
)

// identity is the slice of the API client the UI needs for session handling.
type identity interface {
	SignIn(ctx context.Context, email, password string) error
	SignUp(ctx context.Context, email, password string) error
	SignOut(ctx context.Context) error
	Session() *client.Session
	OnSessionChange(fn func(*client.Session)) func()
}

// noteStore is the live note store adapter the shell works against.
type noteStore interface {
	Create(ctx context.Context, title, content string, tags []string) error
	Update(ctx context.Context, id, title, content string, tags []string) error
	Delete(ctx context.Context, id string) error
	Subscribe(ctx context.Context, onSnapshot func([]models.Note), onClosed func(error)) (func(), error)
}

type appState int

const (
	stateLogin appState = iota
	stateShell
)

// focus zones within the shell, cycled with tab.
const (
	zoneSearch = iota
	zoneList
	zoneEditor
	zoneCount
)

// Messages crossing the async boundaries.
type (
	// sessionChangedMsg arrives from the identity feed: nil means signed out.
	sessionChangedMsg struct{ session *client.Session }
	// authResultMsg reports the outcome of a sign-in or sign-up attempt.
	authResultMsg struct {
		signup bool
		err    error
	}
	// subscribedMsg reports the live-query subscription attempt.
	subscribedMsg struct {
		unsubscribe func()
		err         error
	}
	// snapshotMsg delivers the full note set from the live query.
	snapshotMsg struct{ notes []models.Note }
	// streamLostMsg reports that the live query died.
	streamLostMsg struct{ err error }
	// mutationDoneMsg reports a create/update/delete outcome.
	mutationDoneMsg struct {
		action string
		err    error
	}
	// signedOutMsg reports the logout outcome.
	signedOutMsg struct{ err error }
	// themeSavedMsg reports persisting the theme preference.
	themeSavedMsg struct{ err error }
)

// Model is the root bubbletea model composing the session gate, credential
// form, note list and note editor.
type Model struct {
	api   identity
	store noteStore
	log   *zap.Logger

	cfg    client.Config
	styles Styles

	state appState
	login LoginForm

	search     textinput.Model
	editor     Editor
	notes      []models.Note
	filtered   []models.Note
	cursor     int
	selectedID string
	zone       int

	// events carries messages produced on non-UI goroutines (identity feed,
	// live-query reader) into the bubbletea loop.
	events chan tea.Msg
	// unsubscribe releases the live query; nil when not subscribed.
	unsubscribe func()

	width  int
	height int

	status  string
	isError bool
}

// NewModel wires the UI to the API client and note store.
func NewModel(api *client.API, store *client.NoteStore, cfg client.Config, log *zap.Logger) Model {
	return newModel(api, store, cfg, log)
}

func newModel(api identity, store noteStore, cfg client.Config, log *zap.Logger) Model {
	search := textinput.New()
	search.Placeholder = "Search notes..."
	search.CharLimit = 100
	search.Width = 36

	if log == nil {
		log = zap.NewNop()
	}

	return Model{
		api:    api,
		store:  store,
		log:    log,
		cfg:    cfg,
		styles: NewStyles(cfg.UI.Theme),
		state:  stateLogin,
		login:  NewLoginForm(),
		search: search,
		editor: NewEditor(),
		events: make(chan tea.Msg, 16),
	}
}

// Init subscribes to the identity feed and starts pumping async events.
func (m Model) Init() tea.Cmd {
	m.api.OnSessionChange(func(s *client.Session) {
		m.events <- sessionChangedMsg{session: s}
	})
	return tea.Batch(textinput.Blink, m.waitEvent())
}

// waitEvent delivers the next async event as a bubbletea message.
func (m Model) waitEvent() tea.Cmd {
	return func() tea.Msg {
		return <-m.events
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionChangedMsg:
		return m.handleSessionChange(msg)

	case authResultMsg:
		if msg.err != nil {
			m.setError("Authentication error: check your credentials and try again")
			m.login.Clear()
			return m, nil
		}
		if msg.signup {
			m.setStatus("Account created successfully")
		} else {
			m.setStatus("Logged in successfully")
		}
		return m, nil

	case subscribedMsg:
		if msg.err != nil {
			m.setError("Live updates unavailable: " + msg.err.Error())
			return m, nil
		}
		m.unsubscribe = msg.unsubscribe
		return m, nil

	case snapshotMsg:
		m.notes = msg.notes
		m.applyFilter()
		if m.selectedID != "" && m.findNote(m.selectedID) == nil {
			// The selected note vanished (deleted here or elsewhere).
			m.selectedID = ""
			m.editor.SetNote(nil)
		}
		return m, m.waitEvent()

	case streamLostMsg:
		m.unsubscribe = nil
		m.setError("Connection to server lost; restart to reconnect")
		m.log.Warn("live query stream lost", zap.Error(msg.err))
		return m, m.waitEvent()

	case mutationDoneMsg:
		return m.handleMutationDone(msg)

	case signedOutMsg:
		if msg.err != nil {
			m.setError("Error logging out; please try again")
		} else {
			m.setStatus("Logged out successfully")
		}
		return m, nil

	case themeSavedMsg:
		if msg.err != nil {
			m.log.Warn("failed to persist theme", zap.Error(msg.err))
		}
		return m, nil
	}

	return m.updateFocused(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyCtrlC {
		if m.unsubscribe != nil {
			m.unsubscribe()
		}
		return m, tea.Quit
	}

	if m.state == stateLogin {
		return m.handleLoginKey(msg)
	}
	return m.handleShellKey(msg)
}

func (m Model) handleLoginKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		m.login.CycleFocus()
		return m, nil
	case tea.KeyCtrlR:
		m.login.ToggleMode()
		return m, nil
	case tea.KeyEnter:
		email, password, ok := m.login.Values()
		if !ok {
			m.setError("Email and password are required")
			return m, nil
		}
		m.setStatus("")
		return m, m.authCmd(email, password, m.login.Signup())
	}
	return m.updateFocused(msg)
}

func (m Model) handleShellKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyTab:
		// Inside the editor tab moves between its fields; elsewhere it
		// advances the focused pane. Shift+tab always advances the pane.
		if m.zone == zoneEditor {
			m.editor.CycleFocus()
		} else {
			m.cycleZone()
		}
		return m, nil

	case tea.KeyShiftTab:
		m.cycleZone()
		return m, nil

	case tea.KeyEsc:
		if m.selectedID != "" {
			m.selectedID = ""
			m.editor.SetNote(nil)
			m.setStatus("")
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		if m.zone == zoneList {
			if msg.Type == tea.KeyUp && m.cursor > 0 {
				m.cursor--
			}
			if msg.Type == tea.KeyDown && m.cursor < len(m.filtered)-1 {
				m.cursor++
			}
			return m, nil
		}

	case tea.KeyEnter:
		if m.zone == zoneList && m.cursor < len(m.filtered) {
			note := m.filtered[m.cursor]
			m.selectNote(note)
			return m, nil
		}

	case tea.KeyCtrlS:
		return m.submitEditor()

	case tea.KeyCtrlD:
		if selected := m.editor.Selected(); selected != nil {
			return m, m.deleteCmd(selected.ID)
		}
		return m, nil

	case tea.KeyCtrlT:
		m.toggleTheme()
		return m, m.saveThemeCmd()

	case tea.KeyCtrlL:
		return m, m.signOutCmd()
	}

	model, cmd := m.updateFocused(msg)
	if mm, ok := model.(Model); ok && mm.zone == zoneSearch {
		mm.applyFilter()
		return mm, cmd
	}
	return model, cmd
}

func (m Model) handleSessionChange(msg sessionChangedMsg) (tea.Model, tea.Cmd) {
	if msg.session == nil {
		// Session gate: back to the login view, releasing the live query.
		if m.unsubscribe != nil {
			m.unsubscribe()
			m.unsubscribe = nil
		}
		m.state = stateLogin
		m.login = NewLoginForm()
		m.notes = nil
		m.filtered = nil
		m.cursor = 0
		m.selectedID = ""
		m.editor = NewEditor()
		m.search.SetValue("")
		return m, m.waitEvent()
	}

	m.state = stateShell
	m.zone = zoneSearch
	m.search.Focus()
	m.editor.Blur()
	return m, tea.Batch(m.subscribeCmd(), m.waitEvent())
}

func (m Model) handleMutationDone(msg mutationDoneMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		// Editor state is preserved so the user can retry.
		m.setError("There was an error saving your note. Please try again.")
		m.log.Error("note mutation failed", zap.String("action", msg.action), zap.Error(msg.err))
		return m, nil
	}

	switch msg.action {
	case "create":
		m.setStatus("Note created")
	case "update":
		m.setStatus("Note updated")
	case "delete":
		m.setStatus("Note deleted")
	}

	// The mutation resolved; now the editor may reset and the selection clear.
	m.selectedID = ""
	m.editor.SetNote(nil)
	return m, nil
}

func (m *Model) submitEditor() (tea.Model, tea.Cmd) {
	title, content, tags, ok := m.editor.Values()
	if !ok {
		m.setError("Title and content are required")
		return *m, nil
	}

	if selected := m.editor.Selected(); selected != nil {
		return *m, m.updateCmd(selected.ID, title, content, tags)
	}
	return *m, m.createCmd(title, content, tags)
}

func (m *Model) selectNote(note models.Note) {
	m.selectedID = note.ID
	noteCopy := note
	m.editor.SetNote(&noteCopy)
	m.zone = zoneEditor
	m.search.Blur()
	m.editor.Focus()
}

func (m *Model) cycleZone() {
	m.zone = (m.zone + 1) % zoneCount
	m.search.Blur()
	m.editor.Blur()
	switch m.zone {
	case zoneSearch:
		m.search.Focus()
	case zoneEditor:
		m.editor.Focus()
	}
}

func (m Model) updateFocused(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch {
	case m.state == stateLogin:
		m.login, cmd = m.login.Update(msg)
	case m.zone == zoneSearch:
		m.search, cmd = m.search.Update(msg)
	case m.zone == zoneEditor:
		m.editor, cmd = m.editor.Update(msg)
	}
	return m, cmd
}

func (m *Model) applyFilter() {
	m.filtered = FilterNotes(m.notes, m.search.Value())
	if m.cursor >= len(m.filtered) {
		m.cursor = 0
	}
}

func (m *Model) findNote(id string) *models.Note {
	for i := range m.notes {
		if m.notes[i].ID == id {
			return &m.notes[i]
		}
	}
	return nil
}

func (m *Model) toggleTheme() {
	if m.cfg.UI.Theme == "dark" {
		m.cfg.UI.Theme = "light"
	} else {
		m.cfg.UI.Theme = "dark"
	}
	m.styles = NewStyles(m.cfg.UI.Theme)
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.isError = false
}

func (m *Model) setError(s string) {
	m.status = s
	m.isError = true
}

// Commands against the async boundaries.

func (m Model) authCmd(email, password string, signup bool) tea.Cmd {
	return func() tea.Msg {
		var err error
		if signup {
			err = m.api.SignUp(context.Background(), email, password)
		} else {
			err = m.api.SignIn(context.Background(), email, password)
		}
		return authResultMsg{signup: signup, err: err}
	}
}

func (m Model) subscribeCmd() tea.Cmd {
	events := m.events
	store := m.store
	return func() tea.Msg {
		unsubscribe, err := store.Subscribe(context.Background(),
			func(notes []models.Note) {
				events <- snapshotMsg{notes: notes}
			},
			func(err error) {
				events <- streamLostMsg{err: err}
			},
		)
		return subscribedMsg{unsubscribe: unsubscribe, err: err}
	}
}

func (m Model) createCmd(title, content string, tags []string) tea.Cmd {
	return func() tea.Msg {
		err := m.store.Create(context.Background(), title, content, tags)
		return mutationDoneMsg{action: "create", err: err}
	}
}

func (m Model) updateCmd(id, title, content string, tags []string) tea.Cmd {
	return func() tea.Msg {
		err := m.store.Update(context.Background(), id, title, content, tags)
		return mutationDoneMsg{action: "update", err: err}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return func() tea.Msg {
		err := m.store.Delete(context.Background(), id)
		return mutationDoneMsg{action: "delete", err: err}
	}
}

func (m Model) signOutCmd() tea.Cmd {
	return func() tea.Msg {
		return signedOutMsg{err: m.api.SignOut(context.Background())}
	}
}

func (m Model) saveThemeCmd() tea.Cmd {
	cfg := m.cfg
	return func() tea.Msg {
		return themeSavedMsg{err: client.SaveConfig(cfg)}
	}
}

// View renders the login view or the two-pane shell.
func (m Model) View() string {
	if m.state == stateLogin {
		s := m.login.View(m.styles)
		if m.status != "" {
			s += "\n\n" + m.renderStatus()
		}
		return s
	}

	left := m.renderListPane()
	right := m.styles.Pane.Render(m.editor.View(m.styles))
	shell := lipgloss.JoinHorizontal(lipgloss.Top, left, right)

	help := m.styles.Help.Render(
		"tab: focus  enter: select  esc: deselect  ctrl+s: save  ctrl+d: delete  ctrl+t: theme  ctrl+l: logout  ctrl+c: quit",
	)

	s := shell + "\n" + help
	if m.status != "" {
		s += "\n" + m.renderStatus()
	}
	return s
}

func (m Model) renderListPane() string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("NoteHub"))
	b.WriteString("\n\n")
	b.WriteString(m.search.View())
	b.WriteString("\n\n")

	if len(m.filtered) == 0 {
		b.WriteString(m.styles.Help.Render("No notes"))
	}
	for i, note := range m.filtered {
		line := note.Title
		preview := note.Content
		if len(preview) > 40 {
			preview = preview[:40] + "..."
		}
		entry := fmt.Sprintf("%s\n  %s", line, m.styles.Help.Render(preview))
		if len(note.Tags) > 0 {
			entry += "\n  " + m.styles.Tag.Render(JoinTags(note.Tags))
		}
		if note.ID == m.selectedID || (m.zone == zoneList && i == m.cursor) {
			entry = m.styles.Selected.Render("> ") + entry
		} else {
			entry = "  " + entry
		}
		b.WriteString(entry)
		b.WriteString("\n")
	}

	return m.styles.Pane.Render(b.String())
}

func (m Model) renderStatus() string {
	if m.isError {
		return m.styles.Error.Render(m.status)
	}
	return m.styles.Success.Render(m.status)
}
