package tui

import (
	"github.com/avolkov/notehub/internal/models"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// editor field focus order.
const (
	editorFieldTitle = iota
	editorFieldContent
	editorFieldTags
	editorFieldCount
)

// Editor is the note form: title, content and comma-separated tags, bound to
// at most one selected note. With no selection it creates; with a selection
// it edits, and a delete action becomes available.
type Editor struct {
	title   textinput.Model
	content textarea.Model
	tags    textinput.Model

	selected *models.Note
	focus    int
}

// NewEditor returns a blank editor in create mode.
func NewEditor() Editor {
	title := textinput.New()
	title.Placeholder = "Note title"
	title.CharLimit = 120
	title.Width = 40
	title.Focus()

	content := textarea.New()
	content.Placeholder = "Write your note here..."
	content.SetWidth(60)
	content.SetHeight(10)

	tags := textinput.New()
	tags.Placeholder = "work, personal, ideas"
	tags.CharLimit = 200
	tags.Width = 40

	return Editor{title: title, content: content, tags: tags}
}

// Editing reports whether a note is selected (edit mode).
func (e *Editor) Editing() bool {
	return e.selected != nil
}

// Selected returns the note the form is bound to, nil in create mode.
func (e *Editor) Selected() *models.Note {
	return e.selected
}

// SetNote binds the form to the note, loading its current values and
// discarding any edits in progress. A nil note resets to a blank create form.
// The reset is synchronous with the selection change.
func (e *Editor) SetNote(note *models.Note) {
	e.selected = note
	if note == nil {
		e.title.SetValue("")
		e.content.SetValue("")
		e.tags.SetValue("")
	} else {
		e.title.SetValue(note.Title)
		e.content.SetValue(note.Content)
		e.tags.SetValue(JoinTags(note.Tags))
	}
	e.setFocus(editorFieldTitle)
}

// Values returns the validated form values. ok is false when title or content
// is empty after the minimum-length check; the form is left untouched so the
// user can fix it.
func (e *Editor) Values() (title, content string, tags []string, ok bool) {
	title = e.title.Value()
	content = e.content.Value()
	if title == "" || content == "" {
		return "", "", nil, false
	}
	return title, content, ParseTags(e.tags.Value()), true
}

// CycleFocus moves focus to the next form field.
func (e *Editor) CycleFocus() {
	e.setFocus((e.focus + 1) % editorFieldCount)
}

func (e *Editor) setFocus(field int) {
	e.focus = field
	e.title.Blur()
	e.content.Blur()
	e.tags.Blur()
	switch field {
	case editorFieldTitle:
		e.title.Focus()
	case editorFieldContent:
		e.content.Focus()
	case editorFieldTags:
		e.tags.Focus()
	}
}

// Blur removes focus from all fields, e.g. while the list pane is active.
func (e *Editor) Blur() {
	e.title.Blur()
	e.content.Blur()
	e.tags.Blur()
}

// Focus restores focus to the current field.
func (e *Editor) Focus() {
	e.setFocus(e.focus)
}

// Update forwards the message to the focused field.
func (e Editor) Update(msg tea.Msg) (Editor, tea.Cmd) {
	var cmd tea.Cmd
	switch e.focus {
	case editorFieldTitle:
		e.title, cmd = e.title.Update(msg)
	case editorFieldContent:
		e.content, cmd = e.content.Update(msg)
	case editorFieldTags:
		e.tags, cmd = e.tags.Update(msg)
	}
	return e, cmd
}

// View renders the form.
func (e Editor) View(styles Styles) string {
	header := "New note"
	if e.Editing() {
		header = "Edit note"
	}

	s := styles.Title.Render(header) + "\n\n"
	s += styles.Label.Render("Title") + "\n" + e.title.View() + "\n\n"
	s += styles.Label.Render("Content") + "\n" + e.content.View() + "\n\n"
	s += styles.Label.Render("Tags (comma-separated)") + "\n" + e.tags.View() + "\n"
	return s
}
