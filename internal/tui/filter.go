// Package tui implements the terminal user interface: the login form, the
// note list with search, and the note editor, composed into a single
// bubbletea program.
package tui

import (
	"strings"

	"github.com/avolkov/notehub/internal/models"
)

// FilterNotes returns the notes matching the search term. A note matches if
// the lowercased term is a substring of the lowercased title, content, or any
// single tag. An empty term matches everything. The input order is preserved;
// filtering is idempotent.
func FilterNotes(notes []models.Note, term string) []models.Note {
	if term == "" {
		return notes
	}
	needle := strings.ToLower(term)

	matched := make([]models.Note, 0, len(notes))
	for _, note := range notes {
		if noteMatches(note, needle) {
			matched = append(matched, note)
		}
	}
	return matched
}

func noteMatches(note models.Note, needle string) bool {
	if strings.Contains(strings.ToLower(note.Title), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(note.Content), needle) {
		return true
	}
	for _, tag := range note.Tags {
		if strings.Contains(strings.ToLower(tag), needle) {
			return true
		}
	}
	return false
}

// ParseTags splits a comma-separated tag line into tags, trimming whitespace
// around each segment. Segments that trim to empty (trailing commas, ", ,")
// are dropped rather than kept as empty-string tags.
func ParseTags(line string) []string {
	parts := strings.Split(line, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		tag := strings.TrimSpace(part)
		if tag == "" {
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// JoinTags renders tags back into the editor's comma-separated form.
func JoinTags(tags []string) string {
	return strings.Join(tags, ", ")
}
