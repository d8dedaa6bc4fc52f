package service

import (
	"context"
	"time"

	"github.com/avolkov/notehub/internal/models"
	"github.com/google/uuid"
)

// NoteRepository defines the persistence operations needed by the NoteService.
type NoteRepository interface {
	// NotesByUser retrieves all notes belonging to the specified user.
	NotesByUser(ctx context.Context, userID string) ([]models.Note, error)
	// CreateNote inserts a fully populated note.
	CreateNote(ctx context.Context, note models.Note) error
	// UpdateNote overwrites title/content/tags/updated_at of the user's note.
	UpdateNote(ctx context.Context, note models.Note) error
	// DeleteNote removes the user's note permanently.
	DeleteNote(ctx context.Context, userID, id string) error
}

// Publisher receives the post-mutation snapshot of a user's notes. Implemented
// by the Hub; mutations publish so live-query subscribers see every change.
type Publisher interface {
	Publish(userID string, notes []models.Note)
}

// NoteService implements note CRUD scoped to the owning user. Every mutation
// re-reads the user's full note set and publishes it, which is what drives
// the live query on connected clients.
type NoteService struct {
	repo NoteRepository
	pub  Publisher
	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewNoteService constructs a NoteService with the provided repository and
// snapshot publisher.
func NewNoteService(repo NoteRepository, pub Publisher) *NoteService {
	return &NoteService{repo: repo, pub: pub, now: time.Now}
}

// List returns all notes owned by the user.
func (s *NoteService) List(ctx context.Context, userID string) ([]models.Note, error) {
	return s.repo.NotesByUser(ctx, userID)
}

// Create writes a new note owned by the user. The id and both timestamps are
// assigned here; createdAt equals updatedAt on a fresh note.
func (s *NoteService) Create(ctx context.Context, userID, title, content string, tags []string) (*models.Note, error) {
	now := s.now()
	note := models.Note{
		ID:        uuid.NewString(),
		Title:     title,
		Content:   content,
		Tags:      tags,
		UserID:    userID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.repo.CreateNote(ctx, note); err != nil {
		return nil, err
	}
	s.publish(ctx, userID)
	return &note, nil
}

// Update overwrites title, content and tags of the user's note and advances
// updatedAt. createdAt and the owner are never touched.
func (s *NoteService) Update(ctx context.Context, userID, id, title, content string, tags []string) error {
	note := models.Note{
		ID:        id,
		Title:     title,
		Content:   content,
		Tags:      tags,
		UserID:    userID,
		UpdatedAt: s.now(),
	}
	if err := s.repo.UpdateNote(ctx, note); err != nil {
		return err
	}
	s.publish(ctx, userID)
	return nil
}

// Delete removes the user's note permanently.
func (s *NoteService) Delete(ctx context.Context, userID, id string) error {
	if err := s.repo.DeleteNote(ctx, userID, id); err != nil {
		return err
	}
	s.publish(ctx, userID)
	return nil
}

func (s *NoteService) publish(ctx context.Context, userID string) {
	if s.pub == nil {
		return
	}
	notes, err := s.repo.NotesByUser(ctx, userID)
	if err != nil {
		// The mutation itself succeeded; subscribers catch up on the
		// next delivery.
		return
	}
	s.pub.Publish(userID, notes)
}
