package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/avolkov/notehub/internal/models"
	"github.com/avolkov/notehub/internal/service"
)

type mockNoteRepo struct {
	NotesByUserFunc func(ctx context.Context, userID string) ([]models.Note, error)
	CreateNoteFunc  func(ctx context.Context, note models.Note) error
	UpdateNoteFunc  func(ctx context.Context, note models.Note) error
	DeleteNoteFunc  func(ctx context.Context, userID, id string) error
}

func (m *mockNoteRepo) NotesByUser(ctx context.Context, userID string) ([]models.Note, error) {
	return m.NotesByUserFunc(ctx, userID)
}
func (m *mockNoteRepo) CreateNote(ctx context.Context, note models.Note) error {
	return m.CreateNoteFunc(ctx, note)
}
func (m *mockNoteRepo) UpdateNote(ctx context.Context, note models.Note) error {
	return m.UpdateNoteFunc(ctx, note)
}
func (m *mockNoteRepo) DeleteNote(ctx context.Context, userID, id string) error {
	return m.DeleteNoteFunc(ctx, userID, id)
}

type recordingPublisher struct {
	userID string
	notes  []models.Note
	calls  int
}

func (p *recordingPublisher) Publish(userID string, notes []models.Note) {
	p.userID = userID
	p.notes = notes
	p.calls++
}

func TestCreate_SetsIDOwnerAndTimestamps(t *testing.T) {
	var stored models.Note
	repo := &mockNoteRepo{
		CreateNoteFunc: func(_ context.Context, note models.Note) error {
			stored = note
			return nil
		},
		NotesByUserFunc: func(context.Context, string) ([]models.Note, error) {
			return []models.Note{stored}, nil
		},
	}
	pub := &recordingPublisher{}
	svc := service.NewNoteService(repo, pub)

	note, err := svc.Create(context.Background(), "u1", "A", "B", []string{"x", "y"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if note.ID == "" {
		t.Error("expected non-empty note id")
	}
	if note.UserID != "u1" {
		t.Errorf("owner = %q; want u1", note.UserID)
	}
	if !note.CreatedAt.Equal(note.UpdatedAt) {
		t.Errorf("createdAt %v != updatedAt %v on fresh note", note.CreatedAt, note.UpdatedAt)
	}
	if stored.Title != "A" || stored.Content != "B" {
		t.Errorf("stored note = %+v", stored)
	}
	if pub.calls != 1 || pub.userID != "u1" {
		t.Errorf("expected one publish for u1, got %d for %q", pub.calls, pub.userID)
	}
}

func TestCreate_RepoErrorSkipsPublish(t *testing.T) {
	wantErr := errors.New("insert failed")
	repo := &mockNoteRepo{
		CreateNoteFunc: func(context.Context, models.Note) error { return wantErr },
	}
	pub := &recordingPublisher{}
	svc := service.NewNoteService(repo, pub)

	_, err := svc.Create(context.Background(), "u1", "A", "B", nil)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Create error = %v; want %v", err, wantErr)
	}
	if pub.calls != 0 {
		t.Errorf("expected no publish after failed create, got %d", pub.calls)
	}
}

func TestUpdate_NeverTouchesCreatedAtOrOwner(t *testing.T) {
	var stored models.Note
	repo := &mockNoteRepo{
		UpdateNoteFunc: func(_ context.Context, note models.Note) error {
			stored = note
			return nil
		},
		NotesByUserFunc: func(context.Context, string) ([]models.Note, error) {
			return nil, nil
		},
	}
	svc := service.NewNoteService(repo, &recordingPublisher{})

	if err := svc.Update(context.Background(), "u1", "n1", "A2", "B2", []string{"x"}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !stored.CreatedAt.IsZero() {
		t.Errorf("update must not carry createdAt, got %v", stored.CreatedAt)
	}
	if stored.UpdatedAt.IsZero() {
		t.Error("update must set updatedAt")
	}
	if stored.ID != "n1" || stored.UserID != "u1" {
		t.Errorf("stored note = %+v", stored)
	}
}

func TestUpdate_ForeignNote(t *testing.T) {
	repo := &mockNoteRepo{
		UpdateNoteFunc: func(context.Context, models.Note) error { return errors.New("no rows") },
	}
	pub := &recordingPublisher{}
	svc := service.NewNoteService(repo, pub)

	if err := svc.Update(context.Background(), "intruder", "n1", "A", "B", nil); err == nil {
		t.Fatal("expected error updating a foreign note")
	}
	if pub.calls != 0 {
		t.Errorf("expected no publish after failed update, got %d", pub.calls)
	}
}

func TestDelete_Publishes(t *testing.T) {
	repo := &mockNoteRepo{
		DeleteNoteFunc: func(_ context.Context, userID, id string) error {
			if userID != "u1" || id != "n1" {
				t.Errorf("delete called with (%q, %q)", userID, id)
			}
			return nil
		},
		NotesByUserFunc: func(context.Context, string) ([]models.Note, error) {
			return []models.Note{}, nil
		},
	}
	pub := &recordingPublisher{}
	svc := service.NewNoteService(repo, pub)

	if err := svc.Delete(context.Background(), "u1", "n1"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if pub.calls != 1 {
		t.Errorf("expected one publish, got %d", pub.calls)
	}
	if len(pub.notes) != 0 {
		t.Errorf("expected empty snapshot after delete, got %+v", pub.notes)
	}
}

func TestPublish_SnapshotFetchFailureIsNotFatal(t *testing.T) {
	created := false
	repo := &mockNoteRepo{
		CreateNoteFunc: func(context.Context, models.Note) error {
			created = true
			return nil
		},
		NotesByUserFunc: func(context.Context, string) ([]models.Note, error) {
			return nil, errors.New("snapshot fetch failed")
		},
	}
	pub := &recordingPublisher{}
	svc := service.NewNoteService(repo, pub)

	if _, err := svc.Create(context.Background(), "u1", "A", "B", nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if !created {
		t.Error("expected create to reach the repository")
	}
	if pub.calls != 0 {
		t.Errorf("expected publish to be skipped, got %d", pub.calls)
	}
}

func TestList_Delegates(t *testing.T) {
	want := []models.Note{
		{ID: "n1", Title: "A", Content: "B", UserID: "u1", CreatedAt: time.Now(), UpdatedAt: time.Now()},
	}
	repo := &mockNoteRepo{
		NotesByUserFunc: func(_ context.Context, userID string) ([]models.Note, error) {
			if userID != "u1" {
				t.Errorf("list called with %q", userID)
			}
			return want, nil
		},
	}
	svc := service.NewNoteService(repo, nil)

	got, err := svc.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 1 || got[0].ID != "n1" {
		t.Errorf("List = %+v; want %+v", got, want)
	}
}
