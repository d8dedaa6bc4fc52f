package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/avolkov/notehub/internal/models"
	"github.com/lib/pq"
)

// PostgresNoteRepository implements note persistence against a PostgreSQL database.
type PostgresNoteRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresNoteRepository creates a new PostgresNoteRepository using the
// provided *sql.DB. db must be a valid connection to a PostgreSQL instance.
func NewPostgresNoteRepository(db *sql.DB) *PostgresNoteRepository {
	return &PostgresNoteRepository{DB: db}
}

// NotesByUser fetches all notes owned by the specified user. No ordering is
// imposed; subscribers receive whatever order the store returns.
func (s *PostgresNoteRepository) NotesByUser(ctx context.Context, userID string) ([]models.Note, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, title, content, tags, user_id, created_at, updated_at FROM notes WHERE user_id = $1
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("NotesByUser: %w", err)
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		var n models.Note
		if err := rows.Scan(&n.ID, &n.Title, &n.Content, pq.Array(&n.Tags), &n.UserID, &n.CreatedAt, &n.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		notes = append(notes, n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows: %w", err)
	}
	return notes, nil
}

// CreateNote inserts a fully populated note.
func (s *PostgresNoteRepository) CreateNote(ctx context.Context, note models.Note) error {
	_, err := s.DB.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, title, content, tags, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, note.ID, note.UserID, note.Title, note.Content, pq.Array(note.Tags), note.CreatedAt, note.UpdatedAt)
	if err != nil {
		return fmt.Errorf("CreateNote: %w", err)
	}
	return nil
}

// UpdateNote overwrites title, content, tags and updated_at of the user's
// note. created_at and user_id are never touched. Returns sql.ErrNoRows when
// the note does not exist or belongs to another user.
func (s *PostgresNoteRepository) UpdateNote(ctx context.Context, note models.Note) error {
	res, err := s.DB.ExecContext(ctx, `
		UPDATE notes SET title = $1, content = $2, tags = $3, updated_at = $4
		WHERE id = $5 AND user_id = $6
	`, note.Title, note.Content, pq.Array(note.Tags), note.UpdatedAt, note.ID, note.UserID)
	if err != nil {
		return fmt.Errorf("UpdateNote: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("UpdateNote rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteNote removes the user's note permanently. Returns sql.ErrNoRows when
// the note does not exist or belongs to another user.
func (s *PostgresNoteRepository) DeleteNote(ctx context.Context, userID, id string) error {
	res, err := s.DB.ExecContext(ctx, `
		DELETE FROM notes WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("DeleteNote: %w", err)
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("DeleteNote rows: %w", err)
	}
	if rows == 0 {
		return sql.ErrNoRows
	}
	return nil
}
