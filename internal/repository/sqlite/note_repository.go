package sqlite

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Masterminds/squirrel"
	"github.com/vytor/studybook/internal/logger"
	"github.com/vytor/studybook/internal/models"
	"github.com/vytor/studybook/internal/repository"
)

var noteColumns = []string{"id", "notebook_id", "user_id", "title", "content", "source_type", "created_at", "updated_at"}

type noteRepository struct {
	db *sql.DB
}

// NewNoteRepository creates a new NoteRepository implementation
func NewNoteRepository(db *sql.DB) repository.NoteRepository {
	return &noteRepository{db: db}
}

func scanNote(row rowScanner) (models.Note, error) {
	var n models.Note
	err := row.Scan(&n.ID, &n.NotebookID, &n.UserID, &n.Title, &n.Content, &n.SourceType, &n.CreatedAt, &n.UpdatedAt)
	return n, err
}

func (r *noteRepository) Insert(ctx context.Context, n models.Note) (models.Note, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	if n.ID == "" {
		n.ID = newID()
	}
	if n.SourceType == "" {
		n.SourceType = models.NoteSourceUser
	}
	n.CreatedAt = now()
	n.UpdatedAt = n.CreatedAt
	log.Debug("inserting note: id=%s, notebook_id=%s", n.ID, n.NotebookID)

	query, args, err := sqlBuilder.Insert("notes").
		Columns(noteColumns...).
		Values(n.ID, n.NotebookID, n.UserID, n.Title, n.Content, n.SourceType, n.CreatedAt, n.UpdatedAt).
		ToSql()
	if err != nil {
		return models.Note{}, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert note: %v", err)
		return models.Note{}, err
	}
	return n, nil
}

func (r *noteRepository) Get(ctx context.Context, id string) (*models.Note, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")

	query, args, err := sqlBuilder.Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	n, err := scanNote(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("note not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get note: %v", err)
		return nil, err
	}
	return &n, nil
}

// ListByNotebook returns a notebook's notes, most recently edited first.
func (r *noteRepository) ListByNotebook(ctx context.Context, notebookID string) ([]models.Note, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")

	query, args, err := sqlBuilder.Select(noteColumns...).
		From("notes").
		Where(squirrel.Eq{"notebook_id": notebookID}).
		OrderBy("updated_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query notes: %v", err)
		return nil, err
	}
	defer rows.Close()

	var notes []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			log.Error("failed to scan note row: %v", err)
			return nil, err
		}
		notes = append(notes, n)
	}
	log.Debug("found %d notes for notebook %s", len(notes), notebookID)
	return notes, rows.Err()
}

func (r *noteRepository) Update(ctx context.Context, id, title, content string) (*models.Note, error) {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("updating note: id=%s", id)

	query, args, err := sqlBuilder.Update("notes").
		Set("title", title).
		Set("content", content).
		Set("updated_at", now()).
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update note: %v", err)
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *noteRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("note_repo")
	log.Debug("deleting note: id=%s", id)

	query, args, err := sqlBuilder.Delete("notes").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete note: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *noteRepository) CountForNotebook(ctx context.Context, notebookID string) (int, error) {
	query, args, err := sqlBuilder.Select("COUNT(*)").
		From("notes").
		Where(squirrel.Eq{"notebook_id": notebookID}).
		ToSql()
	if err != nil {
		return 0, err
	}

	var total int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total); err != nil {
		logger.FromContext(ctx).WithPrefix("note_repo").Error("failed to count notes: %v", err)
		return 0, err
	}
	return total, nil
}
