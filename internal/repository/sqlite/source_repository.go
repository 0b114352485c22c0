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

var sourceColumns = []string{
	"id", "notebook_id", "title", "type", "url", "content", "summary",
	"file_size", "processing_status", "created_at", "updated_at",
}

type sourceRepository struct {
	db *sql.DB
}

// NewSourceRepository creates a new SourceRepository implementation
func NewSourceRepository(db *sql.DB) repository.SourceRepository {
	return &sourceRepository{db: db}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSource(row rowScanner) (models.Source, error) {
	var s models.Source
	err := row.Scan(&s.ID, &s.NotebookID, &s.Title, &s.Type, &s.URL, &s.Content, &s.Summary,
		&s.FileSize, &s.ProcessingStatus, &s.CreatedAt, &s.UpdatedAt)
	return s, err
}

func (r *sourceRepository) Insert(ctx context.Context, s models.Source) (models.Source, error) {
	log := logger.FromContext(ctx).WithPrefix("source_repo")
	if s.ID == "" {
		s.ID = newID()
	}
	if s.ProcessingStatus == "" {
		s.ProcessingStatus = models.ProcessingPending
	}
	s.CreatedAt = now()
	s.UpdatedAt = s.CreatedAt
	log.Debug("inserting source: id=%s, notebook_id=%s, type=%s", s.ID, s.NotebookID, s.Type)

	query, args, err := sqlBuilder.Insert("sources").
		Columns(sourceColumns...).
		Values(s.ID, s.NotebookID, s.Title, s.Type, s.URL, s.Content, s.Summary,
			s.FileSize, s.ProcessingStatus, s.CreatedAt, s.UpdatedAt).
		ToSql()
	if err != nil {
		return models.Source{}, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert source: %v", err)
		return models.Source{}, err
	}
	return s, nil
}

func (r *sourceRepository) Get(ctx context.Context, id string) (*models.Source, error) {
	log := logger.FromContext(ctx).WithPrefix("source_repo")
	log.Debug("getting source: id=%s", id)

	query, args, err := sqlBuilder.Select(sourceColumns...).
		From("sources").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	s, err := scanSource(r.db.QueryRowContext(ctx, query, args...))
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("source not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get source: %v", err)
		return nil, err
	}
	return &s, nil
}

func (r *sourceRepository) List(ctx context.Context, filter models.SourceFilter) ([]models.Source, error) {
	log := logger.FromContext(ctx).WithPrefix("source_repo")
	log.Debug("listing sources: notebook_id=%s, type=%s, status=%s", filter.NotebookID, filter.Type, filter.Status)

	q := sqlBuilder.Select(sourceColumns...).From("sources")
	if filter.NotebookID != "" {
		q = q.Where(squirrel.Eq{"notebook_id": filter.NotebookID})
	}
	if filter.Type != "" {
		q = q.Where(squirrel.Eq{"type": filter.Type})
	}
	if filter.Status != "" {
		q = q.Where(squirrel.Eq{"processing_status": filter.Status})
	}
	query, args, err := q.OrderBy("created_at", "id").ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query sources: %v", err)
		return nil, err
	}
	defer rows.Close()

	var sources []models.Source
	for rows.Next() {
		s, err := scanSource(rows)
		if err != nil {
			log.Error("failed to scan source row: %v", err)
			return nil, err
		}
		sources = append(sources, s)
	}
	log.Debug("found %d sources", len(sources))
	return sources, rows.Err()
}

func (r *sourceRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.update(ctx, id, map[string]any{"processing_status": status})
}

func (r *sourceRepository) UpdateContent(ctx context.Context, id string, content, summary, status string) error {
	return r.update(ctx, id, map[string]any{
		"content":           content,
		"summary":           summary,
		"processing_status": status,
	})
}

func (r *sourceRepository) update(ctx context.Context, id string, set map[string]any) error {
	log := logger.FromContext(ctx).WithPrefix("source_repo")
	log.Debug("updating source: id=%s, columns=%d", id, len(set))

	q := sqlBuilder.Update("sources").SetMap(set).Set("updated_at", now()).Where(squirrel.Eq{"id": id})
	query, args, err := q.ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to update source: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sourceRepository) Delete(ctx context.Context, id string) error {
	log := logger.FromContext(ctx).WithPrefix("source_repo")
	log.Debug("deleting source: id=%s", id)

	query, args, err := sqlBuilder.Delete("sources").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to delete source: %v", err)
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *sourceRepository) CountForNotebook(ctx context.Context, notebookID string) (int, int, error) {
	log := logger.FromContext(ctx).WithPrefix("source_repo")

	query, args, err := sqlBuilder.Select(
		"COUNT(*)",
		"COALESCE(SUM(CASE WHEN processing_status = 'completed' THEN 1 ELSE 0 END), 0)",
	).From("sources").Where(squirrel.Eq{"notebook_id": notebookID}).ToSql()
	if err != nil {
		return 0, 0, err
	}

	var total, ready int
	if err := r.db.QueryRowContext(ctx, query, args...).Scan(&total, &ready); err != nil {
		log.Error("failed to count sources: %v", err)
		return 0, 0, err
	}
	return total, ready, nil
}
