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

var notebookColumns = []string{"id", "user_id", "title", "description", "created_at", "updated_at"}

type notebookRepository struct {
	db *sql.DB
}

// NewNotebookRepository creates a new NotebookRepository implementation
func NewNotebookRepository(db *sql.DB) repository.NotebookRepository {
	return &notebookRepository{db: db}
}

func (r *notebookRepository) Insert(ctx context.Context, n models.Notebook) (models.Notebook, error) {
	log := logger.FromContext(ctx).WithPrefix("notebook_repo")
	if n.ID == "" {
		n.ID = newID()
	}
	n.CreatedAt = now()
	n.UpdatedAt = n.CreatedAt
	log.Debug("inserting notebook: id=%s, user_id=%s", n.ID, n.UserID)

	query, args, err := sqlBuilder.Insert("notebooks").
		Columns(notebookColumns...).
		Values(n.ID, n.UserID, n.Title, n.Description, n.CreatedAt, n.UpdatedAt).
		ToSql()
	if err != nil {
		return models.Notebook{}, err
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.Error("failed to insert notebook: %v", err)
		return models.Notebook{}, err
	}
	return n, nil
}

func (r *notebookRepository) Get(ctx context.Context, id string) (*models.Notebook, error) {
	log := logger.FromContext(ctx).WithPrefix("notebook_repo")
	log.Debug("getting notebook: id=%s", id)

	query, args, err := sqlBuilder.Select(notebookColumns...).
		From("notebooks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, err
	}

	var n models.Notebook
	err = r.db.QueryRowContext(ctx, query, args...).
		Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		log.Debug("notebook not found: id=%s", id)
		return nil, nil
	}
	if err != nil {
		log.Error("failed to get notebook: %v", err)
		return nil, err
	}
	return &n, nil
}

func (r *notebookRepository) ListByUser(ctx context.Context, userID string) ([]models.Notebook, error) {
	log := logger.FromContext(ctx).WithPrefix("notebook_repo")
	log.Debug("listing notebooks: user_id=%s", userID)

	query, args, err := sqlBuilder.Select(notebookColumns...).
		From("notebooks").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("updated_at DESC", "id").
		ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query notebooks: %v", err)
		return nil, err
	}
	defer rows.Close()

	var notebooks []models.Notebook
	for rows.Next() {
		var n models.Notebook
		if err := rows.Scan(&n.ID, &n.UserID, &n.Title, &n.Description, &n.CreatedAt, &n.UpdatedAt); err != nil {
			log.Error("failed to scan notebook row: %v", err)
			return nil, err
		}
		notebooks = append(notebooks, n)
	}
	log.Debug("found %d notebooks", len(notebooks))
	return notebooks, rows.Err()
}
