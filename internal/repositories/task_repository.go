package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tasktracker/internal/apperr"
	"tasktracker/internal/models"
)

type TaskRepository interface {
	Store(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id, ownerID int64) (*models.Task, error)
	FindPage(ctx context.Context, filter models.TaskFilter, limit, offset int) ([]models.Task, error)
	Count(ctx context.Context, filter models.TaskFilter) (int, error)
	CountByStatus(ctx context.Context, ownerID int64) (models.TaskStats, error)
	Update(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id, ownerID int64) error
}

type taskRepository struct {
	db *sql.DB
}

func NewTaskRepository(db *sql.DB) TaskRepository {
	return &taskRepository{db: db}
}

func (r *taskRepository) Store(ctx context.Context, task *models.Task) error {
	query := `
		INSERT INTO tasks (owner_id, title, description, status, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING id, created_at, updated_at`
	return r.db.QueryRowContext(ctx, query,
		task.OwnerID, task.Title, task.Description, task.Status,
		task.CreatedAt, task.UpdatedAt,
	).Scan(&task.ID, &task.CreatedAt, &task.UpdatedAt)
}

func (r *taskRepository) FindByID(ctx context.Context, id, ownerID int64) (*models.Task, error) {
	query := `SELECT id, owner_id, title, description, status, created_at, updated_at
	FROM tasks WHERE id = $1 AND owner_id = $2`
	task := &models.Task{}
	err := r.db.QueryRowContext(ctx, query, id, ownerID).Scan(
		&task.ID, &task.OwnerID, &task.Title, &task.Description,
		&task.Status, &task.CreatedAt, &task.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return task, nil
}

// buildPredicate renders the filter into a WHERE clause with numbered args.
// Owner scoping is unconditional; status and search are optional.
func buildPredicate(filter models.TaskFilter) (string, []interface{}) {
	conditions := []string{"owner_id = $1"}
	args := []interface{}{filter.OwnerID}
	argID := 2

	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argID))
		args = append(args, *filter.Status)
		argID++
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf(`title ILIKE $%d ESCAPE '\'`, argID))
		args = append(args, "%"+escapeLike(filter.Search)+"%")
		argID++
	}
	return " WHERE " + strings.Join(conditions, " AND "), args
}

// escapeLike neutralizes LIKE metacharacters so the search term matches
// literally.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `%`, `\%`)
	s = strings.ReplaceAll(s, `_`, `\_`)
	return s
}

func (r *taskRepository) FindPage(ctx context.Context, filter models.TaskFilter, limit, offset int) ([]models.Task, error) {
	where, args := buildPredicate(filter)
	query := `SELECT id, owner_id, title, description, status, created_at, updated_at FROM tasks` +
		where +
		fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		var t models.Task
		if err := rows.Scan(
			&t.ID, &t.OwnerID, &t.Title, &t.Description,
			&t.Status, &t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Count(ctx context.Context, filter models.TaskFilter) (int, error) {
	where, args := buildPredicate(filter)
	var count int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM tasks`+where, args...).Scan(&count)
	return count, err
}

func (r *taskRepository) CountByStatus(ctx context.Context, ownerID int64) (models.TaskStats, error) {
	var stats models.TaskStats
	rows, err := r.db.QueryContext(ctx,
		`SELECT status, COUNT(*) FROM tasks WHERE owner_id = $1 GROUP BY status`, ownerID)
	if err != nil {
		return stats, err
	}
	defer rows.Close()

	for rows.Next() {
		var status models.TaskStatus
		var n int
		if err := rows.Scan(&status, &n); err != nil {
			return stats, err
		}
		switch status {
		case models.StatusPending:
			stats.Pending = n
		case models.StatusInProgress:
			stats.InProgress = n
		case models.StatusDone:
			stats.Done = n
		}
		stats.Total += n
	}
	return stats, rows.Err()
}

func (r *taskRepository) Update(ctx context.Context, task *models.Task) error {
	query := `
		UPDATE tasks SET title=$1, description=$2, status=$3, updated_at=$4
		WHERE id=$5 AND owner_id=$6`
	res, err := r.db.ExecContext(ctx, query,
		task.Title, task.Description, task.Status, task.UpdatedAt,
		task.ID, task.OwnerID,
	)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id, ownerID int64) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM tasks WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return apperr.ErrNotFound
	}
	return nil
}
