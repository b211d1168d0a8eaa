// internal/services/task_service.go
package services

import (
	"context"
	"strings"
	"time"

	"tasktracker/internal/apperr"
	"tasktracker/internal/models"
	"tasktracker/internal/pagination"
	"tasktracker/internal/repositories"
)

const DefaultPageSize = 10

// ListOptions carries the raw list parameters as they arrive from the
// client. Normalize() turns them into a store predicate; bad values fall
// back to defaults instead of erroring.
type ListOptions struct {
	Page     int
	PageSize int
	Search   string
	Status   string
}

// Normalize clamps page/pageSize, trims the search text and drops a status
// literal outside the closed enumeration (treated as "all").
func (o ListOptions) Normalize() (page, pageSize int, filter func(ownerID int64) models.TaskFilter) {
	page = o.Page
	if page < 1 {
		page = 1
	}
	pageSize = o.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	search := strings.TrimSpace(o.Search)
	var status *models.TaskStatus
	if st := models.TaskStatus(o.Status); st.Valid() {
		status = &st
	}
	filter = func(ownerID int64) models.TaskFilter {
		return models.TaskFilter{OwnerID: ownerID, Status: status, Search: search}
	}
	return page, pageSize, filter
}

// TaskService defines the interface for task-related business logic: the
// owner-scoped query/statistics pipeline and the mutations that feed it.
type TaskService interface {
	List(ctx context.Context, ownerID int64, opts ListOptions) ([]models.Task, models.Pagination, error)
	Statistics(ctx context.Context, ownerID int64) (models.TaskStats, error)
	GetByID(ctx context.Context, id, ownerID int64) (*models.Task, error)
	Create(ctx context.Context, ownerID int64, title, description string) (*models.Task, error)
	Update(ctx context.Context, id, ownerID int64, patch models.TaskPatch) (*models.Task, error)
	Delete(ctx context.Context, id, ownerID int64) error
}

type taskService struct {
	repo repositories.TaskRepository
}

// NewTaskService creates a new instance of TaskService.
func NewTaskService(repo repositories.TaskRepository) TaskService {
	return &taskService{repo: repo}
}

// List resolves one page of the owner's tasks plus pagination metadata.
// The result is a pure function of the store contents and the inputs: the
// same predicate drives both the count and the page retrieval, and no
// further filtering happens downstream.
func (s *taskService) List(ctx context.Context, ownerID int64, opts ListOptions) ([]models.Task, models.Pagination, error) {
	page, pageSize, mkFilter := opts.Normalize()
	filter := mkFilter(ownerID)

	totalCount, err := s.repo.Count(ctx, filter)
	if err != nil {
		return nil, models.Pagination{}, err
	}

	offset := (page - 1) * pageSize
	tasks, err := s.repo.FindPage(ctx, filter, pageSize, offset)
	if err != nil {
		return nil, models.Pagination{}, err
	}
	if tasks == nil {
		tasks = []models.Task{}
	}

	totalPages := (totalCount + pageSize - 1) / pageSize
	meta := models.Pagination{
		CurrentPage: page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		PageSize:    pageSize,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
		Pages:       pagination.Window(page, totalPages),
	}
	return tasks, meta, nil
}

// Statistics is scoped by owner only; the active list filter never leaks in,
// so the buckets always describe the owner's entire task set.
func (s *taskService) Statistics(ctx context.Context, ownerID int64) (models.TaskStats, error) {
	return s.repo.CountByStatus(ctx, ownerID)
}

func (s *taskService) GetByID(ctx context.Context, id, ownerID int64) (*models.Task, error) {
	return s.repo.FindByID(ctx, id, ownerID)
}

func (s *taskService) Create(ctx context.Context, ownerID int64, title, description string) (*models.Task, error) {
	if strings.TrimSpace(title) == "" {
		return nil, apperr.Validation("title is required")
	}
	now := time.Now()
	task := &models.Task{
		OwnerID:     ownerID,
		Title:       title,
		Description: description,
		Status:      models.StatusPending, // caller input never decides the initial status
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.repo.Store(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// Update applies a partial patch. Validation happens before any write, so a
// rejected status leaves the record untouched.
func (s *taskService) Update(ctx context.Context, id, ownerID int64, patch models.TaskPatch) (*models.Task, error) {
	existing, err := s.repo.FindByID(ctx, id, ownerID)
	if err != nil {
		return nil, err
	}

	if patch.Status != nil {
		st := models.TaskStatus(*patch.Status)
		if !st.Valid() {
			return nil, apperr.Validation("Invalid task status")
		}
		existing.Status = st
	}
	if patch.Title != nil {
		if strings.TrimSpace(*patch.Title) == "" {
			return nil, apperr.Validation("title is required")
		}
		existing.Title = *patch.Title
	}
	if patch.Description != nil {
		existing.Description = *patch.Description
	}
	existing.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, existing); err != nil {
		return nil, err
	}
	return existing, nil
}

func (s *taskService) Delete(ctx context.Context, id, ownerID int64) error {
	return s.repo.Delete(ctx, id, ownerID)
}
