// internal/models/task.go
package models

import "time"

// TaskStatus defines the possible statuses for a task.
type TaskStatus string

const (
	StatusPending    TaskStatus = "pending"
	StatusInProgress TaskStatus = "in_progress"
	StatusDone       TaskStatus = "done"
)

// StatusAll is the filter literal meaning "no status filter". Never stored
// on a task.
const StatusAll = "all"

// Valid reports whether s is a member of the closed status enumeration.
func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

// Task represents the structure of a task in the system.
type Task struct {
	ID          int64      `json:"id"`
	OwnerID     int64      `json:"ownerId"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      TaskStatus `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// TaskFilter is the predicate applied to the task store: owner scope plus
// optional status and title search.
type TaskFilter struct {
	OwnerID int64
	Status  *TaskStatus
	Search  string
}

// TaskPatch carries a partial update; nil fields keep their prior value.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Pagination is the listing metadata returned alongside a page of tasks.
type Pagination struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int   `json:"totalCount"`
	PageSize    int   `json:"pageSize"`
	HasNextPage bool  `json:"hasNextPage"`
	HasPrevPage bool  `json:"hasPrevPage"`
	Pages       []int `json:"pages"`
}

// TaskStats is the status breakdown of an owner's whole task set.
type TaskStats struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"inProgress"`
	Done       int `json:"done"`
}
