package models

import "time"

type Task struct {
	ID          string    `json:"id"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	OwnerID     string    `json:"owner"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TaskSortField is a column tasks may be ordered by.
type TaskSortField string

const (
	TaskSortCreatedAt   TaskSortField = "created_at"
	TaskSortUpdatedAt   TaskSortField = "updated_at"
	TaskSortDescription TaskSortField = "description"
	TaskSortCompleted   TaskSortField = "completed"
)

// TaskQuery narrows a task listing. The owner is always passed separately.
type TaskQuery struct {
	Completed *bool
	Limit     int
	Offset    int
	SortBy    TaskSortField
	Desc      bool
}
