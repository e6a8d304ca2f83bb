package domain

import (
	"context"
	"time"
)

type Task struct {
	ID               uint       `json:"id"`
	Title            string     `json:"title" validate:"required,max=200"`
	Description      string     `json:"description,omitempty"`
	CreatedAt        time.Time  `json:"createdAt"`
	DueDate          *time.Time `json:"dueDate,omitempty"`
	Status           TaskStatus `json:"status"`
	AssignedUserID   uint       `json:"assignedUserId" validate:"required"`
	AssignedUserName string     `json:"assignedUserName,omitempty"`
}

// TaskFilter narrows task queries. A nil AssignedUserID matches every task.
type TaskFilter struct {
	AssignedUserID *uint
}

func (f TaskFilter) Match(t *Task) bool {
	return f.AssignedUserID == nil || t.AssignedUserID == *f.AssignedUserID
}

// TaskRepository is the persistence collaborator for tasks.
// Writes referencing a missing user fail with CodeInvalidAssignee.
type TaskRepository interface {
	Create(ctx context.Context, t *Task) error
	FindByID(ctx context.Context, id uint) (*Task, error)
	List(ctx context.Context, f TaskFilter) ([]Task, error)
	Count(ctx context.Context, f TaskFilter) (int64, error)
	// Update overwrites title, description, due date, status and assignee in one write.
	Update(ctx context.Context, id uint, t *Task) error
	UpdateStatus(ctx context.Context, id uint, s TaskStatus) error
	UpdateAssignee(ctx context.Context, id, userID uint) error
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id uint) error
}
