package repo

import (
	"context"
	"errors"

	"github.com/samber/oops"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/feature/task"
)

type TaskRepo struct{ db *gorm.DB }

var _ domain.TaskRepository = (*TaskRepo)(nil)

func NewTaskRepo(db *gorm.DB) *TaskRepo { return &TaskRepo{db: db} }

func scopeFilter(f domain.TaskFilter) func(*gorm.DB) *gorm.DB {
	return func(q *gorm.DB) *gorm.DB {
		if f.AssignedUserID != nil {
			q = q.Where("assigned_user_id = ?", *f.AssignedUserID)
		}
		return q
	}
}

func (r *TaskRepo) Create(ctx context.Context, t *domain.Task) error {
	m := task.FromDomain(t)
	db := r.db.WithContext(ctx)
	if err := db.Omit("AssignedUser").Create(m).Error; err != nil {
		if isForeignKey(err) {
			return domain.InvalidAssignee(t.AssignedUserID)
		}
		return oops.In("task_repo").With("operation", "create").Wrap(err)
	}
	if err := db.Preload("AssignedUser").First(m, "id = ?", m.ID).Error; err != nil {
		return oops.In("task_repo").With("operation", "reload").With("task_id", m.ID).Wrap(err)
	}
	*t = *m.ToDomain()
	return nil
}

func (r *TaskRepo) FindByID(ctx context.Context, id uint) (*domain.Task, error) {
	var m task.TaskModel
	err := r.db.WithContext(ctx).Preload("AssignedUser").First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("task", id)
	}
	if err != nil {
		return nil, oops.In("task_repo").With("operation", "find by id").Wrap(err)
	}
	return m.ToDomain(), nil
}

func (r *TaskRepo) List(ctx context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	var ms []task.TaskModel
	err := r.db.WithContext(ctx).
		Scopes(scopeFilter(f)).
		Preload("AssignedUser").
		Order("id ASC").
		Find(&ms).Error
	if err != nil {
		return nil, oops.In("task_repo").With("operation", "list").Wrap(err)
	}
	out := make([]domain.Task, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, nil
}

func (r *TaskRepo) Count(ctx context.Context, f domain.TaskFilter) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&task.TaskModel{}).Scopes(scopeFilter(f)).Count(&n).Error; err != nil {
		return 0, oops.In("task_repo").With("operation", "count").Wrap(err)
	}
	return n, nil
}

// mutate locks the row, then applies fields in the same transaction.
func (r *TaskRepo) mutate(ctx context.Context, id uint, fields map[string]any) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m task.TaskModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("task", id)
		}
		if err != nil {
			return err
		}
		return tx.Model(&task.TaskModel{}).Where("id = ?", id).Updates(fields).Error
	})
}

func (r *TaskRepo) Update(ctx context.Context, id uint, t *domain.Task) error {
	err := r.mutate(ctx, id, map[string]any{
		"title":            t.Title,
		"description":      t.Description,
		"due_date":         t.DueDate,
		"status":           string(t.Status),
		"assigned_user_id": t.AssignedUserID,
	})
	return r.translate(err, "update", id, t.AssignedUserID)
}

func (r *TaskRepo) UpdateStatus(ctx context.Context, id uint, s domain.TaskStatus) error {
	err := r.mutate(ctx, id, map[string]any{"status": string(s)})
	return r.translate(err, "update status", id, 0)
}

func (r *TaskRepo) UpdateAssignee(ctx context.Context, id, userID uint) error {
	err := r.mutate(ctx, id, map[string]any{"assigned_user_id": userID})
	return r.translate(err, "update assignee", id, userID)
}

func (r *TaskRepo) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Where("id = ?", id).Delete(&task.TaskModel{}).Error; err != nil {
		return oops.In("task_repo").With("operation", "delete").With("task_id", id).Wrap(err)
	}
	return nil
}

func (r *TaskRepo) translate(err error, op string, id, assignee uint) error {
	switch {
	case err == nil:
		return nil
	case domain.ErrorCode(err) != "":
		return err
	case isForeignKey(err):
		return domain.InvalidAssignee(assignee)
	default:
		return oops.In("task_repo").With("operation", op).With("task_id", id).Wrap(err)
	}
}
