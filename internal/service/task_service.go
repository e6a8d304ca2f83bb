package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-gin-taskhub/internal/domain"
)

// TaskService is the task registry. Access checks happen before it is called;
// the only caller state it reads is the role filter for listing.
type TaskService struct {
	tasks domain.TaskRepository
	users domain.UserRepository
	now   func() time.Time
	log   *zap.Logger
}

func NewTaskService(tasks domain.TaskRepository, users domain.UserRepository, log *zap.Logger) *TaskService {
	if log == nil {
		log = zap.NewNop()
	}
	return &TaskService{tasks: tasks, users: users, now: time.Now, log: log}
}

// WithClock replaces the clock used for CreatedAt.
func (s *TaskService) WithClock(now func() time.Time) *TaskService {
	s.now = now
	return s
}

func normalize(t *domain.Task) error {
	t.Title = strings.TrimSpace(t.Title)
	st, err := domain.ParseTaskStatus(string(t.Status))
	if err != nil {
		return err
	}
	t.Status = st
	if t.DueDate != nil {
		d := t.DueDate.UTC()
		t.DueDate = &d
	}
	return domain.Validate(*t)
}

// Create persists candidate with a server-assigned id and CreatedAt. Status defaults to Pending.
func (s *TaskService) Create(ctx context.Context, candidate domain.Task) (*domain.Task, error) {
	t := candidate
	if err := normalize(&t); err != nil {
		return nil, err
	}
	ok, err := s.users.Exists(ctx, t.AssignedUserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.InvalidAssignee(t.AssignedUserID)
	}
	t.ID = 0
	t.AssignedUserName = ""
	t.CreatedAt = s.now().UTC().Truncate(time.Microsecond)
	err = s.tasks.Create(ctx, &t)
	observeWrite("create", err)
	if err != nil {
		return nil, err
	}
	tasksCreated.Inc()
	s.log.Debug("task created", zap.Uint("task_id", t.ID), zap.Uint("assigned_user_id", t.AssignedUserID))
	return &t, nil
}

func (s *TaskService) Get(ctx context.Context, id uint) (*domain.Task, error) {
	return s.tasks.FindByID(ctx, id)
}

// filterFor narrows Employees to their own tasks. Admin and Supervisor see everything.
func filterFor(c domain.Caller) (domain.TaskFilter, error) {
	switch c.Role {
	case domain.RoleEmployee:
		if c.UserID == 0 {
			return domain.TaskFilter{}, domain.Validation("requesting user id is required for role %s", c.Role)
		}
		uid := c.UserID
		return domain.TaskFilter{AssignedUserID: &uid}, nil
	case domain.RoleAdmin, domain.RoleSupervisor:
		return domain.TaskFilter{}, nil
	default:
		return domain.TaskFilter{}, domain.Forbidden("unknown role %q", c.Role)
	}
}

func (s *TaskService) ListForRole(ctx context.Context, c domain.Caller) ([]domain.Task, error) {
	f, err := filterFor(c)
	if err != nil {
		return nil, err
	}
	return s.tasks.List(ctx, f)
}

func (s *TaskService) CountForRole(ctx context.Context, c domain.Caller) (int64, error) {
	f, err := filterFor(c)
	if err != nil {
		return 0, err
	}
	return s.tasks.Count(ctx, f)
}

// Update replaces title, description, due date, status and assignee in one write.
func (s *TaskService) Update(ctx context.Context, id uint, replacement domain.Task) error {
	t := replacement
	if err := normalize(&t); err != nil {
		return err
	}
	err := s.tasks.Update(ctx, id, &t)
	observeWrite("update", err)
	return err
}

// UpdateStatus rejects unrecognized values before the store is touched.
func (s *TaskService) UpdateStatus(ctx context.Context, id uint, status domain.TaskStatus) error {
	if !status.Valid() {
		return domain.InvalidStatus(string(status))
	}
	err := s.tasks.UpdateStatus(ctx, id, status)
	observeWrite("update_status", err)
	return err
}

// Reassign moves the task to userID, which must exist.
func (s *TaskService) Reassign(ctx context.Context, id, userID uint) error {
	if userID == 0 {
		return domain.InvalidAssignee(userID)
	}
	err := s.tasks.UpdateAssignee(ctx, id, userID)
	observeWrite("reassign", err)
	return err
}

// Delete is a no-op for unknown ids.
func (s *TaskService) Delete(ctx context.Context, id uint) error {
	err := s.tasks.Delete(ctx, id)
	observeWrite("delete", err)
	return err
}
