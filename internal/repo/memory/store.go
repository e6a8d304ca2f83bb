// Package memory is an in-process store honoring the same constraints as the SQL schema:
// unique email, and tasks may only reference existing users.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go-gin-taskhub/internal/domain"
)

type Store struct {
	mu     sync.RWMutex
	now    func() time.Time
	users  map[uint]domain.User
	tasks  map[uint]domain.Task
	nextUK uint
	nextTK uint
}

func NewStore() *Store {
	return &Store{
		now:   time.Now,
		users: make(map[uint]domain.User),
		tasks: make(map[uint]domain.Task),
	}
}

func (s *Store) Users() *UserRepo { return &UserRepo{s: s} }
func (s *Store) Tasks() *TaskRepo { return &TaskRepo{s: s} }

func (s *Store) emailTaken(email string, except uint) bool {
	for id, u := range s.users {
		if id != except && u.Email == email {
			return true
		}
	}
	return false
}

func (s *Store) withName(t domain.Task) domain.Task {
	if u, ok := s.users[t.AssignedUserID]; ok {
		t.AssignedUserName = u.Name
	}
	return t
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}

func sortedKeys[V any](m map[uint]V) []uint {
	keys := make([]uint, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

type UserRepo struct{ s *Store }

var _ domain.UserRepository = (*UserRepo)(nil)

func (r *UserRepo) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.emailTaken(u.Email, 0) {
		return domain.DuplicateEmail(u.Email)
	}
	r.s.nextUK++
	now := r.s.now().UTC()
	u.ID = r.s.nextUK
	u.CreatedAt, u.UpdatedAt = now, now
	r.s.users[u.ID] = *u
	return nil
}

func (r *UserRepo) FindByID(_ context.Context, id uint) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, domain.NotFound("user", id)
	}
	return &u, nil
}

func (r *UserRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, nil
}

func (r *UserRepo) Exists(_ context.Context, id uint) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.users[id]
	return ok, nil
}

func (r *UserRepo) ExistsWithRole(_ context.Context, role domain.Role) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Role == role {
			return true, nil
		}
	}
	return false, nil
}

func (r *UserRepo) List(_ context.Context) ([]domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.User, 0, len(r.s.users))
	for _, id := range sortedKeys(r.s.users) {
		out = append(out, r.s.users[id])
	}
	return out, nil
}

func (r *UserRepo) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.users)), nil
}

func (r *UserRepo) Update(_ context.Context, id uint, p domain.UserPatch) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.users[id]
	if !ok {
		return domain.NotFound("user", id)
	}
	if r.s.emailTaken(p.Email, id) {
		return domain.DuplicateEmail(p.Email)
	}
	u.Name, u.Email, u.Role = p.Name, p.Email, p.Role
	u.UpdatedAt = r.s.now().UTC()
	r.s.users[id] = u
	return nil
}

func (r *UserRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[id]; !ok {
		return nil
	}
	for _, t := range r.s.tasks {
		if t.AssignedUserID == id {
			return domain.ReferentialConflict("user", id)
		}
	}
	delete(r.s.users, id)
	return nil
}

type TaskRepo struct{ s *Store }

var _ domain.TaskRepository = (*TaskRepo)(nil)

func (r *TaskRepo) Create(_ context.Context, t *domain.Task) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.users[t.AssignedUserID]; !ok {
		return domain.InvalidAssignee(t.AssignedUserID)
	}
	r.s.nextTK++
	t.ID = r.s.nextTK
	stored := *t
	stored.DueDate = cloneTime(t.DueDate)
	stored.AssignedUserName = ""
	r.s.tasks[t.ID] = stored
	*t = r.s.withName(stored)
	return nil
}

func (r *TaskRepo) FindByID(_ context.Context, id uint) (*domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return nil, domain.NotFound("task", id)
	}
	t = r.s.withName(t)
	return &t, nil
}

func (r *TaskRepo) List(_ context.Context, f domain.TaskFilter) ([]domain.Task, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]domain.Task, 0)
	for _, id := range sortedKeys(r.s.tasks) {
		t := r.s.tasks[id]
		if f.Match(&t) {
			out = append(out, r.s.withName(t))
		}
	}
	return out, nil
}

func (r *TaskRepo) Count(_ context.Context, f domain.TaskFilter) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var n int64
	for _, t := range r.s.tasks {
		if f.Match(&t) {
			n++
		}
	}
	return n, nil
}

func (r *TaskRepo) mutate(id uint, fn func(*domain.Task) error) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	t, ok := r.s.tasks[id]
	if !ok {
		return domain.NotFound("task", id)
	}
	if err := fn(&t); err != nil {
		return err
	}
	r.s.tasks[id] = t
	return nil
}

func (r *TaskRepo) Update(_ context.Context, id uint, in *domain.Task) error {
	return r.mutate(id, func(t *domain.Task) error {
		if _, ok := r.s.users[in.AssignedUserID]; !ok {
			return domain.InvalidAssignee(in.AssignedUserID)
		}
		t.Title = in.Title
		t.Description = in.Description
		t.DueDate = cloneTime(in.DueDate)
		t.Status = in.Status
		t.AssignedUserID = in.AssignedUserID
		return nil
	})
}

func (r *TaskRepo) UpdateStatus(_ context.Context, id uint, s domain.TaskStatus) error {
	return r.mutate(id, func(t *domain.Task) error {
		t.Status = s
		return nil
	})
}

func (r *TaskRepo) UpdateAssignee(_ context.Context, id, userID uint) error {
	return r.mutate(id, func(t *domain.Task) error {
		if _, ok := r.s.users[userID]; !ok {
			return domain.InvalidAssignee(userID)
		}
		t.AssignedUserID = userID
		return nil
	})
}

func (r *TaskRepo) Delete(_ context.Context, id uint) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	delete(r.s.tasks, id)
	return nil
}
