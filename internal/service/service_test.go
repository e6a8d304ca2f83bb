package service_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/crypto/bcrypt"

	"go-gin-taskhub/internal/core/auth"
	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/repo/memory"
	"go-gin-taskhub/internal/service"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// countingHasher records how many digests were checked.
type countingHasher struct {
	auth.PasswordHasher
	mu       sync.Mutex
	verifies int
}

func (h *countingHasher) Verify(pw, hash string) (bool, error) {
	h.mu.Lock()
	h.verifies++
	h.mu.Unlock()
	return h.PasswordHasher.Verify(pw, hash)
}

type env struct {
	ctx    context.Context
	clock  *clock
	hasher *countingHasher
	jwt    *auth.JWTer
	users  *service.UserService
	tasks  *service.TaskService
	auth   *service.AuthService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	clk := &clock{t: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	h := &countingHasher{PasswordHasher: auth.NewBcryptHasher(bcrypt.MinCost)}
	j := &auth.JWTer{Secret: []byte("test-secret"), Issuer: "taskhub", Now: clk.Now}
	users := service.NewUserService(store.Users(), h)
	a, err := service.NewAuthService(users, h, j, nil)
	require.NoError(t, err)
	return &env{
		ctx:    context.Background(),
		clock:  clk,
		hasher: h,
		jwt:    j,
		users:  users,
		tasks:  service.NewTaskService(store.Tasks(), store.Users(), nil).WithClock(clk.Now),
		auth:   a,
	}
}

func (e *env) user(t *testing.T, name string, role domain.Role) *domain.User {
	t.Helper()
	u, err := e.users.Create(e.ctx, domain.User{
		Name:  name,
		Email: fmt.Sprintf("%s@example.com", name),
		Role:  role,
	}, "pw-"+name)
	require.NoError(t, err)
	return u
}

func (e *env) task(t *testing.T, title string, assignee uint) *domain.Task {
	t.Helper()
	tk, err := e.tasks.Create(e.ctx, domain.Task{Title: title, AssignedUserID: assignee})
	require.NoError(t, err)
	return tk
}
