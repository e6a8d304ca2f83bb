package memory_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/repo/memory"
	"go-gin-taskhub/pkg/errutil"
)

func seedUser(t *testing.T, users domain.UserRepository, email string) *domain.User {
	t.Helper()
	u := &domain.User{Name: "u " + email, Email: email, PasswordHash: "h", Role: domain.RoleEmployee}
	require.NoError(t, users.Create(context.Background(), u))
	return u
}

func TestUserRepo_UniqueEmail(t *testing.T) {
	ctx := context.Background()
	users := memory.NewStore().Users()
	a := seedUser(t, users, "a@example.com")
	b := seedUser(t, users, "b@example.com")
	assert.NotEqual(t, a.ID, b.ID)

	err := users.Create(ctx, &domain.User{Name: "dup", Email: "a@example.com"})
	errutil.AssertErrorCode(t, err, domain.CodeDuplicateEmail)

	err = users.Update(ctx, b.ID, domain.UserPatch{Name: "b", Email: "a@example.com", Role: domain.RoleEmployee})
	errutil.AssertErrorCode(t, err, domain.CodeDuplicateEmail)

	// Case-sensitive as stored.
	seedUser(t, users, "A@example.com")

	n, err := users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
}

func TestUserRepo_ConcurrentDuplicateCreate(t *testing.T) {
	users := memory.NewStore().Users()
	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- users.Create(context.Background(), &domain.User{Name: "x", Email: "race@example.com"})
		}()
	}
	wg.Wait()
	close(errs)

	ok := 0
	for err := range errs {
		if err == nil {
			ok++
			continue
		}
		assert.True(t, domain.IsCode(err, domain.CodeDuplicateEmail))
	}
	assert.Equal(t, 1, ok)
}

func TestUserRepo_DeleteRestrictedByTasks(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	users, tasks := s.Users(), s.Tasks()
	u := seedUser(t, users, "owner@example.com")
	require.NoError(t, tasks.Create(ctx, &domain.Task{Title: "t", Status: domain.StatusPending, AssignedUserID: u.ID}))

	errutil.AssertErrorCode(t, users.Delete(ctx, u.ID), domain.CodeReferentialConflict)
	ok, err := users.Exists(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, users.Delete(ctx, 999))
}

func TestTaskRepo_AssigneeMustExist(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	tasks := s.Tasks()
	u := seedUser(t, s.Users(), "x@example.com")

	err := tasks.Create(ctx, &domain.Task{Title: "t", AssignedUserID: 77})
	errutil.AssertErrorCode(t, err, domain.CodeInvalidAssignee)
	n, _ := tasks.Count(ctx, domain.TaskFilter{})
	assert.Zero(t, n)

	task := &domain.Task{Title: "t", Status: domain.StatusPending, AssignedUserID: u.ID}
	require.NoError(t, tasks.Create(ctx, task))
	assert.Equal(t, u.Name, task.AssignedUserName)

	errutil.AssertErrorCode(t, tasks.UpdateAssignee(ctx, task.ID, 77), domain.CodeInvalidAssignee)
	errutil.AssertErrorCode(t, tasks.Update(ctx, task.ID, &domain.Task{Title: "t2", AssignedUserID: 77}), domain.CodeInvalidAssignee)

	got, err := tasks.FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "t", got.Title)
	assert.Equal(t, u.ID, got.AssignedUserID)
}

func TestTaskRepo_StoresCopies(t *testing.T) {
	ctx := context.Background()
	s := memory.NewStore()
	u := seedUser(t, s.Users(), "c@example.com")
	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	task := &domain.Task{Title: "t", DueDate: &due, AssignedUserID: u.ID}
	require.NoError(t, s.Tasks().Create(ctx, task))

	due = due.AddDate(1, 0, 0)
	got, err := s.Tasks().FindByID(ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, 2026, got.DueDate.Year())
}

func TestTaskRepo_NotFoundAndDelete(t *testing.T) {
	ctx := context.Background()
	tasks := memory.NewStore().Tasks()
	_, err := tasks.FindByID(ctx, 1)
	errutil.AssertErrorCode(t, err, domain.CodeNotFound)
	errutil.AssertErrorCode(t, tasks.UpdateStatus(ctx, 1, domain.StatusCompleted), domain.CodeNotFound)
	require.NoError(t, tasks.Delete(ctx, 1))
}
