package domain

import (
	"context"
	"time"
)

type User struct {
	ID           uint      `json:"id"`
	Name         string    `json:"name" validate:"required,max=100"`
	Email        string    `json:"email" validate:"required,max=100,email"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// UserPatch is the administrative update of a user; password and id are never touched.
type UserPatch struct {
	Name  string `validate:"required,max=100"`
	Email string `validate:"required,max=100,email"`
	Role  Role
}

// UserRepository is the persistence collaborator for users.
// Email uniqueness and the task reference restriction are enforced by the store itself.
type UserRepository interface {
	Create(ctx context.Context, u *User) error
	FindByID(ctx context.Context, id uint) (*User, error)
	// FindByEmail returns (nil, nil) when no user has the email.
	FindByEmail(ctx context.Context, email string) (*User, error)
	Exists(ctx context.Context, id uint) (bool, error)
	ExistsWithRole(ctx context.Context, role Role) (bool, error)
	List(ctx context.Context) ([]User, error)
	Count(ctx context.Context) (int64, error)
	Update(ctx context.Context, id uint, p UserPatch) error
	// Delete is a no-op for unknown ids.
	Delete(ctx context.Context, id uint) error
}
