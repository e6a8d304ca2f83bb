package service

import (
	"context"

	"go.uber.org/zap"

	"go-gin-taskhub/internal/domain"
)

type AdminSeed struct {
	Name     string
	Email    string
	Password string
}

// SeedAdmin creates the bootstrap administrator unless an Admin already exists.
// It reports whether a user was created.
func SeedAdmin(ctx context.Context, users *UserService, seed AdminSeed, log *zap.Logger) (bool, error) {
	if log == nil {
		log = zap.NewNop()
	}
	has, err := users.HasRole(ctx, domain.RoleAdmin)
	if err != nil {
		return false, err
	}
	if has {
		log.Debug("admin present, seeding skipped")
		return false, nil
	}
	u, err := users.Create(ctx, domain.User{Name: seed.Name, Email: seed.Email, Role: domain.RoleAdmin}, seed.Password)
	if err != nil {
		return false, err
	}
	log.Info("admin seeded", zap.Uint("user_id", u.ID), zap.String("email", u.Email))
	return true, nil
}
