package repo

import (
	"context"
	"errors"

	"github.com/samber/oops"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/feature/task"
	"go-gin-taskhub/internal/feature/user"
)

type UserRepo struct{ db *gorm.DB }

var _ domain.UserRepository = (*UserRepo)(nil)

func NewUserRepo(db *gorm.DB) *UserRepo { return &UserRepo{db: db} }

func (r *UserRepo) Create(ctx context.Context, u *domain.User) error {
	m := user.FromDomain(u)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		if isDupKey(err) {
			return domain.DuplicateEmail(u.Email)
		}
		return oops.In("user_repo").With("operation", "create").Wrap(err)
	}
	*u = *m.ToDomain()
	return nil
}

func (r *UserRepo) FindByID(ctx context.Context, id uint) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.NotFound("user", id)
	}
	if err != nil {
		return nil, oops.In("user_repo").With("operation", "find by id").Wrap(err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var m user.UserModel
	err := r.db.WithContext(ctx).First(&m, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, oops.In("user_repo").With("operation", "find by email").Wrap(err)
	}
	return m.ToDomain(), nil
}

func (r *UserRepo) Exists(ctx context.Context, id uint) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, oops.In("user_repo").With("operation", "exists").Wrap(err)
	}
	return n > 0, nil
}

func (r *UserRepo) ExistsWithRole(ctx context.Context, role domain.Role) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&user.UserModel{}).Where("role = ?", string(role)).Count(&n).Error; err != nil {
		return false, oops.In("user_repo").With("operation", "exists with role").Wrap(err)
	}
	return n > 0, nil
}

func (r *UserRepo) List(ctx context.Context) ([]domain.User, error) {
	var ms []user.UserModel
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&ms).Error; err != nil {
		return nil, oops.In("user_repo").With("operation", "list").Wrap(err)
	}
	out := make([]domain.User, 0, len(ms))
	for i := range ms {
		out = append(out, *ms[i].ToDomain())
	}
	return out, nil
}

func (r *UserRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&user.UserModel{}).Count(&n).Error; err != nil {
		return 0, oops.In("user_repo").With("operation", "count").Wrap(err)
	}
	return n, nil
}

func (r *UserRepo) Update(ctx context.Context, id uint, p domain.UserPatch) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m user.UserModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.NotFound("user", id)
		}
		if err != nil {
			return err
		}
		return tx.Model(&m).Updates(map[string]any{
			"name":  p.Name,
			"email": p.Email,
			"role":  string(p.Role),
		}).Error
	})
	switch {
	case err == nil:
		return nil
	case domain.ErrorCode(err) != "":
		return err
	case isDupKey(err):
		return domain.DuplicateEmail(p.Email)
	default:
		return oops.In("user_repo").With("operation", "update").With("user_id", id).Wrap(err)
	}
}

func (r *UserRepo) Delete(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var refs int64
		if err := tx.Model(&task.TaskModel{}).Where("assigned_user_id = ?", id).Count(&refs).Error; err != nil {
			return err
		}
		if refs > 0 {
			return domain.ReferentialConflict("user", id)
		}
		return tx.Where("id = ?", id).Delete(&user.UserModel{}).Error
	})
	switch {
	case err == nil:
		return nil
	case domain.ErrorCode(err) != "":
		return err
	case isForeignKey(err):
		return domain.ReferentialConflict("user", id)
	default:
		return oops.In("user_repo").With("operation", "delete").With("user_id", id).Wrap(err)
	}
}
