package service

import (
	"context"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"go-gin-taskhub/internal/core/auth"
	"go-gin-taskhub/internal/core/cache"
	"go-gin-taskhub/internal/domain"
)

// UserService is the user directory: validation and hashing around a UserRepository.
type UserService struct {
	repo     domain.UserRepository
	hasher   auth.PasswordHasher
	cache    *cache.Cache
	cacheTTL time.Duration
	log      *zap.Logger
}

type UserOption func(*UserService)

// WithCache reads users through c. Writes evict the cached entry.
func WithCache(c *cache.Cache, ttl time.Duration) UserOption {
	return func(s *UserService) {
		s.cache = c
		s.cacheTTL = ttl
	}
}

func WithUserLogger(l *zap.Logger) UserOption {
	return func(s *UserService) {
		if l != nil {
			s.log = l
		}
	}
}

func NewUserService(repo domain.UserRepository, hasher auth.PasswordHasher, opts ...UserOption) *UserService {
	s := &UserService{repo: repo, hasher: hasher, cacheTTL: time.Minute, log: zap.NewNop()}
	for _, o := range opts {
		o(s)
	}
	return s
}

func userKey(id uint) string { return "user:" + strconv.FormatUint(uint64(id), 10) }

// Create stores a new user with a hash of rawPassword. An empty role becomes Employee.
func (s *UserService) Create(ctx context.Context, candidate domain.User, rawPassword string) (*domain.User, error) {
	candidate.Name = strings.TrimSpace(candidate.Name)
	candidate.Email = strings.TrimSpace(candidate.Email)
	role, err := domain.ParseRole(string(candidate.Role))
	if err != nil {
		return nil, err
	}
	candidate.Role = role
	if err := domain.Validate(candidate); err != nil {
		return nil, err
	}
	hash, err := s.hasher.Hash(rawPassword)
	if err != nil {
		return nil, err
	}
	u := candidate
	u.ID = 0
	u.PasswordHash = hash
	if err := s.repo.Create(ctx, &u); err != nil {
		return nil, err
	}
	usersCreated.Inc()
	s.log.Info("user created", zap.Uint("user_id", u.ID), zap.String("role", string(u.Role)))
	return &u, nil
}

// FindByEmail returns (nil, nil) when nobody has the email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.repo.FindByEmail(ctx, email)
}

func (s *UserService) Get(ctx context.Context, id uint) (*domain.User, error) {
	return cache.GetOrLoadJSON(s.cache, ctx, userKey(id), s.cacheTTL, func(ctx context.Context) (*domain.User, error) {
		return s.repo.FindByID(ctx, id)
	})
}

func (s *UserService) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}

func (s *UserService) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx)
}

func (s *UserService) Exists(ctx context.Context, id uint) (bool, error) {
	return s.repo.Exists(ctx, id)
}

func (s *UserService) HasRole(ctx context.Context, role domain.Role) (bool, error) {
	return s.repo.ExistsWithRole(ctx, role)
}

// Update overwrites name, email and role. Password and id are never touched.
func (s *UserService) Update(ctx context.Context, id uint, p domain.UserPatch) error {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	if !p.Role.Valid() {
		return domain.Validation("unknown role %q", p.Role)
	}
	if err := domain.Validate(p); err != nil {
		return err
	}
	if err := s.repo.Update(ctx, id, p); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

// Delete is a no-op for unknown ids and fails with REFERENTIAL_CONFLICT while tasks reference the user.
func (s *UserService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.evict(ctx, id)
	return nil
}

func (s *UserService) evict(ctx context.Context, id uint) {
	if err := s.cache.Delete(ctx, userKey(id)); err != nil {
		s.log.Warn("cache evict failed", zap.Uint("user_id", id), zap.Error(err))
	}
}
