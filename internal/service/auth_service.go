package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"go-gin-taskhub/internal/core/auth"
	"go-gin-taskhub/internal/domain"
)

// AuthService registers users and exchanges credentials for signed tokens.
type AuthService struct {
	users  *UserService
	hasher auth.PasswordHasher
	jwt    *auth.JWTer
	log    *zap.Logger
	// dummy is verified when the email is unknown so both failure paths cost one hash check.
	dummy string
}

func NewAuthService(users *UserService, hasher auth.PasswordHasher, jwt *auth.JWTer, log *zap.Logger) (*AuthService, error) {
	if log == nil {
		log = zap.NewNop()
	}
	dummy, err := hasher.Hash("dummy-password-for-timing")
	if err != nil {
		return nil, err
	}
	return &AuthService{users: users, hasher: hasher, jwt: jwt, log: log, dummy: dummy}, nil
}

func (s *AuthService) Register(ctx context.Context, candidate domain.User, rawPassword string) (*domain.User, error) {
	return s.users.Create(ctx, candidate, rawPassword)
}

// Login fails with the same INVALID_CREDENTIALS error for an unknown email and a wrong password.
func (s *AuthService) Login(ctx context.Context, email, rawPassword string) (auth.Token, *domain.User, error) {
	email = strings.TrimSpace(email)
	u, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		loginTotal.WithLabelValues("error").Inc()
		return auth.Token{}, nil, err
	}
	hash := s.dummy
	if u != nil {
		hash = u.PasswordHash
	}
	ok, verr := s.hasher.Verify(rawPassword, hash)
	if u == nil || !ok || verr != nil {
		if verr != nil {
			s.log.Warn("password digest unreadable", zap.Error(verr))
		}
		s.log.Debug("login rejected", zap.Bool("known_email", u != nil))
		loginTotal.WithLabelValues("rejected").Inc()
		return auth.Token{}, nil, domain.InvalidCredentials()
	}
	tok, err := s.jwt.Issue(u)
	if err != nil {
		loginTotal.WithLabelValues("error").Inc()
		return auth.Token{}, nil, err
	}
	loginTotal.WithLabelValues("ok").Inc()
	return tok, u, nil
}

// VerifyToken checks the signature and expiry before resolving the caller.
func (s *AuthService) VerifyToken(token string) (domain.Caller, *auth.Claims, error) {
	claims, err := s.jwt.Parse(token)
	if err != nil {
		return domain.Caller{}, nil, err
	}
	c, err := claims.Caller()
	if err != nil {
		return domain.Caller{}, nil, err
	}
	return c, claims, nil
}
