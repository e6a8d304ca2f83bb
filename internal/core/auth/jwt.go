package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"go-gin-taskhub/internal/domain"
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 2 * time.Hour

type Claims struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// UserID decodes the subject claim.
func (c *Claims) UserID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, domain.InvalidToken(errors.New("subject is not a user id"))
	}
	return uint(id), nil
}

func (c *Claims) Caller() (domain.Caller, error) {
	id, err := c.UserID()
	if err != nil {
		return domain.Caller{}, err
	}
	if !c.Role.Valid() {
		return domain.Caller{}, domain.InvalidToken(errors.New("unknown role claim"))
	}
	return domain.Caller{UserID: id, Role: c.Role}, nil
}

type Token struct {
	Value     string    `json:"token"`
	IssuedAt  time.Time `json:"issuedAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// JWTer issues and verifies HS512 session tokens.
type JWTer struct {
	Secret []byte
	Issuer string
	TTL    time.Duration
	Now    func() time.Time
}

func (j *JWTer) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

func (j *JWTer) ttl() time.Duration {
	if j.TTL > 0 {
		return j.TTL
	}
	return DefaultTTL
}

func (j *JWTer) Issue(u *domain.User) (Token, error) {
	now := j.now().UTC()
	exp := now.Add(j.ttl())
	claims := Claims{
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatUint(uint64(u.ID), 10),
			Issuer:    j.Issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS512, claims).SignedString(j.Secret)
	if err != nil {
		return Token{}, err
	}
	return Token{Value: s, IssuedAt: now, ExpiresAt: exp}, nil
}

// Parse verifies signature, algorithm, issuer and expiry before exposing any claim.
func (j *JWTer) Parse(tokenStr string) (*Claims, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS512.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(j.now),
	}
	if j.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(j.Issuer))
	}
	t, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return j.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, domain.ExpiredToken(err)
		}
		return nil, domain.InvalidToken(err)
	}
	c, ok := t.Claims.(*Claims)
	if !ok || !t.Valid {
		return nil, domain.InvalidToken(nil)
	}
	return c, nil
}
