package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/pkg/errutil"
)

func TestRegisterThenLogin_RoleRoundTrips(t *testing.T) {
	e := newEnv(t)
	for _, role := range []domain.Role{domain.RoleAdmin, domain.RoleSupervisor, domain.RoleEmployee} {
		t.Run(string(role), func(t *testing.T) {
			email := "u-" + string(role) + "@example.com"
			u, err := e.auth.Register(e.ctx, domain.User{Name: "U " + string(role), Email: email, Role: role}, "s3cret!")
			require.NoError(t, err)
			assert.NotZero(t, u.ID)
			assert.NotEqual(t, "s3cret!", u.PasswordHash)

			tok, who, err := e.auth.Login(e.ctx, email, "s3cret!")
			require.NoError(t, err)
			assert.Equal(t, u.ID, who.ID)

			caller, claims, err := e.auth.VerifyToken(tok.Value)
			require.NoError(t, err)
			assert.Equal(t, role, caller.Role)
			assert.Equal(t, u.ID, caller.UserID)
			assert.Equal(t, email, claims.Email)
			assert.Equal(t, u.Name, claims.Name)
		})
	}
}

func TestRegister_DuplicateEmailLeavesCountUnchanged(t *testing.T) {
	e := newEnv(t)
	e.user(t, "ana", domain.RoleEmployee)
	before, err := e.users.Count(e.ctx)
	require.NoError(t, err)

	_, err = e.auth.Register(e.ctx, domain.User{Name: "Other", Email: "ana@example.com"}, "x")
	errutil.AssertErrorCode(t, err, domain.CodeDuplicateEmail)

	after, err := e.users.Count(e.ctx)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestLogin_FailuresAreIndistinguishable(t *testing.T) {
	e := newEnv(t)
	e.user(t, "ana", domain.RoleEmployee)

	e.hasher.verifies = 0
	_, _, wrongPw := e.auth.Login(e.ctx, "ana@example.com", "nope")
	_, _, noUser := e.auth.Login(e.ctx, "ghost@example.com", "nope")

	errutil.AssertErrorCode(t, wrongPw, domain.CodeInvalidCredentials)
	errutil.AssertErrorCode(t, noUser, domain.CodeInvalidCredentials)
	assert.Equal(t, wrongPw.Error(), noUser.Error())
	assert.Equal(t, 2, e.hasher.verifies, "unknown email still checks a digest")
}

func TestToken_LifetimeIsTwoHours(t *testing.T) {
	e := newEnv(t)
	e.user(t, "ana", domain.RoleSupervisor)
	tok, _, err := e.auth.Login(e.ctx, "ana@example.com", "pw-ana")
	require.NoError(t, err)
	assert.Equal(t, 2*time.Hour, tok.ExpiresAt.Sub(tok.IssuedAt))

	e.clock.Advance(time.Hour + 59*time.Minute)
	_, _, err = e.auth.VerifyToken(tok.Value)
	require.NoError(t, err)

	e.clock.Advance(2 * time.Minute)
	_, _, err = e.auth.VerifyToken(tok.Value)
	errutil.AssertErrorCode(t, err, domain.CodeExpiredToken)
}

func TestVerifyToken_Tampered(t *testing.T) {
	e := newEnv(t)
	e.user(t, "ana", domain.RoleEmployee)
	tok, _, err := e.auth.Login(e.ctx, "ana@example.com", "pw-ana")
	require.NoError(t, err)

	_, _, err = e.auth.VerifyToken(tok.Value + "x")
	errutil.AssertErrorCode(t, err, domain.CodeInvalidToken)
}
