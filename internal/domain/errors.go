package domain

import (
	"fmt"

	"github.com/samber/oops"
)

// Error codes attached to every error the core surfaces.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeDuplicateEmail      = "DUPLICATE_EMAIL"
	CodeInvalidCredentials  = "INVALID_CREDENTIALS"
	CodeInvalidAssignee     = "INVALID_ASSIGNEE"
	CodeInvalidStatus       = "INVALID_STATUS"
	CodeReferentialConflict = "REFERENTIAL_CONFLICT"
	CodeExpiredToken        = "EXPIRED_TOKEN"
	CodeInvalidToken        = "INVALID_TOKEN"
	CodeForbidden           = "FORBIDDEN"
	CodeValidation          = "VALIDATION"
)

var codes = []string{
	CodeNotFound, CodeDuplicateEmail, CodeInvalidCredentials, CodeInvalidAssignee,
	CodeInvalidStatus, CodeReferentialConflict, CodeExpiredToken, CodeInvalidToken,
	CodeForbidden, CodeValidation,
}

// ErrorCode returns the domain code carried by err, or "" for foreign errors.
func ErrorCode(err error) string {
	o, ok := oops.AsOops(err)
	if !ok {
		return ""
	}
	for _, c := range codes {
		if o.Code() == c {
			return c
		}
	}
	return ""
}

func IsCode(err error, code string) bool { return err != nil && ErrorCode(err) == code }

func NotFound(entity string, id any) error {
	return oops.Code(CodeNotFound).
		With("entity", entity).
		With("id", id).
		Errorf("%s %v not found", entity, id)
}

func DuplicateEmail(email string) error {
	return oops.Code(CodeDuplicateEmail).With("email", email).Errorf("email already registered")
}

func InvalidCredentials() error {
	return oops.Code(CodeInvalidCredentials).Errorf("invalid email or password")
}

func InvalidAssignee(userID uint) error {
	return oops.Code(CodeInvalidAssignee).With("assigned_user_id", userID).Errorf("assigned user %d does not exist", userID)
}

func InvalidStatus(s string) error {
	return oops.Code(CodeInvalidStatus).With("status", s).Errorf("invalid task status %q", s)
}

func ReferentialConflict(entity string, id any) error {
	return oops.Code(CodeReferentialConflict).
		With("entity", entity).
		With("id", id).
		Errorf("%s %v is still referenced", entity, id)
}

func ExpiredToken(err error) error {
	return oops.Code(CodeExpiredToken).Wrapf(err, "token expired")
}

func InvalidToken(err error) error {
	if err == nil {
		return oops.Code(CodeInvalidToken).Errorf("invalid token")
	}
	return oops.Code(CodeInvalidToken).Wrapf(err, "invalid token")
}

func Forbidden(format string, args ...any) error {
	return oops.Code(CodeForbidden).Errorf(format, args...)
}

func Validation(format string, args ...any) error {
	return oops.Code(CodeValidation).Errorf("%s", fmt.Sprintf(format, args...))
}
