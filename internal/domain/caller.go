package domain

// Caller is the identity resolved from a verified token.
// Gated operations take it explicitly instead of reading request state.
type Caller struct {
	UserID uint
	Role   Role
}

func (c Caller) Owns(userID uint) bool { return c.UserID != 0 && c.UserID == userID }
