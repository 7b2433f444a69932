package token

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/peterkingsmesn/jig-backend/internal/model"
)

// Claims is the identity payload embedded in both token categories.
// It is only ever built from a verified user record or a verified token,
// never from raw client input.
type Claims struct {
	Email string     `json:"email"`
	Role  model.Role `json:"role"`
	jwt.RegisteredClaims
}

// NewClaims builds a claims payload from an authenticated user record.
func NewClaims(user *model.User) Claims {
	return Claims{
		Email: user.Email,
		Role:  user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: user.ID,
		},
	}
}

// UserID returns the subject identifier.
func (c Claims) UserID() string {
	return c.Subject
}
