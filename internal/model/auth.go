package model

import "time"

// Role is the closed set of portal roles carried inside tokens.
type Role string

const (
	RoleUser       Role = "user"
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "super_admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// User is the persisted account record. The auth core treats it as read-only
// except for the last_login update on a successful login.
type User struct {
	ID           string
	Email        string
	Name         string
	Role         Role
	PasswordHash string
	IsActive     bool
	LastLogin    *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AuthenticatedUser is the caller identity materialized from a verified token.
type AuthenticatedUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// AdminUserData is the account view exposed to admin dashboard callers.
// The password hash is never serialized.
type AdminUserData struct {
	ID        string     `json:"id"`
	Email     string     `json:"email"`
	Name      string     `json:"name"`
	Role      Role       `json:"role"`
	IsActive  bool       `json:"isActive"`
	LastLogin *time.Time `json:"lastLogin"`
	CreatedAt time.Time  `json:"createdAt"`
}

// UserSummary is the user shape embedded in login responses.
type UserSummary struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	Role  Role   `json:"role"`
}

// LoginData is the payload of a successful login.
type LoginData struct {
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
	User         UserSummary `json:"user"`
	ExpiresIn    int64       `json:"expiresIn"`
}

// RefreshData is the payload of a successful token refresh.
type RefreshData struct {
	Token     string `json:"token"`
	ExpiresIn int64  `json:"expiresIn"`
}
