package service

import (
	"context"

	"github.com/peterkingsmesn/jig-backend/internal/db"
	apperrors "github.com/peterkingsmesn/jig-backend/internal/errors"
	"github.com/peterkingsmesn/jig-backend/internal/model"
)

// GetUser returns an account view for the admin dashboard.
func (s *AuthService) GetUser(ctx context.Context, id string) (*model.AdminUserData, error) {
	user, err := s.users.GetUserByID(ctx, id)
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperrors.NotFound("user")
		}
		return nil, apperrors.Internal(err)
	}

	return &model.AdminUserData{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Role:      user.Role,
		IsActive:  user.IsActive,
		LastLogin: user.LastLogin,
		CreatedAt: user.CreatedAt,
	}, nil
}
