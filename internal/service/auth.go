package service

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/peterkingsmesn/jig-backend/internal/db"
	apperrors "github.com/peterkingsmesn/jig-backend/internal/errors"
	"github.com/peterkingsmesn/jig-backend/internal/model"
	"github.com/peterkingsmesn/jig-backend/internal/password"
	"github.com/peterkingsmesn/jig-backend/internal/ratelimit"
	"github.com/peterkingsmesn/jig-backend/internal/token"
)

const minPasswordLength = 6

// limiterDownRetryAfter is the retry hint handed out when the rate-limit
// backend itself is unreachable. Login fails closed in that case.
const limiterDownRetryAfter = time.Minute

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// UserStore is the persistence surface the auth core consumes. The core
// treats user records as read-only except for the last_login update.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	UpdateLastLogin(ctx context.Context, userID string, at time.Time) error
}

// ClientContext identifies the caller for rate limiting and audit logging.
type ClientContext struct {
	IP        string
	UserAgent string
}

type AuthService struct {
	users     UserStore
	hasher    password.Hasher
	codec     *token.Codec
	limiter   ratelimit.Limiter
	blacklist TokenBlacklist
	log       zerolog.Logger
}

func NewAuthService(
	users UserStore,
	hasher password.Hasher,
	codec *token.Codec,
	limiter ratelimit.Limiter,
	blacklist TokenBlacklist,
	log zerolog.Logger,
) *AuthService {
	return &AuthService{
		users:     users,
		hasher:    hasher,
		codec:     codec,
		limiter:   limiter,
		blacklist: blacklist,
		log:       log,
	}
}

// Login runs the credential login flow. The gates run strictly in order and
// the first failure wins: rate limit, input shape, user lookup, active check,
// password check. Only after every gate passes are both tokens issued.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest, client ClientContext) (*model.LoginData, error) {
	result, err := s.limiter.Check(ctx, client.IP)
	if err != nil {
		// An unreachable limiter denies login rather than bypassing it.
		s.log.Error().Err(err).Str("ip", client.IP).Msg("rate limiter unavailable, denying login")
		return nil, apperrors.RateLimited(limiterDownRetryAfter).WithCause(err)
	}
	if !result.Allowed {
		s.logAttempt(req.Email, client, false, "rate_limited")
		return nil, apperrors.RateLimited(result.RetryAfter)
	}

	if fields := validateLogin(req); len(fields) > 0 {
		return nil, apperrors.Validation(fields)
	}

	user, err := s.users.GetUserByEmail(ctx, req.Email)
	if err != nil {
		if db.IsNoRows(err) {
			s.logAttempt(req.Email, client, false, "unknown_email")
			return nil, apperrors.InvalidCredentials()
		}
		return nil, apperrors.Internal(err)
	}

	if !user.IsActive {
		s.logAttempt(req.Email, client, false, "deactivated")
		return nil, apperrors.AccountDeactivated()
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		s.logAttempt(req.Email, client, false, "password_mismatch")
		return nil, apperrors.InvalidCredentials()
	}

	claims := token.NewClaims(user)
	accessToken, err := s.codec.IssueAccess(claims)
	if err != nil {
		return nil, issuanceError(err)
	}
	refreshToken, err := s.codec.IssueRefresh(claims)
	if err != nil {
		return nil, issuanceError(err)
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, time.Now()); err != nil {
		// Tokens are already issued; a failed timestamp update is not fatal.
		s.log.Warn().Err(err).Str("user_id", user.ID).Msg("failed to update last_login")
	}
	s.logAttempt(req.Email, client, true, "")

	return &model.LoginData{
		Token:        accessToken,
		RefreshToken: refreshToken,
		User: model.UserSummary{
			ID:    user.ID,
			Email: user.Email,
			Name:  user.Name,
			Role:  user.Role,
		},
		ExpiresIn: int64(token.AccessTokenTTL.Seconds()),
	}, nil
}

// Refresh mints a new access token from a valid, non-revoked refresh token.
// The user record is re-fetched so a deactivation since issuance is honored
// at the refresh boundary.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.RefreshData, error) {
	if strings.TrimSpace(refreshToken) == "" {
		return nil, apperrors.InvalidRefreshToken()
	}

	revoked, err := s.blacklist.IsRevoked(ctx, refreshToken)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	if revoked {
		return nil, apperrors.InvalidRefreshToken()
	}

	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		if token.IsExpired(err) {
			return nil, apperrors.RefreshTokenExpired()
		}
		return nil, apperrors.InvalidRefreshToken()
	}

	user, err := s.users.GetUserByID(ctx, claims.UserID())
	if err != nil {
		if db.IsNoRows(err) {
			return nil, apperrors.InvalidRefreshToken()
		}
		return nil, apperrors.Internal(err)
	}
	if !user.IsActive {
		return nil, apperrors.AccountDeactivated()
	}

	accessToken, err := s.codec.IssueAccess(token.NewClaims(user))
	if err != nil {
		return nil, issuanceError(err)
	}

	return &model.RefreshData{
		Token:     accessToken,
		ExpiresIn: int64(token.AccessTokenTTL.Seconds()),
	}, nil
}

// Verify authenticates an access token and materializes the caller identity.
// The identity is built from the token alone, without a live user lookup, so
// role and active-status changes are not visible until the token expires.
func (s *AuthService) Verify(tokenString string) (model.AuthenticatedUser, error) {
	claims, err := s.codec.VerifyAccess(tokenString)
	if err != nil {
		if token.IsExpired(err) {
			s.log.Debug().Msg("access token expired")
		}
		return model.AuthenticatedUser{}, apperrors.InvalidToken()
	}
	if !claims.Role.Valid() {
		return model.AuthenticatedUser{}, apperrors.InvalidToken()
	}

	return model.AuthenticatedUser{
		ID:    claims.UserID(),
		Email: claims.Email,
		Name:  nameFromEmail(claims.Email),
		Role:  claims.Role,
	}, nil
}

// Logout revokes the presented refresh token for its remaining lifetime.
// Unknown or already-invalid tokens are ignored.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if strings.TrimSpace(refreshToken) == "" {
		return nil
	}

	claims, err := s.codec.VerifyRefresh(refreshToken)
	if err != nil {
		return nil
	}

	remaining := time.Until(claims.ExpiresAt.Time)
	if err := s.blacklist.Revoke(ctx, refreshToken, remaining); err != nil {
		return apperrors.Internal(err)
	}
	return nil
}

// EnsureAdmin creates the seed super_admin account when it does not exist.
// A blank email disables seeding.
func (s *AuthService) EnsureAdmin(ctx context.Context, email, plaintext string) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	if len(plaintext) < minPasswordLength {
		return apperrors.Configuration("ADMIN_PASSWORD")
	}

	_, err := s.users.GetUserByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !db.IsNoRows(err) {
		return err
	}

	hash, err := s.hasher.Hash(plaintext)
	if err != nil {
		return err
	}

	_, err = s.users.CreateUser(ctx, &model.User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         nameFromEmail(email),
		Role:         model.RoleSuperAdmin,
		PasswordHash: hash,
		IsActive:     true,
	})
	if err != nil && db.IsUniqueViolation(err) {
		// Another replica seeded it first.
		return nil
	}
	return err
}

// validateLogin enumerates every failing field, not just the first.
func validateLogin(req model.LoginRequest) map[string]any {
	fields := make(map[string]any)
	if strings.TrimSpace(req.Email) == "" {
		fields["email"] = "email is required"
	} else if !emailPattern.MatchString(req.Email) {
		fields["email"] = "email format is invalid"
	}
	if req.Password == "" {
		fields["password"] = "password is required"
	} else if len(req.Password) < minPasswordLength {
		fields["password"] = "password must be at least 6 characters"
	}
	return fields
}

func issuanceError(err error) *apperrors.AppError {
	if err == token.ErrMissingSecret {
		return apperrors.Configuration("JWT signing secret")
	}
	return apperrors.Internal(err)
}

// nameFromEmail synthesizes a display name from the email local part. Used
// where no persisted name lookup happens (token-only verification).
func nameFromEmail(email string) string {
	if idx := strings.Index(email, "@"); idx > 0 {
		return email[:idx]
	}
	return email
}

func (s *AuthService) logAttempt(email string, client ClientContext, success bool, reason string) {
	event := s.log.Info()
	if !success {
		event = s.log.Warn()
	}
	event = event.
		Str("email", email).
		Str("ip", client.IP).
		Str("user_agent", client.UserAgent).
		Bool("success", success)
	if reason != "" {
		event = event.Str("reason", reason)
	}
	event.Msg("login attempt")
}
