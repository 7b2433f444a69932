package handler

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	"github.com/peterkingsmesn/jig-backend/internal/config"
	"github.com/peterkingsmesn/jig-backend/internal/model"
	"github.com/peterkingsmesn/jig-backend/internal/password"
	"github.com/peterkingsmesn/jig-backend/internal/ratelimit"
	"github.com/peterkingsmesn/jig-backend/internal/service"
	"github.com/peterkingsmesn/jig-backend/internal/token"
)

type memoryUserStore struct {
	users map[string]*model.User
}

func (m *memoryUserStore) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUserStore) GetUserByID(_ context.Context, id string) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, pgx.ErrNoRows
}

func (m *memoryUserStore) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	m.users[user.ID] = user
	return user, nil
}

func (m *memoryUserStore) UpdateLastLogin(context.Context, string, time.Time) error {
	return nil
}

// errorEnvelope mirrors the wire shape of error responses for assertions.
type errorEnvelope struct {
	Success bool `json:"success"`
	Error   struct {
		Code    string         `json:"code"`
		Message string         `json:"message"`
		Details map[string]any `json:"details"`
	} `json:"error"`
	Timestamp string `json:"timestamp"`
	Path      string `json:"path"`
}

type successEnvelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Message string          `json:"message"`
}

type testApp struct {
	svc    *service.AuthService
	store  *memoryUserStore
	hasher password.Hasher
}

// newTestApp builds an AuthService over in-memory collaborators. limiter may
// be nil for an effectively unlimited one.
func newTestApp(t *testing.T, limiter ratelimit.Limiter) *testApp {
	t.Helper()
	gin.SetMode(gin.TestMode)

	secrets, err := token.SecretsFromConfig(config.AuthConfig{
		AccessSecret:  "handler-access-secret",
		RefreshSecret: "handler-refresh-secret",
	})
	if err != nil {
		t.Fatalf("secrets: %v", err)
	}
	if limiter == nil {
		limiter = ratelimit.NewMemoryLimiter(1000, time.Minute)
	}

	store := &memoryUserStore{users: make(map[string]*model.User)}
	hasher := password.NewBcryptHasher(4)
	svc := service.NewAuthService(store, hasher, token.NewCodec(secrets), limiter, service.NoopBlacklist{}, zerolog.Nop())

	return &testApp{svc: svc, store: store, hasher: hasher}
}

func (a *testApp) addUser(t *testing.T, email, plaintext string, role model.Role) *model.User {
	t.Helper()
	hash, err := a.hasher.Hash(plaintext)
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	user := &model.User{
		ID:           "user-" + email,
		Email:        email,
		Name:         "Test User",
		Role:         role,
		PasswordHash: hash,
		IsActive:     true,
	}
	a.store.users[user.ID] = user
	return user
}

// loginToken logs the user in through the service and returns the access token.
func (a *testApp) loginToken(t *testing.T, email, plaintext string) string {
	t.Helper()
	data, err := a.svc.Login(context.Background(), model.LoginRequest{
		Email:    email,
		Password: plaintext,
	}, service.ClientContext{IP: "127.0.0.1", UserAgent: "test"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	return data.Token
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()
	var env errorEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}

func decodeSuccess(t *testing.T, w *httptest.ResponseRecorder) successEnvelope {
	t.Helper()
	var env successEnvelope
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode success envelope: %v (body: %s)", err, w.Body.String())
	}
	return env
}
