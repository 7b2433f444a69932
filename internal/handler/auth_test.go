package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/peterkingsmesn/jig-backend/internal/model"
	"github.com/peterkingsmesn/jig-backend/internal/ratelimit"
)

func authRouter(app *testApp) *gin.Engine {
	h := NewAuthHandler(app.svc, zerolog.Nop())
	r := gin.New()
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.POST("/api/auth/logout", h.Logout)
	r.GET("/api/auth/verify", h.Verify)
	r.GET("/api/auth/me", RequireAuth(app.svc, zerolog.Nop()), h.Me)
	return r
}

func postJSON(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestLoginEndpointSuccess(t *testing.T) {
	app := newTestApp(t, nil)
	app.addUser(t, "host@example.com", "correct-horse", model.RoleUser)
	r := authRouter(app)

	w := postJSON(r, "/api/auth/login", `{"email":"host@example.com","password":"correct-horse"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}

	env := decodeSuccess(t, w)
	if !env.Success {
		t.Fatalf("expected success envelope")
	}

	var data model.LoginData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.Token == "" || data.RefreshToken == "" {
		t.Fatalf("expected both tokens in response")
	}
	if data.User.Role != model.RoleUser {
		t.Fatalf("expected stored role in response, got %q", data.User.Role)
	}
	if data.ExpiresIn != 3600 {
		t.Fatalf("expected expiresIn 3600, got %d", data.ExpiresIn)
	}
}

func TestLoginEndpointFieldValidation(t *testing.T) {
	app := newTestApp(t, nil)
	r := authRouter(app)

	w := postJSON(r, "/api/auth/login", `{"email":"test@example.com","password":"short"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}

	env := decodeError(t, w)
	if env.Error.Code != "DATA_001" {
		t.Fatalf("expected DATA_001, got %q", env.Error.Code)
	}
	if _, ok := env.Error.Details["password"]; !ok {
		t.Fatalf("expected details.password, got %v", env.Error.Details)
	}
	if _, ok := env.Error.Details["email"]; ok {
		t.Fatalf("details.email must be absent, got %v", env.Error.Details)
	}
	if env.Path != "/api/auth/login" {
		t.Fatalf("expected request path in envelope, got %q", env.Path)
	}
	if _, err := time.Parse(time.RFC3339, env.Timestamp); err != nil {
		t.Fatalf("expected RFC 3339 timestamp, got %q", env.Timestamp)
	}
}

func TestLoginEndpointMalformedBody(t *testing.T) {
	app := newTestApp(t, nil)
	r := authRouter(app)

	w := postJSON(r, "/api/auth/login", `{not json`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Code != "DATA_001" {
		t.Fatalf("expected DATA_001, got %q", env.Error.Code)
	}
}

func TestLoginEndpointInvalidCredentials(t *testing.T) {
	app := newTestApp(t, nil)
	app.addUser(t, "host@example.com", "correct-horse", model.RoleUser)
	r := authRouter(app)

	wrongPw := postJSON(r, "/api/auth/login", `{"email":"host@example.com","password":"wrong-password"}`)
	unknown := postJSON(r, "/api/auth/login", `{"email":"other@example.com","password":"wrong-password"}`)

	if wrongPw.Code != http.StatusUnauthorized || unknown.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401/401, got %d/%d", wrongPw.Code, unknown.Code)
	}
	a, b := decodeError(t, wrongPw), decodeError(t, unknown)
	if a.Error.Code != b.Error.Code || a.Error.Message != b.Error.Message {
		t.Fatalf("wrong-password and unknown-email responses must be identical: %+v vs %+v", a.Error, b.Error)
	}
	if a.Error.Code != "AUTH_004" {
		t.Fatalf("expected AUTH_004, got %q", a.Error.Code)
	}
}

func TestLoginEndpointRateLimited(t *testing.T) {
	app := newTestApp(t, ratelimit.NewMemoryLimiter(2, 15*time.Minute))
	r := authRouter(app)

	body := `{"email":"host@example.com","password":"whatever-password"}`
	postJSON(r, "/api/auth/login", body)
	postJSON(r, "/api/auth/login", body)
	w := postJSON(r, "/api/auth/login", body)

	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Code != "SERVER_003" {
		t.Fatalf("expected SERVER_003, got %q", env.Error.Code)
	}
	if _, ok := env.Error.Details["retryAfter"]; !ok {
		t.Fatalf("expected retryAfter detail, got %v", env.Error.Details)
	}
}

func TestRefreshEndpointInvalidToken(t *testing.T) {
	app := newTestApp(t, nil)
	r := authRouter(app)

	w := postJSON(r, "/api/auth/refresh", `{"refreshToken":"garbage"}`)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	env := decodeError(t, w)
	if env.Error.Code != "AUTH_002" {
		t.Fatalf("expected AUTH_002, got %q", env.Error.Code)
	}
}

func TestVerifyEndpoint(t *testing.T) {
	app := newTestApp(t, nil)
	user := app.addUser(t, "host@example.com", "correct-horse", model.RoleAdmin)
	tokenString := app.loginToken(t, "host@example.com", "correct-horse")
	r := authRouter(app)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	env := decodeSuccess(t, w)
	var data model.VerifyData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatalf("decode data: %v", err)
	}
	if data.User.ID != user.ID || data.User.Role != model.RoleAdmin {
		t.Fatalf("unexpected verified identity: %+v", data.User)
	}

	// Without a token the endpoint responds 401.
	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/auth/verify", nil))
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", w.Code)
	}
}

func TestMeEndpoint(t *testing.T) {
	app := newTestApp(t, nil)
	app.addUser(t, "host@example.com", "correct-horse", model.RoleUser)
	tokenString := app.loginToken(t, "host@example.com", "correct-horse")
	r := authRouter(app)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/me", nil)
	req.Header.Set("Authorization", "Bearer "+tokenString)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
}

func TestLogoutEndpointAlwaysSucceeds(t *testing.T) {
	app := newTestApp(t, nil)
	r := authRouter(app)

	w := postJSON(r, "/api/auth/logout", `{"refreshToken":"unknown-token"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
