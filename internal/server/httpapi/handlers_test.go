package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/saedev/sae-auth/internal/logging"
	"github.com/saedev/sae-auth/internal/server/auth"
	"github.com/saedev/sae-auth/internal/server/config"
	"github.com/saedev/sae-auth/internal/server/users"
	"github.com/saedev/sae-auth/internal/shared"
)

// memRepo is an in-memory users.Repository mimicking the store's unique
// indexes, so handlers can be driven through a real users.Service.
type memRepo struct {
	users map[string]*users.User
}

func newMemRepo() *memRepo {
	return &memRepo{users: map[string]*users.User{}}
}

func (m *memRepo) Create(ctx context.Context, u *users.User) (*users.User, error) {
	for _, other := range m.users {
		if other.Email == u.Email {
			return nil, shared.ErrorEmailTaken
		}
		if other.Username == u.Username {
			return nil, shared.ErrorUsernameTaken
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return u, nil
}

func (m *memRepo) GetByID(ctx context.Context, id string) (*users.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, shared.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (m *memRepo) GetByEmail(ctx context.Context, email string) (*users.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, shared.ErrorNotFound
}

func (m *memRepo) GetByUsername(ctx context.Context, username string) (*users.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, shared.ErrorNotFound
}

func (m *memRepo) UpdateFields(ctx context.Context, id string, fields map[string]any) error {
	u, ok := m.users[id]
	if !ok {
		return shared.ErrorNotFound
	}
	for col, val := range fields {
		switch col {
		case "username":
			u.Username = val.(string)
		case "email":
			u.Email = val.(string)
		case "password_hash":
			u.PasswordHash = val.(string)
		case "avatar":
			s := val.(string)
			u.Avatar = &s
		case "updated_at":
			u.UpdatedAt = val.(time.Time)
		}
	}
	return nil
}

const testSecret = "test-secret"

func newTestServer(t *testing.T) (*httptest.Server, *memRepo) {
	t.Helper()

	repo := newMemRepo()
	cfg := &config.Config{
		SecretKey:                   testSecret,
		AccessTokenValidityDuration: time.Hour,
	}
	service := users.NewService(repo, cfg)

	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
	srv, err := NewServer(":0", logger, service, []string{"*"})
	require.NoError(t, err)

	ts := httptest.NewServer(srv.Handler())
	t.Cleanup(ts.Close)
	return ts, repo
}

func doJSON(t *testing.T, ts *httptest.Server, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, ts.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	payload := map[string]any{}
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &payload), "body: %s", raw)
	}
	return resp, payload
}

func registerUser(t *testing.T, ts *httptest.Server, username, email, password string) map[string]any {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "register failed: %v", body)
	return body
}

func loginUser(t *testing.T, ts *httptest.Server, email, password string) string {
	t.Helper()
	resp, body := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode, "login failed: %v", body)
	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestRoot(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, body["message"], "SAE API")
}

func TestAuthFlow(t *testing.T) {
	ts, _ := newTestServer(t)

	// register assigns an id and never returns password material
	regBody := registerUser(t, ts, "profesor_1", "p1@test.com", "TestPass123!")
	userID, _ := regBody["id"].(string)
	require.NotEmpty(t, userID)
	raw, err := json.Marshal(regBody)
	require.NoError(t, err)
	assert.NotContains(t, strings.ToLower(string(raw)), "password")

	// duplicate email with a different username
	resp, body := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "profesor_2",
		"email":    "p1@test.com",
		"password": "TestPass123!",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "email already registered", body["detail"])

	// duplicate username with a different email
	resp, body = doJSON(t, ts, http.MethodPost, "/api/auth/register", "", map[string]string{
		"username": "profesor_1",
		"email":    "p2@test.com",
		"password": "TestPass123!",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "username already taken", body["detail"])

	// login
	token := loginUser(t, ts, "p1@test.com", "TestPass123!")

	// wrong password
	resp, body = doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "p1@test.com",
		"password": "wrong",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "incorrect email or password", body["detail"])

	// unknown email gets the identical response
	resp, body2 := doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "nobody@test.com",
		"password": "TestPass123!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, body["detail"], body2["detail"])

	// verify resolves to the same account
	resp, body = doJSON(t, ts, http.MethodGet, "/api/auth/verify", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, userID, body["id"])
	assert.Equal(t, "profesor_1", body["username"])
	assert.Equal(t, "p1@test.com", body["email"])

	// garbage token
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/auth/verify", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// missing token
	resp, _ = doJSON(t, ts, http.MethodGet, "/api/auth/verify", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVerify_ExpiredTokenIsDistinct(t *testing.T) {
	ts, _ := newTestServer(t)

	regBody := registerUser(t, ts, "profesor_1", "p1@test.com", "TestPass123!")
	userID := regBody["id"].(string)

	expired, err := auth.GenerateToken(userID, []byte(testSecret), -time.Minute)
	require.NoError(t, err)

	resp, body := doJSON(t, ts, http.MethodGet, "/api/auth/verify", expired, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "token has expired", body["detail"])

	resp, body = doJSON(t, ts, http.MethodGet, "/api/auth/verify", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "could not validate credentials", body["detail"])
}

func TestGetProfile(t *testing.T) {
	ts, _ := newTestServer(t)

	registerUser(t, ts, "profesor_1", "p1@test.com", "TestPass123!")
	token := loginUser(t, ts, "p1@test.com", "TestPass123!")

	resp, body := doJSON(t, ts, http.MethodGet, "/api/auth/profile", token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "profesor_1", body["username"])
}

func TestUpdateProfile(t *testing.T) {
	ts, _ := newTestServer(t)

	registerUser(t, ts, "profesor_1", "p1@test.com", "TestPass123!")
	registerUser(t, ts, "profesor_2", "p2@test.com", "TestPass123!")
	token := loginUser(t, ts, "p1@test.com", "TestPass123!")

	// rename
	resp, body := doJSON(t, ts, http.MethodPut, "/api/auth/profile", token, map[string]string{
		"username": "profesor_renamed",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "profesor_renamed", body["username"])
	assert.Equal(t, "p1@test.com", body["email"])

	// conflict with the other account
	resp, body = doJSON(t, ts, http.MethodPut, "/api/auth/profile", token, map[string]string{
		"username": "profesor_2",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	assert.Equal(t, "username already taken", body["detail"])

	// empty update succeeds and returns the current state
	resp, body = doJSON(t, ts, http.MethodPut, "/api/auth/profile", token, map[string]string{})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "profesor_renamed", body["username"])
}

func TestUpdatePassword(t *testing.T) {
	ts, _ := newTestServer(t)

	registerUser(t, ts, "profesor_1", "p1@test.com", "TestPass123!")
	token := loginUser(t, ts, "p1@test.com", "TestPass123!")

	resp, body := doJSON(t, ts, http.MethodPut, "/api/auth/password", token, map[string]string{
		"current_password": "wrong",
		"new_password":     "NewPass456!",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "current password is incorrect", body["detail"])

	resp, body = doJSON(t, ts, http.MethodPut, "/api/auth/password", token, map[string]string{
		"current_password": "TestPass123!",
		"new_password":     "NewPass456!",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Password updated successfully", body["message"])

	// old password no longer works, new one does
	resp, _ = doJSON(t, ts, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "p1@test.com",
		"password": "TestPass123!",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	loginUser(t, ts, "p1@test.com", "NewPass456!")
}

func TestUpdateAvatar(t *testing.T) {
	ts, repo := newTestServer(t)

	regBody := registerUser(t, ts, "profesor_1", "p1@test.com", "TestPass123!")
	token := loginUser(t, ts, "p1@test.com", "TestPass123!")

	resp, body := doJSON(t, ts, http.MethodPut, "/api/auth/avatar", token, map[string]string{
		"avatar": "data:image/png;base64,iVBORw0KGgo=",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "Avatar updated successfully", body["message"])
	assert.Equal(t, "data:image/png;base64,iVBORw0KGgo=", body["avatar"])

	stored := repo.users[regBody["id"].(string)]
	require.NotNil(t, stored.Avatar)

	// an explicit empty string is a legal value and clears the avatar
	resp, body = doJSON(t, ts, http.MethodPut, "/api/auth/avatar", token, map[string]string{
		"avatar": "",
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "", body["avatar"])
	require.NotNil(t, stored.Avatar)
	assert.Equal(t, "", *repo.users[regBody["id"].(string)].Avatar)

	// only a missing field is rejected
	resp, _ = doJSON(t, ts, http.MethodPut, "/api/auth/avatar", token, map[string]string{})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestRegister_ValidationFailures(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
	}{
		{name: "short username", body: map[string]string{"username": "ab", "email": "a@test.com", "password": "secret1"}},
		{name: "bad email", body: map[string]string{"username": "valid_user", "email": "nope", "password": "secret1"}},
		{name: "short password", body: map[string]string{"username": "valid_user", "email": "a@test.com", "password": "12345"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, ts, http.MethodPost, "/api/auth/register", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestMalformedBody(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodPost, ts.URL+"/api/auth/register", strings.NewReader("{not-json"))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCORS(t *testing.T) {
	ts, _ := newTestServer(t)

	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/api/auth/login", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", "POST")

	resp, err := ts.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:3000", resp.Header.Get("Access-Control-Allow-Origin"))
	assert.Contains(t, resp.Header.Get("Access-Control-Allow-Methods"), "POST")
}
