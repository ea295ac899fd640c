package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogin_StoresToken(t *testing.T) {

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/api/auth/login", r.URL.Path)

		var req map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "p1@test.com", req["email"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"access_token": "tok123",
			"token_type":   "bearer",
			"user": map[string]string{
				"id":       "u1",
				"username": "profesor_1",
				"email":    "p1@test.com",
			},
		})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	session, err := c.Login(context.Background(), "p1@test.com", []byte("secret1"))
	require.NoError(t, err)

	assert.Equal(t, "tok123", session.AccessToken)
	assert.Equal(t, "profesor_1", session.User.Username)
	assert.Equal(t, "tok123", c.token)
}

func TestVerify_SendsBearerToken(t *testing.T) {

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "Bearer tok123", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "username": "profesor_1"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	c.SetToken("tok123")

	user, err := c.Verify(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)
}

func TestErrorResponse(t *testing.T) {

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"detail": "email already registered"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	_, err := c.Register(context.Background(), "profesor_1", "p1@test.com", []byte("secret1"))
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusConflict, apiErr.Status)
	assert.Equal(t, "email already registered", apiErr.Error())
}

func TestServerUnreachable(t *testing.T) {

	c := NewClient("http://127.0.0.1:1")
	_, err := c.Verify(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestUpdateProfile_OmitsNilFields(t *testing.T) {

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req map[string]*string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		_, hasEmail := req["email"]
		assert.False(t, hasEmail)
		require.NotNil(t, req["username"])
		assert.Equal(t, "renamed", *req["username"])

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{"id": "u1", "username": "renamed"})
	}))
	defer ts.Close()

	c := NewClient(ts.URL)
	username := "renamed"
	user, err := c.UpdateProfile(context.Background(), &username, nil)
	require.NoError(t, err)
	assert.Equal(t, "renamed", user.Username)
}
