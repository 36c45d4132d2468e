package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func doRequest(t *testing.T, user, pass string, withCreds bool) (*httptest.ResponseRecorder, *bool) {
	t.Helper()

	reached := false
	handler := BasicAuth("admin", "secret")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reached = true
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/admin/services", nil)
	if withCreds {
		req.SetBasicAuth(user, pass)
	}
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	return rr, &reached
}

func TestBasicAuth_NoCredentials(t *testing.T) {
	rr, reached := doRequest(t, "", "", false)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.Contains(t, rr.Header().Get("WWW-Authenticate"), "cleanops-admin")
	assert.False(t, *reached)
}

func TestBasicAuth_WrongCredentials(t *testing.T) {
	rr, reached := doRequest(t, "admin", "wrong", true)

	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	assert.False(t, *reached)
}

func TestBasicAuth_Success(t *testing.T) {
	rr, reached := doRequest(t, "admin", "secret", true)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.True(t, *reached)
}
