// Package test contains helpers that are used in tests for multiple packages of the backend.
package test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/studentbudget/backend/internal/auth"
	"github.com/studentbudget/backend/internal/config"
	"github.com/studentbudget/backend/internal/controllers"
	"github.com/studentbudget/backend/internal/router"
)

// TOLERANCE is the number of seconds that a CreatedAt or UpdatedAt time.Time
// is allowed to differ from the time at which it is checked.
//
// As CreatedAt and UpdatedAt are automatically set by gorm, we need a tolerance here.
const TOLERANCE time.Duration = time.Minute

// TmpFile returns the path to a unique database file to be used in tests.
func TmpFile(t *testing.T) string {
	dir := t.TempDir()
	return filepath.Join(dir, uuid.New().String())
}

// Config returns a configuration suitable for in-process tests.
func Config() *config.Config {
	return &config.Config{
		Port:             "0",
		JWTSecret:        "test-secret-do-not-use-in-production",
		TokenExpiry:      time.Hour,
		ResetTokenExpiry: 30 * time.Minute,
		LogFormat:        "human",
		GinMode:          "test",
	}
}

// Controller returns a controller wired with the test configuration.
func Controller() controllers.Controller {
	cfg := Config()

	return controllers.Controller{
		Issuer:           auth.NewTokenIssuer(cfg.JWTSecret, cfg.TokenExpiry),
		ResetTokenExpiry: cfg.ResetTokenExpiry,
	}
}

// Request is a helper method to simplify making a HTTP request for tests.
func Request(t *testing.T, co controllers.Controller, method, url, body string, headers ...map[string]string) httptest.ResponseRecorder {
	r, err := router.Router(Config(), co)
	if err != nil {
		assert.FailNow(t, "Router could not be initialized")
	}

	recorder := httptest.NewRecorder()
	req, _ := http.NewRequest(method, url, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")

	for _, headerMap := range headers {
		for header, value := range headerMap {
			req.Header.Set(header, value)
		}
	}

	r.ServeHTTP(recorder, req)

	return *recorder
}

// BearerHeader builds the Authorization header for an access token.
func BearerHeader(token string) map[string]string {
	return map[string]string{"Authorization": "Bearer " + token}
}

func AssertHTTPStatus(t *testing.T, expected int, r *httptest.ResponseRecorder) {
	assert.Equal(t, expected, r.Code, "HTTP status is wrong. Response body: %s", r.Body.String())
}

// DecodeResponse decodes an HTTP response into a target struct.
func DecodeResponse(t *testing.T, r *httptest.ResponseRecorder, target any) {
	err := json.NewDecoder(r.Body).Decode(target)
	if err != nil {
		assert.FailNow(t, "Parsing error", "Unable to parse response from server %q into %v, '%v'", r.Body, reflect.TypeOf(target), err)
	}
}

// DecodeError returns the error detail of a response body.
func DecodeError(t *testing.T, s []byte) string {
	var r struct {
		Detail string `json:"detail"`
	}

	if err := json.Unmarshal(s, &r); err != nil {
		assert.Fail(t, "Not valid JSON!", "%s", s)
	}

	return r.Detail
}
