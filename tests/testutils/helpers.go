// Package testutils provides test utilities and helpers.
package testutils

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/unifiedui/donation-service/internal/api/dto"
)

// SetupTestRouter returns a bare gin engine in test mode.
func SetupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

// PerformRequest sends a request through router, JSON-encoding body when given.
func PerformRequest(router *gin.Engine, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if body != nil {
		payload, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")
	}
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// ParseJSONResponse decodes the recorded body into v.
func ParseJSONResponse(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v), "failed to parse JSON response: %s", w.Body.String())
}

// AssertStatusCode fails the test unless the recorded status matches.
func AssertStatusCode(t *testing.T, expected int, w *httptest.ResponseRecorder) {
	t.Helper()
	require.Equal(t, expected, w.Code, "unexpected status code: %s", w.Body.String())
}

// AssertErrorResponse checks status and envelope code, and returns the decoded envelope.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, status int, code string) dto.ErrorResponse {
	t.Helper()
	AssertStatusCode(t, status, w)

	var response dto.ErrorResponse
	ParseJSONResponse(t, w, &response)
	require.Equal(t, code, response.Code)
	return response
}

// CaptureLogger returns a JSON logger writing to the returned buffer.
func CaptureLogger() (zerolog.Logger, *bytes.Buffer) {
	buf := &bytes.Buffer{}
	return zerolog.New(buf), buf
}

// LogEntries decodes every JSON line written to buf.
func LogEntries(t *testing.T, buf *bytes.Buffer) []map[string]interface{} {
	t.Helper()

	var entries []map[string]interface{}
	scanner := bufio.NewScanner(bytes.NewReader(buf.Bytes()))
	for scanner.Scan() {
		var entry map[string]interface{}
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &entry), "invalid log line: %s", scanner.Text())
		entries = append(entries, entry)
	}
	require.NoError(t, scanner.Err())
	return entries
}

// FindLogEntry returns the first entry whose message equals msg, or nil.
func FindLogEntry(entries []map[string]interface{}, msg string) map[string]interface{} {
	for _, entry := range entries {
		if entry["message"] == msg {
			return entry
		}
	}
	return nil
}
