package testutil

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"testing"

	"github.com/dom/kanban-board/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertStatusCode verifies the HTTP response status code
func AssertStatusCode(t *testing.T, resp *http.Response, expected int) {
	t.Helper()
	assert.Equal(t, expected, resp.StatusCode, "unexpected status code")
}

// AssertJSONResponse decodes JSON response into v
func AssertJSONResponse(t *testing.T, resp *http.Response, v interface{}) {
	t.Helper()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")

	err = json.Unmarshal(body, v)
	require.NoError(t, err, "failed to unmarshal response: %s", string(body))
}

// DecodeEnvelope reads a successful envelope and returns its data
func DecodeEnvelope[T any](t *testing.T, resp *http.Response) T {
	t.Helper()

	var env Envelope[T]
	AssertJSONResponse(t, resp, &env)
	require.True(t, env.Success, "expected success, got error %v", env.ErrorMessage)
	require.NotNil(t, env.Data, "expected data in envelope")
	return *env.Data
}

// AssertErrorResponse verifies a failed envelope with expected status and message
func AssertErrorResponse(t *testing.T, resp *http.Response, expectedStatus int, expectedMessage string) {
	t.Helper()

	assert.Equal(t, expectedStatus, resp.StatusCode, "unexpected status code")

	var env Envelope[json.RawMessage]
	AssertJSONResponse(t, resp, &env)
	assert.False(t, env.Success)
	require.NotNil(t, env.ErrorMessage, "expected an error message")
	assert.Contains(t, *env.ErrorMessage, expectedMessage, "error message mismatch")
	assert.Nil(t, env.Data)
}

// AssertKind verifies err belongs to the given error kind
func AssertKind(t *testing.T, err error, kind error) {
	t.Helper()
	require.Error(t, err)
	assert.True(t, errors.Is(err, kind), "expected kind %q, got %v", kind, err)
	assert.Equal(t, kind, domain.Kind(err))
}
