//go:build unit || e2e

package httptest

import (
	"encoding/json"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"coffee-loyalty/internal/handler/httperr"

	"github.com/stretchr/testify/assert"
)

func AssertSuccessResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, targetStruct any) {
	t.Helper()

	if !assert.Equal(t, expectedStatus, w.Code, "Response: %s", w.Body.String()) {
		return
	}

	if expectedStatus >= 200 && expectedStatus < 300 && targetStruct != nil {
		err := json.Unmarshal(w.Body.Bytes(), targetStruct)
		assert.NoError(t, err, "Failed to decode response JSON: %s", w.Body.String())
	}
}

// AssertErrorResponse checks the status and the {"error":{"message":..}} envelope.
func AssertErrorResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedErrorMsg string) httperr.Response {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code, "Response: %s", w.Body.String())

	var resp httperr.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "Failed to decode error response JSON: %s", w.Body.String())

	if expectedErrorMsg != "" {
		assert.Contains(t, resp.Error.Message, expectedErrorMsg,
			"Response error message doesn't contain expected text")
	}
	return resp
}

// AssertHTMLResponse checks an HTML page response and that the body contains every fragment.
func AssertHTMLResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, fragments ...string) {
	t.Helper()

	assert.Equal(t, expectedStatus, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/html"),
		"unexpected content type %q", w.Header().Get("Content-Type"))
	for _, f := range fragments {
		assert.Contains(t, w.Body.String(), f)
	}
}

func AssertRetryAfter(t *testing.T, w *httptest.ResponseRecorder, seconds int) {
	t.Helper()
	assert.Equal(t, strconv.Itoa(seconds), w.Header().Get("Retry-After"))
}
