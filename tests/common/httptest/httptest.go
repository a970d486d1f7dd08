//go:build unit || e2e

package httptest

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Request describes one call against a router. Zero fields are omitted.
type Request struct {
	Method  string
	Path    string
	Body    any
	Cookies []*http.Cookie
	Headers map[string]string
	Bearer  string
}

func Do(t *testing.T, router *gin.Engine, r Request) *httptest.ResponseRecorder {
	t.Helper()

	var reqBody bytes.Buffer
	if r.Body != nil {
		require.NoError(t, json.NewEncoder(&reqBody).Encode(r.Body), "Failed to encode request body to JSON")
	}

	req := httptest.NewRequest(r.Method, r.Path, &reqBody)
	if r.Body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range r.Headers {
		req.Header.Set(k, v)
	}
	if r.Bearer != "" {
		req.Header.Set("Authorization", "Bearer "+r.Bearer)
	}
	for _, c := range r.Cookies {
		req.AddCookie(c)
	}

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

// executes HTTP request with an optional bearer token
func PerformRequest(t *testing.T, router *gin.Engine, method, path string, body any, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	return Do(t, router, Request{Method: method, Path: path, Body: body, Bearer: bearer})
}

// performs HTTP request carrying cookies, typically the cid cookie
func PerformRequestWithCookies(t *testing.T, router *gin.Engine, method, path string, body any, cookies []*http.Cookie, bearer string) *httptest.ResponseRecorder {
	t.Helper()
	return Do(t, router, Request{Method: method, Path: path, Body: body, Cookies: cookies, Bearer: bearer})
}

// extracts specific cookie by name from response
func ExtractCookie(w *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
