// Package testutil provides common test utilities for the replenishment
// engine backend.
package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flexiwear/backend/internal/interfaces/http/dto"
)

// DoJSON serves a single request against the engine and returns the
// recorder. A non-nil body is marshalled to JSON.
func DoJSON(t *testing.T, srv *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		reader = ToJSONReader(t, body)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	srv.ServeHTTP(w, req)
	return w
}

// DecodeResponse unmarshals the recorded body into the standard envelope.
func DecodeResponse(t *testing.T, w *httptest.ResponseRecorder) dto.Response {
	t.Helper()

	var resp dto.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "decode response envelope")
	return resp
}

// DecodeData unmarshals the envelope's data field into T. Fails the test
// when the response is not a success envelope.
func DecodeData[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()

	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "decode response envelope")
	require.True(t, resp.Success, "expected a success envelope, got %s", w.Body.String())

	var out T
	require.NoError(t, json.Unmarshal(resp.Data, &out), "decode data field")
	return out
}

// AssertErrorCode checks the status and the envelope's error code.
func AssertErrorCode(t *testing.T, w *httptest.ResponseRecorder, status int, code string) {
	t.Helper()

	assert.Equal(t, status, w.Code, "status code")
	resp := DecodeResponse(t, w)
	assert.False(t, resp.Success, "success flag")
	require.NotNil(t, resp.Error, "error object missing from response")
	assert.Equal(t, code, resp.Error.Code, "error code")
}

// HTTPTestCase drives one request through the engine as a named subtest.
type HTTPTestCase struct {
	Name           string
	Method         string
	Path           string
	Body           any
	ExpectedStatus int
	ExpectedCode   string
	Validate       func(t *testing.T, w *httptest.ResponseRecorder)
}

// RunHTTPTestCases serves each case against the engine.
func RunHTTPTestCases(t *testing.T, srv *gin.Engine, cases []HTTPTestCase) {
	t.Helper()

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			method := tc.Method
			if method == "" {
				method = http.MethodGet
			}
			w := DoJSON(t, srv, method, tc.Path, tc.Body)

			if tc.ExpectedStatus != 0 {
				assert.Equal(t, tc.ExpectedStatus, w.Code, "status code")
			}
			if tc.ExpectedCode != "" {
				resp := DecodeResponse(t, w)
				require.NotNil(t, resp.Error, "error object missing from response")
				assert.Equal(t, tc.ExpectedCode, resp.Error.Code, "error code")
			}
			if tc.Validate != nil {
				tc.Validate(t, w)
			}
		})
	}
}

// ToJSONReader marshals v and returns a reader over the JSON bytes.
func ToJSONReader(t *testing.T, v any) io.Reader {
	t.Helper()

	data, err := json.Marshal(v)
	require.NoError(t, err, "marshal request body")
	return bytes.NewReader(data)
}
