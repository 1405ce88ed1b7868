package response

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Set("request_id", "rid-1")
	return c, w
}

func TestSuccess(t *testing.T) {
	c, w := newContext()

	res := Success(c, 0, map[string]int{"n": 1}, "ok", nil)
	assert.Equal(t, http.StatusOK, res.Status)
	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "rid-1", body["request_id"])
	assert.Equal(t, "ok", body["message"])
	assert.Equal(t, map[string]any{"n": float64(1)}, body["data"])
	assert.NotContains(t, body, "error")
}

func TestError(t *testing.T) {
	c, w := newContext()

	res := Error[any](c, http.StatusServiceUnavailable, "unavailable", nil)
	assert.False(t, res.Success)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.True(t, c.IsAborted())

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "unavailable", body["message"])
}

func TestErrorDefaultsToBadRequest(t *testing.T) {
	c, w := newContext()
	Error[any](c, 0, "bad", map[string]string{"field": "x"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
