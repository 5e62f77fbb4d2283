package statusapi

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedCount int

func (f fixedCount) ConnectionCount() int { return int(f) }

func TestStatusEndpointReportsConnectedClients(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(fixedCount(3))

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/status", nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"connected_clients":3`)
	assert.Contains(t, w.Body.String(), `"status":"ok"`)
}

func TestMetricsEndpointIsMounted(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := NewRouter(fixedCount(0))

	w := httptest.NewRecorder()
	req, err := http.NewRequest(http.MethodGet, "/internal/metrics", nil)
	require.NoError(t, err)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
