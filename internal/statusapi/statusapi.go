// Package statusapi exposes a small HTTP surface alongside the TCP
// orchestration socket: a health/status endpoint and a Prometheus
// scrape endpoint.
package statusapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusProvider reports the numbers the /status endpoint surfaces; the
// server's registry satisfies it directly.
type StatusProvider interface {
	ConnectionCount() int
}

// NewRouter builds the gin engine serving GET /status and
// GET /internal/metrics.
func NewRouter(reg StatusProvider) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET"}
	r.Use(cors.New(corsConfig))

	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedPaths([]string{"/internal/metrics"})))

	r.GET("/status", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":            "ok",
			"timestamp":         time.Now().UTC(),
			"connected_clients": reg.ConnectionCount(),
			"service":           "midi-orchestra",
		})
	})

	r.GET("/internal/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
