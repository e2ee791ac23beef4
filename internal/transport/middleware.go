package transport

import (
	"log/slog"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// noisyPrefixes are polled read paths logged at Debug to keep Info clean.
var noisyPrefixes = []string{
	"/api/workers",
	"/api/ws",
}

func isNoisy(path string) bool {
	for _, p := range noisyPrefixes {
		if strings.HasPrefix(path, p) {
			return true
		}
	}
	return false
}

func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if c.Request.Method == "OPTIONS" {
			return
		}

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if c.Request.Method == "GET" && isNoisy(c.Request.URL.Path) {
			slog.Debug("request", attrs...)
			return
		}
		slog.Info("request", attrs...)
	}
}

func CORSMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Mcp-Session-Id")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Location, Mcp-Session-Id")
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	}
}
