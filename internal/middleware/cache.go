package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// CacheConfig represents cache control configuration
type CacheConfig struct {
	MaxAge               int
	Private              bool
	NoStore              bool
	MustRevalidate       bool
	NoCache              bool
	StaleWhileRevalidate int
	Vary                 []string
}

// DefaultCacheConfig suits reference data that changes rarely
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxAge:               300,
		Private:              true,
		StaleWhileRevalidate: 60,
		Vary:                 []string{"Accept"},
	}
}

// Cache adds cache control headers to GET responses
func Cache(config CacheConfig) gin.HandlerFunc {
	directives := cacheDirectives(config)
	vary := strings.Join(config.Vary, ", ")

	return func(c *gin.Context) {
		if c.Request.Method != http.MethodGet {
			c.Header("Cache-Control", "no-store")
			c.Next()
			return
		}

		c.Writer = &cacheWriter{ResponseWriter: c.Writer, directives: directives, vary: vary}
		c.Next()
	}
}

// cacheWriter picks the cache headers from the status the response is
// committed with, so error responses are never cached.
type cacheWriter struct {
	gin.ResponseWriter
	directives string
	vary       string
}

func (w *cacheWriter) WriteHeader(code int) {
	w.setHeaders(code)
	w.ResponseWriter.WriteHeader(code)
}

func (w *cacheWriter) WriteHeaderNow() {
	w.setHeaders(w.Status())
	w.ResponseWriter.WriteHeaderNow()
}

func (w *cacheWriter) Write(data []byte) (int, error) {
	w.setHeaders(w.Status())
	return w.ResponseWriter.Write(data)
}

func (w *cacheWriter) WriteString(s string) (int, error) {
	w.setHeaders(w.Status())
	return w.ResponseWriter.WriteString(s)
}

func (w *cacheWriter) setHeaders(code int) {
	if w.Written() {
		return
	}
	h := w.Header()
	if code >= http.StatusBadRequest {
		h.Set("Cache-Control", "no-store")
		h.Del("Vary")
		return
	}
	h.Set("Cache-Control", w.directives)
	if w.vary != "" {
		h.Set("Vary", w.vary)
	}
}

func cacheDirectives(config CacheConfig) string {
	directives := make([]string, 0, 5)
	if config.Private {
		directives = append(directives, "private")
	} else {
		directives = append(directives, "public")
	}
	if config.MaxAge > 0 {
		directives = append(directives, "max-age="+strconv.Itoa(config.MaxAge))
	}
	if config.NoStore {
		directives = append(directives, "no-store")
	}
	if config.NoCache {
		directives = append(directives, "no-cache")
	}
	if config.MustRevalidate {
		directives = append(directives, "must-revalidate")
	}
	if config.StaleWhileRevalidate > 0 {
		directives = append(directives, "stale-while-revalidate="+strconv.Itoa(config.StaleWhileRevalidate))
	}
	return strings.Join(directives, ", ")
}
