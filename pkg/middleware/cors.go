package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

// CORSConfig configures CORS.
type CORSConfig struct {
	// AllowedOrigins lists allowed origins. "*" allows any origin and an
	// empty list allows none.
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	MaxAge         int // seconds
}

// DefaultCORSConfig allows any origin to use the student API.
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Content-Type", "X-Request-Id"},
		MaxAge:         600,
	}
}

// CORS answers preflight requests without reaching the router and adds
// Access-Control headers to requests from allowed origins.
func CORS(config CORSConfig) func(http.Handler) http.Handler {
	origins := make([]string, 0, len(config.AllowedOrigins))
	for _, o := range config.AllowedOrigins {
		if o = strings.TrimRight(strings.TrimSpace(o), "/"); o != "" {
			origins = append(origins, o)
		}
	}

	opts := cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: config.AllowedMethods,
		AllowedHeaders: config.AllowedHeaders,
		MaxAge:         config.MaxAge,
	}
	// cors treats an empty list as "*".
	if len(origins) == 0 {
		opts.AllowOriginFunc = func(*http.Request, string) bool { return false }
	}
	return cors.Handler(opts)
}
