package middleware

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS allows the configured browser origins. A "*" entry allows any origin
// without credentials.
func CORS(origins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Content-Type", "Authorization", "Accept", "Origin", "X-Request-ID", "X-User-ID", "X-User-Role", "Idempotency-Key", "x-client-info", "apikey"},
		ExposeHeaders:    []string{"X-Request-ID", "Idempotent-Replayed"},
		AllowCredentials: true,
		MaxAge:           24 * time.Hour,
	}

	clean := []string{}
	for _, o := range origins {
		o = strings.TrimSpace(o)
		if o == "*" {
			cfg.AllowAllOrigins = true
			cfg.AllowCredentials = false
			clean = nil
			break
		}
		if o != "" {
			clean = append(clean, o)
		}
	}
	if !cfg.AllowAllOrigins {
		if len(clean) == 0 {
			clean = []string{"http://localhost:3000"}
		}
		cfg.AllowOrigins = clean
	}
	return cors.New(cfg)
}
