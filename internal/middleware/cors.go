package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORS returns a middleware that allows the configured origins. An empty list
// or a "*" entry allows every origin.
func CORS(allowedOrigins []string) gin.HandlerFunc {
	cfg := cors.Config{
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Content-Type", "Accept", "Origin", "X-Requested-With", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:        24 * time.Hour,
	}

	for _, o := range allowedOrigins {
		if o == "*" {
			cfg.AllowAllOrigins = true
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
	}
	if !cfg.AllowAllOrigins {
		cfg.AllowOrigins = allowedOrigins
	}
	return cors.New(cfg)
}
