package middleware

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// CORSMiddleware answers browser preflights for any origin, matching the
// Access-Control-Allow-Origin: * the function itself returns.
func CORSMiddleware() gin.HandlerFunc {
	return cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Authorization", idempotencyHeader},
		MaxAge:          12 * time.Hour,
	})
}
