package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:3000",        // local dev
	"https://velvetrow.ng",         // storefront
	"https://www.velvetrow.ng",     // storefront www alias
	"https://admin.velvetrow.ng",   // back office
	"https://staging.velvetrow.ng", // staging storefront
}

// CORS returns middleware that applies the API's allowed origin policy.
func CORS() func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins:   defaultCORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-VR-Token", "Idempotency-Key", "X-Guest-Session", "X-Requested-With"},
		ExposedHeaders:   []string{"X-VR-Token"},
		AllowCredentials: true,
		MaxAge:           300,
	}).Handler
}
