package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

// CORS 允许浏览器端聊天组件跨域访问 API。
func CORS() func(http.Handler) http.Handler {
	return cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "Authorization", "X-Request-Id"},
		ExposedHeaders: []string{"Retry-After"},
		MaxAge:         300,
	})
}
