// Package middlewares trae los middlewares HTTP del servidor: request id,
// logging estructurado y autenticación por token.
package middlewares

import "net/http"

// Middleware es un decorador de http.Handler
type Middleware func(http.Handler) http.Handler
