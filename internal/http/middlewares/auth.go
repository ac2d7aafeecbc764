package middlewares

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/quin-vannatter/vpn-smb-manager/internal/auth"
	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

// BearerToken extrae el token de sesión del request: header Authorization
// (con o sin prefijo "Bearer ") o query param authToken (lo usan los links
// de descarga, donde no se pueden mandar headers).
func BearerToken(r *http.Request) string {
	ah := strings.TrimSpace(r.Header.Get("Authorization"))
	if strings.HasPrefix(strings.ToLower(ah), "bearer ") {
		return strings.TrimSpace(ah[len("bearer "):])
	}
	if ah != "" {
		return ah
	}
	return strings.TrimSpace(r.URL.Query().Get("authToken"))
}

// RequireAuth resuelve el token contra la TokenAuthority y guarda el usuario
// en el contexto; 401 si falta o expiró. Tras resolver, re-persiste el
// registro sin tocar token/expiración, manteniendo la representación
// almacenada sincronizada sin acortar la sesión.
func RequireAuth(a *auth.Authority, store core.Repository) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, err := a.Resolve(r.Context(), BearerToken(r))
			if err != nil {
				writeStatus(w, http.StatusUnauthorized)
				return
			}
			if err := store.UpdateUser(r.Context(), u); err != nil {
				logger.From(r.Context()).Warn("session refresh persist failed",
					logger.Username(u.Username), logger.Err(err))
			}
			next.ServeHTTP(w, r.WithContext(setUser(r.Context(), u)))
		})
	}
}

// RequireAdmin corta con 403 si el usuario autenticado no es admin.
// Debe ir después de RequireAuth.
func RequireAdmin() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u := GetUser(r.Context())
			if u == nil {
				writeStatus(w, http.StatusUnauthorized)
				return
			}
			if !u.IsAdmin {
				writeStatus(w, http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func writeStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(struct{}{})
}
