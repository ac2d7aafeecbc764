package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/auth"
	"github.com/quin-vannatter/vpn-smb-manager/internal/http/middlewares"
	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
	"github.com/quin-vannatter/vpn-smb-manager/internal/rate"
)

type loginRequest struct {
	Username string `json:"username"`
	// Password viaja base64-encoded (encoding de transporte).
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

func NewLoginHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if !readJSON(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)

		if c.LoginLimiter != nil {
			res, err := c.LoginLimiter.Allow(r.Context(), rate.LoginKey(clientIP(r), req.Username))
			if err != nil {
				logger.From(r.Context()).Warn("login limiter unavailable", logger.Err(err))
			} else if !res.Allowed {
				writeEmpty(w, http.StatusTooManyRequests)
				return
			}
		}

		t, err := c.Auth.Authenticate(r.Context(), req.Username, req.Password)
		if err != nil {
			if errors.Is(err, auth.ErrUnauthorized) {
				writeEmpty(w, http.StatusUnauthorized)
				return
			}
			writeEmpty(w, http.StatusInternalServerError)
			return
		}

		// Login exitoso: re-sincronizar los directorios compartidos del usuario.
		c.Shares.SyncDirectories(r.Context(), req.Username)

		writeJSON(w, http.StatusOK, loginResponse{Token: t})
	}
}

func NewLogoutHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		if err := c.Auth.Invalidate(r.Context(), u); err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		writeEmpty(w, http.StatusOK)
	}
}
