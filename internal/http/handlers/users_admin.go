package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/http/middlewares"
	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

type promoteRequest struct {
	Username string `json:"username"`
}

// NewPromoteHandler otorga admin a un usuario existente.
func NewPromoteHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req promoteRequest
		if !readJSON(w, r, &req) {
			return
		}
		u, err := c.Store.GetUser(r.Context(), req.Username)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeEmpty(w, http.StatusNotFound)
				return
			}
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		u.IsAdmin = true
		if err := c.Store.UpdateUser(r.Context(), u); err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		writeEmpty(w, http.StatusOK)
	}
}

// NewDeleteUserHandler borra una cuenta: revoca sus certificados, elimina el
// registro (cascada) y desaprovisiona el usuario SMB. Un usuario puede
// borrarse a sí mismo; borrar a otros requiere admin.
func NewDeleteUserHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller := middlewares.GetUser(r.Context())
		username := chi.URLParam(r, "username")
		if username != caller.Username && !caller.IsAdmin {
			writeEmpty(w, http.StatusForbidden)
			return
		}
		if _, err := c.Store.GetUser(r.Context(), username); err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeEmpty(w, http.StatusNotFound)
				return
			}
			writeEmpty(w, http.StatusInternalServerError)
			return
		}

		if err := c.Ledger.RevokeAllFor(r.Context(), username); err != nil {
			logger.From(r.Context()).Error("revoking certificates on user delete failed",
				logger.Username(username), logger.Err(err))
		}
		if err := c.Store.DeleteUser(r.Context(), username); err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		c.Shares.Remove(r.Context(), username)

		logger.From(r.Context()).Info("user deleted", logger.Username(username))
		writeEmpty(w, http.StatusOK)
	}
}
