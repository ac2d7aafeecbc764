package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
	"github.com/quin-vannatter/vpn-smb-manager/internal/security/password"
	"github.com/quin-vannatter/vpn-smb-manager/internal/security/token"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

type registerRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	InviteCode string `json:"inviteCode"`
}

// NewRegisterHandler enrola un usuario nuevo contra un código de invitación
// member vigente. El código se consume recién después de crear el usuario.
func NewRegisterHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req registerRequest
		if !readJSON(w, r, &req) {
			return
		}
		req.Username = strings.TrimSpace(req.Username)

		plain, err := password.Decode(req.Password)
		if err != nil || !password.ValidUsername(req.Username) || !password.ValidPassword(plain) {
			writeEmpty(w, http.StatusBadRequest)
			return
		}
		inv, ok := c.Invites.Redeem(req.InviteCode)
		if !ok || inv.Guest() {
			writeEmpty(w, http.StatusBadRequest)
			return
		}

		hash, err := password.Hash(req.Password)
		if err != nil {
			writeEmpty(w, http.StatusBadRequest)
			return
		}
		smbPassword, err := token.GenerateOpaque(9)
		if err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}

		u := &core.User{
			Username:     req.Username,
			PasswordHash: hash,
			IsAdmin:      inv.IsAdmin,
			SMBPassword:  smbPassword,
		}
		if err := c.Store.CreateUser(r.Context(), u); err != nil {
			if errors.Is(err, core.ErrConflict) {
				writeEmpty(w, http.StatusBadRequest)
				return
			}
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		c.Shares.Provision(r.Context(), u.Username, u.SMBPassword)
		c.Invites.Consume(inv.Code)

		logger.From(r.Context()).Info("user enrolled",
			logger.Username(u.Username), logger.Bool("admin", u.IsAdmin))
		writeEmpty(w, http.StatusCreated)
	}
}
