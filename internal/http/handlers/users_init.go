package handlers

import (
	"net/http"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
)

type inviteResponse struct {
	InviteCode string `json:"inviteCode,omitempty"`
}

// NewInitHandler arranca la instalación: mientras no exista ningún admin,
// entrega un código de invitación admin para el primer enrolamiento.
func NewInitHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		exists, err := c.Store.AdminExists(r.Context())
		if err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		if exists {
			writeJSON(w, http.StatusOK, inviteResponse{})
			return
		}
		code, err := c.Invites.IssueMember("", true)
		if err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, inviteResponse{InviteCode: code})
	}
}
