package handlers

import (
	"net/http"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/http/middlewares"
)

// NewMemberInviteHandler acuña (o repite) el código de invitación member del
// caller. Solo admins invitan miembros nuevos.
func NewMemberInviteHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		code, err := c.Invites.IssueMember(u.Username, false)
		if err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		writeJSON(w, http.StatusOK, inviteResponse{InviteCode: code})
	}
}

// NewGuestInviteHandler acuña (o repite) el código guest del caller,
// pre-provisionando el certificado sin dueño.
func NewGuestInviteHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		code, err := c.Invites.IssueGuest(r.Context(), u.Username)
		if err != nil {
			writeEmpty(w, http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, inviteResponse{InviteCode: code})
	}
}
