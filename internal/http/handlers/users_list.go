package handlers

import (
	"net/http"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/http/middlewares"
	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
)

type usersResponse struct {
	GuestCount int       `json:"guestCount"`
	Users      []UserDTO `json:"users"`
}

// NewUsersHandler lista todos los usuarios con su estado de conexión y la
// cantidad de certificados de invitado vivos. Aprovecha la consulta para
// correr un sweep de invitados, igual que hace el timer.
func NewUsersHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := c.Store.ListUsers(r.Context())
		if err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}

		out := usersResponse{Users: make([]UserDTO, 0, len(users))}
		for i := range users {
			connected := c.Ledger.UserConnected(r.Context(), users[i].Username)
			out.Users = append(out.Users, toUserSummary(&users[i], connected))
		}

		guestCount, err := c.Reconciler.Sweep(r.Context())
		if err != nil {
			logger.From(r.Context()).Warn("inline guest sweep failed", logger.Err(err))
		}
		out.GuestCount = guestCount

		writeJSON(w, http.StatusOK, out)
	}
}

// NewCurrentUserHandler devuelve el usuario autenticado, redactado.
func NewCurrentUserHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		writeJSON(w, http.StatusOK, toUserDTO(u))
	}
}
