package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/http/middlewares"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

func writeProfile(w http.ResponseWriter, filename, profile string) {
	w.Header().Set("Content-Type", "application/x-openvpn-profile")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.ovpn", filename))
	w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
	_, _ = w.Write([]byte(profile))
}

// NewDownloadHandler baja un perfil para el caller reusando un certificado
// no conectado si existe; si no, emite uno nuevo sin passphrase.
func NewDownloadHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		kind := chi.URLParam(r, "kind")

		id := ""
		if unused, err := c.Ledger.Unused(r.Context(), u.Username); err == nil && len(unused) > 0 {
			id = unused[0].ID
		} else {
			cert, err := c.Ledger.Issue(r.Context(), u.Username, "")
			if err != nil {
				writeEmpty(w, http.StatusBadGateway)
				return
			}
			id = cert.ID
		}

		profile, err := c.Ledger.Download(r.Context(), id, kind)
		if err != nil {
			writeEmpty(w, http.StatusBadGateway)
			return
		}
		writeProfile(w, u.Username, profile)
	}
}

// NewDownloadByIDHandler baja el perfil de un certificado puntual.
// No-admins solo pueden bajar certificados propios.
func NewDownloadByIDHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		id := chi.URLParam(r, "id")
		kind := chi.URLParam(r, "kind")

		cert, err := c.Store.GetCertificate(r.Context(), id)
		if err != nil {
			if errors.Is(err, core.ErrNotFound) {
				writeEmpty(w, http.StatusNotFound)
				return
			}
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		if !u.IsAdmin && cert.Owner() != u.Username {
			writeEmpty(w, http.StatusForbidden)
			return
		}

		profile, err := c.Ledger.Download(r.Context(), id, kind)
		if err != nil {
			writeEmpty(w, http.StatusBadGateway)
			return
		}
		writeProfile(w, u.Username, profile)
	}
}

// NewGuestDownloadHandler baja el perfil del certificado pre-provisionado de
// una invitación guest vigente. Sin autenticación: el código es la llave.
func NewGuestDownloadHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "code")
		kind := chi.URLParam(r, "kind")

		inv, ok := c.Invites.Redeem(code)
		if !ok || !inv.Guest() {
			writeEmpty(w, http.StatusNotFound)
			return
		}
		profile, err := c.Ledger.Download(r.Context(), inv.GuestCertificateID, kind)
		if err != nil {
			writeEmpty(w, http.StatusBadGateway)
			return
		}
		writeProfile(w, "guest", profile)
	}
}
