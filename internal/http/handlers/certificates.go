package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/http/middlewares"
	"github.com/quin-vannatter/vpn-smb-manager/internal/security/password"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

// NewListCertificatesHandler lista los certificados del caller con su
// estado de conexión derivado del log.
func NewListCertificatesHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		certs, err := c.Store.ListCertificates(r.Context(), u.Username)
		if err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		ids := make([]string, len(certs))
		for i, cert := range certs {
			ids[i] = cert.ID
		}
		states := c.Ledger.ConnectionStates(r.Context(), ids)

		out := make([]CertificateDTO, len(certs))
		for i := range certs {
			out[i] = toCertificateDTO(&certs[i], states[i])
		}
		writeJSON(w, http.StatusOK, out)
	}
}

type createCertificateRequest struct {
	Password string `json:"password"`
}

// NewCreateCertificateHandler emite un certificado para el caller. La
// contraseña protege la clave privada y debe coincidir con la de la cuenta.
func NewCreateCertificateHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		var req createCertificateRequest
		if !readJSON(w, r, &req) {
			return
		}
		if req.Password == "" || !password.Verify(u.PasswordHash, req.Password) {
			writeEmpty(w, http.StatusUnauthorized)
			return
		}
		cert, err := c.Ledger.Issue(r.Context(), u.Username, req.Password)
		if err != nil {
			writeEmpty(w, http.StatusBadGateway)
			return
		}
		writeJSON(w, http.StatusOK, toCertificateDTO(cert, c.Ledger.ConnectionState(r.Context(), cert.ID)))
	}
}

// NewRevokeCertificateHandler revoca un certificado puntual. No-admins solo
// pueden revocar certificados propios.
func NewRevokeCertificateHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		id := chi.URLParam(r, "id")

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
		if err := c.Ledger.Revoke(r.Context(), id); err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		writeEmpty(w, http.StatusOK)
	}
}

// NewRevokeAllCertificatesHandler revoca todos los certificados del caller.
func NewRevokeAllCertificatesHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		if err := c.Ledger.RevokeAllFor(r.Context(), u.Username); err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		writeEmpty(w, http.StatusOK)
	}
}
