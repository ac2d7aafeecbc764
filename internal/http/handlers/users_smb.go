package handlers

import (
	"fmt"
	"net/http"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/http/middlewares"
)

// NewSMBScriptHandler descarga el .bat que monta el share del usuario.
func NewSMBScriptHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		u := middlewares.GetUser(r.Context())
		script, err := c.Shares.MountScript(r.Context(), u.Username, u.SMBPassword)
		if err != nil {
			writeEmpty(w, http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "application/bat")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s-drive.bat", u.Username))
		w.Header().Set("Access-Control-Expose-Headers", "Content-Disposition")
		_, _ = w.Write([]byte(script))
	}
}
