package handlers

import (
	"net/http"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
)

// NewHealthzHandler reports process liveness and storage reachability.
func NewHealthzHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := c.Store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "degraded",
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
