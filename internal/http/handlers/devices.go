package handlers

import (
	"net/http"
	"strings"

	"github.com/quin-vannatter/vpn-smb-manager/internal/app"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

// NewListDevicesHandler lista los nombres amigables reportados por MAC.
func NewListDevicesHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		devices, err := c.Store.ListDevices(r.Context())
		if err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		out := make([]DeviceDTO, 0, len(devices))
		for _, d := range devices {
			out = append(out, DeviceDTO{MAC: d.MAC, Name: d.Name})
		}
		writeJSON(w, http.StatusOK, out)
	}
}

// NewUpsertDeviceHandler registra o renombra un device por MAC; un nombre
// vacío lo borra.
func NewUpsertDeviceHandler(c *app.Container) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req DeviceDTO
		if !readJSON(w, r, &req) {
			return
		}
		req.MAC = strings.TrimSpace(strings.ToLower(req.MAC))
		if req.MAC == "" {
			writeEmpty(w, http.StatusBadRequest)
			return
		}
		if strings.TrimSpace(req.Name) == "" {
			if err := c.Store.DeleteDevice(r.Context(), req.MAC); err != nil {
				writeEmpty(w, http.StatusInternalServerError)
				return
			}
			writeEmpty(w, http.StatusOK)
			return
		}
		if err := c.Store.UpsertDevice(r.Context(), &core.Device{MAC: req.MAC, Name: req.Name}); err != nil {
			writeEmpty(w, http.StatusInternalServerError)
			return
		}
		writeEmpty(w, http.StatusOK)
	}
}
