package http

import (
	"encoding/json"
	"net/http"

	"github.com/quin-vannatter/vpn-smb-manager/internal/http/middlewares"
)

type apiError struct {
	Error            string `json:"error"`
	ErrorDescription string `json:"error_description,omitempty"`
	RequestID        string `json:"request_id,omitempty"`
}

// WriteError responde un error JSON con el request id del contexto, para
// poder correlacionar contra los logs.
func WriteError(w http.ResponseWriter, r *http.Request, status int, code, desc string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiError{
		Error:            code,
		ErrorDescription: desc,
		RequestID:        middlewares.GetRequestID(r.Context()),
	})
}
