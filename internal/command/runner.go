// Package command modela la invocación de las herramientas externas del
// manager (scripts de PKI, shares SMB y log de conexiones) detrás de un
// puerto angosto, con una implementación real sobre os/exec y una falsa
// para tests.
package command

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
)

// Nombres de scripts conocidos, relativos al directorio configurado.
const (
	ScriptCreateCertificate = "create_certificate.sh"
	ScriptRevokeCertificate = "revoke_certificate.sh"
	ScriptGetCertificate    = "get_certificate.sh"
	ScriptListConnections   = "list_connections.sh"
	ScriptCreateSMBUser     = "create_user.sh"
	ScriptRemoveSMBUser     = "remove_user.sh"
	ScriptUpdateShares      = "update_shares.sh"
	ScriptGetSMBShare       = "get_smb_share.sh"
)

// Runner ejecuta una herramienta externa y devuelve su stdout.
// Un error representa tool-not-found, exit != 0 o timeout; los callers
// lo loguean y lo tratan como resultado ausente, nunca como fatal.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// Exec es el Runner real: spawnea scripts desde Dir.
type Exec struct {
	Dir     string
	Timeout time.Duration
}

func NewExec(dir string, timeout time.Duration) *Exec {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &Exec{Dir: dir, Timeout: timeout}
}

func (e *Exec) Run(ctx context.Context, name string, args ...string) (string, error) {
	// Una vez arrancado, el script corre hasta su timeout propio aunque el
	// request que lo disparó se cancele.
	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.Timeout)
	defer cancel()

	cmd := exec.CommandContext(runCtx, filepath.Join(e.Dir, name), args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		logger.Named("command").Error("script failed",
			logger.Script(name),
			logger.String("stderr", stderr.String()),
			logger.Err(err),
		)
		return "", fmt.Errorf("run %s: %w", name, err)
	}
	return stdout.String(), nil
}
