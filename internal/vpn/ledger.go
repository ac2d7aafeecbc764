// Package vpn contiene el motor de ciclo de vida de certificados: el parser
// puro del log de conexiones, el ledger que orquesta emisión/revocación
// contra el store y la PKI externa, y el reconciler de invitados.
package vpn

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/quin-vannatter/vpn-smb-manager/internal/command"
	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
	"github.com/quin-vannatter/vpn-smb-manager/internal/security/password"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

// ErrToolFailure indica que la herramienta PKI externa falló; la operación
// resuelve a resultado ausente, el estado del ledger queda sin cambios.
var ErrToolFailure = errors.New("external tool failure")

// Cantidad de certificados parseados en paralelo sobre un mismo snapshot
// del log.
const parseConcurrency = 8

type Ledger struct {
	store  core.Repository
	runner command.Runner
	domain string
	log    *zap.Logger
	locks  keyedLocks
}

func NewLedger(store core.Repository, runner command.Runner, domain string) *Ledger {
	return &Ledger{
		store:  store,
		runner: runner,
		domain: domain,
		log:    logger.Named("ledger"),
	}
}

// Issue genera un id nuevo, materializa el certificado en la PKI externa y
// recién entonces persiste el registro. username == "" emite un certificado
// de invitado (sin dueño). transportPassword opcional protege la clave
// privada; llega base64-encoded y se decodifica antes de pasarla al script.
func (l *Ledger) Issue(ctx context.Context, username, transportPassword string) (*core.Certificate, error) {
	id := uuid.NewString()
	unlock := l.locks.lock(id)
	defer unlock()

	args := []string{id}
	if transportPassword != "" {
		plain, err := password.Decode(transportPassword)
		if err != nil {
			return nil, core.ErrInvalid
		}
		args = append(args, plain)
	}

	if _, err := l.runner.Run(ctx, command.ScriptCreateCertificate, args...); err != nil {
		l.log.Error("certificate issuance failed", logger.CertificateID(id), logger.Err(err))
		return nil, fmt.Errorf("%w: %s", ErrToolFailure, command.ScriptCreateCertificate)
	}

	cert := &core.Certificate{ID: id}
	if username != "" {
		cert.Username = &username
	}
	if err := l.store.CreateCertificate(ctx, cert); err != nil {
		return nil, fmt.Errorf("persist certificate: %w", err)
	}
	certificatesIssued.Inc()
	l.log.Info("certificate issued", logger.CertificateID(id), logger.Username(username))
	return cert, nil
}

// Revoke revoca en la PKI y borra el registro. El registro se borra aunque
// la herramienta externa falle: preferimos limpiar estado a que un registro
// sobreviva a un intento de revocación. Revocar un id inexistente es un
// no-op sin invocación externa.
func (l *Ledger) Revoke(ctx context.Context, id string) error {
	unlock := l.locks.lock(id)
	defer unlock()

	if _, err := l.store.GetCertificate(ctx, id); err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil
		}
		return err
	}

	if _, err := l.runner.Run(ctx, command.ScriptRevokeCertificate, id); err != nil {
		l.log.Warn("revoke tool failed, deleting record anyway", logger.CertificateID(id), logger.Err(err))
	}
	if err := l.store.DeleteCertificate(ctx, id); err != nil {
		return fmt.Errorf("delete certificate: %w", err)
	}
	certificatesRevoked.Inc()
	l.log.Info("certificate revoked", logger.CertificateID(id))
	return nil
}

// RevokeAllFor revoca todos los certificados de un usuario.
func (l *Ledger) RevokeAllFor(ctx context.Context, username string) error {
	certs, err := l.store.ListCertificates(ctx, username)
	if err != nil {
		return err
	}
	for _, c := range certs {
		if err := l.Revoke(ctx, c.ID); err != nil {
			return err
		}
	}
	return nil
}

// ConnectionState deriva el estado de conexión actual de un certificado.
func (l *Ledger) ConnectionState(ctx context.Context, id string) ConnectionRecord {
	states := l.ConnectionStates(ctx, []string{id})
	return states[0]
}

// ConnectionStates resuelve el estado de varios certificados contra un único
// snapshot del log. Si el log no se puede obtener, todos se reportan como
// desconectados.
func (l *Ledger) ConnectionStates(ctx context.Context, ids []string) []ConnectionRecord {
	out := make([]ConnectionRecord, len(ids))
	logText, err := l.runner.Run(ctx, command.ScriptListConnections)
	if err != nil {
		l.log.Warn("connection log unavailable", logger.Err(err))
		for i, id := range ids {
			out[i] = ConnectionRecord{ID: id}
		}
		return out
	}

	g, _ := errgroup.WithContext(ctx)
	g.SetLimit(parseConcurrency)
	for i, id := range ids {
		g.Go(func() error {
			out[i] = ParseConnectionState(logText, id)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// Unused devuelve los certificados del usuario que no están conectados,
// para reusar en descargas en vez de emitir siempre uno nuevo.
func (l *Ledger) Unused(ctx context.Context, username string) ([]core.Certificate, error) {
	certs, err := l.store.ListCertificates(ctx, username)
	if err != nil {
		return nil, err
	}
	ids := make([]string, len(certs))
	for i, c := range certs {
		ids[i] = c.ID
	}
	states := l.ConnectionStates(ctx, ids)

	var out []core.Certificate
	for i, c := range certs {
		if !states[i].Connected {
			out = append(out, c)
		}
	}
	return out, nil
}

// UserConnected indica si algún certificado del usuario está conectado.
func (l *Ledger) UserConnected(ctx context.Context, username string) bool {
	certs, err := l.store.ListCertificates(ctx, username)
	if err != nil || len(certs) == 0 {
		return false
	}
	ids := make([]string, len(certs))
	for i, c := range certs {
		ids[i] = c.ID
	}
	for _, st := range l.ConnectionStates(ctx, ids) {
		if st.Connected {
			return true
		}
	}
	return false
}

// Download obtiene el perfil .ovpn (tun o tap) de un certificado emitido.
func (l *Ledger) Download(ctx context.Context, id, kind string) (string, error) {
	if kind != "tap" {
		kind = "tun"
	}
	out, err := l.runner.Run(ctx, command.ScriptGetCertificate, id, kind, l.domain)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrToolFailure, command.ScriptGetCertificate)
	}
	return out, nil
}
