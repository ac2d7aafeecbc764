package vpn

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
)

// Reconciler barre periódicamente los certificados de invitado y revoca los
// que no están conectados ni dentro de su período de gracia post-emisión.
// Estados por certificado: Provisioned -> (Connected | Idle) -> Revoked.
type Reconciler struct {
	ledger    *Ledger
	protected func(certificateID string) bool
	interval  time.Duration
	log       *zap.Logger
}

// NewReconciler arma el reconciler. protected consulta el set de gracia del
// registry de invites; un certificado protegido nunca se revoca en el sweep.
func NewReconciler(ledger *Ledger, protected func(string) bool, interval time.Duration) *Reconciler {
	return &Reconciler{
		ledger:    ledger,
		protected: protected,
		interval:  interval,
		log:       logger.Named("reconciler"),
	}
}

// Sweep hace una pasada y devuelve cuántos certificados de invitado
// sobrevivieron (conectados o todavía en gracia).
func (r *Reconciler) Sweep(ctx context.Context) (int, error) {
	guests, err := r.ledger.store.ListGuestCertificates(ctx)
	if err != nil {
		return 0, err
	}
	ids := make([]string, len(guests))
	for i, c := range guests {
		ids[i] = c.ID
	}
	states := r.ledger.ConnectionStates(ctx, ids)

	survivors := 0
	for i, c := range guests {
		if states[i].Connected || r.protected(c.ID) {
			survivors++
			continue
		}
		if err := r.ledger.Revoke(ctx, c.ID); err != nil {
			r.log.Error("guest revocation failed", logger.CertificateID(c.ID), logger.Err(err))
			survivors++
		}
	}

	reconcileSweeps.Inc()
	guestCertificates.Set(float64(survivors))
	if len(guests) > 0 {
		r.log.Info("guest sweep finished",
			logger.Int("guests", len(guests)),
			logger.Int("survivors", survivors),
		)
	}
	return survivors, nil
}

// Run ejecuta sweeps en el intervalo configurado hasta que el contexto se
// cancele.
func (r *Reconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := r.Sweep(ctx); err != nil {
				r.log.Error("sweep failed", logger.Err(err))
			}
		}
	}
}
