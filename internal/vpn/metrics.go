package vpn

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	certificatesIssued = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vpn_certificates_issued_total",
		Help: "Certificados emitidos con éxito",
	})
	certificatesRevoked = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vpn_certificates_revoked_total",
		Help: "Certificados revocados (registro borrado)",
	})
	guestCertificates = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vpn_guest_certificates",
		Help: "Certificados de invitado vivos tras el último sweep",
	})
	reconcileSweeps = promauto.NewCounter(prometheus.CounterOpts{
		Name: "vpn_reconcile_sweeps_total",
		Help: "Pasadas del reconciler de invitados",
	})
)
