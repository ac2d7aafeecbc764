// Package invite mantiene el registro en memoria de códigos de invitación
// pendientes (member y guest) y el set de gracia de certificados de
// invitado. Todo el estado vive en caches con TTL por entrada: un código
// expirado simplemente no está, y consumirlo antes cancela su expiración.
package invite

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/quin-vannatter/vpn-smb-manager/internal/security/token"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

// Invite es una invitación pendiente. No se persiste nunca.
type Invite struct {
	Code               string
	Owner              string
	IsAdmin            bool
	GuestCertificateID string
	IssuedAt           time.Time
}

// Guest indica si la invitación redime un certificado pre-provisionado.
func (i *Invite) Guest() bool { return i.GuestCertificateID != "" }

// CertificateIssuer es la porción del ledger que el registry necesita para
// pre-provisionar certificados de invitado.
type CertificateIssuer interface {
	Issue(ctx context.Context, username, transportPassword string) (*core.Certificate, error)
}

type Registry struct {
	member *gocache.Cache
	guest  *gocache.Cache
	grace  *gocache.Cache
	ttl    time.Duration
	issuer CertificateIssuer
}

// NewRegistry crea el registro. ttl es la vida de un código; grace es la
// ventana post-emisión durante la cual el reconciler no puede reclamar un
// certificado de invitado.
func NewRegistry(ttl, grace time.Duration, issuer CertificateIssuer) *Registry {
	return &Registry{
		member: gocache.New(ttl, time.Minute),
		guest:  gocache.New(ttl, time.Minute),
		grace:  gocache.New(grace, time.Minute),
		ttl:    ttl,
		issuer: issuer,
	}
}

// IssueMember devuelve el código pendiente del owner si existe, o acuña uno
// nuevo. A lo sumo hay un código member pendiente por owner.
func (r *Registry) IssueMember(owner string, isAdmin bool) (string, error) {
	if code, ok := pendingFor(r.member, owner); ok {
		return code, nil
	}
	code, err := token.NewInviteCode()
	if err != nil {
		return "", fmt.Errorf("mint invite code: %w", err)
	}
	r.member.Set(code, Invite{Code: code, Owner: owner, IsAdmin: isAdmin, IssuedAt: time.Now()}, r.ttl)
	return code, nil
}

// IssueGuest aplica el mismo dedupe por owner, pero además pre-provisiona un
// certificado sin dueño y lo registra en el set de gracia, para que el
// invitado tenga ventana de conectarse antes de que el reconciler lo reclame.
func (r *Registry) IssueGuest(ctx context.Context, owner string) (string, error) {
	if code, ok := pendingFor(r.guest, owner); ok {
		return code, nil
	}
	cert, err := r.issuer.Issue(ctx, "", "")
	if err != nil {
		return "", err
	}
	code, err := token.NewInviteCode()
	if err != nil {
		return "", fmt.Errorf("mint invite code: %w", err)
	}
	r.guest.Set(code, Invite{
		Code:               code,
		Owner:              owner,
		GuestCertificateID: cert.ID,
		IssuedAt:           time.Now(),
	}, r.ttl)
	r.grace.SetDefault(cert.ID, struct{}{})
	return code, nil
}

// Redeem devuelve la invitación viva para ese código sin quitarla del
// registro. La eliminación ocurre por TTL o por Consume tras un
// enrolamiento exitoso.
func (r *Registry) Redeem(code string) (*Invite, bool) {
	for _, c := range []*gocache.Cache{r.member, r.guest} {
		if v, ok := c.Get(code); ok {
			inv := v.(Invite)
			return &inv, true
		}
	}
	return nil, false
}

// Consume elimina un código ya redimido, cancelando su expiración pendiente.
func (r *Registry) Consume(code string) {
	r.member.Delete(code)
	r.guest.Delete(code)
}

// Protected indica si un certificado de invitado sigue en su período de
// gracia. Lo consulta el reconciler antes de revocar.
func (r *Registry) Protected(certificateID string) bool {
	_, ok := r.grace.Get(certificateID)
	return ok
}

func pendingFor(c *gocache.Cache, owner string) (string, bool) {
	for code, item := range c.Items() {
		if inv, ok := item.Object.(Invite); ok && inv.Owner == owner {
			return code, true
		}
	}
	return "", false
}
