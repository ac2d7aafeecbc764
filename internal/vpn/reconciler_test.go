package vpn

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/quin-vannatter/vpn-smb-manager/internal/command"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

func protectedSet(ids ...string) func(string) bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return func(id string) bool { return set[id] }
}

func TestSweep_RevokesIdleUnprotectedGuests(t *testing.T) {
	ctx := context.Background()
	l, store, fake := newTestLedger()

	connected, _ := l.Issue(ctx, "", "")
	graced, _ := l.Issue(ctx, "", "")
	idle, _ := l.Issue(ctx, "", "")
	member, _ := l.Issue(ctx, "alice", "")

	fake.SetLog(connectLine("2024-03-05 17:32:11", connected.ID, "203.0.113.7:51820"))

	r := NewReconciler(l, protectedSet(graced.ID), time.Minute)
	survivors, err := r.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if survivors != 2 {
		t.Fatalf("survivors: got %d want 2", survivors)
	}

	if _, err := store.GetCertificate(ctx, idle.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("idle guest should be revoked, got %v", err)
	}
	for _, id := range []string{connected.ID, graced.ID, member.ID} {
		if _, err := store.GetCertificate(ctx, id); err != nil {
			t.Fatalf("certificate %s should survive: %v", id, err)
		}
	}
}

func TestSweep_MemberCertificatesNeverTouched(t *testing.T) {
	ctx := context.Background()
	l, store, fake := newTestLedger()

	if _, err := l.Issue(ctx, "alice", ""); err != nil {
		t.Fatalf("issue: %v", err)
	}

	r := NewReconciler(l, protectedSet(), time.Minute)
	if _, err := r.Sweep(ctx); err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if certs, _ := store.ListCertificates(ctx, "alice"); len(certs) != 1 {
		t.Fatalf("member certificate must survive sweeps: %+v", certs)
	}
	if n := fake.CallCount(command.ScriptRevokeCertificate); n != 0 {
		t.Fatalf("nothing should be revoked, ran %d times", n)
	}
}

func TestSweep_FailedStoreDeleteCountsAsSurvivor(t *testing.T) {
	ctx := context.Background()
	l, base, _ := newTestLedger()

	guest, _ := l.Issue(ctx, "", "")
	l.store = &failingDeleteStore{Repository: base, failID: guest.ID}

	r := NewReconciler(l, protectedSet(), time.Minute)
	survivors, err := r.Sweep(ctx)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if survivors != 1 {
		t.Fatalf("failed revocation should count as survivor, got %d", survivors)
	}
}

// failingDeleteStore envuelve el store real y hace fallar el borrado de un
// id puntual.
type failingDeleteStore struct {
	core.Repository
	failID string
}

func (s *failingDeleteStore) DeleteCertificate(ctx context.Context, id string) error {
	if id == s.failID {
		return errors.New("disk on fire")
	}
	return s.Repository.DeleteCertificate(ctx, id)
}

func TestSweep_GuestLifecycleAfterGraceExpires(t *testing.T) {
	ctx := context.Background()
	l, store, _ := newTestLedger()

	guest, _ := l.Issue(ctx, "", "")

	// Mientras dura la gracia el certificado sobrevive aunque nadie se haya
	// conectado; cuando la gracia cae y sigue sin conexión, el sweep lo
	// reclama.
	inGrace := protectedSet(guest.ID)
	r := NewReconciler(l, inGrace, time.Minute)
	if survivors, _ := r.Sweep(ctx); survivors != 1 {
		t.Fatal("guest should survive during grace")
	}

	r.protected = protectedSet()
	if survivors, _ := r.Sweep(ctx); survivors != 0 {
		t.Fatal("guest should be reclaimed after grace")
	}
	if _, err := store.GetCertificate(ctx, guest.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("guest certificate should be gone, got %v", err)
	}
}
