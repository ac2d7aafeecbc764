package invite

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

type fakeIssuer struct {
	calls []string
	fail  bool
}

func (f *fakeIssuer) Issue(ctx context.Context, username, transportPassword string) (*core.Certificate, error) {
	f.calls = append(f.calls, username)
	if f.fail {
		return nil, context.DeadlineExceeded
	}
	return &core.Certificate{ID: uuid.NewString()}, nil
}

func TestIssueMember_DedupePerOwner(t *testing.T) {
	r := NewRegistry(time.Minute, time.Minute, &fakeIssuer{})

	a1, err := r.IssueMember("alice", false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	a2, _ := r.IssueMember("alice", false)
	if a1 != a2 {
		t.Fatalf("same owner should reuse the pending code: %s vs %s", a1, a2)
	}

	b, _ := r.IssueMember("bob", false)
	if b == a1 {
		t.Fatal("different owners must get different codes")
	}
}

func TestRedeemAndConsume(t *testing.T) {
	r := NewRegistry(time.Minute, time.Minute, &fakeIssuer{})

	code, _ := r.IssueMember("alice", true)
	inv, ok := r.Redeem(code)
	if !ok {
		t.Fatal("expected live invite")
	}
	if inv.Guest() {
		t.Fatal("member invite must not be a guest invite")
	}
	if !inv.IsAdmin || inv.Owner != "alice" {
		t.Fatalf("invite: %+v", inv)
	}

	// Redeem no consume: el código sigue vivo hasta Consume o TTL.
	if _, ok := r.Redeem(code); !ok {
		t.Fatal("redeem must not remove the code")
	}

	r.Consume(code)
	if _, ok := r.Redeem(code); ok {
		t.Fatal("consumed code should be gone")
	}
}

func TestRedeem_UnknownCode(t *testing.T) {
	r := NewRegistry(time.Minute, time.Minute, &fakeIssuer{})
	if _, ok := r.Redeem("NOPE"); ok {
		t.Fatal("unknown code should not redeem")
	}
}

func TestInviteExpiry(t *testing.T) {
	r := NewRegistry(30*time.Millisecond, time.Minute, &fakeIssuer{})

	code, _ := r.IssueMember("alice", false)
	time.Sleep(60 * time.Millisecond)
	if _, ok := r.Redeem(code); ok {
		t.Fatal("expired code should not redeem")
	}

	// Un owner con código expirado puede acuñar uno nuevo.
	again, err := r.IssueMember("alice", false)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if again == code {
		t.Fatal("expired code must not be reused")
	}
}

func TestIssueGuest_PreProvisionsCertificate(t *testing.T) {
	issuer := &fakeIssuer{}
	r := NewRegistry(time.Minute, time.Minute, issuer)

	code, err := r.IssueGuest(context.Background(), "alice")
	if err != nil {
		t.Fatalf("issue guest: %v", err)
	}
	if len(issuer.calls) != 1 || issuer.calls[0] != "" {
		t.Fatalf("guest certificate must be ownerless: %+v", issuer.calls)
	}

	inv, ok := r.Redeem(code)
	if !ok || !inv.Guest() {
		t.Fatalf("invite: %+v ok=%v", inv, ok)
	}
	if !r.Protected(inv.GuestCertificateID) {
		t.Fatal("fresh guest certificate should be in its grace period")
	}

	// Dedupe: el mismo owner no re-provisiona.
	again, _ := r.IssueGuest(context.Background(), "alice")
	if again != code {
		t.Fatal("same owner should reuse the pending guest code")
	}
	if len(issuer.calls) != 1 {
		t.Fatalf("issuer should run once, ran %d times", len(issuer.calls))
	}
}

func TestIssueGuest_IssuerFailure(t *testing.T) {
	r := NewRegistry(time.Minute, time.Minute, &fakeIssuer{fail: true})
	if _, err := r.IssueGuest(context.Background(), "alice"); err == nil {
		t.Fatal("issuer failure must surface")
	}
}

func TestProtected_ExpiresWithGrace(t *testing.T) {
	issuer := &fakeIssuer{}
	r := NewRegistry(time.Minute, 30*time.Millisecond, issuer)

	code, _ := r.IssueGuest(context.Background(), "alice")
	inv, _ := r.Redeem(code)

	if !r.Protected(inv.GuestCertificateID) {
		t.Fatal("should be protected right after issuance")
	}
	time.Sleep(60 * time.Millisecond)
	if r.Protected(inv.GuestCertificateID) {
		t.Fatal("grace should have expired")
	}
}
