package vpn

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/quin-vannatter/vpn-smb-manager/internal/command"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/memory"
)

func newTestLedger() (*Ledger, *memory.Store, *command.Fake) {
	store := memory.New()
	fake := command.NewFake()
	return NewLedger(store, fake, "vpn.example.com"), store, fake
}

func TestIssue_PassesDecodedPassword(t *testing.T) {
	ctx := context.Background()
	l, store, fake := newTestLedger()

	transport := base64.StdEncoding.EncodeToString([]byte("secret"))
	cert, err := l.Issue(ctx, "alice", transport)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cert.Username == nil || *cert.Username != "alice" {
		t.Fatalf("owner: %+v", cert.Username)
	}

	calls := fake.Calls()
	if len(calls) != 1 || calls[0].Name != command.ScriptCreateCertificate {
		t.Fatalf("calls: %+v", calls)
	}
	if len(calls[0].Args) != 2 || calls[0].Args[0] != cert.ID || calls[0].Args[1] != "secret" {
		t.Fatalf("args: %+v", calls[0].Args)
	}

	if _, err := store.GetCertificate(ctx, cert.ID); err != nil {
		t.Fatalf("record not persisted: %v", err)
	}
}

func TestIssue_GuestHasNoOwnerAndNoPassphrase(t *testing.T) {
	ctx := context.Background()
	l, store, fake := newTestLedger()

	cert, err := l.Issue(ctx, "", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if cert.Username != nil {
		t.Fatalf("guest must have no owner, got %v", *cert.Username)
	}
	if args := fake.Calls()[0].Args; len(args) != 1 {
		t.Fatalf("guest issue should not pass a passphrase: %+v", args)
	}

	guests, err := store.ListGuestCertificates(ctx)
	if err != nil || len(guests) != 1 {
		t.Fatalf("guests: %v %v", guests, err)
	}
}

func TestIssue_InvalidTransportPassword(t *testing.T) {
	l, _, fake := newTestLedger()

	_, err := l.Issue(context.Background(), "alice", "%%%not-base64%%%")
	if !errors.Is(err, core.ErrInvalid) {
		t.Fatalf("want ErrInvalid, got %v", err)
	}
	if n := fake.CallCount(command.ScriptCreateCertificate); n != 0 {
		t.Fatalf("tool should not run on bad input, ran %d times", n)
	}
}

func TestIssue_ToolFailureLeavesNoRecord(t *testing.T) {
	ctx := context.Background()
	l, store, fake := newTestLedger()
	fake.Fail[command.ScriptCreateCertificate] = true

	_, err := l.Issue(ctx, "alice", "")
	if !errors.Is(err, ErrToolFailure) {
		t.Fatalf("want ErrToolFailure, got %v", err)
	}
	certs, _ := store.ListCertificates(ctx, "alice")
	if len(certs) != 0 {
		t.Fatalf("no record should survive a failed issuance: %+v", certs)
	}
}

func TestRevoke_DeletesRecordDespiteToolFailure(t *testing.T) {
	ctx := context.Background()
	l, store, fake := newTestLedger()

	cert, err := l.Issue(ctx, "alice", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	fake.Fail[command.ScriptRevokeCertificate] = true
	if err := l.Revoke(ctx, cert.ID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	if _, err := store.GetCertificate(ctx, cert.ID); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("record should be gone, got %v", err)
	}
}

func TestRevoke_MissingIsNoOp(t *testing.T) {
	l, _, fake := newTestLedger()

	if err := l.Revoke(context.Background(), "no-such-id"); err != nil {
		t.Fatalf("revoke missing: %v", err)
	}
	if n := fake.CallCount(command.ScriptRevokeCertificate); n != 0 {
		t.Fatalf("revoke tool should not run for a missing id, ran %d times", n)
	}
}

func TestRevokeAllFor(t *testing.T) {
	ctx := context.Background()
	l, store, _ := newTestLedger()

	for i := 0; i < 3; i++ {
		if _, err := l.Issue(ctx, "alice", ""); err != nil {
			t.Fatalf("issue: %v", err)
		}
	}
	if _, err := l.Issue(ctx, "bob", ""); err != nil {
		t.Fatalf("issue: %v", err)
	}

	if err := l.RevokeAllFor(ctx, "alice"); err != nil {
		t.Fatalf("revoke all: %v", err)
	}
	if certs, _ := store.ListCertificates(ctx, "alice"); len(certs) != 0 {
		t.Fatalf("alice should have no certificates: %+v", certs)
	}
	if certs, _ := store.ListCertificates(ctx, "bob"); len(certs) != 1 {
		t.Fatalf("bob's certificate should survive: %+v", certs)
	}
}

func TestConnectionStates_ToolFailureReportsDisconnected(t *testing.T) {
	l, _, fake := newTestLedger()
	fake.Fail[command.ScriptListConnections] = true

	states := l.ConnectionStates(context.Background(), []string{certA, certB})
	for _, st := range states {
		if st.Connected {
			t.Fatalf("unavailable log must read as disconnected: %+v", st)
		}
	}
}

func TestUnused_SkipsConnectedCertificates(t *testing.T) {
	ctx := context.Background()
	l, _, fake := newTestLedger()

	connected, err := l.Issue(ctx, "alice", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	idle, err := l.Issue(ctx, "alice", "")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	fake.SetLog(connectLine("2024-03-05 17:32:11", connected.ID, "203.0.113.7:51820"))

	unused, err := l.Unused(ctx, "alice")
	if err != nil {
		t.Fatalf("unused: %v", err)
	}
	if len(unused) != 1 || unused[0].ID != idle.ID {
		t.Fatalf("unused: %+v", unused)
	}

	if !l.UserConnected(ctx, "alice") {
		t.Fatal("alice should read as connected")
	}
	if l.UserConnected(ctx, "bob") {
		t.Fatal("bob has no certificates")
	}
}

func TestDownload_KindAndDomain(t *testing.T) {
	ctx := context.Background()
	l, _, fake := newTestLedger()
	fake.Outputs[command.ScriptGetCertificate] = "client\ndev tun\n"

	out, err := l.Download(ctx, certA, "weird")
	if err != nil {
		t.Fatalf("download: %v", err)
	}
	if out != "client\ndev tun\n" {
		t.Fatalf("profile: %q", out)
	}

	if _, err := l.Download(ctx, certA, "tap"); err != nil {
		t.Fatalf("download tap: %v", err)
	}

	calls := fake.Calls()
	if got := calls[0].Args; got[0] != certA || got[1] != "tun" || got[2] != "vpn.example.com" {
		t.Fatalf("unknown kind should fall back to tun: %+v", got)
	}
	if got := calls[1].Args; got[1] != "tap" {
		t.Fatalf("tap kind should pass through: %+v", got)
	}
}
