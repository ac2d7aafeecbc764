package memory

import (
	"context"
	"errors"
	"testing"

	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

func strptr(s string) *string { return &s }

func TestUserCRUD(t *testing.T) {
	ctx := context.Background()
	s := New()

	if _, err := s.GetUser(ctx, "alice"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	u := &core.User{Username: "alice", PasswordHash: "h", SMBPassword: "smb"}
	if err := s.CreateUser(ctx, u); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := s.CreateUser(ctx, u); !errors.Is(err, core.ErrConflict) {
		t.Fatalf("want ErrConflict, got %v", err)
	}

	u.IsAdmin = true
	if err := s.UpdateUser(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err := s.GetUser(ctx, "alice")
	if err != nil || !got.IsAdmin {
		t.Fatalf("get after update: %+v %v", got, err)
	}

	ok, err := s.AdminExists(ctx)
	if err != nil || !ok {
		t.Fatalf("admin exists: %v %v", ok, err)
	}

	if err := s.UpdateUser(ctx, &core.User{Username: "ghost"}); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("update missing: %v", err)
	}
}

func TestGetUserByToken(t *testing.T) {
	ctx := context.Background()
	s := New()
	tok := "opaque"
	_ = s.CreateUser(ctx, &core.User{Username: "alice", Token: &tok})

	got, err := s.GetUserByToken(ctx, "opaque")
	if err != nil || got.Username != "alice" {
		t.Fatalf("by token: %+v %v", got, err)
	}
	if _, err := s.GetUserByToken(ctx, "other"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}

func TestDeleteUser_CascadesCertificates(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateUser(ctx, &core.User{Username: "alice"})
	_ = s.CreateCertificate(ctx, &core.Certificate{ID: "c1", Username: strptr("alice")})
	_ = s.CreateCertificate(ctx, &core.Certificate{ID: "c2", Username: nil})

	if err := s.DeleteUser(ctx, "alice"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetCertificate(ctx, "c1"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("owned certificate should cascade, got %v", err)
	}
	if _, err := s.GetCertificate(ctx, "c2"); err != nil {
		t.Fatalf("guest certificate must survive: %v", err)
	}
}

func TestCertificateListing(t *testing.T) {
	ctx := context.Background()
	s := New()
	_ = s.CreateCertificate(ctx, &core.Certificate{ID: "b", Username: strptr("alice")})
	_ = s.CreateCertificate(ctx, &core.Certificate{ID: "a", Username: strptr("alice")})
	_ = s.CreateCertificate(ctx, &core.Certificate{ID: "g", Username: nil})

	certs, err := s.ListCertificates(ctx, "alice")
	if err != nil || len(certs) != 2 {
		t.Fatalf("list: %+v %v", certs, err)
	}
	if certs[0].ID != "a" || certs[1].ID != "b" {
		t.Fatalf("stable order expected: %+v", certs)
	}

	guests, err := s.ListGuestCertificates(ctx)
	if err != nil || len(guests) != 1 || guests[0].ID != "g" {
		t.Fatalf("guests: %+v %v", guests, err)
	}
}

func TestDevices(t *testing.T) {
	ctx := context.Background()
	s := New()

	_ = s.UpsertDevice(ctx, &core.Device{MAC: "aa:bb", Name: "laptop"})
	_ = s.UpsertDevice(ctx, &core.Device{MAC: "aa:bb", Name: "renamed"})

	d, err := s.GetDevice(ctx, "aa:bb")
	if err != nil || d.Name != "renamed" {
		t.Fatalf("upsert: %+v %v", d, err)
	}

	if err := s.DeleteDevice(ctx, "aa:bb"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := s.GetDevice(ctx, "aa:bb"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
}
