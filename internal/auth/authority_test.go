package auth

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"
	"time"

	"github.com/quin-vannatter/vpn-smb-manager/internal/security/password"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/memory"
)

func transport(plain string) string {
	return base64.StdEncoding.EncodeToString([]byte(plain))
}

func seedUser(t *testing.T, store *memory.Store, username, plain string) {
	t.Helper()
	hash, err := password.Hash(transport(plain))
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if err := store.CreateUser(context.Background(), &core.User{
		Username:     username,
		PasswordHash: hash,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
}

func TestAuthenticate_IssuesToken(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice", "hunter2")
	a := NewAuthority(store, 72*time.Hour)

	tok, err := a.Authenticate(ctx, "alice", transport("hunter2"))
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if tok == "" {
		t.Fatal("empty token")
	}

	u, err := store.GetUser(ctx, "alice")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if u.Token == nil || *u.Token != tok {
		t.Fatal("token not persisted")
	}
	if u.ExpirationDate == nil || time.Until(*u.ExpirationDate) < 71*time.Hour {
		t.Fatalf("expiration not ~72h out: %v", u.ExpirationDate)
	}
}

func TestAuthenticate_WrongCredentials(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice", "hunter2")
	a := NewAuthority(store, time.Hour)

	if _, err := a.Authenticate(ctx, "alice", transport("wrong")); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody", transport("hunter2")); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("want ErrUnauthorized, got %v", err)
	}
}

func TestAuthenticate_ReplacesPreviousToken(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice", "hunter2")
	a := NewAuthority(store, time.Hour)

	first, _ := a.Authenticate(ctx, "alice", transport("hunter2"))
	second, _ := a.Authenticate(ctx, "alice", transport("hunter2"))
	if first == second {
		t.Fatal("re-login should mint a fresh token")
	}

	// El token viejo ya no coincide con el valor almacenado.
	if _, err := a.Resolve(ctx, first); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("old token should be dead, got %v", err)
	}
	if _, err := a.Resolve(ctx, second); err != nil {
		t.Fatalf("new token should resolve: %v", err)
	}
}

func TestResolve_Expiry(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice", "hunter2")
	a := NewAuthority(store, time.Hour)

	tok, _ := a.Authenticate(ctx, "alice", transport("hunter2"))

	u, _ := store.GetUser(ctx, "alice")
	past := time.Now().Add(-time.Minute)
	u.ExpirationDate = &past
	if err := store.UpdateUser(ctx, u); err != nil {
		t.Fatalf("update: %v", err)
	}

	if _, err := a.Resolve(ctx, tok); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expired session should not resolve, got %v", err)
	}
}

func TestResolve_EmptyAndUnknown(t *testing.T) {
	a := NewAuthority(memory.New(), time.Hour)
	if _, err := a.Resolve(context.Background(), ""); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("empty token: %v", err)
	}
	if _, err := a.Resolve(context.Background(), "bogus"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("unknown token: %v", err)
	}
}

func TestInvalidate(t *testing.T) {
	ctx := context.Background()
	store := memory.New()
	seedUser(t, store, "alice", "hunter2")
	a := NewAuthority(store, time.Hour)

	tok, _ := a.Authenticate(ctx, "alice", transport("hunter2"))
	u, _ := a.Resolve(ctx, tok)

	if err := a.Invalidate(ctx, u); err != nil {
		t.Fatalf("invalidate: %v", err)
	}
	if _, err := a.Resolve(ctx, tok); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("invalidated session should not resolve, got %v", err)
	}
}
