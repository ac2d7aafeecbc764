// Package auth emite, resuelve e invalida los tokens de sesión opacos que
// viven embebidos en el registro de usuario.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/quin-vannatter/vpn-smb-manager/internal/observability/logger"
	"github.com/quin-vannatter/vpn-smb-manager/internal/security/password"
	"github.com/quin-vannatter/vpn-smb-manager/internal/security/token"
	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

// ErrUnauthorized cubre credenciales inválidas y tokens ausentes/expirados.
var ErrUnauthorized = errors.New("unauthorized")

const tokenBytes = 32

type Authority struct {
	store    core.Repository
	lifespan time.Duration
}

func NewAuthority(store core.Repository, lifespan time.Duration) *Authority {
	return &Authority{store: store, lifespan: lifespan}
}

// Authenticate verifica las credenciales y emite un token fresco con
// expiración now+lifespan. El token anterior queda invalidado implícitamente:
// el valor almacenado es único y ya no coincide.
func (a *Authority) Authenticate(ctx context.Context, username, transportPassword string) (string, error) {
	u, err := a.store.GetUser(ctx, username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return "", ErrUnauthorized
		}
		return "", err
	}
	if !password.Verify(u.PasswordHash, transportPassword) {
		return "", ErrUnauthorized
	}

	t, err := token.GenerateOpaque(tokenBytes)
	if err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	exp := time.Now().Add(a.lifespan)
	u.Token = &t
	u.ExpirationDate = &exp
	if err := a.store.UpdateUser(ctx, u); err != nil {
		return "", err
	}
	logger.Named("auth").Info("session issued", logger.Username(username))
	return t, nil
}

// Resolve devuelve el usuario dueño del token presentado, o ErrUnauthorized
// si no existe o la sesión expiró. No muta token ni expiración: resolver una
// sesión nunca la acorta ni la extiende.
func (a *Authority) Resolve(ctx context.Context, t string) (*core.User, error) {
	if t == "" {
		return nil, ErrUnauthorized
	}
	u, err := a.store.GetUserByToken(ctx, t)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		return nil, err
	}
	if u.ExpirationDate == nil || !time.Now().Before(*u.ExpirationDate) {
		return nil, ErrUnauthorized
	}
	return u, nil
}

// Invalidate limpia el token almacenado, terminando la sesión de inmediato.
func (a *Authority) Invalidate(ctx context.Context, u *core.User) error {
	u.Token = nil
	u.ExpirationDate = nil
	if err := a.store.UpdateUser(ctx, u); err != nil {
		return err
	}
	logger.Named("auth").Info("session invalidated", logger.Username(u.Username))
	return nil
}
