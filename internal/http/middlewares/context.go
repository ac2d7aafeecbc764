package middlewares

import (
	"context"

	"github.com/quin-vannatter/vpn-smb-manager/internal/store/core"
)

type ctxKeyRequestID struct{}
type ctxKeyUser struct{}

func setRequestID(ctx context.Context, rid string) context.Context {
	return context.WithValue(ctx, ctxKeyRequestID{}, rid)
}

// GetRequestID devuelve el request id inyectado por WithRequestID, o "".
func GetRequestID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyRequestID{}).(string); ok {
		return v
	}
	return ""
}

func setUser(ctx context.Context, u *core.User) context.Context {
	return context.WithValue(ctx, ctxKeyUser{}, u)
}

// GetUser devuelve el usuario autenticado del request, o nil.
func GetUser(ctx context.Context) *core.User {
	if v, ok := ctx.Value(ctxKeyUser{}).(*core.User); ok {
		return v
	}
	return nil
}
