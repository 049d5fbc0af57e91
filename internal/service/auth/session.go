package auth

import (
	"context"

	"github.com/ougirez/sdgdash/internal/domain"
)

type sessionKey struct{}

func ContextWithSession(ctx context.Context, session *domain.Session) context.Context {
	return context.WithValue(ctx, sessionKey{}, session)
}

func SessionFromContext(ctx context.Context) (*domain.Session, bool) {
	session, ok := ctx.Value(sessionKey{}).(*domain.Session)
	return session, ok && session != nil
}
