package auth

import (
	"context"
	"sync"
)

// Session is the identity resolved for a single request.
type Session struct {
	Authenticated bool
	UserID        string
	IsAdmin       bool
}

// Resolution is a resolved session plus the instruction to drop the
// session cookie, which the HTTP layer carries out.
type Resolution struct {
	Session     Session
	ClearCookie bool
}

// Resolver turns raw cookie values into sessions. It has no side effects.
type Resolver struct {
	secretKey []byte
}

func NewResolver(secretKey []byte) *Resolver {
	return &Resolver{secretKey: secretKey}
}

// Resolve never fails: an absent token yields an anonymous session, and an
// invalid or expired one yields an anonymous session with ClearCookie set.
func (r *Resolver) Resolve(rawToken string) Resolution {
	if rawToken == "" {
		return Resolution{}
	}

	claims, err := ParseToken(rawToken, r.secretKey)
	if err != nil {
		return Resolution{ClearCookie: true}
	}

	return Resolution{Session: Session{
		Authenticated: true,
		UserID:        claims.UserID,
		IsAdmin:       claims.IsAdmin,
	}}
}

// Lazy binds rawToken to a LazySession. The token is captured now, so later
// cookie changes within the request are not observed.
func (r *Resolver) Lazy(rawToken string) *LazySession {
	return NewLazySession(func() Resolution { return r.Resolve(rawToken) })
}

// LazySession resolves at most once, on first use. One instance belongs to
// one request.
type LazySession struct {
	once    sync.Once
	resolve func() Resolution
	res     Resolution
}

func NewLazySession(resolve func() Resolution) *LazySession {
	return &LazySession{resolve: resolve}
}

func (l *LazySession) Resolution() Resolution {
	l.once.Do(func() { l.res = l.resolve() })
	return l.res
}

func (l *LazySession) Session() Session {
	return l.Resolution().Session
}

type lazySessionKey struct{}

func WithLazySession(ctx context.Context, l *LazySession) context.Context {
	return context.WithValue(ctx, lazySessionKey{}, l)
}

// LazySessionFromContext returns the request's LazySession, or nil.
func LazySessionFromContext(ctx context.Context) *LazySession {
	l, _ := ctx.Value(lazySessionKey{}).(*LazySession)
	return l
}

// SessionFromContext resolves the request session, anonymous when the
// context carries none.
func SessionFromContext(ctx context.Context) Session {
	if l := LazySessionFromContext(ctx); l != nil {
		return l.Session()
	}
	return Session{}
}

// ContextWithSession stores an already resolved session. It is meant for
// callers outside the HTTP stack, such as CLI tools and tests.
func ContextWithSession(ctx context.Context, s Session) context.Context {
	return WithLazySession(ctx, NewLazySession(func() Resolution { return Resolution{Session: s} }))
}
