package slogx

import (
	"context"
	"log/slog"
	"sync"
)

type ctxKey struct{}

type reqKey struct{}

// request is shared by every layer handling one HTTP request, so attributes
// learnt deep in the chain (the authenticated user) still reach the access
// log line written by HTTPMiddleware.
type request struct {
	mu     sync.Mutex
	userID string
}

func (r *request) setUser(id string) {
	r.mu.Lock()
	r.userID = id
	r.mu.Unlock()
}

func (r *request) user() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.userID
}

func WithContext(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the request logger, or slog.Default outside a request.
func FromContext(ctx context.Context) *slog.Logger {
	l, ok := ctx.Value(ctxKey{}).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return l
}

// WithUserID tags the context logger with the authenticated user. Inside
// HTTPMiddleware the user is also recorded on the request's access line.
func WithUserID(ctx context.Context, userID string) context.Context {
	if req, ok := ctx.Value(reqKey{}).(*request); ok {
		req.setUser(userID)
	}
	return WithContext(ctx, FromContext(ctx).With(KeyUserID, userID))
}
