package scratch

import "context"

type contextKey struct{}

// NewContext returns a copy of ctx that carries p.
func NewContext(ctx context.Context, p *Pool) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the pool carried by ctx, if any.
func FromContext(ctx context.Context) (*Pool, bool) {
	p, ok := ctx.Value(contextKey{}).(*Pool)
	return p, ok && p != nil
}
