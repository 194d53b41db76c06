package mainloop

import (
	"context"
	"sync/atomic"
)

type mainKey struct{}

// mark ties a context to one task running on owner's main context.
type mark struct {
	owner  any
	active atomic.Bool
}

// WithMain returns a copy of ctx marked as running on owner's main context
// and a release func. Once release is called, the returned ctx and anything
// derived from it no longer count as main.
func WithMain(ctx context.Context, owner any) (context.Context, func()) {
	m := &mark{owner: owner}
	m.active.Store(true)
	return context.WithValue(ctx, mainKey{}, m), func() { m.active.Store(false) }
}

// ownedBy reports whether ctx carries a live mark from owner.
func ownedBy(ctx context.Context, owner any) bool {
	if ctx == nil {
		return false
	}
	m, ok := ctx.Value(mainKey{}).(*mark)
	return ok && m.owner == owner && m.active.Load()
}
