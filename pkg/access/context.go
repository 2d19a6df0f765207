package access

import "context"

type resolvedAccessCtxKey struct{}

// SetResolvedAccessToContext stores a resolution result in the context so a
// request pipeline resolves once and downstream handlers reuse the value.
// The engine itself never caches across requests.
func SetResolvedAccessToContext(ctx context.Context, a *ResolvedAccess) context.Context {
	return context.WithValue(ctx, resolvedAccessCtxKey{}, a)
}

// GetResolvedAccessFromContext retrieves the resolution result, if present.
func GetResolvedAccessFromContext(ctx context.Context) (*ResolvedAccess, bool) {
	a, ok := ctx.Value(resolvedAccessCtxKey{}).(*ResolvedAccess)
	return a, ok
}

// MustResolvedAccessFromContext retrieves the resolution result or returns
// ErrResolvedAccessNotInContext when the pipeline did not resolve first.
func MustResolvedAccessFromContext(ctx context.Context) (*ResolvedAccess, error) {
	a, ok := GetResolvedAccessFromContext(ctx)
	if !ok {
		return nil, ErrResolvedAccessNotInContext
	}
	return a, nil
}
