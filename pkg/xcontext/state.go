package xcontext

import "context"

type stateKey struct{}

// requestState holds the per-request values that middlewares and closers
// mutate after the handler has returned.
type requestState struct {
	response any
	err      error
}

// WithRequestState must be installed by the router before any middleware
// runs. SetResponse and SetError are no-ops without it.
func WithRequestState(ctx context.Context) context.Context {
	return context.WithValue(ctx, stateKey{}, &requestState{})
}

func SetResponse(ctx context.Context, resp any) {
	if state, ok := ctx.Value(stateKey{}).(*requestState); ok {
		state.response = resp
	}
}

func Response(ctx context.Context) any {
	if state, ok := ctx.Value(stateKey{}).(*requestState); ok {
		return state.response
	}

	return nil
}

func SetError(ctx context.Context, err error) {
	if state, ok := ctx.Value(stateKey{}).(*requestState); ok {
		state.err = err
	}
}

func Error(ctx context.Context) error {
	if state, ok := ctx.Value(stateKey{}).(*requestState); ok {
		return state.err
	}

	return nil
}
