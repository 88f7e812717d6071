package router

import (
	"context"
	"net/http"

	"github.com/chance-app/backend/pkg/xcontext"
)

// HandlerFunc is the signature of every endpoint. The request is bound from
// the query string for GET endpoints and from the JSON body for POST ones.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context; if it
// returns a nil context, the current one is kept.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response has been written, for logging and
// metrics purposes.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux     *http.ServeMux
	baseCtx context.Context

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a root router. The given context must carry configs, logger,
// database, and token engine; every request context derives from it.
func New(ctx context.Context) *Router {
	return &Router{
		mux:     http.NewServeMux(),
		baseCtx: ctx,
	}
}

// Branch returns a router sharing the same mux but with its own middleware
// chain, so groups of endpoints can differ in authentication requirements.
func (r *Router) Branch() *Router {
	branch := &Router{
		mux:     r.mux,
		baseCtx: r.baseCtx,
	}

	branch.befores = append(branch.befores, r.befores...)
	branch.afters = append(branch.afters, r.afters...)
	branch.closers = append(branch.closers, r.closers...)
	return branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := xcontext.WithRequestState(router.baseCtx)
		ctx = xcontext.WithHTTPRequest(ctx, req)
		ctx = xcontext.WithHTTPWriter(ctx, w)

		func() {
			if req.Method != method {
				xcontext.SetError(ctx, errNotSupportedMethod)
				return
			}

			for _, middleware := range router.befores {
				newCtx, err := middleware(ctx)
				if err != nil {
					xcontext.SetError(ctx, err)
					return
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}

			var request Request
			if err := bindRequest(req, method, &request); err != nil {
				xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
				xcontext.SetError(ctx, errBadRequest)
				return
			}

			resp, err := handler(ctx, &request)
			if err != nil {
				xcontext.SetError(ctx, err)
				return
			}

			xcontext.SetResponse(ctx, resp)

			for _, middleware := range router.afters {
				newCtx, err := middleware(ctx)
				if err != nil {
					xcontext.SetError(ctx, err)
					return
				}

				if newCtx != nil {
					ctx = newCtx
				}
			}
		}()

		writeResponse(ctx)

		for _, closer := range router.closers {
			closer(ctx)
		}
	}
}
