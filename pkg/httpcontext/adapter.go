// Package httpcontext bridges fasthttp request contexts to stdlib
// contexts with a per-request deadline and request metadata attached.
package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/Ex1s9/game-catalog/pkg/logger"
)

// Meta is the request metadata carried through the context.
type Meta struct {
	RequestID  string
	RemoteAddr string
	UserAgent  string
}

type metaKey struct{}

// Adapter derives a deadline-bound context.Context from each request.
type Adapter struct {
	timeout time.Duration
}

func NewAdapter(timeout time.Duration) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Adapter{timeout: timeout}
}

// Attach builds the request-scoped context. The request id is taken from
// the X-Request-ID header when the caller sent one, minted otherwise, and
// always echoed back on the response.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	meta := Meta{
		RequestID: requestID(ctx),
		UserAgent: string(ctx.Request.Header.UserAgent()),
	}
	if addr := ctx.RemoteAddr(); addr != nil {
		meta.RemoteAddr = addr.String()
	}
	ctx.Response.Header.Set("X-Request-ID", meta.RequestID)

	stdCtx = logger.ContextWithRequestID(stdCtx, meta.RequestID)
	stdCtx = context.WithValue(stdCtx, metaKey{}, meta)
	return stdCtx, cancel
}

// FromContext returns the metadata attached by Attach, if any.
func FromContext(ctx context.Context) (Meta, bool) {
	meta, ok := ctx.Value(metaKey{}).(Meta)
	return meta, ok
}

func requestID(ctx *fasthttp.RequestCtx) string {
	if ctx != nil {
		if header := strings.TrimSpace(string(ctx.Request.Header.Peek("X-Request-ID"))); header != "" {
			return header
		}
	}
	return uuid.NewString()
}
