package web

import (
	"context"
	"net/http"

	"github.com/JonMunkholm/sitegrid/internal/core"
	"github.com/JonMunkholm/sitegrid/internal/web/middleware"
)

// withRequestMeta adds the client IP and User-Agent to ctx for the audit log.
func withRequestMeta(ctx context.Context, r *http.Request) context.Context {
	return core.ContextWithRequestMeta(ctx, core.RequestMeta{
		IPAddress: middleware.ClientIP(r),
		UserAgent: r.UserAgent(),
	})
}
