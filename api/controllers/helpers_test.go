package controllers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
)

// withURLParam seeds a chi route parameter for handlers exercised outside the
// router.
func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil {
		rctx = chi.NewRouteContext()
		r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
	}
	rctx.URLParams.Add(key, value)
	return r
}
