// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/pollgate/auth"
)

type callerKey struct{}

// ContextWithCaller stores the verified caller on ctx.
func ContextWithCaller(ctx context.Context, c auth.Caller) context.Context {
	return context.WithValue(ctx, callerKey{}, c)
}

// CallerFromContext returns the request's caller, or an anonymous caller.
func CallerFromContext(ctx context.Context) auth.Caller {
	c, _ := ctx.Value(callerKey{}).(auth.Caller)
	return c
}

// WithCaller resolves an optional bearer token. Requests without an
// Authorization header continue as anonymous; a token that fails
// verification is rejected with 401.
func WithCaller(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			next(w, r)
			return
		}

		caller, ok := verify(w, secret, header)
		if !ok {
			return
		}
		next(w, r.WithContext(ContextWithCaller(r.Context(), caller)))
	}
}

// RequireCaller rejects requests that do not carry a valid bearer token.
func RequireCaller(secret string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := verify(w, secret, r.Header.Get("Authorization"))
		if !ok {
			return
		}
		next(w, r.WithContext(ContextWithCaller(r.Context(), caller)))
	}
}

func verify(w http.ResponseWriter, secret, header string) (auth.Caller, bool) {
	tok, err := auth.BearerToken(header)
	if err != nil {
		ErrorResponse(w, http.StatusUnauthorized, "Authentication required")
		return auth.Caller{}, false
	}

	caller, err := auth.ParseToken(secret, tok)
	if err != nil {
		slog.Warn("token rejected", "error", err)
		ErrorResponse(w, http.StatusUnauthorized, "Invalid or expired token")
		return auth.Caller{}, false
	}
	return caller, true
}
