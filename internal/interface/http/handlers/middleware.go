package handlers

import "net/http"

// ══════════════════════════════════════════════════════════════════════════════
// MIDDLEWARE COMPOSITION
// ══════════════════════════════════════════════════════════════════════════════

// MiddlewareFunc wraps an http.Handler with additional behavior.
type MiddlewareFunc func(http.Handler) http.Handler

// Chain composes middlewares so that the first one listed runs outermost.
func Chain(middlewares ...MiddlewareFunc) MiddlewareFunc {
	return func(final http.Handler) http.Handler {
		wrapped := final
		for i := len(middlewares) - 1; i >= 0; i-- {
			wrapped = middlewares[i](wrapped)
		}
		return wrapped
	}
}

// ChainHandler applies Chain directly to a terminal handler.
func ChainHandler(handler http.Handler, middlewares ...MiddlewareFunc) http.Handler {
	return Chain(middlewares...)(handler)
}

// ══════════════════════════════════════════════════════════════════════════════
// RESPONSE HEADER MIDDLEWARE
// ══════════════════════════════════════════════════════════════════════════════

// securityHeaders are set on every API response. The CSP assumes this
// server only ever serves JSON, never documents.
var securityHeaders = map[string]string{
	"X-Content-Type-Options":  "nosniff",
	"X-Frame-Options":         "DENY",
	"X-XSS-Protection":        "1; mode=block",
	"Referrer-Policy":         "strict-origin-when-cross-origin",
	"Content-Security-Policy": "default-src 'none'; frame-ancestors 'none'",
}

// SecurityHeadersMiddleware stamps the standard security headers.
func SecurityHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for name, value := range securityHeaders {
			h.Set(name, value)
		}
		next.ServeHTTP(w, r)
	})
}

// NoCacheMiddleware forbids intermediaries and browsers from caching
// responses. Scores and review states change between requests.
func NoCacheMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		next.ServeHTTP(w, r)
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST BODY LIMIT
// ══════════════════════════════════════════════════════════════════════════════

// RequestSizeLimitMiddleware rejects oversized bodies. Declared lengths
// above the limit fail fast with 413; chunked bodies are capped while
// being read via MaxBytesReader.
func RequestSizeLimitMiddleware(maxBytes int64) MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				http.Error(w, `{"error":"payload_too_large","message":"Request body exceeds the allowed size"}`,
					http.StatusRequestEntityTooLarge)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
