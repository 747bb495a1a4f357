package controllers

import (
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
)

// routedHandler mounts the handler behind a chi pattern so URL params resolve.
func routedHandler(t *testing.T, method, pattern string, handler http.HandlerFunc) http.Handler {
	t.Helper()

	r := chi.NewRouter()
	r.Method(method, pattern, handler)
	return r
}
