package router

import (
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestChain(t *testing.T) {
	tag := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Add("X-Order", name)
				next.ServeHTTP(w, r)
			})
		}
	}
	final := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})

	t.Run("FirstMiddlewareRunsOutermost", func(t *testing.T) {
		// Arrange
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		// Act
		Chain(final, tag("outer"), tag("inner")).ServeHTTP(rec, req)

		// Assert
		order := rec.Header().Values("X-Order")
		if len(order) != 2 || order[0] != "outer" || order[1] != "inner" {
			t.Fatalf("unexpected middleware order %v", order)
		}
		if rec.Code != http.StatusNoContent {
			t.Fatalf("unexpected status %d", rec.Code)
		}
	})

	t.Run("NoMiddlewareReturnsHandler", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		Chain(final).ServeHTTP(rec, req)

		if rec.Code != http.StatusNoContent {
			t.Fatalf("unexpected status %d", rec.Code)
		}
	})
}
