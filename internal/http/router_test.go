package http

import (
	"net/http"
	"strings"
	"testing"

	"github.com/preston-bernstein/borga-service/internal/app/collections"
	"github.com/preston-bernstein/borga-service/internal/catalog/fixture"
	"github.com/preston-bernstein/borga-service/internal/http/handlers"
	"github.com/preston-bernstein/borga-service/internal/store"
	"github.com/preston-bernstein/borga-service/internal/testutil"
)

func newRouter(withAdmin bool) http.Handler {
	svc := collections.NewService(store.NewMemoryStore(), fixture.New())
	svc.ConnectTokenWithUser("TOK", "Manuel")
	_ = svc.CreateUser("Manuel")
	var admin *handlers.AdminHandler
	if withAdmin {
		admin = handlers.NewAdminHandler(svc, "root", nil)
	}
	return NewRouter(handlers.NewHandler(svc, nil), admin)
}

func TestRouterRoutesKnownPaths(t *testing.T) {
	router := newRouter(true)

	cases := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/health", http.StatusOK},
		{http.MethodGet, "/users/Manuel", http.StatusOK},
		{http.MethodGet, "/users/nobody", http.StatusNotFound},
		{http.MethodGet, "/groups", http.StatusUnauthorized},
		{http.MethodGet, "/groups/1", http.StatusNotFound},
		{http.MethodGet, "/groups/abc", http.StatusBadRequest},
		{http.MethodGet, "/groups/1/games", http.StatusNotFound},
		{http.MethodDelete, "/groups/1/games/x", http.StatusUnauthorized},
		{http.MethodPost, "/admin/reset", http.StatusUnauthorized},
	}

	for _, tc := range cases {
		rr := testutil.Serve(router, tc.method, tc.path, nil)
		if rr.Code != tc.want {
			t.Fatalf("%s %s expected status %d, got %d", tc.method, tc.path, tc.want, rr.Code)
		}
	}
}

func TestRouterUnknownRouteReturns404(t *testing.T) {
	rr := testutil.Serve(newRouter(false), http.MethodGet, "/does-not-exist", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestRouterWrongMethodReturns405(t *testing.T) {
	rr := testutil.Serve(newRouter(false), http.MethodPatch, "/groups/1", strings.NewReader("{}"))
	testutil.AssertStatus(t, rr, http.StatusMethodNotAllowed)
}

func TestRouterOmitsAdminRoutesWithoutHandler(t *testing.T) {
	rr := testutil.Serve(newRouter(false), http.MethodPost, "/admin/reset", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}
