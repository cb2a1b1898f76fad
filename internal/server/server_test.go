package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/preston-bernstein/borga-service/internal/app/collections"
	"github.com/preston-bernstein/borga-service/internal/config"
	"github.com/preston-bernstein/borga-service/internal/domain/games"
	"github.com/preston-bernstein/borga-service/internal/metrics"
	"github.com/preston-bernstein/borga-service/internal/store"
	"github.com/preston-bernstein/borga-service/internal/testutil"
)

func do(t *testing.T, h http.Handler, method, path, token, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return testutil.ServeRequest(h, req)
}

func TestServerServesCollectionFlow(t *testing.T) {
	cat := testutil.NewStubCatalog(
		testutil.SampleGame("5H5JS0KLzK", "Wingspan"),
		testutil.SampleGame("8xos44jY7Q", "Everdell"),
	)
	cfg := config.Config{Port: "0", AdminToken: "root"}
	srv := newServerWithCatalog(cfg, nil, cat, metrics.NewRecorder())
	h := srv.Handler()

	testutil.AssertStatus(t, do(t, h, http.MethodGet, "/health", "", ""), http.StatusOK)
	testutil.AssertStatus(t, do(t, h, http.MethodPost, "/admin/tokens", "root", `{"token":"TOK","user":"Zé"}`), http.StatusCreated)
	testutil.AssertStatus(t, do(t, h, http.MethodPost, "/users", "", `{"name":"Zé"}`), http.StatusCreated)
	testutil.AssertStatus(t, do(t, h, http.MethodPost, "/groups", "TOK", `{"name":"Sunday"}`), http.StatusCreated)
	testutil.AssertStatus(t, do(t, h, http.MethodPost, "/groups/1/games", "TOK", `{"id":"5H5JS0KLzK"}`), http.StatusCreated)
	testutil.AssertStatus(t, do(t, h, http.MethodPost, "/groups/1/games", "TOK", `{"id":"8xos44jY7Q"}`), http.StatusCreated)

	rr := do(t, h, http.MethodGet, "/groups/1/games", "", "")
	testutil.AssertStatus(t, rr, http.StatusOK)
	var resp struct {
		Games []games.Game `json:"games"`
	}
	if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(resp.Games) != 2 || resp.Games[0].Name != "Wingspan" || resp.Games[1].Name != "Everdell" {
		t.Fatalf("unexpected games %+v", resp.Games)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Fatal("expected request id header from middleware")
	}
	if got := srv.metrics.OperationCalls(collections.OpAddGameToGroupByID); got != 2 {
		t.Fatalf("expected 2 recorded adds, got %d", got)
	}
}

func TestServerWithoutAdminTokenHidesAdminRoutes(t *testing.T) {
	srv := newServerWithCatalog(config.Config{Port: "0"}, nil, testutil.NewStubCatalog(), metrics.NewRecorder())

	rr := do(t, srv.Handler(), http.MethodPost, "/admin/reset", "", "")
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestServerHonorsOwnershipConfig(t *testing.T) {
	cfg := config.Config{Port: "0", EnforceOwnership: true}
	srv := newServerWithCatalog(cfg, nil, testutil.NewStubCatalog(), metrics.NewRecorder())
	svc := srv.Service()
	svc.ConnectTokenWithUser("TOK", "Zé")
	_ = svc.CreateUser("Zé")
	_ = svc.CreateUser("Quim")
	_, _ = svc.CreateGroup("Quim", "Quim's", "")

	rr := do(t, srv.Handler(), http.MethodDelete, "/groups/1", "TOK", "")
	testutil.AssertStatus(t, rr, http.StatusForbidden)
}

func TestRunShutsDownOnCancel(t *testing.T) {
	stub := &testutil.StubHTTPServer{AddrVal: ":0"}
	svc := collections.NewService(store.NewMemoryStore(), testutil.NewStubCatalog())
	logger, buf := testutil.NewBufferLogger()
	srv := newServerWithDeps(config.Config{}, logger, svc, stub)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	srv.Run(ctx, cancel)

	if stub.ShutdownCalls != 1 {
		t.Fatalf("expected one shutdown, got %d", stub.ShutdownCalls)
	}
	if !strings.Contains(buf.String(), "shutdown complete") {
		t.Fatalf("expected shutdown log, got %s", buf.String())
	}
}

func TestRunStopsWhenListenFails(t *testing.T) {
	failing := &testutil.ErrHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, nil, failing)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		srv.Run(ctx, cancel)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("expected listen failure to stop the server")
	}
	if failing.ShutdownCalls != 1 {
		t.Fatalf("expected shutdown after listen failure, got %d", failing.ShutdownCalls)
	}
}

func TestRunIgnoresServerClosed(t *testing.T) {
	closeable := &testutil.CloseableHTTPServer{}
	srv := newServerWithDeps(config.Config{}, nil, nil, closeable)

	ctx, cancel := context.WithCancel(context.Background())
	stopped := false
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()
	srv.Run(ctx, func() { stopped = true })

	if stopped {
		t.Fatal("expected ErrServerClosed not to trigger stop")
	}
}

func TestGracefulShutdownRespectsTimeout(t *testing.T) {
	orig := shutdownTimeout
	shutdownTimeout = 10 * time.Millisecond
	defer func() { shutdownTimeout = orig }()

	blocking := &testutil.BlockingHTTPServer{AddrVal: ":0", Unblock: make(chan struct{})}
	logger, buf := testutil.NewBufferLogger()
	srv := newServerWithDeps(config.Config{}, logger, nil, blocking)

	srv.gracefulShutdown()

	if blocking.ShutdownCalls != 1 {
		t.Fatalf("expected shutdown to be attempted once, got %d", blocking.ShutdownCalls)
	}
	if !strings.Contains(buf.String(), "graceful shutdown failed") {
		t.Fatalf("expected timeout to be logged, got %s", buf.String())
	}
}

func TestGracefulShutdownStopsMetrics(t *testing.T) {
	metricsSrv := &testutil.StubHTTPServer{AddrVal: ":0"}
	stopCalls := 0
	srv := &Server{
		httpServer:    &testutil.StubHTTPServer{AddrVal: ":0"},
		metricsServer: metricsSrv,
		metricsStop: func(context.Context) error {
			stopCalls++
			return errors.New("flush failed")
		},
	}

	srv.gracefulShutdown()

	if metricsSrv.ShutdownCalls != 1 || stopCalls != 1 {
		t.Fatalf("expected metrics server and provider to stop, got %d/%d", metricsSrv.ShutdownCalls, stopCalls)
	}
}

func TestHandlerPassthrough(t *testing.T) {
	handler := http.NewServeMux()
	srv := newServerWithDeps(config.Config{}, nil, nil, &testutil.StubHTTPServer{HandlerVal: handler})
	if srv.Handler() != handler {
		t.Fatal("expected handler passthrough")
	}
}
