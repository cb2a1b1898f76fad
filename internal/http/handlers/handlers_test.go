package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"

	"github.com/preston-bernstein/borga-service/internal/app/collections"
	"github.com/preston-bernstein/borga-service/internal/catalog/fixture"
	"github.com/preston-bernstein/borga-service/internal/domain/groups"
	"github.com/preston-bernstein/borga-service/internal/domain/users"
	"github.com/preston-bernstein/borga-service/internal/store"
	"github.com/preston-bernstein/borga-service/internal/testutil"
)

const (
	testToken = "TOK"
	testUser  = "Manuel"
)

func newTestHandler(t *testing.T) (*Handler, *collections.Service) {
	t.Helper()
	svc := collections.NewService(store.NewMemoryStore(), fixture.New())
	svc.ConnectTokenWithUser(testToken, testUser)
	if err := svc.CreateUser(testUser); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return NewHandler(svc, nil), svc
}

func routes(h *Handler) http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	r.HandleFunc("/users", h.CreateUser).Methods(http.MethodPost)
	r.HandleFunc("/users/{name}", h.GetUser).Methods(http.MethodGet)
	r.HandleFunc("/users/{name}", h.DeleteUser).Methods(http.MethodDelete)
	r.HandleFunc("/groups", h.ListGroups).Methods(http.MethodGet)
	r.HandleFunc("/groups", h.CreateGroup).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id}", h.GetGroup).Methods(http.MethodGet)
	r.HandleFunc("/groups/{id}", h.UpdateGroup).Methods(http.MethodPut)
	r.HandleFunc("/groups/{id}", h.DeleteGroup).Methods(http.MethodDelete)
	r.HandleFunc("/groups/{id}/games", h.GroupGames).Methods(http.MethodGet)
	r.HandleFunc("/groups/{id}/games", h.AddGame).Methods(http.MethodPost)
	r.HandleFunc("/groups/{id}/games/{gameId}", h.DeleteGame).Methods(http.MethodDelete)
	return r
}

func authed(method, path, token string, body io.Reader) *http.Request {
	req := httptest.NewRequest(method, path, body)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return req
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	testutil.DecodeJSON(t, rr, &body)
	return body
}

func TestHealth(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := testutil.Serve(routes(h), http.MethodGet, "/health", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)

	var resp map[string]string
	testutil.DecodeJSON(t, rr, &resp)
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %s", resp["status"])
	}
}

func TestHealthShuttingDownReturnsServiceUnavailable(t *testing.T) {
	h, _ := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	ctx, cancel := context.WithCancel(req.Context())
	cancel()
	rr := testutil.ServeRequest(http.HandlerFunc(h.Health), req.WithContext(ctx))

	testutil.AssertStatus(t, rr, http.StatusServiceUnavailable)
	if body := decodeError(t, rr); body.Error != "shutting down" {
		t.Fatalf("unexpected error %q", body.Error)
	}
}

func TestCreateAndGetUser(t *testing.T) {
	h, _ := newTestHandler(t)
	router := routes(h)

	rr := testutil.Serve(router, http.MethodPost, "/users", strings.NewReader(`{"name":"Quim"}`))
	testutil.AssertStatus(t, rr, http.StatusCreated)

	rr = testutil.Serve(router, http.MethodGet, "/users/Quim", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var u users.User
	testutil.DecodeJSON(t, rr, &u)
	if u.Name != "Quim" {
		t.Fatalf("unexpected user %+v", u)
	}

	rr = testutil.Serve(router, http.MethodPost, "/users", strings.NewReader(`{"name":"Quim"}`))
	testutil.AssertStatus(t, rr, http.StatusConflict)
	if body := decodeError(t, rr); body.Code != "USER_ALREADY_EXISTS" {
		t.Fatalf("unexpected code %q", body.Code)
	}

	rr = testutil.Serve(router, http.MethodPost, "/users", strings.NewReader(`{"name":""}`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = testutil.Serve(router, http.MethodGet, "/users/nobody", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
}

func TestCreateUserRejectsMalformedBody(t *testing.T) {
	h, _ := newTestHandler(t)

	rr := testutil.Serve(routes(h), http.MethodPost, "/users", strings.NewReader(`{"name":`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	if body := decodeError(t, rr); body.Code != "INVALID_ARGUMENTS" {
		t.Fatalf("unexpected code %q", body.Code)
	}

	rr = testutil.Serve(routes(h), http.MethodPost, "/users", strings.NewReader(`{"nome":"x"}`))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
}

func TestDeleteUserOnlySelf(t *testing.T) {
	h, svc := newTestHandler(t)
	_ = svc.CreateUser("Quim")
	router := routes(h)

	rr := testutil.ServeRequest(router, authed(http.MethodDelete, "/users/Quim", testToken, nil))
	testutil.AssertStatus(t, rr, http.StatusForbidden)

	rr = testutil.ServeRequest(router, authed(http.MethodDelete, "/users/"+testUser, "", nil))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	if body := decodeError(t, rr); body.Code != "INVALID_TOKEN" {
		t.Fatalf("unexpected code %q", body.Code)
	}

	rr = testutil.ServeRequest(router, authed(http.MethodDelete, "/users/"+testUser, testToken, nil))
	testutil.AssertStatus(t, rr, http.StatusNoContent)
	if _, err := svc.User(testUser); err == nil {
		t.Fatal("expected user to be deleted")
	}
}

func TestGroupLifecycle(t *testing.T) {
	h, _ := newTestHandler(t)
	router := routes(h)

	rr := testutil.ServeRequest(router, authed(http.MethodPost, "/groups", testToken,
		strings.NewReader(`{"name":"Sunday","description":"family games"}`)))
	testutil.AssertStatus(t, rr, http.StatusCreated)
	var created groups.Group
	testutil.DecodeJSON(t, rr, &created)
	if created.ID != 1 || created.Name != "Sunday" || created.Description != "family games" {
		t.Fatalf("unexpected group %+v", created)
	}

	rr = testutil.ServeRequest(router, authed(http.MethodGet, "/groups", testToken, nil))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var list groupsResponse
	testutil.DecodeJSON(t, rr, &list)
	if len(list.Groups) != 1 || list.Groups[0].ID != created.ID {
		t.Fatalf("expected the created group to be listed, got %+v", list)
	}

	rr = testutil.ServeRequest(router, authed(http.MethodPut, "/groups/1", testToken,
		strings.NewReader(`{"name":"Saturday"}`)))
	testutil.AssertStatus(t, rr, http.StatusOK)
	var updated groups.Group
	testutil.DecodeJSON(t, rr, &updated)
	if updated.Name != "Saturday" || updated.Description != "family games" {
		t.Fatalf("expected only the name to change, got %+v", updated)
	}

	rr = testutil.ServeRequest(router, authed(http.MethodPut, "/groups/1", testToken,
		strings.NewReader(`{"name":"   "}`)))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = testutil.ServeRequest(router, authed(http.MethodPut, "/groups/1", testToken, strings.NewReader(`{}`)))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = testutil.ServeRequest(router, authed(http.MethodDelete, "/groups/1", testToken, nil))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	rr = testutil.Serve(router, http.MethodGet, "/groups/1", nil)
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if body := decodeError(t, rr); body.Code != "GROUP_DOES_NOT_EXIST" {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

func TestCreateGroupRequiresValidToken(t *testing.T) {
	h, svc := newTestHandler(t)
	router := routes(h)

	rr := testutil.ServeRequest(router, authed(http.MethodPost, "/groups", "unbound", strings.NewReader(`{"name":"x"}`)))
	testutil.AssertStatus(t, rr, http.StatusUnauthorized)
	if body := decodeError(t, rr); body.Code != "UNAUTHORIZED" {
		t.Fatalf("unexpected code %q", body.Code)
	}
	if len(svc.Groups()) != 0 {
		t.Fatal("expected no group to be created")
	}

	rr = testutil.ServeRequest(router, authed(http.MethodPost, "/groups", testToken, strings.NewReader(`{"description":"no name"}`)))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)
	if body := decodeError(t, rr); body.Code != "INVALID_GROUP_NAME" {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

func TestGroupGamesFlow(t *testing.T) {
	h, svc := newTestHandler(t)
	router := routes(h)
	_, _ = svc.CreateGroup(testUser, "Sunday", "")

	for _, gameID := range []string{"5H5JS0KLzK", "8xos44jY7Q"} {
		rr := testutil.ServeRequest(router, authed(http.MethodPost, "/groups/1/games", testToken,
			strings.NewReader(`{"id":"`+gameID+`"}`)))
		testutil.AssertStatus(t, rr, http.StatusCreated)
	}

	rr := testutil.ServeRequest(router, authed(http.MethodPost, "/groups/1/games", testToken,
		strings.NewReader(`{"id":"5H5JS0KLzK"}`)))
	testutil.AssertStatus(t, rr, http.StatusConflict)

	rr = testutil.ServeRequest(router, authed(http.MethodPost, "/groups/1/games", testToken,
		strings.NewReader(`{"id":"missing"}`)))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if body := decodeError(t, rr); body.Code != "GAME_NOT_FOUND" {
		t.Fatalf("unexpected code %q", body.Code)
	}

	rr = testutil.ServeRequest(router, authed(http.MethodPost, "/groups/1/games", testToken, strings.NewReader(`{}`)))
	testutil.AssertStatus(t, rr, http.StatusBadRequest)

	rr = testutil.Serve(router, http.MethodGet, "/groups/1/games", nil)
	testutil.AssertStatus(t, rr, http.StatusOK)
	var list gamesResponse
	testutil.DecodeJSON(t, rr, &list)
	if len(list.Games) != 2 || list.Games[0].Name != "Wingspan" || list.Games[1].Name != "Everdell" {
		t.Fatalf("unexpected games %+v", list.Games)
	}

	rr = testutil.ServeRequest(router, authed(http.MethodDelete, "/groups/1/games/5H5JS0KLzK", testToken, nil))
	testutil.AssertStatus(t, rr, http.StatusNoContent)

	rr = testutil.ServeRequest(router, authed(http.MethodDelete, "/groups/1/games/5H5JS0KLzK", testToken, nil))
	testutil.AssertStatus(t, rr, http.StatusNotFound)
	if body := decodeError(t, rr); body.Code != "GAME_DOES_NOT_EXIST_IN_GROUP" {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

func TestAddGameCatalogFailureReturnsBadGateway(t *testing.T) {
	svc := collections.NewService(store.NewMemoryStore(), &testutil.StubCatalog{Err: errors.New("dial tcp: timeout")})
	svc.ConnectTokenWithUser(testToken, testUser)
	_, _ = svc.CreateGroup(testUser, "Sunday", "")
	router := routes(NewHandler(svc, nil))

	rr := testutil.ServeRequest(router, authed(http.MethodPost, "/groups/1/games", testToken,
		strings.NewReader(`{"id":"5H5JS0KLzK"}`)))
	testutil.AssertStatus(t, rr, http.StatusBadGateway)
	if body := decodeError(t, rr); body.Code != "CATALOG_UNAVAILABLE" {
		t.Fatalf("unexpected code %q", body.Code)
	}
}

func TestOwnershipCheckReturnsForbidden(t *testing.T) {
	svc := collections.NewService(store.NewMemoryStore(), fixture.New(), collections.WithOwnershipCheck(true))
	svc.ConnectTokenWithUser(testToken, testUser)
	_ = svc.CreateUser(testUser)
	_ = svc.CreateUser("Quim")
	_, _ = svc.CreateGroup("Quim", "Quim's", "")
	router := routes(NewHandler(svc, nil))

	rr := testutil.ServeRequest(router, authed(http.MethodDelete, "/groups/1", testToken, nil))
	testutil.AssertStatus(t, rr, http.StatusForbidden)
}
