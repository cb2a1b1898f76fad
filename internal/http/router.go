package http

import (
	nethttp "net/http"

	"github.com/gorilla/mux"

	"github.com/preston-bernstein/borga-service/internal/http/handlers"
)

// NewRouter registers the HTTP routes. Admin routes are mounted only when admin is non-nil.
func NewRouter(handler *handlers.Handler, admin *handlers.AdminHandler) nethttp.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", handler.Health).Methods(nethttp.MethodGet)

	r.HandleFunc("/users", handler.CreateUser).Methods(nethttp.MethodPost)
	r.HandleFunc("/users/{name}", handler.GetUser).Methods(nethttp.MethodGet)
	r.HandleFunc("/users/{name}", handler.DeleteUser).Methods(nethttp.MethodDelete)

	r.HandleFunc("/groups", handler.ListGroups).Methods(nethttp.MethodGet)
	r.HandleFunc("/groups", handler.CreateGroup).Methods(nethttp.MethodPost)
	r.HandleFunc("/groups/{id}", handler.GetGroup).Methods(nethttp.MethodGet)
	r.HandleFunc("/groups/{id}", handler.UpdateGroup).Methods(nethttp.MethodPut)
	r.HandleFunc("/groups/{id}", handler.DeleteGroup).Methods(nethttp.MethodDelete)
	r.HandleFunc("/groups/{id}/games", handler.GroupGames).Methods(nethttp.MethodGet)
	r.HandleFunc("/groups/{id}/games", handler.AddGame).Methods(nethttp.MethodPost)
	r.HandleFunc("/groups/{id}/games/{gameId}", handler.DeleteGame).Methods(nethttp.MethodDelete)

	if admin != nil {
		r.HandleFunc("/admin/tokens", admin.ConnectToken).Methods(nethttp.MethodPost)
		r.HandleFunc("/admin/reset", admin.Reset).Methods(nethttp.MethodPost)
	}
	return r
}
