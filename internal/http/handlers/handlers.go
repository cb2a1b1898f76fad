package handlers

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/preston-bernstein/borga-service/internal/app/collections"
	"github.com/preston-bernstein/borga-service/internal/domain"
	"github.com/preston-bernstein/borga-service/internal/domain/games"
	"github.com/preston-bernstein/borga-service/internal/domain/groups"
	"github.com/preston-bernstein/borga-service/internal/http/requestutil"
)

// Handler wires HTTP routes to the collection service. User-scoped mutations all go through
// ExecuteAuthed with the bearer token of the request.
type Handler struct {
	svc    *collections.Service
	logger *slog.Logger
}

// NewHandler constructs a Handler.
func NewHandler(svc *collections.Service, logger *slog.Logger) *Handler {
	return &Handler{svc: svc, logger: logger}
}

type userRequest struct {
	Name string `json:"name"`
}

type groupRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
}

type addGameRequest struct {
	ID string `json:"id"`
}

type groupsResponse struct {
	Groups []groups.Group `json:"groups"`
}

type gamesResponse struct {
	Games []games.Game `json:"games"`
}

// Health reports the service health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := r.Context().Err(); err != nil {
		writeError(w, r, http.StatusServiceUnavailable, "", "shutting down", h.logger)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, h.logger)
}

// CreateUser registers a new user.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req userRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	if err := h.svc.CreateUser(req.Name); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	user, err := h.svc.User(req.Name)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusCreated, user, logger)
}

// GetUser returns a user and its live groups.
func (h *Handler) GetUser(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	user, err := h.svc.User(mux.Vars(r)["name"])
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, user, logger)
}

// DeleteUser removes the acting user. Deleting anyone else is forbidden.
func (h *Handler) DeleteUser(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	token := requestutil.BearerToken(r)
	acting, err := h.svc.Authorize(token)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	if name := mux.Vars(r)["name"]; name != acting {
		writeDomainError(w, r, domain.ErrForbidden.WithMessage("users can only delete themselves"), logger)
		return
	}
	if _, err := h.svc.ExecuteAuthed(r.Context(), token, collections.OpDeleteUser); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListGroups returns the acting user's groups.
func (h *Handler) ListGroups(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	result, err := h.svc.ExecuteAuthed(r.Context(), requestutil.BearerToken(r), collections.OpGetUserGroups)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	ids, _ := result.([]int)
	resp := groupsResponse{Groups: make([]groups.Group, 0, len(ids))}
	for _, id := range ids {
		g, err := h.svc.Group(id)
		if errors.Is(err, domain.ErrGroupDoesNotExist) {
			// Deleted between the two reads.
			continue
		}
		if err != nil {
			writeDomainError(w, r, err, logger)
			return
		}
		resp.Groups = append(resp.Groups, g)
	}
	writeJSON(w, http.StatusOK, resp, logger)
}

// CreateGroup creates a group owned by the acting user.
func (h *Handler) CreateGroup(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	var req groupRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	result, err := h.svc.ExecuteAuthed(r.Context(), requestutil.BearerToken(r), collections.OpCreateGroup,
		deref(req.Name), deref(req.Description))
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	h.respondGroup(w, r, http.StatusCreated, result.(int))
}

// GetGroup returns a group with its games.
func (h *Handler) GetGroup(w http.ResponseWriter, r *http.Request) {
	id, err := groupID(r)
	if err != nil {
		writeDomainError(w, r, err, loggerFromContext(r, h.logger))
		return
	}
	h.respondGroup(w, r, http.StatusOK, id)
}

// UpdateGroup changes the name and/or description of a group.
func (h *Handler) UpdateGroup(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	id, err := groupID(r)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	var req groupRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	if req.Name == nil && req.Description == nil {
		writeDomainError(w, r, domain.ErrInvalidArguments.WithMessage("name or description is required"), logger)
		return
	}

	token := requestutil.BearerToken(r)
	if req.Name != nil {
		if _, err := h.svc.ExecuteAuthed(r.Context(), token, collections.OpChangeGroupName, id, *req.Name); err != nil {
			writeDomainError(w, r, err, logger)
			return
		}
	}
	if req.Description != nil {
		if _, err := h.svc.ExecuteAuthed(r.Context(), token, collections.OpChangeGroupDescription, id, *req.Description); err != nil {
			writeDomainError(w, r, err, logger)
			return
		}
	}
	h.respondGroup(w, r, http.StatusOK, id)
}

// DeleteGroup removes a group.
func (h *Handler) DeleteGroup(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	id, err := groupID(r)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	if _, err := h.svc.ExecuteAuthed(r.Context(), requestutil.BearerToken(r), collections.OpDeleteGroup, id); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GroupGames lists the games cached in a group, in insertion order.
func (h *Handler) GroupGames(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	id, err := groupID(r)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	list, err := h.svc.GroupGames(id)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusOK, gamesResponse{Games: list}, logger)
}

// AddGame resolves a catalog game id and caches the game in the group.
func (h *Handler) AddGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	id, err := groupID(r)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	var req addGameRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	if req.ID == "" {
		writeDomainError(w, r, domain.ErrInvalidArguments.WithMessage("game id is required"), logger)
		return
	}
	result, err := h.svc.ExecuteAuthed(r.Context(), requestutil.BearerToken(r), collections.OpAddGameToGroupByID, id, req.ID)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"id": result, "groupId": id}, logger)
}

// DeleteGame removes a cached game from a group.
func (h *Handler) DeleteGame(w http.ResponseWriter, r *http.Request) {
	logger := loggerFromContext(r, h.logger)
	id, err := groupID(r)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	gameID := mux.Vars(r)["gameId"]
	if _, err := h.svc.ExecuteAuthed(r.Context(), requestutil.BearerToken(r), collections.OpDeleteGameFromGroup, id, gameID); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) respondGroup(w http.ResponseWriter, r *http.Request, status, id int) {
	logger := loggerFromContext(r, h.logger)
	g, err := h.svc.Group(id)
	if err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	writeJSON(w, status, g, logger)
}

func groupID(r *http.Request) (int, error) {
	raw := mux.Vars(r)["id"]
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.ErrInvalidArguments.WithMessage(fmt.Sprintf("invalid group id %q", raw))
	}
	return id, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
