package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"

	"github.com/preston-bernstein/borga-service/internal/app/collections"
	"github.com/preston-bernstein/borga-service/internal/domain"
	"github.com/preston-bernstein/borga-service/internal/http/requestutil"
	"github.com/preston-bernstein/borga-service/internal/logging"
)

// AdminHandler exposes operator endpoints guarded by the admin token.
type AdminHandler struct {
	svc    *collections.Service
	token  string
	logger *slog.Logger
}

// NewAdminHandler constructs an AdminHandler. An empty token rejects every request.
func NewAdminHandler(svc *collections.Service, token string, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, token: token, logger: logger}
}

type tokenRequest struct {
	Token string `json:"token"`
	User  string `json:"user"`
}

// ConnectToken binds a bearer token to a user name.
func (h *AdminHandler) ConnectToken(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	logger := loggerFromContext(r, h.logger)
	var req tokenRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeDomainError(w, r, err, logger)
		return
	}
	if req.Token == "" {
		writeDomainError(w, r, domain.ErrInvalidArguments.WithMessage("token is required"), logger)
		return
	}
	if req.User == "" {
		writeDomainError(w, r, domain.ErrInvalidUserName, logger)
		return
	}
	h.svc.ConnectTokenWithUser(req.Token, req.User)
	logging.Info(logger, "admin token bound", slog.String(logging.FieldUser, req.User))
	writeJSON(w, http.StatusCreated, map[string]string{"user": req.User, "status": "ok"}, logger)
}

// Reset clears every user, group and token binding.
func (h *AdminHandler) Reset(w http.ResponseWriter, r *http.Request) {
	if !h.authorize(w, r) {
		return
	}
	h.svc.ResetAll()
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, loggerFromContext(r, h.logger))
}

func (h *AdminHandler) authorize(w http.ResponseWriter, r *http.Request) bool {
	token := requestutil.BearerToken(r)
	if h.token != "" && subtle.ConstantTimeCompare([]byte(token), []byte(h.token)) == 1 {
		return true
	}
	logging.Warn(h.logger, "admin unauthorized",
		slog.String(logging.FieldPath, r.URL.Path),
		slog.String("client_ip", requestutil.ClientIP(r)),
	)
	writeError(w, r, http.StatusUnauthorized, domain.KindUnauthorized, "unauthorized", h.logger)
	return false
}
