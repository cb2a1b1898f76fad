package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/preston-bernstein/borga-service/internal/domain"
	"github.com/preston-bernstein/borga-service/internal/http/middleware"
	"github.com/preston-bernstein/borga-service/internal/logging"
)

const maxBodyBytes = 1 << 20

type errorBody struct {
	Error     string `json:"error"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"requestId,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logging.Error(logger, "failed to encode response", err)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, code domain.Kind, message string, logger *slog.Logger) {
	reqID := middleware.RequestIDFromContext(r.Context())
	if reqID == "" {
		reqID = r.Header.Get("X-Request-ID")
	}
	writeJSON(w, status, errorBody{Error: message, Code: string(code), RequestID: reqID}, logger)
}

// writeDomainError maps a classified error to its HTTP status. Unclassified errors become 500
// without leaking their message.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	kind := domain.KindOf(err)
	status := StatusForKind(kind)
	msg := err.Error()
	if kind == "" {
		logging.Error(logger, "unclassified error", err)
		msg = http.StatusText(status)
	} else if status >= http.StatusInternalServerError {
		logging.Warn(logger, "request failed", slog.String("code", string(kind)), slog.Any("err", err))
	}
	writeError(w, r, status, kind, msg, logger)
}

// StatusForKind maps an error kind to the HTTP status it is reported with.
func StatusForKind(kind domain.Kind) int {
	switch kind {
	case domain.KindGroupDoesNotExist, domain.KindGameDoesNotExistInGroup,
		domain.KindUserDoesNotExist, domain.KindGameNotFound:
		return http.StatusNotFound
	case domain.KindInvalidGroupName, domain.KindInvalidUserName, domain.KindInvalidGame,
		domain.KindInvalidArguments, domain.KindUnknownOperation:
		return http.StatusBadRequest
	case domain.KindGroupAlreadyHasGame, domain.KindUserAlreadyExists:
		return http.StatusConflict
	case domain.KindUnauthorized, domain.KindInvalidToken:
		return http.StatusUnauthorized
	case domain.KindForbidden:
		return http.StatusForbidden
	case domain.KindCatalogUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// decodeBody reads a JSON request body into dest. An empty body leaves dest untouched.
func decodeBody(w http.ResponseWriter, r *http.Request, dest any) error {
	if r.Body == nil {
		return nil
	}
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return domain.ErrInvalidArguments.WithMessage(fmt.Sprintf("invalid request body: %s", strings.TrimPrefix(err.Error(), "json: ")))
	}
	return nil
}

func loggerFromContext(r *http.Request, fallback *slog.Logger) *slog.Logger {
	if r == nil {
		return fallback
	}
	return logging.FromContext(r.Context(), fallback)
}
