package domain

import "errors"

// Kind is the stable, machine-checkable identifier of a failure class.
type Kind string

const (
	KindInvalidGroupName        Kind = "INVALID_GROUP_NAME"
	KindGroupDoesNotExist       Kind = "GROUP_DOES_NOT_EXIST"
	KindGroupAlreadyHasGame     Kind = "GROUP_ALREADY_HAS_GAME"
	KindGameDoesNotExistInGroup Kind = "GAME_DOES_NOT_EXIST_IN_GROUP"
	KindUserDoesNotExist        Kind = "USER_DOES_NOT_EXIST"
	KindUserAlreadyExists       Kind = "USER_ALREADY_EXISTS"
	KindInvalidUserName         Kind = "INVALID_USER_NAME"
	KindInvalidGame             Kind = "INVALID_GAME"
	KindInvalidToken            Kind = "INVALID_TOKEN"
	KindUnauthorized            Kind = "UNAUTHORIZED"
	KindForbidden               Kind = "FORBIDDEN"
	KindGameNotFound            Kind = "GAME_NOT_FOUND"
	KindCatalogUnavailable      Kind = "CATALOG_UNAVAILABLE"
	KindUnknownOperation        Kind = "UNKNOWN_OPERATION"
	KindInvalidArguments        Kind = "INVALID_ARGUMENTS"
)

// Error is a classified failure. Two errors with the same Kind match under errors.Is,
// so callers can compare against the exported sentinels regardless of message.
type Error struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Is reports whether target carries the same Kind.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithMessage returns a copy of the error with a more specific message.
func (e *Error) WithMessage(msg string) *Error {
	return &Error{Kind: e.Kind, Message: msg, Cause: e.Cause}
}

// Wrap returns a copy of the error that records cause.
func (e *Error) Wrap(cause error) *Error {
	msg := e.Message
	if cause != nil {
		msg = msg + ": " + cause.Error()
	}
	return &Error{Kind: e.Kind, Message: msg, Cause: cause}
}

var (
	ErrInvalidGroupName        = &Error{Kind: KindInvalidGroupName, Message: "group name must not be empty"}
	ErrGroupDoesNotExist       = &Error{Kind: KindGroupDoesNotExist, Message: "group does not exist"}
	ErrGroupAlreadyHasGame     = &Error{Kind: KindGroupAlreadyHasGame, Message: "group already has this game"}
	ErrGameDoesNotExistInGroup = &Error{Kind: KindGameDoesNotExistInGroup, Message: "game does not exist in group"}
	ErrUserDoesNotExist        = &Error{Kind: KindUserDoesNotExist, Message: "user does not exist"}
	ErrUserAlreadyExists       = &Error{Kind: KindUserAlreadyExists, Message: "user already exists"}
	ErrInvalidUserName         = &Error{Kind: KindInvalidUserName, Message: "user name must not be empty"}
	ErrInvalidGame             = &Error{Kind: KindInvalidGame, Message: "game must have an id and a name"}
	ErrInvalidToken            = &Error{Kind: KindInvalidToken, Message: "token must not be empty"}
	ErrUnauthorized            = &Error{Kind: KindUnauthorized, Message: "token is not bound to a user"}
	ErrForbidden               = &Error{Kind: KindForbidden, Message: "group is not owned by the acting user"}
	ErrGameNotFound            = &Error{Kind: KindGameNotFound, Message: "game not found in catalog"}
	ErrCatalogUnavailable      = &Error{Kind: KindCatalogUnavailable, Message: "game catalog unavailable"}
	ErrUnknownOperation        = &Error{Kind: KindUnknownOperation, Message: "unknown operation"}
	ErrInvalidArguments        = &Error{Kind: KindInvalidArguments, Message: "invalid operation arguments"}
)

// KindOf extracts the Kind from err, or "" when err is not classified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}
