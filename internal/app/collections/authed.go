package collections

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"

	"github.com/preston-bernstein/borga-service/internal/domain"
	"github.com/preston-bernstein/borga-service/internal/domain/games"
	"github.com/preston-bernstein/borga-service/internal/logging"
)

// authedOperation runs on behalf of an already resolved user.
type authedOperation func(ctx context.Context, s *Service, user string, args []any) (any, error)

// Operation names accepted by ExecuteAuthed.
const (
	OpCreateGroup            = "createGroup"
	OpChangeGroupName        = "changeGroupName"
	OpChangeGroupDescription = "changeGroupDescription"
	OpDeleteGroup            = "deleteGroup"
	OpAddGameToGroupByID     = "addGameToGroupByID"
	OpAddGameToGroup         = "addGameToGroup"
	OpDeleteGameFromGroup    = "deleteGameFromGroup"
	OpAddGroupToUser         = "addGroupToUser"
	OpDeleteGroupFromUser    = "deleteGroupFromUser"
	OpGetUserGroups          = "getUserGroups"
	OpGetUser                = "getUser"
	OpDeleteUser             = "deleteUser"
)

var authedOperations = map[string]authedOperation{
	OpCreateGroup: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		if err := arity(OpCreateGroup, args, 0, 2); err != nil {
			return nil, err
		}
		name, err := optionalString(OpCreateGroup, args, 0)
		if err != nil {
			return nil, err
		}
		description, err := optionalString(OpCreateGroup, args, 1)
		if err != nil {
			return nil, err
		}
		return s.CreateGroup(user, name, description)
	},
	OpChangeGroupName: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		id, name, err := groupAndString(OpChangeGroupName, args)
		if err != nil {
			return nil, err
		}
		return s.ChangeGroupName(user, id, name)
	},
	OpChangeGroupDescription: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		id, description, err := groupAndString(OpChangeGroupDescription, args)
		if err != nil {
			return nil, err
		}
		return s.ChangeGroupDescription(user, id, description)
	},
	OpDeleteGroup: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		id, err := groupOnly(OpDeleteGroup, args)
		if err != nil {
			return nil, err
		}
		return nil, s.DeleteGroup(user, id)
	},
	OpAddGameToGroupByID: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		id, gameID, err := groupAndString(OpAddGameToGroupByID, args)
		if err != nil {
			return nil, err
		}
		return s.AddGameToGroupByID(ctx, user, id, gameID)
	},
	OpAddGameToGroup: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		if err := arity(OpAddGameToGroup, args, 2, 2); err != nil {
			return nil, err
		}
		id, err := intArg(OpAddGameToGroup, args, 0)
		if err != nil {
			return nil, err
		}
		var game games.Game
		switch v := args[1].(type) {
		case games.Game:
			game = v
		case *games.Game:
			if v == nil {
				return nil, invalidArg(OpAddGameToGroup, 1, "nil game")
			}
			game = *v
		default:
			return nil, invalidArg(OpAddGameToGroup, 1, fmt.Sprintf("expected game, got %T", args[1]))
		}
		return s.AddGameToGroup(user, id, game)
	},
	OpDeleteGameFromGroup: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		id, gameID, err := groupAndString(OpDeleteGameFromGroup, args)
		if err != nil {
			return nil, err
		}
		return nil, s.DeleteGameFromGroup(user, id, gameID)
	},
	OpAddGroupToUser: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		id, err := groupOnly(OpAddGroupToUser, args)
		if err != nil {
			return nil, err
		}
		return nil, s.AddGroupToUser(user, id)
	},
	OpDeleteGroupFromUser: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		id, err := groupOnly(OpDeleteGroupFromUser, args)
		if err != nil {
			return nil, err
		}
		return nil, s.DeleteGroupFromUser(user, id)
	},
	OpGetUserGroups: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		if err := arity(OpGetUserGroups, args, 0, 0); err != nil {
			return nil, err
		}
		return s.UserGroups(user)
	},
	OpGetUser: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		if err := arity(OpGetUser, args, 0, 0); err != nil {
			return nil, err
		}
		return s.User(user)
	},
	OpDeleteUser: func(ctx context.Context, s *Service, user string, args []any) (any, error) {
		if err := arity(OpDeleteUser, args, 0, 0); err != nil {
			return nil, err
		}
		return nil, s.DeleteUser(user)
	},
}

// Operations lists the names ExecuteAuthed dispatches, sorted.
func Operations() []string {
	names := make([]string, 0, len(authedOperations))
	for name := range authedOperations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ExecuteAuthed resolves token to its user and runs the named operation as that user.
// It is the single authorization point for user-scoped mutations.
func (s *Service) ExecuteAuthed(ctx context.Context, token, operation string, args ...any) (any, error) {
	user, err := s.Authorize(token)
	if err != nil {
		return nil, err
	}
	op, ok := authedOperations[operation]
	if !ok {
		return nil, s.observe("executeAuthed", domain.ErrUnknownOperation.WithMessage(
			fmt.Sprintf("unknown operation %q", operation)))
	}
	logging.Debug(logging.FromContext(ctx, s.logger), "authed operation",
		slog.String(logging.FieldOperation, operation),
		slog.String(logging.FieldUser, user),
	)
	return op(ctx, s, user, args)
}

func arity(op string, args []any, lo, hi int) error {
	if len(args) < lo || len(args) > hi {
		return domain.ErrInvalidArguments.WithMessage(
			fmt.Sprintf("%s: expected %d to %d arguments, got %d", op, lo, hi, len(args)))
	}
	return nil
}

func invalidArg(op string, pos int, reason string) error {
	return domain.ErrInvalidArguments.WithMessage(fmt.Sprintf("%s: argument %d: %s", op, pos, reason))
}

func optionalString(op string, args []any, pos int) (string, error) {
	if pos >= len(args) || args[pos] == nil {
		return "", nil
	}
	v, ok := args[pos].(string)
	if !ok {
		return "", invalidArg(op, pos, fmt.Sprintf("expected string, got %T", args[pos]))
	}
	return v, nil
}

// intArg accepts any Go integer or a decimal string, since group ids often arrive from URLs.
func intArg(op string, args []any, pos int) (int, error) {
	if pos >= len(args) {
		return 0, invalidArg(op, pos, "missing")
	}
	switch v := args[pos].(type) {
	case int:
		return v, nil
	case int32:
		return int(v), nil
	case int64:
		return int(v), nil
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, invalidArg(op, pos, fmt.Sprintf("expected integer, got %q", v))
		}
		return n, nil
	default:
		return 0, invalidArg(op, pos, fmt.Sprintf("expected integer, got %T", args[pos]))
	}
}

func groupOnly(op string, args []any) (int, error) {
	if err := arity(op, args, 1, 1); err != nil {
		return 0, err
	}
	return intArg(op, args, 0)
}

func groupAndString(op string, args []any) (int, string, error) {
	if err := arity(op, args, 2, 2); err != nil {
		return 0, "", err
	}
	id, err := intArg(op, args, 0)
	if err != nil {
		return 0, "", err
	}
	v, ok := args[1].(string)
	if !ok {
		return 0, "", invalidArg(op, 1, fmt.Sprintf("expected string, got %T", args[1]))
	}
	return id, v, nil
}
