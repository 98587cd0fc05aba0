package commands

import (
	"fmt"
	"strings"
	"unicode"
)

type Type string

const (
	TypeAdd   Type = "add"
	TypeDone  Type = "done"
	TypeRm    Type = "rm"
	TypeGoal  Type = "goal"
	TypeReset Type = "reset"
)

type ErrorCode string

const (
	ErrCodeEmptyInput      ErrorCode = "empty_input"
	ErrCodeUnknownCommand  ErrorCode = "unknown_command"
	ErrCodeInvalidArgument ErrorCode = "invalid_argument"
	ErrCodeHandlerMissing  ErrorCode = "handler_missing"
)

type CommandError struct {
	Code    ErrorCode
	Message string
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type AddArgs struct {
	Text string
}

// RefArgs names a task by id, list position or id prefix.
type RefArgs struct {
	Ref string
}

// GoalArgs carries the raw goal fields; numeric validation happens when the
// goal is built.
type GoalArgs struct {
	RequiredCount string
	Deadline      string
	PenaltyPoints string
	Description   string
}

type Command struct {
	Type Type
	Raw  string
	Add  *AddArgs
	Done *RefArgs
	Rm   *RefArgs
	Goal *GoalArgs
}

// Parse reads one palette line. The leading slash is optional.
//
//	add <text...>
//	done <ref>
//	rm <ref>
//	goal <required> <deadline> <penalty> <description...>
//	reset
func Parse(input string) (Command, error) {
	raw := strings.TrimSpace(input)
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}
	if strings.HasPrefix(raw, "/") {
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "/"))
	}
	if raw == "" {
		return Command{}, &CommandError{Code: ErrCodeEmptyInput, Message: "command is empty"}
	}

	parts := strings.Fields(raw)
	head := strings.ToLower(parts[0])
	args := parts[1:]

	switch Type(head) {
	case TypeAdd:
		return parseAdd(input, afterFields(raw, 1))
	case TypeDone, TypeRm:
		return parseRef(input, Type(head), args)
	case TypeGoal:
		return parseGoal(input, args, afterFields(raw, 4))
	case TypeReset:
		if len(args) > 0 {
			return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "reset takes no arguments"}
		}
		return Command{Type: TypeReset, Raw: input}, nil
	default:
		return Command{}, &CommandError{Code: ErrCodeUnknownCommand, Message: fmt.Sprintf("unsupported command: %s", head)}
	}
}

func parseAdd(raw string, text string) (Command, error) {
	if strings.TrimSpace(text) == "" {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "add requires task text"}
	}
	return Command{Type: TypeAdd, Raw: raw, Add: &AddArgs{Text: text}}, nil
}

func parseRef(raw string, typ Type, args []string) (Command, error) {
	if len(args) != 1 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: fmt.Sprintf("%s requires exactly one task reference", typ)}
	}
	ref := &RefArgs{Ref: args[0]}
	cmd := Command{Type: typ, Raw: raw}
	if typ == TypeDone {
		cmd.Done = ref
	} else {
		cmd.Rm = ref
	}
	return cmd, nil
}

func parseGoal(raw string, args []string, description string) (Command, error) {
	if len(args) < 4 {
		return Command{}, &CommandError{Code: ErrCodeInvalidArgument, Message: "goal requires count, deadline, penalty and description"}
	}
	return Command{Type: TypeGoal, Raw: raw, Goal: &GoalArgs{
		RequiredCount: args[0],
		Deadline:      args[1],
		PenaltyPoints: args[2],
		Description:   description,
	}}, nil
}

// afterFields returns s with its first n whitespace-separated fields and the
// whitespace after them removed. The remainder is otherwise untouched.
func afterFields(s string, n int) string {
	for i := 0; i < n; i++ {
		s = strings.TrimLeftFunc(s, unicode.IsSpace)
		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		s = s[end:]
	}
	return strings.TrimLeftFunc(s, unicode.IsSpace)
}
