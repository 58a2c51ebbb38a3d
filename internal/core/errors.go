package core

import (
	"errors"
	"fmt"
)

// Exit codes shared by every command.
const (
	ExitOK        = 0
	ExitUsage     = 1
	ExitOperation = 2
)

// UsageError means the command line was wrong. Nothing was touched.
type UsageError struct {
	Msg string
}

func (e *UsageError) Error() string { return e.Msg }

// PreconditionError means a required path or setting is missing. Nothing was touched.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return e.Msg }

// OperationError is a failed destructive operation on the primary target of a
// command (snapshot create/delete, subvolume delete, trash move). The command
// aborts immediately and skips every later step.
type OperationError struct {
	Op   string
	Path string
	Err  error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error { return e.Err }

func Usagef(format string, args ...any) error {
	return &UsageError{Msg: fmt.Sprintf(format, args...)}
}

func Preconditionf(format string, args ...any) error {
	return &PreconditionError{Msg: fmt.Sprintf(format, args...)}
}

func OpFailed(op, path string, err error) error {
	return &OperationError{Op: op, Path: path, Err: err}
}

// ExitCode maps an error returned by a command to its process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var op *OperationError
	if errors.As(err, &op) {
		return ExitOperation
	}
	return ExitUsage
}
