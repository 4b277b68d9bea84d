package domain

import (
	"context"
	"errors"
	"fmt"
)

type ErrorCode string

const (
	CodeInvalidArgument ErrorCode = "INVALID_ARGUMENT"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeFailedPrecond   ErrorCode = "FAILED_PRECONDITION"
	CodeInternal        ErrorCode = "INTERNAL"
	CodeCanceled        ErrorCode = "CANCELED"
)

type Error struct {
	Code    ErrorCode
	Op      string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Cause != nil {
		msg = e.Cause.Error()
	}
	if e.Op == "" {
		if msg == "" {
			return string(e.Code)
		}
		return fmt.Sprintf("%s: %s", e.Code, msg)
	}
	if msg == "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Code)
	}
	return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, msg)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

func E(code ErrorCode, op, msg string, cause error) *Error {
	if msg == "" && cause != nil {
		msg = cause.Error()
	}
	return &Error{
		Code:    code,
		Op:      op,
		Message: msg,
		Cause:   cause,
	}
}

// CodeFrom classifies err. Typed sync errors map onto codes so callers can
// tell configuration problems from everything else.
func CodeFrom(err error) (ErrorCode, bool) {
	if err == nil {
		return "", false
	}
	var domainErr *Error
	if errors.As(err, &domainErr) && domainErr.Code != "" {
		return domainErr.Code, true
	}
	switch {
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return CodeCanceled, true
	case errors.Is(err, ErrConfigurationMissing), errors.Is(err, ErrAccountNotFound), errors.Is(err, ErrFolderNotFound):
		return CodeNotFound, true
	case errors.Is(err, ErrConfigurationInvalid), errors.Is(err, ErrDuplicateFolder):
		return CodeFailedPrecond, true
	case errors.Is(err, ErrAncestorNotInPath):
		return CodeInternal, true
	case errors.Is(err, ErrInvalidConfig):
		return CodeInvalidArgument, true
	default:
		return "", false
	}
}

var ErrConfigurationMissing = errors.New("sync client configuration missing")
var ErrConfigurationInvalid = errors.New("sync client configuration invalid")
var ErrAccountNotFound = errors.New("sync account not found")
var ErrFolderNotFound = errors.New("folder not found")
var ErrDuplicateFolder = errors.New("duplicate folder name")
var ErrAncestorNotInPath = errors.New("ancestor not in path")
var ErrInvalidConfig = errors.New("invalid config")

// FolderNotFoundError reports a named folder that could not be located.
type FolderNotFoundError struct {
	Path string
	Name string
}

func (e *FolderNotFoundError) Error() string {
	return fmt.Sprintf("folder %q not found in %q", e.Name, e.Path)
}

func (e *FolderNotFoundError) Is(target error) bool {
	return target == ErrFolderNotFound
}

// DuplicateFolderError reports more than one directory matching a folder name.
type DuplicateFolderError struct {
	Root    string
	Name    string
	Matches []string
}

func (e *DuplicateFolderError) Error() string {
	return fmt.Sprintf("folder %q found %d times under %q", e.Name, len(e.Matches), e.Root)
}

func (e *DuplicateFolderError) Is(target error) bool {
	return target == ErrDuplicateFolder
}

// AncestorNotInPathError reports a path that does not pass through the
// directory it was resolved against.
type AncestorNotInPathError struct {
	Ancestor string
	Path     string
}

func (e *AncestorNotInPathError) Error() string {
	return fmt.Sprintf("ancestor %q not in path %q", e.Ancestor, e.Path)
}

func (e *AncestorNotInPathError) Is(target error) bool {
	return target == ErrAncestorNotInPath
}
