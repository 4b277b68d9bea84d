package main

import "shelfsync/internal/domain"

const (
	exitSectionFailed = 1
	exitConfigFailed  = 2
)

type exitError struct {
	code    int
	message string
	silent  bool
	cause   error
}

func (e exitError) Error() string {
	return e.message
}

func (e exitError) Unwrap() error {
	return e.cause
}

func exitSilent(code int) error {
	return exitError{code: code, silent: true}
}

// exitForSync maps a run-level sync error to an exit code. Configuration
// problems exit 2 so wrappers can tell them apart from partial syncs.
func exitForSync(err error) error {
	if err == nil {
		return nil
	}
	code := exitSectionFailed
	if errCode, ok := domain.CodeFrom(err); ok {
		switch errCode {
		case domain.CodeNotFound, domain.CodeFailedPrecond, domain.CodeInvalidArgument:
			code = exitConfigFailed
		}
	}
	return exitError{code: code, message: err.Error(), cause: err}
}
