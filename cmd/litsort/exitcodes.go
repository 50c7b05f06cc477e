package main

import "errors"

// Exit codes.
const (
	ExitSuccess     = 0 // Success, including "nothing to do"
	ExitError       = 1 // General error (invalid arguments, runtime failure)
	ExitConfigError = 2 // Configuration error (unreadable sources.yml, bad cache path)
)

// configErr tags configuration failures so main can map them to
// ExitConfigError.
type configErr struct {
	err error
}

func (e configErr) Error() string { return e.err.Error() }
func (e configErr) Unwrap() error { return e.err }

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var cerr configErr
	if errors.As(err, &cerr) {
		return ExitConfigError
	}
	return ExitError
}
