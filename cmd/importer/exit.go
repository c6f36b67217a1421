package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/fekuna/omnipos-inventory-loader/internal/rowsource"
)

const (
	exitOK       = 0
	exitFailure  = 1
	exitNotFound = 2
	exitUsage    = 64
)

type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }
func (e *codedError) Unwrap() error { return e.err }

func withCode(code int, err error) error {
	if err == nil {
		return nil
	}
	return &codedError{code: code, err: err}
}

// exitCode maps a command error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ce *codedError
	if errors.As(err, &ce) {
		return ce.code
	}
	if errors.Is(err, rowsource.ErrFileNotFound) {
		return exitNotFound
	}
	return exitFailure
}

func reportError(w io.Writer, err error) {
	if errors.Is(err, rowsource.ErrFileNotFound) {
		fmt.Fprintf(w, "Error: el archivo no se encontró: %v\n", err)
		return
	}
	fmt.Fprintf(w, "Error: %v\n", err)
}
