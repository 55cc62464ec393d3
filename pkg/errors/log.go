package errors

import (
	"fmt"
	"os"
)

// LogHandler is an ErrorHandler that logs errors to stderr.
type LogHandler struct {
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

// HandleError logs a ComposeError to stderr.
func (h *LogHandler) HandleError(err *ComposeError) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "[compose error] %s [%s]: %v\n", err.Op, err.Kind, err.Err)
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}

// HandleBodyError logs a BodyError to stderr.
func (h *LogHandler) HandleBodyError(err *BodyError) {
	if err == nil {
		return
	}
	fmt.Fprintf(os.Stderr, "[compose body error] %s\n", err.Error())
	if h.Verbose && err.StackTrace != "" {
		fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", err.StackTrace)
	}
}
