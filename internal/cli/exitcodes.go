package cli

import (
	"errors"

	"github.com/yaklabco/inlinemark/pkg/fsutil"
	"github.com/yaklabco/inlinemark/pkg/mdast"
	"github.com/yaklabco/inlinemark/pkg/runner"
)

// Exit codes for inlinemark.
const (
	// ExitSuccess indicates every input was rendered.
	ExitSuccess = 0

	// ExitRenderErrors indicates at least one input failed to render.
	ExitRenderErrors = 1

	// ExitInvalidUsage indicates invalid command-line usage.
	ExitInvalidUsage = 64

	// ExitConfigError indicates configuration file errors.
	ExitConfigError = 65

	// ExitInternalError indicates an internal error.
	ExitInternalError = 70

	// ExitIOError indicates file I/O errors.
	ExitIOError = 74
)

var (
	// ErrRenderFailed is returned when one or more files failed to render.
	// The failures have already been reported.
	ErrRenderFailed = errors.New("render failed")

	// ErrInvalidConfig wraps configuration loading and validation failures.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidUsage wraps bad flag or argument combinations.
	ErrInvalidUsage = errors.New("invalid usage")
)

// ExitCodeFromResult determines the exit code for a completed run.
func ExitCodeFromResult(result *runner.Result) int {
	if result.HasFailures() {
		return ExitRenderErrors
	}
	return ExitSuccess
}

// ExitCodeFromError maps a command error to an exit code.
func ExitCodeFromError(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrRenderFailed), errors.Is(err, mdast.ErrNodeLimit):
		return ExitRenderErrors
	case errors.Is(err, ErrInvalidUsage):
		return ExitInvalidUsage
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, fsutil.ErrNotFound),
		errors.Is(err, fsutil.ErrPermissionDenied),
		errors.Is(err, fsutil.ErrIsDirectory),
		errors.Is(err, fsutil.ErrSameFile):
		return ExitIOError
	default:
		return ExitInternalError
	}
}
