package errors

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
)

// CLIErrorAdapter handles error presentation and exit code determination
// for the apimark CLI.
type CLIErrorAdapter struct {
	verbose bool
	logger  *slog.Logger
}

// NewCLIErrorAdapter creates a new CLI error adapter.
func NewCLIErrorAdapter(verbose bool, logger *slog.Logger) *CLIErrorAdapter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIErrorAdapter{
		verbose: verbose,
		logger:  logger,
	}
}

// ExitCodeFor determines the appropriate exit code for an error.
func (a *CLIErrorAdapter) ExitCodeFor(err error) int {
	if err == nil {
		return 0
	}

	var ae *ApimarkError
	if errors.As(err, &ae) {
		return a.exitCodeFromCategory(ae)
	}
	return 1
}

func (a *CLIErrorAdapter) exitCodeFromCategory(err *ApimarkError) int {
	switch err.Category {
	case CategoryValidation:
		return 2 // Invalid usage
	case CategoryInput:
		return 3 // Bad input corpus
	case CategoryConfig:
		return 7 // Configuration error
	case CategoryInternal:
		return 10 // Internal invariant violation
	case CategoryFileSystem:
		return 11 // I/O error
	default:
		return 1 // General error
	}
}

// FormatError formats an error for user-friendly display.
func (a *CLIErrorAdapter) FormatError(err error) string {
	if err == nil {
		return ""
	}

	var ae *ApimarkError
	if !errors.As(err, &ae) {
		return fmt.Sprintf("Error: %v", err)
	}
	if a.verbose {
		return ae.Error()
	}
	switch ae.Category {
	case CategoryConfig, CategoryValidation:
		return ae.Message
	default:
		return fmt.Sprintf("%s: %s", ae.Category, ae.Message)
	}
}

// HandleError processes an error and exits the process with the mapped code.
func (a *CLIErrorAdapter) HandleError(err error) {
	if err == nil {
		return
	}

	exitCode := a.ExitCodeFor(err)
	message := a.FormatError(err)

	var ae *ApimarkError
	if errors.As(err, &ae) && (a.verbose || ae.Category == CategoryInternal) {
		a.logger.Error(ae.Message, slog.String("category", string(ae.Category)))
	}

	fmt.Fprintf(os.Stderr, "%s\n", message)
	os.Exit(exitCode)
}
