package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/eegraph/internal/compiler"
)

// ValidationResult holds validation results.
type ValidationResult struct {
	Valid     bool                       `json:"valid"`
	Functions int                        `json:"functions"`
	Errors    []compiler.ValidationError `json:"errors,omitempty"`
}

// NewValidateCommand creates the catalog validate command.
func NewValidateCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <catalog-dir>",
		Short: "Validate a CUE function catalog",
		Long: `Validate a CUE function catalog without writing anything.

Reports every malformed signature: bad names or types, duplicate
arguments, and required arguments declared after optional ones.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(rootOpts, args[0], cmd)
		},
	}

	return cmd
}

func runValidate(opts *RootOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts, cmd)

	loadResult, loadErrors := LoadCatalogDir(catalogDir)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputValidateError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputValidateError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, catalogDir)

	validationErrors := validateLoaded(loadResult, loadErrors)
	if len(validationErrors) > 0 {
		return outputValidationErrors(formatter, validationErrors)
	}

	for _, sig := range loadResult.Functions {
		formatter.VerboseLog("Validated function: %s", sig.Name)
	}
	return outputValidateSuccess(formatter, len(loadResult.Functions))
}

// validateLoaded merges compile failures and signature rule violations.
func validateLoaded(result *LoadResult, loadErrors []error) []compiler.ValidationError {
	var all []compiler.ValidationError
	for _, err := range loadErrors {
		code, message := parseCompileError(err)
		all = append(all, compiler.ValidationError{
			Field:   "load",
			Message: message,
			Code:    code,
		})
	}
	return append(all, compiler.Validate(result.Functions)...)
}

// ValidateCatalogDir validates the catalog in a directory.
// This is a helper function for external callers.
func ValidateCatalogDir(catalogDir string) ([]compiler.ValidationError, error) {
	loadResult, loadErrors := LoadCatalogDir(catalogDir)
	if loadResult == nil && len(loadErrors) > 0 {
		return nil, loadErrors[0]
	}
	return validateLoaded(loadResult, loadErrors), nil
}

// outputValidateSuccess outputs successful validation results.
func outputValidateSuccess(formatter *OutputFormatter, functions int) error {
	if formatter.Format == "json" {
		return formatter.Success(ValidationResult{Valid: true, Functions: functions})
	}

	fmt.Fprintf(formatter.Writer, "✓ Catalog valid (%d function(s))\n", functions)
	return nil
}

// outputValidateError outputs a single validation error.
func outputValidateError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Load errors are command-level errors (exit code 2)
	return NewExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message))
}

// outputValidationErrors outputs multiple validation errors.
func outputValidationErrors(formatter *OutputFormatter, errs []compiler.ValidationError) error {
	if formatter.Format == "json" {
		if err := formatter.JSON(CLIResponse{
			Status: "error",
			Data: ValidationResult{
				Valid:  false,
				Errors: errs,
			},
			Error: &CLIError{
				Code:    errs[0].Code,
				Message: errs[0].Message,
			},
		}); err != nil {
			return err
		}

		// Validation failures = exit code 1 (test/validation failure)
		return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Validation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		if err.Function != "" {
			fmt.Fprintf(formatter.Writer, "%s\n", err.Function)
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s: %s\n\n", err.Code, err.Field, err.Message)
	}

	// Validation failures = exit code 1 (test/validation failure)
	return NewExitError(ExitFailure, fmt.Sprintf("validation failed with %d error(s)", len(errs)))
}
