package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/eegraph/internal/compiler"
	"github.com/roach88/eegraph/internal/ir"
	"github.com/roach88/eegraph/internal/store"
)

// CompileOptions holds flags for the catalog compile command.
type CompileOptions struct {
	*RootOptions
	Output   string // output file path
	Database string // catalog store path
}

// CompilationResult holds the compiled function catalog.
type CompilationResult struct {
	Hash      string           `json:"hash"`
	Functions []ir.FunctionSig `json:"functions"`
	Stored    bool             `json:"stored,omitempty"`
}

// NewCompileCommand creates the catalog compile command.
func NewCompileCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CompileOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "compile <catalog-dir>",
		Short: "Compile a CUE function catalog",
		Long: `Compile the CUE function catalog in a directory to signatures.

The catalog is validated, hashed, and optionally written to a JSON file
or saved into a catalog store for later use by "encode --db".`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true, // Don't print usage on errors - we handle our own error output
		SilenceErrors: true, // Don't print errors - we handle our own error output
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "", "output file path")
	cmd.Flags().StringVar(&opts.Database, "db", "", "catalog store to save into")

	return cmd
}

func runCompile(opts *CompileOptions, catalogDir string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	loadResult, loadErrors := LoadCatalogDir(catalogDir)
	if loadResult == nil && len(loadErrors) > 0 {
		var loadErr *LoadError
		if errors.As(loadErrors[0], &loadErr) {
			return outputCompileError(formatter, loadErr.Code, loadErr.Message, nil)
		}
		return outputCompileError(formatter, ErrCodeGeneric, loadErrors[0].Error(), nil)
	}

	formatter.VerboseLog("Found %d CUE file(s) in %s", loadResult.FileCount, catalogDir)

	if len(loadErrors) > 0 {
		return outputCompileErrors(formatter, loadErrors)
	}
	for _, sig := range loadResult.Functions {
		formatter.VerboseLog("Compiled function: %s", sig.Name)
	}

	if verrs := compiler.Validate(loadResult.Functions); len(verrs) > 0 {
		errs := make([]error, len(verrs))
		for i, v := range verrs {
			errs[i] = &LoadError{Code: v.Code, Message: fmt.Sprintf("%s: %s: %s", v.Function, v.Field, v.Message)}
		}
		return outputCompileErrors(formatter, errs)
	}

	hash, err := ir.CatalogHash(loadResult.Functions)
	if err != nil {
		return outputCompileError(formatter, ErrCodeGeneric, fmt.Sprintf("hashing catalog: %v", err), nil)
	}
	result := &CompilationResult{
		Hash:      hash,
		Functions: loadResult.Functions,
	}

	if opts.Output != "" {
		if err := writeCatalogToFile(result, opts.Output); err != nil {
			return outputCompileError(formatter, ErrCodeWriteFailed, fmt.Sprintf("writing output file: %v", err), nil)
		}
	}

	if opts.Database != "" {
		if err := saveToStore(cmd, opts.Database, catalogDir, loadResult.Functions); err != nil {
			return outputCompileError(formatter, ErrCodeStoreFailed, err.Error(), nil)
		}
		result.Stored = true
	}

	return outputCompileSuccess(formatter, result, opts)
}

func saveToStore(cmd *cobra.Command, path, source string, sigs []ir.FunctionSig) error {
	st, err := store.Open(path)
	if err != nil {
		return fmt.Errorf("opening catalog store: %w", err)
	}
	defer st.Close()

	if _, err := st.SaveCatalog(cmd.Context(), source, sigs); err != nil {
		return err
	}
	return nil
}

// outputCompileSuccess outputs successful compilation results.
func outputCompileSuccess(formatter *OutputFormatter, result *CompilationResult, opts *CompileOptions) error {
	if formatter.Format == "json" {
		return formatter.Success(result)
	}

	w := formatter.Writer
	fmt.Fprintf(w, "✓ Compiled %d function(s)\n\n", len(result.Functions))
	if len(result.Functions) > 0 {
		fmt.Fprintln(w, "Functions:")
		for _, sig := range result.Functions {
			fmt.Fprintf(w, "  %s\n", formatSignature(sig))
		}
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "Catalog hash: %s\n", result.Hash)

	if opts.Output != "" {
		fmt.Fprintf(w, "Wrote signatures to %s\n", opts.Output)
	}
	if result.Stored {
		fmt.Fprintf(w, "Saved catalog to %s\n", opts.Database)
	}
	return nil
}

// formatSignature renders a signature as "Name(arg: Type, [opt: Type]) -> Returns".
func formatSignature(sig ir.FunctionSig) string {
	s := sig.Name + "("
	for i, a := range sig.Args {
		if i > 0 {
			s += ", "
		}
		if a.Optional {
			s += fmt.Sprintf("[%s: %s]", a.Name, a.Type)
		} else {
			s += fmt.Sprintf("%s: %s", a.Name, a.Type)
		}
	}
	s += ") -> " + sig.Returns
	if sig.Deprecated != "" {
		s += " (deprecated)"
	}
	return s
}

// outputCompileError outputs a single compilation error.
func outputCompileError(formatter *OutputFormatter, code, message string, details any) error {
	_ = formatter.Error(code, message, details)
	// Compilation errors are command-level errors (exit code 2)
	return WrapExitError(ExitCommandError, fmt.Sprintf("%s: %s", code, message), nil)
}

// outputCompileErrors outputs multiple compilation errors.
func outputCompileErrors(formatter *OutputFormatter, errs []error) error {
	if formatter.Format == "json" {
		cliErrors := make([]CLIError, len(errs))
		for i, err := range errs {
			code, message := parseCompileError(err)
			cliErrors[i] = CLIError{
				Code:    code,
				Message: message,
			}
		}

		// First error in the error slot, all of them in data
		if err := formatter.JSON(CLIResponse{
			Status: "error",
			Error:  &cliErrors[0],
			Data:   cliErrors,
		}); err != nil {
			return err
		}
		return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
	}

	fmt.Fprintln(formatter.Writer, "✗ Compilation failed")
	fmt.Fprintln(formatter.Writer)

	for _, err := range errs {
		code, message := parseCompileError(err)
		var loadErr *LoadError
		if errors.As(err, &loadErr) && loadErr.Pos.IsValid() {
			fmt.Fprintf(formatter.Writer, "%s:%d:%d\n",
				loadErr.Pos.Filename(),
				loadErr.Pos.Line(),
				loadErr.Pos.Column())
		}
		fmt.Fprintf(formatter.Writer, "  %s: %s\n\n", code, message)
	}

	return NewExitError(ExitCommandError, fmt.Sprintf("compilation failed with %d error(s)", len(errs)))
}

// parseCompileError extracts error code and message from an error.
func parseCompileError(err error) (string, string) {
	var loadErr *LoadError
	if errors.As(err, &loadErr) {
		return loadErr.Code, loadErr.Message
	}
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		return MapFieldToErrorCode(compileErr.Field), compileErr.Message
	}
	return ErrCodeGeneric, err.Error()
}

// writeCatalogToFile writes the compilation result as indented JSON.
func writeCatalogToFile(result *CompilationResult, filename string) error {
	// Indented for readability; the hash already pins the canonical form.
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling catalog: %w", err)
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("writing file: %w", err)
	}
	return nil
}
