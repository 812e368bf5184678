package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/load"
	"cuelang.org/go/cue/token"
	"github.com/hashicorp/go-multierror"

	"github.com/roach88/eegraph/internal/compiler"
	"github.com/roach88/eegraph/internal/ir"
)

// LoadResult contains the results of loading a catalog directory.
type LoadResult struct {
	Functions []ir.FunctionSig
	CUEValue  cue.Value // The raw CUE value for additional processing
	FileCount int       // Number of CUE files found
}

// LoadError represents an error that occurred during catalog loading.
type LoadError struct {
	Code    string
	Message string
	Pos     token.Pos // CUE position if available
}

func (e *LoadError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s", e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(), e.Code, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// LoadCatalogDir loads the CUE package in dir and compiles its function
// catalog. A nil result means the directory could not be loaded at all;
// otherwise the errors are per-function compile failures.
func LoadCatalogDir(dir string) (*LoadResult, []error) {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("catalog directory not found: %s", dir)}}
	}
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("error accessing catalog directory: %v", err)}}
	}
	if !info.IsDir() {
		return nil, []error{&LoadError{Code: ErrCodeNotFound, Message: fmt.Sprintf("not a directory: %s", dir)}}
	}

	cueFiles, err := FindCUEFiles(dir)
	if err != nil {
		return nil, []error{&LoadError{Code: ErrCodeScanError, Message: fmt.Sprintf("error scanning directory: %v", err)}}
	}
	if len(cueFiles) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeNoFiles, Message: fmt.Sprintf("no CUE files found in %s", dir)}}
	}

	ctx := cuecontext.New()
	instances := load.Instances([]string{"."}, &load.Config{Dir: dir})
	if len(instances) == 0 {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: "no CUE instances loaded"}}
	}
	inst := instances[0]
	if inst.Err != nil {
		return nil, []error{&LoadError{Code: ErrCodeLoadFailed, Message: fmt.Sprintf("loading CUE files: %v", inst.Err)}}
	}

	value := ctx.BuildInstance(inst)
	if err := value.Err(); err != nil {
		return nil, []error{&LoadError{Code: ErrCodeBuildFailed, Message: fmt.Sprintf("building CUE value: %v", err)}}
	}

	result := &LoadResult{
		CUEValue:  value,
		FileCount: len(cueFiles),
	}

	sigs, err := compiler.CompileCatalog(value)
	if err != nil {
		return result, splitCompileErrors(err)
	}
	result.Functions = sigs
	return result, nil
}

// FindCUEFiles returns the .cue files directly inside dir. Subdirectories
// are separate CUE packages and are not loaded.
func FindCUEFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var files []string
	for _, e := range entries {
		if !e.IsDir() && filepath.Ext(e.Name()) == ".cue" {
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// splitCompileErrors flattens an aggregated compile error into LoadErrors.
func splitCompileErrors(err error) []error {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		return []error{convertCompileError(err)}
	}
	errs := make([]error, len(merr.Errors))
	for i, e := range merr.Errors {
		errs[i] = convertCompileError(e)
	}
	return errs
}

// convertCompileError converts a compiler error to a LoadError with position info.
func convertCompileError(err error) *LoadError {
	var compileErr *compiler.CompileError
	if errors.As(err, &compileErr) {
		msg := compileErr.Message
		if compileErr.Field != "" {
			msg = compileErr.Field + ": " + msg
		}
		return &LoadError{
			Code:    MapFieldToErrorCode(compileErr.Field),
			Message: msg,
			Pos:     compileErr.Pos,
		}
	}
	return &LoadError{
		Code:    ErrCodeGeneric,
		Message: err.Error(),
	}
}

// Error code constants - unified across all CLI commands.
const (
	ErrCodeGeneric      = "E001" // Generic/unknown error
	ErrCodeScanError    = "E002" // Directory scan error
	ErrCodeNoFiles      = "E003" // No CUE files found
	ErrCodeLoadFailed   = "E004" // CUE load failed
	ErrCodeNotFound     = "E005" // Path not found
	ErrCodeBuildFailed  = "E006" // CUE build failed
	ErrCodeWriteFailed  = "E007" // File write error
	ErrCodeStoreFailed  = "E008" // Catalog store error
	ErrCodeInvalidInput = "E009" // Bad encode input
	ErrCodeEncodeFailed = "E010" // Value could not be built or encoded
	ErrCodeNoFunctions  = "E011" // Catalog declares no functions

	// Signature errors share the compiler's validation codes.
	ErrCodeInvalidName   = compiler.ErrInvalidFunctionName
	ErrCodeInvalidReturn = compiler.ErrInvalidReturnType
	ErrCodeInvalidArg    = compiler.ErrInvalidArg
)

// MapFieldToErrorCode maps a compiler error field to an error code.
// Fields are paths such as "function.Date.advance.returns".
func MapFieldToErrorCode(field string) string {
	switch {
	case field == "function":
		return ErrCodeNoFunctions
	case strings.HasSuffix(field, ".returns"):
		return ErrCodeInvalidReturn
	case strings.HasSuffix(field, ".name") && !strings.Contains(field, ".args"):
		return ErrCodeInvalidName
	case strings.Contains(field, ".args"):
		return ErrCodeInvalidArg
	default:
		return ErrCodeGeneric
	}
}
