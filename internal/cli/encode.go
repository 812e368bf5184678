package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/roach88/eegraph/internal/apifunc"
	"github.com/roach88/eegraph/internal/computed"
	"github.com/roach88/eegraph/internal/ee"
	"github.com/roach88/eegraph/internal/serializer"
)

// EncodeOptions holds flags for the encode command.
type EncodeOptions struct {
	*RootOptions

	Date string // date constructor input
	Now  bool   // use the current instant as the date
	List string // JSON array for a literal list
	TZ   string // time zone for a string date

	Method string // method to call on the value
	Args   string // JSON array of method arguments
	Cast   string // "date", "list" or "" for the bare node

	Cloud      bool // cloud expression format instead of legacy
	NoCompound bool // legacy: inline shared values instead of a scope
	NoOptimize bool // cloud: keep single-use references

	Catalog  string // CUE catalog directory with extra functions
	Database string // catalog store; its latest catalog is loaded
}

// EncodeResult is the JSON payload of the encode command.
type EncodeResult struct {
	Format string          `json:"format"` // "legacy" or "cloud"
	Value  json.RawMessage `json:"value"`
}

// NewEncodeCommand creates the encode command.
func NewEncodeCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &EncodeOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Build a Date or List and print its encoding",
		Long: `Build a Date or List value, optionally call one of its methods, and
print the canonical JSON encoding of the result.

Examples:
  eegraph encode --date 2024-01-01 --tz America/New_York
  eegraph encode --now --method advance --args '[1, "day"]' --cast date
  eegraph encode --list '[1, 2, 3]' --method reverse --cloud
  eegraph encode --date 0 --method unitRatio --args '["day", "hour"]' --catalog ./catalog`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Date, "date", "", "date input: milliseconds or a date string")
	cmd.Flags().BoolVar(&opts.Now, "now", false, "use the current instant as the date")
	cmd.Flags().StringVar(&opts.List, "list", "", "JSON array for a literal list")
	cmd.Flags().StringVar(&opts.TZ, "tz", "", "time zone for a string date")
	cmd.Flags().StringVar(&opts.Method, "method", "", "method to call on the value")
	cmd.Flags().StringVar(&opts.Args, "args", "", "JSON array of method arguments")
	cmd.Flags().StringVar(&opts.Cast, "cast", "", "cast the method result (date|list)")
	cmd.Flags().BoolVar(&opts.Cloud, "cloud", false, "use the cloud expression format")
	cmd.Flags().BoolVar(&opts.NoCompound, "no-compound", false, "legacy: do not hoist shared values")
	cmd.Flags().BoolVar(&opts.NoOptimize, "no-optimize", false, "cloud: keep single-use references")
	cmd.Flags().StringVar(&opts.Catalog, "catalog", "", "CUE catalog directory with extra functions")
	cmd.Flags().StringVar(&opts.Database, "db", "", "catalog store; its latest catalog is loaded")
	cmd.MarkFlagsMutuallyExclusive("date", "now", "list")
	cmd.MarkFlagsOneRequired("date", "now", "list")

	return cmd
}

func runEncode(opts *EncodeOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)
	fail := func(code string, err error) error {
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}

	if opts.Cast != "" && opts.Cast != "date" && opts.Cast != "list" {
		return fail(ErrCodeInvalidInput, fmt.Errorf("unknown cast %q: must be date or list", opts.Cast))
	}
	if opts.Method == "" && (opts.Args != "" || opts.Cast != "") {
		return fail(ErrCodeInvalidInput, errors.New("--args and --cast need --method"))
	}

	reg, code, err := buildRegistry(opts, cmd)
	if err != nil {
		return fail(code, err)
	}
	ee.UseRegistry(reg)
	defer ee.UseRegistry(nil)
	formatter.VerboseLog("Registry holds %d function(s)", reg.Len())

	value, err := buildEncodeValue(opts)
	if err != nil {
		code := ErrCodeEncodeFailed
		if errors.Is(err, errBadInput) {
			code = ErrCodeInvalidInput
		}
		return fail(code, err)
	}
	formatter.VerboseLog("Built %v", value)

	data, format, err := encodeValue(opts, value)
	if err != nil {
		return fail(ErrCodeEncodeFailed, err)
	}

	if formatter.Format == "json" {
		return formatter.Success(EncodeResult{Format: format, Value: data})
	}
	return formatter.Success(string(data))
}

// buildRegistry seeds a registry with the builtins, the latest stored
// catalog and the CUE catalog directory, in that order.
func buildRegistry(opts *EncodeOptions, cmd *cobra.Command) (*apifunc.Registry, string, error) {
	reg := apifunc.NewRegistry()
	if err := reg.Register(apifunc.Builtins()...); err != nil {
		return nil, ErrCodeGeneric, err
	}

	if opts.Database != "" {
		st, code, err := openExistingStore(opts.Database)
		if err != nil {
			return nil, code, err
		}
		defer st.Close()

		sigs, hash, err := loadStoredCatalog(cmd, st, "")
		if err != nil {
			return nil, ErrCodeStoreFailed, err
		}
		if err := reg.Register(sigs...); err != nil {
			return nil, ErrCodeStoreFailed, fmt.Errorf("catalog %s: %w", hash, err)
		}
		slog.Debug("loaded stored catalog", "hash", hash, "functions", len(sigs))
	}

	if opts.Catalog != "" {
		result, errs := LoadCatalogDir(opts.Catalog)
		if len(errs) > 0 {
			return nil, ErrCodeLoadFailed, errors.Join(errs...)
		}
		if err := reg.Register(result.Functions...); err != nil {
			return nil, ErrCodeLoadFailed, err
		}
		slog.Debug("loaded catalog directory", "dir", opts.Catalog, "functions", len(result.Functions))
	}
	return reg, "", nil
}

// errBadInput marks flag values that could not be parsed.
var errBadInput = errors.New("bad input")

// methodCaller is implemented by *ee.Date and *ee.List.
type methodCaller interface {
	Call(method string, args ...any) (*computed.Node, error)
}

func buildEncodeValue(opts *EncodeOptions) (any, error) {
	var (
		recv methodCaller
		err  error
	)
	switch {
	case opts.Now:
		recv, err = ee.NewDateInZone(opts.now(), opts.TZ)
	case opts.List != "":
		var items []any
		if jerr := json.Unmarshal([]byte(opts.List), &items); jerr != nil {
			return nil, fmt.Errorf("%w: --list must be a JSON array: %v", errBadInput, jerr)
		}
		recv, err = ee.NewList(items)
	default:
		recv, err = ee.NewDateInZone(parseDateInput(opts.Date), opts.TZ)
	}
	if err != nil {
		return nil, err
	}
	if opts.Method == "" {
		return recv, nil
	}

	var args []any
	if opts.Args != "" {
		if jerr := json.Unmarshal([]byte(opts.Args), &args); jerr != nil {
			return nil, fmt.Errorf("%w: --args must be a JSON array: %v", errBadInput, jerr)
		}
	}
	node, err := recv.Call(opts.Method, args...)
	if err != nil {
		return nil, err
	}
	switch opts.Cast {
	case "date":
		return ee.NewDate(node)
	case "list":
		return ee.NewList(node)
	default:
		return node, nil
	}
}

// parseDateInput reads an integer as milliseconds since the epoch and
// anything else as a date string.
func parseDateInput(s string) any {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}

func encodeValue(opts *EncodeOptions, v any) ([]byte, string, error) {
	sopts := []serializer.Option{
		serializer.WithCompound(!opts.NoCompound),
		serializer.WithOptimize(!opts.NoOptimize),
		serializer.WithLogger(slog.Default()),
	}
	if opts.Cloud {
		data, err := serializer.ToCloudJSON(v, sopts...)
		return data, "cloud", err
	}
	data, err := serializer.ToJSON(v, sopts...)
	return data, "legacy", err
}
