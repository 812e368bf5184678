package cli

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/roach88/eegraph/internal/ir"
	"github.com/roach88/eegraph/internal/store"
)

// CatalogStoreOptions holds flags for commands reading the catalog store.
type CatalogStoreOptions struct {
	*RootOptions
	Database string
}

// CatalogView is the payload of "catalog show".
type CatalogView struct {
	Hash      string           `json:"hash"`
	Functions []ir.FunctionSig `json:"functions"`
}

// NewCatalogCommand creates the catalog command group.
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Compile, validate and inspect function catalogs",
	}

	cmd.AddCommand(NewCompileCommand(rootOpts))
	cmd.AddCommand(NewValidateCommand(rootOpts))
	cmd.AddCommand(NewListCommand(rootOpts))
	cmd.AddCommand(NewShowCommand(rootOpts))

	return cmd
}

// NewListCommand creates the catalog list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogStoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:           "list",
		Short:         "List catalogs saved in a store",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "catalog store path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// NewShowCommand creates the catalog show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &CatalogStoreOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "show [hash]",
		Short: "Print the signatures of a stored catalog",
		Long: `Print the signatures of a stored catalog. Without a hash the most
recently saved catalog is shown.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			hash := ""
			if len(args) == 1 {
				hash = args[0]
			}
			return runShow(opts, hash, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "catalog store path (required)")
	_ = cmd.MarkFlagRequired("db")

	return cmd
}

// openExistingStore opens a store that must already exist; a missing file
// is an error rather than a fresh empty store. The returned code classifies
// the failure.
func openExistingStore(path string) (*store.Store, string, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, ErrCodeNotFound, fmt.Errorf("catalog store not found: %s", path)
	}
	st, err := store.Open(path)
	if err != nil {
		return nil, ErrCodeStoreFailed, fmt.Errorf("opening catalog store: %w", err)
	}
	return st, "", nil
}

func runList(opts *CatalogStoreOptions, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, code, err := openExistingStore(opts.Database)
	if err != nil {
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}
	defer st.Close()

	catalogs, err := st.ListCatalogs(cmd.Context())
	if err != nil {
		_ = formatter.Error(ErrCodeStoreFailed, err.Error(), nil)
		return WrapExitError(ExitCommandError, "listing catalogs", err)
	}
	if catalogs == nil {
		catalogs = []store.CatalogInfo{}
	}

	if formatter.Format == "json" {
		return formatter.Success(catalogs)
	}
	if len(catalogs) == 0 {
		fmt.Fprintln(formatter.Writer, "No catalogs stored.")
		return nil
	}

	tw := tabwriter.NewWriter(formatter.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "SEQ\tHASH\tFUNCTIONS\tSOURCE")
	for _, c := range catalogs {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", c.Seq, c.Hash, c.Functions, c.Source)
	}
	return tw.Flush()
}

func runShow(opts *CatalogStoreOptions, hash string, cmd *cobra.Command) error {
	formatter := newFormatter(opts.RootOptions, cmd)

	st, code, err := openExistingStore(opts.Database)
	if err != nil {
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, code, err)
	}
	defer st.Close()

	sigs, hash, err := loadStoredCatalog(cmd, st, hash)
	if err != nil {
		code = ErrCodeStoreFailed
		if errors.Is(err, store.ErrCatalogNotFound) {
			code = ErrCodeNotFound
		}
		_ = formatter.Error(code, err.Error(), nil)
		return WrapExitError(ExitCommandError, "loading catalog", err)
	}

	if formatter.Format == "json" {
		return formatter.Success(CatalogView{Hash: hash, Functions: sigs})
	}
	fmt.Fprintf(formatter.Writer, "Catalog %s\n\n", hash)
	for _, sig := range sigs {
		fmt.Fprintf(formatter.Writer, "  %s\n", formatSignature(sig))
	}
	return nil
}

// loadStoredCatalog loads the catalog with hash, or the latest one when
// hash is empty. It returns the hash actually loaded.
func loadStoredCatalog(cmd *cobra.Command, st *store.Store, hash string) ([]ir.FunctionSig, string, error) {
	if hash == "" {
		latest, err := st.LatestCatalog(cmd.Context())
		if err != nil {
			return nil, "", err
		}
		hash = latest
	}
	sigs, err := st.LoadCatalog(cmd.Context(), hash)
	if err != nil {
		return nil, "", err
	}
	return sigs, hash, nil
}
