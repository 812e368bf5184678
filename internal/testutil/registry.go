package testutil

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/eegraph/internal/apifunc"
	"github.com/roach88/eegraph/internal/ee"
	"github.com/roach88/eegraph/internal/ir"
)

// UseFreshRegistry installs a registry holding the builtins plus extra as
// the one the ee wrappers import their methods from. The default registry
// is restored when the test ends. Tests using it must not run in parallel.
func UseFreshRegistry(t *testing.T, extra ...ir.FunctionSig) *apifunc.Registry {
	t.Helper()

	reg := apifunc.NewRegistry()
	require.NoError(t, reg.Register(apifunc.Builtins()...))
	if len(extra) > 0 {
		require.NoError(t, reg.Register(extra...))
	}
	ee.UseRegistry(reg)
	t.Cleanup(func() { ee.UseRegistry(nil) })
	return reg
}
