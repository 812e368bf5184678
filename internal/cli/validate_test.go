package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateValidCatalog(t *testing.T) {
	out, err := execute(t, "catalog", "validate", "testdata/catalog")
	require.NoError(t, err)
	assert.Contains(t, out, "✓ Catalog valid (3 function(s))")
}

func TestValidateValidCatalogJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "catalog", "validate", "testdata/catalog")
	require.NoError(t, err)

	resp := decodeResponse(t, out)
	assert.Equal(t, "ok", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, true, data["valid"])
	assert.Equal(t, float64(3), data["functions"])
}

func TestValidateRuleViolations(t *testing.T) {
	out, err := execute(t, "catalog", "validate", "testdata/badsig")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))
	assert.Contains(t, out, "✗ Validation failed")
	assert.Contains(t, out, "Date.weird")
	assert.Contains(t, out, "E105: args[1].optional")
}

func TestValidateCompileFailuresJSON(t *testing.T) {
	out, err := execute(t, "--format", "json", "catalog", "validate", "testdata/invalid")
	require.Error(t, err)
	assert.Equal(t, ExitFailure, GetExitCode(err))

	resp := decodeResponse(t, out)
	assert.Equal(t, "error", resp.Status)
	data := resp.Data.(map[string]any)
	assert.Equal(t, false, data["valid"])
	assert.Len(t, data["errors"], 2)
}

func TestValidateMissingDirectory(t *testing.T) {
	out, err := execute(t, "catalog", "validate", "testdata/nope")
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, out, "Error [E005]")
}

func TestValidateCatalogDir(t *testing.T) {
	errs, err := ValidateCatalogDir("testdata/catalog")
	require.NoError(t, err)
	assert.Empty(t, errs)

	errs, err = ValidateCatalogDir("testdata/badsig")
	require.NoError(t, err)
	require.Len(t, errs, 1)
	assert.Equal(t, "E105", errs[0].Code)

	_, err = ValidateCatalogDir("testdata/nope")
	require.Error(t, err)
}
