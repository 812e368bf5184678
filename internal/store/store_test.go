package store

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/roach88/eegraph/internal/ir"
)

// createTestStore creates a new file-backed store in a temp directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func testSigs() []ir.FunctionSig {
	return []ir.FunctionSig{
		{
			Name:    "Date.advance",
			Returns: "Date",
			Args: []ir.ArgSig{
				{Name: "date", Type: "Date"},
				{Name: "delta", Type: "Float"},
				{Name: "unit", Type: "String"},
				{Name: "timeZone", Type: "String", Optional: true},
			},
			Description: "Adds units to a date.",
		},
		{Name: "Date.now", Returns: "Date", Deprecated: "Use Date(value) instead."},
	}
}

func TestOpenAppliesPragmas(t *testing.T) {
	s := createTestStore(t)

	assert.NoError(t, s.verifyPragma("journal_mode", "wal"))
	assert.NoError(t, s.verifyPragma("foreign_keys", "1"))
	assert.NoError(t, s.verifyPragma("user_version", "2"))
}

func TestOpenIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "twice.db")

	s1, err := Open(path)
	require.NoError(t, err)
	_, err = s1.SaveCatalog(context.Background(), "first", testSigs())
	require.NoError(t, err)
	require.NoError(t, s1.Close())

	s2, err := Open(path)
	require.NoError(t, err)
	defer s2.Close()

	infos, err := s2.ListCatalogs(context.Background())
	require.NoError(t, err)
	assert.Len(t, infos, 1)
}

func TestOpenMigratesOldLayout(t *testing.T) {
	path := filepath.Join(t.TempDir(), "old.db")

	// A version 0 database: no name index, no deprecation column.
	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`
		CREATE TABLE catalogs (
			hash TEXT PRIMARY KEY,
			source TEXT NOT NULL,
			seq INTEGER NOT NULL UNIQUE,
			wire_version TEXT NOT NULL,
			client_version TEXT NOT NULL
		);
		CREATE TABLE signatures (
			catalog_hash TEXT NOT NULL REFERENCES catalogs(hash) ON DELETE CASCADE,
			name TEXT NOT NULL,
			returns TEXT NOT NULL,
			args TEXT NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			PRIMARY KEY (catalog_hash, name)
		);
	`)
	require.NoError(t, err)
	require.NoError(t, db.Close())

	s, err := Open(path)
	require.NoError(t, err)
	defer s.Close()

	assert.NoError(t, s.verifyPragma("user_version", "2"))
	ok, err := hasColumn(s.db, "signatures", "deprecated")
	require.NoError(t, err)
	assert.True(t, ok)

	ctx := context.Background()
	hash, err := s.SaveCatalog(ctx, "old", testSigs())
	require.NoError(t, err)
	sigs, err := s.LoadCatalog(ctx, hash)
	require.NoError(t, err)
	assert.Equal(t, "Use Date(value) instead.", sigs[1].Deprecated)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	hash, err := s.SaveCatalog(ctx, "testdata", testSigs())
	require.NoError(t, err)
	want, err := ir.CatalogHash(testSigs())
	require.NoError(t, err)
	assert.Equal(t, want, hash)

	sigs, err := s.LoadCatalog(ctx, hash)
	require.NoError(t, err)

	expected := testSigs()
	expected[1].Args = nil
	assert.Equal(t, expected, sigs)
}

func TestSaveCatalogIsIdempotent(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	h1, err := s.SaveCatalog(ctx, "a", testSigs())
	require.NoError(t, err)
	h2, err := s.SaveCatalog(ctx, "b", testSigs())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)

	infos, err := s.ListCatalogs(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 1)
	assert.Equal(t, "a", infos[0].Source, "first save wins")
	assert.Equal(t, int64(1), infos[0].Seq)
	assert.Equal(t, 2, infos[0].Functions)
	assert.Equal(t, ir.WireVersion, infos[0].WireVersion)
}

func TestLatestCatalog(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.LatestCatalog(ctx)
	assert.ErrorIs(t, err, ErrCatalogNotFound)

	_, err = s.SaveCatalog(ctx, "one", testSigs()[:1])
	require.NoError(t, err)
	h2, err := s.SaveCatalog(ctx, "two", testSigs())
	require.NoError(t, err)

	latest, err := s.LatestCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, h2, latest)

	infos, err := s.ListCatalogs(ctx)
	require.NoError(t, err)
	require.Len(t, infos, 2)
	assert.Equal(t, []int64{1, 2}, []int64{infos[0].Seq, infos[1].Seq})
}

func TestLoadCatalogNotFound(t *testing.T) {
	s := createTestStore(t)
	_, err := s.LoadCatalog(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrCatalogNotFound)
}

func TestLoadCatalogDetectsTampering(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	hash, err := s.SaveCatalog(ctx, "x", testSigs())
	require.NoError(t, err)

	_, err = s.db.ExecContext(ctx, `UPDATE signatures SET returns = 'Number' WHERE name = 'Date.advance'`)
	require.NoError(t, err)

	_, err = s.LoadCatalog(ctx, hash)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content hash mismatch")
}

func TestEmptyCatalog(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	hash, err := s.SaveCatalog(ctx, "empty", nil)
	require.NoError(t, err)

	sigs, err := s.LoadCatalog(ctx, hash)
	require.NoError(t, err)
	assert.Empty(t, sigs)
}

func TestMarshalArgs(t *testing.T) {
	got, err := marshalArgs([]ir.ArgSig{{Name: "b", Type: "X", Optional: true}, {Name: "a", Type: "Y"}})
	require.NoError(t, err)
	assert.Equal(t, `[{"name":"b","optional":true,"type":"X"},{"name":"a","type":"Y"}]`, got)

	args, err := unmarshalArgs(got)
	require.NoError(t, err)
	assert.Equal(t, []ir.ArgSig{{Name: "b", Type: "X", Optional: true}, {Name: "a", Type: "Y"}}, args)

	args, err = unmarshalArgs("[]")
	require.NoError(t, err)
	assert.Nil(t, args)
}
