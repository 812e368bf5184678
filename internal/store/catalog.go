package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/roach88/eegraph/internal/ir"
)

// ErrCatalogNotFound is returned when no catalog matches the request.
var ErrCatalogNotFound = errors.New("catalog not found")

// CatalogInfo summarizes one stored catalog.
type CatalogInfo struct {
	Hash          string `json:"hash"`
	Source        string `json:"source"`
	Seq           int64  `json:"seq"`
	WireVersion   string `json:"wire_version"`
	ClientVersion string `json:"client_version"`
	Functions     int    `json:"functions"`
}

// SaveCatalog stores sigs under their catalog hash and returns the hash.
// Saving an identical catalog again keeps the first record and its seq.
// source is a free-form label such as the directory the catalog came from.
func (s *Store) SaveCatalog(ctx context.Context, source string, sigs []ir.FunctionSig) (string, error) {
	hash, err := ir.CatalogHash(sigs)
	if err != nil {
		return "", fmt.Errorf("save catalog: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("save catalog: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	result, err := tx.ExecContext(ctx, `
		INSERT INTO catalogs (hash, source, seq, wire_version, client_version)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM catalogs), ?, ?)
		ON CONFLICT(hash) DO NOTHING
	`, hash, source, ir.WireVersion, ir.ClientVersion)
	if err != nil {
		return "", fmt.Errorf("save catalog: %w", err)
	}
	inserted, err := result.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("save catalog: rows affected: %w", err)
	}
	if inserted == 0 {
		slog.Debug("catalog already stored", "hash", hash)
		return hash, nil
	}

	for _, sig := range sigs {
		argsJSON, err := marshalArgs(sig.Args)
		if err != nil {
			return "", fmt.Errorf("save catalog: %s: %w", sig.Name, err)
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO signatures (catalog_hash, name, returns, args, description, deprecated)
			VALUES (?, ?, ?, ?, ?, ?)
		`, hash, sig.Name, sig.Returns, argsJSON, sig.Description, sig.Deprecated)
		if err != nil {
			return "", fmt.Errorf("save catalog: %s: %w", sig.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("save catalog: commit: %w", err)
	}
	slog.Debug("catalog stored", "hash", hash, "functions", len(sigs), "source", source)
	return hash, nil
}

// LoadCatalog returns the signatures of the catalog with the given hash,
// ordered by name. The hash is recomputed from the loaded rows and must
// match.
func (s *Store) LoadCatalog(ctx context.Context, hash string) ([]ir.FunctionSig, error) {
	var exists int
	err := s.db.QueryRowContext(ctx, `SELECT 1 FROM catalogs WHERE hash = ?`, hash).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("load catalog %s: %w", hash, ErrCatalogNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", hash, err)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT name, returns, args, description, deprecated
		FROM signatures
		WHERE catalog_hash = ?
		ORDER BY name COLLATE BINARY ASC
	`, hash)
	if err != nil {
		return nil, fmt.Errorf("query signatures: %w", err)
	}
	defer rows.Close()

	sigs := []ir.FunctionSig{}
	for rows.Next() {
		var (
			sig      ir.FunctionSig
			argsJSON string
		)
		if err := rows.Scan(&sig.Name, &sig.Returns, &argsJSON, &sig.Description, &sig.Deprecated); err != nil {
			return nil, fmt.Errorf("scan signature: %w", err)
		}
		if sig.Args, err = unmarshalArgs(argsJSON); err != nil {
			return nil, fmt.Errorf("signature %s: %w", sig.Name, err)
		}
		sigs = append(sigs, sig)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate signatures: %w", err)
	}

	got, err := ir.CatalogHash(sigs)
	if err != nil {
		return nil, fmt.Errorf("load catalog %s: %w", hash, err)
	}
	if got != hash {
		return nil, fmt.Errorf("load catalog %s: content hash mismatch (got %s)", hash, got)
	}
	return sigs, nil
}

// LatestCatalog returns the hash of the most recently saved catalog.
func (s *Store) LatestCatalog(ctx context.Context) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, `
		SELECT hash FROM catalogs ORDER BY seq DESC LIMIT 1
	`).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrCatalogNotFound
	}
	if err != nil {
		return "", fmt.Errorf("latest catalog: %w", err)
	}
	return hash, nil
}

// ListCatalogs returns every stored catalog in save order.
func (s *Store) ListCatalogs(ctx context.Context) ([]CatalogInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.hash, c.source, c.seq, c.wire_version, c.client_version, COUNT(sg.name)
		FROM catalogs c
		LEFT JOIN signatures sg ON sg.catalog_hash = c.hash
		GROUP BY c.hash
		ORDER BY c.seq ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query catalogs: %w", err)
	}
	defer rows.Close()

	infos := []CatalogInfo{}
	for rows.Next() {
		var info CatalogInfo
		if err := rows.Scan(&info.Hash, &info.Source, &info.Seq, &info.WireVersion, &info.ClientVersion, &info.Functions); err != nil {
			return nil, fmt.Errorf("scan catalog: %w", err)
		}
		infos = append(infos, info)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalogs: %w", err)
	}
	return infos, nil
}
