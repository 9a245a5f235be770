// Package sqlite provides the durable VectorIndex implementation backed
// by SQLite. Embeddings are stored as little-endian float32 BLOBs;
// similarity is computed in-process over the filtered candidate set.
package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/kestrel-labs/kestrel-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/kestrel-labs/kestrel-cli/internal/core/domain"
	"github.com/kestrel-labs/kestrel-cli/internal/core/ports/driven"
)

// Ensure Index implements the interface.
var _ driven.VectorIndex = (*Index)(nil)

// Index is a SQLite-backed vector index holding the rules and guidelines
// collections in one database file.
type Index struct {
	db   *sql.DB
	path string
}

// NewIndex opens (or creates) the index at the specified data directory.
// If dataDir is empty, defaults to ~/.kestrel/data/knowledge.db.
func NewIndex(dataDir string) (*Index, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".kestrel", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "knowledge.db")

	// WAL mode allows concurrent readers alongside a writer without
	// exposing half-written batches.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	x := &Index{
		db:   db,
		path: dbPath,
	}

	if err := x.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return x, nil
}

// Close closes the database connection.
func (x *Index) Close() error {
	return x.db.Close()
}

// Path returns the database file path.
func (x *Index) Path() string {
	return x.path
}

// migrate runs all pending migrations.
func (x *Index) migrate(fsys embed.FS) error {
	_, err := x.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := x.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}
		if version <= currentVersion {
			continue // Already applied
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}
		if _, err := x.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := x.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// Upsert inserts or replaces records by id inside one transaction, so a
// concurrent Query sees either the whole batch or none of it.
func (x *Index) Upsert(ctx context.Context, collection domain.Collection, records []domain.VectorRecord) error {
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("record with empty id: %w", domain.ErrInvalidInput)
		}
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("beginning transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if err := upsertRecords(ctx, tx, collection, records); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storeErr("committing transaction", err)
	}
	return nil
}

// upsertRecords writes a batch within an existing transaction.
func upsertRecords(ctx context.Context, tx *sql.Tx, collection domain.Collection, records []domain.VectorRecord) error {
	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (
			collection, id, embedding, document,
			rule_id, title, severity, scope,
			project, owner, filename, chunk_index,
			source, type, updated_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			embedding = excluded.embedding,
			document = excluded.document,
			rule_id = excluded.rule_id,
			title = excluded.title,
			severity = excluded.severity,
			scope = excluded.scope,
			project = excluded.project,
			owner = excluded.owner,
			filename = excluded.filename,
			chunk_index = excluded.chunk_index,
			source = excluded.source,
			type = excluded.type,
			updated_at = excluded.updated_at
	`)
	if err != nil {
		return storeErr("preparing statement", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, rec := range records {
		if _, err := stmt.ExecContext(ctx,
			collection.String(), rec.ID, float32SliceToBytes(rec.Embedding), rec.Document,
			rec.Meta.RuleID, rec.Meta.Title, string(rec.Meta.Severity), rec.Meta.Scope,
			rec.Meta.Project, rec.Meta.Owner, rec.Meta.Filename, rec.Meta.ChunkIndex,
			rec.Meta.Source, rec.Meta.Type, now,
		); err != nil {
			return storeErr(fmt.Sprintf("saving record %s", rec.ID), err)
		}
	}
	return nil
}

// Query loads the filtered candidate set, ranks it by cosine distance in
// Go, and returns the top k. Ties in distance break by record id.
func (x *Index) Query(
	ctx context.Context, collection domain.Collection, vector []float32, k int, filter *domain.GuidelineFilter,
) ([]domain.Match, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	if k <= 0 {
		return []domain.Match{}, nil
	}

	query := `
		SELECT id, embedding, document,
			rule_id, title, severity, scope,
			project, owner, filename, chunk_index,
			source, type
		FROM records WHERE collection = ?`
	args := []any{collection.String()}

	if filter != nil {
		if filter.Project != "" {
			query += " AND project = ?"
			args = append(args, filter.Project)
		}
		if filter.Owner != "" {
			query += " AND owner = ?"
			args = append(args, filter.Owner)
		}
	}

	rows, err := x.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeErr("querying records", err)
	}
	defer rows.Close()

	var matches []domain.Match //nolint:prealloc // size unknown from query
	for rows.Next() {
		var m domain.Match
		var embeddingBlob []byte
		var severity string
		if err := rows.Scan(&m.ID, &embeddingBlob, &m.Document,
			&m.Meta.RuleID, &m.Meta.Title, &severity, &m.Meta.Scope,
			&m.Meta.Project, &m.Meta.Owner, &m.Meta.Filename, &m.Meta.ChunkIndex,
			&m.Meta.Source, &m.Meta.Type); err != nil {
			return nil, storeErr("scanning record", err)
		}
		m.Meta.Severity = domain.Severity(severity)
		m.Distance = cosineDistance(vector, bytesToFloat32Slice(embeddingBlob))
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storeErr("iterating records", err)
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Distance != matches[j].Distance {
			return matches[i].Distance < matches[j].Distance
		}
		return matches[i].ID < matches[j].ID
	})

	if len(matches) > k {
		matches = matches[:k]
	}
	if matches == nil {
		matches = []domain.Match{}
	}
	return matches, nil
}

// ReplaceGuidelines deletes every guideline chunk for (project, filename)
// and inserts the replacement records in the same transaction. A shorter
// re-upload therefore never leaves stale high-index chunks queryable.
func (x *Index) ReplaceGuidelines(ctx context.Context, project, filename string, records []domain.VectorRecord) error {
	for _, rec := range records {
		if rec.ID == "" {
			return fmt.Errorf("record with empty id: %w", domain.ErrInvalidInput)
		}
	}

	tx, err := x.db.BeginTx(ctx, nil)
	if err != nil {
		return storeErr("beginning transaction", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx,
		"DELETE FROM records WHERE collection = ? AND project = ? AND filename = ?",
		domain.CollectionGuidelines.String(), project, filename,
	); err != nil {
		return storeErr("deleting prior chunks", err)
	}

	if len(records) > 0 {
		if err := upsertRecords(ctx, tx, domain.CollectionGuidelines, records); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return storeErr("committing transaction", err)
	}
	return nil
}

// DeleteWhere removes records matching the filter and reports how many.
func (x *Index) DeleteWhere(ctx context.Context, collection domain.Collection, filter *domain.GuidelineFilter) (int, error) {
	query := "DELETE FROM records WHERE collection = ?"
	args := []any{collection.String()}

	if filter != nil {
		if filter.Project != "" {
			query += " AND project = ?"
			args = append(args, filter.Project)
		}
		if filter.Owner != "" {
			query += " AND owner = ?"
			args = append(args, filter.Owner)
		}
	}

	res, err := x.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storeErr("deleting records", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, storeErr("counting deleted records", err)
	}
	return int(n), nil
}

// Count returns the number of records in a collection.
func (x *Index) Count(ctx context.Context, collection domain.Collection) (int, error) {
	var n int
	row := x.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE collection = ?", collection.String())
	if err := row.Scan(&n); err != nil {
		return 0, storeErr("counting records", err)
	}
	return n, nil
}

// storeErr marks a database failure as an index availability problem so
// callers can match on domain.ErrIndexUnavailable.
func storeErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, domain.ErrIndexUnavailable, err)
}

// validateFilter rejects filters the store cannot index.
func validateFilter(filter *domain.GuidelineFilter) error {
	if filter == nil {
		return nil
	}
	if filter.Project == "" && filter.Owner == "" {
		return domain.ErrInvalidFilter
	}
	if strings.ContainsRune(filter.Project, 0) || strings.ContainsRune(filter.Owner, 0) {
		return domain.ErrInvalidFilter
	}
	return nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// cosineDistance returns 1 - cosine similarity. Mismatched or
// zero-magnitude vectors are maximally distant.
func cosineDistance(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 2
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 2
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
