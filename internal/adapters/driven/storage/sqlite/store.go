package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/quarry-labs/sitechat-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/quarry-labs/sitechat-cli/internal/core/domain"
	"github.com/quarry-labs/sitechat-cli/internal/core/ports/driven"
)

// jsonNull is the JSON representation of null.
const jsonNull = "null"

// Store is a unified SQLite-based storage that provides access to the
// page and chunk store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.sitechat/data/sitechat.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".sitechat", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "sitechat.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// PageStore returns a PageStore interface backed by this store.
func (s *Store) PageStore() driven.PageStore {
	return &pageStore{store: s}
}

// ChunkStore returns a ChunkStore interface backed by this store.
func (s *Store) ChunkStore() driven.ChunkStore {
	return &chunkStore{store: s}
}

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}

		if _, err := s.db.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
	}

	return nil
}

// ==================== Page Store ====================

// pageStore implements driven.PageStore.
type pageStore struct {
	store *Store
}

var _ driven.PageStore = (*pageStore)(nil)

// SavePage stores or updates a page. The page ID keeps its original
// created_at across updates; a URL already owned by another page is
// rejected with domain.ErrAlreadyExists.
func (s *pageStore) SavePage(ctx context.Context, page *domain.Page) error {
	if page.ID == "" || page.URL == "" {
		return domain.ErrInvalidInput
	}

	headingsJSON, err := json.Marshal(page.Headings)
	if err != nil {
		return fmt.Errorf("marshalling headings: %w", err)
	}
	metadataJSON, err := json.Marshal(page.Metadata)
	if err != nil {
		return fmt.Errorf("marshalling metadata: %w", err)
	}

	now := time.Now().UTC()
	if page.CreatedAt.IsZero() {
		page.CreatedAt = now
	}
	page.UpdatedAt = now

	_, err = s.store.db.ExecContext(ctx, `
		INSERT INTO pages (id, url, title, headings, body, metadata, status, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			url = excluded.url,
			title = excluded.title,
			headings = excluded.headings,
			body = excluded.body,
			metadata = excluded.metadata,
			status = excluded.status,
			updated_at = excluded.updated_at
	`, page.ID, page.URL, page.Title, string(headingsJSON), page.Body,
		string(metadataJSON), string(page.Status), page.CreatedAt, page.UpdatedAt)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed: pages.url") {
			return fmt.Errorf("url %s already registered: %w", page.URL, domain.ErrAlreadyExists)
		}
		return fmt.Errorf("saving page: %w", err)
	}
	return nil
}

// GetPage retrieves a page by ID.
func (s *pageStore) GetPage(ctx context.Context, id string) (*domain.Page, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, url, title, headings, body, metadata, status, created_at, updated_at
		FROM pages WHERE id = ?
	`, id)

	return scanPage(row)
}

// GetPageByURL retrieves a page by its canonical URL.
func (s *pageStore) GetPageByURL(ctx context.Context, url string) (*domain.Page, error) {
	row := s.store.db.QueryRowContext(ctx, `
		SELECT id, url, title, headings, body, metadata, status, created_at, updated_at
		FROM pages WHERE url = ?
	`, url)

	return scanPage(row)
}

// ListPages returns all pages ordered by URL.
func (s *pageStore) ListPages(ctx context.Context) ([]domain.Page, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, url, title, headings, body, metadata, status, created_at, updated_at
		FROM pages ORDER BY url
	`)
	if err != nil {
		return nil, fmt.Errorf("querying pages: %w", err)
	}
	defer rows.Close()

	var pages []domain.Page //nolint:prealloc // size unknown from query
	for rows.Next() {
		page, err := scanPageRows(rows)
		if err != nil {
			return nil, err
		}
		pages = append(pages, *page)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating pages: %w", err)
	}

	return pages, nil
}

// DeletePage removes a page and all its chunks in one transaction, so a
// failure partway leaves both tables untouched. The FTS index follows
// the chunk deletes through its triggers.
func (s *pageStore) DeletePage(ctx context.Context, id string) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE page_id = ?", id); err != nil {
		return fmt.Errorf("deleting page chunks: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", id); err != nil {
		return fmt.Errorf("deleting page: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ==================== Chunk Store ====================

// chunkStore implements driven.ChunkStore.
type chunkStore struct {
	store *Store
}

var _ driven.ChunkStore = (*chunkStore)(nil)

// ReplaceChunks swaps the page's chunk set in one transaction: delete
// then insert, so readers see the old set or the new set, never a mix.
func (s *chunkStore) ReplaceChunks(ctx context.Context, pageID string, chunks []domain.Chunk) error {
	tx, err := s.store.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var status string
	row := tx.QueryRowContext(ctx, "SELECT status FROM pages WHERE id = ?", pageID)
	if err := row.Scan(&status); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("page %s: %w", pageID, domain.ErrNotFound)
		}
		return fmt.Errorf("checking page status: %w", err)
	}
	if domain.PageStatus(status) != domain.PageStatusSuccess {
		return fmt.Errorf("page %s has status %q: %w", pageID, status, domain.ErrInvalidPageState)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM chunks WHERE page_id = ?", pageID); err != nil {
		return fmt.Errorf("deleting old chunks: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO chunks (id, page_id, chunk_text, chunk_type, priority, chunk_order, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	now := time.Now().UTC()
	for _, chunk := range chunks {
		if chunk.PageID != pageID || chunk.Text == "" {
			return fmt.Errorf("chunk %s: %w", chunk.ID, domain.ErrInvalidInput)
		}
		createdAt := chunk.CreatedAt
		if createdAt.IsZero() {
			createdAt = now
		}
		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.PageID, chunk.Text,
			string(chunk.Type), chunk.Priority, chunk.Order, createdAt); err != nil {
			return fmt.Errorf("saving chunk: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}
	return nil
}

// ChunksByPage returns a page's chunks in reading order.
func (s *chunkStore) ChunksByPage(ctx context.Context, pageID string) ([]domain.Chunk, error) {
	rows, err := s.store.db.QueryContext(ctx, `
		SELECT id, page_id, chunk_text, chunk_type, priority, chunk_order, created_at
		FROM chunks WHERE page_id = ?
		ORDER BY chunk_order
	`, pageID)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		var chunk domain.Chunk
		var chunkType string
		var createdAt sql.NullTime
		if err := rows.Scan(&chunk.ID, &chunk.PageID, &chunk.Text, &chunkType,
			&chunk.Priority, &chunk.Order, &createdAt); err != nil {
			return nil, fmt.Errorf("scanning chunk: %w", err)
		}
		chunk.Type = domain.ChunkType(chunkType)
		if createdAt.Valid {
			chunk.CreatedAt = createdAt.Time
		}
		chunks = append(chunks, chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", err)
	}

	return chunks, nil
}

// Search runs a full-text query over chunk text and returns the top
// candidates by raw FTS relevance. Empty or over-length queries yield
// an empty result. Connectivity failures wrap domain.ErrStorageUnavailable.
func (s *chunkStore) Search(ctx context.Context, terms []string, limit int) ([]driven.ChunkHit, error) {
	if len(terms) == 0 || limit <= 0 || queryOverLength(terms) {
		return nil, nil
	}

	rows, err := s.store.db.QueryContext(ctx, `
		SELECT c.id, c.page_id, c.chunk_text, c.chunk_type, c.priority, c.chunk_order, c.created_at,
			p.url, p.title, -bm25(chunks_fts) AS score
		FROM chunks_fts
		JOIN chunks c ON c.rowid = chunks_fts.rowid
		JOIN pages p ON p.id = c.page_id
		WHERE chunks_fts MATCH ?
		ORDER BY score DESC, c.page_id, c.chunk_order
		LIMIT ?
	`, matchExpr(terms), limit)
	if err != nil {
		return nil, fmt.Errorf("querying chunk index: %w: %w", domain.ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var hits []driven.ChunkHit //nolint:prealloc // size unknown from query
	for rows.Next() {
		var hit driven.ChunkHit
		var chunkType string
		var createdAt sql.NullTime
		if err := rows.Scan(&hit.Chunk.ID, &hit.Chunk.PageID, &hit.Chunk.Text, &chunkType,
			&hit.Chunk.Priority, &hit.Chunk.Order, &createdAt,
			&hit.PageURL, &hit.PageTitle, &hit.Score); err != nil {
			return nil, fmt.Errorf("scanning hit: %w", err)
		}
		hit.Chunk.Type = domain.ChunkType(chunkType)
		if createdAt.Valid {
			hit.Chunk.CreatedAt = createdAt.Time
		}
		hits = append(hits, hit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating hits: %w: %w", domain.ErrStorageUnavailable, err)
	}

	return hits, nil
}

// ==================== Helper Functions ====================

// matchExpr builds an OR query over the terms, each quoted so FTS5
// treats it as a literal token rather than query syntax.
func matchExpr(terms []string) string {
	quoted := make([]string, 0, len(terms))
	for _, term := range terms {
		if term == "" {
			continue
		}
		quoted = append(quoted, `"`+strings.ReplaceAll(term, `"`, `""`)+`"`)
	}
	return strings.Join(quoted, " OR ")
}

func queryOverLength(terms []string) bool {
	total := 0
	for _, t := range terms {
		total += len(t) + 1
	}
	return total > domain.MaxQueryLength
}

// scanPage scans a single page row.
func scanPage(row *sql.Row) (*domain.Page, error) {
	var page domain.Page
	var status, headingsJSON, metadataJSON string
	var createdAt, updatedAt sql.NullTime

	if err := row.Scan(&page.ID, &page.URL, &page.Title, &headingsJSON, &page.Body,
		&metadataJSON, &status, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("scanning page: %w", err)
	}

	if err := hydratePage(&page, status, headingsJSON, metadataJSON, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &page, nil
}

// scanPageRows scans a page from *sql.Rows.
func scanPageRows(rows *sql.Rows) (*domain.Page, error) {
	var page domain.Page
	var status, headingsJSON, metadataJSON string
	var createdAt, updatedAt sql.NullTime

	if err := rows.Scan(&page.ID, &page.URL, &page.Title, &headingsJSON, &page.Body,
		&metadataJSON, &status, &createdAt, &updatedAt); err != nil {
		return nil, fmt.Errorf("scanning page: %w", err)
	}

	if err := hydratePage(&page, status, headingsJSON, metadataJSON, createdAt, updatedAt); err != nil {
		return nil, err
	}
	return &page, nil
}

func hydratePage(page *domain.Page, status, headingsJSON, metadataJSON string, createdAt, updatedAt sql.NullTime) error {
	page.Status = domain.PageStatus(status)

	if headingsJSON != "" && headingsJSON != jsonNull {
		if err := json.Unmarshal([]byte(headingsJSON), &page.Headings); err != nil {
			return fmt.Errorf("unmarshaling headings: %w", err)
		}
	}
	if metadataJSON != "" && metadataJSON != jsonNull {
		if err := json.Unmarshal([]byte(metadataJSON), &page.Metadata); err != nil {
			return fmt.Errorf("unmarshaling metadata: %w", err)
		}
	}

	if createdAt.Valid {
		page.CreatedAt = createdAt.Time
	}
	if updatedAt.Valid {
		page.UpdatedAt = updatedAt.Time
	}
	return nil
}
