// Package sqlite provides persistent implementations of the storage ports
// backed by a single SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/claimsight/claimsight-cli/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/claimsight/claimsight-cli/internal/core/domain"
	"github.com/claimsight/claimsight-cli/internal/core/ports/driven"
)

// Store is a unified SQLite-based storage that provides access to the
// document, claim and analysis store interfaces through wrapper types.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store at the specified data directory.
// If dataDir is empty, defaults to ~/.claimsight/data/claimsight.db.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".claimsight", "data")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "claimsight.db")

	// WAL mode for better concurrency between batch writers.
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &Store{db: db, path: dbPath}

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

// DocumentStore returns a DocumentStore interface backed by this store.
func (s *Store) DocumentStore() driven.DocumentStore {
	return &documentStore{store: s}
}

// ClaimStore returns a ClaimStore interface backed by this store.
func (s *Store) ClaimStore() driven.ClaimStore {
	return &claimStore{store: s}
}

// AnalysisStore returns an AnalysisStore interface backed by this store.
func (s *Store) AnalysisStore() driven.AnalysisStore {
	return &analysisStore{store: s}
}

// migrate applies every embedded migration in filename order. Each file
// runs in its own transaction and is recorded in schema_migrations.
func (s *Store) migrate(fsys fs.FS) error {
	if _, err := s.db.Exec(
		`CREATE TABLE IF NOT EXISTS schema_migrations (name TEXT PRIMARY KEY, applied_at TIMESTAMP NOT NULL)`,
	); err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := fs.Glob(fsys, "*.sql")
	if err != nil {
		return fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(entries)

	for _, name := range entries {
		var applied int
		if err := s.db.QueryRow(
			`SELECT COUNT(*) FROM schema_migrations WHERE name = ?`, name,
		).Scan(&applied); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if applied > 0 {
			continue
		}

		script, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("begin migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(script)); err != nil {
			tx.Rollback()
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := tx.Exec(
			`INSERT INTO schema_migrations (name, applied_at) VALUES (?, ?)`, name, time.Now(),
		); err != nil {
			tx.Rollback()
			return fmt.Errorf("record migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("commit migration %s: %w", name, err)
		}
	}

	return nil
}

// --- DocumentStore ---

type documentStore struct {
	store *Store
}

var _ driven.DocumentStore = (*documentStore)(nil)

func (d *documentStore) SaveDocument(ctx context.Context, doc *domain.Document) error {
	sections, err := json.Marshal(doc.Sections)
	if err != nil {
		return fmt.Errorf("marshal sections: %w", err)
	}

	var processedAt any
	if doc.ProcessedAt != nil {
		processedAt = *doc.ProcessedAt
	}

	_, err = d.store.db.ExecContext(ctx, `
		INSERT INTO documents (id, name, uri, size_bytes, status, sections, uploaded_at, processed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			uri = excluded.uri,
			size_bytes = excluded.size_bytes,
			status = excluded.status,
			sections = excluded.sections,
			processed_at = excluded.processed_at`,
		doc.ID, doc.Name, doc.URI, doc.SizeBytes, string(doc.Status), string(sections), doc.UploadedAt, processedAt,
	)
	if err != nil {
		return fmt.Errorf("save document: %w", err)
	}
	return nil
}

func (d *documentStore) GetDocument(ctx context.Context, id string) (*domain.Document, error) {
	row := d.store.db.QueryRowContext(ctx, `
		SELECT id, name, uri, size_bytes, status, sections, uploaded_at, processed_at
		FROM documents WHERE id = ?`, id)
	return scanDocument(row)
}

func (d *documentStore) ListDocuments(ctx context.Context) ([]domain.Document, error) {
	rows, err := d.store.db.QueryContext(ctx, `
		SELECT id, name, uri, size_bytes, status, sections, uploaded_at, processed_at
		FROM documents ORDER BY uploaded_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}

func (d *documentStore) DeleteDocument(ctx context.Context, id string) error {
	_, err := d.store.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

// scanner covers both sql.Row and sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanDocument(row scanner) (*domain.Document, error) {
	var doc domain.Document
	var status, sections string
	var processedAt sql.NullTime

	err := row.Scan(&doc.ID, &doc.Name, &doc.URI, &doc.SizeBytes, &status, &sections, &doc.UploadedAt, &processedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan document: %w", err)
	}

	doc.Status = domain.DocumentStatus(status)
	if err := json.Unmarshal([]byte(sections), &doc.Sections); err != nil {
		return nil, fmt.Errorf("unmarshal sections: %w", err)
	}
	if processedAt.Valid {
		doc.ProcessedAt = &processedAt.Time
	}
	return &doc, nil
}

// --- ClaimStore ---

type claimStore struct {
	store *Store
}

var _ driven.ClaimStore = (*claimStore)(nil)

func (c *claimStore) SaveClaim(ctx context.Context, claim *domain.Claim) error {
	intent, err := json.Marshal(claim.Intent)
	if err != nil {
		return fmt.Errorf("marshal intent: %w", err)
	}

	_, err = c.store.db.ExecContext(ctx, `
		INSERT INTO claims (id, document_id, intent, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET intent = excluded.intent`,
		claim.ID, claim.DocumentID, string(intent), claim.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save claim: %w", err)
	}
	return nil
}

func (c *claimStore) GetClaim(ctx context.Context, id string) (*domain.Claim, error) {
	var claim domain.Claim
	var intent string

	err := c.store.db.QueryRowContext(ctx, `
		SELECT id, document_id, intent, created_at FROM claims WHERE id = ?`, id,
	).Scan(&claim.ID, &claim.DocumentID, &intent, &claim.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get claim: %w", err)
	}

	if err := json.Unmarshal([]byte(intent), &claim.Intent); err != nil {
		return nil, fmt.Errorf("unmarshal intent: %w", err)
	}
	return &claim, nil
}

func (c *claimStore) ListClaims(ctx context.Context, documentID string) ([]domain.Claim, error) {
	rows, err := c.store.db.QueryContext(ctx, `
		SELECT id, document_id, intent, created_at
		FROM claims WHERE document_id = ? ORDER BY created_at DESC`, documentID)
	if err != nil {
		return nil, fmt.Errorf("list claims: %w", err)
	}
	defer rows.Close()

	var claims []domain.Claim
	for rows.Next() {
		var claim domain.Claim
		var intent string
		if err := rows.Scan(&claim.ID, &claim.DocumentID, &intent, &claim.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan claim: %w", err)
		}
		if err := json.Unmarshal([]byte(intent), &claim.Intent); err != nil {
			return nil, fmt.Errorf("unmarshal intent: %w", err)
		}
		claims = append(claims, claim)
	}
	return claims, rows.Err()
}

// --- AnalysisStore ---

type analysisStore struct {
	store *Store
}

var _ driven.AnalysisStore = (*analysisStore)(nil)

func (a *analysisStore) SaveAnalysis(ctx context.Context, analysis *domain.Analysis) error {
	clauses, err := json.Marshal(analysis.Clauses)
	if err != nil {
		return fmt.Errorf("marshal clauses: %w", err)
	}

	enriched := 0
	if analysis.Decision.Enriched {
		enriched = 1
	}

	_, err = a.store.db.ExecContext(ctx, `
		INSERT INTO analyses (id, claim_id, verdict, approved, justification, rule_id, enriched, clauses, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		analysis.ID, analysis.ClaimID, string(analysis.Decision.Verdict), analysis.Decision.ApprovedAmount,
		analysis.Decision.Justification, analysis.Decision.RuleID, enriched, string(clauses), analysis.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("save analysis: %w", err)
	}
	return nil
}

func (a *analysisStore) GetAnalysis(ctx context.Context, id string) (*domain.Analysis, error) {
	row := a.store.db.QueryRowContext(ctx, `
		SELECT id, claim_id, verdict, approved, justification, rule_id, enriched, clauses, created_at
		FROM analyses WHERE id = ?`, id)
	return scanAnalysis(row)
}

func (a *analysisStore) ListAnalyses(ctx context.Context) ([]domain.Analysis, error) {
	return a.queryAnalyses(ctx, `
		SELECT id, claim_id, verdict, approved, justification, rule_id, enriched, clauses, created_at
		FROM analyses ORDER BY created_at DESC`)
}

func (a *analysisStore) RecentAnalyses(ctx context.Context, limit int) ([]domain.Analysis, error) {
	return a.queryAnalyses(ctx, `
		SELECT id, claim_id, verdict, approved, justification, rule_id, enriched, clauses, created_at
		FROM analyses ORDER BY created_at DESC LIMIT ?`, limit)
}

func (a *analysisStore) queryAnalyses(ctx context.Context, query string, args ...any) ([]domain.Analysis, error) {
	rows, err := a.store.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analyses: %w", err)
	}
	defer rows.Close()

	var analyses []domain.Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, *analysis)
	}
	return analyses, rows.Err()
}

func scanAnalysis(row scanner) (*domain.Analysis, error) {
	var analysis domain.Analysis
	var verdict, clauses string
	var enriched int

	err := row.Scan(
		&analysis.ID, &analysis.ClaimID, &verdict, &analysis.Decision.ApprovedAmount,
		&analysis.Decision.Justification, &analysis.Decision.RuleID, &enriched, &clauses, &analysis.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan analysis: %w", err)
	}

	analysis.Decision.Verdict = domain.Verdict(verdict)
	analysis.Decision.Enriched = enriched != 0
	if err := json.Unmarshal([]byte(clauses), &analysis.Clauses); err != nil {
		return nil, fmt.Errorf("unmarshal clauses: %w", err)
	}
	return &analysis, nil
}
