package storage

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/util"
)

type DB struct {
	conn *sql.DB
}

func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}

	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	if _, err := conn.Exec(`PRAGMA journal_mode = WAL;`); err != nil {
		_ = conn.Close()
		return nil, err
	}

	db := &DB{conn: conn}
	if err := db.init(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	return db, nil
}

func (d *DB) Close() error {
	return d.conn.Close()
}

func (d *DB) init() error {
	schema := `
CREATE TABLE IF NOT EXISTS imports (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tenant TEXT NOT NULL,
  filename TEXT NOT NULL,
  size INTEGER NOT NULL,
  mime TEXT,
  hash TEXT NOT NULL,
  version TEXT NOT NULL,
  status TEXT NOT NULL,
  productCount INTEGER NOT NULL,
  errorCount INTEGER NOT NULL,
  createdAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(tenant, hash)
);

CREATE TABLE IF NOT EXISTS import_rows (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  importId INTEGER NOT NULL,
  rawIndex INTEGER NOT NULL,
  title TEXT NOT NULL,
  subtitle TEXT,
  isbn TEXT,
  publicationStatus TEXT NOT NULL,
  publicationDate TEXT,
  contributorsJson TEXT NOT NULL,
  unmappedJson TEXT NOT NULL,
  errorsJson TEXT NOT NULL,
  conflict INTEGER NOT NULL DEFAULT 0,
  UNIQUE(importId, rawIndex),
  FOREIGN KEY(importId) REFERENCES imports(id)
);

CREATE TABLE IF NOT EXISTS titles (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  tenant TEXT NOT NULL,
  isbn TEXT NOT NULL,
  title TEXT NOT NULL,
  subtitle TEXT,
  publicationStatus TEXT NOT NULL,
  publicationDate TEXT,
  updatedAt TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP,
  UNIQUE(tenant, isbn)
);
CREATE INDEX IF NOT EXISTS idx_titles_isbn ON titles(isbn);
`
	_, err := d.conn.Exec(schema)
	return err
}

// RecordImport upserts one import run keyed by content hash, so
// re-uploading the same bytes updates the existing record.
func (d *DB) RecordImport(tenant string, meta internal.FileMeta, hash string, result internal.ImportResult) (int64, error) {
	errorCount := len(result.ParsingErrors) + len(result.ValidationErrors)
	for _, p := range result.Products {
		errorCount += len(p.ValidationErrors)
	}

	_, err := d.conn.Exec(`
INSERT INTO imports (tenant, filename, size, mime, hash, version, status, productCount, errorCount)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(tenant, hash) DO UPDATE SET
  filename=excluded.filename, size=excluded.size, mime=excluded.mime,
  version=excluded.version, status=excluded.status,
  productCount=excluded.productCount, errorCount=excluded.errorCount,
  updatedAt=CURRENT_TIMESTAMP`,
		tenant, meta.Name, meta.Size, meta.Type, hash,
		string(result.Version), result.Status, len(result.Products), errorCount)
	if err != nil {
		return 0, err
	}

	var id int64
	if err := d.conn.QueryRow(`SELECT id FROM imports WHERE tenant = ? AND hash = ?`, tenant, hash).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// ReplaceImportRows swaps the stored per-product rows for an import.
func (d *DB) ReplaceImportRows(importID int64, titles []internal.MappedTitle) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM import_rows WHERE importId = ?`, importID); err != nil {
		return err
	}

	for _, title := range titles {
		contributors, err := json.Marshal(title.Contributors)
		if err != nil {
			return err
		}
		unmapped, err := json.Marshal(title.UnmappedFields)
		if err != nil {
			return err
		}
		errs, err := json.Marshal(title.ValidationErrors)
		if err != nil {
			return err
		}

		_, err = tx.Exec(`
INSERT INTO import_rows (importId, rawIndex, title, subtitle, isbn, publicationStatus, publicationDate, contributorsJson, unmappedJson, errorsJson, conflict)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			importID, title.RawIndex, title.Title, nullable(title.Subtitle), nullable(title.ISBN),
			title.PublicationStatus, nullable(title.PublicationDate),
			string(contributors), string(unmapped), string(errs), boolToInt(title.Conflict))
		if err != nil {
			return err
		}
	}

	return tx.Commit()
}

// GetReportRows returns the flattened report rows for one import in
// raw-index order, ready for XLSX rendering.
func (d *DB) GetReportRows(importID int64) ([]internal.ImportRow, error) {
	rows, err := d.conn.Query(`
SELECT rawIndex, title, subtitle, isbn, publicationStatus, publicationDate, contributorsJson, unmappedJson, errorsJson, conflict
FROM import_rows WHERE importId = ? ORDER BY rawIndex`, importID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.ImportRow{}
	for rows.Next() {
		var (
			row                                      internal.ImportRow
			subtitle, isbn, pubDate                  sql.NullString
			contributorsJSON, unmappedJSON, errsJSON string
			conflict                                 int
		)
		if err := rows.Scan(&row.RawIndex, &row.Title, &subtitle, &isbn, &row.PublicationStatus, &pubDate,
			&contributorsJSON, &unmappedJSON, &errsJSON, &conflict); err != nil {
			return nil, err
		}
		row.Subtitle = subtitle.String
		row.ISBN = isbn.String
		row.PublicationDate = pubDate.String
		row.Conflict = conflict != 0

		var contributors []internal.MappedContributor
		if err := json.Unmarshal([]byte(contributorsJSON), &contributors); err != nil {
			return nil, err
		}
		var unmapped []internal.UnmappedField
		if err := json.Unmarshal([]byte(unmappedJSON), &unmapped); err != nil {
			return nil, err
		}
		var errs []internal.ValidationError
		if err := json.Unmarshal([]byte(errsJSON), &errs); err != nil {
			return nil, err
		}
		row.Contributors = formatContributors(contributors)
		row.UnmappedFields = formatUnmapped(unmapped)
		row.ValidationErrors = formatErrors(errs)

		out = append(out, row)
	}
	return out, rows.Err()
}

func (d *DB) ListImports(limit int) ([]internal.ImportSummary, error) {
	rows, err := d.conn.Query(`
SELECT id, tenant, filename, version, status, productCount, errorCount, createdAt
FROM imports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []internal.ImportSummary{}
	for rows.Next() {
		var s internal.ImportSummary
		if err := rows.Scan(&s.ID, &s.Tenant, &s.Filename, &s.Version, &s.Status, &s.ProductCount, &s.ErrorCount, &s.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (d *DB) TitleExists(tenant, isbn string) (bool, error) {
	var n int
	err := d.conn.QueryRow(`SELECT COUNT(1) FROM titles WHERE tenant = ? AND isbn = ?`, tenant, isbn).Scan(&n)
	return n > 0, err
}

// UpsertTitle writes a mapped title into the catalog under the given
// ISBN (which may differ from the title's own when a create-new
// resolution supplies a replacement).
func (d *DB) UpsertTitle(tenant string, title internal.MappedTitle, isbn string) error {
	if strings.TrimSpace(isbn) == "" {
		return fmt.Errorf("cannot persist title %q without an ISBN", title.Title)
	}
	_, err := d.conn.Exec(`
INSERT INTO titles (tenant, isbn, title, subtitle, publicationStatus, publicationDate)
VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT(tenant, isbn) DO UPDATE SET
  title=excluded.title, subtitle=excluded.subtitle,
  publicationStatus=excluded.publicationStatus, publicationDate=excluded.publicationDate,
  updatedAt=CURRENT_TIMESTAMP`,
		tenant, isbn, title.Title, nullable(title.Subtitle), title.PublicationStatus, nullable(title.PublicationDate))
	return err
}

// ApplyResolution executes a caller-supplied conflict decision for a
// title whose ISBN collides with an existing catalog entry.
func (d *DB) ApplyResolution(tenant string, title internal.MappedTitle, resolution internal.ConflictResolution) error {
	switch resolution.Kind {
	case internal.ConflictSkip:
		return nil
	case internal.ConflictUpdate:
		return d.UpsertTitle(tenant, title, derefOr(title.ISBN, ""))
	case internal.ConflictCreateNew:
		newISBN := strings.TrimSpace(resolution.NewISBN)
		if newISBN == "" {
			return fmt.Errorf("create-new resolution requires a replacement ISBN")
		}
		if !util.IsValidISBN13(newISBN) {
			return fmt.Errorf("replacement ISBN %s fails checksum validation", newISBN)
		}
		return d.UpsertTitle(tenant, title, newISBN)
	default:
		return fmt.Errorf("unknown conflict resolution %q", resolution.Kind)
	}
}

func formatContributors(contributors []internal.MappedContributor) string {
	parts := make([]string, 0, len(contributors))
	for _, c := range contributors {
		name := strings.TrimSpace(c.FirstName + " " + c.LastName)
		parts = append(parts, fmt.Sprintf("%s (%s)", name, c.Role))
	}
	return strings.Join(parts, "; ")
}

func formatUnmapped(fields []internal.UnmappedField) string {
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f.Name+"="+f.RawValue)
	}
	return strings.Join(parts, "; ")
}

func formatErrors(errs []internal.ValidationError) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+": "+e.Message)
	}
	return strings.Join(parts, "; ")
}

func nullable(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}

func derefOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}
