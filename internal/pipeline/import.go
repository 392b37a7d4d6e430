package pipeline

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/config"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/onix"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/storage"
)

// BuildResult runs the pure pipeline over one upload: constraints →
// decode → detect → structure → [short-tag expansion] → dialect parse →
// field mapping → batch checks. Every failure mode is data on the
// returned result; nothing escapes as an error.
func BuildResult(cfg config.Config, meta internal.FileMeta, raw []byte, tenant internal.TenantContext) internal.ImportResult {
	result := internal.ImportResult{
		Version:          internal.VersionUnknown,
		Status:           internal.ImportStatusRejected,
		Products:         []internal.MappedTitle{},
		ParsingErrors:    []string{},
		ValidationErrors: []internal.ValidationError{},
	}

	if errs := ValidateFileConstraints(meta, cfg.MaxUploadBytes); len(errs) > 0 {
		result.ValidationErrors = errs
		return result
	}

	text := onix.DecodeToUTF8(raw)

	result.Version = onix.DetectVersion(text)
	if err := onix.ValidateStructure(text); err != nil {
		result.ValidationErrors = append(result.ValidationErrors, internal.ValidationError{Field: "file", Message: err.Error()})
		return result
	}
	if verr := ValidateProductCount(onix.EstimateProductCount(text), cfg.MaxProducts); verr != nil {
		result.ValidationErrors = append(result.ValidationErrors, *verr)
		return result
	}

	parser, err := onix.ParserFor(result.Version)
	if err != nil {
		result.ValidationErrors = append(result.ValidationErrors, internal.ValidationError{Field: "file", Message: "unsupported or undetected ONIX version"})
		return result
	}

	if result.Version == internal.Version21 && onix.HasShortTags(text) {
		text = onix.ExpandShortTags(text)
	}

	parsed := parser.Parse(text)
	result.Header = parsed.Header
	result.ParsingErrors = parsed.ParsingErrors
	if len(parsed.ParsingErrors) > 0 {
		result.Status = internal.ImportStatusFailed
		return result
	}

	for _, product := range parsed.Products {
		result.Products = append(result.Products, MapTitle(product, tenant))
	}
	CheckDuplicateISBNs(result.Products)

	result.Status = internal.ImportStatusImported
	return result
}

// ImportService persists pipeline results and threads conflict
// decisions against the stored catalog.
type ImportService struct {
	db  *storage.DB
	cfg config.Config
}

func NewImportService(db *storage.DB, cfg config.Config) *ImportService {
	return &ImportService{db: db, cfg: cfg}
}

// Import runs the pipeline, flags ISBN collisions against the stored
// catalog, and records the import with its per-product rows. The
// returned result is the complete report; the error covers storage
// failures only.
func (s *ImportService) Import(meta internal.FileMeta, raw []byte, tenant internal.TenantContext) (internal.ImportResult, int64, error) {
	result := BuildResult(s.cfg, meta, raw, tenant)

	for i := range result.Products {
		isbn := deref(result.Products[i].ISBN)
		if isbn == "" {
			continue
		}
		exists, err := s.db.TitleExists(tenant.TenantID, isbn)
		if err != nil {
			return result, 0, err
		}
		result.Products[i].Conflict = exists
	}

	importID, err := s.db.RecordImport(tenant.TenantID, meta, contentHash(raw), result)
	if err != nil {
		return result, 0, err
	}
	if err := s.db.ReplaceImportRows(importID, result.Products); err != nil {
		return result, importID, err
	}

	return result, importID, nil
}

// Persist writes a non-conflicting mapped title into the catalog, or
// applies the caller's resolution when the ISBN collides.
func (s *ImportService) Persist(tenant internal.TenantContext, title internal.MappedTitle, resolution *internal.ConflictResolution) error {
	if !title.Conflict {
		return s.db.UpsertTitle(tenant.TenantID, title, deref(title.ISBN))
	}
	if resolution == nil {
		return fmt.Errorf("isbn %s collides with an existing title and no resolution was supplied", deref(title.ISBN))
	}
	return s.db.ApplyResolution(tenant.TenantID, title, *resolution)
}

func contentHash(raw []byte) string {
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
