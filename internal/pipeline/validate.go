package pipeline

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
	"github.com/elockard/salina-erp-bmad2-sub007/internal/util"
)

var acceptedMIMETypes = map[string]struct{}{
	"text/xml":        {},
	"application/xml": {},
}

// ValidateFileConstraints gates an upload before any parsing: XML
// extension or mime type, non-empty, and under the size ceiling.
// Returned errors reject the whole upload.
func ValidateFileConstraints(meta internal.FileMeta, maxBytes int64) []internal.ValidationError {
	errs := []internal.ValidationError{}

	mime := strings.ToLower(strings.TrimSpace(meta.Type))
	ext := strings.ToLower(filepath.Ext(meta.Name))
	_, mimeOK := acceptedMIMETypes[mime]
	if !mimeOK && ext != ".xml" {
		errs = append(errs, internal.ValidationError{Field: "file", Message: fmt.Sprintf("unsupported file type %q; expected XML", meta.Type)})
	}

	if meta.Size == 0 {
		errs = append(errs, internal.ValidationError{Field: "file", Message: "file is empty"})
	}
	if meta.Size > maxBytes {
		errs = append(errs, internal.ValidationError{Field: "file", Message: fmt.Sprintf("file size %d exceeds limit of %d bytes", meta.Size, maxBytes)})
	}

	return errs
}

// ValidateProductCount bounds per-invocation processing cost: at least
// one product, at most maxProducts.
func ValidateProductCount(n, maxProducts int) *internal.ValidationError {
	if n < 1 {
		return &internal.ValidationError{Field: "products", Message: "file contains no products"}
	}
	if n > maxProducts {
		return &internal.ValidationError{Field: "products", Message: fmt.Sprintf("file contains %d products; limit is %d", n, maxProducts)}
	}
	return nil
}

// ValidateTitle appends per-row errors for missing or checksum-invalid
// required fields. The row survives for user correction.
func ValidateTitle(title *internal.MappedTitle) {
	isbn := deref(title.ISBN)
	switch {
	case strings.TrimSpace(isbn) == "":
		title.ValidationErrors = append(title.ValidationErrors, internal.ValidationError{Field: "isbn", Message: "missing ISBN-13"})
	case !util.IsValidISBN13(isbn):
		title.ValidationErrors = append(title.ValidationErrors, internal.ValidationError{Field: "isbn", Message: fmt.Sprintf("invalid ISBN-13 checksum: %s", isbn)})
	}

	if strings.TrimSpace(title.Title) == "" {
		title.ValidationErrors = append(title.ValidationErrors, internal.ValidationError{Field: "title", Message: "missing title"})
	}
}

// CheckDuplicateISBNs flags every occurrence of an ISBN past the first
// within the batch, in raw-index order.
func CheckDuplicateISBNs(titles []internal.MappedTitle) {
	seen := map[string]bool{}
	for i := range titles {
		isbn := deref(titles[i].ISBN)
		if isbn == "" {
			continue
		}
		if seen[isbn] {
			titles[i].ValidationErrors = append(titles[i].ValidationErrors, internal.ValidationError{
				Field:   "isbn",
				Message: fmt.Sprintf("duplicate ISBN within file: %s", isbn),
			})
			continue
		}
		seen[isbn] = true
	}
}
