// Package onix turns raw ONIX uploads into canonical product records.
// The pipeline is textual first (encoding, version heuristics,
// short-tag expansion) so each dialect parser only ever sees one
// canonical tag vocabulary.
package onix

import (
	"fmt"
	"time"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
)

// Parser is the shared capability every dialect implements: consume
// normalized (and, for 2.1 short tags, pre-expanded) message text and
// produce canonical products. Malformed documents never escape as
// errors; they surface as ParsingErrors on the result.
type Parser interface {
	Parse(text string) internal.ParseResult
}

// ParserFor selects the dialect parser for a detected version. Each
// parser is self-contained and ignorant of the others.
func ParserFor(version internal.DetectedVersion) (Parser, error) {
	switch version {
	case internal.Version30, internal.Version31:
		return &referenceParser3x{version: version}, nil
	case internal.Version21:
		return &referenceParser21{}, nil
	default:
		return nil, fmt.Errorf("no parser for ONIX version %q", version)
	}
}

// onixDateFormats in preference order. ONIX dates are usually YYYYMMDD.
var onixDateFormats = []string{"20060102", "2006-01-02", "200601", "2006"}

func parseONIXDate(value string) *time.Time {
	for _, format := range onixDateFormats {
		if parsed, err := time.Parse(format, value); err == nil {
			return &parsed
		}
	}
	return nil
}
