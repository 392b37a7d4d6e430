package onix

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
)

var (
	rootElementPattern = regexp.MustCompile(`<([A-Za-z][A-Za-z0-9._:-]*)[\s>/]`)
	releasePattern     = regexp.MustCompile(`<ONIXMessage\b[^>]*\brelease\s*=\s*"([^"]+)"`)
	doctype21Pattern   = regexp.MustCompile(`(?i)<!DOCTYPE[^>]*onix[^>]*2\.1|<!DOCTYPE[^>]*onix-international\.dtd`)
	productPattern     = regexp.MustCompile(`<[Pp]roduct[\s>/]`)
)

// tags that exist only in the 2.1 reference vocabulary
var referenceTags21 = []string{"<DistinctiveTitle>", "<FromCompany>", "<BASICMainSubject>"}

// DetectVersion classifies normalized message text as one of the known
// ONIX dialects. Checks run in confidence order: explicit release
// attribute, 3.x namespace, 2.1 DTD or 2.1-only reference tags, 2.1
// short-tag element names. Anything else is unknown.
func DetectVersion(text string) internal.DetectedVersion {
	if m := releasePattern.FindStringSubmatch(text); m != nil {
		switch {
		case strings.HasPrefix(m[1], "3.1"):
			return internal.Version31
		case strings.HasPrefix(m[1], "3.0"):
			return internal.Version30
		}
	}

	if strings.Contains(text, "/onix/3.1/") {
		return internal.Version31
	}
	if strings.Contains(text, "/onix/3.0/") {
		return internal.Version30
	}

	if doctype21Pattern.MatchString(text) {
		return internal.Version21
	}
	for _, tag := range referenceTags21 {
		if strings.Contains(text, tag) {
			return internal.Version21
		}
	}

	if HasShortTags(text) {
		return internal.Version21
	}

	return internal.VersionUnknown
}

// ValidateStructure checks gross document shape before any per-product
// parsing: the root must be an ONIX message container and at least one
// Product record must be present. Failure short-circuits the pipeline.
func ValidateStructure(text string) error {
	m := rootElementPattern.FindStringSubmatch(stripProlog(text))
	if m == nil {
		return fmt.Errorf("not an ONIX message root element")
	}
	root := m[1]
	if i := strings.LastIndex(root, ":"); i >= 0 {
		root = root[i+1:]
	}
	if root != "ONIXMessage" && root != "ONIXmessage" {
		return fmt.Errorf("not an ONIX message root element")
	}

	if EstimateProductCount(text) == 0 {
		return fmt.Errorf("no Product records")
	}
	return nil
}

// EstimateProductCount counts Product element occurrences without
// building a DOM; used for the pre-parse product-count ceiling.
func EstimateProductCount(text string) int {
	return len(productPattern.FindAllStringIndex(text, -1))
}

// stripProlog drops the XML declaration, DOCTYPE and leading comments
// so the first remaining start tag is the root element.
func stripProlog(text string) string {
	s := strings.TrimSpace(text)
	for {
		switch {
		case strings.HasPrefix(s, "<?"):
			end := strings.Index(s, "?>")
			if end < 0 {
				return s
			}
			s = strings.TrimSpace(s[end+2:])
		case strings.HasPrefix(s, "<!--"):
			end := strings.Index(s, "-->")
			if end < 0 {
				return s
			}
			s = strings.TrimSpace(s[end+3:])
		case strings.HasPrefix(s, "<!"):
			end := strings.Index(s, ">")
			if end < 0 {
				return s
			}
			s = strings.TrimSpace(s[end+1:])
		default:
			return s
		}
	}
}
