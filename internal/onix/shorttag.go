package onix

import (
	"regexp"
	"strings"
)

// shortTagNames maps ONIX 2.1 short-tag element names to their
// reference-tag equivalents. The table covers the fields the catalog
// consumes plus the container elements the short DTD renames.
var shortTagNames = map[string]string{
	// containers
	"ONIXmessage": "ONIXMessage",
	"header":      "Header",
	"product":     "Product",
	"contributor": "Contributor",
	"price":       "Price",

	// header
	"m174": "FromCompany",
	"m172": "FromEmail",
	"m182": "SentDate",

	// product
	"a001": "RecordReference",
	"a002": "NotificationType",
	"b004": "ISBN",
	"b005": "EAN13",
	"b006": "ProductForm",
	"b203": "DistinctiveTitle",
	"b029": "Subtitle",
	"b034": "ContributorRole",
	"b036": "PersonNameInverted",
	"b037": "PersonName",
	"b394": "PublishingStatus",
	"b003": "PublicationDate",

	// price composite
	"j148": "PriceTypeCode",
	"j151": "PriceAmount",
	"j152": "CurrencyCode",
}

var (
	shortTagProbe   = regexp.MustCompile(`</?[a-z]\d{3}[\s/>]`)
	shortTagPattern *regexp.Regexp
)

func init() {
	names := make([]string, 0, len(shortTagNames))
	for name := range shortTagNames {
		names = append(names, regexp.QuoteMeta(name))
	}
	shortTagPattern = regexp.MustCompile(`<(/?)(` + strings.Join(names, "|") + `)([\s/>])`)
}

// HasShortTags reports whether the text contains 2.1 short-tag element
// names (compact alphanumeric spellings such as a001 or b004).
func HasShortTags(text string) bool {
	return shortTagProbe.MatchString(text)
}

// ExpandShortTags rewrites short-tag element names to their reference
// spellings in a single textual pass. Only tag names are touched;
// attributes and character data stay as they are, so expanding already
// expanded text is a no-op.
func ExpandShortTags(text string) string {
	return shortTagPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := shortTagPattern.FindStringSubmatch(m)
		return "<" + sub[1] + shortTagNames[sub[2]] + sub[3]
	})
}
