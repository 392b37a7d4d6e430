package util

import "strings"

type ParsedName struct {
	FirstName string
	LastName  string
}

// ParseName splits a display name into first/last on whitespace: the
// last token becomes the surname, everything before it the first name.
// Suffixes and multi-word particles are not special-cased; downstream
// contact dedup depends on this exact rule.
func ParseName(fullName string) ParsedName {
	tokens := strings.Fields(fullName)
	switch len(tokens) {
	case 0:
		return ParsedName{FirstName: "", LastName: "Unknown"}
	case 1:
		return ParsedName{FirstName: "", LastName: tokens[0]}
	default:
		return ParsedName{
			FirstName: strings.Join(tokens[:len(tokens)-1], " "),
			LastName:  tokens[len(tokens)-1],
		}
	}
}

// ParseInvertedName handles the ONIX "Last, First" form. Input without
// a comma falls back to ParseName.
func ParseInvertedName(inverted string) ParsedName {
	before, after, found := strings.Cut(inverted, ",")
	if !found {
		return ParseName(inverted)
	}
	return ParsedName{
		FirstName: strings.TrimSpace(after),
		LastName:  strings.TrimSpace(before),
	}
}

func StringPtr(v string) *string { return &v }
