package onix

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeToUTF8 normalizes raw upload bytes to a UTF-8 string. A leading
// BOM is stripped; the declared encoding= in the XML prolog is ignored.
// Bytes that are not valid UTF-8 get a Latin-1 decode as a last resort,
// so this step never fails.
func DecodeToUTF8(raw []byte) string {
	raw = bytes.TrimPrefix(raw, utf8BOM)
	if utf8.Valid(raw) {
		return string(raw)
	}

	decoded, _, err := transform.Bytes(charmap.ISO8859_1.NewDecoder(), raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), string(utf8.RuneError))
	}
	return string(decoded)
}
