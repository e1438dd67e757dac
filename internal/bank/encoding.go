package bank

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// Decode converts raw file bytes to a UTF-8 string. Bytes that already form
// valid UTF-8 pass through untouched, even when the profile declares
// ISO-8859-1, since banks switch encodings between app versions without
// notice.
// Anything else is decoded as ISO-8859-1, which is what Brazilian banks
// actually ship when the export dialog says "texto".
func Decode(raw []byte) string {
	if utf8.Valid(raw) {
		return string(raw)
	}
	decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(raw)
	if err != nil {
		return string(raw)
	}
	return string(decoded)
}
