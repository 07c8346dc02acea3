// Package message converts chat text taken from the wire into UTF-8 strings.
//
// Peers may still run with a legacy Korean locale and send CP949 bytes.
// Such input is recognised by failing UTF-8 validation and converted,
// anything that can not be converted is passed through unchanged.
package message

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/korean"
)

// Decode - returns given bytes as UTF-8 text.
// Valid UTF-8 is returned as is. Other input is treated as CP949 and converted,
// if conversion fails the original bytes are returned unchanged.
func Decode(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	converted, ok := fromLegacy(b)
	if !ok {
		return string(b)
	}
	return string(converted)
}

// fromLegacy - converts CP949 bytes into UTF-8.
// Conversion is treated as failed when the decoder had to substitute any byte sequence.
func fromLegacy(b []byte) ([]byte, bool) {
	out, err := korean.EUCKR.NewDecoder().Bytes(b)
	if err != nil {
		return nil, false
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return nil, false
	}
	return out, true
}

// LastValidRune - return index and size in bytes of last well-encoded rune in given slice.
// Returns (-1, 0) if source does not contain valid unicode code points.
// It helps to cut a byte run on a rune boundary before it is sent.
func LastValidRune(s []byte) (i, size int) {
	if len(s) == 0 {
		return -1, 0
	}
	return bytes.LastIndexFunc(s, func(r rune) bool {
			valid := r != utf8.RuneError && utf8.ValidRune(r)
			if valid {
				size = utf8.RuneLen(r)
			}
			return valid
		}),
		size
}

// Truncate - cuts string to at most max bytes without splitting a multi-byte rune.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	if len(s) <= max {
		return s
	}
	b := []byte(s[:max])
	for len(b) > 0 && !utf8.Valid(b) {
		i, size := LastValidRune(b)
		if i < 0 {
			return ""
		}
		b = b[:i+size]
	}
	return string(b)
}
