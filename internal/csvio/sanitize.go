package csvio

// sanitize.go cleans raw upload bytes before parsing. Spreadsheet exports
// from Windows commonly carry a UTF-8 BOM, and files saved from legacy tools
// can contain Latin-1 bytes that are not valid UTF-8.

import (
	"bytes"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// Sanitize strips a leading UTF-8 BOM and replaces invalid UTF-8 sequences
// with the Unicode replacement character. Valid input is returned unchanged
// (minus the BOM) without copying.
func Sanitize(data []byte) []byte {
	data = bytes.TrimPrefix(data, utf8BOM)
	if utf8.Valid(data) {
		return data
	}

	var buf bytes.Buffer
	buf.Grow(len(data))
	for len(data) > 0 {
		r, size := utf8.DecodeRune(data)
		if r == utf8.RuneError && size == 1 {
			buf.WriteRune('�')
			data = data[1:]
		} else {
			buf.Write(data[:size])
			data = data[size:]
		}
	}
	return buf.Bytes()
}
