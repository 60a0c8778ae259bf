package source

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrInvalidEncoding is returned when source bytes are not valid UTF-8
// and carry no UTF-16 byte order mark.
var ErrInvalidEncoding = errors.New("invalid text encoding")

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Decode turns raw file bytes into normalized UTF-8 text.
// A UTF-8 BOM is dropped, UTF-16 input with a BOM is transcoded, and CRLF is
// folded into LF. The returned flags describe what was changed.
func Decode(content []byte) ([]byte, FileFlags, error) {
	var flags FileFlags

	switch {
	case bytes.HasPrefix(content, bomUTF8):
		content = content[len(bomUTF8):]
		flags |= FileHadBOM
	case bytes.HasPrefix(content, bomUTF16LE), bytes.HasPrefix(content, bomUTF16BE):
		dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
		out, _, err := transform.Bytes(dec, content)
		if err != nil {
			return nil, flags, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
		}
		content = out
		flags |= FileHadBOM | FileTranscoded
	}

	if !utf8.Valid(content) {
		return nil, flags, fmt.Errorf("%w: offset %d", ErrInvalidEncoding, firstInvalid(content))
	}

	content, hadCRLF := normalizeCRLF(content)
	if hadCRLF {
		flags |= FileNormalizedCRLF
	}
	return content, flags, nil
}

func firstInvalid(content []byte) int {
	for i := 0; i < len(content); {
		r, size := utf8.DecodeRune(content[i:])
		if r == utf8.RuneError && size <= 1 {
			return i
		}
		i += size
	}
	return len(content)
}
