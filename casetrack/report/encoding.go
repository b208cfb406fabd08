package report

import (
	"bytes"
	"io"
	"unicode/utf8"

	"github.com/dimchansky/utfbom"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/encoding/unicode/utf32"
)

// Decode converts raw export bytes to a UTF-8 string. The reporting system
// re-exports with whatever encoding the operator's machine happens to use,
// so the BOM is authoritative when present; BOM-less non-UTF-8 content is
// assumed to be Windows-1252.
func Decode(data []byte) (string, error) {
	sr, enc := utfbom.Skip(bytes.NewReader(data))
	stripped, err := io.ReadAll(sr)
	if err != nil {
		return "", errors.Wrap(err, "failed to read export data")
	}

	switch enc {
	case utfbom.UTF16BigEndian:
		return decodeWith(unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder(), stripped)
	case utfbom.UTF16LittleEndian:
		return decodeWith(unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder(), stripped)
	case utfbom.UTF32BigEndian:
		return decodeWith(utf32.UTF32(utf32.BigEndian, utf32.IgnoreBOM).NewDecoder(), stripped)
	case utfbom.UTF32LittleEndian:
		return decodeWith(utf32.UTF32(utf32.LittleEndian, utf32.IgnoreBOM).NewDecoder(), stripped)
	}

	if utf8.Valid(stripped) {
		return string(stripped), nil
	}
	return decodeWith(charmap.Windows1252.NewDecoder(), stripped)
}

func decodeWith(dec *encoding.Decoder, data []byte) (string, error) {
	out, err := dec.Bytes(data)
	if err != nil {
		return "", errors.Wrap(err, "failed to decode export text")
	}
	return string(out), nil
}
