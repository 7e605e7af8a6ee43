package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names the encoding a CSV upload was decoded from.
type Charset string

const (
	CharsetUTF8        Charset = "UTF-8"
	CharsetUTF8BOM     Charset = "UTF-8 BOM"
	CharsetUTF16LE     Charset = "UTF-16LE"
	CharsetUTF16BE     Charset = "UTF-16BE"
	CharsetWindows1252 Charset = "windows-1252"
	CharsetISO88599    Charset = "ISO-8859-9"
)

const sniffSize = 4096

var boms = []struct {
	prefix  []byte
	charset Charset
}{
	{[]byte{0xEF, 0xBB, 0xBF}, CharsetUTF8BOM},
	{[]byte{0xFF, 0xFE}, CharsetUTF16LE},
	{[]byte{0xFE, 0xFF}, CharsetUTF16BE},
}

// Detect guesses the charset of sample. A byte order mark wins, then valid UTF-8, then chardet.
// Anything chardet cannot place is read as Windows-1252, which is what spreadsheet tools on
// workshop PCs save by default.
func Detect(sample []byte) Charset {
	for _, b := range boms {
		if bytes.HasPrefix(sample, b.prefix) {
			return b.charset
		}
	}

	if utf8.Valid(sample) {
		return CharsetUTF8
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil {
		return CharsetWindows1252
	}

	switch result.Charset {
	case "UTF-8":
		return CharsetUTF8
	case "ISO-8859-9":
		return CharsetISO88599
	default:
		return CharsetWindows1252
	}
}

// NewUTF8Reader returns a reader that yields r decoded to UTF-8, along with the detected charset.
// A UTF-8 byte order mark is stripped.
func NewUTF8Reader(r io.Reader) (io.Reader, Charset, error) {
	br := bufio.NewReaderSize(r, sniffSize)

	sample, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peeking input: %w", err)
	}

	if len(sample) == sniffSize {
		sample = trimPartialRune(sample)
	}

	charset := Detect(sample)

	var dec *encoding.Decoder

	switch charset {
	case CharsetUTF8:
		return br, charset, nil
	case CharsetUTF8BOM:
		if _, err := br.Discard(3); err != nil {
			return nil, "", fmt.Errorf("skipping byte order mark: %w", err)
		}

		return br, charset, nil
	case CharsetUTF16LE:
		dec = unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	case CharsetUTF16BE:
		dec = unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder()
	case CharsetISO88599:
		dec = charmap.ISO8859_9.NewDecoder()
	default:
		dec = charmap.Windows1252.NewDecoder()
	}

	return transform.NewReader(br, dec), charset, nil
}

// trimPartialRune drops a multi-byte sequence cut off at the end of a sample.
func trimPartialRune(b []byte) []byte {
	for i := len(b) - 1; i >= 0 && i >= len(b)-utf8.UTFMax; i-- {
		if utf8.RuneStart(b[i]) {
			if !utf8.FullRune(b[i:]) {
				return b[:i]
			}

			break
		}
	}

	return b
}
