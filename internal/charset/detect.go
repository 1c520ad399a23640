// Package charset guesses the text encoding of uploaded files and decodes them
// to UTF-8.
package charset

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/ianaindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// DefaultSampleSize is how many leading bytes Detect inspects.
const DefaultSampleSize = 10000

// Fallback is the label returned when detection is inconclusive.
const Fallback = "UTF-8"

// ErrUnknownEncoding is returned by Lookup for labels x/text cannot decode.
var ErrUnknownEncoding = errors.New("unknown encoding")

// Detect reads up to sampleSize bytes from the start of rs, guesses their
// encoding and seeks rs back to the start. It never fails: an empty sample,
// a read error or an inconclusive guess all yield Fallback.
func Detect(rs io.ReadSeeker, sampleSize int) string {
	if sampleSize <= 0 {
		sampleSize = DefaultSampleSize
	}

	sample := make([]byte, sampleSize)
	n, err := io.ReadFull(rs, sample)
	if _, seekErr := rs.Seek(0, io.SeekStart); seekErr != nil {
		return Fallback
	}
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Fallback
	}

	return DetectBytes(sample[:n])
}

// DetectBytes guesses the encoding of sample.
func DetectBytes(sample []byte) string {
	if len(sample) == 0 {
		return Fallback
	}

	res, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || res == nil || res.Charset == "" {
		return Fallback
	}
	return res.Charset
}

// Lookup resolves a detector label to a decoder. UTF-8 labels resolve to nil,
// meaning the bytes can be used as they are.
func Lookup(label string) (encoding.Encoding, error) {
	name := strings.TrimSpace(label)
	if name == "" || strings.EqualFold(name, "utf-8") || strings.EqualFold(name, "utf8") {
		return nil, nil
	}

	if enc, err := htmlindex.Get(name); err == nil {
		return normalize(enc), nil
	}
	if enc, err := ianaindex.IANA.Encoding(name); err == nil && enc != nil {
		return normalize(enc), nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnknownEncoding, label)
}

// normalize maps encodings that are UTF-8 under another name to nil.
func normalize(enc encoding.Encoding) encoding.Encoding {
	if enc == unicode.UTF8 || enc == encoding.Nop {
		return nil
	}
	return enc
}

// NewReader returns a reader producing UTF-8 text from r, which is encoded
// according to label. A leading byte order mark switches decoding to the
// matching Unicode form and is dropped; invalid bytes become U+FFFD.
// Unknown labels return ErrUnknownEncoding together with a UTF-8 reader so
// callers may choose to continue.
func NewReader(r io.Reader, label string) (io.Reader, error) {
	enc, err := Lookup(label)
	if err != nil || enc == nil {
		return UTF8Reader(r), err
	}
	return transform.NewReader(r, unicode.BOMOverride(enc.NewDecoder())), nil
}

// UTF8Reader returns r as UTF-8 with any byte order mark removed and invalid
// sequences replaced.
func UTF8Reader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
