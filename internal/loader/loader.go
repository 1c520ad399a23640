// Package loader turns uploaded files into tables.
//
// The suffix of the file name selects the reader: Excel workbooks (.xlsx,
// .xls) are read from their first sheet, .txt files are tab-delimited UTF-8
// and .csv files go through encoding detection and delimiter probing.
package loader

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/reportmap/internal/charset"
	"github.com/JonMunkholm/reportmap/internal/table"
)

// File is a named, seekable upload.
type File interface {
	io.Reader
	io.Seeker
	Name() string
}

type namedFile struct {
	io.ReadSeeker
	name string
}

func (f namedFile) Name() string { return f.name }

// NamedFile attaches a display name to rs.
func NamedFile(name string, rs io.ReadSeeker) File {
	return namedFile{ReadSeeker: rs, name: name}
}

// Options tunes CSV handling.
type Options struct {
	SampleBytes int    // bytes inspected for encoding detection
	ProbeRows   int    // data rows parsed per delimiter probe
	Delimiters  []rune // probe order
}

// DefaultOptions returns the standard probing setup: 10,000 sample bytes,
// five probe rows and the delimiters comma, semicolon and tab.
func DefaultOptions() Options {
	return Options{
		SampleBytes: charset.DefaultSampleSize,
		ProbeRows:   5,
		Delimiters:  []rune{',', ';', '\t'},
	}
}

// Loader reads uploads into tables.
type Loader struct {
	logger *slog.Logger
	opts   Options
}

// New creates a Loader. Zero fields in opts take their default values.
func New(logger *slog.Logger, opts Options) *Loader {
	def := DefaultOptions()
	if opts.SampleBytes <= 0 {
		opts.SampleBytes = def.SampleBytes
	}
	if opts.ProbeRows <= 0 {
		opts.ProbeRows = def.ProbeRows
	}
	if len(opts.Delimiters) == 0 {
		opts.Delimiters = def.Delimiters
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger, opts: opts}
}

// Load reads f into a table. Unsupported suffixes yield a *FormatError; a
// failed parse yields a *LoadError, which is also logged.
func (l *Loader) Load(f File) (*table.Table, error) {
	name := f.Name()
	ext := strings.ToLower(filepath.Ext(name))

	var (
		t   *table.Table
		err error
	)

	switch ext {
	case ".xlsx":
		t, err = readXLSX(f)
	case ".xls":
		t, err = readXLS(f)
	case ".csv":
		t, err = l.loadCSV(f)
	case ".txt":
		t, err = l.loadTXT(f)
	default:
		return nil, &FormatError{FileName: name}
	}

	if err != nil {
		l.logger.Error("failed to load file", "file", name, "error", err)
		return nil, &LoadError{FileName: name, Format: strings.TrimPrefix(ext, "."), Err: err}
	}
	return t, nil
}

func (l *Loader) loadTXT(f File) (*table.Table, error) {
	header, rows, err := readDelimited(charset.UTF8Reader(f), '\t', -1)
	if err != nil {
		return nil, err
	}
	return table.FromRecords(header, rows)
}

func (l *Loader) loadCSV(f File) (*table.Table, error) {
	enc := charset.Detect(f, l.opts.SampleBytes)
	l.logger.Info("detected encoding", "file", f.Name(), "encoding", enc)

	if _, err := charset.Lookup(enc); err != nil {
		l.logger.Warn("decoding as UTF-8", "file", f.Name(), "encoding", enc, "error", err)
	}

	for _, delim := range l.opts.Delimiters {
		header, _, err := l.parse(f, enc, delim, l.opts.ProbeRows)
		if err != nil {
			if !isParseError(err) {
				return nil, err
			}
			l.logger.Debug("delimiter rejected", "file", f.Name(), "delimiter", string(delim), "error", err)
			continue
		}
		if !isGoodSplit(header) {
			continue
		}

		header, rows, err := l.parse(f, enc, delim, -1)
		if err != nil {
			return nil, err
		}
		return table.FromRecords(header, rows)
	}

	// No candidate split the header: read the whole file with the default
	// comma, which keeps single-column files intact.
	l.logger.Debug("no delimiter accepted, using default", "file", f.Name(), "delimiter", string(DefaultDelimiter))
	header, rows, err := l.parse(f, enc, DefaultDelimiter, -1)
	if err != nil {
		return nil, err
	}
	return table.FromRecords(header, rows)
}

// parse rewinds f and reads it with the given encoding and delimiter.
func (l *Loader) parse(f File, enc string, delim rune, limit int) ([]string, [][]string, error) {
	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, nil, fmt.Errorf("rewind %s: %w", f.Name(), err)
	}
	r, _ := charset.NewReader(f, enc)
	return readDelimited(r, delim, limit)
}

// isGoodSplit accepts a delimiter when it yields more than one column.
func isGoodSplit(header []string) bool {
	return len(header) > 1
}
