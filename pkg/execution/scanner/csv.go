package scanner

import (
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/klauspost/compress/zstd"
	"github.com/spf13/afero"

	"toydbms/pkg/catalog"
	"toydbms/pkg/dberror"
	"toydbms/pkg/iterator"
	"toydbms/pkg/logging"
	"toydbms/pkg/tuple"
	"toydbms/pkg/types"
)

const (
	csvExt  = ".csv"
	zstdExt = ".csv.zst"
)

// CSVFactory opens table files "<dir>/<table>.csv" or, failing that,
// "<dir>/<table>.csv.zst". Column types come from the catalog.
type CSVFactory struct {
	fs      afero.Fs
	dir     string
	catalog *catalog.Catalog
}

func NewCSVFactory(fs afero.Fs, dir string, cat *catalog.Catalog) *CSVFactory {
	return &CSVFactory{fs: fs, dir: dir, catalog: cat}
}

// Open implements Factory.
func (f *CSVFactory) Open(table string) (iterator.Operator, error) {
	t, err := f.catalog.Table(table)
	if err != nil {
		return nil, err
	}

	for _, ext := range []string{csvExt, zstdExt} {
		p := path.Join(f.dir, table+ext)
		ok, err := afero.Exists(f.fs, p)
		if err != nil {
			return nil, errors.Wrapf(err, "checking %s", p)
		}
		if ok {
			return NewCSVSource(f.fs, p, t)
		}
	}

	return nil, dberror.UnknownIdentifierf(dberror.CodeUnknownTable,
		"no table file for %s in %s", table, f.dir)
}

// CSVSource reads one table file. The first record names the columns, bare
// ("id") or qualified ("emp.id"); every following record is one row. Files
// ending in .zst are zstd-compressed.
type CSVSource struct {
	fs     afero.Fs
	path   string
	table  string
	header *tuple.Header
	types  []types.Type

	file    afero.File
	decoder *zstd.Decoder
	reader  *csv.Reader
	done    bool
}

// NewCSVSource opens path and reads its column line. The file stays open
// until the source is exhausted or closed.
func NewCSVSource(fs afero.Fs, path string, table *catalog.Table) (*CSVSource, error) {
	s := &CSVSource{fs: fs, path: path, table: table.Name}

	columns, err := s.open()
	if err != nil {
		return nil, err
	}

	names := make([]string, len(columns))
	s.types = make([]types.Type, len(columns))
	for i, c := range columns {
		bare := strings.TrimPrefix(strings.TrimSpace(c), table.Name+".")
		col, err := table.Column(bare)
		if err != nil {
			_ = s.Close()
			return nil, errors.Wrapf(err, "table file %s", path)
		}
		names[i] = table.Name + "." + bare
		s.types[i] = col.Type
	}

	if s.header, err = tuple.NewHeader(names...); err != nil {
		_ = s.Close()
		return nil, errors.Wrapf(err, "table file %s", path)
	}

	logging.WithTable(table.Name).Debug("opened table file", "path", path, "columns", len(names))
	return s, nil
}

// open (re)opens the file and consumes the column line.
func (s *CSVSource) open() ([]string, error) {
	f, err := s.fs.Open(s.path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening table file %s", s.path)
	}
	s.file = f

	var r io.Reader = f
	if strings.HasSuffix(s.path, ".zst") {
		dec, err := zstd.NewReader(f)
		if err != nil {
			_ = s.Close()
			return nil, errors.Wrapf(err, "opening zstd stream %s", s.path)
		}
		s.decoder = dec
		r = dec
	}

	s.reader = csv.NewReader(r)
	s.reader.ReuseRecord = true
	s.done = false

	columns, err := s.reader.Read()
	if err != nil {
		_ = s.Close()
		if errors.Is(err, io.EOF) {
			return nil, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidTableFile,
				"table file %s has no column line", s.path)
		}
		return nil, errors.Wrapf(err, "reading column line of %s", s.path)
	}
	return append([]string(nil), columns...), nil
}

func (s *CSVSource) Header() *tuple.Header { return s.header }

func (s *CSVSource) Next() (*tuple.Row, error) {
	if s.done {
		return nil, nil
	}

	record, err := s.reader.Read()
	if errors.Is(err, io.EOF) {
		s.done = true
		return nil, s.Close()
	}
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", s.path)
	}
	if len(record) != len(s.types) {
		return nil, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidTableFile,
			"%s: record has %d fields, expected %d", s.path, len(record), len(s.types))
	}

	values := make([]types.Value, len(record))
	for i, field := range record {
		if values[i], err = types.ParseValue(field, s.types[i]); err != nil {
			return nil, errors.Wrapf(err, "%s column %s", s.path, s.header.Name(i))
		}
	}
	return tuple.NewRow(s.header, values)
}

// Reset reopens the file and skips the column line.
func (s *CSVSource) Reset() error {
	if err := s.Close(); err != nil {
		return err
	}
	_, err := s.open()
	return err
}

// Close releases the file handle. Next after Close reports exhaustion.
func (s *CSVSource) Close() error {
	s.done = true
	if s.decoder != nil {
		s.decoder.Close()
		s.decoder = nil
	}
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return errors.Wrapf(err, "closing %s", s.path)
}

func (s *CSVSource) Explain() string {
	return fmt.Sprintf("Scan %s", s.table)
}

func (s *CSVSource) Children() []iterator.Operator { return nil }
