package catalog

import (
	"io"

	"github.com/cockroachdb/errors"
	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"toydbms/pkg/dberror"
	"toydbms/pkg/types"
)

// catalogFile is the on-disk YAML shape of a catalog:
//
//	tables:
//	  - name: emp
//	    rows: 1000
//	    columns:
//	      - {name: id, type: int, order: asc, unique: true, min: 1, max: 1000}
//	      - {name: dept, type: string}
type catalogFile struct {
	Tables []tableFile `yaml:"tables"`
}

type tableFile struct {
	Name    string       `yaml:"name"`
	Rows    int          `yaml:"rows"`
	Columns []columnFile `yaml:"columns"`
}

type columnFile struct {
	Name   string  `yaml:"name"`
	Type   string  `yaml:"type"`
	Order  string  `yaml:"order"`
	Unique bool    `yaml:"unique"`
	Min    *string `yaml:"min"`
	Max    *string `yaml:"max"`
}

// Load reads a YAML catalog file from fs.
func Load(fs afero.Fs, path string) (*Catalog, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog %s", path)
	}
	defer f.Close()

	c, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "loading catalog %s", path)
	}
	return c, nil
}

// Decode parses a YAML catalog document.
func Decode(r io.Reader) (*Catalog, error) {
	var doc catalogFile
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidCatalog,
			"malformed catalog: %v", err)
	}

	c := New()
	for _, tf := range doc.Tables {
		t, err := tf.build()
		if err != nil {
			return nil, err
		}
		if err := c.AddTable(t); err != nil {
			return nil, err
		}
	}
	return c, nil
}

func (tf tableFile) build() (*Table, error) {
	if tf.Name == "" {
		return nil, dberror.New(dberror.ErrCategoryInvalid, dberror.CodeInvalidCatalog, "table without a name")
	}

	t := NewTable(tf.Name, tf.Rows)
	for _, cf := range tf.Columns {
		col, err := cf.build()
		if err != nil {
			return nil, errors.Wrapf(err, "table %s", tf.Name)
		}
		if err := t.AddColumn(col); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (cf columnFile) build() (*Column, error) {
	typ, err := types.ParseType(cf.Type)
	if err != nil {
		return nil, errors.Wrapf(err, "column %s", cf.Name)
	}
	order, err := ParseSortOrder(cf.Order)
	if err != nil {
		return nil, errors.Wrapf(err, "column %s", cf.Name)
	}

	col := NewColumn(cf.Name, typ, order, cf.Unique)
	if cf.Min == nil && cf.Max == nil {
		return col, nil
	}
	if cf.Min == nil || cf.Max == nil {
		return nil, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidCatalog,
			"column %s must declare both min and max", cf.Name)
	}

	min, err := types.ParseValue(*cf.Min, typ)
	if err != nil {
		return nil, errors.Wrapf(err, "column %s min", cf.Name)
	}
	max, err := types.ParseValue(*cf.Max, typ)
	if err != nil {
		return nil, errors.Wrapf(err, "column %s max", cf.Name)
	}
	return col.WithBounds(min, max)
}
