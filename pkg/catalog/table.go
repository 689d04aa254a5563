package catalog

import (
	"toydbms/pkg/dberror"
)

// Table holds the statistics of one table: its approximate row count and
// its columns in file order.
type Table struct {
	Name string
	Rows int

	columns []*Column
	byName  map[string]*Column
}

func NewTable(name string, rows int) *Table {
	return &Table{
		Name:   name,
		Rows:   rows,
		byName: make(map[string]*Column),
	}
}

// AddColumn appends a column. Column names must be unique within the table.
func (t *Table) AddColumn(col *Column) error {
	if col == nil || col.Name == "" {
		return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidCatalog,
			"table %s: column must have a name", t.Name)
	}
	if _, dup := t.byName[col.Name]; dup {
		return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidCatalog,
			"table %s: duplicate column %s", t.Name, col.Name)
	}
	t.columns = append(t.columns, col)
	t.byName[col.Name] = col
	return nil
}

// Column looks up a column by its unqualified name.
func (t *Table) Column(name string) (*Column, error) {
	col, ok := t.byName[name]
	if !ok {
		return nil, dberror.UnknownIdentifierf(dberror.CodeUnknownColumn,
			"table %s has no column %s", t.Name, name)
	}
	return col, nil
}

// Columns returns the columns in file order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, len(t.columns))
	copy(out, t.columns)
	return out
}

// QualifiedNames returns "table.column" for every column in file order.
func (t *Table) QualifiedNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = t.Name + "." + col.Name
	}
	return names
}

// Restrict returns a copy of t holding only the named columns, in the given
// order. Naming a column t does not have is an error.
func (t *Table) Restrict(names []string) (*Table, error) {
	out := NewTable(t.Name, t.Rows)
	for _, name := range names {
		col, err := t.Column(name)
		if err != nil {
			return nil, err
		}
		if err := out.AddColumn(col.clone(name)); err != nil {
			return nil, err
		}
	}
	return out, nil
}
