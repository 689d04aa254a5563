package catalog

import (
	"strings"

	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"toydbms/pkg/dberror"
)

// Catalog is the read-only registry of table statistics consulted by the
// planner. It maps table (or sub-query alias) names to Tables.
type Catalog struct {
	tables map[string]*Table
}

func New() *Catalog {
	return &Catalog{tables: make(map[string]*Table)}
}

// AddTable registers a table. Table names must be unique.
func (c *Catalog) AddTable(t *Table) error {
	if _, dup := c.tables[t.Name]; dup {
		return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidCatalog,
			"duplicate table %s", t.Name)
	}
	c.tables[t.Name] = t
	return nil
}

// Table looks up a table by name.
func (c *Catalog) Table(name string) (*Table, error) {
	t, ok := c.tables[name]
	if !ok {
		return nil, dberror.UnknownIdentifierf(dberror.CodeUnknownTable, "unknown table %s", name)
	}
	return t, nil
}

// TableNames returns all table names in lexicographic order.
func (c *Catalog) TableNames() []string {
	names := maps.Keys(c.tables)
	slices.Sort(names)
	return names
}

// Column resolves a qualified name "table.column". The name is split at the
// first '.', so columns of collapsed sub-query tables ("alias.t.c") resolve
// to column "t.c" of table "alias".
func (c *Catalog) Column(qualified string) (*Column, error) {
	table, column, ok := strings.Cut(qualified, ".")
	if !ok {
		return nil, dberror.UnknownIdentifierf(dberror.CodeUnknownColumn,
			"attribute %s is not qualified with a table name", qualified)
	}
	t, err := c.Table(table)
	if err != nil {
		return nil, err
	}
	return t.Column(column)
}

// Prune returns a catalog restricted to the named tables.
func (c *Catalog) Prune(names []string) (*Catalog, error) {
	out := New()
	for _, name := range names {
		if _, seen := out.tables[name]; seen {
			continue
		}
		t, err := c.Table(name)
		if err != nil {
			return nil, err
		}
		out.tables[name] = t
	}
	return out, nil
}

// WithTable returns a copy of the catalog that additionally holds t,
// replacing any table of the same name.
func (c *Catalog) WithTable(t *Table) *Catalog {
	out := &Catalog{tables: maps.Clone(c.tables)}
	out.tables[t.Name] = t
	return out
}

// JoinToOneTable collapses every table of the catalog into one synthetic
// table named alias, whose columns are the source columns renamed to
// "table.column". It lets the result of a sub-query be treated as a table
// with statistics. The row count is the product of the source row counts.
func (c *Catalog) JoinToOneTable(alias string) *Table {
	rows := 1
	if len(c.tables) == 0 {
		rows = 0
	}

	out := NewTable(alias, 0)
	for _, name := range c.TableNames() {
		t := c.tables[name]
		rows *= t.Rows
		for _, col := range t.columns {
			// Names are unique across tables because table names are.
			_ = out.AddColumn(col.clone(t.Name + "." + col.Name))
		}
	}
	out.Rows = rows
	return out
}
