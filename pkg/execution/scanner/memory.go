package scanner

import (
	"fmt"

	"toydbms/pkg/dberror"
	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
	"toydbms/pkg/types"
)

// MemorySource is a row source over rows held in memory.
// It counts pulls and resets so tests can observe how often a plan rescans it.
type MemorySource struct {
	name   string
	header *tuple.Header
	rows   *iterator.SliceIterator[*tuple.Row]

	pulled int
	resets int
}

// NewMemorySource creates a source named table producing rows under the
// given bare column names, qualified as "table.column".
func NewMemorySource(table string, columns []string, rows [][]types.Value) (*MemorySource, error) {
	header, err := tuple.NewHeader(qualify(table, columns)...)
	if err != nil {
		return nil, err
	}

	buffered := make([]*tuple.Row, 0, len(rows))
	for _, values := range rows {
		row, err := tuple.NewRow(header, values)
		if err != nil {
			return nil, err
		}
		buffered = append(buffered, row)
	}

	return &MemorySource{
		name:   table,
		header: header,
		rows:   iterator.NewSliceIterator(buffered),
	}, nil
}

func (m *MemorySource) Header() *tuple.Header { return m.header }

func (m *MemorySource) Next() (*tuple.Row, error) {
	row, ok := m.rows.Next()
	if !ok {
		return nil, nil
	}
	m.pulled++
	return row, nil
}

func (m *MemorySource) Reset() error {
	m.resets++
	m.rows.Rewind()
	return nil
}

// Pulled returns how many rows have been produced since construction.
func (m *MemorySource) Pulled() int { return m.pulled }

// Resets returns how many times Reset was called.
func (m *MemorySource) Resets() int { return m.resets }

func (m *MemorySource) Explain() string {
	return fmt.Sprintf("Scan %s", m.name)
}

func (m *MemorySource) Children() []iterator.Operator { return nil }

type memoryTable struct {
	columns []string
	rows    [][]types.Value
}

// MemoryFactory serves MemorySources for a fixed set of in-memory tables.
type MemoryFactory struct {
	tables map[string]memoryTable
	opened []*MemorySource
}

func NewMemoryFactory() *MemoryFactory {
	return &MemoryFactory{tables: make(map[string]memoryTable)}
}

// Add registers table with bare column names and its rows.
func (f *MemoryFactory) Add(table string, columns []string, rows ...[]types.Value) *MemoryFactory {
	f.tables[table] = memoryTable{columns: columns, rows: rows}
	return f
}

// Open implements Factory.
func (f *MemoryFactory) Open(table string) (iterator.Operator, error) {
	t, ok := f.tables[table]
	if !ok {
		return nil, dberror.UnknownIdentifierf(dberror.CodeUnknownTable, "no data for table %s", table)
	}
	src, err := NewMemorySource(table, t.columns, t.rows)
	if err != nil {
		return nil, err
	}
	f.opened = append(f.opened, src)
	return src, nil
}

// Opened returns every source handed out so far, in order.
func (f *MemoryFactory) Opened() []*MemorySource {
	return f.opened
}

// Values converts Go ints and strings into a value slice. It panics on any
// other type and is meant for tests and examples.
func Values(vs ...any) []types.Value {
	out := make([]types.Value, len(vs))
	for i, v := range vs {
		switch x := v.(type) {
		case int:
			out[i] = types.NewInt(int64(x))
		case int64:
			out[i] = types.NewInt(x)
		case string:
			out[i] = types.NewString(x)
		default:
			panic(fmt.Sprintf("unsupported value %T", v))
		}
	}
	return out
}

func qualify(table string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = table + "." + c
	}
	return out
}
