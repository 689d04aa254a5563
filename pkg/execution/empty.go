package execution

import (
	"fmt"
	"strings"

	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
)

// Empty produces no rows under a fixed header. The planner substitutes it
// for a table once it proves the table's filters unsatisfiable.
type Empty struct {
	header *tuple.Header
}

func NewEmpty(header *tuple.Header) *Empty {
	return &Empty{header: header}
}

func (e *Empty) Header() *tuple.Header { return e.header }

func (e *Empty) Next() (*tuple.Row, error) { return nil, nil }

func (e *Empty) Reset() error { return nil }

func (e *Empty) Explain() string {
	return fmt.Sprintf("Empty [%s]", strings.Join(e.header.Names(), ", "))
}

func (e *Empty) Children() []iterator.Operator { return nil }
