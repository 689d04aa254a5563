package execution

import (
	"fmt"
	"strings"

	"toydbms/pkg/dberror"
	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
	"toydbms/pkg/types"
)

// Projection implements column selection: it maps each child row into an
// explicit output header by copying the value of every output attribute
// from its position in the child header.
//
// Conceptually: SELECT t.c1, t.c3 FROM t
type Projection struct {
	*iterator.UnaryOperator
	header  *tuple.Header // Schema of our output rows
	indices []int         // Position of each output attribute in the child header
}

// NewProjection creates a Projection producing the given attributes, in order.
// Every attribute must exist in the child's header and appear at most once.
func NewProjection(child iterator.Operator, attributes []string) (*Projection, error) {
	unary, err := iterator.NewUnaryOperator(child)
	if err != nil {
		return nil, err
	}

	if len(attributes) == 0 {
		return nil, dberror.New(dberror.ErrCategoryInvalid, dberror.CodeInvalidQuery,
			"must project at least one attribute")
	}

	header, err := tuple.NewHeader(attributes...)
	if err != nil {
		return nil, err
	}

	childHeader := child.Header()
	indices := make([]int, len(attributes))
	for i, attr := range attributes {
		if indices[i], err = childHeader.Index(attr); err != nil {
			return nil, err
		}
	}

	return &Projection{UnaryOperator: unary, header: header, indices: indices}, nil
}

// Header returns the projected schema.
func (p *Projection) Header() *tuple.Header {
	return p.header
}

func (p *Projection) Next() (*tuple.Row, error) {
	row, err := p.FetchNext()
	if err != nil || row == nil {
		return nil, err
	}

	values := make([]types.Value, len(p.indices))
	for i, idx := range p.indices {
		values[i] = row.Value(idx)
	}
	return tuple.NewRow(p.header, values)
}

func (p *Projection) Explain() string {
	return fmt.Sprintf("Projection [%s]", strings.Join(p.header.Names(), ", "))
}
