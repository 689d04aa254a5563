package execution

import (
	"github.com/cockroachdb/errors"

	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
)

// Cache materialises its child once, at construction, and replays the
// buffered rows on every pass. Reset only rewinds the buffer; the child is
// never read again.
type Cache struct {
	child  iterator.Operator
	cursor *iterator.SliceIterator[*tuple.Row]
}

// NewCache drains child completely.
func NewCache(child iterator.Operator) (*Cache, error) {
	if child == nil {
		return nil, errors.AssertionFailedf("child operator cannot be nil")
	}

	rows, err := iterator.Collect(child)
	if err != nil {
		return nil, errors.Wrap(err, "materialising cache")
	}
	return &Cache{child: child, cursor: iterator.NewSliceIterator(rows)}, nil
}

func (c *Cache) Header() *tuple.Header { return c.child.Header() }

func (c *Cache) Next() (*tuple.Row, error) {
	row, ok := c.cursor.Next()
	if !ok {
		return nil, nil
	}
	return row, nil
}

func (c *Cache) Reset() error {
	c.cursor.Rewind()
	return nil
}

// Len returns the number of buffered rows.
func (c *Cache) Len() int { return c.cursor.Len() }

func (c *Cache) Explain() string { return "Cache" }

func (c *Cache) Children() []iterator.Operator { return []iterator.Operator{c.child} }
