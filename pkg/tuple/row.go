package tuple

import (
	"strings"

	"github.com/dchest/siphash"

	"toydbms/pkg/dberror"
	"toydbms/pkg/types"
)

// Keys for row hashing. Hashes never leave the process, so fixed keys are fine.
const (
	hashKey0 uint64 = 0x736f6d6570736575
	hashKey1 uint64 = 0x646f72616e646f6d
)

// Row is a header reference plus one value per header attribute.
// Operators signal end of stream with a nil *Row, never with a zero-width row.
type Row struct {
	header *Header
	values []types.Value
}

// NewRow creates a row. The row takes ownership of values; callers must not
// modify the slice afterwards.
func NewRow(h *Header, values []types.Value) (*Row, error) {
	if h == nil {
		return nil, dberror.New(dberror.ErrCategoryInternal, dberror.CodeInvalidRow, "row header cannot be nil")
	}
	if len(values) != h.Len() {
		return nil, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidRow,
			"row has %d values but header has %d attributes", len(values), h.Len())
	}
	return &Row{header: h, values: values}, nil
}

// Header returns the shared header of the row.
func (r *Row) Header() *Header {
	return r.header
}

// Len returns the number of values.
func (r *Row) Len() int {
	return len(r.values)
}

// Value returns the ith value.
func (r *Row) Value(i int) types.Value {
	return r.values[i]
}

// Values returns the row's values. The slice must be treated as read-only.
func (r *Row) Values() []types.Value {
	return r.values
}

// Lookup returns the value of the named attribute.
func (r *Row) Lookup(name string) (types.Value, error) {
	i, err := r.header.Index(name)
	if err != nil {
		return types.Value{}, err
	}
	return r.values[i], nil
}

// Equals compares values positionally; headers are not compared.
func (r *Row) Equals(other *Row) bool {
	if len(r.values) != len(other.values) {
		return false
	}
	for i := range r.values {
		if !r.values[i].Equals(other.values[i]) {
			return false
		}
	}
	return true
}

// Hash returns a hash of all values, consistent with Equals.
func (r *Row) Hash() uint64 {
	return siphash.Hash(hashKey0, hashKey1, AppendKey(nil, r.values))
}

// Project returns the values at the given positions.
func (r *Row) Project(indices []int) []types.Value {
	out := make([]types.Value, len(indices))
	for i, idx := range indices {
		out[i] = r.values[idx]
	}
	return out
}

// String renders the values tab-separated.
func (r *Row) String() string {
	parts := make([]string, len(r.values))
	for i, v := range r.values {
		parts[i] = v.String()
	}
	return strings.Join(parts, "\t")
}

// Combine concatenates left's and right's values under header h, which must
// be the concatenation of both headers.
func Combine(h *Header, left, right *Row) *Row {
	values := make([]types.Value, 0, len(left.values)+len(right.values))
	values = append(values, left.values...)
	values = append(values, right.values...)
	return &Row{header: h, values: values}
}

// WithHeader returns a row sharing r's values under another header of the
// same width.
func (r *Row) WithHeader(h *Header) *Row {
	return &Row{header: h, values: r.values}
}

// AppendKey appends the hashing key of a value sequence to buf.
func AppendKey(buf []byte, values []types.Value) []byte {
	for _, v := range values {
		buf = v.AppendKey(buf)
	}
	return buf
}

// HashValues hashes a value sequence the same way Row.Hash does.
func HashValues(values []types.Value) uint64 {
	return siphash.Hash(hashKey0, hashKey1, AppendKey(nil, values))
}
