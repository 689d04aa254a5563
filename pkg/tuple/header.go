package tuple

import (
	"strings"

	"toydbms/pkg/dberror"
)

// Header describes the schema of the rows produced by one operator: an
// ordered sequence of unique qualified attribute names ("table.column").
//
// A Header is never mutated after construction, so every row of an operator
// shares the same *Header without synchronization.
type Header struct {
	names []string
	index map[string]int
}

// NewHeader creates a Header from the given attribute names. Names must be
// non-empty and unique.
func NewHeader(names ...string) (*Header, error) {
	h := &Header{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
	}

	for i, name := range names {
		if name == "" {
			return nil, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidHeader,
				"attribute %d has an empty name", i)
		}
		if _, dup := h.index[name]; dup {
			return nil, dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidHeader,
				"duplicate attribute %q", name)
		}
		h.names[i] = name
		h.index[name] = i
	}

	return h, nil
}

// Len returns the number of attributes.
func (h *Header) Len() int {
	return len(h.names)
}

// Name returns the name of the ith attribute.
func (h *Header) Name(i int) string {
	return h.names[i]
}

// Names returns a copy of the attribute names in order.
func (h *Header) Names() []string {
	out := make([]string, len(h.names))
	copy(out, h.names)
	return out
}

// Index returns the position of the named attribute.
func (h *Header) Index(name string) (int, error) {
	i, ok := h.index[name]
	if !ok {
		return 0, dberror.UnknownIdentifierf(dberror.CodeUnknownAttribute, "unknown attribute %s", name)
	}
	return i, nil
}

// Contains reports whether the header has the named attribute.
func (h *Header) Contains(name string) bool {
	_, ok := h.index[name]
	return ok
}

// Concat returns the header of a join: left's attributes followed by right's.
func Concat(left, right *Header) (*Header, error) {
	names := make([]string, 0, left.Len()+right.Len())
	names = append(names, left.names...)
	names = append(names, right.names...)
	return NewHeader(names...)
}

// WithPrefix returns a header whose attributes are prefixed with "alias.".
func (h *Header) WithPrefix(alias string) (*Header, error) {
	names := make([]string, len(h.names))
	for i, name := range h.names {
		names[i] = alias + "." + name
	}
	return NewHeader(names...)
}

// String renders the header tab-separated, matching Row.String.
func (h *Header) String() string {
	return strings.Join(h.names, "\t")
}
