package execution

import (
	"fmt"

	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
)

// AliasAppender exposes its child under an alias: every attribute name is
// prefixed with "alias.". Values pass through unchanged.
type AliasAppender struct {
	*iterator.UnaryOperator
	alias  string
	header *tuple.Header
}

func NewAliasAppender(child iterator.Operator, alias string) (*AliasAppender, error) {
	unary, err := iterator.NewUnaryOperator(child)
	if err != nil {
		return nil, err
	}

	header, err := child.Header().WithPrefix(alias)
	if err != nil {
		return nil, err
	}
	return &AliasAppender{UnaryOperator: unary, alias: alias, header: header}, nil
}

func (a *AliasAppender) Header() *tuple.Header {
	return a.header
}

func (a *AliasAppender) Next() (*tuple.Row, error) {
	row, err := a.FetchNext()
	if err != nil || row == nil {
		return nil, err
	}
	return row.WithHeader(a.header), nil
}

func (a *AliasAppender) Explain() string {
	return fmt.Sprintf("AliasAppender %s", a.alias)
}
