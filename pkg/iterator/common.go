package iterator

import (
	"fmt"
	"io"
	"strings"

	"github.com/cockroachdb/errors"

	"toydbms/pkg/tuple"
)

// Iterate is a generic helper function that encapsulates the common iteration pattern.
// The processFunc receives each row and can control iteration flow:
// - Return (false, nil) to stop iteration early
// - Return (true, nil) to continue
// - Return (_, error) to stop with error
func Iterate(op Operator, processFunc func(*tuple.Row) (continueLooping bool, err error)) error {
	for {
		row, err := op.Next()
		if err != nil {
			return err
		}
		if row == nil {
			return nil
		}

		shouldContinue, err := processFunc(row)
		if err != nil {
			return err
		}
		if !shouldContinue {
			return nil
		}
	}
}

// ForEach applies a processing function to each remaining row of op.
func ForEach(op Operator, processFunc func(*tuple.Row) error) error {
	return Iterate(op, func(row *tuple.Row) (bool, error) {
		return true, processFunc(row)
	})
}

// Take returns up to n rows from the operator.
func Take(op Operator, n int) ([]*tuple.Row, error) {
	rows := make([]*tuple.Row, 0, n)
	if n <= 0 {
		return rows, nil
	}

	err := Iterate(op, func(row *tuple.Row) (bool, error) {
		rows = append(rows, row)
		return len(rows) < n, nil
	})
	return rows, err
}

// Count returns the number of remaining rows. It consumes the operator.
func Count(op Operator) (int, error) {
	count := 0
	err := ForEach(op, func(*tuple.Row) error {
		count++
		return nil
	})
	return count, err
}

// Collect returns all remaining rows as a slice.
// Note: This consumes the entire operator and loads all rows into memory.
func Collect(op Operator) ([]*tuple.Row, error) {
	var rows []*tuple.Row
	err := ForEach(op, func(row *tuple.Row) error {
		rows = append(rows, row)
		return nil
	})
	return rows, err
}

// Explain renders the operator tree rooted at op, one operator per line,
// children indented under their parent.
func Explain(op Operator) string {
	var b strings.Builder
	explain(&b, op, 0)
	return b.String()
}

func explain(b *strings.Builder, op Operator, depth int) {
	b.WriteString(strings.Repeat("  ", depth))

	ex, ok := op.(Explainer)
	if !ok {
		fmt.Fprintf(b, "%T\n", op)
		return
	}

	b.WriteString(ex.Explain())
	b.WriteByte('\n')
	for _, child := range ex.Children() {
		explain(b, child, depth+1)
	}
}

// Close releases the resources held by the tree rooted at op: every operator
// that is an io.Closer is closed, children first. All operators are visited
// even after a failure; the errors are combined.
func Close(op Operator) error {
	if op == nil {
		return nil
	}

	var err error
	if parent, ok := op.(interface{ Children() []Operator }); ok {
		for _, child := range parent.Children() {
			err = errors.CombineErrors(err, Close(child))
		}
	}
	if c, ok := op.(io.Closer); ok {
		err = errors.CombineErrors(err, c.Close())
	}
	return err
}
