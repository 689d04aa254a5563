// Package scanner provides the leaf operators of an execution tree: row
// sources that turn a stored table into rows.
package scanner

import (
	"toydbms/pkg/iterator"
)

// Factory opens a fresh row source for a table. The planner calls Open once
// per FROM entry; the returned operator must be restartable via Reset.
type Factory interface {
	Open(table string) (iterator.Operator, error)
}
