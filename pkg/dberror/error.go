package dberror

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrorCategory classifies errors by their nature and appropriate handling strategy.
// The planner and the boundary caller use it to tell user mistakes apart from
// engine limitations and internal invariant violations.
type ErrorCategory int

const (
	// ErrCategoryUnsupported represents query shapes the engine deliberately rejects.
	// Examples: OR predicates, aggregates, inequality joins across tables.
	ErrCategoryUnsupported ErrorCategory = iota

	// ErrCategoryUnknownIdentifier represents references to tables or columns
	// that are absent from the FROM list, a header or the catalog.
	ErrCategoryUnknownIdentifier

	// ErrCategoryTypeMismatch represents comparisons between values of different types.
	ErrCategoryTypeMismatch

	// ErrCategoryInvalid represents malformed input documents (catalog, query, table files).
	ErrCategoryInvalid

	// ErrCategoryInternal represents broken engine invariants.
	ErrCategoryInternal
)

func (c ErrorCategory) String() string {
	switch c {
	case ErrCategoryUnsupported:
		return "unsupported"
	case ErrCategoryUnknownIdentifier:
		return "unknown identifier"
	case ErrCategoryTypeMismatch:
		return "type mismatch"
	case ErrCategoryInvalid:
		return "invalid input"
	case ErrCategoryInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Error codes.
const (
	CodeUnsupportedPredicate = "UNSUPPORTED_PREDICATE"
	CodeUnsupportedAggregate = "UNSUPPORTED_AGGREGATE"
	CodeUnsupportedJoin      = "UNSUPPORTED_JOIN"
	CodeUnknownTable         = "UNKNOWN_TABLE"
	CodeUnknownColumn        = "UNKNOWN_COLUMN"
	CodeUnknownAttribute     = "UNKNOWN_ATTRIBUTE"
	CodeTypeMismatch         = "TYPE_MISMATCH"
	CodeInvalidCatalog       = "INVALID_CATALOG"
	CodeInvalidQuery         = "INVALID_QUERY"
	CodeInvalidHeader        = "INVALID_HEADER"
	CodeInvalidRow           = "INVALID_ROW"
	CodeInvalidTableFile     = "INVALID_TABLE_FILE"
	CodeInvalidConfig        = "INVALID_CONFIG"
	CodeInternal             = "INTERNAL"
)

// DBError represents a structured database error with context information.
type DBError struct {
	// Code is a unique identifier for this error type (e.g., "UNKNOWN_COLUMN").
	Code string

	// Category classifies the error for appropriate handling strategy.
	Category ErrorCategory

	// Message is a human-readable description of what went wrong.
	Message string

	// Detail provides additional context about the specific error instance.
	Detail string

	// Operation identifies the operation that was being performed when the error occurred.
	// Examples: "Build", "NewNLJoin", "RewriteConstFilters".
	Operation string

	// Component identifies the system component where the error originated.
	// Examples: "Planner", "JoinsApplier", "Catalog".
	Component string

	// Cause is the underlying error that triggered this database error.
	Cause error
}

// New creates a new DBError with the specified category, code and message.
// The returned error carries a stack trace captured at the call site.
func New(category ErrorCategory, code, message string) error {
	return errors.WithStackDepth(&DBError{
		Code:     code,
		Category: category,
		Message:  message,
	}, 1)
}

// Newf is New with a formatted message.
func Newf(category ErrorCategory, code, format string, args ...any) error {
	return errors.WithStackDepth(&DBError{
		Code:     code,
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}, 1)
}

// Unsupportedf reports a query shape the engine rejects.
func Unsupportedf(code, format string, args ...any) error {
	return errors.WithStackDepth(&DBError{
		Code:     code,
		Category: ErrCategoryUnsupported,
		Message:  fmt.Sprintf(format, args...),
	}, 1)
}

// UnknownIdentifierf reports a reference to an absent table, column or attribute.
func UnknownIdentifierf(code, format string, args ...any) error {
	return errors.WithStackDepth(&DBError{
		Code:     code,
		Category: ErrCategoryUnknownIdentifier,
		Message:  fmt.Sprintf(format, args...),
	}, 1)
}

// Wrap wraps an existing error with database-specific context information.
// If the error already contains a DBError, it enriches that error with
// operation and component context (only if not already set) and returns err
// unchanged otherwise.
func Wrap(err error, code, operation, component string) error {
	if err == nil {
		return nil
	}

	var dbErr *DBError
	if errors.As(err, &dbErr) {
		if dbErr.Operation == "" {
			dbErr.Operation = operation
		}
		if dbErr.Component == "" {
			dbErr.Component = component
		}
		return err
	}

	return errors.WithStackDepth(&DBError{
		Code:      code,
		Category:  ErrCategoryInternal,
		Message:   err.Error(),
		Operation: operation,
		Component: component,
		Cause:     err,
	}, 1)
}

// Error implements the standard Go error interface
//
// The format follows the pattern:
// [ERROR_CODE] Message: Detail (operation: Operation, component: Component) caused by: underlying error
func (e *DBError) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "[%s] %s", e.Code, e.Message)

	if e.Detail != "" {
		fmt.Fprintf(&b, ": %s", e.Detail)
	}

	if e.Operation != "" {
		fmt.Fprintf(&b, " (operation: %s", e.Operation)
		if e.Component != "" {
			fmt.Fprintf(&b, ", component: %s", e.Component)
		}
		b.WriteString(")")
	}

	if e.Cause != nil {
		fmt.Fprintf(&b, " caused by: %v", e.Cause)
	}

	return b.String()
}

// Unwrap returns the underlying cause error, enabling error chain traversal.
func (e *DBError) Unwrap() error {
	return e.Cause
}

// CategoryOf returns the category of the first DBError in err's chain.
func CategoryOf(err error) (ErrorCategory, bool) {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Category, true
	}
	return 0, false
}

// Is reports whether err carries a DBError of the given category.
func Is(err error, category ErrorCategory) bool {
	c, ok := CategoryOf(err)
	return ok && c == category
}

// CodeOf returns the code of the first DBError in err's chain, or "".
func CodeOf(err error) string {
	var dbErr *DBError
	if errors.As(err, &dbErr) {
		return dbErr.Code
	}
	return ""
}
