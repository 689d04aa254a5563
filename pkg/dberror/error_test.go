package dberror

import (
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoriesSurviveWrapping(t *testing.T) {
	err := Unsupportedf(CodeUnsupportedPredicate, "OR predicates are not supported")
	wrapped := errors.Wrap(err, "building plan")

	assert.True(t, Is(wrapped, ErrCategoryUnsupported))
	assert.False(t, Is(wrapped, ErrCategoryUnknownIdentifier))
	assert.Equal(t, CodeUnsupportedPredicate, CodeOf(wrapped))
	assert.Contains(t, wrapped.Error(), "[UNSUPPORTED_PREDICATE] OR predicates are not supported")
}

func TestWrapEnrichesExistingDBError(t *testing.T) {
	err := UnknownIdentifierf(CodeUnknownTable, "unknown table %q", "emp")
	got := Wrap(err, CodeInternal, "Build", "Planner")

	var dbErr *DBError
	require.True(t, errors.As(got, &dbErr))
	assert.Equal(t, "Build", dbErr.Operation)
	assert.Equal(t, "Planner", dbErr.Component)
	assert.Equal(t, ErrCategoryUnknownIdentifier, dbErr.Category)
	assert.Equal(t, `[UNKNOWN_TABLE] unknown table "emp" (operation: Build, component: Planner)`, dbErr.Error())
}

func TestWrapForeignError(t *testing.T) {
	assert.Nil(t, Wrap(nil, CodeInternal, "op", "comp"))

	cause := errors.New("disk on fire")
	got := Wrap(cause, CodeInvalidTableFile, "Open", "CSVSource")

	assert.True(t, Is(got, ErrCategoryInternal))
	assert.Equal(t, CodeInvalidTableFile, CodeOf(got))
	assert.True(t, errors.Is(got, cause))
}

func TestPlainErrorsHaveNoCategory(t *testing.T) {
	_, ok := CategoryOf(errors.New("plain"))
	assert.False(t, ok)
	assert.Equal(t, "", CodeOf(errors.New("plain")))
}
