package join

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toydbms/pkg/dberror"
	"toydbms/pkg/execution/scanner"
	"toydbms/pkg/iterator"
	"toydbms/pkg/tuple"
	"toydbms/pkg/types"
)

func source(t *testing.T, table string, columns []string, rows ...[]types.Value) *scanner.MemorySource {
	t.Helper()
	src, err := scanner.NewMemorySource(table, columns, rows)
	require.NoError(t, err)
	return src
}

func render(rows []*tuple.Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.String()
	}
	return out
}

func TestNLJoinMatchesLeftMajor(t *testing.T) {
	left := source(t, "l", []string{"k", "v"},
		scanner.Values("a", 1),
		scanner.Values("a", 2),
		scanner.Values("b", 3),
	)
	right := source(t, "r", []string{"k", "w"},
		scanner.Values("a", 10),
		scanner.Values("c", 30),
	)

	j, err := NewNLJoin(left, right, "l.k", "r.k")
	require.NoError(t, err)
	assert.Equal(t, []string{"l.k", "l.v", "r.k", "r.w"}, j.Header().Names())

	rows, err := iterator.Collect(j)
	require.NoError(t, err)
	assert.Equal(t, []string{"a\t1\ta\t10", "a\t2\ta\t10"}, render(rows))
}

func TestNLJoinDuplicateMatches(t *testing.T) {
	left := source(t, "l", []string{"k"}, scanner.Values(1), scanner.Values(2))
	right := source(t, "r", []string{"k", "n"},
		scanner.Values(1, "x"),
		scanner.Values(2, "y"),
		scanner.Values(1, "z"),
	)

	j, err := NewNLJoin(left, right, "l.k", "r.k")
	require.NoError(t, err)

	rows, err := iterator.Collect(j)
	require.NoError(t, err)
	assert.Equal(t, []string{"1\t1\tx", "1\t1\tz", "2\t2\ty"}, render(rows))
}

func TestNLJoinUnknownAttribute(t *testing.T) {
	left := source(t, "l", []string{"k"}, scanner.Values(1))
	right := source(t, "r", []string{"k"}, scanner.Values(1))

	_, err := NewNLJoin(left, right, "r.k", "l.k")
	require.Error(t, err)
	assert.True(t, dberror.Is(err, dberror.ErrCategoryUnknownIdentifier))
}

func TestJoinRejectsDuplicateNames(t *testing.T) {
	a := source(t, "t", []string{"k"}, scanner.Values(1))
	b := source(t, "t", []string{"k"}, scanner.Values(1))

	_, err := NewCrossJoin(a, b)
	require.Error(t, err)
}

func TestCrossJoinProducesProduct(t *testing.T) {
	left := source(t, "l", []string{"x"}, scanner.Values(1), scanner.Values(2), scanner.Values(3))
	right := source(t, "r", []string{"y"}, scanner.Values("p"), scanner.Values("q"))

	c, err := NewCrossJoin(left, right)
	require.NoError(t, err)

	rows, err := iterator.Collect(c)
	require.NoError(t, err)
	assert.Equal(t, []string{
		"1\tp", "1\tq",
		"2\tp", "2\tq",
		"3\tp", "3\tq",
	}, render(rows))
}

func TestEmptySides(t *testing.T) {
	full := func() *scanner.MemorySource {
		return source(t, "l", []string{"x"}, scanner.Values(1), scanner.Values(2))
	}
	empty := func() *scanner.MemorySource { return source(t, "r", []string{"y"}) }

	c, err := NewCrossJoin(full(), empty())
	require.NoError(t, err)
	n, err := iterator.Count(c)
	require.NoError(t, err)
	assert.Zero(t, n)

	c, err = NewCrossJoin(empty(), source(t, "s", []string{"z"}, scanner.Values(1)))
	require.NoError(t, err)
	n, err = iterator.Count(c)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEmptyRightDoesNotReadLeft(t *testing.T) {
	left := source(t, "l", []string{"x"}, scanner.Values(1), scanner.Values(2))
	j, err := NewNLJoin(left, source(t, "r", []string{"x"}), "l.x", "r.x")
	require.NoError(t, err)

	row, err := j.Next()
	require.NoError(t, err)
	assert.Nil(t, row)
	assert.Zero(t, left.Pulled())
}

func TestResetAfterPartialConsumption(t *testing.T) {
	left := source(t, "l", []string{"x"}, scanner.Values(1), scanner.Values(2))
	right := source(t, "r", []string{"y"}, scanner.Values(1), scanner.Values(2), scanner.Values(3))

	c, err := NewCrossJoin(left, right)
	require.NoError(t, err)

	all, err := iterator.Collect(c)
	require.NoError(t, err)
	require.Len(t, all, 6)

	require.NoError(t, c.Reset())
	partial, err := iterator.Take(c, 4)
	require.NoError(t, err)
	assert.Equal(t, render(all[:4]), render(partial))

	require.NoError(t, c.Reset())
	again, err := iterator.Collect(c)
	require.NoError(t, err)
	assert.Equal(t, render(all), render(again))
}

func TestRightSideReadOnce(t *testing.T) {
	left := source(t, "l", []string{"x"}, scanner.Values(1), scanner.Values(2))
	right := source(t, "r", []string{"x"}, scanner.Values(2), scanner.Values(1), scanner.Values(2))

	j, err := NewNLJoin(left, right, "l.x", "r.x")
	require.NoError(t, err)
	assert.Equal(t, 3, right.Pulled())
	assert.Equal(t, 3, j.BufferedRows())

	for i := 0; i < 3; i++ {
		n, err := iterator.Count(j)
		require.NoError(t, err)
		assert.Equal(t, 3, n)
		require.NoError(t, j.Reset())
	}

	assert.Equal(t, 3, right.Pulled())
	assert.Zero(t, right.Resets())
	assert.Equal(t, 3, left.Resets())
}

func TestNestedJoinsAsRightSide(t *testing.T) {
	a := source(t, "a", []string{"id"}, scanner.Values(1), scanner.Values(2))
	b := source(t, "b", []string{"id"}, scanner.Values(2), scanner.Values(3))
	c := source(t, "c", []string{"id"}, scanner.Values(2))

	inner, err := NewNLJoin(b, c, "b.id", "c.id")
	require.NoError(t, err)
	outer, err := NewNLJoin(a, inner, "a.id", "b.id")
	require.NoError(t, err)

	rows, err := iterator.Collect(outer)
	require.NoError(t, err)
	assert.Equal(t, []string{"2\t2\t2"}, render(rows))
	assert.Equal(t, "NLJoin a.id = b.id\n  Scan a\n  NLJoin b.id = c.id\n    Scan b\n    Scan c\n", iterator.Explain(outer))
}
