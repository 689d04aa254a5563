package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toydbms/pkg/dberror"
)

func TestValueEquality(t *testing.T) {
	assert.True(t, NewInt(5).Equals(NewInt(5)))
	assert.False(t, NewInt(5).Equals(NewInt(6)))
	assert.True(t, NewString("a").Equals(NewString("a")))
	assert.False(t, NewInt(1).Equals(NewString("1")))
}

func TestValueCompare(t *testing.T) {
	tests := []struct {
		name string
		a, b Value
		want int
	}{
		{"int less", NewInt(1), NewInt(2), -1},
		{"int equal", NewInt(7), NewInt(7), 0},
		{"int greater", NewInt(-1), NewInt(-3), 1},
		{"string less", NewString("abc"), NewString("abd"), -1},
		{"string greater", NewString("b"), NewString("a"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Compare(tt.b)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestValueCompareAcrossTypes(t *testing.T) {
	_, err := NewInt(1).Compare(NewString("1"))
	require.Error(t, err)
	assert.True(t, dberror.Is(err, dberror.ErrCategoryTypeMismatch))
}

func TestParseValue(t *testing.T) {
	v, err := ParseValue(" 42 ", IntType)
	require.NoError(t, err)
	assert.Equal(t, NewInt(42), v)

	v, err = ParseValue("hello", StringType)
	require.NoError(t, err)
	assert.Equal(t, "hello", v.String())

	_, err = ParseValue("x1", IntType)
	assert.True(t, dberror.Is(err, dberror.ErrCategoryTypeMismatch))
}

func TestAppendKeyConsistentWithEquality(t *testing.T) {
	assert.Equal(t, NewInt(12).AppendKey(nil), NewInt(12).AppendKey(nil))
	assert.NotEqual(t, NewInt(1).AppendKey(nil), NewString("1").AppendKey(nil))
	assert.NotEqual(t, NewString("ab").AppendKey(nil), NewString("a").AppendKey(nil))
}

func TestRelation(t *testing.T) {
	assert.True(t, Less.Holds(-1))
	assert.False(t, Less.Holds(0))
	assert.True(t, Greater.Holds(1))
	assert.True(t, Equal.Holds(0))
	assert.Equal(t, Greater, Less.Mirror())
	assert.Equal(t, Equal, Equal.Mirror())

	r, ok := ParseRelation("<")
	assert.True(t, ok)
	assert.Equal(t, Less, r)
	_, ok = ParseRelation("<>")
	assert.False(t, ok)
}
