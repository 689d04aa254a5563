package query

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toydbms/pkg/dberror"
	"toydbms/pkg/types"
)

func TestDecodeFullQuery(t *testing.T) {
	q, err := Decode(strings.NewReader(`
from: [emp, {table: dept}]
select: [emp.id, dept.name]
distinct: true
where:
  and:
    - {attr: emp.id, op: "<", value: 10}
    - {attr: dept.name, op: "=", value: "sales"}
    - {left: emp.dept, op: "=", right: dept.name}
`))
	require.NoError(t, err)

	require.Len(t, q.From, 2)
	assert.Equal(t, &FromTable{Name: "emp"}, q.From[0])
	assert.Equal(t, &FromTable{Name: "dept"}, q.From[1])
	assert.True(t, q.Distinct)
	assert.Equal(t, Select("emp.id", "dept.name"), q.Selection)
	assert.Equal(t, "((emp.id < 10 AND dept.name = 'sales') AND emp.dept = dept.name)", q.Where.String())

	and := q.Where.(*AndPredicate)
	c := and.Left.(*AndPredicate).Left.(*ConstPredicate)
	assert.Equal(t, types.NewInt(10), c.Value)
	assert.Equal(t, types.Less, c.Relation)
}

func TestDecodeSubQueryAndDefaults(t *testing.T) {
	q, err := Decode(strings.NewReader(`
from:
  - alias: s
    query:
      from: [emp]
      select: [emp.id]
`))
	require.NoError(t, err)

	assert.True(t, q.Selection.All)
	assert.False(t, q.Distinct)
	assert.Nil(t, q.Where)

	sub, ok := q.From[0].(*FromQuery)
	require.True(t, ok)
	assert.Equal(t, "s", sub.Alias)
	assert.Equal(t, Select("emp.id"), sub.Query.Selection)
}

func TestDecodeUnsupportedShapesStillParse(t *testing.T) {
	q, err := Decode(strings.NewReader(`
from: [emp]
select: [{attr: emp.id, agg: max}]
where:
  or:
    - {attr: emp.id, op: "=", value: 1}
    - {attr: emp.id, in: {from: [dept]}}
`))
	require.NoError(t, err)

	assert.Equal(t, Max, q.Selection.Attributes[0].Aggregate)
	or, ok := q.Where.(*OrPredicate)
	require.True(t, ok)
	_, ok = or.Right.(*InQueryPredicate)
	assert.True(t, ok)
}

func TestDecodeErrors(t *testing.T) {
	docs := map[string]string{
		"no from":      `select: "*"`,
		"bad op":       "from: [t]\nwhere: {attr: t.a, op: \"<=\", value: 1}",
		"no value":     "from: [t]\nwhere: {attr: t.a, op: \"<\"}",
		"bad agg":      "from: [t]\nselect: [{attr: t.a, agg: median}]",
		"alias needed": "from: [{query: {from: [t]}}]",
	}
	for name, doc := range docs {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(doc))
			require.Error(t, err)
			assert.True(t, dberror.Is(err, dberror.ErrCategoryInvalid))
		})
	}
}

func TestTableName(t *testing.T) {
	assert.Equal(t, "emp", TableName("emp.id"))
	assert.Equal(t, "s", TableName("s.emp.id"))
	assert.Equal(t, "bare", TableName("bare"))
}

func TestAnd(t *testing.T) {
	assert.Nil(t, And())
	a := &ConstPredicate{Attribute: "t.a", Value: types.NewInt(1)}
	assert.Same(t, a, And(a))
}
