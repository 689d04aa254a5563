package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toydbms/pkg/execution"
	"toydbms/pkg/query"
	"toydbms/pkg/types"
)

func TestCardinalityEstimator(t *testing.T) {
	f := chainFixture(t)
	ce := NewCardinalityEstimator(f.catalog)
	ops := f.operators(t, "a", "b", "c", "d")

	assert.EqualValues(t, 3, ce.Estimate(ops["b"]))
	assert.EqualValues(t, 0, ce.Estimate(execution.NewEmpty(ops["a"].Header())))

	unique, err := execution.NewFilter(ops["b"], &query.ConstPredicate{Attribute: "b.id", Value: types.NewInt(10), Relation: types.Equal})
	require.NoError(t, err)
	assert.EqualValues(t, 1, ce.Estimate(unique))

	j, err := NewJoinsApplier(ops, []*query.AttributePredicate{eq("a.id", "b.aid")}, f.catalog, nil)
	require.NoError(t, err)
	components, err := j.Apply()
	require.NoError(t, err)
	require.Len(t, components, 3)

	// b joins a on a's unique key, so every b row matches at most once.
	assert.EqualValues(t, 3, ce.Estimate(components[0].Operator))

	root, err := CrossJoinComponents(components)
	require.NoError(t, err)
	assert.EqualValues(t, 3*3*2, ce.Estimate(root))
}
