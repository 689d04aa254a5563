package rewriter

import (
	"testing"

	"github.com/kr/pretty"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"toydbms/pkg/catalog"
	"toydbms/pkg/query"
	"toydbms/pkg/types"
)

func cp(attr string, rel types.Relation, v int64) *query.ConstPredicate {
	return &query.ConstPredicate{Attribute: attr, Value: types.NewInt(v), Relation: rel}
}

func ap(left string, rel types.Relation, right string) *query.AttributePredicate {
	return &query.AttributePredicate{Left: left, Right: right, Relation: rel}
}

func requireNoDiff(t *testing.T, want, got any) {
	t.Helper()
	if diff := pretty.Diff(want, got); len(diff) > 0 {
		t.Fatalf("unexpected result:\n%s", pretty.Sprint(diff))
	}
}

func TestRewriteConstFilters(t *testing.T) {
	tests := []struct {
		name  string
		preds []*query.ConstPredicate
		valid bool
		want  Interval
	}{
		{
			name:  "pinned then contradicted",
			preds: []*query.ConstPredicate{cp("t.x", types.Equal, 5), cp("t.x", types.Less, 5)},
		},
		{
			name:  "two exact values",
			preds: []*query.ConstPredicate{cp("t.x", types.Equal, 1), cp("t.x", types.Equal, 2)},
		},
		{
			name:  "open interval",
			preds: []*query.ConstPredicate{cp("t.x", types.Less, 10), cp("t.x", types.Greater, 3)},
			valid: true,
			want:  Interval{Lower: bound(types.NewInt(3)), Upper: bound(types.NewInt(10))},
		},
		{
			name:  "tightest bounds win",
			preds: []*query.ConstPredicate{cp("t.x", types.Less, 10), cp("t.x", types.Less, 7), cp("t.x", types.Less, 9), cp("t.x", types.Greater, 1), cp("t.x", types.Greater, 0)},
			valid: true,
			want:  Interval{Lower: bound(types.NewInt(1)), Upper: bound(types.NewInt(7))},
		},
		{
			name:  "equal clears bounds",
			preds: []*query.ConstPredicate{cp("t.x", types.Less, 10), cp("t.x", types.Greater, 3), cp("t.x", types.Equal, 4)},
			valid: true,
			want:  Interval{Exact: bound(types.NewInt(4))},
		},
		{
			name:  "bound after exact is redundant",
			preds: []*query.ConstPredicate{cp("t.x", types.Equal, 4), cp("t.x", types.Less, 9), cp("t.x", types.Greater, 1)},
			valid: true,
			want:  Interval{Exact: bound(types.NewInt(4))},
		},
		{
			name:  "equal outside bounds",
			preds: []*query.ConstPredicate{cp("t.x", types.Greater, 3), cp("t.x", types.Equal, 3)},
		},
		{
			name:  "crossing bounds",
			preds: []*query.ConstPredicate{cp("t.x", types.Greater, 5), cp("t.x", types.Less, 5)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := RewriteConstFilters(tt.preds)
			require.NoError(t, err)
			require.Equal(t, tt.valid, b.Valid)
			if !tt.valid {
				return
			}
			got, ok := b.Interval("t.x")
			require.True(t, ok)
			requireNoDiff(t, tt.want, got)
		})
	}
}

func TestRewriteConstFiltersKeepsColumnsApart(t *testing.T) {
	b, err := RewriteConstFilters([]*query.ConstPredicate{
		cp("t.y", types.Equal, 1), cp("t.x", types.Equal, 2), cp("t.y", types.Equal, 1),
	})
	require.NoError(t, err)
	assert.True(t, b.Valid)
	assert.Equal(t, []string{"t.y", "t.x"}, b.Attributes())
}

func TestRewriteConstFiltersTypeMismatch(t *testing.T) {
	_, err := RewriteConstFilters([]*query.ConstPredicate{
		cp("t.x", types.Less, 1),
		{Attribute: "t.x", Value: types.NewString("a"), Relation: types.Less},
	})
	require.Error(t, err)
}

func TestTighten(t *testing.T) {
	col, err := catalog.NewColumn("x", types.IntType, catalog.Unsorted, false).
		WithBounds(types.NewInt(0), types.NewInt(100))
	require.NoError(t, err)

	tests := []struct {
		name  string
		preds []*query.ConstPredicate
		empty bool
		want  []string
	}{
		{name: "exact inside", preds: []*query.ConstPredicate{cp("t.x", types.Equal, 50)}, want: []string{"t.x = 50"}},
		{name: "exact on edge", preds: []*query.ConstPredicate{cp("t.x", types.Equal, 100)}, want: []string{"t.x = 100"}},
		{name: "exact above", preds: []*query.ConstPredicate{cp("t.x", types.Equal, 101)}, empty: true},
		{name: "exact below", preds: []*query.ConstPredicate{cp("t.x", types.Equal, -1)}, empty: true},
		{name: "upper at min", preds: []*query.ConstPredicate{cp("t.x", types.Less, 0)}, empty: true},
		{name: "upper past max", preds: []*query.ConstPredicate{cp("t.x", types.Less, 101)}},
		{name: "upper at max", preds: []*query.ConstPredicate{cp("t.x", types.Less, 100)}, want: []string{"t.x < 100"}},
		{name: "lower at max", preds: []*query.ConstPredicate{cp("t.x", types.Greater, 100)}, empty: true},
		{name: "lower under min", preds: []*query.ConstPredicate{cp("t.x", types.Greater, -5)}},
		{
			name:  "both bounds",
			preds: []*query.ConstPredicate{cp("t.x", types.Greater, 3), cp("t.x", types.Less, 10)},
			want:  []string{"t.x > 3", "t.x < 10"},
		},
		{
			name:  "one bound dropped",
			preds: []*query.ConstPredicate{cp("t.x", types.Greater, -3), cp("t.x", types.Less, 10)},
			want:  []string{"t.x < 10"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := RewriteConstFilters(tt.preds)
			require.NoError(t, err)
			require.True(t, b.Valid)

			preds, empty, err := b.Tighten("t.x", col)
			require.NoError(t, err)
			assert.Equal(t, tt.empty, empty)

			var got []string
			for _, p := range preds {
				got = append(got, p.String())
			}
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTightenWithoutCatalogBounds(t *testing.T) {
	b, err := RewriteConstFilters([]*query.ConstPredicate{cp("t.x", types.Less, -1000)})
	require.NoError(t, err)

	preds, empty, err := b.Tighten("t.x", catalog.NewColumn("x", types.IntType, catalog.Unknown, false))
	require.NoError(t, err)
	assert.False(t, empty)
	require.Len(t, preds, 1)
	assert.Equal(t, "t.x < -1000", preds[0].String())
}

func TestInequalityRewriter(t *testing.T) {
	tests := []struct {
		name  string
		preds []*query.AttributePredicate
		valid bool
		kept  int
	}{
		{
			name:  "cycle",
			preds: []*query.AttributePredicate{ap("t.a", types.Less, "t.b"), ap("t.b", types.Less, "t.c"), ap("t.c", types.Less, "t.a")},
		},
		{
			name:  "cycle through greater",
			preds: []*query.AttributePredicate{ap("t.a", types.Less, "t.b"), ap("t.a", types.Greater, "t.b")},
		},
		{
			name:  "self comparison",
			preds: []*query.AttributePredicate{ap("t.a", types.Less, "t.a")},
		},
		{
			name:  "implied edge dropped",
			preds: []*query.AttributePredicate{ap("t.a", types.Less, "t.b"), ap("t.b", types.Less, "t.c"), ap("t.a", types.Less, "t.c")},
			valid: true,
			kept:  2,
		},
		{
			name:  "duplicate dropped",
			preds: []*query.AttributePredicate{ap("t.a", types.Less, "t.b"), ap("t.b", types.Greater, "t.a")},
			valid: true,
			kept:  1,
		},
		{
			name:  "closure joins chains",
			preds: []*query.AttributePredicate{ap("t.a", types.Less, "t.b"), ap("t.c", types.Less, "t.d"), ap("t.b", types.Less, "t.c"), ap("t.d", types.Less, "t.a")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewInequalityRewriter().Rewrite(tt.preds)
			require.NoError(t, err)
			assert.Equal(t, tt.valid, got.Valid)
			assert.Len(t, got.Predicates, tt.kept)
			assert.LessOrEqual(t, len(got.Predicates), len(tt.preds))
		})
	}
}

func TestInequalityClosure(t *testing.T) {
	r := NewInequalityRewriter()
	res, err := r.Rewrite([]*query.AttributePredicate{
		ap("t.b", types.Less, "t.c"),
		ap("t.a", types.Less, "t.b"),
		ap("t.d", types.Greater, "t.c"),
	})
	require.NoError(t, err)
	require.True(t, res.Valid)

	assert.Equal(t, []string{"t.b", "t.c", "t.d"}, r.Greater("t.a"))
	assert.Equal(t, []string{"t.c", "t.d"}, r.Greater("t.b"))
	assert.True(t, r.Less("t.a", "t.d"))
	assert.False(t, r.Less("t.d", "t.a"))
}

func TestInequalityRewriterRejectsEquality(t *testing.T) {
	_, err := NewInequalityRewriter().Rewrite([]*query.AttributePredicate{ap("t.a", types.Equal, "t.b")})
	require.Error(t, err)
}
