package planner

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"toydbms/pkg/catalog"
	"toydbms/pkg/dberror"
	"toydbms/pkg/execution"
	"toydbms/pkg/execution/scanner"
	"toydbms/pkg/execution/setops"
	"toydbms/pkg/iterator"
	"toydbms/pkg/logging"
	"toydbms/pkg/optimizer"
	"toydbms/pkg/optimizer/rewriter"
	"toydbms/pkg/query"
)

// Options tunes the pluggable planning decisions. The zero value uses the
// default policies.
type Options struct {
	JoinPolicy     optimizer.SelectionPolicy // nil means optimizer.PreferUnique
	DistinctPolicy DistinctPolicy            // nil means CatalogDistinct
	QueryID        uuid.UUID                 // tags log lines; generated when zero
}

// Plan is a built operator tree with the decisions that shaped it.
type Plan struct {
	Root          iterator.Operator
	Strategy      DistinctStrategy
	Empty         bool  // filters proved that no row can match
	EstimatedRows int64 // catalog-based estimate of the output size
	QueryID       uuid.UUID

	catalog *catalog.Catalog // catalog restricted to the query, plus sub-query tables
}

// Explain renders the decisions and the operator tree.
func (p *Plan) Explain() string {
	var b strings.Builder
	fmt.Fprintf(&b, "distinct: %s\n", p.Strategy)
	if p.Empty {
		b.WriteString("empty: true\n")
	}
	fmt.Fprintf(&b, "estimated rows: %s\n", humanize.Comma(p.EstimatedRows))
	b.WriteString(iterator.Explain(p.Root))
	return b.String()
}

// builder carries the state of one Build call.
type builder struct {
	query   *query.Query
	catalog *catalog.Catalog
	factory scanner.Factory
	opts    Options
	log     *slog.Logger

	order   []string // FROM entries in query order
	sources map[string]iterator.Operator
	empty   bool
}

// Build plans q against cat, opening base tables through factory.
func Build(q *query.Query, cat *catalog.Catalog, factory scanner.Factory, opts Options) (*Plan, error) {
	if q == nil || len(q.From) == 0 {
		return nil, dberror.New(dberror.ErrCategoryInvalid, dberror.CodeInvalidQuery, "query has an empty FROM list")
	}
	if opts.QueryID == uuid.Nil {
		opts.QueryID = uuid.New()
	}
	if opts.JoinPolicy == nil {
		opts.JoinPolicy = optimizer.PreferUnique
	}
	if opts.DistinctPolicy == nil {
		opts.DistinctPolicy = CatalogDistinct
	}

	b := &builder{
		query:   q,
		factory: factory,
		opts:    opts,
		log:     logging.WithQuery(opts.QueryID).With("component", "planner"),
		sources: make(map[string]iterator.Operator),
	}
	plan, err := b.build(cat)
	if err != nil {
		b.closeSources()
		return nil, err
	}
	return plan, nil
}

func (b *builder) build(cat *catalog.Catalog) (*Plan, error) {
	if err := b.checkSelection(); err != nil {
		return nil, err
	}
	if err := b.resolveFrom(cat); err != nil {
		return nil, err
	}

	from := make(map[string]bool, len(b.order))
	for _, name := range b.order {
		from[name] = true
	}
	preds, err := classify(b.query.Where, from, b.catalog)
	if err != nil {
		return nil, err
	}
	b.log.Debug("predicates classified",
		"tables", len(b.order), "filtered", len(preds.consts),
		"inequalities", len(preds.inequalities), "joins", len(preds.joins))

	if err := b.applyConstFilters(preds); err != nil {
		return nil, err
	}
	if err := b.applyInequalities(preds.inequalities); err != nil {
		return nil, err
	}

	applier, err := optimizer.NewJoinsApplier(b.sources, preds.joins, b.catalog, b.opts.JoinPolicy)
	if err != nil {
		return nil, err
	}
	components, err := applier.WithLogger(b.log).Apply()
	if err != nil {
		return nil, err
	}
	root, err := optimizer.CrossJoinComponents(components)
	if err != nil {
		return nil, err
	}
	b.log.Debug("joins applied", "components", len(components))

	if !b.query.Selection.All {
		names := make([]string, len(b.query.Selection.Attributes))
		for i, a := range b.query.Selection.Attributes {
			names[i] = a.Name
		}
		if root, err = execution.NewProjection(root, names); err != nil {
			return nil, err
		}
	}

	plan := &Plan{Strategy: NoDistinct, Empty: b.empty, QueryID: b.opts.QueryID, catalog: b.catalog}
	if b.query.Distinct {
		decision := b.opts.DistinctPolicy(DistinctInput{
			Tables:    b.order,
			Outer:     components[0].Tables[0],
			Projected: root.Header().Names(),
			Catalog:   b.catalog,
		})
		if root, err = applyDistinct(root, decision); err != nil {
			return nil, err
		}
		plan.Strategy = decision.Strategy
	}

	plan.Root = root
	plan.EstimatedRows = optimizer.NewCardinalityEstimator(b.catalog).Estimate(root)
	b.log.Debug("plan built", "distinct", plan.Strategy.String(), "empty", plan.Empty,
		"estimated_rows", humanize.Comma(plan.EstimatedRows))
	return plan, nil
}

func (b *builder) checkSelection() error {
	sel := b.query.Selection
	if sel.All {
		return nil
	}
	if len(sel.Attributes) == 0 {
		return dberror.New(dberror.ErrCategoryInvalid, dberror.CodeInvalidQuery, "empty selection list")
	}
	for _, a := range sel.Attributes {
		if a.Aggregate != query.NoAggregate {
			return dberror.Unsupportedf(dberror.CodeUnsupportedAggregate,
				"aggregate %s(%s) is not supported", a.Aggregate, a.Name)
		}
	}
	return nil
}

// resolveFrom opens a source per FROM entry and restricts the catalog to
// the referenced tables. A sub-query is planned on its own and exposed under
// its alias, with a synthetic catalog table describing its columns.
func (b *builder) resolveFrom(cat *catalog.Catalog) error {
	var tables []string
	synthetic := make([]*catalog.Table, 0)

	for _, part := range b.query.From {
		switch part := part.(type) {
		case *query.FromTable:
			if err := b.addSource(part.Name); err != nil {
				return err
			}
			if _, err := cat.Table(part.Name); err != nil {
				return err
			}
			op, err := b.factory.Open(part.Name)
			if err != nil {
				return errors.Wrapf(err, "opening table %s", part.Name)
			}
			b.sources[part.Name] = op
			tables = append(tables, part.Name)

		case *query.FromQuery:
			if err := b.addSource(part.Alias); err != nil {
				return err
			}
			sub, err := Build(part.Query, cat, b.factory, Options{
				JoinPolicy:     b.opts.JoinPolicy,
				DistinctPolicy: b.opts.DistinctPolicy,
				QueryID:        b.opts.QueryID,
			})
			if err != nil {
				return errors.Wrapf(err, "planning sub-query %s", part.Alias)
			}
			op, err := execution.NewAliasAppender(sub.Root, part.Alias)
			if err != nil {
				return err
			}
			b.sources[part.Alias] = op
			b.empty = b.empty || sub.Empty
			t, err := subQueryTable(sub, part.Alias)
			if err != nil {
				return err
			}
			synthetic = append(synthetic, t)

		default:
			return errors.AssertionFailedf("unknown FROM entry %T", part)
		}
	}

	pruned, err := cat.Prune(tables)
	if err != nil {
		return err
	}
	for _, t := range synthetic {
		if _, err := pruned.Table(t.Name); err == nil {
			return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidQuery,
				"alias %s shadows a table", t.Name)
		}
		pruned = pruned.WithTable(t)
	}
	b.catalog = pruned
	return nil
}

func (b *builder) addSource(name string) error {
	if name == "" || strings.Contains(name, ".") {
		return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidQuery, "invalid FROM name %q", name)
	}
	if _, dup := b.sources[name]; dup {
		return dberror.Newf(dberror.ErrCategoryInvalid, dberror.CodeInvalidQuery, "%s appears twice in FROM", name)
	}
	b.sources[name] = nil
	b.order = append(b.order, name)
	return nil
}

// subQueryTable describes a sub-query result: one column per output
// attribute. Over a single source the rows keep its order and a unique
// column stays unique; once joins mix sources neither fact survives.
func subQueryTable(sub *Plan, alias string) (*catalog.Table, error) {
	t, err := sub.catalog.JoinToOneTable(alias).Restrict(sub.Root.Header().Names())
	if err != nil {
		return nil, errors.Wrapf(err, "describing sub-query %s", alias)
	}
	if len(sub.catalog.TableNames()) == 1 {
		return t, nil
	}
	for _, col := range t.Columns() {
		col.Order = catalog.Unknown
		col.Unique = false
	}
	return t, nil
}

// applyConstFilters folds the constant filters of every table and wraps its
// source in the surviving Filters, or replaces it with Empty.
func (b *builder) applyConstFilters(preds *predicates) error {
	for _, table := range preds.tables() {
		bounds, err := rewriter.RewriteConstFilters(preds.consts[table])
		if err != nil {
			return err
		}
		if !bounds.Valid {
			b.log.Debug("contradicting constant filters", "table", table)
			b.makeEmpty(table)
			continue
		}

		var kept []*query.ConstPredicate
		empty := false
		for _, attr := range bounds.Attributes() {
			col, err := b.catalog.Column(attr)
			if err != nil {
				return err
			}
			tightened, none, err := bounds.Tighten(attr, col)
			if err != nil {
				return err
			}
			if none {
				b.log.Debug("filter outside column range", "attribute", attr)
				empty = true
				break
			}
			kept = append(kept, tightened...)
		}
		if empty {
			b.makeEmpty(table)
			continue
		}

		for _, p := range kept {
			if err := b.filter(table, p); err != nil {
				return err
			}
		}
	}
	return nil
}

// applyInequalities filters by the non-redundant inequalities. A cycle
// empties every table of the query.
func (b *builder) applyInequalities(inequalities []*query.AttributePredicate) error {
	if len(inequalities) == 0 {
		return nil
	}

	res, err := rewriter.NewInequalityRewriter().Rewrite(inequalities)
	if err != nil {
		return err
	}
	if !res.Valid {
		b.log.Debug("contradicting inequalities")
		for _, table := range b.order {
			b.makeEmpty(table)
		}
		return nil
	}

	for _, p := range res.Predicates {
		if err := b.filter(query.TableName(p.Left), p); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) filter(table string, p query.Predicate) error {
	if _, ok := b.sources[table].(*execution.Empty); ok {
		return nil
	}
	f, err := execution.NewFilter(b.sources[table], p)
	if err != nil {
		return err
	}
	b.sources[table] = f
	return nil
}

// makeEmpty replaces the source of table with Empty and releases the
// replaced tree, which will never be read.
func (b *builder) makeEmpty(table string) {
	src := b.sources[table]
	if err := iterator.Close(src); err != nil {
		b.log.Warn("closing emptied source", "table", table, "error", err)
	}
	b.sources[table] = execution.NewEmpty(src.Header())
	b.empty = true
}

// closeSources releases every opened source after a failed Build.
func (b *builder) closeSources() {
	for name, src := range b.sources {
		if src == nil {
			continue
		}
		if err := iterator.Close(src); err != nil {
			b.log.Warn("closing source", "table", name, "error", err)
		}
	}
}

func applyDistinct(root iterator.Operator, d DistinctDecision) (iterator.Operator, error) {
	switch d.Strategy {
	case SkipDistinct, NoDistinct:
		return root, nil
	case OptimizedUniqueStrategy:
		return setops.NewOptimizedUnique(root, d.Ordered)
	case UniqueStrategy:
		return setops.NewUnique(root)
	default:
		return nil, errors.AssertionFailedf("unknown distinct strategy %d", d.Strategy)
	}
}

// Tables returns the tables the plan reads, sub-query aliases included,
// sorted.
func (p *Plan) Tables() []string {
	return p.catalog.TableNames()
}
