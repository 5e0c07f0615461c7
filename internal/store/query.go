package store

import (
	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
)

// builder renders statements in SQLite's dialect.
var builder = entsql.Dialect(dialect.SQLite)

func insert(table string, columns []string, values ...any) (string, []any) {
	return builder.Insert(table).Columns(columns...).Values(values...).Query()
}

// selectEvents renders a newest-first query over an event table, bounded by
// opts and narrowed by any table-specific predicates.
func selectEvents(table string, columns []string, opts QueryOpts, extra ...*entsql.Predicate) (string, []any) {
	sel := builder.Select(columns...).From(entsql.Table(table))
	for _, p := range append(opts.predicates(), extra...) {
		sel.Where(p)
	}
	sel.OrderBy(entsql.Desc("sequence"))
	if opts.Limit > 0 {
		sel.Limit(opts.Limit)
	}
	return sel.Query()
}

// predicates translates the sequence and time bounds shared by every event
// table.
func (o QueryOpts) predicates() []*entsql.Predicate {
	var ps []*entsql.Predicate
	if o.After > 0 {
		ps = append(ps, entsql.GT("sequence", o.After))
	}
	if o.Before > 0 {
		ps = append(ps, entsql.LT("sequence", o.Before))
	}
	if !o.From.IsZero() {
		ps = append(ps, entsql.GTE("timestamp_ms", o.From.UnixMilli()))
	}
	if !o.To.IsZero() {
		ps = append(ps, entsql.LTE("timestamp_ms", o.To.UnixMilli()))
	}
	return ps
}
