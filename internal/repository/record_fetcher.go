package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ErrUnsafeIdentifier is returned when a table, column or alias name does
// not look like a plain SQL identifier.
var ErrUnsafeIdentifier = errors.New("unsafe identifier")

var identifierPattern = regexp.MustCompile(`^[a-z_][a-z0-9_]*$`)

// Cardinality tags an embed as to-one or to-many. It fixes the JSON shape
// the embed is rendered with: an object (or null) versus a list.
type Cardinality int

const (
	ToOne Cardinality = iota
	ToMany
)

// FilterOp enumerates the supported predicates.
type FilterOp int

const (
	OpEq FilterOp = iota
	OpIn
	OpIsNull
	OpNotNull
	OpSearch
)

// Filter is a predicate on the rows of one table.
type Filter struct {
	Op      FilterOp
	Columns []string
	Value   interface{}
}

// Eq matches column = value.
func Eq(column string, value interface{}) Filter {
	return Filter{Op: OpEq, Columns: []string{column}, Value: value}
}

// In matches set membership.
func In(column string, values []string) Filter {
	return Filter{Op: OpIn, Columns: []string{column}, Value: values}
}

// IsNull matches column IS NULL.
func IsNull(column string) Filter {
	return Filter{Op: OpIsNull, Columns: []string{column}}
}

// NotNull matches column IS NOT NULL.
func NotNull(column string) Filter {
	return Filter{Op: OpNotNull, Columns: []string{column}}
}

// Search matches a case-insensitive substring in any of columns.
func Search(term string, columns ...string) Filter {
	return Filter{Op: OpSearch, Columns: columns, Value: "%" + strings.ToLower(term) + "%"}
}

// Order sorts by one column. The column must be part of the selection.
type Order struct {
	Column string
	Desc   bool
}

func Asc(column string) Order { return Order{Column: column} }
func Desc(column string) Order { return Order{Column: column, Desc: true} }

// Embed nests rows of a related table inside each parent row under Alias.
// ForeignKey is a column of Table, LocalKey a column of the parent.
type Embed struct {
	Alias       string
	Table       string
	Columns     []string
	LocalKey    string
	ForeignKey  string
	Cardinality Cardinality
	Filters     []Filter
	Order       []Order
	Embeds      []Embed
}

// Query describes one fetch: a table, its columns, nested embeds, filters,
// order and an optional limit. Label names the query in metrics.
type Query struct {
	Label   string
	Table   string
	Columns []string
	Embeds  []Embed
	Filters []Filter
	Order   []Order
	Limit   int
}

// QueryObserver receives query durations.
type QueryObserver interface {
	ObserveDBQuery(label string, duration time.Duration)
}

// RecordFetcher runs a Query as a single SQL statement that aggregates the
// result, embeds included, into one JSON document and decodes it into a
// slice of records.
type RecordFetcher struct {
	db       *sqlx.DB
	observer QueryObserver
}

// NewRecordFetcher constructs a RecordFetcher.
func NewRecordFetcher(db *sqlx.DB, observer QueryObserver) *RecordFetcher {
	return &RecordFetcher{db: db, observer: observer}
}

// Fetch executes q and decodes the rows into dest, which must be a pointer
// to a slice. It returns the number of rows decoded.
func (f *RecordFetcher) Fetch(ctx context.Context, q Query, dest interface{}) (int, error) {
	target := reflect.ValueOf(dest)
	if target.Kind() != reflect.Ptr || target.Elem().Kind() != reflect.Slice {
		return 0, fmt.Errorf("fetch %s: destination must be a pointer to a slice", q.Table)
	}

	query, args, err := BuildQuery(q)
	if err != nil {
		return 0, err
	}

	label := q.Label
	if label == "" {
		label = q.Table
	}

	start := time.Now()
	var raw []byte
	err = f.db.QueryRowxContext(ctx, query, args...).Scan(&raw)
	if f.observer != nil {
		f.observer.ObserveDBQuery(label, time.Since(start))
	}
	if err != nil {
		return 0, fmt.Errorf("fetch %s: %w", q.Table, err)
	}

	if err := json.Unmarshal(raw, dest); err != nil {
		return 0, fmt.Errorf("decode %s: %w", q.Table, err)
	}
	return target.Elem().Len(), nil
}

// BuildQuery renders q to SQL and its positional arguments.
func BuildQuery(q Query) (string, []interface{}, error) {
	b := &queryBuilder{}
	inner, err := b.selection(q.Table, q.Columns, q.Embeds, q.Filters, q.Order, q.Limit, 0, "")
	if err != nil {
		return "", nil, err
	}
	return fmt.Sprintf("SELECT COALESCE(%s, '[]'::json) FROM (%s) r0", aggregate(0, q.Order), inner), b.args, nil
}

type queryBuilder struct {
	args []interface{}
}

func (b *queryBuilder) bind(value interface{}) string {
	b.args = append(b.args, value)
	return fmt.Sprintf("$%d", len(b.args))
}

func (b *queryBuilder) selection(table string, columns []string, embeds []Embed, filters []Filter, order []Order, limit, level int, correlate string) (string, error) {
	if err := checkIdentifiers(table); err != nil {
		return "", err
	}
	if len(columns) == 0 {
		return "", fmt.Errorf("select %s: no columns", table)
	}
	if err := checkIdentifiers(columns...); err != nil {
		return "", err
	}

	alias := fmt.Sprintf("t%d", level)
	selected := make(map[string]bool, len(columns))
	parts := make([]string, 0, len(columns)+len(embeds))
	for _, column := range columns {
		selected[column] = true
		parts = append(parts, alias+"."+column)
	}

	for _, embed := range embeds {
		sub, err := b.embed(embed, level+1)
		if err != nil {
			return "", err
		}
		parts = append(parts, fmt.Sprintf("(%s) AS %s", sub, embed.Alias))
	}

	var conditions []string
	if correlate != "" {
		conditions = append(conditions, correlate)
	}
	for _, filter := range filters {
		cond, err := b.condition(alias, filter)
		if err != nil {
			return "", err
		}
		conditions = append(conditions, cond)
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "SELECT %s FROM %s %s", strings.Join(parts, ", "), table, alias)
	if len(conditions) > 0 {
		sb.WriteString(" WHERE ")
		sb.WriteString(strings.Join(conditions, " AND "))
	}
	if len(order) > 0 {
		terms := make([]string, 0, len(order))
		for _, o := range order {
			if err := checkIdentifiers(o.Column); err != nil {
				return "", err
			}
			if !selected[o.Column] {
				return "", fmt.Errorf("order %s.%s: column not selected", table, o.Column)
			}
			terms = append(terms, alias+"."+o.Column+direction(o))
		}
		sb.WriteString(" ORDER BY ")
		sb.WriteString(strings.Join(terms, ", "))
	}
	if limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", limit)
	}
	return sb.String(), nil
}

func (b *queryBuilder) embed(e Embed, level int) (string, error) {
	if err := checkIdentifiers(e.Alias, e.LocalKey, e.ForeignKey); err != nil {
		return "", err
	}
	correlate := fmt.Sprintf("t%d.%s = t%d.%s", level, e.ForeignKey, level-1, e.LocalKey)

	limit := 0
	if e.Cardinality == ToOne {
		limit = 1
	}
	inner, err := b.selection(e.Table, e.Columns, e.Embeds, e.Filters, e.Order, limit, level, correlate)
	if err != nil {
		return "", err
	}

	if e.Cardinality == ToOne {
		return fmt.Sprintf("SELECT row_to_json(r%d) FROM (%s) r%d", level, inner, level), nil
	}
	return fmt.Sprintf("SELECT COALESCE(%s, '[]'::json) FROM (%s) r%d", aggregate(level, e.Order), inner, level), nil
}

func (b *queryBuilder) condition(alias string, f Filter) (string, error) {
	if len(f.Columns) == 0 {
		return "", fmt.Errorf("filter without column")
	}
	if err := checkIdentifiers(f.Columns...); err != nil {
		return "", err
	}
	column := alias + "." + f.Columns[0]

	switch f.Op {
	case OpEq:
		return column + " = " + b.bind(f.Value), nil
	case OpIn:
		values, ok := f.Value.([]string)
		if !ok {
			return "", fmt.Errorf("filter %s: set membership needs []string", f.Columns[0])
		}
		return column + " = ANY(" + b.bind(pq.Array(values)) + ")", nil
	case OpIsNull:
		return column + " IS NULL", nil
	case OpNotNull:
		return column + " IS NOT NULL", nil
	case OpSearch:
		placeholder := b.bind(f.Value)
		terms := make([]string, 0, len(f.Columns))
		for _, c := range f.Columns {
			terms = append(terms, "LOWER("+alias+"."+c+") LIKE "+placeholder)
		}
		return "(" + strings.Join(terms, " OR ") + ")", nil
	default:
		return "", fmt.Errorf("filter %s: unknown operator %d", f.Columns[0], f.Op)
	}
}

func aggregate(level int, order []Order) string {
	if len(order) == 0 {
		return fmt.Sprintf("json_agg(row_to_json(r%d))", level)
	}
	terms := make([]string, 0, len(order))
	for _, o := range order {
		terms = append(terms, fmt.Sprintf("r%d.%s%s", level, o.Column, direction(o)))
	}
	return fmt.Sprintf("json_agg(row_to_json(r%d) ORDER BY %s)", level, strings.Join(terms, ", "))
}

func direction(o Order) string {
	if o.Desc {
		return " DESC"
	}
	return " ASC"
}

func checkIdentifiers(names ...string) error {
	for _, name := range names {
		if !identifierPattern.MatchString(name) {
			return fmt.Errorf("%w: %q", ErrUnsafeIdentifier, name)
		}
	}
	return nil
}
