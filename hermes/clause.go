package hermes

import (
	"fmt"
	"strings"
)

// Clause is a chainable modifier that can be applied to any query supporting
// it. Applying a clause a query does not support records an error that Run
// returns.
type Clause interface {
	ClauseName() string
	supportedBy(target any) bool
	applyTo(target any)
}

type clause[T any] struct {
	name  string
	apply func(target T)
}

func newClause[T any](name string, apply func(target T)) Clause {
	return clause[T]{
		name:  name,
		apply: apply,
	}
}

func (c clause[T]) ClauseName() string {
	return c.name
}

func (c clause[T]) supportedBy(target any) bool {
	_, ok := target.(T)
	return ok
}

func (c clause[T]) applyTo(target any) {
	c.apply(target.(T))
}

type whereable interface {
	addWhere(conditions ...Combinable)
}

type orderable interface {
	addOrderBy(ascending bool, columns ...Selectable)
}

type limitable interface {
	setLimit(limit int)
}

type offsetable interface {
	setOffset(offset int)
}

type firstable interface {
	setFirst()
}

type distinctable interface {
	setDistinct()
}

type columnable interface {
	addColumns(columns ...Selectable)
}

type valuable interface {
	addValues(assignments ...Assignment)
}

type outputable interface {
	setOutput(output Output)
}

func WithWhere(conditions ...Combinable) Clause {
	return newClause("where", func(target whereable) {
		target.addWhere(conditions...)
	})
}

func WithOrderBy(ascending bool, columns ...Selectable) Clause {
	return newClause("order_by", func(target orderable) {
		target.addOrderBy(ascending, columns...)
	})
}

func WithLimit(limit int) Clause {
	return newClause("limit", func(target limitable) {
		target.setLimit(limit)
	})
}

func WithOffset(offset int) Clause {
	return newClause("offset", func(target offsetable) {
		target.setOffset(offset)
	})
}

func WithFirst() Clause {
	return newClause("first", func(target firstable) {
		target.setFirst()
	})
}

func WithDistinct() Clause {
	return newClause("distinct", func(target distinctable) {
		target.setDistinct()
	})
}

func WithColumns(columns ...Selectable) Clause {
	return newClause("columns", func(target columnable) {
		target.addColumns(columns...)
	})
}

func WithValues(assignments ...Assignment) Clause {
	return newClause("values", func(target valuable) {
		target.addValues(assignments...)
	})
}

func WithOutput(output Output) Clause {
	return newClause("output", func(target outputable) {
		target.setOutput(output)
	})
}

type orderByItem struct {
	column    Selectable
	ascending bool
}

type orderByDelegate struct {
	orderBy []orderByItem
}

func (delegate *orderByDelegate) addOrderBy(ascending bool, columns ...Selectable) {
	for _, column := range columns {
		delegate.orderBy = append(delegate.orderBy, orderByItem{
			column:    column,
			ascending: ascending,
		})
	}
}

func (delegate *orderByDelegate) renderOrderBy() QueryString {
	if len(delegate.orderBy) == 0 {
		return QueryString{}
	}

	parts := []string{}
	for _, item := range delegate.orderBy {
		direction := "ASC"
		if !item.ascending {
			direction = "DESC"
		}

		parts = append(parts, quoteIdentifier(item.column.outputName())+" "+direction)
	}

	return NewQueryString(" ORDER BY " + strings.Join(parts, ", "))
}

type limitDelegate struct {
	limit  *int
	offset *int
	first  bool
}

func (delegate *limitDelegate) setLimit(limit int) {
	delegate.limit = &limit
}

func (delegate *limitDelegate) setOffset(offset int) {
	delegate.offset = &offset
}

func (delegate *limitDelegate) setFirst() {
	delegate.first = true
	delegate.setLimit(1)
}

func (delegate *limitDelegate) renderLimit(dialect string) QueryString {
	parts := ""
	if delegate.limit != nil {
		parts += fmt.Sprintf(" LIMIT %d", *delegate.limit)
	} else if delegate.offset != nil && dialect == EngineSQLite {
		// SQLite only accepts OFFSET after a LIMIT.
		parts += " LIMIT -1"
	}

	if delegate.offset != nil {
		parts += fmt.Sprintf(" OFFSET %d", *delegate.offset)
	}

	return NewQueryString(parts)
}

// freezeFirst binds the frozen response handler to a copy of the current
// limit state.
func (delegate *limitDelegate) freezeFirst(frozen *Query) {
	snapshot := *delegate
	frozen.responseHandler = snapshot.firstRow
}

// firstRow returns the first row, or nil when there are none.
func (delegate *limitDelegate) firstRow(rows []Row) (any, error) {
	if !delegate.first {
		return rows, nil
	}

	if len(rows) == 0 {
		return nil, nil
	}

	return rows[0], nil
}

type distinctDelegate struct {
	distinct bool
}

func (delegate *distinctDelegate) setDistinct() {
	delegate.distinct = true
}

type columnsDelegate struct {
	columns []Selectable
}

func (delegate *columnsDelegate) addColumns(columns ...Selectable) {
	delegate.columns = append(delegate.columns, columns...)
}

type valuesDelegate struct {
	values []Assignment
}

func (delegate *valuesDelegate) addValues(assignments ...Assignment) {
	delegate.values = append(delegate.values, assignments...)
}
