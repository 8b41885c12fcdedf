package hermes

import (
	"github.com/lunagic/hermes/hermestools"
)

// Select reads rows, optionally a subset of columns, from a table.
type Select struct {
	Query
	whereDelegate
	orderByDelegate
	limitDelegate
	distinctDelegate
	columnsDelegate
	outputDelegate
}

func newSelect(table *Table, columns ...Selectable) *Select {
	s := &Select{}
	s.Query = newQuery(table, s, dialects{
		Default: s.defaultQuerystrings,
		Overrides: map[string]Producer{
			EngineSQLite: s.sqliteQuerystrings,
		},
	})
	s.Query.output = &s.outputDelegate.output
	s.Query.responseHandler = s.firstRow
	s.Query.freezeHooks = s.freezeFirst
	s.addColumns(columns...)

	return s
}

func (s *Select) Apply(clauses ...Clause) *Select {
	s.apply(clauses)
	return s
}

func (s *Select) Columns(columns ...Selectable) *Select {
	s.addColumns(columns...)
	return s
}

func (s *Select) Where(conditions ...Combinable) *Select {
	s.addWhere(conditions...)
	return s
}

func (s *Select) OrderBy(columns ...Selectable) *Select {
	s.addOrderBy(true, columns...)
	return s
}

func (s *Select) OrderByDescending(columns ...Selectable) *Select {
	s.addOrderBy(false, columns...)
	return s
}

func (s *Select) Limit(limit int) *Select {
	s.setLimit(limit)
	return s
}

func (s *Select) Offset(offset int) *Select {
	s.setOffset(offset)
	return s
}

// First limits the select to one row and returns that row, or nil, instead
// of a slice.
func (s *Select) First() *Select {
	s.setFirst()
	return s
}

func (s *Select) Distinct() *Select {
	s.setDistinct()
	return s
}

func (s *Select) Output(output Output) *Select {
	s.setOutput(output)
	return s
}

func (s *Select) defaultQuerystrings() ([]QueryString, error) {
	return single(s.build(dialectDefault))
}

// SQLite reads JSON fields and array elements with json_extract and needs a
// LIMIT before any OFFSET.
func (s *Select) sqliteQuerystrings() ([]QueryString, error) {
	return single(s.build(EngineSQLite))
}

func (s *Select) build(dialect string) (QueryString, error) {
	return buildSelect(dialect, selectParts{
		table:    s.table,
		columns:  s.columns,
		distinct: s.distinct,
		where:    &s.whereDelegate,
		orderBy:  &s.orderByDelegate,
		limit:    &s.limitDelegate,
	})
}

type selectParts struct {
	table    *Table
	columns  []Selectable
	distinct bool
	where    *whereDelegate
	orderBy  *orderByDelegate
	limit    *limitDelegate
}

func buildSelect(dialect string, parts selectParts) (QueryString, error) {
	columns := parts.columns
	if len(columns) == 0 {
		columns = hermestools.Map(parts.table.columns, func(column *Column) Selectable {
			return column
		})
	}

	selects := []QueryString{}
	for _, column := range columns {
		querystring, err := column.selectQueryString(dialect)
		if err != nil {
			return QueryString{}, err
		}
		selects = append(selects, querystring)
	}

	keyword := "SELECT "
	if parts.distinct {
		keyword = "SELECT DISTINCT "
	}

	querystring := NewQueryString(
		keyword+"{} FROM "+parts.table.quoted(),
		JoinQueryStrings(", ", selects...),
	)

	if parts.where != nil {
		where, err := parts.where.renderWhere(dialect)
		if err != nil {
			return QueryString{}, err
		}
		querystring = querystring.Combine(where)
	}

	if parts.orderBy != nil {
		querystring = querystring.Combine(parts.orderBy.renderOrderBy())
	}

	if parts.limit != nil {
		querystring = querystring.Combine(parts.limit.renderLimit(dialect))
	}

	return querystring, nil
}
