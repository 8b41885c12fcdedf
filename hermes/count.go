package hermes

import "fmt"

// Count returns the number of matching rows as an int64.
type Count struct {
	Query
	whereDelegate
}

func newCount(table *Table) *Count {
	c := &Count{}
	c.Query = newQuery(table, c, dialects{
		Default: c.defaultQuerystrings,
		Overrides: map[string]Producer{
			EngineSQLite: c.sqliteQuerystrings,
		},
	})
	c.Query.responseHandler = c.count

	return c
}

func (c *Count) Apply(clauses ...Clause) *Count {
	c.apply(clauses)
	return c
}

func (c *Count) Where(conditions ...Combinable) *Count {
	c.addWhere(conditions...)
	return c
}

func (c *Count) defaultQuerystrings() ([]QueryString, error) {
	return single(c.build(dialectDefault))
}

func (c *Count) sqliteQuerystrings() ([]QueryString, error) {
	return single(c.build(EngineSQLite))
}

func (c *Count) build(dialect string) (QueryString, error) {
	where, err := c.renderWhere(dialect)
	if err != nil {
		return QueryString{}, err
	}

	return NewQueryString(`SELECT COUNT(*) AS "count" FROM ` + c.table.quoted()).Combine(where), nil
}

func (c *Count) count(rows []Row) (any, error) {
	if len(rows) == 0 {
		return int64(0), nil
	}

	value, _ := rows[0].Get("count")
	count, err := toInt64(value)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", c.table.Name, err)
	}

	return count, nil
}
