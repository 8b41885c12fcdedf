package hermes

// Exists reports whether any row matches.
type Exists struct {
	Query
	whereDelegate
}

func newExists(table *Table) *Exists {
	e := &Exists{}
	e.Query = newQuery(table, e, dialects{
		Default: e.defaultQuerystrings,
		Overrides: map[string]Producer{
			EngineSQLite: e.sqliteQuerystrings,
		},
	})
	e.Query.responseHandler = e.exists

	return e
}

func (e *Exists) Apply(clauses ...Clause) *Exists {
	e.apply(clauses)
	return e
}

func (e *Exists) Where(conditions ...Combinable) *Exists {
	e.addWhere(conditions...)
	return e
}

func (e *Exists) defaultQuerystrings() ([]QueryString, error) {
	return single(e.build(dialectDefault))
}

func (e *Exists) sqliteQuerystrings() ([]QueryString, error) {
	return single(e.build(EngineSQLite))
}

func (e *Exists) build(dialect string) (QueryString, error) {
	where, err := e.renderWhere(dialect)
	if err != nil {
		return QueryString{}, err
	}

	return NewQueryString(
		`SELECT EXISTS(SELECT 1 FROM `+e.table.quoted()+`{}) AS "exists"`,
		where,
	), nil
}

func (e *Exists) exists(rows []Row) (any, error) {
	if len(rows) == 0 {
		return false, nil
	}

	value, _ := rows[0].Get("exists")

	return Boolean{}.normalize(value)
}
