package hermes

// Delete removes matching rows. Deleting every row requires Force.
type Delete struct {
	Query
	whereDelegate
	force bool
}

func newDelete(table *Table) *Delete {
	d := &Delete{}
	d.Query = newQuery(table, d, dialects{
		Default: d.defaultQuerystrings,
		Overrides: map[string]Producer{
			EngineSQLite: d.sqliteQuerystrings,
		},
	})
	d.Query.validate = d.validateDelete

	return d
}

func (d *Delete) Apply(clauses ...Clause) *Delete {
	d.apply(clauses)
	return d
}

func (d *Delete) Where(conditions ...Combinable) *Delete {
	d.addWhere(conditions...)
	return d
}

func (d *Delete) Force() *Delete {
	d.force = true
	return d
}

func (d *Delete) validateDelete() error {
	if d.where == nil && !d.force {
		return &UnsafeOperationError{Operation: "delete", Table: d.table.Name}
	}

	return nil
}

func (d *Delete) defaultQuerystrings() ([]QueryString, error) {
	return single(d.build(dialectDefault))
}

func (d *Delete) sqliteQuerystrings() ([]QueryString, error) {
	return single(d.build(EngineSQLite))
}

func (d *Delete) build(dialect string) (QueryString, error) {
	where, err := d.renderWhere(dialect)
	if err != nil {
		return QueryString{}, err
	}

	return NewQueryString("DELETE FROM " + d.table.quoted()).Combine(where), nil
}
