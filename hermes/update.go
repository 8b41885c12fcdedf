package hermes

import (
	"fmt"
)

// Update changes column values on matching rows. Updating every row requires
// Force.
type Update struct {
	Query
	whereDelegate
	valuesDelegate
	force bool
}

func newUpdate(table *Table, assignments ...Assignment) *Update {
	u := &Update{}
	u.Query = newQuery(table, u, dialects{
		Default: u.defaultQuerystrings,
		Overrides: map[string]Producer{
			EnginePostgres: u.postgresQuerystrings,
			EngineSQLite:   u.sqliteQuerystrings,
		},
	})
	u.Query.validate = u.validateUpdate
	u.addValues(assignments...)

	return u
}

func (u *Update) Apply(clauses ...Clause) *Update {
	u.apply(clauses)
	return u
}

func (u *Update) Values(assignments ...Assignment) *Update {
	u.addValues(assignments...)
	return u
}

func (u *Update) Where(conditions ...Combinable) *Update {
	u.addWhere(conditions...)
	return u
}

func (u *Update) Force() *Update {
	u.force = true
	return u
}

func (u *Update) validateUpdate() error {
	if u.where == nil && !u.force {
		return &UnsafeOperationError{Operation: "update", Table: u.table.Name}
	}

	return nil
}

func (u *Update) defaultQuerystrings() ([]QueryString, error) {
	return single(u.build(dialectDefault))
}

// Postgres is the only engine that can append to arrays.
func (u *Update) postgresQuerystrings() ([]QueryString, error) {
	return single(u.build(EnginePostgres))
}

func (u *Update) sqliteQuerystrings() ([]QueryString, error) {
	return single(u.build(EngineSQLite))
}

func (u *Update) build(dialect string) (QueryString, error) {
	if len(u.values) == 0 {
		return QueryString{}, fmt.Errorf("%s: no values to update", u.table.Name)
	}

	assignments := []QueryString{}
	for _, assignment := range u.values {
		if assignment.column.table != u.table {
			return QueryString{}, fmt.Errorf("%w: %s is not a column of %s", ErrUnknownColumn, assignment.column.Name, u.table.Name)
		}

		querystring, err := assignment.queryString(dialect)
		if err != nil {
			return QueryString{}, err
		}
		assignments = append(assignments, querystring)
	}

	where, err := u.renderWhere(dialect)
	if err != nil {
		return QueryString{}, err
	}

	return NewQueryString(
		"UPDATE "+u.table.quoted()+" SET {}",
		JoinQueryStrings(", ", assignments...),
	).Combine(where), nil
}
