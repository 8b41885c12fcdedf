package hermes

import (
	"fmt"
	"strings"

	"github.com/lunagic/hermes/hermestools"
)

// CreateTable creates the table and its indexes. Each index is a separate
// statement.
type CreateTable struct {
	Query
	ifNotExists bool
}

func newCreateTable(table *Table) *CreateTable {
	c := &CreateTable{}
	c.Query = newQuery(table, c, dialects{
		Default: c.defaultQuerystrings,
		Overrides: map[string]Producer{
			EngineSQLite: c.sqliteQuerystrings,
		},
	})

	return c
}

func (c *CreateTable) Apply(clauses ...Clause) *CreateTable {
	c.apply(clauses)
	return c
}

func (c *CreateTable) IfNotExists() *CreateTable {
	c.ifNotExists = true
	return c
}

func (c *CreateTable) defaultQuerystrings() ([]QueryString, error) {
	return createTableQuerystrings(dialectDefault, c.table, c.table.Name, c.ifNotExists), nil
}

func (c *CreateTable) sqliteQuerystrings() ([]QueryString, error) {
	return createTableQuerystrings(EngineSQLite, c.table, c.table.Name, c.ifNotExists), nil
}

func createTableQuerystrings(dialect string, table *Table, name string, ifNotExists bool) []QueryString {
	prefix := "CREATE TABLE "
	if ifNotExists {
		prefix = "CREATE TABLE IF NOT EXISTS "
	}

	definitions := hermestools.Map(table.columns, func(column *Column) string {
		return columnDefinition(dialect, column)
	})

	querystrings := []QueryString{
		NewQueryString(fmt.Sprintf(
			"%s%s (%s)",
			prefix,
			quoteIdentifier(name),
			strings.Join(definitions, ", "),
		)),
	}

	for _, index := range table.Indexes {
		querystrings = append(querystrings, indexQueryString(table, index, ifNotExists))
	}

	return querystrings
}

func columnDefinition(dialect string, column *Column) string {
	columnType := column.Type.PostgresType()
	if dialect == EngineSQLite {
		columnType = column.Type.SQLiteType()
	}

	parts := []string{column.quoted(), columnType}
	if column.PrimaryKey {
		return strings.Join(append(parts, "PRIMARY KEY"), " ")
	}

	if !column.Null {
		parts = append(parts, "NOT NULL")
	}

	if column.Unique {
		parts = append(parts, "UNIQUE")
	}

	return strings.Join(parts, " ")
}

func indexQueryString(table *Table, index TableIndex, ifNotExists bool) QueryString {
	name := index.Name
	if name == "" {
		name = table.Name + "_" + strings.Join(index.Columns, "_")
	}

	keyword := "CREATE INDEX "
	if index.Unique {
		keyword = "CREATE UNIQUE INDEX "
	}

	if ifNotExists {
		keyword += "IF NOT EXISTS "
	}

	return NewQueryString(fmt.Sprintf(
		"%s%s ON %s (%s)",
		keyword,
		quoteIdentifier(name),
		table.quoted(),
		strings.Join(hermestools.Map(index.Columns, quoteIdentifier), ", "),
	))
}
