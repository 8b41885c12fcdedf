package hermes

import (
	"strings"
)

type TableIndex struct {
	Name    string
	Columns []string
	Unique  bool
}

// Table describes a database table and the engine it is bound to.
type Table struct {
	Name    string
	Indexes []TableIndex
	columns []*Column
	engine  Engine
}

// NewTable declares a table. When no column is marked as the primary key an
// "id" serial column is added as the first column.
func NewTable(name string, columns ...*Column) *Table {
	table := &Table{
		Name: name,
	}

	hasPrimaryKey := false
	for _, column := range columns {
		if column.PrimaryKey {
			hasPrimaryKey = true
		}
	}

	if !hasPrimaryKey {
		columns = append([]*Column{{
			Name:       "id",
			Type:       Serial{},
			PrimaryKey: true,
		}}, columns...)
	}

	for _, column := range columns {
		column.table = table
		table.columns = append(table.columns, column)
	}

	return table
}

// Bind attaches the engine that queries against this table run on.
func (table *Table) Bind(engine Engine) *Table {
	table.engine = engine
	return table
}

func (table *Table) Engine() Engine {
	return table.engine
}

func (table *Table) Columns() []*Column {
	return append([]*Column{}, table.columns...)
}

func (table *Table) Column(name string) (*Column, bool) {
	for _, column := range table.columns {
		if column.Name == name {
			return column, true
		}
	}

	return nil, false
}

func (table *Table) PrimaryKey() *Column {
	for _, column := range table.columns {
		if column.PrimaryKey {
			return column
		}
	}

	return nil
}

func (table *Table) quoted() string {
	return quoteIdentifier(table.Name)
}

func (table *Table) Select(columns ...Selectable) *Select {
	return newSelect(table, columns...)
}

func (table *Table) Objects() *Objects {
	return newObjects(table)
}

func (table *Table) Count() *Count {
	return newCount(table)
}

func (table *Table) Exists() *Exists {
	return newExists(table)
}

func (table *Table) Insert(models ...*Model) *Insert {
	return newInsert(table, models...)
}

func (table *Table) Update(assignments ...Assignment) *Update {
	return newUpdate(table, assignments...)
}

func (table *Table) Delete() *Delete {
	return newDelete(table)
}

func (table *Table) CreateTable() *CreateTable {
	return newCreateTable(table)
}

func (table *Table) Alter() *Alter {
	return newAlter(table)
}

func (table *Table) Raw(sql string, args ...any) *Raw {
	return newRaw(table, NewQueryString(sql, args...))
}

func quoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
