package hermes

import (
	"fmt"
	"strings"
)

// Combinable is a condition that can be rendered into a WHERE clause and
// combined with other conditions.
type Combinable interface {
	whereQueryString(dialect string) (QueryString, error)
}

type operatorOfLogic struct {
	keyword   string
	operators []Combinable
}

func (o operatorOfLogic) whereQueryString(dialect string) (QueryString, error) {
	parts := []QueryString{}
	for _, operator := range o.operators {
		part, err := operator.whereQueryString(dialect)
		if err != nil {
			return QueryString{}, err
		}

		parts = append(parts, part)
	}

	if len(parts) == 1 {
		return parts[0], nil
	}

	return NewQueryString("({})", JoinQueryStrings(" "+o.keyword+" ", parts...)), nil
}

func And(operators ...Combinable) Combinable {
	return operatorOfLogic{
		keyword:   "AND",
		operators: operators,
	}
}

func Or(operators ...Combinable) Combinable {
	return operatorOfLogic{
		keyword:   "OR",
		operators: operators,
	}
}

type operatorOfEquality struct {
	column   *Column
	operator string
	value    any
}

func (o operatorOfEquality) whereQueryString(dialect string) (QueryString, error) {
	value, err := bindValue(dialect, o.column, o.value)
	if err != nil {
		return QueryString{}, err
	}

	return NewQueryString(
		fmt.Sprintf("%s %s {}", o.column.quoted(), o.operator),
		value,
	), nil
}

func Equal(column *Column, value any) Combinable {
	return operatorOfEquality{
		column:   column,
		operator: "=",
		value:    value,
	}
}

func NotEqual(column *Column, value any) Combinable {
	return operatorOfEquality{
		column:   column,
		operator: "!=",
		value:    value,
	}
}

func GreaterThan(column *Column, value any) Combinable {
	return operatorOfEquality{
		column:   column,
		operator: ">",
		value:    value,
	}
}

func GreaterThanOrEqual(column *Column, value any) Combinable {
	return operatorOfEquality{
		column:   column,
		operator: ">=",
		value:    value,
	}
}

func LessThan(column *Column, value any) Combinable {
	return operatorOfEquality{
		column:   column,
		operator: "<",
		value:    value,
	}
}

func LessThanOrEqual(column *Column, value any) Combinable {
	return operatorOfEquality{
		column:   column,
		operator: "<=",
		value:    value,
	}
}

func Like(column *Column, value string) Combinable {
	return operatorOfEquality{
		column:   column,
		operator: "LIKE",
		value:    value,
	}
}

type operatorOfNull struct {
	column *Column
	not    bool
}

func (o operatorOfNull) whereQueryString(dialect string) (QueryString, error) {
	if o.not {
		return NewQueryString(o.column.quoted() + " IS NOT NULL"), nil
	}

	return NewQueryString(o.column.quoted() + " IS NULL"), nil
}

func IsNull(column *Column) Combinable {
	return operatorOfNull{column: column}
}

func IsNotNull(column *Column) Combinable {
	return operatorOfNull{column: column, not: true}
}

type operatorOfMembership struct {
	column *Column
	values []any
	not    bool
}

func (o operatorOfMembership) whereQueryString(dialect string) (QueryString, error) {
	keyword := "IN"
	if o.not {
		keyword = "NOT IN"
	}

	// An empty list matches nothing, and excludes nothing.
	if len(o.values) == 0 {
		if o.not {
			return NewQueryString("1 = 1"), nil
		}
		return NewQueryString("1 = 0"), nil
	}

	args := []any{}
	for _, value := range o.values {
		bound, err := bindValue(dialect, o.column, value)
		if err != nil {
			return QueryString{}, err
		}
		args = append(args, bound)
	}

	markers := strings.TrimSuffix(strings.Repeat(placeholder+", ", len(args)), ", ")

	return NewQueryString(
		fmt.Sprintf("%s %s (%s)", o.column.quoted(), keyword, markers),
		args...,
	), nil
}

func In(column *Column, values ...any) Combinable {
	return operatorOfMembership{column: column, values: values}
}

func NotIn(column *Column, values ...any) Combinable {
	return operatorOfMembership{column: column, values: values, not: true}
}

// operatorOfArray matches an element against an array column.
type operatorOfArray struct {
	column *Column
	value  any
	all    bool
}

func (o operatorOfArray) whereQueryString(dialect string) (QueryString, error) {
	if _, ok := o.column.Type.(Array); !ok {
		return QueryString{}, fmt.Errorf("%s is not an array column", o.column.Name)
	}

	if dialect == EngineSQLite {
		// Arrays are JSON text on SQLite.
		if o.all {
			return NewQueryString(
				fmt.Sprintf("NOT EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value != {})", o.column.quoted()),
				o.value,
			), nil
		}

		return NewQueryString(
			fmt.Sprintf("EXISTS (SELECT 1 FROM json_each(%s) WHERE json_each.value = {})", o.column.quoted()),
			o.value,
		), nil
	}

	function := "ANY"
	if o.all {
		function = "ALL"
	}

	return NewQueryString(
		fmt.Sprintf("{} = %s(%s)", function, o.column.quoted()),
		o.value,
	), nil
}

// Any matches rows whose array column contains value.
func Any(column *Column, value any) Combinable {
	return operatorOfArray{column: column, value: value}
}

// All matches rows whose array column only contains value.
func All(column *Column, value any) Combinable {
	return operatorOfArray{column: column, value: value, all: true}
}

// bindValue prepares a value for the dialect. QueryStrings pass through so
// they can be nested.
func bindValue(dialect string, column *Column, value any) (any, error) {
	if _, ok := value.(QueryString); ok {
		return value, nil
	}

	if dialect == EngineSQLite && column != nil {
		return column.Type.encodeSQLite(value)
	}

	return value, nil
}

type whereDelegate struct {
	where Combinable
}

func (delegate *whereDelegate) addWhere(conditions ...Combinable) {
	for _, condition := range conditions {
		if delegate.where == nil {
			delegate.where = condition
			continue
		}

		delegate.where = And(delegate.where, condition)
	}
}

func (delegate *whereDelegate) renderWhere(dialect string) (QueryString, error) {
	if delegate.where == nil {
		return QueryString{}, nil
	}

	condition, err := delegate.where.whereQueryString(dialect)
	if err != nil {
		return QueryString{}, err
	}

	return NewQueryString(" WHERE {}", condition), nil
}
