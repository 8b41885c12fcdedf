package hermes

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// placeholder marks where an argument is bound inside a QueryString template.
const placeholder = "{}"

// QueryString is an immutable SQL fragment: a template containing "{}"
// markers and the arguments bound to them, in order. An argument may itself
// be a QueryString, in which case it is inlined when compiled.
type QueryString struct {
	template string
	args     []any
}

func NewQueryString(template string, args ...any) QueryString {
	return QueryString{
		template: template,
		args:     append([]any{}, args...),
	}
}

func (querystring QueryString) Template() string {
	return querystring.template
}

func (querystring QueryString) Args() []any {
	return append([]any{}, querystring.args...)
}

func (querystring QueryString) IsZero() bool {
	return querystring.template == "" && len(querystring.args) == 0
}

// Combine returns a new QueryString whose template is this template followed
// by other's, with the arguments concatenated in the same order.
func (querystring QueryString) Combine(other QueryString) QueryString {
	args := make([]any, 0, len(querystring.args)+len(other.args))
	args = append(args, querystring.args...)
	args = append(args, other.args...)

	return QueryString{
		template: querystring.template + other.template,
		args:     args,
	}
}

// JoinQueryStrings combines parts with separator between each of them.
func JoinQueryStrings(separator string, parts ...QueryString) QueryString {
	templates := []string{}
	args := []any{}
	for _, part := range parts {
		templates = append(templates, part.template)
		args = append(args, part.args...)
	}

	return QueryString{
		template: strings.Join(templates, separator),
		args:     args,
	}
}

// Compile flattens nested fragments and replaces every marker with a driver
// placeholder: "$n" when numbered, "?" otherwise.
func (querystring QueryString) Compile(numbered bool) (string, []any, error) {
	args := []any{}
	sql, err := querystring.render(func(value any) string {
		args = append(args, value)
		if numbered {
			return "$" + strconv.Itoa(len(args))
		}

		return "?"
	})
	if err != nil {
		return "", nil, err
	}

	return sql, args, nil
}

// String renders the fragment with its arguments inlined. It is meant for
// logging and debugging, never for execution.
func (querystring QueryString) String() string {
	rendered, err := querystring.render(renderLiteral)
	if err != nil {
		return fmt.Sprintf("<invalid querystring: %s>", err)
	}

	return rendered
}

func (querystring QueryString) render(bind func(value any) string) (string, error) {
	markers := strings.Count(querystring.template, placeholder)
	if markers != len(querystring.args) {
		return "", &PlaceholderError{
			Template:     querystring.template,
			Placeholders: markers,
			Args:         len(querystring.args),
		}
	}

	builder := strings.Builder{}
	remaining := querystring.template
	for _, arg := range querystring.args {
		index := strings.Index(remaining, placeholder)
		builder.WriteString(remaining[:index])
		remaining = remaining[index+len(placeholder):]

		if nested, ok := arg.(QueryString); ok {
			rendered, err := nested.render(bind)
			if err != nil {
				return "", err
			}
			builder.WriteString(rendered)
			continue
		}

		builder.WriteString(bind(arg))
	}
	builder.WriteString(remaining)

	return builder.String(), nil
}

func renderLiteral(value any) string {
	switch typed := value.(type) {
	case nil:
		return "NULL"
	case string:
		return "'" + strings.ReplaceAll(typed, "'", "''") + "'"
	case bool:
		if typed {
			return "TRUE"
		}
		return "FALSE"
	case time.Time:
		return "'" + typed.Format("2006-01-02 15:04:05.000000") + "'"
	case []byte:
		return fmt.Sprintf("'\\x%x'", typed)
	default:
		return fmt.Sprint(typed)
	}
}
