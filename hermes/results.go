package hermes

import (
	"encoding/json"
	"strings"

	"github.com/lunagic/hermes/hermestools"
)

func (query *Query) processResults(raw []Row) (any, error) {
	rows := make([]Row, 0, len(raw))
	if len(raw) > 0 {
		// Aliases such as "data$name" come back with a dot: "data.name".
		keys := hermestools.Map(raw[0].Keys, func(key string) string {
			return strings.ReplaceAll(key, "$", ".")
		})

		for _, row := range raw {
			rows = append(rows, NewRow(keys, row.Values))
		}
	}

	if query.runCallback != nil {
		if err := query.runCallback(rows); err != nil {
			return nil, err
		}
	}

	var response any = rows
	if query.responseHandler != nil {
		handled, err := query.responseHandler(rows)
		if err != nil {
			return nil, err
		}
		response = handled
	}

	if query.output == nil {
		return response, nil
	}

	var err error
	switch {
	case query.output.AsObjects:
		response, err = query.asObjects(response)
	case query.output.AsList:
		response, err = asList(response)
	}
	if err != nil {
		return nil, err
	}

	if query.output.AsJSON {
		jsonBytes, err := json.Marshal(response)
		if err != nil {
			return nil, err
		}

		return string(jsonBytes), nil
	}

	return response, nil
}

func (query *Query) asObjects(response any) (any, error) {
	switch typed := response.(type) {
	case nil:
		return nil, nil
	case Row:
		return query.table.modelFromRow(typed)
	case []Row:
		models := make([]*Model, 0, len(typed))
		for _, row := range typed {
			model, err := query.table.modelFromRow(row)
			if err != nil {
				return nil, err
			}
			models = append(models, model)
		}

		return models, nil
	}

	return response, nil
}

func asList(response any) (any, error) {
	// Only sequences are flattened. A single row from First passes through.
	switch typed := response.(type) {
	case []Row:
		if len(typed) == 0 {
			return []any{}, nil
		}

		if typed[0].Len() != 1 {
			return nil, &ShapeError{Columns: typed[0].Len()}
		}

		return hermestools.Map(typed, func(row Row) any {
			return row.Values[0]
		}), nil
	}

	return response, nil
}
