package hermes_test

import (
	"errors"
	"testing"

	"github.com/lunagic/hermes/hermes"
	"gotest.tools/v3/assert"
)

func TestAsListEmpty(t *testing.T) {
	t.Parallel()

	b, _ := newFakeBand(hermes.EnginePostgres)

	response, err := b.table.Select(b.name, b.popularity).Output(hermes.Output{AsList: true}).Run(t.Context())
	assert.NilError(t, err)
	assert.DeepEqual(t, []any{}, response)
}

func TestAsList(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)
	engine.Respond(
		row("name", "Pythonistas"),
		row("name", "Rustaceans"),
	)

	response, err := b.table.Select(b.name).Output(hermes.Output{AsList: true}).Run(t.Context())
	assert.NilError(t, err)
	assert.DeepEqual(t, []any{"Pythonistas", "Rustaceans"}, response)
}

func TestAsListShapeMismatch(t *testing.T) {
	t.Parallel()

	for _, rows := range [][]hermes.Row{
		{row("name", "Pythonistas", "popularity", 1000)},
		{row("name", "Pythonistas", "popularity", 1000), row("name", "Rustaceans", "popularity", 2000)},
	} {
		b, engine := newFakeBand(hermes.EnginePostgres)
		engine.Respond(rows...)

		_, err := b.table.Select(b.name, b.popularity).Output(hermes.Output{AsList: true}).Run(t.Context())
		assert.ErrorIs(t, err, hermes.ErrShapeMismatch)
		assert.ErrorContains(t, err, "each row returned more than one value")

		var shapeErr *hermes.ShapeError
		assert.Assert(t, errors.As(err, &shapeErr))
		assert.Equal(t, 2, shapeErr.Columns)
	}
}

func TestAsListLeavesFirstRow(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)
	engine.Respond(row("name", "Pythonistas", "popularity", int64(1000)))
	engine.Respond(row("name", "Rustaceans"))

	{ // Several columns are not a shape mismatch
		response, err := b.table.Select(b.name, b.popularity).First().Output(hermes.Output{AsList: true}).Run(t.Context())
		assert.NilError(t, err)
		assert.DeepEqual(t, row("name", "Pythonistas", "popularity", int64(1000)), response)
	}

	{ // A single column keeps its row too
		response, err := b.table.Select(b.name).First().Output(hermes.Output{AsList: true}).Run(t.Context())
		assert.NilError(t, err)
		assert.DeepEqual(t, row("name", "Rustaceans"), response)
	}
}

func TestAsJSON(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)
	engine.Respond(
		row("name", "Pythonistas", "popularity", 1000),
		row("name", "Rustaceans", "popularity", 2000),
	)
	engine.Respond(
		row("name", "Pythonistas"),
	)

	{ // Rows
		response, err := b.table.Select(b.name, b.popularity).Output(hermes.Output{AsJSON: true}).Run(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, `[{"name":"Pythonistas","popularity":1000},{"name":"Rustaceans","popularity":2000}]`, response)
	}

	{ // List
		response, err := b.table.Select(b.name).Output(hermes.Output{AsList: true, AsJSON: true}).Run(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, `["Pythonistas"]`, response)
	}
}

func TestNestedKeysUseDots(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EngineSQLite)
	engine.Respond(row("name", "Pythonistas", "meta$genre", "rock"))

	response, err := b.table.Select(b.name, hermes.Field(b.meta, "genre")).Run(t.Context())
	assert.NilError(t, err)
	assert.DeepEqual(t, []hermes.Row{row("name", "Pythonistas", "meta.genre", "rock")}, response)

	assertSQL(t, engine, `SELECT "name", json_extract("meta", '$."genre"') AS "meta$genre" FROM "band"`)
}

func TestFirst(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)
	engine.Respond(row("name", "Pythonistas"))

	{ // A single row instead of a slice
		response, err := b.table.Select(b.name).First().Run(t.Context())
		assert.NilError(t, err)
		assert.DeepEqual(t, row("name", "Pythonistas"), response)
	}

	{ // No rows gives nil
		response, err := b.table.Select(b.name).First().Run(t.Context())
		assert.NilError(t, err)
		assert.Assert(t, response == nil)
	}

	{ // No rows as objects is still nil
		response, err := b.table.Objects().First().Run(t.Context())
		assert.NilError(t, err)
		assert.Assert(t, response == nil)
	}

	assertSQL(
		t,
		engine,
		`SELECT "name" FROM "band" LIMIT 1`,
		`SELECT "name" FROM "band" LIMIT 1`,
		`SELECT "id", "name", "popularity", "tags", "meta" FROM "band" LIMIT 1`,
	)
}

func TestAsObjects(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EngineSQLite)
	engine.Respond(
		row("id", int64(1), "name", "Pythonistas", "popularity", int64(1000), "tags", `["a","b"]`, "meta", `{"genre":"rock"}`),
		row("id", int64(2), "name", "Rustaceans", "popularity", int64(2000), "tags", nil, "meta", nil),
	)

	response, err := b.table.Objects().Where(hermes.GreaterThanOrEqual(b.popularity, 1000)).Run(t.Context())
	assert.NilError(t, err)

	models, ok := response.([]*hermes.Model)
	assert.Assert(t, ok)
	assert.Equal(t, 2, len(models))

	assert.Equal(t, int64(1), models[0].Get("id"))
	assert.Equal(t, "Pythonistas", models[0].Get("name"))
	assert.DeepEqual(t, []any{"a", "b"}, models[0].Get("tags"))
	assert.DeepEqual(t, map[string]any{"genre": "rock"}, models[0].Get("meta"))
	assert.Assert(t, models[1].Get("tags") == nil)
	assert.Equal(t, b.table, models[1].Table())
}

func TestObjectsAsJSON(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)
	engine.Respond(
		row("id", int64(1), "name", "Pythonistas", "popularity", int64(1000), "tags", []any{"a"}, "meta", nil),
	)

	response, err := b.table.Objects().Output(hermes.Output{AsJSON: true, AsList: true}).First().Run(t.Context())
	assert.NilError(t, err)
	assert.Equal(t, `{"id":1,"name":"Pythonistas","popularity":1000,"tags":["a"],"meta":null}`, response)
}
