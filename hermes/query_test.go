package hermes_test

import (
	"bytes"
	"errors"
	"log/slog"
	"strings"
	"testing"

	"github.com/lunagic/hermes/hermes"
	"gotest.tools/v3/assert"
)

func TestRunWithoutEngine(t *testing.T) {
	t.Parallel()

	b := newBand(nil)

	_, err := b.table.Objects().Run(t.Context())
	assert.ErrorIs(t, err, hermes.ErrNoEngine)
	assert.Error(t, err, "table band has no db defined")

	var configurationErr *hermes.ConfigurationError
	assert.Assert(t, errors.As(err, &configurationErr))
	assert.Equal(t, "band", configurationErr.Table)
}

func TestRunUnsupportedEngine(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand("mysql")

	_, err := b.table.Select().Run(t.Context())
	assert.ErrorIs(t, err, hermes.ErrUnsupportedEngine)
	assert.ErrorContains(t, err, "mysql")

	var unsupportedErr *hermes.UnsupportedEngineError
	assert.Assert(t, errors.As(err, &unsupportedErr))
	assert.Equal(t, "mysql", unsupportedErr.Tag)

	assert.Equal(t, 0, len(engine.Calls()))
}

func TestRunSingleStatement(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)
	engine.Respond(
		row("name", "Pythonistas"),
		row("name", "Rustaceans"),
	)

	response, err := b.table.Select(b.name).Run(t.Context())
	assert.NilError(t, err)
	assert.DeepEqual(t, []hermes.Row{
		row("name", "Pythonistas"),
		row("name", "Rustaceans"),
	}, response)

	assertSQL(t, engine, `SELECT "name" FROM "band"`)
}

func TestRunMultipleStatementsInOrder(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EngineSQLite)
	b.table.Indexes = []hermes.TableIndex{
		{Columns: []string{"name"}},
		{Columns: []string{"popularity", "name"}, Unique: true},
	}

	response, err := b.table.CreateTable().Run(t.Context())
	assert.NilError(t, err)
	assert.DeepEqual(t, []any{[]hermes.Row{}, []hermes.Row{}, []hermes.Row{}}, response)

	assertSQL(
		t,
		engine,
		`CREATE TABLE "band" ("id" INTEGER PRIMARY KEY, "name" VARCHAR(50) NOT NULL, "popularity" INTEGER NOT NULL, "tags" ARRAY, "meta" JSON)`,
		`CREATE INDEX "band_name" ON "band" ("name")`,
		`CREATE UNIQUE INDEX "band_popularity_name" ON "band" ("popularity", "name")`,
	)
}

func TestRunStopsAtFirstFailedStatement(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)
	b.table.Indexes = []hermes.TableIndex{{Columns: []string{"name"}}}
	engine.Fail(errors.New("relation already exists"))

	_, err := b.table.CreateTable().Run(t.Context())
	assert.ErrorContains(t, err, "band: relation already exists")
	assert.Equal(t, 1, len(engine.Calls()))
}

func TestRunInPool(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)

	{ // Run uses the pool by default
		_, err := b.table.Select().Run(t.Context())
		assert.NilError(t, err)
	}

	{ // Run can ask for a dedicated connection
		_, err := b.table.Select().Run(t.Context(), hermes.InPool(false))
		assert.NilError(t, err)
	}

	{ // RunSync does not use the pool by default
		_, err := b.table.Select().RunSync()
		assert.NilError(t, err)
	}

	{ // RunSync can still use the pool
		_, err := b.table.Select().RunSync(hermes.InPool(true))
		assert.NilError(t, err)
	}

	inPool := []bool{}
	for _, call := range engine.Calls() {
		inPool = append(inPool, call.InPool)
	}

	assert.DeepEqual(t, []bool{true, false, false, true}, inPool)
}

func TestRunForwardsPoolFlagToEveryStatement(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EngineSQLite)

	_, err := b.table.Alter().
		AddColumn(&hermes.Column{Name: "formed", Type: hermes.Integer{}, Null: true}).
		RenameColumn("popularity", "rating").
		Run(t.Context(), hermes.InPool(false))
	assert.NilError(t, err)

	calls := engine.Calls()
	assert.Equal(t, 2, len(calls))
	for _, call := range calls {
		assert.Equal(t, false, call.InPool)
	}
}

func TestAsync(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)
	engine.Respond(row("count", int64(7)))

	result := <-b.table.Count().Async(t.Context())
	assert.NilError(t, result.Err)
	assert.Equal(t, int64(7), result.Value)
}

func TestRunSyncTimed(t *testing.T) {
	t.Parallel()

	b, _ := newFakeBand(hermes.EnginePostgres)

	buffer := &bytes.Buffer{}
	timer := hermes.NewTimer(slog.New(slog.NewTextHandler(buffer, nil)))

	_, err := b.table.Select().RunSync(hermes.WithTimer(timer))
	assert.NilError(t, err)

	assert.Assert(t, strings.Contains(buffer.String(), "Query Duration"))
	assert.Assert(t, timer.Duration() >= 0)
}

func TestString(t *testing.T) {
	t.Parallel()

	b, _ := newFakeBand(hermes.EnginePostgres)
	b.table.Indexes = []hermes.TableIndex{{Name: "band_by_name", Columns: []string{"name"}}}

	assert.Equal(
		t,
		`SELECT "name" FROM "band" WHERE "name" = 'Pythonistas'`,
		b.table.Select(b.name).Where(hermes.Equal(b.name, "Pythonistas")).String(),
	)

	assert.Equal(
		t,
		`CREATE TABLE IF NOT EXISTS "band" ("id" SERIAL PRIMARY KEY, "name" VARCHAR(50) NOT NULL, "popularity" INTEGER NOT NULL, "tags" VARCHAR[], "meta" JSON); `+
			`CREATE INDEX IF NOT EXISTS "band_by_name" ON "band" ("name")`,
		b.table.CreateTable().IfNotExists().String(),
	)
}

func TestValidationRunsBeforeEngine(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)

	{ // Delete everything
		_, err := b.table.Delete().Run(t.Context())
		assert.ErrorIs(t, err, hermes.ErrUnsafeOperation)
		assert.Error(t, err, "do you really want to delete all the data in band? If so, use force")
	}

	{ // Update everything
		_, err := b.table.Update(hermes.Set(b.popularity, 0)).Run(t.Context())
		assert.ErrorIs(t, err, hermes.ErrUnsafeOperation)
	}

	assert.Equal(t, 0, len(engine.Calls()))

	{ // Forced
		_, err := b.table.Delete().Force().Run(t.Context())
		assert.NilError(t, err)

		_, err = b.table.Update(hermes.Set(b.popularity, 0)).Force().Run(t.Context())
		assert.NilError(t, err)
	}

	assertSQL(
		t,
		engine,
		`DELETE FROM "band"`,
		`UPDATE "band" SET "popularity" = $1`,
	)
}

func TestUnknownClause(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)

	_, err := b.table.Count().Apply(hermes.WithLimit(3)).Run(t.Context())
	assert.ErrorIs(t, err, hermes.ErrUnknownClause)
	assert.Error(t, err, "unrecognised clause: limit")
	assert.Equal(t, 0, len(engine.Calls()))
}

func TestApplyClauses(t *testing.T) {
	t.Parallel()

	b, engine := newFakeBand(hermes.EnginePostgres)

	_, err := b.table.Select().Apply(
		hermes.WithColumns(b.name, b.popularity),
		hermes.WithWhere(hermes.GreaterThan(b.popularity, 100)),
		hermes.WithWhere(hermes.Like(b.name, "Py%")),
		hermes.WithOrderBy(false, b.popularity),
		hermes.WithLimit(10),
		hermes.WithOffset(20),
		hermes.WithDistinct(),
	).Run(t.Context())
	assert.NilError(t, err)

	assertSQL(
		t,
		engine,
		`SELECT DISTINCT "name", "popularity" FROM "band" WHERE ("popularity" > $1 AND "name" LIKE $2) ORDER BY "popularity" DESC LIMIT 10 OFFSET 20`,
	)
	assert.DeepEqual(t, []any{100, "Py%"}, engine.Calls()[0].Args)
}
