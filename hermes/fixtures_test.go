package hermes_test

import (
	"testing"

	"github.com/lunagic/hermes/hermes"
	"github.com/lunagic/hermes/hermestest"
	"gotest.tools/v3/assert"
)

type band struct {
	table      *hermes.Table
	name       *hermes.Column
	popularity *hermes.Column
	tags       *hermes.Column
	meta       *hermes.Column
}

func newBand(engine hermes.Engine) band {
	b := band{
		name:       &hermes.Column{Name: "name", Type: hermes.Varchar{Length: 50}},
		popularity: &hermes.Column{Name: "popularity", Type: hermes.Integer{}},
		tags:       &hermes.Column{Name: "tags", Type: hermes.Array{Base: hermes.Varchar{}}, Null: true},
		meta:       &hermes.Column{Name: "meta", Type: hermes.JSON{}, Null: true},
	}
	b.table = hermes.NewTable("band", b.name, b.popularity, b.tags, b.meta)
	if engine != nil {
		b.table.Bind(engine)
	}

	return b
}

func newFakeBand(engineType string) (band, *hermestest.Engine) {
	engine := hermestest.NewEngine(engineType)
	return newBand(engine), engine
}

func assertSQL(t *testing.T, engine *hermestest.Engine, expected ...string) {
	t.Helper()
	assert.DeepEqual(t, expected, engine.SQL())
}

func row(pairs ...any) hermes.Row {
	r := hermes.Row{}
	for i := 0; i < len(pairs); i += 2 {
		r.Keys = append(r.Keys, pairs[i].(string))
		r.Values = append(r.Values, pairs[i+1])
	}

	return r
}
