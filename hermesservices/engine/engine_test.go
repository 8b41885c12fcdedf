package engine_test

import (
	"testing"

	"github.com/lunagic/hermes/hermes"
	"gotest.tools/v3/assert"
)

// testSuite runs the same statements against any engine.
func testSuite(t *testing.T, engine hermes.Engine) {
	t.Helper()

	title := &hermes.Column{Name: "title", Type: hermes.Varchar{Length: 100}, Unique: true}
	labels := &hermes.Column{Name: "labels", Type: hermes.Array{Base: hermes.Varchar{}}, Null: true}
	details := &hermes.Column{Name: "details", Type: hermes.JSON{}, Null: true}
	table := hermes.NewTable("post", title, labels, details).Bind(engine)

	_, err := table.CreateTable().IfNotExists().Run(t.Context())
	assert.NilError(t, err)

	first, err := table.NewModel(map[string]any{"title": "hello", "labels": []string{"a", "b"}, "details": map[string]any{"words": 2}})
	assert.NilError(t, err)
	second, err := table.NewModel(map[string]any{"title": "world", "labels": nil, "details": nil})
	assert.NilError(t, err)

	_, err = table.Insert(first, second).Run(t.Context())
	assert.NilError(t, err)
	assert.Equal(t, int64(1), first.Get("id"))
	assert.Equal(t, int64(2), second.Get("id"))

	{ // Pooled and dedicated connections see the same data
		for _, inPool := range []bool{true, false} {
			count, err := table.Count().Run(t.Context(), hermes.InPool(inPool))
			assert.NilError(t, err)
			assert.Equal(t, int64(2), count)
		}
	}

	{ // Arrays and JSON come back decoded
		response, err := table.Objects().Where(hermes.Any(labels, "b")).First().Run(t.Context())
		assert.NilError(t, err)

		model := response.(*hermes.Model)
		assert.Equal(t, "hello", model.Get("title"))
		assert.DeepEqual(t, []any{"a", "b"}, model.Get("labels"))
		assert.DeepEqual(t, map[string]any{"words": float64(2)}, model.Get("details"))
	}

	{ // JSON fields
		response, err := table.Select(hermes.Field(details, "words")).
			Where(hermes.IsNotNull(details)).
			Output(hermes.Output{AsList: true}).
			Run(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, 1, len(response.([]any)))
	}

	{ // Unique columns are enforced
		duplicate, err := table.NewModel(map[string]any{"title": "hello"})
		assert.NilError(t, err)

		_, err = table.Insert(duplicate).Run(t.Context())
		assert.ErrorContains(t, err, "post: ")
	}

	{
		_, err := table.Delete().Force().Run(t.Context())
		assert.NilError(t, err)

		exists, err := table.Exists().Run(t.Context())
		assert.NilError(t, err)
		assert.Equal(t, false, exists)
	}

	_, err = table.Alter().DropTable(true).Run(t.Context())
	assert.NilError(t, err)
}
