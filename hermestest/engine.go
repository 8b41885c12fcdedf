package hermestest

import (
	"context"
	"sync"

	"github.com/lunagic/hermes/hermes"
)

// Call is one querystring received by an Engine.
type Call struct {
	SQL    string
	Args   []any
	InPool bool
}

// Engine is an in-memory hermes.Engine. It records every call and answers
// with queued rows, or no rows once the queue is empty.
type Engine struct {
	engineType string
	mutex      sync.Mutex
	responses  [][]hermes.Row
	failure    error
	calls      []Call
}

func NewEngine(engineType string) *Engine {
	return &Engine{
		engineType: engineType,
	}
}

// Respond queues the rows returned by the next unanswered call.
func (engine *Engine) Respond(rows ...hermes.Row) *Engine {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()

	engine.responses = append(engine.responses, rows)

	return engine
}

// Fail makes every following call return err.
func (engine *Engine) Fail(err error) *Engine {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()

	engine.failure = err

	return engine
}

func (engine *Engine) EngineType() string {
	return engine.engineType
}

func (engine *Engine) RunQueryString(ctx context.Context, querystring hermes.QueryString, inPool bool) ([]hermes.Row, error) {
	sql, args, err := querystring.Compile(hermes.UsesNumberedParameters(engine.engineType))
	if err != nil {
		return nil, err
	}

	engine.mutex.Lock()
	defer engine.mutex.Unlock()

	engine.calls = append(engine.calls, Call{
		SQL:    sql,
		Args:   args,
		InPool: inPool,
	})

	if engine.failure != nil {
		return nil, engine.failure
	}

	if len(engine.responses) == 0 {
		return []hermes.Row{}, nil
	}

	rows := engine.responses[0]
	engine.responses = engine.responses[1:]

	return rows, nil
}

func (engine *Engine) Calls() []Call {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()

	return append([]Call{}, engine.calls...)
}

func (engine *Engine) SQL() []string {
	engine.mutex.Lock()
	defer engine.mutex.Unlock()

	statements := []string{}
	for _, call := range engine.calls {
		statements = append(statements, call.SQL)
	}

	return statements
}
