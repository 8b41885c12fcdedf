package hermes

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/lunagic/hermes/hermestools"
)

// Query is the execution core shared by every operation. Operations embed it
// and supply their SQL producers and hooks when they are constructed.
type Query struct {
	table    *Table
	target   any
	dialects dialects
	frozen   []QueryString
	errs     []error
	output   *Output
	// validate runs before anything is sent to the engine.
	validate func() error
	// runCallback sees the raw rows before the response handler does.
	runCallback func(rows []Row) error
	// responseHandler reshapes rows, for example to a single row for First.
	responseHandler func(rows []Row) (any, error)
	// freezeHooks rebinds the hooks above to a snapshot of the operation's
	// state, so the original can keep changing after it is frozen.
	freezeHooks func(frozen *Query)
}

func newQuery(table *Table, target any, producers dialects) Query {
	return Query{
		table:    table,
		target:   target,
		dialects: producers,
	}
}

func (query *Query) Table() *Table {
	return query.table
}

func (query *Query) addError(err error) {
	if err != nil {
		query.errs = append(query.errs, err)
	}
}

func (query *Query) apply(clauses []Clause) {
	for _, clause := range clauses {
		if !clause.supportedBy(query.target) {
			query.addError(&ClauseError{Clause: clause.ClauseName()})
			continue
		}

		clause.applyTo(query.target)
	}
}

type runConfig struct {
	inPool bool
	timer  *Timer
}

type RunOption func(config *runConfig)

// InPool chooses between a pooled connection and a dedicated one.
func InPool(inPool bool) RunOption {
	return func(config *runConfig) {
		config.inPool = inPool
	}
}

// WithTimer measures the execution. The elapsed time is logged by the timer
// and remains available from timer.Duration().
func WithTimer(timer *Timer) RunOption {
	return func(config *runConfig) {
		config.timer = timer
	}
}

func buildRunConfig(inPool bool, opts []RunOption) runConfig {
	config := runConfig{
		inPool: inPool,
	}
	for _, opt := range opts {
		opt(&config)
	}

	return config
}

// Run executes the query. When the query resolves to several statements they
// are executed one after another, outside of any transaction, and a []any of
// the per-statement results is returned.
func (query *Query) Run(ctx context.Context, opts ...RunOption) (any, error) {
	config := buildRunConfig(true, opts)
	if config.timer != nil {
		config.timer.Start()
		defer config.timer.Stop()
	}

	return query.run(ctx, config.inPool)
}

// RunSync runs the query with a background context and, unless told
// otherwise, a dedicated connection. It blocks until the query completes.
func (query *Query) RunSync(opts ...RunOption) (any, error) {
	return query.Run(context.Background(), append([]RunOption{InPool(false)}, opts...)...)
}

type Result struct {
	Value any
	Err   error
}

// Async starts the query in a goroutine and delivers its result on the
// returned channel.
func (query *Query) Async(ctx context.Context, opts ...RunOption) <-chan Result {
	results := make(chan Result, 1)
	go func() {
		defer close(results)
		value, err := query.Run(ctx, opts...)
		results <- Result{Value: value, Err: err}
	}()

	return results
}

func (query *Query) run(ctx context.Context, inPool bool) (any, error) {
	if err := errors.Join(query.errs...); err != nil {
		return nil, err
	}

	if query.validate != nil {
		if err := query.validate(); err != nil {
			return nil, err
		}
	}

	engine := query.table.Engine()
	if engine == nil {
		return nil, &ConfigurationError{Table: query.table.Name}
	}

	querystrings, err := query.Querystrings()
	if err != nil {
		return nil, err
	}

	if len(querystrings) == 1 {
		rows, err := engine.RunQueryString(ctx, querystrings[0], inPool)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", query.table.Name, err)
		}

		return query.processResults(rows)
	}

	responses := []any{}
	for _, querystring := range querystrings {
		rows, err := engine.RunQueryString(ctx, querystring, inPool)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", query.table.Name, err)
		}

		response, err := query.processResults(rows)
		if err != nil {
			return nil, err
		}

		responses = append(responses, response)
	}

	return responses, nil
}

// Querystrings returns the statements this query executes on the table's
// engine. Frozen queries return their stored statements untouched.
func (query *Query) Querystrings() ([]QueryString, error) {
	if query.frozen != nil {
		return slices.Clone(query.frozen), nil
	}

	if err := errors.Join(query.errs...); err != nil {
		return nil, err
	}

	engine := query.table.Engine()
	if engine == nil {
		return nil, &ConfigurationError{Table: query.table.Name}
	}

	producer, err := query.dialects.resolve(engine.EngineType())
	if err != nil {
		return nil, err
	}

	return producer()
}

// Freeze resolves the SQL once and returns a query that only executes it.
func (query *Query) Freeze() (*FrozenQuery, error) {
	if query.validate != nil {
		if err := query.validate(); err != nil {
			return nil, err
		}
	}

	querystrings, err := query.Querystrings()
	if err != nil {
		return nil, err
	}

	frozen := *query
	frozen.frozen = querystrings
	frozen.validate = nil
	frozen.errs = nil
	frozen.freezeHooks = nil
	if query.freezeHooks != nil {
		query.freezeHooks(&frozen)
	}
	if query.output != nil {
		output := *query.output
		frozen.output = &output
	}

	return &FrozenQuery{query: &frozen}, nil
}

// String joins the rendered statements with "; ". The output is for logging
// and debugging only.
func (query *Query) String() string {
	querystrings, err := query.Querystrings()
	if err != nil {
		return fmt.Sprintf("<%s>", err)
	}

	return strings.Join(hermestools.Map(querystrings, QueryString.String), "; ")
}
