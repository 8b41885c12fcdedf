package engine

import (
	"context"
	"errors"
	"log/slog"

	"github.com/lunagic/hermes/hermes"
)

var ErrBlankQuery = errors.New("blank query")

type hooks struct {
	preRunFuncs  []func(ctx context.Context, statement string, args []any) error
	postRunFuncs []func(ctx context.Context) error
}

type ConfigFunc func(engine *hooks) error

func WithPreRunFunc(preRunFunc func(ctx context.Context, statement string, args []any) error) ConfigFunc {
	return func(engine *hooks) error {
		engine.preRunFuncs = append(engine.preRunFuncs, preRunFunc)
		return nil
	}
}

func WithPostRunFunc(postRunFunc func(ctx context.Context) error) ConfigFunc {
	return func(engine *hooks) error {
		engine.postRunFuncs = append(engine.postRunFuncs, postRunFunc)
		return nil
	}
}

func WithLogger(logger *slog.Logger) ConfigFunc {
	return func(engine *hooks) error {
		engine.preRunFuncs = append(engine.preRunFuncs, func(ctx context.Context, statement string, args []any) error {
			logger.InfoContext(ctx, "Database Run",
				"statement", statement,
				"args", args,
			)

			return nil
		})

		return nil
	}
}

func (engine *hooks) configure(configFuncs []ConfigFunc) error {
	for _, configFunc := range configFuncs {
		if err := configFunc(engine); err != nil {
			return err
		}
	}

	return nil
}

// run compiles the querystring for the engine type and executes it between
// the configured hooks.
func (engine *hooks) run(
	ctx context.Context,
	engineType string,
	querystring hermes.QueryString,
	query func(statement string, args []any) ([]hermes.Row, error),
) ([]hermes.Row, error) {
	statement, args, err := querystring.Compile(hermes.UsesNumberedParameters(engineType))
	if err != nil {
		return nil, err
	}

	if statement == "" {
		return nil, ErrBlankQuery
	}

	for _, preRunFunc := range engine.preRunFuncs {
		if err := preRunFunc(ctx, statement, args); err != nil {
			return nil, err
		}
	}

	rows, err := query(statement, args)
	if err != nil {
		return nil, err
	}

	for _, postRunFunc := range engine.postRunFuncs {
		if err := postRunFunc(ctx); err != nil {
			return nil, err
		}
	}

	return rows, nil
}
