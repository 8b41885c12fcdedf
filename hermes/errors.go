package hermes

import (
	"errors"
	"fmt"
)

var (
	ErrNoEngine              = errors.New("no db defined")
	ErrUnsupportedEngine     = errors.New("unsupported engine")
	ErrShapeMismatch         = errors.New("each row returned more than one value")
	ErrFrozenQuery           = errors.New("query is frozen")
	ErrUnknownClause         = errors.New("unrecognised clause")
	ErrCapabilityUnsupported = errors.New("capability not supported by engine")
	ErrPlaceholderMismatch   = errors.New("placeholder count does not match argument count")
	ErrUnsafeOperation       = errors.New("unsafe operation")
	ErrNotCacheable          = errors.New("query is not cacheable")
	ErrUnknownColumn         = errors.New("unknown column")
)

type ConfigurationError struct {
	Table string
}

func (err *ConfigurationError) Error() string {
	return fmt.Sprintf("table %s has no db defined", err.Table)
}

func (err *ConfigurationError) Unwrap() error {
	return ErrNoEngine
}

type UnsupportedEngineError struct {
	Tag string
}

func (err *UnsupportedEngineError) Error() string {
	return fmt.Sprintf("no querystring found for the %s engine", err.Tag)
}

func (err *UnsupportedEngineError) Unwrap() error {
	return ErrUnsupportedEngine
}

type ShapeError struct {
	Columns int
}

func (err *ShapeError) Error() string {
	return fmt.Sprintf("each row returned more than one value: got %d columns, as list output needs exactly 1", err.Columns)
}

func (err *ShapeError) Unwrap() error {
	return ErrShapeMismatch
}

// ClauseError reports a clause applied where it cannot be. Frozen is true when
// the clause exists on the underlying query but the query has been frozen.
type ClauseError struct {
	Clause string
	Frozen bool
}

func (err *ClauseError) Error() string {
	if err.Frozen {
		return fmt.Sprintf("this query is frozen - %s is only available on unfrozen queries", err.Clause)
	}

	return fmt.Sprintf("unrecognised clause: %s", err.Clause)
}

func (err *ClauseError) Unwrap() error {
	if err.Frozen {
		return ErrFrozenQuery
	}

	return ErrUnknownClause
}

type CapabilityError struct {
	Message string
}

func (err *CapabilityError) Error() string {
	return err.Message
}

func (err *CapabilityError) Unwrap() error {
	return ErrCapabilityUnsupported
}

type PlaceholderError struct {
	Template     string
	Placeholders int
	Args         int
}

func (err *PlaceholderError) Error() string {
	return fmt.Sprintf("querystring %q has %d placeholders but %d args", err.Template, err.Placeholders, err.Args)
}

func (err *PlaceholderError) Unwrap() error {
	return ErrPlaceholderMismatch
}

type UnsafeOperationError struct {
	Operation string
	Table     string
}

func (err *UnsafeOperationError) Error() string {
	return fmt.Sprintf(
		"do you really want to %s all the data in %s? If so, use force",
		err.Operation,
		err.Table,
	)
}

func (err *UnsafeOperationError) Unwrap() error {
	return ErrUnsafeOperation
}
