package market

import (
	"context"
	"errors"
)

// Status classifies the outcome of a single lookup stage.
type Status int

const (
	// StatusNotFound means the source answered but had nothing for the query.
	StatusNotFound Status = iota
	// StatusFound means Value is populated.
	StatusFound
	// StatusFailed means the source could not be consulted; Err says why.
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusFound:
		return "found"
	case StatusFailed:
		return "failed"
	default:
		return "not_found"
	}
}

// Result is a tagged optional returned by every resolver stage.
type Result[T any] struct {
	Value  T
	Status Status
	Err    error
}

// Found wraps a value.
func Found[T any](v T) Result[T] {
	return Result[T]{Value: v, Status: StatusFound}
}

// NotFound is the empty answer.
func NotFound[T any]() Result[T] {
	return Result[T]{Status: StatusNotFound}
}

// Failed records a transient failure. Callers treat it like NotFound
// but may log Err.
func Failed[T any](err error) Result[T] {
	return Result[T]{Status: StatusFailed, Err: err}
}

// OK reports whether the result carries a value.
func (r Result[T]) OK() bool {
	return r.Status == StatusFound
}

// Stage is one step of a resolver cascade.
type Stage[T any] func(ctx context.Context) Result[T]

// FirstFound runs stages in order and returns the first Found result.
// When no stage finds anything the result is Failed if any stage failed
// (errors joined), otherwise NotFound. A cancelled context stops the cascade.
func FirstFound[T any](ctx context.Context, stages ...Stage[T]) Result[T] {
	var errs []error
	for _, stage := range stages {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		r := stage(ctx)
		switch r.Status {
		case StatusFound:
			return r
		case StatusFailed:
			errs = append(errs, r.Err)
		}
	}
	if len(errs) > 0 {
		return Failed[T](errors.Join(errs...))
	}
	return NotFound[T]()
}
