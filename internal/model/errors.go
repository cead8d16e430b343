package model

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidID    = errors.New("invalid todo id")
	ErrInvalidInput = errors.New("invalid todo")
)

// DecodeError reports a stored document that cannot be mapped back to a Todo.
type DecodeError struct {
	ID  string
	Err error
}

func (e *DecodeError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("decode todo: %v", e.Err)
	}
	return fmt.Sprintf("decode todo %s: %v", e.ID, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
