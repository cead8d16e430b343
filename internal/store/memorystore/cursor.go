package memorystore

import (
	"context"
	"errors"

	"todo-api/internal/model"
)

var ErrDuplicateKey = errors.New("duplicate key")

type cursor struct {
	items []model.Todo
	pos   int
	err   error
}

func (c *cursor) Next(ctx context.Context) bool {
	if c.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		c.err = err
		return false
	}
	if c.pos+1 >= len(c.items) {
		return false
	}
	c.pos++
	return true
}

func (c *cursor) Decode() (model.Todo, error) {
	if c.pos < 0 || c.pos >= len(c.items) {
		return model.Todo{}, errors.New("cursor not positioned")
	}
	return c.items[c.pos], nil
}

func (c *cursor) Err() error { return c.err }

func (c *cursor) Close(context.Context) error {
	c.items = nil
	return nil
}
