package todo

import (
	"context"
	"time"

	"github.com/google/uuid"

	"todo-api/internal/model"
)

type Repository interface {
	Insert(ctx context.Context, t model.Todo) (model.InsertResult, error)
	FindAll(ctx context.Context) (Cursor, error)
	Update(ctx context.Context, id uuid.UUID, fields model.Fields, updatedAt time.Time) (model.UpdateResult, error)
	Delete(ctx context.Context, id uuid.UUID) (model.DeleteResult, error)
	Ping(ctx context.Context) error
}

// Cursor is a lazy, forward-only view over stored todos.
type Cursor interface {
	Next(ctx context.Context) bool
	Decode() (model.Todo, error)
	Err() error
	Close(ctx context.Context) error
}
