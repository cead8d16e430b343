package memorystore

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"todo-api/internal/model"
	"todo-api/internal/todo"
)

// TodoStore keeps todos in process memory, in insertion order.
type TodoStore struct {
	mu    sync.RWMutex
	order []uuid.UUID
	todos map[uuid.UUID]model.Todo
}

func NewTodoStore() *TodoStore {
	return &TodoStore{todos: make(map[uuid.UUID]model.Todo)}
}

func (s *TodoStore) Insert(ctx context.Context, t model.Todo) (model.InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return model.InsertResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[t.ID]; ok {
		return model.InsertResult{}, ErrDuplicateKey
	}
	s.todos[t.ID] = t
	s.order = append(s.order, t.ID)
	return model.InsertResult{InsertedID: t.ID.String()}, nil
}

func (s *TodoStore) FindAll(ctx context.Context) (todo.Cursor, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	snapshot := make([]model.Todo, 0, len(s.order))
	for _, id := range s.order {
		snapshot = append(snapshot, s.todos[id])
	}
	return &cursor{items: snapshot, pos: -1}, nil
}

func (s *TodoStore) Update(ctx context.Context, id uuid.UUID, fields model.Fields, updatedAt time.Time) (model.UpdateResult, error) {
	if err := ctx.Err(); err != nil {
		return model.UpdateResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.todos[id]
	if !ok {
		return model.UpdateResult{}, nil
	}
	t.Title = fields.Title
	t.Description = fields.Description
	t.Completed = fields.Completed
	t.UpdatedAt = updatedAt
	if t.UpdatedAt.Before(t.CreatedAt) {
		t.UpdatedAt = t.CreatedAt
	}
	s.todos[id] = t
	return model.UpdateResult{MatchedCount: 1, ModifiedCount: 1}, nil
}

func (s *TodoStore) Delete(ctx context.Context, id uuid.UUID) (model.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return model.DeleteResult{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.todos[id]; !ok {
		return model.DeleteResult{}, nil
	}
	delete(s.todos, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return model.DeleteResult{DeletedCount: 1}, nil
}

func (s *TodoStore) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *TodoStore) Close(context.Context) error {
	return nil
}
