package todo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"todo-api/internal/ids"
	"todo-api/internal/model"
)

type Service struct {
	repo  Repository
	now   func() time.Time
	newID func() uuid.UUID
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func WithIDSource(newID func() uuid.UUID) Option {
	return func(s *Service) { s.newID = newID }
}

func NewService(repo Repository, opts ...Option) *Service {
	s := &Service{
		repo:  repo,
		now:   func() time.Time { return time.Now() },
		newID: ids.NewTodoID,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// stamp returns the current time as stored: UTC, millisecond precision.
func (s *Service) stamp() time.Time {
	return s.now().UTC().Truncate(time.Millisecond)
}

func (s *Service) Create(ctx context.Context, fields model.Fields) (model.Todo, error) {
	now := s.stamp()
	t := model.Todo{
		ID:          s.newID(),
		Title:       fields.Title,
		Description: fields.Description,
		Completed:   fields.Completed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if _, err := s.repo.Insert(ctx, t); err != nil {
		return model.Todo{}, fmt.Errorf("failed to insert todo: %w", err)
	}
	return t, nil
}

// List drains the collection in storage order. The first decode or
// cursor error aborts the whole listing.
func (s *Service) List(ctx context.Context) (todos []model.Todo, err error) {
	cur, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to execute find query: %w", err)
	}
	defer func() {
		if cerr := cur.Close(ctx); cerr != nil && err == nil {
			todos, err = nil, fmt.Errorf("failed to close cursor: %w", cerr)
		}
	}()

	todos = make([]model.Todo, 0)
	for cur.Next(ctx) {
		t, err := cur.Decode()
		if err != nil {
			return nil, fmt.Errorf("failed to parse todo: %w", err)
		}
		todos = append(todos, t)
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("failed to read todos: %w", err)
	}
	return todos, nil
}

// Update replaces every caller-owned field and re-stamps updated_at.
// Id and created_at are never touched.
func (s *Service) Update(ctx context.Context, id uuid.UUID, fields model.Fields) (model.UpdateResult, error) {
	res, err := s.repo.Update(ctx, id, fields, s.stamp())
	if err != nil {
		return model.UpdateResult{}, fmt.Errorf("failed to update todo: %w", err)
	}
	return res, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) (model.DeleteResult, error) {
	res, err := s.repo.Delete(ctx, id)
	if err != nil {
		return model.DeleteResult{}, fmt.Errorf("failed to delete todo: %w", err)
	}
	return res, nil
}

func (s *Service) Ready(ctx context.Context) error {
	return s.repo.Ping(ctx)
}
