package memorystore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"todo-api/internal/model"
	"todo-api/internal/todo"
)

func drain(t *testing.T, cur todo.Cursor) []model.Todo {
	t.Helper()
	ctx := context.Background()
	defer cur.Close(ctx)

	var out []model.Todo
	for cur.Next(ctx) {
		item, err := cur.Decode()
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		out = append(out, item)
	}
	if err := cur.Err(); err != nil {
		t.Fatalf("cursor: %v", err)
	}
	return out
}

func newTodo(title string) model.Todo {
	now := time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC)
	return model.Todo{
		ID:          uuid.New(),
		Title:       title,
		Description: "d",
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestTodoStore_InsertionOrder(t *testing.T) {
	s := NewTodoStore()
	ctx := context.Background()

	a, b, c := newTodo("a"), newTodo("b"), newTodo("c")
	for _, item := range []model.Todo{a, b, c} {
		if _, err := s.Insert(ctx, item); err != nil {
			t.Fatal(err)
		}
	}

	cur, err := s.FindAll(ctx)
	if err != nil {
		t.Fatal(err)
	}
	got := drain(t, cur)
	if diff := cmp.Diff([]model.Todo{a, b, c}, got); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoStore_DuplicateInsert(t *testing.T) {
	s := NewTodoStore()
	ctx := context.Background()

	item := newTodo("a")
	if _, err := s.Insert(ctx, item); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Insert(ctx, item); !errors.Is(err, ErrDuplicateKey) {
		t.Fatalf("expected ErrDuplicateKey, got %v", err)
	}
}

func TestTodoStore_UpdateKeepsIdentity(t *testing.T) {
	s := NewTodoStore()
	ctx := context.Background()

	item := newTodo("a")
	if _, err := s.Insert(ctx, item); err != nil {
		t.Fatal(err)
	}

	later := item.UpdatedAt.Add(time.Minute)
	res, err := s.Update(ctx, item.ID, model.Fields{Title: "x", Description: "y", Completed: true}, later)
	if err != nil {
		t.Fatal(err)
	}
	if res.MatchedCount != 1 || res.ModifiedCount != 1 {
		t.Fatalf("res=%+v", res)
	}

	cur, _ := s.FindAll(ctx)
	got := drain(t, cur)
	want := []model.Todo{{
		ID:          item.ID,
		Title:       "x",
		Description: "y",
		Completed:   true,
		CreatedAt:   item.CreatedAt,
		UpdatedAt:   later,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestTodoStore_UpdatedAtNeverBeforeCreatedAt(t *testing.T) {
	s := NewTodoStore()
	ctx := context.Background()

	item := newTodo("a")
	if _, err := s.Insert(ctx, item); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Update(ctx, item.ID, model.Fields{Title: "x"}, item.CreatedAt.Add(-time.Hour)); err != nil {
		t.Fatal(err)
	}

	cur, _ := s.FindAll(ctx)
	got := drain(t, cur)
	if len(got) != 1 || !got[0].UpdatedAt.Equal(item.CreatedAt) {
		t.Fatalf("got=%+v, want updated_at clamped to %v", got, item.CreatedAt)
	}
}

func TestTodoStore_MissingIDs(t *testing.T) {
	s := NewTodoStore()
	ctx := context.Background()

	upd, err := s.Update(ctx, uuid.New(), model.Fields{Title: "x"}, time.Now())
	if err != nil {
		t.Fatal(err)
	}
	if upd.MatchedCount != 0 || upd.ModifiedCount != 0 {
		t.Fatalf("update res=%+v", upd)
	}

	del, err := s.Delete(ctx, uuid.New())
	if err != nil {
		t.Fatal(err)
	}
	if del.DeletedCount != 0 {
		t.Fatalf("delete res=%+v", del)
	}

	cur, _ := s.FindAll(ctx)
	if got := drain(t, cur); len(got) != 0 {
		t.Fatalf("expected empty store, got %d", len(got))
	}
}

func TestTodoStore_Delete(t *testing.T) {
	s := NewTodoStore()
	ctx := context.Background()

	a, b := newTodo("a"), newTodo("b")
	_, _ = s.Insert(ctx, a)
	_, _ = s.Insert(ctx, b)

	res, err := s.Delete(ctx, a.ID)
	if err != nil {
		t.Fatal(err)
	}
	if res.DeletedCount != 1 {
		t.Fatalf("res=%+v", res)
	}

	cur, _ := s.FindAll(ctx)
	got := drain(t, cur)
	if len(got) != 1 || got[0].ID != b.ID {
		t.Fatalf("got=%v", got)
	}
}

func TestTodoStore_CanceledContext(t *testing.T) {
	s := NewTodoStore()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := s.Insert(ctx, newTodo("a")); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if err := s.Ping(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
