package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"todo-api/internal/model"
	"todo-api/internal/todo"
)

// TodoRepo stores each todo as a jsonb document keyed by its uuid.
type TodoRepo struct {
	db *sql.DB
}

func NewTodoRepo(db *sql.DB) *TodoRepo {
	return &TodoRepo{db: db}
}

// EnsureTable creates the backing table when it does not exist yet.
func (r *TodoRepo) EnsureTable(ctx context.Context) error {
	const q = `
CREATE TABLE IF NOT EXISTS todos (
    id  uuid PRIMARY KEY,
    doc jsonb NOT NULL
);
`
	_, err := r.db.ExecContext(ctx, q)
	return errors.Wrap(err, "create todos table")
}

func (r *TodoRepo) Insert(ctx context.Context, t model.Todo) (model.InsertResult, error) {
	doc, err := json.Marshal(toDocument(t))
	if err != nil {
		return model.InsertResult{}, errors.Wrap(err, "encode todo")
	}

	const q = `INSERT INTO todos (id, doc) VALUES ($1, $2);`
	if _, err := r.db.ExecContext(ctx, q, t.ID.String(), doc); err != nil {
		return model.InsertResult{}, errors.Wrap(err, "insert todo")
	}
	return model.InsertResult{InsertedID: t.ID.String()}, nil
}

func (r *TodoRepo) FindAll(ctx context.Context) (todo.Cursor, error) {
	const q = `SELECT id, doc FROM todos;`
	rows, err := r.db.QueryContext(ctx, q)
	if err != nil {
		return nil, errors.Wrap(err, "select todos")
	}
	return &rowCursor{rows: rows}, nil
}

func (r *TodoRepo) Update(ctx context.Context, id uuid.UUID, fields model.Fields, updatedAt time.Time) (model.UpdateResult, error) {
	patch, err := json.Marshal(setFields(fields, updatedAt))
	if err != nil {
		return model.UpdateResult{}, errors.Wrap(err, "encode update")
	}

	// updated_at is kept at or after the stored created_at.
	const q = `
UPDATE todos
SET doc = jsonb_set(
	doc || $2::jsonb,
	'{updated_at}',
	CASE
		WHEN (doc->>'created_at')::timestamptz > ($2::jsonb->>'updated_at')::timestamptz
		THEN doc->'created_at'
		ELSE $2::jsonb->'updated_at'
	END
)
WHERE id = $1;
`
	res, err := r.db.ExecContext(ctx, q, id.String(), patch)
	if err != nil {
		return model.UpdateResult{}, errors.Wrap(err, "update todo")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.UpdateResult{}, errors.Wrap(err, "rows affected")
	}
	return model.UpdateResult{MatchedCount: n, ModifiedCount: n}, nil
}

func (r *TodoRepo) Delete(ctx context.Context, id uuid.UUID) (model.DeleteResult, error) {
	const q = `DELETE FROM todos WHERE id = $1;`
	res, err := r.db.ExecContext(ctx, q, id.String())
	if err != nil {
		return model.DeleteResult{}, errors.Wrap(err, "delete todo")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return model.DeleteResult{}, errors.Wrap(err, "rows affected")
	}
	return model.DeleteResult{DeletedCount: n}, nil
}

func (r *TodoRepo) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()
	return r.db.PingContext(ctx)
}

func (r *TodoRepo) Close(context.Context) error {
	return r.db.Close()
}

type rowCursor struct {
	rows *sql.Rows
}

func (c *rowCursor) Next(context.Context) bool { return c.rows.Next() }

func (c *rowCursor) Decode() (model.Todo, error) {
	var (
		id  string
		raw []byte
	)
	if err := c.rows.Scan(&id, &raw); err != nil {
		return model.Todo{}, &model.DecodeError{Err: err}
	}
	return decodeTodo(id, raw)
}

func (c *rowCursor) Err() error { return c.rows.Err() }

func (c *rowCursor) Close(context.Context) error { return c.rows.Close() }
