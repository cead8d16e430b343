package postgres

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"todo-api/internal/model"
)

// todoDocument is the jsonb payload. The id lives in its own column.
type todoDocument struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Completed   *bool      `json:"completed"`
	CreatedAt   *time.Time `json:"created_at"`
	UpdatedAt   *time.Time `json:"updated_at"`
}

func toDocument(t model.Todo) todoDocument {
	created, updated := t.CreatedAt.UTC(), t.UpdatedAt.UTC()
	return todoDocument{
		Title:       &t.Title,
		Description: &t.Description,
		Completed:   &t.Completed,
		CreatedAt:   &created,
		UpdatedAt:   &updated,
	}
}

// setFields is the partial document merged on update; created_at is absent
// so the stored value survives.
func setFields(fields model.Fields, updatedAt time.Time) map[string]any {
	return map[string]any{
		"title":       fields.Title,
		"description": fields.Description,
		"completed":   fields.Completed,
		"updated_at":  updatedAt.UTC(),
	}
}

func decodeTodo(id string, raw []byte) (model.Todo, error) {
	fail := func(err error) (model.Todo, error) {
		return model.Todo{}, &model.DecodeError{ID: id, Err: err}
	}

	parsed, err := uuid.Parse(id)
	if err != nil {
		return fail(errors.Wrap(err, "id"))
	}

	var doc todoDocument
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&doc); err != nil {
		return fail(errors.Wrap(err, "doc"))
	}

	switch {
	case doc.Title == nil:
		return fail(errors.New("title: missing"))
	case doc.Description == nil:
		return fail(errors.New("description: missing"))
	case doc.Completed == nil:
		return fail(errors.New("completed: missing"))
	case doc.CreatedAt == nil:
		return fail(errors.New("created_at: missing"))
	case doc.UpdatedAt == nil:
		return fail(errors.New("updated_at: missing"))
	}

	return model.Todo{
		ID:          parsed,
		Title:       *doc.Title,
		Description: *doc.Description,
		Completed:   *doc.Completed,
		CreatedAt:   doc.CreatedAt.UTC(),
		UpdatedAt:   doc.UpdatedAt.UTC(),
	}, nil
}
