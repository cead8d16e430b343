package todo

import (
	"github.com/google/uuid"

	"todo-api/internal/model"
)

// ParseID accepts only the canonical hyphenated form
// (xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx).
func ParseID(s string) (uuid.UUID, error) {
	if len(s) != 36 {
		return uuid.Nil, model.ErrInvalidID
	}
	id, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, model.ErrInvalidID
	}
	return id, nil
}
