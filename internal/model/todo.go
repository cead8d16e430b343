package model

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Fields are the caller-owned parts of a Todo. Id and timestamps are
// always stamped server-side.
type Fields struct {
	Title       string
	Description string
	Completed   bool
}

func (t Todo) Fields() Fields {
	return Fields{
		Title:       t.Title,
		Description: t.Description,
		Completed:   t.Completed,
	}
}
