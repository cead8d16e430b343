package postgres

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"

	"todo-api/internal/model"
)

func TestDecodeTodo_RoundTrip(t *testing.T) {
	created := time.Date(2026, 2, 25, 12, 0, 0, 0, time.UTC)
	want := model.Todo{
		ID:          uuid.MustParse("3f1c8a52-8f4e-4c1b-9a77-0d9b4d1e2f60"),
		Title:       "A",
		Description: "B",
		Completed:   true,
		CreatedAt:   created,
		UpdatedAt:   created.Add(time.Minute),
	}

	raw, err := json.Marshal(toDocument(want))
	if err != nil {
		t.Fatal(err)
	}
	got, err := decodeTodo(want.ID.String(), raw)
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestSetFields_LeavesCreatedAtAlone(t *testing.T) {
	patch := setFields(model.Fields{Title: "x"}, time.Now())
	if _, ok := patch["created_at"]; ok {
		t.Fatalf("update patch must not carry created_at")
	}
	if _, ok := patch["id"]; ok {
		t.Fatalf("update patch must not carry id")
	}
}

func TestDecodeTodo_Malformed(t *testing.T) {
	const id = "3f1c8a52-8f4e-4c1b-9a77-0d9b4d1e2f60"
	full := `{"title":"A","description":"B","completed":false,"created_at":"2026-02-25T12:00:00Z","updated_at":"2026-02-25T12:00:00Z"}`

	tests := map[string]struct {
		id  string
		doc string
	}{
		"bad id":           {id: "nope", doc: full},
		"not json":         {id: id, doc: `{`},
		"missing title":    {id: id, doc: `{"description":"B","completed":false,"created_at":"2026-02-25T12:00:00Z","updated_at":"2026-02-25T12:00:00Z"}`},
		"missing updated":  {id: id, doc: `{"title":"A","description":"B","completed":false,"created_at":"2026-02-25T12:00:00Z"}`},
		"wrong type":       {id: id, doc: `{"title":1,"description":"B","completed":false,"created_at":"2026-02-25T12:00:00Z","updated_at":"2026-02-25T12:00:00Z"}`},
		"unknown property": {id: id, doc: `{"title":"A","description":"B","completed":false,"created_at":"2026-02-25T12:00:00Z","updated_at":"2026-02-25T12:00:00Z","x":1}`},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := decodeTodo(tt.id, []byte(tt.doc))
			var decErr *model.DecodeError
			if !errors.As(err, &decErr) {
				t.Fatalf("expected *model.DecodeError, got %v", err)
			}
			if decErr.ID != tt.id {
				t.Fatalf("id=%q", decErr.ID)
			}
		})
	}
}
