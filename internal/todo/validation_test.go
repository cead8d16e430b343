package todo

import (
	"errors"
	"testing"

	"todo-api/internal/model"
)

func TestParseID(t *testing.T) {
	tests := map[string]struct {
		in      string
		wantErr bool
	}{
		"canonical":       {in: "3f1c8a52-8f4e-4c1b-9a77-0d9b4d1e2f60"},
		"uppercase":       {in: "3F1C8A52-8F4E-4C1B-9A77-0D9B4D1E2F60"},
		"surrounding ws":  {in: " 3f1c8a52-8f4e-4c1b-9a77-0d9b4d1e2f60 ", wantErr: true},
		"empty":           {in: "", wantErr: true},
		"no hyphens":      {in: "3f1c8a528f4e4c1b9a770d9b4d1e2f60", wantErr: true},
		"braced":          {in: "{3f1c8a52-8f4e-4c1b-9a77-0d9b4d1e2f60}", wantErr: true},
		"urn":             {in: "urn:uuid:3f1c8a52-8f4e-4c1b-9a77-0d9b4d1e2f60", wantErr: true},
		"bad hex":         {in: "zf1c8a52-8f4e-4c1b-9a77-0d9b4d1e2f60", wantErr: true},
		"mongo object id": {in: "507f1f77bcf86cd799439011", wantErr: true},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			id, err := ParseID(tt.in)
			if tt.wantErr {
				if !errors.Is(err, model.ErrInvalidID) {
					t.Fatalf("expected ErrInvalidID, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if id.String() != "3f1c8a52-8f4e-4c1b-9a77-0d9b4d1e2f60" {
				t.Fatalf("id=%s", id)
			}
		})
	}
}
