package httpapi

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"todo-api/internal/model"
)

const maxBodyBytes = 1 << 20 // 1 MiB

func readBody(r *http.Request, limit int64) ([]byte, error) {
	defer r.Body.Close()
	lr := io.LimitReader(r.Body, limit+1)

	b, err := io.ReadAll(lr)
	if err != nil {
		return nil, errors.New("failed to read body")
	}
	if int64(len(b)) > limit {
		return nil, errors.New("payload too large")
	}
	return b, nil
}

// todoRequest is the accepted body for create and update. Any id or
// timestamps the caller sends are validated by the schema and then dropped.
type todoRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", model.ErrInvalidInput, fmt.Sprintf(format, args...))
}

func decodeTodoBody(r *http.Request) (model.Fields, error) {
	body, err := readBody(r, maxBodyBytes)
	if err != nil {
		return model.Fields{}, invalidInput("%v", err)
	}

	var doc any
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return model.Fields{}, invalidInput("invalid JSON: %v", err)
	}
	if dec.More() {
		return model.Fields{}, invalidInput("invalid JSON: multiple JSON values")
	}

	if err := todoSchema.Validate(doc); err != nil {
		return model.Fields{}, invalidInput("%s", strings.Join(schemaProblems(err), "; "))
	}

	var req todoRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return model.Fields{}, invalidInput("invalid JSON: %v", err)
	}
	return model.Fields{
		Title:       req.Title,
		Description: req.Description,
		Completed:   req.Completed,
	}, nil
}
