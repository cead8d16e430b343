package httpapi

import (
	"errors"
	"net/http"

	"todo-api/internal/model"
	"todo-api/internal/todo"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	writeText(w, http.StatusOK, welcomeMessage)
}

func (s *Server) handleCreateTodo(w http.ResponseWriter, r *http.Request) {
	fields, err := decodeTodoBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	created, err := s.service.Create(r.Context(), fields)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleListTodos(w http.ResponseWriter, r *http.Request) {
	todos, err := s.service.List(r.Context())
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) handleUpdateTodo(w http.ResponseWriter, r *http.Request) {
	id, err := todo.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	fields, err := decodeTodoBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.service.Update(r.Context(), id, fields)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteTodo(w http.ResponseWriter, r *http.Request) {
	id, err := todo.ParseID(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := s.service.Delete(r.Context(), id)
	if err != nil {
		s.internalError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, res)
}

// internalError reports a storage or decoding failure. The request is
// answered; the process keeps serving.
func (s *Server) internalError(w http.ResponseWriter, r *http.Request, err error) {
	var decErr *model.DecodeError
	kind := "storage"
	if errors.As(err, &decErr) {
		kind = "decode"
	}
	s.logger.Error("request failed",
		"rid", RequestIDFromContext(r.Context()),
		"method", r.Method,
		"path", r.URL.Path,
		"kind", kind,
		"err", err,
	)
	writeError(w, http.StatusInternalServerError, err.Error())
}
