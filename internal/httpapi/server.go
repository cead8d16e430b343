package httpapi

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"todo-api/internal/model"
)

const welcomeMessage = "Welcome to the Todo API!"

type TodoService interface {
	Create(ctx context.Context, fields model.Fields) (model.Todo, error)
	List(ctx context.Context) ([]model.Todo, error)
	Update(ctx context.Context, id uuid.UUID, fields model.Fields) (model.UpdateResult, error)
	Delete(ctx context.Context, id uuid.UUID) (model.DeleteResult, error)
	Ready(ctx context.Context) error
}

type Server struct {
	service        TodoService
	logger         *log.Logger
	requestTimeout time.Duration
	mux            *http.ServeMux
	handler        http.Handler
}

type Option func(*Server)

func WithLogger(logger *log.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) { s.requestTimeout = d }
}

func NewServer(service TodoService, opts ...Option) *Server {
	srv := &Server{
		service:        service,
		logger:         log.Default(),
		requestTimeout: 3 * time.Second,
		mux:            http.NewServeMux(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	srv.mux.HandleFunc("GET /{$}", srv.handleIndex)
	srv.mux.HandleFunc("GET /healthz", healthHandler)
	srv.mux.HandleFunc("GET /readyz", ReadyzHandler(service))

	srv.mux.HandleFunc("POST /todos", srv.handleCreateTodo)
	srv.mux.HandleFunc("GET /todos", srv.handleListTodos)
	srv.mux.HandleFunc("PUT /todos/{id}", srv.handleUpdateTodo)
	srv.mux.HandleFunc("DELETE /todos/{id}", srv.handleDeleteTodo)

	srv.handler = WithRequestID(
		Logging(srv.logger)(
			Timeout(srv.requestTimeout)(srv.mux),
		),
	)
	return srv
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}
