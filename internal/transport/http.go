package transport

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// RPCHandler handles method dispatch.
type RPCHandler interface {
	Handle(ctx context.Context, method string, params json.RawMessage) (any, error)
}

// codedError is implemented by domain errors that carry a stable code.
type codedError interface {
	error
	CodeValue() string
	MessageValue() string
	RecoveryHintValue() string
}

// Options configures the HTTP router. Nil handlers leave their route unmounted.
type Options struct {
	RPC           RPCHandler
	MCP           http.Handler
	Notifications http.Handler
	Logger        *slog.Logger
}

// Server wires HTTP handlers.
type Server struct {
	rpc    RPCHandler
	logger *slog.Logger
}

// NewServer creates an HTTP server router with middleware.
func NewServer(opts Options) *chi.Mux {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	srv := &Server{rpc: opts.RPC, logger: logger}

	r.Get("/health", srv.handleHealth)
	if opts.RPC != nil {
		r.Post("/rpc", srv.handleRPC)
	}
	if opts.Notifications != nil {
		r.Method(http.MethodGet, "/ws", opts.Notifications)
	}
	if opts.MCP != nil {
		r.Handle("/mcp", opts.MCP)
		r.Handle("/mcp/*", opts.MCP)
	}

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	req, err := ParseRequest(r.Body)
	if err != nil {
		WriteError(w, nil, parseErrorCode(err), err.Error(), nil)
		return
	}

	result, err := s.rpc.Handle(r.Context(), req.Method, req.Params)
	if err != nil {
		var coded codedError
		if errors.As(err, &coded) {
			WriteError(w, req.ID, rpcCode(coded.CodeValue()), coded.MessageValue(), map[string]string{
				"code":          coded.CodeValue(),
				"recovery_hint": coded.RecoveryHintValue(),
			})
			return
		}
		s.logger.Error("rpc failed", "method", req.Method, "request_id", middleware.GetReqID(r.Context()), "error", err)
		WriteError(w, req.ID, ErrInternal, err.Error(), nil)
		return
	}

	WriteResult(w, req.ID, result)
}

func rpcCode(code string) int {
	switch code {
	case "UNKNOWN_METHOD":
		return ErrMethodNotFound
	case "INVALID_PARAMS", "INVALID_INPUT":
		return ErrInvalidParams
	default:
		return ErrApplication
	}
}
