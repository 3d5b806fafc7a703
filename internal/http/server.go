package http

import (
	"net/http"
	"time"

	"billed/internal/log"
	"billed/internal/services"
	"billed/internal/session"
	"billed/internal/store"
)

// Server exposes the bill pipelines over HTTP. It is the view-layer
// collaborator: it renders the synchronizer's output or error message,
// surfaces file-validation alerts, and performs navigation via
// redirects.
type Server struct {
	http.Server

	billStore store.Store
	sessions  *session.FileStore
	publisher services.SyncPublisher
	logger    *log.Logger
}

func NewServer(addr string, billStore store.Store, sessions *session.FileStore, publisher services.SyncPublisher, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.New(log.DefaultConfig())
	}

	s := &Server{
		billStore: billStore,
		sessions:  sessions,
		publisher: publisher,
		logger:    logger.WithComponent(log.ComponentHTTP),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/bills", s.handleBills)
	mux.HandleFunc("/api/bills/receipts", s.handleUploadReceipt)

	s.Server = http.Server{
		Addr:           addr,
		Handler:        mux,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		IdleTimeout:    60 * time.Second,
		MaxHeaderBytes: 1 << 16,
	}

	return s
}

func (s *Server) handleBills(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleListBills(w, r)
	case http.MethodPost:
		s.handleSubmitBill(w, r)
	default:
		w.Header().Set("Allow", "GET, POST")
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// currentSession resolves the user identity for this request. The
// session file wins; environment identity is the fallback.
func (s *Server) currentSession() (session.Context, error) {
	if s.sessions != nil {
		if ctx, err := s.sessions.Current(); err == nil {
			return ctx, nil
		}
	}
	return session.FromEnv()
}
