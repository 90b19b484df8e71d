package api

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/barfgo/reil/arch"
	"github.com/barfgo/reil/loader"
	"github.com/barfgo/reil/smt"
	"github.com/barfgo/reil/translator"
)

// Server is the HTTP + WebSocket front end over one or more named
// translation sessions. Each session owns its own translator.Translator
// (and therefore its own solver context), so sessions never interfere
// with each other.
type Server struct {
	broadcaster *Broadcaster
	mux         *http.ServeMux
	server      *http.Server
	port        int

	mu       sync.Mutex
	sessions map[string]*translator.Translator
}

// NewServer builds a Server listening on port once Start is called.
func NewServer(port int) *Server {
	s := &Server{
		broadcaster: NewBroadcaster(),
		mux:         http.NewServeMux(),
		port:        port,
		sessions:    make(map[string]*translator.Translator),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/ws", s.handleWebSocket)
	s.mux.HandleFunc("/translate", s.handleTranslate)
	s.mux.HandleFunc("/reset", s.handleReset)
}

// Handler returns the server's HTTP handler with CORS applied, for
// embedding in another server (e.g. a test httptest.Server) without
// binding a port.
func (s *Server) Handler() http.Handler {
	return s.corsMiddleware(s.mux)
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// Start binds and serves on s.port. It blocks until the server stops.
func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:         fmt.Sprintf("127.0.0.1:%d", s.port),
		Handler:      s.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	log.Printf("reil api server listening on http://127.0.0.1:%d", s.port)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the HTTP server and disconnects every
// WebSocket client.
func (s *Server) Shutdown(ctx context.Context) error {
	s.broadcaster.Close()
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}

// sessionFor returns the translator.Translator for sessionID, creating a
// fresh x86-64 one (over an in-memory RecordingBackend) the first time a
// session is seen. The API server never shells out to a real solver
// process per request; it records the assertions a caller would hand to
// one.
func (s *Server) sessionFor(sessionID string) *translator.Translator {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.sessions[sessionID]
	if ok {
		return t
	}
	t, err := translator.New(smt.NewRecordingBackend(), arch.NewX86_64())
	if err != nil {
		// RecordingBackend.Reset never fails; New can only fail if the
		// backend does.
		panic(err)
	}
	s.sessions[sessionID] = t
	return t
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sessionCount := len(s.sessions)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":        "ok",
		"sessions":      sessionCount,
		"subscriptions": s.broadcaster.SubscriptionCount(),
	})
}

// translateRequest is one REIL instruction's textual form, submitted for
// translation against a named session.
type translateRequest struct {
	SessionID   string `json:"sessionId"`
	Instruction string `json:"instruction"`
}

type translateResponse struct {
	Assertions []string `json:"assertions"`
	Memory     string   `json:"memory"`
}

func (s *Server) handleTranslate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req translateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	instrs, errs := loader.Parse(req.Instruction, "api")
	if errs.HasErrors() {
		http.Error(w, errs.Error(), http.StatusBadRequest)
		return
	}
	if len(instrs) != 1 {
		http.Error(w, "expected exactly one instruction", http.StatusBadRequest)
		return
	}

	t := s.sessionFor(req.SessionID)
	terms, err := t.Translate(instrs[0])
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	assertions := make([]string, len(terms))
	for i, term := range terms {
		assertions[i] = term.String()
	}

	s.broadcaster.BroadcastAssertions(req.SessionID, 0, instrs[0].String(), assertions)
	if instrs[0].Mnemonic.String() == "stm" {
		s.broadcaster.BroadcastMemoryVersion(req.SessionID, t.Memory().String())
	}

	writeJSON(w, http.StatusOK, translateResponse{Assertions: assertions, Memory: t.Memory().String()})
}

type resetRequest struct {
	SessionID string `json:"sessionId"`
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, fmt.Sprintf("invalid request body: %v", err), http.StatusBadRequest)
		return
	}

	t := s.sessionFor(req.SessionID)
	if err := t.Reset(); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	s.broadcaster.BroadcastReset(req.SessionID)
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}
