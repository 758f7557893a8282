package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"auditrag/internal/port"
	"auditrag/internal/usecase"
)

// Server exposes the chat pipeline over HTTP.
type Server struct {
	chat   *usecase.ChatUseCase
	corpus port.CorpusReader
	model  string
	logger *slog.Logger
	http   *http.Server
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Response string    `json:"response"`
	Model    string    `json:"model"`
	Sources  []string  `json:"sources"`
	Scores   []float64 `json:"scores"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type healthResponse struct {
	Status     string `json:"status"`
	Chunks     int    `json:"chunks"`
	Generation uint64 `json:"generation"`
}

func New(addr string, chat *usecase.ChatUseCase, corpus port.CorpusReader, model string, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		chat:   chat,
		corpus: corpus,
		model:  model,
		logger: logger,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/api/chat", s.handleChat)
	mux.HandleFunc("/healthz", s.handleHealth)

	s.http = &http.Server{
		Addr:         addr,
		Handler:      mux,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 2 * time.Minute,
	}
	return s
}

func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.http.Addr)
	return s.http.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	requestID := uuid.NewString()
	logger := s.logger.With("request_id", requestID)

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "message is required"})
		return
	}

	start := time.Now()
	result, err := s.chat.Chat(req.Message)
	if err != nil {
		// Backend error details stay in the log, not in the response.
		logger.Error("chat request failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Failed to process your request"})
		return
	}

	logger.Info("chat request served",
		"strategy", result.Strategy,
		"grounded", result.Grounded,
		"sources", len(result.Sources),
		"elapsed", time.Since(start))

	writeJSON(w, http.StatusOK, chatResponse{
		Response: result.Response,
		Model:    s.model,
		Sources:  result.Sources,
		Scores:   result.Scores,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:     "ok",
		Chunks:     s.corpus.Len(),
		Generation: s.corpus.Generation(),
	})
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}
