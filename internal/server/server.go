package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"max.ks1230/expense-tracker/internal/entity/expense"
	"max.ks1230/expense-tracker/internal/logger"
	"max.ks1230/expense-tracker/internal/model/chat"
)

const defaultRecentLimit = 20

type chatService interface {
	HandleMessage(ctx context.Context, text string) (chat.Response, error)
}

type dashboardService interface {
	Recent(ctx context.Context, limit int) ([]expense.Record, error)
	Summary(ctx context.Context, today time.Time) (expense.Summary, error)
}

type config interface {
	Port() int
}

type Server struct {
	server    *http.Server
	chat      chatService
	dashboard dashboardService
}

func New(config config, chat chatService, dashboard dashboardService) *Server {
	s := &Server{
		chat:      chat,
		dashboard: dashboard,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/chat", s.handleChat)
	mux.HandleFunc("/expenses/recent", s.handleRecent)
	mux.HandleFunc("/dashboard/summary", s.handleSummary)
	mux.Handle("/metrics", promhttp.Handler())

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", config.Port()),
		Handler: mux,
	}
	return s
}

// Handler exposes the mux for tests.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

func (s *Server) ListenAndServe() error {
	logger.Info("HTTP server listening", zap.String("addr", s.server.Addr))
	return s.server.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

type chatRequest struct {
	Message string `json:"message"`
}

type chatResponse struct {
	Reply    string           `json:"reply"`
	Expenses []expense.Record `json:"expenses"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "body must be JSON with a message field")
		return
	}

	resp, err := s.chat.HandleMessage(r.Context(), req.Message)
	if err != nil {
		logger.Error("failed to handle chat message", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not save your expenses")
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		Reply:    resp.Reply,
		Expenses: resp.Expenses,
	})
}

func (s *Server) handleRecent(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	limit := defaultRecentLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			limit = parsed
		}
	}

	records, err := s.dashboard.Recent(r.Context(), limit)
	if err != nil {
		logger.Error("failed to list recent expenses", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load expenses")
		return
	}

	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	summary, err := s.dashboard.Summary(r.Context(), time.Now())
	if err != nil {
		logger.Error("failed to build summary", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load summary")
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.Error("failed to write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
