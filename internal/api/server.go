package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/iamvkosarev/reply-genie-bot/config"
	"github.com/iamvkosarev/reply-genie-bot/internal/model"
	"github.com/iamvkosarev/reply-genie-bot/internal/usecase"
)

const shutdownTimeout = 5 * time.Second

type ReplyGenerator interface {
	Generate(ctx context.Context, req model.GenerationRequest) (usecase.GenerationResult, error)
}

type DraftController interface {
	CreateDraft(ctx context.Context) (model.Draft, error)
	GetDraft(ctx context.Context, draftID uuid.UUID) (model.Draft, error)
	AddMessage(ctx context.Context, draftID uuid.UUID, sender model.Sender, content string) (model.Draft, error)
	RemoveMessage(ctx context.Context, draftID uuid.UUID, index int) (model.Draft, error)
	UpdateSettings(ctx context.Context, draftID uuid.UUID, settings usecase.DraftSettings) (model.Draft, error)
	Reset(ctx context.Context, draftID uuid.UUID) (model.Draft, error)
	Generate(ctx context.Context, draftID uuid.UUID) (model.Draft, usecase.GenerationResult, error)
}

type ServerDeps struct {
	Replies ReplyGenerator
	Drafts  DraftController
	Logger  *slog.Logger
}

type Server struct {
	ServerDeps
	router    *chi.Mux
	port      int
	openAICfg config.OpenAI
}

func NewServer(port int, openAICfg config.OpenAI, deps ServerDeps) *Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}

	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors)

	s := &Server{
		ServerDeps: deps,
		router:     router,
		port:       port,
		openAICfg:  openAICfg,
	}

	router.Get("/health", s.health)
	router.Route("/api/v1", func(r chi.Router) {
		r.Get("/status", s.status)
		r.Post("/replies", s.generateReplies)
		r.Route("/drafts", func(r chi.Router) {
			r.Post("/", s.createDraft)
			r.Route("/{draftID}", func(r chi.Router) {
				r.Get("/", s.getDraft)
				r.Patch("/", s.updateDraft)
				r.Post("/messages", s.addMessage)
				r.Delete("/messages/{index}", s.removeMessage)
				r.Post("/reset", s.resetDraft)
				r.Post("/replies", s.generateDraftReplies)
			})
		})
	})

	return s
}

// Start serves until ctx is done and then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	addr := fmt.Sprintf(":%d", s.port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.Logger.Warn("API server shutdown failed", "error", err)
		}
	}()

	s.Logger.Info("API server starting", "addr", addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"api_key_status": s.openAICfg.KeyStatus(),
		"has_api_key":    s.openAICfg.HasKey(),
		"model":          s.openAICfg.OpenAIModel,
	})
}

func (s *Server) generateReplies(w http.ResponseWriter, r *http.Request) {
	var body GenerationRequestDTO
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := body.toModel()
	if err != nil {
		s.writeError(w, err)
		return
	}
	result, err := s.Replies.Generate(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toRepliesResponse(result))
}

func (s *Server) createDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.Drafts.CreateDraft(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, toDraftResponse(draft))
}

func (s *Server) getDraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := parseDraftID(w, r)
	if !ok {
		return
	}
	draft, err := s.Drafts.GetDraft(r.Context(), draftID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDraftResponse(draft))
}

func (s *Server) updateDraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := parseDraftID(w, r)
	if !ok {
		return
	}
	var body SettingsRequest
	if !decodeBody(w, r, &body) {
		return
	}
	settings, err := body.toSettings()
	if err != nil {
		s.writeError(w, err)
		return
	}
	draft, err := s.Drafts.UpdateSettings(r.Context(), draftID, settings)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDraftResponse(draft))
}

func (s *Server) addMessage(w http.ResponseWriter, r *http.Request) {
	draftID, ok := parseDraftID(w, r)
	if !ok {
		return
	}
	var body AddMessageRequest
	if !decodeBody(w, r, &body) {
		return
	}
	sender, err := model.ParseSender(body.Sender)
	if err != nil {
		s.writeError(w, err)
		return
	}
	draft, err := s.Drafts.AddMessage(r.Context(), draftID, sender, body.Content)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDraftResponse(draft))
}

func (s *Server) removeMessage(w http.ResponseWriter, r *http.Request) {
	draftID, ok := parseDraftID(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid message index"})
		return
	}
	draft, err := s.Drafts.RemoveMessage(r.Context(), draftID, index)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDraftResponse(draft))
}

func (s *Server) resetDraft(w http.ResponseWriter, r *http.Request) {
	draftID, ok := parseDraftID(w, r)
	if !ok {
		return
	}
	draft, err := s.Drafts.Reset(r.Context(), draftID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, toDraftResponse(draft))
}

func (s *Server) generateDraftReplies(w http.ResponseWriter, r *http.Request) {
	draftID, ok := parseDraftID(w, r)
	if !ok {
		return
	}
	draft, result, err := s.Drafts.Generate(r.Context(), draftID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, DraftRepliesResponse{
		Draft:           toDraftResponse(draft),
		RepliesResponse: toRepliesResponse(result),
	})
}

// writeError maps validation errors to 400, unknown drafts to 404 and
// everything else, the completion service included, to 502.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := http.StatusBadGateway
	switch {
	case model.IsValidationError(err):
		status = http.StatusBadRequest
	case errors.Is(err, model.ErrDraftDoesNotExist):
		status = http.StatusNotFound
	default:
		s.Logger.Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func parseDraftID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	draftID, err := uuid.Parse(chi.URLParam(r, "draftID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid draft id"})
		return uuid.Nil, false
	}
	return draftID, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": fmt.Sprintf("invalid JSON: %v", err)})
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// cors lets a browser front end on another origin call the API.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
