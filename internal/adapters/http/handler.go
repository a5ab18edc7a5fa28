package httpadapter

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/serenitylabs/serenity-agent/internal/app/chat"
	"github.com/serenitylabs/serenity-agent/internal/app/exercise"
	"github.com/serenitylabs/serenity-agent/internal/domain"
	"github.com/serenitylabs/serenity-agent/internal/observability"
)

type Server struct {
	svc       *chat.Service
	exercises *exercise.Manager
}

func NewServer(svc *chat.Service, exercises *exercise.Manager) http.Handler {
	s := &Server{svc: svc, exercises: exercises}
	mux := http.NewServeMux()

	mux.HandleFunc("/healthz", s.handleHealthz)

	mux.HandleFunc("/chat", s.handleChat)        // POST
	mux.HandleFunc("/history", s.handleHistory)  // GET
	mux.HandleFunc("/moods", s.handleMoods)      // GET
	mux.HandleFunc("/profile", s.handleProfile)  // GET

	// /exercise         → GET: current step
	// /exercise/start   → POST
	// /exercise/advance → POST
	// /exercise/finish  → POST
	mux.HandleFunc("/exercise", s.handleExerciseState)
	mux.HandleFunc("/exercise/", s.handleExerciseAction)

	return chainMiddlewares(mux, withLogging, withCORS)
}

// ─────────────────────────────────────────────
// DTOs (request/response)
// ─────────────────────────────────────────────

type chatRequest struct {
	SessionID string `json:"session_id"`
	Prompt    string `json:"prompt"`
}

type crisisResponse struct {
	Exercise string `json:"exercise"`
	Forced   bool   `json:"forced"`
}

type chatResponse struct {
	SessionID  string          `json:"session_id"`
	Response   string          `json:"response"`
	Mood       string          `json:"mood"`
	Suggestion string          `json:"suggestion,omitempty"`
	Crisis     *crisisResponse `json:"crisis,omitempty"`
}

type messageResponse struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

type historyResponse struct {
	History []messageResponse `json:"history"`
}

type moodLogResponse struct {
	Mood      string    `json:"mood"`
	Timestamp time.Time `json:"timestamp"`
}

type profileResponse struct {
	Name              string `json:"name"`
	Email             string `json:"email"`
	JoinDate          string `json:"joinDate"`
	SessionsCompleted int    `json:"sessionsCompleted"`
	DaysActive        int    `json:"daysActive"`
	MoodEntries       int    `json:"moodEntries"`
	Progress          int    `json:"progress"`
}

type exerciseActionRequest struct {
	SessionID string `json:"session_id"`
	Kind      string `json:"kind,omitempty"`
}

type exerciseStepResponse struct {
	Kind         string  `json:"kind"`
	StepIndex    int     `json:"step_index"`
	Title        string  `json:"title,omitempty"`
	Instruction  string  `json:"instruction,omitempty"`
	DwellSeconds float64 `json:"dwell_seconds,omitempty"`
	Terminal     bool    `json:"terminal"`
}

// ─────────────────────────────────────────────
// Concrete handlers
// ─────────────────────────────────────────────

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "session_id is required")
		return
	}
	// A missing prompt is a malformed request; a whitespace-only prompt
	// is a valid turn and gets the fixed prompting reply.
	if req.Prompt == "" {
		badRequest(w, "prompt is required")
		return
	}

	sessionID := domain.SessionID(req.SessionID)

	out, err := s.svc.HandleTurn(r.Context(), sessionID, req.Prompt)
	if err != nil {
		if errors.Is(err, chat.ErrExerciseActive) {
			s.writeCurrentStep(w, http.StatusConflict, sessionID)
			return
		}
		internalError(w, err)
		return
	}

	resp := chatResponse{
		SessionID:  req.SessionID,
		Response:   out.Reply,
		Mood:       string(out.Mood),
		Suggestion: out.Suggestion,
	}
	if advice := chat.AdviseCrisis(out.Mood); advice.Exercise != exercise.KindNone {
		resp.Crisis = &crisisResponse{
			Exercise: string(advice.Exercise),
			Forced:   advice.Forced,
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	history, err := s.svc.History(r.Context(), sessionID)
	if err != nil {
		internalError(w, err)
		return
	}

	out := historyResponse{History: make([]messageResponse, 0, len(history))}
	for _, m := range history {
		out.History = append(out.History, messageResponse{
			Role:      string(m.Role),
			Content:   m.Content,
			CreatedAt: m.CreatedAt,
		})
	}

	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleMoods(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	logs, err := s.svc.MoodLogs(r.Context(), sessionID, 10)
	if err != nil {
		internalError(w, err)
		return
	}

	out := make([]moodLogResponse, 0, len(logs))
	for _, l := range logs {
		out = append(out, moodLogResponse{
			Mood:      string(l.Mood),
			Timestamp: l.Timestamp,
		})
	}

	writeJSON(w, http.StatusOK, map[string]any{"moods": out})
}

func (s *Server) handleProfile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	profile, err := s.svc.Profile(r.Context(), sessionID)
	if err != nil {
		internalError(w, err)
		return
	}

	logs, err := s.svc.MoodLogs(r.Context(), sessionID, 10)
	if err != nil {
		internalError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, profileResponse{
		Name:              profile.Name,
		Email:             profile.Email,
		JoinDate:          profile.CreatedAt.Format("January 2006"),
		SessionsCompleted: profile.SessionsCompleted,
		DaysActive:        profile.DaysActive,
		MoodEntries:       len(logs),
		Progress:          profile.ProgressScore,
	})
}

func (s *Server) handleExerciseState(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w)
		return
	}

	sessionID, ok := sessionIDParam(w, r)
	if !ok {
		return
	}

	s.writeCurrentStep(w, http.StatusOK, sessionID)
}

func (s *Server) handleExerciseAction(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w)
		return
	}

	action := strings.TrimPrefix(r.URL.Path, "/exercise/")

	var req exerciseActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		badRequest(w, "invalid JSON body")
		return
	}
	if req.SessionID == "" {
		badRequest(w, "session_id is required")
		return
	}

	sessionID := domain.SessionID(req.SessionID)

	switch action {
	case "start":
		kind := exercise.Kind(strings.ToLower(strings.TrimSpace(req.Kind)))
		if _, err := s.exercises.Enter(sessionID, kind); err != nil {
			badRequest(w, err.Error())
			return
		}
	case "advance":
		if _, err := s.exercises.Advance(sessionID); err != nil {
			badRequest(w, err.Error())
			return
		}
	case "finish":
		if err := s.exercises.Finish(sessionID); err != nil {
			badRequest(w, err.Error())
			return
		}
	default:
		http.NotFound(w, r)
		return
	}

	s.writeCurrentStep(w, http.StatusOK, sessionID)
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func (s *Server) writeCurrentStep(w http.ResponseWriter, status int, sessionID domain.SessionID) {
	snap := s.exercises.Current(sessionID)

	resp := exerciseStepResponse{
		Kind:      string(snap.State.Kind),
		StepIndex: snap.State.StepIndex,
	}
	if snap.Active {
		resp.Title = snap.Step.Title
		resp.Instruction = snap.Step.Instruction
		resp.DwellSeconds = snap.Step.Dwell.Seconds()
		resp.Terminal = snap.Terminal
	}

	writeJSON(w, status, resp)
}

func sessionIDParam(w http.ResponseWriter, r *http.Request) (domain.SessionID, bool) {
	id := r.URL.Query().Get("session_id")
	if id == "" {
		badRequest(w, "session_id is required")
		return "", false
	}
	return domain.SessionID(id), true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func badRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]string{
		"error": msg,
	})
}

func internalError(w http.ResponseWriter, err error) {
	observability.Logger().Error("request failed", "error", err)
	writeJSON(w, http.StatusInternalServerError, map[string]string{
		"error": "internal server error",
	})
}

func methodNotAllowed(w http.ResponseWriter) {
	writeJSON(w, http.StatusMethodNotAllowed, map[string]string{
		"error": "method not allowed",
	})
}
