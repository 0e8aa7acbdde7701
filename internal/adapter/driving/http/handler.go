// Package httphandler implements the JSON API driving adapter. Every session
// operation the GUI offers is also reachable here.
package httphandler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"net/http"
	"time"

	"github.com/ericfisherdev/colorbook/internal/application"
	"github.com/ericfisherdev/colorbook/internal/domain/model"
)

const maxBodyBytes = 1 << 20

// Handler is the HTTP driving adapter that serves the REST API.
type Handler struct {
	session *application.SessionService
	limit   Middleware
	logger  *slog.Logger
}

// NewHandler creates a Handler. limit wraps the routes that call the
// generation provider; pass NewGenerationLimiter(0) to disable it.
func NewHandler(session *application.SessionService, limit Middleware, logger *slog.Logger) *Handler {
	return &Handler{
		session: session,
		limit:   limit,
		logger:  logger,
	}
}

// RegisterAPIRoutes registers all API routes on the provided mux.
func RegisterAPIRoutes(mux *http.ServeMux, h *Handler) {
	mux.HandleFunc("GET /api/v1/health", h.Health)

	mux.HandleFunc("GET /api/v1/session", h.GetSession)
	mux.HandleFunc("POST /api/v1/session/login", h.Login)

	mux.HandleFunc("GET /api/v1/topics", h.ListTopics)
	mux.HandleFunc("POST /api/v1/topics/select", h.SelectTopic)
	mux.Handle("POST /api/v1/topics/generate", h.limit(http.HandlerFunc(h.SubmitTopic)))
	mux.HandleFunc("DELETE /api/v1/topics/{topic}", h.DeleteTopic)

	mux.HandleFunc("POST /api/v1/ideas/select", h.SelectIdea)
	mux.Handle("POST /api/v1/images", h.limit(http.HandlerFunc(h.GenerateImages)))
}

// NewServeMux creates an http.Handler with the API routes registered and
// wrapped with the standard middleware.
func NewServeMux(h *Handler, logger *slog.Logger) http.Handler {
	mux := http.NewServeMux()
	RegisterAPIRoutes(mux, h)
	return ApplyMiddleware(mux, logger)
}

// Health returns a simple health check response.
func (h *Handler) Health(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status: "ok",
		Time:   time.Now().UTC().Format(time.RFC3339),
	})
}

// GetSession returns the current session snapshot.
func (h *Handler) GetSession(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// Login validates the submitted API key and authenticates the session.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.session.Login(r.Context(), req.APIKey); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// ListTopics returns every saved topic with its ideas, sorted by topic.
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	record, err := h.session.SavedTopics(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toTopicResponses(record))
}

// SelectTopic loads a saved topic into the session.
func (h *Handler) SelectTopic(w http.ResponseWriter, r *http.Request) {
	var req TopicRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.session.SelectTopic(r.Context(), model.Topic(req.Topic)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// SubmitTopic generates and saves ideas for a new topic.
func (h *Handler) SubmitTopic(w http.ResponseWriter, r *http.Request) {
	var req TopicRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.session.SubmitTopic(r.Context(), model.Topic(req.Topic)); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// DeleteTopic removes a saved topic. Deleting an absent topic succeeds.
func (h *Handler) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	topic := model.Topic(r.PathValue("topic"))

	if err := h.session.DeleteTopic(r.Context(), topic); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// SelectIdea selects an idea of the loaded list by index.
func (h *Handler) SelectIdea(w http.ResponseWriter, r *http.Request) {
	var req SelectIdeaRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.session.SelectIdea(req.Index); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// GenerateImages renders coloring pages for the selected idea.
func (h *Handler) GenerateImages(w http.ResponseWriter, r *http.Request) {
	var req GenerateImagesRequest
	if !h.decode(w, r, &req) {
		return
	}

	if err := h.session.GenerateImages(r.Context(), req.Count); err != nil {
		h.writeServiceError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, toSessionResponse(h.session.Snapshot()))
}

// decode reads a JSON body into v, writing a 415 or 400 and returning false
// on failure. Only application/json bodies are accepted.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil || mediaType != "application/json" {
		writeError(w, http.StatusUnsupportedMediaType, "content type must be application/json")
		return false
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
		return false
	}
	return true
}

// writeServiceError maps session errors to HTTP statuses. Unexpected errors
// are logged and reported as 500 without detail.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *application.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: verr.Error(), Fields: verr.Fields})
	case errors.Is(err, application.ErrNotAuthenticated), errors.Is(err, application.ErrInvalidCredential):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, application.ErrTopicNotFound), errors.Is(err, application.ErrIdeaNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, application.ErrInvalidTransition):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, application.ErrGeneration):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error("request failed",
			"path", r.URL.Path,
			"request_id", RequestID(r.Context()),
			"error", err,
		)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}
