// Package web implements the HTML GUI driving adapter using templ components.
package web

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/a-h/templ"

	"github.com/ericfisherdev/colorbook/internal/adapter/driving/web/templates"
	vm "github.com/ericfisherdev/colorbook/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/colorbook/internal/application"
	"github.com/ericfisherdev/colorbook/internal/domain/model"
)

const maxFormBytes = 64 << 10

// Handler is the web GUI driving adapter that serves HTML via templ components.
type Handler struct {
	session *application.SessionService
	limit   func(http.Handler) http.Handler
	logger  *slog.Logger
}

// NewHandler creates a Handler. limit wraps the form actions that call the
// generation provider.
func NewHandler(session *application.SessionService, limit func(http.Handler) http.Handler, logger *slog.Logger) *Handler {
	if limit == nil {
		limit = func(next http.Handler) http.Handler { return next }
	}
	return &Handler{
		session: session,
		limit:   limit,
		logger:  logger,
	}
}

// Index renders the login page until the session is authenticated, and the
// main page afterwards.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	csrf := ensureCSRFToken(w, r)
	flash := popFlash(w, r)

	snap := h.session.Snapshot()
	if !snap.State.IsAuthenticated() {
		h.render(w, r, templates.LoginTitle, templates.LoginPage(vm.LoginPageViewModel{
			CSRFToken: csrf,
			Flash:     flash,
		}))
		return
	}

	record, err := h.session.SavedTopics(r.Context())
	if err != nil {
		h.logger.Error("failed to load saved topics", "error", err)
		flash = vm.Flash{Kind: vm.FlashError, Message: "Wystąpił nieoczekiwany błąd."}
	}

	h.render(w, r, templates.HomeTitle, templates.HomePage(toHomePageViewModel(snap, record, csrf, flash)))
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, title string, body templ.Component) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")

	if err := templates.Layout(title, body).Render(r.Context(), w); err != nil {
		h.logger.Error("failed to render page", "title", title, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}

// action adapts a form handler: it bounds the body, checks the CSRF token,
// stores the returned flash and redirects back to the index page.
func (h *Handler) action(fn func(r *http.Request) vm.Flash) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)

		if !validateCSRF(r) {
			http.Error(w, "invalid CSRF token", http.StatusForbidden)
			return
		}

		if f := fn(r); !f.IsZero() {
			setFlash(w, f)
		}
		http.Redirect(w, r, "/", http.StatusSeeOther)
	})
}

func (h *Handler) login(r *http.Request) vm.Flash {
	err := h.session.Login(r.Context(), r.PostFormValue("api_key"))

	var verr *application.ValidationError
	switch {
	case err == nil:
		return success("Pomyślnie zalogowano!")
	case errors.As(err, &verr):
		return failureMessage("Wprowadź swój klucz OpenAI.")
	case errors.Is(err, application.ErrInvalidCredential):
		return failureMessage("Nieprawidłowy klucz API. Spróbuj ponownie.")
	case errors.Is(err, application.ErrInvalidTransition):
		return vm.Flash{}
	default:
		return h.failure(r, err)
	}
}

func (h *Handler) selectTopic(r *http.Request) vm.Flash {
	// Topics are exact keys; only the empty placeholder option is skipped.
	topic := r.PostFormValue("topic")
	if topic == "" {
		return vm.Flash{}
	}

	if err := h.session.SelectTopic(r.Context(), model.Topic(topic)); err != nil {
		return h.failure(r, err)
	}
	return vm.Flash{}
}

func (h *Handler) deleteTopic(r *http.Request) vm.Flash {
	topic := r.PostFormValue("topic")
	if topic == "" {
		return vm.Flash{}
	}

	if err := h.session.DeleteTopic(r.Context(), model.Topic(topic)); err != nil {
		return h.failure(r, err)
	}
	return success(fmt.Sprintf("Temat '%s' został usunięty.", topic))
}

func (h *Handler) submitTopic(r *http.Request) vm.Flash {
	err := h.session.SubmitTopic(r.Context(), model.Topic(r.PostFormValue("topic")))

	var verr *application.ValidationError
	switch {
	case err == nil:
		return success("Pomysły wygenerowane i zapisane pomyślnie!")
	case errors.As(err, &verr):
		return failureMessage("Podaj temat przewodni kolorowanki.")
	default:
		return h.failure(r, err)
	}
}

func (h *Handler) selectIdea(r *http.Request) vm.Flash {
	index, err := strconv.Atoi(r.PostFormValue("idea"))
	if err != nil {
		return failureMessage("Proszę wybrać pomysł i liczbę rysunków.")
	}

	if err := h.session.SelectIdea(index); err != nil {
		return h.failure(r, err)
	}
	return vm.Flash{}
}

// generateImages selects the submitted idea when it differs from the current
// selection, then renders the requested number of pages.
func (h *Handler) generateImages(r *http.Request) vm.Flash {
	pickMessage := failureMessage("Proszę wybrać pomysł i liczbę rysunków.")

	if raw := r.PostFormValue("idea"); raw != "" {
		index, err := strconv.Atoi(raw)
		if err != nil {
			return pickMessage
		}
		snap := h.session.Snapshot()
		if !snap.State.HasSelection() || snap.SelectedIdea != index {
			if err := h.session.SelectIdea(index); err != nil {
				return h.failure(r, err)
			}
		}
	}

	// A non-numeric count becomes 0, which the session rejects.
	count, _ := strconv.Atoi(r.PostFormValue("count"))

	err := h.session.GenerateImages(r.Context(), count)

	var verr *application.ValidationError
	switch {
	case err == nil:
		return success("Kolorowanki wygenerowane pomyślnie!")
	case errors.As(err, &verr), errors.Is(err, application.ErrInvalidTransition):
		return pickMessage
	default:
		return h.failure(r, err)
	}
}

// failure maps a session error to a user-facing notice. Unexpected errors
// are logged; their detail never reaches the page.
func (h *Handler) failure(r *http.Request, err error) vm.Flash {
	switch {
	case errors.Is(err, application.ErrNotAuthenticated):
		return failureMessage("Zaloguj się, aby kontynuować.")
	case errors.Is(err, application.ErrTopicNotFound):
		return failureMessage("Nie znaleziono wybranego tematu.")
	case errors.Is(err, application.ErrIdeaNotFound):
		return failureMessage("Nie znaleziono wybranego pomysłu.")
	case errors.Is(err, application.ErrGeneration):
		return failureMessage("Błąd generowania. Spróbuj ponownie.")
	default:
		h.logger.Error("form action failed", "path", r.URL.Path, "error", err)
		return failureMessage("Wystąpił nieoczekiwany błąd.")
	}
}

func success(msg string) vm.Flash {
	return vm.Flash{Kind: vm.FlashSuccess, Message: msg}
}

func failureMessage(msg string) vm.Flash {
	return vm.Flash{Kind: vm.FlashError, Message: msg}
}
