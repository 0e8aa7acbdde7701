package templates

import (
	"context"
	"io"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/colorbook/internal/adapter/driving/web/viewmodel"
)

// LoginTitle is the document title of the login page.
const LoginTitle = "Logowanie do Generatora Kolorowanek"

// LoginPage renders the API key form. The key field is a password input so
// the value is masked while typing.
func LoginPage(page vm.LoginPageViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		flash(h, page.Flash)

		h.raw(`<section><form method="post" action="/login" autocomplete="off">`)
		csrfField(h, page.CSRFToken)
		h.raw(`<label for="api_key">Wprowadź swój klucz OpenAI:</label>`)
		h.raw(`<input type="password" id="api_key" name="api_key" required>`)
		h.raw(`<div class="actions"><button type="submit">Zaloguj</button></div>`)
		h.raw(`</form></section>`)

		return h.err
	})
}

func flash(h *htmlWriter, f vm.Flash) {
	if f.IsZero() {
		return
	}
	h.raw(`<div role="status"`)
	h.attr("class", "flash flash-"+string(f.Kind))
	h.raw(`>`)
	h.text(f.Message)
	h.raw(`</div>`)
}

func csrfField(h *htmlWriter, token string) {
	h.raw(`<input type="hidden" name="csrf_token"`)
	h.attr("value", token)
	h.raw(`>`)
}
