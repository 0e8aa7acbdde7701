package templates

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	vm "github.com/ericfisherdev/colorbook/internal/adapter/driving/web/viewmodel"
)

// HomeTitle is the document title of the main page.
const HomeTitle = "Generator Kolorowanek dla Dzieci"

// HomePage renders the topic pickers, the idea list with the image form and
// any generated images.
func HomePage(page vm.HomePageViewModel) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		h := &htmlWriter{w: w}

		flash(h, page.Flash)
		savedTopics(h, page)
		newTopic(h, page.CSRFToken)

		if !page.HasIdeas() {
			flash(h, vm.Flash{
				Kind:    vm.FlashInfo,
				Message: "Wprowadź temat przewodni i kliknij 'Pokaż Pomysły', aby rozpocząć.",
			})
			return h.err
		}

		ideaForm(h, page)
		images(h, page.Images)

		return h.err
	})
}

func savedTopics(h *htmlWriter, page vm.HomePageViewModel) {
	if len(page.SavedTopics) == 0 {
		return
	}

	h.raw(`<section><form method="post" action="/topics/select">`)
	csrfField(h, page.CSRFToken)
	h.raw(`<label for="saved_topic">Wybierz zapisany temat:</label>`)
	h.raw(`<select id="saved_topic" name="topic"><option value="">Wybierz...</option>`)
	for _, t := range page.SavedTopics {
		h.raw(`<option`)
		h.attr("value", t.Name)
		if t.Selected {
			h.raw(` selected`)
		}
		h.raw(`>`)
		h.text(t.Name)
		h.raw(`</option>`)
	}
	h.raw(`</select><div class="actions"><button type="submit" class="secondary">Wczytaj temat</button></div></form>`)

	if page.CurrentTopicSaved {
		h.raw(`<form method="post" action="/topics/delete">`)
		csrfField(h, page.CSRFToken)
		h.raw(`<input type="hidden" name="topic"`)
		h.attr("value", page.CurrentTopic)
		h.raw(`><div class="actions"><button type="submit" class="danger">Usuń zapisany temat</button></div></form>`)
	}
	h.raw(`</section>`)
}

func newTopic(h *htmlWriter, csrf string) {
	h.raw(`<section><form method="post" action="/topics/generate">`)
	csrfField(h, csrf)
	h.raw(`<label for="topic">Lub podaj temat przewodni kolorowanki:</label>`)
	h.raw(`<input type="text" id="topic" name="topic" required>`)
	h.raw(`<div class="actions"><button type="submit">Pokaż Pomysły</button></div>`)
	h.raw(`</form></section>`)
}

func ideaForm(h *htmlWriter, page vm.HomePageViewModel) {
	h.raw(`<section><form method="post" action="/images">`)
	csrfField(h, page.CSRFToken)

	h.raw(`<label>Wybierz pomysł na kolorowankę:</label><ul class="ideas">`)
	for _, idea := range page.Ideas {
		id := "idea-" + strconv.Itoa(idea.Index)
		h.raw(`<li><label`)
		h.attr("for", id)
		h.raw(`><input type="radio" name="idea"`)
		h.attr("id", id)
		h.attr("value", strconv.Itoa(idea.Index))
		if idea.Selected {
			h.raw(` checked`)
		}
		h.raw(`><span>`)
		if idea.HTML != "" {
			h.raw(idea.HTML)
		} else {
			h.text(idea.Text)
		}
		h.raw(`</span></label></li>`)
	}
	h.raw(`</ul>`)

	h.raw(`<label for="count">Wybierz ilość rysunków do wygenerowania:</label>`)
	h.raw(`<input type="number" id="count" name="count"`)
	h.attr("min", strconv.Itoa(page.MinImages))
	h.attr("max", strconv.Itoa(page.MaxImages))
	h.attr("value", strconv.Itoa(page.ImageCount))
	h.raw(` required>`)

	h.raw(`<div class="actions">`)
	h.raw(`<button type="submit" class="secondary" formaction="/ideas/select">Wybierz pomysł</button>`)
	h.raw(`<button type="submit">Stwórz Kolorowanki</button>`)
	h.raw(`</div></form></section>`)
}

func images(h *htmlWriter, imgs []vm.ImageViewModel) {
	if len(imgs) == 0 {
		return
	}

	h.raw(`<section class="images">`)
	for _, img := range imgs {
		label := "Kolorowanka " + strconv.Itoa(img.Ordinal)
		h.raw(`<article><p><strong>`)
		h.text(label)
		h.raw(`:</strong> `)
		h.text(img.Idea)
		h.raw(`</p><figure><img`)
		h.url("src", img.URL)
		h.attr("alt", label)
		h.raw(` loading="lazy"><figcaption>`)
		h.text(label)
		h.raw(`</figcaption></figure><a`)
		h.url("href", img.URL)
		h.raw(` target="_blank" rel="noopener noreferrer">Pobierz obraz `)
		h.int(img.Ordinal)
		h.raw(`</a></article>`)
	}
	h.raw(`</section>`)
}
