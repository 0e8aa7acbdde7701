// Package viewmodel defines presentation-ready structs for templ components.
// View models decouple template rendering from domain model types.
package viewmodel

// FlashKind selects the styling of a one-shot notice.
type FlashKind string

const (
	FlashSuccess FlashKind = "success"
	FlashError   FlashKind = "error"
	FlashInfo    FlashKind = "info"
)

// Flash is a notice shown once after a redirect.
type Flash struct {
	Kind    FlashKind
	Message string
}

// IsZero reports whether there is nothing to show.
func (f Flash) IsZero() bool {
	return f.Message == ""
}

// LoginPageViewModel holds the data for the login form.
type LoginPageViewModel struct {
	CSRFToken string
	Flash     Flash
}

// TopicOptionViewModel is one entry of the saved-topic picker.
type TopicOptionViewModel struct {
	Name     string
	Selected bool
}

// IdeaViewModel is one selectable idea. HTML is sanitized inline markup
// rendered from the idea text.
type IdeaViewModel struct {
	Index    int
	Text     string
	HTML     string
	Selected bool
}

// ImageViewModel is one generated coloring page.
type ImageViewModel struct {
	Ordinal int
	Idea    string
	URL     string
}

// HomePageViewModel holds presentation-ready data for the main page.
type HomePageViewModel struct {
	CSRFToken string
	Flash     Flash

	SavedTopics []TopicOptionViewModel
	// CurrentTopic is the loaded topic; CurrentTopicSaved is true when it is
	// still in the store and can be deleted.
	CurrentTopic      string
	CurrentTopicSaved bool

	// IdeasLoaded is true once a topic is loaded, even when its list is empty.
	IdeasLoaded bool

	Ideas      []IdeaViewModel
	ImageCount int
	MinImages  int
	MaxImages  int
	Images     []ImageViewModel
}

// HasIdeas reports whether a topic's idea list is loaded.
func (p HomePageViewModel) HasIdeas() bool {
	return p.IdeasLoaded
}
