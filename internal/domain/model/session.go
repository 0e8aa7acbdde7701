package model

// SessionState is a step of the interactive session state machine.
type SessionState string

const (
	SessionUnauthenticated SessionState = "unauthenticated"
	SessionAuthenticated   SessionState = "authenticated" // Logged in, no ideas loaded.
	SessionIdeasLoaded     SessionState = "ideas_loaded"
	SessionIdeaSelected    SessionState = "idea_selected"
	SessionImagesShown     SessionState = "images_shown"
)

// IsAuthenticated reports whether the state is past login.
func (s SessionState) IsAuthenticated() bool {
	return s != SessionUnauthenticated && s != ""
}

// HasIdeas reports whether an idea list is loaded in this state.
func (s SessionState) HasIdeas() bool {
	switch s {
	case SessionIdeasLoaded, SessionIdeaSelected, SessionImagesShown:
		return true
	default:
		return false
	}
}

// HasSelection reports whether an idea is selected in this state.
func (s SessionState) HasSelection() bool {
	return s == SessionIdeaSelected || s == SessionImagesShown
}

// GeneratedImage references one rendered coloring page by its remote URL.
// Images are never downloaded or persisted.
type GeneratedImage struct {
	Ordinal int // 1-based position in request order.
	Idea    string
	URL     string
}

// Session is a read-only snapshot of the transient session state. It never
// carries the credential.
type Session struct {
	State        SessionState
	Topic        Topic
	Ideas        IdeaList
	SelectedIdea int // Index into Ideas; -1 when nothing is selected.
	Images       []GeneratedImage
}

// Selected returns the selected idea text, or "" when none is selected.
func (s Session) Selected() string {
	if s.SelectedIdea < 0 || s.SelectedIdea >= len(s.Ideas) {
		return ""
	}
	return s.Ideas[s.SelectedIdea]
}

// Bounds of the per-request image count.
const (
	MinImageCount = 1
	MaxImageCount = 10
)
