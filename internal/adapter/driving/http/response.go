package httphandler

import (
	"encoding/json"
	"net/http"

	"github.com/ericfisherdev/colorbook/internal/application"
	"github.com/ericfisherdev/colorbook/internal/domain/model"
)

// writeJSON marshals v to JSON and writes it to the response with the given
// status code. If marshaling fails, a 500 error is written instead.
func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"internal server error"}`))
		return
	}

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

// writeError writes a JSON error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// errorResponse is the standard error response body. Fields is set only for
// rejected input.
type errorResponse struct {
	Error  string                   `json:"error"`
	Fields []application.FieldError `json:"fields,omitempty"`
}

// HealthResponse is the JSON representation of the health check endpoint.
type HealthResponse struct {
	Status string `json:"status"`
	Time   string `json:"time"`
}

// SessionResponse is the JSON representation of the session snapshot.
type SessionResponse struct {
	State         string          `json:"state"`
	Authenticated bool            `json:"authenticated"`
	Topic         string          `json:"topic,omitempty"`
	Ideas         []string        `json:"ideas"`
	SelectedIndex *int            `json:"selected_index"`
	SelectedIdea  string          `json:"selected_idea,omitempty"`
	Images        []ImageResponse `json:"images"`
}

// ImageResponse is one generated coloring page.
type ImageResponse struct {
	Ordinal int    `json:"ordinal"`
	Idea    string `json:"idea"`
	URL     string `json:"url"`
}

// TopicResponse is one saved topic with its ideas.
type TopicResponse struct {
	Topic string   `json:"topic"`
	Ideas []string `json:"ideas"`
}

// LoginRequest is the JSON body for the login endpoint.
type LoginRequest struct {
	APIKey string `json:"api_key"`
}

// TopicRequest is the JSON body for selecting or generating a topic.
type TopicRequest struct {
	Topic string `json:"topic"`
}

// SelectIdeaRequest is the JSON body for the idea selection endpoint.
type SelectIdeaRequest struct {
	Index int `json:"index"`
}

// GenerateImagesRequest is the JSON body for the image generation endpoint.
type GenerateImagesRequest struct {
	Count int `json:"count"`
}

// toSessionResponse converts a session snapshot to its JSON representation.
// Slices are never null.
func toSessionResponse(s model.Session) SessionResponse {
	ideas := make([]string, 0, len(s.Ideas))
	ideas = append(ideas, s.Ideas...)

	images := make([]ImageResponse, 0, len(s.Images))
	for _, img := range s.Images {
		images = append(images, ImageResponse{Ordinal: img.Ordinal, Idea: img.Idea, URL: img.URL})
	}

	resp := SessionResponse{
		State:         string(s.State),
		Authenticated: s.State.IsAuthenticated(),
		Topic:         string(s.Topic),
		Ideas:         ideas,
		Images:        images,
	}
	if s.State.HasSelection() {
		idx := s.SelectedIdea
		resp.SelectedIndex = &idx
		resp.SelectedIdea = s.Selected()
	}
	return resp
}

// toTopicResponses converts the durable record to a topic-sorted list.
func toTopicResponses(record model.IdeaRecord) []TopicResponse {
	resp := make([]TopicResponse, 0, len(record))
	for _, topic := range record.Topics() {
		ideas := make([]string, 0, len(record[topic]))
		ideas = append(ideas, record[topic]...)
		resp = append(resp, TopicResponse{Topic: string(topic), Ideas: ideas})
	}
	return resp
}
