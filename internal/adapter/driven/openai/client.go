// Package openai implements the provider ports against the OpenAI HTTP API.
// Chat completions go through langchaingo; image generation and the
// credential probe use go-openai, which exposes those endpoints directly.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	goopenai "github.com/sashabaranov/go-openai"
	"github.com/tmc/langchaingo/llms"
	lcopenai "github.com/tmc/langchaingo/llms/openai"

	"github.com/ericfisherdev/colorbook/internal/domain/model"
	"github.com/ericfisherdev/colorbook/internal/domain/port/driven"
)

// Compile-time interface satisfaction checks.
var (
	_ driven.Provider            = (*Client)(nil)
	_ driven.ProviderFactory     = (*Factory)(nil)
	_ driven.CredentialValidator = (*CredentialChecker)(nil)
)

// DefaultBaseURL is the public OpenAI API root, including the version segment.
const DefaultBaseURL = "https://api.openai.com/v1"

const defaultTimeout = 2 * time.Minute

var (
	// ErrEmptyCompletion is returned when the chat endpoint answers without any choice.
	ErrEmptyCompletion = errors.New("provider returned no completion")

	// ErrEmptyImage is returned when an image response carries no URL.
	ErrEmptyImage = errors.New("provider returned no image")

	// ErrInvalidCount is returned when fewer than one image is requested.
	ErrInvalidCount = errors.New("image count must be at least 1")
)

// Settings configures both provider clients. Zero values fall back to the
// defaults used by the hosted service.
type Settings struct {
	BaseURL      string
	ChatModel    string
	ImageModel   string
	ImageSize    string
	ImageQuality string
	Prompts      model.Prompts
	HTTPClient   *http.Client
}

func (s Settings) withDefaults() Settings {
	if s.BaseURL == "" {
		s.BaseURL = DefaultBaseURL
	}
	if s.ChatModel == "" {
		s.ChatModel = "gpt-4"
	}
	if s.ImageModel == "" {
		s.ImageModel = goopenai.CreateImageModelDallE3
	}
	if s.ImageSize == "" {
		s.ImageSize = goopenai.CreateImageSize1024x1024
	}
	if s.ImageQuality == "" {
		s.ImageQuality = goopenai.CreateImageQualityStandard
	}
	if s.Prompts == (model.Prompts{}) {
		s.Prompts = model.DefaultPrompts()
	}
	if s.HTTPClient == nil {
		s.HTTPClient = &http.Client{Timeout: defaultTimeout}
	}
	return s
}

// apiClient builds a go-openai client bound to credential.
func (s Settings) apiClient(credential model.Credential) *goopenai.Client {
	cfg := goopenai.DefaultConfig(credential.Reveal())
	cfg.BaseURL = s.BaseURL
	cfg.HTTPClient = s.HTTPClient
	return goopenai.NewClientWithConfig(cfg)
}

// Client is an authenticated provider session. It holds the credential only
// inside the underlying HTTP clients and never exposes it.
type Client struct {
	chat     llms.Model
	api      *goopenai.Client
	settings Settings
}

// NewClient creates a provider client for credential.
func NewClient(credential model.Credential, settings Settings) (*Client, error) {
	if credential.IsEmpty() {
		return nil, errors.New("credential is empty")
	}
	settings = settings.withDefaults()

	chat, err := lcopenai.New(
		lcopenai.WithToken(credential.Reveal()),
		lcopenai.WithModel(settings.ChatModel),
		lcopenai.WithBaseURL(settings.BaseURL),
		lcopenai.WithHTTPClient(settings.HTTPClient),
	)
	if err != nil {
		return nil, fmt.Errorf("creating chat client: %w", err)
	}

	return &Client{
		chat:     chat,
		api:      settings.apiClient(credential),
		settings: settings,
	}, nil
}

// GenerateIdeas sends the persona and the topic instruction as one chat
// request and splits the answer into lines.
func (c *Client) GenerateIdeas(ctx context.Context, topic model.Topic) (model.IdeaList, error) {
	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, c.settings.Prompts.SystemPrompt),
		llms.TextParts(llms.ChatMessageTypeHuman, c.settings.Prompts.IdeaRequest(topic)),
	}

	// Temperature 1 is the API default; langchaingo would otherwise send 0.
	resp, err := c.chat.GenerateContent(ctx, messages, llms.WithTemperature(1.0))
	if err != nil {
		return nil, fmt.Errorf("generating ideas for %q: %w", topic, err)
	}
	if len(resp.Choices) == 0 || resp.Choices[0] == nil {
		return nil, fmt.Errorf("generating ideas for %q: %w", topic, ErrEmptyCompletion)
	}

	ideas := model.ParseIdeas(resp.Choices[0].Content)
	slog.Debug("ideas generated", "topic", string(topic), "count", len(ideas))

	return ideas, nil
}

// GenerateImages issues count single-image requests one after another. The
// returned URLs are in request order; the first failure discards the batch.
func (c *Client) GenerateImages(ctx context.Context, idea string, count int) ([]string, error) {
	if count < 1 {
		return nil, ErrInvalidCount
	}

	req := goopenai.ImageRequest{
		Prompt:         c.settings.Prompts.ImagePrompt(idea),
		Model:          c.settings.ImageModel,
		N:              1,
		Size:           c.settings.ImageSize,
		Quality:        c.settings.ImageQuality,
		ResponseFormat: goopenai.CreateImageResponseFormatURL,
	}

	urls := make([]string, 0, count)
	for i := range count {
		resp, err := c.api.CreateImage(ctx, req)
		if err != nil {
			return nil, fmt.Errorf("generating image %d of %d: %w", i+1, count, err)
		}
		if len(resp.Data) == 0 || resp.Data[0].URL == "" {
			return nil, fmt.Errorf("generating image %d of %d: %w", i+1, count, ErrEmptyImage)
		}
		urls = append(urls, resp.Data[0].URL)
	}

	slog.Debug("images generated", "count", len(urls))

	return urls, nil
}

// Factory builds provider clients that share one Settings value.
type Factory struct {
	settings Settings
}

// NewFactory creates a Factory. Defaults are applied once here.
func NewFactory(settings Settings) *Factory {
	return &Factory{settings: settings.withDefaults()}
}

// NewProvider returns a Client bound to credential.
func (f *Factory) NewProvider(credential model.Credential) (driven.Provider, error) {
	return NewClient(credential, f.settings)
}

// CredentialChecker validates keys by listing the provider's models, the
// cheapest authenticated call the API offers.
type CredentialChecker struct {
	settings Settings
}

// NewCredentialChecker creates a CredentialChecker.
func NewCredentialChecker(settings Settings) *CredentialChecker {
	return &CredentialChecker{settings: settings.withDefaults()}
}

// Validate reports whether the provider accepts credential. Any failure,
// including network errors and timeouts, yields false.
func (v *CredentialChecker) Validate(ctx context.Context, credential model.Credential) bool {
	if credential.IsEmpty() {
		return false
	}

	if _, err := v.settings.apiClient(credential).ListModels(ctx); err != nil {
		slog.Debug("credential rejected", "error", err)
		return false
	}
	return true
}
