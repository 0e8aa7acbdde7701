package driven

import (
	"context"

	"github.com/ericfisherdev/colorbook/internal/domain/model"
)

// CredentialValidator probes the provider with one inexpensive authenticated
// call. Every failure (rejected key, network, timeout) collapses to false;
// implementations never return an error to the caller.
type CredentialValidator interface {
	Validate(ctx context.Context, credential model.Credential) bool
}

// IdeaGenerator produces coloring-page ideas for a topic with one
// text-generation request. Provider errors are returned unchanged in kind.
type IdeaGenerator interface {
	GenerateIdeas(ctx context.Context, topic model.Topic) (model.IdeaList, error)
}

// ImageGenerator renders count coloring pages for an idea. Requests are
// issued one after another and the returned URLs keep request order. The
// first failing request aborts the batch and nothing is returned.
type ImageGenerator interface {
	GenerateImages(ctx context.Context, idea string, count int) ([]string, error)
}

// Provider is an authenticated client able to generate ideas and images.
type Provider interface {
	IdeaGenerator
	ImageGenerator
}

// ProviderFactory builds a Provider bound to a validated credential.
type ProviderFactory interface {
	NewProvider(credential model.Credential) (Provider, error)
}
