package application

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/ericfisherdev/colorbook/internal/domain/model"
	"github.com/ericfisherdev/colorbook/internal/domain/port/driven"
)

// SessionService drives the interactive session: login, topic selection or
// generation, idea selection and image generation. It owns the transient
// session state; the only durable state is the IdeaStore record.
//
// Actions are serialized on actionMu so each one completes before the next
// starts. Snapshot and SavedTopics only take the state lock and stay
// responsive while a slow generation call is in flight.
type SessionService struct {
	store     driven.IdeaStore
	validator driven.CredentialValidator
	factory   driven.ProviderFactory
	providers *ProviderHolder
	inputs    *inputValidator
	logger    *slog.Logger

	actionMu sync.Mutex

	mu      sync.RWMutex
	session model.Session
}

// NewSessionService creates a SessionService in the unauthenticated state.
func NewSessionService(
	store driven.IdeaStore,
	validator driven.CredentialValidator,
	factory driven.ProviderFactory,
	providers *ProviderHolder,
	logger *slog.Logger,
) *SessionService {
	return &SessionService{
		store:     store,
		validator: validator,
		factory:   factory,
		providers: providers,
		inputs:    newInputValidator(),
		logger:    logger,
		session: model.Session{
			State:        model.SessionUnauthenticated,
			SelectedIdea: -1,
		},
	}
}

// Login validates apiKey against the provider. On success a provider client
// is built for the key and the session becomes authenticated; on failure the
// session stays unauthenticated and ErrInvalidCredential is returned.
func (s *SessionService) Login(ctx context.Context, apiKey string) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	if s.current().State.IsAuthenticated() {
		return fmt.Errorf("login: %w", ErrInvalidTransition)
	}
	if err := s.inputs.check(loginInput{APIKey: apiKey}); err != nil {
		return err
	}

	credential := model.NewCredential(apiKey)
	if !s.validator.Validate(ctx, credential) {
		s.logger.Info("login rejected")
		return ErrInvalidCredential
	}

	provider, err := s.factory.NewProvider(credential)
	if err != nil {
		return fmt.Errorf("creating provider: %w", err)
	}
	s.providers.Replace(provider)

	s.update(func(sess *model.Session) {
		*sess = model.Session{State: model.SessionAuthenticated, SelectedIdea: -1}
	})
	s.logger.Info("login succeeded")

	return nil
}

// SavedTopics returns the durable record. Storage is re-read on every call.
func (s *SessionService) SavedTopics(ctx context.Context) (model.IdeaRecord, error) {
	if !s.current().State.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}

	record, err := s.store.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("loading saved topics: %w", err)
	}
	return record, nil
}

// SelectTopic loads a saved topic's ideas into the session.
func (s *SessionService) SelectTopic(ctx context.Context, topic model.Topic) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	if !s.current().State.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	record, err := s.store.LoadAll(ctx)
	if err != nil {
		return fmt.Errorf("loading saved topics: %w", err)
	}
	ideas, ok := record[topic]
	if !ok {
		return fmt.Errorf("selecting %q: %w", topic, ErrTopicNotFound)
	}

	s.loadIdeas(topic, ideas)
	return nil
}

// SubmitTopic generates ideas for a new topic, saves them (overwriting any
// previous list for the same topic) and loads them into the session. A
// failed generation leaves both the session and the store untouched.
func (s *SessionService) SubmitTopic(ctx context.Context, topic model.Topic) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	provider, err := s.authenticatedProvider()
	if err != nil {
		return err
	}
	if err := s.inputs.check(topicInput{Topic: string(topic)}); err != nil {
		return err
	}

	ideas, err := provider.GenerateIdeas(ctx, topic)
	if err != nil {
		s.logger.Error("idea generation failed", "topic", string(topic), "error", err)
		return fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	if err := s.store.Upsert(ctx, topic, ideas); err != nil {
		return fmt.Errorf("saving ideas for %q: %w", topic, err)
	}

	s.loadIdeas(topic, ideas)
	s.logger.Info("ideas generated and saved", "topic", string(topic), "count", len(ideas))

	return nil
}

// DeleteTopic removes a saved topic. Deleting an absent topic is a no-op.
// When the deleted topic is the one currently loaded, the session returns
// to the authenticated state with nothing loaded.
func (s *SessionService) DeleteTopic(ctx context.Context, topic model.Topic) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	current := s.current()
	if !current.State.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	if err := s.store.Delete(ctx, topic); err != nil {
		return fmt.Errorf("deleting %q: %w", topic, err)
	}

	if current.State.HasIdeas() && current.Topic == topic {
		s.update(func(sess *model.Session) {
			*sess = model.Session{State: model.SessionAuthenticated, SelectedIdea: -1}
		})
	}
	s.logger.Info("topic deleted", "topic", string(topic))

	return nil
}

// SelectIdea selects the idea at index in the loaded list. Previously shown
// images are cleared.
func (s *SessionService) SelectIdea(index int) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	current := s.current()
	if !current.State.IsAuthenticated() {
		return ErrNotAuthenticated
	}
	if !current.State.HasIdeas() {
		return fmt.Errorf("selecting idea: %w", ErrInvalidTransition)
	}
	if index < 0 || index >= len(current.Ideas) {
		return fmt.Errorf("selecting idea %d: %w", index, ErrIdeaNotFound)
	}

	s.update(func(sess *model.Session) {
		sess.State = model.SessionIdeaSelected
		sess.SelectedIdea = index
		sess.Images = nil
	})

	return nil
}

// GenerateImages renders count coloring pages for the selected idea. count
// must be within [MinImageCount, MaxImageCount]; out-of-range values are
// rejected before the provider is called. On failure no image is kept and
// the session falls back to the idea-selected state.
func (s *SessionService) GenerateImages(ctx context.Context, count int) error {
	s.actionMu.Lock()
	defer s.actionMu.Unlock()

	provider, err := s.authenticatedProvider()
	if err != nil {
		return err
	}

	current := s.current()
	if !current.State.HasSelection() {
		return fmt.Errorf("generating images: %w", ErrInvalidTransition)
	}
	if err := s.inputs.check(imageCountInput{Count: count}); err != nil {
		return err
	}

	idea := current.Selected()
	urls, err := provider.GenerateImages(ctx, idea, count)
	if err != nil {
		s.update(func(sess *model.Session) {
			sess.State = model.SessionIdeaSelected
			sess.Images = nil
		})
		s.logger.Error("image generation failed", "count", count, "error", err)
		return fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	images := make([]model.GeneratedImage, 0, len(urls))
	for i, url := range urls {
		images = append(images, model.GeneratedImage{Ordinal: i + 1, Idea: idea, URL: url})
	}

	s.update(func(sess *model.Session) {
		sess.State = model.SessionImagesShown
		sess.Images = images
	})
	s.logger.Info("images generated", "count", len(images))

	return nil
}

// Snapshot returns a copy of the transient session state. The credential is
// never part of it.
func (s *SessionService) Snapshot() model.Session {
	return s.current()
}

func (s *SessionService) current() model.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := s.session
	snap.Ideas = slices.Clone(s.session.Ideas)
	snap.Images = slices.Clone(s.session.Images)
	return snap
}

func (s *SessionService) update(fn func(*model.Session)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(&s.session)
}

func (s *SessionService) loadIdeas(topic model.Topic, ideas model.IdeaList) {
	loaded := slices.Clone(ideas)
	if loaded == nil {
		loaded = model.IdeaList{}
	}
	s.update(func(sess *model.Session) {
		*sess = model.Session{
			State:        model.SessionIdeasLoaded,
			Topic:        topic,
			Ideas:        loaded,
			SelectedIdea: -1,
		}
	})
}

func (s *SessionService) authenticatedProvider() (driven.Provider, error) {
	if !s.current().State.IsAuthenticated() {
		return nil, ErrNotAuthenticated
	}
	provider := s.providers.Get()
	if provider == nil {
		return nil, ErrNotAuthenticated
	}
	return provider, nil
}
