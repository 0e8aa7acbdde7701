package application_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/colorbook/internal/application"
	"github.com/ericfisherdev/colorbook/internal/domain/model"
	"github.com/ericfisherdev/colorbook/internal/domain/port/driven"
)

// --- Mocks ---

type mockIdeaStore struct {
	mu      sync.Mutex
	record  model.IdeaRecord
	loadErr error
	saveErr error
	upserts int
}

func newMockIdeaStore(record model.IdeaRecord) *mockIdeaStore {
	if record == nil {
		record = model.IdeaRecord{}
	}
	return &mockIdeaStore{record: record}
}

func (m *mockIdeaStore) LoadAll(_ context.Context) (model.IdeaRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make(model.IdeaRecord, len(m.record))
	for k, v := range m.record {
		out[k] = append(model.IdeaList{}, v...)
	}
	return out, nil
}

func (m *mockIdeaStore) Upsert(_ context.Context, topic model.Topic, ideas model.IdeaList) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.upserts++
	m.record[topic] = append(model.IdeaList{}, ideas...)
	return nil
}

func (m *mockIdeaStore) Delete(_ context.Context, topic model.Topic) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.record, topic)
	return nil
}

type mockValidator struct {
	valid map[string]bool
	calls int
}

func (m *mockValidator) Validate(_ context.Context, credential model.Credential) bool {
	m.calls++
	return m.valid[credential.Reveal()]
}

type mockProvider struct {
	mu         sync.Mutex
	ideas      model.IdeaList
	ideasErr   error
	imagesErr  error
	ideaCalls  int
	imageCalls int
	lastCount  int
	lastIdea   string
	entered    chan struct{}
	block      chan struct{}
}

func (m *mockProvider) GenerateIdeas(_ context.Context, _ model.Topic) (model.IdeaList, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ideaCalls++
	if m.ideasErr != nil {
		return nil, m.ideasErr
	}
	return append(model.IdeaList{}, m.ideas...), nil
}

func (m *mockProvider) GenerateImages(_ context.Context, idea string, count int) ([]string, error) {
	if m.entered != nil {
		m.entered <- struct{}{}
	}
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.imageCalls++
	m.lastCount = count
	m.lastIdea = idea
	if m.imagesErr != nil {
		return nil, m.imagesErr
	}
	urls := make([]string, count)
	for i := range urls {
		urls[i] = fmt.Sprintf("https://img.example/%d.png", i+1)
	}
	return urls, nil
}

type mockFactory struct {
	provider driven.Provider
	err      error
	got      []model.Credential
}

func (m *mockFactory) NewProvider(credential model.Credential) (driven.Provider, error) {
	m.got = append(m.got, credential)
	if m.err != nil {
		return nil, m.err
	}
	return m.provider, nil
}

// --- Helpers ---

type fixture struct {
	svc       *application.SessionService
	store     *mockIdeaStore
	validator *mockValidator
	provider  *mockProvider
	factory   *mockFactory
}

func newFixture(t *testing.T, record model.IdeaRecord) *fixture {
	t.Helper()

	f := &fixture{
		store:     newMockIdeaStore(record),
		validator: &mockValidator{valid: map[string]bool{"sk-good": true}},
		provider:  &mockProvider{ideas: model.IdeaList{"Idea A", "Idea B", "Idea C"}},
	}
	f.factory = &mockFactory{provider: f.provider}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	f.svc = application.NewSessionService(f.store, f.validator, f.factory, application.NewProviderHolder(nil), logger)
	return f
}

func (f *fixture) login(t *testing.T) {
	t.Helper()
	require.NoError(t, f.svc.Login(context.Background(), "sk-good"))
}

// --- Login ---

func TestLogin_StartsUnauthenticated(t *testing.T) {
	f := newFixture(t, nil)

	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionUnauthenticated, snap.State)
	assert.Equal(t, -1, snap.SelectedIdea)
}

func TestLogin_InvalidCredentialStaysUnauthenticated(t *testing.T) {
	f := newFixture(t, nil)

	err := f.svc.Login(context.Background(), "bad-key")
	require.ErrorIs(t, err, application.ErrInvalidCredential)

	assert.Equal(t, model.SessionUnauthenticated, f.svc.Snapshot().State)
	assert.Empty(t, f.factory.got, "no provider should be built for a rejected key")
}

func TestLogin_EmptyCredentialRejectedWithoutProbe(t *testing.T) {
	f := newFixture(t, nil)

	err := f.svc.Login(context.Background(), "")

	var verr *application.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("api_key"))
	assert.Zero(t, f.validator.calls)
	assert.Equal(t, model.SessionUnauthenticated, f.svc.Snapshot().State)
}

func TestLogin_Success(t *testing.T) {
	f := newFixture(t, nil)

	f.login(t)

	assert.Equal(t, model.SessionAuthenticated, f.svc.Snapshot().State)
	require.Len(t, f.factory.got, 1)
	assert.Equal(t, "sk-good", f.factory.got[0].Reveal())
}

func TestLogin_TwiceIsInvalidTransition(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)

	err := f.svc.Login(context.Background(), "sk-good")
	require.ErrorIs(t, err, application.ErrInvalidTransition)
}

func TestLogin_FactoryError(t *testing.T) {
	f := newFixture(t, nil)
	f.factory.err = errors.New("boom")

	err := f.svc.Login(context.Background(), "sk-good")
	require.Error(t, err)
	assert.Equal(t, model.SessionUnauthenticated, f.svc.Snapshot().State)
}

// --- Gating ---

func TestActionsRequireLogin(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket"}})
	ctx := context.Background()

	_, err := f.svc.SavedTopics(ctx)
	assert.ErrorIs(t, err, application.ErrNotAuthenticated)
	assert.ErrorIs(t, f.svc.SelectTopic(ctx, "Space"), application.ErrNotAuthenticated)
	assert.ErrorIs(t, f.svc.SubmitTopic(ctx, "Space"), application.ErrNotAuthenticated)
	assert.ErrorIs(t, f.svc.DeleteTopic(ctx, "Space"), application.ErrNotAuthenticated)
	assert.ErrorIs(t, f.svc.SelectIdea(0), application.ErrNotAuthenticated)
	assert.ErrorIs(t, f.svc.GenerateImages(ctx, 1), application.ErrNotAuthenticated)

	assert.Zero(t, f.provider.ideaCalls)
	assert.Zero(t, f.provider.imageCalls)
	assert.Contains(t, f.store.record, model.Topic("Space"))
}

// --- Topics ---

func TestSavedTopics_EmptyStore(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)

	record, err := f.svc.SavedTopics(context.Background())
	require.NoError(t, err)
	assert.Empty(t, record)
}

func TestSavedTopics_StoreError(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.store.loadErr = driven.ErrCorruptRecord

	_, err := f.svc.SavedTopics(context.Background())
	require.ErrorIs(t, err, driven.ErrCorruptRecord)
}

func TestSelectTopic_LoadsSavedIdeas(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket", "Star"}})
	f.login(t)

	require.NoError(t, f.svc.SelectTopic(context.Background(), "Space"))

	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionIdeasLoaded, snap.State)
	assert.Equal(t, model.Topic("Space"), snap.Topic)
	assert.Equal(t, model.IdeaList{"Rocket", "Star"}, snap.Ideas)
	assert.Equal(t, -1, snap.SelectedIdea)
	assert.Zero(t, f.provider.ideaCalls)
}

func TestSelectTopic_Missing(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)

	err := f.svc.SelectTopic(context.Background(), "Ocean")
	require.ErrorIs(t, err, application.ErrTopicNotFound)
	assert.Equal(t, model.SessionAuthenticated, f.svc.Snapshot().State)
}

func TestSubmitTopic_GeneratesAndSaves(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	ctx := context.Background()

	require.NoError(t, f.svc.SubmitTopic(ctx, "Dinosaurs"))

	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionIdeasLoaded, snap.State)
	assert.Equal(t, model.IdeaList{"Idea A", "Idea B", "Idea C"}, snap.Ideas)

	record, err := f.svc.SavedTopics(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.IdeaList{"Idea A", "Idea B", "Idea C"}, record["Dinosaurs"])
}

func TestSubmitTopic_EmptyRejected(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)

	err := f.svc.SubmitTopic(context.Background(), "")

	var verr *application.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("topic"))
	assert.Zero(t, f.provider.ideaCalls)
}

func TestSubmitTopic_GenerationFailureKeepsState(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket"}})
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SelectTopic(ctx, "Space"))

	providerErr := errors.New("rate limited")
	f.provider.ideasErr = providerErr

	err := f.svc.SubmitTopic(ctx, "Dinosaurs")
	require.ErrorIs(t, err, application.ErrGeneration)
	require.ErrorIs(t, err, providerErr)

	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionIdeasLoaded, snap.State)
	assert.Equal(t, model.Topic("Space"), snap.Topic)
	assert.Zero(t, f.store.upserts)
}

func TestSubmitTopic_StoreFailure(t *testing.T) {
	f := newFixture(t, nil)
	f.login(t)
	f.store.saveErr = errors.New("disk full")

	err := f.svc.SubmitTopic(context.Background(), "Dinosaurs")
	require.Error(t, err)
	assert.NotErrorIs(t, err, application.ErrGeneration)
	assert.Equal(t, model.SessionAuthenticated, f.svc.Snapshot().State)
}

func TestDeleteTopic_LoadedTopicResetsSession(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket"}, "Farm": {"Cow"}})
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SelectTopic(ctx, "Space"))

	require.NoError(t, f.svc.DeleteTopic(ctx, "Space"))

	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionAuthenticated, snap.State)
	assert.Empty(t, snap.Ideas)

	record, err := f.svc.SavedTopics(ctx)
	require.NoError(t, err)
	assert.Equal(t, model.IdeaRecord{"Farm": {"Cow"}}, record)
}

func TestDeleteTopic_OtherTopicKeepsSession(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket"}, "Farm": {"Cow"}})
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SelectTopic(ctx, "Space"))

	require.NoError(t, f.svc.DeleteTopic(ctx, "Farm"))

	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionIdeasLoaded, snap.State)
	assert.Equal(t, model.Topic("Space"), snap.Topic)
}

func TestDeleteTopic_AbsentIsNoop(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Farm": {"Cow"}})
	f.login(t)

	require.NoError(t, f.svc.DeleteTopic(context.Background(), "Ocean"))
	assert.Equal(t, model.SessionAuthenticated, f.svc.Snapshot().State)
	assert.Len(t, f.store.record, 1)
}

// --- Ideas and images ---

func TestSelectIdea(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket", "Star"}})
	f.login(t)

	require.ErrorIs(t, f.svc.SelectIdea(0), application.ErrInvalidTransition)

	require.NoError(t, f.svc.SelectTopic(context.Background(), "Space"))
	require.ErrorIs(t, f.svc.SelectIdea(2), application.ErrIdeaNotFound)
	require.ErrorIs(t, f.svc.SelectIdea(-1), application.ErrIdeaNotFound)

	require.NoError(t, f.svc.SelectIdea(1))
	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionIdeaSelected, snap.State)
	assert.Equal(t, "Star", snap.Selected())
}

func TestGenerateImages_RequiresSelection(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket"}})
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SelectTopic(ctx, "Space"))

	err := f.svc.GenerateImages(ctx, 1)
	require.ErrorIs(t, err, application.ErrInvalidTransition)
	assert.Zero(t, f.provider.imageCalls)
}

func TestGenerateImages_CountBounds(t *testing.T) {
	tests := []struct {
		name  string
		count int
		ok    bool
	}{
		{name: "zero", count: 0},
		{name: "negative", count: -3},
		{name: "eleven", count: 11},
		{name: "min", count: model.MinImageCount, ok: true},
		{name: "max", count: model.MaxImageCount, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, model.IdeaRecord{"Space": {"Rocket"}})
			f.login(t)
			ctx := context.Background()
			require.NoError(t, f.svc.SelectTopic(ctx, "Space"))
			require.NoError(t, f.svc.SelectIdea(0))

			err := f.svc.GenerateImages(ctx, tt.count)
			if tt.ok {
				require.NoError(t, err)
				assert.Equal(t, 1, f.provider.imageCalls)
				assert.Len(t, f.svc.Snapshot().Images, tt.count)
				return
			}

			var verr *application.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.True(t, verr.Has("count"))
			assert.Zero(t, f.provider.imageCalls, "generator must not be called for an invalid count")
			assert.Equal(t, model.SessionIdeaSelected, f.svc.Snapshot().State)
		})
	}
}

func TestGenerateImages_Success(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket", "Star"}})
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SelectTopic(ctx, "Space"))
	require.NoError(t, f.svc.SelectIdea(1))

	require.NoError(t, f.svc.GenerateImages(ctx, 3))

	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionImagesShown, snap.State)
	assert.Equal(t, "Star", f.provider.lastIdea)
	assert.Equal(t, 3, f.provider.lastCount)
	require.Len(t, snap.Images, 3)
	for i, img := range snap.Images {
		assert.Equal(t, i+1, img.Ordinal)
		assert.Equal(t, "Star", img.Idea)
		assert.Equal(t, fmt.Sprintf("https://img.example/%d.png", i+1), img.URL)
	}

	// Regenerating with another count from the images-shown state.
	require.NoError(t, f.svc.GenerateImages(ctx, 1))
	assert.Len(t, f.svc.Snapshot().Images, 1)

	// Picking another idea clears the images.
	require.NoError(t, f.svc.SelectIdea(0))
	snap = f.svc.Snapshot()
	assert.Equal(t, model.SessionIdeaSelected, snap.State)
	assert.Empty(t, snap.Images)
}

func TestGenerateImages_FailureDiscardsImages(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket"}})
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SelectTopic(ctx, "Space"))
	require.NoError(t, f.svc.SelectIdea(0))
	require.NoError(t, f.svc.GenerateImages(ctx, 2))

	f.provider.imagesErr = errors.New("content policy")
	err := f.svc.GenerateImages(ctx, 2)
	require.ErrorIs(t, err, application.ErrGeneration)

	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionIdeaSelected, snap.State)
	assert.Empty(t, snap.Images)
	assert.Equal(t, "Rocket", snap.Selected())
}

func TestSnapshot_IsACopy(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket"}})
	f.login(t)
	require.NoError(t, f.svc.SelectTopic(context.Background(), "Space"))

	snap := f.svc.Snapshot()
	snap.Ideas[0] = "mutated"

	assert.Equal(t, "Rocket", f.svc.Snapshot().Ideas[0])
}

func TestActionsAreSerialized(t *testing.T) {
	f := newFixture(t, model.IdeaRecord{"Space": {"Rocket"}})
	f.login(t)
	ctx := context.Background()
	require.NoError(t, f.svc.SelectTopic(ctx, "Space"))
	require.NoError(t, f.svc.SelectIdea(0))

	f.provider.entered = make(chan struct{}, 1)
	f.provider.block = make(chan struct{})

	generated := make(chan error, 1)
	go func() { generated <- f.svc.GenerateImages(ctx, 1) }()
	<-f.provider.entered

	selected := make(chan error, 1)
	go func() { selected <- f.svc.SelectIdea(0) }()

	select {
	case <-selected:
		t.Fatal("SelectIdea ran while GenerateImages was in flight")
	case <-time.After(50 * time.Millisecond):
	}

	// Snapshot stays available while an action runs.
	assert.Equal(t, model.SessionIdeaSelected, f.svc.Snapshot().State)

	close(f.provider.block)
	require.NoError(t, <-generated)
	require.NoError(t, <-selected)

	// SelectIdea ran last and cleared the generated images.
	snap := f.svc.Snapshot()
	assert.Equal(t, model.SessionIdeaSelected, snap.State)
	assert.Empty(t, snap.Images)
}
