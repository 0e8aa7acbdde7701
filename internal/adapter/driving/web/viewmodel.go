package web

import (
	vm "github.com/ericfisherdev/colorbook/internal/adapter/driving/web/viewmodel"
	"github.com/ericfisherdev/colorbook/internal/domain/model"
)

// toHomePageViewModel combines the session snapshot and the saved record into
// the main page view model. record may be nil when it could not be loaded.
func toHomePageViewModel(snap model.Session, record model.IdeaRecord, csrf string, flash vm.Flash) vm.HomePageViewModel {
	page := vm.HomePageViewModel{
		CSRFToken:  csrf,
		Flash:      flash,
		ImageCount: model.MinImageCount,
		MinImages:  model.MinImageCount,
		MaxImages:  model.MaxImageCount,
	}

	topics := record.Topics()
	page.SavedTopics = make([]vm.TopicOptionViewModel, 0, len(topics))
	for _, t := range topics {
		page.SavedTopics = append(page.SavedTopics, vm.TopicOptionViewModel{
			Name:     string(t),
			Selected: snap.State.HasIdeas() && t == snap.Topic,
		})
	}

	if !snap.State.HasIdeas() {
		return page
	}

	page.IdeasLoaded = true
	page.CurrentTopic = string(snap.Topic)
	_, page.CurrentTopicSaved = record[snap.Topic]

	page.Ideas = make([]vm.IdeaViewModel, 0, len(snap.Ideas))
	for i, idea := range snap.Ideas {
		page.Ideas = append(page.Ideas, vm.IdeaViewModel{
			Index:    i,
			Text:     idea,
			HTML:     RenderIdea(idea),
			Selected: snap.State.HasSelection() && i == snap.SelectedIdea,
		})
	}

	page.Images = make([]vm.ImageViewModel, 0, len(snap.Images))
	for _, img := range snap.Images {
		page.Images = append(page.Images, vm.ImageViewModel{
			Ordinal: img.Ordinal,
			Idea:    img.Idea,
			URL:     img.URL,
		})
	}
	if n := len(page.Images); n > 0 {
		page.ImageCount = n
	}

	return page
}
