package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/colorbook/internal/domain/model"
)

// ErrCorruptRecord is returned by IdeaStore reads when the durable record
// exists but cannot be parsed. Callers treat it as fatal for the operation.
var ErrCorruptRecord = errors.New("idea record is corrupt")

// IdeaStore defines the driven port for the durable topic -> ideas record.
// No state is cached between calls: every operation re-reads storage.
type IdeaStore interface {
	// LoadAll returns the full record. A record that does not exist yet is
	// an empty mapping, not an error.
	LoadAll(ctx context.Context) (model.IdeaRecord, error)

	// Upsert sets or overwrites the ideas for topic.
	Upsert(ctx context.Context, topic model.Topic, ideas model.IdeaList) error

	// Delete removes topic. Deleting an absent topic is a no-op.
	Delete(ctx context.Context, topic model.Topic) error
}
