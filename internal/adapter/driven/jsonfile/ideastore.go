// Package jsonfile implements the IdeaStore port on top of a single JSON
// document that is rewritten in full on every mutation.
package jsonfile

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/natefinch/atomic"

	"github.com/ericfisherdev/colorbook/internal/domain/model"
	"github.com/ericfisherdev/colorbook/internal/domain/port/driven"
)

// indent matches the record's on-disk layout: four spaces per level.
const indent = "    "

// Compile-time interface satisfaction check.
var _ driven.IdeaStore = (*IdeaStore)(nil)

// IdeaStore keeps the record at path as {"<topic>": ["<idea>", ...], ...}.
// Every call re-reads the file; mutations are read-modify-write of the whole
// document with last-write-wins semantics across processes.
type IdeaStore struct {
	path string
}

// NewIdeaStore creates an IdeaStore for the record at path. The file is
// created lazily on the first Upsert.
func NewIdeaStore(path string) *IdeaStore {
	return &IdeaStore{path: path}
}

// Path returns the record location.
func (s *IdeaStore) Path() string {
	return s.path
}

// LoadAll reads the record. A missing file yields an empty record.
func (s *IdeaStore) LoadAll(_ context.Context) (model.IdeaRecord, error) {
	return s.read()
}

// Upsert sets or overwrites the entry for topic and rewrites the record.
func (s *IdeaStore) Upsert(_ context.Context, topic model.Topic, ideas model.IdeaList) error {
	record, err := s.read()
	if err != nil {
		return err
	}

	if ideas == nil {
		ideas = model.IdeaList{}
	}
	record[topic] = ideas

	return s.write(record)
}

// Delete removes topic and rewrites the record. An absent topic or a
// missing file leaves storage untouched.
func (s *IdeaStore) Delete(_ context.Context, topic model.Topic) error {
	record, err := s.read()
	if err != nil {
		return err
	}

	if _, ok := record[topic]; !ok {
		return nil
	}
	delete(record, topic)

	return s.write(record)
}

func (s *IdeaStore) read() (model.IdeaRecord, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return model.IdeaRecord{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read idea record %s: %w", s.path, err)
	}

	record := model.IdeaRecord{}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", driven.ErrCorruptRecord, s.path, err)
	}
	if record == nil {
		// The document was a literal null.
		record = model.IdeaRecord{}
	}

	return record, nil
}

func (s *IdeaStore) write(record model.IdeaRecord) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", indent)
	if err := enc.Encode(record); err != nil {
		return fmt.Errorf("encode idea record: %w", err)
	}

	// Encode terminates the document with a newline; the record is written without one.
	data := bytes.TrimSuffix(buf.Bytes(), []byte("\n"))

	if err := atomic.WriteFile(s.path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("write idea record %s: %w", s.path, err)
	}

	return nil
}
