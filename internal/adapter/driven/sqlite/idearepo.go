package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ericfisherdev/colorbook/internal/domain/model"
	"github.com/ericfisherdev/colorbook/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.IdeaStore = (*IdeaRepo)(nil)

// IdeaRepo is the SQLite implementation of the IdeaStore port. Each topic is
// a row in topics; its ideas are rows in ideas ordered by position.
type IdeaRepo struct {
	db *DB
}

// NewIdeaRepo creates a new IdeaRepo backed by the given DB.
func NewIdeaRepo(db *DB) *IdeaRepo {
	return &IdeaRepo{db: db}
}

// LoadAll returns every topic with its ideas in stored order. Topics with an
// empty list are included with an empty IdeaList.
func (r *IdeaRepo) LoadAll(ctx context.Context) (model.IdeaRecord, error) {
	const query = `
		SELECT t.name, i.text
		FROM topics t
		LEFT JOIN ideas i ON i.topic_id = t.id
		ORDER BY t.name, i.position
	`

	rows, err := r.db.Reader.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("load ideas: %w", err)
	}
	defer rows.Close()

	record := model.IdeaRecord{}
	for rows.Next() {
		var name string
		var text sql.NullString
		if err := rows.Scan(&name, &text); err != nil {
			return nil, fmt.Errorf("scan idea: %w", err)
		}

		topic := model.Topic(name)
		if _, ok := record[topic]; !ok {
			record[topic] = model.IdeaList{}
		}
		if text.Valid {
			record[topic] = append(record[topic], text.String)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate ideas: %w", err)
	}

	return record, nil
}

// Upsert replaces the ideas for topic in a single transaction, creating the
// topic row if needed.
func (r *IdeaRepo) Upsert(ctx context.Context, topic model.Topic, ideas model.IdeaList) error {
	tx, err := r.db.Writer.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // Rollback after commit is a no-op.

	const upsertTopic = `
		INSERT INTO topics (name) VALUES (?)
		ON CONFLICT(name) DO UPDATE SET updated_at = CURRENT_TIMESTAMP
	`
	if _, err := tx.ExecContext(ctx, upsertTopic, string(topic)); err != nil {
		return fmt.Errorf("upsert topic %q: %w", topic, err)
	}

	var topicID int64
	if err := tx.QueryRowContext(ctx, `SELECT id FROM topics WHERE name = ?`, string(topic)).Scan(&topicID); err != nil {
		return fmt.Errorf("lookup topic %q: %w", topic, err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM ideas WHERE topic_id = ?`, topicID); err != nil {
		return fmt.Errorf("clear ideas for %q: %w", topic, err)
	}

	const insertIdea = `INSERT INTO ideas (topic_id, position, text) VALUES (?, ?, ?)`
	for i, idea := range ideas {
		if _, err := tx.ExecContext(ctx, insertIdea, topicID, i, idea); err != nil {
			return fmt.Errorf("insert idea %d for %q: %w", i, topic, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit ideas for %q: %w", topic, err)
	}

	return nil
}

// Delete removes topic and, through the foreign key, its ideas. No-op if the
// topic does not exist.
func (r *IdeaRepo) Delete(ctx context.Context, topic model.Topic) error {
	const query = `DELETE FROM topics WHERE name = ?`
	if _, err := r.db.Writer.ExecContext(ctx, query, string(topic)); err != nil {
		return fmt.Errorf("delete topic %q: %w", topic, err)
	}
	return nil
}
