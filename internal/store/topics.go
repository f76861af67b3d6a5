package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mkrech/studyvault/internal/deck"
)

type CreateTopicInput struct {
	Name            string
	ParentID        string
	Color           string
	Icon            string
	RelatedTopicIDs []string
}

// CreateTopic inserts a topic as the last sibling under its parent.
func (s *Store) CreateTopic(in CreateTopicInput, now time.Time) (*deck.Topic, error) {
	// New topics sort after their existing siblings.
	var maxOrder int
	err := s.db.QueryRow(
		`SELECT COALESCE(MAX(sort_order), -1) FROM topics WHERE parent_id IS ?`,
		nullString(in.ParentID),
	).Scan(&maxOrder)
	if err != nil {
		return nil, fmt.Errorf("failed to read sibling order: %w", err)
	}

	t := &deck.Topic{
		ID:              uuid.NewString(),
		Name:            in.Name,
		ParentID:        in.ParentID,
		Color:           in.Color,
		Icon:            in.Icon,
		RelatedTopicIDs: in.RelatedTopicIDs,
		Order:           maxOrder + 1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.writeTopic(t, false); err != nil {
		return nil, err
	}
	return t, nil
}

// UpdateTopic replaces an existing topic row.
func (s *Store) UpdateTopic(t *deck.Topic) error {
	return s.writeTopic(t, true)
}

func (s *Store) writeTopic(t *deck.Topic, replace bool) error {
	related, err := encodeStrings(t.RelatedTopicIDs)
	if err != nil {
		return err
	}
	verb := "INSERT"
	if replace {
		verb = "INSERT OR REPLACE"
	}
	_, err = s.db.Exec(verb+` INTO topics
		(id, name, parent_id, color, icon, related_topic_ids, sort_order, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Name, nullString(t.ParentID), t.Color, t.Icon, related,
		t.Order, t.CreatedAt.UTC(), t.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write topic %s: %w", t.ID, err)
	}
	return nil
}

// TopicByID returns the topic, or nil when no topic has that id.
func (s *Store) TopicByID(id string) (*deck.Topic, error) {
	row := s.db.QueryRow(`SELECT id, name, parent_id, color, icon, related_topic_ids, sort_order, created_at, updated_at
		FROM topics WHERE id = ?`, id)
	t, err := scanTopic(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load topic %s: %w", id, err)
	}
	return t, nil
}

// AllTopics returns every topic in creation order.
func (s *Store) AllTopics() ([]deck.Topic, error) {
	rows, err := s.db.Query(`SELECT id, name, parent_id, color, icon, related_topic_ids, sort_order, created_at, updated_at
		FROM topics ORDER BY created_at, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query topics: %w", err)
	}
	defer rows.Close()

	var topics []deck.Topic
	for rows.Next() {
		t, err := scanTopic(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan topic: %w", err)
		}
		topics = append(topics, *t)
	}
	return topics, rows.Err()
}

// DeleteTopic removes a topic and all its descendant topics. Cards keep
// their topic ids; dangling references are tolerated downstream.
func (s *Store) DeleteTopic(id string) error {
	ids := []string{id}
	for i := 0; i < len(ids); i++ {
		rows, err := s.db.Query(`SELECT id FROM topics WHERE parent_id = ?`, ids[i])
		if err != nil {
			return fmt.Errorf("failed to query children of %s: %w", ids[i], err)
		}
		for rows.Next() {
			var child string
			if err := rows.Scan(&child); err != nil {
				rows.Close()
				return err
			}
			ids = append(ids, child)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return err
		}
		rows.Close()
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, tid := range ids {
		if _, err := tx.Exec(`DELETE FROM topics WHERE id = ?`, tid); err != nil {
			return fmt.Errorf("failed to delete topic %s: %w", tid, err)
		}
	}
	return tx.Commit()
}

func scanTopic(row rowScanner) (*deck.Topic, error) {
	var (
		t       deck.Topic
		parent  sql.NullString
		related string
	)
	err := row.Scan(&t.ID, &t.Name, &parent, &t.Color, &t.Icon, &related,
		&t.Order, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.ParentID = parent.String
	if t.RelatedTopicIDs, err = decodeStrings(related); err != nil {
		return nil, err
	}
	return &t, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
