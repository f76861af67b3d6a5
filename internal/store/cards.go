package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/open-spaced-repetition/go-fsrs/v3"

	"github.com/mkrech/studyvault/internal/deck"
)

const cardColumns = `id, type, front, back, topic_ids, tags, memory, cloze_index, template, created_at, updated_at`

// InsertCard stores a freshly created card.
func (s *Store) InsertCard(c *deck.Card) error {
	return s.writeCard(c, `INSERT INTO cards
		(id, type, front, back, topic_ids, tags, memory, state, due, cloze_index, template, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
}

// UpsertCard persists a mutated card, typically after a review. The write
// replaces the whole row so it is atomic per record.
func (s *Store) UpsertCard(c *deck.Card) error {
	return s.writeCard(c, `INSERT OR REPLACE INTO cards
		(id, type, front, back, topic_ids, tags, memory, state, due, cloze_index, template, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
}

func (s *Store) writeCard(c *deck.Card, query string) error {
	topicIDs, err := encodeStrings(c.TopicIDs)
	if err != nil {
		return err
	}
	tags, err := encodeStrings(c.Tags)
	if err != nil {
		return err
	}
	memory, err := json.Marshal(c.Memory)
	if err != nil {
		return err
	}
	// Timestamps go in as UTC so the textual due comparison in DueCards
	// is not skewed by mixed offsets.
	_, err = s.db.Exec(query,
		c.ID, string(c.Type), c.Front, c.Back, topicIDs, tags, string(memory),
		int(c.Memory.State), c.Memory.Due.UTC(), c.ClozeIndex, c.Template,
		c.CreatedAt.UTC(), c.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to write card %s: %w", c.ID, err)
	}
	return nil
}

// UpdateCardContent rewrites a card's content fields without touching its
// scheduling state.
func (s *Store) UpdateCardContent(id, front, back string, topicIDs, tags []string, now time.Time) error {
	encodedTopics, err := encodeStrings(topicIDs)
	if err != nil {
		return err
	}
	encodedTags, err := encodeStrings(tags)
	if err != nil {
		return err
	}
	res, err := s.db.Exec(`UPDATE cards SET front = ?, back = ?, topic_ids = ?, tags = ?, updated_at = ?
		WHERE id = ?`,
		front, back, encodedTopics, encodedTags, now.UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update card %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no card with id %s", id)
	}
	return nil
}

// CardByID returns the card, or nil when no card has that id.
func (s *Store) CardByID(id string) (*deck.Card, error) {
	row := s.db.QueryRow(`SELECT `+cardColumns+` FROM cards WHERE id = ?`, id)
	c, err := scanCard(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load card %s: %w", id, err)
	}
	return c, nil
}

// AllCards returns every card in creation order.
func (s *Store) AllCards() ([]deck.Card, error) {
	return s.queryCards(`SELECT ` + cardColumns + ` FROM cards ORDER BY created_at, id`)
}

// DueCards returns cards with due <= before, soonest first.
func (s *Store) DueCards(before time.Time) ([]deck.Card, error) {
	return s.queryCards(`SELECT `+cardColumns+` FROM cards WHERE due <= ? ORDER BY due, created_at, id`, before.UTC())
}

// NewCards returns never-reviewed cards in creation order. The queue
// builder relies on this order being stable.
func (s *Store) NewCards() ([]deck.Card, error) {
	return s.queryCards(`SELECT `+cardColumns+` FROM cards WHERE state = ? ORDER BY created_at, id`, int(fsrs.New))
}

func (s *Store) DeleteCard(id string) error {
	_, err := s.db.Exec(`DELETE FROM cards WHERE id = ?`, id)
	return err
}

func (s *Store) CardCount() (int, error) {
	var n int
	err := s.db.QueryRow(`SELECT COUNT(*) FROM cards`).Scan(&n)
	return n, err
}

// CardCountsByTopic returns the number of cards per topic id. A card with
// several topics counts toward each of them.
func (s *Store) CardCountsByTopic() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT value, COUNT(*) FROM cards, json_each(cards.topic_ids) GROUP BY value`)
	if err != nil {
		return nil, fmt.Errorf("failed to count cards by topic: %w", err)
	}
	defer rows.Close()

	counts := map[string]int{}
	for rows.Next() {
		var topicID string
		var n int
		if err := rows.Scan(&topicID, &n); err != nil {
			return nil, err
		}
		counts[topicID] = n
	}
	return counts, rows.Err()
}

func (s *Store) queryCards(query string, args ...any) ([]deck.Card, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query cards: %w", err)
	}
	defer rows.Close()

	var cards []deck.Card
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan card: %w", err)
		}
		cards = append(cards, *c)
	}
	return cards, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCard(row rowScanner) (*deck.Card, error) {
	var (
		c        deck.Card
		cardType string
		topicIDs string
		tags     string
		memory   string
	)
	err := row.Scan(&c.ID, &cardType, &c.Front, &c.Back, &topicIDs, &tags,
		&memory, &c.ClozeIndex, &c.Template, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	c.Type = deck.CardType(cardType)
	if c.TopicIDs, err = decodeStrings(topicIDs); err != nil {
		return nil, err
	}
	if c.Tags, err = decodeStrings(tags); err != nil {
		return nil, err
	}
	if err = json.Unmarshal([]byte(memory), &c.Memory); err != nil {
		return nil, err
	}
	return &c, nil
}
