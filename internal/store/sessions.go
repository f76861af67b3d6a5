package store

import (
	"database/sql"
	"fmt"

	"github.com/mkrech/studyvault/internal/queue"
	"github.com/mkrech/studyvault/internal/session"
)

const sessionColumns = `id, mode, topic_ids, card_ids, current_index, completed_card_ids,
	cards_reviewed, cards_remembered, cards_forgot, started_at, completed_at, total_time_ms, is_active`

func (s *Store) InsertSession(sess *session.Session) error {
	return s.writeSession(sess, "INSERT")
}

func (s *Store) UpsertSession(sess *session.Session) error {
	return s.writeSession(sess, "INSERT OR REPLACE")
}

func (s *Store) writeSession(sess *session.Session, verb string) error {
	topicIDs, err := encodeStrings(sess.TopicIDs)
	if err != nil {
		return err
	}
	cardIDs, err := encodeStrings(sess.CardIDs)
	if err != nil {
		return err
	}
	completed, err := encodeStrings(sess.CompletedCardIDs)
	if err != nil {
		return err
	}
	completedAt := sql.NullTime{Time: sess.CompletedAt.UTC(), Valid: !sess.CompletedAt.IsZero()}
	_, err = s.db.Exec(verb+` INTO sessions
		(id, mode, topic_ids, card_ids, current_index, completed_card_ids,
		 cards_reviewed, cards_remembered, cards_forgot, started_at, completed_at, total_time_ms, is_active)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		sess.ID, string(sess.Mode), topicIDs, cardIDs, sess.CurrentIndex, completed,
		sess.CardsReviewed, sess.CardsRemembered, sess.CardsForgot,
		sess.StartedAt.UTC(), completedAt, sess.TotalTimeMs, sess.IsActive,
	)
	if err != nil {
		return fmt.Errorf("failed to write session %s: %w", sess.ID, err)
	}
	return nil
}

// SessionByID returns the session, or nil when no session has that id.
func (s *Store) SessionByID(id string) (*session.Session, error) {
	row := s.db.QueryRow(`SELECT `+sessionColumns+` FROM sessions WHERE id = ?`, id)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session %s: %w", id, err)
	}
	return sess, nil
}

// ActiveSession returns the currently active session, or nil. The session
// runner guarantees there is at most one.
func (s *Store) ActiveSession() (*session.Session, error) {
	row := s.db.QueryRow(`SELECT ` + sessionColumns + ` FROM sessions WHERE is_active = 1 LIMIT 1`)
	sess, err := scanSession(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load active session: %w", err)
	}
	return sess, nil
}

// RecentSessions returns up to limit sessions, newest first.
func (s *Store) RecentSessions(limit int) ([]session.Session, error) {
	rows, err := s.db.Query(`SELECT `+sessionColumns+` FROM sessions ORDER BY started_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query sessions: %w", err)
	}
	defer rows.Close()

	var sessions []session.Session
	for rows.Next() {
		sess, err := scanSession(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan session: %w", err)
		}
		sessions = append(sessions, *sess)
	}
	return sessions, rows.Err()
}

func scanSession(row rowScanner) (*session.Session, error) {
	var (
		sess        session.Session
		mode        string
		topicIDs    string
		cardIDs     string
		completed   string
		completedAt sql.NullTime
	)
	err := row.Scan(&sess.ID, &mode, &topicIDs, &cardIDs, &sess.CurrentIndex, &completed,
		&sess.CardsReviewed, &sess.CardsRemembered, &sess.CardsForgot,
		&sess.StartedAt, &completedAt, &sess.TotalTimeMs, &sess.IsActive)
	if err != nil {
		return nil, err
	}
	sess.Mode = queue.Mode(mode)
	if sess.TopicIDs, err = decodeStrings(topicIDs); err != nil {
		return nil, err
	}
	if sess.CardIDs, err = decodeStrings(cardIDs); err != nil {
		return nil, err
	}
	if sess.CompletedCardIDs, err = decodeStrings(completed); err != nil {
		return nil, err
	}
	if completedAt.Valid {
		sess.CompletedAt = completedAt.Time
	}
	return &sess, nil
}
