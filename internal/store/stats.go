package store

import (
	"database/sql"
	"fmt"

	"github.com/mkrech/studyvault/internal/session"
)

// UpsertDailyStats replaces the aggregate row for st.Date.
func (s *Store) UpsertDailyStats(st *session.DailyStats) error {
	_, err := s.db.Exec(`INSERT OR REPLACE INTO daily_stats
		(date, cards_reviewed, cards_remembered, cards_forgot, new_cards_learned, time_spent_ms)
		VALUES (?, ?, ?, ?, ?, ?)`,
		st.Date, st.CardsReviewed, st.CardsRemembered, st.CardsForgot,
		st.NewCardsLearned, st.TimeSpentMs,
	)
	if err != nil {
		return fmt.Errorf("failed to write daily stats for %s: %w", st.Date, err)
	}
	return nil
}

// DailyStatsFor returns the row for an ISO date, or nil if none exists yet.
func (s *Store) DailyStatsFor(date string) (*session.DailyStats, error) {
	row := s.db.QueryRow(`SELECT date, cards_reviewed, cards_remembered, cards_forgot, new_cards_learned, time_spent_ms
		FROM daily_stats WHERE date = ?`, date)
	st, err := scanDailyStats(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load daily stats for %s: %w", date, err)
	}
	return st, nil
}

// DailyStatsRange returns rows with start <= date <= end, ascending.
func (s *Store) DailyStatsRange(start, end string) ([]session.DailyStats, error) {
	return s.queryDailyStats(`SELECT date, cards_reviewed, cards_remembered, cards_forgot, new_cards_learned, time_spent_ms
		FROM daily_stats WHERE date >= ? AND date <= ? ORDER BY date`, start, end)
}

// AllDailyStats returns every row, newest date first. The streak walk
// depends on this order.
func (s *Store) AllDailyStats() ([]session.DailyStats, error) {
	return s.queryDailyStats(`SELECT date, cards_reviewed, cards_remembered, cards_forgot, new_cards_learned, time_spent_ms
		FROM daily_stats ORDER BY date DESC`)
}

func (s *Store) queryDailyStats(query string, args ...any) ([]session.DailyStats, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query daily stats: %w", err)
	}
	defer rows.Close()

	var stats []session.DailyStats
	for rows.Next() {
		st, err := scanDailyStats(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan daily stats: %w", err)
		}
		stats = append(stats, *st)
	}
	return stats, rows.Err()
}

func scanDailyStats(row rowScanner) (*session.DailyStats, error) {
	var st session.DailyStats
	err := row.Scan(&st.Date, &st.CardsReviewed, &st.CardsRemembered,
		&st.CardsForgot, &st.NewCardsLearned, &st.TimeSpentMs)
	if err != nil {
		return nil, err
	}
	return &st, nil
}
