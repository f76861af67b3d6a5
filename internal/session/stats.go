package session

import (
	"time"

	"github.com/mkrech/studyvault/internal/srs"
)

// Streak walks the daily stats rows (newest first) and reports consecutive
// days with at least one review. The current streak only counts if its most
// recent day is today or yesterday; an older run still feeds Longest.
func (r *Runner) Streak() (Streak, error) {
	all, err := r.Store.AllDailyStats()
	if err != nil {
		return Streak{}, err
	}
	if len(all) == 0 {
		return Streak{}, nil
	}

	now := r.Nower.Now()
	today := now.Format(isoDate)
	yesterday := now.AddDate(0, 0, -1).Format(isoDate)

	var current, longest, run int
	var lastDate time.Time
	haveLast := false

	for _, st := range all {
		if st.CardsReviewed == 0 {
			continue
		}
		day, err := time.Parse(isoDate, st.Date)
		if err != nil {
			continue
		}
		if !haveLast {
			run = 1
			if st.Date == today || st.Date == yesterday {
				current = 1
			}
		} else {
			gap := int(lastDate.Sub(day).Hours() / 24)
			if gap == 1 {
				run++
				if current > 0 {
					current = run
				}
			} else {
				run = 1
			}
		}
		if run > longest {
			longest = run
		}
		lastDate = day
		haveLast = true
	}

	return Streak{
		Current:        current,
		Longest:        longest,
		LastReviewDate: all[0].Date,
	}, nil
}

// RetentionRate is the remembered fraction over a trailing window of days,
// 0 when nothing was reviewed in the window.
func (r *Runner) RetentionRate(days int) (float64, error) {
	now := r.Nower.Now()
	start := now.AddDate(0, 0, -days).Format(isoDate)
	end := now.Format(isoDate)

	stats, err := r.Store.DailyStatsRange(start, end)
	if err != nil {
		return 0, err
	}

	var total, remembered int
	for _, st := range stats {
		total += st.CardsReviewed
		remembered += st.CardsRemembered
	}
	return srs.CalculateRetention(remembered, total), nil
}

// TodayStats returns today's aggregate row, zero-valued if nothing has been
// reviewed yet.
func (r *Runner) TodayStats() (DailyStats, error) {
	st, err := r.statsRowFor(r.Nower.Now())
	if err != nil {
		return DailyStats{}, err
	}
	return *st, nil
}
