package engine

import (
	"errors"
	"sort"

	"github.com/shopspring/decimal"
)

var ErrStatsNotFound = errors.New("no stats recorded for that day")

// statsForToday returns today's record, creating it lazily on first use.
// Caller must hold e.mu.
func (e *Engine) statsForToday() *DailyStats {
	key := DayKeyFor(e.now())
	stats, ok := e.dailyStats[key]
	if !ok {
		stats = &DailyStats{
			Date:          key,
			TotalStakes:   decimal.Zero,
			TotalPayouts:  decimal.Zero,
			NetProfit:     decimal.Zero,
			CappedPayouts: decimal.Zero,
		}
		e.dailyStats[key] = stats
	}
	return stats
}

// RecordStake adds a placed bet's stake to today's totals. The amount is
// assumed to be validated by the caller.
func (e *Engine) RecordStake(amount decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := e.statsForToday()
	stats.TotalStakes = stats.TotalStakes.Add(amount)
	stats.NetProfit = stats.NetProfit.Add(amount)
	stats.TotalBets++
}

// RecordPayout settles a positive final payout against today's totals and
// appends a plain payout record to the audit trail. Callers invoke it once
// per winning bet, only when the final amount is positive.
func (e *Engine) RecordPayout(amount decimal.Decimal) {
	e.mu.Lock()
	defer e.mu.Unlock()

	stats := e.statsForToday()
	stats.TotalPayouts = stats.TotalPayouts.Add(amount)
	stats.NetProfit = stats.NetProfit.Sub(amount)
	stats.TotalWinnings++

	e.appendEvent(amount, nil, "")
}

// StatsForDate returns the ledger record for the given day, or today's
// record when date is empty.
func (e *Engine) StatsForDate(date DayKey) (DailyStats, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if date == "" {
		date = DayKeyFor(e.now())
	}
	stats, ok := e.dailyStats[date]
	if !ok {
		return DailyStats{}, ErrStatsNotFound
	}
	return *stats, nil
}

// AllStats returns every day record, oldest first. History is unbounded;
// archival is the caller's concern.
func (e *Engine) AllStats() []DailyStats {
	e.mu.Lock()
	defer e.mu.Unlock()

	all := make([]DailyStats, 0, len(e.dailyStats))
	for _, stats := range e.dailyStats {
		all = append(all, *stats)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Date < all[j].Date })
	return all
}
