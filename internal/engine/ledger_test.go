package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsForUnknownDate(t *testing.T) {
	e := newTestEngine()
	_, err := e.StatsForDate("2000-01-01")
	require.ErrorIs(t, err, ErrStatsNotFound)

	// No activity yet today either.
	_, err = e.StatsForDate("")
	require.ErrorIs(t, err, ErrStatsNotFound)
}

func TestDayBoundaryIsUTC(t *testing.T) {
	e := New()
	day1 := time.Date(2025, 6, 1, 23, 59, 0, 0, time.UTC)
	e.now = func() time.Time { return day1 }
	e.RecordStake(decimal.NewFromInt(100))

	day2 := day1.Add(2 * time.Minute)
	e.now = func() time.Time { return day2 }
	e.RecordStake(decimal.NewFromInt(200))

	all := e.AllStats()
	require.Len(t, all, 2)
	assert.Equal(t, DayKey("2025-06-01"), all[0].Date)
	assert.Equal(t, DayKey("2025-06-02"), all[1].Date)
	assert.True(t, decimal.NewFromInt(100).Equal(all[0].TotalStakes))
	assert.True(t, decimal.NewFromInt(200).Equal(all[1].TotalStakes))

	// A non-UTC clock still lands on the UTC day.
	est := time.FixedZone("EST", -5*3600)
	e.now = func() time.Time { return time.Date(2025, 6, 2, 22, 0, 0, 0, est) } // 03:00 UTC on June 3
	e.RecordStake(decimal.NewFromInt(300))
	stats, err := e.StatsForDate("2025-06-03")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(stats.TotalStakes))
}

func TestRecordPayoutAppendsPlainEvent(t *testing.T) {
	e := newTestEngine()
	e.RecordPayout(decimal.NewFromInt(42))

	events := e.PayoutEvents()
	require.Len(t, events, 1)
	assert.Empty(t, events[0].LimitType)
	assert.Nil(t, events[0].CappedFrom)
	assert.True(t, decimal.NewFromInt(42).Equal(events[0].Amount))
	assert.NotEmpty(t, events[0].EventID)
}

func TestNetProfitInvariant(t *testing.T) {
	e := newTestEngine()
	e.RecordStake(decimal.NewFromInt(500))
	e.RecordStake(decimal.NewFromInt(300))
	e.RecordPayout(decimal.NewFromInt(120))
	e.RecordPayout(decimal.NewFromFloat(33.33))

	stats, err := e.StatsForDate("")
	require.NoError(t, err)
	assert.True(t, stats.NetProfit.Equal(stats.TotalStakes.Sub(stats.TotalPayouts)))
	assert.Equal(t, 2, stats.TotalBets)
	assert.Equal(t, 2, stats.TotalWinnings)
}

func TestConcurrentStakeRecording(t *testing.T) {
	e := newTestEngine()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.RecordStake(decimal.NewFromInt(1))
		}()
	}
	wg.Wait()

	stats, err := e.StatsForDate("")
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(50).Equal(stats.TotalStakes), "totalStakes=%s", stats.TotalStakes)
	require.Equal(t, 50, stats.TotalBets)
}

func TestStatsAreCopies(t *testing.T) {
	e := newTestEngine()
	e.RecordStake(decimal.NewFromInt(100))

	stats, err := e.StatsForDate("")
	require.NoError(t, err)
	stats.TotalStakes = decimal.NewFromInt(999999)

	fresh, err := e.StatsForDate("")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(fresh.TotalStakes))
}
