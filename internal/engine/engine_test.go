package engine

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine() *Engine {
	e := New()
	fixed := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return fixed }
	return e
}

func setConfig(t *testing.T, e *Engine, edge, ratio, multiplier decimal.Decimal) {
	t.Helper()
	_, err := e.UpdateConfig(ConfigUpdate{
		HouseEdgePercentage:    &edge,
		MaxDailyPayoutRatio:    &ratio,
		MaxSingleWinMultiplier: &multiplier,
	})
	require.NoError(t, err)
}

func TestHouseEdgeArithmetic(t *testing.T) {
	e := newTestEngine()
	e.RecordStake(decimal.NewFromInt(10000))

	result, err := e.CalculateWinningAmount(decimal.NewFromInt(1000), decimal.NewFromInt(100), "b1")
	require.NoError(t, err)

	require.True(t, decimal.NewFromFloat(850).Equal(result.FinalAmount), "finalAmount=%s", result.FinalAmount)
	assert.True(t, result.Metadata.HouseEdgeApplied)
	assert.False(t, result.Metadata.SingleWinCapApplied)
	assert.False(t, result.Metadata.DailyCapApplied)
	require.NotNil(t, result.Metadata.CappedFromHouseEdge)
	assert.True(t, decimal.NewFromInt(1000).Equal(*result.Metadata.CappedFromHouseEdge))

	// House edge alone is audit-only: one event, nothing added to cappedPayouts.
	events := e.PayoutEvents()
	require.Len(t, events, 1)
	assert.Equal(t, LimitHouseEdge, events[0].LimitType)

	stats, err := e.StatsForDate("")
	require.NoError(t, err)
	assert.True(t, stats.CappedPayouts.IsZero())
}

func TestSingleWinCap(t *testing.T) {
	e := newTestEngine()
	setConfig(t, e, decimal.Zero, decimal.NewFromFloat(0.75), decimal.NewFromInt(1000))
	e.RecordStake(decimal.NewFromInt(200000))

	// stake 100 x multiplier 1000 caps at 100000; 150000 truncates before the daily stage.
	result, err := e.CalculateWinningAmount(decimal.NewFromInt(150000), decimal.NewFromInt(100), "b1")
	require.NoError(t, err)

	require.True(t, decimal.NewFromInt(100000).Equal(result.FinalAmount), "finalAmount=%s", result.FinalAmount)
	assert.False(t, result.Metadata.HouseEdgeApplied)
	assert.True(t, result.Metadata.SingleWinCapApplied)
	assert.False(t, result.Metadata.DailyCapApplied)
	require.NotNil(t, result.Metadata.CappedFromSingleWin)
	assert.True(t, decimal.NewFromInt(150000).Equal(*result.Metadata.CappedFromSingleWin))

	stats, err := e.StatsForDate("")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50000).Equal(stats.CappedPayouts))

	events := e.PayoutEvents()
	require.Len(t, events, 1)
	assert.Equal(t, LimitSingleWinCap, events[0].LimitType)
}

func TestDailyCapBudget(t *testing.T) {
	e := newTestEngine()
	setConfig(t, e, decimal.Zero, decimal.NewFromFloat(0.75), decimal.NewFromInt(1000))

	// stakes 10000 at ratio 0.75 allows 7500; 7000 already paid leaves 500.
	e.RecordStake(decimal.NewFromInt(10000))
	e.RecordPayout(decimal.NewFromInt(7000))

	result, err := e.CalculateWinningAmount(decimal.NewFromInt(800), decimal.NewFromInt(100), "b1")
	require.NoError(t, err)

	require.True(t, decimal.NewFromInt(500).Equal(result.FinalAmount), "finalAmount=%s", result.FinalAmount)
	assert.True(t, result.Metadata.DailyCapApplied)
	assert.False(t, result.Metadata.SingleWinCapApplied)
	require.NotNil(t, result.Metadata.CappedFromDaily)
	assert.True(t, decimal.NewFromInt(800).Equal(*result.Metadata.CappedFromDaily))

	stats, err := e.StatsForDate("")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(300).Equal(stats.CappedPayouts))
}

func TestBothCapsApplied(t *testing.T) {
	e := newTestEngine()
	setConfig(t, e, decimal.NewFromInt(15), decimal.NewFromFloat(0.75), decimal.NewFromInt(8))
	e.RecordStake(decimal.NewFromInt(1000))

	// 1000 -> edge -> 850 -> single cap (100 x 8) -> 800 -> daily budget 750.
	result, err := e.CalculateWinningAmount(decimal.NewFromInt(1000), decimal.NewFromInt(100), "b1")
	require.NoError(t, err)

	require.True(t, decimal.NewFromInt(750).Equal(result.FinalAmount), "finalAmount=%s", result.FinalAmount)
	assert.True(t, result.Metadata.HouseEdgeApplied)
	assert.True(t, result.Metadata.SingleWinCapApplied)
	assert.True(t, result.Metadata.DailyCapApplied)
	require.NotNil(t, result.Metadata.CappedFromSingleWin)
	assert.True(t, decimal.NewFromInt(850).Equal(*result.Metadata.CappedFromSingleWin))
	require.NotNil(t, result.Metadata.CappedFromDaily)
	assert.True(t, decimal.NewFromInt(800).Equal(*result.Metadata.CappedFromDaily))

	// One event per triggered cap, both carrying the final amount.
	events := e.PayoutEvents()
	require.Len(t, events, 2)
	assert.Equal(t, LimitSingleWinCap, events[0].LimitType)
	assert.Equal(t, LimitDailyCap, events[1].LimitType)
	assert.True(t, result.FinalAmount.Equal(events[0].Amount))
	assert.True(t, result.FinalAmount.Equal(events[1].Amount))

	// (850-800) + (800-750)
	stats, err := e.StatsForDate("")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(100).Equal(stats.CappedPayouts))
}

func TestOrderEdgeBeforeCaps(t *testing.T) {
	e := newTestEngine()
	setConfig(t, e, decimal.NewFromInt(15), decimal.NewFromFloat(0.75), decimal.NewFromInt(8))
	e.RecordStake(decimal.NewFromInt(10000))

	// Single-win cap is evaluated against the post-edge amount: 1000 is
	// reduced to 850 first, then capped to 800. Capping before the edge
	// would pay 680 instead.
	result, err := e.CalculateWinningAmount(decimal.NewFromInt(1000), decimal.NewFromInt(100), "b1")
	require.NoError(t, err)

	require.True(t, decimal.NewFromInt(800).Equal(result.FinalAmount), "finalAmount=%s", result.FinalAmount)
	assert.False(t, decimal.NewFromInt(680).Equal(result.FinalAmount))
	require.NotNil(t, result.Metadata.CappedFromSingleWin)
	assert.True(t, decimal.NewFromInt(850).Equal(*result.Metadata.CappedFromSingleWin))
}

func TestMonotonicInBaseWinning(t *testing.T) {
	e := newTestEngine()
	e.RecordStake(decimal.NewFromInt(5000))

	prev := decimal.Zero
	for i := 1; i <= 40; i++ {
		base := decimal.NewFromInt(int64(i * 250))
		result, err := e.CalculateWinningAmount(base, decimal.NewFromInt(100), "bet-"+base.String())
		require.NoError(t, err)
		assert.True(t, result.FinalAmount.GreaterThanOrEqual(prev),
			"payout decreased: base=%s final=%s prev=%s", base, result.FinalAmount, prev)
		prev = result.FinalAmount
	}
}

func TestRoundingFloorsToCents(t *testing.T) {
	e := newTestEngine()
	e.RecordStake(decimal.NewFromInt(10000))

	// 333.333 x 0.85 = 283.33305, floored to 283.33.
	result, err := e.CalculateWinningAmount(decimal.NewFromFloat(333.333), decimal.NewFromInt(100), "b1")
	require.NoError(t, err)
	require.True(t, decimal.NewFromFloat(283.33).Equal(result.FinalAmount), "finalAmount=%s", result.FinalAmount)
}

func TestZeroBaseWinning(t *testing.T) {
	e := newTestEngine()
	e.RecordStake(decimal.NewFromInt(1000))

	result, err := e.CalculateWinningAmount(decimal.Zero, decimal.NewFromInt(100), "b1")
	require.NoError(t, err)

	assert.True(t, result.FinalAmount.IsZero())
	assert.False(t, result.Metadata.HouseEdgeApplied)
	assert.False(t, result.Metadata.SingleWinCapApplied)
	assert.False(t, result.Metadata.DailyCapApplied)
	assert.Empty(t, e.PayoutEvents())

	stats, err := e.StatsForDate("")
	require.NoError(t, err)
	assert.True(t, stats.CappedPayouts.IsZero())

	// Metadata is still stored so future queries stay idempotent.
	metadata, err := e.WinningMetadata("b1")
	require.NoError(t, err)
	assert.False(t, metadata.HouseEdgeApplied)
}

func TestMetadataIdempotence(t *testing.T) {
	e := newTestEngine()
	e.RecordStake(decimal.NewFromInt(1000))

	result, err := e.CalculateWinningAmount(decimal.NewFromInt(500), decimal.NewFromInt(100), "b1")
	require.NoError(t, err)

	first, err := e.WinningMetadata("b1")
	require.NoError(t, err)
	second, err := e.WinningMetadata("b1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, result.Metadata.HouseEdgeApplied, first.HouseEdgeApplied)

	_, err = e.CalculateWinningAmount(decimal.NewFromInt(500), decimal.NewFromInt(100), "b1")
	require.ErrorIs(t, err, ErrAlreadyCalculated)

	_, err = e.WinningMetadata("unknown")
	require.ErrorIs(t, err, ErrMetadataNotFound)
}

func TestInputValidation(t *testing.T) {
	e := newTestEngine()

	_, err := e.CalculateWinningAmount(decimal.NewFromInt(-1), decimal.NewFromInt(100), "b1")
	require.ErrorIs(t, err, ErrNegativeWinning)

	_, err = e.CalculateWinningAmount(decimal.NewFromInt(100), decimal.Zero, "b1")
	require.ErrorIs(t, err, ErrInvalidStake)

	_, err = e.CalculateWinningAmount(decimal.NewFromInt(100), decimal.NewFromInt(100), "")
	require.ErrorIs(t, err, ErrMissingBetID)
}

func TestEndToEndDay(t *testing.T) {
	e := newTestEngine()

	e.RecordStake(decimal.NewFromInt(1000))
	stats, err := e.StatsForDate("")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(1000).Equal(stats.TotalStakes))
	assert.Equal(t, 1, stats.TotalBets)

	result, err := e.CalculateWinningAmount(decimal.NewFromInt(5000), decimal.NewFromInt(1000), "b1")
	require.NoError(t, err)
	require.True(t, decimal.NewFromInt(750).Equal(result.FinalAmount), "finalAmount=%s", result.FinalAmount)
	assert.True(t, result.Metadata.HouseEdgeApplied)
	assert.False(t, result.Metadata.SingleWinCapApplied)
	assert.True(t, result.Metadata.DailyCapApplied)

	e.RecordPayout(result.FinalAmount)

	stats, err = e.StatsForDate("")
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(750).Equal(stats.TotalPayouts))
	assert.True(t, decimal.NewFromInt(250).Equal(stats.NetProfit))
	assert.Equal(t, 1, stats.TotalWinnings)
	assert.True(t, stats.NetProfit.Equal(stats.TotalStakes.Sub(stats.TotalPayouts)))
}
