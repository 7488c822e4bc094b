package engine

import (
	"errors"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNegativeWinning   = errors.New("base winning must not be negative")
	ErrInvalidStake      = errors.New("stake amount must be positive")
	ErrMissingBetID      = errors.New("bet id is required")
	ErrAlreadyCalculated = errors.New("winning already calculated for this bet")
	ErrMetadataNotFound  = errors.New("winning metadata not found")
)

// Engine is the payout/risk-control core: it owns the runtime config, the
// per-day ledger, the append-only audit trail and the per-bet winning
// metadata. One mutex serializes every read-modify-write so the daily cap
// is always computed against consistent totals.
type Engine struct {
	mu              sync.Mutex
	config          GameConfig
	dailyStats      map[DayKey]*DailyStats
	payoutEvents    []PayoutEvent
	winningMetadata map[string]WinningMetadata
	now             func() time.Time
}

func New() *Engine {
	return &Engine{
		config:          DefaultGameConfig(),
		dailyStats:      make(map[DayKey]*DailyStats),
		winningMetadata: make(map[string]WinningMetadata),
		now:             time.Now,
	}
}

// appendEvent adds one audit entry. Caller must hold e.mu.
func (e *Engine) appendEvent(amount decimal.Decimal, cappedFrom *decimal.Decimal, limitType string) {
	e.payoutEvents = append(e.payoutEvents, PayoutEvent{
		EventID:    uuid.New().String(),
		Timestamp:  e.now(),
		Amount:     amount,
		CappedFrom: cappedFrom,
		LimitType:  limitType,
	})
}

// CalculateWinningAmount converts a raw matched-odds winning into the final
// policy-compliant payout. Adjustments apply in a fixed order: house edge,
// then the single-win cap, then the daily cap. The order matters: the
// single-win cap sees the post-edge amount and the daily cap sees the real
// remaining budget after both other rules shaped the win.
//
// The result is floored to whole cents so the house never pays a fraction
// more than computed. Metadata for the bet id is written exactly once; the
// caller settles a positive final amount separately via RecordPayout.
func (e *Engine) CalculateWinningAmount(baseWinning, stakeAmount decimal.Decimal, betID string) (*CalculationResult, error) {
	if baseWinning.IsNegative() {
		return nil, ErrNegativeWinning
	}
	if !stakeAmount.IsPositive() {
		return nil, ErrInvalidStake
	}
	if betID == "" {
		return nil, ErrMissingBetID
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if _, exists := e.winningMetadata[betID]; exists {
		return nil, ErrAlreadyCalculated
	}

	stats := e.statsForToday()

	afterEdge := baseWinning.Mul(hundred.Sub(e.config.HouseEdgePercentage)).Div(hundred)
	houseEdgeApplied := afterEdge.LessThan(baseWinning)

	maxSingleWin := stakeAmount.Mul(e.config.MaxSingleWinMultiplier)
	afterSingleCap := decimal.Min(afterEdge, maxSingleWin)
	singleWinCapApplied := afterSingleCap.LessThan(afterEdge)

	maxDailyPayout := stats.TotalStakes.Mul(e.config.MaxDailyPayoutRatio)
	availablePayout := decimal.Max(decimal.Zero, maxDailyPayout.Sub(stats.TotalPayouts))
	finalAmount := decimal.Min(afterSingleCap, availablePayout)
	dailyCapApplied := finalAmount.LessThan(afterSingleCap)

	roundedFinal := finalAmount.RoundFloor(2)

	metadata := WinningMetadata{
		HouseEdgeApplied:    houseEdgeApplied,
		SingleWinCapApplied: singleWinCapApplied,
		DailyCapApplied:     dailyCapApplied,
	}
	if houseEdgeApplied {
		v := baseWinning
		metadata.CappedFromHouseEdge = &v
	}
	if singleWinCapApplied {
		v := afterEdge
		metadata.CappedFromSingleWin = &v
	}
	if dailyCapApplied {
		v := afterSingleCap
		metadata.CappedFromDaily = &v
	}
	e.winningMetadata[betID] = metadata

	switch {
	case singleWinCapApplied && dailyCapApplied:
		singleWinDelta := afterEdge.Sub(afterSingleCap)
		dailyDelta := afterSingleCap.Sub(roundedFinal)

		from := afterEdge
		e.appendEvent(roundedFinal, &from, LimitSingleWinCap)
		from2 := afterSingleCap
		e.appendEvent(roundedFinal, &from2, LimitDailyCap)

		stats.CappedPayouts = stats.CappedPayouts.Add(singleWinDelta).Add(dailyDelta)
		log.Printf("Multiple caps applied: bet_id=%s single_win=-%s daily=-%s",
			betID, singleWinDelta.StringFixed(2), dailyDelta.StringFixed(2))
	case singleWinCapApplied:
		delta := afterEdge.Sub(roundedFinal)
		from := afterEdge
		e.appendEvent(roundedFinal, &from, LimitSingleWinCap)

		stats.CappedPayouts = stats.CappedPayouts.Add(delta)
		log.Printf("Single win cap applied: bet_id=%s %s -> %s",
			betID, afterEdge.StringFixed(2), roundedFinal.StringFixed(2))
	case dailyCapApplied:
		delta := afterSingleCap.Sub(roundedFinal)
		from := afterSingleCap
		e.appendEvent(roundedFinal, &from, LimitDailyCap)

		stats.CappedPayouts = stats.CappedPayouts.Add(delta)
		log.Printf("Daily cap applied: bet_id=%s %s -> %s",
			betID, afterSingleCap.StringFixed(2), roundedFinal.StringFixed(2))
	case houseEdgeApplied:
		// House edge is the baseline margin, recorded for audit only.
		from := baseWinning
		e.appendEvent(roundedFinal, &from, LimitHouseEdge)
	}

	return &CalculationResult{
		FinalAmount: roundedFinal,
		Metadata:    metadata,
	}, nil
}

// WinningMetadata returns the immutable capping record stored for a bet id.
func (e *Engine) WinningMetadata(betID string) (*WinningMetadata, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	metadata, ok := e.winningMetadata[betID]
	if !ok {
		return nil, ErrMetadataNotFound
	}
	return &metadata, nil
}

// PayoutEvents returns a copy of the audit trail in append order.
func (e *Engine) PayoutEvents() []PayoutEvent {
	e.mu.Lock()
	defer e.mu.Unlock()

	events := make([]PayoutEvent, len(e.payoutEvents))
	copy(events, e.payoutEvents)
	return events
}
