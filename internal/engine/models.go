package engine

import (
	"time"

	"github.com/shopspring/decimal"
)

// DayKey identifies one calendar day of ledger activity. Keys are always
// derived from the UTC clock so two processes agree on the day boundary.
type DayKey string

const dayKeyLayout = "2006-01-02"

func DayKeyFor(t time.Time) DayKey {
	return DayKey(t.UTC().Format(dayKeyLayout))
}

type GameConfig struct {
	HouseEdgePercentage    decimal.Decimal `json:"house_edge_percentage"`     // percent of raw winnings kept by the house, [0,100)
	MaxDailyPayoutRatio    decimal.Decimal `json:"max_daily_payout_ratio"`    // day's payouts as a fraction of day's stakes, [0,1]
	MaxSingleWinMultiplier decimal.Decimal `json:"max_single_win_multiplier"` // single payout as a multiple of its stake, > 0
}

// ConfigUpdate carries a partial config change; nil fields keep their
// current value.
type ConfigUpdate struct {
	HouseEdgePercentage    *decimal.Decimal `json:"house_edge_percentage"`
	MaxDailyPayoutRatio    *decimal.Decimal `json:"max_daily_payout_ratio"`
	MaxSingleWinMultiplier *decimal.Decimal `json:"max_single_win_multiplier"`
}

type DailyStats struct {
	Date          DayKey          `json:"date"`
	TotalStakes   decimal.Decimal `json:"total_stakes"`
	TotalPayouts  decimal.Decimal `json:"total_payouts"`
	NetProfit     decimal.Decimal `json:"net_profit"`
	CappedPayouts decimal.Decimal `json:"capped_payouts"`
	TotalBets     int             `json:"total_bets"`
	TotalWinnings int             `json:"total_winnings"`
}

const (
	LimitHouseEdge    = "house_edge"
	LimitDailyCap     = "daily_cap"
	LimitSingleWinCap = "single_win_cap"
)

// PayoutEvent is one entry of the append-only audit trail. LimitType is
// empty for plain payout records written by RecordPayout.
type PayoutEvent struct {
	EventID    string           `json:"event_id"`
	Timestamp  time.Time        `json:"timestamp"`
	Amount     decimal.Decimal  `json:"amount"`
	CappedFrom *decimal.Decimal `json:"capped_from,omitempty"`
	LimitType  string           `json:"limit_type,omitempty"`
}

// WinningMetadata records which adjustments applied to one bet's winning.
// Once written for a bet id it never changes.
type WinningMetadata struct {
	HouseEdgeApplied    bool             `json:"house_edge_applied"`
	SingleWinCapApplied bool             `json:"single_win_cap_applied"`
	DailyCapApplied     bool             `json:"daily_cap_applied"`
	CappedFromHouseEdge *decimal.Decimal `json:"capped_from_house_edge,omitempty"`
	CappedFromSingleWin *decimal.Decimal `json:"capped_from_single_win,omitempty"`
	CappedFromDaily     *decimal.Decimal `json:"capped_from_daily,omitempty"`
}

type CalculationResult struct {
	FinalAmount decimal.Decimal `json:"final_amount"`
	Metadata    WinningMetadata `json:"metadata"`
}
