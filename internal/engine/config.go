package engine

import (
	"errors"
	"log"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidHouseEdge  = errors.New("house edge percentage must be in [0,100)")
	ErrInvalidDailyRatio = errors.New("max daily payout ratio must be in [0,1]")
	ErrInvalidMultiplier = errors.New("max single win multiplier must be positive")
)

var (
	hundred = decimal.NewFromInt(100)
	one     = decimal.NewFromInt(1)
)

func DefaultGameConfig() GameConfig {
	return GameConfig{
		HouseEdgePercentage:    decimal.NewFromInt(15),
		MaxDailyPayoutRatio:    decimal.NewFromFloat(0.75),
		MaxSingleWinMultiplier: decimal.NewFromInt(1000),
	}
}

func (e *Engine) Config() GameConfig {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.config
}

// UpdateConfig merges the provided fields over the current config. Changes
// apply to all subsequent calculations; past results are not recomputed.
func (e *Engine) UpdateConfig(update ConfigUpdate) (GameConfig, error) {
	if update.HouseEdgePercentage != nil {
		v := *update.HouseEdgePercentage
		if v.IsNegative() || v.GreaterThanOrEqual(hundred) {
			return GameConfig{}, ErrInvalidHouseEdge
		}
	}
	if update.MaxDailyPayoutRatio != nil {
		v := *update.MaxDailyPayoutRatio
		if v.IsNegative() || v.GreaterThan(one) {
			return GameConfig{}, ErrInvalidDailyRatio
		}
	}
	if update.MaxSingleWinMultiplier != nil {
		if !update.MaxSingleWinMultiplier.IsPositive() {
			return GameConfig{}, ErrInvalidMultiplier
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if update.HouseEdgePercentage != nil {
		e.config.HouseEdgePercentage = *update.HouseEdgePercentage
	}
	if update.MaxDailyPayoutRatio != nil {
		e.config.MaxDailyPayoutRatio = *update.MaxDailyPayoutRatio
	}
	if update.MaxSingleWinMultiplier != nil {
		e.config.MaxSingleWinMultiplier = *update.MaxSingleWinMultiplier
	}

	log.Printf("Config updated: house_edge=%s daily_ratio=%s single_win_multiplier=%s",
		e.config.HouseEdgePercentage.String(),
		e.config.MaxDailyPayoutRatio.String(),
		e.config.MaxSingleWinMultiplier.String())

	return e.config, nil
}
