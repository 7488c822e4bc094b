package engine

import (
	"math"

	"github.com/shopspring/decimal"
)

// AdjustedOdds spreads the configured house edge evenly across a list of
// base odds: each odd is scaled by the nth root of the edge multiplier so
// the product of all odds carries the full edge. Adjusted odds are floored
// to 2 decimal places and never drop below 1.
func (e *Engine) AdjustedOdds(baseOdds []decimal.Decimal) []decimal.Decimal {
	if len(baseOdds) == 0 {
		return nil
	}

	e.mu.Lock()
	multiplier := hundred.Sub(e.config.HouseEdgePercentage).Div(hundred)
	e.mu.Unlock()

	perOdd := math.Pow(multiplier.InexactFloat64(), 1/float64(len(baseOdds)))

	adjusted := make([]decimal.Decimal, len(baseOdds))
	for i, odd := range baseOdds {
		scaled := decimal.NewFromFloat(odd.InexactFloat64() * perOdd).RoundFloor(2)
		adjusted[i] = decimal.Max(one, scaled)
	}
	return adjusted
}
