package betting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SeedDefaultGames creates the default game catalog. Games that already
// exist (matched by type) are left untouched, so reseeding on restart with a
// persistent store is safe.
func SeedDefaultGames(ctx context.Context, repo Repository) error {
	defaults := []Game{
		{
			GameType:        GameTypeVirtual,
			Name:            "Virtual Betting",
			Description:     "Weekly rounds with instant results. Pick 5 numbers from 0-40 and match 3+ to win!",
			MinNumber:       0,
			MaxNumber:       40,
			MinOdds:         decimal.NewFromFloat(1.01),
			MaxOdds:         decimal.NewFromFloat(7.00),
			NumbersToSelect: 5,
			MinMatches:      3,
		},
		{
			GameType:        GameTypeMinor,
			Name:            "Minor Game",
			Description:     "Main game category - Minor. Pick 5 numbers from 0-40 and match 3+ to win!",
			MinNumber:       0,
			MaxNumber:       40,
			MinOdds:         decimal.NewFromFloat(1.01),
			MaxOdds:         decimal.NewFromFloat(7.00),
			NumbersToSelect: 5,
			MinMatches:      3,
		},
		{
			GameType:        GameTypeMajor,
			Name:            "Major Game",
			Description:     "Main game category - Major. Pick 7 numbers from 0-60 and match 3+ to win big!",
			MinNumber:       0,
			MaxNumber:       60,
			MinOdds:         decimal.NewFromFloat(1.01),
			MaxOdds:         decimal.NewFromFloat(13.00),
			NumbersToSelect: 7,
			MinMatches:      3,
		},
		{
			GameType:        GameTypeMega,
			Name:            "Mega Game",
			Description:     "Main game category - Mega. Pick 10 numbers from 0-90 and match 5+ for mega wins!",
			MinNumber:       0,
			MaxNumber:       90,
			MinOdds:         decimal.NewFromFloat(1.01),
			MaxOdds:         decimal.NewFromFloat(17.00),
			NumbersToSelect: 10,
			MinMatches:      5,
		},
		{
			GameType:        GameTypeNoon,
			Name:            "Noon Game",
			Description:     "Daily noon draw at 12:00 PM. Pick 3 numbers plus bonus from 0-25!",
			MinNumber:       0,
			MaxNumber:       25,
			MinOdds:         decimal.NewFromFloat(1.01),
			MaxOdds:         decimal.NewFromFloat(12.00),
			NumbersToSelect: 3,
			MinMatches:      2,
			HasBonus:        true,
		},
		{
			GameType:        GameTypeNight,
			Name:            "Night Game",
			Description:     "Daily night draw at 12:00 AM. Pick 3 numbers plus bonus from 0-25!",
			MinNumber:       0,
			MaxNumber:       25,
			MinOdds:         decimal.NewFromFloat(1.01),
			MaxOdds:         decimal.NewFromFloat(12.00),
			NumbersToSelect: 3,
			MinMatches:      2,
			HasBonus:        true,
		},
		{
			GameType:        GameTypeAviator,
			Name:            "Number Aviator",
			Description:     "Fast-paced number predictions. Select 3 numbers from 1-36 and watch your winnings soar!",
			MinNumber:       1,
			MaxNumber:       36,
			MinOdds:         decimal.NewFromInt(3),
			MaxOdds:         decimal.NewFromInt(8),
			NumbersToSelect: 3,
			MinMatches:      2,
		},
	}

	for i := range defaults {
		game := defaults[i]
		_, err := repo.GetGameByType(ctx, game.GameType)
		if err == nil {
			continue
		}
		if !errors.Is(err, ErrGameNotFound) {
			return fmt.Errorf("failed to check existing game %q: %w", game.GameType, err)
		}

		game.GameID = uuid.New().String()
		game.CreatedAt = time.Now()
		game.UpdatedAt = game.CreatedAt
		if err := repo.CreateGame(ctx, &game); err != nil {
			return err
		}
	}
	return nil
}
