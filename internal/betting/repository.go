package betting

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrGameNotFound    = errors.New("game not found")
	ErrBetNotFound     = errors.New("bet not found")
	ErrResultNotFound  = errors.New("result not found")
	ErrWinningNotFound = errors.New("winning not found")
)

type Repository interface {
	CreateGame(ctx context.Context, game *Game) error
	GetGame(ctx context.Context, gameID string) (*Game, error)
	GetGameByType(ctx context.Context, gameType string) (*Game, error)
	GetAllGames(ctx context.Context) ([]Game, error)

	CreateBet(ctx context.Context, bet *Bet) error
	GetBet(ctx context.Context, betID string) (*Bet, error)
	GetAllBets(ctx context.Context) ([]Bet, error)
	UpdateBetOutcome(ctx context.Context, betID string, status string, payout decimal.Decimal, resultID string) error

	CreateResult(ctx context.Context, result *Result) error
	GetLatestResult(ctx context.Context, gameID string) (*Result, error)
	GetResultsByGame(ctx context.Context, gameID string) ([]Result, error)

	CreateWinning(ctx context.Context, winning *Winning) error
	GetWinningByBet(ctx context.Context, betID string) (*Winning, error)
	GetAllWinnings(ctx context.Context) ([]Winning, error)
}

type RepositoryImpl struct {
	db *gorm.DB
}

func NewRepositoryImpl(db *gorm.DB) Repository {
	return &RepositoryImpl{db: db}
}

func (r *RepositoryImpl) CreateGame(ctx context.Context, game *Game) error {
	if err := r.db.WithContext(ctx).Create(game).Error; err != nil {
		return fmt.Errorf("failed to create game: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetGame(ctx context.Context, gameID string) (*Game, error) {
	var game Game
	err := r.db.WithContext(ctx).Where("game_id = ?", gameID).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game: %w", err)
	}
	return &game, nil
}

func (r *RepositoryImpl) GetGameByType(ctx context.Context, gameType string) (*Game, error) {
	var game Game
	err := r.db.WithContext(ctx).Where("game_type = ?", gameType).First(&game).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrGameNotFound
		}
		return nil, fmt.Errorf("failed to get game by type: %w", err)
	}
	return &game, nil
}

func (r *RepositoryImpl) GetAllGames(ctx context.Context) ([]Game, error) {
	var games []Game
	if err := r.db.WithContext(ctx).Order("name").Find(&games).Error; err != nil {
		return nil, fmt.Errorf("failed to list games: %w", err)
	}
	return games, nil
}

func (r *RepositoryImpl) CreateBet(ctx context.Context, bet *Bet) error {
	if err := r.db.WithContext(ctx).Create(bet).Error; err != nil {
		return fmt.Errorf("failed to create bet: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetBet(ctx context.Context, betID string) (*Bet, error) {
	var bet Bet
	err := r.db.WithContext(ctx).Where("bet_id = ?", betID).First(&bet).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBetNotFound
		}
		return nil, fmt.Errorf("failed to get bet: %w", err)
	}
	return &bet, nil
}

func (r *RepositoryImpl) GetAllBets(ctx context.Context) ([]Bet, error) {
	var bets []Bet
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&bets).Error; err != nil {
		return nil, fmt.Errorf("failed to list bets: %w", err)
	}
	return bets, nil
}

func (r *RepositoryImpl) UpdateBetOutcome(ctx context.Context, betID string, status string, payout decimal.Decimal, resultID string) error {
	result := r.db.WithContext(ctx).
		Model(&Bet{}).
		Where("bet_id = ?", betID).
		Updates(map[string]interface{}{
			"status":    status,
			"payout":    payout,
			"result_id": resultID,
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update bet outcome: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrBetNotFound
	}
	return nil
}

func (r *RepositoryImpl) CreateResult(ctx context.Context, res *Result) error {
	if err := r.db.WithContext(ctx).Create(res).Error; err != nil {
		return fmt.Errorf("failed to create result: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetLatestResult(ctx context.Context, gameID string) (*Result, error) {
	var res Result
	err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("draw_date DESC").
		First(&res).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, fmt.Errorf("failed to get latest result: %w", err)
	}
	return &res, nil
}

func (r *RepositoryImpl) GetResultsByGame(ctx context.Context, gameID string) ([]Result, error) {
	var results []Result
	err := r.db.WithContext(ctx).
		Where("game_id = ?", gameID).
		Order("draw_date DESC").
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	return results, nil
}

func (r *RepositoryImpl) CreateWinning(ctx context.Context, winning *Winning) error {
	if err := r.db.WithContext(ctx).Create(winning).Error; err != nil {
		return fmt.Errorf("failed to create winning: %w", err)
	}
	return nil
}

func (r *RepositoryImpl) GetWinningByBet(ctx context.Context, betID string) (*Winning, error) {
	var winning Winning
	err := r.db.WithContext(ctx).Where("bet_id = ?", betID).First(&winning).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWinningNotFound
		}
		return nil, fmt.Errorf("failed to get winning: %w", err)
	}
	return &winning, nil
}

func (r *RepositoryImpl) GetAllWinnings(ctx context.Context) ([]Winning, error) {
	var winnings []Winning
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&winnings).Error; err != nil {
		return nil, fmt.Errorf("failed to list winnings: %w", err)
	}
	return winnings, nil
}
