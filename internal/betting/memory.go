package betting

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
)

// MemoryRepository is an in-process Repository used when no database is
// configured and by the service tests. Maps hold the rows; slices preserve
// insertion order for list queries.
type MemoryRepository struct {
	mu       sync.RWMutex
	games    map[string]*Game
	bets     map[string]*Bet
	betOrder []string
	results  map[string]*Result
	winnings map[string]*Winning // keyed by bet id
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		games:    make(map[string]*Game),
		bets:     make(map[string]*Bet),
		results:  make(map[string]*Result),
		winnings: make(map[string]*Winning),
	}
}

func (r *MemoryRepository) CreateGame(ctx context.Context, game *Game) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *game
	r.games[game.GameID] = &copied
	return nil
}

func (r *MemoryRepository) GetGame(ctx context.Context, gameID string) (*Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	game, ok := r.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	copied := *game
	return &copied, nil
}

func (r *MemoryRepository) GetGameByType(ctx context.Context, gameType string) (*Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, game := range r.games {
		if game.GameType == gameType {
			copied := *game
			return &copied, nil
		}
	}
	return nil, ErrGameNotFound
}

func (r *MemoryRepository) GetAllGames(ctx context.Context) ([]Game, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	games := make([]Game, 0, len(r.games))
	for _, game := range r.games {
		games = append(games, *game)
	}
	return games, nil
}

func (r *MemoryRepository) CreateBet(ctx context.Context, bet *Bet) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *bet
	r.bets[bet.BetID] = &copied
	r.betOrder = append(r.betOrder, bet.BetID)
	return nil
}

func (r *MemoryRepository) GetBet(ctx context.Context, betID string) (*Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bet, ok := r.bets[betID]
	if !ok {
		return nil, ErrBetNotFound
	}
	copied := *bet
	return &copied, nil
}

func (r *MemoryRepository) GetAllBets(ctx context.Context) ([]Bet, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	bets := make([]Bet, 0, len(r.betOrder))
	for i := len(r.betOrder) - 1; i >= 0; i-- {
		bets = append(bets, *r.bets[r.betOrder[i]])
	}
	return bets, nil
}

func (r *MemoryRepository) UpdateBetOutcome(ctx context.Context, betID string, status string, payout decimal.Decimal, resultID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	bet, ok := r.bets[betID]
	if !ok {
		return ErrBetNotFound
	}
	bet.Status = status
	bet.Payout = payout
	bet.ResultID = &resultID
	return nil
}

func (r *MemoryRepository) CreateResult(ctx context.Context, result *Result) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *result
	r.results[result.ResultID] = &copied
	return nil
}

func (r *MemoryRepository) GetLatestResult(ctx context.Context, gameID string) (*Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var latest *Result
	for _, result := range r.results {
		if result.GameID != gameID {
			continue
		}
		if latest == nil || result.DrawDate.After(latest.DrawDate) {
			latest = result
		}
	}
	if latest == nil {
		return nil, ErrResultNotFound
	}
	copied := *latest
	return &copied, nil
}

func (r *MemoryRepository) GetResultsByGame(ctx context.Context, gameID string) ([]Result, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	var results []Result
	for _, result := range r.results {
		if result.GameID == gameID {
			results = append(results, *result)
		}
	}
	return results, nil
}

func (r *MemoryRepository) CreateWinning(ctx context.Context, winning *Winning) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	copied := *winning
	r.winnings[winning.BetID] = &copied
	return nil
}

func (r *MemoryRepository) GetWinningByBet(ctx context.Context, betID string) (*Winning, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	winning, ok := r.winnings[betID]
	if !ok {
		return nil, ErrWinningNotFound
	}
	copied := *winning
	return &copied, nil
}

func (r *MemoryRepository) GetAllWinnings(ctx context.Context) ([]Winning, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	winnings := make([]Winning, 0, len(r.winnings))
	for _, winning := range r.winnings {
		winnings = append(winnings, *winning)
	}
	return winnings, nil
}
