package betting

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"betting_service/internal/engine"
)

var (
	ErrNoNumbersSelected = errors.New("at least one number must be selected")
	ErrTooManyNumbers    = errors.New("too many numbers selected for this game")
	ErrNumberOutOfRange  = errors.New("selected number is outside the game's range")
	ErrStakeTooSmall     = errors.New("stake amount is below the minimum")
	ErrInvalidShortCode  = errors.New("short code must be 8 characters")
	ErrOddsMismatch      = errors.New("odds must align with winning numbers")
)

var (
	minStake        = decimal.NewFromInt(1)
	bonusMultiplier = decimal.NewFromFloat(1.5)
)

// Service is the bet-settlement collaborator: it validates and stores bets,
// matches them against draw results and hands raw winnings to the payout
// engine. The mutex makes the check-and-settle sequence atomic per process,
// so re-checking a bet concurrently can never settle it twice.
type Service struct {
	repo   Repository
	engine *engine.Engine
	mu     sync.Mutex
}

func NewService(repo Repository, eng *engine.Engine) *Service {
	return &Service{repo: repo, engine: eng}
}

// PlaceBet validates the request against the game's rules, records the stake
// on the daily ledger and stores the bet with its theoretical maximum
// winning (house edge applied, daily limits not).
func (s *Service) PlaceBet(ctx context.Context, req PlaceBetRequest) (*Bet, error) {
	game, err := s.repo.GetGame(ctx, req.GameID)
	if err != nil {
		return nil, err
	}

	if len(req.SelectedNumbers) == 0 {
		return nil, ErrNoNumbersSelected
	}
	if len(req.SelectedNumbers) > game.NumbersToSelect {
		return nil, ErrTooManyNumbers
	}
	for _, n := range req.SelectedNumbers {
		if n < game.MinNumber || n > game.MaxNumber {
			return nil, ErrNumberOutOfRange
		}
	}
	if req.StakeAmount.LessThan(minStake) {
		return nil, ErrStakeTooSmall
	}

	s.engine.RecordStake(req.StakeAmount)

	// Theoretical maximum with house edge only; daily limits apply at
	// settlement time, not here.
	baseMax := req.StakeAmount
	if len(req.SelectedNumbers) == game.NumbersToSelect {
		baseMax = game.MaxOdds.Pow(decimal.NewFromInt(int64(game.MinMatches))).Mul(req.StakeAmount)
	}
	cfg := s.engine.Config()
	edgeMultiplier := decimal.NewFromInt(100).Sub(cfg.HouseEdgePercentage).Div(decimal.NewFromInt(100))
	potential := baseMax.Mul(edgeMultiplier)

	bet := &Bet{
		BetID:            uuid.New().String(),
		GameID:           game.GameID,
		SelectedNumbers:  encodeNumbers(req.SelectedNumbers),
		BonusNumber:      req.BonusNumber,
		StakeAmount:      req.StakeAmount,
		PotentialWinning: potential,
		Status:           BetStatusPending,
		Payout:           decimal.Zero,
		CreatedAt:        time.Now(),
	}
	if err := s.repo.CreateBet(ctx, bet); err != nil {
		return nil, err
	}

	log.Printf("Bet placed: bet_id=%s game=%s stake=%s potential=%s",
		bet.BetID, game.GameType, bet.StakeAmount.String(), potential.StringFixed(2))
	return bet, nil
}

// CheckWinning settles a bet against the latest draw of its game. The first
// call computes and persists the winning; every later call replays the
// stored winning and metadata without touching the ledger again.
func (s *Service) CheckWinning(ctx context.Context, betID string) (*CheckWinningResponse, error) {
	bet, err := s.repo.GetBet(ctx, betID)
	if err != nil {
		return nil, err
	}
	result, err := s.repo.GetLatestResult(ctx, bet.GameID)
	if err != nil {
		return nil, err
	}
	game, err := s.repo.GetGame(ctx, bet.GameID)
	if err != nil {
		return nil, err
	}

	selected, err := decodeNumbers(bet.SelectedNumbers)
	if err != nil {
		return nil, fmt.Errorf("corrupt selected numbers for bet %s: %w", bet.BetID, err)
	}
	winningNumbers, err := decodeNumbers(result.WinningNumbers)
	if err != nil {
		return nil, fmt.Errorf("corrupt winning numbers for result %s: %w", result.ResultID, err)
	}
	odds, err := decodeOdds(result.Odds)
	if err != nil {
		return nil, fmt.Errorf("corrupt odds for result %s: %w", result.ResultID, err)
	}

	matchedNumbers := matchNumbers(selected, winningNumbers)
	matchedCount := len(matchedNumbers)

	bonusMatched := bet.BonusNumber != nil && result.BonusNumber != nil &&
		*bet.BonusNumber == *result.BonusNumber

	// Atomic check-and-settle for this process: the existing-winning lookup
	// and the engine call must not interleave with another check of the
	// same bet.
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.repo.GetWinningByBet(ctx, bet.BetID)
	if err != nil && !errors.Is(err, ErrWinningNotFound) {
		return nil, err
	}

	if existing != nil && matchedCount >= game.MinMatches {
		// Already settled: replay stored metadata, no recomputation.
		var metadata engine.WinningMetadata
		if stored, mdErr := s.engine.WinningMetadata(bet.BetID); mdErr == nil {
			metadata = *stored
		}
		return s.winningResponse(existing, matchedNumbers, bonusMatched, metadata), nil
	}

	if matchedCount >= game.MinMatches {
		baseWinning := rawWinning(matchedNumbers, winningNumbers, odds, bet.StakeAmount)
		if bonusMatched && game.HasBonus {
			baseWinning = baseWinning.Mul(bonusMultiplier)
		}

		calc, err := s.engine.CalculateWinningAmount(baseWinning, bet.StakeAmount, bet.BetID)
		if err != nil {
			return nil, fmt.Errorf("failed to calculate winning for bet %s: %w", bet.BetID, err)
		}
		if calc.FinalAmount.IsPositive() {
			s.engine.RecordPayout(calc.FinalAmount)
		}

		winning := &Winning{
			WinningID:      uuid.New().String(),
			BetID:          bet.BetID,
			ResultID:       result.ResultID,
			MatchedNumbers: encodeNumbers(matchedNumbers),
			MatchedCount:   matchedCount,
			WinningAmount:  calc.FinalAmount,
			CreatedAt:      time.Now(),
		}
		if err := s.repo.CreateWinning(ctx, winning); err != nil {
			return nil, err
		}
		if err := s.repo.UpdateBetOutcome(ctx, bet.BetID, BetStatusWon, calc.FinalAmount, result.ResultID); err != nil {
			return nil, err
		}

		log.Printf("Winning settled: bet_id=%s matched=%d base=%s final=%s",
			bet.BetID, matchedCount, baseWinning.StringFixed(2), calc.FinalAmount.StringFixed(2))
		return s.winningResponse(winning, matchedNumbers, bonusMatched, calc.Metadata), nil
	}

	if err := s.repo.UpdateBetOutcome(ctx, bet.BetID, BetStatusLost, decimal.Zero, result.ResultID); err != nil {
		return nil, err
	}
	return &CheckWinningResponse{
		Won:            false,
		MatchedCount:   matchedCount,
		MatchedNumbers: matchedNumbers,
		BonusMatched:   bonusMatched,
		Message:        fmt.Sprintf("Matched %d numbers, need at least %d to win", matchedCount, game.MinMatches),
	}, nil
}

// FindBetByCode resolves the first 8 characters of a bet id to the full id.
func (s *Service) FindBetByCode(ctx context.Context, code string) (string, error) {
	if len(code) != 8 {
		return "", ErrInvalidShortCode
	}
	code = strings.ToLower(code)

	bets, err := s.repo.GetAllBets(ctx)
	if err != nil {
		return "", err
	}
	for _, bet := range bets {
		if strings.HasPrefix(strings.ToLower(bet.BetID), code) {
			return bet.BetID, nil
		}
	}
	return "", ErrBetNotFound
}

// CreateResult stores an externally supplied draw result.
func (s *Service) CreateResult(ctx context.Context, req CreateResultRequest) (*Result, error) {
	if _, err := s.repo.GetGame(ctx, req.GameID); err != nil {
		return nil, err
	}
	if len(req.WinningNumbers) == 0 {
		return nil, ErrNoNumbersSelected
	}
	if len(req.Odds) != len(req.WinningNumbers) {
		return nil, ErrOddsMismatch
	}

	drawDate := req.DrawDate
	if drawDate.IsZero() {
		drawDate = time.Now()
	}
	result := &Result{
		ResultID:       uuid.New().String(),
		GameID:         req.GameID,
		DrawDate:       drawDate,
		WinningNumbers: encodeNumbers(req.WinningNumbers),
		BonusNumber:    req.BonusNumber,
		Odds:           encodeOdds(req.Odds),
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreateResult(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

// GenerateResult draws a random result for a game: unique winning numbers
// within the game's range and per-number odds within its odds range.
func (s *Service) GenerateResult(ctx context.Context, gameID string) (*Result, error) {
	game, err := s.repo.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}

	span := game.MaxNumber - game.MinNumber + 1
	perm := rand.Perm(span)
	numbers := make([]int, game.NumbersToSelect)
	for i := range numbers {
		numbers[i] = game.MinNumber + perm[i]
	}

	oddsSpan := game.MaxOdds.Sub(game.MinOdds).InexactFloat64()
	odds := make([]decimal.Decimal, len(numbers))
	for i := range odds {
		odds[i] = game.MinOdds.Add(decimal.NewFromFloat(rand.Float64() * oddsSpan)).RoundFloor(2)
	}

	var bonusNumber *int
	if game.HasBonus {
		n := game.MinNumber + rand.Intn(span)
		bonusNumber = &n
	}

	result := &Result{
		ResultID:       uuid.New().String(),
		GameID:         game.GameID,
		DrawDate:       time.Now(),
		WinningNumbers: encodeNumbers(numbers),
		BonusNumber:    bonusNumber,
		Odds:           encodeOdds(odds),
		CreatedAt:      time.Now(),
	}
	if err := s.repo.CreateResult(ctx, result); err != nil {
		return nil, err
	}
	log.Printf("Result generated: result_id=%s game=%s numbers=%v", result.ResultID, game.GameType, numbers)
	return result, nil
}

func (s *Service) winningResponse(winning *Winning, matchedNumbers []int, bonusMatched bool, metadata engine.WinningMetadata) *CheckWinningResponse {
	return &CheckWinningResponse{
		Won:                 true,
		Winning:             winning,
		MatchedCount:        winning.MatchedCount,
		MatchedNumbers:      matchedNumbers,
		BonusMatched:        bonusMatched,
		HouseEdgeApplied:    metadata.HouseEdgeApplied,
		LimitApplied:        metadata.SingleWinCapApplied || metadata.DailyCapApplied,
		SingleWinCapApplied: metadata.SingleWinCapApplied,
		DailyCapApplied:     metadata.DailyCapApplied,
		Message:             cappingMessage(metadata, winning.WinningAmount),
	}
}

// matchNumbers intersects the player's selection with the draw, counting
// duplicated selections only once and preserving selection order.
func matchNumbers(selected, winning []int) []int {
	drawn := make(map[int]bool, len(winning))
	for _, n := range winning {
		drawn[n] = true
	}

	seen := make(map[int]bool, len(selected))
	var matched []int
	for _, n := range selected {
		if seen[n] {
			continue
		}
		seen[n] = true
		if drawn[n] {
			matched = append(matched, n)
		}
	}
	return matched
}

// rawWinning multiplies the odds of every matched number together, then by
// the stake. A matched number without a published odd counts as 1.
func rawWinning(matched, winning []int, odds []decimal.Decimal, stake decimal.Decimal) decimal.Decimal {
	product := decimal.NewFromInt(1)
	for _, n := range matched {
		odd := decimal.NewFromInt(1)
		for i, w := range winning {
			if w == n && i < len(odds) {
				odd = odds[i]
				break
			}
		}
		product = product.Mul(odd)
	}
	return product.Mul(stake)
}

// cappingMessage derives the player-facing explanation purely from the
// metadata flags and the final amount.
func cappingMessage(metadata engine.WinningMetadata, amount decimal.Decimal) string {
	switch {
	case metadata.SingleWinCapApplied && metadata.DailyCapApplied:
		if amount.IsZero() {
			return "Congratulations! You matched the winning numbers, but both the maximum single win limit and today's daily payout limit have been reached."
		}
		return "Congratulations! Your winning has been capped by both the maximum single win limit and daily payout limits."
	case metadata.DailyCapApplied:
		if amount.IsZero() {
			return "Congratulations! You matched the winning numbers, but today's daily payout limit has been reached. Please check back tomorrow."
		}
		return "Congratulations! Your winning has been capped due to daily payout limits."
	case metadata.SingleWinCapApplied:
		return "Congratulations! Your winning has been capped due to maximum single win limits."
	case metadata.HouseEdgeApplied:
		return "Congratulations! You won!"
	}
	return ""
}
