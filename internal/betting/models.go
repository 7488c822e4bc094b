package betting

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type Game struct {
	GameID          string          `gorm:"column:game_id;primaryKey;type:uuid"`
	GameType        string          `gorm:"column:game_type;type:varchar(20);not null;unique"` // "virtual", "minor", "major", "mega", "noon", "night", "aviator"
	Name            string          `gorm:"column:name;type:varchar(100);not null"`
	Description     string          `gorm:"column:description;type:text"`
	MinNumber       int             `gorm:"column:min_number;not null"`
	MaxNumber       int             `gorm:"column:max_number;not null"`
	MinOdds         decimal.Decimal `gorm:"column:min_odds;type:numeric(6,2);not null"`
	MaxOdds         decimal.Decimal `gorm:"column:max_odds;type:numeric(6,2);not null"`
	NumbersToSelect int             `gorm:"column:numbers_to_select;not null"`
	MinMatches      int             `gorm:"column:min_matches;not null"`
	HasBonus        bool            `gorm:"column:has_bonus;not null;default:false"`
	CreatedAt       time.Time       `gorm:"column:created_at;not null"`
	UpdatedAt       time.Time       `gorm:"column:updated_at;not null"`
}

type Bet struct {
	BetID            string          `gorm:"column:bet_id;primaryKey;type:uuid"`
	GameID           string          `gorm:"column:game_id;type:uuid;not null"`
	SelectedNumbers  string          `gorm:"column:selected_numbers;type:text;not null"` // JSON array
	BonusNumber      *int            `gorm:"column:bonus_number"`
	StakeAmount      decimal.Decimal `gorm:"column:stake_amount;type:numeric(20,2);not null"`
	PotentialWinning decimal.Decimal `gorm:"column:potential_winning;type:numeric(20,2);not null;default:0"`
	Status           string          `gorm:"column:status;type:varchar(20);not null;default:'pending'"` // "pending", "won", "lost"
	Payout           decimal.Decimal `gorm:"column:payout;type:numeric(20,2);not null;default:0"`
	ResultID         *string         `gorm:"column:result_id;type:uuid"`
	CreatedAt        time.Time       `gorm:"column:created_at;not null"`
}

type Result struct {
	ResultID       string    `gorm:"column:result_id;primaryKey;type:uuid"`
	GameID         string    `gorm:"column:game_id;type:uuid;not null"`
	DrawDate       time.Time `gorm:"column:draw_date;not null"`
	WinningNumbers string    `gorm:"column:winning_numbers;type:text;not null"` // JSON array
	BonusNumber    *int      `gorm:"column:bonus_number"`
	Odds           string    `gorm:"column:odds;type:text;not null"` // JSON array, aligned with winning numbers
	CreatedAt      time.Time `gorm:"column:created_at;not null"`
}

type Winning struct {
	WinningID      string          `gorm:"column:winning_id;primaryKey;type:uuid"`
	BetID          string          `gorm:"column:bet_id;type:uuid;not null;unique"` // one settlement per bet
	ResultID       string          `gorm:"column:result_id;type:uuid;not null"`
	MatchedNumbers string          `gorm:"column:matched_numbers;type:text;not null"` // JSON array
	MatchedCount   int             `gorm:"column:matched_count;not null"`
	WinningAmount  decimal.Decimal `gorm:"column:winning_amount;type:numeric(20,2);not null"`
	CreatedAt      time.Time       `gorm:"column:created_at;not null"`
}

type PlaceBetRequest struct {
	GameID          string          `json:"game_id"`
	SelectedNumbers []int           `json:"selected_numbers"`
	BonusNumber     *int            `json:"bonus_number"`
	StakeAmount     decimal.Decimal `json:"stake_amount"`
}

type CreateResultRequest struct {
	GameID         string            `json:"game_id"`
	DrawDate       time.Time         `json:"draw_date"`
	WinningNumbers []int             `json:"winning_numbers"`
	BonusNumber    *int              `json:"bonus_number"`
	Odds           []decimal.Decimal `json:"odds"`
}

type CheckWinningResponse struct {
	Won                 bool     `json:"won"`
	Winning             *Winning `json:"winning,omitempty"`
	MatchedCount        int      `json:"matched_count"`
	MatchedNumbers      []int    `json:"matched_numbers,omitempty"`
	BonusMatched        bool     `json:"bonus_matched"`
	HouseEdgeApplied    bool     `json:"house_edge_applied"`
	LimitApplied        bool     `json:"limit_applied"`
	SingleWinCapApplied bool     `json:"single_win_cap_applied"`
	DailyCapApplied     bool     `json:"daily_cap_applied"`
	Message             string   `json:"message,omitempty"`
}

const (
	BetStatusPending = "pending"
	BetStatusWon     = "won"
	BetStatusLost    = "lost"
)

const (
	GameTypeVirtual = "virtual"
	GameTypeMinor   = "minor"
	GameTypeMajor   = "major"
	GameTypeMega    = "mega"
	GameTypeNoon    = "noon"
	GameTypeNight   = "night"
	GameTypeAviator = "aviator"
)

func encodeNumbers(numbers []int) string {
	b, _ := json.Marshal(numbers)
	return string(b)
}

func decodeNumbers(raw string) ([]int, error) {
	var numbers []int
	if err := json.Unmarshal([]byte(raw), &numbers); err != nil {
		return nil, err
	}
	return numbers, nil
}

func encodeOdds(odds []decimal.Decimal) string {
	b, _ := json.Marshal(odds)
	return string(b)
}

func decodeOdds(raw string) ([]decimal.Decimal, error) {
	var odds []decimal.Decimal
	if err := json.Unmarshal([]byte(raw), &odds); err != nil {
		return nil, err
	}
	return odds, nil
}
