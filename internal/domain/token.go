package domain

import (
	"strings"
	"time"
)

// TokenInfo represents metadata for a tradable token
type TokenInfo struct {
	Address   string    `gorm:"primaryKey" json:"address"`
	Symbol    string    `json:"symbol" gorm:"index"`
	Name      string    `json:"name"`
	Decimals  int       `json:"decimals"` // Scaling precision for raw amounts
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TradingPair defines which token is base and which is quote for the
// currently displayed market. Price is always quote-per-base.
type TradingPair struct {
	Base  TokenInfo
	Quote TokenInfo
}

// Symbol returns the display ticker, e.g. "WETH/ZRX".
func (p TradingPair) Symbol() string {
	return p.Base.Symbol + "/" + p.Quote.Symbol
}

// Equal compares pairs by token address only.
func (p TradingPair) Equal(other TradingPair) bool {
	return strings.EqualFold(p.Base.Address, other.Base.Address) &&
		strings.EqualFold(p.Quote.Address, other.Quote.Address)
}

// Validate checks that the pair is usable for pricing.
func (p TradingPair) Validate() error {
	if p.Base.Address == "" || p.Quote.Address == "" {
		return ErrInvalidPair
	}
	if strings.EqualFold(p.Base.Address, p.Quote.Address) {
		return ErrInvalidPair
	}
	if p.Base.Decimals < 0 || p.Quote.Decimals < 0 {
		return ErrInvalidPair
	}
	return nil
}
