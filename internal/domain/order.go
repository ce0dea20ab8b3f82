package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/shopspring/decimal"
)

// Order is a signed limit order as delivered by the relayer feed.
// Amounts are raw on-chain integers (no decimal scaling applied).
// An order is immutable once received.
type Order struct {
	Maker             string          `json:"maker"`
	Taker             string          `json:"taker"`
	MakerTokenAddress string          `json:"makerTokenAddress"`
	TakerTokenAddress string          `json:"takerTokenAddress"`
	MakerTokenAmount  decimal.Decimal `json:"makerTokenAmount"`
	TakerTokenAmount  decimal.Decimal `json:"takerTokenAmount"`
	ExpirationUnixSec int64           `json:"expirationUnixTimestampSec,string"`
	Salt              string          `json:"salt"`

	// Memoized content hash, computed on first Hash() call.
	hash string
}

// Hash returns the order's identity: a hex sha256 over the canonical
// field serialization. Orders with identical fields share a hash.
func (o *Order) Hash() string {
	if o.hash != "" {
		return o.hash
	}

	fields := []string{
		strings.ToLower(o.Maker),
		strings.ToLower(o.Taker),
		strings.ToLower(o.MakerTokenAddress),
		strings.ToLower(o.TakerTokenAddress),
		o.MakerTokenAmount.String(),
		o.TakerTokenAmount.String(),
		decimal.NewFromInt(o.ExpirationUnixSec).String(),
		o.Salt,
	}

	sum := sha256.Sum256([]byte(strings.Join(fields, "|")))
	o.hash = "0x" + hex.EncodeToString(sum[:])
	return o.hash
}

// OrderDetail is the derived pricing view of an order under one trading
// pair. Priced == false is the not-a-number sentinel: the order is held
// in the book but excluded from mid-price and best-price queries.
type OrderDetail struct {
	Price    decimal.Decimal
	BaseQty  decimal.Decimal
	QuoteQty decimal.Decimal
	Bid      bool
	Priced   bool
}
