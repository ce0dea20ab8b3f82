package book

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"

	"orderbook_go/internal/domain"
)

var (
	testBase  = domain.TokenInfo{Address: "0xbase", Symbol: "WETH", Decimals: 18}
	testQuote = domain.TokenInfo{Address: "0xquote", Symbol: "ZRX", Decimals: 18}
	testPair  = domain.TradingPair{Base: testBase, Quote: testQuote}
)

// newBid builds an order offering `size` base for `price*size` quote.
func newBid(salt string, price int64, size int64) *domain.Order {
	return &domain.Order{
		MakerTokenAddress: testBase.Address,
		TakerTokenAddress: testQuote.Address,
		MakerTokenAmount:  decimal.NewFromInt(size).Shift(int32(testBase.Decimals)),
		TakerTokenAmount:  decimal.NewFromInt(price * size).Shift(int32(testQuote.Decimals)),
		Salt:              salt,
	}
}

// newAsk builds an order offering `price*size` quote for `size` base.
func newAsk(salt string, price int64, size int64) *domain.Order {
	return &domain.Order{
		MakerTokenAddress: testQuote.Address,
		TakerTokenAddress: testBase.Address,
		MakerTokenAmount:  decimal.NewFromInt(price * size).Shift(int32(testQuote.Decimals)),
		TakerTokenAmount:  decimal.NewFromInt(size).Shift(int32(testBase.Decimals)),
		Salt:              salt,
	}
}

func TestComputeDetail(t *testing.T) {
	t.Run("Exact Scaling", func(t *testing.T) {
		// maker 1000000 at 6 decimals, taker 2000000000000000000 at 18
		// decimals must yield exactly 1 and 2.
		usdc := domain.TokenInfo{Address: "0xusdc", Symbol: "USDC", Decimals: 6}
		weth := domain.TokenInfo{Address: "0xweth", Symbol: "WETH", Decimals: 18}
		pair := domain.TradingPair{Base: usdc, Quote: weth}

		order := &domain.Order{
			MakerTokenAddress: usdc.Address,
			TakerTokenAddress: weth.Address,
			MakerTokenAmount:  decimal.RequireFromString("1000000"),
			TakerTokenAmount:  decimal.RequireFromString("2000000000000000000"),
		}

		detail, err := ComputeDetail(order, pair)
		if err != nil {
			t.Fatalf("ComputeDetail failed: %v", err)
		}
		if !detail.BaseQty.Equal(decimal.NewFromInt(1)) {
			t.Errorf("expected base quantity 1, got %s", detail.BaseQty)
		}
		if !detail.QuoteQty.Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected quote quantity 2, got %s", detail.QuoteQty)
		}
		if !detail.Price.Equal(decimal.NewFromInt(2)) {
			t.Errorf("expected price 2, got %s", detail.Price)
		}
		if !detail.Bid {
			t.Error("maker leg in base denotes a bid")
		}
	})

	t.Run("Ask Orientation", func(t *testing.T) {
		detail, err := ComputeDetail(newAsk("1", 12, 1), testPair)
		if err != nil {
			t.Fatalf("ComputeDetail failed: %v", err)
		}
		if detail.Bid {
			t.Error("maker leg in quote denotes an ask")
		}
		if !detail.Price.Equal(decimal.NewFromInt(12)) {
			t.Errorf("expected price 12, got %s", detail.Price)
		}
	})

	t.Run("Zero Base Is Unpriced Not Error", func(t *testing.T) {
		order := &domain.Order{
			MakerTokenAddress: testBase.Address,
			TakerTokenAddress: testQuote.Address,
			MakerTokenAmount:  decimal.Zero,
			TakerTokenAmount:  decimal.NewFromInt(10).Shift(18),
		}

		detail, err := ComputeDetail(order, testPair)
		if err != nil {
			t.Fatalf("zero base must not be an error: %v", err)
		}
		if detail.Priced {
			t.Error("zero base quantity must yield the unpriced sentinel")
		}
		if !detail.Bid {
			t.Error("bid/ask orientation is still known for unpriced orders")
		}
	})

	t.Run("Foreign Leg Is Unpriceable", func(t *testing.T) {
		order := &domain.Order{
			MakerTokenAddress: "0xsomethingelse",
			TakerTokenAddress: testQuote.Address,
			MakerTokenAmount:  decimal.NewFromInt(1),
			TakerTokenAmount:  decimal.NewFromInt(1),
		}

		if _, err := ComputeDetail(order, testPair); !errors.Is(err, domain.ErrUnpriceable) {
			t.Errorf("expected ErrUnpriceable, got %v", err)
		}
	})

	t.Run("Both Legs Same Token Is Unpriceable", func(t *testing.T) {
		order := &domain.Order{
			MakerTokenAddress: testBase.Address,
			TakerTokenAddress: testBase.Address,
			MakerTokenAmount:  decimal.NewFromInt(1),
			TakerTokenAmount:  decimal.NewFromInt(1),
		}

		if _, err := ComputeDetail(order, testPair); !errors.Is(err, domain.ErrUnpriceable) {
			t.Errorf("expected ErrUnpriceable, got %v", err)
		}
	})

	t.Run("Deterministic", func(t *testing.T) {
		order := newBid("7", 3, 7)

		a, err := ComputeDetail(order, testPair)
		if err != nil {
			t.Fatalf("ComputeDetail failed: %v", err)
		}
		b, err := ComputeDetail(order, testPair)
		if err != nil {
			t.Fatalf("ComputeDetail failed: %v", err)
		}

		// Bit-identical, not merely numerically equal.
		if a.Price.String() != b.Price.String() {
			t.Errorf("price drifted between calls: %s vs %s", a.Price, b.Price)
		}
		if a.BaseQty.String() != b.BaseQty.String() || a.QuoteQty.String() != b.QuoteQty.String() {
			t.Error("quantities drifted between calls")
		}
	})
}
