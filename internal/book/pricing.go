package book

import (
	"strings"

	"orderbook_go/internal/domain"
)

// ComputeDetail derives the pricing view of an order under a pair.
//
// Each leg's raw integer amount is scaled by 10^-decimals of its token,
// so quantities are exact decimals, never floats. An order is a bid when
// its maker leg is denominated in the base token (the maker gives up
// base and wants quote). Price is quote-per-base.
//
// A zero base quantity yields a detail with Priced == false rather than
// an error: such orders are stored but never participate in mid-price.
// An order with a leg matching neither side of the pair returns
// domain.ErrUnpriceable.
func ComputeDetail(order *domain.Order, pair domain.TradingPair) (*domain.OrderDetail, error) {
	makerToken, ok := resolveLeg(order.MakerTokenAddress, pair)
	if !ok {
		return nil, domain.ErrUnpriceable
	}
	takerToken, ok := resolveLeg(order.TakerTokenAddress, pair)
	if !ok {
		return nil, domain.ErrUnpriceable
	}
	if strings.EqualFold(makerToken.Address, takerToken.Address) {
		// Both legs resolved to the same side of the pair.
		return nil, domain.ErrUnpriceable
	}

	makerQty := order.MakerTokenAmount.Shift(int32(-makerToken.Decimals))
	takerQty := order.TakerTokenAmount.Shift(int32(-takerToken.Decimals))

	isBid := strings.EqualFold(pair.Base.Address, makerToken.Address)

	detail := &domain.OrderDetail{Bid: isBid}
	if isBid {
		detail.BaseQty = makerQty
		detail.QuoteQty = takerQty
	} else {
		detail.BaseQty = takerQty
		detail.QuoteQty = makerQty
	}

	if detail.BaseQty.IsZero() {
		// Division by zero base yields the unpriced sentinel, not an error.
		return detail, nil
	}

	detail.Price = detail.QuoteQty.Div(detail.BaseQty)
	detail.Priced = true
	return detail, nil
}

// resolveLeg maps a leg's token address onto the pair's base or quote token.
func resolveLeg(address string, pair domain.TradingPair) (domain.TokenInfo, bool) {
	if strings.EqualFold(address, pair.Base.Address) {
		return pair.Base, true
	}
	if strings.EqualFold(address, pair.Quote.Address) {
		return pair.Quote, true
	}
	return domain.TokenInfo{}, false
}
