package book

import "github.com/shopspring/decimal"

var two = decimal.NewFromInt(2)

// midPrice derives the mid-market price from the best bid and best ask.
//
// Both sides priced: midpoint of best bid and best ask. Only asks
// priced: the best ask stands in for the market. No priced asks: no
// price can be inferred with no sellers, so ok is false (the NaN case).
func midPrice(bids, asks *OrderedSide) (decimal.Decimal, bool) {
	_, askDetail, ok := asks.Best()
	if !ok || !askDetail.Priced {
		return decimal.Decimal{}, false
	}

	_, bidDetail, ok := bids.Best()
	if !ok || !bidDetail.Priced {
		return askDetail.Price, true
	}

	return bidDetail.Price.Add(askDetail.Price).Div(two), true
}
