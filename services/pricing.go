package services

import "github.com/shopspring/decimal"

var (
	// 10 points buy 1 unit of discount
	pointsPerUnit = decimal.NewFromInt(10)
	// discount never exceeds 20% of the subtotal
	maxDiscountRate = decimal.RequireFromString("0.20")
)

type PriceInput struct {
	NightlyRate    decimal.Decimal
	Rooms          int
	Nights         int
	PointsToRedeem int
	PointsBalance  int
}

type Quote struct {
	SubTotal       decimal.Decimal
	PointsDiscount decimal.Decimal
	PointsRedeemed int
	Total          decimal.Decimal
}

// Price never fails: an unusable redemption request is ignored, not rejected.
func Price(in PriceInput) Quote {
	subTotal := in.NightlyRate.
		Mul(decimal.NewFromInt(int64(in.Rooms))).
		Mul(decimal.NewFromInt(int64(in.Nights)))

	q := Quote{
		SubTotal:       subTotal,
		PointsDiscount: decimal.Zero,
		Total:          subTotal,
	}
	if in.PointsToRedeem <= 0 || in.PointsToRedeem > in.PointsBalance {
		return q
	}

	requested := decimal.NewFromInt(int64(in.PointsToRedeem)).Div(pointsPerUnit)
	// the 20% cap can carry a third decimal place; cut it so the stored
	// discount stays under the cap
	discount := decimal.Min(requested, subTotal.Mul(maxDiscountRate)).Truncate(2)
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	q.PointsDiscount = discount
	q.PointsRedeemed = int(discount.Mul(pointsPerUnit).Floor().IntPart())
	q.Total = subTotal.Sub(discount)
	return q
}
