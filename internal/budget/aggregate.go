package budget

import "math"

// Totals is the aggregate view of a cart. Subtotal and GrandTotal are the
// client-facing numbers; TotalCost, TotalLabor, TotalProfit and the margin
// feed the internal view.
type Totals struct {
	Subtotal            float64 `json:"subtotal"`
	DiscountPercent     float64 `json:"discount_percent"`
	DiscountAmount      float64 `json:"discount_amount"`
	GrandTotal          float64 `json:"grand_total"`
	TotalCost           float64 `json:"total_cost"`
	TotalLabor          float64 `json:"total_labor"`
	TotalProfit         float64 `json:"total_profit"`
	ProfitMarginPercent float64 `json:"profit_margin_percent"`
}

// Aggregate folds the cart into its totals. It is pure and zero-safe: an
// empty cart yields all zeros, and the margin guards against a zero
// subtotal. Labor accumulates on its own axis and never contributes to the
// subtotal. Callers are expected to clamp discountPercent to [0,100] before
// calling.
func Aggregate(items []CartItem, discountPercent float64) Totals {
	t := Totals{DiscountPercent: discountPercent}

	for _, item := range items {
		qty := float64(item.Quantity)
		t.Subtotal += item.UnitPrice * qty
		t.TotalCost += item.Cost * qty
		t.TotalLabor += item.Labor * qty
		t.TotalProfit += item.Profit * qty
	}

	t.DiscountAmount = t.Subtotal * discountPercent / 100
	t.GrandTotal = t.Subtotal - t.DiscountAmount

	if t.Subtotal > 0 {
		t.ProfitMarginPercent = roundOneDecimal(t.TotalProfit / t.Subtotal * 100)
	}

	return t
}

func roundOneDecimal(v float64) float64 {
	return math.Round(v*10) / 10
}
