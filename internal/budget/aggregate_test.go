package budget

import (
	"math"
	"testing"
)

func TestAggregateConcreteScenario(t *testing.T) {
	items := []CartItem{{
		Name:      "Panel solar 450W",
		UnitPrice: 1000,
		Cost:      600,
		Labor:     100,
		Profit:    400,
		Quantity:  3,
	}}

	got := Aggregate(items, 10)

	if got.Subtotal != 3000 {
		t.Fatalf("subtotal = %v, want 3000", got.Subtotal)
	}
	if got.DiscountAmount != 300 {
		t.Fatalf("discount amount = %v, want 300", got.DiscountAmount)
	}
	if got.GrandTotal != 2700 {
		t.Fatalf("grand total = %v, want 2700", got.GrandTotal)
	}
	if got.TotalCost != 1800 {
		t.Fatalf("total cost = %v, want 1800", got.TotalCost)
	}
	if got.TotalLabor != 300 {
		t.Fatalf("total labor = %v, want 300", got.TotalLabor)
	}
	if got.TotalProfit != 1200 {
		t.Fatalf("total profit = %v, want 1200", got.TotalProfit)
	}
	if got.ProfitMarginPercent != 40.0 {
		t.Fatalf("profit margin = %v, want 40.0", got.ProfitMarginPercent)
	}
}

func TestAggregateAdditivity(t *testing.T) {
	items := []CartItem{
		{UnitPrice: 19.99, Cost: 12, Labor: 3, Profit: 7.99, Quantity: 7},
		{UnitPrice: 530, Cost: 410.4, Labor: 0, Profit: 119.6, Quantity: 2},
		{UnitPrice: 0.5, Cost: 0.2, Labor: 0.1, Profit: 0.3, Quantity: 100},
	}

	zero := Aggregate(items, 0)
	var wantSubtotal float64
	for _, it := range items {
		wantSubtotal += it.UnitPrice * float64(it.Quantity)
	}
	if zero.Subtotal != wantSubtotal {
		t.Fatalf("subtotal = %v, want exact sum %v", zero.Subtotal, wantSubtotal)
	}
	if zero.DiscountAmount != 0 || zero.GrandTotal != zero.Subtotal {
		t.Fatalf("zero discount must keep grand total equal to subtotal")
	}

	discounted := Aggregate(items, 15)
	want := wantSubtotal * (1 - 15.0/100)
	if math.Abs(discounted.GrandTotal-want) > 1e-9 {
		t.Fatalf("grand total = %v, want %v", discounted.GrandTotal, want)
	}
}

func TestAggregateEmptyCart(t *testing.T) {
	got := Aggregate(nil, 50)
	if got.Subtotal != 0 || got.DiscountAmount != 0 || got.GrandTotal != 0 {
		t.Fatalf("empty cart must aggregate to zero, got %+v", got)
	}
	if got.TotalCost != 0 || got.TotalLabor != 0 || got.TotalProfit != 0 {
		t.Fatalf("empty cart must aggregate to zero, got %+v", got)
	}
	if got.ProfitMarginPercent != 0 {
		t.Fatalf("empty cart margin must be 0 without dividing, got %v", got.ProfitMarginPercent)
	}
}

func TestAggregateMarginRounding(t *testing.T) {
	items := []CartItem{{UnitPrice: 300, Cost: 200, Profit: 100, Quantity: 1}}
	got := Aggregate(items, 0)
	// 100/300 = 33.333...%, rounded to one decimal.
	if got.ProfitMarginPercent != 33.3 {
		t.Fatalf("margin = %v, want 33.3", got.ProfitMarginPercent)
	}
}
