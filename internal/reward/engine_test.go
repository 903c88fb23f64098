package reward

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := ParseDate(value)
	if err != nil {
		t.Fatalf("parse date %q: %v", value, err)
	}
	return d
}

func dec(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

func testProducts() []Product {
	return []Product{
		{ID: "PRD01", Name: "Vortex 95", Category: "Fuel", UnitPrice: dec("1.2")},
		{ID: "PRD02", Name: "Vortex 98", Category: "Fuel", UnitPrice: dec("1.3")},
		{ID: "PRD04", Name: "Twix 55g", Category: "Shop", UnitPrice: dec("2.3")},
	}
}

func TestResolveBasketDropsUnknownProducts(t *testing.T) {
	lines := []BasketLine{
		{ProductID: "PRD01", UnitPrice: "10.00", Quantity: "2"},
		{ProductID: "NOPE", UnitPrice: "99.00", Quantity: "5"},
	}
	resolved, subtotal := ResolveBasket(lines, testProducts())
	if len(resolved) != 1 {
		t.Fatalf("expected 1 resolved line, got %d", len(resolved))
	}
	if resolved[0].Category != "Fuel" {
		t.Fatalf("expected Fuel category, got %s", resolved[0].Category)
	}
	if !subtotal.Equal(dec("20.00")) {
		t.Fatalf("expected subtotal 20.00, got %s", subtotal)
	}
}

func TestResolveBasketUnparseableTextIsZero(t *testing.T) {
	lines := []BasketLine{
		{ProductID: "PRD01", UnitPrice: "ten", Quantity: "2"},
		{ProductID: "PRD02", UnitPrice: "1.30", Quantity: "two"},
	}
	resolved, subtotal := ResolveBasket(lines, testProducts())
	if len(resolved) != 2 {
		t.Fatalf("expected 2 resolved lines, got %d", len(resolved))
	}
	if !subtotal.IsZero() {
		t.Fatalf("expected zero subtotal, got %s", subtotal)
	}
}

func TestTotalDiscountBestWins(t *testing.T) {
	at := date(t, "10-Jan-2020")
	lines := []ResolvedLine{
		{ProductID: "PRD02", Category: "Fuel", Subtotal: dec("10.00")},
	}
	promos := []DiscountPromotion{
		{ID: "DP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "15-Feb-2020"), Rate: dec("0.20"), EligibleProductIDs: []string{"PRD02"}},
		{ID: "DP010", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "15-Feb-2020"), Rate: dec("0.10"), EligibleProductIDs: []string{"PRD02"}},
	}
	discount := TotalDiscount(lines, at, promos)
	if !discount.Equal(dec("2.00")) {
		t.Fatalf("expected best-wins discount 2.00, got %s", discount)
	}
}

func TestTotalDiscountInclusiveBoundaries(t *testing.T) {
	promo := DiscountPromotion{
		ID:                 "DP001",
		StartDate:          date(t, "01-Jan-2020"),
		EndDate:            date(t, "15-Feb-2020"),
		Rate:               dec("0.20"),
		EligibleProductIDs: []string{"PRD02"},
	}
	lines := []ResolvedLine{{ProductID: "PRD02", Subtotal: dec("10.00")}}
	for _, day := range []string{"01-Jan-2020", "15-Feb-2020"} {
		if TotalDiscount(lines, date(t, day), []DiscountPromotion{promo}).IsZero() {
			t.Fatalf("expected promotion active on %s", day)
		}
	}
	for _, day := range []string{"31-Dec-2019", "16-Feb-2020"} {
		if !TotalDiscount(lines, date(t, day), []DiscountPromotion{promo}).IsZero() {
			t.Fatalf("expected promotion inactive on %s", day)
		}
	}
}

func TestTotalDiscountEmptyEligibilityAppliesToNothing(t *testing.T) {
	promo := DiscountPromotion{
		ID:        "DP002",
		StartDate: date(t, "02-Mar-2020"),
		EndDate:   date(t, "20-Mar-2020"),
		Rate:      dec("0.15"),
	}
	lines := []ResolvedLine{{ProductID: "PRD02", Subtotal: dec("10.00")}}
	if got := TotalDiscount(lines, date(t, "10-Mar-2020"), []DiscountPromotion{promo}); !got.IsZero() {
		t.Fatalf("expected zero discount, got %s", got)
	}
}

func TestSelectPointsPromotionHighestRateThenSmallestID(t *testing.T) {
	at := date(t, "10-Jan-2020")
	window := func(id, category string, rate int64) PointsPromotion {
		return PointsPromotion{
			ID:            id,
			StartDate:     date(t, "01-Jan-2020"),
			EndDate:       date(t, "30-Jan-2020"),
			Category:      category,
			PointsPerUnit: rate,
		}
	}
	promos := []PointsPromotion{
		window("PP005", CategoryAny, 3),
		window("PP002", CategoryAny, 3),
		window("PP001", CategoryAny, 2),
	}
	selected, ok := SelectPointsPromotion(at, promos)
	if !ok {
		t.Fatal("expected a selected promotion")
	}
	if selected.ID != "PP002" {
		t.Fatalf("expected tie-break to PP002, got %s", selected.ID)
	}

	// Ordering of the feed must not change the selection.
	reversed := []PointsPromotion{promos[2], promos[0], promos[1]}
	again, _ := SelectPointsPromotion(at, reversed)
	if again.ID != selected.ID {
		t.Fatalf("selection depends on feed order: %s vs %s", again.ID, selected.ID)
	}
}

func TestSelectPointsPromotionNoneActive(t *testing.T) {
	promos := []PointsPromotion{
		{ID: "PP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "30-Jan-2020"), Category: CategoryAny, PointsPerUnit: 2},
	}
	if _, ok := SelectPointsPromotion(date(t, "03-Apr-2020"), promos); ok {
		t.Fatal("expected no active promotion")
	}
}

func TestPointsEarnedAnyFloorsPayableTotal(t *testing.T) {
	at := date(t, "10-Jan-2020")
	promos := []PointsPromotion{
		{ID: "PP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "30-Jan-2020"), Category: CategoryAny, PointsPerUnit: 2},
	}
	points := PointsEarned(nil, dec("15.75"), at, nil, promos)
	if points != 30 {
		t.Fatalf("expected floor(15.75)*2 = 30 points, got %d", points)
	}
}

func TestPointsEarnedCategoryScoped(t *testing.T) {
	at := date(t, "10-Feb-2020")
	lines := []ResolvedLine{
		{ProductID: "PRD02", Category: "Fuel", Subtotal: dec("10.00")},
		{ProductID: "PRD04", Category: "Shop", Subtotal: dec("50.00")},
	}
	discounts := []DiscountPromotion{
		{ID: "DP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "15-Feb-2020"), Rate: dec("0.20"), EligibleProductIDs: []string{"PRD02"}},
	}
	promos := []PointsPromotion{
		{ID: "PP002", StartDate: date(t, "05-Feb-2020"), EndDate: date(t, "15-Feb-2020"), Category: "Fuel", PointsPerUnit: 3},
	}
	// Fuel subtotal 10.00 minus 20% discount = 8.00 -> 8 * 3 points.
	payable := dec("58.00")
	points := PointsEarned(lines, payable, at, discounts, promos)
	if points != 24 {
		t.Fatalf("expected 24 points, got %d", points)
	}
}

func TestPointsEarnedCategoryWithoutMatchingLines(t *testing.T) {
	at := date(t, "10-Mar-2020")
	lines := []ResolvedLine{
		{ProductID: "PRD02", Category: "Fuel", Subtotal: dec("10.00")},
	}
	promos := []PointsPromotion{
		{ID: "PP003", StartDate: date(t, "01-Mar-2020"), EndDate: date(t, "20-Mar-2020"), Category: "Shop", PointsPerUnit: 4},
	}
	if points := PointsEarned(lines, dec("10.00"), at, nil, promos); points != 0 {
		t.Fatalf("expected 0 points, got %d", points)
	}
}

func TestCalculateNoActivePromotions(t *testing.T) {
	req := Request{
		CustomerID:      "CUST001",
		LoyaltyCard:     "CARD001",
		TransactionDate: "15-Feb-2025",
		Basket:          []BasketLine{{ProductID: "PRD01", UnitPrice: "10.00", Quantity: "2"}},
	}
	res := Calculate(req, date(t, "15-Feb-2025"), Snapshot{Products: testProducts()})
	if !res.TotalAmount.Equal(dec("20.00")) {
		t.Fatalf("expected subtotal 20.00, got %s", res.TotalAmount)
	}
	if !res.DiscountApplied.IsZero() {
		t.Fatalf("expected zero discount, got %s", res.DiscountApplied)
	}
	if !res.GrandTotal.Equal(dec("20.00")) {
		t.Fatalf("expected grand total 20.00, got %s", res.GrandTotal)
	}
	if res.PointsEarned != 0 {
		t.Fatalf("expected 0 points, got %d", res.PointsEarned)
	}
}

func TestCalculateDiscountApplied(t *testing.T) {
	snap := Snapshot{
		Products: testProducts(),
		Discounts: []DiscountPromotion{
			{ID: "DP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "15-Feb-2020"), Rate: dec("0.20"), EligibleProductIDs: []string{"PRD02"}},
		},
	}
	req := Request{
		TransactionDate: "10-Jan-2020",
		Basket:          []BasketLine{{ProductID: "PRD02", UnitPrice: "10.00", Quantity: "1"}},
	}
	res := Calculate(req, date(t, "10-Jan-2020"), snap)
	if !res.DiscountApplied.Equal(dec("2.00")) {
		t.Fatalf("expected discount 2.00, got %s", res.DiscountApplied)
	}
	if !res.GrandTotal.Equal(dec("8.00")) {
		t.Fatalf("expected grand total 8.00, got %s", res.GrandTotal)
	}
	if !res.TotalAmount.Sub(res.DiscountApplied).Equal(res.GrandTotal) {
		t.Fatal("grand total must equal subtotal minus discount exactly")
	}
}

func TestCalculateAnyPointsPromotion(t *testing.T) {
	snap := Snapshot{
		Products: testProducts(),
		Points: []PointsPromotion{
			{ID: "PP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "30-Jan-2020"), Category: CategoryAny, PointsPerUnit: 2},
		},
	}
	req := Request{
		TransactionDate: "10-Jan-2020",
		Basket:          []BasketLine{{ProductID: "PRD01", UnitPrice: "5.00", Quantity: "3"}},
	}
	res := Calculate(req, date(t, "10-Jan-2020"), snap)
	if !res.TotalAmount.Equal(dec("15.00")) {
		t.Fatalf("expected subtotal 15.00, got %s", res.TotalAmount)
	}
	if res.PointsEarned != 30 {
		t.Fatalf("expected 30 points, got %d", res.PointsEarned)
	}
}

func TestCalculateEmptyBasket(t *testing.T) {
	snap := Snapshot{
		Products: testProducts(),
		Discounts: []DiscountPromotion{
			{ID: "DP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "15-Feb-2020"), Rate: dec("0.20"), EligibleProductIDs: []string{"PRD02"}},
		},
		Points: []PointsPromotion{
			{ID: "PP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "30-Jan-2020"), Category: CategoryAny, PointsPerUnit: 2},
		},
	}
	res := Calculate(Request{TransactionDate: "10-Jan-2020"}, date(t, "10-Jan-2020"), snap)
	if !res.TotalAmount.IsZero() || !res.DiscountApplied.IsZero() || !res.GrandTotal.IsZero() || res.PointsEarned != 0 {
		t.Fatalf("expected all-zero result, got %+v", res)
	}
	if len(res.Lines) != 0 {
		t.Fatalf("expected no resolved lines, got %d", len(res.Lines))
	}
}

func TestCalculateMixedKnownAndUnknownLines(t *testing.T) {
	req := Request{
		TransactionDate: "15-Feb-2025",
		Basket: []BasketLine{
			{ProductID: "UNKNOWN", UnitPrice: "3.00", Quantity: "4"},
			{ProductID: "PRD01", UnitPrice: "10.00", Quantity: "2"},
		},
	}
	res := Calculate(req, date(t, "15-Feb-2025"), Snapshot{Products: testProducts()})
	if len(res.Lines) != 1 || res.Lines[0].ProductID != "PRD01" {
		t.Fatalf("expected only PRD01 resolved, got %+v", res.Lines)
	}
	if !res.TotalAmount.Equal(dec("20.00")) {
		t.Fatalf("expected subtotal 20.00, got %s", res.TotalAmount)
	}
}

func TestCalculateIdempotent(t *testing.T) {
	snap := Snapshot{
		Products: testProducts(),
		Discounts: []DiscountPromotion{
			{ID: "DP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "15-Feb-2020"), Rate: dec("0.20"), EligibleProductIDs: []string{"PRD02"}},
		},
		Points: []PointsPromotion{
			{ID: "PP001", StartDate: date(t, "01-Jan-2020"), EndDate: date(t, "30-Jan-2020"), Category: CategoryAny, PointsPerUnit: 2},
		},
	}
	req := Request{
		CustomerID:      "CUST001",
		TransactionDate: "10-Jan-2020",
		Basket:          []BasketLine{{ProductID: "PRD02", UnitPrice: "10.00", Quantity: "1"}},
	}
	at := date(t, "10-Jan-2020")
	first := Calculate(req, at, snap)
	second := Calculate(req, at, snap)
	if !first.TotalAmount.Equal(second.TotalAmount) ||
		!first.DiscountApplied.Equal(second.DiscountApplied) ||
		!first.GrandTotal.Equal(second.GrandTotal) ||
		first.PointsEarned != second.PointsEarned {
		t.Fatalf("results differ across identical calls: %+v vs %+v", first, second)
	}
}

func TestParseDateRejectsOtherFormats(t *testing.T) {
	for _, value := range []string{"2023/11/05", "2025-02-15", "15-02-2025", ""} {
		if _, err := ParseDate(value); err == nil {
			t.Fatalf("expected parse failure for %q", value)
		}
	}
	if _, err := ParseDate("15-Feb-2025"); err != nil {
		t.Fatalf("expected 15-Feb-2025 to parse, got %v", err)
	}
}
