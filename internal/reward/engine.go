package reward

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/noah-isme/backend-reward/internal/common"
)

// DateFormat is the fixed transaction and promotion date layout (dd-MMM-yyyy).
const DateFormat = "02-Jan-2006"

// CategoryAny marks a points promotion that applies regardless of category.
const CategoryAny = "Any"

// Product is immutable catalog reference data.
type Product struct {
	ID        string
	Name      string
	Category  string
	UnitPrice decimal.Decimal
}

// DiscountPromotion grants a fractional discount on a set of products within a date window.
type DiscountPromotion struct {
	ID                 string
	Name               string
	StartDate          time.Time
	EndDate            time.Time
	Rate               decimal.Decimal
	EligibleProductIDs []string
}

// ActiveOn reports whether the promotion window contains the given date, inclusive on both ends.
func (p DiscountPromotion) ActiveOn(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// Eligible reports whether the product qualifies for the promotion.
// An empty eligibility set applies to no product.
func (p DiscountPromotion) Eligible(productID string) bool {
	for _, id := range p.EligibleProductIDs {
		if id == productID {
			return true
		}
	}
	return false
}

// PointsPromotion awards loyalty points per whole currency unit spent within a date window.
type PointsPromotion struct {
	ID            string
	Name          string
	StartDate     time.Time
	EndDate       time.Time
	Category      string
	PointsPerUnit int64
}

// ActiveOn reports whether the promotion window contains the given date, inclusive on both ends.
func (p PointsPromotion) ActiveOn(d time.Time) bool {
	return !d.Before(p.StartDate) && !d.After(p.EndDate)
}

// BasketLine is a raw basket entry; price and quantity arrive as text.
type BasketLine struct {
	ProductID string
	UnitPrice string
	Quantity  string
}

// ResolvedLine is a basket line matched to the catalog, annotated with
// category and line subtotal.
type ResolvedLine struct {
	ProductID string
	Category  string
	UnitPrice decimal.Decimal
	Quantity  int
	Subtotal  decimal.Decimal
}

// Snapshot bundles the reference data a single calculation runs against.
// The engine never fetches; callers supply a consistent snapshot.
type Snapshot struct {
	Products  []Product
	Discounts []DiscountPromotion
	Points    []PointsPromotion
}

// Request carries one transaction to price.
type Request struct {
	CustomerID      string
	LoyaltyCard     string
	TransactionDate string
	Basket          []BasketLine
}

// Result echoes the request identifiers plus the computed totals and points.
type Result struct {
	CustomerID      string
	LoyaltyCard     string
	TransactionDate string
	Lines           []ResolvedLine
	TotalAmount     decimal.Decimal
	DiscountApplied decimal.Decimal
	GrandTotal      decimal.Decimal
	PointsEarned    int64
}

// ParseDate parses the fixed dd-MMM-yyyy date format in UTC.
func ParseDate(value string) (time.Time, error) {
	return time.ParseInLocation(DateFormat, value, time.UTC)
}

// ResolveBasket joins basket lines against the product catalog and returns
// the resolved lines plus their aggregate subtotal. Lines referencing
// unknown products are dropped; unparseable price or quantity text counts
// as zero.
func ResolveBasket(lines []BasketLine, products []Product) ([]ResolvedLine, decimal.Decimal) {
	index := make(map[string]Product, len(products))
	for _, p := range products {
		index[p.ID] = p
	}
	resolved := make([]ResolvedLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		product, ok := index[line.ProductID]
		if !ok {
			continue
		}
		price := common.DecimalDefault(line.UnitPrice, decimal.Zero)
		qty := common.AtoiDefault(line.Quantity, 0)
		lineTotal := price.Mul(decimal.NewFromInt(int64(qty)))
		resolved = append(resolved, ResolvedLine{
			ProductID: line.ProductID,
			Category:  product.Category,
			UnitPrice: price,
			Quantity:  qty,
			Subtotal:  lineTotal,
		})
		subtotal = subtotal.Add(lineTotal)
	}
	return resolved, subtotal
}

// TotalDiscount sums the per-line discounts over promotions active at the
// transaction date. Best wins: each line takes the single highest eligible
// rate, never stacked.
func TotalDiscount(lines []ResolvedLine, at time.Time, promos []DiscountPromotion) decimal.Decimal {
	active := make([]DiscountPromotion, 0, len(promos))
	for _, promo := range promos {
		if promo.ActiveOn(at) {
			active = append(active, promo)
		}
	}
	if len(active) == 0 {
		return decimal.Zero
	}
	total := decimal.Zero
	for _, line := range lines {
		rate := bestRate(line.ProductID, active)
		if rate.IsPositive() {
			total = total.Add(line.Subtotal.Mul(rate))
		}
	}
	return total
}

func bestRate(productID string, active []DiscountPromotion) decimal.Decimal {
	best := decimal.Zero
	for _, promo := range active {
		if promo.Eligible(productID) && promo.Rate.GreaterThan(best) {
			best = promo.Rate
		}
	}
	return best
}

// SelectPointsPromotion picks the single promotion applied to a transaction:
// the active one with the highest points-per-unit. Ties resolve to the
// lexicographically smallest promotion id so reordered feeds select
// identically.
func SelectPointsPromotion(at time.Time, promos []PointsPromotion) (PointsPromotion, bool) {
	var selected PointsPromotion
	found := false
	for _, promo := range promos {
		if !promo.ActiveOn(at) {
			continue
		}
		if !found ||
			promo.PointsPerUnit > selected.PointsPerUnit ||
			(promo.PointsPerUnit == selected.PointsPerUnit && promo.ID < selected.ID) {
			selected = promo
			found = true
		}
	}
	return selected, found
}

// PointsEarned computes loyalty points for the transaction. An "Any"
// promotion accrues on the whole payable total; a category promotion
// accrues on that category's post-discount subtotal. Fractional currency
// units earn no points.
func PointsEarned(lines []ResolvedLine, payable decimal.Decimal, at time.Time, discounts []DiscountPromotion, promos []PointsPromotion) int64 {
	promo, ok := SelectPointsPromotion(at, promos)
	if !ok {
		return 0
	}
	if promo.Category == CategoryAny {
		return payable.IntPart() * promo.PointsPerUnit
	}
	return categoryPoints(lines, at, discounts, promo)
}

// categoryPoints re-runs discount selection restricted to the promotion's
// category. Discounts are selected per line, so scoping the same best-wins
// pass to the category attributes them exactly; the floored remainder earns
// points at the promotion rate.
func categoryPoints(lines []ResolvedLine, at time.Time, discounts []DiscountPromotion, promo PointsPromotion) int64 {
	scoped := make([]ResolvedLine, 0, len(lines))
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Category == promo.Category {
			scoped = append(scoped, line)
			subtotal = subtotal.Add(line.Subtotal)
		}
	}
	if len(scoped) == 0 {
		return 0
	}
	payable := subtotal.Sub(TotalDiscount(scoped, at, discounts))
	return payable.IntPart() * promo.PointsPerUnit
}

// Calculate prices one transaction against the snapshot: resolve the basket,
// apply the best discounts, derive the payable total, then award points.
func Calculate(req Request, at time.Time, snap Snapshot) Result {
	lines, subtotal := ResolveBasket(req.Basket, snap.Products)
	discount := TotalDiscount(lines, at, snap.Discounts)
	payable := subtotal.Sub(discount)
	points := PointsEarned(lines, payable, at, snap.Discounts, snap.Points)
	return Result{
		CustomerID:      req.CustomerID,
		LoyaltyCard:     req.LoyaltyCard,
		TransactionDate: req.TransactionDate,
		Lines:           lines,
		TotalAmount:     subtotal,
		DiscountApplied: discount,
		GrandTotal:      payable,
		PointsEarned:    points,
	}
}
