// Package calculator holds the money math of the ledger: simple interest,
// installment plans and payment accumulation. All arithmetic is decimal;
// rounding is half-up to two places.
package calculator

import (
	"time"

	"github.com/shopspring/decimal"
)

var daysInYear = decimal.NewFromInt(365)

// Installment is one equal share of the total payable.
type Installment struct {
	Number  int
	DueDate time.Time
	Amount  float64
}

// TotalPayable computes principal + principal*annualRate*days/365 rounded
// half-up to 2 decimals. Inputs are not validated here.
func TotalPayable(principal, annualRate float64, days int) float64 {
	return totalPayable(principal, annualRate, days).InexactFloat64()
}

func totalPayable(principal, annualRate float64, days int) decimal.Decimal {
	p := decimal.NewFromFloat(principal)
	interest := p.
		Mul(decimal.NewFromFloat(annualRate)).
		Mul(decimal.NewFromInt(int64(days))).
		Div(daysInYear)
	return p.Add(interest).Round(2)
}

// Schedule splits the total payable into count equal shares due every
// floor(days/count) days after start. The rounding drift of the last share is
// left as is. count <= 0 yields no installments.
func Schedule(principal, annualRate float64, days, count int, start time.Time) []Installment {
	if count <= 0 {
		return nil
	}
	share := totalPayable(principal, annualRate, days).
		Div(decimal.NewFromInt(int64(count))).
		Round(2).
		InexactFloat64()
	interval := days / count

	out := make([]Installment, count)
	for i := range out {
		out[i] = Installment{
			Number:  i + 1,
			DueDate: start.AddDate(0, 0, interval*(i+1)),
			Amount:  share,
		}
	}
	return out
}

// Sum adds monetary amounts without float drift.
func Sum(amounts ...float64) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(decimal.NewFromFloat(a))
	}
	return total
}

// Settled reports whether paid covers total. The boundary is inclusive and
// overpayment also counts as settled.
func Settled(paid decimal.Decimal, total float64) bool {
	return paid.GreaterThanOrEqual(decimal.NewFromFloat(total))
}

// Outstanding is what remains of total after paid, never negative.
func Outstanding(total float64, paid decimal.Decimal) float64 {
	rest := decimal.NewFromFloat(total).Sub(paid)
	if rest.IsNegative() {
		return 0
	}
	return rest.Round(2).InexactFloat64()
}

// CoveredInstallments counts the leading installments whose cumulative amount
// is covered by paid.
func CoveredInstallments(amounts []float64, paid decimal.Decimal) int {
	running := decimal.Zero
	for i, a := range amounts {
		running = running.Add(decimal.NewFromFloat(a))
		if running.GreaterThan(paid) {
			return i
		}
	}
	return len(amounts)
}
