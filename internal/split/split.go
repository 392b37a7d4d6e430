// Package split computes exact-summing ownership percentage splits.
package split

import (
	"github.com/shopspring/decimal"

	"github.com/elockard/salina-erp-bmad2-sub007/internal"
)

var hundred = decimal.New(10000, -2)

// EqualSplit divides ownership evenly across the given contacts. Every
// contact except the last receives floor(10000/n)/100; the last absorbs
// the rounding remainder so the percentages always sum to exactly
// "100.00". The first contact in input order is primary.
func EqualSplit(contactIDs []string) []internal.OwnershipSplit {
	n := len(contactIDs)
	if n == 0 {
		return []internal.OwnershipSplit{}
	}

	base := decimal.New(int64(10000/n), -2)
	last := hundred.Sub(base.Mul(decimal.NewFromInt(int64(n - 1))))

	out := make([]internal.OwnershipSplit, 0, n)
	for i, id := range contactIDs {
		pct := base
		if i == n-1 {
			pct = last
		}
		out = append(out, internal.OwnershipSplit{
			ContactID:  id,
			Percentage: pct.StringFixed(2),
			IsPrimary:  i == 0,
		})
	}
	return out
}
