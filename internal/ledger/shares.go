package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/models"
)

// SplitEvenly divides total across userIDs in whole cents. When the total
// does not divide evenly, the leftover cents go one each to the earliest
// participants in input order, so the allocation is deterministic and the
// shares always sum exactly to total.
func SplitEvenly(total decimal.Decimal, userIDs []string) []models.Share {
	n := int64(len(userIDs))
	if n == 0 {
		return nil
	}

	cents := total.Shift(2).Round(0).IntPart()
	base := cents / n
	remainder := cents % n

	shares := make([]models.Share, len(userIDs))
	for i, id := range userIDs {
		c := base
		if int64(i) < remainder {
			c++
		}
		shares[i] = models.Share{UserID: id, Amount: decimal.New(c, -2)}
	}
	return shares
}

// ValidateShares checks the write-side invariant: every share non-negative
// and the shares summing to the split total within a cent.
func ValidateShares(total decimal.Decimal, shares []models.Share) error {
	sum := decimal.Zero
	for _, share := range shares {
		if share.Amount.IsNegative() {
			return fmt.Errorf("share for %s is negative", share.UserID)
		}
		sum = sum.Add(share.Amount)
	}
	if sum.Sub(total).Abs().GreaterThan(epsilon) {
		return fmt.Errorf("shares sum to %s, want %s", sum.StringFixed(2), total.StringFixed(2))
	}
	return nil
}
