package ledger

import (
	"log/slog"
	"sort"

	"github.com/shopspring/decimal"
)

// Transfer is one suggested payment in a settlement plan.
type Transfer struct {
	From   string
	To     string
	Amount decimal.Decimal
}

// position is one user's remaining amount on either side of the matching.
type position struct {
	userID string
	amount decimal.Decimal // positive on both sides
}

// Simplify reduces a set of net balances to a list of transfers that bring
// every balance within a cent of zero. Positive balance = net creditor.
//
// Greedy largest-to-largest matching: creditors sorted descending by credit,
// debtors descending by debt, each debtor paid off against creditors in
// order. This yields at most (#creditors + #debtors - 1) transfers; it is not
// guaranteed minimal, but it is cheap and the result is stable. Ties are
// broken by ascending user ID so the plan is deterministic regardless of map
// iteration order.
//
// Balances derived from a closed ledger sum to zero, so every creditor is
// fully matched by the time debtors run out. Leftover credit means the input
// was not a closed balance set; that is a defect upstream, so it is logged
// and the partial plan returned.
func Simplify(balances map[string]decimal.Decimal) []Transfer {
	users := make([]string, 0, len(balances))
	for u := range balances {
		users = append(users, u)
	}
	sort.Strings(users)

	var creditors, debtors []position
	for _, u := range users {
		bal := balances[u]
		switch {
		case bal.GreaterThan(epsilon):
			creditors = append(creditors, position{userID: u, amount: bal})
		case bal.LessThan(epsilon.Neg()):
			debtors = append(debtors, position{userID: u, amount: bal.Neg()})
		}
	}

	sort.SliceStable(creditors, func(i, j int) bool {
		return creditors[i].amount.GreaterThan(creditors[j].amount)
	})
	sort.SliceStable(debtors, func(i, j int) bool {
		return debtors[i].amount.GreaterThan(debtors[j].amount)
	})

	var plan []Transfer
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := debtors[i].amount
		if creditors[j].amount.LessThan(amount) {
			amount = creditors[j].amount
		}

		if amount.GreaterThan(epsilon) {
			plan = append(plan, Transfer{
				From:   debtors[i].userID,
				To:     creditors[j].userID,
				Amount: amount,
			})
		}

		debtors[i].amount = debtors[i].amount.Sub(amount)
		creditors[j].amount = creditors[j].amount.Sub(amount)

		if debtors[i].amount.LessThan(epsilon) {
			i++
		}
		if creditors[j].amount.LessThan(epsilon) {
			j++
		}
	}

	for ; j < len(creditors); j++ {
		if creditors[j].amount.GreaterThan(epsilon) {
			slog.Error("settlement plan left unmatched credit; input balances do not sum to zero",
				"user_id", creditors[j].userID,
				"amount", creditors[j].amount.StringFixed(2),
			)
		}
	}

	return plan
}
