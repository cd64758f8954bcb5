// Package ledger implements the debt netting engine: it turns raw splits and
// settlements into a directed graph of net pairwise debts, and reduces a set
// of net balances into a short list of suggested transfers.
//
// Everything here is a pure computation over in-memory records. The ledger is
// rebuilt from scratch on every query rather than maintained incrementally,
// so it is always correct after any edit or delete. Amounts are
// decimal.Decimal; comparisons against zero still use a one-cent epsilon
// because shares produced by dividing a bill do not always sum exactly.
package ledger

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/models"
)

// epsilon is one cent. Amounts within epsilon of zero are treated as settled.
var epsilon = decimal.New(1, -2)

// edge identifies a directed debt: debtor owes creditor.
type edge struct {
	debtor   string
	creditor string
}

// Ledger is the derived graph of net pairwise debts. Entries are signed: a
// negative entry means the debtor overpaid the creditor in that direction.
// Entries are never pruned to zero and opposing directions are not collapsed;
// readers net the two directions when they need a single figure.
type Ledger struct {
	entries map[edge]decimal.Decimal
}

// Build constructs a ledger from live splits and settlements.
//
// Each split share adds to (participant -> payer); a share held by the payer
// is skipped, so nobody owes themselves for their own bill. Each settlement
// subtracts from (from -> to) and may drive the entry negative. Soft-deleted
// records must be filtered out by the caller (the store already does this).
func Build(splits []models.Split, settlements []models.Settlement) *Ledger {
	l := &Ledger{entries: make(map[edge]decimal.Decimal)}

	for _, split := range splits {
		// A split without a payer has nobody to owe.
		if split.PaidBy == "" {
			continue
		}
		for _, share := range split.Shares {
			if share.UserID == split.PaidBy {
				continue
			}
			l.add(share.UserID, split.PaidBy, share.Amount)
		}
	}

	for _, s := range settlements {
		l.add(s.FromUserID, s.ToUserID, s.Amount.Neg())
	}

	return l
}

func (l *Ledger) add(debtor, creditor string, amount decimal.Decimal) {
	key := edge{debtor: debtor, creditor: creditor}
	l.entries[key] = l.entries[key].Add(amount)
}

// Amount returns the signed directional entry for debtor -> creditor.
// Absent entries are zero.
func (l *Ledger) Amount(debtor, creditor string) decimal.Decimal {
	return l.entries[edge{debtor: debtor, creditor: creditor}]
}

// NetBetween returns how much a owes b once both directions are netted.
// Negative means b owes a.
func (l *Ledger) NetBetween(a, b string) decimal.Decimal {
	return l.Amount(a, b).Sub(l.Amount(b, a))
}

// Balances returns every user's net position: positive means the user is
// owed money overall, negative means the user owes. The values sum to zero
// because every entry credits one user and debits another.
func (l *Ledger) Balances() map[string]decimal.Decimal {
	balances := make(map[string]decimal.Decimal)
	for e, amount := range l.entries {
		balances[e.creditor] = balances[e.creditor].Add(amount)
		balances[e.debtor] = balances[e.debtor].Sub(amount)
	}
	return balances
}

// Edge is a reportable net debt between two users.
type Edge struct {
	Debtor   string
	Creditor string
	Amount   decimal.Decimal // always positive
}

// Edges nets the two directions of every pair and returns the debts above
// epsilon, sorted by debtor then creditor.
func (l *Ledger) Edges() []Edge {
	done := make(map[edge]bool)
	var edges []Edge
	for e := range l.entries {
		pair := edge{debtor: e.debtor, creditor: e.creditor}
		if pair.debtor > pair.creditor {
			pair.debtor, pair.creditor = pair.creditor, pair.debtor
		}
		if done[pair] {
			continue
		}
		done[pair] = true

		net := l.NetBetween(pair.debtor, pair.creditor)
		switch {
		case net.GreaterThan(epsilon):
			edges = append(edges, Edge{Debtor: pair.debtor, Creditor: pair.creditor, Amount: net})
		case net.LessThan(epsilon.Neg()):
			edges = append(edges, Edge{Debtor: pair.creditor, Creditor: pair.debtor, Amount: net.Neg()})
		}
	}

	sort.Slice(edges, func(i, j int) bool {
		if edges[i].Debtor != edges[j].Debtor {
			return edges[i].Debtor < edges[j].Debtor
		}
		return edges[i].Creditor < edges[j].Creditor
	})
	return edges
}

// Obligation is one side of a user's position against a single counterparty.
type Obligation struct {
	UserID string
	Amount decimal.Decimal // always positive
}

// Summary is a single user's aggregate position.
type Summary struct {
	UserID string

	// Total is the user's net balance: positive = owed money overall.
	// Computed from unfiltered pair nets so summaries across all users
	// sum to zero even when individual pairs sit below epsilon.
	Total decimal.Decimal

	// Owes lists counterparties this user owes more than a cent.
	Owes []Obligation

	// OwedBy lists counterparties owing this user more than a cent.
	OwedBy []Obligation
}

// SummaryFor nets the user's position against every counterparty in the
// ledger. Counterparties are reported in ascending user-ID order.
func (l *Ledger) SummaryFor(userID string) Summary {
	seen := make(map[string]bool)
	for e := range l.entries {
		if e.debtor == userID {
			seen[e.creditor] = true
		}
		if e.creditor == userID {
			seen[e.debtor] = true
		}
	}

	others := make([]string, 0, len(seen))
	for other := range seen {
		others = append(others, other)
	}
	sort.Strings(others)

	summary := Summary{UserID: userID}
	for _, other := range others {
		net := l.NetBetween(userID, other) // positive = user owes other
		summary.Total = summary.Total.Sub(net)
		switch {
		case net.GreaterThan(epsilon):
			summary.Owes = append(summary.Owes, Obligation{UserID: other, Amount: net})
		case net.LessThan(epsilon.Neg()):
			summary.OwedBy = append(summary.OwedBy, Obligation{UserID: other, Amount: net.Neg()})
		}
	}
	return summary
}
