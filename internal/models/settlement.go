package models

import "github.com/shopspring/decimal"

// Settlement represents a direct payment between two members, outside of any
// bill. It reduces what FromUserID owes ToUserID; paying more than is owed
// flips the direction of the outstanding debt.
type Settlement struct {
	// ID is the unique identifier for the settlement (UUID format).
	ID string

	// EventID is the event this settlement belongs to.
	EventID string

	// FromUserID is the user who paid (debtor settling up).
	FromUserID string

	// ToUserID is the user who received payment (creditor being paid).
	ToUserID string

	// Amount is the payment amount. Always positive.
	Amount decimal.Decimal

	// Note is an optional description for the settlement.
	Note string

	// CreatedBy is the user ID that recorded this settlement.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the settlement was recorded.
	CreatedAt int64

	// DeletedAt is the Unix timestamp of soft deletion, or zero if live.
	DeletedAt int64
}
