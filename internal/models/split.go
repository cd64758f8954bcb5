package models

import "github.com/shopspring/decimal"

// Split represents a bill fronted by one member and owed, in shares, by a
// set of participants.
type Split struct {
	// ID is the unique identifier for the split (UUID format).
	ID string

	// EventID is the event this split belongs to.
	EventID string

	// Description is the human-readable label (e.g. "Groceries", "Taxi").
	Description string

	// PaidBy is the user ID of the person who fronted the money.
	PaidBy string

	// Amount is the total cost of the bill. Always positive.
	Amount decimal.Decimal

	// Shares is each participant's portion of Amount. The share amounts sum
	// to Amount within one cent; that is enforced before the split reaches
	// storage, not re-checked on read.
	Shares []Share

	// CreatedBy is the user ID that recorded the split.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the split was recorded.
	CreatedAt int64

	// DeletedAt is the Unix timestamp of soft deletion, or zero if live.
	// Deleted splits are excluded from every balance computation.
	DeletedAt int64
}

// Share is one participant's portion of a split.
type Share struct {
	// UserID identifies the participant.
	UserID string

	// Amount is the portion of the split total this participant owes.
	// Non-negative; zero means the participant was listed but owes nothing.
	Amount decimal.Decimal
}

// ShareFor returns the share recorded for the given user, if any.
func (s *Split) ShareFor(userID string) (Share, bool) {
	for _, share := range s.Shares {
		if share.UserID == userID {
			return share, true
		}
	}
	return Share{}, false
}
