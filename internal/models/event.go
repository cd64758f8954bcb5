package models

// Event represents a scope for splits and settlements: a trip, a household,
// a recurring group of people. Every balance query is partitioned by event.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string

	// Name is the display name of the event (e.g. "Lisbon Trip", "Flat 4B").
	Name string

	// Members is the list of user IDs participating in this event.
	Members []string

	// CreatedBy is the user ID that created the event.
	CreatedBy string

	// CreatedAt is the Unix timestamp when the event was created.
	CreatedAt int64
}

// HasMember reports whether the given user belongs to the event.
func (e *Event) HasMember(userID string) bool {
	for _, m := range e.Members {
		if m == userID {
			return true
		}
	}
	return false
}
