// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"

	"github.com/tallyhq/tally/internal/models"
)

// Store defines the interface for Tally's storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the service layer.
//
// Splits and settlements are soft-deleted: Delete methods stamp the record
// and every List/Get filters stamped records out, so deleted records never
// reach a balance computation. PurgeDeleted removes them for good.
type Store interface {
	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email.
	// Returns (nil, nil) if no such user exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID.
	// Returns (nil, nil) if no such user exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// GetUsersByIDs retrieves multiple users keyed by ID.
	// Missing users are omitted from the result.
	GetUsersByIDs(ctx context.Context, ids []string) (map[string]*models.User, error)

	// CreateEvent persists a new event with its members.
	// The event's ID and CreatedAt are populated by the store.
	CreateEvent(ctx context.Context, event *models.Event) error

	// GetEvent retrieves an event by ID, including its member list.
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)

	// ListEventsByUser retrieves every event the user is a member of.
	ListEventsByUser(ctx context.Context, userID string) ([]*models.Event, error)

	// UpdateEvent replaces an event's name and member list.
	UpdateEvent(ctx context.Context, event *models.Event) error

	// DeleteEvent removes an event and everything recorded under it.
	DeleteEvent(ctx context.Context, eventID string) error

	// AddEventMembers adds the given users to an event, ignoring users that
	// are already members.
	AddEventMembers(ctx context.Context, eventID string, userIDs []string) error

	// CreateSplit persists a new split with its shares.
	// The split's ID and CreatedAt are populated by the store.
	CreateSplit(ctx context.Context, split *models.Split) error

	// GetSplit retrieves a live (non-deleted) split by ID.
	GetSplit(ctx context.Context, splitID string) (*models.Split, error)

	// UpdateSplit replaces a split's description, payer, amount and shares.
	UpdateSplit(ctx context.Context, split *models.Split) error

	// DeleteSplit soft-deletes a split.
	DeleteSplit(ctx context.Context, splitID string) error

	// ListSplitsByEvent retrieves all live splits in an event.
	ListSplitsByEvent(ctx context.Context, eventID string) ([]models.Split, error)

	// ListSplitsByUser retrieves all live splits across every event the user
	// is a member of.
	ListSplitsByUser(ctx context.Context, userID string) ([]models.Split, error)

	// CreateSettlement persists a new settlement.
	// The settlement's ID and CreatedAt are populated by the store.
	CreateSettlement(ctx context.Context, settlement *models.Settlement) error

	// GetSettlement retrieves a live settlement by ID.
	GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error)

	// DeleteSettlement soft-deletes a settlement.
	DeleteSettlement(ctx context.Context, settlementID string) error

	// ListSettlementsByEvent retrieves all live settlements in an event.
	ListSettlementsByEvent(ctx context.Context, eventID string) ([]models.Settlement, error)

	// ListSettlementsByUser retrieves all live settlements across every
	// event the user is a member of.
	ListSettlementsByUser(ctx context.Context, userID string) ([]models.Settlement, error)

	// PurgeDeleted hard-deletes soft-deleted splits and settlements whose
	// deletion stamp is older than the given Unix timestamp. Returns the
	// number of rows removed.
	PurgeDeleted(ctx context.Context, olderThan int64) (int64, error)

	// Close releases any resources held by the store.
	Close() error
}
