package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/models"
)

// CreateEvent persists a new event and its member list.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt == 0 {
		event.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO events (id, name, created_by, created_at) VALUES (?, ?, ?, ?)",
		event.ID, event.Name, event.CreatedBy, event.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	for _, userID := range event.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO event_members (event_id, user_id) VALUES (?, ?)",
			event.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID, including its members.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	event := &models.Event{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_by, created_at FROM events WHERE id = ?",
		eventID,
	).Scan(&event.ID, &event.Name, &event.CreatedBy, &event.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("event not found: %s", eventID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get event: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id FROM event_members WHERE event_id = ? ORDER BY user_id",
		eventID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get event members: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID string
		if err := rows.Scan(&userID); err != nil {
			return nil, fmt.Errorf("failed to scan event member: %w", err)
		}
		event.Members = append(event.Members, userID)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate event members: %w", err)
	}

	return event, nil
}

// ListEventsByUser retrieves every event the user is a member of.
func (s *SQLiteStore) ListEventsByUser(ctx context.Context, userID string) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT e.id, e.name, e.created_by, e.created_at
		 FROM events e
		 JOIN event_members m ON m.event_id = e.id
		 WHERE m.user_id = ?
		 ORDER BY e.created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list events by user: %w", err)
	}
	defer rows.Close()

	var events []*models.Event
	for rows.Next() {
		event := &models.Event{}
		if err := rows.Scan(&event.ID, &event.Name, &event.CreatedBy, &event.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, event)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	// Attach member lists
	for _, event := range events {
		full, err := s.GetEvent(ctx, event.ID)
		if err != nil {
			return nil, err
		}
		event.Members = full.Members
	}

	return events, nil
}

// UpdateEvent replaces an event's name and member list.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE events SET name = ? WHERE id = ?",
		event.Name, event.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event not found: %s", event.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM event_members WHERE event_id = ?", event.ID); err != nil {
		return fmt.Errorf("failed to clear event members: %w", err)
	}
	for _, userID := range event.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO event_members (event_id, user_id) VALUES (?, ?)",
			event.ID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteEvent removes an event; members, splits and settlements cascade.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM events WHERE id = ?", eventID)
	if err != nil {
		return fmt.Errorf("failed to delete event: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("event not found: %s", eventID)
	}
	return nil
}

// AddEventMembers adds users to an event, skipping existing members.
func (s *SQLiteStore) AddEventMembers(ctx context.Context, eventID string, userIDs []string) error {
	if len(userIDs) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, userID := range userIDs {
		_, err = tx.ExecContext(ctx,
			"INSERT OR IGNORE INTO event_members (event_id, user_id) VALUES (?, ?)",
			eventID, userID,
		)
		if err != nil {
			return fmt.Errorf("failed to insert event member: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
