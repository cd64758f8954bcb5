package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/models"
)

// CreateSettlement persists a new settlement to the database.
func (s *SQLiteStore) CreateSettlement(ctx context.Context, settlement *models.Settlement) error {
	if settlement.ID == "" {
		settlement.ID = uuid.New().String()
	}
	if settlement.CreatedAt == 0 {
		settlement.CreatedAt = time.Now().Unix()
	}

	var note interface{} = nil
	if settlement.Note != "" {
		note = settlement.Note
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO settlements (id, event_id, from_user_id, to_user_id, amount, note, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		settlement.ID, settlement.EventID, settlement.FromUserID, settlement.ToUserID,
		settlement.Amount.String(), note, settlement.CreatedBy, settlement.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert settlement: %w", err)
	}
	return nil
}

// GetSettlement retrieves a live settlement by ID.
func (s *SQLiteStore) GetSettlement(ctx context.Context, settlementID string) (*models.Settlement, error) {
	settlement := &models.Settlement{}
	var amount string
	var note sql.NullString

	err := s.db.QueryRowContext(ctx,
		`SELECT id, event_id, from_user_id, to_user_id, amount, note, created_by, created_at
		 FROM settlements WHERE id = ? AND deleted_at IS NULL`,
		settlementID,
	).Scan(&settlement.ID, &settlement.EventID, &settlement.FromUserID, &settlement.ToUserID,
		&amount, &note, &settlement.CreatedBy, &settlement.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("settlement not found: %s", settlementID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get settlement: %w", err)
	}

	if settlement.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}
	if note.Valid {
		settlement.Note = note.String
	}
	return settlement, nil
}

// DeleteSettlement soft-deletes a settlement.
func (s *SQLiteStore) DeleteSettlement(ctx context.Context, settlementID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE settlements SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now().Unix(), settlementID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete settlement: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("settlement not found: %s", settlementID)
	}
	return nil
}

// ListSettlementsByEvent retrieves all live settlements for an event.
func (s *SQLiteStore) ListSettlementsByEvent(ctx context.Context, eventID string) ([]models.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT id, event_id, from_user_id, to_user_id, amount, note, created_by, created_at
		 FROM settlements WHERE event_id = ? AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		eventID,
	)
}

// ListSettlementsByUser retrieves all live settlements across the user's events.
func (s *SQLiteStore) ListSettlementsByUser(ctx context.Context, userID string) ([]models.Settlement, error) {
	return s.listSettlements(ctx,
		`SELECT st.id, st.event_id, st.from_user_id, st.to_user_id, st.amount, st.note, st.created_by, st.created_at
		 FROM settlements st
		 JOIN event_members m ON m.event_id = st.event_id
		 WHERE m.user_id = ? AND st.deleted_at IS NULL
		 ORDER BY st.created_at DESC`,
		userID,
	)
}

func (s *SQLiteStore) listSettlements(ctx context.Context, query string, arg string) ([]models.Settlement, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list settlements: %w", err)
	}
	defer rows.Close()

	var settlements []models.Settlement
	for rows.Next() {
		var settlement models.Settlement
		var amount string
		var note sql.NullString
		if err := rows.Scan(&settlement.ID, &settlement.EventID, &settlement.FromUserID,
			&settlement.ToUserID, &amount, &note, &settlement.CreatedBy, &settlement.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan settlement: %w", err)
		}
		if settlement.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		if note.Valid {
			settlement.Note = note.String
		}
		settlements = append(settlements, settlement)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate settlements: %w", err)
	}
	return settlements, nil
}

// PurgeDeleted hard-deletes soft-deleted splits and settlements stamped
// before olderThan. Shares cascade with their split.
func (s *SQLiteStore) PurgeDeleted(ctx context.Context, olderThan int64) (int64, error) {
	var total int64
	for _, table := range []string{"splits", "settlements"} {
		res, err := s.db.ExecContext(ctx,
			"DELETE FROM "+table+" WHERE deleted_at IS NOT NULL AND deleted_at < ?",
			olderThan,
		)
		if err != nil {
			return total, fmt.Errorf("failed to purge %s: %w", table, err)
		}
		affected, err := res.RowsAffected()
		if err != nil {
			return total, fmt.Errorf("failed to count purged %s: %w", table, err)
		}
		total += affected
	}
	return total, nil
}
