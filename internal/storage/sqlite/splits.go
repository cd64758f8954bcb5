package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tallyhq/tally/internal/models"
)

// CreateSplit persists a new split and its shares.
func (s *SQLiteStore) CreateSplit(ctx context.Context, split *models.Split) error {
	if split.ID == "" {
		split.ID = uuid.New().String()
	}
	if split.CreatedAt == 0 {
		split.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO splits (id, event_id, description, paid_by, amount, created_by, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		split.ID, split.EventID, split.Description, split.PaidBy,
		split.Amount.String(), split.CreatedBy, split.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert split: %w", err)
	}

	if err := insertShares(ctx, tx, split.ID, split.Shares); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func insertShares(ctx context.Context, tx *sql.Tx, splitID string, shares []models.Share) error {
	for _, share := range shares {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO split_shares (split_id, user_id, amount) VALUES (?, ?, ?)",
			splitID, share.UserID, share.Amount.String(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert share: %w", err)
		}
	}
	return nil
}

// GetSplit retrieves a live split by ID, including its shares.
func (s *SQLiteStore) GetSplit(ctx context.Context, splitID string) (*models.Split, error) {
	split := &models.Split{}
	var amount string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, event_id, description, paid_by, amount, created_by, created_at
		 FROM splits WHERE id = ? AND deleted_at IS NULL`,
		splitID,
	).Scan(&split.ID, &split.EventID, &split.Description, &split.PaidBy,
		&amount, &split.CreatedBy, &split.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("split not found: %s", splitID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get split: %w", err)
	}
	if split.Amount, err = parseAmount(amount); err != nil {
		return nil, err
	}

	if split.Shares, err = s.sharesFor(ctx, split.ID); err != nil {
		return nil, err
	}
	return split, nil
}

func (s *SQLiteStore) sharesFor(ctx context.Context, splitID string) ([]models.Share, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT user_id, amount FROM split_shares WHERE split_id = ? ORDER BY user_id",
		splitID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []models.Share
	for rows.Next() {
		var share models.Share
		var amount string
		if err := rows.Scan(&share.UserID, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		if share.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		shares = append(shares, share)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return shares, nil
}

// UpdateSplit replaces a split's fields and shares.
// Editing a soft-deleted split is not allowed.
func (s *SQLiteStore) UpdateSplit(ctx context.Context, split *models.Split) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE splits SET description = ?, paid_by = ?, amount = ?
		 WHERE id = ? AND deleted_at IS NULL`,
		split.Description, split.PaidBy, split.Amount.String(), split.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update split: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("split not found: %s", split.ID)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM split_shares WHERE split_id = ?", split.ID); err != nil {
		return fmt.Errorf("failed to clear shares: %w", err)
	}
	if err := insertShares(ctx, tx, split.ID, split.Shares); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// DeleteSplit soft-deletes a split so it drops out of balance computations.
func (s *SQLiteStore) DeleteSplit(ctx context.Context, splitID string) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE splits SET deleted_at = ? WHERE id = ? AND deleted_at IS NULL",
		time.Now().Unix(), splitID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete split: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("split not found: %s", splitID)
	}
	return nil
}

// ListSplitsByEvent retrieves all live splits in an event.
func (s *SQLiteStore) ListSplitsByEvent(ctx context.Context, eventID string) ([]models.Split, error) {
	return s.listSplits(ctx,
		`SELECT id, event_id, description, paid_by, amount, created_by, created_at
		 FROM splits WHERE event_id = ? AND deleted_at IS NULL
		 ORDER BY created_at DESC`,
		eventID,
	)
}

// ListSplitsByUser retrieves all live splits across the user's events.
func (s *SQLiteStore) ListSplitsByUser(ctx context.Context, userID string) ([]models.Split, error) {
	return s.listSplits(ctx,
		`SELECT sp.id, sp.event_id, sp.description, sp.paid_by, sp.amount, sp.created_by, sp.created_at
		 FROM splits sp
		 JOIN event_members m ON m.event_id = sp.event_id
		 WHERE m.user_id = ? AND sp.deleted_at IS NULL
		 ORDER BY sp.created_at DESC`,
		userID,
	)
}

func (s *SQLiteStore) listSplits(ctx context.Context, query string, arg string) ([]models.Split, error) {
	rows, err := s.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list splits: %w", err)
	}
	defer rows.Close()

	var splits []models.Split
	for rows.Next() {
		var split models.Split
		var amount string
		if err := rows.Scan(&split.ID, &split.EventID, &split.Description,
			&split.PaidBy, &amount, &split.CreatedBy, &split.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan split: %w", err)
		}
		if split.Amount, err = parseAmount(amount); err != nil {
			return nil, err
		}
		splits = append(splits, split)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate splits: %w", err)
	}

	for i := range splits {
		if splits[i].Shares, err = s.sharesFor(ctx, splits[i].ID); err != nil {
			return nil, err
		}
	}
	return splits, nil
}
