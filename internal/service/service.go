// Package service implements the Connect service handlers. Each service
// validates its input, enforces event membership, and delegates balance math
// to the ledger package.
package service

import (
	"fmt"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/pkg/api"
)

// parseAmount parses a wire amount string. Amounts travel as decimal strings
// so no precision is lost to floating point.
func parseAmount(field, raw string) (decimal.Decimal, error) {
	if raw == "" {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("%s is required", field))
	}
	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("invalid %s %q", field, raw))
	}
	return amount, nil
}

// formatAmount renders an amount for the wire with two decimal places.
func formatAmount(d decimal.Decimal) string {
	return d.StringFixed(2)
}

func toAPIUser(u *models.User) *api.User {
	return &api.User{
		ID:          u.ID,
		Email:       u.Email,
		DisplayName: u.DisplayName,
	}
}

func toAPIEvent(e *models.Event) *api.Event {
	return &api.Event{
		ID:        e.ID,
		Name:      e.Name,
		MemberIDs: e.Members,
		CreatedBy: e.CreatedBy,
		CreatedAt: e.CreatedAt,
	}
}

func toAPISplit(s *models.Split) *api.Split {
	shares := make([]api.Share, len(s.Shares))
	for i, share := range s.Shares {
		shares[i] = api.Share{UserID: share.UserID, Amount: formatAmount(share.Amount)}
	}
	return &api.Split{
		ID:          s.ID,
		EventID:     s.EventID,
		Description: s.Description,
		PaidBy:      s.PaidBy,
		Amount:      formatAmount(s.Amount),
		Shares:      shares,
		CreatedBy:   s.CreatedBy,
		CreatedAt:   s.CreatedAt,
	}
}

func toAPISettlement(s *models.Settlement) *api.Settlement {
	return &api.Settlement{
		ID:         s.ID,
		EventID:    s.EventID,
		FromUserID: s.FromUserID,
		ToUserID:   s.ToUserID,
		Amount:     formatAmount(s.Amount),
		Note:       s.Note,
		CreatedBy:  s.CreatedBy,
		CreatedAt:  s.CreatedAt,
	}
}
