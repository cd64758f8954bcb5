package service

import (
	"context"
	"fmt"
	"log/slog"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/middleware"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/pkg/api"
)

// ExpenseService implements the Connect ExpenseService: splits and
// settlements, the two record types every balance is derived from.
type ExpenseService struct {
	store     storage.Store
	maxAmount decimal.Decimal
}

// NewExpenseService creates a new ExpenseService. maxAmount is the ceiling
// for a single split or settlement.
func NewExpenseService(store storage.Store, maxAmount decimal.Decimal) *ExpenseService {
	return &ExpenseService{store: store, maxAmount: maxAmount}
}

// checkAmount rejects non-positive amounts and amounts above the ceiling.
func (s *ExpenseService) checkAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("amount must be positive"))
	}
	if amount.GreaterThan(s.maxAmount) {
		return connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("amount exceeds the maximum of %s", s.maxAmount))
	}
	return nil
}

// resolveShares turns a request's share list (or participant list, for an
// even split) into validated model shares. Every share holder must be an
// event member, listed once, and the shares must sum to the split amount
// within a cent.
func resolveShares(event *models.Event, amount decimal.Decimal, reqShares []api.Share, participantIDs []string) ([]models.Share, error) {
	if len(reqShares) > 0 {
		seen := make(map[string]bool, len(reqShares))
		shares := make([]models.Share, len(reqShares))
		for i, rs := range reqShares {
			if !event.HasMember(rs.UserID) {
				return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("share holder %s is not an event member", rs.UserID))
			}
			if seen[rs.UserID] {
				return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("duplicate share for user %s", rs.UserID))
			}
			seen[rs.UserID] = true
			portion, err := parseAmount("share amount", rs.Amount)
			if err != nil {
				return nil, err
			}
			shares[i] = models.Share{UserID: rs.UserID, Amount: portion}
		}
		if err := ledger.ValidateShares(amount, shares); err != nil {
			return nil, connect.NewError(connect.CodeInvalidArgument, err)
		}
		return shares, nil
	}

	// No explicit shares: split evenly. An empty participant list means
	// everyone in the event.
	participants := participantIDs
	if len(participants) == 0 {
		participants = event.Members
	}
	seen := make(map[string]bool, len(participants))
	for _, p := range participants {
		if !event.HasMember(p) {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("participant %s is not an event member", p))
		}
		if seen[p] {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("duplicate participant %s", p))
		}
		seen[p] = true
	}
	return ledger.SplitEvenly(amount, participants), nil
}

// CreateSplit records a new split in an event.
func (s *ExpenseService) CreateSplit(ctx context.Context, req *connect.Request[api.CreateSplitRequest]) (*connect.Response[api.CreateSplitResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("CreateSplit: failed to get event", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !event.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of this event"))
	}

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.checkAmount(amount); err != nil {
		return nil, err
	}

	paidBy := req.Msg.PaidBy
	if paidBy == "" {
		paidBy = userID
	}
	if !event.HasMember(paidBy) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payer %s is not an event member", paidBy))
	}

	shares, err := resolveShares(event, amount, req.Msg.Shares, req.Msg.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	split := &models.Split{
		EventID:     event.ID,
		Description: req.Msg.Description,
		PaidBy:      paidBy,
		Amount:      amount,
		Shares:      shares,
		CreatedBy:   userID,
	}
	if err := s.store.CreateSplit(ctx, split); err != nil {
		slog.Error("CreateSplit failed", "event_id", event.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Split recorded", "split_id", split.ID, "event_id", event.ID, "amount", formatAmount(amount))
	return connect.NewResponse(&api.CreateSplitResponse{Split: toAPISplit(split)}), nil
}

// GetSplit retrieves a split the caller may see.
func (s *ExpenseService) GetSplit(ctx context.Context, req *connect.Request[api.GetSplitRequest]) (*connect.Response[api.GetSplitResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		slog.Error("GetSplit failed", "split_id", req.Msg.SplitID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err := s.requireMembership(ctx, split.EventID, userID); err != nil {
		return nil, err
	}

	return connect.NewResponse(&api.GetSplitResponse{Split: toAPISplit(split)}), nil
}

// UpdateSplit replaces a split's description, payer, amount and shares.
func (s *ExpenseService) UpdateSplit(ctx context.Context, req *connect.Request[api.UpdateSplitRequest]) (*connect.Response[api.UpdateSplitResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	existing, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		slog.Error("UpdateSplit: failed to get split", "split_id", req.Msg.SplitID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}

	event, err := s.store.GetEvent(ctx, existing.EventID)
	if err != nil {
		slog.Error("UpdateSplit: failed to get event", "event_id", existing.EventID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !event.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of this event"))
	}

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.checkAmount(amount); err != nil {
		return nil, err
	}

	paidBy := req.Msg.PaidBy
	if paidBy == "" {
		paidBy = existing.PaidBy
	}
	if !event.HasMember(paidBy) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("payer %s is not an event member", paidBy))
	}

	shares, err := resolveShares(event, amount, req.Msg.Shares, req.Msg.ParticipantIDs)
	if err != nil {
		return nil, err
	}

	split := &models.Split{
		ID:          existing.ID,
		EventID:     existing.EventID,
		Description: req.Msg.Description,
		PaidBy:      paidBy,
		Amount:      amount,
		Shares:      shares,
		CreatedBy:   existing.CreatedBy,
		CreatedAt:   existing.CreatedAt,
	}
	if err := s.store.UpdateSplit(ctx, split); err != nil {
		slog.Error("UpdateSplit failed", "split_id", split.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.UpdateSplitResponse{Split: toAPISplit(split)}), nil
}

// DeleteSplit soft-deletes a split so it stops counting toward balances.
func (s *ExpenseService) DeleteSplit(ctx context.Context, req *connect.Request[api.DeleteSplitRequest]) (*connect.Response[api.DeleteSplitResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	split, err := s.store.GetSplit(ctx, req.Msg.SplitID)
	if err != nil {
		slog.Error("DeleteSplit: failed to get split", "split_id", req.Msg.SplitID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err := s.requireMembership(ctx, split.EventID, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteSplit(ctx, req.Msg.SplitID); err != nil {
		slog.Error("DeleteSplit failed", "split_id", req.Msg.SplitID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Split deleted", "split_id", req.Msg.SplitID, "deleted_by", userID)
	return connect.NewResponse(&api.DeleteSplitResponse{}), nil
}

// ListSplits retrieves all live splits in an event.
func (s *ExpenseService) ListSplits(ctx context.Context, req *connect.Request[api.ListSplitsRequest]) (*connect.Response[api.ListSplitsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	if err := s.requireMembership(ctx, req.Msg.EventID, userID); err != nil {
		return nil, err
	}

	splits, err := s.store.ListSplitsByEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("ListSplits failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Split, len(splits))
	for i := range splits {
		out[i] = toAPISplit(&splits[i])
	}
	return connect.NewResponse(&api.ListSplitsResponse{Splits: out}), nil
}

// RecordSettlement records a direct payment between two members. The payer
// defaults to the caller.
func (s *ExpenseService) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("RecordSettlement: failed to get event", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !event.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of this event"))
	}

	from := req.Msg.FromUserID
	if from == "" {
		from = userID
	}
	to := req.Msg.ToUserID
	if to == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("to_user_id is required"))
	}
	if from == to {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("a settlement needs two distinct users"))
	}
	if !event.HasMember(from) || !event.HasMember(to) {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("both settlement parties must be event members"))
	}

	amount, err := parseAmount("amount", req.Msg.Amount)
	if err != nil {
		return nil, err
	}
	if err := s.checkAmount(amount); err != nil {
		return nil, err
	}

	settlement := &models.Settlement{
		EventID:    event.ID,
		FromUserID: from,
		ToUserID:   to,
		Amount:     amount,
		Note:       req.Msg.Note,
		CreatedBy:  userID,
	}
	if err := s.store.CreateSettlement(ctx, settlement); err != nil {
		slog.Error("RecordSettlement failed", "event_id", event.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Settlement recorded", "settlement_id", settlement.ID, "event_id", event.ID, "amount", formatAmount(amount))
	return connect.NewResponse(&api.RecordSettlementResponse{Settlement: toAPISettlement(settlement)}), nil
}

// ListSettlements retrieves all live settlements in an event.
func (s *ExpenseService) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	if err := s.requireMembership(ctx, req.Msg.EventID, userID); err != nil {
		return nil, err
	}

	settlements, err := s.store.ListSettlementsByEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("ListSettlements failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Settlement, len(settlements))
	for i := range settlements {
		out[i] = toAPISettlement(&settlements[i])
	}
	return connect.NewResponse(&api.ListSettlementsResponse{Settlements: out}), nil
}

// DeleteSettlement soft-deletes a settlement so it stops counting toward
// balances.
func (s *ExpenseService) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	settlement, err := s.store.GetSettlement(ctx, req.Msg.SettlementID)
	if err != nil {
		slog.Error("DeleteSettlement: failed to get settlement", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if err := s.requireMembership(ctx, settlement.EventID, userID); err != nil {
		return nil, err
	}

	if err := s.store.DeleteSettlement(ctx, req.Msg.SettlementID); err != nil {
		slog.Error("DeleteSettlement failed", "settlement_id", req.Msg.SettlementID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Settlement deleted", "settlement_id", req.Msg.SettlementID, "deleted_by", userID)
	return connect.NewResponse(&api.DeleteSettlementResponse{}), nil
}

// requireMembership loads the event and checks the user belongs to it.
func (s *ExpenseService) requireMembership(ctx context.Context, eventID, userID string) error {
	event, err := s.store.GetEvent(ctx, eventID)
	if err != nil {
		slog.Error("failed to get event", "event_id", eventID, "error", err)
		return connect.NewError(connect.CodeNotFound, err)
	}
	if !event.HasMember(userID) {
		return connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of this event"))
	}
	return nil
}
