package service

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/ledger"
	"github.com/tallyhq/tally/internal/middleware"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/pkg/api"
)

// BalanceService implements the Connect BalanceService. Balances are never
// stored: every query replays the event's live splits and settlements
// through the ledger.
type BalanceService struct {
	store storage.Store
}

// NewBalanceService creates a new BalanceService with the given storage
// backend.
func NewBalanceService(store storage.Store) *BalanceService {
	return &BalanceService{store: store}
}

// GetEventBalances computes every member's net position in an event, the net
// pairwise debts, and a minimal set of transfers that settles everyone up.
func (s *BalanceService) GetEventBalances(ctx context.Context, req *connect.Request[api.GetEventBalancesRequest]) (*connect.Response[api.GetEventBalancesResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("GetEventBalances: failed to get event", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !event.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of this event"))
	}

	l, err := s.buildEventLedger(ctx, event.ID)
	if err != nil {
		return nil, err
	}

	balances := l.Balances()
	names := s.displayNames(ctx, event.Members, balances)

	// Every member shows up in the response, including the ones with no
	// recorded activity.
	memberIDs := make([]string, 0, len(balances)+len(event.Members))
	memberIDs = append(memberIDs, event.Members...)
	for u := range balances {
		if !event.HasMember(u) {
			memberIDs = append(memberIDs, u)
		}
	}
	sort.Strings(memberIDs)

	memberBalances := make([]*api.MemberBalance, len(memberIDs))
	for i, id := range memberIDs {
		memberBalances[i] = &api.MemberBalance{
			UserID:      id,
			DisplayName: names[id],
			NetBalance:  formatAmount(balances[id]),
		}
	}

	edges := l.Edges()
	matrix := make([]*api.DebtEdge, len(edges))
	for i, e := range edges {
		matrix[i] = &api.DebtEdge{
			FromUserID: e.Debtor,
			ToUserID:   e.Creditor,
			Amount:     formatAmount(e.Amount),
		}
	}

	transfers := ledger.Simplify(balances)
	suggested := make([]*api.Transfer, len(transfers))
	for i, t := range transfers {
		suggested[i] = &api.Transfer{
			FromUserID: t.From,
			ToUserID:   t.To,
			Amount:     formatAmount(t.Amount),
		}
	}

	return connect.NewResponse(&api.GetEventBalancesResponse{
		MemberBalances:     memberBalances,
		DebtMatrix:         matrix,
		SuggestedTransfers: suggested,
	}), nil
}

// GetBalanceBetween computes the net debt between the caller and one other
// user, scoped to a single event or across every shared event.
func (s *BalanceService) GetBalanceBetween(ctx context.Context, req *connect.Request[api.GetBalanceBetweenRequest]) (*connect.Response[api.GetBalanceBetweenResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	if req.Msg.OtherUserID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("other_user_id is required"))
	}
	if req.Msg.OtherUserID == userID {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("cannot compute a balance against yourself"))
	}

	l, err := s.buildScopedLedger(ctx, userID, req.Msg.EventID)
	if err != nil {
		return nil, err
	}

	net := l.NetBetween(userID, req.Msg.OtherUserID)
	return connect.NewResponse(&api.GetBalanceBetweenResponse{
		NetBalance: formatAmount(net),
	}), nil
}

// GetUserBalance computes the caller's aggregate position: total net balance
// plus a per-counterparty breakdown, scoped to one event or to everything
// the caller is part of.
func (s *BalanceService) GetUserBalance(ctx context.Context, req *connect.Request[api.GetUserBalanceRequest]) (*connect.Response[api.GetUserBalanceResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	l, err := s.buildScopedLedger(ctx, userID, req.Msg.EventID)
	if err != nil {
		return nil, err
	}

	summary := l.SummaryFor(userID)

	counterparties := make([]string, 0, len(summary.Owes)+len(summary.OwedBy))
	for _, o := range summary.Owes {
		counterparties = append(counterparties, o.UserID)
	}
	for _, o := range summary.OwedBy {
		counterparties = append(counterparties, o.UserID)
	}
	names := s.displayNames(ctx, counterparties, nil)

	toObligations := func(in []ledger.Obligation) []*api.Obligation {
		out := make([]*api.Obligation, len(in))
		for i, o := range in {
			out[i] = &api.Obligation{
				UserID:      o.UserID,
				DisplayName: names[o.UserID],
				Amount:      formatAmount(o.Amount),
			}
		}
		return out
	}

	return connect.NewResponse(&api.GetUserBalanceResponse{
		TotalBalance: formatAmount(summary.Total),
		Owes:         toObligations(summary.Owes),
		OwedBy:       toObligations(summary.OwedBy),
	}), nil
}

// buildEventLedger replays one event's live records into a ledger.
func (s *BalanceService) buildEventLedger(ctx context.Context, eventID string) (*ledger.Ledger, error) {
	splits, err := s.store.ListSplitsByEvent(ctx, eventID)
	if err != nil {
		slog.Error("failed to list splits", "event_id", eventID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	settlements, err := s.store.ListSettlementsByEvent(ctx, eventID)
	if err != nil {
		slog.Error("failed to list settlements", "event_id", eventID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return ledger.Build(splits, settlements), nil
}

// buildScopedLedger builds a ledger for one event (after a membership check)
// or, when eventID is empty, for every event the user is a member of.
func (s *BalanceService) buildScopedLedger(ctx context.Context, userID, eventID string) (*ledger.Ledger, error) {
	if eventID != "" {
		event, err := s.store.GetEvent(ctx, eventID)
		if err != nil {
			slog.Error("failed to get event", "event_id", eventID, "error", err)
			return nil, connect.NewError(connect.CodeNotFound, err)
		}
		if !event.HasMember(userID) {
			return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of this event"))
		}
		return s.buildEventLedger(ctx, eventID)
	}

	splits, err := s.store.ListSplitsByUser(ctx, userID)
	if err != nil {
		slog.Error("failed to list user splits", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	settlements, err := s.store.ListSettlementsByUser(ctx, userID)
	if err != nil {
		slog.Error("failed to list user settlements", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return ledger.Build(splits, settlements), nil
}

// displayNames resolves display names for the given user IDs plus any extra
// users appearing in balances. Lookup failures degrade to empty names rather
// than failing the balance query.
func (s *BalanceService) displayNames(ctx context.Context, ids []string, extra map[string]decimal.Decimal) map[string]string {
	seen := make(map[string]bool, len(ids)+len(extra))
	lookup := make([]string, 0, len(ids)+len(extra))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			lookup = append(lookup, id)
		}
	}
	for id := range extra {
		if !seen[id] {
			seen[id] = true
			lookup = append(lookup, id)
		}
	}

	users, err := s.store.GetUsersByIDs(ctx, lookup)
	if err != nil {
		slog.Warn("failed to resolve display names", "error", err)
		return map[string]string{}
	}
	names := make(map[string]string, len(users))
	for id, u := range users {
		names[id] = u.DisplayName
	}
	return names
}
