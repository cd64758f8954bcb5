package service

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/shopspring/decimal"

	"github.com/tallyhq/tally/internal/auth"
	"github.com/tallyhq/tally/internal/middleware"
	"github.com/tallyhq/tally/internal/storage/sqlite"
	"github.com/tallyhq/tally/pkg/api"
)

// authToken sets the session token on every outgoing request.
func authToken(token string) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if token != "" {
				req.Header().Set("Authorization", "Bearer "+token)
			}
			return next(ctx, req)
		}
	}
}

type testEnv struct {
	t      *testing.T
	server *httptest.Server
	auth   api.AuthServiceClient
}

// testUser is a registered account with pre-authenticated clients.
type testUser struct {
	id       string
	events   api.EventServiceClient
	expenses api.ExpenseServiceClient
	balances api.BalanceServiceClient
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	authenticator := auth.NewPasswordAuthenticator(store)
	maxAmount := decimal.NewFromInt(1_000_000)

	authed := connect.WithInterceptors(middleware.RequireAuth(jwtManager))

	mux := http.NewServeMux()
	mux.Handle(api.NewAuthServiceHandler(NewAuthService(authenticator, jwtManager)))
	mux.Handle(api.NewEventServiceHandler(NewEventService(store), authed))
	mux.Handle(api.NewExpenseServiceHandler(NewExpenseService(store, maxAmount), authed))
	mux.Handle(api.NewBalanceServiceHandler(NewBalanceService(store), authed))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testEnv{
		t:      t,
		server: server,
		auth:   api.NewAuthServiceClient(http.DefaultClient, server.URL),
	}
}

// register creates an account and returns clients that authenticate as it.
func (e *testEnv) register(email, displayName string) *testUser {
	e.t.Helper()

	resp, err := e.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       email,
		DisplayName: displayName,
		Password:    "correct horse battery",
	}))
	if err != nil {
		e.t.Fatalf("Register(%s) failed: %v", email, err)
	}

	opts := connect.WithInterceptors(authToken(resp.Msg.Token))
	return &testUser{
		id:       resp.Msg.User.ID,
		events:   api.NewEventServiceClient(http.DefaultClient, e.server.URL, opts),
		expenses: api.NewExpenseServiceClient(http.DefaultClient, e.server.URL, opts),
		balances: api.NewBalanceServiceClient(http.DefaultClient, e.server.URL, opts),
	}
}

// createEvent makes an event owned by u with the given extra members.
func (e *testEnv) createEvent(u *testUser, name string, members ...*testUser) string {
	e.t.Helper()

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.id
	}
	resp, err := u.events.CreateEvent(context.Background(), connect.NewRequest(&api.CreateEventRequest{
		Name:      name,
		MemberIDs: ids,
	}))
	if err != nil {
		e.t.Fatalf("CreateEvent failed: %v", err)
	}
	return resp.Msg.Event.ID
}

func assertCode(t *testing.T, err error, want connect.Code) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected error with code %v, got nil", want)
	}
	connectErr, ok := err.(*connect.Error)
	if !ok {
		t.Fatalf("expected connect.Error, got %T: %v", err, err)
	}
	if connectErr.Code() != want {
		t.Errorf("expected code %v, got %v", want, connectErr.Code())
	}
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "hunter2hunter2",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if resp.Msg.Token == "" {
		t.Error("expected non-empty token")
	}
	if resp.Msg.User.ID == "" {
		t.Error("expected non-empty user ID")
	}

	// Same email again.
	_, err = env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice Again",
		Password:    "hunter2hunter2",
	}))
	assertCode(t, err, connect.CodeAlreadyExists)

	// Weak password.
	_, err = env.auth.Register(context.Background(), connect.NewRequest(&api.RegisterRequest{
		Email:       "bob@example.com",
		DisplayName: "Bob",
		Password:    "short",
	}))
	assertCode(t, err, connect.CodeInvalidArgument)

	login, err := env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "hunter2hunter2",
	}))
	if err != nil {
		t.Fatalf("Login failed: %v", err)
	}
	if login.Msg.User.ID != resp.Msg.User.ID {
		t.Errorf("login returned a different user: %s vs %s", login.Msg.User.ID, resp.Msg.User.ID)
	}

	_, err = env.auth.Login(context.Background(), connect.NewRequest(&api.LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong password",
	}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestCreateEvent(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")

	resp, err := alice.events.CreateEvent(context.Background(), connect.NewRequest(&api.CreateEventRequest{
		Name:      "Lisbon Trip",
		MemberIDs: []string{bob.id},
	}))
	if err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	event := resp.Msg.Event
	if event.Name != "Lisbon Trip" {
		t.Errorf("name: expected 'Lisbon Trip', got '%s'", event.Name)
	}
	if event.CreatedBy != alice.id {
		t.Errorf("created_by: expected %s, got %s", alice.id, event.CreatedBy)
	}
	// Creator is always a member, even when not listed.
	if len(event.MemberIDs) != 2 {
		t.Fatalf("members: expected 2, got %d", len(event.MemberIDs))
	}
	if event.MemberIDs[0] != alice.id {
		t.Errorf("expected creator first in member list, got %s", event.MemberIDs[0])
	}
}

func TestCreateEvent_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)

	client := api.NewEventServiceClient(http.DefaultClient, env.server.URL)
	_, err := client.CreateEvent(context.Background(), connect.NewRequest(&api.CreateEventRequest{
		Name: "No Token",
	}))
	assertCode(t, err, connect.CodeUnauthenticated)
}

func TestEventMembership(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	mallory := env.register("mallory@example.com", "Mallory")

	eventID := env.createEvent(alice, "Private Dinner")

	_, err := mallory.events.GetEvent(context.Background(), connect.NewRequest(&api.GetEventRequest{
		EventID: eventID,
	}))
	assertCode(t, err, connect.CodePermissionDenied)

	// Once added, the event is visible.
	_, err = alice.events.AddMembers(context.Background(), connect.NewRequest(&api.AddMembersRequest{
		EventID: eventID,
		UserIDs: []string{mallory.id},
	}))
	if err != nil {
		t.Fatalf("AddMembers failed: %v", err)
	}

	resp, err := mallory.events.GetEvent(context.Background(), connect.NewRequest(&api.GetEventRequest{
		EventID: eventID,
	}))
	if err != nil {
		t.Fatalf("GetEvent after AddMembers failed: %v", err)
	}
	if len(resp.Msg.Event.MemberIDs) != 2 {
		t.Errorf("members: expected 2, got %d", len(resp.Msg.Event.MemberIDs))
	}
}

func TestDeleteEvent_OnlyCreator(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")

	eventID := env.createEvent(alice, "Flat 4B", bob)

	_, err := bob.events.DeleteEvent(context.Background(), connect.NewRequest(&api.DeleteEventRequest{
		EventID: eventID,
	}))
	assertCode(t, err, connect.CodePermissionDenied)

	_, err = alice.events.DeleteEvent(context.Background(), connect.NewRequest(&api.DeleteEventRequest{
		EventID: eventID,
	}))
	if err != nil {
		t.Fatalf("DeleteEvent failed: %v", err)
	}

	_, err = alice.events.GetEvent(context.Background(), connect.NewRequest(&api.GetEventRequest{
		EventID: eventID,
	}))
	assertCode(t, err, connect.CodeNotFound)
}

func TestCreateSplit_Even(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")
	carol := env.register("carol@example.com", "Carol")

	eventID := env.createEvent(alice, "Groceries Run", bob, carol)

	resp, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        eventID,
		Description:    "Groceries",
		Amount:         "100.00",
		ParticipantIDs: []string{alice.id, bob.id, carol.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	split := resp.Msg.Split
	if split.PaidBy != alice.id {
		t.Errorf("paid_by should default to the caller, got %s", split.PaidBy)
	}
	if len(split.Shares) != 3 {
		t.Fatalf("shares: expected 3, got %d", len(split.Shares))
	}
	// The leftover cent lands on the first participant.
	if split.Shares[0].Amount != "33.34" {
		t.Errorf("first share: expected 33.34, got %s", split.Shares[0].Amount)
	}
	if split.Shares[1].Amount != "33.33" || split.Shares[2].Amount != "33.33" {
		t.Errorf("remaining shares: expected 33.33 each, got %s and %s",
			split.Shares[1].Amount, split.Shares[2].Amount)
	}
}

func TestCreateSplit_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")
	outsider := env.register("eve@example.com", "Eve")

	eventID := env.createEvent(alice, "Taxi", bob)

	tests := []struct {
		name string
		req  *api.CreateSplitRequest
		code connect.Code
	}{
		{
			name: "negative amount",
			req: &api.CreateSplitRequest{
				EventID: eventID, Amount: "-5.00",
				ParticipantIDs: []string{alice.id, bob.id},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "zero amount",
			req: &api.CreateSplitRequest{
				EventID: eventID, Amount: "0",
				ParticipantIDs: []string{alice.id, bob.id},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unparseable amount",
			req: &api.CreateSplitRequest{
				EventID: eventID, Amount: "ten dollars",
				ParticipantIDs: []string{alice.id, bob.id},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "payer not a member",
			req: &api.CreateSplitRequest{
				EventID: eventID, Amount: "10.00", PaidBy: outsider.id,
				ParticipantIDs: []string{alice.id, bob.id},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "share holder not a member",
			req: &api.CreateSplitRequest{
				EventID: eventID, Amount: "10.00",
				Shares: []api.Share{
					{UserID: alice.id, Amount: "5.00"},
					{UserID: outsider.id, Amount: "5.00"},
				},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "shares do not sum to amount",
			req: &api.CreateSplitRequest{
				EventID: eventID, Amount: "10.00",
				Shares: []api.Share{
					{UserID: alice.id, Amount: "5.00"},
					{UserID: bob.id, Amount: "3.00"},
				},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "duplicate share holder",
			req: &api.CreateSplitRequest{
				EventID: eventID, Amount: "10.00",
				Shares: []api.Share{
					{UserID: alice.id, Amount: "5.00"},
					{UserID: alice.id, Amount: "5.00"},
				},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "duplicate participant",
			req: &api.CreateSplitRequest{
				EventID: eventID, Amount: "10.00",
				ParticipantIDs: []string{alice.id, alice.id, bob.id},
			},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "unknown event",
			req: &api.CreateSplitRequest{
				EventID: "nonexistent", Amount: "10.00",
			},
			code: connect.CodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.code)
		})
	}

	// An outsider cannot record splits at all.
	_, err := outsider.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID: eventID, Amount: "10.00",
	}))
	assertCode(t, err, connect.CodePermissionDenied)
}

func TestUpdateSplit(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")

	eventID := env.createEvent(alice, "Road Trip", bob)

	created, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        eventID,
		Description:    "Fuel",
		Amount:         "40.00",
		ParticipantIDs: []string{alice.id, bob.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	updated, err := bob.expenses.UpdateSplit(context.Background(), connect.NewRequest(&api.UpdateSplitRequest{
		SplitID:     created.Msg.Split.ID,
		Description: "Fuel and tolls",
		PaidBy:      bob.id,
		Amount:      "60.00",
		Shares: []api.Share{
			{UserID: alice.id, Amount: "45.00"},
			{UserID: bob.id, Amount: "15.00"},
		},
	}))
	if err != nil {
		t.Fatalf("UpdateSplit failed: %v", err)
	}
	if updated.Msg.Split.Amount != "60.00" {
		t.Errorf("amount: expected 60.00, got %s", updated.Msg.Split.Amount)
	}
	if updated.Msg.Split.PaidBy != bob.id {
		t.Errorf("paid_by: expected %s, got %s", bob.id, updated.Msg.Split.PaidBy)
	}

	got, err := alice.expenses.GetSplit(context.Background(), connect.NewRequest(&api.GetSplitRequest{
		SplitID: created.Msg.Split.ID,
	}))
	if err != nil {
		t.Fatalf("GetSplit failed: %v", err)
	}
	if got.Msg.Split.Description != "Fuel and tolls" {
		t.Errorf("persisted description mismatch: got %q", got.Msg.Split.Description)
	}
}

func TestEventBalances(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")
	carol := env.register("carol@example.com", "Carol")

	eventID := env.createEvent(alice, "Dinner", bob, carol)

	// Alice fronts 60 split evenly: Bob and Carol each owe her 20.
	_, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        eventID,
		Description:    "Dinner",
		Amount:         "60.00",
		ParticipantIDs: []string{alice.id, bob.id, carol.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	// Bob settles up in full.
	_, err = bob.expenses.RecordSettlement(context.Background(), connect.NewRequest(&api.RecordSettlementRequest{
		EventID:  eventID,
		ToUserID: alice.id,
		Amount:   "20.00",
	}))
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	resp, err := carol.balances.GetEventBalances(context.Background(), connect.NewRequest(&api.GetEventBalancesRequest{
		EventID: eventID,
	}))
	if err != nil {
		t.Fatalf("GetEventBalances failed: %v", err)
	}

	byUser := make(map[string]string)
	for _, mb := range resp.Msg.MemberBalances {
		byUser[mb.UserID] = mb.NetBalance
	}
	if byUser[alice.id] != "20.00" {
		t.Errorf("alice balance: expected 20.00, got %s", byUser[alice.id])
	}
	if byUser[bob.id] != "0.00" {
		t.Errorf("bob balance: expected 0.00, got %s", byUser[bob.id])
	}
	if byUser[carol.id] != "-20.00" {
		t.Errorf("carol balance: expected -20.00, got %s", byUser[carol.id])
	}

	if len(resp.Msg.DebtMatrix) != 1 {
		t.Fatalf("debt matrix: expected 1 edge, got %d", len(resp.Msg.DebtMatrix))
	}
	edge := resp.Msg.DebtMatrix[0]
	if edge.FromUserID != carol.id || edge.ToUserID != alice.id || edge.Amount != "20.00" {
		t.Errorf("unexpected debt edge: %s owes %s %s", edge.FromUserID, edge.ToUserID, edge.Amount)
	}

	if len(resp.Msg.SuggestedTransfers) != 1 {
		t.Fatalf("suggested transfers: expected 1, got %d", len(resp.Msg.SuggestedTransfers))
	}
	transfer := resp.Msg.SuggestedTransfers[0]
	if transfer.FromUserID != carol.id || transfer.ToUserID != alice.id || transfer.Amount != "20.00" {
		t.Errorf("unexpected transfer: %s pays %s %s", transfer.FromUserID, transfer.ToUserID, transfer.Amount)
	}
}

func TestBalanceBetween(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")

	eventID := env.createEvent(alice, "Concert", bob)

	// Alice pays 50, Bob's half is 25.
	_, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        eventID,
		Amount:         "50.00",
		ParticipantIDs: []string{alice.id, bob.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	// From Bob's side: he owes 25.
	resp, err := bob.balances.GetBalanceBetween(context.Background(), connect.NewRequest(&api.GetBalanceBetweenRequest{
		EventID:     eventID,
		OtherUserID: alice.id,
	}))
	if err != nil {
		t.Fatalf("GetBalanceBetween failed: %v", err)
	}
	if resp.Msg.NetBalance != "25.00" {
		t.Errorf("bob->alice: expected 25.00, got %s", resp.Msg.NetBalance)
	}

	// From Alice's side the sign flips.
	resp, err = alice.balances.GetBalanceBetween(context.Background(), connect.NewRequest(&api.GetBalanceBetweenRequest{
		EventID:     eventID,
		OtherUserID: bob.id,
	}))
	if err != nil {
		t.Fatalf("GetBalanceBetween failed: %v", err)
	}
	if resp.Msg.NetBalance != "-25.00" {
		t.Errorf("alice->bob: expected -25.00, got %s", resp.Msg.NetBalance)
	}

	_, err = alice.balances.GetBalanceBetween(context.Background(), connect.NewRequest(&api.GetBalanceBetweenRequest{
		OtherUserID: alice.id,
	}))
	assertCode(t, err, connect.CodeInvalidArgument)
}

func TestBalanceBetween_AcrossEvents(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")

	trip := env.createEvent(alice, "Trip", bob)
	flat := env.createEvent(bob, "Flat", alice)

	// Bob owes Alice 10 from the trip; Alice owes Bob 4 from the flat.
	_, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        trip,
		Amount:         "20.00",
		ParticipantIDs: []string{alice.id, bob.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}
	_, err = bob.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        flat,
		Amount:         "8.00",
		ParticipantIDs: []string{alice.id, bob.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	// No event scope: both events count. Bob owes 10 - 4 = 6.
	resp, err := bob.balances.GetBalanceBetween(context.Background(), connect.NewRequest(&api.GetBalanceBetweenRequest{
		OtherUserID: alice.id,
	}))
	if err != nil {
		t.Fatalf("GetBalanceBetween failed: %v", err)
	}
	if resp.Msg.NetBalance != "6.00" {
		t.Errorf("expected 6.00 across events, got %s", resp.Msg.NetBalance)
	}
}

func TestUserBalance(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")
	carol := env.register("carol@example.com", "Carol")

	eventID := env.createEvent(alice, "Ski Weekend", bob, carol)

	// Alice fronts 90 evenly; Bob fronts 30 evenly.
	_, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        eventID,
		Amount:         "90.00",
		ParticipantIDs: []string{alice.id, bob.id, carol.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}
	_, err = bob.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        eventID,
		Amount:         "30.00",
		ParticipantIDs: []string{alice.id, bob.id, carol.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	// Alice: owed 30 by Bob and 30 by Carol, owes Bob 10. Net +50.
	resp, err := alice.balances.GetUserBalance(context.Background(), connect.NewRequest(&api.GetUserBalanceRequest{
		EventID: eventID,
	}))
	if err != nil {
		t.Fatalf("GetUserBalance failed: %v", err)
	}
	if resp.Msg.TotalBalance != "50.00" {
		t.Errorf("total: expected 50.00, got %s", resp.Msg.TotalBalance)
	}

	// Per-pair netting: Bob's 30 debt nets against Alice's 10 to 20.
	if len(resp.Msg.OwedBy) != 2 {
		t.Fatalf("owed_by: expected 2 entries, got %d", len(resp.Msg.OwedBy))
	}
	owedBy := make(map[string]string)
	for _, o := range resp.Msg.OwedBy {
		owedBy[o.UserID] = o.Amount
	}
	if owedBy[bob.id] != "20.00" {
		t.Errorf("bob owes alice: expected 20.00, got %s", owedBy[bob.id])
	}
	if owedBy[carol.id] != "30.00" {
		t.Errorf("carol owes alice: expected 30.00, got %s", owedBy[carol.id])
	}
	if len(resp.Msg.Owes) != 0 {
		t.Errorf("owes: expected none after netting, got %d", len(resp.Msg.Owes))
	}

	// Display names come back with the obligations.
	for _, o := range resp.Msg.OwedBy {
		if o.DisplayName == "" {
			t.Errorf("missing display name for %s", o.UserID)
		}
	}
}

func TestDeleteSplitRestoresBalance(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")

	eventID := env.createEvent(alice, "Lunch", bob)

	created, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        eventID,
		Amount:         "30.00",
		ParticipantIDs: []string{alice.id, bob.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	resp, err := bob.balances.GetBalanceBetween(context.Background(), connect.NewRequest(&api.GetBalanceBetweenRequest{
		EventID:     eventID,
		OtherUserID: alice.id,
	}))
	if err != nil {
		t.Fatalf("GetBalanceBetween failed: %v", err)
	}
	if resp.Msg.NetBalance != "15.00" {
		t.Fatalf("expected 15.00 before delete, got %s", resp.Msg.NetBalance)
	}

	_, err = alice.expenses.DeleteSplit(context.Background(), connect.NewRequest(&api.DeleteSplitRequest{
		SplitID: created.Msg.Split.ID,
	}))
	if err != nil {
		t.Fatalf("DeleteSplit failed: %v", err)
	}

	resp, err = bob.balances.GetBalanceBetween(context.Background(), connect.NewRequest(&api.GetBalanceBetweenRequest{
		EventID:     eventID,
		OtherUserID: alice.id,
	}))
	if err != nil {
		t.Fatalf("GetBalanceBetween failed: %v", err)
	}
	if resp.Msg.NetBalance != "0.00" {
		t.Errorf("expected 0.00 after delete, got %s", resp.Msg.NetBalance)
	}
}

func TestSettlementOverpayment(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")

	eventID := env.createEvent(alice, "Cinema", bob)

	// Bob owes Alice 10.
	_, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
		EventID:        eventID,
		Amount:         "20.00",
		ParticipantIDs: []string{alice.id, bob.id},
	}))
	if err != nil {
		t.Fatalf("CreateSplit failed: %v", err)
	}

	// Bob pays 15: the 5 extra flips the direction.
	_, err = bob.expenses.RecordSettlement(context.Background(), connect.NewRequest(&api.RecordSettlementRequest{
		EventID:  eventID,
		ToUserID: alice.id,
		Amount:   "15.00",
	}))
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	resp, err := alice.balances.GetBalanceBetween(context.Background(), connect.NewRequest(&api.GetBalanceBetweenRequest{
		EventID:     eventID,
		OtherUserID: bob.id,
	}))
	if err != nil {
		t.Fatalf("GetBalanceBetween failed: %v", err)
	}
	if resp.Msg.NetBalance != "5.00" {
		t.Errorf("expected alice to owe 5.00 after overpayment, got %s", resp.Msg.NetBalance)
	}
}

func TestRecordSettlement_Validation(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")
	outsider := env.register("eve@example.com", "Eve")

	eventID := env.createEvent(alice, "Picnic", bob)

	tests := []struct {
		name string
		req  *api.RecordSettlementRequest
		code connect.Code
	}{
		{
			name: "self settlement",
			req:  &api.RecordSettlementRequest{EventID: eventID, ToUserID: alice.id, Amount: "5.00"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "missing recipient",
			req:  &api.RecordSettlementRequest{EventID: eventID, Amount: "5.00"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "recipient not a member",
			req:  &api.RecordSettlementRequest{EventID: eventID, ToUserID: outsider.id, Amount: "5.00"},
			code: connect.CodeInvalidArgument,
		},
		{
			name: "negative amount",
			req:  &api.RecordSettlementRequest{EventID: eventID, ToUserID: bob.id, Amount: "-5.00"},
			code: connect.CodeInvalidArgument,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := alice.expenses.RecordSettlement(context.Background(), connect.NewRequest(tt.req))
			assertCode(t, err, tt.code)
		})
	}
}

func TestListSplitsAndSettlements(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register("alice@example.com", "Alice")
	bob := env.register("bob@example.com", "Bob")

	eventID := env.createEvent(alice, "Week 1", bob)

	for i := 0; i < 3; i++ {
		_, err := alice.expenses.CreateSplit(context.Background(), connect.NewRequest(&api.CreateSplitRequest{
			EventID:        eventID,
			Description:    fmt.Sprintf("Expense %d", i+1),
			Amount:         "10.00",
			ParticipantIDs: []string{alice.id, bob.id},
		}))
		if err != nil {
			t.Fatalf("CreateSplit %d failed: %v", i, err)
		}
	}
	_, err := bob.expenses.RecordSettlement(context.Background(), connect.NewRequest(&api.RecordSettlementRequest{
		EventID:  eventID,
		ToUserID: alice.id,
		Amount:   "15.00",
		Note:     "settling up",
	}))
	if err != nil {
		t.Fatalf("RecordSettlement failed: %v", err)
	}

	splits, err := bob.expenses.ListSplits(context.Background(), connect.NewRequest(&api.ListSplitsRequest{
		EventID: eventID,
	}))
	if err != nil {
		t.Fatalf("ListSplits failed: %v", err)
	}
	if len(splits.Msg.Splits) != 3 {
		t.Errorf("splits: expected 3, got %d", len(splits.Msg.Splits))
	}

	settlements, err := alice.expenses.ListSettlements(context.Background(), connect.NewRequest(&api.ListSettlementsRequest{
		EventID: eventID,
	}))
	if err != nil {
		t.Fatalf("ListSettlements failed: %v", err)
	}
	if len(settlements.Msg.Settlements) != 1 {
		t.Fatalf("settlements: expected 1, got %d", len(settlements.Msg.Settlements))
	}
	if settlements.Msg.Settlements[0].Note != "settling up" {
		t.Errorf("note mismatch: got %q", settlements.Msg.Settlements[0].Note)
	}

	// Deleting the settlement restores Bob's debt.
	_, err = bob.expenses.DeleteSettlement(context.Background(), connect.NewRequest(&api.DeleteSettlementRequest{
		SettlementID: settlements.Msg.Settlements[0].ID,
	}))
	if err != nil {
		t.Fatalf("DeleteSettlement failed: %v", err)
	}
	balance, err := bob.balances.GetBalanceBetween(context.Background(), connect.NewRequest(&api.GetBalanceBetweenRequest{
		EventID:     eventID,
		OtherUserID: alice.id,
	}))
	if err != nil {
		t.Fatalf("GetBalanceBetween failed: %v", err)
	}
	if balance.Msg.NetBalance != "15.00" {
		t.Errorf("expected 15.00 after settlement delete, got %s", balance.Msg.NetBalance)
	}
}
