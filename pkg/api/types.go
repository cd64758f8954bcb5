package api

// User is the public view of an account; the password hash never leaves the
// server.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// Event is a scope for splits and settlements.
type Event struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
	CreatedBy string   `json:"created_by"`
	CreatedAt int64    `json:"created_at"`
}

// Share is one participant's portion of a split.
type Share struct {
	UserID string `json:"user_id"`
	Amount string `json:"amount"`
}

// Split is a bill paid by one member and owed in shares.
type Split struct {
	ID          string  `json:"id"`
	EventID     string  `json:"event_id"`
	Description string  `json:"description"`
	PaidBy      string  `json:"paid_by"`
	Amount      string  `json:"amount"`
	Shares      []Share `json:"shares"`
	CreatedBy   string  `json:"created_by"`
	CreatedAt   int64   `json:"created_at"`
}

// Settlement is a direct payment between two members.
type Settlement struct {
	ID         string `json:"id"`
	EventID    string `json:"event_id"`
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
	CreatedBy  string `json:"created_by"`
	CreatedAt  int64  `json:"created_at"`
}

// Obligation is one side of a user's position against a counterparty.
type Obligation struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	Amount      string `json:"amount"`
}

// MemberBalance is one member's net position within an event.
type MemberBalance struct {
	UserID      string `json:"user_id"`
	DisplayName string `json:"display_name,omitempty"`
	// NetBalance is positive when the member is owed money overall.
	NetBalance string `json:"net_balance"`
}

// DebtEdge is a net directional debt between two members.
type DebtEdge struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     string `json:"amount"`
}

// Transfer is one suggested payment in a settlement plan.
type Transfer struct {
	FromUserID string `json:"from_user_id"`
	ToUserID   string `json:"to_user_id"`
	Amount     string `json:"amount"`
}

// --- AuthService messages ---

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// --- EventService messages ---

type CreateEventRequest struct {
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

type CreateEventResponse struct {
	Event *Event `json:"event"`
}

type GetEventRequest struct {
	EventID string `json:"event_id"`
}

type GetEventResponse struct {
	Event *Event `json:"event"`
}

type ListEventsRequest struct{}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

type UpdateEventRequest struct {
	EventID   string   `json:"event_id"`
	Name      string   `json:"name"`
	MemberIDs []string `json:"member_ids"`
}

type UpdateEventResponse struct {
	Event *Event `json:"event"`
}

type DeleteEventRequest struct {
	EventID string `json:"event_id"`
}

type DeleteEventResponse struct{}

type AddMembersRequest struct {
	EventID string   `json:"event_id"`
	UserIDs []string `json:"user_ids"`
}

type AddMembersResponse struct {
	Event *Event `json:"event"`
}

// --- ExpenseService messages ---

type CreateSplitRequest struct {
	EventID     string `json:"event_id"`
	Description string `json:"description"`
	PaidBy      string `json:"paid_by"`
	Amount      string `json:"amount"`
	// Shares gives each participant's exact portion. Leave empty and set
	// ParticipantIDs instead to split the amount evenly.
	Shares         []Share  `json:"shares,omitempty"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

type CreateSplitResponse struct {
	Split *Split `json:"split"`
}

type GetSplitRequest struct {
	SplitID string `json:"split_id"`
}

type GetSplitResponse struct {
	Split *Split `json:"split"`
}

type UpdateSplitRequest struct {
	SplitID        string   `json:"split_id"`
	Description    string   `json:"description"`
	PaidBy         string   `json:"paid_by"`
	Amount         string   `json:"amount"`
	Shares         []Share  `json:"shares,omitempty"`
	ParticipantIDs []string `json:"participant_ids,omitempty"`
}

type UpdateSplitResponse struct {
	Split *Split `json:"split"`
}

type DeleteSplitRequest struct {
	SplitID string `json:"split_id"`
}

type DeleteSplitResponse struct{}

type ListSplitsRequest struct {
	EventID string `json:"event_id"`
}

type ListSplitsResponse struct {
	Splits []*Split `json:"splits"`
}

type RecordSettlementRequest struct {
	EventID string `json:"event_id"`
	// FromUserID defaults to the caller when empty.
	FromUserID string `json:"from_user_id,omitempty"`
	ToUserID   string `json:"to_user_id"`
	Amount     string `json:"amount"`
	Note       string `json:"note,omitempty"`
}

type RecordSettlementResponse struct {
	Settlement *Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	EventID string `json:"event_id"`
}

type ListSettlementsResponse struct {
	Settlements []*Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlement_id"`
}

type DeleteSettlementResponse struct{}

// --- BalanceService messages ---

type GetEventBalancesRequest struct {
	EventID string `json:"event_id"`
}

type GetEventBalancesResponse struct {
	MemberBalances []*MemberBalance `json:"member_balances"`
	// DebtMatrix lists net pairwise debts above one cent.
	DebtMatrix []*DebtEdge `json:"debt_matrix"`
	// SuggestedTransfers close every balance to within a cent of zero.
	SuggestedTransfers []*Transfer `json:"suggested_transfers"`
}

type GetBalanceBetweenRequest struct {
	// EventID scopes the computation; empty means every event the caller
	// shares with the other user.
	EventID     string `json:"event_id,omitempty"`
	OtherUserID string `json:"other_user_id"`
}

type GetBalanceBetweenResponse struct {
	// NetBalance is positive when the caller owes the other user.
	NetBalance string `json:"net_balance"`
}

type GetUserBalanceRequest struct {
	// EventID scopes the computation; empty means all the caller's events.
	EventID string `json:"event_id,omitempty"`
}

type GetUserBalanceResponse struct {
	// TotalBalance is positive when the caller is owed money overall.
	TotalBalance string        `json:"total_balance"`
	Owes         []*Obligation `json:"owes"`
	OwedBy       []*Obligation `json:"owed_by"`
}
