package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/tallyhq/tally/internal/middleware"
	"github.com/tallyhq/tally/internal/models"
	"github.com/tallyhq/tally/internal/storage"
	"github.com/tallyhq/tally/pkg/api"
)

// EventService implements the Connect EventService: CRUD for the scopes that
// partition every balance computation.
type EventService struct {
	store storage.Store
}

// NewEventService creates a new EventService with the given storage backend.
func NewEventService(store storage.Store) *EventService {
	return &EventService{store: store}
}

// withCreator returns members with userID included, deduplicated, preserving
// input order.
func withCreator(members []string, userID string) []string {
	seen := make(map[string]bool, len(members)+1)
	out := make([]string, 0, len(members)+1)
	for _, m := range append([]string{userID}, members...) {
		if m == "" || seen[m] {
			continue
		}
		seen[m] = true
		out = append(out, m)
	}
	return out
}

// CreateEvent creates a new event. The caller is always a member.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[api.CreateEventRequest]) (*connect.Response[api.CreateEventResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("name is required"))
	}

	event := &models.Event{
		Name:      name,
		Members:   withCreator(req.Msg.MemberIDs, userID),
		CreatedBy: userID,
	}
	if err := s.store.CreateEvent(ctx, event); err != nil {
		slog.Error("CreateEvent failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Event created", "event_id", event.ID, "created_by", userID)
	return connect.NewResponse(&api.CreateEventResponse{Event: toAPIEvent(event)}), nil
}

// GetEvent retrieves an event the caller is a member of.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[api.GetEventRequest]) (*connect.Response[api.GetEventResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("GetEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !event.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of this event"))
	}

	return connect.NewResponse(&api.GetEventResponse{Event: toAPIEvent(event)}), nil
}

// ListEvents retrieves every event the caller is a member of.
func (s *EventService) ListEvents(ctx context.Context, req *connect.Request[api.ListEventsRequest]) (*connect.Response[api.ListEventsResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	events, err := s.store.ListEventsByUser(ctx, userID)
	if err != nil {
		slog.Error("ListEvents failed", "user_id", userID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]*api.Event, len(events))
	for i, e := range events {
		out[i] = toAPIEvent(e)
	}
	return connect.NewResponse(&api.ListEventsResponse{Events: out}), nil
}

// UpdateEvent replaces an event's name and member list. Members are never
// removed implicitly: the new list must still contain everyone who appears
// in a recorded split or settlement, which is enforced by keeping the old
// members in the stored list.
func (s *EventService) UpdateEvent(ctx context.Context, req *connect.Request[api.UpdateEventRequest]) (*connect.Response[api.UpdateEventResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	existing, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("UpdateEvent: failed to get event", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !existing.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of this event"))
	}

	name := strings.TrimSpace(req.Msg.Name)
	if name == "" {
		name = existing.Name
	}

	// Removing a member would orphan their recorded shares, so the update
	// can only grow the member list.
	members := existing.Members
	for _, m := range req.Msg.MemberIDs {
		if m != "" && !existing.HasMember(m) {
			members = append(members, m)
		}
	}

	event := &models.Event{
		ID:        existing.ID,
		Name:      name,
		Members:   members,
		CreatedBy: existing.CreatedBy,
		CreatedAt: existing.CreatedAt,
	}
	if err := s.store.UpdateEvent(ctx, event); err != nil {
		slog.Error("UpdateEvent failed", "event_id", event.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	return connect.NewResponse(&api.UpdateEventResponse{Event: toAPIEvent(event)}), nil
}

// DeleteEvent removes an event and everything recorded under it. Only the
// creator can delete an event.
func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[api.DeleteEventRequest]) (*connect.Response[api.DeleteEventResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("DeleteEvent: failed to get event", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if event.CreatedBy != userID {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("only the event creator can delete it"))
	}

	if err := s.store.DeleteEvent(ctx, req.Msg.EventID); err != nil {
		slog.Error("DeleteEvent failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Event deleted", "event_id", req.Msg.EventID, "deleted_by", userID)
	return connect.NewResponse(&api.DeleteEventResponse{}), nil
}

// AddMembers adds users to an event. Any current member can add others.
func (s *EventService) AddMembers(ctx context.Context, req *connect.Request[api.AddMembersRequest]) (*connect.Response[api.AddMembersResponse], error) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return nil, connect.NewError(connect.CodeUnauthenticated, fmt.Errorf("authentication required"))
	}
	if len(req.Msg.UserIDs) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("user_ids is required"))
	}

	event, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("AddMembers: failed to get event", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeNotFound, err)
	}
	if !event.HasMember(userID) {
		return nil, connect.NewError(connect.CodePermissionDenied, fmt.Errorf("you must be a member of this event"))
	}

	if err := s.store.AddEventMembers(ctx, req.Msg.EventID, req.Msg.UserIDs); err != nil {
		slog.Error("AddMembers failed", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	updated, err := s.store.GetEvent(ctx, req.Msg.EventID)
	if err != nil {
		slog.Error("AddMembers: failed to reload event", "event_id", req.Msg.EventID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.AddMembersResponse{Event: toAPIEvent(updated)}), nil
}
