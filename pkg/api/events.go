package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// EventServiceName is the fully-qualified service name.
	EventServiceName = "tally.v1.EventService"

	EventServiceCreateEventProcedure = "/tally.v1.EventService/CreateEvent"
	EventServiceGetEventProcedure    = "/tally.v1.EventService/GetEvent"
	EventServiceListEventsProcedure  = "/tally.v1.EventService/ListEvents"
	EventServiceUpdateEventProcedure = "/tally.v1.EventService/UpdateEvent"
	EventServiceDeleteEventProcedure = "/tally.v1.EventService/DeleteEvent"
	EventServiceAddMembersProcedure  = "/tally.v1.EventService/AddMembers"
)

// EventServiceHandler is the server API for the event service.
type EventServiceHandler interface {
	CreateEvent(context.Context, *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error)
	ListEvents(context.Context, *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error)
	UpdateEvent(context.Context, *connect.Request[UpdateEventRequest]) (*connect.Response[UpdateEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[DeleteEventRequest]) (*connect.Response[DeleteEventResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
}

// NewEventServiceHandler builds an HTTP handler for the event service.
func NewEventServiceHandler(svc EventServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSON(opts)
	mux := http.NewServeMux()
	mux.Handle(EventServiceCreateEventProcedure, connect.NewUnaryHandler(
		EventServiceCreateEventProcedure, svc.CreateEvent, opts...))
	mux.Handle(EventServiceGetEventProcedure, connect.NewUnaryHandler(
		EventServiceGetEventProcedure, svc.GetEvent, opts...))
	mux.Handle(EventServiceListEventsProcedure, connect.NewUnaryHandler(
		EventServiceListEventsProcedure, svc.ListEvents, opts...))
	mux.Handle(EventServiceUpdateEventProcedure, connect.NewUnaryHandler(
		EventServiceUpdateEventProcedure, svc.UpdateEvent, opts...))
	mux.Handle(EventServiceDeleteEventProcedure, connect.NewUnaryHandler(
		EventServiceDeleteEventProcedure, svc.DeleteEvent, opts...))
	mux.Handle(EventServiceAddMembersProcedure, connect.NewUnaryHandler(
		EventServiceAddMembersProcedure, svc.AddMembers, opts...))
	return "/tally.v1.EventService/", mux
}

// EventServiceClient is the client API for the event service.
type EventServiceClient interface {
	CreateEvent(context.Context, *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error)
	GetEvent(context.Context, *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error)
	ListEvents(context.Context, *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error)
	UpdateEvent(context.Context, *connect.Request[UpdateEventRequest]) (*connect.Response[UpdateEventResponse], error)
	DeleteEvent(context.Context, *connect.Request[DeleteEventRequest]) (*connect.Response[DeleteEventResponse], error)
	AddMembers(context.Context, *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error)
}

// NewEventServiceClient builds a client reaching the event service at baseURL.
func NewEventServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) EventServiceClient {
	opts = withJSONClient(opts)
	return &eventServiceClient{
		createEvent: connect.NewClient[CreateEventRequest, CreateEventResponse](
			httpClient, baseURL+EventServiceCreateEventProcedure, opts...),
		getEvent: connect.NewClient[GetEventRequest, GetEventResponse](
			httpClient, baseURL+EventServiceGetEventProcedure, opts...),
		listEvents: connect.NewClient[ListEventsRequest, ListEventsResponse](
			httpClient, baseURL+EventServiceListEventsProcedure, opts...),
		updateEvent: connect.NewClient[UpdateEventRequest, UpdateEventResponse](
			httpClient, baseURL+EventServiceUpdateEventProcedure, opts...),
		deleteEvent: connect.NewClient[DeleteEventRequest, DeleteEventResponse](
			httpClient, baseURL+EventServiceDeleteEventProcedure, opts...),
		addMembers: connect.NewClient[AddMembersRequest, AddMembersResponse](
			httpClient, baseURL+EventServiceAddMembersProcedure, opts...),
	}
}

type eventServiceClient struct {
	createEvent *connect.Client[CreateEventRequest, CreateEventResponse]
	getEvent    *connect.Client[GetEventRequest, GetEventResponse]
	listEvents  *connect.Client[ListEventsRequest, ListEventsResponse]
	updateEvent *connect.Client[UpdateEventRequest, UpdateEventResponse]
	deleteEvent *connect.Client[DeleteEventRequest, DeleteEventResponse]
	addMembers  *connect.Client[AddMembersRequest, AddMembersResponse]
}

func (c *eventServiceClient) CreateEvent(ctx context.Context, req *connect.Request[CreateEventRequest]) (*connect.Response[CreateEventResponse], error) {
	return c.createEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) GetEvent(ctx context.Context, req *connect.Request[GetEventRequest]) (*connect.Response[GetEventResponse], error) {
	return c.getEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) ListEvents(ctx context.Context, req *connect.Request[ListEventsRequest]) (*connect.Response[ListEventsResponse], error) {
	return c.listEvents.CallUnary(ctx, req)
}

func (c *eventServiceClient) UpdateEvent(ctx context.Context, req *connect.Request[UpdateEventRequest]) (*connect.Response[UpdateEventResponse], error) {
	return c.updateEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) DeleteEvent(ctx context.Context, req *connect.Request[DeleteEventRequest]) (*connect.Response[DeleteEventResponse], error) {
	return c.deleteEvent.CallUnary(ctx, req)
}

func (c *eventServiceClient) AddMembers(ctx context.Context, req *connect.Request[AddMembersRequest]) (*connect.Response[AddMembersResponse], error) {
	return c.addMembers.CallUnary(ctx, req)
}
