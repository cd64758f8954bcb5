package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// ExpenseServiceName is the fully-qualified service name.
	ExpenseServiceName = "tally.v1.ExpenseService"

	ExpenseServiceCreateSplitProcedure      = "/tally.v1.ExpenseService/CreateSplit"
	ExpenseServiceGetSplitProcedure         = "/tally.v1.ExpenseService/GetSplit"
	ExpenseServiceUpdateSplitProcedure      = "/tally.v1.ExpenseService/UpdateSplit"
	ExpenseServiceDeleteSplitProcedure      = "/tally.v1.ExpenseService/DeleteSplit"
	ExpenseServiceListSplitsProcedure       = "/tally.v1.ExpenseService/ListSplits"
	ExpenseServiceRecordSettlementProcedure = "/tally.v1.ExpenseService/RecordSettlement"
	ExpenseServiceListSettlementsProcedure  = "/tally.v1.ExpenseService/ListSettlements"
	ExpenseServiceDeleteSettlementProcedure = "/tally.v1.ExpenseService/DeleteSettlement"
)

// ExpenseServiceHandler is the server API for the expense service.
type ExpenseServiceHandler interface {
	CreateSplit(context.Context, *connect.Request[CreateSplitRequest]) (*connect.Response[CreateSplitResponse], error)
	GetSplit(context.Context, *connect.Request[GetSplitRequest]) (*connect.Response[GetSplitResponse], error)
	UpdateSplit(context.Context, *connect.Request[UpdateSplitRequest]) (*connect.Response[UpdateSplitResponse], error)
	DeleteSplit(context.Context, *connect.Request[DeleteSplitRequest]) (*connect.Response[DeleteSplitResponse], error)
	ListSplits(context.Context, *connect.Request[ListSplitsRequest]) (*connect.Response[ListSplitsResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[DeleteSettlementRequest]) (*connect.Response[DeleteSettlementResponse], error)
}

// NewExpenseServiceHandler builds an HTTP handler for the expense service.
func NewExpenseServiceHandler(svc ExpenseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSON(opts)
	mux := http.NewServeMux()
	mux.Handle(ExpenseServiceCreateSplitProcedure, connect.NewUnaryHandler(
		ExpenseServiceCreateSplitProcedure, svc.CreateSplit, opts...))
	mux.Handle(ExpenseServiceGetSplitProcedure, connect.NewUnaryHandler(
		ExpenseServiceGetSplitProcedure, svc.GetSplit, opts...))
	mux.Handle(ExpenseServiceUpdateSplitProcedure, connect.NewUnaryHandler(
		ExpenseServiceUpdateSplitProcedure, svc.UpdateSplit, opts...))
	mux.Handle(ExpenseServiceDeleteSplitProcedure, connect.NewUnaryHandler(
		ExpenseServiceDeleteSplitProcedure, svc.DeleteSplit, opts...))
	mux.Handle(ExpenseServiceListSplitsProcedure, connect.NewUnaryHandler(
		ExpenseServiceListSplitsProcedure, svc.ListSplits, opts...))
	mux.Handle(ExpenseServiceRecordSettlementProcedure, connect.NewUnaryHandler(
		ExpenseServiceRecordSettlementProcedure, svc.RecordSettlement, opts...))
	mux.Handle(ExpenseServiceListSettlementsProcedure, connect.NewUnaryHandler(
		ExpenseServiceListSettlementsProcedure, svc.ListSettlements, opts...))
	mux.Handle(ExpenseServiceDeleteSettlementProcedure, connect.NewUnaryHandler(
		ExpenseServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts...))
	return "/tally.v1.ExpenseService/", mux
}

// ExpenseServiceClient is the client API for the expense service.
type ExpenseServiceClient interface {
	CreateSplit(context.Context, *connect.Request[CreateSplitRequest]) (*connect.Response[CreateSplitResponse], error)
	GetSplit(context.Context, *connect.Request[GetSplitRequest]) (*connect.Response[GetSplitResponse], error)
	UpdateSplit(context.Context, *connect.Request[UpdateSplitRequest]) (*connect.Response[UpdateSplitResponse], error)
	DeleteSplit(context.Context, *connect.Request[DeleteSplitRequest]) (*connect.Response[DeleteSplitResponse], error)
	ListSplits(context.Context, *connect.Request[ListSplitsRequest]) (*connect.Response[ListSplitsResponse], error)
	RecordSettlement(context.Context, *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[DeleteSettlementRequest]) (*connect.Response[DeleteSettlementResponse], error)
}

// NewExpenseServiceClient builds a client reaching the expense service at
// baseURL.
func NewExpenseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) ExpenseServiceClient {
	opts = withJSONClient(opts)
	return &expenseServiceClient{
		createSplit: connect.NewClient[CreateSplitRequest, CreateSplitResponse](
			httpClient, baseURL+ExpenseServiceCreateSplitProcedure, opts...),
		getSplit: connect.NewClient[GetSplitRequest, GetSplitResponse](
			httpClient, baseURL+ExpenseServiceGetSplitProcedure, opts...),
		updateSplit: connect.NewClient[UpdateSplitRequest, UpdateSplitResponse](
			httpClient, baseURL+ExpenseServiceUpdateSplitProcedure, opts...),
		deleteSplit: connect.NewClient[DeleteSplitRequest, DeleteSplitResponse](
			httpClient, baseURL+ExpenseServiceDeleteSplitProcedure, opts...),
		listSplits: connect.NewClient[ListSplitsRequest, ListSplitsResponse](
			httpClient, baseURL+ExpenseServiceListSplitsProcedure, opts...),
		recordSettlement: connect.NewClient[RecordSettlementRequest, RecordSettlementResponse](
			httpClient, baseURL+ExpenseServiceRecordSettlementProcedure, opts...),
		listSettlements: connect.NewClient[ListSettlementsRequest, ListSettlementsResponse](
			httpClient, baseURL+ExpenseServiceListSettlementsProcedure, opts...),
		deleteSettlement: connect.NewClient[DeleteSettlementRequest, DeleteSettlementResponse](
			httpClient, baseURL+ExpenseServiceDeleteSettlementProcedure, opts...),
	}
}

type expenseServiceClient struct {
	createSplit      *connect.Client[CreateSplitRequest, CreateSplitResponse]
	getSplit         *connect.Client[GetSplitRequest, GetSplitResponse]
	updateSplit      *connect.Client[UpdateSplitRequest, UpdateSplitResponse]
	deleteSplit      *connect.Client[DeleteSplitRequest, DeleteSplitResponse]
	listSplits       *connect.Client[ListSplitsRequest, ListSplitsResponse]
	recordSettlement *connect.Client[RecordSettlementRequest, RecordSettlementResponse]
	listSettlements  *connect.Client[ListSettlementsRequest, ListSettlementsResponse]
	deleteSettlement *connect.Client[DeleteSettlementRequest, DeleteSettlementResponse]
}

func (c *expenseServiceClient) CreateSplit(ctx context.Context, req *connect.Request[CreateSplitRequest]) (*connect.Response[CreateSplitResponse], error) {
	return c.createSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) GetSplit(ctx context.Context, req *connect.Request[GetSplitRequest]) (*connect.Response[GetSplitResponse], error) {
	return c.getSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) UpdateSplit(ctx context.Context, req *connect.Request[UpdateSplitRequest]) (*connect.Response[UpdateSplitResponse], error) {
	return c.updateSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteSplit(ctx context.Context, req *connect.Request[DeleteSplitRequest]) (*connect.Response[DeleteSplitResponse], error) {
	return c.deleteSplit.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListSplits(ctx context.Context, req *connect.Request[ListSplitsRequest]) (*connect.Response[ListSplitsResponse], error) {
	return c.listSplits.CallUnary(ctx, req)
}

func (c *expenseServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[RecordSettlementRequest]) (*connect.Response[RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *expenseServiceClient) ListSettlements(ctx context.Context, req *connect.Request[ListSettlementsRequest]) (*connect.Response[ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *expenseServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[DeleteSettlementRequest]) (*connect.Response[DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}
