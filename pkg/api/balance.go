package api

import (
	"context"
	"net/http"

	"connectrpc.com/connect"
)

const (
	// BalanceServiceName is the fully-qualified service name.
	BalanceServiceName = "tally.v1.BalanceService"

	BalanceServiceGetEventBalancesProcedure  = "/tally.v1.BalanceService/GetEventBalances"
	BalanceServiceGetBalanceBetweenProcedure = "/tally.v1.BalanceService/GetBalanceBetween"
	BalanceServiceGetUserBalanceProcedure    = "/tally.v1.BalanceService/GetUserBalance"
)

// BalanceServiceHandler is the server API for the balance service.
type BalanceServiceHandler interface {
	GetEventBalances(context.Context, *connect.Request[GetEventBalancesRequest]) (*connect.Response[GetEventBalancesResponse], error)
	GetBalanceBetween(context.Context, *connect.Request[GetBalanceBetweenRequest]) (*connect.Response[GetBalanceBetweenResponse], error)
	GetUserBalance(context.Context, *connect.Request[GetUserBalanceRequest]) (*connect.Response[GetUserBalanceResponse], error)
}

// NewBalanceServiceHandler builds an HTTP handler for the balance service.
func NewBalanceServiceHandler(svc BalanceServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSON(opts)
	mux := http.NewServeMux()
	mux.Handle(BalanceServiceGetEventBalancesProcedure, connect.NewUnaryHandler(
		BalanceServiceGetEventBalancesProcedure, svc.GetEventBalances, opts...))
	mux.Handle(BalanceServiceGetBalanceBetweenProcedure, connect.NewUnaryHandler(
		BalanceServiceGetBalanceBetweenProcedure, svc.GetBalanceBetween, opts...))
	mux.Handle(BalanceServiceGetUserBalanceProcedure, connect.NewUnaryHandler(
		BalanceServiceGetUserBalanceProcedure, svc.GetUserBalance, opts...))
	return "/tally.v1.BalanceService/", mux
}

// BalanceServiceClient is the client API for the balance service.
type BalanceServiceClient interface {
	GetEventBalances(context.Context, *connect.Request[GetEventBalancesRequest]) (*connect.Response[GetEventBalancesResponse], error)
	GetBalanceBetween(context.Context, *connect.Request[GetBalanceBetweenRequest]) (*connect.Response[GetBalanceBetweenResponse], error)
	GetUserBalance(context.Context, *connect.Request[GetUserBalanceRequest]) (*connect.Response[GetUserBalanceResponse], error)
}

// NewBalanceServiceClient builds a client reaching the balance service at
// baseURL.
func NewBalanceServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) BalanceServiceClient {
	opts = withJSONClient(opts)
	return &balanceServiceClient{
		getEventBalances: connect.NewClient[GetEventBalancesRequest, GetEventBalancesResponse](
			httpClient, baseURL+BalanceServiceGetEventBalancesProcedure, opts...),
		getBalanceBetween: connect.NewClient[GetBalanceBetweenRequest, GetBalanceBetweenResponse](
			httpClient, baseURL+BalanceServiceGetBalanceBetweenProcedure, opts...),
		getUserBalance: connect.NewClient[GetUserBalanceRequest, GetUserBalanceResponse](
			httpClient, baseURL+BalanceServiceGetUserBalanceProcedure, opts...),
	}
}

type balanceServiceClient struct {
	getEventBalances  *connect.Client[GetEventBalancesRequest, GetEventBalancesResponse]
	getBalanceBetween *connect.Client[GetBalanceBetweenRequest, GetBalanceBetweenResponse]
	getUserBalance    *connect.Client[GetUserBalanceRequest, GetUserBalanceResponse]
}

func (c *balanceServiceClient) GetEventBalances(ctx context.Context, req *connect.Request[GetEventBalancesRequest]) (*connect.Response[GetEventBalancesResponse], error) {
	return c.getEventBalances.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetBalanceBetween(ctx context.Context, req *connect.Request[GetBalanceBetweenRequest]) (*connect.Response[GetBalanceBetweenResponse], error) {
	return c.getBalanceBetween.CallUnary(ctx, req)
}

func (c *balanceServiceClient) GetUserBalance(ctx context.Context, req *connect.Request[GetUserBalanceRequest]) (*connect.Response[GetUserBalanceResponse], error) {
	return c.getUserBalance.CallUnary(ctx, req)
}
