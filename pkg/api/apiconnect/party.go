package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/yet-an-other/isplitapp-sub000/pkg/api"
)

// PartyServiceName is the fully-qualified name of the PartyService.
const PartyServiceName = "isplitapp.v1.PartyService"

// Procedure paths of the PartyService RPCs.
const (
	PartyServiceCreatePartyProcedure      = "/isplitapp.v1.PartyService/CreateParty"
	PartyServiceGetPartyProcedure         = "/isplitapp.v1.PartyService/GetParty"
	PartyServiceListPartiesProcedure      = "/isplitapp.v1.PartyService/ListParties"
	PartyServiceUpdatePartyProcedure      = "/isplitapp.v1.PartyService/UpdateParty"
	PartyServiceDeletePartyProcedure      = "/isplitapp.v1.PartyService/DeleteParty"
	PartyServiceGetBalancesProcedure      = "/isplitapp.v1.PartyService/GetBalances"
	PartyServiceRecordSettlementProcedure = "/isplitapp.v1.PartyService/RecordSettlement"
	PartyServiceListSettlementsProcedure  = "/isplitapp.v1.PartyService/ListSettlements"
	PartyServiceDeleteSettlementProcedure = "/isplitapp.v1.PartyService/DeleteSettlement"
)

// PartyServiceHandler is implemented by the server side of the PartyService.
type PartyServiceHandler interface {
	CreateParty(context.Context, *connect.Request[api.CreatePartyRequest]) (*connect.Response[api.CreatePartyResponse], error)
	GetParty(context.Context, *connect.Request[api.GetPartyRequest]) (*connect.Response[api.GetPartyResponse], error)
	ListParties(context.Context, *connect.Request[api.ListPartiesRequest]) (*connect.Response[api.ListPartiesResponse], error)
	UpdateParty(context.Context, *connect.Request[api.UpdatePartyRequest]) (*connect.Response[api.UpdatePartyResponse], error)
	DeleteParty(context.Context, *connect.Request[api.DeletePartyRequest]) (*connect.Response[api.DeletePartyResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
}

// NewPartyServiceHandler builds an HTTP handler for svc and returns the path
// prefix to mount it on.
func NewPartyServiceHandler(svc PartyServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	routes := map[string]http.Handler{
		PartyServiceCreatePartyProcedure:      unaryHandler(PartyServiceCreatePartyProcedure, svc.CreateParty, opts),
		PartyServiceGetPartyProcedure:         unaryHandler(PartyServiceGetPartyProcedure, svc.GetParty, opts),
		PartyServiceListPartiesProcedure:      unaryHandler(PartyServiceListPartiesProcedure, svc.ListParties, opts),
		PartyServiceUpdatePartyProcedure:      unaryHandler(PartyServiceUpdatePartyProcedure, svc.UpdateParty, opts),
		PartyServiceDeletePartyProcedure:      unaryHandler(PartyServiceDeletePartyProcedure, svc.DeleteParty, opts),
		PartyServiceGetBalancesProcedure:      unaryHandler(PartyServiceGetBalancesProcedure, svc.GetBalances, opts),
		PartyServiceRecordSettlementProcedure: unaryHandler(PartyServiceRecordSettlementProcedure, svc.RecordSettlement, opts),
		PartyServiceListSettlementsProcedure:  unaryHandler(PartyServiceListSettlementsProcedure, svc.ListSettlements, opts),
		PartyServiceDeleteSettlementProcedure: unaryHandler(PartyServiceDeleteSettlementProcedure, svc.DeleteSettlement, opts),
	}
	return "/" + PartyServiceName + "/", router(routes)
}

// PartyServiceClient is a client for the PartyService.
type PartyServiceClient interface {
	CreateParty(context.Context, *connect.Request[api.CreatePartyRequest]) (*connect.Response[api.CreatePartyResponse], error)
	GetParty(context.Context, *connect.Request[api.GetPartyRequest]) (*connect.Response[api.GetPartyResponse], error)
	ListParties(context.Context, *connect.Request[api.ListPartiesRequest]) (*connect.Response[api.ListPartiesResponse], error)
	UpdateParty(context.Context, *connect.Request[api.UpdatePartyRequest]) (*connect.Response[api.UpdatePartyResponse], error)
	DeleteParty(context.Context, *connect.Request[api.DeletePartyRequest]) (*connect.Response[api.DeletePartyResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
	RecordSettlement(context.Context, *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error)
	ListSettlements(context.Context, *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error)
	DeleteSettlement(context.Context, *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error)
}

type partyServiceClient struct {
	createParty      *connect.Client[api.CreatePartyRequest, api.CreatePartyResponse]
	getParty         *connect.Client[api.GetPartyRequest, api.GetPartyResponse]
	listParties      *connect.Client[api.ListPartiesRequest, api.ListPartiesResponse]
	updateParty      *connect.Client[api.UpdatePartyRequest, api.UpdatePartyResponse]
	deleteParty      *connect.Client[api.DeletePartyRequest, api.DeletePartyResponse]
	getBalances      *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
	recordSettlement *connect.Client[api.RecordSettlementRequest, api.RecordSettlementResponse]
	listSettlements  *connect.Client[api.ListSettlementsRequest, api.ListSettlementsResponse]
	deleteSettlement *connect.Client[api.DeleteSettlementRequest, api.DeleteSettlementResponse]
}

// NewPartyServiceClient constructs a client for the PartyService at baseURL.
func NewPartyServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PartyServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	return &partyServiceClient{
		createParty:      newClient[api.CreatePartyRequest, api.CreatePartyResponse](httpClient, baseURL+PartyServiceCreatePartyProcedure, opts),
		getParty:         newClient[api.GetPartyRequest, api.GetPartyResponse](httpClient, baseURL+PartyServiceGetPartyProcedure, opts),
		listParties:      newClient[api.ListPartiesRequest, api.ListPartiesResponse](httpClient, baseURL+PartyServiceListPartiesProcedure, opts),
		updateParty:      newClient[api.UpdatePartyRequest, api.UpdatePartyResponse](httpClient, baseURL+PartyServiceUpdatePartyProcedure, opts),
		deleteParty:      newClient[api.DeletePartyRequest, api.DeletePartyResponse](httpClient, baseURL+PartyServiceDeletePartyProcedure, opts),
		getBalances:      newClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+PartyServiceGetBalancesProcedure, opts),
		recordSettlement: newClient[api.RecordSettlementRequest, api.RecordSettlementResponse](httpClient, baseURL+PartyServiceRecordSettlementProcedure, opts),
		listSettlements:  newClient[api.ListSettlementsRequest, api.ListSettlementsResponse](httpClient, baseURL+PartyServiceListSettlementsProcedure, opts),
		deleteSettlement: newClient[api.DeleteSettlementRequest, api.DeleteSettlementResponse](httpClient, baseURL+PartyServiceDeleteSettlementProcedure, opts),
	}
}

func (c *partyServiceClient) CreateParty(ctx context.Context, req *connect.Request[api.CreatePartyRequest]) (*connect.Response[api.CreatePartyResponse], error) {
	return c.createParty.CallUnary(ctx, req)
}

func (c *partyServiceClient) GetParty(ctx context.Context, req *connect.Request[api.GetPartyRequest]) (*connect.Response[api.GetPartyResponse], error) {
	return c.getParty.CallUnary(ctx, req)
}

func (c *partyServiceClient) ListParties(ctx context.Context, req *connect.Request[api.ListPartiesRequest]) (*connect.Response[api.ListPartiesResponse], error) {
	return c.listParties.CallUnary(ctx, req)
}

func (c *partyServiceClient) UpdateParty(ctx context.Context, req *connect.Request[api.UpdatePartyRequest]) (*connect.Response[api.UpdatePartyResponse], error) {
	return c.updateParty.CallUnary(ctx, req)
}

func (c *partyServiceClient) DeleteParty(ctx context.Context, req *connect.Request[api.DeletePartyRequest]) (*connect.Response[api.DeletePartyResponse], error) {
	return c.deleteParty.CallUnary(ctx, req)
}

func (c *partyServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

func (c *partyServiceClient) RecordSettlement(ctx context.Context, req *connect.Request[api.RecordSettlementRequest]) (*connect.Response[api.RecordSettlementResponse], error) {
	return c.recordSettlement.CallUnary(ctx, req)
}

func (c *partyServiceClient) ListSettlements(ctx context.Context, req *connect.Request[api.ListSettlementsRequest]) (*connect.Response[api.ListSettlementsResponse], error) {
	return c.listSettlements.CallUnary(ctx, req)
}

func (c *partyServiceClient) DeleteSettlement(ctx context.Context, req *connect.Request[api.DeleteSettlementRequest]) (*connect.Response[api.DeleteSettlementResponse], error) {
	return c.deleteSettlement.CallUnary(ctx, req)
}
