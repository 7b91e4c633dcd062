package compensationpb

import (
	"context"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const CommissionServiceName = "compensation.CommissionService"

type DistributeRequest struct {
	TransactionID string `json:"transaction_id"`
}

type DistributeResponse struct {
	Credits []*Credit `json:"credits"`
	// Partial is set when some shares were redirected to the system fund.
	Partial bool `json:"partial"`
}

type SimulateRequest struct {
	Amount        decimal.Decimal `json:"amount"`
	PayerStats    *MemberStats    `json:"payer_stats"`
	UplineRanks   []int           `json:"upline_ranks"`
	InactiveTiers []int           `json:"inactive_tiers,omitempty"`
}

type SimulatedShare struct {
	Tier       int             `json:"tier"`
	RuleID     string          `json:"rule_id,omitempty"`
	Rank       int             `json:"rank"`
	Level      string          `json:"level"`
	Amount     decimal.Decimal `json:"amount"`
	Redirected bool            `json:"redirected,omitempty"`
}

type SimulateResponse struct {
	Amount           decimal.Decimal   `json:"amount"`
	PayerLevelBefore *CareerLevel      `json:"payer_level_before"`
	PayerLevelAfter  *CareerLevel      `json:"payer_level_after"`
	Shares           []*SimulatedShare `json:"shares"`
	PassivePool      decimal.Decimal   `json:"passive_pool"`
	SystemFund       decimal.Decimal   `json:"system_fund"`
}

type GetCareerLevelRequest struct {
	MemberID string `json:"member_id"`
}

type CareerLevelResponse struct {
	MemberID string       `json:"member_id"`
	Level    *CareerLevel `json:"level"`
	Stats    *MemberStats `json:"stats"`
}

type PayoutPassivePoolRequest struct {
	Currency string `json:"currency"`
}

type PayoutPassivePoolResponse struct {
	Credits []*Credit `json:"credits"`
}

type ReconcileRequest struct {
	Limit int `json:"limit"`
}

type ReconcileResponse struct {
	Distributed int `json:"distributed"`
}

type CommissionServiceServer interface {
	Distribute(context.Context, *DistributeRequest) (*DistributeResponse, error)
	Simulate(context.Context, *SimulateRequest) (*SimulateResponse, error)
	GetCareerLevel(context.Context, *GetCareerLevelRequest) (*CareerLevelResponse, error)
	PayoutPassivePool(context.Context, *PayoutPassivePoolRequest) (*PayoutPassivePoolResponse, error)
	Reconcile(context.Context, *ReconcileRequest) (*ReconcileResponse, error)
}

type UnimplementedCommissionServiceServer struct{}

func (UnimplementedCommissionServiceServer) Distribute(context.Context, *DistributeRequest) (*DistributeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Distribute not implemented")
}
func (UnimplementedCommissionServiceServer) Simulate(context.Context, *SimulateRequest) (*SimulateResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Simulate not implemented")
}
func (UnimplementedCommissionServiceServer) GetCareerLevel(context.Context, *GetCareerLevelRequest) (*CareerLevelResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetCareerLevel not implemented")
}
func (UnimplementedCommissionServiceServer) PayoutPassivePool(context.Context, *PayoutPassivePoolRequest) (*PayoutPassivePoolResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PayoutPassivePool not implemented")
}
func (UnimplementedCommissionServiceServer) Reconcile(context.Context, *ReconcileRequest) (*ReconcileResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Reconcile not implemented")
}

var CommissionService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: CommissionServiceName,
	HandlerType: (*CommissionServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(CommissionServiceName, "Distribute", CommissionServiceServer.Distribute),
		unary(CommissionServiceName, "Simulate", CommissionServiceServer.Simulate),
		unary(CommissionServiceName, "GetCareerLevel", CommissionServiceServer.GetCareerLevel),
		unary(CommissionServiceName, "PayoutPassivePool", CommissionServiceServer.PayoutPassivePool),
		unary(CommissionServiceName, "Reconcile", CommissionServiceServer.Reconcile),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/compensation/compensation.proto",
}

func RegisterCommissionServiceServer(s grpc.ServiceRegistrar, srv CommissionServiceServer) {
	s.RegisterService(&CommissionService_ServiceDesc, srv)
}

type CommissionServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewCommissionServiceClient(cc grpc.ClientConnInterface) *CommissionServiceClient {
	return &CommissionServiceClient{cc: cc}
}

func (c *CommissionServiceClient) Distribute(ctx context.Context, in *DistributeRequest, opts ...grpc.CallOption) (*DistributeResponse, error) {
	return invoke[DistributeResponse](ctx, c.cc, "/"+CommissionServiceName+"/Distribute", in, opts...)
}

func (c *CommissionServiceClient) Simulate(ctx context.Context, in *SimulateRequest, opts ...grpc.CallOption) (*SimulateResponse, error) {
	return invoke[SimulateResponse](ctx, c.cc, "/"+CommissionServiceName+"/Simulate", in, opts...)
}

func (c *CommissionServiceClient) GetCareerLevel(ctx context.Context, in *GetCareerLevelRequest, opts ...grpc.CallOption) (*CareerLevelResponse, error) {
	return invoke[CareerLevelResponse](ctx, c.cc, "/"+CommissionServiceName+"/GetCareerLevel", in, opts...)
}

func (c *CommissionServiceClient) PayoutPassivePool(ctx context.Context, in *PayoutPassivePoolRequest, opts ...grpc.CallOption) (*PayoutPassivePoolResponse, error) {
	return invoke[PayoutPassivePoolResponse](ctx, c.cc, "/"+CommissionServiceName+"/PayoutPassivePool", in, opts...)
}

func (c *CommissionServiceClient) Reconcile(ctx context.Context, in *ReconcileRequest, opts ...grpc.CallOption) (*ReconcileResponse, error) {
	return invoke[ReconcileResponse](ctx, c.cc, "/"+CommissionServiceName+"/Reconcile", in, opts...)
}
