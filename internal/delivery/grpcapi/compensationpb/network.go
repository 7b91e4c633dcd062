package compensationpb

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const NetworkServiceName = "compensation.NetworkService"

type EnrollRequest struct {
	MemberID  string `json:"member_id"`
	SponsorID string `json:"sponsor_id"`
	// Side is "left", "right" or empty for automatic placement.
	Side string `json:"side,omitempty"`
}

type NodeResponse struct {
	Node *Node `json:"node"`
}

type GetUplineRequest struct {
	MemberID string `json:"member_id"`
	MaxDepth int    `json:"max_depth"`
}

type UplineResponse struct {
	Members []*Member `json:"members"`
}

type GetSubtreeSizeRequest struct {
	MemberID string `json:"member_id"`
	Side     string `json:"side,omitempty"`
}

type SubtreeSizeResponse struct {
	Size int64 `json:"size"`
}

type MemberStatusRequest struct {
	MemberID string `json:"member_id"`
}

type MemberStatusResponse struct {
	MemberID string `json:"member_id"`
	Status   string `json:"status"`
}

type GetLegBalanceRequest struct {
	MemberID string `json:"member_id"`
}

type LegBalanceResponse struct {
	Left       int64   `json:"left"`
	Right      int64   `json:"right"`
	Ratio      float64 `json:"ratio"`
	IsBalanced bool    `json:"is_balanced"`
}

type GetRecommendationRequest struct {
	MemberID string `json:"member_id"`
}

type RecommendationResponse struct {
	Side string `json:"side"`
}

type NetworkServiceServer interface {
	Enroll(context.Context, *EnrollRequest) (*NodeResponse, error)
	GetNode(context.Context, *MemberStatusRequest) (*NodeResponse, error)
	GetUpline(context.Context, *GetUplineRequest) (*UplineResponse, error)
	GetSubtreeSize(context.Context, *GetSubtreeSizeRequest) (*SubtreeSizeResponse, error)
	DeactivateMember(context.Context, *MemberStatusRequest) (*MemberStatusResponse, error)
	ReactivateMember(context.Context, *MemberStatusRequest) (*MemberStatusResponse, error)
	GetLegBalance(context.Context, *GetLegBalanceRequest) (*LegBalanceResponse, error)
	GetRecommendation(context.Context, *GetRecommendationRequest) (*RecommendationResponse, error)
}

type UnimplementedNetworkServiceServer struct{}

func (UnimplementedNetworkServiceServer) Enroll(context.Context, *EnrollRequest) (*NodeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Enroll not implemented")
}
func (UnimplementedNetworkServiceServer) GetNode(context.Context, *MemberStatusRequest) (*NodeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetNode not implemented")
}
func (UnimplementedNetworkServiceServer) GetUpline(context.Context, *GetUplineRequest) (*UplineResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetUpline not implemented")
}
func (UnimplementedNetworkServiceServer) GetSubtreeSize(context.Context, *GetSubtreeSizeRequest) (*SubtreeSizeResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetSubtreeSize not implemented")
}
func (UnimplementedNetworkServiceServer) DeactivateMember(context.Context, *MemberStatusRequest) (*MemberStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method DeactivateMember not implemented")
}
func (UnimplementedNetworkServiceServer) ReactivateMember(context.Context, *MemberStatusRequest) (*MemberStatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReactivateMember not implemented")
}
func (UnimplementedNetworkServiceServer) GetLegBalance(context.Context, *GetLegBalanceRequest) (*LegBalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetLegBalance not implemented")
}
func (UnimplementedNetworkServiceServer) GetRecommendation(context.Context, *GetRecommendationRequest) (*RecommendationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetRecommendation not implemented")
}

var NetworkService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: NetworkServiceName,
	HandlerType: (*NetworkServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(NetworkServiceName, "Enroll", NetworkServiceServer.Enroll),
		unary(NetworkServiceName, "GetNode", NetworkServiceServer.GetNode),
		unary(NetworkServiceName, "GetUpline", NetworkServiceServer.GetUpline),
		unary(NetworkServiceName, "GetSubtreeSize", NetworkServiceServer.GetSubtreeSize),
		unary(NetworkServiceName, "DeactivateMember", NetworkServiceServer.DeactivateMember),
		unary(NetworkServiceName, "ReactivateMember", NetworkServiceServer.ReactivateMember),
		unary(NetworkServiceName, "GetLegBalance", NetworkServiceServer.GetLegBalance),
		unary(NetworkServiceName, "GetRecommendation", NetworkServiceServer.GetRecommendation),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/compensation/compensation.proto",
}

func RegisterNetworkServiceServer(s grpc.ServiceRegistrar, srv NetworkServiceServer) {
	s.RegisterService(&NetworkService_ServiceDesc, srv)
}

type NetworkServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewNetworkServiceClient(cc grpc.ClientConnInterface) *NetworkServiceClient {
	return &NetworkServiceClient{cc: cc}
}

func (c *NetworkServiceClient) Enroll(ctx context.Context, in *EnrollRequest, opts ...grpc.CallOption) (*NodeResponse, error) {
	return invoke[NodeResponse](ctx, c.cc, "/"+NetworkServiceName+"/Enroll", in, opts...)
}

func (c *NetworkServiceClient) GetNode(ctx context.Context, in *MemberStatusRequest, opts ...grpc.CallOption) (*NodeResponse, error) {
	return invoke[NodeResponse](ctx, c.cc, "/"+NetworkServiceName+"/GetNode", in, opts...)
}

func (c *NetworkServiceClient) GetUpline(ctx context.Context, in *GetUplineRequest, opts ...grpc.CallOption) (*UplineResponse, error) {
	return invoke[UplineResponse](ctx, c.cc, "/"+NetworkServiceName+"/GetUpline", in, opts...)
}

func (c *NetworkServiceClient) GetSubtreeSize(ctx context.Context, in *GetSubtreeSizeRequest, opts ...grpc.CallOption) (*SubtreeSizeResponse, error) {
	return invoke[SubtreeSizeResponse](ctx, c.cc, "/"+NetworkServiceName+"/GetSubtreeSize", in, opts...)
}

func (c *NetworkServiceClient) DeactivateMember(ctx context.Context, in *MemberStatusRequest, opts ...grpc.CallOption) (*MemberStatusResponse, error) {
	return invoke[MemberStatusResponse](ctx, c.cc, "/"+NetworkServiceName+"/DeactivateMember", in, opts...)
}

func (c *NetworkServiceClient) ReactivateMember(ctx context.Context, in *MemberStatusRequest, opts ...grpc.CallOption) (*MemberStatusResponse, error) {
	return invoke[MemberStatusResponse](ctx, c.cc, "/"+NetworkServiceName+"/ReactivateMember", in, opts...)
}

func (c *NetworkServiceClient) GetLegBalance(ctx context.Context, in *GetLegBalanceRequest, opts ...grpc.CallOption) (*LegBalanceResponse, error) {
	return invoke[LegBalanceResponse](ctx, c.cc, "/"+NetworkServiceName+"/GetLegBalance", in, opts...)
}

func (c *NetworkServiceClient) GetRecommendation(ctx context.Context, in *GetRecommendationRequest, opts ...grpc.CallOption) (*RecommendationResponse, error) {
	return invoke[RecommendationResponse](ctx, c.cc, "/"+NetworkServiceName+"/GetRecommendation", in, opts...)
}
