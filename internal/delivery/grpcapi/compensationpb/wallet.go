package compensationpb

import (
	"context"

	"github.com/shopspring/decimal"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const WalletServiceName = "compensation.WalletService"

type PostTransactionRequest struct {
	MemberID    string          `json:"member_id"`
	Currency    string          `json:"currency"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        string          `json:"kind"`
	Qualifying  bool            `json:"qualifying"`
	IBAN        string          `json:"iban,omitempty"`
	Description string          `json:"description,omitempty"`
}

type TransactionResponse struct {
	Transaction *Transaction `json:"transaction"`
}

type ApproveTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type RejectTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
	Reason        string `json:"reason"`
}

type GetTransactionRequest struct {
	TransactionID string `json:"transaction_id"`
}

type TransferRequest struct {
	FromID      string          `json:"from_id"`
	ToID        string          `json:"to_id"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	Description string          `json:"description,omitempty"`
}

type TransferResponse struct {
	Debit  *Transaction `json:"debit"`
	Credit *Transaction `json:"credit"`
}

type GetBalanceRequest struct {
	MemberID string `json:"member_id"`
	Currency string `json:"currency"`
}

type BalanceResponse struct {
	MemberID  string          `json:"member_id"`
	Currency  string          `json:"currency"`
	Balance   decimal.Decimal `json:"balance"`
	Available decimal.Decimal `json:"available"`
	Frozen    decimal.Decimal `json:"frozen"`
}

type ListTransactionsRequest struct {
	MemberID string `json:"member_id"`
	Status   string `json:"status,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Currency string `json:"currency,omitempty"`
	Page     int64  `json:"page"`
	Limit    int64  `json:"limit"`
}

type ListTransactionsResponse struct {
	Transactions []*Transaction `json:"transactions"`
	Pagination   *Pagination    `json:"pagination"`
}

type GetConservationRequest struct {
	Currency string `json:"currency"`
}

type ConservationResponse struct {
	Currency            string          `json:"currency"`
	AccountsTotal       decimal.Decimal `json:"accounts_total"`
	SystemFund          decimal.Decimal `json:"system_fund"`
	PassivePool         decimal.Decimal `json:"passive_pool"`
	ApprovedDeposits    decimal.Decimal `json:"approved_deposits"`
	ApprovedWithdrawals decimal.Decimal `json:"approved_withdrawals"`
	InFlight            decimal.Decimal `json:"in_flight"`
	Balanced            bool            `json:"balanced"`
}

type WalletServiceServer interface {
	PostTransaction(context.Context, *PostTransactionRequest) (*TransactionResponse, error)
	ApproveTransaction(context.Context, *ApproveTransactionRequest) (*TransactionResponse, error)
	RejectTransaction(context.Context, *RejectTransactionRequest) (*TransactionResponse, error)
	GetTransaction(context.Context, *GetTransactionRequest) (*TransactionResponse, error)
	Transfer(context.Context, *TransferRequest) (*TransferResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*BalanceResponse, error)
	ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error)
	GetConservation(context.Context, *GetConservationRequest) (*ConservationResponse, error)
}

type UnimplementedWalletServiceServer struct{}

func (UnimplementedWalletServiceServer) PostTransaction(context.Context, *PostTransactionRequest) (*TransactionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method PostTransaction not implemented")
}
func (UnimplementedWalletServiceServer) ApproveTransaction(context.Context, *ApproveTransactionRequest) (*TransactionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ApproveTransaction not implemented")
}
func (UnimplementedWalletServiceServer) RejectTransaction(context.Context, *RejectTransactionRequest) (*TransactionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RejectTransaction not implemented")
}
func (UnimplementedWalletServiceServer) GetTransaction(context.Context, *GetTransactionRequest) (*TransactionResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetTransaction not implemented")
}
func (UnimplementedWalletServiceServer) Transfer(context.Context, *TransferRequest) (*TransferResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Transfer not implemented")
}
func (UnimplementedWalletServiceServer) GetBalance(context.Context, *GetBalanceRequest) (*BalanceResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetBalance not implemented")
}
func (UnimplementedWalletServiceServer) ListTransactions(context.Context, *ListTransactionsRequest) (*ListTransactionsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListTransactions not implemented")
}
func (UnimplementedWalletServiceServer) GetConservation(context.Context, *GetConservationRequest) (*ConservationResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method GetConservation not implemented")
}

var WalletService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: WalletServiceName,
	HandlerType: (*WalletServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary(WalletServiceName, "PostTransaction", WalletServiceServer.PostTransaction),
		unary(WalletServiceName, "ApproveTransaction", WalletServiceServer.ApproveTransaction),
		unary(WalletServiceName, "RejectTransaction", WalletServiceServer.RejectTransaction),
		unary(WalletServiceName, "GetTransaction", WalletServiceServer.GetTransaction),
		unary(WalletServiceName, "Transfer", WalletServiceServer.Transfer),
		unary(WalletServiceName, "GetBalance", WalletServiceServer.GetBalance),
		unary(WalletServiceName, "ListTransactions", WalletServiceServer.ListTransactions),
		unary(WalletServiceName, "GetConservation", WalletServiceServer.GetConservation),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "api/compensation/compensation.proto",
}

func RegisterWalletServiceServer(s grpc.ServiceRegistrar, srv WalletServiceServer) {
	s.RegisterService(&WalletService_ServiceDesc, srv)
}

type WalletServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewWalletServiceClient(cc grpc.ClientConnInterface) *WalletServiceClient {
	return &WalletServiceClient{cc: cc}
}

func (c *WalletServiceClient) PostTransaction(ctx context.Context, in *PostTransactionRequest, opts ...grpc.CallOption) (*TransactionResponse, error) {
	return invoke[TransactionResponse](ctx, c.cc, "/"+WalletServiceName+"/PostTransaction", in, opts...)
}

func (c *WalletServiceClient) ApproveTransaction(ctx context.Context, in *ApproveTransactionRequest, opts ...grpc.CallOption) (*TransactionResponse, error) {
	return invoke[TransactionResponse](ctx, c.cc, "/"+WalletServiceName+"/ApproveTransaction", in, opts...)
}

func (c *WalletServiceClient) RejectTransaction(ctx context.Context, in *RejectTransactionRequest, opts ...grpc.CallOption) (*TransactionResponse, error) {
	return invoke[TransactionResponse](ctx, c.cc, "/"+WalletServiceName+"/RejectTransaction", in, opts...)
}

func (c *WalletServiceClient) GetTransaction(ctx context.Context, in *GetTransactionRequest, opts ...grpc.CallOption) (*TransactionResponse, error) {
	return invoke[TransactionResponse](ctx, c.cc, "/"+WalletServiceName+"/GetTransaction", in, opts...)
}

func (c *WalletServiceClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*TransferResponse, error) {
	return invoke[TransferResponse](ctx, c.cc, "/"+WalletServiceName+"/Transfer", in, opts...)
}

func (c *WalletServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*BalanceResponse, error) {
	return invoke[BalanceResponse](ctx, c.cc, "/"+WalletServiceName+"/GetBalance", in, opts...)
}

func (c *WalletServiceClient) ListTransactions(ctx context.Context, in *ListTransactionsRequest, opts ...grpc.CallOption) (*ListTransactionsResponse, error) {
	return invoke[ListTransactionsResponse](ctx, c.cc, "/"+WalletServiceName+"/ListTransactions", in, opts...)
}

func (c *WalletServiceClient) GetConservation(ctx context.Context, in *GetConservationRequest, opts ...grpc.CallOption) (*ConservationResponse, error) {
	return invoke[ConservationResponse](ctx, c.cc, "/"+WalletServiceName+"/GetConservation", in, opts...)
}
