package provenancev1

import (
	"context"

	"google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "provenance.v1.ProvenanceService"

const (
	ProvenanceService_MintAsset_FullMethodName         = "/provenance.v1.ProvenanceService/MintAsset"
	ProvenanceService_UpdateLocation_FullMethodName    = "/provenance.v1.ProvenanceService/UpdateLocation"
	ProvenanceService_TransferOwnership_FullMethodName = "/provenance.v1.ProvenanceService/TransferOwnership"
	ProvenanceService_GetOwner_FullMethodName          = "/provenance.v1.ProvenanceService/GetOwner"
	ProvenanceService_GetAsset_FullMethodName          = "/provenance.v1.ProvenanceService/GetAsset"
	ProvenanceService_ListAssets_FullMethodName        = "/provenance.v1.ProvenanceService/ListAssets"
	ProvenanceService_ListAsset_FullMethodName         = "/provenance.v1.ProvenanceService/ListAsset"
	ProvenanceService_UnlistAsset_FullMethodName       = "/provenance.v1.ProvenanceService/UnlistAsset"
	ProvenanceService_BuyAsset_FullMethodName          = "/provenance.v1.ProvenanceService/BuyAsset"
	ProvenanceService_IsValidAssetId_FullMethodName    = "/provenance.v1.ProvenanceService/IsValidAssetId"
	ProvenanceService_GetBalance_FullMethodName        = "/provenance.v1.ProvenanceService/GetBalance"
	ProvenanceService_GetAllowance_FullMethodName      = "/provenance.v1.ProvenanceService/GetAllowance"
	ProvenanceService_GetTotalSupply_FullMethodName    = "/provenance.v1.ProvenanceService/GetTotalSupply"
	ProvenanceService_ListHolders_FullMethodName       = "/provenance.v1.ProvenanceService/ListHolders"
	ProvenanceService_Approve_FullMethodName           = "/provenance.v1.ProvenanceService/Approve"
	ProvenanceService_TransferFrom_FullMethodName      = "/provenance.v1.ProvenanceService/TransferFrom"
	ProvenanceService_Transfer_FullMethodName          = "/provenance.v1.ProvenanceService/Transfer"
	ProvenanceService_IssueUnits_FullMethodName        = "/provenance.v1.ProvenanceService/IssueUnits"
	ProvenanceService_ListEvents_FullMethodName        = "/provenance.v1.ProvenanceService/ListEvents"
	ProvenanceService_VerifyJournal_FullMethodName     = "/provenance.v1.ProvenanceService/VerifyJournal"
	ProvenanceService_GetVersion_FullMethodName        = "/provenance.v1.ProvenanceService/GetVersion"
)

// ProvenanceServiceServer is the server API for ProvenanceService.
type ProvenanceServiceServer interface {
	MintAsset(context.Context, *MintAssetRequest) (*MintAssetResponse, error)
	UpdateLocation(context.Context, *UpdateLocationRequest) (*Ack, error)
	TransferOwnership(context.Context, *TransferOwnershipRequest) (*Ack, error)
	GetOwner(context.Context, *GetOwnerRequest) (*GetOwnerResponse, error)
	GetAsset(context.Context, *GetAssetRequest) (*GetAssetResponse, error)
	ListAssets(context.Context, *ListAssetsRequest) (*ListAssetsResponse, error)
	ListAsset(context.Context, *ListAssetRequest) (*Ack, error)
	UnlistAsset(context.Context, *UnlistAssetRequest) (*Ack, error)
	BuyAsset(context.Context, *BuyAssetRequest) (*BuyAssetResponse, error)
	IsValidAssetId(context.Context, *IsValidAssetIdRequest) (*IsValidAssetIdResponse, error)
	GetBalance(context.Context, *GetBalanceRequest) (*AmountResponse, error)
	GetAllowance(context.Context, *GetAllowanceRequest) (*AmountResponse, error)
	GetTotalSupply(context.Context, *GetTotalSupplyRequest) (*AmountResponse, error)
	ListHolders(context.Context, *ListHoldersRequest) (*ListHoldersResponse, error)
	Approve(context.Context, *ApproveRequest) (*Ack, error)
	TransferFrom(context.Context, *TransferFromRequest) (*Ack, error)
	Transfer(context.Context, *TransferRequest) (*Ack, error)
	IssueUnits(context.Context, *IssueUnitsRequest) (*Ack, error)
	ListEvents(context.Context, *ListEventsRequest) (*ListEventsResponse, error)
	VerifyJournal(context.Context, *VerifyJournalRequest) (*VerifyJournalResponse, error)
	GetVersion(context.Context, *GetVersionRequest) (*GetVersionResponse, error)
}

// RegisterProvenanceServiceServer registers srv on s.
func RegisterProvenanceServiceServer(s grpc.ServiceRegistrar, srv ProvenanceServiceServer) {
	s.RegisterService(&ProvenanceService_ServiceDesc, srv)
}

// ProvenanceService_ServiceDesc describes ProvenanceService for grpc.Server.
var ProvenanceService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*ProvenanceServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		unary("MintAsset", ProvenanceService_MintAsset_FullMethodName, ProvenanceServiceServer.MintAsset),
		unary("UpdateLocation", ProvenanceService_UpdateLocation_FullMethodName, ProvenanceServiceServer.UpdateLocation),
		unary("TransferOwnership", ProvenanceService_TransferOwnership_FullMethodName, ProvenanceServiceServer.TransferOwnership),
		unary("GetOwner", ProvenanceService_GetOwner_FullMethodName, ProvenanceServiceServer.GetOwner),
		unary("GetAsset", ProvenanceService_GetAsset_FullMethodName, ProvenanceServiceServer.GetAsset),
		unary("ListAssets", ProvenanceService_ListAssets_FullMethodName, ProvenanceServiceServer.ListAssets),
		unary("ListAsset", ProvenanceService_ListAsset_FullMethodName, ProvenanceServiceServer.ListAsset),
		unary("UnlistAsset", ProvenanceService_UnlistAsset_FullMethodName, ProvenanceServiceServer.UnlistAsset),
		unary("BuyAsset", ProvenanceService_BuyAsset_FullMethodName, ProvenanceServiceServer.BuyAsset),
		unary("IsValidAssetId", ProvenanceService_IsValidAssetId_FullMethodName, ProvenanceServiceServer.IsValidAssetId),
		unary("GetBalance", ProvenanceService_GetBalance_FullMethodName, ProvenanceServiceServer.GetBalance),
		unary("GetAllowance", ProvenanceService_GetAllowance_FullMethodName, ProvenanceServiceServer.GetAllowance),
		unary("GetTotalSupply", ProvenanceService_GetTotalSupply_FullMethodName, ProvenanceServiceServer.GetTotalSupply),
		unary("ListHolders", ProvenanceService_ListHolders_FullMethodName, ProvenanceServiceServer.ListHolders),
		unary("Approve", ProvenanceService_Approve_FullMethodName, ProvenanceServiceServer.Approve),
		unary("TransferFrom", ProvenanceService_TransferFrom_FullMethodName, ProvenanceServiceServer.TransferFrom),
		unary("Transfer", ProvenanceService_Transfer_FullMethodName, ProvenanceServiceServer.Transfer),
		unary("IssueUnits", ProvenanceService_IssueUnits_FullMethodName, ProvenanceServiceServer.IssueUnits),
		unary("ListEvents", ProvenanceService_ListEvents_FullMethodName, ProvenanceServiceServer.ListEvents),
		unary("VerifyJournal", ProvenanceService_VerifyJournal_FullMethodName, ProvenanceServiceServer.VerifyJournal),
		unary("GetVersion", ProvenanceService_GetVersion_FullMethodName, ProvenanceServiceServer.GetVersion),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "provenance/v1/provenance.proto",
}

func unary[Req, Resp any](name, fullMethod string, call func(ProvenanceServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(Req)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(ProvenanceServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(ProvenanceServiceServer), ctx, req.(*Req))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// ProvenanceServiceClient calls ProvenanceService over a connection.
type ProvenanceServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewProvenanceServiceClient creates a client that sends requests with the
// provenance codec.
func NewProvenanceServiceClient(cc grpc.ClientConnInterface) *ProvenanceServiceClient {
	return &ProvenanceServiceClient{cc: cc}
}

func (c *ProvenanceServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *ProvenanceServiceClient) MintAsset(ctx context.Context, in *MintAssetRequest, opts ...grpc.CallOption) (*MintAssetResponse, error) {
	out := new(MintAssetResponse)
	if err := c.invoke(ctx, ProvenanceService_MintAsset_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) UpdateLocation(ctx context.Context, in *UpdateLocationRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, ProvenanceService_UpdateLocation_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) TransferOwnership(ctx context.Context, in *TransferOwnershipRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, ProvenanceService_TransferOwnership_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) GetOwner(ctx context.Context, in *GetOwnerRequest, opts ...grpc.CallOption) (*GetOwnerResponse, error) {
	out := new(GetOwnerResponse)
	if err := c.invoke(ctx, ProvenanceService_GetOwner_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) GetAsset(ctx context.Context, in *GetAssetRequest, opts ...grpc.CallOption) (*GetAssetResponse, error) {
	out := new(GetAssetResponse)
	if err := c.invoke(ctx, ProvenanceService_GetAsset_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) ListAssets(ctx context.Context, in *ListAssetsRequest, opts ...grpc.CallOption) (*ListAssetsResponse, error) {
	out := new(ListAssetsResponse)
	if err := c.invoke(ctx, ProvenanceService_ListAssets_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) ListAsset(ctx context.Context, in *ListAssetRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, ProvenanceService_ListAsset_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) UnlistAsset(ctx context.Context, in *UnlistAssetRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, ProvenanceService_UnlistAsset_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) BuyAsset(ctx context.Context, in *BuyAssetRequest, opts ...grpc.CallOption) (*BuyAssetResponse, error) {
	out := new(BuyAssetResponse)
	if err := c.invoke(ctx, ProvenanceService_BuyAsset_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) IsValidAssetId(ctx context.Context, in *IsValidAssetIdRequest, opts ...grpc.CallOption) (*IsValidAssetIdResponse, error) {
	out := new(IsValidAssetIdResponse)
	if err := c.invoke(ctx, ProvenanceService_IsValidAssetId_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) GetBalance(ctx context.Context, in *GetBalanceRequest, opts ...grpc.CallOption) (*AmountResponse, error) {
	out := new(AmountResponse)
	if err := c.invoke(ctx, ProvenanceService_GetBalance_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) GetAllowance(ctx context.Context, in *GetAllowanceRequest, opts ...grpc.CallOption) (*AmountResponse, error) {
	out := new(AmountResponse)
	if err := c.invoke(ctx, ProvenanceService_GetAllowance_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) GetTotalSupply(ctx context.Context, in *GetTotalSupplyRequest, opts ...grpc.CallOption) (*AmountResponse, error) {
	out := new(AmountResponse)
	if err := c.invoke(ctx, ProvenanceService_GetTotalSupply_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) ListHolders(ctx context.Context, in *ListHoldersRequest, opts ...grpc.CallOption) (*ListHoldersResponse, error) {
	out := new(ListHoldersResponse)
	if err := c.invoke(ctx, ProvenanceService_ListHolders_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) Approve(ctx context.Context, in *ApproveRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, ProvenanceService_Approve_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) TransferFrom(ctx context.Context, in *TransferFromRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, ProvenanceService_TransferFrom_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) Transfer(ctx context.Context, in *TransferRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, ProvenanceService_Transfer_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) IssueUnits(ctx context.Context, in *IssueUnitsRequest, opts ...grpc.CallOption) (*Ack, error) {
	out := new(Ack)
	if err := c.invoke(ctx, ProvenanceService_IssueUnits_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) ListEvents(ctx context.Context, in *ListEventsRequest, opts ...grpc.CallOption) (*ListEventsResponse, error) {
	out := new(ListEventsResponse)
	if err := c.invoke(ctx, ProvenanceService_ListEvents_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) VerifyJournal(ctx context.Context, in *VerifyJournalRequest, opts ...grpc.CallOption) (*VerifyJournalResponse, error) {
	out := new(VerifyJournalResponse)
	if err := c.invoke(ctx, ProvenanceService_VerifyJournal_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *ProvenanceServiceClient) GetVersion(ctx context.Context, in *GetVersionRequest, opts ...grpc.CallOption) (*GetVersionResponse, error) {
	out := new(GetVersionResponse)
	if err := c.invoke(ctx, ProvenanceService_GetVersion_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
