package gatev1

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Full method names.
const (
	GateService_Check_FullMethodName         = "/intentgate.gate.v1.GateService/Check"
	GateService_SubmitIntent_FullMethodName  = "/intentgate.gate.v1.GateService/SubmitIntent"
	GateService_Toggle_FullMethodName        = "/intentgate.gate.v1.GateService/Toggle"
	GateService_Block_FullMethodName         = "/intentgate.gate.v1.GateService/Block"
	GateService_Status_FullMethodName        = "/intentgate.gate.v1.GateService/Status"
	GateService_ListSites_FullMethodName     = "/intentgate.gate.v1.GateService/ListSites"
	GateService_ListWhitelist_FullMethodName = "/intentgate.gate.v1.GateService/ListWhitelist"
	GateService_History_FullMethodName       = "/intentgate.gate.v1.GateService/History"
	GateService_SaveOptions_FullMethodName   = "/intentgate.gate.v1.GateService/SaveOptions"
	GateService_ReloadModel_FullMethodName   = "/intentgate.gate.v1.GateService/ReloadModel"
)

// GateServiceServer is the server API for GateService.
type GateServiceServer interface {
	Check(context.Context, *CheckRequest) (*Decision, error)
	SubmitIntent(context.Context, *SubmitIntentRequest) (*Decision, error)
	Toggle(context.Context, *ToggleRequest) (*ToggleResponse, error)
	Block(context.Context, *BlockRequest) (*BlockResponse, error)
	Status(context.Context, *StatusRequest) (*StatusResponse, error)
	ListSites(context.Context, *ListSitesRequest) (*ListSitesResponse, error)
	ListWhitelist(context.Context, *ListWhitelistRequest) (*ListWhitelistResponse, error)
	History(context.Context, *HistoryRequest) (*HistoryResponse, error)
	SaveOptions(context.Context, *Options) (*SaveOptionsResponse, error)
	ReloadModel(context.Context, *ReloadModelRequest) (*ReloadModelResponse, error)
}

// UnimplementedGateServiceServer returns codes.Unimplemented for every method.
type UnimplementedGateServiceServer struct{}

func (UnimplementedGateServiceServer) Check(context.Context, *CheckRequest) (*Decision, error) {
	return nil, status.Error(codes.Unimplemented, "method Check not implemented")
}
func (UnimplementedGateServiceServer) SubmitIntent(context.Context, *SubmitIntentRequest) (*Decision, error) {
	return nil, status.Error(codes.Unimplemented, "method SubmitIntent not implemented")
}
func (UnimplementedGateServiceServer) Toggle(context.Context, *ToggleRequest) (*ToggleResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Toggle not implemented")
}
func (UnimplementedGateServiceServer) Block(context.Context, *BlockRequest) (*BlockResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Block not implemented")
}
func (UnimplementedGateServiceServer) Status(context.Context, *StatusRequest) (*StatusResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Status not implemented")
}
func (UnimplementedGateServiceServer) ListSites(context.Context, *ListSitesRequest) (*ListSitesResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListSites not implemented")
}
func (UnimplementedGateServiceServer) ListWhitelist(context.Context, *ListWhitelistRequest) (*ListWhitelistResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListWhitelist not implemented")
}
func (UnimplementedGateServiceServer) History(context.Context, *HistoryRequest) (*HistoryResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method History not implemented")
}
func (UnimplementedGateServiceServer) SaveOptions(context.Context, *Options) (*SaveOptionsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method SaveOptions not implemented")
}
func (UnimplementedGateServiceServer) ReloadModel(context.Context, *ReloadModelRequest) (*ReloadModelResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ReloadModel not implemented")
}

// RegisterGateServiceServer registers srv on s.
func RegisterGateServiceServer(s grpc.ServiceRegistrar, srv GateServiceServer) {
	s.RegisterService(&GateService_ServiceDesc, srv)
}

// unary adapts a typed server method to grpc.MethodHandler.
func unary[Req, Resp any](fullMethod string, call func(GateServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(GateServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(GateServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// GateService_ServiceDesc is the grpc.ServiceDesc for GateService.
var GateService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "intentgate.gate.v1.GateService",
	HandlerType: (*GateServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Check", Handler: unary(GateService_Check_FullMethodName, GateServiceServer.Check)},
		{MethodName: "SubmitIntent", Handler: unary(GateService_SubmitIntent_FullMethodName, GateServiceServer.SubmitIntent)},
		{MethodName: "Toggle", Handler: unary(GateService_Toggle_FullMethodName, GateServiceServer.Toggle)},
		{MethodName: "Block", Handler: unary(GateService_Block_FullMethodName, GateServiceServer.Block)},
		{MethodName: "Status", Handler: unary(GateService_Status_FullMethodName, GateServiceServer.Status)},
		{MethodName: "ListSites", Handler: unary(GateService_ListSites_FullMethodName, GateServiceServer.ListSites)},
		{MethodName: "ListWhitelist", Handler: unary(GateService_ListWhitelist_FullMethodName, GateServiceServer.ListWhitelist)},
		{MethodName: "History", Handler: unary(GateService_History_FullMethodName, GateServiceServer.History)},
		{MethodName: "SaveOptions", Handler: unary(GateService_SaveOptions_FullMethodName, GateServiceServer.SaveOptions)},
		{MethodName: "ReloadModel", Handler: unary(GateService_ReloadModel_FullMethodName, GateServiceServer.ReloadModel)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "intentgate/gate/v1/gate.proto",
}

// GateServiceClient is the client API for GateService.
type GateServiceClient interface {
	Check(ctx context.Context, in *CheckRequest, opts ...grpc.CallOption) (*Decision, error)
	SubmitIntent(ctx context.Context, in *SubmitIntentRequest, opts ...grpc.CallOption) (*Decision, error)
	Toggle(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*ToggleResponse, error)
	Block(ctx context.Context, in *BlockRequest, opts ...grpc.CallOption) (*BlockResponse, error)
	Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error)
	ListSites(ctx context.Context, in *ListSitesRequest, opts ...grpc.CallOption) (*ListSitesResponse, error)
	ListWhitelist(ctx context.Context, in *ListWhitelistRequest, opts ...grpc.CallOption) (*ListWhitelistResponse, error)
	History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error)
	SaveOptions(ctx context.Context, in *Options, opts ...grpc.CallOption) (*SaveOptionsResponse, error)
	ReloadModel(ctx context.Context, in *ReloadModelRequest, opts ...grpc.CallOption) (*ReloadModelResponse, error)
}

type gateServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewGateServiceClient creates a client that speaks the JSON codec.
func NewGateServiceClient(cc grpc.ClientConnInterface) GateServiceClient {
	return &gateServiceClient{cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.CallContentSubtype(CodecName)}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *gateServiceClient) Check(ctx context.Context, in *CheckRequest, opts ...grpc.CallOption) (*Decision, error) {
	return invoke[Decision](ctx, c.cc, GateService_Check_FullMethodName, in, opts)
}

func (c *gateServiceClient) SubmitIntent(ctx context.Context, in *SubmitIntentRequest, opts ...grpc.CallOption) (*Decision, error) {
	return invoke[Decision](ctx, c.cc, GateService_SubmitIntent_FullMethodName, in, opts)
}

func (c *gateServiceClient) Toggle(ctx context.Context, in *ToggleRequest, opts ...grpc.CallOption) (*ToggleResponse, error) {
	return invoke[ToggleResponse](ctx, c.cc, GateService_Toggle_FullMethodName, in, opts)
}

func (c *gateServiceClient) Block(ctx context.Context, in *BlockRequest, opts ...grpc.CallOption) (*BlockResponse, error) {
	return invoke[BlockResponse](ctx, c.cc, GateService_Block_FullMethodName, in, opts)
}

func (c *gateServiceClient) Status(ctx context.Context, in *StatusRequest, opts ...grpc.CallOption) (*StatusResponse, error) {
	return invoke[StatusResponse](ctx, c.cc, GateService_Status_FullMethodName, in, opts)
}

func (c *gateServiceClient) ListSites(ctx context.Context, in *ListSitesRequest, opts ...grpc.CallOption) (*ListSitesResponse, error) {
	return invoke[ListSitesResponse](ctx, c.cc, GateService_ListSites_FullMethodName, in, opts)
}

func (c *gateServiceClient) ListWhitelist(ctx context.Context, in *ListWhitelistRequest, opts ...grpc.CallOption) (*ListWhitelistResponse, error) {
	return invoke[ListWhitelistResponse](ctx, c.cc, GateService_ListWhitelist_FullMethodName, in, opts)
}

func (c *gateServiceClient) History(ctx context.Context, in *HistoryRequest, opts ...grpc.CallOption) (*HistoryResponse, error) {
	return invoke[HistoryResponse](ctx, c.cc, GateService_History_FullMethodName, in, opts)
}

func (c *gateServiceClient) SaveOptions(ctx context.Context, in *Options, opts ...grpc.CallOption) (*SaveOptionsResponse, error) {
	return invoke[SaveOptionsResponse](ctx, c.cc, GateService_SaveOptions_FullMethodName, in, opts)
}

func (c *gateServiceClient) ReloadModel(ctx context.Context, in *ReloadModelRequest, opts ...grpc.CallOption) (*ReloadModelResponse, error) {
	return invoke[ReloadModelResponse](ctx, c.cc, GateService_ReloadModel_FullMethodName, in, opts)
}
