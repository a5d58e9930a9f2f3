// Hand-written gRPC service definitions for the cln.Node service.
// Calls force Codec, so nothing is registered globally.

package clnrpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	Node_Getinfo_FullMethodName      = "/cln.Node/Getinfo"
	Node_ListInvoices_FullMethodName = "/cln.Node/ListInvoices"
	Node_Invoice_FullMethodName      = "/cln.Node/Invoice"
	Node_Pay_FullMethodName          = "/cln.Node/Pay"
)

// NodeClient is the client API for the cln.Node service.
type NodeClient interface {
	Getinfo(ctx context.Context, in *GetinfoRequest, opts ...grpc.CallOption) (*GetinfoResponse, error)
	ListInvoices(ctx context.Context, in *ListinvoicesRequest, opts ...grpc.CallOption) (*ListinvoicesResponse, error)
	Invoice(ctx context.Context, in *InvoiceRequest, opts ...grpc.CallOption) (*InvoiceResponse, error)
	Pay(ctx context.Context, in *PayRequest, opts ...grpc.CallOption) (*PayResponse, error)
}

type nodeClient struct {
	cc grpc.ClientConnInterface
}

func NewNodeClient(cc grpc.ClientConnInterface) NodeClient {
	return &nodeClient{cc}
}

func (c *nodeClient) invoke(ctx context.Context, method string, in, out message, opts []grpc.CallOption) error {
	opts = append(opts, grpc.ForceCodec(Codec{}))
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

func (c *nodeClient) Getinfo(ctx context.Context, in *GetinfoRequest, opts ...grpc.CallOption) (*GetinfoResponse, error) {
	out := new(GetinfoResponse)
	if err := c.invoke(ctx, Node_Getinfo_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeClient) ListInvoices(ctx context.Context, in *ListinvoicesRequest, opts ...grpc.CallOption) (*ListinvoicesResponse, error) {
	out := new(ListinvoicesResponse)
	if err := c.invoke(ctx, Node_ListInvoices_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeClient) Invoice(ctx context.Context, in *InvoiceRequest, opts ...grpc.CallOption) (*InvoiceResponse, error) {
	out := new(InvoiceResponse)
	if err := c.invoke(ctx, Node_Invoice_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *nodeClient) Pay(ctx context.Context, in *PayRequest, opts ...grpc.CallOption) (*PayResponse, error) {
	out := new(PayResponse)
	if err := c.invoke(ctx, Node_Pay_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// NodeServer is the server API for the cln.Node service. Servers must be
// created with grpc.ForceServerCodec(Codec{}).
type NodeServer interface {
	Getinfo(context.Context, *GetinfoRequest) (*GetinfoResponse, error)
	ListInvoices(context.Context, *ListinvoicesRequest) (*ListinvoicesResponse, error)
	Invoice(context.Context, *InvoiceRequest) (*InvoiceResponse, error)
	Pay(context.Context, *PayRequest) (*PayResponse, error)
}

// UnimplementedNodeServer answers every method with codes.Unimplemented.
type UnimplementedNodeServer struct{}

func (UnimplementedNodeServer) Getinfo(context.Context, *GetinfoRequest) (*GetinfoResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Getinfo not implemented")
}
func (UnimplementedNodeServer) ListInvoices(context.Context, *ListinvoicesRequest) (*ListinvoicesResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method ListInvoices not implemented")
}
func (UnimplementedNodeServer) Invoice(context.Context, *InvoiceRequest) (*InvoiceResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Invoice not implemented")
}
func (UnimplementedNodeServer) Pay(context.Context, *PayRequest) (*PayResponse, error) {
	return nil, status.Errorf(codes.Unimplemented, "method Pay not implemented")
}

func RegisterNodeServer(s grpc.ServiceRegistrar, srv NodeServer) {
	s.RegisterService(&Node_ServiceDesc, srv)
}

func _Node_Getinfo_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(GetinfoRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).Getinfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Node_Getinfo_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).Getinfo(ctx, req.(*GetinfoRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Node_ListInvoices_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(ListinvoicesRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).ListInvoices(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Node_ListInvoices_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).ListInvoices(ctx, req.(*ListinvoicesRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Node_Invoice_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(InvoiceRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).Invoice(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Node_Invoice_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).Invoice(ctx, req.(*InvoiceRequest))
	}
	return interceptor(ctx, in, info, handler)
}

func _Node_Pay_Handler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(PayRequest)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(NodeServer).Pay(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: Node_Pay_FullMethodName}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(NodeServer).Pay(ctx, req.(*PayRequest))
	}
	return interceptor(ctx, in, info, handler)
}

// Node_ServiceDesc is the grpc.ServiceDesc for the cln.Node service.
var Node_ServiceDesc = grpc.ServiceDesc{
	ServiceName: "cln.Node",
	HandlerType: (*NodeServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Getinfo", Handler: _Node_Getinfo_Handler},
		{MethodName: "ListInvoices", Handler: _Node_ListInvoices_Handler},
		{MethodName: "Invoice", Handler: _Node_Invoice_Handler},
		{MethodName: "Pay", Handler: _Node_Pay_Handler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "node.proto",
}
