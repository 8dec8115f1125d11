package grpc

import (
	"context"

	"github.com/vibast-solutions/ms-go-payment-webhooks/app/types"
	"google.golang.org/grpc"
)

const (
	AdminServiceName = "payment_webhooks.AdminService"

	AdminService_Health_FullMethodName           = "/" + AdminServiceName + "/Health"
	AdminService_ListPayments_FullMethodName     = "/" + AdminServiceName + "/ListPayments"
	AdminService_GetPayment_FullMethodName       = "/" + AdminServiceName + "/GetPayment"
	AdminService_ListDeliveryLogs_FullMethodName = "/" + AdminServiceName + "/ListDeliveryLogs"
)

type AdminServiceServer interface {
	Health(context.Context, *types.HealthRequest) (*types.HealthResponse, error)
	ListPayments(context.Context, *types.ListPaymentsRequest) (*types.ListPaymentsResponse, error)
	GetPayment(context.Context, *types.GetPaymentRequest) (*types.PaymentEnvelopeResponse, error)
	ListDeliveryLogs(context.Context, *types.ListDeliveryLogsRequest) (*types.ListDeliveryLogsResponse, error)
}

func RegisterAdminServiceServer(s grpc.ServiceRegistrar, srv AdminServiceServer) {
	s.RegisterService(&AdminService_ServiceDesc, srv)
}

var AdminService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: AdminServiceName,
	HandlerType: (*AdminServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "Health",
			Handler: unaryHandler(AdminService_Health_FullMethodName, func(srv AdminServiceServer, ctx context.Context, in *types.HealthRequest) (interface{}, error) {
				return srv.Health(ctx, in)
			}),
		},
		{
			MethodName: "ListPayments",
			Handler: unaryHandler(AdminService_ListPayments_FullMethodName, func(srv AdminServiceServer, ctx context.Context, in *types.ListPaymentsRequest) (interface{}, error) {
				return srv.ListPayments(ctx, in)
			}),
		},
		{
			MethodName: "GetPayment",
			Handler: unaryHandler(AdminService_GetPayment_FullMethodName, func(srv AdminServiceServer, ctx context.Context, in *types.GetPaymentRequest) (interface{}, error) {
				return srv.GetPayment(ctx, in)
			}),
		},
		{
			MethodName: "ListDeliveryLogs",
			Handler: unaryHandler(AdminService_ListDeliveryLogs_FullMethodName, func(srv AdminServiceServer, ctx context.Context, in *types.ListDeliveryLogsRequest) (interface{}, error) {
				return srv.ListDeliveryLogs(ctx, in)
			}),
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "payment_webhooks/admin.json",
}

func unaryHandler[Req any](
	fullMethod string,
	call func(srv AdminServiceServer, ctx context.Context, in *Req) (interface{}, error),
) grpc.MethodHandler {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AdminServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req interface{}) (interface{}, error) {
			return call(srv.(AdminServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// AdminServiceClient calls the admin API using the JSON codec.
type AdminServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewAdminServiceClient(cc grpc.ClientConnInterface) *AdminServiceClient {
	return &AdminServiceClient{cc: cc}
}

func (c *AdminServiceClient) Health(ctx context.Context, in *types.HealthRequest, opts ...grpc.CallOption) (*types.HealthResponse, error) {
	out := new(types.HealthResponse)
	if err := c.invoke(ctx, AdminService_Health_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdminServiceClient) ListPayments(ctx context.Context, in *types.ListPaymentsRequest, opts ...grpc.CallOption) (*types.ListPaymentsResponse, error) {
	out := new(types.ListPaymentsResponse)
	if err := c.invoke(ctx, AdminService_ListPayments_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdminServiceClient) GetPayment(ctx context.Context, in *types.GetPaymentRequest, opts ...grpc.CallOption) (*types.PaymentEnvelopeResponse, error) {
	out := new(types.PaymentEnvelopeResponse)
	if err := c.invoke(ctx, AdminService_GetPayment_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdminServiceClient) ListDeliveryLogs(ctx context.Context, in *types.ListDeliveryLogsRequest, opts ...grpc.CallOption) (*types.ListDeliveryLogsResponse, error) {
	out := new(types.ListDeliveryLogsResponse)
	if err := c.invoke(ctx, AdminService_ListDeliveryLogs_FullMethodName, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *AdminServiceClient) invoke(ctx context.Context, method string, in, out interface{}, opts []grpc.CallOption) error {
	opts = append([]grpc.CallOption{grpc.ForceCodec(JSONCodec{})}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}
