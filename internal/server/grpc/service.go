package grpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// ServiceName is the fully qualified gRPC service name. The contract lives in
// proto/timetable/v1/timetable.proto; its messages are all
// google.protobuf.Struct, so the descriptor below is all the stubs amount to.
const ServiceName = "timetable.v1.TimetableService"

const (
	MethodCompile      = "/" + ServiceName + "/Compile"
	MethodGetTimetable = "/" + ServiceName + "/GetTimetable"
	MethodExportICS    = "/" + ServiceName + "/ExportICS"
)

type TimetableServer interface {
	Compile(context.Context, *structpb.Struct) (*structpb.Struct, error)
	GetTimetable(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ExportICS(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

type unaryMethod func(TimetableServer, context.Context, *structpb.Struct) (*structpb.Struct, error)

func methodHandler(fullMethod string, call unaryMethod) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(TimetableServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(TimetableServer), ctx, req.(*structpb.Struct))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var serviceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*TimetableServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Compile", Handler: methodHandler(MethodCompile, TimetableServer.Compile)},
		{MethodName: "GetTimetable", Handler: methodHandler(MethodGetTimetable, TimetableServer.GetTimetable)},
		{MethodName: "ExportICS", Handler: methodHandler(MethodExportICS, TimetableServer.ExportICS)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "timetable/v1/timetable.proto",
}

func RegisterTimetableServer(s grpc.ServiceRegistrar, srv TimetableServer) {
	s.RegisterService(&serviceDesc, srv)
}

// Client calls TimetableService over an existing connection.
type Client struct {
	cc grpc.ClientConnInterface
}

func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

func (c *Client) invoke(ctx context.Context, method, event, year string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(map[string]any{"event": event, "year": year})
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) Compile(ctx context.Context, event, year string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodCompile, event, year, opts...)
}

func (c *Client) GetTimetable(ctx context.Context, event, year string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	return c.invoke(ctx, MethodGetTimetable, event, year, opts...)
}

func (c *Client) ExportICS(ctx context.Context, event, year string, opts ...grpc.CallOption) (string, error) {
	out, err := c.invoke(ctx, MethodExportICS, event, year, opts...)
	if err != nil {
		return "", err
	}
	return out.GetFields()["ics"].GetStringValue(), nil
}
