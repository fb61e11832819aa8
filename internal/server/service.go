package server

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"
)

// Fully-qualified names of the path service and its methods
const (
	ServiceName      = "gridfastmap.v1.PathService"
	FindPathMethod   = "/" + ServiceName + "/FindPath"
	MapInfoMethod    = "/" + ServiceName + "/MapInfo"
	serviceProtoFile = "gridfastmap/v1/path_service.proto"
)

// PathServiceServer is the server API for the path service. Requests and
// responses are free-form structs; see Server for the fields each method reads
// and writes.
type PathServiceServer interface {
	FindPath(context.Context, *structpb.Struct) (*structpb.Struct, error)
	MapInfo(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// PathService_ServiceDesc is the grpc.ServiceDesc for the path service
var PathService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PathServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{
			MethodName: "FindPath",
			Handler:    findPathHandler,
		},
		{
			MethodName: "MapInfo",
			Handler:    mapInfoHandler,
		},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: serviceProtoFile,
}

// RegisterPathServiceServer registers srv with s
func RegisterPathServiceServer(s grpc.ServiceRegistrar, srv PathServiceServer) {
	s.RegisterService(&PathService_ServiceDesc, srv)
}

func findPathHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PathServiceServer).FindPath(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: FindPathMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PathServiceServer).FindPath(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func mapInfoHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PathServiceServer).MapInfo(ctx, in)
	}
	info := &grpc.UnaryServerInfo{
		Server:     srv,
		FullMethod: MapInfoMethod,
	}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PathServiceServer).MapInfo(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

// PathServiceClient calls the path service over a client connection
type PathServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewPathServiceClient creates a client on cc
func NewPathServiceClient(cc grpc.ClientConnInterface) *PathServiceClient {
	return &PathServiceClient{cc: cc}
}

// FindPath runs one A* query on the server's map
func (c *PathServiceClient) FindPath(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, FindPathMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// MapInfo describes the server's map
func (c *PathServiceClient) MapInfo(ctx context.Context, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, MapInfoMethod, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
