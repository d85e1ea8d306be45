package grpc

import (
	"context"

	grpclib "google.golang.org/grpc"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "userrecord.v1.UserService"

const (
	methodCreateUser = "/" + ServiceName + "/CreateUser"
	methodGetUser    = "/" + ServiceName + "/GetUser"
	methodListUsers  = "/" + ServiceName + "/ListUsers"
	methodDeleteUser = "/" + ServiceName + "/DeleteUser"
)

// UserServiceHandler is the server API for the user service.
type UserServiceHandler interface {
	CreateUser(context.Context, *CreateUserRequest) (*User, error)
	GetUser(context.Context, *GetUserRequest) (*User, error)
	ListUsers(context.Context, *ListUsersRequest) (*ListUsersResponse, error)
	DeleteUser(context.Context, *DeleteUserRequest) (*DeleteUserResponse, error)
}

// unaryHandler adapts a typed handler method to grpc.MethodHandler.
func unaryHandler[Req, Resp any](
	fullMethod string,
	call func(UserServiceHandler, context.Context, *Req) (*Resp, error),
) func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpclib.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(UserServiceHandler), ctx, in)
		}
		info := &grpclib.UnaryServerInfo{
			Server:     srv,
			FullMethod: fullMethod,
		}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(UserServiceHandler), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// UserServiceDesc describes the user service for grpc.Server.RegisterService.
var UserServiceDesc = grpclib.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*UserServiceHandler)(nil),
	Methods: []grpclib.MethodDesc{
		{
			MethodName: "CreateUser",
			Handler:    unaryHandler(methodCreateUser, UserServiceHandler.CreateUser),
		},
		{
			MethodName: "GetUser",
			Handler:    unaryHandler(methodGetUser, UserServiceHandler.GetUser),
		},
		{
			MethodName: "ListUsers",
			Handler:    unaryHandler(methodListUsers, UserServiceHandler.ListUsers),
		},
		{
			MethodName: "DeleteUser",
			Handler:    unaryHandler(methodDeleteUser, UserServiceHandler.DeleteUser),
		},
	},
	Streams: []grpclib.StreamDesc{},
}

// RegisterUserServiceServer registers srv on s.
func RegisterUserServiceServer(s grpclib.ServiceRegistrar, srv UserServiceHandler) {
	s.RegisterService(&UserServiceDesc, srv)
}

// UserServiceClient is the client API for the user service.
type UserServiceClient struct {
	cc grpclib.ClientConnInterface
}

// NewUserServiceClient creates a client speaking the JSON codec over cc.
func NewUserServiceClient(cc grpclib.ClientConnInterface) *UserServiceClient {
	return &UserServiceClient{cc: cc}
}

func (c *UserServiceClient) invoke(ctx context.Context, method string, in, out any, opts []grpclib.CallOption) error {
	opts = append([]grpclib.CallOption{grpclib.CallContentSubtype(CodecName)}, opts...)
	return c.cc.Invoke(ctx, method, in, out, opts...)
}

// CreateUser calls UserService.CreateUser.
func (c *UserServiceClient) CreateUser(ctx context.Context, in *CreateUserRequest, opts ...grpclib.CallOption) (*User, error) {
	out := new(User)
	if err := c.invoke(ctx, methodCreateUser, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// GetUser calls UserService.GetUser.
func (c *UserServiceClient) GetUser(ctx context.Context, in *GetUserRequest, opts ...grpclib.CallOption) (*User, error) {
	out := new(User)
	if err := c.invoke(ctx, methodGetUser, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// ListUsers calls UserService.ListUsers.
func (c *UserServiceClient) ListUsers(ctx context.Context, in *ListUsersRequest, opts ...grpclib.CallOption) (*ListUsersResponse, error) {
	out := new(ListUsersResponse)
	if err := c.invoke(ctx, methodListUsers, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteUser calls UserService.DeleteUser.
func (c *UserServiceClient) DeleteUser(ctx context.Context, in *DeleteUserRequest, opts ...grpclib.CallOption) (*DeleteUserResponse, error) {
	out := new(DeleteUserResponse)
	if err := c.invoke(ctx, methodDeleteUser, in, out, opts); err != nil {
		return nil, err
	}
	return out, nil
}
