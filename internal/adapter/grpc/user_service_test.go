package grpc

import (
	"context"
	"net"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	grpclib "google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"gorm.io/gorm"

	"user-record-service/internal/adapter/db/sqlstore"
	"user-record-service/internal/usecase/user"
	"user-record-service/pkg/logger"
)

func newTestClient(t *testing.T) *UserServiceClient {
	log := zaptest.NewLogger(t)

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "users.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&sqlstore.UserSchema{}))

	uc := user.New(sqlstore.NewUserStore(db, log), log)

	lis := bufconn.Listen(1 << 20)
	srv := grpclib.NewServer(grpclib.ChainUnaryInterceptor(logger.RequestIDInterceptor()))
	RegisterUserServiceServer(srv, NewUserServiceServer(uc))
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpclib.NewClient("passthrough:///bufnet",
		grpclib.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpclib.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = conn.Close()
		srv.Stop()
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewUserServiceClient(conn)
}

func TestUserService_RoundTrip(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	created, err := client.CreateUser(ctx, &CreateUserRequest{Name: "Ann", Age: 30})
	require.NoError(t, err)
	_, err = uuid.Parse(created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ann", created.Name)
	assert.Equal(t, uint32(30), created.Age)

	got, err := client.GetUser(ctx, &GetUserRequest{ID: created.ID})
	require.NoError(t, err)
	assert.Equal(t, created, got)

	list, err := client.ListUsers(ctx, &ListUsersRequest{})
	require.NoError(t, err)
	assert.Equal(t, []User{*created}, list.Users)

	_, err = client.DeleteUser(ctx, &DeleteUserRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = client.GetUser(ctx, &GetUserRequest{ID: created.ID})
	assert.Equal(t, codes.NotFound, status.Code(err))

	_, err = client.DeleteUser(ctx, &DeleteUserRequest{ID: created.ID})
	assert.NoError(t, err)
}

func TestUserService_ListEmpty(t *testing.T) {
	client := newTestClient(t)

	list, err := client.ListUsers(context.Background(), &ListUsersRequest{})

	require.NoError(t, err)
	assert.Empty(t, list.Users)
}

func TestUserService_InvalidArgument(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	_, err := client.GetUser(ctx, &GetUserRequest{ID: "not-a-uuid"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.DeleteUser(ctx, &DeleteUserRequest{ID: "42"})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = client.CreateUser(ctx, &CreateUserRequest{Name: "Ann", Age: 300})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	assert.Contains(t, status.Convert(err).Message(), "at most 255")
}

func TestJSONCodec(t *testing.T) {
	c := jsonCodec{}
	assert.Equal(t, "json", c.Name())

	data, err := c.Marshal(&User{ID: "x", Name: "Ann", Age: 30})
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"x","name":"Ann","age":30}`, string(data))

	var out User
	require.NoError(t, c.Unmarshal(data, &out))
	assert.Equal(t, User{ID: "x", Name: "Ann", Age: 30}, out)
}
