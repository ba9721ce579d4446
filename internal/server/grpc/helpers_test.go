package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/metrics"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repotest"
	"github.com/dmitrijs2005/postboard/internal/server/services"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type testEnv struct {
	server  *GRPCServer
	users   *services.UserService
	store   *repotest.Store
	metrics *metrics.Metrics
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, _, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	rm := repotest.NewManager()
	tokens, err := auth.NewTokenService([]byte("test-secret"), time.Hour)
	require.NoError(t, err)
	deny := auth.NewMemoryDenylist()
	m := metrics.New()
	l := logging.Discard()

	us, err := services.NewUserService(db, rm, auth.NewBcryptHasher(bcrypt.MinCost), tokens, deny, time.Second, l, m)
	require.NoError(t, err)
	gate := auth.NewGate(tokens, deny, rm.Users(db), time.Second, l, m)

	return &testEnv{
		server:  NewGRPCServer("127.0.0.1:0", l, us, gate),
		users:   us,
		store:   rm.Store,
		metrics: m,
	}
}

// dial serves the environment over an in-memory listener and returns a
// connected client.
func (e *testEnv) dial(t *testing.T) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := e.server.NewServer()
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)

	t.Cleanup(func() {
		conn.Close()
		srv.Stop()
	})
	return conn
}

func invoke(ctx context.Context, conn *grpc.ClientConn, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := conn.Invoke(ctx, method, in, out); err != nil {
		return nil, err
	}
	return out, nil
}
