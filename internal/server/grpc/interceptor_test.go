package grpc

import (
	"context"
	"errors"
	"testing"

	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func TestInterceptor_PublicMethodPassesThrough(t *testing.T) {
	e := newTestEnv(t)

	called := false
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		called = true
		return "ok", nil
	}

	resp, err := e.server.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: PingMethod}, handler)
	require.NoError(t, err)
	assert.True(t, called)
	assert.Equal(t, "ok", resp)
}

func TestInterceptor_RejectsBeforeHandler(t *testing.T) {
	e := newTestEnv(t)

	tests := []struct {
		name   string
		ctx    context.Context
		code   codes.Code
		reason string
	}{
		{
			name:   "no metadata",
			ctx:    context.Background(),
			code:   codes.Unauthenticated,
			reason: "missing",
		},
		{
			name:   "garbage token",
			ctx:    metadata.NewIncomingContext(context.Background(), metadata.Pairs("authorization", "not-a-jwt")),
			code:   codes.Unauthenticated,
			reason: "malformed",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			called := false
			handler := func(ctx context.Context, req interface{}) (interface{}, error) {
				called = true
				return nil, nil
			}

			before := testutil.ToFloat64(e.metrics.GateRejections.WithLabelValues(tt.reason))
			_, err := e.server.accessTokenInterceptor(tt.ctx, nil, &grpc.UnaryServerInfo{FullMethod: WhoAmIMethod}, handler)
			require.Error(t, err)
			assert.Equal(t, tt.code, status.Code(err))
			assert.False(t, called, "handler must not run")
			assert.Equal(t, before+1, testutil.ToFloat64(e.metrics.GateRejections.WithLabelValues(tt.reason)))
		})
	}
}

func TestInterceptor_StoreUnavailable(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	_, err := e.users.Register(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	res, err := e.users.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	e.store.UsersErr = errors.New("connection refused")

	called := false
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		called = true
		return nil, nil
	}

	in := metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", res.Token))
	_, err = e.server.accessTokenInterceptor(in, nil, &grpc.UnaryServerInfo{FullMethod: WhoAmIMethod}, handler)
	require.Error(t, err)
	assert.Equal(t, codes.Unavailable, status.Code(err))
	assert.False(t, called)
}

func TestInterceptor_AttachesPrincipal(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	u, err := e.users.Register(ctx, "Alice", "alice@example.com", "s3cret")
	require.NoError(t, err)
	res, err := e.users.Login(ctx, "alice@example.com", "s3cret")
	require.NoError(t, err)

	var got *auth.Principal
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = auth.PrincipalFromContext(ctx)
		return nil, nil
	}

	in := metadata.NewIncomingContext(ctx, metadata.Pairs("authorization", "Bearer "+res.Token))
	_, err = e.server.accessTokenInterceptor(in, nil, &grpc.UnaryServerInfo{FullMethod: WhoAmIMethod}, handler)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, u.ID, got.User.ID)
	assert.Empty(t, got.User.PasswordHash)
}
