package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

var gatedMethods = map[string]bool{
	WhoAmIMethod: true,
}

// accessTokenInterceptor runs the authentication gate for gated methods and
// returns before the handler on any failure.
func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if !gatedMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AuthorizationHeaderName)
		if len(values) > 0 {
			accessToken = common.TokenFromHeader(values[0])
		}
	}

	p, err := s.gate.Authenticate(ctx, accessToken)
	if err != nil {
		if errors.Is(err, common.ErrorStoreUnavailable) {
			return nil, status.Error(codes.Unavailable, "service unavailable")
		}
		if errors.Is(err, common.ErrTokenMissing) {
			return nil, status.Error(codes.Unauthenticated, "missing token")
		}
		return nil, status.Error(codes.Unauthenticated, "unauthorized")
	}

	return handler(auth.WithPrincipal(ctx, p), req)
}
