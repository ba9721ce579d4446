package client

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postboard/internal/common"
	gs "github.com/dmitrijs2005/postboard/internal/server/grpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Identity is the public view of a user as returned by the server.
type Identity struct {
	ID    int64
	Name  string
	Email string
}

// Session is the outcome of a successful login.
type Session struct {
	Token     string
	ExpiresAt time.Time
	User      Identity
}

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	accessToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Set(common.AuthorizationHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if s.accessToken != "" {
		ctx = withAccessToken(ctx, s.accessToken)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

// NewAuthClient connects to the auth service at endpointURL. Extra dial
// options are appended to the defaults.
func NewAuthClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(c.accessTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, dialOpts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	return c, nil
}

// SetAccessToken sets the token sent with every following call.
func (s *GRPCClient) SetAccessToken(token string) {
	s.accessToken = common.TokenFromHeader(token)
}

func (s *GRPCClient) call(ctx context.Context, method string, req map[string]any) (*structpb.Struct, error) {
	in, err := structpb.NewStruct(req)
	if err != nil {
		return nil, err
	}
	out := new(structpb.Struct)
	if err := s.conn.Invoke(ctx, method, in, out); err != nil {
		return nil, s.mapError(err)
	}
	return out, nil
}

// Login exchanges credentials for a session token. The token is also kept
// for subsequent calls.
func (s *GRPCClient) Login(ctx context.Context, email string, password []byte) (*Session, error) {

	resp, err := s.call(ctx, gs.LoginMethod, map[string]any{"email": email, "password": string(password)})
	if err != nil {
		return nil, err
	}

	f := resp.GetFields()
	sess := &Session{
		Token: f["token"].GetStringValue(),
		User:  identityFromStruct(f["user"].GetStructValue()),
	}
	if exp := f["expires_at"].GetStringValue(); exp != "" {
		sess.ExpiresAt, err = time.Parse(time.RFC3339, exp)
		if err != nil {
			return nil, fmt.Errorf("bad expires_at: %w", err)
		}
	}

	s.accessToken = sess.Token
	return sess, nil
}

// WhoAmI returns the identity bound to the current access token.
func (s *GRPCClient) WhoAmI(ctx context.Context) (*Identity, error) {

	resp, err := s.call(ctx, gs.WhoAmIMethod, map[string]any{})
	if err != nil {
		return nil, err
	}

	id := identityFromStruct(resp)
	return &id, nil
}

func (s *GRPCClient) Ping(ctx context.Context) error {
	_, err := s.call(ctx, gs.PingMethod, map[string]any{})
	return err
}

func (s *GRPCClient) Close() error {
	return s.conn.Close()
}

func identityFromStruct(v *structpb.Struct) Identity {
	f := v.GetFields()
	return Identity{
		ID:    int64(f["id"].GetNumberValue()),
		Name:  f["name"].GetStringValue(),
		Email: f["email"].GetStringValue(),
	}
}

func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, _ := status.FromError(err)
	switch st.Code() {
	case codes.Unauthenticated, codes.PermissionDenied:
		return ErrUnauthorized
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.InvalidArgument:
		return fmt.Errorf("%w: %s", ErrInvalidArgument, st.Message())
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
