// Package client contains the gRPC client for the postboard auth service.
//
// GRPCClient manages one connection, injects the session token into the
// "authorization" metadata key via a unary interceptor, and maps gRPC status
// codes to sentinel errors that callers match with errors.Is:
// ErrUnavailable, ErrUnauthorized, ErrInvalidArgument.
//
// Requests and responses are google.protobuf.Struct values, so the client
// carries no generated code.
package client
