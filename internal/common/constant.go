package common

// AuthorizationHeaderName is the HTTP header and gRPC metadata key that
// carries the session token. The raw token value is expected; a "Bearer "
// prefix is tolerated.
const AuthorizationHeaderName = "authorization"

// BearerPrefix is stripped from the authorization value when present.
const BearerPrefix = "Bearer "
