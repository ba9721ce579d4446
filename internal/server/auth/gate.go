package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/metrics"
	"github.com/dmitrijs2005/postboard/internal/server/models"
)

// Principal is the identity a request was authenticated as.
type Principal struct {
	User   *models.User
	Claims *Claims
}

type TokenVerifier interface {
	Verify(token string) (*Claims, error)
}

// Gate moves a request from unauthenticated to authenticated. Any failure
// leaves the request unauthenticated and must stop it before the handler.
type Gate struct {
	tokens   TokenVerifier
	denylist Denylist
	users    UserFinder
	timeout  time.Duration
	logger   logging.Logger
	metrics  *metrics.Metrics
}

func NewGate(tokens TokenVerifier, denylist Denylist, users UserFinder, timeout time.Duration, l logging.Logger, m *metrics.Metrics) *Gate {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &Gate{
		tokens:   tokens,
		denylist: denylist,
		users:    users,
		timeout:  timeout,
		logger:   l.With("module", "auth_gate"),
		metrics:  m,
	}
}

// Authenticate resolves rawToken to a Principal.
func (g *Gate) Authenticate(ctx context.Context, rawToken string) (*Principal, error) {
	p, err := g.authenticate(ctx, strings.TrimSpace(rawToken))
	if err != nil {
		reason := RejectionReason(err)
		g.metrics.RecordGateRejection(reason)
		if reason == "store_unavailable" {
			g.logger.Error(ctx, "authentication gate rejected request", "reason", reason, "error", err)
		} else {
			g.logger.Info(ctx, "authentication gate rejected request", "reason", reason)
		}
		return nil, err
	}
	return p, nil
}

func (g *Gate) authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		return nil, common.ErrTokenMissing
	}

	claims, err := g.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	if g.denylist != nil && claims.ID != "" {
		revoked, err := g.denylist.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", common.ErrorStoreUnavailable, err)
		}
		if revoked {
			return nil, common.ErrTokenRevoked
		}
	}

	lookupCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	user, err := g.users.GetUserByID(lookupCtx, claims.UserID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, common.ErrIdentityNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorStoreUnavailable, err)
	}

	if user.TokenVersion != claims.Version {
		return nil, common.ErrTokenRevoked
	}

	return &Principal{User: user.Public(), Claims: claims}, nil
}

// RejectionReason names the gate failure class of err for logs and metrics.
func RejectionReason(err error) string {
	switch {
	case errors.Is(err, common.ErrTokenMissing):
		return "missing"
	case errors.Is(err, common.ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, common.ErrTokenBadSignature):
		return "bad_signature"
	case errors.Is(err, common.ErrTokenExpired):
		return "expired"
	case errors.Is(err, common.ErrTokenRevoked):
		return "revoked"
	case errors.Is(err, common.ErrIdentityNotFound):
		return "identity_not_found"
	case errors.Is(err, common.ErrorStoreUnavailable):
		return "store_unavailable"
	default:
		return "internal"
	}
}

type principalKey struct{}

func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func PrincipalFromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(*Principal)
	return p, ok && p != nil
}
