package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/models"
)

const DefaultStoreTimeout = 3 * time.Second

// UserFinder is the read side of the identity store used by authentication.
type UserFinder interface {
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
}

// CredentialVerifier checks a submitted email and password against the
// stored bcrypt hash.
type CredentialVerifier struct {
	users   UserFinder
	hasher  PasswordHasher
	timeout time.Duration

	// dummyHash is compared against when the email is unknown.
	dummyHash string
}

// NewCredentialVerifier hashes the unknown-identity placeholder up front, so
// a hasher failure surfaces at startup instead of silently skipping the
// comparison later.
func NewCredentialVerifier(users UserFinder, hasher PasswordHasher, timeout time.Duration) (*CredentialVerifier, error) {
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	dummy, err := hasher.Hash("postboard-unknown-identity")
	if err != nil {
		return nil, fmt.Errorf("hash placeholder password: %w", err)
	}
	return &CredentialVerifier{users: users, hasher: hasher, timeout: timeout, dummyHash: dummy}, nil
}

// Verify returns the identity with its password hash cleared. Failures are
// common.ErrorNotFound, common.ErrorInvalidCredential or
// common.ErrorStoreUnavailable.
func (v *CredentialVerifier) Verify(ctx context.Context, email, password string) (*models.User, error) {
	email = strings.TrimSpace(email)

	lookupCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	user, err := v.users.GetUserByEmail(lookupCtx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			v.burnCompare(password)
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorStoreUnavailable, err)
	}

	if err := v.hasher.Compare(user.PasswordHash, password); err != nil {
		if errors.Is(err, common.ErrorInvalidCredential) {
			return nil, common.ErrorInvalidCredential
		}
		return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
	}

	return user.Public(), nil
}

// burnCompare spends about as long as a real comparison so that the
// response time of an unknown email matches a wrong password.
func (v *CredentialVerifier) burnCompare(password string) {
	_ = v.hasher.Compare(v.dummyHash, password)
}
