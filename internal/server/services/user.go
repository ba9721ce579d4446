// Package services contains server-side business logic: registration and
// login, the public user listing, and post and comment management on behalf
// of an authenticated identity.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/auth"
	"github.com/dmitrijs2005/postboard/internal/server/metrics"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repomanager"
)

// LoginResult is what a successful login hands back to the caller.
type LoginResult struct {
	User      *models.User
	Token     string
	ExpiresAt time.Time
}

type UserService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      auth.PasswordHasher
	verifier    *auth.CredentialVerifier
	tokens      *auth.TokenService
	denylist    auth.Denylist
	logger      logging.Logger
	metrics     *metrics.Metrics
}

func NewUserService(db *sql.DB, m repomanager.RepositoryManager, hasher auth.PasswordHasher, tokens *auth.TokenService,
	denylist auth.Denylist, storeTimeout time.Duration, l logging.Logger, met *metrics.Metrics) (*UserService, error) {
	verifier, err := auth.NewCredentialVerifier(m.Users(db), hasher, storeTimeout)
	if err != nil {
		return nil, err
	}
	return &UserService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		verifier:    verifier,
		tokens:      tokens,
		denylist:    denylist,
		logger:      l.With("module", "user_service"),
		metrics:     met,
	}, nil
}

// Register creates an identity with a bcrypt hash of password. A duplicate
// email yields common.ErrorAlreadyExists.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	name, err := requireNonBlank("name", name)
	if err != nil {
		return nil, err
	}
	email, err = requireNonBlank("email", email)
	if err != nil {
		return nil, err
	}
	if password == "" {
		return nil, validationError("password is required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u, err := s.repomanager.Users(s.db).Create(ctx, &models.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "Registered", "user_id", u.ID)
	return u.Public(), nil
}

// Login verifies the credential and issues a session token. Unknown email
// and wrong password both surface as common.ErrorInvalidCredential; the
// distinction is kept in logs and metrics only.
func (s *UserService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.verifier.Verify(ctx, email, password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorNotFound):
			s.metrics.RecordLogin(metrics.LoginNotFound)
			s.logger.Info(ctx, "Login rejected", "reason", metrics.LoginNotFound)
			return nil, common.ErrorInvalidCredential
		case errors.Is(err, common.ErrorInvalidCredential):
			s.metrics.RecordLogin(metrics.LoginInvalidCredential)
			s.logger.Info(ctx, "Login rejected", "reason", metrics.LoginInvalidCredential)
			return nil, common.ErrorInvalidCredential
		case errors.Is(err, common.ErrorStoreUnavailable):
			s.metrics.RecordLogin(metrics.LoginStoreUnavailable)
			s.logger.Error(ctx, "Login failed", "reason", metrics.LoginStoreUnavailable, "error", err)
			return nil, err
		default:
			s.logger.Error(ctx, "Login failed", "error", err)
			return nil, fmt.Errorf("%w: %w", common.ErrorInternal, err)
		}
	}

	issued, err := s.tokens.Issue(user.ID, user.TokenVersion)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", common.ErrorInternal, err)
	}

	s.metrics.RecordLogin(metrics.LoginSuccess)
	s.logger.Info(ctx, "Logged in", "user_id", user.ID)

	return &LoginResult{User: user, Token: issued.Token, ExpiresAt: issued.ExpiresAt}, nil
}

// ListWithPosts returns every identity with its posts, each post carrying
// its comments.
func (s *UserService) ListWithPosts(ctx context.Context) ([]models.UserWithPosts, error) {
	users, err := s.repomanager.Users(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing users: %w", err)
	}
	posts, err := listPostsWithComments(ctx, s.db, s.repomanager, "")
	if err != nil {
		return nil, err
	}

	byUser := make(map[int64][]models.Post, len(users))
	for _, p := range posts {
		byUser[p.UserID] = append(byUser[p.UserID], p)
	}

	result := make([]models.UserWithPosts, 0, len(users))
	for i := range users {
		userPosts := byUser[users[i].ID]
		if userPosts == nil {
			userPosts = []models.Post{}
		}
		result = append(result, models.UserWithPosts{User: *users[i].Public(), Posts: userPosts})
	}
	return result, nil
}

// UpdateName renames targetID. Only the identity itself may do so.
func (s *UserService) UpdateName(ctx context.Context, actorID, targetID int64, name string) (*models.User, error) {
	if actorID != targetID {
		return nil, common.ErrorForbidden
	}
	name, err := requireNonBlank("name", name)
	if err != nil {
		return nil, err
	}

	u, err := s.repomanager.Users(s.db).UpdateName(ctx, targetID, name)
	if err != nil {
		return nil, err
	}
	return u.Public(), nil
}

// Delete removes targetID with its posts and comments. Only the identity
// itself may do so.
func (s *UserService) Delete(ctx context.Context, actorID, targetID int64) (*models.User, error) {
	if actorID != targetID {
		return nil, common.ErrorForbidden
	}

	u, err := s.repomanager.Users(s.db).Delete(ctx, targetID)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Deleted user", "user_id", targetID)
	return u.Public(), nil
}

// Logout revokes the single token described by claims.
func (s *UserService) Logout(ctx context.Context, claims *auth.Claims) error {
	if claims == nil || claims.ID == "" {
		return common.ErrTokenMalformed
	}
	var until time.Time
	if claims.ExpiresAt != nil {
		until = claims.ExpiresAt.Time
	}
	if err := s.denylist.Revoke(ctx, claims.ID, until); err != nil {
		return fmt.Errorf("%w: %w", common.ErrorStoreUnavailable, err)
	}
	return nil
}

// LogoutAll invalidates every token issued to userID so far.
func (s *UserService) LogoutAll(ctx context.Context, userID int64) error {
	version, err := s.repomanager.Users(s.db).IncrementTokenVersion(ctx, userID)
	if err != nil {
		return err
	}
	s.logger.Info(ctx, "Revoked all sessions", "user_id", userID, "token_version", version)
	return nil
}
