package users

import (
	"context"

	"github.com/dmitrijs2005/postboard/internal/server/models"
)

// Repository is the identity store. Lookups return common.ErrorNotFound when
// no row matches; Create returns common.ErrorAlreadyExists on a duplicate email.
type Repository interface {
	Create(ctx context.Context, user *models.User) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id int64) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	UpdateName(ctx context.Context, id int64, name string) (*models.User, error)
	Delete(ctx context.Context, id int64) (*models.User, error)
	IncrementTokenVersion(ctx context.Context, id int64) (int64, error)
}
