package comments

import (
	"context"

	"github.com/dmitrijs2005/postboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, comment *models.Comment) (*models.Comment, error)
	// List returns all comments newest first.
	List(ctx context.Context) ([]models.Comment, error)
	GetByID(ctx context.Context, id int64) (*models.Comment, error)
	UpdateText(ctx context.Context, id int64, text string) (*models.Comment, error)
	Delete(ctx context.Context, id int64) (*models.Comment, error)
}
