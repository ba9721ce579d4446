package posts

import (
	"context"

	"github.com/dmitrijs2005/postboard/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, post *models.Post) (*models.Post, error)
	// List returns posts newest first. A non-empty search restricts the
	// result to posts whose title or text contains it, case-insensitively.
	List(ctx context.Context, search string) ([]models.Post, error)
	GetByID(ctx context.Context, id int64) (*models.Post, error)
	Update(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error)
	Delete(ctx context.Context, id int64) (*models.Post, error)
	AdjustCommentCount(ctx context.Context, id int64, delta int64) (int64, error)
}
