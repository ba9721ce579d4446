package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/dbx"
	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repomanager"
)

type CommentService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewCommentService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *CommentService {
	return &CommentService{db: db, repomanager: m, logger: l.With("module", "comment_service")}
}

func (s *CommentService) List(ctx context.Context) ([]models.Comment, error) {
	c, err := s.repomanager.Comments(s.db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}
	return c, nil
}

// Create adds a comment by actorID to postID and bumps the post's comment
// counter in the same transaction.
func (s *CommentService) Create(ctx context.Context, actorID, postID int64, text string) (*models.Comment, error) {
	text, err := requireNonBlank("text", text)
	if err != nil {
		return nil, err
	}
	if postID <= 0 {
		return nil, validationError("post_id is required")
	}

	var created *models.Comment
	err = dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if _, err := s.repomanager.Posts(tx).AdjustCommentCount(ctx, postID, 1); err != nil {
			return err
		}
		c, err := s.repomanager.Comments(tx).Create(ctx, &models.Comment{UserID: actorID, PostID: postID, Text: text})
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("error creating comment: %w", err)
	}

	s.logger.Info(ctx, "Comment created", "comment_id", created.ID, "post_id", postID, "user_id", actorID)
	return created, nil
}

// Update replaces the text of a comment owned by actorID.
func (s *CommentService) Update(ctx context.Context, actorID, id int64, text string) (*models.Comment, error) {
	text, err := requireNonBlank("text", text)
	if err != nil {
		return nil, err
	}

	repo := s.repomanager.Comments(s.db)
	c, err := repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if c.UserID != actorID {
		return nil, common.ErrorForbidden
	}
	return repo.UpdateText(ctx, id, text)
}

// Delete removes a comment owned by actorID and decrements its post's
// comment counter in the same transaction.
func (s *CommentService) Delete(ctx context.Context, actorID, id int64) (*models.Comment, error) {
	var deleted *models.Comment
	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := s.repomanager.Comments(tx)
		c, err := repo.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if c.UserID != actorID {
			return common.ErrorForbidden
		}
		if deleted, err = repo.Delete(ctx, id); err != nil {
			return err
		}
		_, err = s.repomanager.Posts(tx).AdjustCommentCount(ctx, c.PostID, -1)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Comment deleted", "comment_id", id, "user_id", actorID)
	return deleted, nil
}
