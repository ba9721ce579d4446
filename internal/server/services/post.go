package services

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repomanager"
)

type PostService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewPostService(db *sql.DB, m repomanager.RepositoryManager, l logging.Logger) *PostService {
	return &PostService{db: db, repomanager: m, logger: l.With("module", "post_service")}
}

// List returns posts newest first, optionally filtered by search, each with
// its comments.
func (s *PostService) List(ctx context.Context, search string) ([]models.Post, error) {
	return listPostsWithComments(ctx, s.db, s.repomanager, search)
}

// Create stores a post authored by actorID.
func (s *PostService) Create(ctx context.Context, actorID int64, title, text string) (*models.Post, error) {
	title, err := requireNonBlank("title", title)
	if err != nil {
		return nil, err
	}
	text, err = requireNonBlank("text", text)
	if err != nil {
		return nil, err
	}

	p, err := s.repomanager.Posts(s.db).Create(ctx, &models.Post{UserID: actorID, Title: title, Text: text})
	if err != nil {
		return nil, fmt.Errorf("error creating post: %w", err)
	}
	s.logger.Info(ctx, "Post created", "post_id", p.ID, "user_id", actorID)
	return p, nil
}

// Update applies patch to a post owned by actorID.
func (s *PostService) Update(ctx context.Context, actorID, id int64, patch models.PostPatch) (*models.Post, error) {
	if patch.Title == nil && patch.Text == nil {
		return nil, validationError("nothing to update")
	}
	for field, v := range map[string]*string{"title": patch.Title, "text": patch.Text} {
		if v != nil {
			trimmed, err := requireNonBlank(field, *v)
			if err != nil {
				return nil, err
			}
			*v = trimmed
		}
	}

	repo := s.repomanager.Posts(s.db)
	if err := s.checkOwner(ctx, actorID, id); err != nil {
		return nil, err
	}
	return repo.Update(ctx, id, patch)
}

// Delete removes a post owned by actorID together with its comments.
func (s *PostService) Delete(ctx context.Context, actorID, id int64) (*models.Post, error) {
	if err := s.checkOwner(ctx, actorID, id); err != nil {
		return nil, err
	}
	p, err := s.repomanager.Posts(s.db).Delete(ctx, id)
	if err != nil {
		return nil, err
	}
	s.logger.Info(ctx, "Post deleted", "post_id", id, "user_id", actorID)
	return p, nil
}

func (s *PostService) checkOwner(ctx context.Context, actorID, id int64) error {
	p, err := s.repomanager.Posts(s.db).GetByID(ctx, id)
	if err != nil {
		return err
	}
	if p.UserID != actorID {
		return common.ErrorForbidden
	}
	return nil
}

func listPostsWithComments(ctx context.Context, db *sql.DB, m repomanager.RepositoryManager, search string) ([]models.Post, error) {
	posts, err := m.Posts(db).List(ctx, search)
	if err != nil {
		return nil, fmt.Errorf("error listing posts: %w", err)
	}
	if len(posts) == 0 {
		return posts, nil
	}

	comments, err := m.Comments(db).List(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing comments: %w", err)
	}

	byPost := make(map[int64][]models.CommentSummary)
	for _, c := range comments {
		byPost[c.PostID] = append(byPost[c.PostID], models.CommentSummary{ID: c.ID, PostID: c.PostID, Text: c.Text})
	}
	for i := range posts {
		posts[i].Comments = byPost[posts[i].ID]
	}
	return posts, nil
}
