package posts

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/dbx"
	"github.com/dmitrijs2005/postboard/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const postColumns = `id, user_id, title, text, comment_count, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPost(row rowScanner) (*models.Post, error) {
	p := &models.Post{}
	if err := row.Scan(&p.ID, &p.UserID, &p.Title, &p.Text, &p.CommentCount, &p.CreatedAt); err != nil {
		return nil, err
	}
	return p, nil
}

func mapErr(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return common.ErrorNotFound
	}
	return fmt.Errorf("db error: %w", err)
}

func (r *PostgresRepository) Create(ctx context.Context, post *models.Post) (*models.Post, error) {

	query :=
		`INSERT INTO posts (user_id, title, text)
         VALUES ($1, $2, $3)
		 RETURNING id, comment_count, created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		post.UserID, post.Title, post.Text).Scan(&post.ID, &post.CommentCount, &post.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return post, nil
}

// escapeLike makes s safe to embed in an ILIKE pattern.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

func (r *PostgresRepository) List(ctx context.Context, search string) ([]models.Post, error) {
	var (
		rows *sql.Rows
		err  error
	)

	if search == "" {
		query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, query)
	} else {
		query :=
			`SELECT ` + postColumns + ` FROM posts
			 WHERE title ILIKE $1 OR text ILIKE $1
			 ORDER BY created_at DESC, id DESC`
		rows, err = r.db.QueryContext(ctx, query, "%"+escapeLike(search)+"%")
	}
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]models.Post, 0)
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

// Update applies only the non-nil fields of patch.
func (r *PostgresRepository) Update(ctx context.Context, id int64, patch models.PostPatch) (*models.Post, error) {
	query :=
		`UPDATE posts SET title = COALESCE($2, title), text = COALESCE($3, text)
		 WHERE id = $1
		 RETURNING ` + postColumns

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id, patch.Title, patch.Text))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id int64) (*models.Post, error) {
	query := `DELETE FROM posts WHERE id = $1 RETURNING ` + postColumns

	p, err := scanPost(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, mapErr(err)
	}
	return p, nil
}

// AdjustCommentCount adds delta to the post's comment counter, never going
// below zero, and returns the new value.
func (r *PostgresRepository) AdjustCommentCount(ctx context.Context, id int64, delta int64) (int64, error) {
	query :=
		`UPDATE posts SET comment_count = GREATEST(comment_count + $2, 0)
		 WHERE id = $1
		 RETURNING comment_count
		 `

	var count int64
	if err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&count); err != nil {
		return 0, mapErr(err)
	}
	return count, nil
}
