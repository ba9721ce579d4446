// Package repotest provides in-memory repositories for tests of the layers
// above the database.
package repotest

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/dbx"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/comments"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/posts"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/users"
)

// Store backs the in-memory repositories with maps. Tests may inspect or
// seed the maps directly while no request is in flight.
type Store struct {
	mu       sync.Mutex
	seq      int64
	Users    map[int64]*models.User
	Posts    map[int64]*models.Post
	Comments map[int64]*models.Comment

	// UsersErr, when set, fails every identity lookup and insert.
	UsersErr error
}

func NewStore() *Store {
	return &Store{
		Users:    map[int64]*models.User{},
		Posts:    map[int64]*models.Post{},
		Comments: map[int64]*models.Comment{},
	}
}

func (s *Store) next() int64 {
	s.seq++
	return s.seq
}

// Manager is a repomanager.RepositoryManager over a Store. The DB handle
// passed to its factories is ignored.
type Manager struct {
	Store *Store
}

func NewManager() *Manager {
	return &Manager{Store: NewStore()}
}

func (m *Manager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *Manager) Users(dbx.DBTX) users.Repository            { return &usersRepo{m.Store} }
func (m *Manager) Posts(dbx.DBTX) posts.Repository            { return &postsRepo{m.Store} }
func (m *Manager) Comments(dbx.DBTX) comments.Repository      { return &commentsRepo{m.Store} }

type usersRepo struct{ s *Store }

func (r *usersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.UsersErr != nil {
		return nil, r.s.UsersErr
	}
	for _, e := range r.s.Users {
		if e.Email == u.Email {
			return nil, common.ErrorAlreadyExists
		}
	}
	u.ID = r.s.next()
	u.CreatedAt = time.Now()
	c := *u
	r.s.Users[u.ID] = &c
	return u, nil
}

func (r *usersRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.UsersErr != nil {
		return nil, r.s.UsersErr
	}
	for _, e := range r.s.Users {
		if e.Email == email {
			c := *e
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (r *usersRepo) GetUserByID(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if r.s.UsersErr != nil {
		return nil, r.s.UsersErr
	}
	u, ok := r.s.Users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *u
	return &c, nil
}

func (r *usersRepo) List(context.Context) ([]models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.User, 0, len(r.s.Users))
	for _, u := range r.s.Users {
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *usersRepo) UpdateName(_ context.Context, id int64, name string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.Users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	u.Name = name
	c := *u
	return &c, nil
}

func (r *usersRepo) Delete(_ context.Context, id int64) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.Users[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.s.Users, id)
	for pid, p := range r.s.Posts {
		if p.UserID == id {
			delete(r.s.Posts, pid)
		}
	}
	for cid, c := range r.s.Comments {
		if _, ok := r.s.Posts[c.PostID]; !ok || c.UserID == id {
			delete(r.s.Comments, cid)
		}
	}
	return u, nil
}

func (r *usersRepo) IncrementTokenVersion(_ context.Context, id int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u, ok := r.s.Users[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	u.TokenVersion++
	return u.TokenVersion, nil
}

type postsRepo struct{ s *Store }

func (r *postsRepo) Create(_ context.Context, p *models.Post) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.Users[p.UserID]; !ok {
		return nil, errors.New("foreign key violation: user does not exist")
	}
	p.ID = r.s.next()
	p.CreatedAt = time.Now()
	c := *p
	r.s.Posts[p.ID] = &c
	return p, nil
}

func (r *postsRepo) List(_ context.Context, search string) ([]models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Post, 0)
	for _, p := range r.s.Posts {
		if search == "" || contains(p.Title, search) || contains(p.Text, search) {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *postsRepo) GetByID(_ context.Context, id int64) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *p
	return &c, nil
}

func (r *postsRepo) Update(_ context.Context, id int64, patch models.PostPatch) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Title != nil {
		p.Title = *patch.Title
	}
	if patch.Text != nil {
		p.Text = *patch.Text
	}
	c := *p
	return &c, nil
}

func (r *postsRepo) Delete(_ context.Context, id int64) (*models.Post, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Posts[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.s.Posts, id)
	for cid, c := range r.s.Comments {
		if c.PostID == id {
			delete(r.s.Comments, cid)
		}
	}
	return p, nil
}

func (r *postsRepo) AdjustCommentCount(_ context.Context, id int64, delta int64) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p, ok := r.s.Posts[id]
	if !ok {
		return 0, common.ErrorNotFound
	}
	p.CommentCount += delta
	if p.CommentCount < 0 {
		p.CommentCount = 0
	}
	return p.CommentCount, nil
}

type commentsRepo struct{ s *Store }

func (r *commentsRepo) Create(_ context.Context, c *models.Comment) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.next()
	c.CreatedAt = time.Now()
	cp := *c
	r.s.Comments[c.ID] = &cp
	return c, nil
}

func (r *commentsRepo) List(context.Context) ([]models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	out := make([]models.Comment, 0, len(r.s.Comments))
	for _, c := range r.s.Comments {
		out = append(out, *c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (r *commentsRepo) GetByID(_ context.Context, id int64) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *c
	return &cp, nil
}

func (r *commentsRepo) UpdateText(_ context.Context, id int64, text string) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c.Text = text
	cp := *c
	return &cp, nil
}

func (r *commentsRepo) Delete(_ context.Context, id int64) (*models.Comment, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.Comments[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	delete(r.s.Comments, id)
	return c, nil
}

func contains(s, sub string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(sub))
}
