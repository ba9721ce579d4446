package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/logging"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repotest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type commentFixture struct {
	svc   *CommentService
	mock  sqlmock.Sqlmock
	store *repotest.Store
	alice *models.User
	bob   *models.User
	post  *models.Post
}

func newCommentFixture(t *testing.T) *commentFixture {
	t.Helper()
	db, mock := newSQLMockDB(t)
	rm := repotest.NewManager()
	store := rm.Store
	ctx := context.Background()

	alice, err := rm.Users(db).Create(ctx, &models.User{Name: "alice", Email: "a@x.com"})
	require.NoError(t, err)
	bob, err := rm.Users(db).Create(ctx, &models.User{Name: "bob", Email: "b@x.com"})
	require.NoError(t, err)
	post, err := rm.Posts(db).Create(ctx, &models.Post{UserID: alice.ID, Title: "t", Text: "x"})
	require.NoError(t, err)

	return &commentFixture{
		svc:   NewCommentService(db, rm, logging.Discard()),
		mock:  mock,
		store: store,
		alice: alice,
		bob:   bob,
		post:  post,
	}
}

func TestCommentCreate_IncrementsCountInTx(t *testing.T) {
	f := newCommentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()

	c, err := f.svc.Create(context.Background(), f.bob.ID, f.post.ID, " nice ")
	require.NoError(t, err)
	assert.Equal(t, f.bob.ID, c.UserID)
	assert.Equal(t, "nice", c.Text)
	assert.Equal(t, int64(1), f.store.Posts[f.post.ID].CommentCount)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCommentCreate_MissingPostRollsBack(t *testing.T) {
	f := newCommentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectRollback()

	_, err := f.svc.Create(context.Background(), f.bob.ID, 999, "nice")
	assert.ErrorIs(t, err, common.ErrorNotFound)
	assert.Empty(t, f.store.Comments)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCommentCreate_Validation(t *testing.T) {
	f := newCommentFixture(t)

	_, err := f.svc.Create(context.Background(), f.bob.ID, f.post.ID, "")
	assert.ErrorIs(t, err, common.ErrorValidation)
	_, err = f.svc.Create(context.Background(), f.bob.ID, 0, "x")
	assert.ErrorIs(t, err, common.ErrorValidation)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCommentUpdate_Ownership(t *testing.T) {
	f := newCommentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	c, err := f.svc.Create(context.Background(), f.bob.ID, f.post.ID, "nice")
	require.NoError(t, err)

	_, err = f.svc.Update(context.Background(), f.alice.ID, c.ID, "edited")
	assert.ErrorIs(t, err, common.ErrorForbidden)

	got, err := f.svc.Update(context.Background(), f.bob.ID, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
}

func TestCommentDelete_DecrementsCountInTx(t *testing.T) {
	f := newCommentFixture(t)
	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	c, err := f.svc.Create(context.Background(), f.bob.ID, f.post.ID, "nice")
	require.NoError(t, err)

	f.mock.ExpectBegin()
	f.mock.ExpectRollback()
	_, err = f.svc.Delete(context.Background(), f.alice.ID, c.ID)
	assert.ErrorIs(t, err, common.ErrorForbidden)
	assert.Equal(t, int64(1), f.store.Posts[f.post.ID].CommentCount)

	f.mock.ExpectBegin()
	f.mock.ExpectCommit()
	_, err = f.svc.Delete(context.Background(), f.bob.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(0), f.store.Posts[f.post.ID].CommentCount)
	assert.Empty(t, f.store.Comments)
	assert.NoError(t, f.mock.ExpectationsWereMet())
}

func TestCommentList(t *testing.T) {
	f := newCommentFixture(t)
	f.store.Comments[50] = &models.Comment{ID: 50, PostID: f.post.ID, Text: "a"}
	f.store.Comments[51] = &models.Comment{ID: 51, PostID: f.post.ID, Text: "b"}

	list, err := f.svc.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].Text)
}
