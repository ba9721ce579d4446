package repotest

import (
	"context"
	"testing"

	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/dmitrijs2005/postboard/internal/server/repositories/repomanager"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var _ repomanager.RepositoryManager = (*Manager)(nil)

func TestManager_UniqueEmail(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	_, err := m.Users(nil).Create(ctx, &models.User{Email: "a@x.com"})
	require.NoError(t, err)
	_, err = m.Users(nil).Create(ctx, &models.User{Email: "a@x.com"})
	assert.ErrorIs(t, err, common.ErrorAlreadyExists)
}

func TestManager_DeleteUserCascades(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	a, err := m.Users(nil).Create(ctx, &models.User{Email: "a@x.com"})
	require.NoError(t, err)
	b, err := m.Users(nil).Create(ctx, &models.User{Email: "b@x.com"})
	require.NoError(t, err)
	pa, err := m.Posts(nil).Create(ctx, &models.Post{UserID: a.ID, Title: "a"})
	require.NoError(t, err)
	pb, err := m.Posts(nil).Create(ctx, &models.Post{UserID: b.ID, Title: "b"})
	require.NoError(t, err)
	_, err = m.Comments(nil).Create(ctx, &models.Comment{UserID: b.ID, PostID: pa.ID})
	require.NoError(t, err)
	kept, err := m.Comments(nil).Create(ctx, &models.Comment{UserID: b.ID, PostID: pb.ID})
	require.NoError(t, err)

	_, err = m.Users(nil).Delete(ctx, a.ID)
	require.NoError(t, err)

	assert.Len(t, m.Store.Posts, 1)
	assert.Len(t, m.Store.Comments, 1)
	assert.Contains(t, m.Store.Comments, kept.ID)
}

func TestManager_SearchIsCaseInsensitive(t *testing.T) {
	m := NewManager()
	ctx := context.Background()

	u, err := m.Users(nil).Create(ctx, &models.User{Email: "a@x.com"})
	require.NoError(t, err)
	_, err = m.Posts(nil).Create(ctx, &models.Post{UserID: u.ID, Title: "Hello", Text: "World"})
	require.NoError(t, err)

	got, err := m.Posts(nil).List(ctx, "wORLD")
	require.NoError(t, err)
	assert.Len(t, got, 1)
}
