package comments

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/postboard/internal/common"
	"github.com/dmitrijs2005/postboard/internal/server/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRepoWithMock(t *testing.T) (*PostgresRepository, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewPostgresRepository(db), mock
}

var commentCols = []string{"id", "user_id", "post_id", "text", "created_at"}

const (
	qInsert = `(?s)^INSERT\s+INTO\s+comments\s*\(user_id,\s*post_id,\s*text\)\s*VALUES\s*\(\$1,\s*\$2,\s*\$3\)\s*RETURNING\s+id,\s*created_at\s*$`
	qList   = `(?s)^SELECT\s+id,\s*user_id,\s*post_id,\s*text,\s*created_at\s+FROM\s+comments\s+ORDER\s+BY\s+created_at\s+DESC,\s*id\s+DESC$`
	qByID   = `(?s)^SELECT\s+id,.*FROM\s+comments\s+WHERE\s+id\s*=\s*\$1$`
	qUpdate = `(?s)^UPDATE\s+comments\s+SET\s+text\s*=\s*\$2\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`
	qDelete = `(?s)^DELETE\s+FROM\s+comments\s+WHERE\s+id\s*=\s*\$1\s+RETURNING`
)

func TestCreate_Success(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qInsert).
		WithArgs(int64(1), int64(2), "nice").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), time.Now()))

	got, err := repo.Create(context.Background(), &models.Comment{UserID: 1, PostID: 2, Text: "nice"})
	require.NoError(t, err)
	assert.Equal(t, int64(7), got.ID)
	assert.Equal(t, int64(2), got.PostID)
}

func TestCreate_DBError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qInsert).WillReturnError(errors.New("boom"))

	_, err := repo.Create(context.Background(), &models.Comment{UserID: 1, PostID: 2, Text: "nice"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "db error")
}

func TestList(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qList).WillReturnRows(sqlmock.NewRows(commentCols).
		AddRow(int64(2), int64(1), int64(1), "second", time.Now()).
		AddRow(int64(1), int64(1), int64(1), "first", time.Now().Add(-time.Minute)))

	got, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "second", got[0].Text)
}

func TestList_ScanError(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qList).WillReturnRows(sqlmock.NewRows(commentCols).
		AddRow("not-a-number", int64(1), int64(1), "x", time.Now()))

	_, err := repo.List(context.Background())
	require.Error(t, err)
}

func TestGetByID_NotFound(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qByID).WithArgs(int64(3)).WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByID(context.Background(), 3)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestUpdateText(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qUpdate).WithArgs(int64(3), "edited").
		WillReturnRows(sqlmock.NewRows(commentCols).AddRow(int64(3), int64(1), int64(2), "edited", time.Now()))

	got, err := repo.UpdateText(context.Background(), 3, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Text)
}

func TestDelete_ReturnsRow(t *testing.T) {
	repo, mock := newRepoWithMock(t)

	mock.ExpectQuery(qDelete).WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows(commentCols).AddRow(int64(3), int64(1), int64(2), "bye", time.Now()))

	got, err := repo.Delete(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, int64(2), got.PostID)
	assert.NoError(t, mock.ExpectationsWereMet())
}
