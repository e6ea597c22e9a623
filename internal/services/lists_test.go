package services

import (
	"context"
	"regexp"
	"testing"

	"games_catalog/internal/models"
	"games_catalog/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mysqlDuplicate = mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

var listCols = []string{"id_game", "id_user", "list_type", "rated"}

func TestListService_SaveInsertsThenUpdates(t *testing.T) {
	ctx := context.Background()
	s, mock := setupMockDB(t)
	service := NewListService(s, discardLogger())

	selectEntry := regexp.QuoteMeta("SELECT * FROM `list` WHERE id_game = ? AND id_user = ? LIMIT ?")

	mock.ExpectBegin()
	mock.ExpectQuery(selectEntry).
		WithArgs(1, 11, 1).
		WillReturnRows(sqlmock.NewRows(listCols))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `list` (`id_game`,`id_user`,`list_type`,`rated`) VALUES (?,?,?,?)")).
		WithArgs(1, 11, "planned", nil).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectBegin()
	mock.ExpectQuery(selectEntry).
		WithArgs(1, 11, 1).
		WillReturnRows(sqlmock.NewRows(listCols).AddRow(1, 11, "planned", nil))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `list` SET `list_type`=?,`rated`=? WHERE id_game = ? AND id_user = ?")).
		WithArgs("completed", 9, 1, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	mock.ExpectQuery(selectEntry).
		WithArgs(1, 11, 1).
		WillReturnRows(sqlmock.NewRows(listCols).AddRow(1, 11, "completed", 9))

	require.NoError(t, service.Save(ctx, &models.ListEntry{GameID: 1, UserID: 11, ListType: models.ListPlanned}))
	require.NoError(t, service.Save(ctx, &models.ListEntry{GameID: 1, UserID: 11, ListType: models.ListCompleted, Rated: ptr(9)}))

	e, err := service.Get(ctx, 1, 11)
	require.NoError(t, err)
	assert.Equal(t, models.ListCompleted, e.ListType)
	require.NotNil(t, e.Rated)
	assert.Equal(t, 9, *e.Rated)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListService_SaveRace(t *testing.T) {
	s, mock := setupMockDB(t)
	service := NewListService(s, discardLogger())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `list`")).
		WillReturnRows(sqlmock.NewRows(listCols))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `list`")).
		WillReturnError(&mysqlDuplicate)
	mock.ExpectRollback()

	err := service.Save(context.Background(), &models.ListEntry{GameID: 1, UserID: 11, ListType: models.ListPlaying})

	assert.ErrorIs(t, err, storage.ErrConstraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListService_Entries(t *testing.T) {
	s, mock := setupMockDB(t)
	service := NewListService(s, discardLogger())

	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM `list` JOIN users ON list.id_user = users.id_user JOIN game ON list.id_game = game.id_game " +
			"WHERE list.id_user = ? ORDER BY game.game_name",
	)).
		WithArgs(11).
		WillReturnRows(sqlmock.NewRows([]string{"id_game", "id_user", "list_type", "rated", "game_name", "username"}).
			AddRow(2, 11, "playing", nil, "Doom", "alice").
			AddRow(1, 11, "completed", 8, "Quake", "alice"))

	rows, err := service.Entries(context.Background(), AssocFilter{UserID: ptr(int64(11))})

	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, models.ListPlaying, rows[0].ListType)
	assert.Nil(t, rows[0].Rated)
	assert.Equal(t, "Quake", rows[1].GameName)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListService_GetMissing(t *testing.T) {
	s, mock := setupMockDB(t)
	service := NewListService(s, discardLogger())

	mock.ExpectQuery(regexp.QuoteMeta("SELECT * FROM `list` WHERE id_game = ? AND id_user = ? LIMIT ?")).
		WithArgs(3, 11, 1).
		WillReturnRows(sqlmock.NewRows(listCols))

	_, err := service.Get(context.Background(), 3, 11)

	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListService_Delete(t *testing.T) {
	s, mock := setupMockDB(t)
	service := NewListService(s, discardLogger())

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `list` WHERE id_game = ? AND id_user = ?")).
		WithArgs(1, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, service.Delete(context.Background(), 1, 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCommentService(t *testing.T) {
	ctx := context.Background()
	s, mock := setupMockDB(t)
	service := NewCommentService(s, discardLogger())

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `comment` (`id_game`,`id_user`,`text`) VALUES (?,?,?)")).
		WithArgs(1, 11, "great").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO `comment`")).
		WillReturnError(&mysqlDuplicate)
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `comment` SET `text`=? WHERE id_game = ? AND id_user = ?")).
		WithArgs("still great", 1, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(regexp.QuoteMeta(
		"FROM `comment` JOIN game ON comment.id_game = game.id_game JOIN users ON comment.id_user = users.id_user " +
			"WHERE comment.id_game = ?",
	)).
		WithArgs(1).
		WillReturnRows(sqlmock.NewRows([]string{"id_game", "id_user", "text", "game_name", "username"}).
			AddRow(1, 11, "still great", "Doom", "alice"))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM `comment` WHERE id_game = ? AND id_user = ?")).
		WithArgs(1, 11).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, service.Add(ctx, 1, 11, "great"))
	assert.ErrorIs(t, service.Add(ctx, 1, 11, "again"), storage.ErrConstraint)
	require.NoError(t, service.Update(ctx, 1, 11, "still great"))

	rows, err := service.Comments(ctx, AssocFilter{GameID: ptr(int64(1))})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "alice", rows[0].Username)

	require.NoError(t, service.Delete(ctx, 1, 11))
	assert.NoError(t, mock.ExpectationsWereMet())
}
