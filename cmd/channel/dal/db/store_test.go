package db

import (
	"context"
	"errors"
	"testing"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/store"
	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	conn, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	gdb, err := gorm.Open(mysql.New(mysql.Config{
		Conn:                      conn,
		SkipInitializeWithVersion: true,
	}), &gorm.Config{SkipDefaultTransaction: true, DisableAutomaticPing: true})
	require.NoError(t, err)
	return NewStore(gdb), mock
}

func like() *model.Like {
	return &model.Like{ID: "l1", LikedBy: "u1", TargetKind: model.TargetVideo, TargetID: "v1"}
}

func TestScanReturnsTypedRecords(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `videos` WHERE `owner_id` = \\? ORDER BY id").
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"id", "owner_id", "title", "views", "is_published"}).
			AddRow("v1", "u1", "Go tour", int64(3), true).
			AddRow("v2", "u1", "Draft", int64(0), false))

	recs, err := s.Scan(context.Background(), model.CollectionVideos, store.Where(store.Eq("owner_id", "u1")))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	v := recs[0].(*model.Video)
	assert.Equal(t, "Go tour", v.Title)
	assert.Equal(t, int64(3), v.Views)
	assert.True(t, v.IsPublished)
	assert.False(t, recs[1].(*model.Video).IsPublished)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestScanRejectsUnknownColumn(t *testing.T) {
	s, mock := newMockStore(t)
	_, err := s.Scan(context.Background(), model.CollectionUsers, store.Where(store.Eq("password_hash", "x")))
	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetByIDMissing(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectQuery("SELECT \\* FROM `videos` WHERE id = \\?").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	rec, ok, err := s.GetByID(context.Background(), model.CollectionVideos, "v404")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Nil(t, rec)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleEdgeInsertsWhenAbsent(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `likes` WHERE .*`liked_by` = \\?").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `likes` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	active, err := s.ToggleEdge(context.Background(), like())
	require.NoError(t, err)
	assert.True(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleEdgeDeletesWhenPresent(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `likes` WHERE").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	active, err := s.ToggleEdge(context.Background(), like())
	require.NoError(t, err)
	assert.False(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A racing toggle that inserted the pair first turns our insert into a no-op;
// the edge still exists afterwards.
func TestToggleEdgeLosingRaceStillReportsActive(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `likes` WHERE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO `likes` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	active, err := s.ToggleEdge(context.Background(), like())
	require.NoError(t, err)
	assert.True(t, active)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleEdgeRollsBack(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectBegin()
	mock.ExpectExec("DELETE FROM `likes` WHERE").WillReturnError(errors.New("deadlock"))
	mock.ExpectRollback()

	_, err := s.ToggleEdge(context.Background(), like())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Failed to toggle likes")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertIfAbsent(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("INSERT INTO `likes` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO `likes` .*ON DUPLICATE KEY UPDATE").
		WillReturnResult(sqlmock.NewResult(0, 0))

	created, err := s.InsertIfAbsent(context.Background(), like())
	require.NoError(t, err)
	assert.True(t, created)
	created, err = s.InsertIfAbsent(context.Background(), like())
	require.NoError(t, err)
	assert.False(t, created)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIncrement(t *testing.T) {
	s, mock := newMockStore(t)
	mock.ExpectExec("UPDATE `videos` SET `views`=views \\+ \\? WHERE id = \\?").
		WithArgs(int64(1), "v1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, s.Increment(context.Background(), model.CollectionVideos, "v1", "views", 1))
	assert.Error(t, s.Increment(context.Background(), model.CollectionVideos, "v1", "views = 0, title", 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}
