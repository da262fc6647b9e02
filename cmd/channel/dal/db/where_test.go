package db

import (
	"testing"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

func TestBuildWhere(t *testing.T) {
	exprs, err := buildWhere(model.CollectionVideos, store.Where(
		store.Eq("is_published", true),
		store.In("id", []string{"a", "b"}),
		store.Match("50%_off", "title", "description"),
	))
	require.NoError(t, err)
	require.Len(t, exprs, 3)

	assert.Equal(t, clause.Eq{Column: clause.Column{Name: "is_published"}, Value: true}, exprs[0])
	assert.Equal(t, clause.IN{Column: clause.Column{Name: "id"}, Values: []interface{}{"a", "b"}}, exprs[1])
	assert.Equal(t, clause.Or(
		clause.Like{Column: clause.Column{Name: "title"}, Value: `%50\%\_off%`},
		clause.Like{Column: clause.Column{Name: "description"}, Value: `%50\%\_off%`},
	), exprs[2])
}

func TestBuildWhereRejectsUnknownColumns(t *testing.T) {
	_, err := buildWhere(model.CollectionUsers, store.Where(store.Eq("password_hash", "x")))
	assert.Error(t, err)

	_, err = buildWhere(model.CollectionVideos, store.Where(store.Match("q", "title; DROP TABLE videos")))
	assert.Error(t, err)

	_, err = buildWhere(model.Collection("nope"), nil)
	assert.ErrorIs(t, err, store.ErrUnknownCollection)
}

func TestApplyWhereRendersSQL(t *testing.T) {
	db, err := gorm.Open(mysql.New(mysql.Config{
		DSN:                       "vidtube:vidtube@tcp(127.0.0.1:3306)/vidtube",
		SkipInitializeWithVersion: true,
	}), &gorm.Config{DryRun: true, DisableAutomaticPing: true})
	require.NoError(t, err)

	tx, err := applyWhere(db.Table("videos"), model.CollectionVideos, store.Where(
		store.Eq("owner_id", "u1"),
		store.Match("go", "title", "description"),
	))
	require.NoError(t, err)

	var rows []*model.Video
	sql := tx.Find(&rows).Statement.SQL.String()
	assert.Contains(t, sql, "`owner_id` = ?")
	assert.Contains(t, sql, "(`title` LIKE ? OR `description` LIKE ?)")
}
