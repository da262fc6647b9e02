package db

import (
	"context"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/store"
	"github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Store implements store.Store on MySQL. Edge uniqueness relies on the unique
// pair indexes declared on the models.
type Store struct {
	db *gorm.DB
}

var _ store.Store = (*Store)(nil)

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Scan(ctx context.Context, c model.Collection, p store.Predicate) ([]model.Record, error) {
	tx, err := applyWhere(s.db.WithContext(ctx).Table(string(c)), c, p)
	if err != nil {
		return nil, err
	}
	recs, err := findAll(tx.Order("id"), c)
	if err != nil {
		return nil, errors.WithMessagef(err, "Failed to scan %s", c)
	}
	return recs, nil
}

func findAll(tx *gorm.DB, c model.Collection) ([]model.Record, error) {
	switch c {
	case model.CollectionVideos:
		return find[*model.Video](tx)
	case model.CollectionLikes:
		return find[*model.Like](tx)
	case model.CollectionSubscriptions:
		return find[*model.Subscription](tx)
	case model.CollectionComments:
		return find[*model.Comment](tx)
	case model.CollectionTweets:
		return find[*model.Tweet](tx)
	case model.CollectionPlaylists:
		return find[*model.Playlist](tx)
	case model.CollectionPlaylistVideos:
		return find[*model.PlaylistVideo](tx)
	case model.CollectionUsers:
		return find[*model.User](tx)
	}
	return nil, store.ErrUnknownCollection
}

func find[T model.Record](tx *gorm.DB) ([]model.Record, error) {
	var rows []T
	if err := tx.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]model.Record, len(rows))
	for i, r := range rows {
		out[i] = r
	}
	return out, nil
}

func (s *Store) GetByID(ctx context.Context, c model.Collection, id string) (model.Record, bool, error) {
	rec := model.New(c)
	if rec == nil {
		return nil, false, store.ErrUnknownCollection
	}
	err := s.db.WithContext(ctx).Where("id = ?", id).Take(rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, errors.WithMessagef(err, "Failed to get %s %s", c, id)
	}
	return rec, true, nil
}

func (s *Store) CountWhere(ctx context.Context, c model.Collection, p store.Predicate) (int64, error) {
	tx, err := applyWhere(s.db.WithContext(ctx).Model(model.New(c)), c, p)
	if err != nil {
		return 0, err
	}
	var count int64
	if err := tx.Count(&count).Error; err != nil {
		return 0, errors.WithMessagef(err, "Failed to count %s", c)
	}
	return count, nil
}

func (s *Store) Insert(ctx context.Context, rec model.Record) error {
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return errors.WithMessagef(err, "Failed to insert into %s", rec.Collection())
	}
	return nil
}

func (s *Store) InsertIfAbsent(ctx context.Context, e model.Edge) (bool, error) {
	res := s.db.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(e)
	if res.Error != nil {
		return false, errors.WithMessagef(res.Error, "Failed to insert into %s", e.Collection())
	}
	return res.RowsAffected > 0, nil
}

// ToggleEdge deletes the pair inside a transaction and inserts only when
// nothing was deleted. A concurrent toggle that inserts the same pair first
// makes our insert a no-op through the unique index, so at most one edge
// survives and the caller is told the edge exists.
func (s *Store) ToggleEdge(ctx context.Context, e model.Edge) (bool, error) {
	c := e.Collection()
	exists := false
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		del, err := applyWhere(tx, c, store.PairPredicate(e))
		if err != nil {
			return err
		}
		res := del.Delete(model.New(c))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return nil
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(e).Error; err != nil {
			return err
		}
		exists = true
		return nil
	})
	if err != nil {
		return false, errors.WithMessagef(err, "Failed to toggle %s", c)
	}
	return exists, nil
}

func (s *Store) Update(ctx context.Context, c model.Collection, id string, fields map[string]any) error {
	if err := s.db.WithContext(ctx).Model(model.New(c)).Where("id = ?", id).Updates(fields).Error; err != nil {
		return errors.WithMessagef(err, "Failed to update %s %s", c, id)
	}
	return nil
}

func (s *Store) Increment(ctx context.Context, c model.Collection, id, field string, delta int64) error {
	probe := model.New(c)
	if probe == nil {
		return store.ErrUnknownCollection
	}
	if _, ok := probe.Field(field); !ok {
		return errors.Errorf("unknown column %s.%s", c, field)
	}
	err := s.db.WithContext(ctx).Model(probe).Where("id = ?", id).
		UpdateColumn(field, gorm.Expr(field+" + ?", delta)).Error
	if err != nil {
		return errors.WithMessagef(err, "Failed to increment %s.%s", c, field)
	}
	return nil
}

func (s *Store) DeleteWhere(ctx context.Context, c model.Collection, p store.Predicate) (int64, error) {
	tx, err := applyWhere(s.db.WithContext(ctx), c, p)
	if err != nil {
		return 0, err
	}
	res := tx.Delete(model.New(c))
	if res.Error != nil {
		return 0, errors.WithMessagef(res.Error, "Failed to delete from %s", c)
	}
	return res.RowsAffected, nil
}
