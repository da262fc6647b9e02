// Package service implements the channel mutations: edge toggles, ownership
// checked deletes with their sweeps, playlist membership and view recording.
package service

import (
	"context"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/history"
	"VidTube.com/pkg/lock"
	"VidTube.com/pkg/mq"
	"VidTube.com/pkg/store"
	"VidTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// SearchIndex drops deleted videos from text search.
type SearchIndex interface {
	Remove(ctx context.Context, videoID string) error
}

type Deps struct {
	Store    store.Store
	History  history.Log
	Locker   lock.Locker
	Producer mq.MessageProducer
	// Index is optional.
	Index SearchIndex
}

type ChannelService struct {
	store    store.Store
	history  history.Log
	locker   lock.Locker
	producer mq.MessageProducer
	index    SearchIndex
}

func NewChannelService(d Deps) *ChannelService {
	s := &ChannelService{
		store:    d.Store,
		history:  d.History,
		locker:   d.Locker,
		producer: d.Producer,
		index:    d.Index,
	}
	if s.locker == nil {
		s.locker = lock.NewLocal()
	}
	if s.producer == nil {
		s.producer = &mq.Inline{}
	}
	if s.history == nil {
		s.history = history.NewMemory(0)
	}
	return s
}

func videoLockKey(id string) string    { return "video:" + id }
func playlistLockKey(id string) string { return "playlist:" + id }

// withLocks holds keys, in order, for the duration of fn.
func (s *ChannelService) withLocks(ctx context.Context, fn func() error, keys ...string) error {
	for _, key := range keys {
		unlock, err := s.locker.Lock(ctx, key)
		if err != nil {
			return errno.Upstream(err)
		}
		defer unlock()
	}
	return fn()
}

func requireActor(actorID string) error {
	if actorID == "" {
		return errno.InvalidQueryErr.WithMessage("an authenticated user is required")
	}
	if !utils.ValidID(actorID) {
		return errno.InvalidReferenceErr.WithMessage("malformed user id: " + actorID)
	}
	return nil
}

func requireID(name, id string) error {
	if id == "" {
		return errno.InvalidQueryErr.WithMessage(name + " is required")
	}
	if !utils.ValidID(id) {
		return errno.InvalidReferenceErr.WithMessage("malformed " + name + ": " + id)
	}
	return nil
}

// load fetches a record by id, NotFound when absent.
func (s *ChannelService) load(ctx context.Context, c model.Collection, id string) (model.Record, error) {
	rec, ok, err := s.store.GetByID(ctx, c, id)
	if err != nil {
		return nil, errno.Upstream(err)
	}
	if !ok {
		return nil, errno.NotFoundErr.WithMessage(string(c) + " not found: " + id)
	}
	return rec, nil
}

// owned loads a record and checks that actorID owns it.
func (s *ChannelService) owned(ctx context.Context, c model.Collection, id, actorID string) (model.Record, error) {
	rec, err := s.load(ctx, c, id)
	if err != nil {
		return nil, err
	}
	if owner, _ := rec.Field("owner_id"); owner != actorID {
		hlog.CtxInfof(ctx, "user %s is not the owner of %s %s", actorID, c, id)
		return nil, errno.ForbiddenErr
	}
	return rec, nil
}

func (s *ChannelService) sweep(ctx context.Context, c model.Collection, p store.Predicate) (int64, error) {
	n, err := s.store.DeleteWhere(ctx, c, p)
	if err != nil {
		return 0, errno.Upstream(err)
	}
	return n, nil
}
