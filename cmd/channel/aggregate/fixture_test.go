package aggregate

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/history"
	"VidTube.com/pkg/store"
	"VidTube.com/pkg/store/memory"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	t     *testing.T
	ctx   context.Context
	store *memory.Store
	hist  *history.Memory
	reads *countingReader
	eng   *Engine
	base  time.Time
	seq   int
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	f := &fixture{
		t:     t,
		ctx:   context.Background(),
		store: memory.New(),
		hist:  history.NewMemory(100),
		base:  time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	f.reads = &countingReader{Reader: f.store}
	f.eng = NewEngine(f.reads, append([]Option{WithHistory(f.hist)}, opts...)...)
	return f
}

// id returns ids that sort in creation order.
func (f *fixture) id() string {
	f.seq++
	return fmt.Sprintf("00000000-0000-4000-8000-%012d", f.seq)
}

func (f *fixture) at(minutes int) time.Time {
	return f.base.Add(time.Duration(minutes) * time.Minute)
}

func (f *fixture) insert(rec model.Record) {
	require.NoError(f.t, f.store.Insert(f.ctx, rec))
}

func (f *fixture) user(name string) *model.User {
	u := &model.User{
		ID:           f.id(),
		Username:     name,
		FullName:     name + " full",
		Email:        name + "@example.com",
		PasswordHash: "secret-hash",
		RefreshToken: "secret-token",
	}
	f.insert(u)
	return u
}

func (f *fixture) video(owner string, published bool, createdMinute int) *model.Video {
	v := &model.Video{
		ID:           f.id(),
		OwnerID:      owner,
		Title:        fmt.Sprintf("video %d", f.seq),
		ThumbnailURL: fmt.Sprintf("thumb-%d", f.seq),
		IsPublished:  published,
		CreatedAt:    f.at(createdMinute),
		UpdatedAt:    f.at(createdMinute),
	}
	f.insert(v)
	return v
}

func (f *fixture) like(actor, kind, target string, minute int) *model.Like {
	l := &model.Like{ID: f.id(), LikedBy: actor, TargetKind: kind, TargetID: target, CreatedAt: f.at(minute)}
	f.insert(l)
	return l
}

func (f *fixture) subscribe(subscriber, channel string, minute int) *model.Subscription {
	s := &model.Subscription{ID: f.id(), SubscriberID: subscriber, ChannelID: channel, CreatedAt: f.at(minute)}
	f.insert(s)
	return s
}

func (f *fixture) comment(video, author string, minute int) *model.Comment {
	c := &model.Comment{ID: f.id(), VideoID: video, OwnerID: author, Content: "nice", CreatedAt: f.at(minute)}
	f.insert(c)
	return c
}

func (f *fixture) tweet(owner string, minute int) *model.Tweet {
	t := &model.Tweet{ID: f.id(), OwnerID: owner, Content: "hello", CreatedAt: f.at(minute)}
	f.insert(t)
	return t
}

func (f *fixture) playlist(owner string, minute int, videos ...string) *model.Playlist {
	p := &model.Playlist{ID: f.id(), OwnerID: owner, Name: fmt.Sprintf("list %d", f.seq), CreatedAt: f.at(minute)}
	f.insert(p)
	for i, v := range videos {
		f.insert(&model.PlaylistVideo{ID: f.id(), PlaylistID: p.ID, VideoID: v, Position: int64(i), CreatedAt: f.at(minute + i)})
	}
	return p
}

// remove deletes a record without any sweep, leaving its edges dangling.
func (f *fixture) remove(c model.Collection, id string) {
	_, err := f.store.DeleteWhere(f.ctx, c, store.Where(store.Eq("id", id)))
	require.NoError(f.t, err)
}

func (f *fixture) query(q Query) *Page {
	f.t.Helper()
	page, err := f.eng.Query(f.ctx, q)
	require.NoError(f.t, err)
	return page
}

// countingReader records every primitive call made through it and can be told
// to fail scans of one collection.
type countingReader struct {
	store.Reader

	mu     sync.Mutex
	scans  map[model.Collection]int
	preds  map[model.Collection][]store.Predicate
	gets   int
	counts int

	failOn model.Collection
	err    error
}

func (c *countingReader) Scan(ctx context.Context, coll model.Collection, p store.Predicate) ([]model.Record, error) {
	c.mu.Lock()
	if c.scans == nil {
		c.scans = map[model.Collection]int{}
		c.preds = map[model.Collection][]store.Predicate{}
	}
	c.scans[coll]++
	c.preds[coll] = append(c.preds[coll], p)
	fail := c.err != nil && coll == c.failOn
	c.mu.Unlock()
	if fail {
		return nil, c.err
	}
	return c.Reader.Scan(ctx, coll, p)
}

func (c *countingReader) GetByID(ctx context.Context, coll model.Collection, id string) (model.Record, bool, error) {
	c.mu.Lock()
	c.gets++
	c.mu.Unlock()
	return c.Reader.GetByID(ctx, coll, id)
}

func (c *countingReader) CountWhere(ctx context.Context, coll model.Collection, p store.Predicate) (int64, error) {
	c.mu.Lock()
	c.counts++
	c.mu.Unlock()
	return c.Reader.CountWhere(ctx, coll, p)
}

func (c *countingReader) total() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := c.gets + c.counts
	for _, s := range c.scans {
		n += s
	}
	return n
}

func (c *countingReader) scansOf(coll model.Collection) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.scans[coll]
}

func (c *countingReader) reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.scans, c.preds, c.gets, c.counts = nil, nil, 0, 0
}

func videoIDs(items []any) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.(*VideoView).ID
	}
	return out
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }
