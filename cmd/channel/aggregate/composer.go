package aggregate

import (
	"context"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/store"
	"golang.org/x/sync/errgroup"
)

// maxOwnerDepth caps owner-summary nesting. Depth 1 is the identity itself,
// depth 2 adds its subscriber count and the viewer's subscription to it.
const maxOwnerDepth = 2

// owners is the result of one batched owner lookup. subs is only populated at
// depth 2 and keeps the subscription edges of each owner.
type owners struct {
	summaries map[string]*OwnerSummary
	subs      map[string]*Resolution
}

// get returns nil for owners that no longer exist.
func (o owners) get(id string) *OwnerSummary {
	if o.summaries == nil {
		return nil
	}
	return o.summaries[id]
}

type composer struct {
	store    store.Reader
	resolver *Resolver
}

// owners loads each distinct owner once. At depth 2 the identity scan and the
// subscription resolve run concurrently.
func (c *composer) owners(ctx context.Context, ids []string, depth int, viewerID string) (owners, error) {
	if depth > maxOwnerDepth {
		depth = maxOwnerDepth
	}
	ids = dedupe(ids)
	if depth < 1 || len(ids) == 0 {
		return owners{}, nil
	}

	var (
		users []model.Record
		subs  map[string]*Resolution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		users, err = c.store.Scan(gctx, model.CollectionUsers, store.Where(store.In("id", ids)))
		return errno.Upstream(err)
	})
	if depth >= 2 {
		g.Go(func() error {
			var err error
			subs, err = c.resolver.Resolve(gctx, ids, Subscriptions, Inbound, viewerID)
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return owners{}, err
	}

	out := owners{summaries: make(map[string]*OwnerSummary, len(users)), subs: subs}
	for _, rec := range users {
		u, ok := rec.(*model.User)
		if !ok {
			continue
		}
		s := projectOwner(u)
		if depth >= 2 {
			res := subs[u.ID]
			count, subscribed := res.Count, res.ViewerHasEdge
			s.SubscribersCount = &count
			s.IsSubscribed = &subscribed
		}
		out.summaries[u.ID] = s
	}
	return out, nil
}

// videoViews composes videos with their owner, like and comment counts and the
// viewer's like. The three lookups run concurrently.
func (c *composer) videoViews(ctx context.Context, videos []*model.Video, depth int, viewerID string) ([]*VideoView, error) {
	ids := make([]string, len(videos))
	ownerIDs := make([]string, len(videos))
	for i, v := range videos {
		ids[i] = v.ID
		ownerIDs[i] = v.OwnerID
	}

	var (
		own      owners
		likes    map[string]*Resolution
		comments map[string]*Resolution
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		own, err = c.owners(gctx, ownerIDs, depth, viewerID)
		return err
	})
	g.Go(func() (err error) {
		likes, err = c.resolver.Resolve(gctx, ids, VideoLikes, Inbound, viewerID)
		return err
	})
	g.Go(func() (err error) {
		comments, err = c.resolver.Resolve(gctx, ids, VideoComments, Inbound, "")
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*VideoView, len(videos))
	for i, v := range videos {
		view := projectVideo(v)
		view.Owner = own.get(v.OwnerID)
		view.LikesCount = likes[v.ID].Count
		view.IsLiked = likes[v.ID].ViewerHasEdge
		view.CommentsCount = comments[v.ID].Count
		out[i] = view
	}
	return out, nil
}
