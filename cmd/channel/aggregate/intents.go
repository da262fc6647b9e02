package aggregate

import (
	"context"
	"strings"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/store"
	"golang.org/x/sync/errgroup"
)

type intentDef struct {
	root  rootKind
	depth int
	build func(e *Engine, p *pipeline, q Query) error
}

var intents = map[Intent]intentDef{
	IntentFeed:                 {rootVideos, 1, buildFeed},
	IntentChannelStats:         {rootVideos, 0, buildChannelStats},
	IntentChannelVideos:        {rootVideos, 1, buildChannelVideos},
	IntentVideoDetail:          {rootVideos, 2, buildVideoDetail},
	IntentCommentsForVideo:     {rootComments, 1, buildCommentsForVideo},
	IntentPlaylistDetail:       {rootMembers, 1, buildPlaylistDetail},
	IntentUserPlaylists:        {rootPlaylists, 0, buildUserPlaylists},
	IntentSubscribersOfChannel: {rootSubscriptions, 2, buildSubscribersOfChannel},
	IntentChannelsSubscribedBy: {rootSubscriptions, 2, buildChannelsSubscribedBy},
	IntentTweetsOfUser:         {rootTweets, 1, buildTweetsOfUser},
	IntentLikedVideos:          {rootVideos, 1, buildLikedVideos},
	IntentWatchHistory:         {rootHistory, 1, buildWatchHistory},
}

func buildFeed(e *Engine, p *pipeline, q Query) error {
	p.where("published", store.Eq("is_published", true))
	if q.Filters.OwnerID != "" {
		p.where("owner", store.Eq("owner_id", q.Filters.OwnerID))
	}
	if q.Filters.Text != nil {
		e.textFilter(p, strings.TrimSpace(*q.Filters.Text))
	}
	e.load(p, model.CollectionVideos)
	e.joinVideos(p)
	p.sorted()
	return nil
}

// buildChannelStats falls back to the viewer's own channel.
func buildChannelStats(e *Engine, p *pipeline, q Query) error {
	owner, err := subject("ownerId", q.Filters.OwnerID, q.ViewerID)
	if err != nil {
		return err
	}
	p.where("owner", store.Eq("owner_id", owner))
	e.load(p, model.CollectionVideos)
	p.filter("has-videos", func(_ context.Context, st *state) error {
		if len(st.rows) == 0 {
			return errno.NotFoundErr.WithMessage("channel has no videos")
		}
		return nil
	})
	p.join("stats", func(ctx context.Context, st *state) error {
		ids := rowIDs(st.rows)
		var (
			likes, comments   map[string]*Resolution
			inbound, outbound map[string]*Resolution
			tweets, playlists int64
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			likes, err = e.resolver.Resolve(gctx, ids, VideoLikes, Inbound, "")
			return err
		})
		g.Go(func() (err error) {
			comments, err = e.resolver.Resolve(gctx, ids, VideoComments, Inbound, "")
			return err
		})
		g.Go(func() (err error) {
			inbound, err = e.resolver.Resolve(gctx, []string{owner}, Subscriptions, Inbound, "")
			return err
		})
		g.Go(func() (err error) {
			outbound, err = e.resolver.Resolve(gctx, []string{owner}, Subscriptions, Outbound, "")
			return err
		})
		g.Go(func() (err error) {
			tweets, err = e.store.CountWhere(gctx, model.CollectionTweets, store.Where(store.Eq("owner_id", owner)))
			return errno.Upstream(err)
		})
		g.Go(func() (err error) {
			playlists, err = e.store.CountWhere(gctx, model.CollectionPlaylists, store.Where(store.Eq("owner_id", owner)))
			return errno.Upstream(err)
		})
		if err := g.Wait(); err != nil {
			return err
		}
		stats := &ChannelStatsView{
			OwnerID:                   owner,
			TotalVideos:               int64(len(st.rows)),
			TotalSubscribers:          inbound[owner].Count,
			TotalChannelsSubscribedTo: outbound[owner].Count,
			TotalTweets:               tweets,
			TotalPlaylists:            playlists,
		}
		for _, r := range st.rows {
			stats.TotalViews += r.rec.(*model.Video).Views
			stats.TotalLikes += likes[r.id()].Count
			stats.TotalComments += comments[r.id()].Count
		}
		st.items = []any{stats}
		return nil
	})
	return nil
}

// buildChannelVideos hides unpublished videos from everyone but the owner,
// who can ask for published ones only.
func buildChannelVideos(e *Engine, p *pipeline, q Query) error {
	owner, err := subject("ownerId", q.Filters.OwnerID)
	if err != nil {
		return err
	}
	e.require(p, "owner-exists", model.CollectionUsers, owner)
	p.where("owner", store.Eq("owner_id", owner))
	publishedOnly := q.Filters.PublishedOnly != nil && *q.Filters.PublishedOnly
	if q.ViewerID != owner || publishedOnly {
		p.where("published", store.Eq("is_published", true))
	}
	e.load(p, model.CollectionVideos)
	e.joinVideos(p)
	p.sorted()
	return nil
}

func buildVideoDetail(e *Engine, p *pipeline, q Query) error {
	id, err := subject("targetId", q.Filters.TargetID)
	if err != nil {
		return err
	}
	p.filter("load-video", func(ctx context.Context, st *state) error {
		rec, ok, err := e.store.GetByID(ctx, model.CollectionVideos, id)
		if err != nil {
			return errno.Upstream(err)
		}
		if !ok {
			return errno.NotFoundErr.WithMessage("video not found")
		}
		v := rec.(*model.Video)
		if !v.IsPublished && v.OwnerID != st.q.ViewerID {
			return errno.NotFoundErr.WithMessage("video not found")
		}
		st.rows = []*row{{rec: v}}
		return nil
	})
	e.joinVideos(p)
	return nil
}

func buildCommentsForVideo(e *Engine, p *pipeline, q Query) error {
	id, err := subject("targetId", q.Filters.TargetID)
	if err != nil {
		return err
	}
	e.require(p, "video-exists", model.CollectionVideos, id)
	p.where("video", store.Eq("video_id", id))
	e.load(p, model.CollectionComments)
	depth := p.depth
	p.join("comments", func(ctx context.Context, st *state) error {
		ids := rowIDs(st.rows)
		authors := make([]string, len(st.rows))
		for i, r := range st.rows {
			authors[i] = r.rec.(*model.Comment).OwnerID
		}
		var (
			own   owners
			likes map[string]*Resolution
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			own, err = e.composer.owners(gctx, authors, depth, st.q.ViewerID)
			return err
		})
		g.Go(func() (err error) {
			likes, err = e.resolver.Resolve(gctx, ids, CommentLikes, Inbound, st.q.ViewerID)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		for _, r := range st.rows {
			c := r.rec.(*model.Comment)
			view := projectComment(c)
			view.Owner = own.get(c.OwnerID)
			view.LikesCount = likes[c.ID].Count
			view.IsLiked = likes[c.ID].ViewerHasEdge
			r.view = view
		}
		return nil
	})
	p.sorted()
	return nil
}

// buildPlaylistDetail lists the published member videos that still exist and
// puts the playlist header in the page root.
func buildPlaylistDetail(e *Engine, p *pipeline, q Query) error {
	id, err := subject("targetId", q.Filters.TargetID)
	if err != nil {
		return err
	}
	e.require(p, "playlist-exists", model.CollectionPlaylists, id)
	p.filter("members", func(ctx context.Context, st *state) error {
		members, err := e.store.Scan(ctx, model.CollectionPlaylistVideos, store.Where(store.Eq("playlist_id", id)))
		if err != nil {
			return errno.Upstream(err)
		}
		st.edges = make(map[string]model.Record, len(members))
		ids := make([]string, 0, len(members))
		for _, m := range members {
			vid := m.(*model.PlaylistVideo).VideoID
			st.edges[vid] = m
			ids = append(ids, vid)
		}
		st.restrict(ids)
		return nil
	})
	p.where("published", store.Eq("is_published", true))
	e.load(p, model.CollectionVideos)
	depth := p.depth
	p.join("members", func(ctx context.Context, st *state) error {
		pl := st.root.(*model.Playlist)
		var (
			views []*VideoView
			own   owners
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			views, err = e.composer.videoViews(gctx, rowVideos(st.rows), depth, st.q.ViewerID)
			return err
		})
		g.Go(func() (err error) {
			own, err = e.composer.owners(gctx, []string{pl.OwnerID}, depth, st.q.ViewerID)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		header := projectPlaylist(pl)
		header.Owner = own.get(pl.OwnerID)
		header.TotalVideos = int64(len(st.rows))
		first := int64(-1)
		for i, r := range st.rows {
			r.view = views[i]
			v := r.rec.(*model.Video)
			header.TotalViews += v.Views
			if pos := r.edge.(*model.PlaylistVideo).Position; first < 0 || pos < first {
				first, header.Thumbnail = pos, v.ThumbnailURL
			}
		}
		st.header = header
		return nil
	})
	p.sorted()
	return nil
}

func buildUserPlaylists(e *Engine, p *pipeline, q Query) error {
	owner, err := subject("ownerId", q.Filters.OwnerID)
	if err != nil {
		return err
	}
	e.require(p, "owner-exists", model.CollectionUsers, owner)
	p.where("owner", store.Eq("owner_id", owner))
	e.load(p, model.CollectionPlaylists)
	p.join("playlist-videos", func(ctx context.Context, st *state) error {
		members, err := e.resolver.Resolve(ctx, rowIDs(st.rows), Memberships, Outbound, "")
		if err != nil {
			return err
		}
		var videoIDs []string
		for _, res := range members {
			for _, m := range res.Edges {
				videoIDs = append(videoIDs, m.(*model.PlaylistVideo).VideoID)
			}
		}
		live := map[string]*model.Video{}
		if ids := dedupe(videoIDs); len(ids) > 0 {
			recs, err := e.store.Scan(ctx, model.CollectionVideos,
				store.Where(store.In("id", ids), store.Eq("is_published", true)))
			if err != nil {
				return errno.Upstream(err)
			}
			for _, rec := range recs {
				live[rec.RecordID()] = rec.(*model.Video)
			}
		}
		for _, r := range st.rows {
			view := projectPlaylist(r.rec.(*model.Playlist))
			first := int64(-1)
			for _, m := range members[r.id()].Edges {
				pv := m.(*model.PlaylistVideo)
				v, ok := live[pv.VideoID]
				if !ok {
					continue
				}
				view.TotalVideos++
				view.TotalViews += v.Views
				if first < 0 || pv.Position < first {
					first, view.Thumbnail = pv.Position, v.ThumbnailURL
				}
			}
			r.view = view
		}
		return nil
	})
	p.sorted()
	return nil
}

func buildSubscribersOfChannel(e *Engine, p *pipeline, q Query) error {
	channel, err := subject("channel id", q.Filters.TargetID, q.Filters.OwnerID)
	if err != nil {
		return err
	}
	e.require(p, "channel-exists", model.CollectionUsers, channel)
	p.where("channel", store.Eq("channel_id", channel))
	e.load(p, model.CollectionSubscriptions)
	depth := p.depth
	p.join("subscribers", func(ctx context.Context, st *state) error {
		ids := make([]string, len(st.rows))
		for i, r := range st.rows {
			ids[i] = r.rec.(*model.Subscription).SubscriberID
		}
		own, err := e.composer.owners(ctx, ids, depth, st.q.ViewerID)
		if err != nil {
			return err
		}
		kept := st.rows[:0]
		for _, r := range st.rows {
			sub := r.rec.(*model.Subscription)
			summary := own.get(sub.SubscriberID)
			if summary == nil {
				continue
			}
			r.view = &SubscriberView{
				Subscriber:     summary,
				SubscribedBack: hasEdgeFrom(own.subs[sub.SubscriberID], "subscriber_id", channel),
				SubscribedAt:   sub.CreatedAt,
			}
			kept = append(kept, r)
		}
		st.rows = kept
		return nil
	})
	p.sorted()
	return nil
}

func buildChannelsSubscribedBy(e *Engine, p *pipeline, q Query) error {
	subscriber, err := subject("subscriber id", q.Filters.TargetID, q.Filters.OwnerID)
	if err != nil {
		return err
	}
	e.require(p, "subscriber-exists", model.CollectionUsers, subscriber)
	p.where("subscriber", store.Eq("subscriber_id", subscriber))
	e.load(p, model.CollectionSubscriptions)
	depth := p.depth
	p.join("channels", func(ctx context.Context, st *state) error {
		ids := make([]string, len(st.rows))
		for i, r := range st.rows {
			ids[i] = r.rec.(*model.Subscription).ChannelID
		}
		var (
			own    owners
			latest map[string]*model.Video
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			own, err = e.composer.owners(gctx, ids, depth, st.q.ViewerID)
			return err
		})
		g.Go(func() (err error) {
			latest, err = e.latestVideos(gctx, ids)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		kept := st.rows[:0]
		for _, r := range st.rows {
			sub := r.rec.(*model.Subscription)
			summary := own.get(sub.ChannelID)
			if summary == nil {
				continue
			}
			view := &ChannelView{Channel: summary, SubscribedAt: sub.CreatedAt}
			if v, ok := latest[sub.ChannelID]; ok {
				view.LatestVideo = projectLatest(v)
			}
			r.view = view
			kept = append(kept, r)
		}
		st.rows = kept
		return nil
	})
	p.sorted()
	return nil
}

func buildTweetsOfUser(e *Engine, p *pipeline, q Query) error {
	owner, err := subject("ownerId", q.Filters.OwnerID)
	if err != nil {
		return err
	}
	e.require(p, "owner-exists", model.CollectionUsers, owner)
	p.where("owner", store.Eq("owner_id", owner))
	e.load(p, model.CollectionTweets)
	depth := p.depth
	p.join("tweets", func(ctx context.Context, st *state) error {
		var (
			own   owners
			likes map[string]*Resolution
		)
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() (err error) {
			own, err = e.composer.owners(gctx, []string{owner}, depth, st.q.ViewerID)
			return err
		})
		g.Go(func() (err error) {
			likes, err = e.resolver.Resolve(gctx, rowIDs(st.rows), TweetLikes, Inbound, st.q.ViewerID)
			return err
		})
		if err := g.Wait(); err != nil {
			return err
		}
		for _, r := range st.rows {
			t := r.rec.(*model.Tweet)
			view := projectTweet(t)
			view.Owner = own.get(t.OwnerID)
			view.LikesCount = likes[t.ID].Count
			view.IsLiked = likes[t.ID].ViewerHasEdge
			r.view = view
		}
		return nil
	})
	p.sorted()
	return nil
}

// buildLikedVideos sorts createdAt by the time of the like.
func buildLikedVideos(e *Engine, p *pipeline, q Query) error {
	if q.anonymous() {
		return errno.InvalidQueryErr.WithMessage("liked videos require a viewer")
	}
	p.filter("liked-by", func(ctx context.Context, st *state) error {
		likes, err := e.store.Scan(ctx, model.CollectionLikes, VideoLikes.Scope.And(store.Eq("liked_by", st.q.ViewerID)))
		if err != nil {
			return errno.Upstream(err)
		}
		st.edges = make(map[string]model.Record, len(likes))
		ids := make([]string, 0, len(likes))
		for _, l := range likes {
			target := l.(*model.Like).TargetID
			st.edges[target] = l
			ids = append(ids, target)
		}
		st.restrict(ids)
		return nil
	})
	p.where("published", store.Eq("is_published", true))
	e.load(p, model.CollectionVideos)
	e.joinVideos(p)
	p.sorted()
	return nil
}

// buildWatchHistory exposes the recency rank as "position", 0 being the most
// recently watched.
func buildWatchHistory(e *Engine, p *pipeline, q Query) error {
	if q.anonymous() {
		return errno.InvalidQueryErr.WithMessage("watch history requires a viewer")
	}
	p.filter("history", func(ctx context.Context, st *state) error {
		var ids []string
		if e.history != nil {
			var err error
			if ids, err = e.history.List(ctx, st.q.ViewerID); err != nil {
				return errno.Upstream(err)
			}
		}
		st.positions = make(map[string]int64, len(ids))
		for i, id := range ids {
			st.positions[id] = int64(i)
		}
		st.restrict(ids)
		return nil
	})
	e.load(p, model.CollectionVideos)
	p.filter("visible", func(_ context.Context, st *state) error {
		kept := st.rows[:0]
		for _, r := range st.rows {
			if v := r.rec.(*model.Video); v.IsPublished || v.OwnerID == st.q.ViewerID {
				kept = append(kept, r)
			}
		}
		st.rows = kept
		return nil
	})
	e.joinVideos(p)
	p.sorted()
	return nil
}

// textFilter narrows the feed by text, through the search index when one is
// configured and the store's substring match otherwise.
func (e *Engine) textFilter(p *pipeline, text string) {
	if e.index == nil {
		p.where("text", store.Match(text, "title", "description"))
		return
	}
	p.filter("text", func(ctx context.Context, st *state) error {
		ids, err := e.index.Search(ctx, text)
		if err != nil {
			return errno.Upstream(err)
		}
		st.restrict(ids)
		return nil
	})
}

// require fails the query with NotFound when the record behind a mandatory
// filter is missing. The record becomes the state root.
func (e *Engine) require(p *pipeline, name string, c model.Collection, id string) {
	p.filter(name, func(ctx context.Context, st *state) error {
		rec, ok, err := e.store.GetByID(ctx, c, id)
		if err != nil {
			return errno.Upstream(err)
		}
		if !ok {
			return errno.NotFoundErr.WithMessage(string(c) + " not found: " + id)
		}
		st.root = rec
		return nil
	})
}

// load runs the accumulated root predicate as one scan.
func (e *Engine) load(p *pipeline, c model.Collection) {
	p.filter("load-"+string(c), func(ctx context.Context, st *state) error {
		pred := st.pred
		if st.idsSet {
			if len(st.ids) == 0 {
				st.rows = nil
				return nil
			}
			pred = pred.And(store.In("id", st.ids))
		}
		recs, err := e.store.Scan(ctx, c, pred)
		if err != nil {
			return errno.Upstream(err)
		}
		st.rows = make([]*row, 0, len(recs))
		for _, rec := range recs {
			r := &row{rec: rec}
			if st.edges != nil {
				r.edge = st.edges[rec.RecordID()]
			}
			if pos, ok := st.positions[rec.RecordID()]; ok {
				r.extra = map[string]any{"position": pos}
			}
			st.rows = append(st.rows, r)
		}
		return nil
	})
}

func (e *Engine) joinVideos(p *pipeline) {
	depth := p.depth
	p.join("videos", func(ctx context.Context, st *state) error {
		views, err := e.composer.videoViews(ctx, rowVideos(st.rows), depth, st.q.ViewerID)
		if err != nil {
			return err
		}
		for i, r := range st.rows {
			r.view = views[i]
		}
		return nil
	})
}

// latestVideos returns the newest published video of each channel, with one
// scan over the channels' videos.
func (e *Engine) latestVideos(ctx context.Context, channelIDs []string) (map[string]*model.Video, error) {
	ids := dedupe(channelIDs)
	out := make(map[string]*model.Video, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	recs, err := e.store.Scan(ctx, model.CollectionVideos,
		store.Where(store.In("owner_id", ids), store.Eq("is_published", true)))
	if err != nil {
		return nil, errno.Upstream(err)
	}
	for _, rec := range recs {
		v := rec.(*model.Video)
		cur, ok := out[v.OwnerID]
		if !ok || v.CreatedAt.After(cur.CreatedAt) || (v.CreatedAt.Equal(cur.CreatedAt) && v.ID < cur.ID) {
			out[v.OwnerID] = v
		}
	}
	return out, nil
}

func hasEdgeFrom(res *Resolution, column, id string) bool {
	if res == nil {
		return false
	}
	for _, e := range res.Edges {
		if v, _ := stringField(e, column); v == id {
			return true
		}
	}
	return false
}

func rowIDs(rows []*row) []string {
	ids := make([]string, len(rows))
	for i, r := range rows {
		ids[i] = r.id()
	}
	return ids
}

func rowVideos(rows []*row) []*model.Video {
	out := make([]*model.Video, len(rows))
	for i, r := range rows {
		out[i] = r.rec.(*model.Video)
	}
	return out
}
