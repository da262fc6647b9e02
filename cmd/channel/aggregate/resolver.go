package aggregate

import (
	"context"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/store"
)

// Direction selects which end of an edge is keyed by the root id.
type Direction int

const (
	// Inbound counts edges pointing at the root (likes on a video, subscribers
	// of a channel). ViewerHasEdge means viewer -> root.
	Inbound Direction = iota
	// Outbound counts edges leaving the root (channels a user subscribes to,
	// members of a playlist). ViewerHasEdge means root -> viewer.
	Outbound
)

// Policy is how an edge kind treats a far end that has been deleted.
type Policy string

const (
	// PolicySweep edges are bulk-deleted together with their target.
	PolicySweep Policy = "swept-on-delete"
	// PolicyFilter edges are left in place and dropped by listings that join
	// to the far end.
	PolicyFilter Policy = "filtered-at-read"
)

// EdgeKind describes one edge collection: which column holds the source, which
// holds the target, an optional scoping condition and its deletion policy.
// PolicyFilter kinds also name the collections their ends live in, so that
// edges to a deleted far end are not counted.
type EdgeKind struct {
	Name       string
	Collection model.Collection
	Source     string
	Target     string
	Scope      store.Predicate
	Policy     Policy

	SourceCollection model.Collection
	TargetCollection model.Collection
}

var (
	VideoLikes = EdgeKind{
		Name: "video-like", Collection: model.CollectionLikes,
		Source: "liked_by", Target: "target_id",
		Scope:  store.Where(store.Eq("target_kind", model.TargetVideo)),
		Policy: PolicySweep,
	}
	CommentLikes = EdgeKind{
		Name: "comment-like", Collection: model.CollectionLikes,
		Source: "liked_by", Target: "target_id",
		Scope:  store.Where(store.Eq("target_kind", model.TargetComment)),
		Policy: PolicySweep,
	}
	TweetLikes = EdgeKind{
		Name: "tweet-like", Collection: model.CollectionLikes,
		Source: "liked_by", Target: "target_id",
		Scope:  store.Where(store.Eq("target_kind", model.TargetTweet)),
		Policy: PolicySweep,
	}
	VideoComments = EdgeKind{
		Name: "comment", Collection: model.CollectionComments,
		Source: "owner_id", Target: "video_id",
		Policy: PolicySweep,
	}
	Memberships = EdgeKind{
		Name: "membership", Collection: model.CollectionPlaylistVideos,
		Source: "playlist_id", Target: "video_id",
		Policy: PolicySweep,
	}
	Subscriptions = EdgeKind{
		Name: "subscription", Collection: model.CollectionSubscriptions,
		Source: "subscriber_id", Target: "channel_id",
		Policy:           PolicyFilter,
		SourceCollection: model.CollectionUsers,
		TargetCollection: model.CollectionUsers,
	}
)

// WatchHistoryPolicy applies to the history log, which lives outside the
// entity store.
const WatchHistoryPolicy = PolicySweep

// EdgeKinds lists every edge kind kept in the entity store.
func EdgeKinds() []EdgeKind {
	return []EdgeKind{VideoLikes, CommentLikes, TweetLikes, VideoComments, Memberships, Subscriptions}
}

type Resolution struct {
	Count         int64
	ViewerHasEdge bool
	Edges         []model.Record
}

// Resolver turns a batch of root ids into per-root edge counts with a single
// scan over the edge collection. PolicyFilter kinds add one existence scan
// over the far ends.
type Resolver struct {
	store store.Reader
}

func NewResolver(r store.Reader) *Resolver {
	return &Resolver{store: r}
}

// Resolve never fails on unknown roots: every requested id gets a resolution,
// zero-valued when it has no edges.
func (r *Resolver) Resolve(ctx context.Context, rootIDs []string, kind EdgeKind, dir Direction, viewerID string) (map[string]*Resolution, error) {
	ids := dedupe(rootIDs)
	out := make(map[string]*Resolution, len(ids))
	for _, id := range ids {
		out[id] = &Resolution{}
	}
	if len(ids) == 0 {
		return out, nil
	}

	keyCol, farCol, farColl := kind.Target, kind.Source, kind.SourceCollection
	if dir == Outbound {
		keyCol, farCol, farColl = kind.Source, kind.Target, kind.TargetCollection
	}
	edges, err := r.store.Scan(ctx, kind.Collection, kind.Scope.And(store.In(keyCol, ids)))
	if err != nil {
		return nil, errno.Upstream(err)
	}
	if kind.Policy == PolicyFilter && farColl != "" {
		if edges, err = r.live(ctx, edges, farCol, farColl); err != nil {
			return nil, err
		}
	}
	for _, e := range edges {
		key, ok := stringField(e, keyCol)
		if !ok {
			continue
		}
		res, ok := out[key]
		if !ok {
			continue
		}
		res.Count++
		res.Edges = append(res.Edges, e)
		if viewerID == "" {
			continue
		}
		if far, _ := stringField(e, farCol); far == viewerID {
			res.ViewerHasEdge = true
		}
	}
	return out, nil
}

// live drops the edges whose far end no longer exists in farColl.
func (r *Resolver) live(ctx context.Context, edges []model.Record, farCol string, farColl model.Collection) ([]model.Record, error) {
	far := make([]string, 0, len(edges))
	for _, e := range edges {
		if id, ok := stringField(e, farCol); ok {
			far = append(far, id)
		}
	}
	far = dedupe(far)
	if len(far) == 0 {
		return edges, nil
	}
	recs, err := r.store.Scan(ctx, farColl, store.Where(store.In("id", far)))
	if err != nil {
		return nil, errno.Upstream(err)
	}
	exists := make(map[string]struct{}, len(recs))
	for _, rec := range recs {
		exists[rec.RecordID()] = struct{}{}
	}
	kept := edges[:0]
	for _, e := range edges {
		id, _ := stringField(e, farCol)
		if _, ok := exists[id]; ok {
			kept = append(kept, e)
		}
	}
	return kept, nil
}

func stringField(rec model.Record, name string) (string, bool) {
	v, ok := rec.Field(name)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

func dedupe(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
