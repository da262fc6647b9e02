package aggregate

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"testing"

	"VidTube.com/cmd/model"
	"VidTube.com/pkg/errno"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScenarioAChannelVideosPaginate(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	var want []string
	for i := 0; i < 15; i++ {
		want = append(want, f.video(owner.ID, true, i).ID)
	}
	// newest first
	sort.Sort(sort.Reverse(sort.StringSlice(want)))

	q := Query{Intent: IntentChannelVideos, Filters: Filters{OwnerID: owner.ID}, Page: 1, PageSize: 10}
	p1 := f.query(q)
	assert.Len(t, p1.Items, 10)
	assert.Equal(t, int64(15), p1.TotalCount)
	assert.Equal(t, int64(2), p1.TotalPages)
	assert.True(t, p1.HasNextPage)
	assert.Equal(t, want[:10], videoIDs(p1.Items))

	q.Page = 2
	p2 := f.query(q)
	assert.Len(t, p2.Items, 5)
	assert.False(t, p2.HasNextPage)
	assert.Equal(t, 2, p2.CurrentPage)
	assert.Equal(t, want[10:], videoIDs(p2.Items))
}

func TestScenarioBBlankTextRejectedBeforeAnyStoreCall(t *testing.T) {
	f := newFixture(t)
	f.video(f.user("owner").ID, true, 1)
	f.reads.reset()

	for _, text := range []string{"", "   ", "\t\n"} {
		_, err := f.eng.Query(f.ctx, Query{Intent: IntentFeed, Filters: Filters{Text: strPtr(text)}})
		require.Error(t, err)
		assert.ErrorIs(t, err, errno.InvalidQueryErr)
	}
	assert.Zero(t, f.reads.total())
}

func TestScenarioCDanglingEdgeNotCounted(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	v := f.video(owner.ID, true, 1)
	gone := f.video(owner.ID, true, 2)
	for i := 0; i < 3; i++ {
		f.like(f.user("fan").ID, model.TargetVideo, v.ID, i)
	}
	f.like(f.user("late").ID, model.TargetVideo, gone.ID, 5)
	f.remove(model.CollectionVideos, gone.ID)

	page := f.query(Query{Intent: IntentFeed})
	require.Len(t, page.Items, 1)
	assert.Equal(t, int64(3), page.Items[0].(*VideoView).LikesCount)
}

func TestScenarioDChannelStatsWithoutVideos(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")

	_, err := f.eng.Query(f.ctx, Query{Intent: IntentChannelStats, Filters: Filters{OwnerID: owner.ID}})
	require.Error(t, err)
	assert.ErrorIs(t, err, errno.NotFoundErr)
}

func TestChannelStats(t *testing.T) {
	f := newFixture(t)
	owner, fan := f.user("owner"), f.user("fan")
	v1 := f.video(owner.ID, true, 1)
	v2 := f.video(owner.ID, false, 2)
	require.NoError(t, f.store.Increment(f.ctx, model.CollectionVideos, v1.ID, "views", 7))
	require.NoError(t, f.store.Increment(f.ctx, model.CollectionVideos, v2.ID, "views", 3))
	f.like(fan.ID, model.TargetVideo, v1.ID, 1)
	f.like(owner.ID, model.TargetVideo, v2.ID, 1)
	f.subscribe(fan.ID, owner.ID, 1)
	f.subscribe(owner.ID, fan.ID, 2)
	f.comment(v1.ID, fan.ID, 2)
	f.comment(v2.ID, owner.ID, 3)
	f.comment(f.video(fan.ID, true, 4).ID, owner.ID, 5)
	f.tweet(owner.ID, 6)
	f.tweet(fan.ID, 6)
	f.playlist(owner.ID, 7, v1.ID)

	// ownerId omitted: the viewer's own channel
	page := f.query(Query{Intent: IntentChannelStats, ViewerID: owner.ID})
	require.Len(t, page.Items, 1)
	assert.Equal(t, &ChannelStatsView{
		OwnerID:                   owner.ID,
		TotalVideos:               2,
		TotalViews:                10,
		TotalLikes:                2,
		TotalComments:             2,
		TotalSubscribers:          1,
		TotalChannelsSubscribedTo: 1,
		TotalTweets:               1,
		TotalPlaylists:            1,
	}, page.Items[0])

	_, err := f.eng.Query(f.ctx, Query{Intent: IntentChannelStats})
	assert.ErrorIs(t, err, errno.InvalidQueryErr)
}

func TestPagesPartitionTheOrderedSet(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	var all []string
	for i := 0; i < 23; i++ {
		// many equal timestamps to exercise the tie-break
		all = append(all, f.video(owner.ID, true, i/4).ID)
	}

	var seen []string
	var total int64
	for page := 1; ; page++ {
		p := f.query(Query{Intent: IntentFeed, Page: page, PageSize: 4})
		total = p.TotalCount
		seen = append(seen, videoIDs(p.Items)...)
		if !p.HasNextPage {
			assert.Equal(t, int64(6), p.TotalPages)
			break
		}
	}
	assert.Equal(t, int64(len(all)), total)
	assert.Len(t, seen, len(all))
	assert.ElementsMatch(t, all, seen)
}

func TestOrderingIsStableAndTiesBreakByID(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	a := f.video(owner.ID, true, 5)
	b := f.video(owner.ID, true, 5)
	c := f.video(owner.ID, true, 9)

	q := Query{Intent: IntentFeed}
	first := f.query(q)
	assert.Equal(t, []string{c.ID, a.ID, b.ID}, videoIDs(first.Items))

	second := f.query(q)
	b1, err := json.Marshal(first)
	require.NoError(t, err)
	b2, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(b1), string(b2))

	asc := f.query(Query{Intent: IntentFeed, Sort: Sort{Direction: "asc"}})
	assert.Equal(t, []string{a.ID, b.ID, c.ID}, videoIDs(asc.Items))
}

func TestSortByViews(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	low := f.video(owner.ID, true, 1)
	high := f.video(owner.ID, true, 2)
	require.NoError(t, f.store.Increment(f.ctx, model.CollectionVideos, high.ID, "views", 10))

	page := f.query(Query{Intent: IntentFeed, Sort: Sort{Field: "views", Direction: "asc"}})
	assert.Equal(t, []string{low.ID, high.ID}, videoIDs(page.Items))

	// direction omitted: descending
	page = f.query(Query{Intent: IntentFeed, Sort: Sort{Field: "views"}})
	assert.Equal(t, []string{high.ID, low.ID}, videoIDs(page.Items))
}

func TestInvalidInputRejectedBeforeAnyStoreCall(t *testing.T) {
	f := newFixture(t)
	f.reads.reset()
	tests := []struct {
		name string
		q    Query
		want error
	}{
		{"unknown intent", Query{Intent: "trending"}, errno.InvalidQueryErr},
		{"malformed owner", Query{Intent: IntentChannelVideos, Filters: Filters{OwnerID: "42"}}, errno.InvalidReferenceErr},
		{"malformed target", Query{Intent: IntentVideoDetail, Filters: Filters{TargetID: "not-an-id"}}, errno.InvalidReferenceErr},
		{"malformed viewer", Query{Intent: IntentFeed, ViewerID: "x"}, errno.InvalidReferenceErr},
		{"unknown sort field", Query{Intent: IntentFeed, Sort: Sort{Field: "likes"}}, errno.InvalidQueryErr},
		{"bad direction", Query{Intent: IntentFeed, Sort: Sort{Direction: "sideways"}}, errno.InvalidQueryErr},
		{"position outside playlists", Query{Intent: IntentFeed, Sort: Sort{Field: "position"}}, errno.InvalidQueryErr},
		{"missing owner", Query{Intent: IntentTweetsOfUser}, errno.InvalidQueryErr},
		{"missing target", Query{Intent: IntentCommentsForVideo}, errno.InvalidQueryErr},
		{"text outside feed", Query{Intent: IntentChannelVideos, Filters: Filters{OwnerID: f.id(), Text: strPtr("go")}}, errno.InvalidQueryErr},
		{"anonymous liked videos", Query{Intent: IntentLikedVideos}, errno.InvalidQueryErr},
		{"anonymous history", Query{Intent: IntentWatchHistory}, errno.InvalidQueryErr},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.eng.Query(f.ctx, tt.q)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.True(t, errno.IsClientFault(err))
		})
	}
	assert.Zero(t, f.reads.total())
}

func TestViewerRelativeFieldsAreAnonymousSafe(t *testing.T) {
	f := newFixture(t)
	owner, viewer := f.user("owner"), f.user("viewer")
	liked := f.video(owner.ID, true, 1)
	other := f.video(owner.ID, true, 2)
	f.like(viewer.ID, model.TargetVideo, liked.ID, 1)

	anon := f.query(Query{Intent: IntentFeed})
	for _, it := range anon.Items {
		assert.False(t, it.(*VideoView).IsLiked)
	}

	seen := f.query(Query{Intent: IntentFeed, ViewerID: viewer.ID})
	byID := map[string]*VideoView{}
	for _, it := range seen.Items {
		v := it.(*VideoView)
		byID[v.ID] = v
	}
	assert.True(t, byID[liked.ID].IsLiked)
	assert.False(t, byID[other.ID].IsLiked)

	detail := f.query(Query{Intent: IntentVideoDetail, Filters: Filters{TargetID: liked.ID}})
	owner2 := detail.Items[0].(*VideoView).Owner
	require.NotNil(t, owner2.IsSubscribed)
	assert.False(t, *owner2.IsSubscribed)
}

func TestOwnerSummaryNeverCarriesCredentials(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	f.video(owner.ID, true, 1)

	body, err := json.Marshal(f.query(Query{Intent: IntentFeed}))
	require.NoError(t, err)
	assert.NotContains(t, string(body), "secret")
	assert.NotContains(t, string(body), "@example.com")
	assert.Contains(t, string(body), `"username":"owner"`)
}

func TestMissingOwnerYieldsNilSummary(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	v := f.video(owner.ID, true, 1)
	f.remove(model.CollectionUsers, owner.ID)

	page := f.query(Query{Intent: IntentFeed})
	require.Len(t, page.Items, 1)
	view := page.Items[0].(*VideoView)
	assert.Equal(t, v.ID, view.ID)
	assert.Nil(t, view.Owner)
}

func TestOwnerLookupIsDeduplicated(t *testing.T) {
	f := newFixture(t)
	a, b := f.user("a"), f.user("b")
	for i := 0; i < 6; i++ {
		f.video(a.ID, true, i)
	}
	f.video(b.ID, true, 10)
	f.reads.reset()

	page := f.query(Query{Intent: IntentFeed})
	require.Len(t, page.Items, 7)

	require.Equal(t, 1, f.reads.scansOf(model.CollectionUsers))
	pred := f.reads.preds[model.CollectionUsers][0]
	require.Len(t, pred, 1)
	assert.ElementsMatch(t, []string{a.ID, b.ID}, pred[0].Values)
	assert.Equal(t, 1, f.reads.scansOf(model.CollectionLikes))
	assert.Equal(t, 1, f.reads.scansOf(model.CollectionComments))
}

func TestEmptyResultVersusPageBeyondLast(t *testing.T) {
	f := newFixture(t)
	owner := f.user("owner")
	v := f.video(owner.ID, true, 1)

	empty := f.query(Query{Intent: IntentCommentsForVideo, Filters: Filters{TargetID: v.ID}})
	assert.True(t, empty.Empty)
	assert.Zero(t, empty.TotalCount)
	assert.Zero(t, empty.TotalPages)
	assert.Empty(t, empty.Items)

	f.comment(v.ID, owner.ID, 2)
	beyond := f.query(Query{Intent: IntentCommentsForVideo, Filters: Filters{TargetID: v.ID}, Page: 3})
	assert.False(t, beyond.Empty)
	assert.Equal(t, int64(1), beyond.TotalCount)
	assert.Empty(t, beyond.Items)
	assert.False(t, beyond.HasNextPage)

	_, err := f.eng.Query(f.ctx, Query{Intent: IntentCommentsForVideo, Filters: Filters{TargetID: f.id()}})
	assert.ErrorIs(t, err, errno.NotFoundErr)
}

func TestCancellationAbortsPipeline(t *testing.T) {
	f := newFixture(t)
	f.video(f.user("owner").ID, true, 1)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.eng.Query(ctx, Query{Intent: IntentFeed})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestResolverFailureAbortsPipeline(t *testing.T) {
	f := newFixture(t)
	f.video(f.user("owner").ID, true, 1)
	cause := errors.New("mysql: bad connection")
	f.reads.failOn, f.reads.err = model.CollectionComments, cause

	page, err := f.eng.Query(f.ctx, Query{Intent: IntentFeed})
	assert.Nil(t, page)
	assert.ErrorIs(t, err, errno.UpstreamErr)
	assert.ErrorIs(t, err, cause)
	assert.False(t, errno.IsClientFault(err))
}

func TestStageOrder(t *testing.T) {
	f := newFixture(t)
	names, err := f.eng.Stages(Query{
		Intent:  IntentFeed,
		Filters: Filters{Text: strPtr("go"), OwnerID: f.id()},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"filter:published",
		"filter:owner",
		"filter:text",
		"filter:load-videos",
		"join:videos",
		"sort:created_at desc",
	}, names)

	names, err = f.eng.Stages(Query{Intent: IntentPlaylistDetail, Filters: Filters{TargetID: f.id()}, Sort: Sort{Field: "position", Direction: "asc"}})
	require.NoError(t, err)
	assert.Equal(t, []string{
		"filter:playlist-exists",
		"filter:members",
		"filter:published",
		"filter:load-videos",
		"join:members",
		"sort:position asc",
	}, names)
}

// Subscriptions stay in place when an identity goes away; every count and
// listing must agree on the live edges.
func TestSubscriberCountsIgnoreMissingIdentities(t *testing.T) {
	f := newFixture(t)
	channel, stays, leaves := f.user("channel"), f.user("stays"), f.user("leaves")
	v := f.video(channel.ID, true, 1)
	f.subscribe(stays.ID, channel.ID, 2)
	f.subscribe(leaves.ID, channel.ID, 3)
	f.remove(model.CollectionUsers, leaves.ID)

	detail := f.query(Query{Intent: IntentVideoDetail, Filters: Filters{TargetID: v.ID}, ViewerID: stays.ID})
	owner := detail.Items[0].(*VideoView).Owner
	require.NotNil(t, owner)
	require.NotNil(t, owner.SubscribersCount)
	assert.Equal(t, int64(1), *owner.SubscribersCount)
	assert.True(t, *owner.IsSubscribed)

	subscribers := f.query(Query{Intent: IntentSubscribersOfChannel, Filters: Filters{TargetID: channel.ID}})
	assert.Equal(t, int64(1), subscribers.TotalCount)

	stats := f.query(Query{Intent: IntentChannelStats, Filters: Filters{OwnerID: channel.ID}})
	assert.Equal(t, int64(1), stats.Items[0].(*ChannelStatsView).TotalSubscribers)
}
