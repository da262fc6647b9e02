package mq

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingHandler struct {
	events []*VideoDeletedEvent
}

func (r *recordingHandler) HandleVideoDeleted(_ context.Context, e *VideoDeletedEvent) error {
	r.events = append(r.events, e)
	return nil
}

func TestInlineDeliversVideoDeleted(t *testing.T) {
	h := &recordingHandler{}
	var p MessageProducer = &Inline{Handler: h}

	ev := NewVideoDeletedEvent("v1", "u1", "video/v1/video.mp4", "picture/v1/cover.jpg")
	require.NoError(t, p.PublishVideoDeleted(context.Background(), ev))
	require.NoError(t, p.PublishEdgeToggled(context.Background(), &EdgeToggledEvent{Kind: "like"}))

	require.Len(t, h.events, 1)
	assert.Equal(t, "v1", h.events[0].VideoID)
}

type recordingIndexer struct {
	ids []string
}

func (r *recordingIndexer) HandleVideoUpserted(_ context.Context, e *VideoUpsertedEvent) error {
	r.ids = append(r.ids, e.VideoID)
	return nil
}

func TestInlineDeliversVideoUpserted(t *testing.T) {
	h, ix := &recordingHandler{}, &recordingIndexer{}
	p := &Inline{Handler: h, Indexer: ix}

	require.NoError(t, p.PublishVideoUpserted(context.Background(), NewVideoUpsertedEvent("v2")))
	assert.Equal(t, []string{"v2"}, ix.ids)
	assert.Empty(t, h.events)
}

func TestInlineWithoutHandler(t *testing.T) {
	p := &Inline{}
	assert.NoError(t, p.PublishVideoDeleted(context.Background(), &VideoDeletedEvent{VideoID: "v"}))
	assert.NoError(t, p.PublishVideoUpserted(context.Background(), NewVideoUpsertedEvent("v")))
}

func TestVideoDeletedEventWireFormat(t *testing.T) {
	body, err := json.Marshal(NewVideoDeletedEvent("v1", "u1", "a", "b"))
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(body, &m))
	for _, k := range []string{"video_id", "owner_id", "video_url", "thumbnail_url", "timestamp"} {
		assert.Contains(t, m, k)
	}
}
