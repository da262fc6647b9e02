package handlers

import (
	"context"

	"github.com/cloudwego/hertz/pkg/app"
)

type ToggleResp struct {
	Active bool `json:"active"`
}

// act runs a mutation on behalf of the forwarded identity.
func act(ctx context.Context, c *app.RequestContext, op string, fn func(actor string) (interface{}, error)) {
	actor, err := viewerID(c)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	data, err := fn(actor)
	if err != nil {
		logFailure(ctx, op, err)
		SendResponse(c, err, nil)
		return
	}
	SendResponse(c, nil, data)
}

func (h *Handler) toggleLike(kind, param string) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		act(ctx, c, "toggle like", func(actor string) (interface{}, error) {
			liked, err := h.svc.ToggleLike(ctx, actor, kind, c.Param(param))
			return ToggleResp{Active: liked}, err
		})
	}
}

func (h *Handler) ToggleSubscription(ctx context.Context, c *app.RequestContext) {
	act(ctx, c, "toggle subscription", func(actor string) (interface{}, error) {
		subscribed, err := h.svc.ToggleSubscription(ctx, actor, c.Param("channelId"))
		return ToggleResp{Active: subscribed}, err
	})
}

func (h *Handler) TogglePublish(ctx context.Context, c *app.RequestContext) {
	act(ctx, c, "toggle publish", func(actor string) (interface{}, error) {
		published, err := h.svc.TogglePublish(ctx, actor, c.Param("videoId"))
		return ToggleResp{Active: published}, err
	})
}

func (h *Handler) DeleteVideo(ctx context.Context, c *app.RequestContext) {
	act(ctx, c, "delete video", func(actor string) (interface{}, error) {
		return nil, h.svc.DeleteVideo(ctx, actor, c.Param("videoId"))
	})
}

func (h *Handler) DeleteComment(ctx context.Context, c *app.RequestContext) {
	act(ctx, c, "delete comment", func(actor string) (interface{}, error) {
		return nil, h.svc.DeleteComment(ctx, actor, c.Param("commentId"))
	})
}

func (h *Handler) DeleteTweet(ctx context.Context, c *app.RequestContext) {
	act(ctx, c, "delete tweet", func(actor string) (interface{}, error) {
		return nil, h.svc.DeleteTweet(ctx, actor, c.Param("tweetId"))
	})
}

func (h *Handler) DeletePlaylist(ctx context.Context, c *app.RequestContext) {
	act(ctx, c, "delete playlist", func(actor string) (interface{}, error) {
		return nil, h.svc.DeletePlaylist(ctx, actor, c.Param("playlistId"))
	})
}

func (h *Handler) AddVideoToPlaylist(ctx context.Context, c *app.RequestContext) {
	act(ctx, c, "add to playlist", func(actor string) (interface{}, error) {
		added, err := h.svc.AddVideoToPlaylist(ctx, actor, c.Param("playlistId"), c.Param("videoId"))
		return ToggleResp{Active: added}, err
	})
}

func (h *Handler) RemoveVideoFromPlaylist(ctx context.Context, c *app.RequestContext) {
	act(ctx, c, "remove from playlist", func(actor string) (interface{}, error) {
		return nil, h.svc.RemoveVideoFromPlaylist(ctx, actor, c.Param("playlistId"), c.Param("videoId"))
	})
}
