package handlers

import (
	"context"

	"VidTube.com/cmd/channel/aggregate"
	"VidTube.com/cmd/channel/service"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/hlog"
)

// Handler serves the channel routes on top of the query engine and the
// mutation service.
type Handler struct {
	engine *aggregate.Engine
	svc    *service.ChannelService
}

func NewHandler(engine *aggregate.Engine, svc *service.ChannelService) *Handler {
	return &Handler{engine: engine, svc: svc}
}

// list answers a listing route. bind copies the path parameters into the
// query before it runs.
func (h *Handler) list(intent aggregate.Intent, bind func(c *app.RequestContext, q *aggregate.Query)) app.HandlerFunc {
	return func(ctx context.Context, c *app.RequestContext) {
		q, err := listQuery(c, intent)
		if err != nil {
			SendResponse(c, err, nil)
			return
		}
		if bind != nil {
			bind(c, &q)
		}
		page, err := h.engine.Query(ctx, q)
		if err != nil {
			logFailure(ctx, string(intent), err)
			SendResponse(c, err, nil)
			return
		}
		SendResponse(c, nil, page)
	}
}

func target(param string) func(c *app.RequestContext, q *aggregate.Query) {
	return func(c *app.RequestContext, q *aggregate.Query) {
		q.Filters.TargetID = c.Param(param)
	}
}

func owner(param string) func(c *app.RequestContext, q *aggregate.Query) {
	return func(c *app.RequestContext, q *aggregate.Query) {
		q.Filters.OwnerID = c.Param(param)
	}
}

// Feed lists published videos, narrowed by the optional query text.
func (h *Handler) Feed(ctx context.Context, c *app.RequestContext) {
	h.list(aggregate.IntentFeed, func(c *app.RequestContext, q *aggregate.Query) {
		if text, ok := c.GetQuery("query"); ok {
			q.Filters.Text = &text
		}
	})(ctx, c)
}

// VideoDetail answers the detail view and then counts the view. A failed
// view count does not fail the request.
func (h *Handler) VideoDetail(ctx context.Context, c *app.RequestContext) {
	q, err := listQuery(c, aggregate.IntentVideoDetail)
	if err != nil {
		SendResponse(c, err, nil)
		return
	}
	q.Filters.TargetID = c.Param("videoId")
	page, err := h.engine.Query(ctx, q)
	if err != nil {
		logFailure(ctx, string(q.Intent), err)
		SendResponse(c, err, nil)
		return
	}
	if err := h.svc.RecordView(ctx, q.ViewerID, q.Filters.TargetID); err != nil {
		hlog.CtxWarnf(ctx, "record view of %s failed: %v", q.Filters.TargetID, err)
	}
	SendResponse(c, nil, page)
}

func logFailure(ctx context.Context, op string, err error) {
	if statusOf(err) >= 500 {
		hlog.CtxErrorf(ctx, "%s failed: %v", op, err)
		return
	}
	hlog.CtxInfof(ctx, "%s rejected: %v", op, err)
}
