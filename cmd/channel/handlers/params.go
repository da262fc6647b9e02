package handlers

import (
	"strconv"

	"VidTube.com/cmd/channel/aggregate"
	"VidTube.com/pkg/constants"
	"VidTube.com/pkg/errno"
	"VidTube.com/pkg/utils"
	"github.com/cloudwego/hertz/pkg/app"
)

// ListParam carries the paging and sorting query string. Page values stay
// strings so malformed input falls back to the defaults.
type ListParam struct {
	Page     string `query:"page"`
	Limit    string `query:"limit"`
	SortBy   string `query:"sortBy"`
	SortType string `query:"sortType"`
	OwnerID  string `query:"ownerId"`
}

// viewerID is the identity forwarded by the gateway, "" when anonymous.
func viewerID(c *app.RequestContext) (string, error) {
	id := string(c.GetHeader(constants.UserIDHeader))
	if id != "" && !utils.ValidID(id) {
		return "", errno.InvalidReferenceErr.WithMessage("malformed " + constants.UserIDHeader)
	}
	return id, nil
}

// listQuery builds the intent query shared by every listing route.
func listQuery(c *app.RequestContext, intent aggregate.Intent) (aggregate.Query, error) {
	var p ListParam
	if err := c.BindAndValidate(&p); err != nil {
		return aggregate.Query{}, errno.InvalidQueryErr.WithMessage(err.Error())
	}
	viewer, err := viewerID(c)
	if err != nil {
		return aggregate.Query{}, err
	}
	page, size := aggregate.ParsePageParams(p.Page, p.Limit)
	q := aggregate.Query{
		Intent:   intent,
		Filters:  aggregate.Filters{OwnerID: p.OwnerID},
		Sort:     aggregate.Sort{Field: p.SortBy, Direction: p.SortType},
		ViewerID: viewer,
		Page:     page,
		PageSize: size,
	}
	if raw, ok := c.GetQuery("publishedOnly"); ok {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return aggregate.Query{}, errno.InvalidQueryErr.WithMessage("publishedOnly must be a boolean")
		}
		q.Filters.PublishedOnly = &b
	}
	return q, nil
}
