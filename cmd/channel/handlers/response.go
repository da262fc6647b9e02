package handlers

import (
	"errors"

	"VidTube.com/pkg/errno"
	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
)

type Response struct {
	Code    int64       `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// SendResponse pack response
func SendResponse(c *app.RequestContext, err error, data interface{}) {
	Err := errno.Success
	if err != nil {
		Err = errno.ConvertErr(err)
	}
	c.JSON(statusOf(err), Response{
		Code:    Err.ErrCode,
		Message: Err.ErrMsg,
		Data:    data,
	})
}

func statusOf(err error) int {
	if err == nil {
		return consts.StatusOK
	}
	var e errno.ErrNo
	if !errors.As(err, &e) {
		return consts.StatusInternalServerError
	}
	switch e.ErrCode {
	case errno.SuccessCode:
		return consts.StatusOK
	case errno.InvalidQueryCode, errno.InvalidReferenceCode:
		return consts.StatusBadRequest
	case errno.NotFoundCode:
		return consts.StatusNotFound
	case errno.ForbiddenCode:
		return consts.StatusForbidden
	}
	return consts.StatusInternalServerError
}
