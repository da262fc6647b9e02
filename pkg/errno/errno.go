package errno

import (
	"errors"
	"fmt"
)

const (
	SuccessCode          = 0
	ServiceErrCode       = 10001
	InvalidQueryCode     = 10002
	InvalidReferenceCode = 10003
	NotFoundCode         = 10004
	ForbiddenCode        = 10005
)

// ErrNo is the error type surfaced to request handlers. Two ErrNo values match
// under errors.Is when their codes are equal, so call sites can attach a
// message or a cause and still be classified.
type ErrNo struct {
	ErrCode int64
	ErrMsg  string
	cause   error
}

func (e ErrNo) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("err_code=%d, err_msg=%s: %v", e.ErrCode, e.ErrMsg, e.cause)
	}
	return fmt.Sprintf("err_code=%d, err_msg=%s", e.ErrCode, e.ErrMsg)
}

func (e ErrNo) Unwrap() error { return e.cause }

func (e ErrNo) Is(target error) bool {
	t, ok := target.(ErrNo)
	return ok && t.ErrCode == e.ErrCode
}

func NewErrNo(code int64, msg string) ErrNo {
	return ErrNo{ErrCode: code, ErrMsg: msg}
}

func (e ErrNo) WithMessage(msg string) ErrNo {
	e.ErrMsg = msg
	return e
}

func (e ErrNo) WithCause(err error) ErrNo {
	e.cause = err
	return e
}

var (
	Success             = NewErrNo(SuccessCode, "Success")
	ServiceErr          = NewErrNo(ServiceErrCode, "Service is unable to start successfully")
	UpstreamErr         = NewErrNo(ServiceErrCode, "Entity store request failed")
	InvalidQueryErr     = NewErrNo(InvalidQueryCode, "Invalid query")
	InvalidReferenceErr = NewErrNo(InvalidReferenceCode, "Invalid reference")
	NotFoundErr         = NewErrNo(NotFoundCode, "Record not found")
	ForbiddenErr        = NewErrNo(ForbiddenCode, "Only the owner can perform this action")
)

// Upstream classifies a failure of the entity store (or another collaborator)
// as a server-side fault. Errors that already carry an ErrNo are returned
// unchanged.
func Upstream(err error) error {
	if err == nil {
		return nil
	}
	var e ErrNo
	if errors.As(err, &e) {
		return err
	}
	return UpstreamErr.WithCause(err)
}

// ConvertErr convert error to Errno
func ConvertErr(err error) ErrNo {
	if err == nil {
		return Success
	}
	Err := ErrNo{}
	if errors.As(err, &Err) {
		return Err
	}
	s := ServiceErr
	s.ErrMsg = err.Error()
	return s
}

// IsClientFault reports whether err was caused by the request itself.
func IsClientFault(err error) bool {
	switch ConvertErr(err).ErrCode {
	case InvalidQueryCode, InvalidReferenceCode, NotFoundCode, ForbiddenCode:
		return true
	}
	return false
}
