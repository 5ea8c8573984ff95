package client

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth 认证失败（HTTP 401/403）
	ErrAuth = errors.New("authentication failed")
	// ErrMalformedResponse 响应不是合法的 JSON 对象
	ErrMalformedResponse = errors.New("malformed api response")
)

// APIError 云端返回了非零 resultCode
type APIError struct {
	Code int
	Msg  string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Code, e.Msg)
}
