// Package port file: internal/core/port/errors.go
package port

import (
	"errors"
)

// Standard errors
var (
	ErrInvalidDataset   = errors.New("invalid dataset")
	ErrInvalidParameter = errors.New("invalid parameter")
	ErrMissingParameter = errors.New("missing required parameter")
	ErrUnknownMethod    = errors.New("unknown method")

	ErrRateLimited     = errors.New("CDC API rate limit exceeded")
	ErrAccessDenied    = errors.New("access denied to dataset")
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrTransport       = errors.New("failed to fetch CDC data")
)

// OperationError 把失败与发起它的操作名绑定在一起。
// 这是调用方能看到的唯一错误形态：一条消息加一个 method。
type OperationError struct {
	Method string
	Err    error
}

func (e *OperationError) Error() string {
	return e.Err.Error()
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Payload 返回边界层序列化用的错误体
func (e *OperationError) Payload() map[string]any {
	return map[string]any{
		"error":  e.Err.Error(),
		"method": e.Method,
	}
}
