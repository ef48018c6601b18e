package util

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrLessonNotFound    = errors.New("lesson not found")
	ErrItemNotFound      = errors.New("item not found")
	ErrMatchNotFound     = errors.New("match not found")
	ErrInsufficientCoins = errors.New("insufficient coins")
	ErrItemAlreadyOwned  = errors.New("item already owned")
	ErrMatchUnavailable  = errors.New("match is no longer available")
	ErrNotInMatch        = errors.New("user is not part of this match")
	ErrMatchNotReady     = errors.New("match has not started")
	ErrInvalidGame       = errors.New("unknown game id")
	ErrPermissionDenied  = errors.New("permission denied")
)

// ValidationError 请求参数不合法，映射为 400
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// Invalid 构造参数校验错误
func Invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
