package apperrors

import "errors"

var (
	ErrInvalidConfig    = errors.New("remote config is invalid")
	ErrLoadTimeout      = errors.New("content load timed out")
	ErrLoadFailed       = errors.New("content load failed")
	ErrSurfaceDiscarded = errors.New("surface has been discarded")
)
