package core

import "errors"

var (
	ErrInvalidMode   = errors.New("invalid mode")
	ErrEmptyResponse = errors.New("empty response")
)
