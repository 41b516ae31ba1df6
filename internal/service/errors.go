package service

import "errors"

var (
	ErrInternal = errors.New("internal error")
	ErrMutationFailed = errors.New("mutation failed")
	ErrChatRequestFailed = errors.New("chat request failed")
	ErrValidationRejected = errors.New("validation rejected")
)
