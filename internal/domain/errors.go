package domain

import "errors"

var (
	ErrAccountNotFound = errors.New("account not found")
	ErrBatchNotFound   = errors.New("batch not found")
	ErrBetNotFound     = errors.New("bet not found")
	ErrBatchCompleted  = errors.New("batch already completed")
	ErrInvalidStatus   = errors.New("invalid bet status")
)
