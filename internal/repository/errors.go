package repository

import "errors"

var (
	ErrEventNotFound = errors.New("webhook event not found")
	ErrInvalidInput  = errors.New("invalid input parameters")
)
