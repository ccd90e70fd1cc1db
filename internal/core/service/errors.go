package service

import "errors"

var (
	ErrEmptyCart          = errors.New("cart is empty, nothing to checkout")
	ErrDuplicateRequest   = errors.New("duplicate checkout request")
	ErrPrimaryWriteFailed = errors.New("primary store write failed")
)
