package recon

import "errors"

var (
	ErrInvalidReport     = errors.New("invalid report")
	ErrUnknownMaterial   = errors.New("unknown material")
	ErrInsufficientStock = errors.New("insufficient stock")
	ErrInvalidQuantity   = errors.New("invalid quantity")
	ErrPersistence       = errors.New("persistence failure")
)
