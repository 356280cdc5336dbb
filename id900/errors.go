package id900

import "errors"

var (
	// ErrCommanderNil indicates that a nil Commander was provided.
	ErrCommanderNil = errors.New("commander is nil")

	// ErrInvalidIndex indicates that a block index is outside the range of the device.
	ErrInvalidIndex = errors.New("block index out of range")

	// ErrMalformedData indicates that a histogram data reply could not be decoded.
	ErrMalformedData = errors.New("malformed histogram data")
)
