package scpi

import "errors"

var (
	// ErrConnConfigNil indicates that a nil ConnectionConfig was provided.
	ErrConnConfigNil = errors.New("connection config is nil")

	// ErrClientClosed indicates that the client has been closed.
	ErrClientClosed = errors.New("client closed")

	// ErrEmptyCommand indicates that an empty command string was given to Exec.
	ErrEmptyCommand = errors.New("empty command")

	// ErrEmptyReply indicates that the instrument answered with a message without frames.
	ErrEmptyReply = errors.New("empty reply")
)
