package scpi

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/go-zeromq/zmq4"

	"github.com/arloliu/go-id900/logger"
)

// Commander sends one command to the instrument and returns its decoded reply.
//
// Exec blocks until the reply is received. Set form commands are answered too,
// implementations must consume that reply before the next command is sent.
type Commander interface {
	Exec(cmd string) (string, error)
}

// Client is a Commander over a ZeroMQ REQ socket.
//
// Client is safe for concurrent use, commands are serialized so that at most one
// command is in flight.
type Client struct {
	cfg    *ConnectionConfig
	logger logger.Logger

	mu     sync.Mutex // serializes request/reply exchanges
	sock   zmq4.Socket
	closed atomic.Bool

	metrics *CommandMetrics
}

// ensure Client implements Commander interface.
var _ Commander = (*Client)(nil)

// Dial connects a REQ socket to the instrument described by cfg.
//
// The context bounds the lifetime of the socket; canceling it aborts any blocked exchange.
func Dial(ctx context.Context, cfg *ConnectionConfig) (*Client, error) {
	if cfg == nil {
		return nil, ErrConnConfigNil
	}

	endpoint := cfg.Endpoint()
	l := cfg.logger.With("endpoint", endpoint)

	sock := zmq4.NewReq(ctx, zmq4.WithDialerTimeout(cfg.DialTimeout()))
	if err := sock.Dial(endpoint); err != nil {
		_ = sock.Close()
		l.Debug("failed to dial to instrument", "error", err)

		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	l.Debug("connected to the instrument", "method", "Dial")

	return &Client{
		cfg:     cfg,
		logger:  l,
		sock:    sock,
		metrics: newCommandMetrics(),
	}, nil
}

// Exec sends cmd and blocks until the reply is received.
func (c *Client) Exec(cmd string) (string, error) {
	if cmd == "" {
		return "", ErrEmptyCommand
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed.Load() {
		return "", ErrClientClosed
	}

	c.metrics.observe(cmd)

	if err := c.sock.Send(zmq4.NewMsgString(cmd)); err != nil {
		c.metrics.incErrCount()
		c.logger.Error("failed to send command", "cmd", cmd, "error", err)

		return "", fmt.Errorf("send %q: %w", cmd, err)
	}

	msg, err := c.sock.Recv()
	if err != nil {
		c.metrics.incErrCount()
		c.logger.Error("failed to receive reply", "cmd", cmd, "error", err)

		return "", fmt.Errorf("recv reply of %q: %w", cmd, err)
	}

	if len(msg.Frames) == 0 {
		c.metrics.incErrCount()
		return "", ErrEmptyReply
	}

	reply := string(msg.Frames[0])
	c.logger.Debug("command exchanged", "cmd", cmd, "reply", reply)

	return reply, nil
}

// Metrics returns the command counters of the client.
func (c *Client) Metrics() *CommandMetrics {
	return c.metrics
}

// Config returns the configuration the client was dialed with.
func (c *Client) Config() *ConnectionConfig {
	return c.cfg
}

// Close closes the socket. Subsequent calls to Exec return ErrClientClosed.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	// a blocked Recv holds mu, close the socket first to release it.
	err := c.sock.Close()

	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("connection closed", "method", "Close")

	return err
}
