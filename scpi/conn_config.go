package scpi

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/arloliu/go-id900/logger"
)

// DefaultPort is the TCP port of the instrument's command interpreter.
const DefaultPort = 5555

// ConnectionConfig represents the configuration parameters of a command channel.
type ConnectionConfig struct {
	mu sync.RWMutex

	// host specifies the host of the instrument.
	host string

	// port specifies the TCP port of the command interpreter.
	// Defaults to 5555.
	port int

	// dialTimeout defines the timeout for connecting to the instrument. It should be between 1 and 60 seconds.
	// Defaults to 5 seconds.
	dialTimeout time.Duration

	// logger provides a logger instance for logging command exchanges.
	logger logger.Logger
}

// NewConnectionConfig creates a new command channel configuration with the given host and optional
// functional options.
//
// Returns a pointer to the initialized ConnectionConfig and an error if any option is invalid.
func NewConnectionConfig(host string, opts ...ConnOption) (*ConnectionConfig, error) {
	cfg := &ConnectionConfig{
		port:        DefaultPort,
		dialTimeout: 5 * time.Second,
		logger:      logger.GetLogger(),
	}

	if err := withHost(host).apply(cfg); err != nil {
		return cfg, err
	}

	for _, opt := range opts {
		if err := opt.apply(cfg); err != nil {
			return cfg, err
		}
	}

	return cfg, nil
}

// Host returns the instrument host.
func (cfg *ConnectionConfig) Host() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.host
}

// Port returns the command interpreter port.
func (cfg *ConnectionConfig) Port() int {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.port
}

// DialTimeout returns the connect timeout.
func (cfg *ConnectionConfig) DialTimeout() time.Duration {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.dialTimeout
}

// Logger returns the logger of the command channel.
func (cfg *ConnectionConfig) Logger() logger.Logger {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return cfg.logger
}

// Endpoint returns the ZeroMQ endpoint of the instrument, e.g. "tcp://192.168.1.10:5555".
func (cfg *ConnectionConfig) Endpoint() string {
	cfg.mu.RLock()
	defer cfg.mu.RUnlock()

	return "tcp://" + net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))
}

// ConnOption represents a functional option for configuring a ConnectionConfig.
type ConnOption interface {
	apply(*ConnectionConfig) error
}

type connOptFunc struct {
	name      string
	applyFunc func(*ConnectionConfig) error
}

func (c *connOptFunc) apply(cfg *ConnectionConfig) error {
	if cfg == nil {
		return ErrConnConfigNil
	}

	cfg.mu.Lock()
	defer cfg.mu.Unlock()

	if err := c.applyFunc(cfg); err != nil {
		return fmt.Errorf("%s: %w", c.name, err)
	}

	return nil
}

func newConnOptFunc(name string, f func(*ConnectionConfig) error) *connOptFunc {
	return &connOptFunc{name: name, applyFunc: f}
}

// withHost sets the instrument host. It accepts an IP address or a syntactically valid host name,
// name resolution is left to the dialer.
func withHost(host string) ConnOption {
	return newConnOptFunc("withHost", func(cfg *ConnectionConfig) error {
		if ip := net.ParseIP(host); ip != nil {
			cfg.host = host
			return nil
		}

		host = strings.TrimSuffix(strings.TrimPrefix(host, "."), ".")
		if !isHostName(host) {
			return errors.New("invalid host")
		}
		cfg.host = host

		return nil
	})
}

// WithPort sets the TCP port of the command interpreter.
// An error is returned if the port number is out of the valid range (1-65535).
//
// The default port is 5555.
func WithPort(port int) ConnOption {
	return newConnOptFunc("WithPort", func(cfg *ConnectionConfig) error {
		if port < 1 || port > 65535 {
			return errors.New("port is out of range [1, 65535]")
		}
		cfg.port = port

		return nil
	})
}

// WithDialTimeout sets the timeout for connecting to the instrument.
// An error is returned if the timeout is not between 1 and 60 seconds.
//
// The default timeout is 5 seconds.
func WithDialTimeout(timeout time.Duration) ConnOption {
	return newConnOptFunc("WithDialTimeout", func(cfg *ConnectionConfig) error {
		if timeout < time.Second || timeout > 60*time.Second {
			return errors.New("dial timeout out of range [1, 60]")
		}
		cfg.dialTimeout = timeout

		return nil
	})
}

// WithLogger sets the logger used by the command channel.
// A nil logger keeps the current one.
func WithLogger(l logger.Logger) ConnOption {
	return newConnOptFunc("WithLogger", func(cfg *ConnectionConfig) error {
		if l != nil {
			cfg.logger = l
		}

		return nil
	})
}

func isHostName(host string) bool {
	if host == "" || len(host) > 253 {
		return false
	}

	for _, label := range strings.Split(host, ".") {
		if label == "" || len(label) > 63 {
			return false
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return false
		}
		for _, r := range label {
			if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') && (r < '0' || r > '9') && r != '-' {
				return false
			}
		}
	}

	return true
}
