package id900

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/go-id900/scpi"
)

// Block counts of the device.
const (
	NumInputs     = 4
	NumCombiners  = 24
	NumHistograms = 4
	NumGenerators = 8
)

// Block is anything that can be used as the source of a block link.
type Block interface {
	// Name returns the link name of the block, e.g. "inpu1" or "tsco5".
	Name() string
}

// Link is a block referenced by its link name.
type Link string

// None disconnects a link.
const None Link = "NONE"

func (l Link) Name() string   { return string(l) }
func (l Link) String() string { return string(l) }

// State is an ON/OFF switch value.
type State string

const (
	On  State = "ON"
	Off State = "OFF"
)

func (s State) String() string { return string(s) }

// handle addresses one numbered block.
type handle struct {
	c     scpi.Commander
	kind  string // command mnemonic, e.g. "TSCO"
	index int
}

func newHandle(c scpi.Commander, kind string, index int, count int) (handle, error) {
	if c == nil {
		return handle{}, ErrCommanderNil
	}
	if index < 1 || index > count {
		return handle{}, fmt.Errorf("%s%d: %w [1, %d]", kind, index, ErrInvalidIndex, count)
	}

	return handle{c: c, kind: kind, index: index}, nil
}

// Index returns the block number.
func (h handle) Index() int { return h.index }

// Name returns the link name of the block.
func (h handle) Name() string { return strings.ToLower(h.prefix()) }

func (h handle) String() string { return h.Name() }

// prefix returns the command prefix of the block, e.g. "TSCO5".
func (h handle) prefix() string { return h.kind + strconv.Itoa(h.index) }

func (h handle) query(node string) (string, error) {
	return h.c.Exec(scpi.Query(h.prefix() + ":" + node))
}

func (h handle) set(node string, args ...any) error {
	_, err := h.c.Exec(scpi.Set(h.prefix()+":"+node, args...))
	return err
}

// exec sends a raw compound command; the reply is discarded.
func (h handle) exec(cmd string) error {
	_, err := h.c.Exec(cmd)
	return err
}

// sequence runs steps until the first failure.
type sequence struct {
	err error
}

func (s *sequence) do(step func() error) {
	if s.err != nil {
		return
	}
	s.err = step()
}
