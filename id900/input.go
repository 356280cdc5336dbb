package id900

import (
	"fmt"

	"github.com/arloliu/go-id900/scpi"
)

// Coupling is the input coupling.
type Coupling string

const (
	AC Coupling = "AC"
	DC Coupling = "DC"
)

// Edge is the discriminator edge.
type Edge string

const (
	Rising  Edge = "RISING"
	Falling Edge = "FALLING"
)

// Mode selects between high resolution and high speed.
type Mode string

const (
	HighRes Mode = "HIRES"
	LowRes  Mode = "LOWRES"
)

// Input is a handle onto a discriminator input (INPU).
type Input struct {
	handle
}

// NewInput returns the handle of input index and resets it to enabled, DC coupled,
// rising edge, zero delay and low resolution mode.
func NewInput(c scpi.Commander, index int) (*Input, error) {
	h, err := newHandle(c, "INPU", index, NumInputs)
	if err != nil {
		return nil, err
	}

	in := &Input{handle: h}
	if err := in.exec(fmt.Sprintf("INPU%d:ENAB ON;COUP DC;EDGE RISI;DELAY 0;MODE LOWRES;", index)); err != nil {
		return nil, fmt.Errorf("init %s: %w", in.Name(), err)
	}

	return in, nil
}

func (in *Input) Enabled() (string, error) { return in.query("ENAB") }

func (in *Input) SetEnabled(s State) error { return in.set("ENAB", s) }

// Counter returns the number of events counted by the input.
func (in *Input) Counter() (string, error) { return in.query("COUN") }

func (in *Input) Coupling() (string, error) { return in.query("COUP") }

func (in *Input) SetCoupling(c Coupling) error { return in.set("COUP", string(c)) }

func (in *Input) Edge() (string, error) { return in.query("EDGE") }

func (in *Input) SetEdge(e Edge) error { return in.set("EDGE", string(e)) }

// Threshold returns the discriminator threshold in volts.
func (in *Input) Threshold() (string, error) { return in.query("THRE") }

// SetThreshold sets the discriminator threshold in volts, the device accepts -2V to 2V.
func (in *Input) SetThreshold(volts float64) error { return in.set("THRE", volts) }

// Delay returns the input delay in picoseconds.
func (in *Input) Delay() (string, error) { return in.query("DELAY") }

// SetDelay sets the input delay in picoseconds.
func (in *Input) SetDelay(ps int64) error { return in.set("DELAY", ps) }

func (in *Input) Mode() (string, error) { return in.query("MODE") }

func (in *Input) SetMode(m Mode) error { return in.set("MODE", string(m)) }

// State returns the state of the block.
func (in *Input) State() (string, error) { return in.query("STAT") }
