package id900

import (
	"fmt"
	"strings"

	"github.com/arloliu/go-id900/scpi"
)

// Generator is a handle onto an event generator (TSGE).
//
// Generators are not reset on construction, their state is driven by SetAsDelay
// and by the acquisition gate of the device.
type Generator struct {
	handle
}

// NewGenerator returns the handle of generator index without sending any command.
func NewGenerator(c scpi.Commander, index int) (*Generator, error) {
	h, err := newHandle(c, "TSGE", index, NumGenerators)
	if err != nil {
		return nil, err
	}

	return &Generator{handle: h}, nil
}

func (g *Generator) Enabled() (string, error) { return g.query("ENAB") }

func (g *Generator) SetEnabled(s State) error { return g.set("ENAB", s) }

// OneShotWidth returns the one-shot pulse width in picoseconds.
func (g *Generator) OneShotWidth() (string, error) { return g.query("ONES:PWID") }

// SetOneShotWidth sets the one-shot pulse width in picoseconds.
func (g *Generator) SetOneShotWidth(ps int64) error { return g.set("ONES:PWID", ps) }

// SetAsDelay turns the generator into a delay line: every event of input triggers a
// single 4ns pulse delayed by delay picoseconds.
func (g *Generator) SetAsDelay(input Block, delay int64) error {
	return g.exec(fmt.Sprintf(
		"TSGE%[1]d:ENAB ON;:TSGE%[1]d:TRIG:INPO:LINK %[2]s;:TSGE%[1]d:MODE SPULSE;"+
			"TRIG:MODE INPORT;DELAY %[3]d;:TSGE%[1]d:SPUL:PWID 4000;",
		g.index, strings.ToUpper(input.Name()), delay))
}
