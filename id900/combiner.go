package id900

import (
	"fmt"

	"github.com/arloliu/go-id900/scpi"
)

// Opinion selects which inputs of a combiner pass through.
type Opinion string

const (
	OnlyFirst  Opinion = "ONLYFIR"
	OnlySecond Opinion = "ONLYSEC"
	Mute       Opinion = "MUTE"
)

// Window is a pair of delays in picoseconds, relative to the trigger event,
// opening and closing the acceptance window of a combiner.
type Window struct {
	Start int64
	End   int64
}

// Width returns the length of the window.
func (w Window) Width() int64 { return w.End - w.Start }

// Combiner is a handle onto a time-stamp combiner (TSCO).
//
// Only the subset needed for coincidence filtering is modeled: the first input port carries
// the filtered stream, the begin and end window ports are both linked to the trigger.
type Combiner struct {
	handle
}

// NewCombiner returns the handle of combiner index and resets it: window enabled on rising
// edges, every input link disconnected, only the first input passed in, output muted.
func NewCombiner(c scpi.Commander, index int) (*Combiner, error) {
	h, err := newHandle(c, "TSCO", index, NumCombiners)
	if err != nil {
		return nil, err
	}

	co := &Combiner{handle: h}
	var seq sequence
	seq.do(func() error {
		return co.exec(fmt.Sprintf(
			"TSCO%[1]d:WIND:ENAB ON;BEGI:EDGE RISING;:TSCO%[1]d:WIND:END:EDGE RISING;"+
				":TSCO%[1]d:INPO:SEC:LINK NONE;:TSCO%[1]d:OPIN ONLYFIR;OPOUt MUTE;", index))
	})
	seq.do(func() error {
		return co.exec(fmt.Sprintf("TSCO%[1]d:INPO:BEGIN:LINK NONE;:TSCO%[1]d:INPO:END:LINK NONE;", index))
	})
	if seq.err != nil {
		return nil, fmt.Errorf("init %s: %w", co.Name(), seq.err)
	}

	return co, nil
}

// First returns the block linked to the first input port.
func (co *Combiner) First() (string, error) { return co.query("INPO:FIR:LINK") }

// SetFirst links b to the first input port.
func (co *Combiner) SetFirst(b Block) error { return co.set("INPO:FIR:LINK", b.Name()) }

// Trigger returns the block linked to the window begin port.
func (co *Combiner) Trigger() (string, error) { return co.query("INPO:BEGIN:LINK") }

// SetTrigger links b to both the window begin and end ports.
func (co *Combiner) SetTrigger(b Block) error {
	return co.exec(fmt.Sprintf("TSCO%[1]d:INPO:BEGIN:LINK %[2]s;:TSCO%[1]d:INPO:END:LINK %[2]s;", co.index, b.Name()))
}

// StartDelay returns the delay in picoseconds applied to the window opening.
func (co *Combiner) StartDelay() (string, error) { return co.query("WIND:BEGIN:DELAY") }

func (co *Combiner) SetStartDelay(ps int64) error { return co.set("WIND:BEGIN:DELAY", ps) }

// EndDelay returns the delay in picoseconds applied to the window closing.
func (co *Combiner) EndDelay() (string, error) { return co.query("WIND:END:DELAY") }

func (co *Combiner) SetEndDelay(ps int64) error { return co.set("WIND:END:DELAY", ps) }

// Window returns the raw start and end delays.
func (co *Combiner) Window() (start string, end string, err error) {
	if start, err = co.StartDelay(); err != nil {
		return "", "", err
	}
	if end, err = co.EndDelay(); err != nil {
		return "", "", err
	}

	return start, end, nil
}

// SetWindow sets the start delay, then the end delay.
func (co *Combiner) SetWindow(w Window) error {
	if err := co.SetStartDelay(w.Start); err != nil {
		return err
	}

	return co.SetEndDelay(w.End)
}

func (co *Combiner) OpinionIn() (string, error) { return co.query("OPIN") }

func (co *Combiner) SetOpinionIn(o Opinion) error { return co.set("OPIN", string(o)) }

func (co *Combiner) OpinionOut() (string, error) { return co.query("OPOU") }

func (co *Combiner) SetOpinionOut(o Opinion) error { return co.set("OPOU", string(o)) }

func (co *Combiner) WindowEnabled() (string, error) { return co.query("WIND:ENAB") }

func (co *Combiner) SetWindowEnabled(s State) error { return co.set("WIND:ENAB", s) }
