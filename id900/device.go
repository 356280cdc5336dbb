package id900

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/arloliu/go-id900/logger"
	"github.com/arloliu/go-id900/scpi"
)

// Device is the ID900 time controller, holding the handles of all its blocks.
type Device struct {
	c      scpi.Commander
	logger logger.Logger

	inputs     []*Input
	combiners  []*Combiner
	histograms []*Histogram
	generators []*Generator
}

// Option configures a Device.
type Option func(*Device)

// WithLogger sets the logger of the device. A nil logger keeps the default one.
func WithLogger(l logger.Logger) Option {
	return func(d *Device) {
		if l != nil {
			d.logger = l
		}
	}
}

// New creates the device on top of c and resets the inputs, combiners and histograms
// to their default state, in that order.
func New(c scpi.Commander, opts ...Option) (*Device, error) {
	if c == nil {
		return nil, ErrCommanderNil
	}

	d := &Device{
		c:          c,
		logger:     logger.GetLogger(),
		inputs:     make([]*Input, NumInputs),
		combiners:  make([]*Combiner, NumCombiners),
		histograms: make([]*Histogram, NumHistograms),
		generators: make([]*Generator, NumGenerators),
	}
	for _, opt := range opts {
		opt(d)
	}

	var err error
	for i := range d.inputs {
		if d.inputs[i], err = NewInput(c, i+1); err != nil {
			return nil, err
		}
	}
	for i := range d.combiners {
		if d.combiners[i], err = NewCombiner(c, i+1); err != nil {
			return nil, err
		}
	}
	for i := range d.histograms {
		if d.histograms[i], err = NewHistogram(c, i+1); err != nil {
			return nil, err
		}
	}
	for i := range d.generators {
		if d.generators[i], err = NewGenerator(c, i+1); err != nil {
			return nil, err
		}
	}

	d.logger.Info("device initialized",
		"inputs", NumInputs,
		"combiners", NumCombiners,
		"histograms", NumHistograms,
	)

	return d, nil
}

// Connect dials the instrument at host and creates the device on the connection.
// The connection logger is used for the device too.
func Connect(ctx context.Context, host string, opts ...scpi.ConnOption) (*Device, error) {
	cfg, err := scpi.NewConnectionConfig(host, opts...)
	if err != nil {
		return nil, err
	}

	client, err := scpi.Dial(ctx, cfg)
	if err != nil {
		return nil, err
	}

	d, err := New(client, WithLogger(cfg.Logger()))
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	return d, nil
}

// Commander returns the command channel of the device.
func (d *Device) Commander() scpi.Commander { return d.c }

// Input returns input index (1-based), or nil if index is out of range.
func (d *Device) Input(index int) *Input { return at(d.inputs, index) }

// Combiner returns combiner index (1-based), or nil if index is out of range.
func (d *Device) Combiner(index int) *Combiner { return at(d.combiners, index) }

// Histogram returns histogram index (1-based), or nil if index is out of range.
func (d *Device) Histogram(index int) *Histogram { return at(d.histograms, index) }

// Generator returns generator index (1-based), or nil if index is out of range.
func (d *Device) Generator(index int) *Generator { return at(d.generators, index) }

func at[T any](blocks []*T, index int) *T {
	if index < 1 || index > len(blocks) {
		return nil
	}

	return blocks[index-1]
}

// FlushHistograms clears all histograms.
func (d *Device) FlushHistograms() error {
	for _, hi := range d.histograms {
		if err := hi.Flush(); err != nil {
			return fmt.Errorf("flush %s: %w", hi.Name(), err)
		}
	}

	return nil
}

// AcquisitionGate is the generator gating the histograms during an acquisition.
const AcquisitionGate = 8

// EnableSampling restarts the acquisition gate with a one-shot pulse of the given length.
func (d *Device) EnableSampling(acquisition time.Duration) error {
	gate := d.Generator(AcquisitionGate)

	var seq sequence
	seq.do(func() error { return gate.SetEnabled(Off) })
	seq.do(func() error { return gate.SetOneShotWidth(toPicoseconds(acquisition)) })
	seq.do(func() error { return gate.SetEnabled(On) })
	if seq.err != nil {
		return fmt.Errorf("enable sampling: %w", seq.err)
	}

	d.logger.Info("sampling enabled", "acquisition", acquisition)

	return nil
}

// SetEventGenAsDelay uses generator ev as a delay line of delay picoseconds for input ev.
func (d *Device) SetEventGenAsDelay(ev int, delay int64) error {
	g, in := d.Generator(ev), d.Input(ev)
	if g == nil || in == nil {
		return fmt.Errorf("event generator %d: %w", ev, ErrInvalidIndex)
	}

	return g.SetAsDelay(in, delay)
}

// SetInputDelay sets the delay of input num in picoseconds.
func (d *Device) SetInputDelay(num int, delay int64) error {
	in := d.Input(num)
	if in == nil {
		return fmt.Errorf("input %d: %w", num, ErrInvalidIndex)
	}

	return in.SetDelay(delay)
}

// HistData returns the bin counts of histograms 1 to num; counts of histogram i are at index i-1.
func (d *Device) HistData(num int) ([][]uint64, error) {
	if num < 0 || num > NumHistograms {
		return nil, fmt.Errorf("histogram count %d: %w", num, ErrInvalidIndex)
	}

	data := make([][]uint64, num)
	for i := range data {
		counts, err := d.histograms[i].Counts()
		if err != nil {
			return nil, err
		}
		data[i] = counts
	}

	return data, nil
}

// Close closes the command channel if it can be closed.
func (d *Device) Close() error {
	if closer, ok := d.c.(io.Closer); ok {
		return closer.Close()
	}

	return nil
}

func toPicoseconds(d time.Duration) int64 {
	return d.Nanoseconds() * 1000
}
