package id900

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/go-id900/logger"
)

func TestNew(t *testing.T) {
	require := require.New(t)

	rec := newRecorder()
	d, err := New(rec)
	require.NoError(err)
	require.Same(rec, d.Commander())

	// 4 inputs, 24 combiners with two commands each, 4 histograms
	require.Len(rec.cmds, 4+24*2+4)
	require.Equal("INPU1:ENAB ON;COUP DC;EDGE RISI;DELAY 0;MODE LOWRES;", rec.cmds[0])
	require.Equal("INPU4:ENAB ON;COUP DC;EDGE RISI;DELAY 0;MODE LOWRES;", rec.cmds[3])
	require.Equal("TSCO1:INPO:BEGIN:LINK NONE;:TSCO1:INPO:END:LINK NONE;", rec.cmds[5])
	require.Equal("HIST1:MIN 0;BWID 100;BCOU 400", rec.cmds[52])
	require.Equal("HIST4:MIN 0;BWID 100;BCOU 400", rec.cmds[55])

	for i := 1; i <= NumInputs; i++ {
		require.Equal(fmt.Sprintf("inpu%d", i), d.Input(i).Name())
	}
	for i := 1; i <= NumCombiners; i++ {
		require.Equal(i, d.Combiner(i).Index())
	}
	require.Equal("hist4", d.Histogram(4).Name())
	require.Equal("tsge8", d.Generator(8).Name())

	require.Nil(d.Input(0))
	require.Nil(d.Input(5))
	require.Nil(d.Combiner(25))
	require.Nil(d.Histogram(5))
	require.Nil(d.Generator(9))
}

func TestNewErrors(t *testing.T) {
	require := require.New(t)

	_, err := New(nil)
	require.ErrorIs(err, ErrCommanderNil)

	rec := newRecorder()
	rec.failAt = 10
	_, err = New(rec)
	require.ErrorIs(err, errLinkDown)
	require.Len(rec.cmds, 10)
}

func TestNewWithLogger(t *testing.T) {
	m := logger.NewMockLogger()
	m.On("Info", "device initialized", []any{"inputs", NumInputs, "combiners", NumCombiners, "histograms", NumHistograms}).
		Return().Once()

	_, err := New(newRecorder(), WithLogger(m))
	require.NoError(t, err)
	m.AssertExpectations(t)
}

func TestFlushHistograms(t *testing.T) {
	d, rec := newTestDevice(t)

	require.NoError(t, d.FlushHistograms())
	require.Equal(t, []string{"HIST1:FLUS", "HIST2:FLUS", "HIST3:FLUS", "HIST4:FLUS"}, rec.cmds)

	rec.reset()
	rec.failAt = 2
	err := d.FlushHistograms()
	require.ErrorIs(t, err, errLinkDown)
	require.EqualError(t, err, "flush hist3: link down")
}

func TestEnableSampling(t *testing.T) {
	d, rec := newTestDevice(t)

	require.NoError(t, d.EnableSampling(2*time.Second))
	require.Equal(t, []string{
		"TSGE8:ENAB OFF",
		"TSGE8:ONES:PWID 2000000000000",
		"TSGE8:ENAB ON",
	}, rec.cmds)

	rec.reset()
	require.NoError(t, d.EnableSampling(1500*time.Microsecond))
	require.Equal(t, "TSGE8:ONES:PWID 1500000000", rec.cmds[1])
}

func TestSetEventGenAsDelay(t *testing.T) {
	d, rec := newTestDevice(t)

	require.NoError(t, d.SetEventGenAsDelay(3, 700))
	require.Equal(t, []string{
		"TSGE3:ENAB ON;:TSGE3:TRIG:INPO:LINK INPU3;:TSGE3:MODE SPULSE;TRIG:MODE INPORT;DELAY 700;:TSGE3:SPUL:PWID 4000;",
	}, rec.cmds)

	// generators 5-8 have no matching input
	require.ErrorIs(t, d.SetEventGenAsDelay(5, 700), ErrInvalidIndex)
	require.ErrorIs(t, d.SetEventGenAsDelay(0, 700), ErrInvalidIndex)
}

func TestSetInputDelay(t *testing.T) {
	d, rec := newTestDevice(t)

	require.NoError(t, d.SetInputDelay(2, 12000))
	require.Equal(t, []string{"INPU2:DELAY 12000"}, rec.cmds)
	require.ErrorIs(t, d.SetInputDelay(7, 1), ErrInvalidIndex)
}

func TestHistData(t *testing.T) {
	require := require.New(t)
	d, rec := newTestDevice(t)

	rec.replies["HIST1:DATA?"] = "[1,2,3]"
	rec.replies["HIST2:DATA?"] = "[4,5,6]"

	data, err := d.HistData(2)
	require.NoError(err)
	require.Equal([][]uint64{{1, 2, 3}, {4, 5, 6}}, data)
	require.Equal([]string{"HIST1:DATA?", "HIST2:DATA?"}, rec.cmds)

	data, err = d.HistData(0)
	require.NoError(err)
	require.Empty(data)

	_, err = d.HistData(5)
	require.ErrorIs(err, ErrInvalidIndex)

	rec.replies["HIST3:DATA?"] = "oops"
	_, err = d.HistData(3)
	require.ErrorIs(err, ErrMalformedData)
}

type closingRecorder struct {
	*recorder
	closed bool
	err    error
}

func (c *closingRecorder) Close() error {
	c.closed = true
	return c.err
}

func TestClose(t *testing.T) {
	require := require.New(t)

	d, _ := newTestDevice(t)
	require.NoError(d.Close())

	c := &closingRecorder{recorder: newRecorder(), err: errors.New("busy")}
	d, err := New(c)
	require.NoError(err)
	require.EqualError(d.Close(), "busy")
	require.True(c.closed)
}
