package id900

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/arloliu/go-id900/scpi"
)

// Histogram is a handle onto a histogram accumulator (HIST).
//
// It bins the time differences between events of the reference stream and the stop stream
// while the enable link is high.
type Histogram struct {
	handle
}

// NewHistogram returns the handle of histogram index and resets its range
// to 400 bins of 100ps starting at 0.
func NewHistogram(c scpi.Commander, index int) (*Histogram, error) {
	h, err := newHandle(c, "HIST", index, NumHistograms)
	if err != nil {
		return nil, err
	}

	hi := &Histogram{handle: h}
	if err := hi.exec(fmt.Sprintf("HIST%d:MIN 0;BWID 100;BCOU 400", index)); err != nil {
		return nil, fmt.Errorf("init %s: %w", hi.Name(), err)
	}

	return hi, nil
}

// Ref returns the block providing the reference (start) timestamps.
func (hi *Histogram) Ref() (string, error) { return hi.query("INPO:REF:LINK") }

func (hi *Histogram) SetRef(b Block) error { return hi.set("INPO:REF:LINK", b.Name()) }

// Stop returns the block providing the stop timestamps.
func (hi *Histogram) Stop() (string, error) { return hi.query("INPO:STOP:LINK") }

func (hi *Histogram) SetStop(b Block) error { return hi.set("INPO:STOP:LINK", b.Name()) }

// Enable returns the block gating the accumulation.
func (hi *Histogram) Enable() (string, error) { return hi.query("ENAB:LINK") }

func (hi *Histogram) SetEnable(b Block) error { return hi.set("ENAB:LINK", b.Name()) }

// Min returns the lower bound of the first bin in picoseconds.
func (hi *Histogram) Min() (string, error) { return hi.query("MIN") }

func (hi *Histogram) SetMin(ps int64) error { return hi.set("MIN", ps) }

// BinWidth returns the bin width in picoseconds.
func (hi *Histogram) BinWidth() (string, error) { return hi.query("BWID") }

func (hi *Histogram) SetBinWidth(ps int64) error { return hi.set("BWID", ps) }

// BinCount returns the number of bins.
func (hi *Histogram) BinCount() (string, error) { return hi.query("BCOU") }

func (hi *Histogram) SetBinCount(n int) error { return hi.set("BCOU", n) }

// Data returns the raw bin counts reply.
func (hi *Histogram) Data() (string, error) { return hi.query("DATA") }

// Counts returns the decoded bin counts.
func (hi *Histogram) Counts() ([]uint64, error) {
	reply, err := hi.Data()
	if err != nil {
		return nil, err
	}

	counts, err := ParseHistData(reply)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", hi.Name(), err)
	}

	return counts, nil
}

// Flush clears the accumulated bins.
func (hi *Histogram) Flush() error { return hi.exec(hi.prefix() + ":FLUS") }

// Stat returns the state of the accumulator.
func (hi *Histogram) Stat() (string, error) { return hi.query("STAT") }

// ParseHistData decodes a histogram data reply: comma separated counts,
// optionally enclosed in square brackets, e.g. "[0, 12, 3]".
func ParseHistData(reply string) ([]uint64, error) {
	s := strings.TrimSpace(reply)
	if strings.HasPrefix(s, "[") != strings.HasSuffix(s, "]") {
		return nil, fmt.Errorf("%w: unbalanced brackets", ErrMalformedData)
	}
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimPrefix(s, "["), "]"))
	if s == "" {
		return []uint64{}, nil
	}

	fields := strings.Split(s, ",")
	counts := make([]uint64, len(fields))
	for i, field := range fields {
		n, err := strconv.ParseUint(strings.TrimSpace(field), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: bin %d: %w", ErrMalformedData, i, err)
		}
		counts[i] = n
	}

	return counts, nil
}
