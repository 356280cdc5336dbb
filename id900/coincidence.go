package id900

import (
	"fmt"
)

// TriggerWidth is the width in picoseconds added to windows opened by the trigger event.
// The device rejects empty windows.
const TriggerWidth int64 = 1

// Arm is the timing of one coincidence arm relative to the trigger input:
// events are accepted from Delay to Delay+Width picoseconds after the trigger.
type Arm struct {
	Delay int64 `yaml:"delay"`
	Width int64 `yaml:"width"`
}

// End returns the latest accepted time of the arm.
func (a Arm) End() int64 { return a.Delay + a.Width }

// ThreeFoldPlan is the combiner timing of a 3-fold coincidence between the trigger
// input 1 and inputs 2 and 3.
type ThreeFoldPlan struct {
	// Process is the shared reference time: the latest window end across both arms.
	// The delayed copies of every input are emitted Process picoseconds after the event.
	Process int64
	// Windows maps a combiner index to its acceptance window.
	Windows map[int]Window
}

// PlanThreeFold computes the combiner windows for arms (d2, w2) on input 2 and (d3, w3) on input 3.
func PlanThreeFold(d2, w2, d3, w3 int64) ThreeFoldPlan {
	tp := max(d2+w2, d3+w3)
	w1 := TriggerWidth

	return ThreeFoldPlan{
		Process: tp,
		Windows: map[int]Window{
			// first level: direct inputs gated by input 1
			2: {d2, d2 + w2 + w1},
			3: {d3, d3 + w3 + w1},
			// first level: delayed copies
			5: {tp - d2 - w2, tp - d2 + w1},
			6: {tp + d2, tp + d2 + w2 + w1},
			7: {tp + d3, tp + d3 + w3 + w1},
			8: {tp - d3 - w3, tp - d3 + w1},
			// second level
			9:  {tp - d3 - w3, tp - d3 + w1},
			10: {tp - d3 - w3 + d2, tp - d3 + d2 + w2 + 1},
			11: {tp + d3 - d2 - w2, tp + d3 - d2 + w3},
		},
	}
}

// Config2FoldCoincidence routes inputs 1 and 2 into histograms 1 and 2, each one using the
// other input as stop, gated by the acquisition generator.
//
// The coincidence window is the histogram range, window is only recorded in the log.
func (d *Device) Config2FoldCoincidence(window int64) error {
	d.logger.Info("configure 2-fold coincidence", "window", window)

	var seq sequence
	for _, route := range []struct {
		combiner int
		input    int
	}{{5, 1}, {6, 2}} {
		co, in := d.Combiner(route.combiner), d.Input(route.input)
		seq.do(func() error { return co.SetFirst(in) })
		seq.do(func() error { return co.SetOpinionIn(OnlyFirst) })
		seq.do(func() error { return co.SetOpinionOut(OnlyFirst) })
		seq.do(func() error { return co.SetWindowEnabled(Off) })
	}

	gate := d.Generator(AcquisitionGate)
	for _, h := range []struct {
		hist      int
		ref, stop int
	}{{1, 5, 6}, {2, 6, 5}} {
		hi := d.Histogram(h.hist)
		seq.do(func() error { return hi.SetRef(d.Combiner(h.ref)) })
		seq.do(func() error { return hi.SetStop(d.Combiner(h.stop)) })
		seq.do(func() error { return hi.SetEnable(gate) })
	}

	if seq.err != nil {
		return fmt.Errorf("2-fold coincidence: %w", seq.err)
	}

	return nil
}

// Config3FoldCoincidence routes inputs 1, 2 and 3 through two levels of combiners so that
// histograms only see events of input 2 falling in [d2, d2+w2] and events of input 3 falling
// in [d3, d3+w3] after an event of input 1. All values are in picoseconds.
//
// Generators 1 to 3 delay a copy of inputs 1 to 3 by the plan's process time, which lets
// every leg be gated by every other leg, whatever their arrival order.
func (d *Device) Config3FoldCoincidence(d2, w2, d3, w3 int64) error {
	plan := PlanThreeFold(d2, w2, d3, w3)
	d.logger.Info("configure 3-fold coincidence",
		"d2", d2, "w2", w2, "d3", d3, "w3", w3, "process", plan.Process,
	)

	var seq sequence
	for g := 1; g <= 3; g++ {
		seq.do(func() error { return d.SetEventGenAsDelay(g, plan.Process) })
	}

	tsco := d.Combiner
	inpu := d.Input
	tsge := d.Generator

	// first level routing
	firstLevel := []struct {
		combiner       int
		first, trigger Block
	}{
		{1, inpu(1), nil},
		{2, inpu(2), inpu(1)},
		{3, inpu(3), inpu(1)},
		{5, tsge(1), inpu(2)},
		{6, tsge(2), inpu(1)},
		{7, tsge(3), inpu(1)},
		{8, tsge(1), inpu(3)},
	}
	for _, r := range firstLevel {
		seq.do(func() error { return tsco(r.combiner).SetFirst(r.first) })
	}
	for _, r := range firstLevel {
		if r.trigger != nil {
			seq.do(func() error { return tsco(r.combiner).SetTrigger(r.trigger) })
		}
	}
	for _, idx := range []int{2, 3, 5, 6, 7, 8} {
		seq.do(func() error { return tsco(idx).SetWindow(plan.Windows[idx]) })
	}

	// second level routing
	secondLevel := []struct {
		combiner       int
		first, trigger Block
	}{
		{9, tsco(5), tsco(3)},
		{10, tsco(6), tsco(3)},
		{11, tsco(7), tsco(2)},
	}
	for _, r := range secondLevel {
		seq.do(func() error { return tsco(r.combiner).SetFirst(r.first) })
	}
	for _, r := range secondLevel {
		seq.do(func() error { return tsco(r.combiner).SetTrigger(r.trigger) })
	}
	for _, r := range secondLevel {
		seq.do(func() error { return tsco(r.combiner).SetWindow(plan.Windows[r.combiner]) })
	}

	gate := tsge(AcquisitionGate)
	for _, h := range []struct {
		hist      int
		ref, stop Block
	}{
		{1, tsco(5), tsco(6)},
		{2, tsco(8), tsco(7)},
		{3, tsco(9), tsco(10)},
		{4, nil, tsco(2)},
	} {
		hi := d.Histogram(h.hist)
		if h.ref != nil {
			seq.do(func() error { return hi.SetRef(h.ref) })
		}
		seq.do(func() error { return hi.SetStop(h.stop) })
		seq.do(func() error { return hi.SetEnable(gate) })
	}

	if seq.err != nil {
		return fmt.Errorf("3-fold coincidence: %w", seq.err)
	}

	return nil
}
