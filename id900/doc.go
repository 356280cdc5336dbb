// Package id900 provides handles onto the functional blocks of an ID900-class time controller
// and the routines that wire them for coincidence counting.
//
// Every block handle is a stateless proxy identified by its kind and index:
//
//   - Input (INPU1..4): discriminator inputs.
//   - Combiner (TSCO1..24): time-stamp combiners, gating a stream by a window opened by another.
//   - Histogram (HIST1..4): accumulators binning time differences between two linked streams.
//   - Generator (TSGE1..8): event generators, used as delay lines and as the acquisition gate.
//
// Setters send the set form of the block command, getters send the query form and return the
// raw reply string; nothing is cached, every read is a live query. Handles render their link
// name (e.g. "tsco5") through the Block interface, which is how blocks are linked together:
//
//	dev, err := id900.Connect(ctx, "192.168.1.10")
//	if err != nil {
//		return err
//	}
//	defer dev.Close()
//
//	if err := dev.Config3FoldCoincidence(1000, 500, 2000, 500); err != nil {
//		return err
//	}
//	if err := dev.EnableSampling(time.Second); err != nil {
//		return err
//	}
//	counts, err := dev.HistData(4)
package id900
