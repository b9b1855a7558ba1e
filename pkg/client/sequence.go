package client

import "sync/atomic"

// Sequencer guards a view against stale responses. Requests that can
// supersede each other, like successive list fetches with changing
// filters, take a sequence number before starting and check it when the
// response arrives. A response whose number is no longer the latest is
// discarded instead of overwriting fresher data.
//
//	seq := sequencer.Next()
//	list, err := api.Transactions(ctx, filters)
//	if !sequencer.Latest(seq) {
//		return
//	}
//
// The zero value is ready to use.
type Sequencer struct {
	counter atomic.Uint64
}

// Next issues the next sequence number. All previously issued numbers
// become stale.
func (s *Sequencer) Next() uint64 {
	return s.counter.Add(1)
}

// Latest reports whether seq is still the most recently issued number.
func (s *Sequencer) Latest(seq uint64) bool {
	return s.counter.Load() == seq
}
