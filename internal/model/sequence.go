package model

import "fmt"

// Sequence hands out deterministic identifiers for a single generation run.
// It is not safe for concurrent use; each run owns its own Sequence.
type Sequence struct {
	counters map[string]int
}

// NewSequence returns an empty Sequence.
func NewSequence() *Sequence {
	return &Sequence{counters: map[string]int{}}
}

// Next returns the next identifier for prefix, e.g. "sec_1".
func (s *Sequence) Next(prefix string) string {
	s.counters[prefix]++
	return fmt.Sprintf("%s_%d", prefix, s.counters[prefix])
}
