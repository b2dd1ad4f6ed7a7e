package cmd

import (
	"fmt"
	"math"
	"time"
)

// stats aggregates per-repetition timings of one benchmark.
type stats struct {
	min, max, total time.Duration
	reps            int
}

// runRepetitions times fn: inner calls back to back form one repetition,
// repeated outer times. Reported durations are per inner call.
func runRepetitions(inner, outer int, fn func()) stats {
	s := stats{min: time.Duration(math.MaxInt64)}
	for range outer {
		start := time.Now()
		for range inner {
			fn()
		}
		d := time.Since(start) / time.Duration(inner)
		if d < s.min {
			s.min = d
		}
		if d > s.max {
			s.max = d
		}
		s.total += d
		s.reps++
	}
	return s
}

func (s stats) mean() time.Duration {
	if s.reps == 0 {
		return 0
	}
	return s.total / time.Duration(s.reps)
}

func (s stats) String() string {
	return fmt.Sprintf("min=%v mean=%v max=%v (%d repetitions)", s.min, s.mean(), s.max, s.reps)
}
