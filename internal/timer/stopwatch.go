// Package timer implements the work-session stopwatch.
package timer

import (
	"fmt"
	"sync"
	"time"
)

// TickSource starts a ticker and returns its channel and a stop function.
type TickSource func() (<-chan time.Time, func())

// SecondTicker is the production TickSource.
func SecondTicker() (<-chan time.Time, func()) {
	t := time.NewTicker(time.Second)
	return t.C, t.Stop
}

// Stopwatch counts whole seconds while running. Elapsed time is purely
// additive: stopping keeps it, Reset clears it.
type Stopwatch struct {
	mu      sync.Mutex
	elapsed int
	running bool
	quit    chan struct{}
	done    chan struct{}
	ticks   TickSource
}

// New returns a stopped stopwatch. A nil source means SecondTicker.
func New(source TickSource) *Stopwatch {
	if source == nil {
		source = SecondTicker
	}
	return &Stopwatch{ticks: source}
}

// Start begins counting. It is a no-op when already running.
func (s *Stopwatch) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.running = true
	s.quit = make(chan struct{})
	s.done = make(chan struct{})

	c, stop := s.ticks()
	go s.loop(c, stop, s.quit, s.done)
}

func (s *Stopwatch) loop(c <-chan time.Time, stop func(), quit, done chan struct{}) {
	defer close(done)
	defer stop()
	for {
		select {
		case <-quit:
			return
		case <-c:
			s.Tick()
		}
	}
}

// Tick adds one second if the stopwatch is running.
func (s *Stopwatch) Tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		s.elapsed++
	}
}

// Stop pauses counting and waits for the ticker goroutine to exit.
func (s *Stopwatch) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	quit, done := s.quit, s.done
	s.mu.Unlock()

	close(quit)
	<-done
}

// Toggle starts a stopped stopwatch and stops a running one.
func (s *Stopwatch) Toggle() {
	if s.Running() {
		s.Stop()
		return
	}
	s.Start()
}

// Reset stops the stopwatch and clears the elapsed time.
func (s *Stopwatch) Reset() {
	s.Stop()
	s.mu.Lock()
	s.elapsed = 0
	s.mu.Unlock()
}

// Running reports whether the stopwatch is counting.
func (s *Stopwatch) Running() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.running
}

// Elapsed returns the counted seconds.
func (s *Stopwatch) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// DurationMinutes converts the elapsed time to whole minutes, rounding up.
// A used stopwatch always yields at least one minute; an unused one yields 0.
func (s *Stopwatch) DurationMinutes() int {
	return Minutes(s.Elapsed())
}

// Resolve picks the duration to save: the stopwatch reading when it was
// used, otherwise manual clamped at zero.
func (s *Stopwatch) Resolve(manual int) int {
	if s.Elapsed() > 0 {
		return s.DurationMinutes()
	}
	return max(0, manual)
}

// Minutes rounds seconds up to whole minutes, with a floor of one minute
// for any positive input.
func Minutes(seconds int) int {
	if seconds <= 0 {
		return 0
	}
	return max(1, (seconds+59)/60)
}

// Format renders seconds as MM:SS, or H:MM:SS from one hour on.
func Format(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	h, m, sec := seconds/3600, (seconds%3600)/60, seconds%60
	if h > 0 {
		return fmt.Sprintf("%d:%02d:%02d", h, m, sec)
	}
	return fmt.Sprintf("%02d:%02d", m, sec)
}
