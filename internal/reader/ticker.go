package reader

import (
	"sync"
	"time"
)

// Ticker owns the playback loop for a session shared between a UI thread and
// the timing goroutine; all session access goes through its methods. The
// pending wait is interruptible: operations that reschedule playback poke the
// loop awake, so a speed change or resume fires its tick immediately instead
// of waiting out the interval armed at the old pace.
type Ticker struct {
	mu   sync.Mutex
	s    *Session
	gen  int
	wake chan struct{}
	done chan struct{}
	stop sync.Once

	onTick func(TickResult)
}

// Snapshot is a consistent read of the playback state for display.
type Snapshot struct {
	Word    string
	Current int
	Total   int
	WPM     int
	Playing bool
}

// NewTicker starts the playback loop. onTick runs on the loop goroutine after
// every live tick; callers marshal to their UI thread themselves.
func NewTicker(s *Session, onTick func(TickResult)) *Ticker {
	t := &Ticker{
		s:      s,
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		onTick: onTick,
	}
	go t.loop()
	return t
}

func (t *Ticker) loop() {
	for {
		t.mu.Lock()
		delay := t.s.Delay()
		t.mu.Unlock()

		timer := time.NewTimer(delay)
		select {
		case <-t.done:
			timer.Stop()
			return
		case <-t.wake:
			// Rescheduled: tick now instead of waiting out the old interval.
			timer.Stop()
		case <-timer.C:
		}

		t.mu.Lock()
		res, next := t.s.Tick(t.gen)
		if res == TickAdvanced {
			t.gen = next
		}
		t.mu.Unlock()
		if res != TickStale && t.onTick != nil {
			t.onTick(res)
		}
	}
}

// poke wakes the loop without blocking; at most one poke is ever queued.
func (t *Ticker) poke() {
	select {
	case t.wake <- struct{}{}:
	default:
	}
}

// Stop ends the loop. Safe to call more than once.
func (t *Ticker) Stop() {
	t.stop.Do(func() { close(t.done) })
}

// Toggle flips play/pause, reporting the new state. Starting fires the first
// tick immediately.
func (t *Ticker) Toggle() bool {
	t.mu.Lock()
	gen, playing := t.s.TogglePlayPause()
	if playing {
		t.gen = gen
	}
	t.mu.Unlock()
	if playing {
		t.poke()
	}
	return playing
}

// Pause stops playback; the pending wait goes stale and is dropped.
func (t *Ticker) Pause() {
	t.mu.Lock()
	t.s.Pause()
	t.mu.Unlock()
}

// AdjustWPM changes the pace by delta. While playing the pending wait is
// abandoned and the next word fires immediately at the new pace.
func (t *Ticker) AdjustWPM(delta int) {
	t.mu.Lock()
	gen, resched := t.s.SetWPM(t.s.WPM + delta)
	if resched {
		t.gen = gen
	}
	t.mu.Unlock()
	if resched {
		t.poke()
	}
}

// Seek moves to a word and pauses.
func (t *Ticker) Seek(i int) {
	t.mu.Lock()
	t.s.Seek(i)
	t.mu.Unlock()
}

// Reset rewinds to the start and pauses.
func (t *Ticker) Reset() {
	t.mu.Lock()
	t.s.Reset()
	t.mu.Unlock()
}

// Swap replaces the session, paused at its starting position.
func (t *Ticker) Swap(s *Session) {
	t.mu.Lock()
	t.s.Pause()
	t.s = s
	t.gen = 0
	t.mu.Unlock()
}

// Snapshot returns the display state under one lock acquisition.
func (t *Ticker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return Snapshot{
		Word:    t.s.CurrentWord(),
		Current: t.s.Current,
		Total:   t.s.Len(),
		WPM:     t.s.WPM,
		Playing: t.s.Playing(),
	}
}

// Text returns the title and canonical content for saving.
func (t *Ticker) Text() (title, content string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.s.Title, t.s.Content()
}
