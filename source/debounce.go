package source

import "time"

// debouncer is a one-shot timer pushed back by every reset.
type debouncer struct {
	d time.Duration
	t *time.Timer
}

// reset (re)arms the timer for the full delay and returns its channel. A
// tick left undelivered by an earlier expiry is discarded.
func (b *debouncer) reset() <-chan time.Time {
	if b.t == nil {
		b.t = time.NewTimer(b.d)
		return b.t.C
	}
	if !b.t.Stop() {
		select {
		case <-b.t.C:
		default:
		}
	}
	b.t.Reset(b.d)
	return b.t.C
}

func (b *debouncer) stop() {
	if b.t != nil {
		b.t.Stop()
	}
}
