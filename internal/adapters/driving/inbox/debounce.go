package inbox

import (
	"context"
	"sync"
	"time"
)

// DefaultDebounce is how long a file must stay quiet before it is ingested.
const DefaultDebounce = 500 * time.Millisecond

// debouncer coalesces bursts of events per path. A path is delivered on
// ready once no event touched it for delay.
type debouncer struct {
	ctx   context.Context
	delay time.Duration
	ready chan string

	mu     sync.Mutex
	timers map[string]*time.Timer
}

func newDebouncer(ctx context.Context, delay time.Duration) *debouncer {
	return &debouncer{
		ctx:    ctx,
		delay:  delay,
		ready:  make(chan string),
		timers: make(map[string]*time.Timer),
	}
}

// touch restarts the quiet period of path.
func (d *debouncer) touch(path string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if t, ok := d.timers[path]; ok && t.Stop() {
		t.Reset(d.delay)
		return
	}

	var t *time.Timer
	t = time.AfterFunc(d.delay, func() {
		d.mu.Lock()
		current := d.timers[path] == t
		if current {
			delete(d.timers, path)
		}
		d.mu.Unlock()
		if !current {
			return
		}
		select {
		case d.ready <- path:
		case <-d.ctx.Done():
		}
	})
	d.timers[path] = t
}

// stop cancels every pending path.
func (d *debouncer) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for path, t := range d.timers {
		t.Stop()
		delete(d.timers, path)
	}
}
