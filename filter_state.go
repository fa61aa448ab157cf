package viewerprefs

import "sync"

// FilterState is the observable slot every saved or loaded short-video filter
// is published to. Consumers either read Current or Subscribe to changes.
// It is safe for concurrent use.
type FilterState struct {
	mu      sync.RWMutex
	current DurationFilter
	set     bool
	subs    map[int]chan DurationFilter
	nextID  int
}

// NewFilterState returns an empty FilterState.
func NewFilterState() *FilterState {
	return &FilterState{
		subs: make(map[int]chan DurationFilter),
	}
}

// Publish replaces the current filter and notifies subscribers.
// A subscriber whose buffer is full misses the update; Publish never blocks.
func (fs *FilterState) Publish(f DurationFilter) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.current = f
	fs.set = true
	for _, ch := range fs.subs {
		select {
		case ch <- f:
		default:
		}
	}
}

// Current returns the last published filter. ok is false until the first Publish.
func (fs *FilterState) Current() (f DurationFilter, ok bool) {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return fs.current, fs.set
}

// Subscribe registers a listener with the given channel buffer (minimum 1).
// The returned cancel func unregisters it and closes the channel; it is safe to call twice.
func (fs *FilterState) Subscribe(buffer int) (<-chan DurationFilter, func()) {
	if buffer < 1 {
		buffer = 1
	}
	ch := make(chan DurationFilter, buffer)

	fs.mu.Lock()
	id := fs.nextID
	fs.nextID++
	fs.subs[id] = ch
	fs.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			fs.mu.Lock()
			delete(fs.subs, id)
			fs.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers returns the number of registered listeners.
func (fs *FilterState) Subscribers() int {
	fs.mu.RLock()
	defer fs.mu.RUnlock()
	return len(fs.subs)
}
