package state

// History is a fixed-capacity, insertion-ordered ring buffer. Once full, each
// append evicts the oldest entry. It is not safe for concurrent use; State
// guards it with its own lock.
type History[T any] struct {
	buf   []T
	start int
	size  int
}

// NewHistory allocates a ring with the given capacity.
func NewHistory[T any](capacity int) *History[T] {
	if capacity <= 0 {
		panic("history capacity must be positive")
	}
	return &History[T]{buf: make([]T, capacity)}
}

// Append stores v as the newest entry, evicting the oldest when full.
func (h *History[T]) Append(v T) {
	if h.size < len(h.buf) {
		h.buf[(h.start+h.size)%len(h.buf)] = v
		h.size++
		return
	}
	h.buf[h.start] = v
	h.start = (h.start + 1) % len(h.buf)
}

// Len returns the number of stored entries.
func (h *History[T]) Len() int {
	return h.size
}

// Cap returns the ring capacity.
func (h *History[T]) Cap() int {
	return len(h.buf)
}

// Newest returns the most recently appended entry.
func (h *History[T]) Newest() (T, bool) {
	var zero T
	if h.size == 0 {
		return zero, false
	}
	return h.buf[(h.start+h.size-1)%len(h.buf)], true
}

// Items copies out all entries ordered oldest to newest.
func (h *History[T]) Items() []T {
	out := make([]T, 0, h.size)
	for i := 0; i < h.size; i++ {
		out = append(out, h.buf[(h.start+i)%len(h.buf)])
	}
	return out
}
