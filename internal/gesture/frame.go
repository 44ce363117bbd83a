package gesture

// FrameQueue coalesces work to at most one callback per animation frame.
// A new request replaces the pending one; the host calls Flush once per
// frame.
type FrameQueue struct {
	pending func()
}

// Request schedules fn for the next frame, replacing any pending callback.
func (q *FrameQueue) Request(fn func()) {
	q.pending = fn
}

// Flush runs the pending callback, if any, and reports whether one ran.
func (q *FrameQueue) Flush() bool {
	fn := q.pending
	if fn == nil {
		return false
	}
	q.pending = nil
	fn()
	return true
}

// Cancel drops the pending callback.
func (q *FrameQueue) Cancel() { q.pending = nil }

// Pending reports whether a callback is waiting for the next frame.
func (q *FrameQueue) Pending() bool { return q.pending != nil }
