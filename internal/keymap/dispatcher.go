package keymap

import (
	"strings"
	"time"
)

// DefaultSequenceTimeout is how long a partial sequence waits for its next
// chord.
const DefaultSequenceTimeout = time.Second

// Dispatcher matches incoming chords against a Map and runs the handler
// registered for the matched action. Chords that start a longer binding
// are buffered until the sequence completes, breaks, or times out.
type Dispatcher struct {
	keys     Map
	handlers map[Action]func()
	pending  Sequence
	last     time.Time
	timeout  time.Duration
	now      func() time.Time
}

// NewDispatcher creates a dispatcher over keys.
func NewDispatcher(keys Map) *Dispatcher {
	return &Dispatcher{
		keys:     keys,
		handlers: make(map[Action]func()),
		timeout:  DefaultSequenceTimeout,
		now:      time.Now,
	}
}

// Handle registers fn for a, replacing any previous handler.
func (d *Dispatcher) Handle(a Action, fn func()) {
	d.handlers[a] = fn
}

// Press feeds one chord. It returns the matched action, if any. The
// handler runs when one is registered.
func (d *Dispatcher) Press(c Chord) (Action, bool) {
	now := d.now()
	if len(d.pending) > 0 && now.Sub(d.last) > d.timeout {
		d.pending = nil
	}
	d.last = now

	seq := append(append(Sequence(nil), d.pending...), c)
	if a, ok := d.match(seq); ok {
		return a, true
	}
	if d.isPrefix(seq) {
		d.pending = seq
		return "", false
	}

	// The buffered chords led nowhere; retry c on its own.
	d.pending = nil
	if len(seq) > 1 {
		if a, ok := d.match(Sequence{c}); ok {
			return a, true
		}
		if d.isPrefix(Sequence{c}) {
			d.pending = Sequence{c}
		}
	}
	return "", false
}

// PressString parses chord and feeds it.
func (d *Dispatcher) PressString(chord string) (Action, bool, error) {
	c, err := ParseChord(chord)
	if err != nil {
		return "", false, err
	}
	a, ok := d.Press(c)
	return a, ok, nil
}

// Pending returns the buffered partial sequence.
func (d *Dispatcher) Pending() Sequence { return append(Sequence(nil), d.pending...) }

// Reset drops any buffered chords.
func (d *Dispatcher) Reset() { d.pending = nil }

func (d *Dispatcher) match(seq Sequence) (Action, bool) {
	a, ok := d.keys[seq.String()]
	if !ok {
		return "", false
	}
	d.pending = nil
	if fn := d.handlers[a]; fn != nil {
		fn()
	}
	return a, true
}

func (d *Dispatcher) isPrefix(seq Sequence) bool {
	prefix := seq.String() + " "
	for k := range d.keys {
		if strings.HasPrefix(k, prefix) {
			return true
		}
	}
	return false
}
