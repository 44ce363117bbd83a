package keymap

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseChord(t *testing.T) {
	tests := []struct {
		in   string
		want Chord
		str  string
	}{
		{"Control+C", Chord{Key: "C", Ctrl: true}, "Control+C"},
		{"ctrl+shift+z", Chord{Key: "Z", Ctrl: true, Shift: true}, "Control+Shift+Z"},
		{"Shift+Cmd+g", Chord{Key: "G", Shift: true, Meta: true}, "Meta+Shift+G"},
		{"Delete", Chord{Key: "Delete"}, "Delete"},
		{"esc", Chord{Key: "Escape"}, "Escape"},
		{"Alt+left", Chord{Key: "ArrowLeft", Alt: true}, "Alt+ArrowLeft"},
		{"Control++", Chord{Key: "+", Ctrl: true}, "Control++"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			c, err := ParseChord(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, c)
			assert.Equal(t, tt.str, c.String())
		})
	}

	for _, bad := range []string{"", "Hyper+X", "Control+"} {
		_, err := ParseChord(bad)
		assert.Error(t, err, bad)
	}
}

func TestDefaultMap(t *testing.T) {
	m := Default()
	assert.Equal(t, ActionCopy, m["Control+C"])
	assert.Equal(t, ActionCopy, m["Meta+C"])
	assert.Equal(t, ActionRedo, m["Control+Shift+Z"])
	assert.Equal(t, ActionUngroup, m["Meta+Shift+G"])
	assert.Equal(t, ActionDelete, m["Backspace"])
	assert.Equal(t, ActionNudgeUpLarge, m["Shift+ArrowUp"])
}

func TestDispatcherRunsHandlers(t *testing.T) {
	d := NewDispatcher(Default())
	var ran []Action
	for _, a := range []Action{ActionCopy, ActionPaste, ActionDelete} {
		d.Handle(a, func() { ran = append(ran, a) })
	}

	for _, k := range []string{"Control+C", "Meta+V", "Delete", "Control+Q"} {
		_, _, err := d.PressString(k)
		require.NoError(t, err)
	}
	assert.Equal(t, []Action{ActionCopy, ActionPaste, ActionDelete}, ran)

	a, ok, err := d.PressString("Control+Z")
	require.NoError(t, err)
	assert.True(t, ok, "matched without a handler")
	assert.Equal(t, ActionUndo, a)
}

func TestDispatcherSequences(t *testing.T) {
	m := Map{}
	m.MustBind("G G", ActionGroup).MustBind("G U", ActionUngroup).MustBind("X", ActionDelete)
	d := NewDispatcher(m)

	clock := time.Unix(0, 0)
	d.now = func() time.Time { return clock }

	press := func(k string) (Action, bool) {
		a, ok, err := d.PressString(k)
		require.NoError(t, err)
		return a, ok
	}

	_, ok := press("g")
	assert.False(t, ok)
	assert.Equal(t, "G", d.Pending().String())
	a, ok := press("g")
	assert.True(t, ok)
	assert.Equal(t, ActionGroup, a)
	assert.Empty(t, d.Pending())

	// A broken sequence retries the last chord alone.
	press("G")
	a, ok = press("X")
	assert.True(t, ok)
	assert.Equal(t, ActionDelete, a)

	// A stale prefix is dropped after the timeout.
	press("G")
	clock = clock.Add(2 * DefaultSequenceTimeout)
	_, ok = press("U")
	assert.False(t, ok)
	assert.Empty(t, d.Pending())

	press("G")
	d.Reset()
	_, ok = press("G")
	assert.False(t, ok)
}

func TestSpaceKeyInSequences(t *testing.T) {
	for _, in := range []string{"Space", "space", " ", "Spacebar"} {
		c, err := ParseChord(in)
		require.NoError(t, err, in)
		assert.Equal(t, "Space", c.Key, in)
	}

	m := Map{}
	m.MustBind("Space Space", ActionSelectAll).MustBind("Shift+Space", ActionDeselect)
	assert.Equal(t, ActionSelectAll, m["Space Space"])

	d := NewDispatcher(m)
	_, ok, err := d.PressString(" ")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, "Space", d.Pending().String())
	a, ok, err := d.PressString("space")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ActionSelectAll, a)

	a, ok, err = d.PressString("Shift+Space")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, ActionDeselect, a)
}
