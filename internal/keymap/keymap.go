package keymap

import (
	"fmt"
	"strings"
)

// Action names an editor operation bound to a key sequence.
type Action string

const (
	ActionDelete          Action = "delete"
	ActionCopy            Action = "copy"
	ActionCut             Action = "cut"
	ActionPaste           Action = "paste"
	ActionUndo            Action = "undo"
	ActionRedo            Action = "redo"
	ActionGroup           Action = "group"
	ActionUngroup         Action = "ungroup"
	ActionSelectAll       Action = "select-all"
	ActionDeselect        Action = "deselect"
	ActionNudgeLeft       Action = "nudge-left"
	ActionNudgeRight      Action = "nudge-right"
	ActionNudgeUp         Action = "nudge-up"
	ActionNudgeDown       Action = "nudge-down"
	ActionNudgeLeftLarge  Action = "nudge-left-large"
	ActionNudgeRightLarge Action = "nudge-right-large"
	ActionNudgeUpLarge    Action = "nudge-up-large"
	ActionNudgeDownLarge  Action = "nudge-down-large"
)

// Chord is one key press with its modifiers.
type Chord struct {
	Key   string
	Ctrl  bool
	Alt   bool
	Shift bool
	Meta  bool
}

var modifierNames = map[string]string{
	"control": "ctrl", "ctrl": "ctrl",
	"alt": "alt", "option": "alt",
	"shift": "shift",
	"meta": "meta", "cmd": "meta", "command": "meta", "super": "meta",
}

var keyAliases = map[string]string{
	"esc":      "Escape",
	"del":      "Delete",
	"left":     "ArrowLeft",
	"right":    "ArrowRight",
	"up":       "ArrowUp",
	"down":     "ArrowDown",
	"space":    "Space",
	"spacebar": "Space",
	" ":        "Space",
}

// ParseChord parses "Control+Shift+Z" style chords. Modifier names are
// case-insensitive; single letters are upper-cased. The space bar is
// "Space", since a literal space separates chords in a sequence.
func ParseChord(s string) (Chord, error) {
	if s == " " {
		return Chord{Key: "Space"}, nil
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return Chord{}, fmt.Errorf("empty chord")
	}
	parts := strings.Split(s, "+")
	// A trailing "+" is the plus key itself.
	if strings.HasSuffix(s, "++") || s == "+" {
		parts = append(parts[:len(parts)-2], "+")
	}

	var c Chord
	for i, p := range parts {
		last := i == len(parts)-1
		if !last {
			switch modifierNames[strings.ToLower(p)] {
			case "ctrl":
				c.Ctrl = true
			case "alt":
				c.Alt = true
			case "shift":
				c.Shift = true
			case "meta":
				c.Meta = true
			default:
				return Chord{}, fmt.Errorf("chord %q: unknown modifier %q", s, p)
			}
			continue
		}
		if p == "" {
			return Chord{}, fmt.Errorf("chord %q: missing key", s)
		}
		c.Key = NormalizeKey(p)
	}
	return c, nil
}

// NormalizeKey maps a key name to its canonical form.
func NormalizeKey(k string) string {
	if alias, ok := keyAliases[strings.ToLower(k)]; ok {
		return alias
	}
	if len(k) == 1 {
		return strings.ToUpper(k)
	}
	return k
}

// String renders the chord in canonical modifier order.
func (c Chord) String() string {
	var b strings.Builder
	if c.Ctrl {
		b.WriteString("Control+")
	}
	if c.Meta {
		b.WriteString("Meta+")
	}
	if c.Alt {
		b.WriteString("Alt+")
	}
	if c.Shift {
		b.WriteString("Shift+")
	}
	b.WriteString(c.Key)
	return b.String()
}

// Sequence is an ordered run of chords, like "G G".
type Sequence []Chord

// ParseSequence parses space-separated chords.
func ParseSequence(s string) (Sequence, error) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil, fmt.Errorf("empty key sequence")
	}
	seq := make(Sequence, 0, len(fields))
	for _, f := range fields {
		c, err := ParseChord(f)
		if err != nil {
			return nil, err
		}
		seq = append(seq, c)
	}
	return seq, nil
}

func (s Sequence) String() string {
	parts := make([]string, len(s))
	for i, c := range s {
		parts[i] = c.String()
	}
	return strings.Join(parts, " ")
}

// Map binds key sequences, in their string form, to actions.
type Map map[string]Action

// Bind parses seq and binds it to a.
func (m Map) Bind(seq string, a Action) error {
	parsed, err := ParseSequence(seq)
	if err != nil {
		return err
	}
	m[parsed.String()] = a
	return nil
}

// MustBind is Bind for static tables.
func (m Map) MustBind(seq string, a Action) Map {
	if err := m.Bind(seq, a); err != nil {
		panic(err)
	}
	return m
}

// Default is the stock shortcut table. Control and Meta variants are both
// bound so it works on every platform.
func Default() Map {
	m := Map{}
	for _, mod := range []string{"Control", "Meta"} {
		m.MustBind(mod+"+C", ActionCopy).
			MustBind(mod+"+X", ActionCut).
			MustBind(mod+"+V", ActionPaste).
			MustBind(mod+"+Z", ActionUndo).
			MustBind(mod+"+Shift+Z", ActionRedo).
			MustBind(mod+"+G", ActionGroup).
			MustBind(mod+"+Shift+G", ActionUngroup).
			MustBind(mod+"+A", ActionSelectAll)
	}
	return m.MustBind("Control+Y", ActionRedo).
		MustBind("Delete", ActionDelete).
		MustBind("Backspace", ActionDelete).
		MustBind("Escape", ActionDeselect).
		MustBind("ArrowLeft", ActionNudgeLeft).
		MustBind("ArrowRight", ActionNudgeRight).
		MustBind("ArrowUp", ActionNudgeUp).
		MustBind("ArrowDown", ActionNudgeDown).
		MustBind("Shift+ArrowLeft", ActionNudgeLeftLarge).
		MustBind("Shift+ArrowRight", ActionNudgeRightLarge).
		MustBind("Shift+ArrowUp", ActionNudgeUpLarge).
		MustBind("Shift+ArrowDown", ActionNudgeDownLarge)
}
