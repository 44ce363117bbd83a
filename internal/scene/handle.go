package scene

import (
	"fmt"
	"strings"
)

// Handle identifies one of the eight resize control points of a node or
// selection, in the node's local (rotated) frame.
type Handle int

const (
	HandleTopLeft Handle = iota
	HandleTop
	HandleTopRight
	HandleRight
	HandleBottomRight
	HandleBottom
	HandleBottomLeft
	HandleLeft
)

// Handles lists every handle clockwise from the top-left corner.
var Handles = [...]Handle{
	HandleTopLeft, HandleTop, HandleTopRight, HandleRight,
	HandleBottomRight, HandleBottom, HandleBottomLeft, HandleLeft,
}

var handleNames = [...]string{
	"top-left", "top", "top-right", "right",
	"bottom-right", "bottom", "bottom-left", "left",
}

func (h Handle) String() string {
	if h < 0 || int(h) >= len(handleNames) {
		return fmt.Sprintf("Handle(%d)", int(h))
	}
	return handleNames[h]
}

// ParseHandle parses the String form of a handle.
func ParseHandle(s string) (Handle, error) {
	for i, name := range handleNames {
		if strings.EqualFold(name, s) {
			return Handle(i), nil
		}
	}
	return 0, fmt.Errorf("unknown handle %q", s)
}

// Signs returns the direction of the handle along the local X and Y axes:
// -1 for left/top, +1 for right/bottom, 0 when the handle sits on the
// middle of that axis.
func (h Handle) Signs() (sx, sy float64) {
	switch h {
	case HandleTopLeft:
		return -1, -1
	case HandleTop:
		return 0, -1
	case HandleTopRight:
		return 1, -1
	case HandleRight:
		return 1, 0
	case HandleBottomRight:
		return 1, 1
	case HandleBottom:
		return 0, 1
	case HandleBottomLeft:
		return -1, 1
	case HandleLeft:
		return -1, 0
	}
	return 0, 0
}

// Opposite returns the handle mirrored through the center.
func (h Handle) Opposite() Handle {
	return Handle((int(h) + 4) % 8)
}

// IsCorner reports whether the handle is one of the four corners.
func (h Handle) IsCorner() bool {
	sx, sy := h.Signs()
	return sx != 0 && sy != 0
}

func (h Handle) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *Handle) UnmarshalText(b []byte) error {
	parsed, err := ParseHandle(string(b))
	if err != nil {
		return err
	}
	*h = parsed
	return nil
}
