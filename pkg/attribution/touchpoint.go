package attribution

import (
	"fmt"
	"slices"
)

// Touchpoint is a revealed ad exposure: a click or a view.
type Touchpoint struct {
	ID      int64
	IsClick bool
	TS      int64
}

// NewTouchpoint returns a touchpoint with the given fields.
func NewTouchpoint(id int64, isClick bool, ts int64) Touchpoint {
	return Touchpoint{ID: id, IsClick: isClick, TS: ts}
}

// Equal reports whether tp and o carry the same ID. Type and timestamp are
// ignored.
func (tp Touchpoint) Equal(o Touchpoint) bool {
	return tp.ID == o.ID
}

// Less orders touchpoints of the same type by timestamp. A view sorts before
// a click whatever their timestamps.
func (tp Touchpoint) Less(o Touchpoint) bool {
	if tp.IsClick == o.IsClick {
		return tp.TS < o.TS
	}
	return !tp.IsClick
}

// IsValid reports whether tp is a real touchpoint rather than a placeholder.
func (tp Touchpoint) IsValid() bool {
	return tp.TS >= 1
}

func (tp Touchpoint) String() string {
	return format(tp.IsClick, tp.ID, tp.TS)
}

func format[ID int64 | string](isClick bool, id ID, ts int64) string {
	kind := "View"
	if isClick {
		kind = "Click"
	}
	return fmt.Sprintf("%s{id=%v, ts=%d}", kind, id, ts)
}

// SortTouchpoints sorts tps by Less, keeping the input order of equivalent
// elements.
func SortTouchpoints(tps []Touchpoint) {
	slices.SortStableFunc(tps, func(a, b Touchpoint) int {
		switch {
		case a.Less(b):
			return -1
		case b.Less(a):
			return 1
		default:
			return 0
		}
	})
}
