package layout

// Collider is called for each pair of visible, intersecting entries. higher
// always comes later in priority order than lower.
type Collider func(higher, lower *Entry)

// Collide scans entries from the highest priority down and calls fn for
// every visible pair whose boxes intersect. Once an outer entry is hidden,
// its remaining candidates are skipped.
func Collide(entries []*Entry, fn Collider) {
	for i := len(entries) - 1; i >= 0; i-- {
		s0 := entries[i]
		for j := i - 1; j >= 0 && s0.visible; j-- {
			s1 := entries[j]
			if s1.visible && s0.box.Intersects(s1.box) {
				fn(s0, s1)
			}
		}
	}
}

// HideLower is the default overlap policy. The lower entry is hidden when it
// is hidable. Otherwise a hidable higher entry gives way to it, so a label
// that cannot hide always wins. Two non-hidable entries both stay visible.
func HideLower(higher, lower *Entry) {
	switch {
	case lower.hidable:
		lower.visible = false
	case higher.hidable:
		higher.visible = false
	}
}
