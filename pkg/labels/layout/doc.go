// Package layout positions chart labels and resolves overlaps between them.
//
// The [Engine] owns one [Entry] per label. Entries are created by
// [Engine.Prepare], sorted into priority order once, and reused by every
// later [Engine.Update], [Engine.Draw] and [Engine.Lookup] until the next
// Prepare.
//
// # Priority
//
// Labels are sorted by data index descending, then dataset index descending.
// Later entries in the sorted slice have higher priority: they are protected
// first when overlaps are resolved and picked first by Lookup.
//
// # Two phases
//
// Update measures labels from the element's model phase (the animation
// target) so hide/show decisions stay stable across an animation. Draw
// recomputes the exact position from the view phase (what is on screen this
// frame) and hands it to the label.
//
// # Overlaps
//
// Only labels whose display mode is [DisplayAuto] can be hidden. When no
// label is hidable, Update skips box computation entirely. Otherwise every
// visible label gets a fresh [hitbox.HitBox] and [Collide] scans pairs from
// the highest priority down, calling [HideLower] for each intersecting pair.
// A label only moves from visible to hidden during one Update; the next
// Update starts again from each label's own visibility.
//
// # Margin negotiation
//
// [Engine.AdjustLayout] measures how far drawn labels reach past the canvas
// and asks the chart for more layout padding. It is debounced through a
// [Scheduler] and guarded per chart: a new round is only armed once the
// caller closed the previous one with [Engine.ClearAdjusted].
//
// # Example
//
//	engine := layout.New(layout.WithLogger(logger))
//	entries := engine.Prepare(datasets)
//	engine.Draw(chart, entries)
//	if e := engine.Lookup(entries, cursor); e != nil {
//	    fmt.Println("hovering", e.Set(), e.Index())
//	}
package layout
