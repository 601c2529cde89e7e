package grid

import "time"

// Placed is one interval positioned inside a day column.
type Placed struct {
	Item    Interval
	Box     Box
	Density Density
	Draft   bool

	// Side-by-side assignment inside an overlap group: this item occupies
	// lane Lane of Lanes. Advisory only (see GroupOverlapping).
	Lane  int
	Lanes int
}

// DayColumn selects the intervals whose start instant falls on day, places
// each one, and appends the draft (when its date matches) with Draft=true.
// Committed items keep their input order within each overlap group.
func DayColumn(day time.Time, items []Interval, draft Interval, geo Geometry) []Placed {
	geo = geo.Normalize()

	var visible []Interval
	for _, it := range items {
		if SameDay(it.Start(), day) {
			visible = append(visible, it)
		}
	}

	var placed []Placed
	for _, group := range GroupOverlapping(visible) {
		for lane, it := range group {
			box := geo.Position(it.Start(), it.End())
			placed = append(placed, Placed{
				Item:    it,
				Box:     box,
				Density: geo.DensityFor(box.Height),
				Lane:    lane,
				Lanes:   len(group),
			})
		}
	}

	if draft != nil && SameDay(draft.Start(), day) {
		box := geo.Position(draft.Start(), draft.End())
		placed = append(placed, Placed{
			Item:    draft,
			Box:     box,
			Density: geo.DensityFor(box.Height),
			Draft:   true,
			Lanes:   1,
		})
	}

	return placed
}

// NowIndicator returns the offset of the current-time line for one column.
// ok is false unless now falls on the column's day and inside the visible
// hour range.
func NowIndicator(day, now time.Time, geo Geometry) (offset float64, ok bool) {
	if !SameDay(day, now) {
		return 0, false
	}
	return geo.Normalize().NowOffset(now)
}
