package grid

import "time"

// Interval is any entity occupying a half-open time range [Start, End).
type Interval interface {
	Start() time.Time
	End() time.Time
}

// Span is a plain Interval value.
type Span struct {
	From time.Time
	To   time.Time
}

func (s Span) Start() time.Time { return s.From }
func (s Span) End() time.Time   { return s.To }

// Duration returns the span length. Negative for reversed bounds.
func (s Span) Duration() time.Duration { return s.To.Sub(s.From) }

// Overlaps reports whether two half-open intervals intersect. An interval
// ending exactly when another begins does not overlap.
func Overlaps(a, b Interval) bool {
	return a.Start().Before(b.End()) && a.End().After(b.Start())
}

// SameDay reports whether two instants fall on the same calendar day in
// their own locations.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// GroupOverlapping partitions intervals into groups by greedy first-fit: an
// interval joins the first existing group it overlaps any member of,
// otherwise it starts a new one. This is an approximation, not a transitive
// closure over the interval graph, and the result depends on input order.
// Use it only for advisory layout width-splitting, never for
// correctness-critical decisions.
func GroupOverlapping(intervals []Interval) [][]Interval {
	var groups [][]Interval

next:
	for _, iv := range intervals {
		for gi, group := range groups {
			for _, member := range group {
				if Overlaps(iv, member) {
					groups[gi] = append(groups[gi], iv)
					continue next
				}
			}
		}
		groups = append(groups, []Interval{iv})
	}

	return groups
}
