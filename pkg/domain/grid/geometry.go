package grid

import (
	"math"
	"time"
)

// SnapMode selects how a pointer-derived time is quantized to the snap
// interval.
type SnapMode int

const (
	// SnapFloor truncates down to the containing snap block. Used for the
	// anchor of a new interval, so the block the user is visually inside is
	// the one selected.
	SnapFloor SnapMode = iota
	// SnapRound rounds half-up to the nearest snap boundary. Used for the
	// live endpoint while dragging, so the far edge rubber-bands to the
	// nearest boundary instead of jumping backward.
	SnapRound
)

// Geometry converts between wall-clock time and vertical screen space for a
// time grid. The zero value is not usable; call Normalize to fill defaults.
type Geometry struct {
	StartHour      int     // first visible hour, inclusive
	EndHour        int     // last visible hour, exclusive
	CellHeight     float64 // pixels per hour
	SnapMinutes    int     // quantization granularity
	MinEventHeight float64 // floor so short events stay clickable

	// Density thresholds in pixels. Must stay monotonic:
	// FullDetailMin >= TimeMin >= TitleMin.
	FullDetailMin float64
	TimeMin       float64
	TitleMin      float64
}

// Normalize fills zero fields with the standard defaults.
func (g Geometry) Normalize() Geometry {
	if g.EndHour <= g.StartHour {
		g.StartHour = 0
		g.EndHour = 24
	}
	if g.CellHeight <= 0 {
		g.CellHeight = 80
	}
	if g.SnapMinutes <= 0 {
		g.SnapMinutes = 15
	}
	if g.MinEventHeight <= 0 {
		g.MinEventHeight = 20
	}
	if g.FullDetailMin <= 0 {
		g.FullDetailMin = 50
	}
	if g.TimeMin <= 0 {
		g.TimeMin = 35
	}
	if g.TitleMin <= 0 {
		g.TitleMin = 18
	}
	return g
}

// Box is the vertical placement of an interval within a day column.
type Box struct {
	Top    float64
	Height float64
}

// Position maps an interval to its vertical box. Intervals that start
// before StartHour or end after EndHour still produce a geometry (possibly
// negative top or over-tall height); clipping is the renderer's job.
// A zero or negative duration yields the minimum height rather than an
// error.
func (g Geometry) Position(start, end time.Time) Box {
	startMin := float64(start.Hour()*60 + start.Minute())
	durMin := end.Sub(start).Minutes()

	top := (startMin - float64(g.StartHour)*60) / 60 * g.CellHeight
	height := durMin / 60 * g.CellHeight
	if height < g.MinEventHeight {
		height = g.MinEventHeight
	}

	return Box{Top: top, Height: height}
}

// TimeAt maps a pointer y coordinate (relative to the scroll container's
// viewport) back to a time of day on the given date, quantized per mode and
// clamped to the visible hour range.
func (g Geometry) TimeAt(y, scrollTop float64, day time.Time, mode SnapMode) time.Time {
	minutes := float64(g.StartHour)*60 + (y+scrollTop)/g.CellHeight*60

	snap := float64(g.SnapMinutes)
	var snapped float64
	switch mode {
	case SnapRound:
		snapped = math.Floor(minutes/snap+0.5) * snap
	default:
		snapped = math.Floor(minutes/snap) * snap
	}

	lo := float64(g.StartHour) * 60
	hi := float64(g.EndHour) * 60
	if snapped < lo {
		snapped = lo
	}
	if snapped > hi {
		snapped = hi
	}

	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	return midnight.Add(time.Duration(snapped) * time.Minute)
}

// Snap returns the snap interval as a duration.
func (g Geometry) Snap() time.Duration {
	return time.Duration(g.SnapMinutes) * time.Minute
}

// NowOffset returns the vertical offset of the given instant, and whether it
// falls inside the visible hour range. Recompute on every render pass; the
// result must not be cached.
func (g Geometry) NowOffset(now time.Time) (float64, bool) {
	minutes := float64(now.Hour()*60 + now.Minute())
	if minutes < float64(g.StartHour)*60 || minutes > float64(g.EndHour)*60 {
		return 0, false
	}
	return (minutes - float64(g.StartHour)*60) / 60 * g.CellHeight, true
}

// ColumnBounds is the horizontal extent of one day column: [Left, Right).
type ColumnBounds struct {
	Left  float64
	Right float64
}

// ColumnAt resolves a pointer x coordinate to a column index. The second
// return is false when the pointer is outside every column; callers must
// treat that as "ignore this move", not as column 0.
func ColumnAt(x float64, bounds []ColumnBounds) (int, bool) {
	for i, b := range bounds {
		if x >= b.Left && x < b.Right {
			return i, true
		}
	}
	return 0, false
}

// Density is the level of detail an event box can legibly show.
type Density int

const (
	// DensityMinimal shows only a colored indicator, no text.
	DensityMinimal Density = iota
	// DensityTitle shows the title only.
	DensityTitle
	// DensityTime shows title and time range.
	DensityTime
	// DensityFull shows title, time range and duration.
	DensityFull
)

// DensityFor maps a rendered pixel height to its level of detail. The
// mapping is monotonic: more height never hides something visible at lesser
// height.
func (g Geometry) DensityFor(height float64) Density {
	switch {
	case height >= g.FullDetailMin:
		return DensityFull
	case height >= g.TimeMin:
		return DensityTime
	case height >= g.TitleMin:
		return DensityTitle
	default:
		return DensityMinimal
	}
}
