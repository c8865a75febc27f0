package timerange

import (
	"errors"
	"time"
)

var (
	ErrInvalidRange = errors.New("timerange: end must be after start")
)

// Boundary selects how two ranges that touch at an endpoint are treated.
type Boundary string

const (
	// BoundaryHalfOpen treats ranges as [start, end): a range ending exactly
	// when another starts does not conflict.
	BoundaryHalfOpen Boundary = "HALF_OPEN"
	// BoundaryClosed treats endpoints as inclusive: touching ranges conflict,
	// forcing a gap between consecutive reservations.
	BoundaryClosed Boundary = "CLOSED"
)

// TimeRange represents a half-open interval [Start, End) in UTC.
type TimeRange struct {
	Start time.Time
	End   time.Time
}

func New(start, end time.Time) (TimeRange, error) {
	tr := TimeRange{Start: start.UTC(), End: end.UTC()}
	if err := tr.Validate(); err != nil {
		return TimeRange{}, err
	}
	return tr, nil
}

// Must builds a TimeRange and panics on invalid bounds; for tests and fixtures.
func Must(start, end time.Time) TimeRange {
	tr, err := New(start, end)
	if err != nil {
		panic(err)
	}
	return tr
}

func (tr TimeRange) Validate() error {
	if tr.Start.IsZero() || tr.End.IsZero() {
		return ErrInvalidRange
	}
	if !tr.End.After(tr.Start) {
		return ErrInvalidRange
	}
	return nil
}

func (tr TimeRange) Duration() time.Duration {
	return tr.End.Sub(tr.Start)
}

func (tr TimeRange) Hours() float64 {
	return tr.Duration().Hours()
}

// Overlaps reports whether tr and other conflict under the given boundary
// policy.
func (tr TimeRange) Overlaps(other TimeRange, boundary Boundary) bool {
	if boundary == BoundaryClosed {
		return !tr.Start.After(other.End) && !other.Start.After(tr.End)
	}
	return tr.Start.Before(other.End) && other.Start.Before(tr.End)
}

// Contains reports whether t falls inside the half-open interval.
func (tr TimeRange) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(tr.Start) && t.Before(tr.End)
}

// Pad expands the range outward on both sides; used to bound storage queries
// around a candidate interval.
func (tr TimeRange) Pad(d time.Duration) TimeRange {
	return TimeRange{Start: tr.Start.Add(-d), End: tr.End.Add(d)}
}

// ExtendEnd pushes the end of the range forward by d.
func (tr TimeRange) ExtendEnd(d time.Duration) TimeRange {
	return TimeRange{Start: tr.Start, End: tr.End.Add(d)}
}

// ExtendStart pulls the start of the range backward by d.
func (tr TimeRange) ExtendStart(d time.Duration) TimeRange {
	return TimeRange{Start: tr.Start.Add(-d), End: tr.End}
}

func (tr TimeRange) Equal(other TimeRange) bool {
	return tr.Start.Equal(other.Start) && tr.End.Equal(other.End)
}

// ConflictsWithAny reports whether candidate conflicts with at least one of
// the existing ranges. Pure and O(n).
func ConflictsWithAny(candidate TimeRange, existing []TimeRange, boundary Boundary) bool {
	for _, r := range existing {
		if candidate.Overlaps(r, boundary) {
			return true
		}
	}
	return false
}

// ParseBoundary maps a configuration value onto a Boundary, defaulting to
// half-open semantics.
func ParseBoundary(raw string) Boundary {
	if Boundary(raw) == BoundaryClosed {
		return BoundaryClosed
	}
	return BoundaryHalfOpen
}
