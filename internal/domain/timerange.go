package domain

import "time"

// TimeRange represents a half-open time interval [Start, End)
type TimeRange struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two half-open intervals actually intersect.
// Строгие неравенства: интервалы, граничащие в одной точке, НЕ пересекаются
// (запись 10:00-11:00 и слот 11:00-12:00 совместимы).
// Интервалы нулевой или отрицательной длины не пересекаются ни с чем.
func (r TimeRange) Overlaps(other TimeRange) bool {
	if !r.IsValid() || !other.IsValid() {
		return false
	}
	return r.Start.Before(other.End) && other.Start.Before(r.End)
}

// IsValid reports whether the interval has positive duration
func (r TimeRange) IsValid() bool {
	return r.Start.Before(r.End)
}

// Duration returns the length of the interval
func (r TimeRange) Duration() time.Duration {
	return r.End.Sub(r.Start)
}

// Contains reports whether other lies fully within r
func (r TimeRange) Contains(other TimeRange) bool {
	return !other.Start.Before(r.Start) && !other.End.After(r.End)
}

// NewSlotRange builds the [start, start+duration) interval of a candidate slot
func NewSlotRange(start time.Time, durationMinutes int) TimeRange {
	return TimeRange{
		Start: start,
		End:   start.Add(time.Duration(durationMinutes) * time.Minute),
	}
}
