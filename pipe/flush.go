package pipe

// Flush tags a stream element as either an ordinary chunk of data or an
// explicit flush marker, letting downstream stages distinguish "more data
// coming" from "emit what you have now".
type Flush[A any] struct {
	value  A
	marker bool
}

// Chunk wraps an ordinary data element.
func Chunk[A any](v A) Flush[A] {
	return Flush[A]{value: v}
}

// FlushMarker is the explicit flush control marker.
func FlushMarker[A any]() Flush[A] {
	return Flush[A]{marker: true}
}

// IsFlush reports whether the element is the flush marker.
func (f Flush[A]) IsFlush() bool {
	return f.marker
}

// Value returns the wrapped data element; ok is false for the flush
// marker.
func (f Flush[A]) Value() (A, bool) {
	return f.value, !f.marker
}
