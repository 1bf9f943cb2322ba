package board

const (
	// PositionStep is the gap left between neighbouring items.
	PositionStep = 1000
	// MaxPosition caps allocated positions. Indexes from 999 upward all map
	// here, so very long columns can hold duplicate positions.
	MaxPosition = 1_000_000
)

// PositionFor maps a zero-based index within a column to a stored position.
func PositionFor(index int) int {
	if index >= MaxPosition/PositionStep {
		return MaxPosition
	}
	return (index + 1) * PositionStep
}
