package board

import "workroll/domain"

// Slot addresses an index inside a bucket.
type Slot struct {
	Bucket domain.Status `json:"bucket"`
	Index  int           `json:"index"`
}

// Move is a single drag gesture. A nil Destination means the drag was
// dropped outside any column.
type Move struct {
	Source      Slot  `json:"source"`
	Destination *Slot `json:"destination,omitempty"`
}

func (m Move) crossBucket() bool {
	return m.Destination != nil && m.Source.Bucket != m.Destination.Bucket
}

func (m Move) identity() bool {
	return m.Destination != nil && *m.Destination == m.Source
}

// Outcome classifies what Reconcile did with a move.
type Outcome int

const (
	// OutcomeApplied means the board changed.
	OutcomeApplied Outcome = iota
	// OutcomeCancelled means the move had no destination.
	OutcomeCancelled
	// OutcomeUnchanged means the item was dropped back on its own slot.
	OutcomeUnchanged
	// OutcomeRejected means the move did not match the board, usually
	// because the client view was out of date.
	OutcomeRejected
)

func (o Outcome) String() string {
	switch o {
	case OutcomeApplied:
		return "applied"
	case OutcomeCancelled:
		return "cancelled"
	case OutcomeUnchanged:
		return "unchanged"
	case OutcomeRejected:
		return "rejected"
	}
	return "unknown"
}

// Result reports the outcome of Reconcile.
type Result struct {
	Outcome Outcome
	// Moved is the item after the move. Only set when Outcome is OutcomeApplied.
	Moved Item
	// Reason explains a rejection.
	Reason string
}

// Reconcile applies m to b and returns the resulting board. Positions in the
// destination bucket, and in the source bucket when the item changed buckets,
// are reassigned with PositionFor. When the move is cancelled, a no-op or
// rejected, b itself is returned.
func Reconcile(b Board, m Move) (Board, Result) {
	if m.Destination == nil {
		return b, Result{Outcome: OutcomeCancelled}
	}
	src, dst := m.Source, *m.Destination
	if !src.Bucket.Valid() || !dst.Bucket.Valid() {
		return b, Result{Outcome: OutcomeRejected, Reason: "unknown bucket"}
	}
	srcCol := b.column(src.Bucket)
	if src.Index < 0 || src.Index >= len(srcCol) {
		return b, Result{Outcome: OutcomeRejected, Reason: "no item at source index"}
	}
	if m.identity() {
		return b, Result{Outcome: OutcomeUnchanged}
	}

	remaining := make([]Item, 0, len(srcCol)-1)
	remaining = append(remaining, srcCol[:src.Index]...)
	remaining = append(remaining, srcCol[src.Index+1:]...)
	moved := srcCol[src.Index]
	if moved.ID == "" {
		return b, Result{Outcome: OutcomeRejected, Reason: "empty item at source index"}
	}
	moved.Bucket = dst.Bucket

	var dstCol []Item
	if m.crossBucket() {
		dstCol = b.Column(dst.Bucket)
	} else {
		dstCol = remaining
	}
	at := min(max(dst.Index, 0), len(dstCol))
	dstCol = append(dstCol[:at], append([]Item{moved}, dstCol[at:]...)...)
	renumber(dstCol)

	out := b.with(dst.Bucket, dstCol)
	if m.crossBucket() {
		renumber(remaining)
		out = out.with(src.Bucket, remaining)
	}
	moved.Position = dstCol[at].Position
	return out, Result{Outcome: OutcomeApplied, Moved: moved}
}

func renumber(col []Item) {
	for i := range col {
		col[i].Position = PositionFor(i)
	}
}
